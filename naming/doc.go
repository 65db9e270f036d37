// Package naming derives safe filenames from user-supplied names and
// resolves collision-free destination paths.
//
// Format strips everything outside a conservative character set, collapses
// whitespace runs to underscores and lower-cases the extension:
//
//	naming.Format("My File!.JPG") // "My_File.jpg"
//
// Resolver probes a destination directory with deterministic numeric
// suffixes (photo.jpg, photo_1.jpg, photo_2.jpg, ...) and reserves the
// chosen name atomically, so concurrent entries resolving into the same
// directory can never claim the same path.
package naming
