// Package filetype maintains a registry of accepted file types, grouped by
// category (image, document, archive, ...), and cross-checks file extensions
// against MIME types.
//
// A Registry is constructed once at process start and shared by reference;
// it is never mutated after setup, so concurrent lookups need no locking on
// the caller's side.
//
//	reg := filetype.NewWithDefaults()
//	group, ok := reg.Lookup("jpg", "image/jpeg") // "image", true
//	_, ok = reg.Lookup("jpg", "application/pdf") // false: fails closed
//
// MIME detection prefers content inspection (magic bytes) over the
// extension table; the extension fallback is best-effort, not authoritative.
package filetype
