// Package bytesize converts between human-readable size strings and byte
// counts using binary (1024-based) units.
//
// The short suffixes K, M, G and T (and their KB/MB/GB/TB forms) all denote
// binary multiples, matching how upload limits are conventionally configured:
//
//	n, err := bytesize.Parse("5M") // 5 * 1024 * 1024
//	s := bytesize.Format(n)        // "5M"
//
// Format picks the largest unit for which the value stays below 1024 and
// rounds to the nearest integer; Parse(Format(n)) can lose precision.
package bytesize
