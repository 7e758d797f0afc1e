// Package hash provides the CRC32-Castagnoli checksum used to detect torn or
// corrupted lazy-load index blobs.
//
//	sum := hash.CRC32C(data)
//	if err := hash.Verify(data, sum); err != nil { ... }
package hash
