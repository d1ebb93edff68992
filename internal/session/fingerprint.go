package session

import "hash/fnv"

// Fingerprint is a 64-bit FNV-1a hash of the UTF-8 bytes of s. It only
// detects change; it is not a security primitive.
func Fingerprint(s string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return h.Sum64()
}
