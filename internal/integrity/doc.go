// Package integrity computes and verifies record checksums.
//
// The digest is a cheap, non-cryptographic murmur3 hash over a
// canonical JSON serialization of the value. Its job is accidental
// corruption detection and coarse tamper detection layered on top of
// authenticated encryption, not security: collisions are a detection
// miss, never a functional bug.
package integrity
