// Package codec turns serialized records into storable blobs and back.
//
// With a real key the blob is base64 over an AEAD ciphertext whose
// nonce is prepended, so the blob is self-describing and the nonce
// never needs separate storage. With the fallback sentinel the blob is
// plain base64: a reversible but non-secure transform that keeps the
// "store a value, get it back" contract alive without cryptography.
//
// Decode never panics: an unopenable blob gets one attempt at the
// plaintext transform before the caller sees a typed failure.
package codec
