// Package adaptive provides authenticated encryption with automatic
// algorithm selection.
//
// It picks the optimal AEAD cipher for the host: AES-256-GCM where the
// architecture carries hardware AES support, ChaCha20-Poly1305
// elsewhere. Every ciphertext is self-describing: the random per-call
// nonce is prepended to the sealed bytes, so the nonce never needs
// separate storage.
//
// All cipher operations are safe for concurrent use.
package adaptive
