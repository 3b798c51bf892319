// Package keyring owns the lifecycle of the record encryption key.
//
// The key is scoped to the current session by default: first
// initialization in a session generates a 256-bit key and parks its
// exported bytes in the session backend so later initializations reuse
// it instead of invalidating records written earlier in that session.
// When the cryptography provider is unavailable or any key operation
// fails, initialization yields the fallback sentinel instead of an
// error; callers degrade to the plaintext codec and never crash.
//
// Records encrypted with one session's key cannot be decrypted by a
// different key instance. Under the default policy this is a deliberate
// property (session-only confidentiality of persistent ciphertext), not
// a bug; the persistent and derived policies trade it away explicitly.
package keyring
