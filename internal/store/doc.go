// Package store is the public facade of the secure storage subsystem.
//
// Store composes the cipher codec, the integrity checker, and backend
// selection behind four operations: SetItem, GetItem, RemoveItem, and
// Clear. No error escapes to callers: operations resolve to a boolean
// or a value, failures are logged and counted, and a record that fails
// expiry or integrity verification is deleted as a side effect of the
// read that discovered it.
//
// The encryption key is initialized lazily on the first operation that
// needs it. The expiry reaper runs once at Start and then on a timer;
// correctness never depends on sweep frequency because GetItem
// enforces expiry at read time regardless.
package store
