// Package main provides the entry point for securestore.
//
// securestore is the command-line front end for the encrypted
// key-value store: one-shot record operations plus a resident
// monitor mode.
package main
