// Package output provides output formatting for the securestore CLI.
package output
