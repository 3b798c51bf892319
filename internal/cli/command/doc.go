// Package command provides CLI command definitions for securestore.
//
// It uses urfave/cli/v2 for command parsing. Each command composes
// the storage runtime from configuration, runs one operation, and
// tears the runtime down again; the monitor command stays resident.
package command
