package command

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/bdc-labs/securestore-go/internal/infra/buildinfo"
)

// App creates the CLI application.
func App() *cli.App {
	return &cli.App{
		Name:    "securestore",
		Usage:   "encrypted key-value store with integrity checking and expiry",
		Version: buildinfo.String(),
		Flags:   globalFlags(),
		Commands: []*cli.Command{
			SetCommand(),
			GetCommand(),
			RemoveCommand(),
			ClearCommand(),
			SweepCommand(),
			InfoCommand(),
			MonitorCommand(),
			VersionCommand(),
		},
	}
}

// globalFlags returns the global CLI flags.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to configuration file",
			EnvVars: []string{"SECURESTORE_CONFIG"},
		},
		&cli.StringFlag{
			Name:    "data-dir",
			Aliases: []string{"d"},
			Usage:   "Persistent storage directory",
		},
		&cli.StringFlag{
			Name:  "engine",
			Usage: "Persistent engine: badger or dir",
		},
		&cli.StringFlag{
			Name:  "namespace",
			Usage: "Key prefix for this store's records",
		},
		&cli.StringFlag{
			Name: "key-policy",
			Usage: "Encryption key lifetime: session, persistent or derived. " +
				"The CLI defaults to persistent so one-shot invocations can read earlier writes",
		},
		&cli.StringFlag{
			Name:    "passphrase",
			Usage:   "Passphrase for the derived key policy",
			EnvVars: []string{"SECURESTORE_ENCRYPTION_PASSPHRASE"},
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output format: text, json",
			Value:   "text",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"V"},
			Usage:   "Enable debug logging",
		},
	}
}

// PrintError prints an error message to stderr.
func PrintError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
}
