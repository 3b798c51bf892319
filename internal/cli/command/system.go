package command

import (
	"fmt"
	"strconv"

	"github.com/urfave/cli/v2"

	"github.com/bdc-labs/securestore-go/internal/cli/output"
	"github.com/bdc-labs/securestore-go/internal/infra/buildinfo"
)

// InfoCommand returns the info command.
func InfoCommand() *cli.Command {
	return &cli.Command{
		Name:   "info",
		Usage:  "Show security posture and storage usage",
		Action: infoAction,
	}
}

func infoAction(c *cli.Context) error {
	r, err := openRuntime(c)
	if err != nil {
		return err
	}
	defer r.Close()

	security := r.store.IsSecure(c.Context)
	usage := r.store.Info(c.Context)

	if output.Format(c.String("output")) == output.FormatJSON {
		return formatter(c).Format(c.App.Writer, map[string]any{
			"security": security,
			"storage":  usage,
		})
	}

	fmt.Fprintf(c.App.Writer, "namespace: %s\n", r.store.Namespace())
	fmt.Fprintf(c.App.Writer, "available: %v\nencrypted: %v\ntransport: %v\nsecure:    %v\n\n",
		security.Available, security.Encrypted, security.Transport, security.Secure)

	table := &output.Table{Headers: []string{"BACKEND", "ITEMS", "BYTES"}}
	table.AddRow("persistent",
		strconv.Itoa(usage.Persistent.Items),
		strconv.FormatInt(usage.Persistent.Used, 10))
	table.AddRow("session",
		strconv.Itoa(usage.Session.Items),
		strconv.FormatInt(usage.Session.Used, 10))
	return table.Render(c.App.Writer)
}

// VersionCommand returns the version command.
func VersionCommand() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "Show build information",
		Action: func(c *cli.Context) error {
			return formatter(c).Format(c.App.Writer, buildinfo.Get())
		},
	}
}
