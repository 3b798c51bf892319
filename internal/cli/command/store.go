package command

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/urfave/cli/v2"
)

// recordFlags are shared by commands that read or write records.
func recordFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:  "no-encrypt",
			Usage: "Store or read the value without encryption",
		},
	}
}

// SetCommand returns the set command.
func SetCommand() *cli.Command {
	return &cli.Command{
		Name:      "set",
		Usage:     "Store a value under a key",
		ArgsUsage: "<key> <value>",
		Flags: append(recordFlags(),
			&cli.BoolFlag{
				Name:  "sensitive",
				Usage: "Keep the record in session storage only",
			},
			&cli.DurationFlag{
				Name:  "ttl",
				Usage: "Expire the record after this duration (e.g. 30m)",
			},
		),
		Action: setAction,
	}
}

func setAction(c *cli.Context) error {
	if c.NArg() != 2 {
		return fmt.Errorf("set requires <key> <value>")
	}
	key, raw := c.Args().Get(0), c.Args().Get(1)

	r, err := openRuntime(c)
	if err != nil {
		return err
	}
	defer r.Close()

	// JSON arguments are stored structured, anything else as a string.
	var value any
	if err := json.Unmarshal([]byte(raw), &value); err != nil {
		value = raw
	}

	if !r.store.SetItem(c.Context, key, value, r.options(c)) {
		return fmt.Errorf("store %q failed", key)
	}
	return nil
}

// GetCommand returns the get command.
func GetCommand() *cli.Command {
	return &cli.Command{
		Name:      "get",
		Usage:     "Retrieve the value stored under a key",
		ArgsUsage: "<key>",
		Flags:     recordFlags(),
		Action:    getAction,
	}
}

func getAction(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("get requires <key>")
	}
	key := c.Args().Get(0)

	r, err := openRuntime(c)
	if err != nil {
		return err
	}
	defer r.Close()

	value := r.store.GetItem(c.Context, key, r.options(c))
	if value == nil {
		return fmt.Errorf("key %q not found", key)
	}
	return formatter(c).Format(c.App.Writer, value)
}

// RemoveCommand returns the rm command.
func RemoveCommand() *cli.Command {
	return &cli.Command{
		Name:      "rm",
		Usage:     "Remove a key from both backends",
		ArgsUsage: "<key>",
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return fmt.Errorf("rm requires <key>")
			}

			r, err := openRuntime(c)
			if err != nil {
				return err
			}
			defer r.Close()

			r.store.RemoveItem(c.Context, c.Args().Get(0))
			return nil
		},
	}
}

// ClearCommand returns the clear command.
func ClearCommand() *cli.Command {
	return &cli.Command{
		Name:  "clear",
		Usage: "Remove every namespaced record",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "session",
				Usage: "Clear session records only",
			},
		},
		Action: func(c *cli.Context) error {
			r, err := openRuntime(c)
			if err != nil {
				return err
			}
			defer r.Close()

			if c.Bool("session") {
				r.store.ClearSession(c.Context)
			} else {
				r.store.Clear(c.Context)
			}
			return nil
		},
	}
}

// SweepCommand returns the sweep command.
func SweepCommand() *cli.Command {
	return &cli.Command{
		Name:  "sweep",
		Usage: "Remove expired and corrupt records now",
		Action: func(c *cli.Context) error {
			r, err := openRuntime(c)
			if err != nil {
				return err
			}
			defer r.Close()

			start := time.Now()
			removed := r.store.Sweep(c.Context)
			return formatter(c).Format(c.App.Writer, map[string]any{
				"removed":  removed,
				"duration": time.Since(start).String(),
			})
		},
	}
}
