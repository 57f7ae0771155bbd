package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/fxnlabs/spgemm-bench/fixtures"
)

func initCommand() *cli.Command {
	return &cli.Command{
		Name:      "init",
		Usage:     "Write a config file with the default settings",
		ArgsUsage: "[path]",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "force", Usage: "Overwrite an existing file"},
		},
		Action: func(c *cli.Context) error {
			path := c.Args().First()
			if path == "" {
				path = "config.yaml"
			}
			if _, err := os.Stat(path); err == nil && !c.Bool("force") {
				return fmt.Errorf("%s already exists, use --force to overwrite", path)
			}
			if err := os.WriteFile(path, fixtures.ConfigTemplate, 0o644); err != nil {
				return err
			}
			fmt.Fprintf(c.App.Writer, "Wrote %s\n", path)
			return nil
		},
	}
}
