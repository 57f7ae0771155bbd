package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/fxnlabs/spgemm-bench/internal/config"
	"github.com/fxnlabs/spgemm-bench/internal/logger"
)

// appState is filled in by the Before hook and read by every command.
type appState struct {
	cfg *config.Config
	log *zap.Logger
}

func main() {
	st := &appState{}
	app := newApp(st)

	if err := app.Run(os.Args); err != nil {
		if st.log != nil {
			st.log.Error("failed to run app", zap.Error(err))
			_ = st.log.Sync()
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

func newApp(st *appState) *cli.App {
	return &cli.App{
		Name:  "spgemm-bench",
		Usage: "Benchmark sparse matrix-matrix multiplication (C = alpha * A * A)",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to a YAML or TOML config file",
				EnvVars: []string{"SPGEMM_BENCH_CONFIG"},
			},
			&cli.StringFlag{
				Name:  "verbosity",
				Usage: "Log level, overrides logger.verbosity",
			},
			&cli.StringFlag{
				Name:  "log-encoding",
				Value: "json",
				Usage: "Log encoding: json or console",
			},
		},
		Before: func(c *cli.Context) error {
			cfg := config.Default()
			if path := c.String("config"); path != "" {
				var err error
				cfg, err = config.LoadConfig(path)
				if err != nil {
					return err
				}
			}
			if c.IsSet("verbosity") {
				cfg.Logger.Verbosity = c.String("verbosity")
			}

			zapLogger, err := logger.New(cfg.Logger.Verbosity, c.String("log-encoding"))
			if err != nil {
				return err
			}
			st.cfg = cfg
			st.log = zapLogger.Named("cli")
			return nil
		},
		After: func(c *cli.Context) error {
			if st.log != nil {
				_ = st.log.Sync()
			}
			return nil
		},
		Commands: []*cli.Command{
			runCommand(st),
			infoCommand(st),
			initCommand(),
			generateCommand(),
		},
	}
}
