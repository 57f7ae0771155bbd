package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v2"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"github.com/fxnlabs/spgemm-bench/internal/config"
	"github.com/fxnlabs/spgemm-bench/internal/device"
	"github.com/fxnlabs/spgemm-bench/internal/metrics"
	"github.com/fxnlabs/spgemm-bench/internal/runner"
)

const lifecycleTimeout = 30 * time.Second

func runCommand(st *appState) *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "Benchmark every configured matrix",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{Name: "matrix", Aliases: []string{"m"}, Usage: "Matrix Market file, may be repeated"},
			&cli.StringFlag{Name: "dir", Usage: "Directory holding the matrices"},
			&cli.StringFlag{Name: "precision", Aliases: []string{"p"}, Usage: "single or double"},
			&cli.Float64Flag{Name: "alpha", Usage: "Scalar alpha"},
			&cli.Float64Flag{Name: "beta", Usage: "Scalar beta"},
			&cli.IntFlag{Name: "iterations", Aliases: []string{"i"}, Usage: "Timed iterations per matrix"},
			&cli.IntFlag{Name: "warmup", Usage: "Untimed iterations before the timed ones"},
			&cli.StringFlag{Name: "backend", Usage: "Device backend: auto, host or cuda"},
			&cli.StringFlag{Name: "results", Usage: "Write results as JSON to this file"},
			&cli.BoolFlag{Name: "no-timers", Usage: "Run without the device and host timers"},
			&cli.StringFlag{Name: "metrics-addr", Usage: "Serve Prometheus metrics on this address"},
			&cli.BoolFlag{Name: "quiet", Aliases: []string{"q"}, Usage: "Do not print the banner"},
		},
		Action: func(c *cli.Context) error {
			applyRunFlags(c, st.cfg)
			if err := st.cfg.Validate(); err != nil {
				return err
			}

			out := c.App.Writer
			if !c.Bool("quiet") {
				printBanner(out, "SpGEMM Bench")
			}

			results, err := runBenchmarks(c.Context, st.cfg, st.log, out)
			printResults(out, results)
			if err != nil {
				return err
			}
			if n := runner.Failed(results); n > 0 {
				return fmt.Errorf("%d of %d matrices failed", n, len(results))
			}
			return nil
		},
	}
}

// applyRunFlags copies every explicitly set flag over the loaded config.
func applyRunFlags(c *cli.Context, cfg *config.Config) {
	if c.IsSet("matrix") {
		cfg.Bench.Matrices = c.StringSlice("matrix")
	}
	if c.IsSet("dir") {
		cfg.Bench.MatrixDir = c.String("dir")
	}
	if c.IsSet("precision") {
		cfg.Bench.Precision = c.String("precision")
	}
	if c.IsSet("alpha") {
		cfg.Bench.Alpha = c.Float64("alpha")
	}
	if c.IsSet("beta") {
		cfg.Bench.Beta = c.Float64("beta")
	}
	if c.IsSet("iterations") {
		cfg.Bench.Iterations = c.Int("iterations")
	}
	if c.IsSet("warmup") {
		cfg.Bench.Warmup = c.Int("warmup")
	}
	if c.IsSet("backend") {
		cfg.Device.Backend = c.String("backend")
	}
	if c.IsSet("results") {
		cfg.Bench.Results = c.String("results")
	}
	if c.Bool("no-timers") {
		cfg.Bench.Timers = false
	}
	if c.IsSet("metrics-addr") {
		cfg.Metrics.ListenAddress = c.String("metrics-addr")
	}
}

// benchModule wires the device, the metrics endpoint and the runner. The
// session is closed, and its leaks reported, when the app stops.
func benchModule(cfg *config.Config, log *zap.Logger, out io.Writer) fx.Option {
	return fx.Options(
		fx.WithLogger(func() fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log.Named("fx")}
		}),
		fx.Supply(cfg, log),
		fx.Provide(
			newManager,
			newSession,
			func(sess *device.Session) *runner.Runner {
				return runner.New(sess, cfg, log, out)
			},
		),
		fx.Invoke(registerMetricsServer),
	)
}

func newManager(cfg *config.Config, log *zap.Logger) (*device.Manager, error) {
	return device.NewManager(log, cfg.Device.Backend)
}

func newSession(lc fx.Lifecycle, m *device.Manager, log *zap.Logger) (*device.Session, error) {
	sess, err := device.NewSession(m.GetBackend(), log)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return sess.Close()
		},
	})
	return sess, nil
}

// registerMetricsServer binds the metrics endpoint only once the app
// starts, so a failed graph leaves no listener behind.
func registerMetricsServer(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger) {
	if cfg.Metrics.ListenAddress == "" {
		return
	}
	srv := metrics.NewServer(cfg.Metrics.ListenAddress, log)
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error { return srv.Start() },
		OnStop:  srv.Shutdown,
	})
}

func runBenchmarks(ctx context.Context, cfg *config.Config, log *zap.Logger, out io.Writer) ([]runner.Result, error) {
	var r *runner.Runner
	app := fx.New(benchModule(cfg, log, out), fx.Populate(&r))
	if err := app.Err(); err != nil {
		return nil, err
	}

	startCtx, cancel := context.WithTimeout(ctx, lifecycleTimeout)
	defer cancel()
	if err := app.Start(startCtx); err != nil {
		return nil, err
	}

	results, runErr := r.Run(ctx)

	stopCtx, cancelStop := context.WithTimeout(context.Background(), lifecycleTimeout)
	defer cancelStop()
	return results, errors.Join(runErr, app.Stop(stopCtx))
}

func printResults(w io.Writer, results []runner.Result) {
	if len(results) == 0 {
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "MATRIX\tPRECISION\tSIZE\tNNZ\tFLOPS\tMEAN\tGFLOP/S\tGIB/S\tSTATUS")
	for _, r := range results {
		status := "ok"
		if r.Err != nil {
			status = r.Stage + ": " + r.Error
		}
		fmt.Fprintf(tw, "%s\t%s\t%dx%d\t%s\t%s\t%s\t%.4f\t%.4f\t%s\n",
			r.Matrix, r.Precision, r.Rows, r.Cols,
			humanize.Comma(int64(r.NNZ)), humanize.Comma(int64(r.Flops)),
			time.Duration(r.MeanNs), r.GFlops, r.Bandwidth, status)
	}
	tw.Flush()
}
