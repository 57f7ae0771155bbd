package main

import (
	"fmt"
	"math/rand/v2"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/fxnlabs/spgemm-bench/internal/mmio"
	"github.com/fxnlabs/spgemm-bench/internal/sparse"
)

func generateCommand() *cli.Command {
	return &cli.Command{
		Name:      "generate",
		Usage:     "Write a synthetic square matrix in Matrix Market format",
		ArgsUsage: "<output.mtx>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "kind", Value: "tridiagonal", Usage: "tridiagonal or random"},
			&cli.IntFlag{Name: "n", Value: 1000, Usage: "Number of rows and columns"},
			&cli.Float64Flag{Name: "density", Value: 0.01, Usage: "Fraction of stored entries for random matrices"},
			&cli.Uint64Flag{Name: "seed", Value: 1, Usage: "Seed for random matrices"},
		},
		Action: func(c *cli.Context) error {
			path := c.Args().First()
			if path == "" {
				return fmt.Errorf("missing output path")
			}

			m, err := generate(c.String("kind"), c.Int("n"), c.Float64("density"), c.Uint64("seed"))
			if err != nil {
				return err
			}

			f, err := os.Create(path)
			if err != nil {
				return err
			}
			if err := mmio.WriteCSR(f, m); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			fmt.Fprintf(c.App.Writer, "Wrote %s (%dx%d, %d entries)\n", path, m.Rows, m.Cols, m.NNZ())
			return nil
		},
	}
}

func generate(kind string, n int, density float64, seed uint64) (*sparse.HostCSR[float64], error) {
	if n <= 0 {
		return nil, fmt.Errorf("n must be positive, got %d", n)
	}
	switch kind {
	case "tridiagonal":
		return sparse.Tridiagonal[float64](n), nil
	case "random":
		return sparse.Random[float64](n, n, density, rand.New(rand.NewPCG(seed, seed)))
	default:
		return nil, fmt.Errorf("unknown matrix kind %q", kind)
	}
}
