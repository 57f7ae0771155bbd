// Package runner drives benchmarks over a list of matrices: one full
// setup, prime, iterate and cleanup cycle per matrix, collecting a Result
// for each.
package runner

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"go.uber.org/zap"

	"github.com/fxnlabs/spgemm-bench/internal/bench"
	"github.com/fxnlabs/spgemm-bench/internal/config"
	"github.com/fxnlabs/spgemm-bench/internal/device"
	"github.com/fxnlabs/spgemm-bench/internal/metrics"
	"github.com/fxnlabs/spgemm-bench/internal/spgemm"
	"github.com/fxnlabs/spgemm-bench/internal/timer"
)

var (
	// ErrNoMatrices is returned when neither the matrix list nor the
	// matrix directory yields a file to benchmark.
	ErrNoMatrices = errors.New("no matrices to benchmark")

	// ErrLeak is recorded when a matrix leaves device buffers behind.
	ErrLeak = errors.New("device buffers leaked")
)

var matrixSuffixes = []string{".mtx", ".mtx.gz", ".mtx.xz"}

// Result is the outcome of benchmarking one matrix.
type Result struct {
	Matrix    string  `json:"matrix"`
	Precision string  `json:"precision"`
	Rows      int     `json:"rows"`
	Cols      int     `json:"cols"`
	NNZ       int     `json:"nnz"`
	Flops     uint64  `json:"flops"`
	Samples   int     `json:"samples"`
	MeanNs    float64 `json:"meanNs"`
	GFlops    float64 `json:"gflops"`
	Bandwidth float64 `json:"bandwidthGiBps"`
	Stage     string  `json:"stage,omitempty"`
	Error     string  `json:"error,omitempty"`

	Err error `json:"-"`
}

func (r *Result) fail(stage string, err error) {
	if err == nil {
		return
	}
	metrics.BenchmarkFailures.WithLabelValues(stage).Inc()
	if r.Err == nil {
		r.Stage = stage
	}
	r.Err = errors.Join(r.Err, err)
	r.Error = r.Err.Error()
}

// Runner runs the configured benchmark on a device session. It is driven by
// a single goroutine.
type Runner struct {
	sess   *device.Session
	cfg    *config.Config
	logger *zap.Logger
	out    io.Writer
}

// New returns a Runner writing timer reports to out.
func New(sess *device.Session, cfg *config.Config, logger *zap.Logger, out io.Writer) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	if out == nil {
		out = io.Discard
	}
	return &Runner{
		sess:   sess,
		cfg:    cfg,
		logger: logger.Named("runner"),
		out:    out,
	}
}

// Matrices resolves the configured matrix list against the matrix
// directory. With an empty list every Matrix Market file in the directory
// is used, in name order.
func (r *Runner) Matrices() ([]string, error) {
	dir := r.cfg.Bench.MatrixDir
	if len(r.cfg.Bench.Matrices) > 0 {
		paths := make([]string, 0, len(r.cfg.Bench.Matrices))
		for _, m := range r.cfg.Bench.Matrices {
			if dir != "" && !filepath.IsAbs(m) {
				m = filepath.Join(dir, m)
			}
			paths = append(paths, m)
		}
		return paths, nil
	}

	if dir == "" {
		return nil, ErrNoMatrices
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("listing matrix directory: %w", err)
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() || !isMatrixFile(e.Name()) {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoMatrices, dir)
	}
	slices.Sort(paths)
	return paths, nil
}

func isMatrixFile(name string) bool {
	lower := strings.ToLower(name)
	for _, suffix := range matrixSuffixes {
		if strings.HasSuffix(lower, suffix) {
			return true
		}
	}
	return false
}

// Run benchmarks every matrix in turn. A failing matrix is recorded in its
// Result and the run moves on; the returned error covers only problems that
// stop the whole run.
func (r *Runner) Run(ctx context.Context) ([]Result, error) {
	precision, err := spgemm.ParsePrecision(r.cfg.Bench.Precision)
	if err != nil {
		return nil, err
	}
	paths, err := r.Matrices()
	if err != nil {
		return nil, err
	}

	results := make([]Result, 0, len(paths))
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		res := r.RunMatrix(ctx, precision, path)
		if res.Err != nil {
			r.logger.Error("benchmark failed",
				zap.String("matrix", path),
				zap.String("stage", res.Stage),
				zap.Error(res.Err))
		}
		results = append(results, res)
	}

	if r.cfg.Bench.Results != "" {
		if err := WriteResults(r.cfg.Bench.Results, results); err != nil {
			return results, err
		}
	}
	return results, nil
}

// RunMatrix runs the full lifecycle for one matrix. Cleanup always follows
// a successful setup, whatever happens in between.
func (r *Runner) RunMatrix(ctx context.Context, precision spgemm.Precision, path string) Result {
	res := Result{Matrix: path, Precision: precision.String()}
	before := r.sess.Stats()

	var timers *timer.Set
	if r.cfg.Bench.Timers {
		timers = timer.NewSet(r.sess)
	}

	fn, err := bench.NewFunction(precision, r.sess, timers,
		bench.WithLogger(r.logger),
		bench.WithExplicitZeroes(r.cfg.Bench.ExplicitZeroes),
		bench.WithProfileCount(r.cfg.SampleCount()),
		bench.WithPruneMultiplier(r.cfg.Bench.PruneMultiplier),
		// without the device timer nothing else waits for queued work
		bench.WithFlush(timers == nil))
	if err != nil {
		res.fail("setup", err)
		return res
	}

	if err := fn.SetupInput(ctx, path, r.cfg.Bench.Alpha, r.cfg.Bench.Beta); err != nil {
		res.fail("setup", err)
		r.checkLeak(&res, before)
		return res
	}

	in := fn.Input()
	res.Rows, res.Cols, res.NNZ = in.NumRows, in.NumCols, in.NumNonzeros
	res.Flops = fn.FlopCount()

	if err := fn.PrimeScalars(ctx); err != nil {
		res.fail("prime", err)
	} else if err := r.iterate(ctx, fn, timers); err != nil {
		res.fail("call", err)
	}

	summary, err := fn.Cleanup(r.out)
	res.fail("cleanup", err)
	res.Samples = summary.Samples
	res.MeanNs = summary.MeanNs
	res.GFlops = summary.GFlops
	res.Bandwidth = summary.Bandwidth

	r.checkLeak(&res, before)
	return res
}

// iterate runs the warm-up calls, discards their samples and then runs the
// timed calls. Every call is followed by an output reset.
func (r *Runner) iterate(ctx context.Context, fn bench.Function, timers *timer.Set) error {
	warmup, iterations := r.cfg.Bench.Warmup, r.cfg.Bench.Iterations
	for i := 0; i < warmup+iterations; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if i == warmup && timers != nil {
			timers.Host.Reset()
			timers.Device.Reset()
		}

		if err := fn.Call(ctx); err != nil {
			return errors.Join(fmt.Errorf("iteration %d: %w", i, err), fn.ResetOutput())
		}
		if err := fn.ResetOutput(); err != nil {
			return fmt.Errorf("iteration %d: reset output: %w", i, err)
		}
	}
	return nil
}

func (r *Runner) checkLeak(res *Result, before device.Stats) {
	after := r.sess.Stats()
	if leaked := after.Outstanding - before.Outstanding; leaked != 0 {
		res.fail("leak", fmt.Errorf("%w: %d buffers (%d bytes)", ErrLeak, leaked, after.BytesOutstanding-before.BytesOutstanding))
	}
}

// Failed counts the results that carry an error.
func Failed(results []Result) int {
	n := 0
	for _, r := range results {
		if r.Err != nil {
			n++
		}
	}
	return n
}

// WriteResults writes results to path as indented JSON.
func WriteResults(path string, results []Result) error {
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing results: %w", err)
	}
	return nil
}
