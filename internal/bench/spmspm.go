// Package bench holds the state of one SpGEMM benchmark: the device
// buffers it owns, the precomputed flop count and the timers wrapped around
// each multiply.
package bench

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fxnlabs/spgemm-bench/internal/device"
	"github.com/fxnlabs/spgemm-bench/internal/flops"
	"github.com/fxnlabs/spgemm-bench/internal/metrics"
	"github.com/fxnlabs/spgemm-bench/internal/mmio"
	"github.com/fxnlabs/spgemm-bench/internal/sparse"
	"github.com/fxnlabs/spgemm-bench/internal/spgemm"
	"github.com/fxnlabs/spgemm-bench/internal/timer"
	"go.uber.org/zap"
)

const (
	gpuTimerLabel = "GPU xSpMSpM"
	cpuTimerLabel = "CPU xSpMSpM"
	flopUnit      = "GFlop/s"
)

type state int

const (
	stateNew state = iota
	stateReady
	stateTornDown
)

// Summary is the timing result of one benchmarked matrix.
type Summary struct {
	Samples   int
	MeanNs    float64
	GFlops    float64 // flop count / mean time
	Bandwidth float64 // GiB/s
}

// Function is the lifecycle every benchmarked operation implements,
// whatever its element type.
type Function interface {
	SetupInput(ctx context.Context, path string, alpha, beta float64) error
	PrimeScalars(ctx context.Context) error
	Call(ctx context.Context) error
	ResetOutput() error
	Report(w io.Writer) (Summary, error)
	Teardown() error
	Cleanup(w io.Writer) (Summary, error)

	FlopCount() uint64
	GFlops() float64
	GFlopsFormula() string
	Bandwidth() float64
	BandwidthFormula() string
	Input() *sparse.CsrMatrix
	Output() *sparse.CsrMatrix
}

// SpMSpM benchmarks C = A x A for element type T. The input matrix and the
// scalars are allocated once in SetupInput; the multiplier allocates a fresh
// output on every Call, which ResetOutput releases before the next one.
//
// SpMSpM is driven by a single goroutine and is not safe for concurrent use.
type SpMSpM[T sparse.Float] struct {
	sess   *device.Session
	mult   spgemm.Multiplier[T]
	timers *timer.Set
	logger *zap.Logger
	opts   options

	gpuTimerID int
	cpuTimerID int

	sparseFile string
	state      state
	lastCall   time.Duration

	csrMtx  sparse.CsrMatrix // input
	csrMtxC sparse.CsrMatrix // output
	a       sparse.Scalar
	b       sparse.Scalar

	alpha   T
	beta    T
	flopCnt uint64
}

var (
	_ Function = (*SpMSpM[float32])(nil)
	_ Function = (*SpMSpM[float64])(nil)
)

// New creates a benchmark bound to sess. timers may be nil, in which case
// Call runs the multiply without recording samples.
func New[T sparse.Float](sess *device.Session, mult spgemm.Multiplier[T], timers *timer.Set, opts ...Option) *SpMSpM[T] {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	b := &SpMSpM[T]{
		sess:   sess,
		mult:   mult,
		timers: timers,
		opts:   o,
		logger: o.logger.Named("bench").With(zap.Stringer("precision", spgemm.PrecisionOf[T]())),
	}

	if timers != nil {
		timers.Device.Reserve(1, o.profileCount)
		timers.Device.SetNormalize(true)
		timers.Host.Reserve(1, o.profileCount)
		timers.Host.SetNormalize(true)

		b.gpuTimerID = timers.Device.UniqueID(gpuTimerLabel, 0)
		b.cpuTimerID = timers.Host.UniqueID(cpuTimerLabel, 0)
	}

	sparse.InitCsrMatrix(&b.csrMtx)
	sparse.InitCsrMatrix(&b.csrMtxC)
	sparse.InitScalar(&b.a)
	sparse.InitScalar(&b.b)
	return b
}

// NewFunction returns the Function for precision p, backed by the host multiplier.
func NewFunction(p spgemm.Precision, sess *device.Session, timers *timer.Set, opts ...Option) (Function, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	switch p {
	case spgemm.Single:
		return New[float32](sess, spgemm.NewHost[float32](o.logger, o.explicitZeroes), timers, opts...), nil
	case spgemm.Double:
		return New[float64](sess, spgemm.NewHost[float64](o.logger, o.explicitZeroes), timers, opts...), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, p)
	}
}

// SetupInput reads the matrix at path, allocates and fills the input and
// scalar buffers, empties the output descriptor and computes the flop
// count. On failure every buffer allocated by this call is released.
func (b *SpMSpM[T]) SetupInput(ctx context.Context, path string, alpha, beta float64) error {
	switch b.state {
	case stateReady:
		return ErrAlreadySetup
	case stateTornDown:
		return ErrTornDown
	}

	b.sparseFile = path
	b.alpha = T(alpha)
	b.beta = T(beta)

	hdr, err := mmio.ReadHeader(path)
	if err != nil {
		return fileError("could not read matrix market header from disk", err)
	}
	if hdr.Rows != hdr.Cols {
		return fmt.Errorf("%w: %dx%d", ErrNotSquare, hdr.Rows, hdr.Cols)
	}
	nnz := hdr.NNZ
	if !b.opts.explicitZeroes {
		nnz -= hdr.Zeros
	}

	host, err := mmio.ReadCSR[T](path, mmio.Options{KeepExplicitZeros: b.opts.explicitZeroes})
	if err != nil {
		return fileError("could not read matrix market data from disk", err)
	}
	// Duplicate coordinates are merged by the reader and no longer fit the
	// buffers sized from the header.
	if host.NNZ() != nnz {
		return fileError("matrix market data does not match its header",
			fmt.Errorf("%w: header declares %d stored entries, data has %d", mmio.ErrMalformed, nnz, host.NNZ()))
	}

	if err := b.allocate(ctx, hdr.Rows, hdr.Cols, nnz, host); err != nil {
		b.rollback()
		return err
	}

	b.state = stateReady
	metrics.SpGEMMFlopCount.WithLabelValues(filepath.Base(path)).Set(float64(b.flopCnt))

	elem := device.ElemSize[T]()
	b.logger.Info("input ready",
		zap.String("matrix", path),
		zap.Int("rows", hdr.Rows),
		zap.Int("cols", hdr.Cols),
		zap.Int("declared_entries", hdr.Entries),
		zap.Int("nnz", nnz),
		zap.Uint64("flops", b.flopCnt),
		zap.String("device_bytes", humanize.IBytes(uint64(nnz*(elem+sparse.IndexSize)+(hdr.Rows+1)*sparse.IndexSize+2*elem))))
	return nil
}

// allocate sizes the input buffers from the header counts and fills them
// from host.
func (b *SpMSpM[T]) allocate(ctx context.Context, rows, cols, nnz int, host *sparse.HostCSR[T]) error {
	if err := sparse.AllocateCsr[T](b.sess, &b.csrMtx, rows, cols, nnz, device.MemReadOnly, "csrMtx"); err != nil {
		return err
	}
	if err := sparse.Upload(ctx, b.sess, host, &b.csrMtx); err != nil {
		return err
	}

	sparse.InitCsrMatrix(&b.csrMtxC)

	if err := sparse.AllocateScalar[T](b.sess, &b.a, device.MemReadOnly, "alpha"); err != nil {
		return err
	}
	if err := sparse.AllocateScalar[T](b.sess, &b.b, device.MemReadOnly, "beta"); err != nil {
		return err
	}

	flop, err := flops.CountSquare(ctx, b.sess, &b.csrMtx)
	if err != nil {
		return err
	}
	b.flopCnt = flop
	return nil
}

// rollback releases whatever a failed setup managed to allocate.
func (b *SpMSpM[T]) rollback() {
	_ = sparse.ReleaseCsr(b.sess, &b.csrMtx)
	_ = sparse.ReleaseCsr(b.sess, &b.csrMtxC)
	for _, s := range []*sparse.Scalar{&b.a, &b.b} {
		if s.Value != nil {
			_ = sparse.ReleaseScalar(b.sess, s)
		}
	}
}

// PrimeScalars writes alpha and beta into their device buffers. It may be
// called any number of times between SetupInput and Teardown.
func (b *SpMSpM[T]) PrimeScalars(ctx context.Context) error {
	if err := b.ready(); err != nil {
		return err
	}
	if err := sparse.FillScalar(ctx, b.sess, &b.a, b.alpha); err != nil {
		return err
	}
	return sparse.FillScalar(ctx, b.sess, &b.b, b.beta)
}

// Call runs one multiply, bracketed by the device and host timers when
// they are configured. The output descriptor must be empty.
func (b *SpMSpM[T]) Call(ctx context.Context) error {
	if err := b.ready(); err != nil {
		return err
	}

	start := time.Now()
	var err error
	if b.timers != nil {
		err = b.timedMultiply(ctx)
	} else {
		err = b.multiply(ctx)
	}
	b.lastCall = time.Since(start)

	metrics.SpGEMMIterationDuration.WithLabelValues(spgemm.PrecisionOf[T]().String()).
		Observe(float64(b.lastCall) / float64(time.Millisecond))
	return err
}

func (b *SpMSpM[T]) timedMultiply(ctx context.Context) error {
	if err := b.timers.Device.Start(b.gpuTimerID); err != nil {
		return err
	}
	if err := b.timers.Host.Start(b.cpuTimerID); err != nil {
		return err
	}

	callErr := b.multiply(ctx)

	// Back to idle even when the multiply failed.
	hostErr := b.timers.Host.Stop(b.cpuTimerID)
	gpuErr := b.timers.Device.Stop(b.gpuTimerID)
	if callErr != nil {
		return callErr
	}
	return errors.Join(hostErr, gpuErr)
}

func (b *SpMSpM[T]) multiply(ctx context.Context) error {
	if err := b.mult.Multiply(ctx, b.sess, &b.a, &b.b, &b.csrMtx, &b.csrMtx, &b.csrMtxC); err != nil {
		return &device.Error{Op: "spgemm", Buffer: "csrMtxC", Err: err}
	}
	if b.opts.flush {
		return b.sess.Sync(ctx)
	}
	return nil
}

// ResetOutput releases the buffers the last Call allocated and empties the
// output descriptor. It is a no-op when the output is already empty.
func (b *SpMSpM[T]) ResetOutput() error {
	if b.state == stateTornDown {
		return ErrTornDown
	}
	return sparse.ReleaseCsr(b.sess, &b.csrMtxC)
}

// Teardown releases the input and scalar buffers and, if still held, the
// output buffers. It must be the last call on b. Every release is
// attempted; failures are joined.
func (b *SpMSpM[T]) Teardown() error {
	switch b.state {
	case stateNew:
		return ErrNotSetup
	case stateTornDown:
		return ErrTornDown
	}
	b.state = stateTornDown

	var errs []error
	for _, buf := range []*device.Buffer{b.csrMtx.Values, b.csrMtx.ColIndices, b.csrMtx.RowPointer} {
		errs = append(errs, b.sess.Release(buf))
	}
	sparse.InitCsrMatrix(&b.csrMtx)

	errs = append(errs, sparse.ReleaseCsr(b.sess, &b.csrMtxC))

	for _, s := range []*sparse.Scalar{&b.a, &b.b} {
		errs = append(errs, b.sess.Release(s.Value))
		sparse.InitScalar(s)
	}

	if err := errors.Join(errs...); err != nil {
		metrics.BenchmarkFailures.WithLabelValues("cleanup").Inc()
		return err
	}
	return nil
}

// Report prunes outliers, prints the flop-normalised throughput of the
// host and device timers to w and resets them for the next matrix. The
// returned summary is taken from the host timer after pruning.
func (b *SpMSpM[T]) Report(w io.Writer) (Summary, error) {
	if b.timers == nil {
		if b.lastCall == 0 {
			return Summary{}, nil
		}
		return b.summary(b.lastCallNs(), 1), nil
	}

	if _, err := fmt.Fprintf(w, "matrix: %s\n", b.sparseFile); err != nil {
		return Summary{}, err
	}

	pruned := b.timers.Host.PruneOutliers(b.opts.pruneMultiplier)
	s := b.summary(b.timers.Host.MeanNs(b.cpuTimerID), len(b.timers.Host.Samples(b.cpuTimerID)))
	if err := b.timers.Host.Print(w, b.flopCnt, flopUnit); err != nil {
		return s, err
	}
	b.timers.Host.Reset()

	pruned += b.timers.Device.PruneOutliers(b.opts.pruneMultiplier)
	if err := b.timers.Device.Print(w, b.flopCnt, flopUnit); err != nil {
		return s, err
	}
	b.timers.Device.Reset()

	name := filepath.Base(b.sparseFile)
	precision := spgemm.PrecisionOf[T]().String()
	metrics.SpGEMMGFLOPS.WithLabelValues(name, precision).Set(s.GFlops)
	metrics.SpGEMMBandwidth.WithLabelValues(name, precision).Set(s.Bandwidth)

	b.logger.Info("benchmark summary",
		zap.String("matrix", b.sparseFile),
		zap.Int("samples", s.Samples),
		zap.Int("pruned", pruned),
		zap.Duration("mean", time.Duration(s.MeanNs)),
		zap.Float64("gflops", s.GFlops),
		zap.Float64("bandwidth_gibps", s.Bandwidth))
	return s, nil
}

// Cleanup reports and then tears down. Teardown runs even if reporting
// fails.
func (b *SpMSpM[T]) Cleanup(w io.Writer) (Summary, error) {
	s, reportErr := b.Report(w)
	return s, errors.Join(reportErr, b.Teardown())
}

func (b *SpMSpM[T]) summary(meanNs float64, samples int) Summary {
	s := Summary{Samples: samples, MeanNs: meanNs}
	if meanNs > 0 {
		s.GFlops = float64(b.flopCnt) / meanNs
		s.Bandwidth = b.bytesMoved() / meanNs
	}
	return s
}

// GFlops has no closed form for SpGEMM; throughput is reported from the
// precomputed flop count instead.
func (b *SpMSpM[T]) GFlops() float64 {
	return 0
}

func (b *SpMSpM[T]) GFlopsFormula() string {
	return "N/A"
}

// Bandwidth estimates bytes moved per nanosecond of the mean host sample
// (or the last call when timers are off), assuming every index and value
// is read once, reads of the dense operand hit cache after the first touch
// and each output row is written once.
func (b *SpMSpM[T]) Bandwidth() float64 {
	ns := b.lastCallNs()
	if b.timers != nil {
		ns = b.timers.Host.MeanNs(b.cpuTimerID)
	}
	if ns <= 0 {
		return 0
	}
	return b.bytesMoved() / ns
}

func (b *SpMSpM[T]) BandwidthFormula() string {
	return "GiB/s"
}

func (b *SpMSpM[T]) bytesMoved() float64 {
	nnz := float64(b.csrMtx.NumNonzeros)
	rows := float64(b.csrMtx.NumRows)
	cols := float64(b.csrMtx.NumCols)
	return sparse.IndexSize*(nnz+rows) + float64(device.ElemSize[T]())*(nnz+cols+rows)
}

func (b *SpMSpM[T]) lastCallNs() float64 {
	return float64(b.lastCall.Nanoseconds())
}

// FlopCount returns the operations needed for A x A.
func (b *SpMSpM[T]) FlopCount() uint64 {
	return b.flopCnt
}

// Input returns the input descriptor.
func (b *SpMSpM[T]) Input() *sparse.CsrMatrix {
	return &b.csrMtx
}

// Output returns the output descriptor.
func (b *SpMSpM[T]) Output() *sparse.CsrMatrix {
	return &b.csrMtxC
}

func (b *SpMSpM[T]) ready() error {
	switch b.state {
	case stateNew:
		return ErrNotSetup
	case stateTornDown:
		return ErrTornDown
	}
	return nil
}
