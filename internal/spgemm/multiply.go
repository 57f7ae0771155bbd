// Package spgemm provides the sparse x sparse multiply capability the
// benchmark drives, one instantiation per element type.
package spgemm

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/fxnlabs/spgemm-bench/internal/device"
	"github.com/fxnlabs/spgemm-bench/internal/sparse"
	"go.uber.org/zap"
)

// ErrOutputNotEmpty is returned when the output descriptor still holds the
// buffers of a previous result. Writing through them would either leak
// them or overwrite a result the caller still owns.
var ErrOutputNotEmpty = errors.New("output matrix is not empty")

// Multiplier performs C = alpha * A x B for CSR operands with element type T.
// C must be empty on entry; the multiplier allocates its buffers in sess and
// the caller owns them once Multiply returns.
type Multiplier[T sparse.Float] interface {
	Multiply(ctx context.Context, sess *device.Session, alpha, beta *sparse.Scalar, a, b, c *sparse.CsrMatrix) error
}

// Host computes the product on the host after reading both operands back
// from the device, and uploads the result into freshly allocated buffers.
type Host[T sparse.Float] struct {
	logger    *zap.Logger
	keepZeros bool
}

// NewHost creates a host multiplier. keepZeros retains products that sum to
// exactly zero as stored entries.
func NewHost[T sparse.Float](logger *zap.Logger, keepZeros bool) *Host[T] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Host[T]{logger: logger.Named("spgemm"), keepZeros: keepZeros}
}

// Multiply implements Multiplier. beta only scales an existing C, and C is
// always empty on entry, so its value is not read.
func (h *Host[T]) Multiply(ctx context.Context, sess *device.Session, alpha, beta *sparse.Scalar, a, b, c *sparse.CsrMatrix) error {
	if !sparse.AsCsrView(c).IsEmpty() {
		return ErrOutputNotEmpty
	}
	if a.NumCols != b.NumRows {
		return fmt.Errorf("dimension mismatch: A is %dx%d, B is %dx%d", a.NumRows, a.NumCols, b.NumRows, b.NumCols)
	}
	if beta == nil || beta.Value == nil {
		return fmt.Errorf("beta scalar not allocated")
	}

	alphaV, err := sparse.ReadScalar[T](ctx, sess, alpha)
	if err != nil {
		return err
	}

	ha, err := sparse.Download[T](ctx, sess, a)
	if err != nil {
		return err
	}
	hb := ha
	if b != a {
		if hb, err = sparse.Download[T](ctx, sess, b); err != nil {
			return err
		}
	}

	hc := Gustavson(alphaV, ha, hb, h.keepZeros)

	if err := sparse.AllocateCsr[T](sess, c, hc.Rows, hc.Cols, hc.NNZ(), device.MemReadWrite, "csrMtxC"); err != nil {
		return err
	}
	if err := sparse.Upload(ctx, sess, hc, c); err != nil {
		_ = sparse.ReleaseCsr(sess, c)
		return err
	}

	h.logger.Debug("multiply complete",
		zap.Int("rows", hc.Rows),
		zap.Int("cols", hc.Cols),
		zap.Int("nnz", hc.NNZ()))
	return nil
}

// Gustavson computes alpha * A x B row by row with a dense accumulator.
// Output rows are sorted by column.
func Gustavson[T sparse.Float](alpha T, a, b *sparse.HostCSR[T], keepZeros bool) *sparse.HostCSR[T] {
	c := &sparse.HostCSR[T]{
		Rows:   a.Rows,
		Cols:   b.Cols,
		RowPtr: make([]sparse.Index, a.Rows+1),
	}

	acc := make([]T, b.Cols)
	// marker[j] == r+1 when column j is already present in row r
	marker := make([]int, b.Cols)
	var cols []sparse.Index

	for r := 0; r < a.Rows; r++ {
		cols = cols[:0]
		for ka := a.RowPtr[r]; ka < a.RowPtr[r+1]; ka++ {
			k := a.ColIdx[ka]
			av := a.Values[ka]
			for kb := b.RowPtr[k]; kb < b.RowPtr[k+1]; kb++ {
				j := b.ColIdx[kb]
				if marker[j] != r+1 {
					marker[j] = r + 1
					acc[j] = 0
					cols = append(cols, j)
				}
				acc[j] += av * b.Values[kb]
			}
		}

		slices.Sort(cols)
		for _, j := range cols {
			v := alpha * acc[j]
			if v == 0 && !keepZeros {
				continue
			}
			c.ColIdx = append(c.ColIdx, j)
			c.Values = append(c.Values, v)
		}
		c.RowPtr[r+1] = sparse.Index(len(c.ColIdx))
	}
	return c
}
