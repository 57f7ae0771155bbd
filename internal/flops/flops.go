// Package flops computes the floating point operation count of squaring a
// sparse matrix, used to normalise benchmark timings into GFlop/s.
package flops

import (
	"context"
	"errors"
	"fmt"

	"github.com/fxnlabs/spgemm-bench/internal/device"
	"github.com/fxnlabs/spgemm-bench/internal/sparse"
)

// ErrColumnOutOfRange is returned when a column index of the squared
// matrix does not address one of its rows.
var ErrColumnOutOfRange = errors.New("column index outside row range")

// CountSquare returns the flop count of C = A x A, reading A's column
// indices and row offsets back from the device. Each stored entry (r, c)
// of the left operand is multiplied with every entry of row c of the right
// operand, and each product is one multiply and one add.
//
// The formula is only valid when both operands are the same matrix.
func CountSquare(ctx context.Context, sess *device.Session, a *sparse.CsrMatrix) (uint64, error) {
	if a.NumNonzeros == 0 {
		return 0, nil
	}

	colIdx := make([]sparse.Index, a.NumNonzeros)
	if err := device.ReadSlice(ctx, sess, a.ColIndices, a.OffColInd, colIdx); err != nil {
		return 0, fmt.Errorf("reading col_indices: %w", err)
	}

	rowPtr := make([]sparse.Index, a.NumRows+1)
	if err := device.ReadSlice(ctx, sess, a.RowPointer, a.OffRowOff, rowPtr); err != nil {
		return 0, fmt.Errorf("reading row offsets: %w", err)
	}

	return CountSquareHost(colIdx, rowPtr)
}

// CountSquareHost is CountSquare over host arrays.
func CountSquareHost(colIdx, rowPtr []sparse.Index) (uint64, error) {
	rows := len(rowPtr) - 1
	var flop uint64
	for i, c := range colIdx {
		if c < 0 || int(c) >= rows {
			return 0, fmt.Errorf("%w: entry %d has column %d, matrix has %d rows", ErrColumnOutOfRange, i, c, rows)
		}
		// nnz in row c of the right operand
		flop += uint64(rowPtr[c+1] - rowPtr[c])
	}
	return 2 * flop, nil
}
