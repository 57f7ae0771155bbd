package sparse

import (
	"errors"
	"fmt"
)

// ErrInvalidStructure is returned when CSR arrays violate the format.
var ErrInvalidStructure = errors.New("invalid CSR structure")

// HostCSR is a CSR matrix in host memory.
type HostCSR[T Float] struct {
	Rows   int
	Cols   int
	RowPtr []Index
	ColIdx []Index
	Values []T
}

// NNZ returns the number of stored entries.
func (h *HostCSR[T]) NNZ() int {
	return len(h.ColIdx)
}

// Validate checks the CSR invariants: Rows+1 non-decreasing row offsets
// starting at zero and ending at NNZ, and column indices inside [0, Cols).
func (h *HostCSR[T]) Validate() error {
	if h.Rows < 0 || h.Cols < 0 {
		return fmt.Errorf("%w: negative dimensions %dx%d", ErrInvalidStructure, h.Rows, h.Cols)
	}
	if len(h.RowPtr) != h.Rows+1 {
		return fmt.Errorf("%w: row pointer has %d entries, want %d", ErrInvalidStructure, len(h.RowPtr), h.Rows+1)
	}
	if len(h.Values) != len(h.ColIdx) {
		return fmt.Errorf("%w: %d values for %d column indices", ErrInvalidStructure, len(h.Values), len(h.ColIdx))
	}
	if h.RowPtr[0] != 0 {
		return fmt.Errorf("%w: row pointer starts at %d", ErrInvalidStructure, h.RowPtr[0])
	}
	for i := 1; i <= h.Rows; i++ {
		if h.RowPtr[i] < h.RowPtr[i-1] {
			return fmt.Errorf("%w: row pointer decreases at row %d", ErrInvalidStructure, i)
		}
	}
	if int(h.RowPtr[h.Rows]) != len(h.ColIdx) {
		return fmt.Errorf("%w: row pointer ends at %d, nnz is %d", ErrInvalidStructure, h.RowPtr[h.Rows], len(h.ColIdx))
	}
	for k, c := range h.ColIdx {
		if c < 0 || int(c) >= h.Cols {
			return fmt.Errorf("%w: column index %d at entry %d outside [0, %d)", ErrInvalidStructure, c, k, h.Cols)
		}
	}
	return nil
}

// Dense expands h into a row-major dense slice. Intended for small matrices.
func (h *HostCSR[T]) Dense() []T {
	out := make([]T, h.Rows*h.Cols)
	for r := 0; r < h.Rows; r++ {
		for k := h.RowPtr[r]; k < h.RowPtr[r+1]; k++ {
			out[r*h.Cols+int(h.ColIdx[k])] += h.Values[k]
		}
	}
	return out
}
