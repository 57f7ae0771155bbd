package sparse

import (
	"fmt"
	"math/rand/v2"
)

// Tridiagonal returns the n x n matrix with 2 on the diagonal and -1 on
// both off-diagonals.
func Tridiagonal[T Float](n int) *HostCSR[T] {
	m := &HostCSR[T]{Rows: n, Cols: n, RowPtr: make([]Index, n+1)}
	for r := 0; r < n; r++ {
		if r > 0 {
			m.ColIdx = append(m.ColIdx, Index(r-1))
			m.Values = append(m.Values, -1)
		}
		m.ColIdx = append(m.ColIdx, Index(r))
		m.Values = append(m.Values, 2)
		if r < n-1 {
			m.ColIdx = append(m.ColIdx, Index(r+1))
			m.Values = append(m.Values, -1)
		}
		m.RowPtr[r+1] = Index(len(m.ColIdx))
	}
	return m
}

// Random returns a rows x cols matrix in which each entry is stored with
// probability density, with values drawn uniformly from [-1, 1).
func Random[T Float](rows, cols int, density float64, rng *rand.Rand) (*HostCSR[T], error) {
	if rows < 0 || cols < 0 {
		return nil, fmt.Errorf("%w: negative dimensions %dx%d", ErrInvalidStructure, rows, cols)
	}
	if density < 0 || density > 1 {
		return nil, fmt.Errorf("density %g outside [0, 1]", density)
	}

	m := &HostCSR[T]{Rows: rows, Cols: cols, RowPtr: make([]Index, rows+1)}
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			if rng.Float64() >= density {
				continue
			}
			m.ColIdx = append(m.ColIdx, Index(c))
			m.Values = append(m.Values, T(2*rng.Float64()-1))
		}
		m.RowPtr[r+1] = Index(len(m.ColIdx))
	}
	return m, nil
}
