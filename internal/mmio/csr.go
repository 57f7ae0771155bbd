package mmio

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/fxnlabs/spgemm-bench/internal/sparse"
)

type entry struct {
	row, col int
	val      float64
}

// ReadCSR loads path into a host CSR matrix with element type T. Symmetric
// storage is expanded, indices are converted to zero-based, entries within
// a row are sorted by column and duplicates are summed.
func ReadCSR[T sparse.Float](path string, opts Options) (*sparse.HostCSR[T], error) {
	rc, err := open(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	sc := newScanner(rc)
	h, line, err := readHeader(sc)
	if err != nil {
		return nil, err
	}

	capacity := h.Entries
	if h.Symmetry != General {
		capacity *= 2
	}
	entries := make([]entry, 0, capacity)

	err = scanEntries(sc, h, line, func(e entry) {
		if e.val == 0 && !opts.KeepExplicitZeros {
			return
		}
		entries = append(entries, e)

		if h.Symmetry != General && e.row != e.col {
			mirror := entry{row: e.col, col: e.row, val: e.val}
			if h.Symmetry == SkewSymmetric {
				mirror.val = -e.val
			}
			entries = append(entries, mirror)
		}
	})
	if err != nil {
		return nil, err
	}
	if len(entries) > math.MaxInt32 {
		return nil, fmt.Errorf("%w: %d stored entries exceed 32-bit indices", ErrUnsupported, len(entries))
	}

	return toCSR[T](h.Rows, h.Cols, entries), nil
}

func parseEntry(text string, h Header) (entry, error) {
	fields := strings.Fields(text)
	want := 3
	if h.Field == FieldPattern {
		want = 2
	}
	if len(fields) < want {
		return entry{}, fmt.Errorf("%w: need %d fields, got %d", ErrMalformed, want, len(fields))
	}

	row, err := strconv.Atoi(fields[0])
	if err != nil || row < 1 || row > h.Rows {
		return entry{}, fmt.Errorf("%w: row index %q outside [1, %d]", ErrMalformed, fields[0], h.Rows)
	}
	col, err := strconv.Atoi(fields[1])
	if err != nil || col < 1 || col > h.Cols {
		return entry{}, fmt.Errorf("%w: column index %q outside [1, %d]", ErrMalformed, fields[1], h.Cols)
	}

	val := 1.0
	if h.Field != FieldPattern {
		val, err = strconv.ParseFloat(fields[2], 64)
		if err != nil {
			return entry{}, fmt.Errorf("%w: value %q", ErrMalformed, fields[2])
		}
	}
	return entry{row: row - 1, col: col - 1, val: val}, nil
}

// toCSR buckets entries by row, sorts each row by column and merges
// duplicate coordinates.
func toCSR[T sparse.Float](rows, cols int, entries []entry) *sparse.HostCSR[T] {
	slices.SortStableFunc(entries, func(a, b entry) int {
		if a.row != b.row {
			return a.row - b.row
		}
		return a.col - b.col
	})

	out := &sparse.HostCSR[T]{
		Rows:   rows,
		Cols:   cols,
		RowPtr: make([]sparse.Index, rows+1),
		ColIdx: make([]sparse.Index, 0, len(entries)),
		Values: make([]T, 0, len(entries)),
	}

	var vals []float64
	for i, e := range entries {
		if i > 0 && e.row == entries[i-1].row && e.col == entries[i-1].col {
			vals[len(vals)-1] += e.val
			continue
		}
		out.ColIdx = append(out.ColIdx, sparse.Index(e.col))
		vals = append(vals, e.val)
		out.RowPtr[e.row+1]++
	}
	for r := 0; r < rows; r++ {
		out.RowPtr[r+1] += out.RowPtr[r]
	}
	for _, v := range vals {
		out.Values = append(out.Values, T(v))
	}
	return out
}
