package mmio

import (
	"bufio"
	"fmt"
	"io"
	"strconv"

	"github.com/fxnlabs/spgemm-bench/internal/sparse"
)

// WriteCSR writes m as a general real coordinate file.
func WriteCSR[T sparse.Float](w io.Writer, m *sparse.HostCSR[T]) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%s matrix coordinate real general\n", banner)
	fmt.Fprintf(bw, "%d %d %d\n", m.Rows, m.Cols, m.NNZ())
	for r := 0; r < m.Rows; r++ {
		for k := m.RowPtr[r]; k < m.RowPtr[r+1]; k++ {
			fmt.Fprintf(bw, "%d %d %s\n", r+1, m.ColIdx[k]+1,
				strconv.FormatFloat(float64(m.Values[k]), 'g', -1, 64))
		}
	}
	return bw.Flush()
}
