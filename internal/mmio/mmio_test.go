package mmio

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fxnlabs/spgemm-bench/internal/sparse"
)

const matrixDir = "../../fixtures/matrices"

func fixture(name string) string {
	return filepath.Join(matrixDir, name)
}

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReadHeader(t *testing.T) {
	h, err := ReadHeader(fixture("tridiag4.mtx"))
	require.NoError(t, err)
	assert.Equal(t, Header{Rows: 4, Cols: 4, Entries: 10, NNZ: 10, Field: FieldReal, Symmetry: General}, h)

	t.Run("nnz counts mirrored entries", func(t *testing.T) {
		h, err := ReadHeader(fixture("symmetric3.mtx"))
		require.NoError(t, err)
		assert.Equal(t, Symmetric, h.Symmetry)
		assert.Equal(t, 4, h.Entries)
		assert.Equal(t, 6, h.NNZ)

		m, err := ReadCSR[float64](fixture("symmetric3.mtx"), Options{KeepExplicitZeros: true})
		require.NoError(t, err)
		assert.Equal(t, h.NNZ, m.NNZ())
	})

	t.Run("explicit zeros are counted", func(t *testing.T) {
		h, err := ReadHeader(fixture("zeros2.mtx"))
		require.NoError(t, err)
		assert.Equal(t, 3, h.NNZ)
		assert.Equal(t, 1, h.Zeros)

		m, err := ReadCSR[float64](fixture("zeros2.mtx"), Options{})
		require.NoError(t, err)
		assert.Equal(t, h.NNZ-h.Zeros, m.NNZ())
	})

	t.Run("skew-symmetric zero is mirrored", func(t *testing.T) {
		path := writeTemp(t, "skew.mtx", "%%MatrixMarket matrix coordinate real skew-symmetric\n3 3 2\n2 1 0.0\n3 1 4.0\n")
		h, err := ReadHeader(path)
		require.NoError(t, err)
		assert.Equal(t, 4, h.NNZ)
		assert.Equal(t, 2, h.Zeros)
	})

	t.Run("compressed", func(t *testing.T) {
		h, err := ReadHeader(fixture("tridiag4.mtx.gz"))
		require.NoError(t, err)
		assert.Equal(t, 10, h.NNZ)
	})

	t.Run("truncated data", func(t *testing.T) {
		_, err := ReadHeader(fixture("truncated.mtx"))
		assert.ErrorIs(t, err, ErrMalformed)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := ReadHeader(fixture("does-not-exist.mtx"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("complex is unsupported", func(t *testing.T) {
		_, err := ReadHeader(fixture("complex2.mtx"))
		assert.ErrorIs(t, err, ErrUnsupported)
	})
}

func TestReadHeaderMalformed(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    error
	}{
		{"empty", "", ErrMalformed},
		{"no banner", "3 3 1\n1 1 1\n", ErrMalformed},
		{"array format", "%%MatrixMarket matrix array real general\n2 2\n", ErrUnsupported},
		{"hermitian", "%%MatrixMarket matrix coordinate real hermitian\n2 2 1\n", ErrUnsupported},
		{"unknown field", "%%MatrixMarket matrix coordinate quaternion general\n2 2 1\n", ErrMalformed},
		{"short size line", "%%MatrixMarket matrix coordinate real general\n2 2\n", ErrMalformed},
		{"negative size", "%%MatrixMarket matrix coordinate real general\n2 -2 1\n", ErrMalformed},
		{"missing size line", "%%MatrixMarket matrix coordinate real general\n% only comments\n", ErrMalformed},
		{"rectangular symmetric", "%%MatrixMarket matrix coordinate real symmetric\n2 3 1\n", ErrMalformed},
		{"rows overflow indices", "%%MatrixMarket matrix coordinate real general\n2147483647 2 1\n1 1 1\n", ErrUnsupported},
		{"cols overflow indices", "%%MatrixMarket matrix coordinate real general\n2 2147483647 1\n1 1 1\n", ErrUnsupported},
		{"entries overflow indices", "%%MatrixMarket matrix coordinate real general\n2 2 2147483648\n1 1 1\n", ErrUnsupported},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadHeader(writeTemp(t, "m.mtx", tt.content))
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestReadCSR(t *testing.T) {
	t.Run("general", func(t *testing.T) {
		m, err := ReadCSR[float64](fixture("tridiag4.mtx"), Options{})
		require.NoError(t, err)
		require.NoError(t, m.Validate())
		assert.Equal(t, sparse.Tridiagonal[float64](4), m)
	})

	t.Run("symmetric is expanded", func(t *testing.T) {
		m, err := ReadCSR[float64](fixture("symmetric3.mtx"), Options{})
		require.NoError(t, err)
		assert.Equal(t, 6, m.NNZ())
		assert.Equal(t, []float64{
			4, 1, 0,
			1, 0, 2,
			0, 2, 5,
		}, m.Dense())
	})

	t.Run("skew-symmetric mirrors negated", func(t *testing.T) {
		path := writeTemp(t, "skew.mtx", "%%MatrixMarket matrix coordinate real skew-symmetric\n2 2 1\n2 1 3\n")
		m, err := ReadCSR[float32](path, Options{})
		require.NoError(t, err)
		assert.Equal(t, []float32{0, -3, 3, 0}, m.Dense())
	})

	t.Run("pattern entries are one", func(t *testing.T) {
		m, err := ReadCSR[float32](fixture("pattern3.mtx"), Options{})
		require.NoError(t, err)
		assert.Equal(t, []float32{
			0, 1, 0,
			0, 0, 1,
			1, 0, 0,
		}, m.Dense())
	})

	t.Run("explicit zeros", func(t *testing.T) {
		dropped, err := ReadCSR[float64](fixture("zeros2.mtx"), Options{})
		require.NoError(t, err)
		assert.Equal(t, 2, dropped.NNZ())

		kept, err := ReadCSR[float64](fixture("zeros2.mtx"), Options{KeepExplicitZeros: true})
		require.NoError(t, err)
		assert.Equal(t, 3, kept.NNZ())
		assert.Equal(t, []sparse.Index{0, 1, 1}, kept.ColIdx)
	})

	t.Run("no entries", func(t *testing.T) {
		m, err := ReadCSR[float64](fixture("empty3.mtx"), Options{})
		require.NoError(t, err)
		assert.Equal(t, 0, m.NNZ())
		assert.Equal(t, []sparse.Index{0, 0, 0, 0}, m.RowPtr)
	})

	t.Run("unsorted entries and duplicates", func(t *testing.T) {
		path := writeTemp(t, "dup.mtx", "%%MatrixMarket matrix coordinate real general\n2 2 4\n2 2 1\n1 2 5\n1 1 2\n2 2 0.5\n")
		m, err := ReadCSR[float64](path, Options{})
		require.NoError(t, err)
		assert.Equal(t, []sparse.Index{0, 2, 3}, m.RowPtr)
		assert.Equal(t, []sparse.Index{0, 1, 1}, m.ColIdx)
		assert.Equal(t, []float64{2, 5, 1.5}, m.Values)
	})

	t.Run("gzip", func(t *testing.T) {
		m, err := ReadCSR[float64](fixture("tridiag4.mtx.gz"), Options{})
		require.NoError(t, err)
		assert.Equal(t, sparse.Tridiagonal[float64](4), m)
	})

	t.Run("xz", func(t *testing.T) {
		m, err := ReadCSR[float64](fixture("identity2.mtx.xz"), Options{})
		require.NoError(t, err)
		assert.Equal(t, []float64{1, 0, 0, 1}, m.Dense())
	})

	t.Run("not gzip", func(t *testing.T) {
		_, err := ReadCSR[float64](writeTemp(t, "bad.mtx.gz", "plain text"), Options{})
		assert.ErrorIs(t, err, ErrMalformed)
	})
}

func TestReadCSRMalformed(t *testing.T) {
	t.Run("truncated", func(t *testing.T) {
		_, err := ReadCSR[float64](fixture("truncated.mtx"), Options{})
		assert.ErrorIs(t, err, ErrMalformed)
	})

	tests := []struct {
		name    string
		content string
	}{
		{"row out of range", "%%MatrixMarket matrix coordinate real general\n2 2 1\n3 1 1\n"},
		{"column zero", "%%MatrixMarket matrix coordinate real general\n2 2 1\n1 0 1\n"},
		{"bad value", "%%MatrixMarket matrix coordinate real general\n2 2 1\n1 1 abc\n"},
		{"missing value", "%%MatrixMarket matrix coordinate real general\n2 2 1\n1 1\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadCSR[float64](writeTemp(t, "m.mtx", tt.content), Options{})
			assert.ErrorIs(t, err, ErrMalformed)
		})
	}
}

func TestWriteCSR(t *testing.T) {
	want := sparse.Tridiagonal[float64](5)

	var buf bytes.Buffer
	require.NoError(t, WriteCSR(&buf, want))
	assert.Contains(t, buf.String(), "%%MatrixMarket matrix coordinate real general\n5 5 13\n")

	path := writeTemp(t, "written.mtx", buf.String())
	read, err := ReadCSR[float64](path, Options{KeepExplicitZeros: true})
	require.NoError(t, err)
	assert.Equal(t, want, read)
}
