package spgemm

import (
	"context"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"gonum.org/v1/gonum/mat"

	"github.com/fxnlabs/spgemm-bench/internal/device"
	"github.com/fxnlabs/spgemm-bench/internal/sparse"
)

func dense(m *sparse.HostCSR[float64]) *mat.Dense {
	return mat.NewDense(m.Rows, m.Cols, m.Dense())
}

func TestGustavsonMatchesDenseProduct(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))

	shapes := []struct{ m, k, n int }{
		{1, 1, 1},
		{5, 5, 5},
		{12, 7, 9},
		{30, 30, 30},
	}
	for _, s := range shapes {
		a, err := sparse.Random[float64](s.m, s.k, 0.3, rng)
		require.NoError(t, err)
		b, err := sparse.Random[float64](s.k, s.n, 0.3, rng)
		require.NoError(t, err)

		c := Gustavson(2.0, a, b, false)
		require.NoError(t, c.Validate())

		var want mat.Dense
		want.Mul(dense(a), dense(b))
		want.Scale(2, &want)

		assert.True(t, mat.EqualApprox(&want, dense(c), 1e-12), "%dx%dx%d product differs", s.m, s.k, s.n)
		for r := 0; r < c.Rows; r++ {
			row := c.ColIdx[c.RowPtr[r]:c.RowPtr[r+1]]
			assert.IsIncreasing(t, row)
		}
	}
}

func TestGustavsonZeros(t *testing.T) {
	// [1  1]   [ 1]
	// [0  0] x [-1] sums to zero in row 0.
	a := &sparse.HostCSR[float64]{Rows: 2, Cols: 2, RowPtr: []sparse.Index{0, 2, 2}, ColIdx: []sparse.Index{0, 1}, Values: []float64{1, 1}}
	b := &sparse.HostCSR[float64]{Rows: 2, Cols: 1, RowPtr: []sparse.Index{0, 1, 2}, ColIdx: []sparse.Index{0, 0}, Values: []float64{1, -1}}

	assert.Equal(t, 0, Gustavson(1.0, a, b, false).NNZ())
	kept := Gustavson(1.0, a, b, true)
	assert.Equal(t, 1, kept.NNZ())
	assert.Equal(t, []float64{0}, kept.Values)
}

func setup(t *testing.T, host *sparse.HostCSR[float64]) (*device.Session, *sparse.CsrMatrix, *sparse.Scalar, *sparse.Scalar) {
	t.Helper()
	ctx := context.Background()
	sess, err := device.NewSession(device.NewHostBackend(zap.NewNop()), zap.NewNop())
	require.NoError(t, err)

	var a sparse.CsrMatrix
	require.NoError(t, sparse.AllocateCsr[float64](sess, &a, host.Rows, host.Cols, host.NNZ(), device.MemReadOnly, "a"))
	require.NoError(t, sparse.Upload(ctx, sess, host, &a))

	var alpha, beta sparse.Scalar
	require.NoError(t, sparse.AllocateScalar[float64](sess, &alpha, device.MemReadOnly, "alpha"))
	require.NoError(t, sparse.AllocateScalar[float64](sess, &beta, device.MemReadOnly, "beta"))
	require.NoError(t, sparse.FillScalar(ctx, sess, &alpha, 1.0))
	require.NoError(t, sparse.FillScalar(ctx, sess, &beta, 0.0))

	t.Cleanup(func() {
		_ = sparse.ReleaseCsr(sess, &a)
		_ = sparse.ReleaseScalar(sess, &alpha)
		_ = sparse.ReleaseScalar(sess, &beta)
		_ = sess.Close()
	})
	return sess, &a, &alpha, &beta
}

func TestHostMultiply(t *testing.T) {
	ctx := context.Background()
	host := sparse.Tridiagonal[float64](6)
	sess, a, alpha, beta := setup(t, host)
	mult := NewHost[float64](zaptest.NewLogger(t), false)

	var c sparse.CsrMatrix
	require.NoError(t, mult.Multiply(ctx, sess, alpha, beta, a, a, &c))
	assert.Equal(t, "csrMtxC.values", c.Values.Label())

	got, err := sparse.Download[float64](ctx, sess, &c)
	require.NoError(t, err)

	var want mat.Dense
	want.Mul(dense(host), dense(host))
	assert.True(t, mat.EqualApprox(&want, dense(got), 1e-12))

	t.Run("output must be empty", func(t *testing.T) {
		before := sess.Stats()
		err := mult.Multiply(ctx, sess, alpha, beta, a, a, &c)
		assert.ErrorIs(t, err, ErrOutputNotEmpty)
		assert.Equal(t, before, sess.Stats())
	})

	require.NoError(t, sparse.ReleaseCsr(sess, &c))

	t.Run("empty output after release is accepted", func(t *testing.T) {
		require.NoError(t, mult.Multiply(ctx, sess, alpha, beta, a, a, &c))
		require.NoError(t, sparse.ReleaseCsr(sess, &c))
	})
}

func TestHostMultiplyErrors(t *testing.T) {
	ctx := context.Background()
	sess, a, alpha, beta := setup(t, sparse.Tridiagonal[float64](3))
	mult := NewHost[float64](nil, false)

	t.Run("dimension mismatch", func(t *testing.T) {
		var b sparse.CsrMatrix
		require.NoError(t, sparse.AllocateCsr[float64](sess, &b, 4, 4, 0, device.MemReadOnly, "b"))
		defer sparse.ReleaseCsr(sess, &b)

		var c sparse.CsrMatrix
		assert.Error(t, mult.Multiply(ctx, sess, alpha, beta, a, &b, &c))
		assert.True(t, sparse.AsCsrView(&c).IsEmpty())
	})

	t.Run("missing beta", func(t *testing.T) {
		var c sparse.CsrMatrix
		assert.Error(t, mult.Multiply(ctx, sess, alpha, &sparse.Scalar{}, a, a, &c))
	})
}

func TestMultiplyEmptyMatrix(t *testing.T) {
	ctx := context.Background()
	host := &sparse.HostCSR[float64]{Rows: 3, Cols: 3, RowPtr: []sparse.Index{0, 0, 0, 0}}
	sess, a, alpha, beta := setup(t, host)

	var c sparse.CsrMatrix
	require.NoError(t, NewHost[float64](nil, false).Multiply(ctx, sess, alpha, beta, a, a, &c))
	assert.Equal(t, 3, c.NumRows)
	assert.Equal(t, 0, c.NumNonzeros)
	require.NoError(t, sparse.ReleaseCsr(sess, &c))
}
