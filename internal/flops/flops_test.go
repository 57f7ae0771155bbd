package flops

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fxnlabs/spgemm-bench/internal/device"
	"github.com/fxnlabs/spgemm-bench/internal/sparse"
)

func upload(t *testing.T, sess *device.Session, host *sparse.HostCSR[float64]) *sparse.CsrMatrix {
	t.Helper()
	var m sparse.CsrMatrix
	require.NoError(t, sparse.AllocateCsr[float64](sess, &m, host.Rows, host.Cols, host.NNZ(), device.MemReadOnly, "a"))
	require.NoError(t, sparse.Upload(context.Background(), sess, host, &m))
	t.Cleanup(func() { _ = sparse.ReleaseCsr(sess, &m) })
	return &m
}

func TestCountSquare(t *testing.T) {
	sess, err := device.NewSession(device.NewHostBackend(zap.NewNop()), zap.NewNop())
	require.NoError(t, err)
	defer sess.Close()

	tests := []struct {
		name string
		host *sparse.HostCSR[float64]
		want uint64
	}{
		{
			name: "identity",
			host: &sparse.HostCSR[float64]{Rows: 2, Cols: 2, RowPtr: []sparse.Index{0, 1, 2}, ColIdx: []sparse.Index{0, 1}, Values: []float64{1, 1}},
			want: 4,
		},
		{
			name: "tridiagonal",
			host: sparse.Tridiagonal[float64](4),
			want: 52,
		},
		{
			name: "single dense row",
			// [1 1 1]
			// [0 0 0]
			// [0 0 1]
			host: &sparse.HostCSR[float64]{Rows: 3, Cols: 3, RowPtr: []sparse.Index{0, 3, 3, 4}, ColIdx: []sparse.Index{0, 1, 2, 2}, Values: []float64{1, 1, 1, 1}},
			want: 2 * (3 + 0 + 1 + 1),
		},
		{
			name: "no entries",
			host: &sparse.HostCSR[float64]{Rows: 3, Cols: 3, RowPtr: []sparse.Index{0, 0, 0, 0}},
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := upload(t, sess, tt.host)
			got, err := CountSquare(context.Background(), sess, m)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			hostCount, err := CountSquareHost(tt.host.ColIdx, tt.host.RowPtr)
			require.NoError(t, err)
			assert.Equal(t, got, hostCount)
		})
	}
}

func TestCountSquareErrors(t *testing.T) {
	t.Run("column outside row range", func(t *testing.T) {
		_, err := CountSquareHost([]sparse.Index{0, 2}, []sparse.Index{0, 1, 2})
		assert.ErrorIs(t, err, ErrColumnOutOfRange)
	})

	t.Run("released buffers", func(t *testing.T) {
		sess, err := device.NewSession(device.NewHostBackend(zap.NewNop()), zap.NewNop())
		require.NoError(t, err)
		defer sess.Close()

		var m sparse.CsrMatrix
		require.NoError(t, sparse.AllocateCsr[float64](sess, &m, 2, 2, 2, device.MemReadOnly, "a"))
		colIdx := m.ColIndices
		require.NoError(t, sess.Release(colIdx))
		m.ColIndices = colIdx

		_, err = CountSquare(context.Background(), sess, &m)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "reading col_indices")
		assert.ErrorIs(t, err, device.ErrReleased)

		m.ColIndices = nil
		require.NoError(t, sparse.ReleaseCsr(sess, &m))
	})
}
