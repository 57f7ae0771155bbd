package device

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fxnlabs/spgemm-bench/internal/metrics"
)

func newHostSession(t *testing.T) (*Session, *HostBackend) {
	t.Helper()
	backend := NewHostBackend(zap.NewNop())
	sess, err := NewSession(backend, zap.NewNop())
	require.NoError(t, err)
	return sess, backend
}

func TestNewSession(t *testing.T) {
	_, err := NewSession(nil, nil)
	assert.Error(t, err)

	sess, _ := newHostSession(t)
	assert.Equal(t, "host", sess.Backend().Name())
	assert.Equal(t, "host", sess.Info().Backend)
	require.NoError(t, sess.Close())
}

func TestSessionAllocateRelease(t *testing.T) {
	sess, backend := newHostSession(t)
	defer sess.Close()

	outstanding := testutil.ToFloat64(metrics.DeviceBuffersOutstanding)

	buf, err := sess.Allocate(16, MemReadWrite, "values")
	require.NoError(t, err)
	assert.Equal(t, 16, buf.Size())
	assert.Equal(t, "values", buf.Label())
	assert.Equal(t, Stats{Allocations: 1, Outstanding: 1, BytesOutstanding: 16}, sess.Stats())
	assert.Equal(t, 1, backend.Outstanding())
	assert.Equal(t, outstanding+1, testutil.ToFloat64(metrics.DeviceBuffersOutstanding))

	require.NoError(t, sess.Release(buf))
	assert.Equal(t, Stats{Allocations: 1, Releases: 1}, sess.Stats())
	assert.Equal(t, 0, backend.Outstanding())
	assert.Equal(t, outstanding, testutil.ToFloat64(metrics.DeviceBuffersOutstanding))

	t.Run("double release", func(t *testing.T) {
		err := sess.Release(buf)
		assert.ErrorIs(t, err, ErrReleased)
		assert.True(t, IsDeviceError(err))
	})

	t.Run("nil release", func(t *testing.T) {
		err := sess.Release(nil)
		assert.ErrorIs(t, err, ErrNilBuffer)
		assert.Contains(t, err.Error(), "<nil>")
	})

	t.Run("foreign buffer", func(t *testing.T) {
		other, _ := newHostSession(t)
		defer other.Close()
		foreign, err := other.Allocate(4, MemReadWrite, "foreign")
		require.NoError(t, err)
		defer other.Release(foreign)

		assert.ErrorIs(t, sess.Release(foreign), ErrUnknownBuffer)
	})

	t.Run("negative size", func(t *testing.T) {
		_, err := sess.Allocate(-1, MemReadWrite, "bad")
		var de *Error
		require.ErrorAs(t, err, &de)
		assert.Equal(t, "allocate", de.Op)
		assert.Equal(t, "bad", de.Buffer)
	})
}

func TestSessionZeroSizeBuffer(t *testing.T) {
	sess, backend := newHostSession(t)
	defer sess.Close()

	buf, err := sess.Allocate(0, MemReadOnly, "empty")
	require.NoError(t, err)
	assert.Equal(t, 0, backend.Outstanding(), "zero-length buffers never reach the backend")
	assert.Equal(t, 1, sess.Stats().Outstanding)

	ctx := context.Background()
	require.NoError(t, sess.Write(ctx, buf, 0, nil))
	require.NoError(t, sess.Read(ctx, buf, 0, nil))
	assert.ErrorIs(t, sess.Write(ctx, buf, 0, []byte{1}), ErrOutOfRange)

	require.NoError(t, sess.Release(buf))
	assert.Equal(t, 0, sess.Stats().Outstanding)
}

func TestSessionTransfers(t *testing.T) {
	ctx := context.Background()
	sess, _ := newHostSession(t)
	defer sess.Close()

	buf, err := sess.Allocate(8, MemReadWrite, "data")
	require.NoError(t, err)

	require.NoError(t, sess.Fill(ctx, buf, []byte{7}, 0, 8))
	require.NoError(t, sess.Write(ctx, buf, 4, []byte{1, 2}))
	out := make([]byte, 8)
	require.NoError(t, sess.Read(ctx, buf, 0, out))
	assert.Equal(t, []byte{7, 7, 7, 7, 1, 2, 7, 7}, out)
	require.NoError(t, sess.Sync(ctx))

	t.Run("out of range", func(t *testing.T) {
		assert.ErrorIs(t, sess.Read(ctx, buf, 6, make([]byte, 4)), ErrOutOfRange)
		assert.ErrorIs(t, sess.Fill(ctx, buf, []byte{0}, -1, 2), ErrOutOfRange)
	})

	t.Run("cancelled context", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()
		assert.ErrorIs(t, sess.Write(cancelled, buf, 0, []byte{1}), context.Canceled)
		assert.ErrorIs(t, sess.Sync(cancelled), context.Canceled)
	})

	require.NoError(t, sess.Release(buf))

	t.Run("use after release", func(t *testing.T) {
		assert.ErrorIs(t, sess.Read(ctx, buf, 0, make([]byte, 1)), ErrReleased)
	})
}

func TestSessionClose(t *testing.T) {
	t.Run("clean", func(t *testing.T) {
		sess, _ := newHostSession(t)
		buf, err := sess.Allocate(8, MemReadWrite, "a")
		require.NoError(t, err)
		require.NoError(t, sess.Release(buf))
		require.NoError(t, sess.Close())
		require.NoError(t, sess.Close())
	})

	t.Run("reports leaks", func(t *testing.T) {
		sess, backend := newHostSession(t)
		outstanding := testutil.ToFloat64(metrics.DeviceBuffersOutstanding)
		_, err := sess.Allocate(8, MemReadWrite, "leaked")
		require.NoError(t, err)
		_, err = sess.Allocate(0, MemReadWrite, "leaked-empty")
		require.NoError(t, err)

		err = sess.Close()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "2 device buffers leaked")
		assert.Equal(t, 0, backend.Outstanding())
		assert.Equal(t, outstanding, testutil.ToFloat64(metrics.DeviceBuffersOutstanding))
	})

	t.Run("calls after close", func(t *testing.T) {
		sess, _ := newHostSession(t)
		buf, err := sess.Allocate(4, MemReadWrite, "late")
		require.NoError(t, err)
		require.Error(t, sess.Close())

		_, err = sess.Allocate(4, MemReadWrite, "after")
		assert.ErrorIs(t, err, ErrClosed)
		assert.ErrorIs(t, sess.Write(context.Background(), buf, 0, []byte{1}), ErrClosed)
		assert.ErrorIs(t, sess.Release(buf), ErrClosed)
	})
}

func TestError(t *testing.T) {
	err := &Error{Op: "read", Buffer: "csrMtx.values", Err: ErrOutOfRange}
	assert.Equal(t, "device read csrMtx.values: transfer out of range", err.Error())
	assert.ErrorIs(t, err, ErrOutOfRange)

	noBuf := &Error{Op: "finish", Err: errors.New("boom")}
	assert.Equal(t, "device finish: boom", noBuf.Error())
	assert.False(t, IsDeviceError(errors.New("plain")))
}
