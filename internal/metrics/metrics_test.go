package metrics

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"testing"

	"github.com/phayes/freeport"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSpGEMMMetrics(t *testing.T) {
	t.Run("SpGEMMIterationDuration", func(t *testing.T) {
		SpGEMMIterationDuration.WithLabelValues("single").Observe(1.5)
		SpGEMMIterationDuration.WithLabelValues("double").Observe(3.25)

		// Histograms cannot be read back with testutil.ToFloat64
		assert.NotPanics(t, func() {
			SpGEMMIterationDuration.WithLabelValues("single").Observe(0.02)
		})
	})

	t.Run("SpGEMMFlopCount", func(t *testing.T) {
		SpGEMMFlopCount.WithLabelValues("identity.mtx").Set(4)
		value := testutil.ToFloat64(SpGEMMFlopCount.WithLabelValues("identity.mtx"))
		assert.Equal(t, float64(4), value)
	})

	t.Run("SpGEMMGFLOPS", func(t *testing.T) {
		SpGEMMGFLOPS.WithLabelValues("identity.mtx", "double").Set(12.5)
		value := testutil.ToFloat64(SpGEMMGFLOPS.WithLabelValues("identity.mtx", "double"))
		assert.Equal(t, 12.5, value)
	})

	t.Run("SpGEMMBandwidth", func(t *testing.T) {
		SpGEMMBandwidth.WithLabelValues("identity.mtx", "single").Set(3.75)
		value := testutil.ToFloat64(SpGEMMBandwidth.WithLabelValues("identity.mtx", "single"))
		assert.Equal(t, 3.75, value)
	})

	t.Run("BenchmarkFailures", func(t *testing.T) {
		before := testutil.ToFloat64(BenchmarkFailures.WithLabelValues("setup"))
		BenchmarkFailures.WithLabelValues("setup").Inc()
		assert.Equal(t, before+1, testutil.ToFloat64(BenchmarkFailures.WithLabelValues("setup")))
	})

	t.Run("DeviceCounters", func(t *testing.T) {
		// Device metrics are shared by every session in the process, so only
		// relative changes are asserted.
		allocs := testutil.ToFloat64(DeviceAllocations)
		outstanding := testutil.ToFloat64(DeviceBuffersOutstanding)

		DeviceAllocations.Inc()
		DeviceBuffersOutstanding.Inc()
		assert.Equal(t, allocs+1, testutil.ToFloat64(DeviceAllocations))
		assert.Equal(t, outstanding+1, testutil.ToFloat64(DeviceBuffersOutstanding))

		DeviceBuffersOutstanding.Dec()
		assert.Equal(t, outstanding, testutil.ToFloat64(DeviceBuffersOutstanding))
	})
}

func TestMetricsRegistration(t *testing.T) {
	metrics := []prometheus.Collector{
		SpGEMMIterationDuration,
		SpGEMMFlopCount,
		SpGEMMGFLOPS,
		SpGEMMBandwidth,
		BenchmarkFailures,
		DeviceAllocations,
		DeviceReleases,
		DeviceBuffersOutstanding,
		DeviceBytesOutstanding,
	}

	for _, metric := range metrics {
		// Already registered through promauto, so a second registration must fail.
		err := prometheus.Register(metric)
		var already prometheus.AlreadyRegisteredError
		assert.ErrorAs(t, err, &already)
	}
}

func TestServer(t *testing.T) {
	srv := NewServer("127.0.0.1:0", zap.NewNop())
	require.NoError(t, srv.Start())
	defer srv.Shutdown(context.Background())

	before := testutil.ToFloat64(ScrapeResponses.WithLabelValues("200"))

	resp, err := http.Get("http://" + srv.Addr() + metricsPath)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "device_buffers_outstanding")
	assert.Equal(t, before+1, testutil.ToFloat64(ScrapeResponses.WithLabelValues("200")))
}

func TestServerBindsOnStart(t *testing.T) {
	port, err := freeport.GetFreePort()
	require.NoError(t, err)
	addr := fmt.Sprintf("127.0.0.1:%d", port)

	srv := NewServer(addr, zap.NewNop())
	assert.Equal(t, addr, srv.Addr())
	// A server that never started holds no listener.
	assert.NoError(t, srv.Shutdown(context.Background()))

	ln, err := net.Listen("tcp", addr)
	require.NoError(t, err, "an unstarted server must not hold the port")

	assert.Error(t, srv.Start(), "port is taken")
	require.NoError(t, ln.Close())

	require.NoError(t, srv.Start())
	assert.NoError(t, srv.Shutdown(context.Background()))
}

func BenchmarkMetricsObservation(b *testing.B) {
	b.Run("ObserveDuration", func(b *testing.B) {
		h := SpGEMMIterationDuration.WithLabelValues("single")
		for i := 0; i < b.N; i++ {
			h.Observe(float64(i % 1000))
		}
	})

	b.Run("IncCounter", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			DeviceAllocations.Inc()
		}
	})
}
