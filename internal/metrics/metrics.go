package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ScrapeResponses = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "metrics_scrape_responses_total",
		Help: "Responses served on the metrics endpoint by status code",
	}, []string{"status_code"})

	// SpGEMM benchmark metrics
	SpGEMMIterationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "spgemm_iteration_duration_ms",
		Help:    "Host-side duration of one SpGEMM call in milliseconds",
		Buckets: prometheus.ExponentialBuckets(0.01, 2, 20), // 10us to ~5s
	}, []string{"precision"})

	SpGEMMFlopCount = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "spgemm_flop_count",
		Help: "Floating point operations required to square the benchmarked matrix",
	}, []string{"matrix"})

	SpGEMMGFLOPS = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "spgemm_gflops",
		Help: "Flop-normalised throughput of the last benchmarked matrix in GFlop/s",
	}, []string{"matrix", "precision"})

	SpGEMMBandwidth = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "spgemm_bandwidth_gibps",
		Help: "Estimated memory bandwidth of the last benchmarked matrix in GiB/s",
	}, []string{"matrix", "precision"})

	BenchmarkFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "spgemm_benchmark_failures_total",
		Help: "Benchmark runs aborted, by stage (setup, iteration, cleanup)",
	}, []string{"stage"})

	// Device metrics
	DeviceAllocations = promauto.NewCounter(prometheus.CounterOpts{
		Name: "device_allocations_total",
		Help: "Total number of device buffers allocated",
	})

	DeviceReleases = promauto.NewCounter(prometheus.CounterOpts{
		Name: "device_releases_total",
		Help: "Total number of device buffers released",
	})

	DeviceBuffersOutstanding = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "device_buffers_outstanding",
		Help: "Device buffers currently allocated",
	})

	DeviceBytesOutstanding = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "device_bytes_outstanding",
		Help: "Device memory currently allocated in bytes",
	})
)
