package metrics

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	apperrors "github.com/agbru/parfor/internal/errors"
	"github.com/agbru/parfor/internal/parallel"
)

const namespace = "parfor"

// Metrics records parallel loop reports as Prometheus metrics. Each Metrics
// owns its registry, so several instances can coexist in one process.
// It implements parallel.Reporter.
type Metrics struct {
	registry *prometheus.Registry
	handler  http.Handler

	calls      *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	cpuSeconds prometheus.Counter
	partitions *prometheus.CounterVec
	failures   *prometheus.CounterVec
	fallbacks  prometheus.Counter
	workers    prometheus.Gauge
}

// NewMetrics creates a Metrics with its own registry, including the Go
// runtime and process collectors and a live heap gauge.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		calls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "calls_total",
			Help:      "Parallel loop calls, by dimension count and result.",
		}, []string{"dims", "result"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "call_duration_seconds",
			Help:      "Wall-clock duration of parallel loop calls.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
		}, []string{"dims"}),
		cpuSeconds: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cpu_seconds_total",
			Help:      "Process CPU time consumed during parallel loop calls.",
		}),
		partitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "partitions_total",
			Help:      "Partitions executed, by terminal status.",
		}, []string{"status"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "failures_total",
			Help:      "Failed partitions, by kind (body or spawn).",
		}, []string{"kind"}),
		fallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fallbacks_total",
			Help:      "Partitions run on the caller because their worker could not start.",
		}),
		workers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "workers",
			Help:      "Workers used by the most recent call.",
		}),
	}

	mem := NewMemoryCollector()
	heap := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "heap_alloc_bytes",
		Help:      "Bytes of allocated heap objects.",
	}, func() float64 { return float64(mem.Snapshot().HeapAlloc) })

	reg.MustRegister(
		m.calls, m.duration, m.cpuSeconds, m.partitions,
		m.failures, m.fallbacks, m.workers, heap,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m.handler = promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})
	return m
}

// Report records r. It is safe for concurrent use.
func (m *Metrics) Report(r parallel.Report) {
	dims := strconv.Itoa(r.Dims)
	result := "ok"
	if r.Err != nil {
		result = "failed"
	}
	m.calls.WithLabelValues(dims, result).Inc()
	m.duration.WithLabelValues(dims).Observe(r.Seconds())
	if r.CPUTimeKnown && r.CPUTime > 0 {
		m.cpuSeconds.Add(r.CPUTime.Seconds())
	}
	m.workers.Set(float64(r.Plan.Workers))

	for _, o := range r.Outcomes {
		m.partitions.WithLabelValues(o.Status.String()).Inc()
		if o.Fallback {
			m.fallbacks.Inc()
		}
		if o.Status == parallel.StatusFailed {
			m.failures.WithLabelValues(failureKind(o.Err)).Inc()
		}
	}
}

func failureKind(err error) string {
	var se apperrors.SpawnError
	if errors.As(err, &se) {
		return "spawn"
	}
	return "body"
}

// Handler returns the HTTP handler exposing the registry.
func (m *Metrics) Handler() http.Handler { return m.handler }

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// WritePrometheus serves the metrics in the Prometheus exposition format.
func (m *Metrics) WritePrometheus(w http.ResponseWriter, r *http.Request) {
	m.handler.ServeHTTP(w, r)
}
