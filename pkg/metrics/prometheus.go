package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	runsTotal   *prometheus.CounterVec
	cacheTotal  *prometheus.CounterVec
	errorsTotal *prometheus.CounterVec
	lastGWP     *prometheus.GaugeVec
	latency     *prometheus.HistogramVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		runsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "premcast_projection_runs_total",
				Help: "Total number of projection runs computed",
			},
			[]string{"source"},
		),
		cacheTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "premcast_result_cache_total",
				Help: "Projection result cache lookups by outcome",
			},
			[]string{"outcome"},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "premcast_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		lastGWP: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "premcast_last_projected_gwp",
				Help: "Final-year projected GWP from the most recent run",
			},
			[]string{"line"},
		),
		latency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "premcast_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordRun records a completed projection run by request source.
func (r *Recorder) RecordRun(source string) {
	r.runsTotal.WithLabelValues(source).Inc()
}

// RecordCacheHit records a result cache hit.
func (r *Recorder) RecordCacheHit() {
	r.cacheTotal.WithLabelValues("hit").Inc()
}

// RecordCacheMiss records a result cache miss.
func (r *Recorder) RecordCacheMiss() {
	r.cacheTotal.WithLabelValues("miss").Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordProjectedGWP records the latest final-year projected value per line.
func (r *Recorder) RecordProjectedGWP(line string, value float64) {
	r.lastGWP.WithLabelValues(line).Set(value)
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}
