package fetch

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics bundles Prometheus collectors for the harvesting engine.
type Metrics struct {
	Registry         *prometheus.Registry
	RequestsTotal    *prometheus.CounterVec
	RequestDuration  prometheus.Histogram
	RetriesTotal     prometheus.Counter
	PacingDelay      prometheus.Gauge
	PlacesTotal      *prometheus.CounterVec
	RecordsTotal     prometheus.Counter
	CheckpointsTotal *prometheus.CounterVec
}

// NewMetrics constructs and registers all metrics on a dedicated registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	requests := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "harvester_requests_total",
			Help: "Fetch attempts by outcome classification.",
		},
		[]string{"outcome"},
	)
	requestDuration := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "harvester_request_duration_seconds",
			Help:    "HTTP request latency for fetch attempts.",
			Buckets: prometheus.DefBuckets,
		},
	)
	retries := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "harvester_retries_total",
			Help: "Total retry sleeps scheduled by the fetch clients.",
		},
	)
	pacing := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "harvester_pacing_extra_delay_seconds",
			Help: "Current adaptive extra delay added to every request.",
		},
	)
	places := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "harvester_places_total",
			Help: "Work items completed, by status.",
		},
		[]string{"status"},
	)
	records := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "harvester_records_total",
			Help: "Listing records merged into the harvest state.",
		},
	)
	checkpoints := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "harvester_checkpoints_total",
			Help: "Checkpoint save attempts, by status.",
		},
		[]string{"status"},
	)

	registry.MustRegister(requests, requestDuration, retries, pacing, places, records, checkpoints)

	return &Metrics{
		Registry:         registry,
		RequestsTotal:    requests,
		RequestDuration:  requestDuration,
		RetriesTotal:     retries,
		PacingDelay:      pacing,
		PlacesTotal:      places,
		RecordsTotal:     records,
		CheckpointsTotal: checkpoints,
	}
}

// IncRequest counts one fetch attempt outcome.
func (m *Metrics) IncRequest(outcome string) {
	if m == nil {
		return
	}
	m.RequestsTotal.WithLabelValues(outcome).Inc()
}

// ObserveDuration records one request's latency.
func (m *Metrics) ObserveDuration(d time.Duration) {
	if m == nil {
		return
	}
	m.RequestDuration.Observe(d.Seconds())
}

// IncRetries counts one scheduled retry sleep.
func (m *Metrics) IncRetries() {
	if m == nil {
		return
	}
	m.RetriesTotal.Inc()
}

// SetPacingDelay publishes the current adaptive extra delay.
func (m *Metrics) SetPacingDelay(d time.Duration) {
	if m == nil {
		return
	}
	m.PacingDelay.Set(d.Seconds())
}

// IncPlace counts a completed work item by status (harvested or failed).
func (m *Metrics) IncPlace(status string) {
	if m == nil {
		return
	}
	m.PlacesTotal.WithLabelValues(status).Inc()
}

// AddRecords counts records merged into the harvest state.
func (m *Metrics) AddRecords(n int) {
	if m == nil {
		return
	}
	m.RecordsTotal.Add(float64(n))
}

// IncCheckpoint counts a checkpoint attempt by status (ok or error).
func (m *Metrics) IncCheckpoint(status string) {
	if m == nil {
		return
	}
	m.CheckpointsTotal.WithLabelValues(status).Inc()
}
