package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels used by the posting metrics.
const (
	OutcomeOK         = "ok"
	OutcomeCreated    = "created"
	OutcomeIdempotent = "idempotent"
	OutcomeConverged  = "converged"
	OutcomeConflict   = "conflict"
	OutcomeRejected   = "rejected"
	OutcomeError      = "error"
)

// PostingMetrics records posting engine operations.
type PostingMetrics struct {
	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
}

// NewPostingMetrics registers the posting metrics on the provided registerer.
// A nil registerer yields a no-op recorder.
func NewPostingMetrics(reg prometheus.Registerer) *PostingMetrics {
	if reg == nil {
		return &PostingMetrics{}
	}
	operations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "posting_engine_operations_total",
		Help: "Posting engine operations by outcome.",
	}, []string{"op", "outcome"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "posting_engine_duration_seconds",
		Help:    "Duration of posting engine operations in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"op"})
	reg.MustRegister(operations, duration)
	return &PostingMetrics{operations: operations, duration: duration}
}

// Observe records one finished operation.
func (m *PostingMetrics) Observe(op, outcome string, elapsed time.Duration) {
	if m == nil || m.operations == nil {
		return
	}
	m.operations.WithLabelValues(normalizeLabel(op), normalizeLabel(outcome)).Inc()
	m.duration.WithLabelValues(normalizeLabel(op)).Observe(elapsed.Seconds())
}

// BatchMetrics records recurring journal batch runs.
type BatchMetrics struct {
	duration *prometheus.HistogramVec
	items    *prometheus.CounterVec
}

// NewBatchMetrics registers the batch metrics on the provided registerer.
func NewBatchMetrics(reg prometheus.Registerer) *BatchMetrics {
	if reg == nil {
		return &BatchMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "job_duration_seconds",
		Help:    "Duration of batch jobs in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"job"})
	items := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "recurring_journal_items_total",
		Help: "Recurring journal periods processed by status.",
	}, []string{"status"})
	reg.MustRegister(duration, items)
	return &BatchMetrics{duration: duration, items: items}
}

// ObserveDuration records the duration for the named job.
func (b *BatchMetrics) ObserveDuration(job string, elapsed time.Duration) {
	if b == nil || b.duration == nil {
		return
	}
	b.duration.WithLabelValues(normalizeLabel(job)).Observe(elapsed.Seconds())
}

// IncItem counts one processed period.
func (b *BatchMetrics) IncItem(status string) {
	if b == nil || b.items == nil {
		return
	}
	b.items.WithLabelValues(normalizeLabel(status)).Inc()
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
