package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// APIMetrics records aggregate counters for back-office operations.
type APIMetrics struct {
	queryDuration *prometheus.HistogramVec
	bulkOutcomes  *prometheus.CounterVec
	emailsSent    *prometheus.CounterVec
}

// NewAPIMetrics registers the back-office metrics on the provided registerer.
func NewAPIMetrics(reg prometheus.Registerer) *APIMetrics {
	if reg == nil {
		return &APIMetrics{}
	}
	queryDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "analytics_query_duration_seconds",
		Help:    "Duration of demographic analytics queries in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"query"})
	bulkOutcomes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "bulk_operation_outcomes",
		Help: "Per-target outcomes of bulk admin operations.",
	}, []string{"operation", "outcome"})
	emailsSent := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "campaign_emails_total",
		Help: "Campaign emails by delivery outcome.",
	}, []string{"outcome"})
	reg.MustRegister(queryDuration, bulkOutcomes, emailsSent)
	return &APIMetrics{
		queryDuration: queryDuration,
		bulkOutcomes:  bulkOutcomes,
		emailsSent:    emailsSent,
	}
}

// ObserveQueryDuration records the duration for the named analytics query.
func (m *APIMetrics) ObserveQueryDuration(query string, duration time.Duration) {
	if m == nil || m.queryDuration == nil {
		return
	}
	m.queryDuration.WithLabelValues(normalizeLabel(query)).Observe(duration.Seconds())
}

// IncBulkOutcome counts one processed target of a bulk operation.
func (m *APIMetrics) IncBulkOutcome(operation string, succeeded bool) {
	if m == nil || m.bulkOutcomes == nil {
		return
	}
	outcome := "ok"
	if !succeeded {
		outcome = "failed"
	}
	m.bulkOutcomes.WithLabelValues(normalizeLabel(operation), outcome).Inc()
}

// IncEmailOutcome counts one campaign email delivery attempt.
func (m *APIMetrics) IncEmailOutcome(succeeded bool) {
	if m == nil || m.emailsSent == nil {
		return
	}
	outcome := "sent"
	if !succeeded {
		outcome = "failed"
	}
	m.emailsSent.WithLabelValues(outcome).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
