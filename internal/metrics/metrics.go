package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// Fencing categories.
const (
	CategorySearch   = "search"
	CategoryPayments = "payments"
)

// Metrics holds the engine's Prometheus collectors. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	searches          *prometheus.CounterVec
	rawRecords        prometheus.Counter
	canonicalRecords  prometheus.Counter
	consolidations    *prometheus.CounterVec
	memberFetches     prometheus.Histogram
	duplicatePayments prometheus.Counter
	staleDiscarded    *prometheus.CounterVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		searches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "legacyledger",
			Name:      "searches_total",
			Help:      "Identity searches by outcome",
		}, []string{"status"}),
		rawRecords: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "legacyledger",
			Name:      "raw_identities_total",
			Help:      "Raw identity records matched by searches before grouping",
		}),
		canonicalRecords: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "legacyledger",
			Name:      "canonical_identities_total",
			Help:      "Canonical identities produced by searches after grouping",
		}),
		consolidations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "legacyledger",
			Name:      "consolidations_total",
			Help:      "Payment consolidations by outcome",
		}, []string{"status"}),
		memberFetches: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "legacyledger",
			Name:      "member_fetch_duration_seconds",
			Help:      "Time spent fetching one member's payments",
			Buckets:   prometheus.DefBuckets,
		}),
		duplicatePayments: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "legacyledger",
			Name:      "duplicate_payments_total",
			Help:      "Payments seen under more than one member during consolidation",
		}),
		staleDiscarded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "legacyledger",
			Name:      "stale_responses_discarded_total",
			Help:      "Completed requests dropped because a newer request was issued",
		}, []string{"category"}),
	}

	reg.MustRegister(
		m.searches,
		m.rawRecords,
		m.canonicalRecords,
		m.consolidations,
		m.memberFetches,
		m.duplicatePayments,
		m.staleDiscarded,
	)
	return m
}

// ObserveSearch records a search outcome with its pre- and post-grouping counts.
func (m *Metrics) ObserveSearch(err error, raw, canonical int) {
	if m == nil {
		return
	}
	if err != nil {
		m.searches.WithLabelValues(StatusError).Inc()
		return
	}
	m.searches.WithLabelValues(StatusOK).Inc()
	m.rawRecords.Add(float64(raw))
	m.canonicalRecords.Add(float64(canonical))
}

// ObserveConsolidation records a consolidation outcome.
func (m *Metrics) ObserveConsolidation(err error, duplicates int) {
	if m == nil {
		return
	}
	if err != nil {
		m.consolidations.WithLabelValues(StatusError).Inc()
		return
	}
	m.consolidations.WithLabelValues(StatusOK).Inc()
	m.duplicatePayments.Add(float64(duplicates))
}

// ObserveMemberFetch records how long one member's payment fetch took.
func (m *Metrics) ObserveMemberFetch(d time.Duration) {
	if m == nil {
		return
	}
	m.memberFetches.Observe(d.Seconds())
}

// StaleDiscarded counts a superseded completion in the given category.
func (m *Metrics) StaleDiscarded(category string) {
	if m == nil {
		return
	}
	m.staleDiscarded.WithLabelValues(category).Inc()
}
