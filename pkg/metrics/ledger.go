package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Append outcomes recorded on the ledger metrics.
const (
	OutcomeCommitted = "committed"
	OutcomeRejected  = "rejected"
	OutcomeConflict  = "conflict"
)

// LedgerMetrics records the stock ledger's write-path behavior: appends by
// transaction type and outcome, append latency, and balance rebuilds.
type LedgerMetrics struct {
	appends  *prometheus.CounterVec
	duration *prometheus.HistogramVec
	rebuilds *prometheus.CounterVec
}

// NewLedgerMetrics registers the ledger metrics on the provided registerer.
func NewLedgerMetrics(reg prometheus.Registerer) *LedgerMetrics {
	if reg == nil {
		return &LedgerMetrics{}
	}
	appends := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ledger_appends_total",
		Help: "Stock ledger append attempts by transaction type and outcome.",
	}, []string{"type", "outcome"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ledger_append_duration_seconds",
		Help:    "Duration of stock ledger appends in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"type"})
	rebuilds := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ledger_balance_rebuilds_total",
		Help: "Balance rebuilds by result.",
	}, []string{"result"})
	reg.MustRegister(appends, duration, rebuilds)
	return &LedgerMetrics{
		appends:  appends,
		duration: duration,
		rebuilds: rebuilds,
	}
}

// IncAppend increments the append counter for the transaction type and outcome.
func (m *LedgerMetrics) IncAppend(txType, outcome string) {
	if m == nil || m.appends == nil {
		return
	}
	m.appends.WithLabelValues(normalizeLabel(txType), normalizeLabel(outcome)).Inc()
}

// ObserveAppendDuration records how long an append took.
func (m *LedgerMetrics) ObserveAppendDuration(txType string, duration time.Duration) {
	if m == nil || m.duration == nil {
		return
	}
	m.duration.WithLabelValues(normalizeLabel(txType)).Observe(duration.Seconds())
}

// IncRebuild increments the rebuild counter for the given result label.
func (m *LedgerMetrics) IncRebuild(result string) {
	if m == nil || m.rebuilds == nil {
		return
	}
	m.rebuilds.WithLabelValues(normalizeLabel(result)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
