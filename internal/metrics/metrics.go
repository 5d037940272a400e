// Package metrics exposes Prometheus collectors for the ledger engine.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// TransactionsPosted counts successfully committed transactions,
	// idempotent replays excluded.
	TransactionsPosted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ledger_transactions_posted_total",
		Help: "Number of transactions committed to the ledger.",
	})

	// EntriesWritten counts journal entries appended to the store.
	EntriesWritten = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ledger_entries_written_total",
		Help: "Number of journal entries appended to the entry store.",
	})

	// PostingFailures counts rejected posts by error kind.
	PostingFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ledger_posting_failures_total",
		Help: "Number of rejected posting attempts by error kind.",
	}, []string{"kind"})

	// IdempotentReplays counts posts answered from a previous commit.
	IdempotentReplays = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ledger_idempotent_replays_total",
		Help: "Number of posts answered with a previously committed result.",
	})

	// ReportsGenerated counts generated reports by report type.
	ReportsGenerated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ledger_reports_generated_total",
		Help: "Number of reports generated by type.",
	}, []string{"report"})

	// IntegrityViolations counts invariant breaches detected while
	// deriving reports. Any nonzero value indicates a correctness bug.
	IntegrityViolations = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ledger_integrity_violations_total",
		Help: "Number of double-entry invariant breaches detected during reporting.",
	})

	// PostingDuration observes end-to-end posting latency.
	PostingDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "ledger_posting_duration_seconds",
		Help:    "Latency of posting operations.",
		Buckets: prometheus.DefBuckets,
	})
)
