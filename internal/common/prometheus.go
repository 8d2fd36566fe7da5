package common

import "github.com/prometheus/client_golang/prometheus"

const (
	HTTPRequestTotal           = "http_requests_total"
	HTTPRequestDurationSeconds = "http_request_duration_seconds"
	CheckInTotal               = "check_in_total"
	ProgressFollowUpTotal      = "check_in_progress_follow_up_total"
	LedgerTransactionTotal     = "ledger_transaction_total"
	BalanceDriftTotal          = "ledger_balance_drift_total"
)

var (
	PromCounters = map[string]*prometheus.CounterVec{
		HTTPRequestTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: HTTPRequestTotal,
			Help: "Count of all HTTP requests",
		}, []string{"method", "status_code"}),
		CheckInTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: CheckInTotal,
			Help: "Count of check-in attempts by result",
		}, []string{"result"}),
		ProgressFollowUpTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: ProgressFollowUpTotal,
			Help: "Count of progress follow-ups by outcome",
		}, []string{"outcome"}),
		LedgerTransactionTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: LedgerTransactionTotal,
			Help: "Count of recorded ledger transactions by category",
		}, []string{"category"}),
		BalanceDriftTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: BalanceDriftTotal,
			Help: "Count of materialized balances repaired by reconciliation",
		}, []string{}),
	}

	PromHistograms = map[string]*prometheus.HistogramVec{
		HTTPRequestDurationSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name: HTTPRequestDurationSeconds,
			Help: "Duration of all HTTP requests",
		}, []string{"method", "status_code"}),
	}
)

func IncCounter(name string, labels ...string) {
	if counter, ok := PromCounters[name]; ok {
		counter.WithLabelValues(labels...).Inc()
	}
}
