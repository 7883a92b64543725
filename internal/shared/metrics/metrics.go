package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "hello_orm"

// Transaction outcomes
const (
	OutcomeCommit   = "commit"
	OutcomeRollback = "rollback"
)

// Flush operations
const (
	OpInsert = "insert"
	OpUpdate = "update"
	OpDelete = "delete"
)

var (
	// Registry is the registry served on /metrics
	Registry = prometheus.NewRegistry()

	transactionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "transactions_total",
		Help:      "Entity transactions by outcome.",
	}, []string{"outcome"})

	flushStatementsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "flush_statements_total",
		Help:      "Statements emitted when flushing the persistence context.",
	}, []string{"op"})

	httpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "HTTP requests by route, method and status.",
	}, []string{"route", "method", "status"})

	httpRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route", "method"})
)

func init() {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		transactionsTotal,
		flushStatementsTotal,
		httpRequestsTotal,
		httpRequestDuration,
	)
}

// Handler serves the registry in the Prometheus exposition format
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

func RecordTransaction(outcome string) {
	transactionsTotal.WithLabelValues(outcome).Inc()
}

func RecordFlush(op string) {
	flushStatementsTotal.WithLabelValues(op).Inc()
}

func RecordHTTPRequest(route, method, status string, seconds float64) {
	httpRequestsTotal.WithLabelValues(route, method, status).Inc()
	httpRequestDuration.WithLabelValues(route, method).Observe(seconds)
}
