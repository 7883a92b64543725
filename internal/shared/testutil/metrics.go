package testutil

import (
	"testing"

	"github.com/changhyeonkim/hello-orm/internal/shared/metrics"
)

// CounterValue reads one series of a counter from the metrics registry.
// A series that was never incremented reads as 0.
func CounterValue(t *testing.T, name, label, value string) float64 {
	t.Helper()

	families, err := metrics.Registry.Gather()
	if err != nil {
		t.Fatalf("Failed to gather metrics: %v", err)
	}

	for _, family := range families {
		if family.GetName() != name {
			continue
		}
		for _, sample := range family.GetMetric() {
			for _, pair := range sample.GetLabel() {
				if pair.GetName() == label && pair.GetValue() == value {
					return sample.GetCounter().GetValue()
				}
			}
		}
	}
	return 0
}

// TransactionCount reads hello_orm_transactions_total{outcome}
func TransactionCount(t *testing.T, outcome string) float64 {
	t.Helper()
	return CounterValue(t, "hello_orm_transactions_total", "outcome", outcome)
}

// FlushCount reads hello_orm_flush_statements_total{op}
func FlushCount(t *testing.T, op string) float64 {
	t.Helper()
	return CounterValue(t, "hello_orm_flush_statements_total", "op", op)
}
