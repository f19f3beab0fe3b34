// Package metrics exposes Prometheus metrics for allocations and the HTTP API.
package metrics

import (
	"github.com/iwvelando/capital-shares/pkg/mathutil"
	"github.com/iwvelando/capital-shares/pkg/shares"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "capital_shares"

// Label names
const (
	LabelResult = "result"
	LabelMethod = "method"
	LabelPath   = "path"
	LabelStatus = "status"
)

// Allocation Metrics
var (
	AllocationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "allocations_total",
			Help:      "Share allocations by result (ok, invalid, error).",
		},
		[]string{LabelResult},
	)

	ReconciliationDelta = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "reconciliation_delta",
			Help:      "Absolute number of parts moved to make shares sum to the denominator.",
			Buckets:   []float64{0, 1, 2, 3, 5, 10, 30},
		},
	)
)

// HTTP Metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status.",
		},
		[]string{LabelMethod, LabelPath, LabelStatus},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{LabelMethod, LabelPath},
	)
)

// AllocationObserver records shares.Allocate outcomes.
type AllocationObserver struct{}

var _ shares.Observer = AllocationObserver{}

// ObserveAllocation implements shares.Observer.
func (AllocationObserver) ObserveAllocation(outcome shares.Outcome, delta int) {
	AllocationsTotal.WithLabelValues(string(outcome)).Inc()
	if outcome == shares.OutcomeOK {
		ReconciliationDelta.Observe(float64(mathutil.AbsInt(delta)))
	}
}
