// Package metrics holds the lending counters exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "library"

// LoansTotal counts committed borrow and return operations.
// Label type: BORROW or RETURN.
var LoansTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "loans_total",
		Help:      "Committed borrow and return operations.",
	},
	[]string{"type"},
)

// LoanRejectionsTotal counts borrow/return attempts refused by a precondition.
var LoanRejectionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "loan_rejections_total",
		Help:      "Borrow and return attempts rejected by a precondition.",
	},
	[]string{"operation", "reason"},
)

var FinesAssessedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "fines_assessed_total",
		Help:      "Sum of overdue fines assessed on returns, in currency units.",
	},
)

var EventPublishFailuresTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "loan_event_publish_failures_total",
		Help:      "Loan events that could not be handed to the broker.",
	},
)
