package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SettlementsTotal counts purchase settlements partitioned by outcome
	// (purchased, enrolled, automatic_access, insufficient_funds, invalid_price).
	SettlementsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "quizmart",
			Subsystem: "ledger",
			Name:      "settlements_total",
			Help:      "Purchase settlements partitioned by outcome.",
		},
		[]string{"kind", "outcome"},
	)

	// GatewayCallbacksTotal counts gateway callback deliveries partitioned by
	// result (completed, failed, duplicate, mismatch, unknown).
	GatewayCallbacksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "quizmart",
			Subsystem: "gateway",
			Name:      "callbacks_total",
			Help:      "Gateway callback deliveries partitioned by result.",
		},
		[]string{"result"},
	)

	// WithdrawalTransitionsTotal counts withdrawal state transitions.
	WithdrawalTransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "quizmart",
			Subsystem: "ledger",
			Name:      "withdrawal_transitions_total",
			Help:      "Withdrawal request transitions partitioned by target state.",
		},
		[]string{"to"},
	)

	// RechargesExpiredTotal counts pending recharges failed by the expiry sweep.
	RechargesExpiredTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "quizmart",
			Subsystem: "gateway",
			Name:      "recharges_expired_total",
			Help:      "Pending recharge transactions failed by the expiry sweep.",
		},
	)
)
