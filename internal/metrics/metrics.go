package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// LedgerDecisions counts stock-rule outcomes: allowed | rejected.
	LedgerDecisions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inventory_ledger_decisions_total",
		Help: "Stock ledger evaluations by outcome.",
	}, []string{"outcome"})

	// OrderWrites counts committed order mutations: create | update | delete.
	OrderWrites = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inventory_order_writes_total",
		Help: "Committed order mutations by operation.",
	}, []string{"op"})
)
