// Package metrics exposes Prometheus counters for ledger operations.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// TransactionsTotal counts appended ledger entries by source.
	TransactionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "habitledger_transactions_total",
		Help: "Ledger entries appended, labeled by source (habit or bounty).",
	}, []string{"source"})

	// HabitsCreated counts created habits.
	HabitsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "habitledger_habits_created_total",
		Help: "Habits created.",
	})

	// BountiesCreated counts created bounties.
	BountiesCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "habitledger_bounties_created_total",
		Help: "Bounties created.",
	})

	// BountiesCompleted counts completed bounties.
	BountiesCompleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "habitledger_bounties_completed_total",
		Help: "Bounties completed.",
	})
)

const (
	SourceHabit  = "habit"
	SourceBounty = "bounty"
)
