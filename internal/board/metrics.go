package board

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CardsProcessed counts ProcessCard calls.
	// Labels: outcome (success, warnings, default)
	CardsProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "board",
			Name:      "cards_processed_total",
			Help:      "Total number of cards dispatched through the action router",
		},
		[]string{"outcome"},
	)

	// ActionsTotal counts handler runs per category.
	// Labels: category, result (executed, failed)
	ActionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "board",
			Name:      "actions_total",
			Help:      "Total number of simulated actions by category and result",
		},
		[]string{"category", "result"},
	)

	// VotesTotal counts vote attempts.
	// Labels: result (recorded, duplicate)
	VotesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "board",
			Name:      "votes_total",
			Help:      "Total number of vote attempts, including suppressed duplicates",
		},
		[]string{"result"},
	)

	// AutoPromotions counts idea cards moved to in-progress by processing.
	AutoPromotions = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "board",
			Name:      "auto_promotions_total",
			Help:      "Total number of cards promoted from idea to in-progress after processing",
		},
	)
)
