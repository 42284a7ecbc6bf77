// Package metrics exposes Prometheus counters for rounds and moves.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	MoveApplied = "applied"
	MoveIgnored = "ignored"
)

var (
	// RoundsStartedTotal counts rounds created from valid settings.
	RoundsStartedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tictactoe_rounds_started_total",
		Help: "Total number of rounds started.",
	})

	// RoundsFinishedTotal counts finished rounds by outcome (X, O or draw).
	RoundsFinishedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tictactoe_rounds_finished_total",
		Help: "Total number of finished rounds, by outcome.",
	}, []string{"outcome"})

	// SettingsRejectedTotal counts refused settings by rejection reason.
	SettingsRejectedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tictactoe_settings_rejected_total",
		Help: "Total number of rejected game settings, by reason.",
	}, []string{"reason"})

	// MovesTotal counts move attempts by result.
	MovesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tictactoe_moves_total",
		Help: "Total number of move attempts, by result (applied/ignored).",
	}, []string{"result"})
)
