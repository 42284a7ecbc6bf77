package entity

import (
	"errors"
	"fmt"

	"github.com/rocketscienceinc/ultimate-tictactoe/internal/apperror"
)

const (
	MinDimension = 3
	MaxDimension = 10

	MinWinStreak = 3
	MaxWinStreak = 10
)

// RejectionReason classifies why a pair of settings was refused.
type RejectionReason string

const (
	ReasonTooSmall          RejectionReason = "too_small"
	ReasonTooLarge          RejectionReason = "too_large"
	ReasonStreakExceedsGrid RejectionReason = "streak_exceeds_grid"
)

// Message returns the text shown to the user for the rejection.
func (r RejectionReason) Message() string {
	switch r {
	case ReasonTooSmall:
		return "Grid size and win streak must be at least 3."
	case ReasonTooLarge:
		return "Grid size and win streak must be at most 10."
	case ReasonStreakExceedsGrid:
		return "Win streak must not exceed grid size."
	default:
		return "Invalid game settings."
	}
}

// Settings is the configuration of one round. It is copied into the round
// on creation and never changes afterwards.
type Settings struct {
	Dimension int `json:"dimension"`
	WinStreak int `json:"win_streak"`
}

// NewSettings - validates the grid size and win streak.
func NewSettings(dimension, winStreak int) (Settings, error) {
	if dimension < MinDimension || winStreak < MinWinStreak {
		return Settings{}, fmt.Errorf("%w: dimension %d, win streak %d", apperror.ErrSettingsTooSmall, dimension, winStreak)
	}

	if dimension > MaxDimension || winStreak > MaxWinStreak {
		return Settings{}, fmt.Errorf("%w: dimension %d, win streak %d", apperror.ErrSettingsTooLarge, dimension, winStreak)
	}

	if winStreak > dimension {
		return Settings{}, fmt.Errorf("%w: dimension %d, win streak %d", apperror.ErrStreakExceedsGrid, dimension, winStreak)
	}

	return Settings{Dimension: dimension, WinStreak: winStreak}, nil
}

// RejectionReasonOf - maps a validation error to its reason. The second
// value is false when err is not a settings rejection.
func RejectionReasonOf(err error) (RejectionReason, bool) {
	switch {
	case errors.Is(err, apperror.ErrSettingsTooSmall):
		return ReasonTooSmall, true
	case errors.Is(err, apperror.ErrSettingsTooLarge):
		return ReasonTooLarge, true
	case errors.Is(err, apperror.ErrStreakExceedsGrid):
		return ReasonStreakExceedsGrid, true
	default:
		return "", false
	}
}
