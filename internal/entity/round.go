package entity

import (
	"errors"
	"fmt"
)

var ErrMalformedRound = errors.New("malformed round")

const (
	StatusFinished = "finished"
	StatusOngoing  = "ongoing"
)

// Move is a cell coordinate on the board.
type Move struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Round is one playthrough from an empty board to a win, a draw or abandonment.
type Round struct {
	ID       string   `json:"id"`
	Settings Settings `json:"settings"`
	Board    *Board   `json:"board"`
	Turn     Mark     `json:"player_turn"`
	Status   string   `json:"status"`
	Winner   Mark     `json:"winner"`
	Moves    int      `json:"moves"`
	LastMove *Move    `json:"last_move,omitempty"`
}

func NewRound(id string, settings Settings) *Round {
	return &Round{
		ID:       id,
		Settings: settings,
		Board:    NewBoard(settings.Dimension),
		Turn:     PlayerX,
		Status:   StatusOngoing,
		Winner:   EmptyCell,
	}
}

// Validate checks a round loaded from outside the process: its settings must
// be within bounds and its board must match the configured dimension.
func (that *Round) Validate() error {
	if _, err := NewSettings(that.Settings.Dimension, that.Settings.WinStreak); err != nil {
		return fmt.Errorf("%w: %w", ErrMalformedRound, err)
	}

	if that.Board == nil {
		return fmt.Errorf("%w: no board", ErrMalformedRound)
	}

	if that.Board.Size() != that.Settings.Dimension {
		return fmt.Errorf("%w: board size %d, dimension %d", ErrMalformedRound, that.Board.Size(), that.Settings.Dimension)
	}

	if that.Turn != PlayerX && that.Turn != PlayerO {
		return fmt.Errorf("%w: unknown turn %q", ErrMalformedRound, that.Turn)
	}

	return nil
}

func (that *Round) IsFinished() bool {
	return that.Status == StatusFinished
}

func (that *Round) IsOngoing() bool {
	return that.Status == StatusOngoing
}

// HasWinner reports a finished round won by X or O.
func (that *Round) HasWinner() bool {
	return that.IsFinished() && (that.Winner == PlayerX || that.Winner == PlayerO)
}

func (that *Round) IsDraw() bool {
	return that.IsFinished() && that.Winner == PlayerTie
}

// Outcome - short label of the round state: ongoing, X, O or draw.
func (that *Round) Outcome() string {
	switch {
	case that.HasWinner():
		return string(that.Winner)
	case that.IsDraw():
		return "draw"
	default:
		return StatusOngoing
	}
}

// Clone returns a deep copy that shares no storage with the receiver.
func (that *Round) Clone() *Round {
	clone := *that
	if that.Board != nil {
		clone.Board = that.Board.Clone()
	}
	if that.LastMove != nil {
		move := *that.LastMove
		clone.LastMove = &move
	}
	return &clone
}
