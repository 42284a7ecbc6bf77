package entity

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRound(t *testing.T) {
	// When: a round is created for a 4x4 board
	round := NewRound("123", Settings{Dimension: 4, WinStreak: 3})

	// Then: it starts empty with X to move
	assert.Equal(t, "123", round.ID)
	assert.Equal(t, PlayerX, round.Turn)
	assert.Equal(t, StatusOngoing, round.Status)
	assert.Equal(t, EmptyCell, round.Winner)
	assert.Equal(t, 4, round.Board.Size())
	assert.False(t, round.Board.IsFull())
	assert.Equal(t, StatusOngoing, round.Outcome())
}

func TestRound_StatusMethods(t *testing.T) {
	t.Run("Winner", func(t *testing.T) {
		round := &Round{Status: StatusFinished, Winner: PlayerO}

		assert.True(t, round.IsFinished())
		assert.True(t, round.HasWinner())
		assert.False(t, round.IsDraw())
		assert.Equal(t, "O", round.Outcome())
	})

	t.Run("Draw", func(t *testing.T) {
		round := &Round{Status: StatusFinished, Winner: PlayerTie}

		assert.True(t, round.IsDraw())
		assert.False(t, round.HasWinner())
		assert.Equal(t, "draw", round.Outcome())
	})

	t.Run("Ongoing", func(t *testing.T) {
		round := &Round{Status: StatusOngoing}

		assert.True(t, round.IsOngoing())
		assert.False(t, round.HasWinner())
		assert.False(t, round.IsDraw())
	})
}

func TestRound_Clone(t *testing.T) {
	// Given: a round with a move on the board
	round := NewRound("1", Settings{Dimension: 3, WinStreak: 3})
	round.Board.Set(0, 0, PlayerX)
	round.LastMove = &Move{Row: 0, Col: 0}

	// When: the clone is modified
	clone := round.Clone()
	clone.Board.Set(1, 1, PlayerO)
	clone.LastMove.Row = 1

	// Then: the original is untouched
	assert.Equal(t, EmptyCell, round.Board.Cell(1, 1))
	assert.Equal(t, 0, round.LastMove.Row)
}

func TestRound_JSONRoundTrip(t *testing.T) {
	// Given: a round in progress
	round := NewRound("abc", Settings{Dimension: 3, WinStreak: 3})
	round.Board.Set(1, 1, PlayerX)
	round.Turn = PlayerO
	round.Moves = 1
	round.LastMove = &Move{Row: 1, Col: 1}

	// When: it is encoded and decoded
	data, err := json.Marshal(round)
	require.NoError(t, err)

	var decoded Round
	require.NoError(t, json.Unmarshal(data, &decoded))

	// Then: the decoded round equals the original
	assert.Equal(t, round, &decoded)
}

func TestRound_Validate(t *testing.T) {
	t.Run("Fresh round", func(t *testing.T) {
		round := NewRound("123", Settings{Dimension: 5, WinStreak: 4})

		assert.NoError(t, round.Validate())
	})

	t.Run("Broken rounds", func(t *testing.T) {
		cases := map[string]*Round{
			"board smaller than dimension": {
				Settings: Settings{Dimension: 4, WinStreak: 3},
				Board:    NewBoard(3),
				Turn:     PlayerX,
			},
			"no board": {
				Settings: Settings{Dimension: 3, WinStreak: 3},
				Turn:     PlayerX,
			},
			"settings out of bounds": {
				Settings: Settings{Dimension: 2, WinStreak: 2},
				Board:    NewBoard(2),
				Turn:     PlayerX,
			},
			"unknown turn": {
				Settings: Settings{Dimension: 3, WinStreak: 3},
				Board:    NewBoard(3),
				Turn:     EmptyCell,
			},
		}

		for name, round := range cases {
			assert.ErrorIs(t, round.Validate(), ErrMalformedRound, name)
		}
	})

	t.Run("Decoded board that does not match the settings", func(t *testing.T) {
		// Given: a stored round whose board lost its rows
		raw := `{"id":"1","settings":{"dimension":3,"win_streak":3},"board":[["X"]],"player_turn":"O","status":"ongoing"}`

		var round Round
		require.NoError(t, json.Unmarshal([]byte(raw), &round))

		// Then: validation catches the mismatch
		assert.ErrorIs(t, round.Validate(), ErrMalformedRound)
	})
}
