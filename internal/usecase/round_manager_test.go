package usecase

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/ultimate-tictactoe/internal/apperror"
	"github.com/rocketscienceinc/ultimate-tictactoe/internal/entity"
	"github.com/rocketscienceinc/ultimate-tictactoe/internal/repository"
)

var errRedisDown = errors.New("redis down")

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func TestRoundManager_StartRound(t *testing.T) {
	ctx := context.Background()

	t.Run("Creates a round from valid settings", func(t *testing.T) {
		// Given: a repository that accepts writes
		mockRepo := newMockRoundRepo(t)
		presenter := newMockPresenter(t)
		manager := NewRoundManager(testLogger(), mockRepo)

		mockRepo.On("CreateOrUpdate", mock.Anything, mock.AnythingOfType("*entity.Round")).
			Return(nil).
			Once()

		// When: a 5x5 round with streak 4 is started
		round, err := manager.StartRound(ctx, presenter, 5, 4)

		// Then: an empty round with X to move is returned
		require.NoError(t, err)
		assert.NotEmpty(t, round.ID)
		assert.Equal(t, entity.Settings{Dimension: 5, WinStreak: 4}, round.Settings)
		assert.Equal(t, entity.PlayerX, round.Turn)
		assert.True(t, round.IsOngoing())
	})

	t.Run("Notifies and rejects invalid settings", func(t *testing.T) {
		cases := []struct {
			dimension int
			winStreak int
			reason    entity.RejectionReason
			err       error
		}{
			{2, 3, entity.ReasonTooSmall, apperror.ErrSettingsTooSmall},
			{11, 3, entity.ReasonTooLarge, apperror.ErrSettingsTooLarge},
			{4, 6, entity.ReasonStreakExceedsGrid, apperror.ErrStreakExceedsGrid},
		}

		for _, c := range cases {
			// Given: a presenter expecting a notification
			mockRepo := newMockRoundRepo(t)
			presenter := newMockPresenter(t)
			manager := NewRoundManager(testLogger(), mockRepo)

			presenter.On("Notify", mock.Anything, c.reason).Return().Once()

			// When: the round is started
			round, err := manager.StartRound(ctx, presenter, c.dimension, c.winStreak)

			// Then: nothing is stored and the reason is surfaced
			require.ErrorIs(t, err, c.err)
			assert.Nil(t, round)
			mockRepo.AssertNotCalled(t, "CreateOrUpdate", mock.Anything, mock.Anything)
		}
	})

	t.Run("Returns error when the repository fails", func(t *testing.T) {
		mockRepo := newMockRoundRepo(t)
		presenter := newMockPresenter(t)
		manager := NewRoundManager(testLogger(), mockRepo)

		mockRepo.On("CreateOrUpdate", mock.Anything, mock.Anything).Return(errRedisDown).Once()

		round, err := manager.StartRound(ctx, presenter, 3, 3)

		require.ErrorIs(t, err, errRedisDown)
		assert.Nil(t, round)
	})
}

func TestRoundManager_MakeTurn(t *testing.T) {
	ctx := context.Background()

	t.Run("Applies a move and saves the round", func(t *testing.T) {
		// Given: a stored round
		mockRepo := newMockRoundRepo(t)
		presenter := newMockPresenter(t)
		manager := NewRoundManager(testLogger(), mockRepo)

		stored := entity.NewRound("r1", entity.Settings{Dimension: 3, WinStreak: 3})
		mockRepo.On("GetByID", mock.Anything, "r1").Return(stored, nil).Once()
		mockRepo.On("CreateOrUpdate", mock.Anything, mock.MatchedBy(func(r *entity.Round) bool {
			return r.Board.Cell(1, 1) == entity.PlayerX && r.Turn == entity.PlayerO
		})).Return(nil).Once()

		// When: X plays the center
		round, err := manager.MakeTurn(ctx, presenter, "r1", 1, 1)

		// Then: the updated round is returned
		require.NoError(t, err)
		assert.Equal(t, entity.PlayerX, round.Board.Cell(1, 1))
		assert.Equal(t, entity.PlayerO, round.Turn)
	})

	t.Run("Occupied cell is a silent no-op", func(t *testing.T) {
		// Given: a round where the center is taken
		mockRepo := newMockRoundRepo(t)
		presenter := newMockPresenter(t)
		manager := NewRoundManager(testLogger(), mockRepo)

		stored := entity.NewRound("r1", entity.Settings{Dimension: 3, WinStreak: 3})
		stored.Board.Set(1, 1, entity.PlayerX)
		stored.Turn = entity.PlayerO
		mockRepo.On("GetByID", mock.Anything, "r1").Return(stored, nil).Once()

		// When: O plays the center
		round, err := manager.MakeTurn(ctx, presenter, "r1", 1, 1)

		// Then: no error, nothing saved, turn and outcome unchanged
		require.NoError(t, err)
		assert.Equal(t, entity.PlayerO, round.Turn)
		assert.True(t, round.IsOngoing())
		mockRepo.AssertNotCalled(t, "CreateOrUpdate", mock.Anything, mock.Anything)
	})

	t.Run("Celebrates a winning move", func(t *testing.T) {
		// Given: X needs one more mark on the top row
		mockRepo := newMockRoundRepo(t)
		presenter := newMockPresenter(t)
		manager := NewRoundManager(testLogger(), mockRepo)

		stored := entity.NewRound("r1", entity.Settings{Dimension: 3, WinStreak: 3})
		stored.Board.Set(0, 0, entity.PlayerX)
		stored.Board.Set(0, 1, entity.PlayerX)
		stored.Board.Set(1, 0, entity.PlayerO)
		stored.Board.Set(1, 1, entity.PlayerO)
		stored.Moves = 4

		mockRepo.On("GetByID", mock.Anything, "r1").Return(stored, nil).Once()
		mockRepo.On("CreateOrUpdate", mock.Anything, mock.Anything).Return(nil).Once()
		presenter.On("Celebrate", mock.Anything, mock.MatchedBy(func(r *entity.Round) bool {
			return r.Winner == entity.PlayerX
		})).Return().Once()

		// When: X completes the row
		round, err := manager.MakeTurn(ctx, presenter, "r1", 0, 2)

		// Then: X wins
		require.NoError(t, err)
		assert.True(t, round.HasWinner())
	})

	t.Run("Draw is not celebrated", func(t *testing.T) {
		// Given: one free cell left that does not complete a line
		mockRepo := newMockRoundRepo(t)
		presenter := newMockPresenter(t)
		manager := NewRoundManager(testLogger(), mockRepo)

		// X O X
		// X O O
		// O X .
		stored := entity.NewRound("r1", entity.Settings{Dimension: 3, WinStreak: 3})
		marks := []entity.Mark{
			entity.PlayerX, entity.PlayerO, entity.PlayerX,
			entity.PlayerX, entity.PlayerO, entity.PlayerO,
			entity.PlayerO, entity.PlayerX,
		}
		for i, m := range marks {
			stored.Board.Set(i/3, i%3, m)
		}
		stored.Moves = 8

		mockRepo.On("GetByID", mock.Anything, "r1").Return(stored, nil).Once()
		mockRepo.On("CreateOrUpdate", mock.Anything, mock.Anything).Return(nil).Once()

		// When: X fills the last cell
		round, err := manager.MakeTurn(ctx, presenter, "r1", 2, 2)

		// Then: the round is a draw and Celebrate is never called
		require.NoError(t, err)
		assert.True(t, round.IsDraw())
		presenter.AssertNotCalled(t, "Celebrate", mock.Anything, mock.Anything)
	})

	t.Run("Unknown round", func(t *testing.T) {
		mockRepo := newMockRoundRepo(t)
		presenter := newMockPresenter(t)
		manager := NewRoundManager(testLogger(), mockRepo)

		mockRepo.On("GetByID", mock.Anything, "nope").Return(nil, apperror.ErrRoundNotFound).Once()

		round, err := manager.MakeTurn(ctx, presenter, "nope", 0, 0)

		require.ErrorIs(t, err, apperror.ErrRoundNotFound)
		assert.Nil(t, round)
	})

	t.Run("Save failure", func(t *testing.T) {
		mockRepo := newMockRoundRepo(t)
		presenter := newMockPresenter(t)
		manager := NewRoundManager(testLogger(), mockRepo)

		stored := entity.NewRound("r1", entity.Settings{Dimension: 3, WinStreak: 3})
		mockRepo.On("GetByID", mock.Anything, "r1").Return(stored, nil).Once()
		mockRepo.On("CreateOrUpdate", mock.Anything, mock.Anything).Return(errRedisDown).Once()

		round, err := manager.MakeTurn(ctx, presenter, "r1", 0, 0)

		require.ErrorIs(t, err, errRedisDown)
		assert.Nil(t, round)
	})
}

func TestRoundManager_ResetAndAbandon(t *testing.T) {
	ctx := context.Background()

	t.Run("Reset returns the round to its initial state", func(t *testing.T) {
		mockRepo := newMockRoundRepo(t)
		manager := NewRoundManager(testLogger(), mockRepo)

		stored := entity.NewRound("r1", entity.Settings{Dimension: 4, WinStreak: 3})
		stored.Board.Set(0, 0, entity.PlayerX)
		stored.Status = entity.StatusFinished
		stored.Winner = entity.PlayerX

		mockRepo.On("GetByID", mock.Anything, "r1").Return(stored, nil).Once()
		mockRepo.On("CreateOrUpdate", mock.Anything, mock.Anything).Return(nil).Once()

		round, err := manager.ResetRound(ctx, "r1")

		require.NoError(t, err)
		assert.Equal(t, entity.NewRound("r1", entity.Settings{Dimension: 4, WinStreak: 3}), round)
	})

	t.Run("Abandon deletes the round", func(t *testing.T) {
		mockRepo := newMockRoundRepo(t)
		manager := NewRoundManager(testLogger(), mockRepo)

		mockRepo.On("DeleteByID", mock.Anything, "r1").Return(nil).Once()

		require.NoError(t, manager.AbandonRound(ctx, "r1"))
	})

	t.Run("Abandon of an unknown round", func(t *testing.T) {
		mockRepo := newMockRoundRepo(t)
		manager := NewRoundManager(testLogger(), mockRepo)

		mockRepo.On("DeleteByID", mock.Anything, "r1").Return(apperror.ErrRoundNotFound).Once()

		require.ErrorIs(t, manager.AbandonRound(ctx, "r1"), apperror.ErrRoundNotFound)
	})
}

func TestRoundManager_FullRoundInMemory(t *testing.T) {
	ctx := context.Background()

	// Given: a manager over the in-memory store
	manager := NewRoundManager(testLogger(), repository.NewMemoryRoundRepository(0))
	presenter := newMockPresenter(t)
	presenter.On("Celebrate", mock.Anything, mock.Anything).Return().Once()

	round, err := manager.StartRound(ctx, presenter, 3, 3)
	require.NoError(t, err)

	// When: X wins on the top row, then a further move is attempted
	moves := [][2]int{{0, 0}, {1, 0}, {0, 1}, {1, 1}, {0, 2}, {2, 2}}
	for _, m := range moves {
		round, err = manager.MakeTurn(ctx, presenter, round.ID, m[0], m[1])
		require.NoError(t, err)
	}

	// Then: X won and the extra move left the board unchanged
	assert.Equal(t, entity.PlayerX, round.Winner)
	assert.Equal(t, entity.EmptyCell, round.Board.Cell(2, 2))

	// When: the round is reset
	round, err = manager.ResetRound(ctx, round.ID)
	require.NoError(t, err)

	// Then: it is playable again
	assert.True(t, round.IsOngoing())
	assert.Equal(t, entity.PlayerX, round.Turn)

	// When: the round is abandoned
	require.NoError(t, manager.AbandonRound(ctx, round.ID))

	// Then: it is gone
	_, err = manager.GetRound(ctx, round.ID)
	require.ErrorIs(t, err, apperror.ErrRoundNotFound)
}
