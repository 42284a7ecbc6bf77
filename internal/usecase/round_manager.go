package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/rocketscienceinc/ultimate-tictactoe/internal/apperror"
	"github.com/rocketscienceinc/ultimate-tictactoe/internal/entity"
	"github.com/rocketscienceinc/ultimate-tictactoe/internal/metrics"
	"github.com/rocketscienceinc/ultimate-tictactoe/internal/pkg"
	"github.com/rocketscienceinc/ultimate-tictactoe/internal/tictactoe"
)

// Presenter is implemented by every front end that drives a round. Notify
// surfaces a settings rejection to the user, Celebrate is called once when a
// move wins the round.
type Presenter interface {
	Notify(ctx context.Context, reason entity.RejectionReason)
	Celebrate(ctx context.Context, round *entity.Round)
}

type roundRepo interface {
	CreateOrUpdate(ctx context.Context, round *entity.Round) error
	GetByID(ctx context.Context, id string) (*entity.Round, error)
	DeleteByID(ctx context.Context, id string) error
}

type RoundManager struct {
	logger    *slog.Logger
	roundRepo roundRepo

	// serializes load-apply-save of rounds
	mu sync.Mutex
}

func NewRoundManager(logger *slog.Logger, roundRepo roundRepo) *RoundManager {
	return &RoundManager{
		logger: logger.With("component", "round_manager"),

		roundRepo: roundRepo,
	}
}

// StartRound - validates the settings and creates a fresh round.
func (that *RoundManager) StartRound(ctx context.Context, presenter Presenter, dimension, winStreak int) (*entity.Round, error) {
	log := that.logger.With("method", "StartRound")

	settings, err := entity.NewSettings(dimension, winStreak)
	if err != nil {
		if reason, ok := entity.RejectionReasonOf(err); ok {
			metrics.SettingsRejectedTotal.WithLabelValues(string(reason)).Inc()
			presenter.Notify(ctx, reason)
		}

		log.Debug("settings rejected", "dimension", dimension, "win_streak", winStreak, "error", err)

		return nil, fmt.Errorf("invalid settings: %w", err)
	}

	round := entity.NewRound(pkg.GenerateRoundID(), settings)

	if err = that.roundRepo.CreateOrUpdate(ctx, round); err != nil {
		return nil, fmt.Errorf("failed to create round: %w", err)
	}

	metrics.RoundsStartedTotal.Inc()
	log.Info("round started", "roundID", round.ID, "dimension", dimension, "win_streak", winStreak)

	return round, nil
}

func (that *RoundManager) GetRound(ctx context.Context, id string) (*entity.Round, error) {
	round, err := that.roundRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get round: %w", err)
	}

	return round, nil
}

// MakeTurn - applies a move for the player whose turn it is. Moves that are
// out of bounds, on an occupied cell, or after the round ended are ignored:
// the round is returned unchanged and no error is reported.
func (that *RoundManager) MakeTurn(ctx context.Context, presenter Presenter, id string, row, col int) (*entity.Round, error) {
	log := that.logger.With("method", "MakeTurn", "roundID", id)

	that.mu.Lock()
	defer that.mu.Unlock()

	round, err := that.GetRound(ctx, id)
	if err != nil {
		return nil, err
	}

	if err = tictactoe.MakeTurn(round, row, col); err != nil {
		if isIgnoredMove(err) {
			metrics.MovesTotal.WithLabelValues(metrics.MoveIgnored).Inc()
			log.Debug("move ignored", "row", row, "col", col, "reason", err)

			return round, nil
		}

		return nil, fmt.Errorf("failed make turn: %w", err)
	}

	metrics.MovesTotal.WithLabelValues(metrics.MoveApplied).Inc()

	if err = that.updateRound(ctx, round); err != nil {
		return nil, err
	}

	if round.IsFinished() {
		metrics.RoundsFinishedTotal.WithLabelValues(round.Outcome()).Inc()
		log.Info("round finished", "outcome", round.Outcome(), "moves", round.Moves)
	}

	if round.HasWinner() {
		presenter.Celebrate(ctx, round)
	}

	return round, nil
}

// ResetRound - starts the round over on an empty board with the same settings.
func (that *RoundManager) ResetRound(ctx context.Context, id string) (*entity.Round, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	round, err := that.GetRound(ctx, id)
	if err != nil {
		return nil, err
	}

	tictactoe.Reset(round)

	if err = that.updateRound(ctx, round); err != nil {
		return nil, err
	}

	that.logger.Info("round reset", "roundID", id)

	return round, nil
}

// AbandonRound - discards the round and its settings.
func (that *RoundManager) AbandonRound(ctx context.Context, id string) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	if err := that.roundRepo.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("failed to delete round: %w", err)
	}

	that.logger.Info("round abandoned", "roundID", id)

	return nil
}

func (that *RoundManager) updateRound(ctx context.Context, round *entity.Round) error {
	if err := that.roundRepo.CreateOrUpdate(ctx, round); err != nil {
		return fmt.Errorf("failed to update round: %w", err)
	}

	return nil
}

func isIgnoredMove(err error) bool {
	return errors.Is(err, apperror.ErrGameFinished) ||
		errors.Is(err, apperror.ErrInvalidCell) ||
		errors.Is(err, apperror.ErrCellOccupied)
}
