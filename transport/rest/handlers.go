package rest

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rocketscienceinc/ultimate-tictactoe/internal/apperror"
	"github.com/rocketscienceinc/ultimate-tictactoe/internal/entity"
	"github.com/rocketscienceinc/ultimate-tictactoe/internal/usecase"
)

type roundUseCase interface {
	StartRound(ctx context.Context, presenter usecase.Presenter, dimension, winStreak int) (*entity.Round, error)
	GetRound(ctx context.Context, id string) (*entity.Round, error)
	MakeTurn(ctx context.Context, presenter usecase.Presenter, id string, row, col int) (*entity.Round, error)
	ResetRound(ctx context.Context, id string) (*entity.Round, error)
	AbandonRound(ctx context.Context, id string) error
}

type RoundHandlers interface {
	CreateRound(w http.ResponseWriter, r *http.Request)
	GetRound(w http.ResponseWriter, r *http.Request)
	MakeTurn(w http.ResponseWriter, r *http.Request)
	ResetRound(w http.ResponseWriter, r *http.Request)
	AbandonRound(w http.ResponseWriter, r *http.Request)
}

type createRoundRequest struct {
	Dimension int `json:"dimension"`
	WinStreak int `json:"win_streak"`
}

type moveRequest struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

type Notification struct {
	Reason  entity.RejectionReason `json:"reason"`
	Message string                 `json:"message"`
}

type RoundResponse struct {
	Round        *entity.Round `json:"round,omitempty"`
	Notification *Notification `json:"notification,omitempty"`
	Celebrate    bool          `json:"celebrate,omitempty"`
	Error        string        `json:"error,omitempty"`
}

// responsePresenter collects presenter calls into the HTTP response body.
type responsePresenter struct {
	notification *Notification
	celebrate    bool
}

func (that *responsePresenter) Notify(_ context.Context, reason entity.RejectionReason) {
	that.notification = &Notification{Reason: reason, Message: reason.Message()}
}

func (that *responsePresenter) Celebrate(_ context.Context, _ *entity.Round) {
	that.celebrate = true
}

type roundHandlers struct {
	logger *slog.Logger
	rounds roundUseCase
}

func NewRoundHandlers(logger *slog.Logger, rounds roundUseCase) RoundHandlers {
	return &roundHandlers{
		logger: logger.With("component", "rest"),
		rounds: rounds,
	}
}

func (that *roundHandlers) CreateRound(w http.ResponseWriter, r *http.Request) {
	var req createRoundRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		that.writeJSON(w, http.StatusBadRequest, RoundResponse{Error: "invalid request body"})
		return
	}

	presenter := &responsePresenter{}

	round, err := that.rounds.StartRound(r.Context(), presenter, req.Dimension, req.WinStreak)
	if err != nil {
		that.writeError(w, "CreateRound", err, presenter)
		return
	}

	that.writeJSON(w, http.StatusCreated, RoundResponse{Round: round})
}

func (that *roundHandlers) GetRound(w http.ResponseWriter, r *http.Request) {
	round, err := that.rounds.GetRound(r.Context(), chi.URLParam(r, "roundID"))
	if err != nil {
		that.writeError(w, "GetRound", err, nil)
		return
	}

	that.writeJSON(w, http.StatusOK, RoundResponse{Round: round})
}

func (that *roundHandlers) MakeTurn(w http.ResponseWriter, r *http.Request) {
	var req moveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		that.writeJSON(w, http.StatusBadRequest, RoundResponse{Error: "invalid request body"})
		return
	}

	presenter := &responsePresenter{}

	round, err := that.rounds.MakeTurn(r.Context(), presenter, chi.URLParam(r, "roundID"), req.Row, req.Col)
	if err != nil {
		that.writeError(w, "MakeTurn", err, presenter)
		return
	}

	that.writeJSON(w, http.StatusOK, RoundResponse{Round: round, Celebrate: presenter.celebrate})
}

func (that *roundHandlers) ResetRound(w http.ResponseWriter, r *http.Request) {
	round, err := that.rounds.ResetRound(r.Context(), chi.URLParam(r, "roundID"))
	if err != nil {
		that.writeError(w, "ResetRound", err, nil)
		return
	}

	that.writeJSON(w, http.StatusOK, RoundResponse{Round: round})
}

func (that *roundHandlers) AbandonRound(w http.ResponseWriter, r *http.Request) {
	if err := that.rounds.AbandonRound(r.Context(), chi.URLParam(r, "roundID")); err != nil {
		that.writeError(w, "AbandonRound", err, nil)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (that *roundHandlers) writeError(w http.ResponseWriter, method string, err error, presenter *responsePresenter) {
	if _, ok := entity.RejectionReasonOf(err); ok && presenter != nil {
		that.writeJSON(w, http.StatusUnprocessableEntity, RoundResponse{
			Error:        "invalid settings",
			Notification: presenter.notification,
		})
		return
	}

	if errors.Is(err, apperror.ErrRoundNotFound) {
		that.writeJSON(w, http.StatusNotFound, RoundResponse{Error: apperror.ErrRoundNotFound.Error()})
		return
	}

	that.logger.Error("request failed", "method", method, "error", err)
	that.writeJSON(w, http.StatusInternalServerError, RoundResponse{Error: "Internal Server Error"})
}

func (that *roundHandlers) writeJSON(w http.ResponseWriter, status int, body RoundResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		that.logger.Error("failed to write response", "error", err)
	}
}
