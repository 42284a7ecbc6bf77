package websocket

import (
	"context"
	"errors"

	"github.com/rocketscienceinc/ultimate-tictactoe/internal/apperror"
	"github.com/rocketscienceinc/ultimate-tictactoe/internal/entity"
)

const errNoActiveRound = "no active round"

// Handlers report usecase failures to the client and return an error only
// when the connection itself can no longer be written to.

func (that *Server) handleNewRound(ctx context.Context, sess *session, payload *RequestPayload) error {
	log := that.logger.With("method", "handleNewRound")

	if sess.roundID != "" {
		if err := that.rounds.AbandonRound(ctx, sess.roundID); err != nil && !errors.Is(err, apperror.ErrRoundNotFound) {
			log.Error("failed to abandon previous round", "roundID", sess.roundID, "error", err)
		}
		sess.detach()
	}

	round, err := that.rounds.StartRound(ctx, that.presenter(sess), payload.Dimension, payload.WinStreak)
	if err != nil {
		if _, ok := entity.RejectionReasonOf(err); ok {
			// the presenter has already sent the notification
			return nil
		}

		log.Error("failed to start round", "error", err)
		return sess.sendError(actionRoundNew, "failed to start round")
	}

	sess.attach(round.ID, true)

	return sess.sendMessage(actionRoundNew, ResponsePayload{Round: round})
}

func (that *Server) handleTurn(ctx context.Context, sess *session, payload *RequestPayload) error {
	if sess.roundID == "" {
		return sess.sendError(actionRoundTurn, errNoActiveRound)
	}

	round, err := that.rounds.MakeTurn(ctx, that.presenter(sess), sess.roundID, payload.Row, payload.Col)
	if err != nil {
		return that.roundFailed(sess, actionRoundTurn, err)
	}

	return sess.sendMessage(actionRoundTurn, ResponsePayload{Round: round})
}

func (that *Server) handleReset(ctx context.Context, sess *session, _ *RequestPayload) error {
	if sess.roundID == "" {
		return sess.sendError(actionRoundReset, errNoActiveRound)
	}

	round, err := that.rounds.ResetRound(ctx, sess.roundID)
	if err != nil {
		return that.roundFailed(sess, actionRoundReset, err)
	}

	return sess.sendMessage(actionRoundReset, ResponsePayload{Round: round})
}

func (that *Server) handleLeave(ctx context.Context, sess *session, _ *RequestPayload) error {
	if sess.roundID == "" {
		return sess.sendError(actionRoundLeave, errNoActiveRound)
	}

	roundID := sess.roundID
	sess.detach()

	if err := that.rounds.AbandonRound(ctx, roundID); err != nil && !errors.Is(err, apperror.ErrRoundNotFound) {
		return that.roundFailed(sess, actionRoundLeave, err)
	}

	return sess.sendMessage(actionRoundLeave, ResponsePayload{})
}

// handleState - returns the active round, or attaches the connection to the
// round named in the payload, such as one created over REST or played in
// another tab.
func (that *Server) handleState(ctx context.Context, sess *session, payload *RequestPayload) error {
	roundID := payload.RoundID
	if roundID == "" {
		roundID = sess.roundID
	}

	if roundID == "" {
		return sess.sendError(actionRoundState, errNoActiveRound)
	}

	round, err := that.rounds.GetRound(ctx, roundID)
	if err != nil {
		if roundID != sess.roundID && errors.Is(err, apperror.ErrRoundNotFound) {
			// the active round, if any, stays attached
			return sess.sendError(actionRoundState, apperror.ErrRoundNotFound.Error())
		}
		return that.roundFailed(sess, actionRoundState, err)
	}

	if round.ID != sess.roundID {
		that.abandonOwnedRound(ctx, sess)
		sess.attach(round.ID, false)
	}

	return sess.sendMessage(actionRoundState, ResponsePayload{Round: round})
}

func (that *Server) roundFailed(sess *session, action string, err error) error {
	if errors.Is(err, apperror.ErrRoundNotFound) {
		sess.detach()
		return sess.sendError(action, apperror.ErrRoundNotFound.Error())
	}

	that.logger.Error("round action failed", "action", action, "error", err)

	return sess.sendError(action, "internal error")
}

func (that *Server) presenter(sess *session) *connPresenter {
	return &connPresenter{logger: that.logger, session: sess}
}
