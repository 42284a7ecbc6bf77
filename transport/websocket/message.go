package websocket

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/ultimate-tictactoe/internal/entity"
)

const (
	actionRoundNew   = "round:new"
	actionRoundTurn  = "round:turn"
	actionRoundReset = "round:reset"
	actionRoundLeave = "round:leave"
	actionRoundState = "round:state"

	actionNotify    = "notify"
	actionCelebrate = "celebrate"
	actionError     = "error"
)

// Message represents a WebSocket message with an action type and a payload.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type RequestPayload struct {
	RoundID   string `json:"round_id,omitempty"`
	Dimension int    `json:"dimension,omitempty"`
	WinStreak int    `json:"win_streak,omitempty"`
	Row       int    `json:"row"`
	Col       int    `json:"col"`
}

type ResponsePayload struct {
	Round   *entity.Round          `json:"round,omitempty"`
	Reason  entity.RejectionReason `json:"reason,omitempty"`
	Message string                 `json:"message,omitempty"`
	Error   string                 `json:"error,omitempty"`
}

// session is one websocket connection. It plays at most one active round,
// either one it started or one it attached to by id.
type session struct {
	conn      *websocket.Conn
	roundID   string
	ownsRound bool

	writeMu sync.Mutex
}

func (that *session) attach(roundID string, owner bool) {
	that.roundID = roundID
	that.ownsRound = owner
}

func (that *session) detach() {
	that.attach("", false)
}

func (that *session) sendMessage(action string, payload ResponsePayload) error {
	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	that.writeMu.Lock()
	defer that.writeMu.Unlock()

	if err = that.conn.WriteJSON(Message{Action: action, Payload: payloadJSON}); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}

	return nil
}

func (that *session) sendError(action, text string) error {
	if action != "" {
		text = action + ": " + text
	}
	return that.sendMessage(actionError, ResponsePayload{Error: text})
}

// connPresenter pushes notifications and celebrations to the connection.
type connPresenter struct {
	logger  *slog.Logger
	session *session
}

func (that *connPresenter) Notify(_ context.Context, reason entity.RejectionReason) {
	payload := ResponsePayload{Reason: reason, Message: reason.Message()}

	if err := that.session.sendMessage(actionNotify, payload); err != nil {
		that.logger.Error("failed to send notification", "error", err)
	}
}

func (that *connPresenter) Celebrate(_ context.Context, round *entity.Round) {
	if err := that.session.sendMessage(actionCelebrate, ResponsePayload{Round: round}); err != nil {
		that.logger.Error("failed to send celebration", "error", err)
	}
}
