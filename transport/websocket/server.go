package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/ultimate-tictactoe/internal/apperror"
	"github.com/rocketscienceinc/ultimate-tictactoe/internal/entity"
	"github.com/rocketscienceinc/ultimate-tictactoe/internal/usecase"
	"github.com/rocketscienceinc/ultimate-tictactoe/transport/rest"
)

type roundUseCase interface {
	StartRound(ctx context.Context, presenter usecase.Presenter, dimension, winStreak int) (*entity.Round, error)
	GetRound(ctx context.Context, id string) (*entity.Round, error)
	MakeTurn(ctx context.Context, presenter usecase.Presenter, id string, row, col int) (*entity.Round, error)
	ResetRound(ctx context.Context, id string) (*entity.Round, error)
	AbandonRound(ctx context.Context, id string) error
}

type handlerFunc func(ctx context.Context, sess *session, payload *RequestPayload) error

type Server struct {
	logger   *slog.Logger
	rounds   roundUseCase
	upgrader websocket.Upgrader

	handlers map[string]handlerFunc
}

func New(logger *slog.Logger, rounds roundUseCase) *Server {
	server := &Server{
		logger: logger.With("component", "websocket"),
		rounds: rounds,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},

		handlers: make(map[string]handlerFunc),
	}

	server.handlers[actionRoundNew] = server.handleNewRound
	server.handlers[actionRoundTurn] = server.handleTurn
	server.handlers[actionRoundReset] = server.handleReset
	server.handlers[actionRoundLeave] = server.handleLeave
	server.handlers[actionRoundState] = server.handleState

	return server
}

// Start - starts WebSocket server.
func (that *Server) Start(ctx context.Context, port string) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		that.upgradeToWebSocket(ctx, w, r)
	})

	return rest.Start(ctx, port, mux)
}

// ServeHTTP - serves a single connection bound to the request context.
func (that *Server) ServeHTTP(writer http.ResponseWriter, req *http.Request) {
	that.upgradeToWebSocket(req.Context(), writer, req)
}

// upgradeToWebSocket - upgrades the connection to WebSocket and serves it
// until the client leaves or ctx is canceled. A round started on the
// connection does not outlive it.
func (that *Server) upgradeToWebSocket(ctx context.Context, writer http.ResponseWriter, req *http.Request) {
	log := that.logger.With("method", "upgradeConnection")

	conn, err := that.upgrader.Upgrade(writer, req, nil)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}
	defer conn.Close()

	log.Info("WebSocket connection established")

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// unblock the reader when the server shuts down
	go func() {
		<-ctx.Done()
		_ = conn.Close()
	}()

	sess := &session{conn: conn}
	that.handleMessages(ctx, sess)

	that.abandonOwnedRound(context.WithoutCancel(ctx), sess)
}

// abandonOwnedRound - drops the round the connection started. Rounds the
// connection only attached to are left to their own clients and the store ttl.
func (that *Server) abandonOwnedRound(ctx context.Context, sess *session) {
	if sess.roundID == "" || !sess.ownsRound {
		return
	}

	err := that.rounds.AbandonRound(ctx, sess.roundID)
	if err != nil && !errors.Is(err, apperror.ErrRoundNotFound) {
		that.logger.Error("failed to abandon round on disconnect", "roundID", sess.roundID, "error", err)
		return
	}

	that.logger.Debug("round abandoned on disconnect", "roundID", sess.roundID)
	sess.detach()
}

// handleMessages - processes messages from the client.
func (that *Server) handleMessages(ctx context.Context, sess *session) {
	log := that.logger.With("method", "handleMessages")

	for {
		_, data, err := sess.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Error("error reading message", "error", err)
			}
			return
		}

		var message Message
		if err = json.Unmarshal(data, &message); err != nil {
			log.Error("failed to unmarshal message", "error", err)
			if err = sess.sendError("", "invalid message"); err != nil {
				return
			}
			continue
		}

		handler, ok := that.handlers[message.Action]
		if !ok {
			log.Error("unknown action", "action", message.Action)
			if err = sess.sendError(message.Action, "unknown action"); err != nil {
				return
			}
			continue
		}

		var payload RequestPayload
		if len(message.Payload) > 0 {
			if err = json.Unmarshal(message.Payload, &payload); err != nil {
				log.Error("failed to unmarshal payload", "action", message.Action, "error", err)
				if err = sess.sendError(message.Action, "invalid payload"); err != nil {
					return
				}
				continue
			}
		}

		if err = handler(ctx, sess, &payload); err != nil {
			log.Error("error processing message", "action", message.Action, "error", err)
			return
		}
	}
}
