package rest

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter - builds the HTTP API: health check, metrics and the round endpoints.
func NewRouter(logger *slog.Logger, rounds roundUseCase) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	h := NewRoundHandlers(logger, rounds)

	r.Get("/ping", ping)
	r.Head("/ping", ping)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/rounds", func(r chi.Router) {
		r.Post("/", h.CreateRound)
		r.Get("/{roundID}", h.GetRound)
		r.Delete("/{roundID}", h.AbandonRound)
		r.Post("/{roundID}/moves", h.MakeTurn)
		r.Post("/{roundID}/reset", h.ResetRound)
	})

	return r
}

// ping answers liveness probes.
func ping(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, "pong")
}
