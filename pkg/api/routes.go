// Package api serves an Analyzer over HTTP.
package api

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/japaniel/sentimenticon/pkg/sentimenticon"
)

// NewRouter wires the HTTP routes for analyzer. A nil logger uses slog.Default().
func NewRouter(analyzer *sentimenticon.Analyzer, logger *slog.Logger) *chi.Mux {
	if logger == nil {
		logger = slog.Default()
	}
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(LoggingMiddleware(logger))

	h := NewHandlers(analyzer)

	r.Get("/health", h.Health)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(JSONContentType)

		r.Get("/stats", h.Stats)
		r.Get("/words/{word}", h.Word)
		r.Get("/words/{word}/entry", h.Entry)
		r.Post("/score", h.Score)
	})

	return r
}
