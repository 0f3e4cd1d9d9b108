package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// NewRouter mounts the strategy endpoint at "/" and "/api/strategy".
// Method checks happen in the handler so every verb gets a JSON reply.
// Preflight requests are answered by corsMiddleware on any path.
func NewRouter(handler *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(loggingMiddleware(handler.logger))
	r.Use(recoverMiddleware(handler.logger))
	r.Use(corsMiddleware)

	r.Get("/healthz", handler.healthz)
	r.HandleFunc("/", handler.strategy)
	r.HandleFunc("/api/strategy", handler.strategy)

	return r
}
