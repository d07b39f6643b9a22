package hello

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
)

// SetupRoutes registers the hello feature routes.
func SetupRoutes(router chi.Router, logger *slog.Logger) error {
	handlers := NewHandlers(logger)

	router.Get("/hello", handlers.Hello)

	return nil
}
