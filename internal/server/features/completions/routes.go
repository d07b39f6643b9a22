package completions

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/leapstack-labs/dbcomp/pkg/driver"
)

// SetupRoutes registers the completions feature routes.
func SetupRoutes(router chi.Router, drv driver.Driver, fallbackURL string, logger *slog.Logger) error {
	handlers := NewHandlers(drv, fallbackURL, logger)

	router.Get("/completions", handlers.Completions)

	return nil
}
