// Package router sets up HTTP routes for the completion server.
package router

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	completionsFeature "github.com/leapstack-labs/dbcomp/internal/server/features/completions"
	helloFeature "github.com/leapstack-labs/dbcomp/internal/server/features/hello"
	"github.com/leapstack-labs/dbcomp/internal/server/middleware"
	"github.com/leapstack-labs/dbcomp/pkg/driver"
)

// Deps carries what the routes need to serve requests.
type Deps struct {
	// Driver is nil when no postgres driver is registered; the
	// completions feature then answers with an installation hint.
	Driver driver.Driver

	// FallbackURL is the configured connection string for requests that
	// carry no db_url.
	FallbackURL string

	// AuthToken guards the /jl-db-comp routes when non-empty. Health and
	// metrics stay open either way.
	AuthToken string

	Logger *slog.Logger
}

// SetupRoutes configures all routes for the completion server.
func SetupRoutes(router chi.Router, deps Deps) error {
	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok\n"))
	})

	router.Method(http.MethodGet, "/metrics", promhttp.Handler())

	var setupErr error
	router.Route("/jl-db-comp", func(api chi.Router) {
		api.Use(middleware.Auth(deps.AuthToken))

		if err := completionsFeature.SetupRoutes(api, deps.Driver, deps.FallbackURL, deps.Logger); err != nil {
			setupErr = err
			return
		}
		setupErr = helloFeature.SetupRoutes(api, deps.Logger)
	})

	return setupErr
}
