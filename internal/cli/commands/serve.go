package commands

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/dbcomp/internal/cli/config"
	"github.com/leapstack-labs/dbcomp/internal/metrics"
	"github.com/leapstack-labs/dbcomp/internal/server"

	// postgres driver registration for catalog lookups.
	_ "github.com/leapstack-labs/dbcomp/pkg/drivers/postgres"
)

// ServeOptions holds options for the serve command.
type ServeOptions struct {
	Port int
}

// NewServeCommand creates the serve command.
func NewServeCommand(version, commit, date string) *cobra.Command {
	opts := &ServeOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the completion server",
		Long: `Start the HTTP server that answers completion requests.

Endpoints:
- GET /jl-db-comp/completions  table, view and column completions
- GET /jl-db-comp/hello        connectivity check
- GET /healthz                 liveness probe
- GET /metrics                 Prometheus metrics`,
		Example: `  # Start on the default port
  dbcomp serve

  # Start on a custom port
  dbcomp serve --port 9000

  # Point at a database without touching the environment
  dbcomp serve --database-url postgres://localhost/app`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, opts, version, commit, date)
		},
	}

	cmd.Flags().IntVar(&opts.Port, "port", 0, "Port to serve on (default: 8765)")

	return cmd
}

func runServe(cmd *cobra.Command, opts *ServeOptions, version, commit, date string) error {
	cfg := getConfig()
	logger := config.GetLogger(cmd.Context())

	// CLI flags override config file
	port := cfg.Port
	if opts.Port != 0 {
		port = opts.Port
	}

	metrics.BuildInfo.WithLabelValues(version, commit, date).Set(1)

	srv := server.NewServer(server.Config{
		Driver:      resolveDriver(logger),
		FallbackURL: cfg.DatabaseURL,
		AuthToken:   cfg.AuthToken,
		CORSOrigins: cfg.CORSOrigins,
		Port:        port,
		Logger:      logger,
	})

	fmt.Printf("Starting completion server on http://localhost:%d\n", port)
	fmt.Println("Press Ctrl+C to stop")

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return srv.Serve(ctx)
}
