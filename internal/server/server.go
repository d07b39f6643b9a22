// Package server provides the HTTP server answering completion queries.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"golang.org/x/sync/errgroup"

	"github.com/leapstack-labs/dbcomp/internal/metrics"
	"github.com/leapstack-labs/dbcomp/internal/server/middleware"
	"github.com/leapstack-labs/dbcomp/internal/server/router"
	"github.com/leapstack-labs/dbcomp/pkg/driver"
)

// Server is the completion HTTP server.
type Server struct {
	driver      driver.Driver
	fallbackURL string
	authToken   string
	corsOrigins []string
	port        int
	logger      *slog.Logger
}

// Config holds configuration for the completion server.
type Config struct {
	Driver      driver.Driver
	FallbackURL string
	AuthToken   string
	CORSOrigins []string
	Port        int
	Logger      *slog.Logger
}

// NewServer creates a new completion server instance.
func NewServer(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Server{
		driver:      cfg.Driver,
		fallbackURL: cfg.FallbackURL,
		authToken:   cfg.AuthToken,
		corsOrigins: cfg.CORSOrigins,
		port:        cfg.Port,
		logger:      logger,
	}
}

// Handler builds the HTTP handler with the full middleware stack. It is
// split from Serve so tests can drive the stack without a listener.
func (s *Server) Handler() (http.Handler, error) {
	r := chi.NewMux()
	r.Use(
		middleware.RequestID,
		middleware.Logger(s.logger),
		chimiddleware.Recoverer,
		metrics.Middleware,
		chimiddleware.Compress(5),
	)

	if len(s.corsOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: s.corsOrigins,
			AllowedMethods: []string{"GET", "OPTIONS"},
			AllowedHeaders: []string{"Authorization", "Content-Type"},
			MaxAge:         300,
		}))
	}

	if err := router.SetupRoutes(r, router.Deps{
		Driver:      s.driver,
		FallbackURL: s.fallbackURL,
		AuthToken:   s.authToken,
		Logger:      s.logger,
	}); err != nil {
		return nil, fmt.Errorf("failed to setup routes: %w", err)
	}

	return r, nil
}

// Serve starts the server and blocks until the context is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	addr := fmt.Sprintf(":%d", s.port)
	s.logger.Info("starting completion server", "addr", fmt.Sprintf("http://localhost:%d", s.port))

	handler, err := s.Handler()
	if err != nil {
		return err
	}

	eg, egctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Addr:    addr,
		Handler: handler,
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	eg.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Debug("shutting down completion server...")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}
