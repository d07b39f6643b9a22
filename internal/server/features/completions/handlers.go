package completions

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/leapstack-labs/dbcomp/internal/catalog"
	"github.com/leapstack-labs/dbcomp/internal/completion"
	"github.com/leapstack-labs/dbcomp/internal/metrics"
	"github.com/leapstack-labs/dbcomp/pkg/driver"
)

const (
	driverMissingMessage = "postgres driver is not registered. Install with: go get github.com/jackc/pgx/v5"
	noURLMessage         = "No database URL provided"
)

// Handlers provides HTTP handlers for the completions feature.
type Handlers struct {
	driver      driver.Driver
	fallbackURL string
	logger      *slog.Logger
}

// NewHandlers creates a Handlers instance. drv may be nil when no
// postgres driver is registered; requests then receive the installation
// hint without touching the database. fallbackURL is used for requests
// that carry no db_url of their own.
func NewHandlers(drv driver.Driver, fallbackURL string, logger *slog.Logger) *Handlers {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Handlers{
		driver:      drv,
		fallbackURL: fallbackURL,
		logger:      logger,
	}
}

// Completions answers GET /jl-db-comp/completions.
func (h *Handlers) Completions(w http.ResponseWriter, r *http.Request) {
	if h.driver == nil {
		metrics.CompletionErrors.WithLabelValues("driver_missing").Inc()
		h.writeJSON(w, http.StatusInternalServerError, errorEnvelope(driverMissingMessage))
		return
	}

	params := completion.ParseParams(r.URL.Query(), h.fallbackURL)
	if params.DBURL == "" {
		metrics.CompletionLookups.WithLabelValues("none").Inc()
		env := successEnvelope(nil, nil)
		env.Message = noURLMessage
		h.writeJSON(w, http.StatusOK, env)
		return
	}

	tables, columns, err := h.lookup(r.Context(), params)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, successEnvelope(tables, columns))
}

// lookup opens one connection for the request, dispatches the catalog
// query, and releases the connection before returning.
func (h *Handlers) lookup(ctx context.Context, params completion.Params) ([]catalog.TableEntry, []catalog.ColumnEntry, error) {
	db, err := h.driver.Connect(ctx, params.DBURL)
	if err != nil {
		return nil, nil, &catalog.DatabaseError{Err: err}
	}
	defer func() { _ = db.Close() }()

	cat := catalog.New(db, h.logger)

	var plan completion.Lookup
	if completion.NeedsSchemaProbe(params) {
		canonical, exists, err := cat.ResolveSchema(ctx, params.SchemaOrTable)
		if err != nil {
			return nil, nil, err
		}
		plan = completion.PlanLookup(params, canonical, exists)
	} else {
		plan = completion.PlanLookup(params, "", false)
	}

	if plan.Relations {
		metrics.CompletionLookups.WithLabelValues("relations").Inc()
		tables, err := cat.Relations(ctx, plan.Schema, plan.Prefix)
		return tables, nil, err
	}

	metrics.CompletionLookups.WithLabelValues("columns").Inc()
	columns, err := cat.Columns(ctx, plan.Schema, plan.Table, plan.Prefix)
	return nil, columns, err
}

// writeError maps a lookup failure to the 500 envelope. Database errors
// are trimmed to their first line so multi-line driver diagnostics stay
// out of responses.
func (h *Handlers) writeError(w http.ResponseWriter, err error) {
	var dbErr *catalog.DatabaseError
	if errors.As(err, &dbErr) {
		msg := dbErr.FirstLine()
		h.logger.Error("postgres error", "error", msg)
		metrics.CompletionErrors.WithLabelValues("database").Inc()
		h.writeJSON(w, http.StatusInternalServerError, errorEnvelope("Database error: "+msg))
		return
	}

	h.logger.Error("completion handler error", "error", err)
	metrics.CompletionErrors.WithLabelValues("internal").Inc()
	h.writeJSON(w, http.StatusInternalServerError, errorEnvelope("Server error: "+err.Error()))
}

func (h *Handlers) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}
