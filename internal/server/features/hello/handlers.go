// Package hello serves the extension liveness endpoint.
package hello

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// Message is the fixed payload of the hello endpoint.
const Message = "Hello, world! This is the '/jl-db-comp/hello' endpoint. Try visiting me in your browser!"

// Handlers provides HTTP handlers for the hello feature.
type Handlers struct {
	logger *slog.Logger
}

// NewHandlers creates a Handlers instance.
func NewHandlers(logger *slog.Logger) *Handlers {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Handlers{logger: logger}
}

// Hello answers GET /jl-db-comp/hello.
func (h *Handlers) Hello(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]string{"data": Message}); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}
