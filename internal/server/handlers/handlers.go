// Package handlers implements HTTP request handlers for the Stratum API.
package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/buildera-io/stratum/internal/engine"
	"github.com/buildera-io/stratum/internal/provider"
)

// defaultListLimit bounds list responses when no limit query is given.
const defaultListLimit = 50

// Handlers contains all HTTP handler dependencies.
type Handlers struct {
	engine   *engine.Engine
	provider provider.Provider
	logger   *slog.Logger
}

// New creates a new Handlers instance.
func New(eng *engine.Engine, prov provider.Provider) *Handlers {
	return &Handlers{
		engine:   eng,
		provider: prov,
		logger:   slog.Default(),
	}
}

// SetLogger overrides the default logger.
func (h *Handlers) SetLogger(l *slog.Logger) {
	if l != nil {
		h.logger = l
	}
}

// writeError logs the internal error and returns a sanitized JSON error to the client.
func (h *Handlers) writeError(w http.ResponseWriter, status int, msg string, err error) {
	if err != nil {
		h.logger.Error(msg, "error", err, "status", status)
	}
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

// limitParam parses the limit query parameter, falling back to
// defaultListLimit when absent or malformed.
func limitParam(r *http.Request) int {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return defaultListLimit
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return defaultListLimit
	}
	return n
}
