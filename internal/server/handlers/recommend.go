package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/buildera-io/stratum/internal/bridge"
	"github.com/buildera-io/stratum/internal/pattern"
	"github.com/buildera-io/stratum/pkg/types"
)

// GetRecommendation returns the dimension a new piece of content should
// reinforce. The optional contentType query biases the default mapping.
func (h *Handlers) GetRecommendation(w http.ResponseWriter, r *http.Request) {
	tenant := h.requireTenant(w, r)
	if tenant == nil {
		return
	}

	b := bridge.Load(r.Context(), h.provider, tenant.ID, h.logger, bridge.Options{})
	dim := b.RecommendedDimension(r.URL.Query().Get("contentType"))
	_ = json.NewEncoder(w).Encode(map[string]types.ImpactDimension{"dimension": dim})
}

// ListSuggestions returns gap-derived campaign suggestions.
func (h *Handlers) ListSuggestions(w http.ResponseWriter, r *http.Request) {
	tenant := h.requireTenant(w, r)
	if tenant == nil {
		return
	}

	b := bridge.Load(r.Context(), h.provider, tenant.ID, h.logger, bridge.Options{})
	suggestions := b.GapCampaignSuggestions()
	if suggestions == nil {
		suggestions = []types.CampaignSuggestion{}
	}
	_ = json.NewEncoder(w).Encode(suggestions)
}

// GetAutopilot returns the tenant's automation permission gate.
func (h *Handlers) GetAutopilot(w http.ResponseWriter, r *http.Request) {
	tenant := h.requireTenant(w, r)
	if tenant == nil {
		return
	}

	b := bridge.Load(r.Context(), h.provider, tenant.ID, h.logger, bridge.Options{})
	_ = json.NewEncoder(w).Encode(b.AutopilotGate())
}

// GetPattern classifies the tenant's recent action pattern from the
// strategic memory log.
func (h *Handlers) GetPattern(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "tenantID")
	entries, err := h.provider.ListMemory(r.Context(), id, pattern.Window)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, "failed to list memory", err)
		return
	}
	pat := pattern.Detect(entries, time.Now().UTC())
	_ = json.NewEncoder(w).Encode(map[string]types.BehaviorPattern{"pattern": pat})
}
