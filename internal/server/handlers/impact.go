package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/buildera-io/stratum/internal/bridge"
	"github.com/buildera-io/stratum/pkg/types"
)

// RecordImpact applies a marketing/product impact event to the tenant's
// live score. The tenant id in the URL wins over any id in the payload.
func (h *Handlers) RecordImpact(w http.ResponseWriter, r *http.Request) {
	tenant := h.requireTenant(w, r)
	if tenant == nil {
		return
	}

	var ev types.ImpactEvent
	if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid JSON", err)
		return
	}
	if ev.Type == "" {
		h.writeError(w, http.StatusBadRequest, "event_type is required", nil)
		return
	}
	ev.TenantID = tenant.ID

	b := bridge.Load(r.Context(), h.provider, tenant.ID, h.logger, bridge.Options{TriggeredBy: "api"})
	rec := b.RecordMarketingImpact(r.Context(), ev)

	w.WriteHeader(http.StatusAccepted)
	_ = json.NewEncoder(w).Encode(rec)
}

// RecordOnboarding applies an onboarding step's score impact.
func (h *Handlers) RecordOnboarding(w http.ResponseWriter, r *http.Request) {
	tenant := h.requireTenant(w, r)
	if tenant == nil {
		return
	}

	var req struct {
		Step types.OnboardingStep `json:"step"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid JSON", err)
		return
	}
	if req.Step == "" {
		h.writeError(w, http.StatusBadRequest, "step is required", nil)
		return
	}

	b := bridge.Load(r.Context(), h.provider, tenant.ID, h.logger, bridge.Options{TriggeredBy: "api"})
	rec := b.RecordOnboardingImpact(r.Context(), req.Step)
	if rec == nil {
		h.writeError(w, http.StatusBadRequest, "unknown onboarding step", nil)
		return
	}

	w.WriteHeader(http.StatusAccepted)
	_ = json.NewEncoder(w).Encode(rec)
}

// RunCycle triggers a manual scoring cycle for the tenant.
func (h *Handlers) RunCycle(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "tenantID")

	triggeredBy := "api"
	if r.ContentLength != 0 {
		var req struct {
			TriggeredBy string `json:"triggered_by"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err == nil && req.TriggeredBy != "" {
			triggeredBy = req.TriggeredBy
		}
	}

	result, err := h.engine.RunCycle(r.Context(), id, types.TriggerManualRecalc, triggeredBy)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, "cycle failed", err)
		return
	}
	_ = json.NewEncoder(w).Encode(result)
}
