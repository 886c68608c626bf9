package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/buildera-io/stratum/internal/bridge"
	"github.com/buildera-io/stratum/pkg/types"
)

// GetSummary returns the aggregated recent impact ledger for a tenant.
func (h *Handlers) GetSummary(w http.ResponseWriter, r *http.Request) {
	tenant := h.requireTenant(w, r)
	if tenant == nil {
		return
	}

	b := bridge.Load(r.Context(), h.provider, tenant.ID, h.logger, bridge.Options{})
	summary := b.ImpactSummary(r.Context())
	if summary == nil {
		summary = &types.ImpactSummary{
			DimensionTotals: map[types.ImpactDimension]float64{},
			Recent:          []types.ImpactRecord{},
		}
	}
	_ = json.NewEncoder(w).Encode(summary)
}

// GetSnapshot returns the latest strategic state snapshot for a tenant.
func (h *Handlers) GetSnapshot(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "tenantID")
	snap, err := h.provider.LatestSnapshot(r.Context(), id)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, "failed to load snapshot", err)
		return
	}
	if snap == nil {
		h.writeError(w, http.StatusNotFound, "no snapshot", nil)
		return
	}
	_ = json.NewEncoder(w).Encode(snap)
}

// ListSnapshots returns snapshots newest first.
func (h *Handlers) ListSnapshots(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "tenantID")
	snaps, err := h.provider.ListSnapshots(r.Context(), id, limitParam(r))
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, "failed to list snapshots", err)
		return
	}
	if snaps == nil {
		snaps = []types.Snapshot{}
	}
	_ = json.NewEncoder(w).Encode(snaps)
}

// ListHistory returns score history entries newest first.
func (h *Handlers) ListHistory(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "tenantID")
	entries, err := h.provider.ListScoreHistory(r.Context(), id, limitParam(r))
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, "failed to list score history", err)
		return
	}
	if entries == nil {
		entries = []types.ScoreHistoryEntry{}
	}
	_ = json.NewEncoder(w).Encode(entries)
}

// ListMemory returns strategic memory entries newest first.
func (h *Handlers) ListMemory(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "tenantID")
	entries, err := h.provider.ListMemory(r.Context(), id, limitParam(r))
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, "failed to list memory", err)
		return
	}
	if entries == nil {
		entries = []types.MemoryEntry{}
	}
	_ = json.NewEncoder(w).Encode(entries)
}

// ListGaps returns the tenant's strategic gaps. Resolved gaps are included
// only when includeResolved=true.
func (h *Handlers) ListGaps(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "tenantID")
	includeResolved := r.URL.Query().Get("includeResolved") == "true"
	gaps, err := h.provider.ListGaps(r.Context(), id, includeResolved)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, "failed to list gaps", err)
		return
	}
	if gaps == nil {
		gaps = []types.Gap{}
	}
	_ = json.NewEncoder(w).Encode(gaps)
}
