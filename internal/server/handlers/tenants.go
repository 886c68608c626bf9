package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/buildera-io/stratum/pkg/types"
)

// ListTenants returns all registered tenants.
func (h *Handlers) ListTenants(w http.ResponseWriter, r *http.Request) {
	tenants, err := h.provider.ListTenants(r.Context())
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, "failed to list tenants", err)
		return
	}
	if tenants == nil {
		tenants = []types.TenantConfig{}
	}
	_ = json.NewEncoder(w).Encode(tenants)
}

// RegisterTenant creates or updates a tenant registration.
func (h *Handlers) RegisterTenant(w http.ResponseWriter, r *http.Request) {
	var cfg types.TenantConfig
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid JSON", err)
		return
	}
	if cfg.ID == "" {
		h.writeError(w, http.StatusBadRequest, "id is required", nil)
		return
	}
	if cfg.CreatedAt.IsZero() {
		cfg.CreatedAt = time.Now().UTC()
	}

	if err := h.provider.RegisterTenant(r.Context(), cfg); err != nil {
		h.writeError(w, http.StatusInternalServerError, "failed to register tenant", err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(cfg)
}

// GetTenant returns a single tenant registration.
func (h *Handlers) GetTenant(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "tenantID")
	tenant, err := h.provider.GetTenant(r.Context(), id)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, "failed to load tenant", err)
		return
	}
	if tenant == nil {
		h.writeError(w, http.StatusNotFound, "tenant not found", nil)
		return
	}
	_ = json.NewEncoder(w).Encode(tenant)
}

// DeleteTenant removes a tenant registration.
func (h *Handlers) DeleteTenant(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "tenantID")
	if err := h.provider.DeleteTenant(r.Context(), id); err != nil {
		h.writeError(w, http.StatusInternalServerError, "failed to delete tenant", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// requireTenant loads the tenant and writes a 404 when it does not exist.
// Returns nil after writing the error response.
func (h *Handlers) requireTenant(w http.ResponseWriter, r *http.Request) *types.TenantConfig {
	id := chi.URLParam(r, "tenantID")
	tenant, err := h.provider.GetTenant(r.Context(), id)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, "failed to load tenant", err)
		return nil
	}
	if tenant == nil {
		h.writeError(w, http.StatusNotFound, "tenant not found", nil)
		return nil
	}
	return tenant
}
