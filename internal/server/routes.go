package server

import (
	"expvar"

	"github.com/go-chi/chi/v5"

	"github.com/buildera-io/stratum/internal/server/handlers"
)

func (s *Server) registerRoutes(r chi.Router) {
	h := handlers.New(s.engine, s.provider)

	r.Route("/api", func(r chi.Router) {
		// Health and counters
		r.Get("/health", h.Health)
		r.Method("GET", "/metrics", expvar.Handler())

		// Tenants
		r.Get("/tenants", h.ListTenants)
		r.Post("/tenants", h.RegisterTenant)
		r.Get("/tenants/{tenantID}", h.GetTenant)
		r.Delete("/tenants/{tenantID}", h.DeleteTenant)

		// Impact ingestion
		r.Post("/tenants/{tenantID}/impact", h.RecordImpact)
		r.Post("/tenants/{tenantID}/onboarding", h.RecordOnboarding)

		// Scoring cycle
		r.Post("/tenants/{tenantID}/cycle", h.RunCycle)

		// Strategic state
		r.Get("/tenants/{tenantID}/summary", h.GetSummary)
		r.Get("/tenants/{tenantID}/snapshot", h.GetSnapshot)
		r.Get("/tenants/{tenantID}/snapshots", h.ListSnapshots)
		r.Get("/tenants/{tenantID}/history", h.ListHistory)
		r.Get("/tenants/{tenantID}/memory", h.ListMemory)
		r.Get("/tenants/{tenantID}/gaps", h.ListGaps)

		// Recommendation surface
		r.Get("/tenants/{tenantID}/recommendation", h.GetRecommendation)
		r.Get("/tenants/{tenantID}/suggestions", h.ListSuggestions)
		r.Get("/tenants/{tenantID}/autopilot", h.GetAutopilot)
		r.Get("/tenants/{tenantID}/pattern", h.GetPattern)
	})
}
