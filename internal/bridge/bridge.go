// Package bridge implements the marketing impact bridge: the mutation
// entry point for a tenant's live strategic score and the recommendation
// surface derived from it.
package bridge

import (
	"context"
	"log/slog"
	"sync"

	"github.com/buildera-io/stratum/internal/provider"
	"github.com/buildera-io/stratum/pkg/types"
)

// Options tune bridge behavior.
type Options struct {
	// CollapseOnboardingCorrection replaces the historical two-phase
	// onboarding write (generic zero-delta ledger row, then a correcting
	// patch) with a single correct write. Off by default: the two-phase
	// pattern is an observable property of the ledger that downstream
	// audit tooling replays.
	CollapseOnboardingCorrection bool

	// TriggeredBy tags ledger rows with the originating actor/process.
	TriggeredBy string
}

// Bridge is an explicit per-tenant context object. It caches the tenant's
// stage, business model, active gaps, latest snapshot, and live composite
// score for the session, and serializes score read-modify-write within the
// instance.
//
// Serialization is per instance only: two processes (or two bridges for
// the same tenant) can still interleave writes and produce ledger rows
// sharing a before-value. Snapshot versioning does not have this caveat;
// it is atomic at the storage layer.
type Bridge struct {
	provider provider.Provider
	logger   *slog.Logger
	opts     Options

	tenantID      string
	businessModel types.BusinessModel

	mu          sync.Mutex
	stage       types.Stage
	activeGaps  []types.Gap
	latest      *types.Snapshot
	score       float64
	suggestions []types.CampaignSuggestion // memoized, built on first use
}

// Load builds a bridge for a tenant, reading its current strategic
// picture. Every read degrades to a zeroed default on failure or absence:
// no snapshot means score 0, stage early, no gaps.
func Load(ctx context.Context, prov provider.Provider, tenantID string, logger *slog.Logger, opts Options) *Bridge {
	if logger == nil {
		logger = slog.Default()
	}
	b := &Bridge{
		provider: prov,
		logger:   logger,
		opts:     opts,
		tenantID: tenantID,
		stage:    types.StageEarly,
	}

	if cfg, err := prov.GetTenant(ctx, tenantID); err != nil {
		logger.Error("loading tenant config", "tenant", tenantID, "error", err)
	} else if cfg != nil {
		b.businessModel = cfg.BusinessModel
	}

	if snap, err := prov.LatestSnapshot(ctx, tenantID); err != nil {
		logger.Error("loading latest snapshot", "tenant", tenantID, "error", err)
	} else if snap != nil {
		b.latest = snap
		b.stage = snap.Stage
		b.score = snap.Composite
		if b.businessModel == "" {
			b.businessModel = snap.BusinessModel
		}
	}

	if gaps, err := prov.ListGaps(ctx, tenantID, false); err != nil {
		logger.Error("loading active gaps", "tenant", tenantID, "error", err)
	} else {
		b.activeGaps = gaps
	}

	// The live score is the after-value of the most recent ledger entry,
	// which supersedes the snapshot composite.
	if last, err := prov.LatestMemory(ctx, tenantID); err != nil {
		logger.Error("loading latest memory entry", "tenant", tenantID, "error", err)
	} else if last != nil {
		b.score = last.ScoreAfter
	}

	return b
}

// TenantID returns the tenant this bridge is bound to.
func (b *Bridge) TenantID() string { return b.tenantID }

// Stage returns the cached maturity stage.
func (b *Bridge) Stage() types.Stage {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.stage
}

// Score returns the cached live composite score.
func (b *Bridge) Score() float64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.score
}

// BusinessModel returns the tenant's business model label.
func (b *Bridge) BusinessModel() types.BusinessModel { return b.businessModel }

func clampScore(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
