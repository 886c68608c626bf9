// Package memory implements the Provider interface with in-process maps.
// It is the reference backend used by tests and local development.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/buildera-io/stratum/internal/provider"
	"github.com/buildera-io/stratum/pkg/types"
)

// Compile-time interface satisfaction check.
var _ provider.Provider = (*MemoryProvider)(nil)

// MemoryProvider stores everything in mutex-guarded maps keyed by tenant id.
type MemoryProvider struct {
	mu        sync.Mutex
	tenants   map[string]types.TenantConfig
	history   map[string][]types.ScoreHistoryEntry
	memory    map[string][]types.MemoryEntry
	snapshots map[string][]types.Snapshot
	versions  map[string]int64
	impacts   map[string][]types.ImpactRecord
	gaps      map[string]map[string]types.Gap // tenant -> gap id -> gap
}

// New creates an empty MemoryProvider.
func New() *MemoryProvider {
	return &MemoryProvider{
		tenants:   make(map[string]types.TenantConfig),
		history:   make(map[string][]types.ScoreHistoryEntry),
		memory:    make(map[string][]types.MemoryEntry),
		snapshots: make(map[string][]types.Snapshot),
		versions:  make(map[string]int64),
		impacts:   make(map[string][]types.ImpactRecord),
		gaps:      make(map[string]map[string]types.Gap),
	}
}

// RegisterTenant stores a tenant configuration.
func (p *MemoryProvider) RegisterTenant(_ context.Context, cfg types.TenantConfig) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.tenants[cfg.ID] = cfg
	return nil
}

// GetTenant returns a tenant configuration, or nil when unknown.
func (p *MemoryProvider) GetTenant(_ context.Context, tenantID string) (*types.TenantConfig, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	cfg, ok := p.tenants[tenantID]
	if !ok {
		return nil, nil
	}
	return &cfg, nil
}

// ListTenants returns all registered tenants sorted by id.
func (p *MemoryProvider) ListTenants(_ context.Context) ([]types.TenantConfig, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]types.TenantConfig, 0, len(p.tenants))
	for _, cfg := range p.tenants {
		out = append(out, cfg)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// DeleteTenant removes a tenant registration. Row data is retained.
func (p *MemoryProvider) DeleteTenant(_ context.Context, tenantID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.tenants[tenantID]; !ok {
		return fmt.Errorf("tenant %q not found", tenantID)
	}
	delete(p.tenants, tenantID)
	return nil
}

// AppendScoreHistory appends a score history entry.
func (p *MemoryProvider) AppendScoreHistory(_ context.Context, entry types.ScoreHistoryEntry) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.history[entry.TenantID] = append(p.history[entry.TenantID], entry)
	return nil
}

// ListScoreHistory returns the newest entries first, at most limit.
func (p *MemoryProvider) ListScoreHistory(_ context.Context, tenantID string, limit int) ([]types.ScoreHistoryEntry, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	entries := p.history[tenantID]
	out := make([]types.ScoreHistoryEntry, len(entries))
	copy(out, entries)
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return truncate(out, limit), nil
}

// AppendMemory appends a strategic memory entry.
func (p *MemoryProvider) AppendMemory(_ context.Context, entry types.MemoryEntry) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.memory[entry.TenantID] = append(p.memory[entry.TenantID], entry)
	return nil
}

// ListMemory returns the newest entries first, at most limit.
func (p *MemoryProvider) ListMemory(_ context.Context, tenantID string, limit int) ([]types.MemoryEntry, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	entries := p.memory[tenantID]
	out := make([]types.MemoryEntry, len(entries))
	copy(out, entries)
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return truncate(out, limit), nil
}

// LatestMemory returns the most recent entry, or nil when none exists.
func (p *MemoryProvider) LatestMemory(ctx context.Context, tenantID string) (*types.MemoryEntry, error) {
	entries, err := p.ListMemory(ctx, tenantID, 1)
	if err != nil || len(entries) == 0 {
		return nil, err
	}
	return &entries[0], nil
}

// CountMemory returns the tenant's cumulative memory entry count.
func (p *MemoryProvider) CountMemory(_ context.Context, tenantID string) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.memory[tenantID]), nil
}

// NextSnapshotVersion atomically reserves the next version for the tenant.
func (p *MemoryProvider) NextSnapshotVersion(_ context.Context, tenantID string) (int64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.versions[tenantID]++
	return p.versions[tenantID], nil
}

// InsertSnapshot stores a snapshot. Versions must never repeat per tenant.
func (p *MemoryProvider) InsertSnapshot(_ context.Context, snap types.Snapshot) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, existing := range p.snapshots[snap.TenantID] {
		if existing.Version == snap.Version {
			return fmt.Errorf("snapshot version %d already exists for tenant %q", snap.Version, snap.TenantID)
		}
	}
	p.snapshots[snap.TenantID] = append(p.snapshots[snap.TenantID], snap)
	return nil
}

// LatestSnapshot returns the greatest-version snapshot, or nil when none.
func (p *MemoryProvider) LatestSnapshot(_ context.Context, tenantID string) (*types.Snapshot, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	snaps := p.snapshots[tenantID]
	if len(snaps) == 0 {
		return nil, nil
	}
	latest := snaps[0]
	for _, s := range snaps[1:] {
		if s.Version > latest.Version {
			latest = s
		}
	}
	return &latest, nil
}

// ListSnapshots returns snapshots newest first, at most limit.
func (p *MemoryProvider) ListSnapshots(_ context.Context, tenantID string, limit int) ([]types.Snapshot, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	snaps := p.snapshots[tenantID]
	out := make([]types.Snapshot, len(snaps))
	copy(out, snaps)
	sort.Slice(out, func(i, j int) bool { return out[i].Version > out[j].Version })
	return truncate(out, limit), nil
}

// InsertImpact appends an impact ledger row.
func (p *MemoryProvider) InsertImpact(_ context.Context, rec types.ImpactRecord) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.impacts[rec.TenantID] = append(p.impacts[rec.TenantID], rec)
	return nil
}

// UpdateImpact applies a partial patch to an existing ledger row.
func (p *MemoryProvider) UpdateImpact(_ context.Context, tenantID, id string, patch types.ImpactPatch) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	rows := p.impacts[tenantID]
	for i := range rows {
		if rows[i].ID == id {
			rows[i].ScoreBefore = patch.ScoreBefore
			rows[i].ScoreAfter = patch.ScoreAfter
			rows[i].Delta = patch.Delta
			rows[i].DimensionDelta = patch.DimensionDelta
			return nil
		}
	}
	return fmt.Errorf("impact %q not found for tenant %q", id, tenantID)
}

// ListImpacts returns ledger rows newest first, at most limit.
func (p *MemoryProvider) ListImpacts(_ context.Context, tenantID string, limit int) ([]types.ImpactRecord, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	rows := p.impacts[tenantID]
	out := make([]types.ImpactRecord, len(rows))
	copy(out, rows)
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return truncate(out, limit), nil
}

// PutGap upserts a gap keyed by id.
func (p *MemoryProvider) PutGap(_ context.Context, gap types.Gap) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	byID, ok := p.gaps[gap.TenantID]
	if !ok {
		byID = make(map[string]types.Gap)
		p.gaps[gap.TenantID] = byID
	}
	byID[gap.ID] = gap
	return nil
}

// ListGaps returns the tenant's gaps, resolved ones only when requested.
// Ordered by creation time, oldest first.
func (p *MemoryProvider) ListGaps(_ context.Context, tenantID string, includeResolved bool) ([]types.Gap, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []types.Gap
	for _, g := range p.gaps[tenantID] {
		if g.Resolved() && !includeResolved {
			continue
		}
		out = append(out, g)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

// Start is a no-op.
func (p *MemoryProvider) Start(_ context.Context) error { return nil }

// Stop is a no-op.
func (p *MemoryProvider) Stop(_ context.Context) error { return nil }

// Ping is a no-op.
func (p *MemoryProvider) Ping(_ context.Context) error { return nil }

func truncate[T any](in []T, limit int) []T {
	if limit > 0 && len(in) > limit {
		return in[:limit]
	}
	return in
}
