// Package provider defines the storage backend interface for stratum.
package provider

import (
	"context"

	"github.com/buildera-io/stratum/pkg/types"
)

// Provider is the storage backend interface. The memory backend is the
// reference implementation; dynamodb, redis, and postgres are the remote
// backends. All reads and writes are scoped by tenant id.
//
// Not-found semantics: Latest* and GetTenant return (nil, nil) when no row
// exists. List* return empty slices. Append-only collections (score
// history, strategic memory) are never updated or deleted.
type Provider interface {
	// Tenant registry
	RegisterTenant(ctx context.Context, cfg types.TenantConfig) error
	GetTenant(ctx context.Context, tenantID string) (*types.TenantConfig, error)
	ListTenants(ctx context.Context) ([]types.TenantConfig, error)
	DeleteTenant(ctx context.Context, tenantID string) error

	// Score history — append-only, one entry per scoring cycle.
	AppendScoreHistory(ctx context.Context, entry types.ScoreHistoryEntry) error
	// ListScoreHistory returns the newest entries first, at most limit.
	ListScoreHistory(ctx context.Context, tenantID string, limit int) ([]types.ScoreHistoryEntry, error)

	// Strategic memory — append-only, one entry per attributed event.
	AppendMemory(ctx context.Context, entry types.MemoryEntry) error
	// ListMemory returns the newest entries first, at most limit.
	ListMemory(ctx context.Context, tenantID string, limit int) ([]types.MemoryEntry, error)
	// LatestMemory returns the most recent entry, or nil when none exists.
	LatestMemory(ctx context.Context, tenantID string) (*types.MemoryEntry, error)
	// CountMemory returns the tenant's cumulative memory entry count.
	CountMemory(ctx context.Context, tenantID string) (int, error)

	// Snapshots — immutable, versioned per tenant.
	// NextSnapshotVersion atomically reserves the next version number for
	// the tenant. Implementations must guarantee strictly increasing,
	// collision-free values under concurrent callers.
	NextSnapshotVersion(ctx context.Context, tenantID string) (int64, error)
	InsertSnapshot(ctx context.Context, snap types.Snapshot) error
	// LatestSnapshot returns the greatest-version snapshot, or nil when none.
	LatestSnapshot(ctx context.Context, tenantID string) (*types.Snapshot, error)
	// ListSnapshots returns snapshots newest first, at most limit.
	ListSnapshots(ctx context.Context, tenantID string, limit int) ([]types.Snapshot, error)

	// Impact ledger
	InsertImpact(ctx context.Context, rec types.ImpactRecord) error
	// UpdateImpact applies a partial patch to an existing ledger row.
	UpdateImpact(ctx context.Context, tenantID, id string, patch types.ImpactPatch) error
	// ListImpacts returns ledger rows newest first, at most limit.
	ListImpacts(ctx context.Context, tenantID string, limit int) ([]types.ImpactRecord, error)

	// Gaps — written by the wider platform, read by the engine. PutGap is
	// an upsert keyed by gap id, exposed for seeding and synchronization.
	PutGap(ctx context.Context, gap types.Gap) error
	// ListGaps returns the tenant's gaps; resolved gaps are included only
	// when includeResolved is set.
	ListGaps(ctx context.Context, tenantID string, includeResolved bool) ([]types.Gap, error)

	// Lifecycle
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
	Ping(ctx context.Context) error
}
