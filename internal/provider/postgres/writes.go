package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/buildera-io/stratum/pkg/types"
)

// RegisterTenant upserts a tenant configuration.
func (p *PostgresProvider) RegisterTenant(ctx context.Context, cfg types.TenantConfig) error {
	data, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling tenant: %w", err)
	}
	_, err = p.pool.Exec(ctx, `
		INSERT INTO tenants (id, data)
		VALUES ($1, $2)
		ON CONFLICT (id) DO UPDATE SET data = EXCLUDED.data
	`, cfg.ID, data)
	return err
}

// DeleteTenant removes a tenant configuration. The tenant's history,
// snapshots, and ledger rows are left in place for audit.
func (p *PostgresProvider) DeleteTenant(ctx context.Context, tenantID string) error {
	_, err := p.pool.Exec(ctx, `DELETE FROM tenants WHERE id = $1`, tenantID)
	return err
}

// AppendScoreHistory stores one scoring-cycle history row.
func (p *PostgresProvider) AppendScoreHistory(ctx context.Context, entry types.ScoreHistoryEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshaling history entry: %w", err)
	}
	_, err = p.pool.Exec(ctx, `
		INSERT INTO company_score_history (tenant_id, data, created_at)
		VALUES ($1, $2, $3)
	`, entry.TenantID, data, entry.CreatedAt)
	return err
}

// AppendMemory stores one strategic memory entry.
func (p *PostgresProvider) AppendMemory(ctx context.Context, entry types.MemoryEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshaling memory entry: %w", err)
	}
	_, err = p.pool.Exec(ctx, `
		INSERT INTO company_strategic_memory (id, tenant_id, data, created_at)
		VALUES ($1, $2, $3, $4)
	`, entry.ID, entry.TenantID, data, entry.CreatedAt)
	return err
}

// NextSnapshotVersion atomically reserves the next version using an upsert
// on the per-tenant counter row. Postgres serializes the row update, so
// concurrent callers never collide.
func (p *PostgresProvider) NextSnapshotVersion(ctx context.Context, tenantID string) (int64, error) {
	var version int64
	err := p.pool.QueryRow(ctx, `
		INSERT INTO strategic_state_versions (tenant_id, version)
		VALUES ($1, 1)
		ON CONFLICT (tenant_id) DO UPDATE
			SET version = strategic_state_versions.version + 1
		RETURNING version
	`, tenantID).Scan(&version)
	if err != nil {
		return 0, fmt.Errorf("incrementing snapshot version: %w", err)
	}
	return version, nil
}

// InsertSnapshot stores an immutable snapshot. The primary key on
// (tenant_id, version) rejects duplicates.
func (p *PostgresProvider) InsertSnapshot(ctx context.Context, snap types.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshaling snapshot: %w", err)
	}
	_, err = p.pool.Exec(ctx, `
		INSERT INTO company_strategic_state_snapshots (tenant_id, version, data, created_at)
		VALUES ($1, $2, $3, $4)
	`, snap.TenantID, snap.Version, data, snap.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting snapshot version %d for tenant %s: %w", snap.Version, snap.TenantID, err)
	}
	return nil
}

// InsertImpact stores one impact ledger row.
func (p *PostgresProvider) InsertImpact(ctx context.Context, rec types.ImpactRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshaling impact: %w", err)
	}
	_, err = p.pool.Exec(ctx, `
		INSERT INTO marketing_strategic_impact (id, tenant_id, data, created_at)
		VALUES ($1, $2, $3, $4)
	`, rec.ID, rec.TenantID, data, rec.CreatedAt)
	return err
}

// UpdateImpact applies a partial patch to an existing ledger row by merging
// the score fields into the stored JSON document.
func (p *PostgresProvider) UpdateImpact(ctx context.Context, tenantID, id string, patch types.ImpactPatch) error {
	patchData, err := json.Marshal(patch)
	if err != nil {
		return fmt.Errorf("marshaling impact patch: %w", err)
	}
	tag, err := p.pool.Exec(ctx, `
		UPDATE marketing_strategic_impact
		SET data = data || $3::jsonb
		WHERE tenant_id = $1 AND id = $2
	`, tenantID, id, patchData)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("impact %q not found", id)
	}
	return nil
}

// PutGap upserts a gap keyed by id.
func (p *PostgresProvider) PutGap(ctx context.Context, gap types.Gap) error {
	data, err := json.Marshal(gap)
	if err != nil {
		return fmt.Errorf("marshaling gap: %w", err)
	}
	_, err = p.pool.Exec(ctx, `
		INSERT INTO company_strategic_gaps (id, tenant_id, resolved_at, data, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE
			SET resolved_at = EXCLUDED.resolved_at, data = EXCLUDED.data
	`, gap.ID, gap.TenantID, gap.ResolvedAt, data, gap.CreatedAt)
	return err
}
