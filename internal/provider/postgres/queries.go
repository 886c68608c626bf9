package postgres

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/buildera-io/stratum/pkg/types"
)

// GetTenant retrieves a tenant configuration, or nil when unknown.
func (p *PostgresProvider) GetTenant(ctx context.Context, tenantID string) (*types.TenantConfig, error) {
	var data []byte
	err := p.pool.QueryRow(ctx, `SELECT data FROM tenants WHERE id = $1`, tenantID).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var cfg types.TenantConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ListTenants returns all registered tenants.
func (p *PostgresProvider) ListTenants(ctx context.Context) ([]types.TenantConfig, error) {
	rows, err := p.pool.Query(ctx, `SELECT data FROM tenants ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tenants []types.TenantConfig
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, err
		}
		var cfg types.TenantConfig
		if err := json.Unmarshal(data, &cfg); err != nil {
			p.logger.Warn("skipping corrupt tenant row", "error", err)
			continue
		}
		tenants = append(tenants, cfg)
	}
	return tenants, rows.Err()
}

// ListScoreHistory returns the newest history rows first, at most limit.
func (p *PostgresProvider) ListScoreHistory(ctx context.Context, tenantID string, limit int) ([]types.ScoreHistoryEntry, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT data FROM company_score_history
		WHERE tenant_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT NULLIF($2, 0)
	`, tenantID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []types.ScoreHistoryEntry
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, err
		}
		var entry types.ScoreHistoryEntry
		if err := json.Unmarshal(data, &entry); err != nil {
			p.logger.Warn("skipping corrupt history row", "tenant", tenantID, "error", err)
			continue
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// ListMemory returns the newest memory entries first, at most limit.
func (p *PostgresProvider) ListMemory(ctx context.Context, tenantID string, limit int) ([]types.MemoryEntry, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT data FROM company_strategic_memory
		WHERE tenant_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT NULLIF($2, 0)
	`, tenantID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []types.MemoryEntry
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, err
		}
		var entry types.MemoryEntry
		if err := json.Unmarshal(data, &entry); err != nil {
			p.logger.Warn("skipping corrupt memory row", "tenant", tenantID, "error", err)
			continue
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// LatestMemory returns the most recent memory entry, or nil when none exists.
func (p *PostgresProvider) LatestMemory(ctx context.Context, tenantID string) (*types.MemoryEntry, error) {
	entries, err := p.ListMemory(ctx, tenantID, 1)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, nil
	}
	return &entries[0], nil
}

// CountMemory returns the tenant's cumulative memory entry count.
func (p *PostgresProvider) CountMemory(ctx context.Context, tenantID string) (int, error) {
	var count int
	err := p.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM company_strategic_memory WHERE tenant_id = $1
	`, tenantID).Scan(&count)
	return count, err
}

// LatestSnapshot returns the greatest-version snapshot, or nil when none.
func (p *PostgresProvider) LatestSnapshot(ctx context.Context, tenantID string) (*types.Snapshot, error) {
	snaps, err := p.ListSnapshots(ctx, tenantID, 1)
	if err != nil {
		return nil, err
	}
	if len(snaps) == 0 {
		return nil, nil
	}
	return &snaps[0], nil
}

// ListSnapshots returns snapshots newest first, at most limit.
func (p *PostgresProvider) ListSnapshots(ctx context.Context, tenantID string, limit int) ([]types.Snapshot, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT data FROM company_strategic_state_snapshots
		WHERE tenant_id = $1
		ORDER BY version DESC
		LIMIT NULLIF($2, 0)
	`, tenantID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var snaps []types.Snapshot
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, err
		}
		var snap types.Snapshot
		if err := json.Unmarshal(data, &snap); err != nil {
			p.logger.Warn("skipping corrupt snapshot row", "tenant", tenantID, "error", err)
			continue
		}
		snaps = append(snaps, snap)
	}
	return snaps, rows.Err()
}

// ListImpacts returns ledger rows newest first, at most limit.
func (p *PostgresProvider) ListImpacts(ctx context.Context, tenantID string, limit int) ([]types.ImpactRecord, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT data FROM marketing_strategic_impact
		WHERE tenant_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT NULLIF($2, 0)
	`, tenantID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recs []types.ImpactRecord
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, err
		}
		var rec types.ImpactRecord
		if err := json.Unmarshal(data, &rec); err != nil {
			p.logger.Warn("skipping corrupt impact row", "tenant", tenantID, "error", err)
			continue
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

// ListGaps returns the tenant's gaps. Resolved gaps are filtered out unless
// includeResolved is set.
func (p *PostgresProvider) ListGaps(ctx context.Context, tenantID string, includeResolved bool) ([]types.Gap, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT data FROM company_strategic_gaps
		WHERE tenant_id = $1 AND ($2 OR resolved_at IS NULL)
		ORDER BY created_at, id
	`, tenantID, includeResolved)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var gaps []types.Gap
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, err
		}
		var gap types.Gap
		if err := json.Unmarshal(data, &gap); err != nil {
			p.logger.Warn("skipping corrupt gap row", "tenant", tenantID, "error", err)
			continue
		}
		gaps = append(gaps, gap)
	}
	return gaps, rows.Err()
}
