package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	goredis "github.com/redis/go-redis/v9"

	"github.com/buildera-io/stratum/pkg/types"
)

func (p *RedisProvider) tenantKey(tenantID string) string {
	return p.prefix + "tenant:" + tenantID
}

func (p *RedisProvider) tenantIndexKey() string {
	return p.prefix + "tenants"
}

func (p *RedisProvider) historyKey(tenantID string) string {
	return p.prefix + "history:" + tenantID
}

func (p *RedisProvider) memoryKey(tenantID string) string {
	return p.prefix + "memory:" + tenantID
}

func (p *RedisProvider) versionKey(tenantID string) string {
	return p.prefix + "snapver:" + tenantID
}

func (p *RedisProvider) snapshotKey(tenantID string, version int64) string {
	return p.prefix + "snapshot:" + tenantID + ":" + strconv.FormatInt(version, 10)
}

func (p *RedisProvider) snapshotIndexKey(tenantID string) string {
	return p.prefix + "snapshots:" + tenantID
}

func (p *RedisProvider) impactKey(tenantID, id string) string {
	return p.prefix + "impact:" + tenantID + ":" + id
}

func (p *RedisProvider) impactIndexKey(tenantID string) string {
	return p.prefix + "impacts:" + tenantID
}

func (p *RedisProvider) gapKey(tenantID, gapID string) string {
	return p.prefix + "gap:" + tenantID + ":" + gapID
}

func (p *RedisProvider) gapIndexKey(tenantID string) string {
	return p.prefix + "gaps:" + tenantID
}

// RegisterTenant stores a tenant configuration.
func (p *RedisProvider) RegisterTenant(ctx context.Context, cfg types.TenantConfig) error {
	data, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling tenant: %w", err)
	}

	pipe := p.client.Pipeline()
	pipe.Set(ctx, p.tenantKey(cfg.ID), data, 0)
	pipe.SAdd(ctx, p.tenantIndexKey(), cfg.ID)
	_, err = pipe.Exec(ctx)
	return err
}

// GetTenant retrieves a tenant configuration, or nil when unknown.
func (p *RedisProvider) GetTenant(ctx context.Context, tenantID string) (*types.TenantConfig, error) {
	data, err := p.client.Get(ctx, p.tenantKey(tenantID)).Bytes()
	if errors.Is(err, goredis.Nil) {
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
func (p *RedisProvider) ListTenants(ctx context.Context) ([]types.TenantConfig, error) {
	ids, err := p.client.SMembers(ctx, p.tenantIndexKey()).Result()
	if err != nil {
		return nil, err
	}

	var tenants []types.TenantConfig
	for _, id := range ids {
		tc, err := p.GetTenant(ctx, id)
		if err != nil || tc == nil {
			p.logger.Warn("skipping unreadable tenant entry", "tenant", id, "error", err)
			continue
		}
		tenants = append(tenants, *tc)
	}
	return tenants, nil
}

// DeleteTenant removes a tenant configuration. The tenant's history,
// snapshots, and ledger rows are left in place for audit.
func (p *RedisProvider) DeleteTenant(ctx context.Context, tenantID string) error {
	pipe := p.client.Pipeline()
	pipe.Del(ctx, p.tenantKey(tenantID))
	pipe.SRem(ctx, p.tenantIndexKey(), tenantID)
	_, err := pipe.Exec(ctx)
	return err
}

// AppendScoreHistory pushes one scoring-cycle row. LPUSH keeps the list in
// newest-first order, which is how readers consume it.
func (p *RedisProvider) AppendScoreHistory(ctx context.Context, entry types.ScoreHistoryEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshaling history entry: %w", err)
	}
	return p.client.LPush(ctx, p.historyKey(entry.TenantID), data).Err()
}

// ListScoreHistory returns the newest history rows first, at most limit.
func (p *RedisProvider) ListScoreHistory(ctx context.Context, tenantID string, limit int) ([]types.ScoreHistoryEntry, error) {
	stop := int64(-1)
	if limit > 0 {
		stop = int64(limit) - 1
	}
	raw, err := p.client.LRange(ctx, p.historyKey(tenantID), 0, stop).Result()
	if err != nil {
		return nil, err
	}

	entries := make([]types.ScoreHistoryEntry, 0, len(raw))
	for _, item := range raw {
		var entry types.ScoreHistoryEntry
		if err := json.Unmarshal([]byte(item), &entry); err != nil {
			p.logger.Warn("skipping corrupt history entry", "tenant", tenantID, "error", err)
			continue
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// AppendMemory pushes one strategic memory entry, newest first.
func (p *RedisProvider) AppendMemory(ctx context.Context, entry types.MemoryEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshaling memory entry: %w", err)
	}
	return p.client.LPush(ctx, p.memoryKey(entry.TenantID), data).Err()
}

// ListMemory returns the newest memory entries first, at most limit.
func (p *RedisProvider) ListMemory(ctx context.Context, tenantID string, limit int) ([]types.MemoryEntry, error) {
	stop := int64(-1)
	if limit > 0 {
		stop = int64(limit) - 1
	}
	raw, err := p.client.LRange(ctx, p.memoryKey(tenantID), 0, stop).Result()
	if err != nil {
		return nil, err
	}

	entries := make([]types.MemoryEntry, 0, len(raw))
	for _, item := range raw {
		var entry types.MemoryEntry
		if err := json.Unmarshal([]byte(item), &entry); err != nil {
			p.logger.Warn("skipping corrupt memory entry", "tenant", tenantID, "error", err)
			continue
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// LatestMemory returns the most recent memory entry, or nil when none exists.
func (p *RedisProvider) LatestMemory(ctx context.Context, tenantID string) (*types.MemoryEntry, error) {
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
func (p *RedisProvider) CountMemory(ctx context.Context, tenantID string) (int, error) {
	n, err := p.client.LLen(ctx, p.memoryKey(tenantID)).Result()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

// NextSnapshotVersion atomically reserves the next version via INCR.
func (p *RedisProvider) NextSnapshotVersion(ctx context.Context, tenantID string) (int64, error) {
	version, err := p.client.Incr(ctx, p.versionKey(tenantID)).Result()
	if err != nil {
		return 0, fmt.Errorf("incrementing snapshot version: %w", err)
	}
	return version, nil
}

// InsertSnapshot stores an immutable snapshot. SETNX rejects duplicate
// versions.
func (p *RedisProvider) InsertSnapshot(ctx context.Context, snap types.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshaling snapshot: %w", err)
	}

	set, err := p.client.SetNX(ctx, p.snapshotKey(snap.TenantID, snap.Version), data, 0).Result()
	if err != nil {
		return err
	}
	if !set {
		return fmt.Errorf("snapshot version %d already exists for tenant %s", snap.Version, snap.TenantID)
	}

	return p.client.ZAdd(ctx, p.snapshotIndexKey(snap.TenantID), goredis.Z{
		Score:  float64(snap.Version),
		Member: strconv.FormatInt(snap.Version, 10),
	}).Err()
}

// LatestSnapshot returns the greatest-version snapshot, or nil when none.
func (p *RedisProvider) LatestSnapshot(ctx context.Context, tenantID string) (*types.Snapshot, error) {
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
func (p *RedisProvider) ListSnapshots(ctx context.Context, tenantID string, limit int) ([]types.Snapshot, error) {
	stop := int64(-1)
	if limit > 0 {
		stop = int64(limit) - 1
	}
	versions, err := p.client.ZRevRange(ctx, p.snapshotIndexKey(tenantID), 0, stop).Result()
	if err != nil {
		return nil, err
	}

	snaps := make([]types.Snapshot, 0, len(versions))
	for _, v := range versions {
		version, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			p.logger.Warn("skipping corrupt snapshot index member", "tenant", tenantID, "member", v)
			continue
		}
		data, err := p.client.Get(ctx, p.snapshotKey(tenantID, version)).Bytes()
		if err != nil {
			p.logger.Warn("skipping unreadable snapshot", "tenant", tenantID, "version", version, "error", err)
			continue
		}
		var snap types.Snapshot
		if err := json.Unmarshal(data, &snap); err != nil {
			p.logger.Warn("skipping corrupt snapshot data", "tenant", tenantID, "version", version, "error", err)
			continue
		}
		snaps = append(snaps, snap)
	}
	return snaps, nil
}

// InsertImpact stores one impact ledger row.
func (p *RedisProvider) InsertImpact(ctx context.Context, rec types.ImpactRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshaling impact: %w", err)
	}

	pipe := p.client.Pipeline()
	pipe.Set(ctx, p.impactKey(rec.TenantID, rec.ID), data, 0)
	pipe.LPush(ctx, p.impactIndexKey(rec.TenantID), rec.ID)
	_, err = pipe.Exec(ctx)
	return err
}

// UpdateImpact applies a partial patch to an existing ledger row.
func (p *RedisProvider) UpdateImpact(ctx context.Context, tenantID, id string, patch types.ImpactPatch) error {
	data, err := p.client.Get(ctx, p.impactKey(tenantID, id)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return fmt.Errorf("impact %q not found", id)
	}
	if err != nil {
		return err
	}

	var rec types.ImpactRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return err
	}

	rec.ScoreBefore = patch.ScoreBefore
	rec.ScoreAfter = patch.ScoreAfter
	rec.Delta = patch.Delta
	rec.DimensionDelta = patch.DimensionDelta

	updated, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshaling patched impact: %w", err)
	}
	return p.client.Set(ctx, p.impactKey(tenantID, id), updated, 0).Err()
}

// ListImpacts returns ledger rows newest first, at most limit.
func (p *RedisProvider) ListImpacts(ctx context.Context, tenantID string, limit int) ([]types.ImpactRecord, error) {
	stop := int64(-1)
	if limit > 0 {
		stop = int64(limit) - 1
	}
	ids, err := p.client.LRange(ctx, p.impactIndexKey(tenantID), 0, stop).Result()
	if err != nil {
		return nil, err
	}

	recs := make([]types.ImpactRecord, 0, len(ids))
	for _, id := range ids {
		data, err := p.client.Get(ctx, p.impactKey(tenantID, id)).Bytes()
		if err != nil {
			p.logger.Warn("skipping unreadable impact row", "tenant", tenantID, "id", id, "error", err)
			continue
		}
		var rec types.ImpactRecord
		if err := json.Unmarshal(data, &rec); err != nil {
			p.logger.Warn("skipping corrupt impact data", "tenant", tenantID, "id", id, "error", err)
			continue
		}
		recs = append(recs, rec)
	}
	return recs, nil
}

// PutGap upserts a gap keyed by id.
func (p *RedisProvider) PutGap(ctx context.Context, gap types.Gap) error {
	data, err := json.Marshal(gap)
	if err != nil {
		return fmt.Errorf("marshaling gap: %w", err)
	}

	pipe := p.client.Pipeline()
	pipe.Set(ctx, p.gapKey(gap.TenantID, gap.ID), data, 0)
	pipe.SAdd(ctx, p.gapIndexKey(gap.TenantID), gap.ID)
	_, err = pipe.Exec(ctx)
	return err
}

// ListGaps returns the tenant's gaps. Resolved gaps are filtered out unless
// includeResolved is set.
func (p *RedisProvider) ListGaps(ctx context.Context, tenantID string, includeResolved bool) ([]types.Gap, error) {
	ids, err := p.client.SMembers(ctx, p.gapIndexKey(tenantID)).Result()
	if err != nil {
		return nil, err
	}

	gaps := make([]types.Gap, 0, len(ids))
	for _, id := range ids {
		data, err := p.client.Get(ctx, p.gapKey(tenantID, id)).Bytes()
		if err != nil {
			p.logger.Warn("skipping unreadable gap", "tenant", tenantID, "id", id, "error", err)
			continue
		}
		var gap types.Gap
		if err := json.Unmarshal(data, &gap); err != nil {
			p.logger.Warn("skipping corrupt gap data", "tenant", tenantID, "id", id, "error", err)
			continue
		}
		if gap.Resolved() && !includeResolved {
			continue
		}
		gaps = append(gaps, gap)
	}
	return gaps, nil
}
