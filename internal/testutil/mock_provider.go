// Package testutil provides test doubles shared across packages.
package testutil

import (
	"context"
	"sync"

	"github.com/buildera-io/stratum/internal/provider"
	"github.com/buildera-io/stratum/internal/provider/memory"
	"github.com/buildera-io/stratum/pkg/types"
)

// Compile-time interface satisfaction check.
var _ provider.Provider = (*MockProvider)(nil)

// MockProvider is the memory backend with per-operation failure injection
// and call counting, for exercising the catch-log-degrade paths.
type MockProvider struct {
	*memory.MemoryProvider

	mu       sync.Mutex
	failures map[string]error
	calls    map[string]int
}

// NewMockProvider creates an empty MockProvider.
func NewMockProvider() *MockProvider {
	return &MockProvider{
		MemoryProvider: memory.New(),
		failures:       make(map[string]error),
		calls:          make(map[string]int),
	}
}

// FailWith makes the named operation return err until cleared with nil.
func (m *MockProvider) FailWith(op string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err == nil {
		delete(m.failures, op)
		return
	}
	m.failures[op] = err
}

// Calls returns how many times the named operation was invoked.
func (m *MockProvider) Calls(op string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[op]
}

func (m *MockProvider) intercept(op string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls[op]++
	return m.failures[op]
}

func (m *MockProvider) GetTenant(ctx context.Context, tenantID string) (*types.TenantConfig, error) {
	if err := m.intercept("GetTenant"); err != nil {
		return nil, err
	}
	return m.MemoryProvider.GetTenant(ctx, tenantID)
}

func (m *MockProvider) AppendScoreHistory(ctx context.Context, entry types.ScoreHistoryEntry) error {
	if err := m.intercept("AppendScoreHistory"); err != nil {
		return err
	}
	return m.MemoryProvider.AppendScoreHistory(ctx, entry)
}

func (m *MockProvider) ListScoreHistory(ctx context.Context, tenantID string, limit int) ([]types.ScoreHistoryEntry, error) {
	if err := m.intercept("ListScoreHistory"); err != nil {
		return nil, err
	}
	return m.MemoryProvider.ListScoreHistory(ctx, tenantID, limit)
}

func (m *MockProvider) AppendMemory(ctx context.Context, entry types.MemoryEntry) error {
	if err := m.intercept("AppendMemory"); err != nil {
		return err
	}
	return m.MemoryProvider.AppendMemory(ctx, entry)
}

func (m *MockProvider) ListMemory(ctx context.Context, tenantID string, limit int) ([]types.MemoryEntry, error) {
	if err := m.intercept("ListMemory"); err != nil {
		return nil, err
	}
	return m.MemoryProvider.ListMemory(ctx, tenantID, limit)
}

func (m *MockProvider) LatestMemory(ctx context.Context, tenantID string) (*types.MemoryEntry, error) {
	if err := m.intercept("LatestMemory"); err != nil {
		return nil, err
	}
	return m.MemoryProvider.LatestMemory(ctx, tenantID)
}

func (m *MockProvider) CountMemory(ctx context.Context, tenantID string) (int, error) {
	if err := m.intercept("CountMemory"); err != nil {
		return 0, err
	}
	return m.MemoryProvider.CountMemory(ctx, tenantID)
}

func (m *MockProvider) NextSnapshotVersion(ctx context.Context, tenantID string) (int64, error) {
	if err := m.intercept("NextSnapshotVersion"); err != nil {
		return 0, err
	}
	return m.MemoryProvider.NextSnapshotVersion(ctx, tenantID)
}

func (m *MockProvider) InsertSnapshot(ctx context.Context, snap types.Snapshot) error {
	if err := m.intercept("InsertSnapshot"); err != nil {
		return err
	}
	return m.MemoryProvider.InsertSnapshot(ctx, snap)
}

func (m *MockProvider) LatestSnapshot(ctx context.Context, tenantID string) (*types.Snapshot, error) {
	if err := m.intercept("LatestSnapshot"); err != nil {
		return nil, err
	}
	return m.MemoryProvider.LatestSnapshot(ctx, tenantID)
}

func (m *MockProvider) InsertImpact(ctx context.Context, rec types.ImpactRecord) error {
	if err := m.intercept("InsertImpact"); err != nil {
		return err
	}
	return m.MemoryProvider.InsertImpact(ctx, rec)
}

func (m *MockProvider) UpdateImpact(ctx context.Context, tenantID, id string, patch types.ImpactPatch) error {
	if err := m.intercept("UpdateImpact"); err != nil {
		return err
	}
	return m.MemoryProvider.UpdateImpact(ctx, tenantID, id, patch)
}

func (m *MockProvider) ListImpacts(ctx context.Context, tenantID string, limit int) ([]types.ImpactRecord, error) {
	if err := m.intercept("ListImpacts"); err != nil {
		return nil, err
	}
	return m.MemoryProvider.ListImpacts(ctx, tenantID, limit)
}

func (m *MockProvider) ListGaps(ctx context.Context, tenantID string, includeResolved bool) ([]types.Gap, error) {
	if err := m.intercept("ListGaps"); err != nil {
		return nil, err
	}
	return m.MemoryProvider.ListGaps(ctx, tenantID, includeResolved)
}
