package providertest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/buildera-io/stratum/internal/provider"
	"github.com/buildera-io/stratum/pkg/types"
)

// TestGapFiltering verifies upsert and the resolved-gap filter.
func TestGapFiltering(t *testing.T, prov provider.Provider) {
	ctx := context.Background()
	tenantID := "ct-gaps"

	open := types.Gap{
		ID:           "ct-gap-open",
		TenantID:     tenantID,
		Key:          "no_value_prop",
		Title:        "Value proposition undefined",
		Variable:     "propuesta_valor",
		Urgency:      types.UrgencyCritical,
		ImpactWeight: 0.8,
		CreatedAt:    time.Now().UTC(),
	}
	require.NoError(t, prov.PutGap(ctx, open))

	resolvedAt := time.Now().UTC()
	closed := types.Gap{
		ID:         "ct-gap-closed",
		TenantID:   tenantID,
		Key:        "no_channels",
		Title:      "No acquisition channels",
		Urgency:    types.UrgencyMedium,
		ResolvedAt: &resolvedAt,
		CreatedAt:  time.Now().UTC(),
	}
	require.NoError(t, prov.PutGap(ctx, closed))

	active, err := prov.ListGaps(ctx, tenantID, false)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "ct-gap-open", active[0].ID)

	all, err := prov.ListGaps(ctx, tenantID, true)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	// Upsert: resolving the open gap replaces its row.
	open.ResolvedAt = &resolvedAt
	require.NoError(t, prov.PutGap(ctx, open))
	active, err = prov.ListGaps(ctx, tenantID, false)
	require.NoError(t, err)
	assert.Empty(t, active)
}

// TestEmptyReads verifies that list reads on an unknown tenant return empty
// results, never errors.
func TestEmptyReads(t *testing.T, prov provider.Provider) {
	ctx := context.Background()
	tenantID := "ct-empty"

	history, err := prov.ListScoreHistory(ctx, tenantID, 10)
	require.NoError(t, err)
	assert.Empty(t, history)

	memory, err := prov.ListMemory(ctx, tenantID, 10)
	require.NoError(t, err)
	assert.Empty(t, memory)

	count, err := prov.CountMemory(ctx, tenantID)
	require.NoError(t, err)
	assert.Zero(t, count)

	snaps, err := prov.ListSnapshots(ctx, tenantID, 10)
	require.NoError(t, err)
	assert.Empty(t, snaps)

	impacts, err := prov.ListImpacts(ctx, tenantID, 10)
	require.NoError(t, err)
	assert.Empty(t, impacts)

	gaps, err := prov.ListGaps(ctx, tenantID, true)
	require.NoError(t, err)
	assert.Empty(t, gaps)
}
