package providertest

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/buildera-io/stratum/internal/provider"
	"github.com/buildera-io/stratum/pkg/types"
)

// TestImpactLedger verifies insertion and newest-first listing.
func TestImpactLedger(t *testing.T, prov provider.Provider) {
	ctx := context.Background()
	tenantID := "ct-impact"

	base := time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		rec := types.ImpactRecord{
			ID:        ulid.Make().String(),
			TenantID:  tenantID,
			EventType: types.EventPostPublished,
			Source:    "social",
			SourceID:  fmt.Sprintf("post-%d", i),
			Dimension: types.ImpactBrand,
			Delta:     1,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, prov.InsertImpact(ctx, rec))
		time.Sleep(2 * time.Millisecond)
	}

	recs, err := prov.ListImpacts(ctx, tenantID, 0)
	require.NoError(t, err)
	require.Len(t, recs, 3)
	assert.Equal(t, "post-2", recs[0].SourceID, "newest row first")
	assert.Equal(t, "post-0", recs[2].SourceID)

	limited, err := prov.ListImpacts(ctx, tenantID, 1)
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, "post-2", limited[0].SourceID)
}

// TestImpactPatch verifies the partial update applied by the onboarding
// correction pass: score fields change, everything else survives.
func TestImpactPatch(t *testing.T, prov provider.Provider) {
	ctx := context.Background()
	tenantID := "ct-impact-patch"

	rec := types.ImpactRecord{
		ID:        ulid.Make().String(),
		TenantID:  tenantID,
		EventType: types.EventOnboardingStep,
		Source:    "onboarding",
		Dimension: types.ImpactAcquisition,
		Evidence:  map[string]any{"step": "connectSocial"},
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, prov.InsertImpact(ctx, rec))

	patch := types.ImpactPatch{
		ScoreBefore:    42,
		ScoreAfter:     45,
		Delta:          3,
		DimensionDelta: map[types.ImpactDimension]float64{types.ImpactAcquisition: 3},
	}
	require.NoError(t, prov.UpdateImpact(ctx, tenantID, rec.ID, patch))

	recs, err := prov.ListImpacts(ctx, tenantID, 0)
	require.NoError(t, err)
	require.Len(t, recs, 1)

	got := recs[0]
	assert.Equal(t, float64(42), got.ScoreBefore)
	assert.Equal(t, float64(45), got.ScoreAfter)
	assert.Equal(t, float64(3), got.Delta)
	assert.Equal(t, float64(3), got.DimensionDelta[types.ImpactAcquisition])
	assert.Equal(t, types.EventOnboardingStep, got.EventType, "non-score fields preserved")
	assert.Equal(t, "connectSocial", got.Evidence["step"])

	// Patching a missing row fails.
	err = prov.UpdateImpact(ctx, tenantID, "ct-missing-impact", patch)
	assert.Error(t, err)
}
