package snapshot

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/buildera-io/stratum/internal/provider/memory"
	"github.com/buildera-io/stratum/pkg/types"
)

func TestWriter_AssignsIncreasingVersions(t *testing.T) {
	prov := memory.New()
	w := NewWriter(prov, nil)
	ctx := context.Background()

	s1, err := w.Write(ctx, Input{TenantID: "t1", Stage: types.StageEarly, TriggerReason: types.TriggerScheduledCycle})
	require.NoError(t, err)
	s2, err := w.Write(ctx, Input{TenantID: "t1", Stage: types.StageEarly, TriggerReason: types.TriggerManualRecalc})
	require.NoError(t, err)

	assert.Greater(t, s2.Version, s1.Version)

	latest, err := prov.LatestSnapshot(ctx, "t1")
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, s2.Version, latest.Version)
	assert.Equal(t, types.TriggerManualRecalc, latest.TriggerReason)
}

func TestWriter_SplitsGaps(t *testing.T) {
	prov := memory.New()
	w := NewWriter(prov, nil)
	resolvedAt := time.Now()

	snap, err := w.Write(context.Background(), Input{
		TenantID: "t1",
		Stage:    types.StageGrowth,
		Gaps: []types.Gap{
			{Key: "positioning", Title: "Unclear positioning", Urgency: types.UrgencyCritical, ImpactWeight: 3},
			{Key: "channel", Title: "Single channel", ResolvedAt: &resolvedAt},
		},
	})
	require.NoError(t, err)

	require.Len(t, snap.ActiveGaps, 1)
	assert.Equal(t, "positioning", snap.ActiveGaps[0].Key)
	assert.Equal(t, types.UrgencyCritical, snap.ActiveGaps[0].Urgency)

	require.Len(t, snap.ResolvedGaps, 1)
	assert.Equal(t, "channel", snap.ResolvedGaps[0].Key)
}

// Concurrent writers must never produce duplicate versions per tenant.
func TestWriter_ConcurrentVersionsUnique(t *testing.T) {
	prov := memory.New()
	w := NewWriter(prov, nil)
	ctx := context.Background()

	const n = 32
	versions := make([]int64, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			snap, err := w.Write(ctx, Input{TenantID: "t1", Stage: types.StageEarly, TriggerReason: "concurrent"})
			require.NoError(t, err)
			versions[idx] = snap.Version
		}(i)
	}
	wg.Wait()

	seen := make(map[int64]bool, n)
	for _, v := range versions {
		assert.False(t, seen[v], "duplicate version %d", v)
		seen[v] = true
	}
}
