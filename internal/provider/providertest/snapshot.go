package providertest

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/buildera-io/stratum/internal/provider"
	"github.com/buildera-io/stratum/pkg/types"
)

// TestSnapshotVersioning verifies reservation, insertion, and newest-first
// listing of versioned snapshots.
func TestSnapshotVersioning(t *testing.T, prov provider.Provider) {
	ctx := context.Background()
	tenantID := "ct-snapshot"

	latest, err := prov.LatestSnapshot(ctx, tenantID)
	require.NoError(t, err)
	assert.Nil(t, latest, "no snapshots yet")

	var versions []int64
	for i := 0; i < 3; i++ {
		v, err := prov.NextSnapshotVersion(ctx, tenantID)
		require.NoError(t, err)
		versions = append(versions, v)

		snap := types.Snapshot{
			TenantID:  tenantID,
			Version:   v,
			Stage:     types.StageGrowth,
			Composite: float64(40 + i),
			CreatedAt: time.Now().UTC(),
		}
		require.NoError(t, prov.InsertSnapshot(ctx, snap))
	}

	// Versions are strictly increasing.
	assert.Less(t, versions[0], versions[1])
	assert.Less(t, versions[1], versions[2])

	latest, err = prov.LatestSnapshot(ctx, tenantID)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, versions[2], latest.Version)
	assert.Equal(t, float64(42), latest.Composite)

	list, err := prov.ListSnapshots(ctx, tenantID, 2)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, versions[2], list[0].Version, "newest snapshot first")
	assert.Equal(t, versions[1], list[1].Version)
}

// TestSnapshotVersionRace verifies that concurrent reservations never
// collide.
func TestSnapshotVersionRace(t *testing.T, prov provider.Provider) {
	ctx := context.Background()
	tenantID := "ct-snapshot-race"

	const writers = 16
	results := make([]int64, writers)
	errs := make([]error, writers)

	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			results[n], errs[n] = prov.NextSnapshotVersion(ctx, tenantID)
		}(i)
	}
	wg.Wait()

	seen := make(map[int64]bool)
	for i := 0; i < writers; i++ {
		require.NoError(t, errs[i])
		assert.False(t, seen[results[i]], "version %d reserved twice", results[i])
		seen[results[i]] = true
	}
}

// TestSnapshotDuplicateVersion verifies the immutability guard.
func TestSnapshotDuplicateVersion(t *testing.T, prov provider.Provider) {
	ctx := context.Background()
	tenantID := "ct-snapshot-dup"

	v, err := prov.NextSnapshotVersion(ctx, tenantID)
	require.NoError(t, err)

	snap := types.Snapshot{TenantID: tenantID, Version: v, Stage: types.StageEarly, CreatedAt: time.Now().UTC()}
	require.NoError(t, prov.InsertSnapshot(ctx, snap))

	snap.Composite = 99
	err = prov.InsertSnapshot(ctx, snap)
	assert.Error(t, err, "snapshots are immutable; duplicate versions must be rejected")
}
