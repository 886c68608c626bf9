package cycle

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/buildera-io/stratum/internal/engine"
	"github.com/buildera-io/stratum/internal/snapshot"
	"github.com/buildera-io/stratum/internal/testutil"
	"github.com/buildera-io/stratum/pkg/types"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newScheduler(prov *testutil.MockProvider, cfg types.CycleConfig) *Scheduler {
	eng := engine.New(prov, snapshot.NewWriter(prov, nil), nil, nil)
	return New(prov, eng, nil, cfg)
}

func TestScheduler_SweepsAllTenants(t *testing.T) {
	ctx := context.Background()
	prov := testutil.NewMockProvider()
	for _, id := range []string{"t1", "t2", "t3"} {
		require.NoError(t, prov.RegisterTenant(ctx, types.TenantConfig{ID: id}))
	}

	s := newScheduler(prov, types.CycleConfig{Interval: "1h", Concurrency: 2})
	s.Start(ctx)

	// The first sweep runs immediately; wait for the snapshots to land.
	require.Eventually(t, func() bool {
		for _, id := range []string{"t1", "t2", "t3"} {
			snap, err := prov.LatestSnapshot(ctx, id)
			if err != nil || snap == nil {
				return false
			}
		}
		return true
	}, 2*time.Second, 10*time.Millisecond)

	stopCtx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	s.Stop(stopCtx)
}

func TestScheduler_TenantFailureDoesNotAbortSweep(t *testing.T) {
	ctx := context.Background()
	prov := testutil.NewMockProvider()
	require.NoError(t, prov.RegisterTenant(ctx, types.TenantConfig{ID: "t1"}))
	require.NoError(t, prov.RegisterTenant(ctx, types.TenantConfig{ID: "t2"}))

	s := newScheduler(prov, types.CycleConfig{Interval: "1h"})

	// Snapshot writes fail for everyone on the first sweep; the sweep must
	// still visit both tenants without aborting.
	prov.FailWith("InsertSnapshot", assert.AnError)
	s.sweep(ctx)
	assert.GreaterOrEqual(t, prov.Calls("NextSnapshotVersion"), 2)

	prov.FailWith("InsertSnapshot", nil)
	s.sweep(ctx)
	for _, id := range []string{"t1", "t2"} {
		snap, err := prov.LatestSnapshot(ctx, id)
		require.NoError(t, err)
		assert.NotNil(t, snap, "tenant %s", id)
	}
}

func TestScheduler_StopWithoutStart(t *testing.T) {
	prov := testutil.NewMockProvider()
	s := newScheduler(prov, types.CycleConfig{})

	stopCtx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	s.Stop(stopCtx)
}
