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

// TestMemoryAppendAndCount verifies append, newest-first listing, and the
// cumulative count.
func TestMemoryAppendAndCount(t *testing.T, prov provider.Provider) {
	ctx := context.Background()
	tenantID := "ct-memory"

	base := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 4; i++ {
		entry := types.MemoryEntry{
			ID:          ulid.Make().String(),
			TenantID:    tenantID,
			ActionType:  "marketing_conversion",
			Description: fmt.Sprintf("entry %d", i),
			ScoreBefore: float64(40 + i),
			ScoreAfter:  float64(41 + i),
			ScoreDelta:  1,
			CreatedAt:   base.Add(time.Duration(i) * time.Hour),
		}
		require.NoError(t, prov.AppendMemory(ctx, entry))
		time.Sleep(2 * time.Millisecond)
	}

	count, err := prov.CountMemory(ctx, tenantID)
	require.NoError(t, err)
	assert.Equal(t, 4, count)

	all, err := prov.ListMemory(ctx, tenantID, 0)
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, "entry 3", all[0].Description, "newest entry first")
	assert.Equal(t, "entry 0", all[3].Description, "oldest entry last")

	limited, err := prov.ListMemory(ctx, tenantID, 2)
	require.NoError(t, err)
	require.Len(t, limited, 2)
	assert.Equal(t, "entry 3", limited[0].Description)
}

// TestLatestMemory verifies the latest-entry lookup and its nil contract.
func TestLatestMemory(t *testing.T, prov provider.Provider) {
	ctx := context.Background()
	tenantID := "ct-latest-memory"

	latest, err := prov.LatestMemory(ctx, tenantID)
	require.NoError(t, err)
	assert.Nil(t, latest, "no entries yet")

	first := types.MemoryEntry{
		ID:         ulid.Make().String(),
		TenantID:   tenantID,
		ActionType: "onboarding_connectSocial",
		ScoreAfter: 43,
		CreatedAt:  time.Now().UTC(),
	}
	require.NoError(t, prov.AppendMemory(ctx, first))
	time.Sleep(2 * time.Millisecond)

	second := types.MemoryEntry{
		ID:         ulid.Make().String(),
		TenantID:   tenantID,
		ActionType: "marketing_post_published",
		ScoreAfter: 44,
		CreatedAt:  time.Now().UTC(),
	}
	require.NoError(t, prov.AppendMemory(ctx, second))

	latest, err = prov.LatestMemory(ctx, tenantID)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, second.ID, latest.ID)
	assert.Equal(t, float64(44), latest.ScoreAfter)
}
