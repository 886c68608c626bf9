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

// TestScoreHistoryOrdering verifies newest-first ordering and the limit.
func TestScoreHistoryOrdering(t *testing.T, prov provider.Provider) {
	ctx := context.Background()
	tenantID := "ct-history"

	base := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		entry := types.ScoreHistoryEntry{
			TenantID:  tenantID,
			Composite: float64(40 + i),
			Scores:    types.CategoryScores{Execution: float64(10 * i)},
			CreatedAt: base.Add(time.Duration(i) * 24 * time.Hour),
		}
		require.NoError(t, prov.AppendScoreHistory(ctx, entry))
		// Appends are sequential; backends keyed by insertion order and
		// backends keyed by timestamp must agree.
		time.Sleep(2 * time.Millisecond)
	}

	all, err := prov.ListScoreHistory(ctx, tenantID, 0)
	require.NoError(t, err)
	require.Len(t, all, 5)
	assert.Equal(t, float64(44), all[0].Composite, "newest entry first")
	assert.Equal(t, float64(40), all[4].Composite, "oldest entry last")

	limited, err := prov.ListScoreHistory(ctx, tenantID, 2)
	require.NoError(t, err)
	require.Len(t, limited, 2)
	assert.Equal(t, float64(44), limited[0].Composite)
	assert.Equal(t, float64(43), limited[1].Composite)
}
