package scoring

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/buildera-io/stratum/pkg/types"
)

func criticalGap() types.Gap {
	return types.Gap{Urgency: types.UrgencyCritical}
}

func TestDeriveStructuralRisks_None(t *testing.T) {
	scores := types.CategoryScores{Foundation: 50, Presence: 50, Execution: 50, Gaps: 50}
	risks := DeriveStructuralRisks(nil, scores, types.StageGrowth)
	assert.Empty(t, risks)
}

func TestDeriveStructuralRisks_CriticalGapAccumulation(t *testing.T) {
	gaps := []types.Gap{criticalGap(), criticalGap()}
	scores := types.CategoryScores{Foundation: 50, Presence: 50, Execution: 50}

	risks := DeriveStructuralRisks(gaps, scores, types.StageGrowth)
	assert.NotContains(t, risks, types.RiskCriticalGapAccumulation)

	gaps = append(gaps, criticalGap())
	risks = DeriveStructuralRisks(gaps, scores, types.StageGrowth)
	assert.Contains(t, risks, types.RiskCriticalGapAccumulation)
}

func TestDeriveStructuralRisks_ResolvedGapsIgnored(t *testing.T) {
	now := time.Now()
	resolved := criticalGap()
	resolved.ResolvedAt = &now
	gaps := []types.Gap{resolved, resolved, resolved}
	scores := types.CategoryScores{Foundation: 50, Presence: 50, Execution: 50}

	risks := DeriveStructuralRisks(gaps, scores, types.StageGrowth)
	assert.Empty(t, risks)
}

func TestDeriveStructuralRisks_FoundationCollapse(t *testing.T) {
	scores := types.CategoryScores{Foundation: 9, Presence: 50, Execution: 50}

	// Early stage is exempt.
	assert.NotContains(t,
		DeriveStructuralRisks(nil, scores, types.StageEarly),
		types.RiskStrategicFoundationCollapse)
	assert.Contains(t,
		DeriveStructuralRisks(nil, scores, types.StageGrowth),
		types.RiskStrategicFoundationCollapse)
}

func TestDeriveStructuralRisks_ExecutionDisconnect(t *testing.T) {
	scores := types.CategoryScores{Foundation: 20, Presence: 50, Execution: 4.9}
	assert.Contains(t,
		DeriveStructuralRisks(nil, scores, types.StageEarly),
		types.RiskStrategyExecutionDisconnect)

	// Weak foundation means no disconnect: there is no strategy to
	// disconnect from.
	scores.Foundation = 19.9
	assert.NotContains(t,
		DeriveStructuralRisks(nil, scores, types.StageEarly),
		types.RiskStrategyExecutionDisconnect)
}

func TestDeriveStructuralRisks_VisibilityBottleneck(t *testing.T) {
	scores := types.CategoryScores{Foundation: 50, Presence: 7, Execution: 50}
	assert.Contains(t,
		DeriveStructuralRisks(nil, scores, types.StageGrowth),
		types.RiskVisibilityBottleneck)
	assert.NotContains(t,
		DeriveStructuralRisks(nil, scores, types.StageConsolidated),
		types.RiskVisibilityBottleneck)
}

func TestDeriveStructuralRisks_ChronicGapStagnation(t *testing.T) {
	scores := types.CategoryScores{Foundation: 50, Presence: 50, Execution: 50}
	gaps := []types.Gap{{WeeksActive: 4}, {WeeksActive: 6}}
	assert.Contains(t,
		DeriveStructuralRisks(gaps, scores, types.StageGrowth),
		types.RiskChronicGapStagnation)

	gaps = []types.Gap{{WeeksActive: 4}, {WeeksActive: 3}}
	assert.NotContains(t,
		DeriveStructuralRisks(gaps, scores, types.StageGrowth),
		types.RiskChronicGapStagnation)
}

func TestDeriveStructuralRisks_MultipleFireWithoutDuplicates(t *testing.T) {
	gaps := []types.Gap{
		{Urgency: types.UrgencyCritical, WeeksActive: 5},
		{Urgency: types.UrgencyCritical, WeeksActive: 5},
		{Urgency: types.UrgencyCritical},
	}
	scores := types.CategoryScores{Foundation: 5, Presence: 2, Execution: 1}

	risks := DeriveStructuralRisks(gaps, scores, types.StageGrowth)
	assert.ElementsMatch(t, []types.RiskFlag{
		types.RiskCriticalGapAccumulation,
		types.RiskStrategicFoundationCollapse,
		types.RiskVisibilityBottleneck,
		types.RiskChronicGapStagnation,
	}, risks)

	seen := map[types.RiskFlag]int{}
	for _, r := range risks {
		seen[r]++
		assert.Equal(t, 1, seen[r], "duplicate risk %s", r)
	}
}
