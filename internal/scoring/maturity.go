// Package scoring implements the pure scoring functions of the strategic
// state engine: maturity classification, capability index, structural risk
// derivation, and weight recalibration.
package scoring

import "github.com/buildera-io/stratum/pkg/types"

// Maturity tier thresholds. Each tier is strictly more demanding than the
// previous; classification is first match wins, top down.
const (
	scaleMinScore          = 75.0
	scaleMinExecutions     = 50
	scaleMinResolutionRate = 0.7

	consolidatedMinScore          = 55.0
	consolidatedMinExecutions     = 20
	consolidatedMinResolutionRate = 0.4

	growthMinScore      = 35.0
	growthMinExecutions = 5
)

// GapResolutionRate returns resolved/(resolved+active), or 0 when both are zero.
func GapResolutionRate(resolved, active int) float64 {
	total := resolved + active
	if total == 0 {
		return 0
	}
	return float64(resolved) / float64(total)
}

// DeriveMaturityStage classifies a tenant into one of the four ordered
// maturity stages from its composite score, cumulative execution count,
// and gap resolution ratio. Inputs are assumed non-negative.
func DeriveMaturityStage(score float64, totalExecutions, resolvedGaps, activeGaps int) types.Stage {
	rate := GapResolutionRate(resolvedGaps, activeGaps)

	switch {
	case score >= scaleMinScore && totalExecutions >= scaleMinExecutions && rate >= scaleMinResolutionRate:
		return types.StageScale
	case score >= consolidatedMinScore && totalExecutions >= consolidatedMinExecutions && rate >= consolidatedMinResolutionRate:
		return types.StageConsolidated
	case score >= growthMinScore && totalExecutions >= growthMinExecutions:
		return types.StageGrowth
	default:
		return types.StageEarly
	}
}
