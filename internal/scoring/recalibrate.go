package scoring

import "github.com/buildera-io/stratum/pkg/types"

// Recalibration constants.
const (
	// HistoryWindow is the trailing score-history window the engine feeds
	// into Recalibrate (newest first).
	HistoryWindow = 8

	stagnationThreshold = 40.0

	severeStagnationWeeks   = 4
	severeWeightMultiplier  = 1.5
	severePenaltyPoints     = 3.0
	mildStagnationWeeks     = 3
	mildWeightMultiplier    = 1.25
	mildPenaltyPoints       = 1.0

	consistencyMinEntries = 4
	consistencyBonus      = 5.0
)

// baseWeights is the fixed stage×dimension weight table. Each stage has a
// distinct emphasis: early favors foundation, scale favors gaps and
// execution at foundation's expense.
var baseWeights = map[types.Stage]map[types.ScoreDimension]float64{
	types.StageEarly: {
		types.DimFoundation: 1.3, types.DimPresence: 1.0, types.DimExecution: 0.8, types.DimGaps: 0.9,
	},
	types.StageGrowth: {
		types.DimFoundation: 1.1, types.DimPresence: 1.2, types.DimExecution: 1.1, types.DimGaps: 1.0,
	},
	types.StageConsolidated: {
		types.DimFoundation: 0.9, types.DimPresence: 1.1, types.DimExecution: 1.3, types.DimGaps: 1.1,
	},
	types.StageScale: {
		types.DimFoundation: 0.8, types.DimPresence: 1.0, types.DimExecution: 1.2, types.DimGaps: 1.3,
	},
}

// BaseWeights returns a copy of the base weight map for a stage. Unknown
// stages fall back to the early table.
func BaseWeights(stage types.Stage) map[types.ScoreDimension]float64 {
	table, ok := baseWeights[stage]
	if !ok {
		table = baseWeights[types.StageEarly]
	}
	out := make(map[types.ScoreDimension]float64, len(table))
	for dim, w := range table {
		out[dim] = w
	}
	return out
}

// Recalibrate computes adjusted per-dimension weights, a consistency bonus,
// and a stagnation penalty from the tenant's trailing score history
// (newest first, at most HistoryWindow entries) and current maturity stage.
// An empty history yields base weights, zero bonus, zero penalty.
func Recalibrate(history []types.ScoreHistoryEntry, stage types.Stage) types.Recalibration {
	weights := BaseWeights(stage)

	weeksBelow := make(map[types.ScoreDimension]int, len(types.ScoreDimensions))
	for _, dim := range types.ScoreDimensions {
		weeksBelow[dim] = 0
	}

	// Stagnation only starts counting once there is enough history to call
	// it a trend.
	if len(history) >= 2 {
		for _, entry := range history {
			for _, dim := range types.ScoreDimensions {
				if entry.Scores.Get(dim) < stagnationThreshold {
					weeksBelow[dim]++
				}
			}
		}
	}

	penalty := 0.0
	for _, dim := range types.ScoreDimensions {
		switch weeks := weeksBelow[dim]; {
		case weeks >= severeStagnationWeeks:
			weights[dim] *= severeWeightMultiplier
			penalty += severePenaltyPoints
		case weeks == mildStagnationWeeks:
			weights[dim] *= mildWeightMultiplier
			penalty += mildPenaltyPoints
		}
	}

	bonus := 0.0
	if len(history) >= consistencyMinEntries {
		newest, oldest := history[0], history[len(history)-1]
		improved := true
		for _, dim := range types.ScoreDimensions {
			if newest.Scores.Get(dim) < oldest.Scores.Get(dim) {
				improved = false
				break
			}
		}
		if improved {
			bonus = consistencyBonus
		}
	}

	return types.Recalibration{
		AdjustedWeights:     weights,
		ConsistencyBonus:    bonus,
		StagnationPenalty:   penalty,
		WeeksBelowThreshold: weeksBelow,
	}
}
