package scoring

import "github.com/buildera-io/stratum/pkg/types"

// Structural risk rule thresholds.
const (
	criticalGapRiskCount   = 3
	foundationCollapseMax  = 10.0
	executionDisconnectMax = 5.0
	disconnectFoundationMin = 20.0
	visibilityBottleneckMax = 8.0
	chronicGapMinWeeks     = 4
	chronicGapRiskCount    = 2
)

// DeriveStructuralRisks evaluates the five independent risk rules against
// the tenant's active gaps, category scores, and maturity stage. Resolved
// gaps in the input are ignored. The result contains no duplicates; order
// is fixed by rule declaration but carries no meaning.
func DeriveStructuralRisks(gaps []types.Gap, scores types.CategoryScores, stage types.Stage) []types.RiskFlag {
	criticalActive := 0
	chronicActive := 0
	for _, g := range gaps {
		if g.Resolved() {
			continue
		}
		if g.Urgency == types.UrgencyCritical {
			criticalActive++
		}
		if g.WeeksActive >= chronicGapMinWeeks {
			chronicActive++
		}
	}

	var risks []types.RiskFlag
	if criticalActive >= criticalGapRiskCount {
		risks = append(risks, types.RiskCriticalGapAccumulation)
	}
	if scores.Foundation < foundationCollapseMax && stage != types.StageEarly {
		risks = append(risks, types.RiskStrategicFoundationCollapse)
	}
	if scores.Execution < executionDisconnectMax && scores.Foundation >= disconnectFoundationMin {
		risks = append(risks, types.RiskStrategyExecutionDisconnect)
	}
	if scores.Presence < visibilityBottleneckMax && stage == types.StageGrowth {
		risks = append(risks, types.RiskVisibilityBottleneck)
	}
	if chronicActive >= chronicGapRiskCount {
		risks = append(risks, types.RiskChronicGapStagnation)
	}
	return risks
}
