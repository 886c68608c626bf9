package scoring

import (
	"math"

	"github.com/buildera-io/stratum/pkg/types"
)

// Capability sub-score caps. The five capped terms sum to at most 100.
const (
	agentCap    = 25.0
	execCap     = 25.0
	channelCap  = 15.0
	strategyCap = 20.0
	gapMgmtCap  = 15.0
)

// CapabilityIndex computes the composite usage-effectiveness index [0,100]
// from operational counters, the tenant's gap list, and category scores.
// Returns 0 when usage is nil.
func CapabilityIndex(usage *types.OperationalUsage, gaps []types.Gap, scores types.CategoryScores) int {
	if usage == nil {
		return 0
	}

	agent := math.Min(agentCap, float64(usage.ActiveAgents)*5)
	exec := math.Min(execCap, math.Floor(float64(usage.TotalExecutions)/2))
	channel := math.Min(channelCap, float64(usage.ConnectedChannels)*5)
	strategy := math.Min(strategyCap, scores.Foundation/30*20)

	gapMgmt := 0.0
	if len(gaps) > 0 {
		resolved := 0
		for _, g := range gaps {
			if g.Resolved() {
				resolved++
			}
		}
		gapMgmt = math.Min(gapMgmtCap, float64(resolved)/float64(len(gaps))*15)
	}

	return int(math.Round(agent + exec + channel + strategy + gapMgmt))
}
