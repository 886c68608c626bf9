// Package pattern classifies a tenant's recent action pattern from the
// strategic memory log.
package pattern

import (
	"time"

	"github.com/buildera-io/stratum/pkg/types"
)

// Detection constants.
const (
	// Window is the number of trailing memory entries examined.
	Window = 20

	dormantAfter       = 14 * 24 * time.Hour
	burstWindow        = 48 * time.Hour
	burstMinEntries    = 8
	gapCloserMinShare  = 0.3
	steadyMinEntries   = 6
	steadyMinSpan      = 7 * 24 * time.Hour
	steadyMaxSilence   = 7 * 24 * time.Hour
)

// Detect classifies the tenant's recent action pattern from the trailing
// memory entries (newest first, at most Window). Rules are evaluated in a
// fixed order; the first matching label wins.
func Detect(entries []types.MemoryEntry, now time.Time) types.BehaviorPattern {
	if len(entries) > Window {
		entries = entries[:Window]
	}

	if len(entries) == 0 || now.Sub(entries[0].CreatedAt) > dormantAfter {
		return types.PatternDormant
	}

	inBurst := 0
	gapLinked := 0
	for _, e := range entries {
		if now.Sub(e.CreatedAt) <= burstWindow {
			inBurst++
		}
		if e.GapID != "" {
			gapLinked++
		}
	}

	if inBurst >= burstMinEntries {
		return types.PatternBurstOperator
	}
	if float64(gapLinked)/float64(len(entries)) >= gapCloserMinShare {
		return types.PatternGapCloser
	}
	if isSteady(entries) {
		return types.PatternSteadyExecutor
	}
	return types.PatternExplorer
}

// isSteady reports sustained activity: enough entries spanning at least a
// week with no week-long silence inside the window.
func isSteady(entries []types.MemoryEntry) bool {
	if len(entries) < steadyMinEntries {
		return false
	}
	newest := entries[0].CreatedAt
	oldest := entries[len(entries)-1].CreatedAt
	if newest.Sub(oldest) < steadyMinSpan {
		return false
	}
	for i := 1; i < len(entries); i++ {
		if entries[i-1].CreatedAt.Sub(entries[i].CreatedAt) > steadyMaxSilence {
			return false
		}
	}
	return true
}
