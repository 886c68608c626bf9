package bridge

import (
	"context"

	"github.com/buildera-io/stratum/pkg/types"
)

// Summary read limits.
const (
	summaryWindow = 50
	summaryRecent = 10
)

// ImpactSummary aggregates the tenant's 50 most recent impact-ledger rows:
// total SDI contribution, gap-linked row count, per-dimension delta sums,
// the most reinforced dimension, and the 10 most recent raw rows. Returns
// nil when the tenant has no ledger rows (or the read fails; reads fail
// open to the empty state).
func (b *Bridge) ImpactSummary(ctx context.Context) *types.ImpactSummary {
	rows, err := b.provider.ListImpacts(ctx, b.tenantID, summaryWindow)
	if err != nil {
		b.logger.Error("reading impact ledger", "tenant", b.tenantID, "error", err)
		return nil
	}
	if len(rows) == 0 {
		return nil
	}

	sum := &types.ImpactSummary{
		DimensionTotals: make(map[types.ImpactDimension]float64),
	}
	for _, r := range rows {
		delta := r.ScoreAfter - r.ScoreBefore
		sum.TotalContribution += delta
		if r.GapID != "" {
			sum.GapsReduced++
		}
		for dim, d := range r.DimensionDelta {
			sum.DimensionTotals[dim] += d
		}
	}

	// Deterministic winner: largest aggregate, canonical order breaks ties.
	order := []types.ImpactDimension{
		types.ImpactBrand, types.ImpactAcquisition, types.ImpactOperations, types.ImpactAuthority,
	}
	best := order[0]
	bestTotal := sum.DimensionTotals[best]
	for _, dim := range order[1:] {
		if sum.DimensionTotals[dim] > bestTotal {
			best, bestTotal = dim, sum.DimensionTotals[dim]
		}
	}
	sum.MostReinforced = best

	recent := rows
	if len(recent) > summaryRecent {
		recent = recent[:summaryRecent]
	}
	sum.Recent = recent
	return sum
}
