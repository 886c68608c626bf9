package bridge

import (
	"context"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/buildera-io/stratum/internal/metrics"
	"github.com/buildera-io/stratum/pkg/types"
)

// impactDeltas is the fixed deterministic composite-score delta per event
// type. Onboarding steps record zero through the generic path and are
// corrected afterwards (see RecordOnboardingImpact).
var impactDeltas = map[types.EventType]float64{
	types.EventPostPublished:         1,
	types.EventCampaignCreated:       2,
	types.EventAutomationActivated:   2,
	types.EventAutomationDeactivated: -1,
	types.EventEngagementSpike:       3,
	types.EventConversion:            3,
	types.EventApprovalCompleted:     1,
	types.EventOnboardingStep:        0,
}

// onboardingImpact is the per-step dimension/delta override table.
type onboardingImpact struct {
	Dimension types.ImpactDimension
	Delta     float64
}

var onboardingImpacts = map[types.OnboardingStep]onboardingImpact{
	types.StepConnectSocial:     {types.ImpactAcquisition, 3},
	types.StepCompleteBrand:     {types.ImpactBrand, 3},
	types.StepImportSocialData:  {types.ImpactOperations, 2},
	types.StepFirstPost:         {types.ImpactBrand, 2},
	types.StepActivateAutopilot: {types.ImpactOperations, 4},
}

func newRowID() string {
	return ulid.Make().String()
}

// RecordMarketingImpact applies a marketing/product event to the tenant's
// live score and persists an impact-ledger row plus a strategic memory
// entry. Unknown event types are zero-impact no-ops. Persistence failures
// are logged, not returned; the in-memory score still advances, and each
// of the two writes is attempted independently (they are not
// transactional).
func (b *Bridge) RecordMarketingImpact(ctx context.Context, ev types.ImpactEvent) *types.ImpactRecord {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.recordImpact(ctx, ev, impactDeltas[ev.Type])
}

// recordImpact runs the shared write path. Callers hold b.mu.
func (b *Bridge) recordImpact(ctx context.Context, ev types.ImpactEvent, delta float64) *types.ImpactRecord {
	now := time.Now().UTC()
	before := b.score
	after := clampScore(before + delta)

	var snapVersion int64
	if b.latest != nil {
		snapVersion = b.latest.Version
	}

	rec := types.ImpactRecord{
		ID:              newRowID(),
		TenantID:        b.tenantID,
		EventType:       ev.Type,
		Source:          ev.Source,
		SourceID:        ev.SourceID,
		Dimension:       ev.Dimension,
		GapID:           ev.GapID,
		ScoreBefore:     before,
		ScoreAfter:      after,
		Delta:           after - before,
		DimensionDelta:  map[types.ImpactDimension]float64{ev.Dimension: delta},
		SnapshotVersion: snapVersion,
		Evidence:        ev.Evidence,
		CreatedAt:       now,
	}

	entry := types.MemoryEntry{
		ID:            newRowID(),
		TenantID:      b.tenantID,
		GapID:         ev.GapID,
		ActionType:    "marketing_" + string(ev.Type),
		ActionKey:     ev.SourceID,
		Description:   fmt.Sprintf("%s via %s", ev.Type, ev.Source),
		ScoreBefore:   before,
		ScoreAfter:    after,
		ScoreDelta:    after - before,
		Magnitude:     types.MagnitudeFor(after - before),
		Dimension:     ev.Dimension,
		StageAtEvent:  b.stage,
		BusinessModel: b.businessModel,
		ContextSnapshot: map[string]any{
			"event_source": ev.Source,
			"source_id":    ev.SourceID,
		},
		CreatedAt: now,
	}

	if err := b.provider.InsertImpact(ctx, rec); err != nil {
		metrics.ImpactWriteErrors.Add(1)
		b.logger.Error("inserting impact row", "tenant", b.tenantID, "event", ev.Type, "error", err)
	}
	if err := b.provider.AppendMemory(ctx, entry); err != nil {
		metrics.ImpactWriteErrors.Add(1)
		b.logger.Error("appending memory entry", "tenant", b.tenantID, "event", ev.Type, "error", err)
	}

	// Best-effort cache update, applied regardless of write outcome.
	b.score = after
	metrics.ImpactsRecorded.Add(1)
	return &rec
}

// RecordOnboardingImpact applies an onboarding step's score impact.
// Unknown steps are zero-impact no-ops.
//
// By default this preserves the historical two-phase write: the step is
// recorded through the generic onboarding_step path (which carries delta
// zero), then the just-written ledger row is patched with the
// step-specific before/after/delta. A reader between the two writes
// observes the intermediate zero-delta row. Options.
// CollapseOnboardingCorrection turns this into a single correct write.
func (b *Bridge) RecordOnboardingImpact(ctx context.Context, step types.OnboardingStep) *types.ImpactRecord {
	b.mu.Lock()
	defer b.mu.Unlock()

	impact, ok := onboardingImpacts[step]
	if !ok {
		b.logger.Warn("unknown onboarding step", "tenant", b.tenantID, "step", step)
		return nil
	}

	ev := types.ImpactEvent{
		TenantID:  b.tenantID,
		Type:      types.EventOnboardingStep,
		Source:    "onboarding",
		SourceID:  string(step),
		Dimension: impact.Dimension,
	}

	if b.opts.CollapseOnboardingCorrection {
		rec := b.recordImpact(ctx, ev, impact.Delta)
		metrics.OnboardingRecorded.Add(1)
		return rec
	}

	before := b.score
	rec := b.recordImpact(ctx, ev, 0)

	after := clampScore(before + impact.Delta)
	patch := types.ImpactPatch{
		ScoreBefore:    before,
		ScoreAfter:     after,
		Delta:          after - before,
		DimensionDelta: map[types.ImpactDimension]float64{impact.Dimension: impact.Delta},
	}
	if err := b.provider.UpdateImpact(ctx, b.tenantID, rec.ID, patch); err != nil {
		metrics.ImpactWriteErrors.Add(1)
		b.logger.Error("correcting onboarding ledger row", "tenant", b.tenantID, "step", step, "error", err)
	}

	rec.ScoreBefore = patch.ScoreBefore
	rec.ScoreAfter = patch.ScoreAfter
	rec.Delta = patch.Delta
	rec.DimensionDelta = patch.DimensionDelta
	b.score = after
	metrics.OnboardingRecorded.Add(1)
	return rec
}
