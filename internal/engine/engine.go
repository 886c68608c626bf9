// Package engine orchestrates the periodic scoring cycle: recalibration,
// maturity classification, risk derivation, history append, and snapshot
// capture.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/buildera-io/stratum/internal/metrics"
	"github.com/buildera-io/stratum/internal/pattern"
	"github.com/buildera-io/stratum/internal/provider"
	"github.com/buildera-io/stratum/internal/scoring"
	"github.com/buildera-io/stratum/internal/snapshot"
	"github.com/buildera-io/stratum/pkg/types"
)

// AlertFunc receives alerts raised during a cycle.
type AlertFunc func(ctx context.Context, alert types.Alert)

// Engine runs scoring cycles against a storage provider.
type Engine struct {
	provider provider.Provider
	writer   *snapshot.Writer
	alertFn  AlertFunc
	logger   *slog.Logger
}

// New creates an Engine. alertFn may be nil.
func New(prov provider.Provider, writer *snapshot.Writer, alertFn AlertFunc, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{provider: prov, writer: writer, alertFn: alertFn, logger: logger}
}

// RunCycle executes one scoring cycle for a tenant and captures a
// versioned snapshot. Soft inputs (tenant config, history, memory) degrade
// to zeroed defaults on read failure; the cycle fails only when the
// snapshot cannot be written.
func (e *Engine) RunCycle(ctx context.Context, tenantID, trigger, triggeredBy string) (*types.CycleResult, error) {
	metrics.CyclesTotal.Add(1)
	now := time.Now().UTC()

	ctx, span := tracer.Start(ctx, "engine.RunCycle", trace.WithAttributes(
		attribute.String("tenant.id", tenantID),
		attribute.String("cycle.trigger", trigger),
	))
	defer span.End()
	defer func() {
		elapsed := time.Since(now).Seconds()
		cycleDuration.Record(ctx, elapsed, metric.WithAttributes(attribute.String("cycle.trigger", trigger)))
		cycleCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("cycle.trigger", trigger)))
	}()

	var (
		businessModel types.BusinessModel
		usage         *types.OperationalUsage
	)
	tenant, err := e.provider.GetTenant(ctx, tenantID)
	if err != nil {
		e.logger.Error("loading tenant config", "tenant", tenantID, "error", err)
	} else if tenant != nil {
		businessModel = tenant.BusinessModel
		u := tenant.Usage
		usage = &u
	}

	var (
		breakdown types.CategoryScores
		composite float64
		dna       map[string]any
		prevRisks []types.RiskFlag
	)
	latest, err := e.provider.LatestSnapshot(ctx, tenantID)
	if err != nil {
		e.logger.Error("loading latest snapshot", "tenant", tenantID, "error", err)
	} else if latest != nil {
		breakdown = latest.Breakdown
		composite = latest.Composite
		dna = latest.DNA
		prevRisks = latest.Risks
		if businessModel == "" {
			businessModel = latest.BusinessModel
		}
	}

	// The live composite is the after-value of the newest ledger entry.
	if last, err := e.provider.LatestMemory(ctx, tenantID); err != nil {
		e.logger.Error("loading latest memory entry", "tenant", tenantID, "error", err)
	} else if last != nil {
		composite = last.ScoreAfter
	}

	gaps, err := e.provider.ListGaps(ctx, tenantID, true)
	if err != nil {
		e.logger.Error("loading gaps", "tenant", tenantID, "error", err)
		gaps = nil
	}
	active, resolved := 0, 0
	activeGaps := make([]types.Gap, 0, len(gaps))
	for _, g := range gaps {
		if g.Resolved() {
			resolved++
			continue
		}
		active++
		activeGaps = append(activeGaps, g)
	}

	executions, err := e.provider.CountMemory(ctx, tenantID)
	if err != nil {
		e.logger.Error("counting memory entries", "tenant", tenantID, "error", err)
		executions = 0
	}
	if usage != nil {
		usage.TotalExecutions = executions
	}

	stage := scoring.DeriveMaturityStage(composite, executions, resolved, active)

	history, err := e.provider.ListScoreHistory(ctx, tenantID, scoring.HistoryWindow)
	if err != nil {
		e.logger.Error("loading score history", "tenant", tenantID, "error", err)
		history = nil
	}
	recal := scoring.Recalibrate(history, stage)

	risks := scoring.DeriveStructuralRisks(activeGaps, breakdown, stage)
	capability := scoring.CapabilityIndex(usage, gaps, breakdown)

	entries, err := e.provider.ListMemory(ctx, tenantID, pattern.Window)
	if err != nil {
		e.logger.Error("loading memory window", "tenant", tenantID, "error", err)
		entries = nil
	}
	pat := pattern.Detect(entries, now)

	histEntry := types.ScoreHistoryEntry{
		TenantID:            tenantID,
		Scores:              breakdown,
		Composite:           composite,
		AdjustedWeights:     recal.AdjustedWeights,
		WeeksBelowThreshold: recal.WeeksBelowThreshold,
		ConsistencyBonus:    recal.ConsistencyBonus,
		StagnationPenalty:   recal.StagnationPenalty,
		CreatedAt:           now,
	}
	if err := e.provider.AppendScoreHistory(ctx, histEntry); err != nil {
		e.logger.Error("appending score history", "tenant", tenantID, "error", err)
	}

	snap, err := e.writer.Write(ctx, snapshot.Input{
		TenantID:        tenantID,
		Stage:           stage,
		BusinessModel:   businessModel,
		DNA:             dna,
		Gaps:            gaps,
		Risks:           risks,
		CapabilityIndex: capability,
		Composite:       composite,
		Breakdown:       breakdown,
		TriggerReason:   trigger,
		TriggeredBy:     triggeredBy,
	})
	if err != nil {
		metrics.CycleErrors.Add(1)
		span.RecordError(err)
		span.SetStatus(codes.Error, "snapshot write failed")
		return nil, fmt.Errorf("capturing snapshot for %q: %w", tenantID, err)
	}
	metrics.SnapshotsWritten.Add(1)
	span.SetAttributes(
		attribute.Int64("snapshot.version", snap.Version),
		attribute.String("tenant.stage", string(stage)),
	)

	e.fireRiskAlerts(ctx, tenantID, prevRisks, risks)

	return &types.CycleResult{
		TenantID:        tenantID,
		Stage:           stage,
		Composite:       composite,
		Breakdown:       breakdown,
		Recalibration:   recal,
		Risks:           risks,
		CapabilityIndex: capability,
		Pattern:         pat,
		SnapshotVersion: snap.Version,
		CompletedAt:     now,
	}, nil
}

// fireRiskAlerts emits one alert per risk flag not present in the previous
// snapshot.
func (e *Engine) fireRiskAlerts(ctx context.Context, tenantID string, prev, current []types.RiskFlag) {
	if e.alertFn == nil {
		return
	}
	known := make(map[types.RiskFlag]bool, len(prev))
	for _, r := range prev {
		known[r] = true
	}
	for _, r := range current {
		if known[r] {
			continue
		}
		metrics.RisksRaised.Add(1)
		e.alertFn(ctx, types.Alert{
			Level:     types.AlertWarning,
			TenantID:  tenantID,
			Risk:      r,
			Message:   fmt.Sprintf("structural risk %s raised for tenant %s", r, tenantID),
			Timestamp: time.Now().UTC(),
		})
	}
}
