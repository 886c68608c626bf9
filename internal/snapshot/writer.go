// Package snapshot creates versioned strategic state snapshots.
package snapshot

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/buildera-io/stratum/internal/provider"
	"github.com/buildera-io/stratum/pkg/types"
)

// Writer captures point-in-time strategic state as immutable versioned
// snapshots. Version numbers are reserved through the provider's atomic
// counter, never computed by read-then-increment in application code.
type Writer struct {
	provider provider.Provider
	logger   *slog.Logger
}

// NewWriter creates a snapshot Writer.
func NewWriter(prov provider.Provider, logger *slog.Logger) *Writer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Writer{provider: prov, logger: logger}
}

// Input carries the state captured into a snapshot.
type Input struct {
	TenantID        string
	Stage           types.Stage
	BusinessModel   types.BusinessModel
	DNA             map[string]any
	Gaps            []types.Gap // active and resolved, split by the writer
	Risks           []types.RiskFlag
	CapabilityIndex int
	Composite       float64
	Breakdown       types.CategoryScores
	TriggerReason   string
	TriggeredBy     string
}

// Write reserves the next version for the tenant and inserts the snapshot.
func (w *Writer) Write(ctx context.Context, in Input) (*types.Snapshot, error) {
	version, err := w.provider.NextSnapshotVersion(ctx, in.TenantID)
	if err != nil {
		return nil, fmt.Errorf("reserving snapshot version: %w", err)
	}

	snap := types.Snapshot{
		TenantID:        in.TenantID,
		Version:         version,
		Stage:           in.Stage,
		BusinessModel:   in.BusinessModel,
		DNA:             in.DNA,
		ActiveGaps:      []types.GapRef{},
		ResolvedGaps:    []types.ResolvedGapRef{},
		Risks:           in.Risks,
		CapabilityIndex: in.CapabilityIndex,
		Composite:       in.Composite,
		Breakdown:       in.Breakdown,
		TriggerReason:   in.TriggerReason,
		TriggeredBy:     in.TriggeredBy,
		CreatedAt:       time.Now().UTC(),
	}

	for _, g := range in.Gaps {
		if g.Resolved() {
			snap.ResolvedGaps = append(snap.ResolvedGaps, types.ResolvedGapRef{
				Key:        g.Key,
				Title:      g.Title,
				ResolvedAt: *g.ResolvedAt,
			})
			continue
		}
		snap.ActiveGaps = append(snap.ActiveGaps, types.GapRef{
			Key:          g.Key,
			Title:        g.Title,
			Urgency:      g.Urgency,
			ImpactWeight: g.ImpactWeight,
		})
	}

	if err := w.provider.InsertSnapshot(ctx, snap); err != nil {
		return nil, fmt.Errorf("inserting snapshot v%d: %w", version, err)
	}

	w.logger.Info("snapshot written",
		"tenant", in.TenantID,
		"version", version,
		"stage", in.Stage,
		"trigger", in.TriggerReason,
	)
	return &snap, nil
}
