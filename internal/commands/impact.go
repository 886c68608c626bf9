package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/buildera-io/stratum/internal/bridge"
	"github.com/buildera-io/stratum/internal/config"
	"github.com/buildera-io/stratum/pkg/types"
)

const impactTimeout = 30 * time.Second

// NewImpactCmd creates the impact command.
func NewImpactCmd() *cobra.Command {
	var (
		eventType string
		source    string
		sourceID  string
		dimension string
		gapID     string
		step      string
	)

	cmd := &cobra.Command{
		Use:   "impact [tenant-id]",
		Short: "Record a marketing impact event or onboarding step",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if step != "" {
				return runOnboardingImpact(args[0], step)
			}
			return runMarketingImpact(args[0], eventType, source, sourceID, dimension, gapID)
		},
	}

	cmd.Flags().StringVar(&eventType, "event", "", "Event type (post_published, conversion, ...)")
	cmd.Flags().StringVar(&source, "source", "cli", "Event source")
	cmd.Flags().StringVar(&sourceID, "source-id", "", "Source object id")
	cmd.Flags().StringVar(&dimension, "dimension", "brand", "Impacted dimension (brand, acquisition, operations, authority)")
	cmd.Flags().StringVar(&gapID, "gap", "", "Related gap id")
	cmd.Flags().StringVar(&step, "step", "", "Onboarding step (connectSocial, completeBrand, ...)")

	return cmd
}

func runMarketingImpact(tenantID, eventType, source, sourceID, dimension, gapID string) error {
	if eventType == "" {
		return fmt.Errorf("--event or --step is required")
	}

	cfg, err := config.Load(".")
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), impactTimeout)
	defer cancel()

	prov, err := newProvider(ctx, cfg)
	if err != nil {
		return fmt.Errorf("creating provider: %w", err)
	}
	if err := prov.Start(ctx); err != nil {
		return fmt.Errorf("connecting to provider: %w", err)
	}
	defer func() { _ = prov.Stop(ctx) }()

	b := bridge.Load(ctx, prov, tenantID, nil, bridge.Options{TriggeredBy: "cli"})
	rec := b.RecordMarketingImpact(ctx, types.ImpactEvent{
		TenantID:  tenantID,
		Type:      types.EventType(eventType),
		Source:    source,
		SourceID:  sourceID,
		Dimension: types.ImpactDimension(dimension),
		GapID:     gapID,
	})

	printImpact(rec)
	return nil
}

func runOnboardingImpact(tenantID, step string) error {
	cfg, err := config.Load(".")
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), impactTimeout)
	defer cancel()

	prov, err := newProvider(ctx, cfg)
	if err != nil {
		return fmt.Errorf("creating provider: %w", err)
	}
	if err := prov.Start(ctx); err != nil {
		return fmt.Errorf("connecting to provider: %w", err)
	}
	defer func() { _ = prov.Stop(ctx) }()

	b := bridge.Load(ctx, prov, tenantID, nil, bridge.Options{TriggeredBy: "cli"})
	rec := b.RecordOnboardingImpact(ctx, types.OnboardingStep(step))
	if rec == nil {
		return fmt.Errorf("unknown onboarding step: %s", step)
	}

	printImpact(rec)
	return nil
}

func printImpact(rec *types.ImpactRecord) {
	bold := color.New(color.Bold)
	_, _ = bold.Printf("Recorded %s\n", rec.EventType)
	if rec.Delta >= 0 {
		color.Green("  Score: %.1f → %.1f (%+.1f)", rec.ScoreBefore, rec.ScoreAfter, rec.Delta)
	} else {
		color.Red("  Score: %.1f → %.1f (%+.1f)", rec.ScoreBefore, rec.ScoreAfter, rec.Delta)
	}
	fmt.Printf("  Dimension: %s\n", rec.Dimension)
	fmt.Printf("  Ledger id: %s\n", rec.ID)
}
