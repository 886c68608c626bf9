package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/buildera-io/stratum/internal/alert"
	"github.com/buildera-io/stratum/internal/config"
	"github.com/buildera-io/stratum/internal/engine"
	"github.com/buildera-io/stratum/internal/snapshot"
	"github.com/buildera-io/stratum/pkg/types"
)

const cycleTimeout = 2 * time.Minute

// NewCycleCmd creates the cycle command.
func NewCycleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cycle [tenant-id]",
		Short: "Run a scoring cycle for a tenant",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCycle(args[0])
		},
	}
}

func runCycle(tenantID string) error {
	cfg, err := config.Load(".")
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cycleTimeout)
	defer cancel()

	prov, err := newProvider(ctx, cfg)
	if err != nil {
		return fmt.Errorf("creating provider: %w", err)
	}
	if err := prov.Start(ctx); err != nil {
		return fmt.Errorf("connecting to provider: %w", err)
	}
	defer func() { _ = prov.Stop(ctx) }()

	dispatcher, err := alert.NewDispatcher(cfg.Alerts, nil)
	if err != nil {
		return fmt.Errorf("creating alert dispatcher: %w", err)
	}

	eng := engine.New(prov, snapshot.NewWriter(prov, nil), dispatcher.Dispatch, nil)

	result, err := eng.RunCycle(ctx, tenantID, types.TriggerManualRecalc, "cli")
	if err != nil {
		return fmt.Errorf("cycle failed: %w", err)
	}

	printCycleResult(result)
	return nil
}

func printCycleResult(result *types.CycleResult) {
	bold := color.New(color.Bold)

	_, _ = bold.Printf("\nTenant: %s\n", result.TenantID)
	fmt.Printf("  Stage:      %s\n", result.Stage)
	fmt.Printf("  Composite:  %.1f\n", result.Composite)
	fmt.Printf("  Capability: %d\n", result.CapabilityIndex)
	fmt.Printf("  Pattern:    %s\n", result.Pattern)
	fmt.Printf("  Snapshot:   v%d\n", result.SnapshotVersion)

	fmt.Println("\nScore breakdown:")
	fmt.Printf("  foundation %.1f  presence %.1f  execution %.1f  gaps %.1f\n",
		result.Breakdown.Foundation, result.Breakdown.Presence,
		result.Breakdown.Execution, result.Breakdown.Gaps)

	if len(result.Risks) > 0 {
		fmt.Println()
		color.Red("Structural risks:")
		for _, r := range result.Risks {
			color.Red("  ✗ %s", r)
		}
	} else {
		fmt.Println()
		color.Green("No structural risks ✓")
	}
	fmt.Println()
}
