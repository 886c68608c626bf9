package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/buildera-io/stratum/internal/config"
	"github.com/buildera-io/stratum/internal/provider"
)

// NewStatusCmd creates the status command.
func NewStatusCmd() *cobra.Command {
	var tenantID string

	cmd := &cobra.Command{
		Use:   "status [tenant-id]",
		Short: "Show tenant strategic state",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				tenantID = args[0]
			}
			return runStatus(tenantID)
		},
	}
	return cmd
}

func runStatus(tenantID string) error {
	cfg, err := config.Load(".")
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	prov, err := newProvider(ctx, cfg)
	if err != nil {
		return fmt.Errorf("creating provider: %w", err)
	}
	if err := prov.Start(ctx); err != nil {
		return fmt.Errorf("connecting to provider: %w", err)
	}
	defer func() { _ = prov.Stop(ctx) }()

	if tenantID != "" {
		return showTenantStatus(ctx, prov, tenantID)
	}
	return showAllTenants(ctx, prov)
}

func showAllTenants(ctx context.Context, prov provider.Provider) error {
	tenants, err := prov.ListTenants(ctx)
	if err != nil {
		return fmt.Errorf("listing tenants: %w", err)
	}

	if len(tenants) == 0 {
		fmt.Println("No tenants registered.")
		return nil
	}

	bold := color.New(color.Bold)
	_, _ = bold.Println("Registered Tenants:")
	fmt.Println()

	for _, t := range tenants {
		snap, _ := prov.LatestSnapshot(ctx, t.ID)
		stageStr := color.YellowString("UNSCORED")
		score := 0.0
		if snap != nil {
			stageStr = color.CyanString("%s", snap.Stage)
			score = snap.Composite
		}

		fmt.Printf("  %-24s %-18s score=%-6.1f model=%s\n",
			t.ID, stageStr, score, t.BusinessModel)
	}
	fmt.Println()
	return nil
}

func showTenantStatus(ctx context.Context, prov provider.Provider, tenantID string) error {
	tenant, err := prov.GetTenant(ctx, tenantID)
	if err != nil {
		return fmt.Errorf("loading tenant: %w", err)
	}
	if tenant == nil {
		return fmt.Errorf("tenant not found: %s", tenantID)
	}

	bold := color.New(color.Bold)
	_, _ = bold.Printf("Tenant: %s\n", tenant.ID)
	fmt.Printf("  Name:   %s\n", tenant.Name)
	if tenant.BusinessModel != "" {
		fmt.Printf("  Model:  %s\n", tenant.BusinessModel)
	}

	// Latest snapshot
	snap, _ := prov.LatestSnapshot(ctx, tenantID)
	if snap != nil {
		fmt.Println()
		_, _ = bold.Printf("  Snapshot v%d (%s)\n", snap.Version, snap.CreatedAt.Format(time.RFC3339))
		fmt.Printf("  Stage:      %s\n", snap.Stage)
		fmt.Printf("  Composite:  %.1f\n", snap.Composite)
		fmt.Printf("  Capability: %d\n", snap.CapabilityIndex)

		if len(snap.Risks) > 0 {
			color.Red("  Risks:")
			for _, r := range snap.Risks {
				color.Red("    ✗ %s", r)
			}
		} else {
			color.Green("  Risks: none ✓")
		}
	} else {
		fmt.Println()
		color.Yellow("  No snapshot yet. Run: stratum cycle %s", tenantID)
	}

	// Active gaps
	gaps, _ := prov.ListGaps(ctx, tenantID, false)
	if len(gaps) > 0 {
		fmt.Println()
		_, _ = bold.Println("  Active Gaps:")
		for _, g := range gaps {
			if g.Urgency == "critical" {
				color.Red("    %-26s urgency=%-8s weight=%.1f", g.Key, g.Urgency, g.ImpactWeight)
			} else {
				fmt.Printf("    %-26s urgency=%-8s weight=%.1f\n", g.Key, g.Urgency, g.ImpactWeight)
			}
		}
	}

	// Recent memory
	entries, _ := prov.ListMemory(ctx, tenantID, 5)
	if len(entries) > 0 {
		fmt.Println()
		_, _ = bold.Println("  Recent Activity:")
		for _, e := range entries {
			deltaStr := fmt.Sprintf("%+.1f", e.ScoreDelta)
			if e.ScoreDelta >= 0 {
				deltaStr = color.GreenString(deltaStr)
			} else {
				deltaStr = color.RedString(deltaStr)
			}
			fmt.Printf("    %s  %-28s %s\n",
				e.CreatedAt.Format(time.RFC3339), e.ActionType, deltaStr)
		}
	}

	fmt.Println()
	return nil
}
