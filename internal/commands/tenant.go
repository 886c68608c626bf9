package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/buildera-io/stratum/internal/config"
	"github.com/buildera-io/stratum/pkg/types"
)

const addTenantTimeout = 10 * time.Second

// NewAddTenantCmd creates the add-tenant command.
func NewAddTenantCmd() *cobra.Command {
	var (
		id            string
		name          string
		businessModel string
		agents        int
		channels      int
	)

	cmd := &cobra.Command{
		Use:   "add-tenant",
		Short: "Register a new tenant",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAddTenant(id, name, businessModel, agents, channels)
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "Tenant id (required)")
	cmd.Flags().StringVar(&name, "name", "", "Company name")
	cmd.Flags().StringVar(&businessModel, "business-model", "", "Business model (B2B, B2C, B2B2C, ...)")
	cmd.Flags().IntVar(&agents, "agents", 0, "Active automation agents")
	cmd.Flags().IntVar(&channels, "channels", 0, "Connected marketing channels")
	_ = cmd.MarkFlagRequired("id")

	return cmd
}

func runAddTenant(id, name, businessModel string, agents, channels int) error {
	cfg, err := config.Load(".")
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), addTenantTimeout)
	defer cancel()

	prov, err := newProvider(ctx, cfg)
	if err != nil {
		return fmt.Errorf("creating provider: %w", err)
	}
	if err := prov.Start(ctx); err != nil {
		return fmt.Errorf("connecting to provider: %w", err)
	}
	defer func() { _ = prov.Stop(ctx) }()

	tenant := types.TenantConfig{
		ID:            id,
		Name:          name,
		BusinessModel: types.BusinessModel(businessModel),
		Usage: types.OperationalUsage{
			ActiveAgents:      agents,
			ConnectedChannels: channels,
		},
		CreatedAt: time.Now().UTC(),
	}

	if err := prov.RegisterTenant(ctx, tenant); err != nil {
		return fmt.Errorf("registering tenant: %w", err)
	}

	color.Green("Tenant %q registered", id)
	return nil
}

// NewSeedGapsCmd creates the seed-gaps command.
func NewSeedGapsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed-gaps [dir]",
		Short: "Upsert gap seed files into the store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeedGaps(args[0])
		},
	}
}

func runSeedGaps(dir string) error {
	cfg, err := config.Load(".")
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	gaps, err := loadGapDir(dir)
	if err != nil {
		return fmt.Errorf("loading gap seeds from %s: %w", dir, err)
	}
	if len(gaps) == 0 {
		fmt.Println("No gap seeds found.")
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), addTenantTimeout)
	defer cancel()

	prov, err := newProvider(ctx, cfg)
	if err != nil {
		return fmt.Errorf("creating provider: %w", err)
	}
	if err := prov.Start(ctx); err != nil {
		return fmt.Errorf("connecting to provider: %w", err)
	}
	defer func() { _ = prov.Stop(ctx) }()

	for _, g := range gaps {
		if err := prov.PutGap(ctx, g); err != nil {
			return fmt.Errorf("seeding gap %s: %w", g.ID, err)
		}
	}

	color.Green("Seeded %d gaps", len(gaps))
	return nil
}
