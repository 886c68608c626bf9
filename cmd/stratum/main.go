package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/buildera-io/stratum/internal/commands"
)

var version = "dev"

func main() {
	root := &cobra.Command{
		Use:   "stratum",
		Short: "Strategic state engine for business maturity scoring",
		Long: `Stratum maintains a scored, versioned model of each tenant's business
maturity. Marketing and product events feed an impact ledger that moves a
live composite score; periodic cycles recalibrate dimension weights,
classify the maturity stage, derive structural risks, and capture an
immutable snapshot of the strategic state.`,
		Version: version,
	}

	root.AddCommand(
		commands.NewInitCmd(),
		commands.NewAddTenantCmd(),
		commands.NewSeedGapsCmd(),
		commands.NewImpactCmd(),
		commands.NewCycleCmd(),
		commands.NewStatusCmd(),
		commands.NewServeCmd(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
