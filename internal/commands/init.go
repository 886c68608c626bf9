package commands

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

const initContainerTimeout = 60 * time.Second

// NewInitCmd creates the init command.
func NewInitCmd() *cobra.Command {
	var skipValkey bool

	cmd := &cobra.Command{
		Use:   "init [project-name]",
		Short: "Initialize a new Stratum project",
		Long:  "Creates project scaffolding and optionally starts a local Valkey container.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(args[0], skipValkey)
		},
	}

	cmd.Flags().BoolVar(&skipValkey, "skip-valkey", false, "Skip starting Valkey container")
	return cmd
}

func runInit(projectName string, skipValkey bool) error {
	bold := color.New(color.Bold)

	_, _ = bold.Printf("Initializing Stratum project: %s\n", projectName)

	if err := os.MkdirAll(filepath.Join(projectName, "gaps"), 0o755); err != nil {
		return fmt.Errorf("creating gaps directory: %w", err)
	}

	// Write stratum.yaml
	configPath := filepath.Join(projectName, "stratum.yaml")
	configContent := `provider: redis
redis:
  addr: localhost:6379
  keyPrefix: "stratum:"
server:
  addr: ":3000"
cycle:
  enabled: true
  interval: 1h
  concurrency: 4
alerts:
  - type: console
`
	if err := os.WriteFile(configPath, []byte(configContent), 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	// Write example gap seeds
	seedPath := filepath.Join(projectName, "gaps", "example.yaml")
	seedContent := `- id: gap-brand-1
  tenantId: example
  key: no_brand_identity
  title: "Brand identity is undefined"
  variable: brand
  urgency: critical
  impactWeight: 8
- id: gap-channel-1
  tenantId: example
  key: no_active_channels
  title: "No acquisition channels connected"
  variable: channel
  urgency: high
  impactWeight: 5
`
	if err := os.WriteFile(seedPath, []byte(seedContent), 0o644); err != nil {
		return fmt.Errorf("writing example gap seeds: %w", err)
	}

	color.Green("  ✓ Project scaffolded")

	// Start Valkey container
	if !skipValkey {
		if err := startValkey(); err != nil {
			color.Yellow("  ⚠ Valkey setup skipped: %v", err)
			color.Yellow("    Run manually: docker run -d --name stratum-valkey -p 6379:6379 valkey/valkey:8")
		} else {
			color.Green("  ✓ Valkey container started")
		}
	} else {
		color.Yellow("  → Valkey setup skipped (--skip-valkey)")
	}

	fmt.Println()
	_, _ = bold.Println("Next steps:")
	fmt.Printf("  cd %s\n", projectName)
	fmt.Println("  stratum add-tenant --id example --name \"Example Co\"")
	fmt.Println("  stratum seed-gaps ./gaps")
	fmt.Println("  stratum serve")
	return nil
}

func startValkey() error {
	// Check Docker availability
	if _, err := exec.LookPath("docker"); err != nil {
		return fmt.Errorf("docker not found in PATH")
	}

	// Check if container already exists
	checkCmd := exec.Command("docker", "inspect", "stratum-valkey")
	if checkCmd.Run() == nil {
		// Container exists, try starting it
		startCmd := exec.Command("docker", "start", "stratum-valkey")
		if err := startCmd.Run(); err != nil {
			return fmt.Errorf("starting existing container: %w", err)
		}
		return nil
	}

	// Create and start new container
	ctx, cancel := context.WithTimeout(context.Background(), initContainerTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "docker", "run", "-d",
		"--name", "stratum-valkey",
		"-p", "6379:6379",
		"valkey/valkey:8",
	)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	return cmd.Run()
}
