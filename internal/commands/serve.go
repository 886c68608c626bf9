package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/buildera-io/stratum/internal/alert"
	"github.com/buildera-io/stratum/internal/bridge"
	"github.com/buildera-io/stratum/internal/config"
	"github.com/buildera-io/stratum/internal/cycle"
	"github.com/buildera-io/stratum/internal/engine"
	"github.com/buildera-io/stratum/internal/ingest"
	"github.com/buildera-io/stratum/internal/server"
	"github.com/buildera-io/stratum/internal/snapshot"
	"github.com/buildera-io/stratum/internal/telemetry"
	"github.com/buildera-io/stratum/pkg/types"
)

// NewServeCmd creates the serve command.
func NewServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the Stratum HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe()
		},
	}
}

func runServe() error {
	cfg, err := config.Load(".")
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := slog.Default()
	ctx := context.Background()

	// Telemetry
	shutdownTelemetry, err := telemetry.Init(ctx, cfg.Telemetry)
	if err != nil {
		return fmt.Errorf("initializing telemetry: %w", err)
	}

	// Provider
	prov, err := newProvider(ctx, cfg)
	if err != nil {
		return fmt.Errorf("creating provider: %w", err)
	}
	if err := prov.Start(ctx); err != nil {
		return fmt.Errorf("connecting to provider: %w", err)
	}

	// Alerts
	dispatcher, err := alert.NewDispatcher(cfg.Alerts, logger)
	if err != nil {
		return fmt.Errorf("creating alert dispatcher: %w", err)
	}

	// Engine
	eng := engine.New(prov, snapshot.NewWriter(prov, logger), dispatcher.Dispatch, logger)

	// Cycle scheduler
	var sched *cycle.Scheduler
	if cfg.Cycle.Enabled {
		sched = cycle.New(prov, eng, logger, cfg.Cycle)
	}

	// SQS ingestion
	var consumer *ingest.Consumer
	if cfg.Ingest.Enabled {
		handler := func(ctx context.Context, ev types.ImpactEvent) error {
			b := bridge.Load(ctx, prov, ev.TenantID, logger, bridge.Options{TriggeredBy: "sqs"})
			b.RecordMarketingImpact(ctx, ev)
			return nil
		}
		consumer, err = ingest.New(cfg.Ingest, handler, logger)
		if err != nil {
			return fmt.Errorf("creating ingest consumer: %w", err)
		}
	}

	// Server
	serverCfg := cfg.Server
	if serverCfg.Addr == "" {
		serverCfg.Addr = ":3000"
	}
	srv := server.New(serverCfg, eng, prov)

	// Start background loops
	if sched != nil {
		sched.Start(ctx)
	}
	if consumer != nil {
		consumer.Start(ctx)
	}

	// Graceful shutdown
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		color.Yellow("\nReceived %s, shutting down...", sig)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if consumer != nil {
			consumer.Stop(shutdownCtx)
		}
		if sched != nil {
			sched.Stop(shutdownCtx)
		}
		if err := srv.Stop(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown: %w", err)
		}
		_ = prov.Stop(shutdownCtx)
		if err := shutdownTelemetry(shutdownCtx); err != nil {
			logger.Warn("telemetry shutdown", "error", err)
		}
		color.Green("Server stopped gracefully")
		return nil
	}
}
