// Package cycle runs scheduled scoring cycles across registered tenants.
package cycle

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/buildera-io/stratum/internal/engine"
	"github.com/buildera-io/stratum/internal/provider"
	"github.com/buildera-io/stratum/pkg/types"
)

// Scheduling defaults.
const (
	defaultInterval    = time.Hour
	defaultConcurrency = 4
)

// Scheduler periodically runs a scoring cycle for every registered tenant.
type Scheduler struct {
	provider provider.Provider
	engine   *engine.Engine
	logger   *slog.Logger
	config   types.CycleConfig

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a Scheduler.
func New(prov provider.Provider, eng *engine.Engine, logger *slog.Logger, cfg types.CycleConfig) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{provider: prov, engine: eng, logger: logger, config: cfg}
}

// Start begins the polling loop. The first sweep runs immediately.
func (s *Scheduler) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)

	interval, err := time.ParseDuration(s.config.Interval)
	if err != nil || interval <= 0 {
		interval = defaultInterval
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.logger.Info("cycle scheduler started", "interval", interval)

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		s.sweep(ctx)

		for {
			select {
			case <-ctx.Done():
				s.logger.Info("cycle scheduler stopping")
				return
			case <-ticker.C:
				s.sweep(ctx)
			}
		}
	}()
}

// Stop shuts the scheduler down, waiting for an in-flight sweep up to the
// context deadline.
func (s *Scheduler) Stop(ctx context.Context) {
	if s.cancel != nil {
		s.cancel()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("cycle scheduler stopped")
	case <-ctx.Done():
		s.logger.Warn("cycle scheduler stop timed out")
	}
}

// sweep runs one cycle per tenant, bounded by the configured concurrency.
func (s *Scheduler) sweep(ctx context.Context) {
	tenants, err := s.provider.ListTenants(ctx)
	if err != nil {
		s.logger.Error("listing tenants", "error", err)
		return
	}

	concurrency := s.config.Concurrency
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for _, tenant := range tenants {
		g.Go(func() error {
			res, err := s.engine.RunCycle(gctx, tenant.ID, types.TriggerScheduledCycle, "cycle-scheduler")
			if err != nil {
				// One tenant failing must not abort the sweep.
				s.logger.Error("scoring cycle failed", "tenant", tenant.ID, "error", err)
				return nil
			}
			s.logger.Info("scoring cycle complete",
				"tenant", tenant.ID,
				"stage", res.Stage,
				"version", res.SnapshotVersion,
				"risks", len(res.Risks),
			)
			return nil
		})
	}
	_ = g.Wait()
}
