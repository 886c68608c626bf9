// cycler Lambda runs scheduled scoring cycles, invoked by an EventBridge
// rule. An explicit tenant id in the request scores only that tenant.
package main

import (
	"context"
	"sync"

	awslambda "github.com/aws/aws-lambda-go/lambda"
	"golang.org/x/sync/errgroup"

	intlambda "github.com/buildera-io/stratum/internal/lambda"
	"github.com/buildera-io/stratum/pkg/types"
)

const cycleConcurrency = 4

var (
	deps     *intlambda.Deps
	depsOnce sync.Once
	depsErr  error
)

func getDeps() (*intlambda.Deps, error) {
	depsOnce.Do(func() {
		deps, depsErr = intlambda.Init(context.Background())
	})
	return deps, depsErr
}

// handleCycle scores the requested tenants. Per-tenant failures are
// collected, not fatal: one broken tenant must not starve the rest.
func handleCycle(ctx context.Context, d *intlambda.Deps, req intlambda.CycleRequest) (intlambda.CycleResponse, error) {
	var tenantIDs []string
	if req.TenantID != "" {
		tenantIDs = []string{req.TenantID}
	} else {
		tenants, err := d.Provider.ListTenants(ctx)
		if err != nil {
			return intlambda.CycleResponse{}, err
		}
		for _, t := range tenants {
			tenantIDs = append(tenantIDs, t.ID)
		}
	}

	var (
		mu     sync.Mutex
		scored int
		failed []string
	)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(cycleConcurrency)
	for _, id := range tenantIDs {
		g.Go(func() error {
			_, err := d.Engine.RunCycle(ctx, id, types.TriggerScheduledCycle, "cycler")
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				d.Logger.Error("cycle failed", "tenant", id, "error", err)
				failed = append(failed, id)
				return nil
			}
			scored++
			return nil
		})
	}
	_ = g.Wait()

	return intlambda.CycleResponse{TenantsScored: scored, Failed: failed}, nil
}

func main() {
	awslambda.Start(func(ctx context.Context, req intlambda.CycleRequest) (intlambda.CycleResponse, error) {
		d, err := getDeps()
		if err != nil {
			return intlambda.CycleResponse{}, err
		}
		return handleCycle(ctx, d, req)
	})
}
