package providertest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/buildera-io/stratum/internal/provider"
	"github.com/buildera-io/stratum/pkg/types"
)

// TestTenantCRUD verifies register, get, list, delete operations.
func TestTenantCRUD(t *testing.T, prov provider.Provider) {
	ctx := context.Background()

	tenant := types.TenantConfig{
		ID:            "ct-tenant",
		Name:          "Conformance Tenant",
		BusinessModel: "B2B",
		Usage:         types.OperationalUsage{ActiveAgents: 2, ConnectedChannels: 3},
		CreatedAt:     time.Now().UTC(),
	}

	// Register
	require.NoError(t, prov.RegisterTenant(ctx, tenant))

	// Get
	got, err := prov.GetTenant(ctx, "ct-tenant")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Conformance Tenant", got.Name)
	assert.Equal(t, types.BusinessModel("B2B"), got.BusinessModel)
	assert.Equal(t, 3, got.Usage.ConnectedChannels)

	// Register second, list
	require.NoError(t, prov.RegisterTenant(ctx, types.TenantConfig{ID: "ct-tenant-2", Name: "Second"}))
	list, err := prov.ListTenants(ctx)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, len(list), 2)

	// Re-register is an upsert
	tenant.Name = "Renamed"
	require.NoError(t, prov.RegisterTenant(ctx, tenant))
	got, err = prov.GetTenant(ctx, "ct-tenant")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Renamed", got.Name)

	// Delete
	require.NoError(t, prov.DeleteTenant(ctx, "ct-tenant"))
	got, err = prov.GetTenant(ctx, "ct-tenant")
	require.NoError(t, err)
	assert.Nil(t, got)
}

// TestTenantNotFound verifies the (nil, nil) not-found contract.
func TestTenantNotFound(t *testing.T, prov provider.Provider) {
	got, err := prov.GetTenant(context.Background(), "ct-nonexistent")
	require.NoError(t, err)
	assert.Nil(t, got)
}
