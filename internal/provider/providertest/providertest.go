// Package providertest provides shared conformance tests for provider.Provider
// implementations. Call RunAll from a test function to verify a provider
// satisfies the full behavioral contract.
package providertest

import (
	"testing"

	"github.com/buildera-io/stratum/internal/provider"
)

// RunAll runs the complete provider conformance suite as subtests.
func RunAll(t *testing.T, prov provider.Provider) {
	t.Helper()

	t.Run("TenantCRUD", func(t *testing.T) { TestTenantCRUD(t, prov) })
	t.Run("TenantNotFound", func(t *testing.T) { TestTenantNotFound(t, prov) })
	t.Run("ScoreHistoryOrdering", func(t *testing.T) { TestScoreHistoryOrdering(t, prov) })
	t.Run("MemoryAppendAndCount", func(t *testing.T) { TestMemoryAppendAndCount(t, prov) })
	t.Run("LatestMemory", func(t *testing.T) { TestLatestMemory(t, prov) })
	t.Run("SnapshotVersioning", func(t *testing.T) { TestSnapshotVersioning(t, prov) })
	t.Run("SnapshotVersionRace", func(t *testing.T) { TestSnapshotVersionRace(t, prov) })
	t.Run("SnapshotDuplicateVersion", func(t *testing.T) { TestSnapshotDuplicateVersion(t, prov) })
	t.Run("ImpactLedger", func(t *testing.T) { TestImpactLedger(t, prov) })
	t.Run("ImpactPatch", func(t *testing.T) { TestImpactPatch(t, prov) })
	t.Run("GapFiltering", func(t *testing.T) { TestGapFiltering(t, prov) })
	t.Run("EmptyReads", func(t *testing.T) { TestEmptyReads(t, prov) })
}
