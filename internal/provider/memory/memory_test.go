package memory

import (
	"testing"

	"github.com/buildera-io/stratum/internal/provider/providertest"
)

func TestMemoryProviderConformance(t *testing.T) {
	providertest.RunAll(t, New())
}
