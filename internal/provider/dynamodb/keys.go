package dynamodb

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"
)

// PK/SK prefix constants.
const (
	prefixTenant   = "TENANT#"
	prefixHistory  = "HISTORY#"
	prefixMemory   = "MEMORY#"
	prefixSnapshot = "SNAPSHOT#"
	prefixImpact   = "IMPACT#"
	prefixGap      = "GAP#"
	prefixType     = "TYPE#"

	skConfig  = "CONFIG"
	skVersion = "VERSION"
)

func tenantPK(tenantID string) string { return prefixTenant + tenantID }

func configSK() string  { return skConfig }
func versionSK() string { return skVersion }

// historySK orders score history rows by creation time. A random nonce keeps
// two entries written in the same millisecond from colliding.
func historySK(ts time.Time) string {
	nonce := make([]byte, 4)
	_, _ = rand.Read(nonce)
	return fmt.Sprintf("%s%013d#%s", prefixHistory, ts.UnixMilli(), hex.EncodeToString(nonce))
}

// memorySK and impactSK key rows by their ULID, which sorts by creation time
// and stays directly addressable for patches.
func memorySK(id string) string { return prefixMemory + id }
func impactSK(id string) string { return prefixImpact + id }

// snapshotSK zero-pads the version so lexicographic order matches numeric
// order.
func snapshotSK(version int64) string {
	return fmt.Sprintf("%s%012d", prefixSnapshot, version)
}

func gapSK(gapID string) string { return prefixGap + gapID }
