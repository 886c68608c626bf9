package dynamodb

import (
	"sort"
	"strings"
	"testing"
	"time"
)

func TestHistorySKOrdersByTime(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	keys := []string{
		historySK(base.Add(2 * time.Hour)),
		historySK(base),
		historySK(base.Add(time.Hour)),
	}

	sorted := append([]string(nil), keys...)
	sort.Strings(sorted)

	if sorted[0] != keys[1] || sorted[1] != keys[2] || sorted[2] != keys[0] {
		t.Errorf("lexicographic order does not match time order: %v", keys)
	}
}

func TestHistorySKUniqueWithinMillisecond(t *testing.T) {
	ts := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		k := historySK(ts)
		if seen[k] {
			t.Fatalf("duplicate sort key %q", k)
		}
		seen[k] = true
	}
}

func TestSnapshotSKZeroPadded(t *testing.T) {
	if got := snapshotSK(7); got != "SNAPSHOT#000000000007" {
		t.Errorf("snapshotSK(7) = %q", got)
	}
	// Numeric order must survive lexicographic comparison.
	if !(snapshotSK(9) < snapshotSK(10)) {
		t.Error("snapshotSK(9) should sort before snapshotSK(10)")
	}
	if !(snapshotSK(99) < snapshotSK(100)) {
		t.Error("snapshotSK(99) should sort before snapshotSK(100)")
	}
}

func TestKeyPrefixes(t *testing.T) {
	if got := tenantPK("acme"); got != "TENANT#acme" {
		t.Errorf("tenantPK = %q", got)
	}
	if got := memorySK("01HXYZ"); got != "MEMORY#01HXYZ" {
		t.Errorf("memorySK = %q", got)
	}
	if got := impactSK("01HXYZ"); got != "IMPACT#01HXYZ" {
		t.Errorf("impactSK = %q", got)
	}
	if got := gapSK("g1"); got != "GAP#g1" {
		t.Errorf("gapSK = %q", got)
	}
	if !strings.HasPrefix(historySK(time.Now()), "HISTORY#") {
		t.Error("historySK missing prefix")
	}
}
