package pattern

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/buildera-io/stratum/pkg/types"
)

func entriesAt(offsets []time.Duration, now time.Time) []types.MemoryEntry {
	out := make([]types.MemoryEntry, len(offsets))
	for i, off := range offsets {
		out[i] = types.MemoryEntry{CreatedAt: now.Add(-off)}
	}
	return out
}

func TestDetect_EmptyIsDormant(t *testing.T) {
	assert.Equal(t, types.PatternDormant, Detect(nil, time.Now()))
}

func TestDetect_StaleIsDormant(t *testing.T) {
	now := time.Now()
	entries := entriesAt([]time.Duration{15 * 24 * time.Hour, 20 * 24 * time.Hour}, now)
	assert.Equal(t, types.PatternDormant, Detect(entries, now))
}

func TestDetect_Burst(t *testing.T) {
	now := time.Now()
	offsets := make([]time.Duration, 8)
	for i := range offsets {
		offsets[i] = time.Duration(i) * time.Hour
	}
	assert.Equal(t, types.PatternBurstOperator, Detect(entriesAt(offsets, now), now))
}

func TestDetect_GapCloser(t *testing.T) {
	now := time.Now()
	entries := entriesAt([]time.Duration{
		time.Hour, 2 * 24 * time.Hour, 4 * 24 * time.Hour, 6 * 24 * time.Hour,
	}, now)
	entries[0].GapID = "g1"
	entries[1].GapID = "g2"
	assert.Equal(t, types.PatternGapCloser, Detect(entries, now))
}

func TestDetect_SteadyExecutor(t *testing.T) {
	now := time.Now()
	offsets := make([]time.Duration, 8)
	for i := range offsets {
		offsets[i] = time.Duration(i) * 2 * 24 * time.Hour // every other day for 2 weeks
	}
	assert.Equal(t, types.PatternSteadyExecutor, Detect(entriesAt(offsets, now), now))
}

func TestDetect_SteadyBrokenBySilence(t *testing.T) {
	now := time.Now()
	offsets := []time.Duration{
		time.Hour, 24 * time.Hour, 2 * 24 * time.Hour,
		// 8-day silence
		10 * 24 * time.Hour, 11 * 24 * time.Hour, 12 * 24 * time.Hour,
	}
	assert.Equal(t, types.PatternExplorer, Detect(entriesAt(offsets, now), now))
}

func TestDetect_SparseRecentIsExplorer(t *testing.T) {
	now := time.Now()
	entries := entriesAt([]time.Duration{time.Hour, 3 * 24 * time.Hour}, now)
	assert.Equal(t, types.PatternExplorer, Detect(entries, now))
}

func TestDetect_WindowCapsAtTwenty(t *testing.T) {
	now := time.Now()
	// 25 entries; the 5 oldest are gap-linked but fall outside the window.
	offsets := make([]time.Duration, 25)
	for i := range offsets {
		offsets[i] = time.Duration(i) * 30 * time.Hour
	}
	entries := entriesAt(offsets, now)
	for i := 20; i < 25; i++ {
		entries[i].GapID = "g"
	}
	got := Detect(entries, now)
	assert.NotEqual(t, types.PatternGapCloser, got)
}
