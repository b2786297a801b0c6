package staleness

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestScore_GitHashDrift(t *testing.T) {
	now := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	stored := Record{GitHash: "old-hash-123", FileCount: 50, LastRefresh: now}

	res := Score(stored, "deadbeef", 50, now)
	require.Equal(t, 40, res.Score)
	require.Equal(t, "moderate", res.Level)
	require.Contains(t, res.Reasons, "Git hash changed")
}

func TestScore_NoGitSentinel_NoContribution(t *testing.T) {
	now := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	stored := Record{GitHash: NoGitSentinel, FileCount: 50, LastRefresh: now}

	res := Score(stored, NoGitSentinel, 50, now)
	require.Equal(t, 0, res.Score)
	require.Equal(t, "fresh", res.Level)
	require.Empty(t, res.Reasons)
}

func TestScore_AllThreeContributions_CappedAt100(t *testing.T) {
	stored := Record{GitHash: "old", FileCount: 50, LastRefresh: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	now := time.Date(2026, 1, 20, 0, 0, 0, 0, time.UTC)

	res := Score(stored, "new", 80, now)
	require.Equal(t, 100, res.Score)
	require.Equal(t, "critical", res.Level)
	require.Equal(t, "Full refresh", res.Recommendation)
	require.Len(t, res.Reasons, 3)
	// Age reason contributes equally to the other 30-point reason but the
	// 40-point hash reason must sort first.
	require.Equal(t, "Git hash changed", res.Reasons[0])
}

func TestScore_Monotonicity(t *testing.T) {
	stored := Record{GitHash: "h1", FileCount: 10, LastRefresh: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	now := time.Date(2026, 1, 3, 0, 0, 0, 0, time.UTC)

	r1 := Score(stored, "h2", 12, now)
	r2 := Score(stored, "h2", 12, now)
	require.Equal(t, r1.Score, r2.Score)
	require.Equal(t, NeedsRefresh(r1.Score, 30), r1.Score >= 30)
}

func TestNeedsRefresh(t *testing.T) {
	require.True(t, NeedsRefresh(30, 30))
	require.False(t, NeedsRefresh(29, 30))
	require.True(t, NeedsRefresh(60, 30))
}

func TestDecideMode(t *testing.T) {
	require.Equal(t, ModeIncremental, DecideMode(5, 100))
	require.Equal(t, ModeFull, DecideMode(35, 100))
	require.Equal(t, ModeFull, DecideMode(0, 0))
}

func TestAffectedSet_IncludesDependents(t *testing.T) {
	forward := map[string][]string{"a.js": {"b.js"}}
	reverse := map[string][]string{"b.js": {"a.js"}}

	affected := AffectedSet([]string{"b.js"}, forward, reverse)
	require.ElementsMatch(t, []string{"b.js", "a.js"}, affected)
}
