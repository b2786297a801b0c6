package staleness

// changeRatioThreshold is spec.md §4.5 step 2's 30% cutoff: above this
// fraction of the tree changed, a full regeneration is cheaper and safer
// than patching the affected slice.
const changeRatioThreshold = 0.30

// RefreshMode is the caller-observable outcome of DecideMode, per
// spec.md §4.5 step 2 ("the result reports mode=full").
type RefreshMode string

const (
	ModeFull        RefreshMode = "full"
	ModeIncremental RefreshMode = "incremental"
)

// DecideMode implements spec.md §4.5 step 2: when more than 30% of the
// tracked files changed, fall back to a full refresh. A non-positive
// totalFiles (nothing tracked yet) always forces a full refresh.
func DecideMode(changedCount, totalFiles int) RefreshMode {
	if totalFiles <= 0 {
		return ModeFull
	}
	ratio := float64(changedCount) / float64(totalFiles)
	if ratio > changeRatioThreshold {
		return ModeFull
	}
	return ModeIncremental
}

// AffectedSet computes the files an incremental refresh must re-parse and
// regenerate artifact entries for: every changed/added/renamed path, plus
// any file that depends on or is depended on by an affected path (so that
// edges pointing at a moved/deleted file are recomputed too), per spec.md
// §4.5 step 3. forward/reverse are the prior run's dependency graphs keyed
// by relative path.
func AffectedSet(changed []string, forward, reverse map[string][]string) []string {
	set := map[string]bool{}
	for _, c := range changed {
		set[c] = true
	}
	for _, c := range changed {
		for _, dep := range forward[c] {
			set[dep] = true
		}
		for _, dep := range reverse[c] {
			set[dep] = true
		}
	}
	out := make([]string, 0, len(set))
	for f := range set {
		out = append(out, f)
	}
	return out
}
