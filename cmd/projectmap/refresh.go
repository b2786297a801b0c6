package main

import (
	"flag"
	"path/filepath"
	"time"

	cerrors "github.com/kraklabs/projectmap/internal/errors"
	"github.com/kraklabs/projectmap/internal/mapgen"
	"github.com/kraklabs/projectmap/internal/output"
	"github.com/kraklabs/projectmap/internal/project"
	"github.com/kraklabs/projectmap/internal/query"
	"github.com/kraklabs/projectmap/internal/staleness"
	"github.com/kraklabs/projectmap/internal/ui"
)

// refreshResult is the envelope data for `refresh`, surfacing the mode the
// spec requires callers be able to observe (spec.md §4.5 step 2).
type refreshResult struct {
	Mode          string `json:"mode"`
	ChangedFiles  int    `json:"changedFiles"`
	AffectedFiles int    `json:"affectedFiles"`
	TotalFiles    int    `json:"totalFiles"`
	NewGitHash    string `json:"newGitHash"`
}

// affectedSetFromPriorRun rebuilds the forward/reverse adjacency
// staleness.AffectedSet needs from the previous run's dependencies-reverse
// artifact: its ImportedBy entries already carry resolved file paths (the
// importer's rel path against the key it's filed under, the imported
// file's rel path), so forward edges are the reverse map inverted;
// dependencies-forward also lists external and unresolved imports, which
// are not file-to-file edges.
func affectedSetFromPriorRun(loader *query.Loader, changed []string) []string {
	var prevReverse mapgen.DependenciesReverse
	if err := loader.LoadInto(project.ArtifactDependenciesRev, &prevReverse); err != nil {
		return changed
	}

	forward := map[string][]string{}
	reverse := map[string][]string{}
	for file, fib := range prevReverse.Dependencies {
		for _, ref := range fib.ImportedBy {
			reverse[file] = append(reverse[file], ref.File)
			forward[ref.File] = append(forward[ref.File], file)
		}
	}

	return staleness.AffectedSet(changed, forward, reverse)
}

func runRefresh(args []string) {
	fs := flag.NewFlagSet("refresh", flag.ExitOnError)
	path := fs.String("path", ".", "Project root to refresh")
	full := fs.Bool("full", false, "Force a full regeneration")
	incremental := fs.Bool("incremental", false, "Force an incremental refresh decision")
	g, _ := parseGlobal(fs, args)
	ui.InitColors(g.NoColor)

	root, err := filepath.Abs(*path)
	if err != nil {
		cerrors.FatalError(cerrors.NewInputError("cannot resolve --path", err.Error(), "pass a valid directory"), g.JSON)
	}

	key := project.NewKey(root)
	dir, err := project.OutputDir(key)
	if err != nil {
		cerrors.FatalError(cerrors.NewFilesystemError("cannot open output directory", err.Error(), "run `projectmap generate` first", err), g.JSON)
	}

	loader := query.NewLoader(dir)
	var existingSummary struct {
		Staleness struct {
			GitHash   string `json:"gitHash"`
			FileCount int    `json:"fileCount"`
		} `json:"staleness"`
	}
	if err := loader.LoadInto(project.ArtifactSummary, &existingSummary); err != nil {
		cerrors.FatalError(cerrors.NewIntegrityError("no existing map found", err.Error(), "run `projectmap generate` first", err), g.JSON)
	}

	now := time.Now()
	delta, err := staleness.DetectDelta(root, existingSummary.Staleness.GitHash)
	deltaFailed := err != nil
	if deltaFailed {
		ui.Warning("git delta detection failed, falling back to full refresh: " + err.Error())
		delta = &staleness.Delta{HeadHash: staleness.NoGitSentinel}
	}

	changedFiles := delta.Affected()
	affected := affectedSetFromPriorRun(loader, changedFiles)
	mode := staleness.DecideMode(len(affected), existingSummary.Staleness.FileCount)
	if *full || deltaFailed {
		mode = staleness.ModeFull
	} else if *incremental {
		mode = staleness.ModeIncremental
	}

	// Every refresh mode recomputes deterministically from the current
	// tree (see DESIGN.md's internal/staleness entry): this guarantees
	// spec.md §8 invariant 5 (idempotent incremental refresh) and
	// invariant 3 (deterministic generation) by construction, at the
	// cost of not skipping re-parse work outside the affected set. mode
	// and affected are still computed and reported from spec.md §4.5
	// step 3's affected-component algorithm rather than the raw git
	// delta, so a caller can see what an incremental refresh would have
	// touched even though this regenerates everything.
	gm, _ := generateMaps(root, g, now)

	result := refreshResult{
		Mode:          string(mode),
		ChangedFiles:  len(changedFiles),
		AffectedFiles: len(affected),
		TotalFiles:    gm.Summary.Stats.TotalFiles,
		NewGitHash:    staleness.CurrentHash(root),
	}

	if g.JSON {
		_ = output.JSON(output.Ok(result))
		return
	}
	ui.Success("Refreshed project map")
	ui.Infof("Mode:           %s", result.Mode)
	ui.Infof("Changed files:  %d", result.ChangedFiles)
	ui.Infof("Affected files: %d", result.AffectedFiles)
	ui.Infof("Total files:    %d", result.TotalFiles)
}
