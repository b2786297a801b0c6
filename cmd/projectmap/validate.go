package main

import (
	"flag"
	"fmt"

	cerrors "github.com/kraklabs/projectmap/internal/errors"
	"github.com/kraklabs/projectmap/internal/mapgen"
	"github.com/kraklabs/projectmap/internal/output"
	"github.com/kraklabs/projectmap/internal/project"
	"github.com/kraklabs/projectmap/internal/query"
	"github.com/kraklabs/projectmap/internal/ui"
)

// validateResult is the envelope data for `validate`.
type validateResult struct {
	Valid    bool     `json:"valid"`
	Problems []string `json:"problems"`
}

func runValidate(args []string) {
	fs := flag.NewFlagSet("validate", flag.ExitOnError)
	path := fs.String("path", ".", "Project root")
	g, _ := parseGlobal(fs, args)
	ui.InitColors(g.NoColor)

	dir := openOutputDir(*path, g)
	loader := query.NewLoader(dir)

	var problems []string

	// Every mandatory artifact must be present and parseable.
	for _, name := range project.AllArtifacts {
		if _, err := loader.Load(name); err != nil {
			problems = append(problems, fmt.Sprintf("artifact %q: %s", name, err.Error()))
		}
	}

	var fwd mapgen.DependenciesForward
	var rev mapgen.DependenciesReverse
	fwdOK := loader.LoadInto(project.ArtifactDependenciesFwd, &fwd) == nil
	revOK := loader.LoadInto(project.ArtifactDependenciesRev, &rev) == nil

	if fwdOK && revOK {
		problems = append(problems, checkGraphMirror(fwd, rev)...)
	}

	result := validateResult{Valid: len(problems) == 0, Problems: problems}

	if g.JSON {
		_ = output.JSON(output.Ok(result))
	} else if result.Valid {
		ui.Success("Project map is internally consistent")
	} else {
		ui.Error(fmt.Sprintf("Found %d integrity problem(s)", len(problems)))
		for _, p := range problems {
			ui.Infof("  - %s", p)
		}
	}

	if !result.Valid {
		cerrors.FatalError(cerrors.NewIntegrityError("project map failed validation", fmt.Sprintf("%d problem(s) found", len(problems)), "run `projectmap generate` to rebuild", nil), g.JSON)
	}
}

// checkGraphMirror verifies that every forward edge file->target has a
// matching reverse edge target->file, and vice versa, per spec.md §8's
// dependency-graph-mirror invariant.
func checkGraphMirror(fwd mapgen.DependenciesForward, rev mapgen.DependenciesReverse) []string {
	var problems []string

	for file, imports := range fwd.Dependencies {
		for _, ref := range imports.Imports {
			if ref.Type != "internal" {
				continue
			}
			back, ok := rev.Dependencies[ref.Source]
			if !ok {
				problems = append(problems, fmt.Sprintf("forward edge %s -> %s has no reverse entry", file, ref.Source))
				continue
			}
			if !hasImportedByRef(back.ImportedBy, file) {
				problems = append(problems, fmt.Sprintf("forward edge %s -> %s is missing from reverse importedBy", file, ref.Source))
			}
		}
	}

	for target, back := range rev.Dependencies {
		for _, ref := range back.ImportedBy {
			fwdEntry, ok := fwd.Dependencies[ref.File]
			if !ok || !hasImportRef(fwdEntry.Imports, target) {
				problems = append(problems, fmt.Sprintf("reverse edge %s <- %s has no matching forward entry", target, ref.File))
			}
		}
	}

	return problems
}

func hasImportedByRef(refs []mapgen.ImportedByRef, file string) bool {
	for _, r := range refs {
		if r.File == file {
			return true
		}
	}
	return false
}

func hasImportRef(refs []mapgen.ImportRef, target string) bool {
	for _, r := range refs {
		if r.Source == target {
			return true
		}
	}
	return false
}
