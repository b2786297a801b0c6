package main

import (
	"flag"

	cerrors "github.com/kraklabs/projectmap/internal/errors"
	"github.com/kraklabs/projectmap/internal/mapgen"
	"github.com/kraklabs/projectmap/internal/output"
	"github.com/kraklabs/projectmap/internal/project"
	"github.com/kraklabs/projectmap/internal/query"
	"github.com/kraklabs/projectmap/internal/ui"
)

func runStats(args []string) {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	path := fs.String("path", ".", "Project root")
	g, _ := parseGlobal(fs, args)
	ui.InitColors(g.NoColor)

	dir := openOutputDir(*path, g)
	loader := query.NewLoader(dir)

	var summary mapgen.Summary
	if err := loader.LoadInto(project.ArtifactSummary, &summary); err != nil {
		cerrors.FatalError(cerrors.NewIntegrityError("no existing map found", err.Error(), "run `projectmap generate` first", err), g.JSON)
	}

	if g.JSON {
		_ = output.JSON(output.Ok(summary))
		return
	}
	ui.Header("Project Map Statistics")
	ui.Infof("Total files:        %d", summary.Stats.TotalFiles)
	ui.Infof("Total lines:        %d", summary.Stats.TotalLines)
	ui.Infof("Primary languages:  %v", summary.Stats.PrimaryLanguages)
	ui.Infof("Git hash:           %s", summary.Staleness.GitHash)
	ui.Infof("Last refresh:       %s", summary.Staleness.LastRefresh)
	ui.Infof("Staleness score:    %d", summary.Staleness.Score)
}
