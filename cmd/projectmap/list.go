package main

import (
	"flag"
	"os"
	"path/filepath"
	"sort"

	cerrors "github.com/kraklabs/projectmap/internal/errors"
	"github.com/kraklabs/projectmap/internal/mapgen"
	"github.com/kraklabs/projectmap/internal/output"
	"github.com/kraklabs/projectmap/internal/project"
	"github.com/kraklabs/projectmap/internal/query"
	"github.com/kraklabs/projectmap/internal/ui"
)

// listEntry describes one tracked project for the `list` subcommand.
type listEntry struct {
	Key         string `json:"key"`
	TotalFiles  int    `json:"totalFiles"`
	LastRefresh string `json:"lastRefresh"`
	StaleScore  int    `json:"stalenessScore"`
}

func runList(args []string) {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	g, _ := parseGlobal(fs, args)
	ui.InitColors(g.NoColor)

	root, err := project.ProjectMapsRoot()
	if err != nil {
		cerrors.FatalError(cerrors.NewFilesystemError("cannot resolve config root", err.Error(), "check PROJECTMAP_CONFIG_DIR / $HOME", err), g.JSON)
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		if os.IsNotExist(err) {
			printListResult(nil, g)
			return
		}
		cerrors.FatalError(cerrors.NewFilesystemError("cannot read project-maps directory", err.Error(), "check permissions under "+root, err), g.JSON)
	}

	var results []listEntry
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		dir := filepath.Join(root, e.Name())
		loader := query.NewLoader(dir)
		var summary mapgen.Summary
		if err := loader.LoadInto(project.ArtifactSummary, &summary); err != nil {
			continue
		}
		results = append(results, listEntry{
			Key:         e.Name(),
			TotalFiles:  summary.Stats.TotalFiles,
			LastRefresh: summary.Staleness.LastRefresh,
			StaleScore:  summary.Staleness.Score,
		})
	}
	sort.Slice(results, func(i, j int) bool { return results[i].Key < results[j].Key })
	printListResult(results, g)
}

func printListResult(results []listEntry, g GlobalFlags) {
	if g.JSON {
		_ = output.JSON(output.Ok(results))
		return
	}
	if len(results) == 0 {
		ui.Info("No tracked projects found")
		return
	}
	ui.Header("Tracked Projects")
	for _, r := range results {
		ui.Infof("%s  files=%d  refreshed=%s  staleness=%d", r.Key, r.TotalFiles, r.LastRefresh, r.StaleScore)
	}
}
