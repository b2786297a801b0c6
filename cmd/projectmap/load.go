package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/kraklabs/projectmap/internal/contract"
	cerrors "github.com/kraklabs/projectmap/internal/errors"
	"github.com/kraklabs/projectmap/internal/output"
	"github.com/kraklabs/projectmap/internal/project"
	"github.com/kraklabs/projectmap/internal/query"
	"github.com/kraklabs/projectmap/internal/ui"
)

// runLoad implements `project-maps load [--tier <1..4>] [--map <name>]`
// (spec.md §6): --map loads one named artifact; --tier loads every artifact
// at that load-priority tier as a single object keyed by artifact name. A
// bare positional artifact name is accepted as a shorthand for --map.
func runLoad(args []string) {
	fs := flag.NewFlagSet("load", flag.ExitOnError)
	path := fs.String("path", ".", "Project root")
	tier := fs.Int("tier", 0, "Load every artifact at this tier (1..4)")
	mapName := fs.String("map", "", "Load a single named artifact")
	g, rest := parseGlobal(fs, args)
	ui.InitColors(g.NoColor)

	name := *mapName
	if name == "" && len(rest) > 0 {
		name = rest[0]
	}

	if name == "" && *tier == 0 {
		fmt.Fprintln(os.Stderr, "usage: projectmap load [--tier <1..4>] [--map <name>] [--path .] [--json]")
		os.Exit(cerrors.ExitInput)
	}

	dir := openOutputDir(*path, g)
	loader := query.NewLoader(dir)

	if *tier != 0 {
		if vr := contract.ValidateTier(*tier); !vr.OK {
			cerrors.FatalError(cerrors.NewInputError(vr.Message, "", "pass --tier between 1 and 4"), g.JSON)
		}
		emit(loadTier(loader, *tier, g), g)
		return
	}

	data, err := loader.Load(name)
	if err != nil {
		cerrors.FatalError(cerrors.NewIntegrityError("cannot load artifact "+name, err.Error(), "run `projectmap generate` first, or check the artifact name", err), g.JSON)
	}
	emit(data, g)
}

// loadTier loads every canonical artifact whose project.ArtifactTier matches
// tier, keyed by artifact name.
func loadTier(loader *query.Loader, tier int, g GlobalFlags) map[string]any {
	out := map[string]any{}
	for _, a := range project.AllArtifacts {
		if project.ArtifactTier(a) != tier {
			continue
		}
		v, err := loader.Load(a)
		if err != nil {
			cerrors.FatalError(cerrors.NewIntegrityError("cannot load artifact "+a, err.Error(), "run `projectmap generate` first", err), g.JSON)
		}
		out[a] = v
	}
	return out
}

func emit(data any, g GlobalFlags) {
	if g.JSON {
		_ = output.JSON(output.Ok(data))
		return
	}
	_ = output.JSON(data)
}

// openOutputDir resolves a project root to its output directory or exits
// with a clean input error.
func openOutputDir(path string, g GlobalFlags) string {
	root, err := filepath.Abs(path)
	if err != nil {
		cerrors.FatalError(cerrors.NewInputError("cannot resolve --path", err.Error(), "pass a valid directory"), g.JSON)
	}
	key := project.NewKey(root)
	dir, err := project.OutputDir(key)
	if err != nil {
		cerrors.FatalError(cerrors.NewFilesystemError("cannot open output directory", err.Error(), "check permissions under the config root", err), g.JSON)
	}
	return dir
}
