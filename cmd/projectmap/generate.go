package main

import (
	"flag"
	"os"
	"path/filepath"
	"time"

	"github.com/kraklabs/projectmap/internal/compress"
	cerrors "github.com/kraklabs/projectmap/internal/errors"
	"github.com/kraklabs/projectmap/internal/mapgen"
	"github.com/kraklabs/projectmap/internal/output"
	"github.com/kraklabs/projectmap/internal/project"
	"github.com/kraklabs/projectmap/internal/scanner"
	"github.com/kraklabs/projectmap/internal/staleness"
	"github.com/kraklabs/projectmap/internal/ui"
)

func runGenerate(args []string) {
	fs := flag.NewFlagSet("generate", flag.ExitOnError)
	path := fs.String("path", ".", "Project root to scan")
	g, _ := parseGlobal(fs, args)
	ui.InitColors(g.NoColor)

	root, err := filepath.Abs(*path)
	if err != nil {
		cerrors.FatalError(cerrors.NewInputError("cannot resolve --path", err.Error(), "pass a valid directory"), g.JSON)
	}

	now := time.Now()
	result, artifactDir := generateMaps(root, g, now)
	if g.JSON {
		_ = output.JSON(output.Ok(result))
		return
	}
	ui.Success("Generated project map")
	ui.Infof("Files scanned:     %d", result.Summary.Stats.TotalFiles)
	ui.Infof("Total lines:       %d", result.Summary.Stats.TotalLines)
	ui.Infof("Broken imports:    %d", len(result.Issues.BrokenImports))
	ui.Infof("Circular deps:     %d", len(result.Issues.CircularDependencies))
	ui.Infof("Unused files:      %d", len(result.Issues.UnusedFiles))
	ui.Infof("Output directory:  %s", ui.DimText(artifactDir))
}

// generateMaps runs the full scan -> parse -> generate -> compress-and-write
// pipeline for root, returning the in-memory result and the output
// directory every artifact was written to.
func generateMaps(root string, g GlobalFlags, now time.Time) (*mapgen.GeneratedMaps, string) {
	cfg, err := project.LoadConfig(root)
	if err != nil {
		cerrors.FatalError(cerrors.NewInputError("cannot read project config", err.Error(), "check .projectmap/config.yaml"), g.JSON)
	}

	key := project.NewKey(root)
	dir, err := project.OutputDir(key)
	if err != nil {
		cerrors.FatalError(cerrors.NewFilesystemError("cannot create output directory", err.Error(), "check permissions under the config root", err), g.JSON)
	}

	res, err := scanner.Scan(root, scanner.Options{ExtraIgnoreGlobs: cfg.ExcludeGlobs, MaxFileSize: cfg.MaxFileSizeBytes})
	if err != nil {
		cerrors.FatalError(err, g.JSON)
	}

	progCfg := NewProgressConfig(g)
	bar := NewProgressBar(progCfg, int64(len(res.Files)), "generating map")
	defer barFinish(bar)

	gitHash := staleness.CurrentHash(root)
	gm := mapgen.Generate(root, string(key), res.Files, gitHash, now)
	barAdd(bar, len(res.Files))

	schemaPath := filepath.Join(dir, project.CompressionSchemaFile)
	schema, warning := compress.LoadOrDefaultSchema(schemaPath)
	if warning != "" && !g.Quiet {
		ui.Warning(warning)
	}
	if _, statErr := os.Stat(schemaPath); statErr != nil {
		_ = schema.Save(schemaPath)
	}
	if warning != "" {
		// A missing or invalid schema file limits this run to level-1
		// (minification); a default schema saved above is loaded on later
		// runs.
		schema = nil
	}

	writeAll(dir, gm, schema, now)
	return gm, dir
}

// writeAll writes every artifact through the compression layer with an
// atomic staged rename, per spec.md §4.3/§7.
func writeAll(dir string, gm *mapgen.GeneratedMaps, schema *compress.Schema, now time.Time) {
	artifacts := map[string]any{
		project.ArtifactSummary:          gm.Summary,
		project.ArtifactQuickQueries:     gm.QuickQueries,
		project.ArtifactTree:             gm.Tree,
		project.ArtifactExistenceProofs:  gm.ExistenceProofs,
		project.ArtifactMetadata:         gm.Metadata,
		project.ArtifactContentSummaries: gm.ContentSummaries,
		project.ArtifactIndices:          gm.Indices,
		project.ArtifactDependenciesFwd:  gm.DependenciesForward,
		project.ArtifactDependenciesRev:  gm.DependenciesReverse,
		project.ArtifactRelationships:    gm.Relationships,
		project.ArtifactIssues:           gm.Issues,
	}
	for _, name := range project.AllArtifacts {
		if _, err := compress.WriteArtifact(project.ArtifactPath(dir, name), artifacts[name], schema, compress.Options{}, now); err != nil {
			cerrors.FatalError(cerrors.NewWriteError("failed to write "+name, err.Error(), "check disk space and permissions", err), false)
		}
	}

	// Optional artifacts, written only when a recognized ORM's model files
	// were actually found (spec.md §4.3's closing paragraph).
	if gm.HasDatabaseSchema {
		if _, err := compress.WriteArtifact(project.ArtifactPath(dir, project.ArtifactDatabaseSchema), gm.DatabaseSchema, schema, compress.Options{}, now); err != nil {
			cerrors.FatalError(cerrors.NewWriteError("failed to write "+project.ArtifactDatabaseSchema, err.Error(), "check disk space and permissions", err), false)
		}
		if _, err := compress.WriteArtifact(project.ArtifactPath(dir, project.ArtifactTableModuleMapping), gm.TableModuleMapping, schema, compress.Options{}, now); err != nil {
			cerrors.FatalError(cerrors.NewWriteError("failed to write "+project.ArtifactTableModuleMapping, err.Error(), "check disk space and permissions", err), false)
		}
	}
}
