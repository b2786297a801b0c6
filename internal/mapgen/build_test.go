package mapgen

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/kraklabs/projectmap/internal/scanner"
)

var fixedNow = time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	full := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
}

func TestGenerate_AssemblesAllArtifacts(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "src/index.js", "import { helper } from './helper';\nexport function main() {}\n")
	writeFile(t, root, "src/helper.js", "export function helper() {}\n")
	writeFile(t, root, "src/orphan.js", "export const unused = 1;\n")
	writeFile(t, root, "package.json", `{"name":"demo","main":"src/index.js","dependencies":{"react":"^18.0.0"}}`)

	res, err := scanner.Scan(root, scanner.Options{})
	require.NoError(t, err)

	gm := Generate(root, "demo", res.Files, "abc1234", fixedNow)

	require.Equal(t, len(res.Files), gm.Summary.Stats.TotalFiles)
	require.Equal(t, "demo", gm.Summary.Metadata.ProjectKey)
	require.Equal(t, "abc1234", gm.Summary.Staleness.GitHash)

	require.Contains(t, gm.QuickQueries.Answers.EntryPoints, "src/index.js")
	require.Equal(t, "React", gm.QuickQueries.Answers.Framework.Name)

	require.NotNil(t, gm.Tree.Tree)

	require.Contains(t, gm.ExistenceProofs.Present, "package.json")
	require.Contains(t, gm.ExistenceProofs.MissingCommon, "README.md")

	fwd := gm.DependenciesForward.Dependencies["src/index.js"]
	require.Len(t, fwd.Imports, 1)
	require.Equal(t, "src/helper.js", fwd.Imports[0].Source)

	rev := gm.DependenciesReverse.Dependencies["src/helper.js"]
	require.Len(t, rev.ImportedBy, 1)
	require.Equal(t, "src/index.js", rev.ImportedBy[0].File)

	require.Contains(t, gm.Issues.UnusedFiles, "src/orphan.js")
	require.Empty(t, gm.Issues.CircularDependencies)
	require.Empty(t, gm.Issues.BrokenImports)
}

func TestGenerate_DeterministicAcrossRuns(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.js", "import './b';\n")
	writeFile(t, root, "b.js", "")

	res, err := scanner.Scan(root, scanner.Options{})
	require.NoError(t, err)

	g1 := Generate(root, "proj", res.Files, "h1", fixedNow)
	g2 := Generate(root, "proj", res.Files, "h1", fixedNow)

	require.Equal(t, g1.Metadata, g2.Metadata)
	require.Equal(t, g1.DependenciesForward, g2.DependenciesForward)
	require.Equal(t, g1.Issues, g2.Issues)
}

func TestGenerate_CircularDependency(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.js", "import './b';\n")
	writeFile(t, root, "b.js", "import './c';\n")
	writeFile(t, root, "c.js", "import './a';\n")

	res, err := scanner.Scan(root, scanner.Options{})
	require.NoError(t, err)

	gm := Generate(root, "proj", res.Files, "h1", fixedNow)
	require.Len(t, gm.Issues.CircularDependencies, 1)

	cycle := gm.Issues.CircularDependencies[0]
	set := map[string]bool{}
	for _, f := range cycle.Files[:len(cycle.Files)-1] {
		set[f] = true
	}
	require.True(t, set["a.js"] && set["b.js"] && set["c.js"])
}
