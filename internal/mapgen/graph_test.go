package mapgen

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kraklabs/projectmap/internal/parser"
	"github.com/kraklabs/projectmap/internal/scanner"
)

func pf(rel string, imports ...parser.Import) parsedFile {
	return parsedFile{
		File:   scanner.File{RelPath: rel, Role: scanner.RoleSource, Language: "javascript"},
		Result: parser.Result{Imports: imports},
	}
}

func imp(source string) parser.Import {
	return parser.Import{Source: source, Type: parser.ImportRelative}
}

func TestBuildGraph_ForwardReverseConsistency(t *testing.T) {
	files := []parsedFile{
		pf("a.js", imp("./b")),
		pf("b.js", imp("./c")),
		pf("c.js"),
	}
	scanned := map[string]bool{"a.js": true, "b.js": true, "c.js": true}

	g, broken := buildGraph(files, scanned)
	require.Empty(t, broken)

	require.Len(t, g.Reverse["b.js"], 1)
	require.Equal(t, "a.js", g.Reverse["b.js"][0].File)
	require.Len(t, g.Reverse["c.js"], 1)
	require.Equal(t, "b.js", g.Reverse["c.js"][0].File)

	require.Equal(t, "b.js", g.Forward["a.js"][0].ResolvedPath)
	require.Equal(t, parser.ImportInternal, g.Forward["a.js"][0].Type)
}

func TestBuildGraph_BrokenImport(t *testing.T) {
	files := []parsedFile{
		pf("a.js", imp("./missing")),
	}
	scanned := map[string]bool{"a.js": true}

	g, broken := buildGraph(files, scanned)
	require.Empty(t, g.Reverse["missing.js"])
	require.Len(t, broken, 1)
	require.Equal(t, "a.js", broken[0].File)
	require.Equal(t, "./missing", broken[0].Source)
}

func TestDetectCycles_ThreeNodeCycle(t *testing.T) {
	files := []parsedFile{
		pf("a.js", imp("./b")),
		pf("b.js", imp("./c")),
		pf("c.js", imp("./a")),
	}
	scanned := map[string]bool{"a.js": true, "b.js": true, "c.js": true}
	g, _ := buildGraph(files, scanned)

	cycles := detectCycles(g)
	require.Len(t, cycles, 1)
	set := map[string]bool{}
	for _, f := range cycles[0].Files[:len(cycles[0].Files)-1] {
		set[f] = true
	}
	require.ElementsMatch(t, []string{"a.js", "b.js", "c.js"}, keysOfSet(set))
}

func TestDetectCycles_NoCycleInDAG(t *testing.T) {
	files := []parsedFile{
		pf("a.js", imp("./b")),
		pf("b.js", imp("./c")),
		pf("c.js"),
	}
	scanned := map[string]bool{"a.js": true, "b.js": true, "c.js": true}
	g, _ := buildGraph(files, scanned)

	require.Empty(t, detectCycles(g))
}

func TestDetectCycles_SelfImport(t *testing.T) {
	files := []parsedFile{
		pf("a.js", imp("./a")),
	}
	scanned := map[string]bool{"a.js": true}
	g, _ := buildGraph(files, scanned)

	cycles := detectCycles(g)
	require.Len(t, cycles, 1)
	require.Equal(t, []string{"a.js", "a.js"}, cycles[0].Files)
}

func TestDetectCycles_DedupesAcrossStartNodes(t *testing.T) {
	// entry.js -> a.js -> b.js -> a.js (cycle between a and b), reached
	// from a third, uninvolved start node.
	files := []parsedFile{
		pf("entry.js", imp("./a")),
		pf("a.js", imp("./b")),
		pf("b.js", imp("./a")),
	}
	scanned := map[string]bool{"entry.js": true, "a.js": true, "b.js": true}
	g, _ := buildGraph(files, scanned)

	cycles := detectCycles(g)
	require.Len(t, cycles, 1)
}

func TestUnusedFiles_ExcludesEntryPoints(t *testing.T) {
	files := []parsedFile{
		pf("index.js"),
		pf("orphan.js"),
		pf("used.js"),
		pf("consumer.js", imp("./used")),
	}
	scanned := map[string]bool{"index.js": true, "orphan.js": true, "used.js": true, "consumer.js": true}
	g, _ := buildGraph(files, scanned)

	entries := map[string]bool{"index.js": true}
	unused := unusedFiles(files, g, entries)
	require.Equal(t, []string{"consumer.js", "orphan.js"}, unused)
}

func keysOfSet(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
