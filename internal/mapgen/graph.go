package mapgen

import (
	"sort"

	"github.com/kraklabs/projectmap/internal/parser"
)

// DependencyGraph holds the forward and reverse adjacency built from
// every file's resolved imports, per spec.md §3's DependencyGraph entity.
type DependencyGraph struct {
	Forward map[string][]parser.Import
	Reverse map[string][]ImportedByRef
}

// buildGraph implements spec.md §4.3's dependency-artifact algorithm
// steps 2-5: resolve every internal import, build forward/reverse edges,
// and collect broken imports (internal imports whose resolvedPath isn't
// in the scanned set).
func buildGraph(files []parsedFile, scanned map[string]bool) (*DependencyGraph, []BrokenImport) {
	g := &DependencyGraph{
		Forward: map[string][]parser.Import{},
		Reverse: map[string][]ImportedByRef{},
	}
	var broken []BrokenImport

	for _, pf := range files {
		rel := pf.File.RelPath
		var resolved []parser.Import
		for _, imp := range pf.Result.Imports {
			if imp.Type == parser.ImportInternal || imp.Type == parser.ImportRelative {
				resolvedPath, isInternal := parser.ResolveImportPath(imp.Source, rel, scanned)
				imp.ResolvedPath = resolvedPath
				imp.Type = parser.ImportInternal
				if isInternal {
					if scanned[resolvedPath] {
						g.Reverse[resolvedPath] = append(g.Reverse[resolvedPath], ImportedByRef{
							File:    rel,
							Symbols: imp.Symbols,
						})
					} else {
						broken = append(broken, BrokenImport{File: rel, Source: imp.Source})
					}
				}
			} else {
				imp.ResolvedPath = imp.Source
			}
			resolved = append(resolved, imp)
		}
		g.Forward[rel] = resolved
	}

	sort.Slice(broken, func(i, j int) bool {
		if broken[i].File != broken[j].File {
			return broken[i].File < broken[j].File
		}
		return broken[i].Source < broken[j].Source
	})
	return g, broken
}

// detectCycles runs an iterative DFS (explicit stack, no recursion) from
// every node over internal edges only, recording a cycle whenever a node
// reappears in the current recursion path. Self-imports (path length 1)
// are a valid cycle per spec.md §4.3 step 6.
func detectCycles(g *DependencyGraph) []Cycle {
	type frame struct {
		node     string
		children []string
		idx      int
	}

	visited := map[string]bool{}
	var cycles []Cycle
	seen := map[string]bool{} // dedupe identical cycles reported from different start nodes

	adjacency := func(node string) []string {
		var out []string
		for _, imp := range g.Forward[node] {
			if imp.Type == parser.ImportInternal && imp.ResolvedPath != "" {
				out = append(out, imp.ResolvedPath)
			}
		}
		sort.Strings(out)
		return out
	}

	var nodes []string
	for n := range g.Forward {
		nodes = append(nodes, n)
	}
	sort.Strings(nodes)

	for _, start := range nodes {
		if visited[start] {
			continue
		}
		onStack := map[string]int{} // node -> index in stack
		var stack []frame
		stack = append(stack, frame{node: start, children: adjacency(start)})
		onStack[start] = 0
		visited[start] = true

		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			if top.idx >= len(top.children) {
				delete(onStack, top.node)
				stack = stack[:len(stack)-1]
				continue
			}
			next := top.children[top.idx]
			top.idx++

			if pos, inStack := onStack[next]; inStack {
				cyclePath := make([]string, 0, len(stack)-pos+1)
				for _, f := range stack[pos:] {
					cyclePath = append(cyclePath, f.node)
				}
				cyclePath = append(cyclePath, next)
				key := cycleKey(cyclePath)
				if !seen[key] {
					seen[key] = true
					cycles = append(cycles, Cycle{Files: cyclePath})
				}
				continue
			}
			if visited[next] {
				continue
			}
			visited[next] = true
			onStack[next] = len(stack)
			stack = append(stack, frame{node: next, children: adjacency(next)})
		}
	}

	sort.Slice(cycles, func(i, j int) bool {
		return joinFiles(cycles[i].Files) < joinFiles(cycles[j].Files)
	})
	return cycles
}

func cycleKey(files []string) string {
	// Normalize rotation so the same cycle found from different start
	// nodes dedupes to one entry: rotate to start at the lexicographically
	// smallest element (ignoring the final repeat).
	core := files[:len(files)-1]
	minIdx := 0
	for i, f := range core {
		if f < core[minIdx] {
			minIdx = i
		}
	}
	rotated := append(append([]string{}, core[minIdx:]...), core[:minIdx]...)
	return joinFiles(rotated)
}

func joinFiles(files []string) string {
	out := ""
	for i, f := range files {
		if i > 0 {
			out += ">"
		}
		out += f
	}
	return out
}

// unusedFiles implements step 7: source-role files with zero incoming
// internal edges that aren't in the entry-point set.
func unusedFiles(files []parsedFile, g *DependencyGraph, entries map[string]bool) []string {
	var out []string
	for _, pf := range files {
		if pf.File.Role != "source" {
			continue
		}
		rel := pf.File.RelPath
		if entries[rel] {
			continue
		}
		if len(g.Reverse[rel]) == 0 {
			out = append(out, rel)
		}
	}
	sort.Strings(out)
	return out
}
