package mapgen

import (
	"bytes"
	"os"
	"path"
	"runtime"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/kraklabs/projectmap/internal/parser"
	"github.com/kraklabs/projectmap/internal/scanner"
)

// commonMissingPaths are the files existence-proofs checks for even when
// absent, per spec.md §4.3's "existence-proofs" artifact.
var commonMissingPaths = []string{
	"README.md", "LICENSE", ".gitignore", "Dockerfile", "docker-compose.yml",
	"Makefile", ".github/workflows/ci.yml", "CONTRIBUTING.md",
}

// GeneratedMaps bundles all eleven canonical artifacts (plus the optional
// database ones, empty unless an ORM was detected) produced by one
// generation run.
type GeneratedMaps struct {
	Summary              Summary
	QuickQueries         QuickQueries
	Tree                 Tree
	ExistenceProofs      ExistenceProofs
	Metadata             MetadataArtifact
	ContentSummaries     ContentSummaries
	Indices              Indices
	DependenciesForward  DependenciesForward
	DependenciesReverse  DependenciesReverse
	Relationships        Relationships
	Issues               Issues
	ORM                  string
	DatabaseSchema       DatabaseSchema
	TableModuleMapping   TableModuleMapping
	HasDatabaseSchema    bool
}

// Generate runs the parser over every scanned file and assembles all
// eleven artifacts, implementing spec.md §4.3's algorithm end to end.
// Per-file read/parse failures degrade to a parse warning (spec.md §7's
// Parse error kind is never fatal) rather than aborting the run.
func Generate(root, projectKey string, files []scanner.File, gitHash string, now time.Time) *GeneratedMaps {
	metrics.init()

	scanned := make(map[string]bool, len(files))
	for _, f := range files {
		scanned[f.RelPath] = true
	}

	parsed, parseWarnings := parseAll(files)

	meta := ArtifactMeta{ProjectKey: projectKey, Generated: now.UTC().Format(time.RFC3339)}

	graph, broken := buildGraph(parsed, scanned)
	metrics.brokenImports.Add(float64(len(broken)))
	cycles := detectCycles(graph)
	metrics.cyclesFound.Add(float64(len(cycles)))
	entries := entryPoints(root, keysOf(scanned))
	unused := unusedFiles(parsed, graph, entries)

	gm := &GeneratedMaps{
		Summary:             buildSummary(meta, parsed, gitHash, now),
		QuickQueries:        buildQuickQueries(meta, root, parsed, entries),
		Tree:                buildTree(meta, parsed),
		ExistenceProofs:     buildExistenceProofs(meta, scanned),
		Metadata:            buildMetadataArtifact(meta, parsed),
		ContentSummaries:    buildContentSummaries(meta, parsed),
		Indices:             buildIndices(meta, parsed, now),
		DependenciesForward: buildDependenciesForward(meta, graph),
		DependenciesReverse: buildDependenciesReverse(meta, graph),
		Relationships:       buildRelationships(meta, graph),
		Issues:              buildIssues(meta, broken, cycles, unused, parseWarnings),
	}
	gm.ORM, _ = DetectORM(root)
	if gm.ORM != "" {
		gm.DatabaseSchema, gm.TableModuleMapping, gm.HasDatabaseSchema = BuildDatabaseSchema(gm.ORM, parsed, meta)
	}
	return gm
}

// parseAll reads and parses every source/test file over a bounded worker
// pool sized to the logical CPU count, per spec.md §5 ("Parser: per-file,
// pure function; trivially parallel... bounded worker pool size ≈
// logical CPU count"). Each file's slot in the result is fixed by index,
// so the final order is deterministic regardless of goroutine scheduling.
func parseAll(files []scanner.File) ([]parsedFile, []ParseWarning) {
	results := make([]parsedFile, len(files))
	warnSlots := make([][]ParseWarning, len(files))

	workers := runtime.NumCPU()
	if workers < 1 {
		workers = 1
	}

	g := new(errgroup.Group)
	g.SetLimit(workers)

	for i, f := range files {
		i, f := i, f
		g.Go(func() error {
			metrics.filesScanned.Inc()
			if f.Role != scanner.RoleSource && f.Role != scanner.RoleTest {
				results[i] = parsedFile{File: f}
				return nil
			}
			content, err := os.ReadFile(f.AbsPath)
			if err != nil {
				warnSlots[i] = []ParseWarning{{File: f.RelPath, Message: "unreadable: " + err.Error()}}
				results[i] = parsedFile{File: f}
				return nil
			}
			metrics.filesParsed.Inc()
			result := parser.Parse(string(content), f.RelPath, f.Language)
			for _, w := range result.Warnings {
				warnSlots[i] = append(warnSlots[i], ParseWarning{File: f.RelPath, Line: w.Line, Message: w.Message})
				metrics.parseWarnings.Inc()
			}
			results[i] = parsedFile{File: f, Result: result, Lines: countLines(content)}
			return nil
		})
	}
	_ = g.Wait() // every goroutine above always returns nil

	var warnings []ParseWarning
	for _, w := range warnSlots {
		warnings = append(warnings, w...)
	}
	return results, warnings
}

func countLines(content []byte) int {
	if len(content) == 0 {
		return 0
	}
	return bytes.Count(content, []byte("\n")) + 1
}

func keysOf(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func buildSummary(meta ArtifactMeta, files []parsedFile, gitHash string, now time.Time) Summary {
	totalLines := 0
	langCounts := map[string]int{}
	sourceCount := 0
	for _, pf := range files {
		totalLines += pf.Lines
		if pf.File.Role == scanner.RoleSource {
			sourceCount++
			if pf.File.Language != "" && pf.File.Language != "unknown" {
				langCounts[pf.File.Language]++
			}
		}
	}

	primary := primaryLanguages(langCounts, sourceCount)

	return Summary{
		Metadata: meta,
		Stats: SummaryStats{
			TotalFiles:       len(files),
			TotalLines:       totalLines,
			PrimaryLanguages: primary,
		},
		QuickStats: map[string]any{
			"sourceFiles": sourceCount,
			"languages":   len(langCounts),
		},
		Staleness: StalenessInfo{
			GitHash:     gitHash,
			FileCount:   len(files),
			LastRefresh: now.UTC().Format(time.RFC3339),
			Score:       0,
		},
	}
}

// primaryLanguages implements spec.md §4.3's ordering policy: sort by
// file count descending, include any language with >=5% of total source
// files.
func primaryLanguages(counts map[string]int, totalSource int) []string {
	type lc struct {
		lang  string
		count int
	}
	var list []lc
	for l, c := range counts {
		list = append(list, lc{l, c})
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].count != list[j].count {
			return list[i].count > list[j].count
		}
		return list[i].lang < list[j].lang
	})
	var out []string
	for _, l := range list {
		if totalSource == 0 {
			break
		}
		if float64(l.count)/float64(totalSource) >= 0.05 {
			out = append(out, l.lang)
		}
	}
	return out
}

func buildQuickQueries(meta ArtifactMeta, root string, files []parsedFile, entries map[string]bool) QuickQueries {
	largest := topByPath(files, func(a, b parsedFile) bool {
		if a.File.Size != b.File.Size {
			return a.File.Size > b.File.Size
		}
		return a.File.RelPath < b.File.RelPath
	}, 20)
	recent := topByPath(files, func(a, b parsedFile) bool {
		if a.File.ModifiedAt != b.File.ModifiedAt {
			return a.File.ModifiedAt > b.File.ModifiedAt
		}
		return a.File.RelPath < b.File.RelPath
	}, 20)

	var testDirs []string
	seenTestDir := map[string]bool{}
	for _, pf := range files {
		if pf.File.Role == scanner.RoleTest {
			dir := path.Dir(pf.File.RelPath)
			if !seenTestDir[dir] {
				seenTestDir[dir] = true
				testDirs = append(testDirs, dir)
			}
		}
	}
	sort.Strings(testDirs)

	var top []string
	seenTop := map[string]bool{}
	for _, pf := range files {
		parts := strings.SplitN(pf.File.RelPath, "/", 2)
		if !seenTop[parts[0]] {
			seenTop[parts[0]] = true
			top = append(top, parts[0])
		}
	}
	sort.Strings(top)

	var entryList []string
	for e := range entries {
		entryList = append(entryList, e)
	}
	sort.Strings(entryList)

	langCounts := map[string]int{}
	for _, pf := range files {
		if pf.File.Role == scanner.RoleSource && pf.File.Language != "" && pf.File.Language != "unknown" {
			langCounts[pf.File.Language]++
		}
	}
	var langs []LanguageCount
	for l, c := range langCounts {
		langs = append(langs, LanguageCount{Language: l, Count: c})
	}
	sort.Slice(langs, func(i, j int) bool {
		if langs[i].Count != langs[j].Count {
			return langs[i].Count > langs[j].Count
		}
		return langs[i].Language < langs[j].Language
	})

	return QuickQueries{
		Metadata: meta,
		Answers: QuickAnswers{
			EntryPoints:       entryList,
			Framework:         DetectFramework(root),
			TestLocation:      testDirs,
			LargestFiles:      largest,
			RecentFiles:       recent,
			TopLevelStructure: top,
			Languages:         langs,
		},
	}
}

func topByPath(files []parsedFile, less func(a, b parsedFile) bool, limit int) []FileRef {
	sorted := make([]parsedFile, len(files))
	copy(sorted, files)
	sort.Slice(sorted, func(i, j int) bool { return less(sorted[i], sorted[j]) })
	if len(sorted) > limit {
		sorted = sorted[:limit]
	}
	out := make([]FileRef, 0, len(sorted))
	for _, pf := range sorted {
		out = append(out, FileRef{Path: pf.File.RelPath, Size: pf.File.Size, ModifiedAt: pf.File.ModifiedAt})
	}
	return out
}

func buildTree(meta ArtifactMeta, files []parsedFile) Tree {
	root := &TreeNode{Name: ".", Type: "dir"}
	dirs := map[string]*TreeNode{".": root}

	var getDir func(dir string) *TreeNode
	getDir = func(dir string) *TreeNode {
		if dir == "." || dir == "" {
			return root
		}
		if n, ok := dirs[dir]; ok {
			return n
		}
		parent := getDir(path.Dir(dir))
		node := &TreeNode{Name: path.Base(dir), Type: "dir"}
		parent.Children = append(parent.Children, node)
		dirs[dir] = node
		return node
	}

	for _, pf := range files {
		dir := path.Dir(pf.File.RelPath)
		parent := getDir(dir)
		parent.Children = append(parent.Children, &TreeNode{Name: path.Base(pf.File.RelPath), Type: "file"})
	}

	var countFiles func(n *TreeNode) int
	countFiles = func(n *TreeNode) int {
		if n.Type == "file" {
			return 1
		}
		sort.Slice(n.Children, func(i, j int) bool { return n.Children[i].Name < n.Children[j].Name })
		total := 0
		for _, c := range n.Children {
			total += countFiles(c)
		}
		n.FileCount = total
		return total
	}
	countFiles(root)

	return Tree{Metadata: meta, Tree: root}
}

func buildExistenceProofs(meta ArtifactMeta, scanned map[string]bool) ExistenceProofs {
	var present []string
	for p := range scanned {
		present = append(present, p)
	}
	sort.Strings(present)

	var missing []string
	for _, p := range commonMissingPaths {
		if !scanned[p] {
			missing = append(missing, p)
		}
	}
	return ExistenceProofs{Metadata: meta, Present: present, MissingCommon: missing}
}

func buildMetadataArtifact(meta ArtifactMeta, files []parsedFile) MetadataArtifact {
	out := make([]FileMeta, 0, len(files))
	for _, pf := range files {
		out = append(out, FileMeta{
			Path:       pf.File.RelPath,
			Type:       pf.File.Extension,
			Role:       string(pf.File.Role),
			Lines:      pf.Lines,
			Size:       pf.File.Size,
			Language:   pf.File.Language,
			ModifiedAt: pf.File.ModifiedAt,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return MetadataArtifact{Metadata: meta, Files: out}
}

func buildContentSummaries(meta ArtifactMeta, files []parsedFile) ContentSummaries {
	summaries := map[string]ContentSummary{}
	for _, pf := range files {
		if len(pf.Result.Imports) == 0 && len(pf.Result.Exports) == 0 {
			continue
		}
		var exports, imports, entities []string
		for _, e := range pf.Result.Exports {
			exports = append(exports, e.Name)
			if e.IsPublic {
				entities = append(entities, e.Name)
			}
		}
		for _, i := range pf.Result.Imports {
			imports = append(imports, i.Source)
		}
		summaries[pf.File.RelPath] = ContentSummary{Exports: exports, Imports: imports, TopEntities: entities}
	}
	return ContentSummaries{Metadata: meta, Summaries: summaries}
}

func buildIndices(meta ArtifactMeta, files []parsedFile, now time.Time) Indices {
	byType := map[string][]string{}
	byRole := map[string][]string{}

	sizeBuckets := []Bucket{{Label: "<1KB"}, {Label: "1-10KB"}, {Label: "10-100KB"}, {Label: ">=100KB"}}
	recencyBuckets := []Bucket{{Label: "<1d"}, {Label: "<7d"}, {Label: "<30d"}, {Label: "<90d"}, {Label: "older"}}

	nowUnix := now.Unix()
	for _, pf := range files {
		byType[pf.File.Extension] = append(byType[pf.File.Extension], pf.File.RelPath)
		byRole[string(pf.File.Role)] = append(byRole[string(pf.File.Role)], pf.File.RelPath)

		idx := sizeBucketIndex(pf.File.Size)
		sizeBuckets[idx].Files = append(sizeBuckets[idx].Files, pf.File.RelPath)

		ridx := recencyBucketIndex(nowUnix, pf.File.ModifiedAt)
		recencyBuckets[ridx].Files = append(recencyBuckets[ridx].Files, pf.File.RelPath)
	}

	for k := range byType {
		sort.Strings(byType[k])
	}
	for k := range byRole {
		sort.Strings(byRole[k])
	}

	return Indices{Metadata: meta, ByType: byType, ByRole: byRole, BySize: sizeBuckets, ByRecency: recencyBuckets}
}

func sizeBucketIndex(size int64) int {
	switch {
	case size < 1024:
		return 0
	case size < 10*1024:
		return 1
	case size < 100*1024:
		return 2
	default:
		return 3
	}
}

func recencyBucketIndex(now, modifiedAt int64) int {
	ageDays := float64(now-modifiedAt) / 86400
	switch {
	case ageDays < 1:
		return 0
	case ageDays < 7:
		return 1
	case ageDays < 30:
		return 2
	case ageDays < 90:
		return 3
	default:
		return 4
	}
}

func buildDependenciesForward(meta ArtifactMeta, g *DependencyGraph) DependenciesForward {
	deps := map[string]FileImports{}
	for file, imports := range g.Forward {
		refs := make([]ImportRef, 0, len(imports))
		for _, imp := range imports {
			refs = append(refs, ImportRef{
				Source:    imp.ResolvedPath,
				Type:      string(imp.Type),
				Symbols:   imp.Symbols,
				IsDynamic: imp.IsDynamic,
			})
		}
		deps[file] = FileImports{Imports: refs}
	}
	return DependenciesForward{Metadata: meta, Dependencies: deps}
}

func buildDependenciesReverse(meta ArtifactMeta, g *DependencyGraph) DependenciesReverse {
	deps := map[string]FileImportedBy{}
	for file, refs := range g.Reverse {
		sorted := make([]ImportedByRef, len(refs))
		copy(sorted, refs)
		sort.Slice(sorted, func(i, j int) bool { return sorted[i].File < sorted[j].File })
		deps[file] = FileImportedBy{ImportedBy: sorted}
	}
	return DependenciesReverse{Metadata: meta, Dependencies: deps}
}

func buildRelationships(meta ArtifactMeta, g *DependencyGraph) Relationships {
	maxDepth := 0
	memo := map[string]int{}
	var depth func(node string, stack map[string]bool) int
	depth = func(node string, stack map[string]bool) int {
		if d, ok := memo[node]; ok {
			return d
		}
		if stack[node] {
			return 0
		}
		stack[node] = true
		best := 0
		for _, imp := range g.Forward[node] {
			if imp.Type == parser.ImportInternal && imp.ResolvedPath != "" && imp.ResolvedPath != node {
				d := 1 + depth(imp.ResolvedPath, stack)
				if d > best {
					best = d
				}
			}
		}
		delete(stack, node)
		memo[node] = best
		return best
	}

	totalDeps := 0
	var tight []string
	for node := range g.Forward {
		d := depth(node, map[string]bool{})
		if d > maxDepth {
			maxDepth = d
		}
		internalCount := 0
		for _, imp := range g.Forward[node] {
			if imp.Type == parser.ImportInternal {
				internalCount++
			}
		}
		totalDeps += internalCount
		if internalCount >= 10 {
			tight = append(tight, node)
		}
	}
	sort.Strings(tight)

	avg := 0.0
	if len(g.Forward) > 0 {
		avg = float64(totalDeps) / float64(len(g.Forward))
	}

	return Relationships{Metadata: meta, MaxDepth: maxDepth, AvgDeps: avg, TightlyCoupled: tight}
}

func buildIssues(meta ArtifactMeta, broken []BrokenImport, cycles []Cycle, unused []string, warnings []ParseWarning) Issues {
	sort.Slice(warnings, func(i, j int) bool {
		if warnings[i].File != warnings[j].File {
			return warnings[i].File < warnings[j].File
		}
		return warnings[i].Line < warnings[j].Line
	})
	return Issues{
		Metadata:             meta,
		BrokenImports:        broken,
		CircularDependencies: cycles,
		UnusedFiles:          unused,
		ParseWarnings:        warnings,
	}
}
