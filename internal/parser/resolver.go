package parser

import (
	"path"
	"strings"
)

// resolutionExtensions lists the extension resolution order §4.2.1
// specifies, tried after the as-is path when a relative import doesn't
// match a scanned file verbatim.
var resolutionExtensions = []string{".ts", ".tsx", ".js", ".jsx", ".mjs", ".py", ".go", ".rs"}

// indexCandidates are directory-style fallbacks tried when neither the
// as-is path nor any extension-appended path exists.
func indexCandidates(normalized string) []string {
	return []string{
		normalized + "/index.ts",
		normalized + "/index.tsx",
		normalized + "/index.js",
		normalized + "/index.jsx",
		normalized + "/__init__.py",
		normalized + "/mod.rs",
	}
}

// ResolveImportPath implements §4.2.1: given an import path as written and
// the file it appears in, return the resolved project-relative path. scanned
// is the set of relative paths produced by the scanner, used to test
// candidate existence. A relative import that resolves to nothing in
// scanned still returns a best-effort normalized path (the caller surfaces
// it as a broken import).
func ResolveImportPath(importPath, currentFile string, scanned map[string]bool) (resolved string, isInternal bool) {
	if !strings.HasPrefix(importPath, "./") && !strings.HasPrefix(importPath, "../") && !strings.HasPrefix(importPath, "/") {
		return importPath, false
	}

	var base string
	if strings.HasPrefix(importPath, "/") {
		base = strings.TrimPrefix(importPath, "/")
	} else {
		dir := path.Dir(currentFile)
		base = path.Clean(path.Join(dir, importPath))
	}
	base = strings.TrimPrefix(base, "./")

	if scanned[base] {
		return base, true
	}
	for _, ext := range resolutionExtensions {
		candidate := base + ext
		if scanned[candidate] {
			return candidate, true
		}
	}
	for _, candidate := range indexCandidates(base) {
		if scanned[candidate] {
			return candidate, true
		}
	}

	return base, true
}
