package scanner

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	gitignore "github.com/sabhiram/go-gitignore"
)

// ignoreSet holds a single combined gitignore matcher assembled from every
// .gitignore found while walking root, plus the extra user-supplied glob
// patterns. Per-directory pattern lines are rewritten to be rooted at the
// project root and appended in root-to-leaf order before being compiled
// into one gitignore.GitIgnore, so a deeper directory's "!re-include" rule
// can override a shallower directory's exclusion the same way git itself
// resolves precedence across nested .gitignore files (later rules win).
// Compiling independent per-directory matchers and OR-ing their verdicts,
// as an earlier version of this file did, cannot express that override:
// each matcher would be blind to the others' exclusions.
type ignoreSet struct {
	root     string
	combined *gitignore.GitIgnore
	extra    []string
}

func newIgnoreSet(root string, extraGlobs []string) *ignoreSet {
	var lines []string
	_ = filepath.Walk(root, func(path string, fi os.FileInfo, err error) error {
		if err != nil || !fi.IsDir() {
			return nil
		}
		base := filepath.Base(path)
		if builtinIgnoreDirs[base] || (strings.HasPrefix(base, ".") && base != ".github" && path != root) {
			return filepath.SkipDir
		}
		data, readErr := os.ReadFile(filepath.Join(path, ".gitignore"))
		if readErr != nil {
			return nil
		}
		rel := relOrSelf(root, path)
		if rel == "." {
			rel = ""
		}
		lines = append(lines, rootedPatternLines(rel, string(data))...)
		return nil
	})

	is := &ignoreSet{root: root, extra: extraGlobs}
	if len(lines) > 0 {
		is.combined = gitignore.CompileIgnoreLines(lines...)
	}
	return is
}

// rootedPatternLines rewrites one .gitignore's raw lines so they match
// against paths relative to the project root instead of relative to dir
// (dir is "" for the root .gitignore itself). A pattern containing no
// slash matches at any depth under dir per git's own rules, so it is
// emitted twice: once anchored directly under dir, once under dir/**/ for
// deeper nesting. Patterns that already contain a slash are anchored to
// dir as-is, matching git's "slash present => relative to this
// .gitignore's location" rule.
func rootedPatternLines(dir, content string) []string {
	var out []string
	for _, raw := range strings.Split(content, "\n") {
		line := strings.TrimRight(raw, "\r")
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}

		negate := strings.HasPrefix(trimmed, "!")
		pattern := strings.TrimPrefix(trimmed, "!")
		pattern = strings.TrimPrefix(pattern, "/")

		anchored := joinPattern(dir, pattern)
		out = append(out, withNegation(negate, anchored))

		if !strings.Contains(strings.TrimSuffix(pattern, "/"), "/") {
			nested := joinPattern(dir, "**/"+pattern)
			out = append(out, withNegation(negate, nested))
		}
	}
	return out
}

func joinPattern(dir, pattern string) string {
	if dir == "" {
		return "/" + pattern
	}
	return "/" + dir + "/" + pattern
}

func withNegation(negate bool, pattern string) string {
	if negate {
		return "!" + pattern
	}
	return pattern
}

// matches reports whether rel (slash-relative to root) should be excluded.
// isDir indicates whether rel names a directory (gitignore matches differ
// slightly for directory-only patterns, handled by the underlying library).
func (is *ignoreSet) matches(rel string, isDir bool) bool {
	rel = filepath.ToSlash(rel)

	for _, g := range is.extra {
		if ok, _ := doublestar.Match(g, rel); ok {
			return true
		}
		if ok, _ := doublestar.Match(g, filepath.Base(rel)); ok {
			return true
		}
	}

	if is.combined == nil {
		return false
	}
	return is.combined.MatchesPath(rel)
}
