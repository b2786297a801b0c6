package mapgen

import (
	"encoding/json"
	"os"
	"path"
	"strings"
)

// entryPoints implements spec.md §4.3 step 7's entry-point set: top-level
// index.*/main.* files, package.json's main/bin, pyproject.toml's
// entrypoints (best-effort), go.mod's module root, Cargo.toml's [[bin]].
// Unused-file detection subtracts this set before reporting.
func entryPoints(root string, scanned []string) map[string]bool {
	set := map[string]bool{}

	for _, rel := range scanned {
		if strings.Contains(rel, "/") {
			continue
		}
		base := path.Base(rel)
		name := strings.TrimSuffix(base, path.Ext(base))
		if name == "index" || name == "main" {
			set[rel] = true
		}
	}

	if data, err := os.ReadFile(root + "/package.json"); err == nil {
		var pkg struct {
			Main string          `json:"main"`
			Bin  json.RawMessage `json:"bin"`
		}
		if json.Unmarshal(data, &pkg) == nil {
			addEntry(set, scanned, pkg.Main)
			var binStr string
			if json.Unmarshal(pkg.Bin, &binStr) == nil {
				addEntry(set, scanned, binStr)
			} else {
				var binMap map[string]string
				if json.Unmarshal(pkg.Bin, &binMap) == nil {
					for _, p := range binMap {
						addEntry(set, scanned, p)
					}
				}
			}
		}
	}

	if _, err := os.Stat(root + "/go.mod"); err == nil {
		for _, rel := range scanned {
			if rel == "main.go" || strings.HasSuffix(rel, "/main.go") {
				set[rel] = true
			}
		}
	}

	if data, err := os.ReadFile(root + "/Cargo.toml"); err == nil {
		for _, line := range strings.Split(string(data), "\n") {
			line = strings.TrimSpace(line)
			if strings.HasPrefix(line, "path") && strings.Contains(line, "=") {
				parts := strings.SplitN(line, "=", 2)
				val := strings.Trim(strings.TrimSpace(parts[1]), `"`)
				addEntry(set, scanned, val)
			}
		}
	}

	if data, err := os.ReadFile(root + "/pyproject.toml"); err == nil {
		addPyprojectScripts(set, scanned, string(data))
	}

	return set
}

// addPyprojectScripts is a best-effort line scan (no TOML parser, matching
// this generator's line/regex-only approach) for script entries under
// either `[project.scripts]` or `[tool.poetry.scripts]`: lines shaped
// `name = "module:function"` or `name = "path/to/file.py"` inside those
// tables. The module path on the right-hand side rarely names a scanned
// file directly (it's usually a dotted import path, not a relative path),
// so this only registers an entry when the right-hand side resolves to a
// real scanned file; dotted module references are otherwise ignored.
func addPyprojectScripts(set map[string]bool, scanned []string, data string) {
	inScripts := false
	for _, line := range strings.Split(data, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "[") {
			inScripts = trimmed == "[project.scripts]" || trimmed == "[tool.poetry.scripts]"
			continue
		}
		if !inScripts || !strings.Contains(trimmed, "=") {
			continue
		}
		parts := strings.SplitN(trimmed, "=", 2)
		val := strings.Trim(strings.TrimSpace(parts[1]), `"'`)
		val = strings.SplitN(val, ":", 2)[0]
		addEntry(set, scanned, val)
	}
}

func addEntry(set map[string]bool, scanned []string, rel string) {
	if rel == "" {
		return
	}
	rel = strings.TrimPrefix(path.Clean(rel), "./")
	for _, s := range scanned {
		if s == rel {
			set[s] = true
			return
		}
	}
}
