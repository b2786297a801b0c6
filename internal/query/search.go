package query

import (
	"regexp"
	"sort"

	"github.com/kraklabs/projectmap/internal/project"
)

// SearchHit is one matched location: a file and, for content-summary
// matches, the exported symbol that matched.
type SearchHit struct {
	Path   string `json:"path"`
	Symbol string `json:"symbol,omitempty"`
}

// Search runs pattern as a regex over content-summaries.json's exported
// symbol names and, when filePattern is set, filters to matching paths
// from metadata.json — grounded on the teacher's pkg/tools/search.go
// regex-over-indexed-text approach, adapted from a CozoDB query to an
// in-memory scan of the decompressed artifacts.
func (r *Router) Search(pattern, filePattern string) ([]SearchHit, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		re = regexp.MustCompile(regexp.QuoteMeta(pattern))
	}

	var fileRe *regexp.Regexp
	if filePattern != "" {
		fileRe, err = regexp.Compile(filePattern)
		if err != nil {
			fileRe = regexp.MustCompile(regexp.QuoteMeta(filePattern))
		}
	}

	raw, err := r.loader.Load(project.ArtifactContentSummaries)
	if err != nil {
		return nil, err
	}
	m, _ := raw.(map[string]any)
	summaries, _ := m["summaries"].(map[string]any)

	var hits []SearchHit
	for path, v := range summaries {
		if fileRe != nil && !fileRe.MatchString(path) {
			continue
		}
		entry, _ := v.(map[string]any)
		exports, _ := entry["exports"].([]any)
		if re.MatchString(path) {
			hits = append(hits, SearchHit{Path: path})
		}
		for _, e := range exports {
			name, _ := e.(string)
			if re.MatchString(name) {
				hits = append(hits, SearchHit{Path: path, Symbol: name})
			}
		}
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Path != hits[j].Path {
			return hits[i].Path < hits[j].Path
		}
		return hits[i].Symbol < hits[j].Symbol
	})
	return hits, nil
}
