package query

import (
	"fmt"

	"github.com/kraklabs/projectmap/internal/contract"
	"github.com/kraklabs/projectmap/internal/project"
)

// tierArtifact maps an extended query type to the tier-3/4 artifact that
// answers it, per SPEC_FULL.md §4.6.
var tierArtifact = map[string]string{
	"dependencies":  project.ArtifactDependenciesFwd,
	"issues":        project.ArtifactIssues,
	"relationships": project.ArtifactRelationships,
	"database":      project.ArtifactDatabaseSchema,
	"modules":       project.ArtifactRelationships,
	"components":    project.ArtifactRelationships,
	"backend-layers": project.ArtifactRelationships,
}

// quickQueryKeys maps a pre-computed query type to its key inside
// quick-queries.json's "answers" object.
var quickQueryKeys = map[string]string{
	"entry-points": "entryPoints",
	"framework":    "framework",
	"tests":        "testLocation",
	"largest":      "largestFiles",
	"recent":       "recentFiles",
	"structure":    "topLevelStructure",
	"languages":    "languages",
}

// Router answers query-type lookups against one project's generated maps.
type Router struct {
	loader *Loader
}

// NewRouter wraps a Loader into a query router.
func NewRouter(loader *Loader) *Router {
	return &Router{loader: loader}
}

// Query resolves queryType to its answer, per SPEC_FULL.md §4.6: known
// pre-computed types read quick-queries.json; extended types load the
// matching tier-3/4 artifact lazily. An unknown type returns
// contract.ValidateQueryType's error (callers map this to exit code 2).
func (r *Router) Query(queryType string) (any, error) {
	if res := contract.ValidateQueryType(queryType); !res.OK {
		return nil, fmt.Errorf("%s", res.Message)
	}

	if key, ok := quickQueryKeys[queryType]; ok {
		qq, err := r.loader.Load(project.ArtifactQuickQueries)
		if err != nil {
			return nil, err
		}
		m, ok := qq.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("quick-queries: unexpected shape")
		}
		answers, _ := m["answers"].(map[string]any)
		return answers[key], nil
	}

	artifact, ok := tierArtifact[queryType]
	if !ok {
		return nil, fmt.Errorf("unknown query type: %s", queryType)
	}
	return r.loader.Load(artifact)
}
