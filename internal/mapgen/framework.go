package mapgen

import (
	"encoding/json"
	"os"
	"sort"
	"strings"
)

// frameworkRule is one row of the open rule table spec.md §9 asks for in
// place of an if/else ladder: a manifest dependency name maps to a
// framework, its broad type classifier, and a confidence weight. Rules
// are evaluated independently and the highest-scoring framework wins;
// spec.md §9 explicitly treats detection as "best-scoring, not guaranteed".
type frameworkRule struct {
	manifest   string // which manifest file this rule reads
	dependency string // dependency/import name to look for
	framework  string
	category   string // frontend-spa | server | cli | library | unknown
	confidence float64
}

var frameworkRules = []frameworkRule{
	{"package.json", "next", "Next.js", "frontend-spa", 0.95},
	{"package.json", "nuxt", "Nuxt", "frontend-spa", 0.95},
	{"package.json", "react", "React", "frontend-spa", 0.8},
	{"package.json", "vue", "Vue", "frontend-spa", 0.8},
	{"package.json", "svelte", "Svelte", "frontend-spa", 0.8},
	{"package.json", "express", "Express", "server", 0.85},
	{"package.json", "fastify", "Fastify", "server", 0.85},
	{"package.json", "@nestjs/core", "NestJS", "server", 0.9},
	{"requirements.txt", "django", "Django", "server", 0.9},
	{"requirements.txt", "flask", "Flask", "server", 0.85},
	{"requirements.txt", "fastapi", "FastAPI", "server", 0.9},
	{"pyproject.toml", "django", "Django", "server", 0.9},
	{"pyproject.toml", "flask", "Flask", "server", 0.85},
	{"pyproject.toml", "fastapi", "FastAPI", "server", 0.9},
	{"go.mod", "github.com/gin-gonic/gin", "Gin", "server", 0.85},
	{"go.mod", "github.com/labstack/echo", "Echo", "server", 0.85},
	{"go.mod", "github.com/go-chi/chi", "Chi", "server", 0.8},
	{"Cargo.toml", "axum", "Axum", "server", 0.85},
	{"Cargo.toml", "rocket", "Rocket", "server", 0.85},
	{"Cargo.toml", "actix-web", "Actix Web", "server", 0.85},
}

// ormRules maps the same manifest/dependency-presence idea to database
// ORMs, for the optional database-schema/table-module-mapping artifacts.
var ormRules = []frameworkRule{
	{"package.json", "@prisma/client", "Prisma", "", 0.9},
	{"package.json", "sequelize", "Sequelize", "", 0.85},
	{"package.json", "typeorm", "TypeORM", "", 0.85},
	{"package.json", "mongoose", "Mongoose", "", 0.85},
	{"requirements.txt", "sqlalchemy", "SQLAlchemy", "", 0.85},
	{"pyproject.toml", "sqlalchemy", "SQLAlchemy", "", 0.85},
	{"Gemfile", "activerecord", "ActiveRecord", "", 0.85},
	{"package.json", "knex", "Knex", "", 0.75},
}

// manifestDeps extracts package.json's declared dependency names. Other
// manifests (requirements.txt, pyproject.toml, go.mod, Cargo.toml, Gemfile)
// are small enough that manifestContains' raw substring scan is sufficient
// for presence scoring and avoids writing a TOML/go.mod parser.
func manifestDeps(root, manifest string) map[string]bool {
	data, err := os.ReadFile(root + "/" + manifest)
	if err != nil {
		return nil
	}
	deps := map[string]bool{}

	var pkg struct {
		Dependencies    map[string]string `json:"dependencies"`
		DevDependencies map[string]string `json:"devDependencies"`
	}
	if json.Unmarshal(data, &pkg) == nil {
		for name := range pkg.Dependencies {
			deps[name] = true
		}
		for name := range pkg.DevDependencies {
			deps[name] = true
		}
	}
	return deps
}

func manifestContains(root, manifest, dependency string) bool {
	data, err := os.ReadFile(root + "/" + manifest)
	if err != nil {
		return false
	}
	content := strings.ToLower(string(data))
	return strings.Contains(content, strings.ToLower(dependency))
}

// DetectFramework scores every rule against the project's manifests and
// returns the single highest-confidence match, or an "unknown" result if
// nothing matched.
func DetectFramework(root string) FrameworkResult {
	type scored struct {
		rule  frameworkRule
		score float64
	}
	var matches []scored

	jsDeps := manifestDeps(root, "package.json")
	for _, rule := range frameworkRules {
		var present bool
		if rule.manifest == "package.json" {
			present = jsDeps[rule.dependency]
		} else {
			present = manifestContains(root, rule.manifest, rule.dependency)
		}
		if present {
			matches = append(matches, scored{rule, rule.confidence})
		}
	}

	if len(matches) == 0 {
		return FrameworkResult{Name: "none", Type: "unknown", Confidence: 0}
	}

	sort.Slice(matches, func(i, j int) bool { return matches[i].score > matches[j].score })
	best := matches[0]
	return FrameworkResult{Name: best.rule.framework, Type: best.rule.category, Confidence: best.score}
}

// DetectORM returns the highest-confidence ORM match, or "" if none.
func DetectORM(root string) (name string, confidence float64) {
	best := ""
	bestScore := 0.0
	for _, rule := range ormRules {
		present := manifestContains(root, rule.manifest, rule.dependency)
		if present && rule.confidence > bestScore {
			best = rule.framework
			bestScore = rule.confidence
		}
	}
	return best, bestScore
}
