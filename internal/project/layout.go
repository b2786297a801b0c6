package project

import (
	"os"
	"path/filepath"
)

// ConfigDirEnv overrides the config root that project-maps output directories
// live under. Mirrors the teacher's pattern of a single env var override for
// its data directory.
const ConfigDirEnv = "PROJECTMAP_CONFIG_DIR"

// Artifact file names, in generation order. Tiers are documented alongside
// each constant for callers that need tier-based loading (internal/query).
const (
	ArtifactSummary            = "summary"             // tier 1
	ArtifactQuickQueries       = "quick-queries"        // tier 1
	ArtifactTree               = "tree"                 // tier 2
	ArtifactExistenceProofs    = "existence-proofs"     // tier 2
	ArtifactMetadata           = "metadata"             // tier 3
	ArtifactContentSummaries   = "content-summaries"    // tier 3
	ArtifactIndices            = "indices"              // tier 3
	ArtifactDependenciesFwd    = "dependencies-forward"  // tier 4
	ArtifactDependenciesRev    = "dependencies-reverse"  // tier 4
	ArtifactRelationships      = "relationships"         // tier 4
	ArtifactIssues             = "issues"                // tier 4
	ArtifactDatabaseSchema     = "database-schema"        // optional
	ArtifactTableModuleMapping = "table-module-mapping"   // optional

	CompressionSchemaFile = ".compression-schema.json"
)

// AllArtifacts lists the eleven mandatory artifacts in the order they are
// generated: dependency-bearing artifacts (metadata, dependencies-*) before
// the artifacts derived from them (relationships, issues, quick-queries).
var AllArtifacts = []string{
	ArtifactMetadata,
	ArtifactTree,
	ArtifactExistenceProofs,
	ArtifactContentSummaries,
	ArtifactIndices,
	ArtifactDependenciesFwd,
	ArtifactDependenciesRev,
	ArtifactRelationships,
	ArtifactIssues,
	ArtifactQuickQueries,
	ArtifactSummary,
}

// ArtifactTier returns the load-priority tier (1-4) for a named artifact, or
// 0 if the name is not one of the eleven canonical artifacts.
func ArtifactTier(name string) int {
	switch name {
	case ArtifactSummary, ArtifactQuickQueries:
		return 1
	case ArtifactTree, ArtifactExistenceProofs:
		return 2
	case ArtifactMetadata, ArtifactContentSummaries, ArtifactIndices:
		return 3
	case ArtifactDependenciesFwd, ArtifactDependenciesRev, ArtifactRelationships, ArtifactIssues:
		return 4
	default:
		return 0
	}
}

// ConfigRoot resolves <config_root>, defaulting to $HOME/.claude unless
// overridden by ConfigDirEnv.
func ConfigRoot() (string, error) {
	if v := os.Getenv(ConfigDirEnv); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".claude"), nil
}

// OutputDir returns <config_root>/project-maps/<key> and ensures it exists.
func OutputDir(key Key) (string, error) {
	root, err := ConfigRoot()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(root, "project-maps", string(key))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return dir, nil
}

// ProjectMapsRoot returns <config_root>/project-maps without creating it;
// used by the `list` subcommand to enumerate existing project directories.
func ProjectMapsRoot() (string, error) {
	root, err := ConfigRoot()
	if err != nil {
		return "", err
	}
	return filepath.Join(root, "project-maps"), nil
}

// ArtifactPath returns the on-disk path for a named artifact within dir.
func ArtifactPath(dir, name string) string {
	return filepath.Join(dir, name+".json")
}
