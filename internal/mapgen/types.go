// Package mapgen assembles the eleven canonical map artifacts (plus
// optional database-schema maps) from scanner and parser output.
package mapgen

import (
	"github.com/kraklabs/projectmap/internal/parser"
	"github.com/kraklabs/projectmap/internal/scanner"
)

// Artifact name constants, matching internal/project's layout names.
const (
	ArtifactSummary              = "summary"
	ArtifactQuickQueries         = "quick-queries"
	ArtifactTree                 = "tree"
	ArtifactExistenceProofs      = "existence-proofs"
	ArtifactMetadata             = "metadata"
	ArtifactContentSummaries     = "content-summaries"
	ArtifactIndices              = "indices"
	ArtifactDependenciesForward  = "dependencies-forward"
	ArtifactDependenciesReverse  = "dependencies-reverse"
	ArtifactRelationships        = "relationships"
	ArtifactIssues               = "issues"
	ArtifactDatabaseSchema       = "database-schema"
	ArtifactTableModuleMapping   = "table-module-mapping"
)

// ArtifactMeta is the small metadata block embedded in every uncompressed
// artifact body before it passes through internal/compress. It is
// distinct from compress.Metadata (which describes the *compression*
// applied); this one is domain metadata about the generation run.
type ArtifactMeta struct {
	ProjectKey string `json:"projectKey"`
	Generated  string `json:"generated"`
}

// Summary is the tier-1 "summary" artifact.
type Summary struct {
	Metadata   ArtifactMeta   `json:"metadata"`
	Stats      SummaryStats   `json:"stats"`
	QuickStats map[string]any `json:"quickStats"`
	Staleness  StalenessInfo  `json:"staleness"`
}

type SummaryStats struct {
	TotalFiles       int      `json:"totalFiles"`
	TotalLines       int      `json:"totalLines"`
	PrimaryLanguages []string `json:"primaryLanguages"`
}

// StalenessInfo mirrors spec.md §3's StalenessRecord, persisted inside
// the summary artifact. A freshly generated map has Score 0.
type StalenessInfo struct {
	GitHash     string `json:"gitHash"`
	FileCount   int    `json:"fileCount"`
	LastRefresh string `json:"lastRefresh"`
	Score       int    `json:"score"`
}

// QuickQueries is the tier-1 "quick-queries" artifact.
type QuickQueries struct {
	Metadata ArtifactMeta `json:"metadata"`
	Answers  QuickAnswers `json:"answers"`
}

type QuickAnswers struct {
	EntryPoints       []string        `json:"entryPoints"`
	Framework         FrameworkResult `json:"framework"`
	TestLocation      []string        `json:"testLocation"`
	LargestFiles      []FileRef       `json:"largestFiles"`
	RecentFiles       []FileRef       `json:"recentFiles"`
	TopLevelStructure []string        `json:"topLevelStructure"`
	Languages         []LanguageCount `json:"languages"`
}

type FileRef struct {
	Path string `json:"path"`
	Size int64  `json:"size,omitempty"`
	ModifiedAt int64 `json:"modifiedAt,omitempty"`
}

type LanguageCount struct {
	Language string `json:"language"`
	Count    int    `json:"count"`
}

// FrameworkResult is the outcome of the rule-table detector in framework.go.
type FrameworkResult struct {
	Name       string  `json:"name"`
	Type       string  `json:"type"`
	Confidence float64 `json:"confidence"`
}

// TreeNode is the "tree" artifact's recursive shape.
type TreeNode struct {
	Name      string      `json:"name"`
	Type      string      `json:"type"`
	Children  []*TreeNode `json:"children,omitempty"`
	FileCount int         `json:"fileCount,omitempty"`
}

// Tree is the tier-2 "tree" artifact.
type Tree struct {
	Metadata ArtifactMeta `json:"metadata"`
	Tree     *TreeNode    `json:"tree"`
}

// ExistenceProofs is the tier-2 "existence-proofs" artifact.
type ExistenceProofs struct {
	Metadata      ArtifactMeta `json:"metadata"`
	Present       []string     `json:"present"`
	MissingCommon []string     `json:"missingCommon"`
}

// FileMeta is one entry in the tier-3 "metadata" artifact.
type FileMeta struct {
	Path       string `json:"path"`
	Type       string `json:"type"`
	Role       string `json:"role"`
	Lines      int    `json:"lines"`
	Size       int64  `json:"size"`
	Language   string `json:"language"`
	ModifiedAt int64  `json:"modifiedAt"`
}

// MetadataArtifact is the tier-3 "metadata" artifact.
type MetadataArtifact struct {
	Metadata ArtifactMeta `json:"metadata"`
	Files    []FileMeta   `json:"files"`
}

// ContentSummary is one per-file entry in "content-summaries".
type ContentSummary struct {
	Exports     []string `json:"exports"`
	Imports     []string `json:"imports"`
	TopEntities []string `json:"topEntities"`
}

// ContentSummaries is the tier-3 "content-summaries" artifact.
type ContentSummaries struct {
	Metadata  ArtifactMeta              `json:"metadata"`
	Summaries map[string]ContentSummary `json:"summaries"`
}

// Bucket holds one labelled path list of "indices"' bySize / byRecency.
type Bucket struct {
	Label string   `json:"label"`
	Files []string `json:"files"`
}

// Indices is the tier-3 "indices" artifact.
type Indices struct {
	Metadata   ArtifactMeta        `json:"metadata"`
	ByType     map[string][]string `json:"byType"`
	ByRole     map[string][]string `json:"byRole"`
	BySize     []Bucket            `json:"bySize"`
	ByRecency  []Bucket            `json:"byRecency"`
}

// ImportRef is one forward-dependency entry.
type ImportRef struct {
	Source    string   `json:"source"`
	Type      string   `json:"type"`
	Symbols   []string `json:"symbols"`
	IsDynamic bool     `json:"isDynamic"`
}

// FileImports is the per-file forward-dependency value.
type FileImports struct {
	Imports []ImportRef `json:"imports"`
}

// DependenciesForward is the tier-4 "dependencies-forward" artifact.
type DependenciesForward struct {
	Metadata     ArtifactMeta           `json:"metadata"`
	Dependencies map[string]FileImports `json:"dependencies"`
}

// ImportedByRef is one reverse-dependency entry.
type ImportedByRef struct {
	File    string   `json:"file"`
	Symbols []string `json:"symbols"`
}

// FileImportedBy is the per-file reverse-dependency value.
type FileImportedBy struct {
	ImportedBy []ImportedByRef `json:"importedBy"`
}

// DependenciesReverse is the tier-4 "dependencies-reverse" artifact.
type DependenciesReverse struct {
	Metadata     ArtifactMeta              `json:"metadata"`
	Dependencies map[string]FileImportedBy `json:"dependencies"`
}

// Relationships is the tier-4 "relationships" artifact.
type Relationships struct {
	Metadata       ArtifactMeta `json:"metadata"`
	MaxDepth       int          `json:"maxDepth"`
	AvgDeps        float64      `json:"avgDeps"`
	TightlyCoupled []string     `json:"tightlyCoupled"`
	Modules        []string     `json:"modules,omitempty"`
}

// Cycle is one reported circular-dependency chain.
type Cycle struct {
	Files []string `json:"files"`
}

// Issues is the tier-4 "issues" artifact.
type Issues struct {
	Metadata              ArtifactMeta   `json:"metadata"`
	BrokenImports         []BrokenImport `json:"brokenImports"`
	CircularDependencies  []Cycle        `json:"circularDependencies"`
	UnusedFiles           []string       `json:"unusedFiles"`
	ParseWarnings         []ParseWarning `json:"parseWarnings"`
}

type BrokenImport struct {
	File   string `json:"file"`
	Source string `json:"source"`
}

type ParseWarning struct {
	File    string `json:"file"`
	Line    int    `json:"line,omitempty"`
	Message string `json:"message"`
}

// parsedFile bundles one scanned file with its parse result; the
// generator's intermediate working set before any artifact is built.
type parsedFile struct {
	File   scanner.File
	Result parser.Result
	Lines  int
}

// Column is one regex-extracted column of a detected model/table.
type Column struct {
	Name       string `json:"name"`
	Type       string `json:"type"`
	PrimaryKey bool   `json:"primaryKey,omitempty"`
	Indexed    bool   `json:"indexed,omitempty"`
}

// RelationKind enumerates the ORM relationship shapes this generator
// recognizes across the supported ORMs.
type RelationKind string

const (
	RelationBelongsTo RelationKind = "belongsTo"
	RelationHasMany   RelationKind = "hasMany"
	RelationHasOne    RelationKind = "hasOne"
	RelationManyToMany RelationKind = "manyToMany"
)

// Relation is one regex-extracted ORM relationship between two tables.
type Relation struct {
	Kind   RelationKind `json:"kind"`
	Target string       `json:"target"`
	Field  string       `json:"field,omitempty"`
}

// Table is one detected database table/model, source-file-attributed.
type Table struct {
	Name      string     `json:"name"`
	File      string     `json:"file"`
	Columns   []Column   `json:"columns"`
	Relations []Relation `json:"relations,omitempty"`
}

// DatabaseSchema is the optional "database-schema" artifact, populated
// only when DetectORM finds a recognized ORM (spec.md §4.3's closing
// paragraph).
type DatabaseSchema struct {
	Metadata ArtifactMeta `json:"metadata"`
	ORM      string       `json:"orm"`
	Tables   []Table      `json:"tables"`
}

// TableModuleMapping is the optional "table-module-mapping" artifact:
// for each detected table, every source file (outside the model's own
// definition file) that references the table name as an import symbol
// or identifier, linking data model to the modules that use it.
type TableModuleMapping struct {
	Metadata ArtifactMeta        `json:"metadata"`
	Tables   map[string][]string `json:"tables"`
}
