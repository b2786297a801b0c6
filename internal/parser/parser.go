// Package parser extracts imports and exports from source files via
// regex-driven line scanning. There is deliberately no AST: each back-end is
// a fast, approximate, malformed-input-tolerant scanner, dispatched by a
// Language tag through a function table rather than per-language classes.
package parser

// ImportType classifies where an import's source resolves to.
type ImportType string

const (
	ImportInternal ImportType = "internal"
	ImportExternal ImportType = "external"
	ImportStdlib   ImportType = "stdlib"
	ImportRelative ImportType = "relative"
)

// ExportType classifies the kind of export record.
type ExportType string

const (
	ExportDefault   ExportType = "default"
	ExportNamed     ExportType = "named"
	ExportReExport  ExportType = "re-export"
	ExportCommonJS  ExportType = "commonjs"
	ExportClass     ExportType = "class"
	ExportFunction  ExportType = "function"
	ExportConst     ExportType = "const"
	ExportTypeAlias ExportType = "type"
	ExportInterface ExportType = "interface"
	ExportEnum      ExportType = "enum"
	ExportStruct    ExportType = "struct"
)

// Import is one extracted import statement.
type Import struct {
	Source       string     `json:"source"`
	ResolvedPath string     `json:"resolvedPath,omitempty"`
	Symbols      []string   `json:"symbols"`
	Type         ImportType `json:"type"`
	IsDynamic    bool       `json:"isDynamic"`
	Line         int        `json:"line,omitempty"`
}

// Export is one extracted export declaration.
type Export struct {
	Name     string     `json:"name"`
	Type     ExportType `json:"type"`
	Line     int        `json:"line,omitempty"`
	IsPublic bool        `json:"isPublic"`
}

// Warning is a non-fatal per-file parse issue: a malformed construct
// produces no record and a warning, never a failure.
type Warning struct {
	Line    int
	Message string
}

// Result is everything extracted from one file.
type Result struct {
	Language string
	Imports  []Import
	Exports  []Export
	Warnings []Warning
}

// Backend parses one file's content into a Result. Each of the five
// language back-ends implements this with a single function, dispatched by
// language tag rather than by a class hierarchy.
type Backend func(content string, path string) Result

// backends is the function table the generic front-end dispatches through.
var backends = map[string]Backend{
	"javascript": parseJavaScript,
	"typescript": parseJavaScript,
	"python":     parsePython,
	"go":         parseGo,
	"rust":       parseRust,
}

// Parse dispatches to the back-end registered for language, falling back to
// the generic back-end (empty imports/exports, language tag preserved) for
// anything else.
func Parse(content, path, language string) Result {
	if be, ok := backends[language]; ok {
		return be(content, path)
	}
	return parseGeneric(content, path, language)
}

func parseGeneric(_ string, _ string, language string) Result {
	return Result{Language: language}
}
