package mapgen

import (
	"os"
	"regexp"
	"sort"
	"strings"
)

// schemaFilePatterns narrows which scanned files are worth re-reading for
// model/table extraction, keyed by ORM name. Avoids regex-scanning every
// file in the tree when only a handful can possibly declare a model.
var schemaFilePatterns = map[string][]string{
	"Prisma":       {"schema.prisma"},
	"Sequelize":    {".js", ".ts"},
	"TypeORM":      {".ts"},
	"Mongoose":     {".js", ".ts"},
	"SQLAlchemy":   {".py"},
	"ActiveRecord": {".rb"},
	"Knex":         {".js"},
}

var (
	prismaModelRe = regexp.MustCompile(`(?m)^model\s+(\w+)\s*\{`)
	prismaFieldRe = regexp.MustCompile(`(?m)^\s*(\w+)\s+(\w+)(\??)\s*(@id)?.*$`)
	prismaRelRe   = regexp.MustCompile(`@relation`)

	sequelizeDefineRe = regexp.MustCompile(`\.define\(\s*['"](\w+)['"]`)
	typeormEntityRe   = regexp.MustCompile(`@Entity\(\s*['"]?(\w*)['"]?\s*\)\s*\n?\s*export\s+class\s+(\w+)`)
	typeormColumnRe   = regexp.MustCompile(`@Column\([^)]*\)\s*\n?\s*(\w+)\s*:\s*(\w+)`)
	typeormRelationRe = regexp.MustCompile(`@(OneToMany|ManyToOne|OneToOne|ManyToMany)\(\s*\(\)\s*=>\s*(\w+)`)

	mongooseSchemaRe = regexp.MustCompile(`(\w+)\s*=\s*new\s+(?:mongoose\.)?Schema\(`)
	mongooseModelRe  = regexp.MustCompile(`mongoose\.model\(\s*['"](\w+)['"]`)

	djangoClassRe = regexp.MustCompile(`class\s+(\w+)\(models\.Model\)`)
	djangoFieldRe = regexp.MustCompile(`(?m)^\s*(\w+)\s*=\s*models\.(\w+Field)\(([^)]*)\)`)
	djangoFKRe    = regexp.MustCompile(`ForeignKey\(\s*['"]?(\w+)['"]?`)

	sqlaClassRe   = regexp.MustCompile(`class\s+(\w+)\(Base\)`)
	sqlaTableRe   = regexp.MustCompile(`__tablename__\s*=\s*['"](\w+)['"]`)
	sqlaColumnRe  = regexp.MustCompile(`(?m)^\s*(\w+)\s*=\s*Column\((\w+)`)
	sqlaRelRe     = regexp.MustCompile(`relationship\(\s*['"](\w+)['"]`)

	activeRecordModelRe = regexp.MustCompile(`class\s+(\w+)\s*<\s*ApplicationRecord`)
	activeRecordHasManyRe = regexp.MustCompile(`has_many\s+:(\w+)`)
	activeRecordBelongsToRe = regexp.MustCompile(`belongs_to\s+:(\w+)`)

	knexCreateTableRe = regexp.MustCompile(`createTable\(\s*['"](\w+)['"]`)
	knexColumnRe      = regexp.MustCompile(`table\.(\w+)\(\s*['"](\w+)['"]`)
)

// BuildDatabaseSchema parses every candidate model/schema file for the
// detected ORM with the same regex-driven approach as internal/parser,
// per spec.md §4.3's closing paragraph. Returns ok=false when no tables
// were found (the caller skips writing both optional artifacts).
func BuildDatabaseSchema(orm string, parsed []parsedFile, meta ArtifactMeta) (DatabaseSchema, TableModuleMapping, bool) {
	patterns := schemaFilePatterns[orm]
	if len(patterns) == 0 {
		return DatabaseSchema{}, TableModuleMapping{}, false
	}

	var tables []Table
	for _, pf := range parsed {
		if !matchesSchemaFile(pf.File.RelPath, patterns) {
			continue
		}
		content, err := os.ReadFile(pf.File.AbsPath)
		if err != nil {
			continue
		}
		tables = append(tables, extractTables(orm, pf.File.RelPath, string(content))...)
	}
	if len(tables) == 0 {
		return DatabaseSchema{}, TableModuleMapping{}, false
	}
	sort.Slice(tables, func(i, j int) bool { return tables[i].Name < tables[j].Name })

	schema := DatabaseSchema{Metadata: meta, ORM: orm, Tables: tables}
	mapping := buildTableModuleMapping(meta, tables, parsed)
	return schema, mapping, true
}

func matchesSchemaFile(relPath string, patterns []string) bool {
	for _, p := range patterns {
		if strings.HasPrefix(p, ".") && strings.HasSuffix(relPath, p) {
			return true
		}
		if !strings.HasPrefix(p, ".") && strings.HasSuffix(relPath, p) {
			return true
		}
	}
	return false
}

func extractTables(orm, relPath, content string) []Table {
	switch orm {
	case "Prisma":
		return extractPrismaModels(relPath, content)
	case "Sequelize":
		return extractSequelizeModels(relPath, content)
	case "TypeORM":
		return extractTypeORMEntities(relPath, content)
	case "Mongoose":
		return extractMongooseSchemas(relPath, content)
	case "SQLAlchemy":
		return extractDjangoOrSQLAlchemy(relPath, content)
	case "ActiveRecord":
		return extractActiveRecordModels(relPath, content)
	case "Knex":
		return extractKnexTables(relPath, content)
	default:
		return nil
	}
}

func extractPrismaModels(relPath, content string) []Table {
	var tables []Table
	blocks := splitBraceBlocks(content, prismaModelRe)
	for name, body := range blocks {
		var cols []Column
		for _, m := range prismaFieldRe.FindAllStringSubmatch(body, -1) {
			cols = append(cols, Column{Name: m[1], Type: m[2], PrimaryKey: m[4] == "@id"})
		}
		var rels []Relation
		if prismaRelRe.MatchString(body) {
			for _, m := range prismaFieldRe.FindAllStringSubmatch(body, -1) {
				if strings.Contains(m[2], "[]") || isCapitalized(m[2]) {
					rels = append(rels, Relation{Kind: RelationHasMany, Target: m[2], Field: m[1]})
				}
			}
		}
		tables = append(tables, Table{Name: name, File: relPath, Columns: cols, Relations: rels})
	}
	return tables
}

// splitBraceBlocks finds every `startRe` match and returns the balanced
// brace-delimited body text that follows, keyed by the match's first
// capture group. A minimal replacement for a real parser: it counts
// braces rather than building an AST, matching this generator's
// line/regex-only approach.
func splitBraceBlocks(content string, startRe *regexp.Regexp) map[string]string {
	blocks := map[string]string{}
	locs := startRe.FindAllStringSubmatchIndex(content, -1)
	for _, loc := range locs {
		name := content[loc[2]:loc[3]]
		start := loc[1] - 1 // position of the opening brace
		depth := 0
		end := start
		for i := start; i < len(content); i++ {
			switch content[i] {
			case '{':
				depth++
			case '}':
				depth--
				if depth == 0 {
					end = i
					i = len(content)
				}
			}
		}
		if end > start {
			blocks[name] = content[start:end]
		}
	}
	return blocks
}

func extractSequelizeModels(relPath, content string) []Table {
	var tables []Table
	for _, m := range sequelizeDefineRe.FindAllStringSubmatch(content, -1) {
		tables = append(tables, Table{Name: m[1], File: relPath})
	}
	return tables
}

func extractTypeORMEntities(relPath, content string) []Table {
	var tables []Table
	for _, m := range typeormEntityRe.FindAllStringSubmatch(content, -1) {
		name := m[1]
		if name == "" {
			name = m[2]
		}
		var cols []Column
		for _, c := range typeormColumnRe.FindAllStringSubmatch(content, -1) {
			cols = append(cols, Column{Name: c[1], Type: c[2]})
		}
		var rels []Relation
		for _, r := range typeormRelationRe.FindAllStringSubmatch(content, -1) {
			rels = append(rels, Relation{Kind: typeormRelationKind(r[1]), Target: r[2]})
		}
		tables = append(tables, Table{Name: name, File: relPath, Columns: cols, Relations: rels})
	}
	return tables
}

func typeormRelationKind(decorator string) RelationKind {
	switch decorator {
	case "OneToMany":
		return RelationHasMany
	case "ManyToOne":
		return RelationBelongsTo
	case "OneToOne":
		return RelationHasOne
	case "ManyToMany":
		return RelationManyToMany
	default:
		return RelationKind(decorator)
	}
}

func extractMongooseSchemas(relPath, content string) []Table {
	var tables []Table
	for _, m := range mongooseModelRe.FindAllStringSubmatch(content, -1) {
		tables = append(tables, Table{Name: m[1], File: relPath})
	}
	if len(tables) == 0 {
		for _, m := range mongooseSchemaRe.FindAllStringSubmatch(content, -1) {
			tables = append(tables, Table{Name: m[1], File: relPath})
		}
	}
	return tables
}

// extractDjangoOrSQLAlchemy handles both Django ORM and SQLAlchemy since
// both live in .py files and this generator has no import-aware dispatch
// at the schema layer; it simply tries both rule sets per file.
func extractDjangoOrSQLAlchemy(relPath, content string) []Table {
	var tables []Table

	for _, m := range djangoClassRe.FindAllStringSubmatchIndex(content, -1) {
		name := content[m[2]:m[3]]
		body := classBody(content, m[1])
		var cols []Column
		for _, f := range djangoFieldRe.FindAllStringSubmatch(body, -1) {
			cols = append(cols, Column{Name: f[1], Type: f[2], PrimaryKey: strings.Contains(f[3], "primary_key=True")})
		}
		var rels []Relation
		for _, r := range djangoFKRe.FindAllStringSubmatch(body, -1) {
			rels = append(rels, Relation{Kind: RelationBelongsTo, Target: r[1]})
		}
		tables = append(tables, Table{Name: name, File: relPath, Columns: cols, Relations: rels})
	}

	for _, m := range sqlaClassRe.FindAllStringSubmatchIndex(content, -1) {
		className := content[m[2]:m[3]]
		body := classBody(content, m[1])
		name := className
		if tm := sqlaTableRe.FindStringSubmatch(body); tm != nil {
			name = tm[1]
		}
		var cols []Column
		for _, c := range sqlaColumnRe.FindAllStringSubmatch(body, -1) {
			cols = append(cols, Column{Name: c[1], Type: c[2]})
		}
		var rels []Relation
		for _, r := range sqlaRelRe.FindAllStringSubmatch(body, -1) {
			rels = append(rels, Relation{Kind: RelationHasMany, Target: r[1]})
		}
		tables = append(tables, Table{Name: name, File: relPath, Columns: cols, Relations: rels})
	}

	return tables
}

// classBody returns a heuristic slice of source starting right after a
// Python class header, up to (but not including) the next top-level
// (unindented) line — a line-scan stand-in for Python's indentation
// block structure.
func classBody(content string, from int) string {
	lines := strings.Split(content[from:], "\n")
	var out []string
	for i, l := range lines {
		if i > 0 && l != "" && !strings.HasPrefix(l, " ") && !strings.HasPrefix(l, "\t") {
			break
		}
		out = append(out, l)
	}
	return strings.Join(out, "\n")
}

func extractActiveRecordModels(relPath, content string) []Table {
	var tables []Table
	for _, m := range activeRecordModelRe.FindAllStringSubmatchIndex(content, -1) {
		name := content[m[2]:m[3]]
		body := classBody(content, m[1])
		var rels []Relation
		for _, r := range activeRecordHasManyRe.FindAllStringSubmatch(body, -1) {
			rels = append(rels, Relation{Kind: RelationHasMany, Target: r[1]})
		}
		for _, r := range activeRecordBelongsToRe.FindAllStringSubmatch(body, -1) {
			rels = append(rels, Relation{Kind: RelationBelongsTo, Target: r[1]})
		}
		tables = append(tables, Table{Name: name, File: relPath, Relations: rels})
	}
	return tables
}

func extractKnexTables(relPath, content string) []Table {
	var tables []Table
	for _, m := range knexCreateTableRe.FindAllStringSubmatchIndex(content, -1) {
		name := content[m[2]:m[3]]
		body := classBody(content, m[1])
		var cols []Column
		for _, c := range knexColumnRe.FindAllStringSubmatch(body, -1) {
			cols = append(cols, Column{Name: c[2], Type: c[1]})
		}
		tables = append(tables, Table{Name: name, File: relPath, Columns: cols})
	}
	return tables
}

func isCapitalized(s string) bool {
	s = strings.TrimSuffix(s, "[]")
	s = strings.TrimSuffix(s, "?")
	return s != "" && s[0] >= 'A' && s[0] <= 'Z'
}

// buildTableModuleMapping links each detected table to every other
// scanned file whose raw content references the table name as a whole
// word, excluding the file that defines it.
func buildTableModuleMapping(meta ArtifactMeta, tables []Table, parsed []parsedFile) TableModuleMapping {
	result := map[string][]string{}
	for _, t := range tables {
		nameRe := regexp.MustCompile(`\b` + regexp.QuoteMeta(t.Name) + `\b`)
		var users []string
		for _, pf := range parsed {
			if pf.File.RelPath == t.File {
				continue
			}
			content, err := os.ReadFile(pf.File.AbsPath)
			if err != nil {
				continue
			}
			if nameRe.Match(content) {
				users = append(users, pf.File.RelPath)
			}
		}
		sort.Strings(users)
		result[t.Name] = users
	}
	return TableModuleMapping{Metadata: meta, Tables: result}
}
