package parser

import (
	"regexp"
	"strings"
)

var (
	jsStaticImportDefault = regexp.MustCompile(`^\s*import\s+([A-Za-z_$][\w$]*)\s*,?\s*(\{[^}]*\})?\s*from\s*['"]([^'"]+)['"]`)
	jsNamedImport         = regexp.MustCompile(`^\s*import\s+\{([^}]*)\}\s*from\s*['"]([^'"]+)['"]`)
	jsNamespaceImport     = regexp.MustCompile(`^\s*import\s*\*\s*as\s+([A-Za-z_$][\w$]*)\s*from\s*['"]([^'"]+)['"]`)
	jsSideEffectImport    = regexp.MustCompile(`^\s*import\s*['"]([^'"]+)['"]`)
	jsDynamicImport       = regexp.MustCompile(`import\s*\(\s*['"]([^'"]+)['"]\s*\)`)
	jsRequire             = regexp.MustCompile(`require\(\s*['"]([^'"]+)['"]\s*\)`)
	jsRequireConst        = regexp.MustCompile(`^\s*const\s+(\{[^}]*\}|[A-Za-z_$][\w$]*)\s*=\s*require\(\s*['"]([^'"]+)['"]\s*\)`)
	jsReExportStar        = regexp.MustCompile(`^\s*export\s*\*\s*from\s*['"]([^'"]+)['"]`)
	jsReExportNamed       = regexp.MustCompile(`^\s*export\s*\{([^}]*)\}\s*from\s*['"]([^'"]+)['"]`)
	jsExportDefault       = regexp.MustCompile(`^\s*export\s+default\b`)
	jsExportNamedDecl     = regexp.MustCompile(`^\s*export\s+(?:const|let|var)\s+([A-Za-z_$][\w$]*)`)
	jsExportFunction      = regexp.MustCompile(`^\s*export\s+(?:async\s+)?function\s*\*?\s+([A-Za-z_$][\w$]*)`)
	jsExportClass         = regexp.MustCompile(`^\s*export\s+class\s+([A-Za-z_$][\w$]*)`)
	jsExportBraces        = regexp.MustCompile(`^\s*export\s*\{([^}]*)\}\s*;?\s*$`)
	jsModuleExportsObj    = regexp.MustCompile(`^\s*module\.exports\s*=\s*\{([^}]*)\}`)
	jsModuleExports       = regexp.MustCompile(`^\s*module\.exports(?:\.([A-Za-z_$][\w$]*))?\s*=`)

	nodeBuiltins = map[string]bool{
		"fs": true, "path": true, "http": true, "https": true, "crypto": true, "os": true,
		"util": true, "events": true, "stream": true, "child_process": true, "net": true,
		"url": true, "querystring": true, "zlib": true, "buffer": true, "assert": true,
		"process": true, "readline": true, "dns": true, "tls": true, "cluster": true,
	}
)

func jsClassify(source string) ImportType {
	if strings.HasPrefix(source, "./") || strings.HasPrefix(source, "../") || strings.HasPrefix(source, "/") {
		return ImportInternal
	}
	return ImportExternal
}

func parseNameList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		// "a as c" -> local name c; "a" -> a
		if idx := strings.Index(part, " as "); idx >= 0 {
			local := strings.TrimSpace(part[idx+4:])
			out = append(out, local)
		} else {
			out = append(out, part)
		}
	}
	return out
}

// parseJavaScript is the regex-driven line scanner for JavaScript and
// TypeScript. It never fails on malformed input: an unmatched construct
// yields no record plus a Warning.
func parseJavaScript(content, _ string) Result {
	res := Result{Language: "javascript"}
	clean := stripCStyleComments(content)
	lines := strings.Split(clean, "\n")

	for i, line := range lines {
		lineNo := i + 1

		if m := jsNamespaceImport.FindStringSubmatch(line); m != nil {
			res.Imports = append(res.Imports, Import{Source: m[2], Symbols: []string{m[1]}, Type: jsClassify(m[2]), Line: lineNo})
			continue
		}
		if m := jsNamedImport.FindStringSubmatch(line); m != nil {
			res.Imports = append(res.Imports, Import{Source: m[2], Symbols: parseNameList(m[1]), Type: jsClassify(m[2]), Line: lineNo})
			continue
		}
		if m := jsStaticImportDefault.FindStringSubmatch(line); m != nil {
			symbols := []string{m[1]}
			res.Imports = append(res.Imports, Import{Source: m[3], Symbols: symbols, Type: jsClassify(m[3]), Line: lineNo})
			if m[2] != "" {
				named := strings.TrimSuffix(strings.TrimPrefix(m[2], "{"), "}")
				res.Imports = append(res.Imports, Import{Source: m[3], Symbols: parseNameList(named), Type: jsClassify(m[3]), Line: lineNo})
			}
			continue
		}
		if m := jsReExportStar.FindStringSubmatch(line); m != nil {
			res.Imports = append(res.Imports, Import{Source: m[1], Type: ImportType("re-export-import"), Line: lineNo})
			res.Exports = append(res.Exports, Export{Name: "*", Type: ExportReExport, Line: lineNo, IsPublic: true})
			continue
		}
		if m := jsReExportNamed.FindStringSubmatch(line); m != nil {
			names := parseNameList(m[1])
			res.Imports = append(res.Imports, Import{Source: m[2], Symbols: names, Type: ImportType("re-export-import"), Line: lineNo})
			for _, n := range names {
				res.Exports = append(res.Exports, Export{Name: n, Type: ExportReExport, Line: lineNo, IsPublic: true})
			}
			continue
		}
		if m := jsSideEffectImport.FindStringSubmatch(line); m != nil {
			res.Imports = append(res.Imports, Import{Source: m[1], Symbols: []string{}, Type: jsClassify(m[1]), Line: lineNo})
			continue
		}
		if m := jsRequireConst.FindStringSubmatch(line); m != nil {
			target := m[1]
			var symbols []string
			if strings.HasPrefix(target, "{") {
				symbols = parseNameList(strings.TrimSuffix(strings.TrimPrefix(target, "{"), "}"))
			} else {
				symbols = []string{target}
			}
			res.Imports = append(res.Imports, Import{Source: m[2], Symbols: symbols, Type: jsClassify(m[2]), Line: lineNo})
			continue
		}
		if m := jsRequire.FindStringSubmatch(line); m != nil && jsRequireConst.FindStringSubmatch(line) == nil {
			res.Imports = append(res.Imports, Import{Source: m[1], Symbols: []string{}, Type: jsClassify(m[1]), Line: lineNo})
			continue
		}
		if m := jsDynamicImport.FindStringSubmatch(line); m != nil {
			res.Imports = append(res.Imports, Import{Source: m[1], Type: jsClassify(m[1]), IsDynamic: true, Line: lineNo})
			continue
		}

		if jsExportDefault.MatchString(line) {
			res.Exports = append(res.Exports, Export{Name: "default", Type: ExportDefault, Line: lineNo, IsPublic: true})
			continue
		}
		if m := jsExportNamedDecl.FindStringSubmatch(line); m != nil {
			res.Exports = append(res.Exports, Export{Name: m[1], Type: ExportNamed, Line: lineNo, IsPublic: true})
			continue
		}
		if m := jsExportFunction.FindStringSubmatch(line); m != nil {
			res.Exports = append(res.Exports, Export{Name: m[1], Type: ExportFunction, Line: lineNo, IsPublic: true})
			continue
		}
		if m := jsExportClass.FindStringSubmatch(line); m != nil {
			res.Exports = append(res.Exports, Export{Name: m[1], Type: ExportClass, Line: lineNo, IsPublic: true})
			continue
		}
		if m := jsExportBraces.FindStringSubmatch(line); m != nil {
			for _, n := range parseNameList(m[1]) {
				res.Exports = append(res.Exports, Export{Name: n, Type: ExportNamed, Line: lineNo, IsPublic: true})
			}
			continue
		}
		if m := jsModuleExportsObj.FindStringSubmatch(line); m != nil {
			for _, n := range parseNameList(m[1]) {
				res.Exports = append(res.Exports, Export{Name: n, Type: ExportCommonJS, Line: lineNo, IsPublic: true})
			}
			continue
		}
		if m := jsModuleExports.FindStringSubmatch(line); m != nil {
			name := m[1]
			if name == "" {
				name = "default"
			}
			res.Exports = append(res.Exports, Export{Name: name, Type: ExportCommonJS, Line: lineNo, IsPublic: true})
			continue
		}

		trimmedLine := strings.TrimSpace(line)
		if strings.HasPrefix(trimmedLine, "import ") || strings.HasPrefix(trimmedLine, "import{") || strings.HasPrefix(trimmedLine, "import(") {
			res.Warnings = append(res.Warnings, Warning{Line: lineNo, Message: "malformed import statement"})
		}
	}

	_ = nodeBuiltins // reserved for callers that want stdlib tagging; spec treats node builtins as external for JS tests.
	return res
}
