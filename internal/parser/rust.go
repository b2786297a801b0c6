package parser

import (
	"regexp"
	"strings"
)

var (
	rustUse     = regexp.MustCompile(`^\s*(?:pub\s+)?use\s+([\w:]+)(?:::\{([^}]*)\}|::\*)?\s*;`)
	rustPubFn   = regexp.MustCompile(`^\s*pub\s+(?:async\s+)?fn\s+([A-Za-z_]\w*)`)
	rustPubItem = regexp.MustCompile(`^\s*pub\s+(struct|enum|trait|const|static|mod|type)\s+([A-Za-z_]\w*)`)

	exportTypeByRustKeyword = map[string]ExportType{
		"struct": ExportStruct,
		"enum":   ExportEnum,
		"trait":  ExportInterface,
		"const":  ExportConst,
		"static": ExportConst,
		"mod":    ExportNamed,
		"type":   ExportTypeAlias,
	}
)

func rustClassify(path string) ImportType {
	switch {
	case strings.HasPrefix(path, "crate::"), strings.HasPrefix(path, "self::"), strings.HasPrefix(path, "super::"):
		return ImportInternal
	case strings.HasPrefix(path, "std::"), path == "std":
		return ImportStdlib
	default:
		return ImportExternal
	}
}

// parseRust is the regex-driven line scanner for Rust.
func parseRust(content, _ string) Result {
	res := Result{Language: "rust"}
	clean := stripRustComments(content)
	lines := strings.Split(clean, "\n")

	for i, line := range lines {
		lineNo := i + 1

		if m := rustUse.FindStringSubmatch(line); m != nil {
			source := strings.TrimSuffix(m[1], "::")
			var symbols []string
			if m[2] != "" {
				symbols = parseNameList(m[2])
			} else {
				parts := strings.Split(source, "::")
				symbols = []string{parts[len(parts)-1]}
			}
			res.Imports = append(res.Imports, Import{Source: source, Symbols: symbols, Type: rustClassify(source), Line: lineNo})
			continue
		}
		if m := rustPubFn.FindStringSubmatch(line); m != nil {
			res.Exports = append(res.Exports, Export{Name: m[1], Type: ExportFunction, Line: lineNo, IsPublic: true})
			continue
		}
		if m := rustPubItem.FindStringSubmatch(line); m != nil {
			typ, ok := exportTypeByRustKeyword[m[1]]
			if !ok {
				typ = ExportNamed
			}
			res.Exports = append(res.Exports, Export{Name: m[2], Type: typ, Line: lineNo, IsPublic: true})
			continue
		}
	}

	return res
}
