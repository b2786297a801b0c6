package parser

import (
	"regexp"
	"strings"
)

var (
	pyImport     = regexp.MustCompile(`^\s*import\s+(.+)$`)
	pyFromImport = regexp.MustCompile(`^\s*from\s+(\.*[\w.]*)\s+import\s+(.+)$`)
	pyClassDecl  = regexp.MustCompile(`^class\s+([A-Za-z_]\w*)\s*[:(]`)
	pyFuncDecl   = regexp.MustCompile(`^def\s+([A-Za-z_]\w*)\s*\(`)
	pyAllAssign  = regexp.MustCompile(`^\s*__all__\s*=\s*\[`)
	pyQuoted     = regexp.MustCompile(`['"]([^'"]+)['"]`)
)

// pythonStdlib is a representative subset of Python's standard library root
// modules, sufficient to classify the overwhelming majority of real import
// statements as stdlib vs. external.
var pythonStdlib = map[string]bool{
	"os": true, "sys": true, "json": true, "typing": true, "pathlib": true,
	"collections": true, "re": true, "math": true, "datetime": true, "subprocess": true,
	"itertools": true, "functools": true, "logging": true, "unittest": true, "io": true,
	"time": true, "random": true, "string": true, "argparse": true, "asyncio": true,
	"threading": true, "multiprocessing": true, "socket": true, "http": true, "urllib": true,
	"abc": true, "enum": true, "dataclasses": true, "copy": true, "shutil": true, "tempfile": true,
	"hashlib": true, "base64": true, "csv": true, "sqlite3": true, "xml": true, "traceback": true,
}

func pyClassify(module string) ImportType {
	if strings.HasPrefix(module, ".") {
		return ImportInternal
	}
	root := strings.SplitN(module, ".", 2)[0]
	if pythonStdlib[root] {
		return ImportStdlib
	}
	return ImportExternal
}

// parsePython is the regex-driven line scanner for Python.
func parsePython(content, _ string) Result {
	res := Result{Language: "python"}
	clean := stripPythonComments(content)
	lines := strings.Split(clean, "\n")

	for i := 0; i < len(lines); i++ {
		line := lines[i]
		lineNo := i + 1

		if m := pyFromImport.FindStringSubmatch(line); m != nil {
			module := m[1]
			names := parseNameList(m[2])
			typ := pyClassify(module)
			if strings.HasPrefix(module, ".") {
				typ = ImportInternal
			}
			res.Imports = append(res.Imports, Import{Source: module, Symbols: names, Type: typ, Line: lineNo})
			continue
		}
		if m := pyImport.FindStringSubmatch(line); m != nil {
			for _, spec := range strings.Split(m[1], ",") {
				spec = strings.TrimSpace(spec)
				if spec == "" {
					continue
				}
				name := spec
				symbol := spec
				if idx := strings.Index(spec, " as "); idx >= 0 {
					name = strings.TrimSpace(spec[:idx])
					symbol = strings.TrimSpace(spec[idx+4:])
				}
				res.Imports = append(res.Imports, Import{Source: name, Symbols: []string{symbol}, Type: pyClassify(name), Line: lineNo})
			}
			continue
		}
		if pyAllAssign.MatchString(line) {
			// __all__ may span multiple lines until the closing bracket.
			buf := line
			j := i
			for !strings.Contains(buf, "]") && j+1 < len(lines) {
				j++
				buf += "\n" + lines[j]
			}
			for _, m := range pyQuoted.FindAllStringSubmatch(buf, -1) {
				res.Exports = append(res.Exports, Export{Name: m[1], Type: ExportNamed, Line: lineNo, IsPublic: true})
			}
			i = j
			continue
		}
		if m := pyClassDecl.FindStringSubmatch(line); m != nil {
			if !strings.HasPrefix(m[1], "_") {
				res.Exports = append(res.Exports, Export{Name: m[1], Type: ExportClass, Line: lineNo, IsPublic: true})
			}
			continue
		}
		if m := pyFuncDecl.FindStringSubmatch(line); m != nil {
			if !strings.HasPrefix(m[1], "_") {
				res.Exports = append(res.Exports, Export{Name: m[1], Type: ExportFunction, Line: lineNo, IsPublic: true})
			}
			continue
		}
	}

	return res
}
