// Package scanner walks a project tree and produces the ordered,
// deduplicated list of ScannedFile records that every downstream component
// consumes.
package scanner

import (
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"

	cerrors "github.com/kraklabs/projectmap/internal/errors"
)

// Role classifies a scanned file's purpose.
type Role string

const (
	RoleSource  Role = "source"
	RoleTest    Role = "test"
	RoleConfig  Role = "config"
	RoleDoc     Role = "doc"
	RoleBuild   Role = "build"
	RoleAsset   Role = "asset"
	RoleUnknown Role = "unknown"
)

// File is one scanned source file. Identity is RelPath; File values are
// immutable once produced by Scan.
type File struct {
	RelPath    string `json:"path"`
	AbsPath    string `json:"-"`
	Size       int64  `json:"size"`
	Extension  string `json:"extension"`
	Language   string `json:"language"`
	ModifiedAt int64  `json:"modifiedAt"`
	Role       Role   `json:"role"`
}

// Options configures a Scan call.
type Options struct {
	// ExtraIgnoreGlobs are doublestar patterns evaluated in addition to
	// .gitignore files and the built-in ignore set.
	ExtraIgnoreGlobs []string
	// MaxFileSize skips any file at or above this many bytes. Zero means
	// the default 2 MiB cap.
	MaxFileSize int64
}

const defaultMaxFileSize = 2 << 20

// builtinIgnoreDirs mirrors the teacher's repository walker's exclusion
// set, generalized with the additional directories spec.md names.
var builtinIgnoreDirs = map[string]bool{
	".git":          true,
	"node_modules":  true,
	"dist":          true,
	"build":         true,
	"out":           true,
	"target":        true,
	".next":         true,
	".cache":        true,
	"coverage":      true,
	".nyc_output":   true,
	"__pycache__":   true,
	".pytest_cache": true,
	".venv":         true,
	"venv":          true,
	"env":           true,
	".idea":         true,
	".vscode":       true,
}

var binaryExtensions = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true, ".bmp": true, ".ico": true, ".webp": true,
	".mp3": true, ".wav": true, ".flac": true, ".ogg": true,
	".mp4": true, ".mov": true, ".avi": true, ".mkv": true, ".webm": true,
	".zip": true, ".tar": true, ".gz": true, ".bz2": true, ".7z": true, ".rar": true,
	".exe": true, ".dll": true, ".so": true, ".dylib": true, ".bin": true, ".o": true, ".a": true,
	".pdf": true, ".woff": true, ".woff2": true, ".ttf": true, ".eot": true,
	".class": true, ".jar": true, ".pyc": true, ".wasm": true,
}

// Warning is a non-fatal per-file issue accumulated during a scan.
type Warning struct {
	Path    string
	Message string
}

// Result is the output of a full scan.
type Result struct {
	Files    []File
	Warnings []Warning
}

// Scan walks root and returns a deterministic, sorted file list. root must
// be an absolute, existing directory; an unreadable root is a fatal
// *errors.UserError.
func Scan(root string, opts Options) (*Result, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, cerrors.NewInputError(
			"project root is not accessible",
			err.Error(),
			"pass an existing, readable directory with --path",
		)
	}
	if !info.IsDir() {
		return nil, cerrors.NewInputError(
			"project root is not a directory",
			root+" is a file",
			"pass a directory with --path",
		)
	}

	maxSize := opts.MaxFileSize
	if maxSize <= 0 {
		maxSize = defaultMaxFileSize
	}

	ig := newIgnoreSet(root, opts.ExtraIgnoreGlobs)

	type walkJob struct {
		path string
		info os.FileInfo
	}

	var (
		mu       sync.Mutex
		files    []File
		warnings []Warning
		wg       sync.WaitGroup
		jobs     = make(chan walkJob, 256)
	)

	workers := runtime.NumCPU()
	if workers < 1 {
		workers = 1
	}
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobs {
				f, skip, warnMsg := classify(root, job.path, job.info, maxSize)
				mu.Lock()
				if warnMsg != "" {
					warnings = append(warnings, Warning{Path: relOrSelf(root, job.path), Message: warnMsg})
				} else if !skip {
					files = append(files, f)
				}
				mu.Unlock()
			}
		}()
	}

	walkErr := filepath.Walk(root, func(path string, fi os.FileInfo, err error) error {
		if err != nil {
			mu.Lock()
			warnings = append(warnings, Warning{Path: relOrSelf(root, path), Message: err.Error()})
			mu.Unlock()
			return nil
		}
		rel := relOrSelf(root, path)
		if fi.IsDir() {
			if rel != "." && shouldSkipDir(rel, ig) {
				return filepath.SkipDir
			}
			return nil
		}
		if shouldSkipFile(rel, ig) {
			return nil
		}
		jobs <- walkJob{path: path, info: fi}
		return nil
	})
	close(jobs)
	wg.Wait()

	if walkErr != nil {
		return nil, cerrors.NewFilesystemError("failed to walk project root", walkErr.Error(), "check directory permissions", walkErr)
	}

	sort.Slice(files, func(i, j int) bool { return files[i].RelPath < files[j].RelPath })
	sort.Slice(warnings, func(i, j int) bool { return warnings[i].Path < warnings[j].Path })

	// Deduplicate by RelPath, keeping the first occurrence (stable after sort).
	deduped := files[:0]
	var last string
	for i, f := range files {
		if i > 0 && f.RelPath == last {
			continue
		}
		deduped = append(deduped, f)
		last = f.RelPath
	}

	return &Result{Files: deduped, Warnings: warnings}, nil
}

func shouldSkipDir(rel string, ig *ignoreSet) bool {
	base := filepath.Base(rel)
	if builtinIgnoreDirs[base] {
		return true
	}
	if strings.HasPrefix(base, ".") && base != ".github" {
		return true
	}
	return ig.matches(rel, true)
}

func shouldSkipFile(rel string, ig *ignoreSet) bool {
	ext := strings.ToLower(filepath.Ext(rel))
	if binaryExtensions[ext] {
		return true
	}
	return ig.matches(rel, false)
}

func classify(root, abspath string, fi os.FileInfo, maxSize int64) (File, bool, string) {
	if fi.Size() >= maxSize {
		return File{}, true, ""
	}
	rel := relOrSelf(root, abspath)
	rel = filepath.ToSlash(rel)
	ext := strings.ToLower(filepath.Ext(rel))
	ext = strings.TrimPrefix(ext, ".")

	f := File{
		RelPath:    rel,
		AbsPath:    abspath,
		Size:       fi.Size(),
		Extension:  ext,
		ModifiedAt: fi.ModTime().Unix(),
	}
	f.Language = detectLanguage(rel, ext)
	f.Role = detectRole(rel, f.Language)
	return f, false, ""
}

// languageByExt mirrors the teacher's detectLanguageFromPath extension
// table, generalized to the five parser back-ends plus auxiliary tags the
// generator needs for framework/role detection.
var languageByExt = map[string]string{
	"js": "javascript", "jsx": "javascript", "mjs": "javascript", "cjs": "javascript",
	"ts": "typescript", "tsx": "typescript",
	"py": "python", "pyi": "python",
	"go": "go",
	"rs": "rust",
	"java": "java", "kt": "kotlin", "scala": "scala",
	"rb": "ruby", "php": "php", "cs": "csharp", "swift": "swift",
	"c": "c", "h": "c", "cc": "cpp", "cpp": "cpp", "hpp": "cpp",
	"sh": "bash", "bash": "bash", "zsh": "bash", "fish": "bash",
	"sql": "sql",
	"md": "markdown", "rst": "markdown",
	"json": "config", "yaml": "config", "yml": "config", "toml": "config",
	"proto": "protobuf",
}

func detectLanguage(rel, ext string) string {
	base := filepath.Base(rel)
	switch base {
	case "Dockerfile", "Makefile":
		return "build"
	}
	if lang, ok := languageByExt[ext]; ok {
		return lang
	}
	return "unknown"
}

var testPathFragments = []string{"/tests/", "/__tests__/", "/test/"}

func detectRole(rel, language string) Role {
	base := filepath.Base(rel)
	lowerRel := "/" + strings.ToLower(rel) + "/"
	for _, frag := range testPathFragments {
		if strings.Contains(lowerRel, frag) {
			return RoleTest
		}
	}
	if matched, _ := doublestar.Match("*.test.*", base); matched {
		return RoleTest
	}
	if matched, _ := doublestar.Match("*.spec.*", base); matched {
		return RoleTest
	}

	switch base {
	case "Dockerfile", "Makefile", "Cargo.toml", "package.json", "pyproject.toml", "go.mod":
		return RoleBuild
	}
	if strings.HasPrefix(base, ".eslintrc") {
		return RoleConfig
	}
	if matched, _ := doublestar.Match("tsconfig*.json", base); matched {
		return RoleConfig
	}
	if matched, _ := doublestar.Match("*.config.*", base); matched {
		return RoleConfig
	}
	if !strings.Contains(rel, "/") || strings.HasPrefix(rel, "config/") {
		if language == "config" {
			return RoleConfig
		}
	}

	switch language {
	case "markdown":
		return RoleDoc
	case "config":
		return RoleConfig
	}

	ext := strings.ToLower(filepath.Ext(rel))
	switch ext {
	case ".png", ".jpg", ".jpeg", ".gif", ".svg", ".css", ".scss", ".less":
		return RoleAsset
	}

	if language == "unknown" {
		return RoleUnknown
	}
	return RoleSource
}

func relOrSelf(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return path
	}
	return rel
}
