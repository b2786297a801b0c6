// Package query implements the map loader, query router, intent-routing
// ask, and search described in SPEC_FULL.md §4.6.
package query

import (
	"encoding/json"
	"fmt"

	"github.com/kraklabs/projectmap/internal/compress"
	"github.com/kraklabs/projectmap/internal/project"
)

// Loader reads and decompresses artifacts from one project's output
// directory, caching the compression schema for the process lifetime per
// spec.md §6 ("loaded lazily and cached for the process").
type Loader struct {
	dir    string
	schema *compress.Schema
}

// NewLoader opens a loader rooted at dir (an output directory returned by
// project.OutputDir). The schema is loaded on first use, not here.
func NewLoader(dir string) *Loader {
	return &Loader{dir: dir}
}

func (l *Loader) ensureSchema() *compress.Schema {
	if l.schema == nil {
		path := l.dir + "/" + project.CompressionSchemaFile
		l.schema, _ = compress.LoadOrDefaultSchema(path)
	}
	return l.schema
}

// Load reads and decompresses the named artifact, returning its decoded
// generic value (map[string]any / []any / scalars).
func (l *Loader) Load(name string) (any, error) {
	path := project.ArtifactPath(l.dir, name)
	_, env, err := compress.ReadArtifact(path, l.ensureSchema())
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", name, err)
	}
	decoded, err := compress.Decompress(env, l.ensureSchema())
	if err != nil {
		return nil, fmt.Errorf("decompress %s: %w", name, err)
	}
	return decoded, nil
}

// LoadInto reads and decompresses the named artifact directly into v
// (a pointer to a concrete artifact struct from internal/mapgen),
// round-tripping through JSON once the generic tree is resolved.
func (l *Loader) LoadInto(name string, v any) error {
	decoded, err := l.Load(name)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(decoded)
	if err != nil {
		return fmt.Errorf("load %s: re-encode: %w", name, err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("load %s: decode into target: %w", name, err)
	}
	return nil
}
