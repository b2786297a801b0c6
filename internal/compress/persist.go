package compress

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// WriteArtifact compresses v and writes it to path atomically: stage to
// "<path>.tmp", then rename over path. A failed rename leaves the previous
// artifact untouched, matching spec.md §7's Write error kind.
func WriteArtifact(path string, v any, schema *Schema, opts Options, now time.Time) (*Envelope, error) {
	env, err := Compress(v, schema, opts, now)
	if err != nil {
		return nil, fmt.Errorf("write artifact %s: %w", path, err)
	}

	data, err := json.MarshalIndent(env, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("write artifact %s: marshal envelope: %w", path, err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("write artifact %s: mkdir: %w", path, err)
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return nil, fmt.Errorf("write artifact %s: write temp: %w", path, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return nil, fmt.Errorf("write artifact %s: rename: %w", path, err)
	}
	return env, nil
}

// ReadArtifact loads and decompresses the artifact at path, returning the
// generic decoded value.
func ReadArtifact(path string, schema *Schema) (any, *Envelope, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read artifact %s: %w", path, err)
	}
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, nil, fmt.Errorf("read artifact %s: parse envelope: %w", path, err)
	}
	body, err := Decompress(&env, schema)
	if err != nil {
		return nil, nil, fmt.Errorf("read artifact %s: %w", path, err)
	}
	return body, &env, nil
}

// LoadOrDefaultSchema loads the schema at schemaPath, falling back to
// DefaultSchema (with a reported warning) if the file is missing or
// invalid, per spec.md §7's Schema error kind.
func LoadOrDefaultSchema(schemaPath string) (*Schema, string) {
	schema, err := LoadSchema(schemaPath)
	if err != nil {
		return DefaultSchema(), fmt.Sprintf("compression schema unavailable (%v); using built-in defaults", err)
	}
	return schema, ""
}
