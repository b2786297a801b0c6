package project

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the per-project configuration file, ".projectmap/config.yaml"
// at the project root. Every field is optional; zero values fall back to
// the documented defaults in spec.
type Config struct {
	ProjectID        string   `yaml:"project_id,omitempty"`
	ExcludeGlobs     []string `yaml:"exclude_globs,omitempty"`
	MaxFileSizeBytes int64    `yaml:"max_file_size_bytes,omitempty"`
	SchemaPath       string   `yaml:"compression_schema_path,omitempty"`
}

// DefaultMaxFileSize is the scanner's default per-file size cap (2 MiB).
const DefaultMaxFileSize = 2 << 20

// ConfigRelPath is the project-relative path to the config file.
const ConfigRelPath = ".projectmap/config.yaml"

// LoadConfig reads <root>/.projectmap/config.yaml. A missing file is not an
// error: it returns a zero-value Config with defaults applied.
func LoadConfig(root string) (*Config, error) {
	path := filepath.Join(root, ConfigRelPath)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg := &Config{MaxFileSizeBytes: DefaultMaxFileSize}
			return cfg, nil
		}
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	if cfg.MaxFileSizeBytes == 0 {
		cfg.MaxFileSizeBytes = DefaultMaxFileSize
	}
	return &cfg, nil
}

// Save writes the config back to <root>/.projectmap/config.yaml, creating
// the directory if needed.
func (c *Config) Save(root string) error {
	dir := filepath.Join(root, ".projectmap")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, "config.yaml"), data, 0o644)
}
