package compress

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultSchema_ReverseMapping(t *testing.T) {
	s := DefaultSchema()
	require.Equal(t, "p", s.KeyMappings.Mappings["path"])
	require.Equal(t, "path", s.abbrevToLong["p"])
}

func TestLoadSchema_SaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".compression-schema.json")

	s := DefaultSchema()
	s.ValueRefs.FileTypes = []string{"javascript", "python"}
	require.NoError(t, s.Save(path))

	loaded, err := LoadSchema(path)
	require.NoError(t, err)
	require.Equal(t, s.Version, loaded.Version)
	require.Equal(t, s.KeyMappings.Mappings["path"], loaded.KeyMappings.Mappings["path"])
	require.Equal(t, []string{"javascript", "python"}, loaded.ValueRefs.FileTypes)
	require.Equal(t, "path", loaded.abbrevToLong["p"])
}

func TestLoadSchema_MissingFile(t *testing.T) {
	_, err := LoadSchema("/nonexistent/schema.json")
	require.Error(t, err)
}

func TestLoadOrDefaultSchema_FallsBackOnMissing(t *testing.T) {
	schema, warning := LoadOrDefaultSchema("/nonexistent/schema.json")
	require.NotEmpty(t, warning)
	require.Equal(t, "p", schema.KeyMappings.Mappings["path"])
}
