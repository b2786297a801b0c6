package compress

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func TestCompress_RoundTrip_Level1(t *testing.T) {
	v := map[string]any{"a": "x", "b": 1.0, "c": []any{"y", "z"}}
	env, err := Compress(v, DefaultSchema(), Options{}, fixedNow)
	require.NoError(t, err)
	require.Equal(t, int(LevelMinify), env.Metadata.CompressionLevel)

	out, err := Decompress(env, DefaultSchema())
	require.NoError(t, err)

	var want, got []byte
	want, _ = json.Marshal(v)
	got, _ = json.Marshal(out)
	require.JSONEq(t, string(want), string(got))
}

func TestCompress_RoundTrip_Level2(t *testing.T) {
	v := map[string]any{"path": "src/index.js", "language": "javascript", "size": 100.0}
	env, err := Compress(v, DefaultSchema(), Options{ForceAbbreviation: true}, fixedNow)
	require.NoError(t, err)
	require.Equal(t, int(LevelAbbrev), env.Metadata.CompressionLevel)
	require.Equal(t, MethodKeyAbbreviation, env.Metadata.Method)

	out, err := Decompress(env, DefaultSchema())
	require.NoError(t, err)
	want, _ := json.Marshal(v)
	got, _ := json.Marshal(out)
	require.JSONEq(t, string(want), string(got))
}

func TestCompress_RoundTrip_Level3(t *testing.T) {
	files := make([]any, 0, 20)
	for i := 0; i < 20; i++ {
		files = append(files, map[string]any{
			"path":     fmt.Sprintf("src/file%d.js", i),
			"language": "javascript",
			"role":     "component",
		})
	}
	v := map[string]any{"files": files}

	env, err := Compress(v, DefaultSchema(), Options{ForceDeduplication: true}, fixedNow)
	require.NoError(t, err)
	require.Equal(t, int(LevelDedupe), env.Metadata.CompressionLevel)
	require.Equal(t, MethodValueDeduplication, env.Metadata.Method)
	require.Contains(t, env.References, CategoryFileTypes)
	require.Contains(t, env.References[CategoryFileTypes], "javascript")

	out, err := Decompress(env, DefaultSchema())
	require.NoError(t, err)
	want, _ := json.Marshal(v)
	got, _ := json.Marshal(out)
	require.JSONEq(t, string(want), string(got))
}

func TestCompress_SchemaMissing_DegradesToLevel1(t *testing.T) {
	v := map[string]any{"path": "a/b.js"}
	env, err := Compress(v, nil, Options{ForceDeduplication: true}, fixedNow)
	require.NoError(t, err)
	require.Equal(t, int(LevelMinify), env.Metadata.CompressionLevel)
}

func TestDeduplicateValues_Threshold(t *testing.T) {
	counts := map[string]map[string]int{"fileTypes": {"js": 2}}
	index := map[string]map[string]int{}
	refs := map[string][]string{}

	body := map[string]any{"lang": "js"}
	out := rewriteLeaves(body, "", counts, index, refs)
	m := out.(map[string]any)
	require.Equal(t, "js", m["lang"], "below threshold must stay inline")
	require.Empty(t, refs)

	counts["fileTypes"]["js"] = 3
	out = rewriteLeaves(body, "", counts, index, refs)
	m = out.(map[string]any)
	require.Equal(t, "@fileTypes:0", m["lang"])
	require.Equal(t, []string{"js"}, refs["fileTypes"])
}

// Scenario 1 (spec.md §8): minification ratio >= 0.20.
func TestScenario_MinificationRatio(t *testing.T) {
	v := map[string]any{
		"files": []any{
			map[string]any{"path": "src/index.js", "type": "javascript"},
			map[string]any{"path": "src/app.js", "type": "javascript"},
			map[string]any{"path": "src/utils.js", "type": "javascript"},
		},
	}
	pretty, err := json.MarshalIndent(v, "", "  ")
	require.NoError(t, err)
	minified, err := json.Marshal(v)
	require.NoError(t, err)

	l1 := float64(len(pretty))
	l2 := float64(len(minified))
	ratio := (l1 - l2) / l1
	require.GreaterOrEqual(t, ratio, 0.20)
}

// Scenario 2 (spec.md §8): 500-record dataset at level 3, ratio in [0.60, 0.85].
func TestScenario_LargeDatasetRatio(t *testing.T) {
	records := make([]any, 0, 500)
	for i := 0; i < 500; i++ {
		records = append(records, map[string]any{
			"path":         fmt.Sprintf("src/components/Widget%d.tsx", i),
			"type":         "javascript",
			"role":         "component",
			"lines":        150.0,
			"size":         4500.0,
			"dependencies": []any{"react", "react-dom", "lodash", "axios"},
			"imports":      []any{"./utils", "./constants", "./hooks"},
		})
	}
	v := map[string]any{"records": records}

	env, err := Compress(v, DefaultSchema(), Options{}, fixedNow)
	require.NoError(t, err)
	require.Equal(t, int(LevelDedupe), env.Metadata.CompressionLevel)
	require.Equal(t, MethodValueDeduplication, env.Metadata.Method)
	require.GreaterOrEqual(t, env.Metadata.CompressionRatio, 0.60)
	require.LessOrEqual(t, env.Metadata.CompressionRatio, 0.85)
}

func TestWriteAndReadArtifact_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/summary.json"
	v := map[string]any{"path": "src/a.js", "language": "javascript"}

	_, err := WriteArtifact(path, v, DefaultSchema(), Options{}, fixedNow)
	require.NoError(t, err)

	out, env, err := ReadArtifact(path, DefaultSchema())
	require.NoError(t, err)
	require.True(t, env.Compressed)

	want, _ := json.Marshal(v)
	got, _ := json.Marshal(out)
	require.JSONEq(t, string(want), string(got))
}
