package query

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/kraklabs/projectmap/internal/compress"
	"github.com/kraklabs/projectmap/internal/project"
)

var fixedNow = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func writeArtifact(t *testing.T, dir, name string, v any) {
	t.Helper()
	_, err := compress.WriteArtifact(project.ArtifactPath(dir, name), v, compress.DefaultSchema(), compress.Options{}, fixedNow)
	require.NoError(t, err)
}

func TestRouter_Query_QuickAnswer(t *testing.T) {
	dir := t.TempDir()
	writeArtifact(t, dir, project.ArtifactQuickQueries, map[string]any{
		"metadata": map[string]any{"projectKey": "p", "generated": "now"},
		"answers": map[string]any{
			"entryPoints": []string{"src/index.js"},
			"framework":   map[string]any{"name": "React", "type": "frontend-spa", "confidence": 0.8},
		},
	})

	r := NewRouter(NewLoader(dir))
	got, err := r.Query("entry-points")
	require.NoError(t, err)
	require.Equal(t, []any{"src/index.js"}, got)
}

func TestRouter_Query_UnknownType(t *testing.T) {
	dir := t.TempDir()
	r := NewRouter(NewLoader(dir))
	_, err := r.Query("not-a-real-type")
	require.Error(t, err)
}

func TestRouter_Query_ExtendedTypeLoadsTierArtifact(t *testing.T) {
	dir := t.TempDir()
	writeArtifact(t, dir, project.ArtifactIssues, map[string]any{
		"metadata":      map[string]any{},
		"brokenImports": []any{},
		"unusedFiles":   []string{"orphan.js"},
	})

	r := NewRouter(NewLoader(dir))
	got, err := r.Query("issues")
	require.NoError(t, err)
	m := got.(map[string]any)
	require.Equal(t, []any{"orphan.js"}, m["unusedFiles"])
}

func TestRouter_Search_MatchesExportedSymbol(t *testing.T) {
	dir := t.TempDir()
	writeArtifact(t, dir, project.ArtifactContentSummaries, map[string]any{
		"metadata": map[string]any{},
		"summaries": map[string]any{
			"src/auth.js": map[string]any{
				"exports": []string{"loginUser", "logoutUser"},
				"imports": []string{},
			},
			"src/util.js": map[string]any{
				"exports": []string{"formatDate"},
				"imports": []string{},
			},
		},
	})

	r := NewRouter(NewLoader(dir))
	hits, err := r.Search("login", "")
	require.NoError(t, err)
	require.Len(t, hits, 1)
	require.Equal(t, "src/auth.js", hits[0].Path)
	require.Equal(t, "loginUser", hits[0].Symbol)
}
