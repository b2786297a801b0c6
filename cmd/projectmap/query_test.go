package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/kraklabs/projectmap/internal/compress"
	"github.com/kraklabs/projectmap/internal/project"
)

var queryTestNow = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func writeQueryFixture(t *testing.T, dir, name string, v any) {
	t.Helper()
	_, err := compress.WriteArtifact(project.ArtifactPath(dir, name), v, compress.DefaultSchema(), compress.Options{}, queryTestNow)
	require.NoError(t, err)
}

func TestResolveQuery_UnknownTypeReturnsExitTwoAndEnumeratesValidTypes(t *testing.T) {
	dir := t.TempDir()
	_, uerr := resolveQuery(dir, "not-a-real-type")
	require.NotNil(t, uerr)
	require.Equal(t, 2, uerr.ExitCode)
	require.Contains(t, uerr.Fix, "entry-points")
	require.Contains(t, uerr.Fix, "framework")
}

func TestResolveQuery_KnownTypeLoadsQuickAnswer(t *testing.T) {
	dir := t.TempDir()
	writeQueryFixture(t, dir, project.ArtifactQuickQueries, map[string]any{
		"metadata": map[string]any{"projectKey": "p", "generated": "now"},
		"answers": map[string]any{
			"entryPoints": []string{"src/index.js"},
		},
	})

	data, uerr := resolveQuery(dir, "entry-points")
	require.Nil(t, uerr)
	require.Equal(t, []any{"src/index.js"}, data)
}

func TestResolveQuery_MissingArtifactIsFilesystemError(t *testing.T) {
	dir := t.TempDir()
	_, uerr := resolveQuery(dir, "entry-points")
	require.NotNil(t, uerr)
	require.Equal(t, 2, uerr.ExitCode)
}

func TestResolveAsk_RoutesQuestionToQuickAnswer(t *testing.T) {
	dir := t.TempDir()
	writeQueryFixture(t, dir, project.ArtifactQuickQueries, map[string]any{
		"metadata": map[string]any{"projectKey": "p", "generated": "now"},
		"answers": map[string]any{
			"testLocation": map[string]any{"pattern": "*_test.go"},
		},
	})

	data, uerr := resolveAsk(dir, "where are the tests located")
	require.Nil(t, uerr)
	require.NotNil(t, data)
}
