package query

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRouteIntent_KnownKeywords(t *testing.T) {
	require.Equal(t, "entry-points", RouteIntent("where do I start reading this repo?"))
	require.Equal(t, "tests", RouteIntent("where are the tests located"))
	require.Equal(t, "largest", RouteIntent("what are the biggest files"))
	require.Equal(t, "dependencies", RouteIntent("what does this file import"))
	require.Equal(t, "issues", RouteIntent("any circular dependencies?"))
	require.Equal(t, "framework", RouteIntent("what framework or stack is this"))
}

func TestRouteIntent_FallsBackToStructure(t *testing.T) {
	require.Equal(t, "structure", RouteIntent("tell me something unrelated"))
}

func TestLooksLikeSymbol(t *testing.T) {
	require.True(t, looksLikeSymbol("what does getUserById do"))
	require.True(t, looksLikeSymbol("explain db.connect usage"))
	require.False(t, looksLikeSymbol("what is this project about"))
}
