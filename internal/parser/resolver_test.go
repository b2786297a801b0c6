package parser

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResolveImportPath_AsIs(t *testing.T) {
	scanned := map[string]bool{"src/utils.ts": true}
	resolved, internal := ResolveImportPath("./utils.ts", "src/app.ts", scanned)
	require.True(t, internal)
	require.Equal(t, "src/utils.ts", resolved)
}

func TestResolveImportPath_ExtensionFallback(t *testing.T) {
	scanned := map[string]bool{"src/utils.ts": true}
	resolved, internal := ResolveImportPath("./utils", "src/app.ts", scanned)
	require.True(t, internal)
	require.Equal(t, "src/utils.ts", resolved)
}

func TestResolveImportPath_IndexFallback(t *testing.T) {
	scanned := map[string]bool{"src/components/index.ts": true}
	resolved, internal := ResolveImportPath("./components", "src/app.ts", scanned)
	require.True(t, internal)
	require.Equal(t, "src/components/index.ts", resolved)
}

func TestResolveImportPath_Broken(t *testing.T) {
	scanned := map[string]bool{}
	resolved, internal := ResolveImportPath("./missing", "src/app.ts", scanned)
	require.True(t, internal)
	require.Equal(t, "src/missing", resolved)
}

func TestResolveImportPath_External(t *testing.T) {
	resolved, internal := ResolveImportPath("react", "src/app.ts", nil)
	require.False(t, internal)
	require.Equal(t, "react", resolved)
}
