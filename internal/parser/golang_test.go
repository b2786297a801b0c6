package parser

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseGo_Imports(t *testing.T) {
	src := `package main

import "fmt"

import (
	"net/http"
	alias "github.com/kraklabs/projectmap/internal/scanner"
)
`
	res := parseGo(src, "main.go")
	require.Len(t, res.Imports, 3)

	bySource := map[string]Import{}
	for _, imp := range res.Imports {
		bySource[imp.Source] = imp
	}
	require.Equal(t, ImportStdlib, bySource["fmt"].Type)
	require.Equal(t, ImportStdlib, bySource["net/http"].Type)
	require.Equal(t, ImportExternal, bySource["github.com/kraklabs/projectmap/internal/scanner"].Type)
	require.Equal(t, []string{"alias"}, bySource["github.com/kraklabs/projectmap/internal/scanner"].Symbols)
}

func TestParseGo_Exports(t *testing.T) {
	src := `package main

func PublicFunc() {}
func privateFunc() {}

type Widget struct{}
type hidden struct{}
type Reader interface{}

var GlobalVar = 1
const MaxSize = 10
`
	res := parseGo(src, "main.go")
	var names []string
	for _, e := range res.Exports {
		names = append(names, e.Name)
	}
	require.Contains(t, names, "PublicFunc")
	require.NotContains(t, names, "privateFunc")
	require.Contains(t, names, "Widget")
	require.NotContains(t, names, "hidden")
	require.Contains(t, names, "Reader")
	require.Contains(t, names, "GlobalVar")
	require.Contains(t, names, "MaxSize")
}
