package parser

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseJavaScript_BasicImports(t *testing.T) {
	src := `import React from 'react';
import { useState, useEffect } from 'react';
import * as Utils from './utils';
import './styles.css';
`
	res := parseJavaScript(src, "src/app.js")
	require.Len(t, res.Imports, 4)

	var utilsImport *Import
	for i := range res.Imports {
		if res.Imports[i].Source == "./utils" {
			utilsImport = &res.Imports[i]
		}
	}
	require.NotNil(t, utilsImport)
	require.Equal(t, ImportInternal, utilsImport.Type)

	require.Equal(t, []string{"React"}, res.Imports[0].Symbols)

	named := res.Imports[1]
	require.Contains(t, named.Symbols, "useState")
	require.Contains(t, named.Symbols, "useEffect")
}

func TestParseJavaScript_Exports(t *testing.T) {
	src := `export default function App() {}
export const X = 1;
export class Widget {}
export { a, b };
module.exports = { foo, bar };
`
	res := parseJavaScript(src, "src/app.js")
	var names []string
	for _, e := range res.Exports {
		names = append(names, e.Name)
	}
	require.Contains(t, names, "default")
	require.Contains(t, names, "X")
	require.Contains(t, names, "Widget")
	require.Contains(t, names, "a")
	require.Contains(t, names, "b")
	require.Contains(t, names, "foo")
	require.Contains(t, names, "bar")
}

func TestParseJavaScript_DynamicImport(t *testing.T) {
	res := parseJavaScript(`const mod = await import('./lazy');`, "a.js")
	require.Len(t, res.Imports, 1)
	require.True(t, res.Imports[0].IsDynamic)
	require.Equal(t, "./lazy", res.Imports[0].Source)
}

func TestParseJavaScript_CommonJS(t *testing.T) {
	res := parseJavaScript(`const { a, b } = require('./utils');`, "a.js")
	require.Len(t, res.Imports, 1)
	require.ElementsMatch(t, []string{"a", "b"}, res.Imports[0].Symbols)
}

func TestParseJavaScript_ReExport(t *testing.T) {
	res := parseJavaScript(`export * from './other';`, "a.js")
	require.Len(t, res.Imports, 1)
	require.Len(t, res.Exports, 1)
	require.Equal(t, ExportReExport, res.Exports[0].Type)
}

func TestParseJavaScript_EmptyAndCommentsOnly(t *testing.T) {
	res := parseJavaScript("", "a.js")
	require.Empty(t, res.Imports)
	require.Empty(t, res.Exports)
	require.Empty(t, res.Warnings)

	res = parseJavaScript("// just a comment\n/* block */\n", "a.js")
	require.Empty(t, res.Imports)
	require.Empty(t, res.Exports)
	require.Empty(t, res.Warnings)
}

func TestParseJavaScript_MalformedImport(t *testing.T) {
	res := parseJavaScript(`import from 'x';`, "a.js")
	require.Empty(t, res.Imports)
	require.NotEmpty(t, res.Warnings)
}
