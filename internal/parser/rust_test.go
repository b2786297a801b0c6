package parser

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseRust_Use(t *testing.T) {
	src := `use std::collections::HashMap;
use crate::models::{User, Post as BlogPost};
use super::helpers::*;
use serde::Serialize;
`
	res := parseRust(src, "lib.rs")
	require.Len(t, res.Imports, 4)

	require.Equal(t, ImportStdlib, res.Imports[0].Type)
	require.Equal(t, "std::collections::HashMap", res.Imports[0].Source)

	require.Equal(t, ImportInternal, res.Imports[1].Type)
	require.Equal(t, "crate::models", res.Imports[1].Source)
	require.ElementsMatch(t, []string{"User", "BlogPost"}, res.Imports[1].Symbols)

	require.Equal(t, ImportInternal, res.Imports[2].Type)

	require.Equal(t, ImportExternal, res.Imports[3].Type)
}

func TestParseRust_PubItems(t *testing.T) {
	src := `pub fn run() {}
fn hidden() {}
pub struct Config {}
pub enum Mode {}
pub trait Runner {}
pub const MAX: u32 = 10;
`
	res := parseRust(src, "lib.rs")
	var names []string
	for _, e := range res.Exports {
		names = append(names, e.Name)
	}
	require.Contains(t, names, "run")
	require.NotContains(t, names, "hidden")
	require.Contains(t, names, "Config")
	require.Contains(t, names, "Mode")
	require.Contains(t, names, "Runner")
	require.Contains(t, names, "MAX")
}
