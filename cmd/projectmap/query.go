package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/kraklabs/projectmap/internal/contract"
	cerrors "github.com/kraklabs/projectmap/internal/errors"
	"github.com/kraklabs/projectmap/internal/query"
	"github.com/kraklabs/projectmap/internal/ui"
)

func runQuery(args []string) {
	fs := flag.NewFlagSet("query", flag.ExitOnError)
	path := fs.String("path", ".", "Project root")
	g, rest := parseGlobal(fs, args)
	ui.InitColors(g.NoColor)

	if len(rest) == 0 {
		fmt.Fprintln(os.Stderr, "usage: projectmap query <type> [--path .] [--json]")
		os.Exit(cerrors.ExitInput)
	}
	queryType := rest[0]
	dir := openOutputDir(*path, g)
	data, uerr := resolveQuery(dir, queryType)
	if uerr != nil {
		cerrors.FatalError(uerr, g.JSON)
	}
	emit(data, g)
}

// resolveQuery implements the `query` subcommand's dispatch: reject a type
// outside contract.QueryTypes with the exit-2 enumeration spec.md §6
// requires, otherwise route it through the loader-backed Router. Split out
// from runQuery so the dispatch logic is testable without os.Exit.
func resolveQuery(dir, queryType string) (any, *cerrors.UserError) {
	if res := contract.ValidateQueryType(queryType); !res.OK {
		return nil, cerrors.NewQueryTypeError(res.Message, "valid types: "+strings.Join(contract.QueryTypes, ", "))
	}

	router := query.NewRouter(query.NewLoader(dir))
	data, err := router.Query(queryType)
	if err != nil {
		return nil, cerrors.NewFilesystemError("query failed", err.Error(), "run `projectmap generate` first", err)
	}
	return data, nil
}

func runAsk(args []string) {
	fs := flag.NewFlagSet("ask", flag.ExitOnError)
	path := fs.String("path", ".", "Project root")
	g, rest := parseGlobal(fs, args)
	ui.InitColors(g.NoColor)

	if len(rest) == 0 {
		fmt.Fprintln(os.Stderr, `usage: projectmap ask "<question>" [--path .] [--json]`)
		os.Exit(cerrors.ExitInput)
	}
	question := strings.Join(rest, " ")

	dir := openOutputDir(*path, g)
	data, uerr := resolveAsk(dir, question)
	if uerr != nil {
		cerrors.FatalError(uerr, g.JSON)
	}
	emit(data, g)
}

// resolveAsk implements the `ask` subcommand's dispatch: route a free-text
// question through Router.Ask's intent classifier. Split out from runAsk
// for the same testability reason as resolveQuery.
func resolveAsk(dir, question string) (any, *cerrors.UserError) {
	router := query.NewRouter(query.NewLoader(dir))
	data, err := router.Ask(question)
	if err != nil {
		return nil, cerrors.NewInternalError("ask failed", err.Error(), "run `projectmap generate` first", err)
	}
	return data, nil
}
