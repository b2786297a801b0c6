// Package main implements the projectmap CLI: a one-shot tool that scans a
// repository, generates a compressed, queryable map of its structure, and
// keeps that map fresh across incremental refreshes.
//
// Usage:
//
//	projectmap generate [--path .] [--json]   Scan and generate all maps
//	projectmap refresh [--full|--incremental] Refresh an existing map
//	projectmap load [--map <artifact>|--tier <1..4>] [--json]
//	                                           Print one artifact, or every
//	                                           artifact at a tier
//	projectmap query <type> [--json]          Answer a pre-computed query
//	projectmap ask "<question>" [--json]      Route a free-text question
//	projectmap stats [--json]                 Show summary statistics
//	projectmap list [--json]                  List tracked projects
//	projectmap validate [--json]              Check artifact integrity
package main

import (
	"flag"
	"fmt"
	"os"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// GlobalFlags are options every subcommand accepts after its name.
type GlobalFlags struct {
	JSON    bool
	Quiet   bool
	NoColor bool
}

func main() {
	var (
		showVersion = flag.Bool("version", false, "Show version and exit")
	)

	flag.Usage = printUsage

	flag.Parse()

	if *showVersion {
		fmt.Printf("projectmap version %s\n", version)
		fmt.Printf("commit: %s\n", commit)
		fmt.Printf("built: %s\n", date)
		os.Exit(0)
	}

	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(1)
	}

	command := args[0]
	cmdArgs := args[1:]

	switch command {
	case "generate":
		runGenerate(cmdArgs)
	case "refresh":
		runRefresh(cmdArgs)
	case "load":
		runLoad(cmdArgs)
	case "query":
		runQuery(cmdArgs)
	case "ask":
		runAsk(cmdArgs)
	case "stats":
		runStats(cmdArgs)
	case "list":
		runList(cmdArgs)
	case "validate":
		runValidate(cmdArgs)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		flag.Usage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprint(os.Stderr, `projectmap - Project context map generator

Usage:
  projectmap <command> [options]

Commands:
  generate   Scan the project and generate all map artifacts
  refresh    Refresh an existing map (auto-detects full vs incremental)
  load       Print one decompressed artifact
  query      Answer a pre-computed query type
  ask        Route a free-text question to the right query/search
  stats      Show summary statistics for a tracked project
  list       List every project this machine has generated maps for
  validate   Check that every artifact is present and internally consistent

Global Options:
  --version     Show version and exit

Run "projectmap <command> -h" for command-specific options.
`)
}

// parseGlobal extracts the flags shared by every subcommand (--json, -q,
// --no-color) from a FlagSet that the caller has already defined its own
// flags on, then returns the remaining positional args.
func parseGlobal(fs *flag.FlagSet, args []string) (GlobalFlags, []string) {
	var g GlobalFlags
	fs.BoolVar(&g.JSON, "json", false, "Emit machine-readable JSON")
	fs.BoolVar(&g.Quiet, "quiet", false, "Suppress progress output")
	fs.BoolVar(&g.Quiet, "q", false, "Suppress progress output (shorthand)")
	fs.BoolVar(&g.NoColor, "no-color", false, "Disable colored output")
	_ = fs.Parse(args)
	if g.JSON {
		g.Quiet = true
	}
	return g, fs.Args()
}
