// Package main implements the astrobiomers CLI for building and inspecting
// the space-biology literature knowledge graph.
//
// Usage:
//
//	astrobiomers build [options]       Run the pipeline end to end
//	astrobiomers [--json] status       Show the last run's report
//	astrobiomers [--json] stats        Show entity/relation totals
//	astrobiomers init-db               Create graph constraints/indexes
//	astrobiomers acquire-curated       Run acquisition alone
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/NimaFathima/astrobiomers/internal/ui"
)

// GlobalFlags carries the options every subcommand can see.
type GlobalFlags struct {
	JSON    bool
	Quiet   bool
	NoColor bool
	Config  string
}

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	var (
		showVersion = flag.Bool("version", false, "Show version and exit")
		configPath  = flag.String("config", "", "Path to the flat key/value config file")
		jsonOutput  = flag.Bool("json", false, "Output machine-readable JSON")
		quiet       = flag.Bool("quiet", false, "Suppress progress output")
		noColor     = flag.Bool("no-color", false, "Disable colored output")
	)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `astrobiomers - space biology literature knowledge graph CLI

Usage:
  astrobiomers <command> [options]

Commands:
  build             Run the pipeline (acquisition through graph load)
  status            Show the last run's pipeline report
  stats             Show entity/relation totals from the graph database
  init-db           Create the graph database's constraints and indexes
  acquire-curated    Run only the acquisition stage against curated sources

Global Options:
  --config PATH     Path to the flat key/value config file
  --json            Output machine-readable JSON
  --quiet           Suppress progress output
  --no-color        Disable colored output
  --version         Show version and exit

Examples:
  astrobiomers build --papers 500 --use-curated --use-pubmed --load-graph
  astrobiomers --json status
  astrobiomers init-db

`)
	}

	flag.Parse()

	if *showVersion {
		fmt.Printf("astrobiomers version %s\n", version)
		fmt.Printf("commit: %s\n", commit)
		fmt.Printf("built: %s\n", date)
		os.Exit(0)
	}

	globals := GlobalFlags{JSON: *jsonOutput, Quiet: *quiet, NoColor: *noColor, Config: *configPath}
	ui.InitColors(globals.NoColor)

	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(1)
	}

	command := args[0]
	cmdArgs := args[1:]

	switch command {
	case "build":
		runBuild(cmdArgs, globals)
	case "status":
		runStatus(cmdArgs, globals)
	case "stats":
		runStats(cmdArgs, globals)
	case "init-db":
		runInitDB(cmdArgs, globals)
	case "acquire-curated":
		runAcquireCurated(cmdArgs, globals)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		flag.Usage()
		os.Exit(1)
	}
}

// newCLILogger builds the slog logger every subcommand uses, quieted by
// --quiet and left as text (not JSON) since --json controls command output,
// not log framing.
func newCLILogger(globals GlobalFlags) *slog.Logger {
	level := slog.LevelInfo
	if globals.Quiet {
		level = slog.LevelWarn
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
