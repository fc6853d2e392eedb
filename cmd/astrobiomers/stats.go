package main

import (
	"context"
	"fmt"
	"os"

	pflag "github.com/spf13/pflag"

	"github.com/NimaFathima/astrobiomers/internal/config"
	apperrors "github.com/NimaFathima/astrobiomers/internal/errors"
	"github.com/NimaFathima/astrobiomers/internal/output"
	"github.com/NimaFathima/astrobiomers/internal/ui"
	"github.com/NimaFathima/astrobiomers/pkg/graph"
)

// runStats queries the graph directly and prints live node/edge counts by
// kind/type (spec.md §6) — it never replays a prior run's cached totals,
// since those can go stale the moment another process writes to the graph.
func runStats(args []string, globals GlobalFlags) {
	fs := pflag.NewFlagSet("stats", pflag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: astrobiomers stats [options]\n\nQueries the graph and prints live node/edge counts by kind/type.\n\nOptions:\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	cfg, err := config.Load(globals.Config)
	if err != nil {
		apperrors.FatalError(err, globals.JSON)
	}
	if cfg.GraphDatabase == "" {
		apperrors.FatalError(apperrors.NewConfigError(
			"GRAPH_DATABASE is not set",
			"stats queries the graph database directly and needs a pinned database name",
			"set GRAPH_DATABASE (and GRAPH_URI/GRAPH_USER/GRAPH_PASSWORD if needed)",
			nil,
		), globals.JSON)
	}

	ctx := context.Background()
	loader, err := graph.New(ctx, graph.Config{
		URI: cfg.GraphURI, Username: cfg.GraphUser, Password: cfg.GraphPassword,
		Database: cfg.GraphDatabase, BatchSize: cfg.BatchSize,
	})
	if err != nil {
		apperrors.FatalError(apperrors.NewFatalError(
			"cannot connect to the graph database",
			err.Error(),
			"check GRAPH_URI/GRAPH_USER/GRAPH_PASSWORD/GRAPH_DATABASE and that 'astrobiomers build' has loaded the graph",
			err,
		), globals.JSON)
	}
	defer loader.Close(ctx)

	stats, err := loader.Stats(ctx)
	if err != nil {
		apperrors.FatalError(apperrors.NewFatalError("cannot query the graph", err.Error(), "check the database is reachable and has been loaded", err), globals.JSON)
	}

	if globals.JSON {
		_ = output.JSON(stats)
		return
	}

	ui.Header("Knowledge Graph Totals")
	fmt.Printf("  Papers: %s\n", ui.CountText(stats.Papers))
	fmt.Printf("  Topics: %s\n", ui.CountText(stats.Topics))
	fmt.Println()
	ui.SubHeader("Entities by kind:")
	for kind, n := range stats.EntitiesByKind {
		fmt.Printf("  %-14s %s\n", kind, ui.CountText(n))
	}
	fmt.Println()
	ui.SubHeader("Relations by type:")
	for relType, n := range stats.RelationsByType {
		fmt.Printf("  %-14s %s\n", relType, ui.CountText(n))
	}
}
