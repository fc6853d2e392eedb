package main

import (
	"context"
	"fmt"
	"os"

	pflag "github.com/spf13/pflag"

	"github.com/NimaFathima/astrobiomers/internal/config"
	apperrors "github.com/NimaFathima/astrobiomers/internal/errors"
	"github.com/NimaFathima/astrobiomers/internal/ui"
	"github.com/NimaFathima/astrobiomers/pkg/graph"
)

// runInitDB creates the graph database's uniqueness constraints and
// indexes (§4.9) without writing any data — useful to run once against a
// fresh database, or to re-run idempotently after a schema change.
func runInitDB(args []string, globals GlobalFlags) {
	fs := pflag.NewFlagSet("init-db", pflag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: astrobiomers init-db\n\nCreates graph database constraints and indexes.\n")
	}
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	cfg, err := config.Load(globals.Config)
	if err != nil {
		apperrors.FatalError(err, globals.JSON)
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
			"check GRAPH_URI/GRAPH_USER/GRAPH_PASSWORD/GRAPH_DATABASE",
			err,
		), globals.JSON)
	}
	defer loader.Close(ctx)

	if err := loader.InitSchema(ctx); err != nil {
		apperrors.FatalError(apperrors.NewLoaderError("cannot create schema", err.Error(), "check the graph user has schema privileges", err), globals.JSON)
	}

	if !globals.JSON {
		ui.Success("Graph schema ready: constraints and indexes created (or already present)")
	}
}
