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
	"github.com/NimaFathima/astrobiomers/pkg/acquisition"
)

// runAcquireCurated runs stage 1 alone against the curated manifest only and
// prints the acquired records (with --json) or their count. It writes no
// artifact: raw_papers.json is not created or updated.
func runAcquireCurated(args []string, globals GlobalFlags) {
	fs := pflag.NewFlagSet("acquire-curated", pflag.ExitOnError)
	papers := fs.Int("papers", 500, "Maximum number of papers to acquire")
	curatedURL := fs.String("curated-url", "", "Curated manifest URL/path (empty uses the built-in default)")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: astrobiomers acquire-curated [options]\n\nRuns acquisition against the curated manifest only.\n\nOptions:\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	cfg, err := config.Load(globals.Config)
	if err != nil {
		apperrors.FatalError(err, globals.JSON)
	}

	logger := newCLILogger(globals)
	result, err := acquisition.Acquire(context.Background(), acquisition.Config{
		UseCurated: true,
		MaxPapers:  *papers,
		CuratedURL: *curatedURL,
	}, logger)
	if err != nil {
		apperrors.FatalError(apperrors.NewAcquisitionError("curated acquisition failed", err.Error(), "check the curated manifest URL is reachable", err), globals.JSON)
	}

	if globals.JSON {
		_ = output.JSON(result)
		return
	}
	ui.Successf("Acquired %d papers from the curated manifest", len(result))
}
