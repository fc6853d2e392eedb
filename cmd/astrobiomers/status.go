package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	pflag "github.com/spf13/pflag"

	"github.com/NimaFathima/astrobiomers/internal/config"
	apperrors "github.com/NimaFathima/astrobiomers/internal/errors"
	"github.com/NimaFathima/astrobiomers/internal/output"
	"github.com/NimaFathima/astrobiomers/internal/ui"
	"github.com/NimaFathima/astrobiomers/pkg/graph"
	"github.com/NimaFathima/astrobiomers/pkg/model"
)

// readiness reports whether the services a 'build' run would use are
// actually reachable right now, independent of any prior run's report
// (spec.md §6 "status reports live readiness").
type readiness struct {
	GraphReachable bool   `json:"graph_reachable"`
	GraphError     string `json:"graph_error,omitempty"`
	TransformerNER string `json:"transformer_ner"`
	SecondaryNER   string `json:"secondary_ner"`
}

// checkReadiness probes the graph database and reports which NER backends
// are configured. It never fails the command: an unreachable database or
// an unconfigured backend is reported, not treated as an error.
func checkReadiness(cfg config.Config) readiness {
	r := readiness{
		TransformerNER: "unconfigured",
		SecondaryNER:   "unconfigured",
	}
	if os.Getenv("NER_TRANSFORMER_ENDPOINT") != "" {
		r.TransformerNER = "configured"
	}
	if os.Getenv("NER_SECONDARY_ENDPOINT") != "" {
		r.SecondaryNER = "configured"
	}

	if cfg.GraphDatabase == "" {
		r.GraphError = "GRAPH_DATABASE not set"
		return r
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	loader, err := graph.New(ctx, graph.Config{
		URI: cfg.GraphURI, Username: cfg.GraphUser, Password: cfg.GraphPassword,
		Database: cfg.GraphDatabase, BatchSize: cfg.BatchSize,
	})
	if err != nil {
		r.GraphError = err.Error()
		return r
	}
	defer loader.Close(ctx)
	r.GraphReachable = true
	return r
}

// runStatus reports live readiness (database reachability, configured NER
// backends) and replays the last run's pipeline_results.json, if any
// (spec.md §6).
func runStatus(args []string, globals GlobalFlags) {
	fs := pflag.NewFlagSet("status", pflag.ExitOnError)
	outputDir := fs.String("output-dir", "", "Working directory to inspect (overrides DATA_DIR)")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: astrobiomers status [options]\n\nShows live readiness and the last run's pipeline report.\n\nOptions:\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	cfg, err := config.Load(globals.Config)
	if err != nil {
		apperrors.FatalError(err, globals.JSON)
	}
	dir := cfg.DataDir
	if *outputDir != "" {
		dir = *outputDir
	}

	r := checkReadiness(cfg)

	if !globals.JSON {
		ui.Header("Readiness")
		if r.GraphReachable {
			fmt.Printf("%s %s\n", ui.Label("Graph database:"), "reachable")
		} else {
			fmt.Printf("%s %s (%s)\n", ui.Label("Graph database:"), "unreachable", r.GraphError)
		}
		fmt.Printf("%s %s\n", ui.Label("Transformer NER:"), r.TransformerNER)
		fmt.Printf("%s %s\n", ui.Label("Secondary NER:"), r.SecondaryNER)
		fmt.Println()
	}

	path := filepath.Join(dir, "pipeline_results.json")
	var report model.PipelineReport
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if globals.JSON {
			_ = output.JSON(map[string]any{"readiness": r, "status": "never_run", "work_dir": dir})
		} else {
			ui.Warning(fmt.Sprintf("No pipeline run found in %s. Run 'astrobiomers build' first.", dir))
		}
		return
	}
	if err := readJSONFile(path, &report); err != nil {
		apperrors.FatalError(apperrors.NewInternalError("cannot read pipeline report", err.Error(), "re-run the pipeline", err), globals.JSON)
	}

	if globals.JSON {
		_ = output.JSON(map[string]any{"readiness": r, "report": report})
		return
	}

	ui.Header("Pipeline Status")
	fmt.Printf("%s %s\n", ui.Label("Run ID:"), report.RunID)
	fmt.Printf("%s %s\n", ui.Label("Status:"), report.Status)
	fmt.Printf("%s %s\n", ui.Label("Started:"), report.Started.Format("2006-01-02 15:04:05"))
	fmt.Printf("%s %s\n", ui.Label("Finished:"), report.Finished.Format("2006-01-02 15:04:05"))
	fmt.Println()
	ui.SubHeader("Stages:")
	for _, s := range report.Stages {
		status := "ok"
		if s.Skipped {
			status = "skipped"
		}
		if s.Error != "" {
			status = "failed"
		}
		fmt.Printf("  %-12s in=%-6d out=%-6d %s\n", s.Name, s.InputCount, s.OutputCount, status)
	}
}
