package main

import (
	"context"
	"fmt"
	"os"

	pflag "github.com/spf13/pflag"

	"github.com/NimaFathima/astrobiomers/internal/config"
	apperrors "github.com/NimaFathima/astrobiomers/internal/errors"
	"github.com/NimaFathima/astrobiomers/internal/lockfile"
	"github.com/NimaFathima/astrobiomers/internal/output"
	"github.com/NimaFathima/astrobiomers/internal/ui"
	"github.com/NimaFathima/astrobiomers/pkg/acquisition"
	"github.com/NimaFathima/astrobiomers/pkg/graph"
	"github.com/NimaFathima/astrobiomers/pkg/model"
	"github.com/NimaFathima/astrobiomers/pkg/ner"
	"github.com/NimaFathima/astrobiomers/pkg/ontology"
	"github.com/NimaFathima/astrobiomers/pkg/pipeline"
	"github.com/NimaFathima/astrobiomers/pkg/relation"
	"github.com/NimaFathima/astrobiomers/pkg/resolution"
	"github.com/NimaFathima/astrobiomers/pkg/topic"
)

// runBuild executes the 'build' command: the full eight-stage pipeline
// (spec.md §4), optionally loading the result into the graph database.
//
// Flags:
//   - --papers: cap on acquired papers (default 500)
//   - --use-curated / --use-pubmed / --use-datasets: acquisition sources
//   - --pubmed-query / --curated-url / --dataset-url: source locations
//   - --load-graph / --skip-graph: whether stage 8 runs
//   - --output-dir: working directory for artifacts (overrides DATA_DIR)
//   - --skip-acquisition: reuse raw_papers.json if present
//   - --demo: force resolution/ontology demo mode regardless of config
func runBuild(args []string, globals GlobalFlags) {
	fs := pflag.NewFlagSet("build", pflag.ExitOnError)
	papers := fs.Int("papers", 500, "Maximum number of papers to acquire")
	useCurated := fs.Bool("use-curated", true, "Acquire from the curated manifest")
	usePubMed := fs.Bool("use-pubmed", false, "Acquire from PubMed keyword search")
	useDatasets := fs.Bool("use-datasets", false, "Acquire from configured dataset catalogs")
	pubmedQuery := fs.String("pubmed-query", "space biology", "PubMed search query")
	curatedURL := fs.String("curated-url", "", "Curated manifest URL/path (empty uses the built-in default)")
	datasetURLs := fs.StringArray("dataset-url", nil, "Dataset catalog URL (repeatable)")
	loadGraph := fs.Bool("load-graph", false, "Load results into the graph database (stage 8)")
	skipGraph := fs.Bool("skip-graph", false, "Explicitly skip stage 8 even if --load-graph is set")
	outputDir := fs.String("output-dir", "", "Working directory for pipeline artifacts (overrides DATA_DIR)")
	skipAcquisition := fs.Bool("skip-acquisition", false, "Reuse the last acquisition artifact if present")
	demo := fs.Bool("demo", false, "Disable resolution/ontology network calls regardless of config")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: astrobiomers build [options]

Runs the pipeline: acquisition, preprocessing, NER, relation extraction,
topic modeling, entity resolution, ontology alignment, and (optionally)
graph loading.

Options:
`)
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

	lock, err := lockfile.Acquire(dir)
	if err != nil {
		apperrors.FatalError(apperrors.NewFatalError(
			"cannot acquire pipeline lock",
			err.Error(),
			"wait for the other run to finish, or remove the stale pipeline.lock",
			err,
		), globals.JSON)
	}
	defer lock.Release()

	logger := newCLILogger(globals)

	resolutionDemo := !cfg.ResolutionEnabled || *demo
	alignmentDemo := !cfg.AlignmentEnabled || *demo

	var transformerExtractor ner.Extractor
	if endpoint := os.Getenv("NER_TRANSFORMER_ENDPOINT"); endpoint != "" {
		transformerExtractor = ner.NewTransformerExtractor(endpoint)
	}

	patternExtractor, err := ner.NewPatternExtractorFromFile(os.Getenv("NER_LEXICON_PATH"))
	if err != nil {
		apperrors.FatalError(apperrors.NewConfigError(
			"cannot load NER lexicon file",
			err.Error(),
			"check NER_LEXICON_PATH points to a valid YAML lexicon, or unset it to use the built-in vocabulary",
			err,
		), globals.JSON)
	}

	nerEnsemble := ner.New(
		transformerExtractor,
		ner.NewSecondaryExtractor(os.Getenv("NER_SECONDARY_ENDPOINT")),
		patternExtractor,
		ner.Config{ConfidenceThreshold: cfg.EntityConfidenceThreshold},
		logger,
	)

	resolutionSvc, err := resolution.New(
		resolution.DefaultResolvers(nil),
		resolution.Config{DemoMode: resolutionDemo, CachePath: dir + "/resolution_cache.json"},
		logger,
	)
	if err != nil {
		apperrors.FatalError(apperrors.NewFatalError("cannot open resolution cache", err.Error(), "check DATA_DIR is writable", err), globals.JSON)
	}

	ontologySvc, err := ontology.New(
		ontology.DefaultAligners(""),
		ontology.Config{DemoMode: alignmentDemo, CachePath: dir + "/ontology_cache.json"},
		logger,
	)
	if err != nil {
		apperrors.FatalError(apperrors.NewFatalError("cannot open ontology cache", err.Error(), "check DATA_DIR is writable", err), globals.JSON)
	}

	pcfg := pipeline.Config{
		WorkDir: dir,
		Acquisition: acquisition.Config{
			UseCurated:   *useCurated,
			UsePubMed:    *usePubMed,
			UseDatasets:  *useDatasets,
			MaxPapers:    *papers,
			CuratedURL:   *curatedURL,
			PubMedQuery:  *pubmedQuery,
			PubMedEmail:  cfg.PubMedEmail,
			PubMedAPIKey: cfg.PubMedAPIKey,
			DatasetURLs:  *datasetURLs,
		},
		Relation: relation.Config{ConfidenceFloor: cfg.RelationConfidenceThreshold},
		Topic:    topic.Config{MinCorpus: cfg.TopicMinCorpus},

		NER:        nerEnsemble,
		Resolution: resolutionSvc,
		Ontology:   ontologySvc,

		LoadGraph:       *loadGraph && !*skipGraph,
		SkipAcquisition: *skipAcquisition,
	}

	if pcfg.LoadGraph {
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
		pcfg.GraphLoader = loader
	}

	p := pipeline.New(pcfg, logger)

	progressCfg := NewProgressConfig(globals)
	spinner := NewSpinner(progressCfg, "running pipeline")
	report, runErr := p.Run(context.Background())
	finishSpinner(spinner)

	if globals.JSON {
		_ = output.JSON(report)
	} else {
		printBuildSummary(report)
	}

	if runErr != nil {
		if ue, ok := runErr.(*apperrors.UserError); ok {
			os.Exit(ue.ExitCode)
		}
		os.Exit(apperrors.ExitInternal)
	}
}

func printBuildSummary(report model.PipelineReport) {
	ui.Header("Pipeline Run")
	fmt.Printf("%s %s\n", ui.Label("Run ID:"), report.RunID)
	fmt.Printf("%s %s\n", ui.Label("Status:"), report.Status)
	fmt.Println()
	ui.SubHeader("Stages:")
	for _, s := range report.Stages {
		status := "ok"
		if s.Skipped {
			status = "skipped"
		}
		if s.Error != "" {
			status = "failed: " + s.Error
		}
		fmt.Printf("  %-12s in=%-6d out=%-6d %s\n", s.Name, s.InputCount, s.OutputCount, status)
	}
	fmt.Println()
	ui.SubHeader("Totals:")
	fmt.Printf("  Papers:    %s\n", ui.CountText(report.Totals.Papers))
	fmt.Printf("  Topics:    %s\n", ui.CountText(report.Totals.Topics))
	for kind, n := range report.Totals.EntitiesByKind {
		fmt.Printf("  %s: %s\n", kind, ui.CountText(n))
	}
	for relType, n := range report.Totals.RelationsByType {
		fmt.Printf("  %s: %s\n", relType, ui.CountText(n))
	}
	if report.Status == "complete" {
		ui.Success("Pipeline completed")
	} else {
		ui.Error("Pipeline failed")
	}
}
