package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/NimaFathima/astrobiomers/internal/errors"
	"github.com/NimaFathima/astrobiomers/pkg/acquisition"
	"github.com/NimaFathima/astrobiomers/pkg/graph"
	"github.com/NimaFathima/astrobiomers/pkg/model"
	"github.com/NimaFathima/astrobiomers/pkg/ner"
	"github.com/NimaFathima/astrobiomers/pkg/ontology"
	"github.com/NimaFathima/astrobiomers/pkg/preprocess"
	"github.com/NimaFathima/astrobiomers/pkg/relation"
	"github.com/NimaFathima/astrobiomers/pkg/resolution"
	"github.com/NimaFathima/astrobiomers/pkg/topic"
)

// Config wires every stage's dependencies and the artifact directory.
type Config struct {
	WorkDir string

	Acquisition acquisition.Config
	Relation    relation.Config
	Topic       topic.Config

	NER        *ner.Ensemble
	Resolution *resolution.Service
	Ontology   *ontology.Service

	// LoadGraph enables stage 8. GraphLoader is required when true.
	LoadGraph   bool
	GraphLoader *graph.Loader

	// SkipAcquisition forces stage 1 to reuse its last artifact, whenever
	// one exists, instead of refetching (§5 "resumability").
	SkipAcquisition bool
}

// Pipeline runs the eight stages end to end, persisting one artifact per
// stage and producing a PipelineReport.
type Pipeline struct {
	cfg    Config
	logger *slog.Logger
}

// New builds a pipeline. A nil logger falls back to slog.Default(),
// matching every other stage's constructor in this codebase.
func New(cfg Config, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{cfg: cfg, logger: logger}
}

// Run executes every stage in order, persisting artifacts between each and
// halting only on a ConfigError, FatalError, or a stage producing zero
// outputs from non-empty input (§7 "error semantics").
func (p *Pipeline) Run(ctx context.Context) (model.PipelineReport, error) {
	runID := uuid.NewString()
	started := time.Now()
	report := model.PipelineReport{RunID: runID, Started: started, Totals: model.Totals{
		EntitiesByKind:  make(map[model.EntityKind]int),
		RelationsByType: make(map[model.RelationType]int),
	}}
	recordMetrics.init()

	dir := p.cfg.WorkDir
	p.logger.Info("pipeline.start", "run_id", runID, "work_dir", dir)

	// Stage 1: Acquisition.
	papers, stage, err := p.runAcquisition(ctx, dir)
	report.Stages = append(report.Stages, stage)
	if err != nil {
		return p.finish(report, err)
	}

	// Stage 2: Preprocessing.
	preprocessed, stage := p.runPreprocess(ctx, dir, papers)
	report.Stages = append(report.Stages, stage)

	// Stage 3: NER.
	mentions, stage, err := p.runNER(ctx, dir, preprocessed)
	report.Stages = append(report.Stages, stage)
	if err != nil {
		return p.finish(report, err)
	}

	// Stage 4: Relation extraction.
	relations, stage := p.runRelations(ctx, dir, preprocessed, mentions)
	report.Stages = append(report.Stages, stage)

	// Stage 5: Topic modeling.
	topics, stage := p.runTopics(ctx, dir, preprocessed)
	report.Stages = append(report.Stages, stage)

	// Stage 6: Entity resolution.
	mentions, stage = p.runResolution(ctx, dir, mentions)
	report.Stages = append(report.Stages, stage)

	// Stage 7: Ontology alignment.
	mentions, stage = p.runOntology(ctx, dir, mentions)
	report.Stages = append(report.Stages, stage)

	// Stage 8: Graph loading (optional).
	if p.cfg.LoadGraph {
		stage, err = p.runGraphLoad(ctx, papers, mentions, relations, topics)
		report.Stages = append(report.Stages, stage)
		if err != nil {
			return p.finish(report, err)
		}
	}

	report.Totals = computeTotals(papers, mentions, relations, topics)
	return p.finish(report, nil)
}

func (p *Pipeline) finish(report model.PipelineReport, err error) (model.PipelineReport, error) {
	report.Finished = time.Now()
	if err != nil {
		report.Status = "failed"
		if len(report.Stages) > 0 {
			report.Stages[len(report.Stages)-1].Error = err.Error()
		}
	} else {
		report.Status = "complete"
	}
	if werr := writeArtifact(p.cfg.WorkDir, filePipelineResults, report); werr != nil {
		p.logger.Warn("pipeline.report.write_failed", "error", werr)
	}
	recordMetrics.totalDuration.Observe(report.Finished.Sub(report.Started).Seconds())
	p.logger.Info("pipeline.finished", "run_id", report.RunID, "status", report.Status,
		"duration_ms", report.Finished.Sub(report.Started).Milliseconds())
	return report, err
}

func timedStage(name string, input int, fn func() (int, error)) (model.StageReport, error) {
	start := time.Now()
	output, err := fn()
	stage := model.StageReport{
		Name:        name,
		Duration:    time.Since(start),
		InputCount:  input,
		OutputCount: output,
	}
	if err != nil {
		stage.Error = err.Error()
	}
	return stage, err
}

func computeTotals(papers []model.Paper, mentions []model.Mention, relations []model.Relation, topics model.TopicResult) model.Totals {
	totals := model.Totals{
		Papers:          len(papers),
		EntitiesByKind:  make(map[model.EntityKind]int),
		RelationsByType: make(map[model.RelationType]int),
		Topics:          len(topics.Topics),
	}
	for _, m := range mentions {
		totals.EntitiesByKind[m.Kind]++
	}
	for _, r := range relations {
		totals.RelationsByType[r.Type]++
	}
	return totals
}

// zeroOutputError is returned when a stage produced no outputs despite
// non-empty input — one of the three conditions that halts the whole
// pipeline (§7).
func zeroOutputError(stage string) error {
	return apperrors.NewFatalError(
		fmt.Sprintf("%s produced zero outputs from non-empty input", stage),
		"a stage with non-empty input and zero output usually signals a misconfigured dependency",
		"check the stage's configuration and logs above",
		nil,
	)
}
