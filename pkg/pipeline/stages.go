package pipeline

import (
	"context"

	"github.com/NimaFathima/astrobiomers/pkg/acquisition"
	"github.com/NimaFathima/astrobiomers/pkg/graph"
	"github.com/NimaFathima/astrobiomers/pkg/model"
	"github.com/NimaFathima/astrobiomers/pkg/preprocess"
	"github.com/NimaFathima/astrobiomers/pkg/relation"
	"github.com/NimaFathima/astrobiomers/pkg/topic"
)

// fresh reports whether dir/output already exists and is at least as new
// as dir/input — the mtime half of §5's "skip flags + mtime comparison"
// resumability rule. A missing input (e.g. the first stage) never blocks
// reuse of an existing output.
func fresh(dir, output, input string) bool {
	outExists, outTime := artifactStat(dir, output)
	if !outExists {
		return false
	}
	if input == "" {
		return true
	}
	inExists, inTime := artifactStat(dir, input)
	if !inExists {
		return true
	}
	return outTime >= inTime
}

func (p *Pipeline) runAcquisition(ctx context.Context, dir string) ([]model.Paper, model.StageReport, error) {
	var papers []model.Paper
	if p.cfg.SkipAcquisition && fresh(dir, fileRawPapers, "") {
		if _, err := readArtifact(dir, fileRawPapers, &papers); err == nil {
			p.logger.Info("pipeline.acquisition.skipped", "count", len(papers))
			return papers, model.StageReport{Name: "acquisition", InputCount: 0, OutputCount: len(papers), Skipped: true}, nil
		}
	}

	stage, err := timedStage("acquisition", 0, func() (int, error) {
		var ferr error
		papers, ferr = acquisition.Acquire(ctx, p.cfg.Acquisition, p.logger)
		if ferr != nil {
			return 0, ferr
		}
		if werr := writeArtifact(dir, fileRawPapers, papers); werr != nil {
			return len(papers), werr
		}
		recordMetrics.papersAcquired.Add(float64(len(papers)))
		return len(papers), nil
	})
	return papers, stage, err
}

func (p *Pipeline) runPreprocess(ctx context.Context, dir string, papers []model.Paper) ([]model.PreprocessedPaper, model.StageReport) {
	var preprocessed []model.PreprocessedPaper
	if fresh(dir, filePreprocessedPapers, fileRawPapers) {
		if _, err := readArtifact(dir, filePreprocessedPapers, &preprocessed); err == nil {
			p.logger.Info("pipeline.preprocess.skipped", "count", len(preprocessed))
			return preprocessed, model.StageReport{Name: "preprocess", InputCount: len(papers), OutputCount: len(preprocessed), Skipped: true}
		}
	}

	stage, _ := timedStage("preprocess", len(papers), func() (int, error) {
		preprocessed = preprocess.Process(ctx, papers, p.logger)
		if err := writeArtifact(dir, filePreprocessedPapers, preprocessed); err != nil {
			return len(preprocessed), err
		}
		return len(preprocessed), nil
	})
	return preprocessed, stage
}

func (p *Pipeline) runNER(ctx context.Context, dir string, preprocessed []model.PreprocessedPaper) ([]model.Mention, model.StageReport, error) {
	var mentions []model.Mention
	if fresh(dir, fileExtractedEntities, filePreprocessedPapers) {
		if _, err := readArtifact(dir, fileExtractedEntities, &mentions); err == nil {
			p.logger.Info("pipeline.ner.skipped", "count", len(mentions))
			return mentions, model.StageReport{Name: "ner", InputCount: len(preprocessed), OutputCount: len(mentions), Skipped: true}, nil
		}
	}

	stage, err := timedStage("ner", len(preprocessed), func() (int, error) {
		var ferr error
		mentions, ferr = p.cfg.NER.Run(ctx, preprocessed)
		if ferr != nil {
			return 0, ferr
		}
		if len(preprocessed) > 0 && len(mentions) == 0 {
			return 0, zeroOutputError("ner")
		}
		if werr := writeArtifact(dir, fileExtractedEntities, mentions); werr != nil {
			return len(mentions), werr
		}
		recordMetrics.mentionsExtracted.Add(float64(len(mentions)))
		return len(mentions), nil
	})
	return mentions, stage, err
}

func (p *Pipeline) runRelations(ctx context.Context, dir string, preprocessed []model.PreprocessedPaper, mentions []model.Mention) ([]model.Relation, model.StageReport) {
	var relations []model.Relation
	if fresh(dir, fileExtractedRelations, fileExtractedEntities) {
		if _, err := readArtifact(dir, fileExtractedRelations, &relations); err == nil {
			p.logger.Info("pipeline.relation.skipped", "count", len(relations))
			return relations, model.StageReport{Name: "relation", InputCount: len(mentions), OutputCount: len(relations), Skipped: true}
		}
	}

	mentionsByPaper := make(map[string][]model.Mention)
	for _, m := range mentions {
		mentionsByPaper[m.PaperID] = append(mentionsByPaper[m.PaperID], m)
	}

	stage, _ := timedStage("relation", len(mentions), func() (int, error) {
		for _, pp := range preprocessed {
			rel := relation.Extract(ctx, pp, mentionsByPaper[pp.PaperID], p.cfg.Relation, p.logger)
			relations = append(relations, rel...)
		}
		if err := writeArtifact(dir, fileExtractedRelations, relations); err != nil {
			return len(relations), err
		}
		recordMetrics.relationsExtracted.Add(float64(len(relations)))
		return len(relations), nil
	})
	return relations, stage
}

func (p *Pipeline) runTopics(ctx context.Context, dir string, preprocessed []model.PreprocessedPaper) (model.TopicResult, model.StageReport) {
	var topics model.TopicResult
	if fresh(dir, fileTopics, filePreprocessedPapers) {
		if _, err := readArtifact(dir, fileTopics, &topics); err == nil {
			p.logger.Info("pipeline.topic.skipped", "topics", len(topics.Topics))
			return topics, model.StageReport{Name: "topic", InputCount: len(preprocessed), OutputCount: len(topics.Topics), Skipped: true}
		}
	}

	stage, _ := timedStage("topic", len(preprocessed), func() (int, error) {
		topics = topic.Model(ctx, preprocessed, p.cfg.Topic, p.logger)
		if err := writeArtifact(dir, fileTopics, topics); err != nil {
			return len(topics.Topics), err
		}
		return len(topics.Topics), nil
	})
	return topics, stage
}

func (p *Pipeline) runResolution(ctx context.Context, dir string, mentions []model.Mention) ([]model.Mention, model.StageReport) {
	var resolved []model.Mention
	if fresh(dir, fileResolvedEntities, fileExtractedEntities) {
		if _, err := readArtifact(dir, fileResolvedEntities, &resolved); err == nil {
			p.logger.Info("pipeline.resolution.skipped", "count", len(resolved))
			return resolved, model.StageReport{Name: "resolution", InputCount: len(mentions), OutputCount: len(resolved), Skipped: true}
		}
	}

	stage, _ := timedStage("resolution", len(mentions), func() (int, error) {
		resolved = p.cfg.Resolution.Resolve(ctx, mentions)
		if err := writeArtifact(dir, fileResolvedEntities, resolved); err != nil {
			return len(resolved), err
		}
		return len(resolved), nil
	})
	return resolved, stage
}

func (p *Pipeline) runOntology(ctx context.Context, dir string, mentions []model.Mention) ([]model.Mention, model.StageReport) {
	var aligned []model.Mention
	if fresh(dir, fileAlignedEntities, fileResolvedEntities) {
		if _, err := readArtifact(dir, fileAlignedEntities, &aligned); err == nil {
			p.logger.Info("pipeline.ontology.skipped", "count", len(aligned))
			return aligned, model.StageReport{Name: "ontology", InputCount: len(mentions), OutputCount: len(aligned), Skipped: true}
		}
	}

	stage, _ := timedStage("ontology", len(mentions), func() (int, error) {
		aligned = p.cfg.Ontology.Align(ctx, mentions)
		if err := writeArtifact(dir, fileAlignedEntities, aligned); err != nil {
			return len(aligned), err
		}
		return len(aligned), nil
	})
	return aligned, stage
}

func (p *Pipeline) runGraphLoad(ctx context.Context, papers []model.Paper, mentions []model.Mention, relations []model.Relation, topics model.TopicResult) (model.StageReport, error) {
	stage, err := timedStage("graph_load", len(papers), func() (int, error) {
		if ferr := p.cfg.GraphLoader.InitSchema(ctx); ferr != nil {
			return 0, ferr
		}
		stats := p.cfg.GraphLoader.LoadAll(ctx, graph.Artifacts{
			Papers: papers, Mentions: mentions, Relations: relations, Topics: topics,
		}, p.logger)
		recordMetrics.batchErrors.Add(float64(stats.BatchErrors))
		return stats.PapersWritten + stats.EntitiesWritten + stats.RelationsWritten, nil
	})
	return stage, err
}
