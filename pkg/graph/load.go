package graph

import (
	"context"
	"log/slog"

	"github.com/NimaFathima/astrobiomers/pkg/model"
)

// Artifacts bundles everything the loader needs from earlier stages.
type Artifacts struct {
	Papers    []model.Paper
	Mentions  []model.Mention
	Relations []model.Relation
	Topics    model.TopicResult
}

// LoadAll writes every artifact in the order §4.9 requires: papers, then
// entities, then topics, then MENTIONS edges, then typed relations, then
// HAS_TOPIC edges. Each step's batch errors are counted but never abort
// later steps — only a batch's own transaction rolls back.
func (l *Loader) LoadAll(ctx context.Context, a Artifacts, logger *slog.Logger) LoadStats {
	if logger == nil {
		logger = slog.Default()
	}
	var stats LoadStats

	papersWritten, errs := l.WritePapers(ctx, a.Papers)
	stats.PapersWritten = papersWritten
	stats.BatchErrors += errs
	logger.Info("graph.papers.written", "count", papersWritten, "batch_errors", errs)

	entitiesWritten, errs := l.WriteEntities(ctx, a.Mentions)
	stats.EntitiesWritten = entitiesWritten
	stats.BatchErrors += errs
	logger.Info("graph.entities.written", "count", entitiesWritten, "batch_errors", errs)

	topicsWritten, errs := l.WriteTopics(ctx, a.Topics.Topics)
	stats.TopicsWritten = topicsWritten
	stats.BatchErrors += errs
	logger.Info("graph.topics.written", "count", topicsWritten, "batch_errors", errs)

	mentionsLinked, errs := l.WriteMentions(ctx, a.Mentions, a.Papers)
	stats.MentionsLinked = mentionsLinked
	stats.BatchErrors += errs
	logger.Info("graph.mentions.linked", "count", mentionsLinked, "batch_errors", errs)

	relationsWritten, errs := l.WriteRelations(ctx, a.Relations)
	stats.RelationsWritten = relationsWritten
	stats.BatchErrors += errs
	logger.Info("graph.relations.written", "count", relationsWritten, "batch_errors", errs)

	_, errs = l.WriteTopicAssignments(ctx, a.Topics.Assignments, a.Papers)
	stats.BatchErrors += errs
	logger.Info("graph.topic_assignments.written", "batch_errors", errs)

	return stats
}
