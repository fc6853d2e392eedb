// Package topic implements pipeline stage 5 (spec.md §4.6): assigning each
// paper a topic label from an unsupervised clustering of abstract
// embeddings.
//
// The embed -> reduce -> cluster pipeline is a design-level description in
// the spec; this package implements it with a deterministic, seed-free
// stand-in for each stage (term-frequency vectors in place of a learned
// sentence-embedding model, an identity projection, and a simple
// density-based grouping over cosine similarity) so that identical input
// always yields identical topic assignments — required by §8 invariant 5
// (re-running `build` yields the same counts).
package topic

import (
	"context"
	"log/slog"
	"math"
	"sort"
	"strings"

	"github.com/NimaFathima/astrobiomers/pkg/model"
)

// Config gates and tunes clustering (§4.6, §6).
type Config struct {
	// MinCorpus is the minimum paper count required to cluster (default 100).
	MinCorpus int
	// SimilarityThreshold is the cosine-similarity floor for two papers to
	// join the same density cluster.
	SimilarityThreshold float64
	// MinClusterSize is the smallest group of papers that forms a topic;
	// smaller groups fall into the noise cluster (topic id -1).
	MinClusterSize int
	// TopKeywords bounds how many representative keywords a topic reports.
	TopKeywords int
}

func (c Config) sanitized() Config {
	if c.MinCorpus <= 0 {
		c.MinCorpus = 100
	}
	if c.SimilarityThreshold <= 0 {
		c.SimilarityThreshold = 0.35
	}
	if c.MinClusterSize <= 0 {
		c.MinClusterSize = 3
	}
	if c.TopKeywords <= 0 {
		c.TopKeywords = 8
	}
	return c
}

const unassignedTopicID = -1

// Model assigns topics to a corpus of preprocessed papers.
func Model(ctx context.Context, papers []model.PreprocessedPaper, cfg Config, logger *slog.Logger) model.TopicResult {
	if logger == nil {
		logger = slog.Default()
	}
	cfg = cfg.sanitized()

	if len(papers) < cfg.MinCorpus {
		logger.Info("topic.gated", "papers", len(papers), "min_corpus", cfg.MinCorpus)
		assignments := make([]model.TopicAssignment, len(papers))
		for i, p := range papers {
			assignments[i] = model.TopicAssignment{PaperID: p.PaperID, TopicID: unassignedTopicID}
		}
		return model.TopicResult{Topics: nil, Assignments: assignments}
	}

	vectors := embed(papers)
	reduced := reduce(vectors)
	clusters := cluster(reduced, cfg)

	select {
	case <-ctx.Done():
		return model.TopicResult{}
	default:
	}

	topics := make([]model.Topic, 0, len(clusters))
	assignments := make([]model.TopicAssignment, 0, len(papers))
	for id, members := range clusters {
		if id == unassignedTopicID {
			for _, idx := range members {
				assignments = append(assignments, model.TopicAssignment{PaperID: papers[idx].PaperID, TopicID: unassignedTopicID})
			}
			continue
		}

		keywords := classBasedKeywords(papers, members, cfg.TopKeywords)
		topics = append(topics, model.Topic{
			ID:       id,
			Label:    strings.Join(keywords[:min(3, len(keywords))], " / "),
			Size:     len(members),
			Keywords: keywords,
		})
		for _, idx := range members {
			assignments = append(assignments, model.TopicAssignment{PaperID: papers[idx].PaperID, TopicID: id})
		}
	}

	sort.Slice(topics, func(i, j int) bool { return topics[i].ID < topics[j].ID })
	sort.Slice(assignments, func(i, j int) bool { return assignments[i].PaperID < assignments[j].PaperID })

	logger.Info("topic.complete", "papers", len(papers), "topics", len(topics))
	return model.TopicResult{Topics: topics, Assignments: assignments}
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// cosineSimilarity compares two sparse term-frequency vectors.
func cosineSimilarity(a, b map[string]float64) float64 {
	var dot, normA, normB float64
	for term, va := range a {
		normA += va * va
		if vb, ok := b[term]; ok {
			dot += va * vb
		}
	}
	for _, vb := range b {
		normB += vb * vb
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
