package topic

import (
	"context"
	"fmt"
	"testing"

	"github.com/NimaFathima/astrobiomers/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func paperWithTokens(id string, tokens ...string) model.PreprocessedPaper {
	return model.PreprocessedPaper{
		PaperID:   id,
		Sentences: []model.Sentence{{Index: 0, Tokens: tokens}},
	}
}

func TestModel_BelowMinCorpusMarksUnassigned(t *testing.T) {
	papers := []model.PreprocessedPaper{paperWithTokens("p1", "bone", "loss"), paperWithTokens("p2", "muscle", "atrophy")}
	result := Model(context.Background(), papers, Config{MinCorpus: 100}, nil)

	assert.Empty(t, result.Topics)
	require.Len(t, result.Assignments, 2)
	for _, a := range result.Assignments {
		assert.Equal(t, unassignedTopicID, a.TopicID)
	}
}

func TestModel_DeterministicAcrossRuns(t *testing.T) {
	var papers []model.PreprocessedPaper
	for i := 0; i < 12; i++ {
		papers = append(papers, paperWithTokens(fmt.Sprintf("bone-%d", i), "bone", "loss", "microgravity", "density"))
	}
	for i := 0; i < 12; i++ {
		papers = append(papers, paperWithTokens(fmt.Sprintf("muscle-%d", i), "muscle", "atrophy", "spaceflight", "strength"))
	}

	cfg := Config{MinCorpus: 20, SimilarityThreshold: 0.5, MinClusterSize: 3}
	first := Model(context.Background(), papers, cfg, nil)
	second := Model(context.Background(), papers, cfg, nil)

	require.Equal(t, len(first.Topics), len(second.Topics))
	assert.Equal(t, first.Assignments, second.Assignments)
}

func TestModel_FormsSeparateClustersForDistinctVocabularies(t *testing.T) {
	var papers []model.PreprocessedPaper
	for i := 0; i < 10; i++ {
		papers = append(papers, paperWithTokens(fmt.Sprintf("bone-%d", i), "bone", "loss", "microgravity", "density"))
	}
	for i := 0; i < 10; i++ {
		papers = append(papers, paperWithTokens(fmt.Sprintf("muscle-%d", i), "muscle", "atrophy", "spaceflight", "strength"))
	}

	result := Model(context.Background(), papers, Config{MinCorpus: 15, SimilarityThreshold: 0.5, MinClusterSize: 3}, nil)
	assert.GreaterOrEqual(t, len(result.Topics), 2)
}

func TestCosineSimilarity_IdenticalVectorsScoreOne(t *testing.T) {
	v := map[string]float64{"bone": 0.5, "loss": 0.5}
	assert.InDelta(t, 1.0, cosineSimilarity(v, v), 1e-9)
}

func TestCosineSimilarity_DisjointVectorsScoreZero(t *testing.T) {
	a := map[string]float64{"bone": 1}
	b := map[string]float64{"muscle": 1}
	assert.Equal(t, 0.0, cosineSimilarity(a, b))
}
