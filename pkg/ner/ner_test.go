package ner

import (
	"context"
	"testing"

	"github.com/NimaFathima/astrobiomers/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func paper(text string) model.PreprocessedPaper {
	return model.PreprocessedPaper{
		PaperID:  "p1",
		Original: text,
		Sentences: []model.Sentence{
			{Index: 0, Text: text, OriginalFrom: 0, OriginalTo: len(text)},
		},
	}
}

func TestPatternExtractor_MatchesLexicon(t *testing.T) {
	pe := NewPatternExtractor()
	mentions, err := pe.Extract(context.Background(), paper("Microgravity exposure caused bone loss in mice."))
	require.NoError(t, err)

	var kinds []model.EntityKind
	for _, m := range mentions {
		kinds = append(kinds, m.Kind)
	}
	assert.Contains(t, kinds, model.KindStressor)
	assert.Contains(t, kinds, model.KindPhenotype)
}

func TestTransformerExtractor_UnconfiguredDegradesGracefully(t *testing.T) {
	te := NewTransformerExtractor("")
	mentions, err := te.Extract(context.Background(), paper("anything"))
	require.NoError(t, err)
	assert.Empty(t, mentions)
}

func TestNewSecondaryExtractor_NilWhenUnconfigured(t *testing.T) {
	assert.Nil(t, NewSecondaryExtractor(""))
}

func TestEnsemble_DropsBelowThreshold(t *testing.T) {
	ens := New(nil, nil, NewPatternExtractor(), Config{ConfidenceThreshold: 0.95}, nil)
	mentions, err := ens.Run(context.Background(), []model.PreprocessedPaper{paper("Microgravity affects bone loss.")})
	require.NoError(t, err)
	assert.Empty(t, mentions, "pattern confidence 0.88 should be dropped by a 0.95 threshold")
}

func TestEnsemble_DeduplicatesAndNormalizesKind(t *testing.T) {
	ens := New(nil, nil, NewPatternExtractor(), Config{ConfidenceThreshold: 0.5}, nil)
	mentions, err := ens.Run(context.Background(), []model.PreprocessedPaper{
		paper("Microgravity and microgravity again caused bone loss."),
	})
	require.NoError(t, err)

	seen := make(map[string]int)
	for _, m := range mentions {
		assert.Equal(t, model.EntityKind(string(m.Kind)), m.Kind)
		assert.True(t, model.ValidKinds[m.Kind], "kind %q must be canonical", m.Kind)
		seen[string(m.Kind)+"|"+m.CanonicalName]++
	}
	for key, count := range seen {
		assert.Equal(t, 1, count, "mention %q should be deduplicated", key)
	}
}

func TestMergeOverlapping_HigherConfidenceWins(t *testing.T) {
	low := model.Mention{Kind: model.KindGene, Confidence: 0.5, SentenceIndex: 0, Span: model.Span{Start: 0, End: 10}}
	high := model.Mention{Kind: model.KindStressor, Confidence: 0.9, SentenceIndex: 0, Span: model.Span{Start: 2, End: 12}}

	merged := mergeOverlapping([]model.Mention{low, high})
	require.Len(t, merged, 1)
	assert.Equal(t, model.KindStressor, merged[0].Kind)
}

func TestMergeOverlapping_TieBreaksByKindPriority(t *testing.T) {
	gene := model.Mention{Kind: model.KindGene, Confidence: 0.8, SentenceIndex: 0, Span: model.Span{Start: 0, End: 10}}
	stressor := model.Mention{Kind: model.KindStressor, Confidence: 0.8, SentenceIndex: 0, Span: model.Span{Start: 2, End: 12}}

	merged := mergeOverlapping([]model.Mention{gene, stressor})
	require.Len(t, merged, 1)
	assert.Equal(t, model.KindStressor, merged[0].Kind, "stressor has higher kind priority than gene")
}
