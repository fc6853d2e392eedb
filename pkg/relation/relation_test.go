package relation

import (
	"context"
	"testing"

	"github.com/NimaFathima/astrobiomers/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func samplePaper() (model.PreprocessedPaper, []model.Mention) {
	text := "Microgravity causes bone loss in mice."
	sentence := model.Sentence{
		Index:        0,
		Text:         text,
		Tokens:       []string{"Microgravity", "causes", "bone", "loss", "in", "mice"},
		Lemmas:       []string{"microgravity", "cause", "bone", "loss", "in", "mouse"},
		POS:          []string{"NOUN", "VERB", "NOUN", "NOUN", "ADP", "NOUN"},
		OriginalFrom: 0,
		OriginalTo:   len(text),
	}
	pp := model.PreprocessedPaper{PaperID: "p1", Original: text, Sentences: []model.Sentence{sentence}}

	mentions := []model.Mention{
		{PaperID: "p1", Text: "Microgravity", CanonicalName: "microgravity", Kind: model.KindStressor, Span: model.Span{Start: 0, End: 12}, SentenceIndex: 0, Confidence: 0.9},
		{PaperID: "p1", Text: "bone loss", CanonicalName: "bone loss", Kind: model.KindPhenotype, Span: model.Span{Start: 20, End: 29}, SentenceIndex: 0, Confidence: 0.9},
	}
	return pp, mentions
}

func TestExtract_SVOFindsCausalRelation(t *testing.T) {
	pp, mentions := samplePaper()
	relations := Extract(context.Background(), pp, mentions, Config{}, nil)

	require.NotEmpty(t, relations)
	found := false
	for _, r := range relations {
		if r.SubjectCanonical == "microgravity" && r.ObjectCanonical == "bone loss" {
			found = true
			assert.Equal(t, model.RelCauses, r.Type, "cause lemma maps to CAUSES")
		}
	}
	assert.True(t, found, "expected a microgravity -> bone loss relation")
}

func TestExtract_DropsBelowConfidenceFloor(t *testing.T) {
	pp, mentions := samplePaper()
	relations := Extract(context.Background(), pp, mentions, Config{ConfidenceFloor: 0.95}, nil)
	assert.Empty(t, relations)
}

func TestExtract_TypeConstraintsDropInvalidPairs(t *testing.T) {
	pp, mentions := samplePaper()
	// Swap kinds so the subject/object no longer satisfy CAUSES's allow-table.
	mentions[0].Kind = model.KindDisease
	mentions[1].Kind = model.KindCellType

	relations := Extract(context.Background(), pp, mentions, Config{}, nil)
	for _, r := range relations {
		assert.True(t, model.AllowsPair(r.Type, r.SubjectKind, r.ObjectKind))
	}
}

func TestAggregate_CollapsesDuplicatesAndUnionsEvidence(t *testing.T) {
	relations := []model.Relation{
		{SubjectCanonical: "microgravity", SubjectKind: model.KindStressor, Type: model.RelCauses, ObjectCanonical: "bone loss", ObjectKind: model.KindPhenotype, Confidence: 0.7, Evidence: []string{"s1"}},
		{SubjectCanonical: "microgravity", SubjectKind: model.KindStressor, Type: model.RelCauses, ObjectCanonical: "bone loss", ObjectKind: model.KindPhenotype, Confidence: 0.85, Evidence: []string{"s2"}},
	}
	out := aggregate(relations, Config{}.sanitized())
	require.Len(t, out, 1)
	assert.Equal(t, 0.85, out[0].Confidence)
	assert.ElementsMatch(t, []string{"s1", "s2"}, out[0].Evidence)
}

func TestCooccurrence_SkipsAlreadyConnectedPairs(t *testing.T) {
	sm := sentenceMentions{
		sentence: model.Sentence{Index: 0, Text: "A and B."},
		mentions: []model.Mention{
			{CanonicalName: "a", Kind: model.KindGene},
			{CanonicalName: "b", Kind: model.KindProtein},
		},
	}
	connected := map[string]bool{"a|b": true, "b|a": true}
	out := extractCooccurrence(sm, connected, 0.70)
	assert.Empty(t, out)
}
