package graph

import (
	"testing"

	"github.com/NimaFathima/astrobiomers/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregateEntities_MaxConfidenceAndUnionProvenance(t *testing.T) {
	mentions := []model.Mention{
		{PaperID: "p1", Kind: model.KindGene, CanonicalName: "sirt1", Confidence: 0.80, ExternalIDs: map[string]string{"entrez_id": "1"}},
		{PaperID: "p2", Kind: model.KindGene, CanonicalName: "sirt1", Confidence: 0.95},
		{PaperID: "p1", Kind: model.KindGene, CanonicalName: "sirt1", Confidence: 0.60},
	}

	byKind := aggregateEntities(mentions)
	require.Len(t, byKind[model.KindGene], 1)

	sirt1 := byKind[model.KindGene][0]
	assert.Equal(t, "sirt1", sirt1.canonicalName)
	assert.InDelta(t, 0.95, sirt1.confidence, 1e-9)
	assert.Equal(t, 3, sirt1.mentionCount)
	assert.ElementsMatch(t, []string{"p1", "p2"}, provenanceList(sirt1))
	assert.Equal(t, "1", sirt1.externalIDs["entrez_id"])
}

func TestAggregateEntities_SplitsByKind(t *testing.T) {
	mentions := []model.Mention{
		{PaperID: "p1", Kind: model.KindGene, CanonicalName: "sirt1"},
		{PaperID: "p1", Kind: model.KindDisease, CanonicalName: "osteoporosis"},
	}
	byKind := aggregateEntities(mentions)
	assert.Len(t, byKind[model.KindGene], 1)
	assert.Len(t, byKind[model.KindDisease], 1)
}

func TestGroupRelations_GroupsByTypeAndKindPair(t *testing.T) {
	relations := []model.Relation{
		{Type: model.RelUpregulates, SubjectKind: model.KindGene, ObjectKind: model.KindGene},
		{Type: model.RelUpregulates, SubjectKind: model.KindGene, ObjectKind: model.KindProtein},
		{Type: model.RelCauses, SubjectKind: model.KindStressor, ObjectKind: model.KindPhenotype},
	}
	groups := groupRelations(relations)
	assert.Len(t, groups, 3)
	assert.Len(t, groups[relationGroupKey{model.RelUpregulates, model.KindGene, model.KindGene}], 1)
}

func TestChunk_SplitsIntoFixedSizeGroups(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}
	got := chunk(items, 2)
	require.Len(t, got, 3)
	assert.Equal(t, []int{1, 2}, got[0])
	assert.Equal(t, []int{3, 4}, got[1])
	assert.Equal(t, []int{5}, got[2])
}

func TestConstraintName_SanitizesLabel(t *testing.T) {
	assert.Equal(t, "CELL_TYPE", constraintName("CELL_TYPE"))
}

func TestPaperKeySet_PrefersPMIDOverSyntheticKey(t *testing.T) {
	papers := []model.Paper{
		{PMID: "123"},
		{SourceTag: "dataset:acc1", Title: "A Title"},
	}
	set := paperKeySet(papers)
	assert.True(t, set["123"])
	assert.True(t, set[papers[1].Key()])
}

func TestPaperProps_IncludesPMID(t *testing.T) {
	props := paperProps(model.Paper{PMID: "123", Title: "A Title"})
	assert.Equal(t, "123", props["pmid"])
}

func TestSyntheticPaperProps_OmitsPMIDKey(t *testing.T) {
	props := syntheticPaperProps(model.Paper{SourceTag: "dataset:acc1", Title: "A Title"})
	_, hasPMID := props["pmid"]
	assert.False(t, hasPMID, "synthetic-keyed papers must never write pmid, even empty, onto a uniqueness-constrained property")
	assert.Equal(t, "A Title", props["title"])
}
