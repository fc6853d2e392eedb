package pipeline

import (
	"testing"
	"time"

	"github.com/NimaFathima/astrobiomers/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFresh_MissingOutputIsNotFresh(t *testing.T) {
	dir := t.TempDir()
	assert.False(t, fresh(dir, "missing.json", ""))
}

func TestFresh_NoInputMeansOutputAloneIsEnough(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, writeArtifact(dir, "out.json", map[string]int{"a": 1}))
	assert.True(t, fresh(dir, "out.json", ""))
}

func TestFresh_StaleWhenInputIsNewer(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, writeArtifact(dir, "in.json", 1))
	time.Sleep(10 * time.Millisecond)
	require.NoError(t, writeArtifact(dir, "out.json", 1))
	assert.True(t, fresh(dir, "out.json", "in.json"))

	time.Sleep(10 * time.Millisecond)
	require.NoError(t, writeArtifact(dir, "in.json", 2))
	assert.False(t, fresh(dir, "out.json", "in.json"))
}

func TestWriteReadArtifact_RoundTrips(t *testing.T) {
	dir := t.TempDir()
	papers := []model.Paper{{PMID: "123", Title: "A Title"}}
	require.NoError(t, writeArtifact(dir, fileRawPapers, papers))

	var got []model.Paper
	found, err := readArtifact(dir, fileRawPapers, &got)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, papers, got)
}

func TestReadArtifact_MissingFileIsNotAnError(t *testing.T) {
	dir := t.TempDir()
	var got []model.Paper
	found, err := readArtifact(dir, "nope.json", &got)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestComputeTotals_CountsByKindAndType(t *testing.T) {
	papers := []model.Paper{{PMID: "1"}, {PMID: "2"}}
	mentions := []model.Mention{
		{Kind: model.KindGene},
		{Kind: model.KindGene},
		{Kind: model.KindDisease},
	}
	relations := []model.Relation{
		{Type: model.RelUpregulates},
		{Type: model.RelCauses},
	}
	topics := model.TopicResult{Topics: []model.Topic{{ID: 0}, {ID: 1}}}

	totals := computeTotals(papers, mentions, relations, topics)
	assert.Equal(t, 2, totals.Papers)
	assert.Equal(t, 2, totals.Topics)
	assert.Equal(t, 2, totals.EntitiesByKind[model.KindGene])
	assert.Equal(t, 1, totals.EntitiesByKind[model.KindDisease])
	assert.Equal(t, 1, totals.RelationsByType[model.RelUpregulates])
	assert.Equal(t, 1, totals.RelationsByType[model.RelCauses])
}

func TestTimedStage_PropagatesErrorAndRecordsReport(t *testing.T) {
	stage, err := timedStage("demo", 3, func() (int, error) {
		return 2, assert.AnError
	})
	require.Error(t, err)
	assert.Equal(t, "demo", stage.Name)
	assert.Equal(t, 3, stage.InputCount)
	assert.Equal(t, 2, stage.OutputCount)
	assert.Equal(t, assert.AnError.Error(), stage.Error)
}

func TestZeroOutputError_IsFatal(t *testing.T) {
	err := zeroOutputError("ner")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ner")
}
