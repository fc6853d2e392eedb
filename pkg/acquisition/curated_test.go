package acquisition

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCuratedJSON_ParsesRecords(t *testing.T) {
	body := `[{"pmid":"1","title":"A study","publication_year":2020,"authors":["A","B"]}]`
	papers, err := parseCuratedJSON([]byte(body), 0)
	require.NoError(t, err)
	require.Len(t, papers, 1)
	assert.Equal(t, "1", papers[0].PMID)
	assert.Equal(t, "curated", papers[0].SourceTag)
	assert.Equal(t, 2020, papers[0].PublicationYear)
}

func TestParseCuratedCSV_ParsesRecords(t *testing.T) {
	body := "pmid,title,authors,publication_year\n1,A study,A;B,2020\n"
	papers, err := parseCuratedCSV([]byte(body), 0)
	require.NoError(t, err)
	require.Len(t, papers, 1)
	assert.Equal(t, "1", papers[0].PMID)
	assert.Equal(t, []string{"A", "B"}, papers[0].Authors)
}

func TestParseCuratedYAML_ParsesRecords(t *testing.T) {
	body := "---\n- pmid: \"1\"\n  title: A study\n  publication_year: 2020\n  authors: [A, B]\n"
	papers, err := parseCuratedYAML([]byte(body), 0)
	require.NoError(t, err)
	require.Len(t, papers, 1)
	assert.Equal(t, "1", papers[0].PMID)
	assert.Equal(t, "curated", papers[0].SourceTag)
	assert.Equal(t, []string{"A", "B"}, papers[0].Authors)
}

func TestParseCuratedYAML_RespectsMaxPapers(t *testing.T) {
	body := "---\n- title: one\n- title: two\n- title: three\n"
	papers, err := parseCuratedYAML([]byte(body), 2)
	require.NoError(t, err)
	assert.Len(t, papers, 2)
}

func TestParseCuratedYAML_MalformedYAMLIsAnError(t *testing.T) {
	_, err := parseCuratedYAML([]byte("not: [valid, yaml"), 0)
	assert.Error(t, err)
}
