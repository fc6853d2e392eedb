package preprocess

import (
	"context"
	"testing"

	"github.com/NimaFathima/astrobiomers/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestText_StripsCitationsFigsAndURLs(t *testing.T) {
	p := model.Paper{
		PMID:     "1",
		Title:    "Microgravity effects on bone density",
		Abstract: "Bone loss was observed [12] as shown in Fig. 3. See https://example.com/data for details (Smith et al., 2019).",
	}

	pp := Text(p)
	require.NotEmpty(t, pp.Sentences)

	for _, s := range pp.Sentences {
		assert.NotContains(t, s.Text, "[12]")
		assert.NotContains(t, s.Text, "Fig. 3")
		assert.NotContains(t, s.Text, "https://")
	}
}

func TestText_PreservesOriginal(t *testing.T) {
	p := model.Paper{Title: "Spaceflight immune dysfunction", Abstract: "Isolation increases risk."}
	pp := Text(p)
	assert.Contains(t, pp.Original, "Spaceflight immune dysfunction")
	assert.Contains(t, pp.Original, "Isolation increases risk")
}

func TestText_EmptyAbstractAndTitleYieldsZeroSentences(t *testing.T) {
	pp := Text(model.Paper{PMID: "2"})
	assert.Empty(t, pp.Sentences)
}

func TestProcess_MarksPreprocessFailedOnEmptySegmentation(t *testing.T) {
	papers := []model.Paper{
		{PMID: "1", Title: "Bone loss in mice", Abstract: "Microgravity induced bone loss."},
		{PMID: "2"},
	}
	out := Process(context.Background(), papers, nil)

	// The empty paper is excluded from the returned slice entirely, not
	// just left with empty Sentences: NER and every later stage only ever
	// sees papers[0].
	require.Len(t, out, 1)
	assert.NotEmpty(t, out[0].Sentences)
	assert.Equal(t, "1", papers[0].Key())

	// papers[i] is mutated in place so the caller's slice (threaded
	// through to graph loading) reflects the failure too.
	assert.False(t, papers[0].PreprocessFailed)
	assert.True(t, papers[1].PreprocessFailed)
}

func TestSplitSentences_RespectsAbbreviations(t *testing.T) {
	sentences := splitSentences("Smith et al. reported bone loss. Muscle atrophy followed.")
	require.Len(t, sentences, 2)
}

func TestRemoveStopwords_DropsStandardAndDomainWords(t *testing.T) {
	tokens := []string{"microgravity", "and", "fig", "bone", "loss", "et", "al"}
	filtered := removeStopwords(tokens)
	assert.Equal(t, []string{"microgravity", "bone", "loss"}, filtered)
}

func TestLemmatize(t *testing.T) {
	cases := map[string]string{
		"induced":     "induce",
		"upregulates": "upregulate",
		"studies":     "study",
		"cells":       "cell",
		"running":     "run",
	}
	for in, want := range cases {
		assert.Equal(t, want, lemmatize(in), "lemmatize(%q)", in)
	}
}
