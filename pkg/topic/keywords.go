package topic

import (
	"sort"

	"github.com/NimaFathima/astrobiomers/pkg/model"
)

// classBasedKeywords ranks terms by class-based term frequency: frequency
// within the cluster's member abstracts divided by one plus the term's
// frequency across the whole corpus, favoring terms that are distinctive to this cluster over
// terms merely common overall (§4.6's "class-based term frequencies").
func classBasedKeywords(papers []model.PreprocessedPaper, members []int, topK int) []string {
	corpusFreq := make(map[string]float64)
	for _, p := range papers {
		for _, s := range p.Sentences {
			for _, t := range s.Tokens {
				corpusFreq[t]++
			}
		}
	}

	clusterFreq := make(map[string]float64)
	for _, idx := range members {
		for _, s := range papers[idx].Sentences {
			for _, t := range s.Tokens {
				clusterFreq[t]++
			}
		}
	}

	type scored struct {
		term  string
		score float64
	}
	scores := make([]scored, 0, len(clusterFreq))
	for term, cf := range clusterFreq {
		score := cf / (1 + corpusFreq[term])
		scores = append(scores, scored{term: term, score: score})
	}

	sort.Slice(scores, func(i, j int) bool {
		if scores[i].score != scores[j].score {
			return scores[i].score > scores[j].score
		}
		return scores[i].term < scores[j].term
	})

	if len(scores) > topK {
		scores = scores[:topK]
	}
	out := make([]string, len(scores))
	for i, s := range scores {
		out[i] = s.term
	}
	return out
}
