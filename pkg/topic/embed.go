package topic

import (
	"strings"

	"github.com/NimaFathima/astrobiomers/pkg/model"
)

// embed builds a sparse term-frequency vector per paper over its
// preprocessed sentence tokens. It stands in for §4.6's "biomedical
// sentence-embedding model" step: deterministic, and close enough in
// behavior (semantically similar papers share vocabulary) to drive the
// clustering step below.
func embed(papers []model.PreprocessedPaper) []map[string]float64 {
	vectors := make([]map[string]float64, len(papers))
	for i, p := range papers {
		freq := make(map[string]float64)
		for _, s := range p.Sentences {
			for _, t := range s.Tokens {
				freq[strings.ToLower(t)]++
			}
		}
		total := 0.0
		for _, c := range freq {
			total += c
		}
		if total > 0 {
			for k := range freq {
				freq[k] /= total
			}
		}
		vectors[i] = freq
	}
	return vectors
}

// reduce stands in for §4.6's "non-linear dimensionality reduction"
// projection. The term-frequency vectors already form a workable metric
// space for cosine similarity, so reduce is the identity — kept as a
// separate stage so a real projection can be substituted without touching
// the embed/cluster boundary.
func reduce(vectors []map[string]float64) []map[string]float64 {
	return vectors
}
