package ner

import (
	"context"

	"github.com/NimaFathima/astrobiomers/pkg/model"
)

// SecondaryExtractor wraps an optional chemical/disease-specialized NER
// backend (§4.4 item 2: "enabled only if installed — its absence is not
// fatal"). It reuses TransformerExtractor's HTTP contract against a second
// endpoint; NewSecondaryExtractor returns nil when unconfigured so the
// ensemble simply omits it.
type SecondaryExtractor struct {
	*TransformerExtractor
}

// NewSecondaryExtractor returns nil if endpoint is empty — the caller wires
// that straight into ner.New, which already treats a nil extractor as
// "not installed".
func NewSecondaryExtractor(endpoint string) Extractor {
	if endpoint == "" {
		return nil
	}
	return &SecondaryExtractor{TransformerExtractor: NewTransformerExtractor(endpoint)}
}

func (s *SecondaryExtractor) Name() string { return "secondary_biomedical_ner" }

func (s *SecondaryExtractor) Extract(ctx context.Context, pp model.PreprocessedPaper) ([]model.Mention, error) {
	mentions, err := s.TransformerExtractor.Extract(ctx, pp)
	if err != nil {
		return nil, err
	}
	for i := range mentions {
		mentions[i].Extractor = s.Name()
	}
	return mentions, nil
}
