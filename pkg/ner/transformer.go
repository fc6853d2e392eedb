package ner

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/NimaFathima/astrobiomers/pkg/model"
	"github.com/NimaFathima/astrobiomers/pkg/netutil"
)

// TransformerExtractor calls an HTTP-hosted biomedical token-classification
// model (§4.4's "domain-adapted language model"). It is the same
// pluggable-backend-over-HTTP shape as the teacher's embedding providers:
// a fixed request/response contract, classified retry, and a caller that
// degrades gracefully when the backend is unreachable rather than failing
// the whole paper.
type TransformerExtractor struct {
	endpoint string
	client   *http.Client
	retry    netutil.RetryConfig
}

// NewTransformerExtractor builds an extractor pointed at a token-
// classification service. endpoint is expected to accept
// {"sentences": [...]}  and return {"spans": [{start,end,kind,confidence,sentence_index}]}.
func NewTransformerExtractor(endpoint string) *TransformerExtractor {
	return &TransformerExtractor{
		endpoint: endpoint,
		client:   &http.Client{Timeout: 30 * time.Second},
		retry:    netutil.DefaultRetryConfig(),
	}
}

func (t *TransformerExtractor) Name() string { return "biomedical_transformer" }

type transformerRequest struct {
	Sentences []string `json:"sentences"`
}

type transformerSpan struct {
	SentenceIndex int     `json:"sentence_index"`
	Start         int     `json:"start"`
	End           int     `json:"end"`
	Text          string  `json:"text"`
	Kind          string  `json:"kind"`
	Confidence    float64 `json:"confidence"`
}

type transformerResponse struct {
	Spans []transformerSpan `json:"spans"`
}

func (t *TransformerExtractor) Extract(ctx context.Context, pp model.PreprocessedPaper) ([]model.Mention, error) {
	if t.endpoint == "" {
		// Unconfigured backend degrades gracefully (§4.4): no mentions, no error.
		return nil, nil
	}

	sentences := make([]string, len(pp.Sentences))
	for i, s := range pp.Sentences {
		sentences[i] = s.Text
	}

	var result transformerResponse
	err := netutil.Do(ctx, t.retry, func(ctx context.Context) error {
		return t.call(ctx, sentences, &result)
	})
	if err != nil {
		return nil, fmt.Errorf("transformer inference: %w", err)
	}

	out := make([]model.Mention, 0, len(result.Spans))
	for _, sp := range result.Spans {
		if sp.SentenceIndex < 0 || sp.SentenceIndex >= len(pp.Sentences) {
			continue
		}
		origin := pp.Sentences[sp.SentenceIndex].OriginalFrom
		out = append(out, model.Mention{
			PaperID:       pp.PaperID,
			Text:          sp.Text,
			Kind:          model.EntityKind(sp.Kind),
			Span:          model.Span{Start: origin + sp.Start, End: origin + sp.End},
			SentenceIndex: sp.SentenceIndex,
			Confidence:    sp.Confidence,
			Extractor:     t.Name(),
		})
	}
	return out, nil
}

func (t *TransformerExtractor) call(ctx context.Context, sentences []string, dst *transformerResponse) error {
	body, err := json.Marshal(transformerRequest{Sentences: sentences})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return &netutil.StatusError{Code: resp.StatusCode}
	}
	return json.NewDecoder(resp.Body).Decode(dst)
}
