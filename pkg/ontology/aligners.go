package ontology

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/NimaFathima/astrobiomers/pkg/model"
	"github.com/NimaFathima/astrobiomers/pkg/netutil"
)

// httpAligner is the shared shape for every §4.8 ontology lookup: a GET
// against the EBI Ontology Lookup Service (OLS), restricted to one ontology
// id, rate-limited and retried.
type httpAligner struct {
	ontology   string
	olsID      string
	baseURL    string
	client     *http.Client
	limiter    *netutil.ServiceLimiter
	retry      netutil.RetryConfig
}

func (h *httpAligner) Ontology() string { return h.ontology }

type olsSearchResponse struct {
	Response struct {
		Docs []struct {
			Label     string `json:"label"`
			Obo_id    string `json:"obo_id"`
			ShortForm string `json:"short_form"`
		} `json:"docs"`
	} `json:"response"`
}

func (h *httpAligner) Align(ctx context.Context, canonicalName string) (string, bool, error) {
	if canonicalName == "" {
		return "", false, nil
	}
	if err := h.limiter.Wait(ctx); err != nil {
		return "", false, err
	}

	v := url.Values{}
	v.Set("q", canonicalName)
	v.Set("ontology", h.olsID)
	v.Set("rows", "1")
	fullURL := h.baseURL + "?" + v.Encode()

	var term string
	var found bool
	err := netutil.Do(ctx, h.retry, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return err
		}
		resp, err := h.client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 400 {
			return &netutil.StatusError{Code: resp.StatusCode}
		}

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}

		var result olsSearchResponse
		if err := json.Unmarshal(body, &result); err != nil {
			return err
		}
		if len(result.Response.Docs) == 0 {
			return nil
		}
		doc := result.Response.Docs[0]
		if doc.Obo_id != "" {
			term = doc.Obo_id
		} else {
			term = doc.ShortForm
		}
		found = term != ""
		return nil
	})
	if err != nil {
		return "", false, fmt.Errorf("%s alignment: %w", h.ontology, err)
	}
	return term, found, nil
}

func newOLSAligner(ontology, olsID, baseURL string) Aligner {
	if baseURL == "" {
		baseURL = "https://www.ebi.ac.uk/ols4/api/search"
	}
	return &httpAligner{
		ontology: ontology,
		olsID:    olsID,
		baseURL:  baseURL,
		client:   &http.Client{Timeout: 30 * time.Second},
		limiter:  netutil.NewServiceLimiter(300 * time.Millisecond),
		retry:    netutil.DefaultRetryConfig(),
	}
}

// DefaultAligners builds the full per-kind ontology table from §4.8: Gene ->
// GO, Disease -> Mondo, Phenotype -> HPO, Stressor -> ENVO, Cell type -> CL,
// organism/anatomical -> UBERON, Chemical -> ChEBI.
func DefaultAligners(baseURL string) map[model.EntityKind]Aligner {
	return map[model.EntityKind]Aligner{
		model.KindGene:      newOLSAligner("GO", "go", baseURL),
		model.KindDisease:   newOLSAligner("Mondo", "mondo", baseURL),
		model.KindPhenotype: newOLSAligner("HPO", "hp", baseURL),
		model.KindStressor:  newOLSAligner("ENVO", "envo", baseURL),
		model.KindCellType:  newOLSAligner("CL", "cl", baseURL),
		model.KindOrganism:  newOLSAligner("UBERON", "uberon", baseURL),
		model.KindChemical:  newOLSAligner("ChEBI", "chebi", baseURL),
	}
}
