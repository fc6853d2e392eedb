package resolution

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

// DefaultResolvers builds the per-kind resolver table §4.7 names: gene ->
// Entrez, protein -> UniProt, organism -> NCBI taxonomy, chemical ->
// PubChem. Kinds with no external database (disease, phenotype, stressor,
// cell type, intervention) are left unmapped and stay unresolved.
func DefaultResolvers(baseURLs map[model.EntityKind]string) map[model.EntityKind]Resolver {
	return map[model.EntityKind]Resolver{
		model.KindGene:     NewGeneResolver(baseURLs[model.KindGene]),
		model.KindProtein:  NewProteinResolver(baseURLs[model.KindProtein]),
		model.KindOrganism: NewOrganismResolver(baseURLs[model.KindOrganism]),
		model.KindChemical: NewChemicalResolver(baseURLs[model.KindChemical]),
	}
}

// httpResolver is the shared shape for every §4.7 lookup service: a GET
// against a templated URL, rate-limited and retried, returning the first
// matched identifier from a JSON response.
type httpResolver struct {
	database    string
	baseURL     string
	client      *http.Client
	limiter     *netutil.ServiceLimiter
	retry       netutil.RetryConfig
	extractID   func(body []byte) (string, bool, error)
	buildURL    func(baseURL, canonicalName string) string
}

func (h *httpResolver) Database() string { return h.database }

func (h *httpResolver) Lookup(ctx context.Context, canonicalName string) (string, bool, error) {
	if canonicalName == "" {
		return "", false, nil
	}
	if err := h.limiter.Wait(ctx); err != nil {
		return "", false, err
	}

	var id string
	var found bool
	err := netutil.Do(ctx, h.retry, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.buildURL(h.baseURL, canonicalName), nil)
		if err != nil {
			return err
		}
		resp, err := h.client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode == http.StatusNotFound {
			return nil
		}
		if resp.StatusCode >= 400 {
			return &netutil.StatusError{Code: resp.StatusCode}
		}

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}
		id, found, err = h.extractID(body)
		return err
	})
	if err != nil {
		return "", false, fmt.Errorf("%s lookup: %w", h.database, err)
	}
	return id, found, nil
}

// NewGeneResolver looks up gene symbols against NCBI's Entrez gene search
// (§4.7: "symbol -> Entrez id").
func NewGeneResolver(baseURL string) Resolver {
	if baseURL == "" {
		baseURL = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils/esearch.fcgi"
	}
	return &httpResolver{
		database: "entrez_id",
		baseURL:  baseURL,
		client:   &http.Client{Timeout: 30 * time.Second},
		limiter:  netutil.NewServiceLimiter(350 * time.Millisecond),
		retry:    netutil.DefaultRetryConfig(),
		buildURL: func(base, name string) string {
			v := url.Values{}
			v.Set("db", "gene")
			v.Set("retmode", "json")
			v.Set("term", name+"[sym]")
			return base + "?" + v.Encode()
		},
		extractID: extractFirstID(`"idlist":["`, `"`),
	}
}

// NewProteinResolver looks up protein names against UniProt (§4.7: "name ->
// UniProt accession").
func NewProteinResolver(baseURL string) Resolver {
	if baseURL == "" {
		baseURL = "https://rest.uniprot.org/uniprotkb/search"
	}
	return &httpResolver{
		database: "uniprot_id",
		baseURL:  baseURL,
		client:   &http.Client{Timeout: 30 * time.Second},
		limiter:  netutil.NewServiceLimiter(time.Second),
		retry:    netutil.DefaultRetryConfig(),
		buildURL: func(base, name string) string {
			v := url.Values{}
			v.Set("query", name)
			v.Set("format", "json")
			v.Set("size", "1")
			v.Set("fields", "accession")
			return base + "?" + v.Encode()
		},
		extractID: extractJSONPath,
	}
}

// NewOrganismResolver looks up organism names against the NCBI taxonomy
// service (§4.7: "name -> NCBI taxon id").
func NewOrganismResolver(baseURL string) Resolver {
	if baseURL == "" {
		baseURL = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils/esearch.fcgi"
	}
	return &httpResolver{
		database: "ncbi_taxon_id",
		baseURL:  baseURL,
		client:   &http.Client{Timeout: 30 * time.Second},
		limiter:  netutil.NewServiceLimiter(350 * time.Millisecond),
		retry:    netutil.DefaultRetryConfig(),
		buildURL: func(base, name string) string {
			v := url.Values{}
			v.Set("db", "taxonomy")
			v.Set("retmode", "json")
			v.Set("term", name)
			return base + "?" + v.Encode()
		},
		extractID: extractFirstID(`"idlist":["`, `"`),
	}
}

// NewChemicalResolver looks up compound names against PubChem (§4.7: "name
// -> PubChem CID").
func NewChemicalResolver(baseURL string) Resolver {
	if baseURL == "" {
		baseURL = "https://pubchem.ncbi.nlm.nih.gov/rest/pug/compound/name"
	}
	return &httpResolver{
		database: "pubchem_id",
		baseURL:  baseURL,
		client:   &http.Client{Timeout: 30 * time.Second},
		limiter:  netutil.NewServiceLimiter(200 * time.Millisecond),
		retry:    netutil.DefaultRetryConfig(),
		buildURL: func(base, name string) string {
			return base + "/" + url.PathEscape(name) + "/cids/JSON"
		},
		extractID: extractPubChemCID,
	}
}

// extractFirstID returns a closure that substring-matches a single id out
// of a small, predictable JSON shape without a full schema. Good enough for
// esearch's `idlist` array, which is all these lookups need.
func extractFirstID(prefix, suffix string) func([]byte) (string, bool, error) {
	return func(body []byte) (string, bool, error) {
		s := string(body)
		idx := indexOf(s, prefix)
		if idx < 0 {
			return "", false, nil
		}
		start := idx + len(prefix)
		end := indexOf(s[start:], suffix)
		if end <= 0 {
			return "", false, nil
		}
		id := s[start : start+end]
		if id == "" {
			return "", false, nil
		}
		return id, true, nil
	}
}

func indexOf(s, substr string) int {
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			return i
		}
	}
	return -1
}

type uniprotSearchResponse struct {
	Results []struct {
		PrimaryAccession string `json:"primaryAccession"`
	} `json:"results"`
}

func extractJSONPath(body []byte) (string, bool, error) {
	var resp uniprotSearchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", false, err
	}
	if len(resp.Results) == 0 {
		return "", false, nil
	}
	return resp.Results[0].PrimaryAccession, true, nil
}

type pubchemCIDResponse struct {
	IdentifierList struct {
		CID []int `json:"CID"`
	} `json:"IdentifierList"`
}

func extractPubChemCID(body []byte) (string, bool, error) {
	var resp pubchemCIDResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", false, err
	}
	if len(resp.IdentifierList.CID) == 0 {
		return "", false, nil
	}
	return fmt.Sprintf("%d", resp.IdentifierList.CID[0]), true, nil
}
