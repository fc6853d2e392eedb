package acquisition

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/NimaFathima/astrobiomers/pkg/model"
	"github.com/NimaFathima/astrobiomers/pkg/netutil"
)

const (
	pubmedBaseURL  = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils"
	pubmedPageSize = 100

	// Rate-limit floors from NCBI's documented E-utilities policy: 3 req/s
	// with a key, 3 req/10s without (§4.2 "rate-limit compliance").
	intervalWithKey    = 350 * time.Millisecond
	intervalWithoutKey = 3400 * time.Millisecond
)

// PubMedSource performs a paginated keyword search against PubMed's
// E-utilities (§4.2's "keyword search against a biomedical literature
// service"), honoring NCBI's minimum inter-request interval.
type PubMedSource struct {
	query   string
	email   string
	apiKey  string
	client  *http.Client
	limiter *netutil.ServiceLimiter
	retry   netutil.RetryConfig
}

// NewPubMedSource builds a PubMed search source. The inter-request interval
// is determined by whether apiKey is configured, per §4.2.
func NewPubMedSource(query, email, apiKey string) *PubMedSource {
	interval := intervalWithoutKey
	if apiKey != "" {
		interval = intervalWithKey
	}
	return &PubMedSource{
		query:   query,
		email:   email,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 30 * time.Second},
		limiter: netutil.NewServiceLimiter(interval),
		retry:   netutil.DefaultRetryConfig(),
	}
}

func (p *PubMedSource) Name() string { return "pubmed_search" }

// Fetch pages through esearch/esummary until maxPapers results are
// collected or the result set is exhausted.
func (p *PubMedSource) Fetch(ctx context.Context, maxPapers int) ([]model.Paper, error) {
	var out []model.Paper

	for retstart := 0; maxPapers <= 0 || len(out) < maxPapers; retstart += pubmedPageSize {
		pageSize := pubmedPageSize
		if maxPapers > 0 {
			if remaining := maxPapers - len(out); remaining < pageSize {
				pageSize = remaining
			}
		}

		ids, err := p.esearch(ctx, retstart, pageSize)
		if err != nil {
			return out, fmt.Errorf("pubmed esearch: %w", err)
		}
		if len(ids) == 0 {
			break
		}

		papers, err := p.esummary(ctx, ids)
		if err != nil {
			return out, fmt.Errorf("pubmed esummary: %w", err)
		}
		out = append(out, papers...)

		if len(ids) < pageSize {
			break
		}
	}

	return out, nil
}

func (p *PubMedSource) baseParams() url.Values {
	v := url.Values{}
	v.Set("db", "pubmed")
	v.Set("retmode", "json")
	if p.email != "" {
		v.Set("email", p.email)
	}
	if p.apiKey != "" {
		v.Set("api_key", p.apiKey)
	}
	return v
}

type esearchResponse struct {
	ESearchResult struct {
		IDList []string `json:"idlist"`
	} `json:"esearchresult"`
}

func (p *PubMedSource) esearch(ctx context.Context, retstart, retmax int) ([]string, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	v := p.baseParams()
	v.Set("term", p.query)
	v.Set("retstart", strconv.Itoa(retstart))
	v.Set("retmax", strconv.Itoa(retmax))

	var result esearchResponse
	err := netutil.Do(ctx, p.retry, func(ctx context.Context) error {
		return p.getJSON(ctx, pubmedBaseURL+"/esearch.fcgi?"+v.Encode(), &result)
	})
	if err != nil {
		return nil, err
	}
	return result.ESearchResult.IDList, nil
}

type esummaryResponse struct {
	Result map[string]json.RawMessage `json:"result"`
}

type esummaryDoc struct {
	UID      string `json:"uid"`
	Title    string `json:"title"`
	PubDate  string `json:"pubdate"`
	FullJID  string `json:"fulljournalname"`
	ArticleIDs []struct {
		IDType string `json:"idtype"`
		Value  string `json:"value"`
	} `json:"articleids"`
	Authors []struct {
		Name string `json:"name"`
	} `json:"authors"`
}

func (p *PubMedSource) esummary(ctx context.Context, ids []string) ([]model.Paper, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	v := p.baseParams()
	v.Set("id", joinIDs(ids))

	var result esummaryResponse
	err := netutil.Do(ctx, p.retry, func(ctx context.Context) error {
		return p.getJSON(ctx, pubmedBaseURL+"/esummary.fcgi?"+v.Encode(), &result)
	})
	if err != nil {
		return nil, err
	}

	out := make([]model.Paper, 0, len(ids))
	for _, id := range ids {
		raw, ok := result.Result[id]
		if !ok {
			continue
		}
		var doc esummaryDoc
		if err := json.Unmarshal(raw, &doc); err != nil {
			continue
		}

		paper := model.Paper{
			PMID:      doc.UID,
			Title:     doc.Title,
			Journal:   doc.FullJID,
			SourceTag: "pubmed_search",
		}
		if year, err := strconv.Atoi(firstFourDigits(doc.PubDate)); err == nil {
			paper.PublicationYear = year
		}
		for _, a := range doc.Authors {
			paper.Authors = append(paper.Authors, a.Name)
		}
		for _, aid := range doc.ArticleIDs {
			switch aid.IDType {
			case "doi":
				paper.DOI = aid.Value
			case "pmc":
				paper.PMCID = aid.Value
			}
		}
		out = append(out, paper)
	}
	return out, nil
}

func (p *PubMedSource) getJSON(ctx context.Context, fullURL string, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return err
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return &netutil.StatusError{Code: resp.StatusCode}
	}
	return json.NewDecoder(resp.Body).Decode(dst)
}

func joinIDs(ids []string) string {
	out := ""
	for i, id := range ids {
		if i > 0 {
			out += ","
		}
		out += id
	}
	return out
}

func firstFourDigits(s string) string {
	digits := 0
	start := -1
	for i, r := range s {
		if r >= '0' && r <= '9' {
			if start == -1 {
				start = i
			}
			digits++
			if digits == 4 {
				return s[start : i+1]
			}
		} else if start != -1 {
			break
		}
	}
	return ""
}
