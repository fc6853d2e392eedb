package acquisition

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/NimaFathima/astrobiomers/pkg/model"
	"github.com/NimaFathima/astrobiomers/pkg/netutil"
)

// CuratedSource fetches a manifest (CSV, JSON or YAML) of hand-picked papers from
// a fixed URL (§4.2, preferred source). Network failures are retried with
// exponential backoff up to a fixed cap.
type CuratedSource struct {
	url    string
	client *http.Client
	retry  netutil.RetryConfig
}

// NewCuratedSource builds a curated-manifest source for url.
func NewCuratedSource(url string) *CuratedSource {
	return &CuratedSource{
		url:    url,
		client: &http.Client{Timeout: 30 * time.Second},
		retry:  netutil.DefaultRetryConfig(),
	}
}

func (c *CuratedSource) Name() string { return "curated" }

// Fetch downloads and parses the manifest. CSV rows and JSON array elements
// both map to the same record shape: title + external id, minimum.
func (c *CuratedSource) Fetch(ctx context.Context, maxPapers int) ([]model.Paper, error) {
	var body []byte

	err := netutil.Do(ctx, c.retry, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
		if err != nil {
			return err
		}
		resp, err := c.client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 400 {
			return &netutil.StatusError{Code: resp.StatusCode}
		}

		b, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}
		body = b
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("fetch curated manifest: %w", err)
	}

	trimmed := strings.TrimSpace(string(body))
	switch {
	case strings.HasPrefix(trimmed, "[") || strings.HasPrefix(trimmed, "{"):
		return parseCuratedJSON(body, maxPapers)
	case strings.HasPrefix(trimmed, "---") || strings.HasPrefix(trimmed, "- "):
		return parseCuratedYAML(body, maxPapers)
	default:
		return parseCuratedCSV(body, maxPapers)
	}
}

type curatedRecord struct {
	PMID            string   `json:"pmid" yaml:"pmid"`
	PMCID           string   `json:"pmc_id" yaml:"pmc_id"`
	DOI             string   `json:"doi" yaml:"doi"`
	Title           string   `json:"title" yaml:"title"`
	Abstract        string   `json:"abstract" yaml:"abstract"`
	Authors         []string `json:"authors" yaml:"authors"`
	PublicationYear int      `json:"publication_year" yaml:"publication_year"`
	Journal         string   `json:"journal" yaml:"journal"`
}

// parseCuratedYAML handles a YAML-formatted manifest, the curator-friendly
// alternative to the CSV/JSON forms above for lists annotated by hand.
func parseCuratedYAML(body []byte, maxPapers int) ([]model.Paper, error) {
	var records []curatedRecord
	if err := yaml.Unmarshal(body, &records); err != nil {
		return nil, fmt.Errorf("parse curated manifest yaml: %w", err)
	}
	out := make([]model.Paper, 0, len(records))
	for _, r := range records {
		out = append(out, model.Paper{
			PMID: r.PMID, PMCID: r.PMCID, DOI: r.DOI, Title: r.Title,
			Abstract: r.Abstract, Authors: r.Authors,
			PublicationYear: r.PublicationYear, Journal: r.Journal,
			SourceTag: "curated",
		})
		if maxPapers > 0 && len(out) >= maxPapers {
			break
		}
	}
	return out, nil
}

func parseCuratedJSON(body []byte, maxPapers int) ([]model.Paper, error) {
	var records []curatedRecord
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, fmt.Errorf("parse curated manifest json: %w", err)
	}
	out := make([]model.Paper, 0, len(records))
	for _, r := range records {
		out = append(out, model.Paper{
			PMID: r.PMID, PMCID: r.PMCID, DOI: r.DOI, Title: r.Title,
			Abstract: r.Abstract, Authors: r.Authors,
			PublicationYear: r.PublicationYear, Journal: r.Journal,
			SourceTag: "curated",
		})
		if maxPapers > 0 && len(out) >= maxPapers {
			break
		}
	}
	return out, nil
}

func parseCuratedCSV(body []byte, maxPapers int) ([]model.Paper, error) {
	r := csv.NewReader(strings.NewReader(string(body)))
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("parse curated manifest csv header: %w", err)
	}

	col := make(map[string]int, len(header))
	for i, h := range header {
		col[strings.ToLower(strings.TrimSpace(h))] = i
	}

	get := func(row []string, name string) string {
		idx, ok := col[name]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	var out []model.Paper
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse curated manifest csv row: %w", err)
		}

		year, _ := strconv.Atoi(get(row, "publication_year"))
		var authors []string
		if a := get(row, "authors"); a != "" {
			authors = strings.Split(a, ";")
		}

		out = append(out, model.Paper{
			PMID: get(row, "pmid"), PMCID: get(row, "pmc_id"), DOI: get(row, "doi"),
			Title: get(row, "title"), Abstract: get(row, "abstract"), Authors: authors,
			PublicationYear: year, Journal: get(row, "journal"),
			SourceTag: "curated",
		})
		if maxPapers > 0 && len(out) >= maxPapers {
			break
		}
	}
	return out, nil
}
