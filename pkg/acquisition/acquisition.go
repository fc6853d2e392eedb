// Package acquisition implements pipeline stage 1 (spec.md §4.2): producing
// a deterministic, deduplicated list of paper records from one or more
// configured sources (curated manifest, PubMed keyword search, dataset
// catalogs).
package acquisition

import (
	"context"
	"log/slog"
	"sort"

	"github.com/NimaFathima/astrobiomers/pkg/model"
)

// Source is the common interface every acquisition source implements.
type Source interface {
	// Name identifies the source for logging and the record's SourceTag.
	Name() string
	// Fetch returns up to maxPapers records. Implementations own their own
	// retry/backoff/rate-limit policy (§5, §4.2).
	Fetch(ctx context.Context, maxPapers int) ([]model.Paper, error)
}

// Config selects which sources run and bounds total output, per the
// pipeline orchestrator's config contract (§4.1).
type Config struct {
	UseCurated    bool
	UsePubMed     bool
	UseDatasets   bool
	MaxPapers     int
	CuratedURL    string
	PubMedQuery   string
	PubMedEmail   string
	PubMedAPIKey  string
	DatasetURLs   []string
}

// Acquire runs every enabled source, merges their output, drops records
// missing both title and abstract, deduplicates by pmid then doi then
// title hash, and returns a deterministically (identifier-)sorted list
// capped at MaxPapers (§4.2 "Guarantees").
func Acquire(ctx context.Context, cfg Config, logger *slog.Logger) ([]model.Paper, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var sources []Source
	if cfg.UseCurated {
		sources = append(sources, NewCuratedSource(cfg.CuratedURL))
	}
	if cfg.UsePubMed {
		sources = append(sources, NewPubMedSource(cfg.PubMedQuery, cfg.PubMedEmail, cfg.PubMedAPIKey))
	}
	if cfg.UseDatasets {
		for _, u := range cfg.DatasetURLs {
			sources = append(sources, NewDatasetSource(u))
		}
	}

	if cfg.MaxPapers == 0 {
		return []model.Paper{}, nil
	}

	var all []model.Paper
	for _, src := range sources {
		logger.Info("acquisition.source.start", "source", src.Name())
		papers, err := src.Fetch(ctx, cfg.MaxPapers)
		if err != nil {
			// AcquisitionError semantics (§7): abort this source only.
			logger.Warn("acquisition.source.failed", "source", src.Name(), "error", err)
			continue
		}
		logger.Info("acquisition.source.complete", "source", src.Name(), "count", len(papers))
		all = append(all, papers...)
	}

	filtered := make([]model.Paper, 0, len(all))
	for _, p := range all {
		if p.Title == "" && p.Abstract == "" {
			continue
		}
		filtered = append(filtered, p)
	}

	deduped := dedup(filtered)

	sort.Slice(deduped, func(i, j int) bool {
		return identifier(deduped[i]) < identifier(deduped[j])
	})

	if len(deduped) > cfg.MaxPapers {
		deduped = deduped[:cfg.MaxPapers]
	}

	return deduped, nil
}

// identifier returns the value papers are sorted by: pmid, else doi, else title.
func identifier(p model.Paper) string {
	if p.PMID != "" {
		return p.PMID
	}
	if p.DOI != "" {
		return p.DOI
	}
	return p.Title
}

// dedup removes duplicates across sources: by pmid first, then doi, then
// title hash, matching §4.2's guarantee verbatim.
func dedup(papers []model.Paper) []model.Paper {
	seenPMID := make(map[string]bool)
	seenDOI := make(map[string]bool)
	seenTitle := make(map[string]bool)

	out := make([]model.Paper, 0, len(papers))
	for _, p := range papers {
		if p.PMID != "" {
			if seenPMID[p.PMID] {
				continue
			}
			seenPMID[p.PMID] = true
		} else if p.DOI != "" {
			if seenDOI[p.DOI] {
				continue
			}
			seenDOI[p.DOI] = true
		} else {
			th := model.TitleHash(p.Title)
			if seenTitle[th] {
				continue
			}
			seenTitle[th] = true
		}
		out = append(out, p)
	}
	return out
}
