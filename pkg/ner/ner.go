// Package ner implements pipeline stage 3 (spec.md §4.4): a three-extractor
// ensemble that emits typed entity mentions from preprocessed text.
//
// The pluggable-backend shape (an Extractor interface with graceful
// degradation when a backend is unconfigured) is grounded on the teacher's
// EmbeddingProvider/EmbeddingGenerator pattern in pkg/ingestion/embedding.go:
// a worker pool drives independent per-paper work, and a missing optional
// backend is not fatal.
package ner

import (
	"context"
	"log/slog"
	"runtime"
	"sort"
	"strings"

	"github.com/NimaFathima/astrobiomers/pkg/model"
	"golang.org/x/sync/errgroup"
)

// Extractor emits candidate mentions for one preprocessed paper.
type Extractor interface {
	Name() string
	Extract(ctx context.Context, pp model.PreprocessedPaper) ([]model.Mention, error)
}

// Config controls ensemble behavior (§4.4).
type Config struct {
	// ConfidenceThreshold drops merged mentions below this score (default 0.75).
	ConfidenceThreshold float64
	// Workers bounds per-paper parallelism; 0 defaults to CPU count (§5).
	Workers int
}

func (c Config) sanitized() Config {
	if c.ConfidenceThreshold <= 0 {
		c.ConfidenceThreshold = 0.75
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
	return c
}

// kindPriority breaks confidence ties when merging overlapping spans: a
// higher number wins. Domain-specific kinds patterns are tuned for outrank
// the generic categories a transformer model tends to emit.
var kindPriority = map[model.EntityKind]int{
	model.KindStressor:     5,
	model.KindPhenotype:    5,
	model.KindIntervention: 5,
	model.KindCellType:     4,
	model.KindOrganism:     4,
	model.KindChemical:     3,
	model.KindDisease:      3,
	model.KindProtein:      2,
	model.KindGene:         2,
}

// Ensemble runs the configured extractors per paper and merges their output.
type Ensemble struct {
	extractors []Extractor
	cfg        Config
	logger     *slog.Logger
}

// New builds the ensemble from whichever extractors are available.
// transformer and secondary may be nil — an unconfigured optional backend
// degrades gracefully per §4.4.
func New(transformer, secondary Extractor, pattern Extractor, cfg Config, logger *slog.Logger) *Ensemble {
	if logger == nil {
		logger = slog.Default()
	}
	var extractors []Extractor
	if transformer != nil {
		extractors = append(extractors, transformer)
	}
	if secondary != nil {
		extractors = append(extractors, secondary)
	}
	if pattern != nil {
		extractors = append(extractors, pattern)
	}
	return &Ensemble{extractors: extractors, cfg: cfg.sanitized(), logger: logger}
}

// paperResult pairs a paper's mentions with its index in the input slice, so
// results can be deterministically re-ordered after parallel processing (§5).
type paperResult struct {
	index    int
	paperID  string
	mentions []model.Mention
}

// Run extracts mentions for every paper, bounded by cfg.Workers concurrent
// goroutines, then returns mentions re-ordered by input paper order.
func (e *Ensemble) Run(ctx context.Context, papers []model.PreprocessedPaper) ([]model.Mention, error) {
	results := make([]paperResult, len(papers))

	g, gctx := errgroup.WithContext(ctx)
	sem := make(chan struct{}, e.cfg.Workers)

	for i, pp := range papers {
		i, pp := i, pp
		sem <- struct{}{}
		g.Go(func() error {
			defer func() { <-sem }()
			mentions := e.extractPaper(gctx, pp)
			results[i] = paperResult{index: i, paperID: pp.PaperID, mentions: mentions}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(results, func(i, j int) bool { return results[i].index < results[j].index })

	var all []model.Mention
	for _, r := range results {
		all = append(all, r.mentions...)
	}
	return all, nil
}

// extractPaper runs every extractor for one paper, merges overlapping spans,
// normalizes kinds, and drops mentions whose kind is outside the canonical
// set or whose confidence is below the threshold.
// Extractor failures are isolated per §7's ExtractorError semantics: the
// paper simply contributes no mentions for that extractor.
func (e *Ensemble) extractPaper(ctx context.Context, pp model.PreprocessedPaper) []model.Mention {
	var candidates []model.Mention
	for _, ex := range e.extractors {
		mentions, err := ex.Extract(ctx, pp)
		if err != nil {
			e.logger.Warn("ner.extractor.failed", "extractor", ex.Name(), "paper_id", pp.PaperID, "error", err)
			continue
		}
		candidates = append(candidates, mentions...)
	}

	merged := mergeOverlapping(candidates)

	out := make([]model.Mention, 0, len(merged))
	seen := make(map[string]bool)
	for _, m := range merged {
		m.Kind = normalizeKind(m.Kind)
		if !model.ValidKinds[m.Kind] {
			continue
		}
		m.CanonicalName = normalizeCanonical(m.CanonicalName, m.Text)
		if m.Confidence < e.cfg.ConfidenceThreshold {
			continue
		}
		key := string(m.Kind) + "|" + m.CanonicalName
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, m)
	}
	return out
}

// mergeOverlapping resolves overlapping spans from different extractors:
// the higher-confidence mention wins; ties break by kind priority (§4.4).
func mergeOverlapping(mentions []model.Mention) []model.Mention {
	if len(mentions) <= 1 {
		return mentions
	}

	sort.Slice(mentions, func(i, j int) bool {
		return mentions[i].Span.Start < mentions[j].Span.Start
	})

	var out []model.Mention
	for _, m := range mentions {
		overlapIdx := -1
		for i, kept := range out {
			if spansOverlap(kept.Span, m.Span) && kept.SentenceIndex == m.SentenceIndex {
				overlapIdx = i
				break
			}
		}
		if overlapIdx == -1 {
			out = append(out, m)
			continue
		}

		kept := out[overlapIdx]
		if winsOver(m, kept) {
			out[overlapIdx] = m
		}
	}
	return out
}

func spansOverlap(a, b model.Span) bool {
	return a.Start < b.End && b.Start < a.End
}

// winsOver reports whether candidate should replace incumbent: higher
// confidence wins; on a near-tie, higher kind priority wins.
func winsOver(candidate, incumbent model.Mention) bool {
	const epsilon = 1e-9
	if candidate.Confidence > incumbent.Confidence+epsilon {
		return true
	}
	if candidate.Confidence < incumbent.Confidence-epsilon {
		return false
	}
	return kindPriority[candidate.Kind] > kindPriority[incumbent.Kind]
}

// normalizeKind trims and uppercases an extractor-local kind spelling into
// the canonical form (§4.4's latent-defect-class warning). A kind that is
// still outside the canonical set comes back in that form; extractPaper
// drops such mentions.
func normalizeKind(k model.EntityKind) model.EntityKind {
	upper := model.EntityKind(strings.ToUpper(strings.TrimSpace(string(k))))
	if model.ValidKinds[upper] {
		return upper
	}
	return upper
}

// normalizeCanonical lowercases and whitespace-normalizes, falling back to
// the mention text when no explicit canonical form was supplied.
func normalizeCanonical(canonical, text string) string {
	if canonical == "" {
		canonical = text
	}
	return strings.Join(strings.Fields(strings.ToLower(canonical)), " ")
}
