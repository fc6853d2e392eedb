// Package ontology implements pipeline stage 7 (spec.md §4.8): mapping
// mentions to terms in biomedical ontologies. The policy is identical to
// resolution (§4.7): cache by (ontology, canonical_name), rate-limit,
// demote failure to "no alignment" — so this package mirrors
// pkg/resolution's Service/Aligner shape rather than reinventing it.
package ontology

import (
	"context"
	"log/slog"

	"github.com/NimaFathima/astrobiomers/pkg/diskcache"
	"github.com/NimaFathima/astrobiomers/pkg/model"
)

// Aligner maps one canonical name to a term in a single ontology.
type Aligner interface {
	// Ontology names the key ontology_terms will carry the result under
	// (GO, Mondo, HPO, ENVO, CL, UBERON, ChEBI).
	Ontology() string
	Align(ctx context.Context, canonicalName string) (term string, ok bool, err error)
}

// Config selects demo mode and the cache location (§4.8, §6).
type Config struct {
	DemoMode  bool
	CachePath string
}

// Service aligns mentions kind-by-kind, deduplicating lookups to one per
// (ontology, canonical_name) and caching results to disk.
type Service struct {
	aligners map[model.EntityKind]Aligner
	cache    *diskcache.Cache
	demoMode bool
	logger   *slog.Logger
}

// New builds an alignment service. aligners maps each entity kind to the
// ontology aligner that targets it (§4.8's per-kind ontology table); kinds
// with no entry are left unaligned.
func New(aligners map[model.EntityKind]Aligner, cfg Config, logger *slog.Logger) (*Service, error) {
	if logger == nil {
		logger = slog.Default()
	}
	cache, err := diskcache.Open(cfg.CachePath)
	if err != nil {
		return nil, err
	}
	return &Service{aligners: aligners, cache: cache, demoMode: cfg.DemoMode, logger: logger}, nil
}

// Align augments mentions with ontology_terms, looking up each distinct
// (ontology, canonical_name) pair once.
func (s *Service) Align(ctx context.Context, mentions []model.Mention) []model.Mention {
	if s.demoMode {
		s.logger.Info("ontology.demo_mode", "mentions", len(mentions))
		return mentions
	}

	out := make([]model.Mention, len(mentions))
	copy(out, mentions)

	attempted := make(map[string]bool)
	for i := range out {
		m := &out[i]
		aligner, ok := s.aligners[m.Kind]
		if !ok {
			continue
		}

		key := aligner.Ontology() + "|" + m.CanonicalName
		term, found := s.cache.Get(key)
		if !found && !attempted[key] {
			attempted[key] = true
			var err error
			term, found, err = aligner.Align(ctx, m.CanonicalName)
			if err != nil {
				// AlignmentError (§7): failure is never fatal.
				s.logger.Warn("ontology.align.failed", "kind", m.Kind, "canonical_name", m.CanonicalName, "error", err)
				continue
			}
			if found {
				s.cache.Set(key, term)
			}
		}
		if found && term != "" {
			if m.OntologyTerms == nil {
				m.OntologyTerms = make(map[string]string)
			}
			m.OntologyTerms[aligner.Ontology()] = term
		}
	}

	if err := s.cache.Flush(); err != nil {
		s.logger.Warn("ontology.cache.flush_failed", "error", err)
	}
	return out
}

// AlignmentRate reports the fraction of in-scope mentions (those whose kind
// has a configured aligner) that received an ontology term — §4.8's ~45%
// target-rate metric.
func AlignmentRate(mentions []model.Mention, inScope map[model.EntityKind]bool) float64 {
	var total, aligned int
	for _, m := range mentions {
		if !inScope[m.Kind] {
			continue
		}
		total++
		if len(m.OntologyTerms) > 0 {
			aligned++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(aligned) / float64(total)
}
