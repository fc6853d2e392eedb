// Package resolution implements pipeline stage 6 (spec.md §4.7): attaching
// external database identifiers to mentions where possible.
//
// Per-kind lookups are pluggable Resolvers, the same graceful-degradation
// shape as the teacher's EmbeddingProvider (pkg/ingestion/embedding.go): a
// failed or unconfigured service never fails the mention, it just proceeds
// without an external id.
package resolution

import (
	"context"
	"log/slog"

	"github.com/NimaFathima/astrobiomers/pkg/diskcache"
	"github.com/NimaFathima/astrobiomers/pkg/model"
)

// Resolver looks up one canonical name against one external database and
// returns its identifier, or ok=false when no match is found.
type Resolver interface {
	// Database names the key external_ids will carry the result under
	// (e.g. "entrez_id", "uniprot_id", "ncbi_taxon_id", "pubchem_id").
	Database() string
	Lookup(ctx context.Context, canonicalName string) (id string, ok bool, err error)
}

// Config selects demo mode and the cache location (§4.7, §6).
type Config struct {
	// DemoMode disables every network call; every lookup is unresolved.
	DemoMode bool
	CachePath string
}

// Service resolves mentions kind-by-kind, deduplicating lookups to one per
// (kind, canonical_name) and caching results to disk.
type Service struct {
	resolvers map[model.EntityKind]Resolver
	cache     *diskcache.Cache
	demoMode  bool
	logger    *slog.Logger
}

// New builds a resolution service. resolvers maps each entity kind to the
// service that resolves it (§4.7's gene/protein/organism/chemical list);
// kinds with no entry are left unresolved.
func New(resolvers map[model.EntityKind]Resolver, cfg Config, logger *slog.Logger) (*Service, error) {
	if logger == nil {
		logger = slog.Default()
	}
	cache, err := diskcache.Open(cfg.CachePath)
	if err != nil {
		return nil, err
	}
	return &Service{resolvers: resolvers, cache: cache, demoMode: cfg.DemoMode, logger: logger}, nil
}

// Resolve augments mentions with external_ids in place, looking up each
// distinct (kind, canonical_name) pair once regardless of how many mentions
// share it.
func (s *Service) Resolve(ctx context.Context, mentions []model.Mention) []model.Mention {
	if s.demoMode {
		s.logger.Info("resolution.demo_mode", "mentions", len(mentions))
		return mentions
	}

	out := make([]model.Mention, len(mentions))
	copy(out, mentions)

	resolvedOnce := make(map[string]bool)
	for i := range out {
		m := &out[i]
		resolver, ok := s.resolvers[m.Kind]
		if !ok {
			continue
		}

		key := string(m.Kind) + "|" + m.CanonicalName
		id, found := s.cache.Get(key)
		if !found && !resolvedOnce[key] {
			resolvedOnce[key] = true
			var err error
			id, found, err = resolver.Lookup(ctx, m.CanonicalName)
			if err != nil {
				// ResolutionError (§7): failure is never fatal, mention
				// proceeds with no external id.
				s.logger.Warn("resolution.lookup.failed", "kind", m.Kind, "canonical_name", m.CanonicalName, "error", err)
				continue
			}
			if found {
				s.cache.Set(key, id)
			}
		}
		if found && id != "" {
			if m.ExternalIDs == nil {
				m.ExternalIDs = make(map[string]string)
			}
			m.ExternalIDs[resolver.Database()] = id
		}
	}

	if err := s.cache.Flush(); err != nil {
		s.logger.Warn("resolution.cache.flush_failed", "error", err)
	}
	return out
}
