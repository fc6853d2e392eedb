// Package relation implements pipeline stage 4 (spec.md §4.5): emitting
// typed directed relations between entity mentions within the same paper,
// each grounded in an evidence sentence.
package relation

import (
	"context"
	"log/slog"
	"sort"

	"github.com/NimaFathima/astrobiomers/pkg/model"
)

// Config controls extraction thresholds (§4.5, §6).
type Config struct {
	// ConfidenceFloor drops aggregated relations below this score (default 0.70).
	ConfidenceFloor float64
	// CooccurrenceCeiling caps the confidence fallback co-occurrence
	// candidates can contribute (default 0.70 — see DESIGN.md open question
	// on why the ceiling equals the floor).
	CooccurrenceCeiling float64
}

func (c Config) sanitized() Config {
	if c.ConfidenceFloor <= 0 {
		c.ConfidenceFloor = 0.70
	}
	if c.CooccurrenceCeiling <= 0 {
		c.CooccurrenceCeiling = 0.70
	}
	return c
}

// sentenceMentions groups a preprocessed paper's mentions by sentence index,
// the unit relation candidates are drawn from.
type sentenceMentions struct {
	sentence model.Sentence
	mentions []model.Mention
}

// Extract emits, per paper, the deduplicated and confidence-filtered
// relation set (§4.5's three techniques, type constraints, and aggregation).
func Extract(ctx context.Context, pp model.PreprocessedPaper, mentions []model.Mention, cfg Config, logger *slog.Logger) []model.Relation {
	if logger == nil {
		logger = slog.Default()
	}
	cfg = cfg.sanitized()

	grouped := groupBySentence(pp, mentions)

	var candidates []model.Relation
	for _, sm := range grouped {
		select {
		case <-ctx.Done():
			return aggregate(candidates, cfg)
		default:
		}
		if len(sm.mentions) < 2 {
			continue
		}

		svo := extractSVO(sm)
		pattern := extractPatternTemplates(sm)
		connectedPairs := pairKeys(svo, pattern)
		cooccurrence := extractCooccurrence(sm, connectedPairs, cfg.CooccurrenceCeiling)

		candidates = append(candidates, svo...)
		candidates = append(candidates, pattern...)
		candidates = append(candidates, cooccurrence...)
	}

	filtered := make([]model.Relation, 0, len(candidates))
	for _, r := range candidates {
		if !model.AllowsPair(r.Type, r.SubjectKind, r.ObjectKind) {
			continue
		}
		filtered = append(filtered, r)
	}

	out := aggregate(filtered, cfg)
	logger.Info("relation.paper.complete", "paper_id", pp.PaperID, "candidates", len(candidates), "relations", len(out))
	return out
}

func groupBySentence(pp model.PreprocessedPaper, mentions []model.Mention) []sentenceMentions {
	bySentence := make(map[int][]model.Mention)
	for _, m := range mentions {
		bySentence[m.SentenceIndex] = append(bySentence[m.SentenceIndex], m)
	}

	out := make([]sentenceMentions, 0, len(pp.Sentences))
	for _, s := range pp.Sentences {
		if ms, ok := bySentence[s.Index]; ok {
			out = append(out, sentenceMentions{sentence: s, mentions: ms})
		}
	}
	return out
}

func pairKeys(groups ...[]model.Relation) map[string]bool {
	out := make(map[string]bool)
	for _, g := range groups {
		for _, r := range g {
			out[r.SubjectCanonical+"|"+r.ObjectCanonical] = true
			out[r.ObjectCanonical+"|"+r.SubjectCanonical] = true
		}
	}
	return out
}

// aggregate collapses duplicate relations within a paper (same subject/type/
// object across sentences): confidence = max, evidence unioned; then drops
// anything below the confidence floor (§4.5).
func aggregate(relations []model.Relation, cfg Config) []model.Relation {
	byKey := make(map[string]*model.Relation)
	var order []string

	for _, r := range relations {
		key := r.Key()
		existing, ok := byKey[key]
		if !ok {
			cp := r
			byKey[key] = &cp
			order = append(order, key)
			continue
		}
		if r.Confidence > existing.Confidence {
			existing.Confidence = r.Confidence
		}
		existing.Evidence = unionStrings(existing.Evidence, r.Evidence)
	}

	out := make([]model.Relation, 0, len(order))
	for _, key := range order {
		r := byKey[key]
		if r.Confidence < cfg.ConfidenceFloor {
			continue
		}
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key() < out[j].Key() })
	return out
}

func unionStrings(a, b []string) []string {
	seen := make(map[string]bool, len(a))
	out := make([]string, 0, len(a)+len(b))
	for _, s := range append(append([]string{}, a...), b...) {
		if seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}

// mentionOffset returns a mention's character offset relative to its
// sentence, for positional comparisons (subject-before-object ordering).
func mentionOffset(sentence model.Sentence, m model.Mention) int {
	return m.Span.Start - sentence.OriginalFrom
}
