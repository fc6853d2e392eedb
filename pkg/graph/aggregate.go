package graph

import (
	"encoding/json"
	"sort"

	"github.com/NimaFathima/astrobiomers/pkg/model"
)

// entityAccumulator is the client-side aggregate that upstream stages would
// otherwise produce one row per mention for: one row per (kind,
// canonical_name), with confidence reduced by MAX, mention_count counting
// every contributing mention, and provenance (paper ids) unioned. The
// batch write then merges confidence and mention_count into the stored
// node by MAX (§4.9 "MAX/union semantics").
type entityAccumulator struct {
	kind          model.EntityKind
	canonicalName string
	confidence    float64
	mentionCount  int
	provenance    map[string]bool
	externalIDs   map[string]string
	ontologyTerms map[string]string
}

func aggregateEntities(mentions []model.Mention) map[model.EntityKind][]entityAccumulator {
	byKey := make(map[string]*entityAccumulator)
	order := make([]string, 0)

	for _, m := range mentions {
		key := string(m.Kind) + "|" + m.CanonicalName
		acc, ok := byKey[key]
		if !ok {
			acc = &entityAccumulator{
				kind:          m.Kind,
				canonicalName: m.CanonicalName,
				provenance:    make(map[string]bool),
				externalIDs:   make(map[string]string),
				ontologyTerms: make(map[string]string),
			}
			byKey[key] = acc
			order = append(order, key)
		}
		if m.Confidence > acc.confidence {
			acc.confidence = m.Confidence
		}
		acc.mentionCount++
		acc.provenance[m.PaperID] = true
		for db, id := range m.ExternalIDs {
			acc.externalIDs[db] = id
		}
		for ont, term := range m.OntologyTerms {
			acc.ontologyTerms[ont] = term
		}
	}

	sort.Strings(order)
	byKind := make(map[model.EntityKind][]entityAccumulator)
	for _, key := range order {
		acc := byKey[key]
		byKind[acc.kind] = append(byKind[acc.kind], *acc)
	}
	return byKind
}

func provenanceList(acc entityAccumulator) []string {
	out := make([]string, 0, len(acc.provenance))
	for pid := range acc.provenance {
		out = append(out, pid)
	}
	sort.Strings(out)
	return out
}

func mustJSON(v any) string {
	if v == nil {
		return ""
	}
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}

// relationGroupKey groups relations by (type, subject_kind, object_kind): a
// single Cypher statement needs literal node labels, so rows sharing a
// label pair batch together.
type relationGroupKey struct {
	Type        model.RelationType
	SubjectKind model.EntityKind
	ObjectKind  model.EntityKind
}

func groupRelations(relations []model.Relation) map[relationGroupKey][]model.Relation {
	groups := make(map[relationGroupKey][]model.Relation)
	for _, r := range relations {
		key := relationGroupKey{Type: r.Type, SubjectKind: r.SubjectKind, ObjectKind: r.ObjectKind}
		groups[key] = append(groups[key], r)
	}
	return groups
}
