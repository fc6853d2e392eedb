package graph

import (
	"fmt"

	"context"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/NimaFathima/astrobiomers/pkg/model"
)

// mentionsQuery implements the kind-aware union match from §4.9: the
// target node is matched against its declared kind's label, on a
// canonical_name equal to either the resolved canonical_name or the raw
// mention text; the two are ORed and neither takes precedence.
// A single generic label-less match would silently link the wrong node.
const mentionsQuery = `
UNWIND $batch AS row
MATCH (p:Paper) WHERE p.pmid = row.paper_key OR p.synthetic_key = row.paper_key
MATCH (n:%s) WHERE n.canonical_name = row.canonical_name OR n.canonical_name = row.text
MERGE (p)-[r:MENTIONS]->(n)
ON CREATE SET r.confidence = row.confidence, r.sentence_index = row.sentence_index, r.extractor = row.extractor
ON MATCH SET r.confidence = CASE WHEN row.confidence > r.confidence THEN row.confidence ELSE r.confidence END
`

// WriteMentions links every mention to its paper and resolved entity node,
// grouped by kind so each batch's Cypher can use a literal node label.
func (l *Loader) WriteMentions(ctx context.Context, mentions []model.Mention, papers []model.Paper) (written int, batchErrors int) {
	session := l.session(ctx)
	defer session.Close(ctx)

	known := paperKeySet(papers)
	byKind := make(map[model.EntityKind][]model.Mention)
	for _, m := range mentions {
		if !known[m.PaperID] {
			continue
		}
		byKind[m.Kind] = append(byKind[m.Kind], m)
	}

	for kind, group := range byKind {
		query := fmt.Sprintf(mentionsQuery, string(kind))
		batchErrors += runBatches(ctx, session, group, l.batchSize, func(tx neo4j.ManagedTransaction, batch []model.Mention) error {
			rows := make([]map[string]any, len(batch))
			for i, m := range batch {
				rows[i] = map[string]any{
					"paper_key":      m.PaperID,
					"canonical_name": m.CanonicalName,
					"text":           m.Text,
					"confidence":     m.Confidence,
					"sentence_index": m.SentenceIndex,
					"extractor":      m.Extractor,
				}
			}
			_, err := tx.Run(ctx, query, map[string]any{"batch": rows})
			return err
		})
		written += len(group)
	}
	return written, batchErrors
}

// relationQuery upserts a typed, directed edge between two literal labels,
// combining confidence by MAX and evidence sentences and paper provenance
// by union (§3, §4.5 "aggregation"). Every edge carries paper_ids so it
// always has at least one paper in its provenance, per the data model's
// invariant.
const relationQuery = `
UNWIND $batch AS row
MATCH (s:%s {canonical_name: row.subject_canonical})
MATCH (o:%s {canonical_name: row.object_canonical})
MERGE (s)-[r:%s]->(o)
ON CREATE SET r.confidence = row.confidence, r.evidence = row.evidence, r.technique = row.technique, r.paper_ids = row.paper_ids
ON MATCH SET r.confidence = CASE WHEN row.confidence > r.confidence THEN row.confidence ELSE r.confidence END
WITH s, o, r, row
UNWIND (coalesce(r.evidence, []) + row.evidence) AS ev
WITH s, o, r, row, collect(DISTINCT ev) AS evid
SET r.evidence = evid
WITH s, o, r, row
UNWIND (coalesce(r.paper_ids, []) + row.paper_ids) AS pid
WITH s, o, r, collect(DISTINCT pid) AS pids
SET r.paper_ids = pids
`

// WriteRelations upserts typed relation edges, grouped by (type, subject
// kind, object kind) so each batch can reference literal node labels and
// a literal relationship type.
func (l *Loader) WriteRelations(ctx context.Context, relations []model.Relation) (written int, batchErrors int) {
	session := l.session(ctx)
	defer session.Close(ctx)

	groups := groupRelations(relations)
	for key, group := range groups {
		if !model.AllowsPair(key.Type, key.SubjectKind, key.ObjectKind) {
			// Defensive duplicate of §4.5's type-constraint filter: the
			// loader never materializes an edge the relation stage should
			// already have dropped.
			batchErrors += len(chunk(group, l.batchSize))
			continue
		}
		query := fmt.Sprintf(relationQuery, string(key.SubjectKind), string(key.ObjectKind), string(key.Type))
		batchErrors += runBatches(ctx, session, group, l.batchSize, func(tx neo4j.ManagedTransaction, batch []model.Relation) error {
			rows := make([]map[string]any, len(batch))
			for i, r := range batch {
				rows[i] = map[string]any{
					"subject_canonical": r.SubjectCanonical,
					"object_canonical":  r.ObjectCanonical,
					"confidence":        r.Confidence,
					"evidence":          r.Evidence,
					"technique":         r.Technique,
					"paper_ids":         []string{r.PaperID},
				}
			}
			_, err := tx.Run(ctx, query, map[string]any{"batch": rows})
			return err
		})
		written += len(group)
	}
	return written, batchErrors
}
