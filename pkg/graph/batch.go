package graph

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/NimaFathima/astrobiomers/pkg/model"
)

// chunk splits items into slices of at most size, preserving order.
func chunk[T any](items []T, size int) [][]T {
	if size <= 0 {
		size = len(items)
	}
	var out [][]T
	for i := 0; i < len(items); i += size {
		end := i + size
		if end > len(items) {
			end = len(items)
		}
		out = append(out, items[i:end])
	}
	return out
}

// runBatches executes fn once per chunk of items inside its own write
// transaction. A chunk that fails rolls back only itself (the driver's
// ExecuteWrite wraps each call in one transaction) and is counted as a
// batch error; the run continues with the remaining chunks (§4.9 "error
// semantics").
func runBatches[T any](ctx context.Context, session neo4j.SessionWithContext, items []T, batchSize int, fn func(tx neo4j.ManagedTransaction, batch []T) error) (batchErrors int) {
	for _, batch := range chunk(items, batchSize) {
		_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
			return nil, fn(tx, batch)
		})
		if err != nil {
			batchErrors++
		}
	}
	return batchErrors
}

// WritePapers upserts Paper nodes, MERGE-ing by pmid when present or by
// the synthetic_key (source_tag||title_hash) otherwise (§4.9 "null key
// handling" — NULL is never written as a uniqueness-constrained property,
// so the two cases use disjoint MERGE clauses).
func (l *Loader) WritePapers(ctx context.Context, papers []model.Paper) (written int, batchErrors int) {
	session := l.session(ctx)
	defer session.Close(ctx)

	var withPMID, synthetic []model.Paper
	for _, p := range papers {
		if p.PMID != "" {
			withPMID = append(withPMID, p)
		} else {
			synthetic = append(synthetic, p)
		}
	}

	const pmidQuery = `
UNWIND $batch AS row
MERGE (p:Paper {pmid: row.pmid})
ON CREATE SET p += row.props
ON MATCH SET p += row.props
`
	const syntheticQuery = `
UNWIND $batch AS row
MERGE (p:Paper {synthetic_key: row.synthetic_key})
ON CREATE SET p += row.props
ON MATCH SET p += row.props
`

	batchErrors += runBatches(ctx, session, withPMID, l.batchSize, func(tx neo4j.ManagedTransaction, batch []model.Paper) error {
		rows := make([]map[string]any, len(batch))
		for i, p := range batch {
			rows[i] = map[string]any{"pmid": p.PMID, "props": paperProps(p)}
		}
		_, err := tx.Run(ctx, pmidQuery, map[string]any{"batch": rows})
		return err
	})
	written += len(withPMID)

	batchErrors += runBatches(ctx, session, synthetic, l.batchSize, func(tx neo4j.ManagedTransaction, batch []model.Paper) error {
		rows := make([]map[string]any, len(batch))
		for i, p := range batch {
			props := syntheticPaperProps(p)
			props["synthetic_key"] = p.Key()
			rows[i] = map[string]any{"synthetic_key": p.Key(), "props": props}
		}
		_, err := tx.Run(ctx, syntheticQuery, map[string]any{"batch": rows})
		return err
	})
	written += len(synthetic)

	return written, batchErrors
}

func paperProps(p model.Paper) map[string]any {
	return map[string]any{
		"pmid":             p.PMID,
		"pmc_id":           p.PMCID,
		"doi":              p.DOI,
		"title":            p.Title,
		"abstract":         p.Abstract,
		"authors":          p.Authors,
		"publication_year": p.PublicationYear,
		"journal":          p.Journal,
		"source_tag":       p.SourceTag,
	}
}

// syntheticPaperProps is paperProps without the pmid key: pmid is
// constraint-unique, so a pmid-less paper must never write "" onto it —
// the second synthetic-keyed paper in a run would otherwise collide with
// the first on pmid="" and abort the batch (§4.9 "null key handling").
func syntheticPaperProps(p model.Paper) map[string]any {
	props := paperProps(p)
	delete(props, "pmid")
	return props
}

// entityMergeQuery applies MAX/union semantics for confidence, mention
// count and provenance (§4.9 "upsert nodes by key").
const entityMergeQuery = `
UNWIND $batch AS row
MERGE (n:%s {canonical_name: row.canonical_name})
ON CREATE SET
  n.confidence = row.confidence,
  n.mention_count = row.mention_count,
  n.provenance = row.provenance,
  n.external_ids_json = row.external_ids_json,
  n.ontology_terms_json = row.ontology_terms_json
ON MATCH SET
  n.confidence = CASE WHEN row.confidence > n.confidence THEN row.confidence ELSE n.confidence END,
  n.mention_count = CASE WHEN row.mention_count > n.mention_count THEN row.mention_count ELSE n.mention_count END,
  n.external_ids_json = CASE WHEN row.external_ids_json <> '' THEN row.external_ids_json ELSE n.external_ids_json END,
  n.ontology_terms_json = CASE WHEN row.ontology_terms_json <> '' THEN row.ontology_terms_json ELSE n.ontology_terms_json END
WITH n, row
UNWIND (coalesce(n.provenance, []) + row.provenance) AS pid
WITH n, collect(DISTINCT pid) AS prov
SET n.provenance = prov
`

// WriteEntities upserts one node per distinct (kind, canonical_name),
// dispatching to the kind's own label — never a generic node label.
func (l *Loader) WriteEntities(ctx context.Context, mentions []model.Mention) (written int, batchErrors int) {
	session := l.session(ctx)
	defer session.Close(ctx)

	byKind := aggregateEntities(mentions)
	for kind, entities := range byKind {
		query := fmt.Sprintf(entityMergeQuery, string(kind))
		batchErrors += runBatches(ctx, session, entities, l.batchSize, func(tx neo4j.ManagedTransaction, batch []entityAccumulator) error {
			rows := make([]map[string]any, len(batch))
			for i, e := range batch {
				rows[i] = map[string]any{
					"canonical_name":      e.canonicalName,
					"confidence":          e.confidence,
					"mention_count":       e.mentionCount,
					"provenance":          provenanceList(e),
					"external_ids_json":   mustJSON(e.externalIDs),
					"ontology_terms_json": mustJSON(e.ontologyTerms),
				}
			}
			_, err := tx.Run(ctx, query, map[string]any{"batch": rows})
			return err
		})
		written += len(entities)
	}
	return written, batchErrors
}

// WriteTopics upserts Topic nodes (§4.6 output table).
func (l *Loader) WriteTopics(ctx context.Context, topics []model.Topic) (written int, batchErrors int) {
	session := l.session(ctx)
	defer session.Close(ctx)

	const query = `
UNWIND $batch AS row
MERGE (t:Topic {id: row.id})
SET t.label = row.label, t.size = row.size, t.keywords = row.keywords
`
	batchErrors = runBatches(ctx, session, topics, l.batchSize, func(tx neo4j.ManagedTransaction, batch []model.Topic) error {
		rows := make([]map[string]any, len(batch))
		for i, t := range batch {
			rows[i] = map[string]any{"id": t.ID, "label": t.Label, "size": t.Size, "keywords": t.Keywords}
		}
		_, err := tx.Run(ctx, query, map[string]any{"batch": rows})
		return err
	})
	return len(topics), batchErrors
}

// WriteTopicAssignments creates HAS_TOPIC edges, skipping the unassigned
// sentinel (§4.6 "topic id -1 meaning unassigned").
func (l *Loader) WriteTopicAssignments(ctx context.Context, assignments []model.TopicAssignment, papers []model.Paper) (written int, batchErrors int) {
	session := l.session(ctx)
	defer session.Close(ctx)

	known := paperKeySet(papers)
	var rows []model.TopicAssignment
	for _, a := range assignments {
		if a.TopicID == -1 {
			continue
		}
		if !known[a.PaperID] {
			continue
		}
		rows = append(rows, a)
	}

	const query = `
UNWIND $batch AS row
MATCH (p:Paper) WHERE p.pmid = row.paper_key OR p.synthetic_key = row.paper_key
MATCH (t:Topic {id: row.topic_id})
MERGE (p)-[:HAS_TOPIC]->(t)
`
	batchErrors = runBatches(ctx, session, rows, l.batchSize, func(tx neo4j.ManagedTransaction, batch []model.TopicAssignment) error {
		params := make([]map[string]any, len(batch))
		for i, a := range batch {
			params[i] = map[string]any{"paper_key": a.PaperID, "topic_id": a.TopicID}
		}
		_, err := tx.Run(ctx, query, map[string]any{"batch": params})
		return err
	})
	return len(rows), batchErrors
}

func paperKeySet(papers []model.Paper) map[string]bool {
	set := make(map[string]bool, len(papers))
	for _, p := range papers {
		set[p.Key()] = true
	}
	return set
}
