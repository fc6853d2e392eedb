package graph

import (
	"context"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/NimaFathima/astrobiomers/pkg/model"
)

// GraphStats is a live snapshot of the graph's node/edge counts by
// kind/type, queried directly rather than replayed from a prior run's
// artifact (spec.md §6 "stats queries the graph").
type GraphStats struct {
	Papers          int                        `json:"papers"`
	Topics          int                        `json:"topics"`
	EntitiesByKind  map[model.EntityKind]int   `json:"entities_by_kind"`
	RelationsByType map[model.RelationType]int `json:"relations_by_type"`
}

// readSession opens a read-only session pinned to l.database.
func (l *Loader) readSession(ctx context.Context) neo4j.SessionWithContext {
	return l.driver.NewSessionWithContext(ctx, neo4j.SessionConfig{
		DatabaseName: l.database,
		AccessMode:   neo4j.AccessModeRead,
	})
}

// Stats runs live Cypher aggregate queries over the graph: node counts by
// label and relationship counts by type. Every entity kind appears in
// EntitiesByKind, with 0 when it has no nodes; a relationship type with no
// edges is absent from RelationsByType.
func (l *Loader) Stats(ctx context.Context) (GraphStats, error) {
	session := l.readSession(ctx)
	defer session.Close(ctx)

	stats := GraphStats{
		EntitiesByKind:  make(map[model.EntityKind]int),
		RelationsByType: make(map[model.RelationType]int),
	}

	_, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		if n, err := countByLabel(ctx, tx, "Paper"); err != nil {
			return nil, err
		} else {
			stats.Papers = n
		}
		if n, err := countByLabel(ctx, tx, "Topic"); err != nil {
			return nil, err
		} else {
			stats.Topics = n
		}
		for _, kind := range entityKinds {
			n, err := countByLabel(ctx, tx, string(kind))
			if err != nil {
				return nil, err
			}
			stats.EntitiesByKind[kind] = n
		}

		result, err := tx.Run(ctx, `MATCH ()-[r]->() RETURN type(r) AS relType, count(*) AS n`, nil)
		if err != nil {
			return nil, err
		}
		records, err := result.Collect(ctx)
		if err != nil {
			return nil, err
		}
		for _, rec := range records {
			relType, _ := rec.Get("relType")
			n, _ := rec.Get("n")
			name, _ := relType.(string)
			count, _ := n.(int64)
			if name == "" || name == "MENTIONS" || name == "HAS_TOPIC" {
				continue
			}
			stats.RelationsByType[model.RelationType(name)] = int(count)
		}
		return nil, nil
	})
	if err != nil {
		return GraphStats{}, err
	}
	return stats, nil
}

func countByLabel(ctx context.Context, tx neo4j.ManagedTransaction, label string) (int, error) {
	result, err := tx.Run(ctx, `MATCH (n:`+label+`) RETURN count(n) AS n`, nil)
	if err != nil {
		return 0, err
	}
	record, err := result.Single(ctx)
	if err != nil {
		return 0, err
	}
	n, _ := record.Get("n")
	count, _ := n.(int64)
	return int(count), nil
}
