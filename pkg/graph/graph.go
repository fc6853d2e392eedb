// Package graph implements pipeline stage 8 (spec.md §4.9): materializing
// every pipeline artifact into a labeled property graph, atomically and
// idempotently. It replaces the teacher's CGO-bound pkg/cozodb/pkg/storage
// pair — a Neo4j-shaped spec (database-name-per-session, Cypher MERGE,
// uniqueness constraints) has no natural CozoDB analogue — with
// neo4j-go-driver/v5, grounded on the session/constraint patterns in
// other_examples' coderisk graph builder.
package graph

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/NimaFathima/astrobiomers/pkg/model"
)

// Loader writes pipeline artifacts into one fixed Neo4j database. The
// database name is bound at construction and applied to every session the
// loader opens — a specific database must never be silently replaced by
// the server's default (§4.9 "database selection").
type Loader struct {
	driver    neo4j.DriverWithContext
	database  string
	batchSize int
}

// Config selects the connection and the target database.
type Config struct {
	URI       string
	Username  string
	Password  string
	Database  string
	BatchSize int // default 500, per §4.9 "batch writes"
}

// New opens a driver and verifies connectivity. The driver is not bound to
// a database until session or readSession opens one on Config.Database.
func New(ctx context.Context, cfg Config) (*Loader, error) {
	if cfg.Database == "" {
		return nil, fmt.Errorf("graph: database name is required (refusing the server default)")
	}
	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = 500
	}

	driver, err := neo4j.NewDriverWithContext(cfg.URI, neo4j.BasicAuth(cfg.Username, cfg.Password, ""))
	if err != nil {
		return nil, fmt.Errorf("graph: create driver: %w", err)
	}
	if err := driver.VerifyConnectivity(ctx); err != nil {
		_ = driver.Close(ctx)
		return nil, fmt.Errorf("graph: verify connectivity: %w", err)
	}

	return &Loader{driver: driver, database: cfg.Database, batchSize: batchSize}, nil
}

// Close releases the underlying driver.
func (l *Loader) Close(ctx context.Context) error {
	return l.driver.Close(ctx)
}

// session opens a write session pinned to l.database. Every write query the
// loader runs goes through this helper, and Stats uses readSession, pinned
// the same way, so the database is never left to the server's default.
func (l *Loader) session(ctx context.Context) neo4j.SessionWithContext {
	return l.driver.NewSessionWithContext(ctx, neo4j.SessionConfig{
		DatabaseName: l.database,
		AccessMode:   neo4j.AccessModeWrite,
	})
}

// entityKinds lists every node label the loader declares constraints and
// indexes for, beyond Paper and Topic.
var entityKinds = []model.EntityKind{
	model.KindGene, model.KindProtein, model.KindDisease, model.KindPhenotype,
	model.KindStressor, model.KindOrganism, model.KindCellType, model.KindChemical,
	model.KindIntervention,
}

// alternateKeyIndexes names the extra lookup indexes §4.9 calls out by
// example: Paper.doi, Gene.entrez_id, Phenotype.hpo_id. Entries not backed
// by a real property on that label are harmless — Neo4j indexes on a
// property that may simply be absent on most nodes.
var alternateKeyIndexes = map[model.EntityKind][]string{
	model.KindGene:      {"entrez_id", "hgnc_id"},
	model.KindProtein:   {"uniprot_id"},
	model.KindOrganism:  {"ncbi_taxon_id"},
	model.KindChemical:  {"pubchem_id"},
	model.KindPhenotype: {"hpo_id"},
	model.KindDisease:   {"mondo_id"},
}

// InitSchema declares every uniqueness constraint and lookup index from
// §4.9. Constraint/index creation is idempotent (`IF NOT EXISTS`), so this
// is safe to re-run on every `build`.
func (l *Loader) InitSchema(ctx context.Context) error {
	session := l.session(ctx)
	defer session.Close(ctx)

	statements := []string{
		"CREATE CONSTRAINT paper_pmid IF NOT EXISTS FOR (p:Paper) REQUIRE p.pmid IS UNIQUE",
		"CREATE CONSTRAINT paper_synthetic_key IF NOT EXISTS FOR (p:Paper) REQUIRE p.synthetic_key IS UNIQUE",
		"CREATE INDEX paper_doi IF NOT EXISTS FOR (p:Paper) ON (p.doi)",
		"CREATE CONSTRAINT topic_id IF NOT EXISTS FOR (t:Topic) REQUIRE t.id IS UNIQUE",
	}
	for _, kind := range entityKinds {
		label := string(kind)
		statements = append(statements, fmt.Sprintf(
			"CREATE CONSTRAINT %s_canonical_name IF NOT EXISTS FOR (n:%s) REQUIRE n.canonical_name IS UNIQUE",
			constraintName(label), label))
		for _, prop := range alternateKeyIndexes[kind] {
			statements = append(statements, fmt.Sprintf(
				"CREATE INDEX %s_%s IF NOT EXISTS FOR (n:%s) ON (n.%s)",
				constraintName(label), prop, label, prop))
		}
	}

	for _, stmt := range statements {
		if _, err := session.Run(ctx, stmt, nil); err != nil {
			return fmt.Errorf("graph: init schema (%s): %w", stmt, err)
		}
	}
	return nil
}

func constraintName(label string) string {
	out := make([]byte, 0, len(label))
	for _, r := range label {
		if r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			out = append(out, byte(r))
			continue
		}
		out = append(out, '_')
	}
	return string(out)
}

// LoadStats summarizes one loader run for the pipeline report.
type LoadStats struct {
	PapersWritten    int
	EntitiesWritten  int
	TopicsWritten    int
	MentionsLinked   int
	RelationsWritten int
	BatchErrors      int
}
