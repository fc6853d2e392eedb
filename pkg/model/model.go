// Package model defines the data types that flow between pipeline stages:
// papers, mentions, typed entities, relations, and topics. Every stage in
// pkg/pipeline consumes and produces slices of these types, persisted as
// JSON artifacts between runs.
package model

import "time"

// EntityKind is the canonical, uppercase entity variant tag. The loader
// dispatches graph node labels from this value; extractors must normalize
// into this set before a mention leaves the NER stage.
type EntityKind string

const (
	KindGene         EntityKind = "GENE"
	KindProtein      EntityKind = "PROTEIN"
	KindDisease      EntityKind = "DISEASE"
	KindPhenotype    EntityKind = "PHENOTYPE"
	KindStressor     EntityKind = "STRESSOR"
	KindOrganism     EntityKind = "ORGANISM"
	KindCellType     EntityKind = "CELL_TYPE"
	KindChemical     EntityKind = "CHEMICAL"
	KindIntervention EntityKind = "INTERVENTION"
)

// ValidKinds is the canonical allow-list used for validation (§8 invariant 1).
var ValidKinds = map[EntityKind]bool{
	KindGene: true, KindProtein: true, KindDisease: true, KindPhenotype: true,
	KindStressor: true, KindOrganism: true, KindCellType: true, KindChemical: true,
	KindIntervention: true,
}

// RelationType is a canonical, directed biological relationship type.
type RelationType string

const (
	RelUpregulates    RelationType = "UPREGULATES"
	RelDownregulates  RelationType = "DOWNREGULATES"
	RelCauses         RelationType = "CAUSES"
	RelTreats         RelationType = "TREATS"
	RelPrevents       RelationType = "PREVENTS"
	RelInteractsWith  RelationType = "INTERACTS_WITH"
	RelPartOf         RelationType = "PART_OF"
	RelAssociatedWith RelationType = "ASSOCIATED_WITH"
)

// RelationAllowTable maps each relation type to the set of (subject_kind,
// object_kind) pairs it may legally connect (§4.5 "type constraints").
// Candidates outside this table are discarded before the confidence floor
// is even applied.
var RelationAllowTable = map[RelationType][][2]EntityKind{
	RelUpregulates: {
		{KindGene, KindGene}, {KindGene, KindProtein}, {KindProtein, KindGene},
		{KindProtein, KindProtein}, {KindStressor, KindGene}, {KindStressor, KindProtein},
		{KindIntervention, KindGene}, {KindIntervention, KindProtein},
	},
	RelDownregulates: {
		{KindGene, KindGene}, {KindGene, KindProtein}, {KindProtein, KindGene},
		{KindProtein, KindProtein}, {KindStressor, KindGene}, {KindStressor, KindProtein},
		{KindIntervention, KindGene}, {KindIntervention, KindProtein},
	},
	RelCauses: {
		{KindStressor, KindPhenotype}, {KindStressor, KindDisease},
		{KindGene, KindDisease}, {KindGene, KindPhenotype},
		{KindChemical, KindDisease}, {KindChemical, KindPhenotype},
		{KindOrganism, KindPhenotype},
	},
	RelTreats: {
		{KindIntervention, KindDisease}, {KindIntervention, KindPhenotype},
		{KindChemical, KindDisease}, {KindChemical, KindPhenotype},
	},
	RelPrevents: {
		{KindIntervention, KindDisease}, {KindIntervention, KindPhenotype},
		{KindChemical, KindDisease}, {KindChemical, KindPhenotype},
	},
	RelInteractsWith: {
		{KindGene, KindGene}, {KindProtein, KindProtein}, {KindGene, KindProtein},
		{KindProtein, KindGene}, {KindChemical, KindProtein}, {KindProtein, KindChemical},
	},
	RelPartOf: {
		{KindCellType, KindOrganism}, {KindProtein, KindCellType},
		{KindGene, KindCellType},
	},
	RelAssociatedWith: {
		// The co-occurrence fallback (§4.5.3) may connect any two kinds; this
		// entry is intentionally permissive and is checked last.
	},
}

// AllowsPair reports whether relType may connect subject->object. ASSOCIATED_WITH
// has no restriction: it is the fallback type and accepts any kind pair.
func AllowsPair(relType RelationType, subject, object EntityKind) bool {
	if relType == RelAssociatedWith {
		return true
	}
	pairs, ok := RelationAllowTable[relType]
	if !ok {
		return false
	}
	for _, p := range pairs {
		if p[0] == subject && p[1] == object {
			return true
		}
	}
	return false
}

// Paper is a single ingested publication record.
type Paper struct {
	PMID            string   `json:"pmid,omitempty"`
	PMCID           string   `json:"pmc_id,omitempty"`
	DOI             string   `json:"doi,omitempty"`
	Title           string   `json:"title"`
	Abstract        string   `json:"abstract,omitempty"`
	Authors         []string `json:"authors,omitempty"`
	PublicationYear int      `json:"publication_year,omitempty"`
	Journal         string   `json:"journal,omitempty"`
	SourceTag       string   `json:"source_tag"`

	// PreprocessFailed marks a paper that produced zero sentences during
	// preprocessing (§4.3); it is excluded from every downstream stage.
	PreprocessFailed bool `json:"preprocess_failed,omitempty"`
}

// Key returns the paper's preferred identifier: pmid, or else the
// synthetic composite key source_tag||title_hash (§3, §4.9).
func (p Paper) Key() string {
	if p.PMID != "" {
		return p.PMID
	}
	return SyntheticKey(p.SourceTag, p.Title)
}

// SyntheticKey builds the composite key used when a paper has no pmid.
func SyntheticKey(sourceTag, title string) string {
	return sourceTag + "||" + TitleHash(title)
}

// Sentence is one segmented, tokenized unit of preprocessed text, with the
// character offsets needed to cite the original source span (§4.3).
type Sentence struct {
	Index        int    `json:"index"`
	Text         string `json:"text"`
	Tokens       []string `json:"tokens"`
	Lemmas       []string `json:"lemmas"`
	POS          []string `json:"pos"`
	OriginalFrom int    `json:"original_from"`
	OriginalTo   int    `json:"original_to"`
}

// PreprocessedPaper is the output of stage 2.
type PreprocessedPaper struct {
	PaperID   string     `json:"paper_id"`
	Title     string     `json:"title"`
	Original  string     `json:"original"`
	Sentences []Sentence `json:"sentences"`
}

// Span is a character range into a paper's preprocessed original text.
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Mention is one extracted occurrence of an entity in a paper (§3, §4.4).
type Mention struct {
	PaperID       string     `json:"paper_id"`
	Text          string     `json:"text"`
	CanonicalName string     `json:"canonical_name"`
	Kind          EntityKind `json:"kind"`
	Span          Span       `json:"span"`
	SentenceIndex int        `json:"sentence_index"`
	Confidence    float64    `json:"confidence"`
	Extractor     string     `json:"extractor"`

	// ExternalIDs is populated by the entity resolver (§4.7), keyed by
	// database name (entrez_id, uniprot_id, ncbi_taxon_id, pubchem_id, hgnc_id).
	ExternalIDs map[string]string `json:"external_ids,omitempty"`

	// OntologyTerms is populated by the ontology aligner (§4.8), keyed by
	// ontology name (GO, Mondo, HPO, ENVO, CL, UBERON, ChEBI).
	OntologyTerms map[string]string `json:"ontology_terms,omitempty"`
}

// Relation is a typed, directed, evidence-grounded triple (§3, §4.5).
type Relation struct {
	PaperID          string       `json:"paper_id"`
	SubjectCanonical string       `json:"subject_canonical"`
	SubjectKind      EntityKind   `json:"subject_kind"`
	Type             RelationType `json:"type"`
	ObjectCanonical  string       `json:"object_canonical"`
	ObjectKind       EntityKind   `json:"object_kind"`
	Confidence       float64      `json:"confidence"`
	Evidence         []string     `json:"evidence"`
	Technique        string       `json:"technique"`
}

// Key identifies a relation for within-paper and cross-paper aggregation:
// (subject_key, type, object_key) per §3/§4.5.
func (r Relation) Key() string {
	return string(r.SubjectKind) + ":" + r.SubjectCanonical + "|" + string(r.Type) + "|" + string(r.ObjectKind) + ":" + r.ObjectCanonical
}

// Topic is a single cluster produced by stage 5.
type Topic struct {
	ID         int      `json:"id"`
	Label      string   `json:"label"`
	Size       int      `json:"size"`
	Keywords   []string `json:"keywords"`
}

// TopicAssignment maps one paper to one topic id ("-1" meaning unassigned).
type TopicAssignment struct {
	PaperID string `json:"paper_id"`
	TopicID int    `json:"topic_id"`
}

// TopicResult is the output of stage 5.
type TopicResult struct {
	Topics      []Topic           `json:"topics"`
	Assignments []TopicAssignment `json:"assignments"`
}

// StageReport captures per-stage timing/counts/error for the pipeline report (§4.1).
type StageReport struct {
	Name        string        `json:"name"`
	Duration    time.Duration `json:"duration_ns"`
	InputCount  int           `json:"input_count"`
	OutputCount int           `json:"output_count"`
	Error       string        `json:"error,omitempty"`
	Skipped     bool          `json:"skipped,omitempty"`
}

// PipelineReport is the structured, machine-readable run report (§4.1, §7).
type PipelineReport struct {
	Status   string        `json:"status"` // "complete" | "failed"
	Stages   []StageReport `json:"stages"`
	Totals   Totals        `json:"totals"`
	RunID    string        `json:"run_id"`
	Started  time.Time     `json:"started"`
	Finished time.Time     `json:"finished"`
}

// Totals summarizes the whole run for the pipeline report.
type Totals struct {
	Papers          int                    `json:"papers"`
	EntitiesByKind  map[EntityKind]int     `json:"entities_by_kind"`
	RelationsByType map[RelationType]int   `json:"relations_by_type"`
	Topics          int                    `json:"topics"`
}
