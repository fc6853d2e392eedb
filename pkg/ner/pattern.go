package ner

import (
	"context"
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"

	"github.com/NimaFathima/astrobiomers/pkg/model"
)

// patternRule is one lexicon entry: a compiled phrase matcher plus the kind
// and canonical form it yields.
type patternRule struct {
	re        *regexp.Regexp
	kind      model.EntityKind
	canonical string
}

// PatternExtractor matches fixed domain vocabulary underrepresented by
// generic transformer models: stressors, phenotypes, interventions, and
// organism aliases (§4.4). Patterns always yield a fixed high confidence.
type PatternExtractor struct {
	rules      []patternRule
	confidence float64
}

// NewPatternExtractor builds the extractor from the built-in lexicon. It is
// always available — no external backend is required.
func NewPatternExtractor() *PatternExtractor {
	return &PatternExtractor{rules: compileLexicon(defaultLexicon), confidence: 0.88}
}

// LexiconEntry is the YAML-serializable form of a lexicon rule, letting an
// operator extend the built-in vocabulary without a code change.
type LexiconEntry struct {
	Phrase    string           `yaml:"phrase"`
	Kind      model.EntityKind `yaml:"kind"`
	Canonical string           `yaml:"canonical"`
}

// NewPatternExtractorFromFile builds the extractor from the built-in
// lexicon plus additional entries loaded from a YAML file (a list of
// phrase/kind/canonical records). A missing path falls back to the
// built-in lexicon alone.
func NewPatternExtractorFromFile(path string) (*PatternExtractor, error) {
	entries := defaultLexicon
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("ner: read lexicon file: %w", err)
			}
		} else {
			var extra []LexiconEntry
			if err := yaml.Unmarshal(data, &extra); err != nil {
				return nil, fmt.Errorf("ner: parse lexicon file: %w", err)
			}
			entries = append(append([]lexiconEntry{}, defaultLexicon...), toLexiconEntries(extra)...)
		}
	}
	return &PatternExtractor{rules: compileLexicon(entries), confidence: 0.88}, nil
}

func toLexiconEntries(extra []LexiconEntry) []lexiconEntry {
	out := make([]lexiconEntry, 0, len(extra))
	for _, e := range extra {
		out = append(out, lexiconEntry{phrase: e.Phrase, kind: e.Kind, canonical: e.Canonical})
	}
	return out
}

func (p *PatternExtractor) Name() string { return "pattern" }

func (p *PatternExtractor) Extract(_ context.Context, pp model.PreprocessedPaper) ([]model.Mention, error) {
	var out []model.Mention
	for _, s := range pp.Sentences {
		for _, rule := range p.rules {
			locs := rule.re.FindAllStringIndex(s.Text, -1)
			for _, loc := range locs {
				out = append(out, model.Mention{
					PaperID:       pp.PaperID,
					Text:          s.Text[loc[0]:loc[1]],
					CanonicalName: rule.canonical,
					Kind:          rule.kind,
					Span:          model.Span{Start: s.OriginalFrom + loc[0], End: s.OriginalFrom + loc[1]},
					SentenceIndex: s.Index,
					Confidence:    p.confidence,
					Extractor:     p.Name(),
				})
			}
		}
	}
	return out, nil
}

type lexiconEntry struct {
	phrase    string
	kind      model.EntityKind
	canonical string
}

// defaultLexicon covers the domain vocabulary named explicitly in §4.4.
var defaultLexicon = []lexiconEntry{
	{"microgravity", model.KindStressor, "microgravity"},
	{"simulated microgravity", model.KindStressor, "simulated microgravity"},
	{"altered gravity", model.KindStressor, "altered gravity"},
	{"cosmic radiation", model.KindStressor, "cosmic radiation"},
	{"ionizing radiation", model.KindStressor, "cosmic radiation"},
	{"isolation", model.KindStressor, "isolation"},
	{"spaceflight", model.KindStressor, "spaceflight"},
	{"space flight", model.KindStressor, "spaceflight"},
	{"hindlimb unloading", model.KindStressor, "hindlimb unloading"},

	{"bone loss", model.KindPhenotype, "bone loss"},
	{"bone density loss", model.KindPhenotype, "bone loss"},
	{"muscle atrophy", model.KindPhenotype, "muscle atrophy"},
	{"muscular atrophy", model.KindPhenotype, "muscle atrophy"},
	{"immune dysfunction", model.KindPhenotype, "immune dysfunction"},
	{"immune suppression", model.KindPhenotype, "immune dysfunction"},
	{"cardiovascular deconditioning", model.KindPhenotype, "cardiovascular deconditioning"},
	{"oxidative stress", model.KindPhenotype, "oxidative stress"},

	{"exercise countermeasure", model.KindIntervention, "exercise countermeasure"},
	{"resistive exercise", model.KindIntervention, "resistive exercise"},
	{"artificial gravity", model.KindIntervention, "artificial gravity"},
	{"pharmacological countermeasure", model.KindIntervention, "pharmacological countermeasure"},
	{"dietary supplementation", model.KindIntervention, "dietary supplementation"},

	{"mus musculus", model.KindOrganism, "mus musculus"},
	{"c57bl/6", model.KindOrganism, "mus musculus"},
	{"arabidopsis thaliana", model.KindOrganism, "arabidopsis thaliana"},
	{"drosophila melanogaster", model.KindOrganism, "drosophila melanogaster"},
	{"caenorhabditis elegans", model.KindOrganism, "caenorhabditis elegans"},
	{"homo sapiens", model.KindOrganism, "homo sapiens"},
	{"human subjects", model.KindOrganism, "homo sapiens"},
	{"astronauts", model.KindOrganism, "homo sapiens"},
}

func compileLexicon(entries []lexiconEntry) []patternRule {
	rules := make([]patternRule, 0, len(entries))
	for _, e := range entries {
		pattern := `(?i)\b` + regexp.QuoteMeta(e.phrase) + `\b`
		rules = append(rules, patternRule{
			re:        regexp.MustCompile(pattern),
			kind:      e.kind,
			canonical: e.canonical,
		})
	}
	return rules
}
