package ontology

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/NimaFathima/astrobiomers/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAligner struct {
	ontology string
	calls    int
	term     string
	found    bool
}

func (f *fakeAligner) Ontology() string { return f.ontology }

func (f *fakeAligner) Align(_ context.Context, _ string) (string, bool, error) {
	f.calls++
	return f.term, f.found, nil
}

func TestAlign_DemoModeSkipsLookups(t *testing.T) {
	fa := &fakeAligner{ontology: "HPO", term: "HP:0000939", found: true}
	svc, err := New(map[model.EntityKind]Aligner{model.KindPhenotype: fa}, Config{DemoMode: true, CachePath: filepath.Join(t.TempDir(), "c.json")}, nil)
	require.NoError(t, err)

	out := svc.Align(context.Background(), []model.Mention{{Kind: model.KindPhenotype, CanonicalName: "bone loss"}})
	assert.Empty(t, out[0].OntologyTerms)
	assert.Zero(t, fa.calls)
}

func TestAlign_PopulatesOntologyTerms(t *testing.T) {
	fa := &fakeAligner{ontology: "HPO", term: "HP:0000939", found: true}
	svc, err := New(map[model.EntityKind]Aligner{model.KindPhenotype: fa}, Config{CachePath: filepath.Join(t.TempDir(), "c.json")}, nil)
	require.NoError(t, err)

	out := svc.Align(context.Background(), []model.Mention{{Kind: model.KindPhenotype, CanonicalName: "bone loss"}})
	assert.Equal(t, "HP:0000939", out[0].OntologyTerms["HPO"])
}

func TestAlignmentRate_ComputesOverInScopeKindsOnly(t *testing.T) {
	mentions := []model.Mention{
		{Kind: model.KindPhenotype, OntologyTerms: map[string]string{"HPO": "HP:1"}},
		{Kind: model.KindPhenotype},
		{Kind: model.KindGene, OntologyTerms: map[string]string{"GO": "GO:1"}},
		{Kind: model.KindStressor, OntologyTerms: map[string]string{"ENVO": "ENVO:1"}},
	}
	inScope := map[model.EntityKind]bool{model.KindPhenotype: true, model.KindGene: true}
	assert.InDelta(t, 2.0/3.0, AlignmentRate(mentions, inScope), 1e-9)
}
