package resolution

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/NimaFathima/astrobiomers/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeResolver struct {
	database string
	calls    int
	result   string
	found    bool
}

func (f *fakeResolver) Database() string { return f.database }

func (f *fakeResolver) Lookup(_ context.Context, _ string) (string, bool, error) {
	f.calls++
	return f.result, f.found, nil
}

func TestResolve_DemoModeSkipsAllLookups(t *testing.T) {
	fr := &fakeResolver{database: "entrez_id", result: "123", found: true}
	svc, err := New(map[model.EntityKind]Resolver{model.KindGene: fr}, Config{DemoMode: true, CachePath: filepath.Join(t.TempDir(), "c.json")}, nil)
	require.NoError(t, err)

	mentions := []model.Mention{{Kind: model.KindGene, CanonicalName: "sirt1"}}
	out := svc.Resolve(context.Background(), mentions)

	assert.Empty(t, out[0].ExternalIDs)
	assert.Zero(t, fr.calls)
}

func TestResolve_DedupesLookupsPerCanonicalName(t *testing.T) {
	fr := &fakeResolver{database: "entrez_id", result: "123", found: true}
	svc, err := New(map[model.EntityKind]Resolver{model.KindGene: fr}, Config{CachePath: filepath.Join(t.TempDir(), "c.json")}, nil)
	require.NoError(t, err)

	mentions := []model.Mention{
		{Kind: model.KindGene, CanonicalName: "sirt1"},
		{Kind: model.KindGene, CanonicalName: "sirt1"},
		{Kind: model.KindGene, CanonicalName: "sirt2"},
	}
	out := svc.Resolve(context.Background(), mentions)

	assert.Equal(t, 2, fr.calls, "one lookup per distinct canonical name")
	assert.Equal(t, "123", out[0].ExternalIDs["entrez_id"])
	assert.Equal(t, "123", out[1].ExternalIDs["entrez_id"])
}

func TestResolve_UnmappedKindLeftUnresolved(t *testing.T) {
	svc, err := New(map[model.EntityKind]Resolver{}, Config{CachePath: filepath.Join(t.TempDir(), "c.json")}, nil)
	require.NoError(t, err)

	mentions := []model.Mention{{Kind: model.KindDisease, CanonicalName: "osteoporosis"}}
	out := svc.Resolve(context.Background(), mentions)
	assert.Empty(t, out[0].ExternalIDs)
}

func TestResolve_CachePersistsAcrossServiceInstances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "c.json")
	fr := &fakeResolver{database: "entrez_id", result: "999", found: true}

	svc1, err := New(map[model.EntityKind]Resolver{model.KindGene: fr}, Config{CachePath: path}, nil)
	require.NoError(t, err)
	svc1.Resolve(context.Background(), []model.Mention{{Kind: model.KindGene, CanonicalName: "sirt1"}})

	fr2 := &fakeResolver{database: "entrez_id", result: "should-not-be-used", found: true}
	svc2, err := New(map[model.EntityKind]Resolver{model.KindGene: fr2}, Config{CachePath: path}, nil)
	require.NoError(t, err)
	out := svc2.Resolve(context.Background(), []model.Mention{{Kind: model.KindGene, CanonicalName: "sirt1"}})

	assert.Equal(t, "999", out[0].ExternalIDs["entrez_id"])
	assert.Zero(t, fr2.calls, "cached result should skip the network call entirely")
}
