package ner

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NimaFathima/astrobiomers/pkg/model"
)

func TestNewPatternExtractorFromFile_EmptyPathUsesBuiltinLexicon(t *testing.T) {
	pe, err := NewPatternExtractorFromFile("")
	require.NoError(t, err)
	assert.Len(t, pe.rules, len(defaultLexicon))
}

func TestNewPatternExtractorFromFile_MissingFileUsesBuiltinLexicon(t *testing.T) {
	pe, err := NewPatternExtractorFromFile(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	require.NoError(t, err)
	assert.Len(t, pe.rules, len(defaultLexicon))
}

func TestNewPatternExtractorFromFile_AddsExtraEntries(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lexicon.yaml")
	writeFile(t, path, `
- phrase: tardigrade
  kind: ORGANISM
  canonical: tardigrade
`)

	pe, err := NewPatternExtractorFromFile(path)
	require.NoError(t, err)
	assert.Len(t, pe.rules, len(defaultLexicon)+1)

	mentions, err := pe.Extract(context.Background(), paper("Tardigrade survival under vacuum."))
	require.NoError(t, err)

	var canonicals []string
	for _, m := range mentions {
		canonicals = append(canonicals, m.CanonicalName)
	}
	assert.Contains(t, canonicals, "tardigrade")
}

func TestNewPatternExtractorFromFile_MalformedYAMLIsAnError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lexicon.yaml")
	writeFile(t, path, "not: [valid, yaml")

	_, err := NewPatternExtractorFromFile(path)
	assert.Error(t, err)
}

func TestToLexiconEntries_ConvertsExportedToUnexported(t *testing.T) {
	out := toLexiconEntries([]LexiconEntry{{Phrase: "x", Kind: model.KindGene, Canonical: "X"}})
	require.Len(t, out, 1)
	assert.Equal(t, "x", out[0].phrase)
	assert.Equal(t, model.KindGene, out[0].kind)
	assert.Equal(t, "X", out[0].canonical)
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}
