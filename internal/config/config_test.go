package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "./data", cfg.DataDir)
	assert.Equal(t, 0.75, cfg.EntityConfidenceThreshold)
	assert.Equal(t, 0.70, cfg.RelationConfidenceThreshold)
	assert.Equal(t, 100, cfg.TopicMinCorpus)
	assert.Equal(t, 500, cfg.BatchSize)
	assert.False(t, cfg.UseGPU)
	assert.True(t, cfg.ResolutionEnabled)
	assert.True(t, cfg.AlignmentEnabled)
}

func TestLoad_MissingPathReturnsDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.env"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_EmptyPathReturnsDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_FlatFileOverridesDefaults(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "astrobiomers.env")
	contents := `# comment line
DATA_DIR=/var/astro/data
PUBMED_EMAIL=researcher@example.org

GRAPH_URI=bolt://localhost:7687
GRAPH_DATABASE=astrobiomers
BATCH_SIZE=250
USE_GPU=true
RESOLUTION_ENABLED=false
`
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/var/astro/data", cfg.DataDir)
	assert.Equal(t, "researcher@example.org", cfg.PubMedEmail)
	assert.Equal(t, "bolt://localhost:7687", cfg.GraphURI)
	assert.Equal(t, "astrobiomers", cfg.GraphDatabase)
	assert.Equal(t, 250, cfg.BatchSize)
	assert.True(t, cfg.UseGPU)
	assert.False(t, cfg.ResolutionEnabled)
	assert.True(t, cfg.AlignmentEnabled)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "astrobiomers.env")
	require.NoError(t, os.WriteFile(path, []byte("DATA_DIR=/from/file\nBATCH_SIZE=10\n"), 0o644))

	t.Setenv("DATA_DIR", "/from/env")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/from/env", cfg.DataDir)
	assert.Equal(t, 10, cfg.BatchSize)
}

// GRAPH_DATABASE must never be required by Load itself: most commands never
// open a graph session, and graph.New is the single place that enforces it.
func TestLoad_DoesNotRequireGraphDatabase(t *testing.T) {
	clearEnv(t)
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Empty(t, cfg.GraphDatabase)
}

func TestLoad_UnreadableFileIsAnError(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "astrobiomers.env")
	require.NoError(t, os.WriteFile(path, []byte("DATA_DIR=/x\n"), 0o000))
	t.Cleanup(func() { _ = os.Chmod(path, 0o644) })

	if os.Getuid() == 0 {
		t.Skip("running as root: file permissions are not enforced")
	}

	_, err := Load(path)
	assert.Error(t, err)
}

func TestDemoMode(t *testing.T) {
	tests := []struct {
		name       string
		resolution bool
		alignment  bool
		want       bool
	}{
		{"both enabled", true, true, false},
		{"resolution only", true, false, false},
		{"alignment only", false, true, false},
		{"both disabled", false, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Config{ResolutionEnabled: tt.resolution, AlignmentEnabled: tt.alignment}
			assert.Equal(t, tt.want, cfg.DemoMode())
		})
	}
}

func clearEnv(t *testing.T) {
	t.Helper()
	keys := []string{
		"DATA_DIR", "PUBMED_EMAIL", "PUBMED_API_KEY",
		"GRAPH_URI", "GRAPH_USER", "GRAPH_PASSWORD", "GRAPH_DATABASE",
		"ENTITY_CONFIDENCE_THRESHOLD", "RELATION_CONFIDENCE_THRESHOLD",
		"TOPIC_MIN_CORPUS", "BATCH_SIZE", "USE_GPU",
		"RESOLUTION_ENABLED", "ALIGNMENT_ENABLED",
	}
	for _, k := range keys {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}
