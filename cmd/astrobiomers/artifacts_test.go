package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadJSONFile_RoundTrips(t *testing.T) {
	type payload struct {
		RunID string `json:"run_id"`
		Count int    `json:"count"`
	}
	dir := t.TempDir()
	path := filepath.Join(dir, "artifact.json")

	want := payload{RunID: "abc123", Count: 42}
	data, err := json.Marshal(want)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	var got payload
	require.NoError(t, readJSONFile(path, &got))
	assert.Equal(t, want, got)
}

func TestReadJSONFile_MissingFileIsAnError(t *testing.T) {
	var v map[string]any
	err := readJSONFile(filepath.Join(t.TempDir(), "missing.json"), &v)
	assert.Error(t, err)
}

func TestReadJSONFile_MalformedJSONIsAnError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	var v map[string]any
	err := readJSONFile(path, &v)
	assert.Error(t, err)
}
