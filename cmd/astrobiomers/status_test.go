package main

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/NimaFathima/astrobiomers/internal/config"
)

func TestCheckReadiness_MissingDatabaseIsReportedNotFatal(t *testing.T) {
	t.Setenv("NER_TRANSFORMER_ENDPOINT", "")
	t.Setenv("NER_SECONDARY_ENDPOINT", "")

	r := checkReadiness(config.Config{})
	assert.False(t, r.GraphReachable)
	assert.Contains(t, r.GraphError, "GRAPH_DATABASE")
	assert.Equal(t, "unconfigured", r.TransformerNER)
	assert.Equal(t, "unconfigured", r.SecondaryNER)
}

func TestCheckReadiness_ReportsConfiguredNERBackends(t *testing.T) {
	t.Setenv("NER_TRANSFORMER_ENDPOINT", "http://localhost:9000")
	t.Setenv("NER_SECONDARY_ENDPOINT", "http://localhost:9001")

	r := checkReadiness(config.Config{})
	assert.Equal(t, "configured", r.TransformerNER)
	assert.Equal(t, "configured", r.SecondaryNER)
}

func TestCheckReadiness_UnreachableDatabaseIsReportedNotFatal(t *testing.T) {
	r := checkReadiness(config.Config{GraphDatabase: "neo4j", GraphURI: "bolt://127.0.0.1:1"})
	assert.False(t, r.GraphReachable)
	assert.NotEmpty(t, r.GraphError)
}
