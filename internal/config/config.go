// Package config loads the flat key/value configuration file described in
// spec.md §6 (DATA_DIR, PUBMED_EMAIL, GRAPH_URI, ...), with environment
// variables taking precedence over the file. It mirrors the teacher
// repository's bootstrap-config idiom (sane defaults, nil-logger-safe
// constructors) while matching the flat-file shape §6 specifies rather than
// the teacher's YAML project file.
package config

import (
	"bufio"
	"os"
	"strconv"
	"strings"

	apperrors "github.com/NimaFathima/astrobiomers/internal/errors"
)

// Config holds every recognized option from spec.md §6.
type Config struct {
	DataDir string

	PubMedEmail  string
	PubMedAPIKey string

	GraphURI      string
	GraphUser     string
	GraphPassword string
	GraphDatabase string

	EntityConfidenceThreshold   float64
	RelationConfidenceThreshold float64
	TopicMinCorpus              int
	BatchSize                   int

	UseGPU bool

	ResolutionEnabled bool
	AlignmentEnabled  bool
}

// Default returns the configuration defaults named throughout spec.md.
func Default() Config {
	return Config{
		DataDir:                     "./data",
		EntityConfidenceThreshold:   0.75,
		RelationConfidenceThreshold: 0.70,
		TopicMinCorpus:              100,
		BatchSize:                   500,
		UseGPU:                      false,
		ResolutionEnabled:           true,
		AlignmentEnabled:            true,
	}
}

// Load reads a flat KEY=VALUE file (blank lines and '#' comments ignored),
// applies it over Default(), then applies any matching environment
// variables on top. A missing path is not an error: Default() alone is
// returned, env overrides still apply.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return cfg, apperrors.NewConfigError(
					"cannot read configuration file",
					err.Error(),
					"check that the path is readable",
					err,
				)
			}
		} else {
			defer f.Close()
			kv, perr := parseFlatFile(f)
			if perr != nil {
				return cfg, apperrors.NewConfigError(
					"cannot parse configuration file",
					perr.Error(),
					"configuration must be KEY=VALUE lines",
					perr,
				)
			}
			applyKV(&cfg, kv)
		}
	}

	applyKV(&cfg, envKV())

	// GRAPH_DATABASE is deliberately not required here: most commands
	// (status, stats, acquire-curated, build without --load-graph) never
	// open a graph session. graph.New enforces "never fall back to the
	// server's default database" at the one place that actually matters.
	return cfg, nil
}

func parseFlatFile(f *os.File) (map[string]string, error) {
	kv := make(map[string]string)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		idx := strings.Index(line, "=")
		if idx < 0 {
			continue
		}
		key := strings.TrimSpace(line[:idx])
		val := strings.TrimSpace(line[idx+1:])
		kv[key] = val
	}
	return kv, scanner.Err()
}

func envKV() map[string]string {
	keys := []string{
		"DATA_DIR", "PUBMED_EMAIL", "PUBMED_API_KEY",
		"GRAPH_URI", "GRAPH_USER", "GRAPH_PASSWORD", "GRAPH_DATABASE",
		"ENTITY_CONFIDENCE_THRESHOLD", "RELATION_CONFIDENCE_THRESHOLD",
		"TOPIC_MIN_CORPUS", "BATCH_SIZE", "USE_GPU",
		"RESOLUTION_ENABLED", "ALIGNMENT_ENABLED",
	}
	kv := make(map[string]string)
	for _, k := range keys {
		if v, ok := os.LookupEnv(k); ok {
			kv[k] = v
		}
	}
	return kv
}

func applyKV(cfg *Config, kv map[string]string) {
	if v, ok := kv["DATA_DIR"]; ok {
		cfg.DataDir = v
	}
	if v, ok := kv["PUBMED_EMAIL"]; ok {
		cfg.PubMedEmail = v
	}
	if v, ok := kv["PUBMED_API_KEY"]; ok {
		cfg.PubMedAPIKey = v
	}
	if v, ok := kv["GRAPH_URI"]; ok {
		cfg.GraphURI = v
	}
	if v, ok := kv["GRAPH_USER"]; ok {
		cfg.GraphUser = v
	}
	if v, ok := kv["GRAPH_PASSWORD"]; ok {
		cfg.GraphPassword = v
	}
	if v, ok := kv["GRAPH_DATABASE"]; ok {
		cfg.GraphDatabase = v
	}
	if v, ok := kv["ENTITY_CONFIDENCE_THRESHOLD"]; ok {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.EntityConfidenceThreshold = f
		}
	}
	if v, ok := kv["RELATION_CONFIDENCE_THRESHOLD"]; ok {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.RelationConfidenceThreshold = f
		}
	}
	if v, ok := kv["TOPIC_MIN_CORPUS"]; ok {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.TopicMinCorpus = n
		}
	}
	if v, ok := kv["BATCH_SIZE"]; ok {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.BatchSize = n
		}
	}
	if v, ok := kv["USE_GPU"]; ok {
		cfg.UseGPU = parseBool(v)
	}
	if v, ok := kv["RESOLUTION_ENABLED"]; ok {
		cfg.ResolutionEnabled = parseBool(v)
	}
	if v, ok := kv["ALIGNMENT_ENABLED"]; ok {
		cfg.AlignmentEnabled = parseBool(v)
	}
}

func parseBool(s string) bool {
	b, err := strconv.ParseBool(s)
	if err != nil {
		return false
	}
	return b
}

// DemoMode reports whether both resolver and aligner network calls are
// disabled, per the GLOSSARY's "demo mode" definition.
func (c Config) DemoMode() bool {
	return !c.ResolutionEnabled && !c.AlignmentEnabled
}
