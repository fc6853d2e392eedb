// Package pipeline orchestrates the eight stages (spec.md §4) into one
// resumable run: acquisition, preprocessing, NER, relation extraction,
// topic modeling, entity resolution, ontology alignment, and graph
// loading. It mirrors the teacher's LocalPipeline
// (pkg/ingestion/local_pipeline.go): one struct wiring every stage's
// dependencies, a single Run that logs a line per step and times it, and
// a result/report struct summarizing the whole run.
package pipeline

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/NimaFathima/astrobiomers/pkg/numnorm"
)

// artifactNames are the exact file names §4.1's artifact list specifies.
const (
	fileRawPapers          = "raw_papers.json"
	filePreprocessedPapers = "preprocessed_papers.json"
	fileExtractedEntities  = "extracted_entities.json"
	fileExtractedRelations = "extracted_relationships.json"
	fileResolvedEntities   = "resolved_entities.json"
	fileAlignedEntities    = "aligned_entities.json"
	fileTopics             = "topics.json"
	filePipelineResults    = "pipeline_results.json"
)

// writeArtifact persists v as pretty JSON to dir/name atomically (temp
// file + rename), the same crash-safe idiom as the teacher's
// CheckpointManager.SaveCheckpoint and pkg/diskcache.Flush. Every value
// passes through numnorm.Normalize first, since ensemble stage output can
// carry non-native numeric types (§4.1, §9).
func writeArtifact(dir, name string, v any) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(numnorm.Normalize(v), "", "  ")
	if err != nil {
		return err
	}
	path := filepath.Join(dir, name)
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	return nil
}

// readArtifact loads dir/name into v. A missing file is reported via the
// returned bool, not an error — resumability treats "no prior artifact"
// as "stage has not run yet", not a failure.
func readArtifact(dir, name string, v any) (found bool, err error) {
	path := filepath.Join(dir, name)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, err
	}
	return true, nil
}

// artifactPath joins dir and name for mtime comparisons.
func artifactPath(dir, name string) string {
	return filepath.Join(dir, name)
}

// artifactStat returns the modtime info needed for the skip-if-fresh
// resumability check (§5), and whether the artifact exists at all.
func artifactStat(dir, name string) (exists bool, modTime int64) {
	info, err := os.Stat(artifactPath(dir, name))
	if err != nil {
		return false, 0
	}
	return true, info.ModTime().UnixNano()
}
