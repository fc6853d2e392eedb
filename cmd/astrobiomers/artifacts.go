package main

import (
	"encoding/json"
	"os"
)

// readJSONFile loads a pipeline artifact written by pkg/pipeline's
// writeArtifact into v. Used by the read-only status/stats commands, which
// run independently of an in-process Pipeline.
func readJSONFile(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}
