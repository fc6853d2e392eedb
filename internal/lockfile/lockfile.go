// Package lockfile implements the single-writer guard required by spec.md
// §5: a run writes pipeline.lock in the working directory, and a second
// concurrent start fails fast rather than racing the graph database client.
//
// The acquire-then-defer-release shape follows the teacher's atomic
// write-temp-then-rename convention used for checkpoints and stage
// artifacts, applied here to a single sentinel file instead of a payload.
package lockfile

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Name is the lockfile's fixed name within a working directory.
const Name = "pipeline.lock"

// Lock represents an acquired pipeline.lock. Release removes it.
type Lock struct {
	path string
}

// Acquire creates dir/pipeline.lock exclusively. If the file already
// exists, acquisition fails fast with the PID and start time recorded in
// the existing lock, per §5 ("second starts fail fast").
func Acquire(dir string) (*Lock, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create working directory: %w", err)
	}

	path := filepath.Join(dir, Name)

	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		if os.IsExist(err) {
			holder, rerr := os.ReadFile(path)
			if rerr == nil {
				return nil, fmt.Errorf("pipeline already running: %s", string(holder))
			}
			return nil, fmt.Errorf("pipeline already running (lockfile present at %s)", path)
		}
		return nil, fmt.Errorf("create lockfile: %w", err)
	}
	defer f.Close()

	content := fmt.Sprintf("pid=%d started=%s\n", os.Getpid(), time.Now().UTC().Format(time.RFC3339))
	if _, err := f.WriteString(content); err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("write lockfile: %w", err)
	}

	return &Lock{path: path}, nil
}

// Release removes the lockfile. Safe to call once; subsequent calls are a no-op.
func (l *Lock) Release() error {
	if l == nil || l.path == "" {
		return nil
	}
	err := os.Remove(l.path)
	l.path = ""
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Held reports whether a lockfile currently exists in dir.
func Held(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, Name))
	return err == nil
}
