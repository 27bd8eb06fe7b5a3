// Package persistence implements the JSON snapshot format shared by
// on-disk persistence and replication (spec.md §6.3).
package persistence

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aviral1303/vectordb/models"
)

// Snapshotter reads and writes the three-file JSON snapshot format under
// Dir: libraries.json, documents.json, chunks.json.
type Snapshotter struct {
	Dir string
}

// NewSnapshotter creates a Snapshotter rooted at dir.
func NewSnapshotter(dir string) *Snapshotter {
	return &Snapshotter{Dir: dir}
}

// Save atomically writes snap's three collections to Dir: each file is
// written to a sibling .tmp path then renamed over the target, which is
// atomic on POSIX filesystems (spec.md §6.3).
func (s *Snapshotter) Save(snap *models.Snapshot) error {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return fmt.Errorf("creating persistence dir: %w", err)
	}
	if err := writeJSONAtomic(filepath.Join(s.Dir, "libraries.json"), snap.Libraries); err != nil {
		return fmt.Errorf("saving libraries: %w", err)
	}
	if err := writeJSONAtomic(filepath.Join(s.Dir, "documents.json"), snap.Documents); err != nil {
		return fmt.Errorf("saving documents: %w", err)
	}
	if err := writeJSONAtomic(filepath.Join(s.Dir, "chunks.json"), snap.Chunks); err != nil {
		return fmt.Errorf("saving chunks: %w", err)
	}
	return nil
}

// Load reads the three-file snapshot from Dir. A missing file yields an
// empty collection, not an error, so a first run with persistence enabled
// starts clean.
func (s *Snapshotter) Load() (*models.Snapshot, error) {
	libraries := make([]*models.Library, 0)
	if err := readJSON(filepath.Join(s.Dir, "libraries.json"), &libraries); err != nil {
		return nil, fmt.Errorf("loading libraries: %w", err)
	}
	documents := make([]*models.Document, 0)
	if err := readJSON(filepath.Join(s.Dir, "documents.json"), &documents); err != nil {
		return nil, fmt.Errorf("loading documents: %w", err)
	}
	chunks := make([]*models.Chunk, 0)
	if err := readJSON(filepath.Join(s.Dir, "chunks.json"), &chunks); err != nil {
		return nil, fmt.Errorf("loading chunks: %w", err)
	}
	return &models.Snapshot{Libraries: libraries, Documents: documents, Chunks: chunks}, nil
}

func writeJSONAtomic(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func readJSON(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}
