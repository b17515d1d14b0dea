package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
)

// JSONStore persists snapshots to a single JSON file. Writes go to a temporary
// file first and are renamed into place, so a crash mid-write never corrupts
// the previous snapshot.
type JSONStore struct {
	path string
}

// NewJSONStore creates a gateway backed by the given file path. The file does
// not need to exist yet.
func NewJSONStore(path string) *JSONStore {
	return &JSONStore{path: path}
}

// Save writes the snapshot atomically.
func (s *JSONStore) Save(_ context.Context, snap Snapshot) error {
	tmp := s.path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("%w: create %s: %v", ErrPersistence, tmp, err)
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(snap); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("%w: encode snapshot: %v", ErrPersistence, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("%w: close %s: %v", ErrPersistence, tmp, err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("%w: rename %s: %v", ErrPersistence, tmp, err)
	}
	return nil
}

// Load reads and decodes the snapshot file.
func (s *JSONStore) Load(_ context.Context) (Snapshot, error) {
	var snap Snapshot
	f, err := os.Open(s.path)
	if err != nil {
		return snap, fmt.Errorf("%w: open %s: %v", ErrPersistence, s.path, err)
	}
	defer f.Close()
	if err := json.NewDecoder(f).Decode(&snap); err != nil {
		return Snapshot{}, fmt.Errorf("%w: decode %s: %v", ErrPersistence, s.path, err)
	}
	return snap, nil
}
