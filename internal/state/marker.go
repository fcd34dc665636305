// Package state persists the build completion record. The record replaces a
// bare marker file: alongside the completion timestamp it stores a content
// fingerprint of the build inputs, so a build is re-run exactly when the
// inputs actually changed.
package state

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const markerFile = "build-record.json"

// BuildRecord describes the last successful build phase.
type BuildRecord struct {
	RunID       string    `json:"run_id"`
	Fingerprint string    `json:"fingerprint"`
	CompletedAt time.Time `json:"completed_at"`
}

// Store reads and writes the build record under a state directory.
type Store struct {
	dir string
}

// NewStore returns a store rooted at dir. The directory is created on first
// write, not here.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Path returns the record file location.
func (s *Store) Path() string {
	return filepath.Join(s.dir, markerFile)
}

// Load returns the current record, or nil when no successful build is on
// record.
func (s *Store) Load() (*BuildRecord, error) {
	data, err := os.ReadFile(s.Path())
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read build record: %w", err)
	}

	var rec BuildRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("parse build record: %w", err)
	}
	return &rec, nil
}

// Save writes the record atomically. Writing the record is the last action of
// a successful build; a failed build never reaches this point, so a stale
// half-written record cannot mark a broken build as complete.
func (s *Store) Save(rec *BuildRecord) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create state directory: %w", err)
	}

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("encode build record: %w", err)
	}

	tmp := s.Path() + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write build record: %w", err)
	}
	if err := os.Rename(tmp, s.Path()); err != nil {
		return fmt.Errorf("commit build record: %w", err)
	}
	return nil
}

// Clear removes the record. A missing record is success.
func (s *Store) Clear() error {
	err := os.Remove(s.Path())
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove build record: %w", err)
	}
	return nil
}

// IsCurrent reports whether a recorded build exists for the given input
// fingerprint.
func (s *Store) IsCurrent(fingerprint string) (bool, error) {
	rec, err := s.Load()
	if err != nil {
		return false, err
	}
	return rec != nil && rec.Fingerprint == fingerprint, nil
}
