// Package state persists the bandit selector's utility table across
// process restarts. The default backend is a small JSON file keyed by
// arm name; a sqlite backend is available for deployments that already
// carry a database.
package state

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Arm is the persisted estimate for one selectable thought.
type Arm struct {
	Count int     `json:"count"`
	Value float64 `json:"value"`
}

// Store loads and saves the utility table. Both operations see the
// whole table; the single-writer turn loop makes finer granularity
// unnecessary.
type Store interface {
	Load() (map[string]Arm, error)
	Save(arms map[string]Arm) error
	Close() error
}

// JSONStore keeps the utility table in a JSON file.
type JSONStore struct {
	path string
}

// NewJSONStore creates a JSON-file store at the given path.
func NewJSONStore(path string) *JSONStore {
	return &JSONStore{path: path}
}

// Load reads the table; a missing file yields an empty table.
func (s *JSONStore) Load() (map[string]Arm, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return map[string]Arm{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading utility state %s: %w", s.path, err)
	}

	arms := map[string]Arm{}
	if err := json.Unmarshal(data, &arms); err != nil {
		return nil, fmt.Errorf("decoding utility state %s: %w", s.path, err)
	}
	return arms, nil
}

// Save writes the table atomically-enough for a single writer.
func (s *JSONStore) Save(arms map[string]Arm) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("creating state directory: %w", err)
	}
	data, err := json.MarshalIndent(arms, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding utility state: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("writing utility state %s: %w", s.path, err)
	}
	return nil
}

// Close is a no-op for the JSON store.
func (s *JSONStore) Close() error { return nil }
