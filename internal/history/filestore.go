package history

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/samplex/backend/internal/domain/attempt"
)

// StorageKey is the well-known key the history collection lives under,
// shared with the browser client's local storage.
const StorageKey = "quizHistory"

// FileStore persists the history as a single serialized array in one JSON
// file, mirroring the client's local-storage contract. Appends are
// read-modify-write; concurrent writers are an accepted last-writer-wins
// race, same as multiple browser tabs.
type FileStore struct {
	path string
}

// NewFileStore places the history file under dir.
func NewFileStore(dir string) *FileStore {
	return &FileStore{path: filepath.Join(dir, StorageKey+".json")}
}

// Load reads the full history. A missing file is an empty history, not an
// error. Legacy map-shaped answer records are normalized during decoding.
func (s *FileStore) Load() ([]attempt.Attempt, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return []attempt.Attempt{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read history: %w", err)
	}

	var attempts []attempt.Attempt
	if err := json.Unmarshal(data, &attempts); err != nil {
		return nil, fmt.Errorf("decode history: %w", err)
	}
	return attempts, nil
}

// Append loads the collection, appends the attempt and writes the whole
// array back. Insertion order is chronological order by contract.
func (s *FileStore) Append(a attempt.Attempt) error {
	attempts, err := s.Load()
	if err != nil {
		return err
	}
	return s.write(append(attempts, a))
}

// Reset irreversibly replaces the history with an empty collection. The
// user confirmation happens upstream.
func (s *FileStore) Reset() error {
	return s.write([]attempt.Attempt{})
}

func (s *FileStore) write(attempts []attempt.Attempt) error {
	data, err := json.Marshal(attempts)
	if err != nil {
		return fmt.Errorf("encode history: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("write history: %w", err)
	}
	return nil
}
