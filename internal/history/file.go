package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
)

// FileStore persists the history list to a single JSON file. Every mutation
// rewrites the whole file (replace-on-write, not append-only).
type FileStore struct {
	path   string
	logger *slog.Logger
}

// NewFileStore returns a store backed by the file at path. The file and its
// parent directory are created lazily on first insert.
func NewFileStore(path string, logger *slog.Logger) *FileStore {
	return &FileStore{path: path, logger: logger}
}

// Read returns the persisted list, newest first. A missing file is an empty
// list; a corrupt file is logged and also treated as empty — the next insert
// overwrites it with a valid list.
func (s *FileStore) Read() []AssessmentSummary {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		s.logger.Warn("history: read failed, treating as empty",
			"path", s.path,
			"error", err,
		)
		return nil
	}

	var list []AssessmentSummary
	if err := json.Unmarshal(data, &list); err != nil {
		s.logger.Warn("history: corrupt file, treating as empty",
			"path", s.path,
			"error", err,
		)
		return nil
	}
	return list
}

// Insert removes any existing entry with the same ID, prepends summary, and
// persists the result synchronously.
func (s *FileStore) Insert(summary AssessmentSummary) error {
	return s.write(insertFront(s.Read(), summary))
}

// Clear removes all persisted history. Clearing an already-empty store is
// not an error.
func (s *FileStore) Clear() error {
	err := os.Remove(s.path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("history: clear: %w", err)
	}
	return nil
}

func (s *FileStore) write(list []AssessmentSummary) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("history: create directory: %w", err)
	}
	data, err := json.MarshalIndent(list, "", "  ")
	if err != nil {
		return fmt.Errorf("history: encode: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("history: write: %w", err)
	}
	return nil
}
