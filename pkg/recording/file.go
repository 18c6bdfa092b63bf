package recording

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/getmockd/mockgate/pkg/model"
)

// Load reads a replay file: a JSON array of {"when", "then"} objects.
func Load(path string) ([]model.Replay, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, fmt.Errorf("failed to stat replay file: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("path is a directory, not a file: %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read replay file: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyFile, path)
	}

	return Parse(data)
}

// Parse decodes the persisted replay format. The document must be a JSON
// array; an empty array is a valid file with no entries.
func Parse(data []byte) ([]model.Replay, error) {
	if trimmed := bytes.TrimSpace(data); len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, fmt.Errorf("%w: top-level value is not an array", ErrCorrupted)
	}
	var replays []model.Replay
	if err := json.Unmarshal(data, &replays); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupted, err)
	}
	for i, r := range replays {
		if r.Then.IsZero() {
			return nil, fmt.Errorf("%w: entry %d has no then body", ErrCorrupted, i)
		}
		if r.When.Method == "" {
			return nil, fmt.Errorf("%w: entry %d has no method", ErrCorrupted, i)
		}
	}
	return replays, nil
}

// Save writes replays to path, replacing any previous contents. The file is
// written to a temporary sibling first and renamed into place.
func Save(path string, replays []model.Replay) error {
	if replays == nil {
		replays = []model.Replay{}
	}
	data, err := json.MarshalIndent(replays, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal replays: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write temporary file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to rename temporary file: %w", err)
	}
	return nil
}

// Save writes the store's replays to path in capture order.
func (s *Store) Save(path string) error {
	return Save(path, s.Replays())
}
