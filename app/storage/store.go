package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/lysyi3m/news-cli/app/datekey"
	"github.com/lysyi3m/news-cli/app/feed"
)

// Store keeps one snapshot per day under dir/yyyy/mm/dd/news.json.
type Store struct {
	dir string
}

func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

func (s *Store) Dir() string {
	return s.dir
}

// Path returns the snapshot file for dateKey.
func (s *Store) Path(dateKey string) (string, error) {
	year, month, day, err := datekey.Parts(dateKey)
	if err != nil {
		return "", err
	}
	return filepath.Join(s.dir, year, month, day, fileName), nil
}

// Load returns the snapshot for dateKey, or nil when the file is missing or
// does not hold a valid snapshot.
func (s *Store) Load(dateKey string) (*Snapshot, error) {
	path, err := s.Path(dateKey)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}

	var raw rawSnapshot
	if err := json.Unmarshal(data, &raw); err != nil {
		slog.Debug("Ignoring unreadable snapshot", "path", path, "error", err)
		return nil, nil
	}

	snapshot, ok := raw.toSnapshot(dateKey)
	if !ok {
		slog.Debug("Ignoring snapshot with unexpected schema", "path", path)
		return nil, nil
	}

	return snapshot, nil
}

// Save replaces the snapshot for dateKey, creating directories as needed.
func (s *Store) Save(dateKey string, snapshot *Snapshot) error {
	path, err := s.Path(dateKey)
	if err != nil {
		return err
	}

	out := *snapshot
	out.Version = SchemaVersion
	if out.Categories == nil {
		out.Categories = []string{}
	}
	if out.Articles == nil {
		out.Articles = []feed.Article{}
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create snapshot directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".news-*.json")
	if err != nil {
		return fmt.Errorf("failed to create snapshot file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to replace snapshot: %w", err)
	}

	slog.Debug("Snapshot saved", "date", dateKey, "path", path, "articles", len(out.Articles))
	return nil
}
