package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
)

// JSONStore persists the dataset as a single pretty-printed JSON document.
// This is the default backend and the compatibility format for documents
// written by earlier versions of the tracker.
type JSONStore struct {
	path string
}

func NewJSONStore(path string) (*JSONStore, error) {
	if path == "" {
		return nil, errors.New("json store: empty path")
	}
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create data directory: %w", err)
		}
	}
	return &JSONStore{path: path}, nil
}

// Load reads the document from disk. A missing, empty or unreadable file
// yields an empty dataset: losing the ability to start the app over a bad
// data file would be worse than starting clean, and the original file is
// left untouched until the next explicit save.
func (s *JSONStore) Load(ctx context.Context) (*Dataset, error) {
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		slog.InfoContext(ctx, "Data file not found, starting empty", "path", s.path)
		return &Dataset{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read data file: %w", err)
	}
	if len(raw) == 0 {
		slog.InfoContext(ctx, "Data file empty, starting empty", "path", s.path)
		return &Dataset{}, nil
	}

	var doc document
	if err := json.Unmarshal(raw, &doc); err != nil {
		slog.WarnContext(ctx, "Data file is not valid JSON, starting empty",
			"path", s.path, "error", err)
		return &Dataset{}, nil
	}

	ds := decodeDocument(doc)
	slog.InfoContext(ctx, "Data loaded",
		"path", s.path,
		"entries", len(ds.Entries),
		"transactions", len(ds.Transactions),
		"journal_entries", len(ds.Journal),
		"snapshots", len(ds.Snapshots))
	return ds, nil
}

// Save writes the full document atomically via a temp file and rename.
func (s *JSONStore) Save(ctx context.Context, ds *Dataset) error {
	doc := encodeDocument(ds)
	raw, err := json.MarshalIndent(doc, "", "    ")
	if err != nil {
		return fmt.Errorf("encode data file: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("write data file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace data file: %w", err)
	}

	slog.InfoContext(ctx, "Data saved", "path", s.path, "bytes", len(raw))
	return nil
}

func (s *JSONStore) Close() error {
	return nil
}
