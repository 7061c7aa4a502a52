package dataset

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/go-pkgz/lgr"

	"github.com/minepenge/minepenge/pkg/domain"
)

// Store keeps the dataset in a single JSON file
type Store struct {
	path string
}

// NewStore makes a Store for the dataset file at path
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the dataset file location
func (s *Store) Path() string { return s.path }

// Load reads the dataset. A missing or unparseable file is a cold start and yields an empty dataset.
func (s *Store) Load() (domain.Dataset, error) {
	empty := domain.Dataset{Articles: []domain.Article{}}
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		lgr.Printf("[WARN] dataset %s not found, starting empty", s.path)
		return empty, nil
	}
	if err != nil {
		return empty, fmt.Errorf("read dataset %s: %w", s.path, err)
	}

	var ds domain.Dataset
	if err := json.Unmarshal(data, &ds); err != nil {
		lgr.Printf("[WARN] dataset %s is malformed, starting empty: %v", s.path, err)
		return empty, nil
	}
	if ds.Articles == nil {
		ds.Articles = []domain.Article{}
	}
	return ds, nil
}

// Save replaces the dataset file atomically
func (s *Store) Save(ds domain.Dataset) error {
	if ds.Articles == nil {
		ds.Articles = []domain.Article{}
	}
	if err := WriteJSON(s.path, ds); err != nil {
		return fmt.Errorf("save dataset: %w", err)
	}
	return nil
}

// WriteJSON writes v as indented JSON without html escaping. The file is written to a temp file
// in the same directory, synced and renamed over path, so readers never see a partial file.
func WriteJSON(path string, v any) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("create dir %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name()) // no-op after successful rename

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write %s: %w", tmp.Name(), err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmp.Name(), err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil { //nolint:gosec // dataset is public
		return fmt.Errorf("chmod %s: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename to %s: %w", path, err)
	}
	return nil
}
