package cache

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"econfetch/internal/model"
	"econfetch/internal/registry"
)

// FileStore serves cache entries from a local directory.
type FileStore struct {
	dir     string
	entries map[string]registry.CacheEntry
}

// NewFileStore creates a store over dir with the given per-name entries.
func NewFileStore(dir string, entries map[string]registry.CacheEntry) *FileStore {
	return &FileStore{dir: dir, entries: entries}
}

// Load reads the named entry in its declared format.
func (s *FileStore) Load(ctx context.Context, name string) (model.Table, error) {
	entry, ok := s.entries[name]
	if !ok {
		return model.Table{}, &MissError{Name: name}
	}
	path := filepath.Join(s.dir, entry.Object)

	switch entry.Format {
	case registry.FormatCSV:
		f, err := os.Open(path)
		if err != nil {
			return model.Table{}, &MissError{Name: name, Err: err}
		}
		defer f.Close()
		tbl, err := DecodeCSV(f)
		if err != nil {
			return model.Table{}, &MissError{Name: name, Err: err}
		}
		return tbl, nil
	case registry.FormatParquet:
		if _, err := os.Stat(path); err != nil {
			return model.Table{}, &MissError{Name: name, Err: err}
		}
		tbl, err := ReadParquet(path)
		if err != nil {
			return model.Table{}, &MissError{Name: name, Err: err}
		}
		return tbl, nil
	default:
		return model.Table{}, &MissError{Name: name, Err: fmt.Errorf("unknown format %q", entry.Format)}
	}
}
