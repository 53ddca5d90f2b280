// Package cache serves pre-built dataset tables by name, from a local
// directory or an S3-compatible bucket. The orchestrator only ever reads
// from it; artifacts are produced out of band (see cmd/cachegen).
package cache

import (
	"context"
	"errors"
	"fmt"

	"econfetch/internal/model"
	"econfetch/internal/registry"
)

// Store is name-addressed table retrieval. A failed load comes back as a
// MissError so callers can fall through to a live fetch.
type Store interface {
	Load(ctx context.Context, name string) (model.Table, error)
}

// MissError reports an absent or unreadable cache entry.
type MissError struct {
	Name string
	Err  error
}

func (e *MissError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("cache miss for %q: %v", e.Name, e.Err)
	}
	return fmt.Sprintf("cache miss for %q", e.Name)
}

func (e *MissError) Unwrap() error { return e.Err }

// IsMiss reports whether err is a cache miss.
func IsMiss(err error) bool {
	var me *MissError
	return errors.As(err, &me)
}

// Entries builds the per-name lookup table from the registry's cache
// entry declarations.
func Entries(reg *registry.Registry) map[string]registry.CacheEntry {
	entries := make(map[string]registry.CacheEntry)
	for _, name := range reg.Names() {
		ds, _ := reg.Get(name)
		entries[ds.Cache.Name] = ds.Cache
	}
	return entries
}
