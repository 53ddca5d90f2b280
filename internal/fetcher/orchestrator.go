package fetcher

import (
	"context"
	"fmt"
	"strings"
	"time"

	"econfetch/internal/cache"
	"econfetch/internal/model"
	"econfetch/internal/registry"
	"econfetch/internal/source"
)

// Config tunes one Orchestrator. Zero values fall back to defaults.
type Config struct {
	Policy  RetryPolicy
	Workers int // bounded worker pool size for live fetches, default 1
}

// Orchestrator is the public entry point: it validates a request, applies
// the cache-first policy, falls back to a live fetch through the retry
// policy and aggregator, and tags the result with provenance. It never
// mutates the cache store or the registry.
type Orchestrator struct {
	reg      *registry.Registry
	cache    cache.Store
	adapters map[string]source.Adapter
	policy   RetryPolicy
	workers  int
}

// New wires an orchestrator over shared, read-only collaborators.
func New(reg *registry.Registry, store cache.Store, adapters map[string]source.Adapter, cfg Config) *Orchestrator {
	policy := cfg.Policy
	if policy.MaxAttempts == 0 {
		policy = DefaultRetryPolicy()
	}
	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}
	return &Orchestrator{
		reg:      reg,
		cache:    store,
		adapters: adapters,
		policy:   policy,
		workers:  workers,
	}
}

// Fetch produces one FetchResult for the request. It fails only when the
// request is invalid or when no data can be produced by any path.
func (o *Orchestrator) Fetch(ctx context.Context, req model.DatasetRequest) (*model.FetchResult, error) {
	req.Normalize()

	ds, err := o.validate(&req)
	if err != nil {
		return nil, err
	}

	progress := NewProgress(req.Quiet)

	if req.UseCache {
		if result, ok := o.fromCache(ctx, ds, req, progress); ok {
			return result, nil
		}
	}

	return o.fromLive(ctx, ds, req, progress)
}

// validate fails fast on malformed requests, before any I/O.
func (o *Orchestrator) validate(req *model.DatasetRequest) (*registry.Dataset, error) {
	if req.MaxRetries < 1 {
		return nil, &ValidationError{Field: "max_retries", Message: fmt.Sprintf("must be >= 1, got %d", req.MaxRetries)}
	}
	ds, ok := o.reg.Get(req.Dataset)
	if !ok {
		return nil, &ValidationError{Field: "dataset", Message: fmt.Sprintf("unknown dataset %q", req.Dataset)}
	}
	if !ds.HasCategory(req.Category) {
		return nil, &ValidationError{Field: "category", Message: fmt.Sprintf("unknown category %q for dataset %q", req.Category, req.Dataset)}
	}
	if req.Range.Start.IsZero() {
		req.Range.Start = ds.DefaultStart
	}
	if !req.Range.Open() && req.Range.End.Before(req.Range.Start) {
		return nil, &ValidationError{Field: "range", Message: fmt.Sprintf("end %s before start %s",
			req.Range.End.Format("2006-01-02"), req.Range.Start.Format("2006-01-02"))}
	}
	return ds, nil
}

// fromCache serves the request from the cache store. Any load failure is
// recoverable: it logs a warning and reports ok=false so the caller falls
// through to a live fetch.
func (o *Orchestrator) fromCache(ctx context.Context, ds *registry.Dataset, req model.DatasetRequest, progress *Progress) (*model.FetchResult, bool) {
	tbl, err := o.cache.Load(ctx, ds.Cache.Name)
	if err != nil {
		progress.Printf("⚠️ cache unavailable for %s (%v), falling back to live fetch", ds.Name, err)
		return nil, false
	}

	keep := make(map[string]bool)
	for _, item := range ds.ItemsFor(req.Category) {
		keep[item.ID] = true
	}
	tbl = tbl.FilterItems(keep).FilterRange(req.Range)

	progress.Printf("✅ %s served from cache: %d rows", ds.Name, tbl.Len())
	return &model.FetchResult{
		Table: tbl,
		Provenance: model.Provenance{
			Origin:    model.OriginCache,
			FetchedAt: time.Now().UTC(),
			Dataset:   ds.Name,
		},
	}, true
}

// fromLive resolves the item set, runs the aggregator under the retry
// policy, joins descriptive metadata columns and attaches provenance.
func (o *Orchestrator) fromLive(ctx context.Context, ds *registry.Dataset, req model.DatasetRequest, progress *Progress) (*model.FetchResult, error) {
	adapter, ok := o.adapters[ds.Adapter]
	if !ok {
		return nil, fmt.Errorf("dataset %s: no adapter registered for %q", ds.Name, ds.Adapter)
	}

	items := ds.ItemsFor(req.Category)
	progress.Printf("🚀 live fetch for %s: %d item(s), category %s", ds.Name, len(items), req.Category)

	policy := o.policy
	policy.MaxAttempts = req.MaxRetries

	fetchOne := func(ctx context.Context, item registry.Item) (model.Table, error) {
		return adapter.FetchItem(ctx, item.ID, req.Range)
	}

	combined, outcomes := Aggregate(ctx, items, fetchOne, policy, o.workers, progress)

	succeeded := 0
	for _, outcome := range outcomes {
		if !outcome.Failed() {
			succeeded++
		}
	}
	if succeeded == 0 {
		return nil, &AggregateFailure{Dataset: ds.Name, Attempted: len(items), Failed: len(items)}
	}

	o.joinMetadata(ds, &combined)

	if skipped := len(items) - succeeded; skipped > 0 {
		var ids []string
		for _, outcome := range outcomes {
			if outcome.Failed() {
				ids = append(ids, outcome.ItemID)
			}
		}
		progress.Printf("⚠️ %d of %d items skipped: %s", skipped, len(items), strings.Join(ids, ", "))
	}
	progress.Printf("🏁 %s: %d rows from %d of %d items", ds.Name, combined.Len(), succeeded, len(items))

	return &model.FetchResult{
		Table: combined,
		Provenance: model.Provenance{
			Origin:    model.OriginLive,
			FetchedAt: time.Now().UTC(),
			Dataset:   ds.Name,
			Outcomes:  outcomes,
		},
	}, nil
}

// joinMetadata fills the descriptive columns from the registry's item
// definitions.
func (o *Orchestrator) joinMetadata(ds *registry.Dataset, tbl *model.Table) {
	meta := make(map[string]registry.Item, len(ds.Items))
	for _, item := range ds.Items {
		meta[item.ID] = item
	}
	for i := range tbl.Rows {
		if item, ok := meta[tbl.Rows[i].ItemID]; ok {
			tbl.Rows[i].Name = item.Name
			tbl.Rows[i].Unit = item.Unit
			tbl.Rows[i].Category = item.Category
			tbl.Rows[i].Source = item.Source
		}
	}
}
