package fetcher

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"econfetch/internal/cache"
	"econfetch/internal/model"
	"econfetch/internal/registry"
	"econfetch/internal/source"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

type fakeCache struct {
	tbl   model.Table
	err   error
	loads int
}

func (f *fakeCache) Load(ctx context.Context, name string) (model.Table, error) {
	f.loads++
	if f.err != nil {
		return model.Table{}, f.err
	}
	return f.tbl, nil
}

type fakeAdapter struct {
	fetch func(id string) (model.Table, error)
	calls map[string]int
}

func (f *fakeAdapter) Name() string { return "fake" }

func (f *fakeAdapter) FetchItem(ctx context.Context, id string, dr model.DateRange) (model.Table, error) {
	if f.calls == nil {
		f.calls = make(map[string]int)
	}
	f.calls[id]++
	return f.fetch(id)
}

func testRegistry() *registry.Registry {
	return registry.New(&registry.Dataset{
		Name:         "housing",
		Adapter:      "fake",
		DefaultStart: time.Date(2010, 1, 1, 0, 0, 0, 0, time.UTC),
		Cache:        registry.CacheEntry{Name: "housing", Format: registry.FormatCSV, Object: "housing.csv"},
		Items: []registry.Item{
			{ID: "1", Name: "Price index", Unit: "index", Category: "price", Source: "BCB"},
			{ID: "2", Name: "Credit stock", Unit: "BRL million", Category: "credit", Source: "BCB"},
		},
	})
}

func newTestOrchestrator(store cache.Store, adapter source.Adapter) *Orchestrator {
	return New(testRegistry(), store, map[string]source.Adapter{"fake": adapter}, Config{
		Policy: RetryPolicy{MaxAttempts: 3},
	})
}

func datedRows(itemID string, dates ...time.Time) []model.Row {
	rows := make([]model.Row, len(dates))
	for i, d := range dates {
		rows[i] = model.Row{Date: d, ItemID: itemID, Value: float64(i + 1), Valid: true}
	}
	return rows
}

func quietRequest(useCache bool) model.DatasetRequest {
	return model.DatasetRequest{Dataset: "housing", UseCache: useCache, Quiet: true}
}

func TestFetchServedFromCache(t *testing.T) {
	cached := model.Table{Rows: append(
		datedRows("1", day(2020, 1, 1), day(2020, 2, 1)),
		datedRows("2", day(2020, 1, 1))...,
	)}
	store := &fakeCache{tbl: cached}
	adapter := &fakeAdapter{fetch: func(id string) (model.Table, error) {
		t.Error("live fetch ran despite a cache hit")
		return model.Table{}, nil
	}}

	result, err := newTestOrchestrator(store, adapter).Fetch(context.Background(), quietRequest(true))
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if result.Provenance.Origin != model.OriginCache {
		t.Errorf("Origin = %q, want cache", result.Provenance.Origin)
	}
	if result.Table.Len() != 3 {
		t.Errorf("got %d rows, want 3", result.Table.Len())
	}
	if result.Provenance.Dataset != "housing" {
		t.Errorf("Dataset = %q", result.Provenance.Dataset)
	}
}

func TestFetchCacheFiltersCategoryAndRange(t *testing.T) {
	cached := model.Table{Rows: append(
		datedRows("1", day(2019, 1, 1), day(2020, 6, 1)),
		datedRows("2", day(2020, 6, 1))...,
	)}
	store := &fakeCache{tbl: cached}
	adapter := &fakeAdapter{fetch: func(id string) (model.Table, error) { return model.Table{}, nil }}

	req := quietRequest(true)
	req.Category = "price"
	req.Range = model.DateRange{Start: day(2020, 1, 1), End: day(2020, 12, 31)}

	result, err := newTestOrchestrator(store, adapter).Fetch(context.Background(), req)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if result.Table.Len() != 1 {
		t.Fatalf("got %d rows, want 1 after category+range filtering", result.Table.Len())
	}
	row := result.Table.Rows[0]
	if row.ItemID != "1" || !row.Date.Equal(day(2020, 6, 1)) {
		t.Errorf("wrong row survived: %+v", row)
	}
}

func TestFetchRepeatedCacheReadsYieldIdenticalTables(t *testing.T) {
	cached := model.Table{Rows: append(
		datedRows("1", day(2020, 1, 1), day(2020, 2, 1)),
		datedRows("2", day(2020, 3, 1))...,
	)}
	store := &fakeCache{tbl: cached}
	adapter := &fakeAdapter{fetch: func(id string) (model.Table, error) {
		t.Error("live fetch ran despite a cache hit")
		return model.Table{}, nil
	}}
	orch := newTestOrchestrator(store, adapter)

	first, err := orch.Fetch(context.Background(), quietRequest(true))
	if err != nil {
		t.Fatalf("first Fetch: %v", err)
	}
	second, err := orch.Fetch(context.Background(), quietRequest(true))
	if err != nil {
		t.Fatalf("second Fetch: %v", err)
	}

	if !reflect.DeepEqual(first.Table, second.Table) {
		t.Errorf("repeated reads of an unchanged cache diverged:\nfirst:  %+v\nsecond: %+v",
			first.Table, second.Table)
	}
	if first.Provenance.Origin != model.OriginCache || second.Provenance.Origin != model.OriginCache {
		t.Errorf("origins = %q, %q, want cache for both",
			first.Provenance.Origin, second.Provenance.Origin)
	}
	if store.loads != 2 {
		t.Errorf("cache loaded %d times, want 2", store.loads)
	}
}

func TestFetchCacheMissFallsBackToLive(t *testing.T) {
	store := &fakeCache{err: &cache.MissError{Name: "housing", Err: errors.New("no such file")}}
	adapter := &fakeAdapter{fetch: func(id string) (model.Table, error) {
		return model.Table{Rows: datedRows(id, day(2020, 1, 1))}, nil
	}}

	result, err := newTestOrchestrator(store, adapter).Fetch(context.Background(), quietRequest(true))
	if err != nil {
		t.Fatalf("cache miss must not fail the request: %v", err)
	}
	if store.loads != 1 {
		t.Errorf("cache loaded %d times, want 1 (misses are not retried)", store.loads)
	}
	if result.Provenance.Origin != model.OriginLive {
		t.Errorf("Origin = %q, want live after fallback", result.Provenance.Origin)
	}
	if result.Table.Len() != 2 {
		t.Errorf("got %d rows, want 2", result.Table.Len())
	}
}

func TestFetchBypassesCacheWhenDisabled(t *testing.T) {
	store := &fakeCache{tbl: model.Table{Rows: datedRows("1", day(2020, 1, 1))}}
	adapter := &fakeAdapter{fetch: func(id string) (model.Table, error) {
		return model.Table{Rows: datedRows(id, day(2021, 1, 1))}, nil
	}}

	result, err := newTestOrchestrator(store, adapter).Fetch(context.Background(), quietRequest(false))
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if store.loads != 0 {
		t.Errorf("cache loaded %d times with use_cache=false", store.loads)
	}
	if result.Provenance.Origin != model.OriginLive {
		t.Errorf("Origin = %q, want live", result.Provenance.Origin)
	}
}

func TestFetchLiveJoinsMetadata(t *testing.T) {
	adapter := &fakeAdapter{fetch: func(id string) (model.Table, error) {
		return model.Table{Rows: []model.Row{{Date: day(2020, 1, 1), Value: 1, Valid: true}}}, nil
	}}

	result, err := newTestOrchestrator(&fakeCache{}, adapter).Fetch(context.Background(), quietRequest(false))
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	for _, row := range result.Table.Rows {
		if row.Name == "" || row.Unit == "" || row.Category == "" || row.Source == "" {
			t.Errorf("metadata not joined: %+v", row)
		}
	}
}

func TestFetchPartialFailureSucceeds(t *testing.T) {
	adapter := &fakeAdapter{fetch: func(id string) (model.Table, error) {
		if id == "2" {
			return model.Table{}, errors.New("HTTP 404")
		}
		return model.Table{Rows: datedRows(id, day(2020, 1, 1))}, nil
	}}

	result, err := newTestOrchestrator(&fakeCache{}, adapter).Fetch(context.Background(), quietRequest(false))
	if err != nil {
		t.Fatalf("one failed item must not fail the request: %v", err)
	}
	if result.Table.Len() != 1 {
		t.Errorf("got %d rows, want 1", result.Table.Len())
	}

	skipped := result.Provenance.Skipped()
	if len(skipped) != 1 || skipped[0].ItemID != "2" {
		t.Errorf("Skipped() = %+v", skipped)
	}
	if len(result.Provenance.Outcomes) != 2 {
		t.Errorf("provenance has %d outcomes, want one per item", len(result.Provenance.Outcomes))
	}
}

func TestFetchAllItemsFailed(t *testing.T) {
	adapter := &fakeAdapter{fetch: func(id string) (model.Table, error) {
		return model.Table{}, errors.New("HTTP 403")
	}}

	_, err := newTestOrchestrator(&fakeCache{}, adapter).Fetch(context.Background(), quietRequest(false))
	if err == nil {
		t.Fatal("expected an aggregate failure")
	}
	if !IsAggregateFailure(err) {
		t.Errorf("error %v is not an AggregateFailure", err)
	}
}

func TestFetchHonorsMaxRetries(t *testing.T) {
	adapter := &fakeAdapter{fetch: func(id string) (model.Table, error) {
		return model.Table{}, &source.TransientFetchError{Source: "fake", Err: errors.New("down")}
	}}
	orch := newTestOrchestrator(&fakeCache{}, adapter)

	req := quietRequest(false)
	req.Category = "price" // single item keeps the count simple
	req.MaxRetries = 2

	_, err := orch.Fetch(context.Background(), req)
	if !IsAggregateFailure(err) {
		t.Fatalf("err = %v", err)
	}
	if adapter.calls["1"] != 2 {
		t.Errorf("item attempted %d times, want exactly MaxRetries=2", adapter.calls["1"])
	}
}

func TestFetchValidation(t *testing.T) {
	adapter := &fakeAdapter{fetch: func(id string) (model.Table, error) { return model.Table{}, nil }}
	orch := newTestOrchestrator(&fakeCache{}, adapter)

	tests := []struct {
		name string
		req  model.DatasetRequest
	}{
		{"unknown dataset", model.DatasetRequest{Dataset: "nope", Quiet: true}},
		{"unknown category", model.DatasetRequest{Dataset: "housing", Category: "stocks", Quiet: true}},
		{"negative retries", model.DatasetRequest{Dataset: "housing", MaxRetries: -1, Quiet: true}},
		{"end before start", model.DatasetRequest{
			Dataset: "housing", Quiet: true,
			Range: model.DateRange{Start: day(2021, 1, 1), End: day(2020, 1, 1)},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := orch.Fetch(context.Background(), tt.req)
			if err == nil {
				t.Fatal("expected a validation error")
			}
			if !IsValidation(err) {
				t.Errorf("error %v is not a ValidationError", err)
			}
		})
	}
}

func TestFetchDefaultsStartFromRegistry(t *testing.T) {
	var gotRange model.DateRange
	adapter := &fakeAdapter{fetch: func(id string) (model.Table, error) {
		return model.Table{Rows: datedRows(id, day(2020, 1, 1))}, nil
	}}
	orch := New(testRegistry(), &fakeCache{}, map[string]source.Adapter{"fake": &rangeSpy{inner: adapter, got: &gotRange}}, Config{
		Policy: RetryPolicy{MaxAttempts: 1},
	})

	if _, err := orch.Fetch(context.Background(), quietRequest(false)); err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if !gotRange.Start.Equal(day(2010, 1, 1)) {
		t.Errorf("start defaulted to %v, want the dataset's 2010-01-01", gotRange.Start)
	}
}

type rangeSpy struct {
	inner source.Adapter
	got   *model.DateRange
}

func (s *rangeSpy) Name() string { return s.inner.Name() }

func (s *rangeSpy) FetchItem(ctx context.Context, id string, dr model.DateRange) (model.Table, error) {
	*s.got = dr
	return s.inner.FetchItem(ctx, id, dr)
}
