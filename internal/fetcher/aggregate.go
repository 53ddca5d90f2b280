package fetcher

import (
	"context"
	"sync"

	"econfetch/internal/model"
	"econfetch/internal/registry"
)

// FetchFunc fetches one item's table.
type FetchFunc func(ctx context.Context, item registry.Item) (model.Table, error)

// Aggregate folds per-item fetches into one combined table plus a full
// outcome list. Items run on a bounded worker pool (workers=1 keeps the
// strictly sequential default); results are always combined in registry
// order, not arrival order, so output is deterministic either way. Only
// Success outcomes contribute rows; every item contributes exactly one
// outcome.
func Aggregate(ctx context.Context, items []registry.Item, fetch FetchFunc, policy RetryPolicy, workers int, progress *Progress) (model.Table, []model.SeriesOutcome) {
	if workers < 1 {
		workers = 1
	}
	if workers > len(items) {
		workers = len(items)
	}

	type job struct {
		index int
		item  registry.Item
	}

	jobs := make(chan job)
	tables := make([]model.Table, len(items))
	outcomes := make([]model.SeriesOutcome, len(items))

	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			first := true
			for j := range jobs {
				if !first {
					if err := policy.PauseBetweenItems(ctx); err != nil {
						outcomes[j.index] = model.SeriesOutcome{
							ItemID: j.item.ID,
							Status: model.StatusError,
							Err:    err.Error(),
						}
						continue
					}
				}
				first = false

				progress.Printf("➡️ fetching %s (%d/%d)", j.item.ID, j.index+1, len(items))
				tbl, outcome := policy.Attempt(ctx, j.item.ID, func(ctx context.Context) (model.Table, error) {
					return fetch(ctx, j.item)
				})
				tables[j.index] = tbl
				outcomes[j.index] = outcome

				switch outcome.Status {
				case model.StatusSuccess:
					progress.Printf("✅ %s: %d rows in %d attempt(s)", j.item.ID, outcome.Rows, outcome.Attempts)
				case model.StatusEmpty:
					progress.Printf("⚠️ %s: no data", j.item.ID)
				case model.StatusAllInvalid:
					progress.Printf("⚠️ %s: all values missing", j.item.ID)
				case model.StatusError:
					progress.Printf("❌ %s: %s", j.item.ID, outcome.Err)
				}
			}
		}()
	}

	for i, item := range items {
		select {
		case <-ctx.Done():
			// Mark the rest as cancelled and stop feeding workers.
			for rest := i; rest < len(items); rest++ {
				if outcomes[rest].ItemID == "" {
					outcomes[rest] = model.SeriesOutcome{
						ItemID: items[rest].ID,
						Status: model.StatusError,
						Err:    ctx.Err().Error(),
					}
				}
			}
			close(jobs)
			wg.Wait()
			return combine(items, tables, outcomes), outcomes
		case jobs <- job{index: i, item: item}:
		}
	}
	close(jobs)
	wg.Wait()

	return combine(items, tables, outcomes), outcomes
}

// combine builds the row-wise union of successful item tables, in item
// order, each row stamped with its originating item identifier.
func combine(items []registry.Item, tables []model.Table, outcomes []model.SeriesOutcome) model.Table {
	var combined model.Table
	for i, item := range items {
		if outcomes[i].Status == model.StatusSuccess {
			combined.Append(item.ID, tables[i].Rows)
		}
	}
	return combined
}
