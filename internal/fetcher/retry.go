package fetcher

import (
	"context"
	"errors"
	"time"

	"econfetch/internal/model"
)

// RetryPolicy bounds live-fetch attempts per item and paces requests
// against rate-sensitive upstreams. Both delays are configuration, not
// hardcoded etiquette.
type RetryPolicy struct {
	// MaxAttempts is the total attempts per item, including the first.
	MaxAttempts int

	// RetryDelay is the wait between attempts of the same item.
	RetryDelay time.Duration

	// ItemDelay is the pause between successive items, regardless of
	// outcome.
	ItemDelay time.Duration
}

// DefaultRetryPolicy mirrors the upstream etiquette observed in
// production: 3 attempts, a short wait before retrying, one second
// between items.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: model.DefaultMaxRetries,
		RetryDelay:  500 * time.Millisecond,
		ItemDelay:   time.Second,
	}
}

// transienter is implemented by errors that are worth retrying.
type transienter interface{ Transient() bool }

func isTransient(err error) bool {
	var t transienter
	return errors.As(err, &t) && t.Transient()
}

// Attempt runs op under the policy and classifies the terminal result.
// Transient errors are retried up to MaxAttempts; a successful call that
// yields an empty or all-invalid table is permanent and never retried.
// Attempt never aborts a batch: exhaustion becomes an Error outcome.
func (p RetryPolicy) Attempt(ctx context.Context, itemID string, op func(context.Context) (model.Table, error)) (model.Table, model.SeriesOutcome) {
	outcome := model.SeriesOutcome{ItemID: itemID}

	var lastErr error
	for outcome.Attempts < p.MaxAttempts {
		outcome.Attempts++

		tbl, err := op(ctx)
		if err == nil {
			outcome.Rows = tbl.Len()
			switch {
			case tbl.Empty():
				outcome.Status = model.StatusEmpty
			case tbl.AllInvalid():
				outcome.Status = model.StatusAllInvalid
			default:
				outcome.Status = model.StatusSuccess
			}
			return tbl, outcome
		}

		lastErr = err
		if !isTransient(err) {
			break
		}
		if outcome.Attempts >= p.MaxAttempts {
			break
		}
		if err := p.sleep(ctx, p.RetryDelay); err != nil {
			lastErr = err
			break
		}
	}

	outcome.Status = model.StatusError
	if lastErr != nil {
		outcome.Err = lastErr.Error()
	}
	return model.Table{}, outcome
}

// PauseBetweenItems applies the inter-item delay, honoring cancellation.
func (p RetryPolicy) PauseBetweenItems(ctx context.Context) error {
	return p.sleep(ctx, p.ItemDelay)
}

func (p RetryPolicy) sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
