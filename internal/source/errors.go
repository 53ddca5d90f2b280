package source

import (
	"errors"
	"fmt"
)

// TransientFetchError marks a fetch failure that is plausibly resolved by
// retrying: network errors, timeouts, rate limiting, upstream 5xx.
type TransientFetchError struct {
	Source string
	URL    string
	Err    error
}

func (e *TransientFetchError) Error() string {
	return fmt.Sprintf("transient fetch error from %s (%s): %v", e.Source, e.URL, e.Err)
}

func (e *TransientFetchError) Unwrap() error { return e.Err }

// Transient marks the error as retryable for the retry policy.
func (e *TransientFetchError) Transient() bool { return true }

// IsTransient reports whether err should be retried.
func IsTransient(err error) bool {
	var te *TransientFetchError
	return errors.As(err, &te)
}
