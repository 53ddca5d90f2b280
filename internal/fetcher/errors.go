package fetcher

import (
	"errors"
	"fmt"
)

// ValidationError reports a malformed request. It is raised before any
// I/O and never retried.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: field '%s': %s", e.Field, e.Message)
}

// IsValidation reports whether err is a request validation failure.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// AggregateFailure means every item in a live-fetch batch failed. It is
// the only condition that aborts a whole request.
type AggregateFailure struct {
	Dataset   string
	Attempted int
	Failed    int
}

func (e *AggregateFailure) Error() string {
	return fmt.Sprintf("dataset %s: all %d of %d items failed", e.Dataset, e.Failed, e.Attempted)
}

// IsAggregateFailure reports whether err is a total batch failure.
func IsAggregateFailure(err error) bool {
	var af *AggregateFailure
	return errors.As(err, &af)
}
