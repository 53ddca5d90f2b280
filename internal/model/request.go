package model

import "time"

// Request defaults shared by every dataset unless the registry overrides them.
const (
	DefaultCategory   = "all"
	DefaultMaxRetries = 3
)

// DateRange bounds the observations a request is interested in.
// A zero End means "up to the latest available observation".
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end,omitempty"`
}

// Open reports whether the range has no upper bound.
func (r DateRange) Open() bool {
	return r.End.IsZero()
}

// Contains reports whether d falls inside the range.
func (r DateRange) Contains(d time.Time) bool {
	if d.Before(r.Start) {
		return false
	}
	if !r.Open() && d.After(r.End) {
		return false
	}
	return true
}

// DatasetRequest describes one fetch call. It is constructed per call and
// discarded after producing one FetchResult.
type DatasetRequest struct {
	Dataset    string    `json:"dataset"`
	Category   string    `json:"category"`
	Range      DateRange `json:"range"`
	UseCache   bool      `json:"use_cache"`
	Quiet      bool      `json:"quiet"`
	MaxRetries int       `json:"max_retries"`
}

// Normalize fills in the documented defaults for omitted fields.
func (r *DatasetRequest) Normalize() {
	if r.Category == "" {
		r.Category = DefaultCategory
	}
	if r.MaxRetries == 0 {
		r.MaxRetries = DefaultMaxRetries
	}
}
