package model

import "time"

// OutcomeStatus classifies the terminal result of fetching one item.
type OutcomeStatus string

const (
	StatusSuccess    OutcomeStatus = "success"
	StatusEmpty      OutcomeStatus = "empty"       // zero rows from a successful call
	StatusAllInvalid OutcomeStatus = "all_invalid" // rows present, every value missing
	StatusError      OutcomeStatus = "error"       // retries exhausted or non-retryable error
)

// SeriesOutcome is the per-item result of one live-fetch pass.
type SeriesOutcome struct {
	ItemID   string        `json:"item_id"`
	Status   OutcomeStatus `json:"status"`
	Rows     int           `json:"rows"`
	Attempts int           `json:"attempts"`
	Err      string        `json:"error,omitempty"`
}

// Failed reports whether the item contributed no rows.
func (o SeriesOutcome) Failed() bool {
	return o.Status != StatusSuccess
}

// Origin says how a result was produced.
type Origin string

const (
	OriginCache Origin = "cache"
	OriginLive  Origin = "live"
)

// Provenance describes how a FetchResult was produced. It travels next to
// the table, never inside it.
type Provenance struct {
	Origin    Origin          `json:"origin"`
	FetchedAt time.Time       `json:"fetched_at"`
	Dataset   string          `json:"dataset"`
	Outcomes  []SeriesOutcome `json:"outcomes,omitempty"`
}

// Skipped returns the outcomes of items that contributed no rows.
func (p Provenance) Skipped() []SeriesOutcome {
	var skipped []SeriesOutcome
	for _, o := range p.Outcomes {
		if o.Failed() {
			skipped = append(skipped, o)
		}
	}
	return skipped
}

// FetchResult is the table produced by one request plus its provenance.
type FetchResult struct {
	Table      Table      `json:"table"`
	Provenance Provenance `json:"provenance"`
}
