package source

import (
	"context"

	"econfetch/internal/model"
)

// Adapter is the per-upstream capability: fetch one item for a date range.
// Implementations are pure functions over the network; they hold no
// per-request state and never retry on their own.
type Adapter interface {
	Name() string
	FetchItem(ctx context.Context, id string, dr model.DateRange) (model.Table, error)
}

// Endpoints are the production upstream base URLs.
const (
	BCBBaseURL    = "https://api.bcb.gov.br"
	StocksBaseURL = "https://brapi.dev"
	PortalBaseURL = "https://dados.econfetch.dev"
)

// DefaultAdapters wires the built-in adapters over a shared client, keyed
// the way the registry references them.
func DefaultAdapters(client *Client) map[string]Adapter {
	return map[string]Adapter{
		"bcb":    NewBCBAdapter(client, BCBBaseURL),
		"stocks": NewStockAdapter(client, StocksBaseURL),
		"portal": NewPortalAdapter(client, PortalBaseURL),
	}
}
