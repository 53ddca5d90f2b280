package source

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"econfetch/internal/model"
)

// StockAdapter fetches monthly close quotes for one ticker from a
// brapi-style quote feed.
type StockAdapter struct {
	client  *Client
	baseURL string
}

// NewStockAdapter creates an adapter against the given base URL.
func NewStockAdapter(client *Client, baseURL string) *StockAdapter {
	return &StockAdapter{client: client, baseURL: strings.TrimSuffix(baseURL, "/")}
}

func (a *StockAdapter) Name() string { return "stocks" }

type quotePayload struct {
	Results []struct {
		Symbol     string `json:"symbol"`
		Historical []struct {
			Date  int64    `json:"date"` // unix seconds
			Close *float64 `json:"close"`
		} `json:"historicalDataPrice"`
	} `json:"results"`
}

// FetchItem retrieves the quote history of one ticker. The feed has no
// date-range parameters beyond a coarse range bucket, so the precise
// filtering happens locally.
func (a *StockAdapter) FetchItem(ctx context.Context, id string, dr model.DateRange) (model.Table, error) {
	url := fmt.Sprintf("%s/api/quote/%s?range=max&interval=1mo", a.baseURL, id)

	body, err := a.client.Get(ctx, a.Name(), url)
	if err != nil {
		return model.Table{}, err
	}

	var payload quotePayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return model.Table{}, fmt.Errorf("stocks: decode quote %s: %w", id, err)
	}
	if len(payload.Results) == 0 {
		return model.Table{}, nil
	}

	var tbl model.Table
	for _, h := range payload.Results[0].Historical {
		date := time.Unix(h.Date, 0).UTC().Truncate(24 * time.Hour)
		if !dr.Contains(date) {
			continue
		}
		row := model.Row{Date: date, ItemID: id}
		if h.Close != nil {
			row.Value = *h.Close
			row.Valid = true
		}
		tbl.Rows = append(tbl.Rows, row)
	}
	return tbl, nil
}
