package source

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strings"
	"time"

	"econfetch/internal/model"
	"econfetch/pkg/utils"
)

// PortalAdapter fetches pre-published tables from a data portal. Each item
// maps to one CSV endpoint with `date,value` columns, ISO dates, and an
// empty value cell for missing observations.
type PortalAdapter struct {
	client  *Client
	baseURL string
}

// NewPortalAdapter creates an adapter against the given base URL.
func NewPortalAdapter(client *Client, baseURL string) *PortalAdapter {
	return &PortalAdapter{client: client, baseURL: strings.TrimSuffix(baseURL, "/")}
}

func (a *PortalAdapter) Name() string { return "portal" }

// FetchItem retrieves one published table and filters it to the range.
func (a *PortalAdapter) FetchItem(ctx context.Context, id string, dr model.DateRange) (model.Table, error) {
	url := fmt.Sprintf("%s/tables/%s.csv", a.baseURL, id)

	body, err := a.client.Get(ctx, a.Name(), url)
	if err != nil {
		return model.Table{}, err
	}

	reader := csv.NewReader(bytes.NewReader(body))
	reader.LazyQuotes = true
	records, err := reader.ReadAll()
	if err != nil {
		return model.Table{}, fmt.Errorf("portal: read table %s: %w", id, err)
	}
	if len(records) == 0 {
		return model.Table{}, nil
	}

	header := records[0]
	dateCol, valueCol := -1, -1
	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "date":
			dateCol = i
		case "value":
			valueCol = i
		}
	}
	if dateCol < 0 || valueCol < 0 {
		return model.Table{}, fmt.Errorf("portal: table %s: missing date/value columns", id)
	}

	var tbl model.Table
	for _, rec := range records[1:] {
		date, err := time.Parse("2006-01-02", strings.TrimSpace(rec[dateCol]))
		if err != nil {
			return model.Table{}, fmt.Errorf("portal: table %s: bad date %q: %w", id, rec[dateCol], err)
		}
		if !dr.Contains(date) {
			continue
		}
		row := model.Row{Date: date, ItemID: id}
		raw := strings.TrimSpace(rec[valueCol])
		if raw != "" {
			// Portal cells mix integer and decimal notation.
			v := utils.ParseValue(raw)
			if _, isStr := v.(string); isStr {
				return model.Table{}, fmt.Errorf("portal: table %s: bad value %q", id, raw)
			}
			row.Value = utils.Numeric(v)
			row.Valid = true
		}
		tbl.Rows = append(tbl.Rows, row)
	}
	return tbl, nil
}
