package source

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"econfetch/internal/model"
)

// The SGS API speaks dd/MM/yyyy on both query parameters and payloads.
const bcbDateLayout = "02/01/2006"

// BCBAdapter fetches series observations from the central bank's SGS API.
type BCBAdapter struct {
	client  *Client
	baseURL string
}

// NewBCBAdapter creates an adapter against the given base URL.
func NewBCBAdapter(client *Client, baseURL string) *BCBAdapter {
	return &BCBAdapter{client: client, baseURL: strings.TrimSuffix(baseURL, "/")}
}

func (a *BCBAdapter) Name() string { return "bcb" }

// sgsObservation is one element of the SGS JSON payload. Values arrive as
// strings; a missing observation is an empty or "-" valor.
type sgsObservation struct {
	Data  string `json:"data"`
	Valor string `json:"valor"`
}

// FetchItem retrieves one SGS series identified by its numeric code.
func (a *BCBAdapter) FetchItem(ctx context.Context, id string, dr model.DateRange) (model.Table, error) {
	url := fmt.Sprintf("%s/dados/serie/bcdata.sgs.%s/dados?formato=json&dataInicial=%s",
		a.baseURL, id, dr.Start.Format(bcbDateLayout))
	if !dr.Open() {
		url += "&dataFinal=" + dr.End.Format(bcbDateLayout)
	}

	body, err := a.client.Get(ctx, a.Name(), url)
	if err != nil {
		return model.Table{}, err
	}

	var obs []sgsObservation
	if err := json.Unmarshal(body, &obs); err != nil {
		return model.Table{}, fmt.Errorf("bcb: decode series %s: %w", id, err)
	}

	var tbl model.Table
	for _, o := range obs {
		date, err := time.Parse(bcbDateLayout, o.Data)
		if err != nil {
			return model.Table{}, fmt.Errorf("bcb: series %s: bad date %q: %w", id, o.Data, err)
		}
		row := model.Row{Date: date, ItemID: id}
		raw := strings.TrimSpace(o.Valor)
		if raw != "" && raw != "-" {
			value, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return model.Table{}, fmt.Errorf("bcb: series %s: bad value %q: %w", id, o.Valor, err)
			}
			row.Value = value
			row.Valid = true
		}
		tbl.Rows = append(tbl.Rows, row)
	}
	return tbl, nil
}
