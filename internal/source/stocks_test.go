package source

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"econfetch/internal/model"
)

func TestStockFetchItem(t *testing.T) {
	jan := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC).Unix()
	feb := time.Date(2020, 2, 1, 0, 0, 0, 0, time.UTC).Unix()
	old := time.Date(2009, 1, 1, 0, 0, 0, 0, time.UTC).Unix()

	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		fmt.Fprintf(w, `{"results":[{"symbol":"CYRE3","historicalDataPrice":[
			{"date":%d,"close":12.34},
			{"date":%d,"close":null},
			{"date":%d,"close":5.00}
		]}]}`, jan, feb, old)
	}))
	defer srv.Close()

	adapter := NewStockAdapter(testClient(), srv.URL)
	dr := model.DateRange{Start: time.Date(2010, 1, 1, 0, 0, 0, 0, time.UTC)}

	tbl, err := adapter.FetchItem(context.Background(), "CYRE3", dr)
	if err != nil {
		t.Fatalf("FetchItem: %v", err)
	}
	if gotPath != "/api/quote/CYRE3" {
		t.Errorf("path = %q", gotPath)
	}

	// The 2009 quote is outside the range; the feed cannot filter for us.
	if tbl.Len() != 2 {
		t.Fatalf("got %d rows, want 2", tbl.Len())
	}
	if !tbl.Rows[0].Valid || tbl.Rows[0].Value != 12.34 {
		t.Errorf("first quote mangled: %+v", tbl.Rows[0])
	}
	if tbl.Rows[1].Valid {
		t.Errorf("null close came back valid: %+v", tbl.Rows[1])
	}
}

func TestStockFetchItemNoResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"results":[]}`))
	}))
	defer srv.Close()

	adapter := NewStockAdapter(testClient(), srv.URL)
	tbl, err := adapter.FetchItem(context.Background(), "NOPE3",
		model.DateRange{Start: time.Date(2010, 1, 1, 0, 0, 0, 0, time.UTC)})
	if err != nil {
		t.Fatalf("FetchItem: %v", err)
	}
	if !tbl.Empty() {
		t.Errorf("got %d rows from an unknown ticker", tbl.Len())
	}
}
