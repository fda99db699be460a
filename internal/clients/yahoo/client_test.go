package yahoo

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func chartBody(symbol string, timestamps []int64, closes []interface{}) string {
	tsJSON := "["
	for i, ts := range timestamps {
		if i > 0 {
			tsJSON += ","
		}
		tsJSON += fmt.Sprintf("%d", ts)
	}
	tsJSON += "]"

	quoteJSON := "["
	for i, c := range closes {
		if i > 0 {
			quoteJSON += ","
		}
		if c == nil {
			quoteJSON += "null"
		} else {
			quoteJSON += fmt.Sprintf("%v", c)
		}
	}
	quoteJSON += "]"

	return fmt.Sprintf(`{
		"chart": {
			"result": [{
				"meta": {"symbol": %q, "longName": "Test Company Ltd", "regularMarketPrice": 105.5},
				"timestamp": %s,
				"indicators": {"quote": [{
					"open": %s, "high": %s, "low": %s, "close": %s, "volume": %s
				}]}
			}],
			"error": null
		}
	}`, symbol, tsJSON, quoteJSON, quoteJSON, quoteJSON, quoteJSON, quoteJSON)
}

func TestGetPriceHistory_ParsesResponse(t *testing.T) {
	day := time.Date(2025, 8, 25, 0, 0, 0, 0, time.UTC)
	timestamps := []int64{day.Unix(), day.AddDate(0, 0, 1).Unix(), day.AddDate(0, 0, 2).Unix()}

	var capturedPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		capturedPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, chartBody("RELIANCE.NS", timestamps, []interface{}{100.0, 102.5, 105.5}))
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL))
	history, err := client.GetPriceHistory(context.Background(), "RELIANCE.NS")
	if err != nil {
		t.Fatalf("GetPriceHistory failed: %v", err)
	}

	if capturedPath != "/v8/finance/chart/RELIANCE.NS" {
		t.Errorf("expected path /v8/finance/chart/RELIANCE.NS, got %s", capturedPath)
	}
	if history.Symbol != "RELIANCE.NS" {
		t.Errorf("expected symbol RELIANCE.NS, got %s", history.Symbol)
	}
	if history.CompanyName != "Test Company Ltd" {
		t.Errorf("expected company name Test Company Ltd, got %s", history.CompanyName)
	}
	if len(history.Bars) != 3 {
		t.Fatalf("expected 3 bars, got %d", len(history.Bars))
	}
	if !history.Bars[0].Date.Equal(day) {
		t.Errorf("expected first bar date %v, got %v", day, history.Bars[0].Date)
	}
	if history.Bars[2].Close != 105.5 {
		t.Errorf("expected last close 105.5, got %.2f", history.Bars[2].Close)
	}
	if history.CurrentPrice != 105.5 {
		t.Errorf("expected current price 105.5, got %.2f", history.CurrentPrice)
	}
}

func TestGetPriceHistory_SkipsNullBars(t *testing.T) {
	day := time.Date(2025, 8, 25, 0, 0, 0, 0, time.UTC)
	timestamps := []int64{day.Unix(), day.AddDate(0, 0, 1).Unix(), day.AddDate(0, 0, 2).Unix()}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		// Middle bar is a market holiday: all-null OHLCV
		fmt.Fprint(w, chartBody("TCS.NS", timestamps, []interface{}{100.0, nil, 104.0}))
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL))
	history, err := client.GetPriceHistory(context.Background(), "TCS.NS")
	if err != nil {
		t.Fatalf("GetPriceHistory failed: %v", err)
	}

	if len(history.Bars) != 2 {
		t.Fatalf("expected null bar to be skipped, got %d bars", len(history.Bars))
	}
	if history.Bars[0].Close != 100.0 || history.Bars[1].Close != 104.0 {
		t.Errorf("unexpected closes: %.2f, %.2f", history.Bars[0].Close, history.Bars[1].Close)
	}
}

func TestGetPriceHistory_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"chart": {"result": null, "error": {"code": "Not Found", "description": "No data found, symbol may be delisted"}}}`)
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL))
	_, err := client.GetPriceHistory(context.Background(), "BOGUS.NS")
	if err == nil {
		t.Fatal("expected error for delisted symbol")
	}
	apiErr, ok := err.(*APIError)
	if !ok {
		t.Fatalf("expected *APIError, got %T", err)
	}
	if apiErr.Symbol != "BOGUS.NS" {
		t.Errorf("expected symbol BOGUS.NS in error, got %s", apiErr.Symbol)
	}
}

func TestGetPriceHistory_HTTPStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL))
	_, err := client.GetPriceHistory(context.Background(), "INFY.NS")
	if err == nil {
		t.Fatal("expected error on 429")
	}
	apiErr, ok := err.(*APIError)
	if !ok {
		t.Fatalf("expected *APIError, got %T", err)
	}
	if apiErr.StatusCode != http.StatusTooManyRequests {
		t.Errorf("expected status 429, got %d", apiErr.StatusCode)
	}
}

func TestGetPriceHistory_NoData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"chart": {"result": [], "error": null}}`)
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL))
	_, err := client.GetPriceHistory(context.Background(), "EMPTY.NS")
	if err == nil {
		t.Fatal("expected error when no results returned")
	}
}
