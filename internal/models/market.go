// Package models defines data structures for StockPilot
package models

import (
	"sort"
	"time"
)

// PriceBar represents a single day's OHLCV data.
// Bars for a symbol are stored ascending by date with no duplicate dates;
// the bar for today may be upserted as intraday prices arrive.
type PriceBar struct {
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume int64     `json:"volume"`
}

// PriceHistory is the upstream feed response for a symbol: the daily bar
// series plus the current price/volume scalars.
type PriceHistory struct {
	Symbol       string     `json:"symbol"`
	CompanyName  string     `json:"company_name"`
	Bars         []PriceBar `json:"bars"` // ascending by date
	CurrentPrice float64    `json:"current_price"`
	Volume       int64      `json:"volume"`
}

// MarketData holds the persisted bar series for a symbol.
type MarketData struct {
	Symbol      string     `json:"symbol"`
	CompanyName string     `json:"company_name"`
	Bars        []PriceBar `json:"bars"` // ascending by date
	UpdatedAt   time.Time  `json:"updated_at"`
}

// LatestBar returns the most recent bar, or a zero bar when the series is empty.
func (m *MarketData) LatestBar() PriceBar {
	if len(m.Bars) == 0 {
		return PriceBar{}
	}
	return m.Bars[len(m.Bars)-1]
}

// Closes returns the closing prices in ascending date order.
func (m *MarketData) Closes() []float64 {
	closes := make([]float64, len(m.Bars))
	for i, bar := range m.Bars {
		closes[i] = bar.Close
	}
	return closes
}

// MergeBars merges incoming bars into an existing ascending series, replacing
// any bar that shares a calendar date (the today bar is upserted intraday).
func MergeBars(existing, incoming []PriceBar) []PriceBar {
	byDate := make(map[string]PriceBar, len(existing)+len(incoming))
	for _, bar := range existing {
		byDate[bar.Date.Format("2006-01-02")] = bar
	}
	for _, bar := range incoming {
		byDate[bar.Date.Format("2006-01-02")] = bar
	}

	merged := make([]PriceBar, 0, len(byDate))
	for _, bar := range byDate {
		merged = append(merged, bar)
	}
	sort.Slice(merged, func(i, j int) bool {
		return merged[i].Date.Before(merged[j].Date)
	})
	return merged
}
