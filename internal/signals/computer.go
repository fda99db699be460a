// Package signals provides signal computation
package signals

import (
	"time"

	"github.com/stockpilot/stockpilot/internal/models"
)

// Computer derives the full indicator set for a symbol.
type Computer struct{}

// NewComputer creates a new indicator computer.
func NewComputer() *Computer {
	return &Computer{}
}

// Compute calculates all indicators from a bar series ordered ascending by
// date. Short histories produce the documented fallback values.
func (c *Computer) Compute(symbol string, bars []models.PriceBar) *models.IndicatorSet {
	closes := make([]float64, len(bars))
	for i, bar := range bars {
		closes[i] = bar.Close
	}

	return &models.IndicatorSet{
		Symbol:      symbol,
		RSI14:       RSI(closes, 14),
		DMA50:       SMA(closes, 50),
		DMA200:      SMA(closes, 200),
		MACD:        MACD(closes),
		ATR14:       ATR(bars, 14),
		VolumeRatio: VolumeRatio(bars),
		ComputedAt:  time.Now(),
	}
}
