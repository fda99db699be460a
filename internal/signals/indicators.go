// Package signals provides technical indicator calculations
package signals

import (
	"math"

	"github.com/stockpilot/stockpilot/internal/models"
)

// All functions operate on series ordered ascending by date (oldest first).
// Short histories fall back to documented neutral values rather than failing:
// partial data degrades signal quality, it never aborts an analysis.

// RSI calculates the Relative Strength Index over closing prices.
func RSI(closes []float64, period int) float64 {
	if len(closes) < period+1 {
		return 50 // Neutral default
	}

	var gains, losses float64
	for i := len(closes) - period; i < len(closes); i++ {
		change := closes[i] - closes[i-1]
		if change > 0 {
			gains += change
		} else {
			losses -= change
		}
	}

	avgGain := gains / float64(period)
	avgLoss := losses / float64(period)

	if avgLoss == 0 {
		return 100
	}

	rs := avgGain / avgLoss
	return 100 - (100 / (1 + rs))
}

// SMA calculates the Simple Moving Average for the given period.
// With fewer observations than the period it returns the most recent price.
func SMA(closes []float64, period int) float64 {
	if len(closes) == 0 {
		return 0
	}
	if len(closes) < period {
		return closes[len(closes)-1]
	}

	sum := 0.0
	for i := len(closes) - period; i < len(closes); i++ {
		sum += closes[i]
	}
	return sum / float64(period)
}

// EMA calculates the Exponential Moving Average for the given period.
// The series is seeded with its first price rather than a period-based SMA,
// which biases early values; a known approximation, kept for parity.
func EMA(closes []float64, period int) float64 {
	if len(closes) == 0 {
		return 0
	}
	if len(closes) < period {
		return closes[len(closes)-1]
	}

	k := 2.0 / float64(period+1)
	ema := closes[0]
	for _, price := range closes[1:] {
		ema = price*k + ema*(1-k)
	}
	return ema
}

// MACD calculates Moving Average Convergence Divergence.
// The signal line is line*0.8, a linear approximation of the canonical
// 9-period EMA of the MACD line.
func MACD(closes []float64) models.MACD {
	line := EMA(closes, 12) - EMA(closes, 26)
	signal := line * 0.8
	return models.MACD{
		Line:      line,
		Signal:    signal,
		Histogram: line - signal,
	}
}

// ATR calculates the Average True Range over the most recent period.
// Returns 0 when the series is too short to form `period` true ranges.
func ATR(bars []models.PriceBar, period int) float64 {
	if len(bars) < period+1 {
		return 0
	}

	trSum := 0.0
	for i := len(bars) - period; i < len(bars); i++ {
		high := bars[i].High
		low := bars[i].Low
		prevClose := bars[i-1].Close

		tr1 := high - low
		tr2 := math.Abs(high - prevClose)
		tr3 := math.Abs(low - prevClose)

		trSum += math.Max(tr1, math.Max(tr2, tr3))
	}

	return trSum / float64(period)
}

// VolumeRatio calculates the latest bar's volume as a ratio of the 20-day
// average volume. A zero average is treated as 1 so the ratio degrades to
// the raw volume instead of dividing by zero.
func VolumeRatio(bars []models.PriceBar) float64 {
	if len(bars) == 0 {
		return 0
	}

	volumes := make([]float64, len(bars))
	for i, bar := range bars {
		volumes[i] = float64(bar.Volume)
	}

	avg := SMA(volumes, 20)
	if avg == 0 {
		avg = 1
	}
	return volumes[len(volumes)-1] / avg
}

// AverageVolume calculates the mean volume over the most recent period.
func AverageVolume(bars []models.PriceBar, period int) float64 {
	if len(bars) == 0 {
		return 0
	}
	if len(bars) < period {
		period = len(bars)
	}

	var sum float64
	for i := len(bars) - period; i < len(bars); i++ {
		sum += float64(bars[i].Volume)
	}
	return sum / float64(period)
}

// Momentum returns the percentage price change over the last `days` closes.
func Momentum(closes []float64, days int) float64 {
	if len(closes) < days+1 {
		return 0
	}
	prev := closes[len(closes)-1-days]
	if prev == 0 {
		return 0
	}
	return (closes[len(closes)-1] - prev) / prev * 100
}

// Round2 rounds to cent/paisa precision.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
