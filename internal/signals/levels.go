package signals

import "github.com/stockpilot/stockpilot/internal/models"

// EstimateSupportResistance derives band levels as percentage offsets from
// the current price. Placeholder-grade: the bands are not drawn from
// historical pivots, only from fixed offsets around the last trade.
func EstimateSupportResistance(currentPrice float64) models.SupportResistance {
	return models.SupportResistance{
		Support: []float64{
			Round2(currentPrice * 0.95),
			Round2(currentPrice * 0.92),
		},
		Resistance: []float64{
			Round2(currentPrice * 1.05),
			Round2(currentPrice * 1.08),
		},
	}
}
