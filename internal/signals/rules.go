package signals

import (
	"fmt"
	"math"

	"github.com/stockpilot/stockpilot/internal/models"
)

// Snapshot carries the indicator values a strategy evaluates against the
// current price. The two rule sets read different fields; the orchestrator
// fills what its strategy needs.
type Snapshot struct {
	CurrentPrice float64

	// On-demand fields
	RSI         float64
	MACD        models.MACD
	ReferenceMA float64 // 50-period moving average
	VolumeRatio float64

	// Morning-scan fields
	DMA20       float64
	DMA30       float64
	MomentumPct float64 // 5-day momentum percentage
	VolumeSpike bool    // today's volume > 1.2x the 10-day average
}

// Strategy produces a SignalResult from a snapshot. The margin-scored and
// fixed-step rule sets carry different confidence semantics and are kept as
// distinct implementations, never merged.
type Strategy interface {
	Evaluate(snap Snapshot) models.SignalResult
}

// MarginStrategy is the on-demand BUY/AVOID classifier: each rule votes
// bullish or bearish, and confidence is driven purely by the vote margin,
// floored at 55 and capped at 95.
type MarginStrategy struct{}

const (
	confidenceFloor = 55
	confidenceCap   = 95
)

// Evaluate applies the margin-scored rule set.
func (MarginStrategy) Evaluate(snap Snapshot) models.SignalResult {
	var bullish, bearish int
	reasons := make([]string, 0, 4)

	if snap.RSI < 30 {
		bullish += 2
		reasons = append(reasons, "RSI Oversold")
	} else if snap.RSI > 70 {
		bearish += 2
		reasons = append(reasons, "RSI Overbought")
	}

	if snap.CurrentPrice > snap.ReferenceMA {
		bullish++
		reasons = append(reasons, "Above 50 DMA")
	} else {
		bearish++
		reasons = append(reasons, "Below 50 DMA")
	}

	if snap.MACD.Line > snap.MACD.Signal {
		bullish++
		reasons = append(reasons, "MACD Bullish")
	} else {
		bearish++
		reasons = append(reasons, "MACD Bearish")
	}

	// High volume confirms strength; low volume carries no penalty.
	if snap.VolumeRatio > 1.2 {
		bullish++
		reasons = append(reasons, "High Volume")
	}

	signal := models.SignalAvoid
	if bullish > bearish {
		signal = models.SignalBuy
	}

	margin := math.Abs(float64(bullish-bearish)) / 5 * 100
	confidence := int(math.Round(clamp(margin, confidenceFloor, confidenceCap)))

	result := models.SignalResult{
		Signal:     signal,
		Confidence: confidence,
		Reasons:    reasons,
	}
	applyPriceLevels(&result, snap.CurrentPrice)
	return result
}

// applyPriceLevels derives entry/stop/target and the risk-reward string.
// A BUY entry carries a 0.2% premium over the last trade.
func applyPriceLevels(result *models.SignalResult, currentPrice float64) {
	entry := currentPrice
	if result.Signal == models.SignalBuy {
		entry = currentPrice * 1.002
	}

	result.EntryPrice = Round2(entry)
	result.StopLoss = Round2(currentPrice * 0.95)
	result.Target = Round2(currentPrice * 1.08)
	result.RiskReward = riskRewardString(result.EntryPrice, result.StopLoss, result.Target)
}

// riskRewardString formats "1:<reward/risk>" to one decimal, defaulting to
// "1:2" when risk is zero or negative.
func riskRewardString(entry, stop, target float64) string {
	risk := entry - stop
	if risk <= 0 {
		return "1:2"
	}
	ratio := (target - entry) / risk
	return fmt.Sprintf("1:%.1f", math.Round(ratio*10)/10)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
