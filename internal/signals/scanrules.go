package signals

import "github.com/stockpilot/stockpilot/internal/models"

// FixedStepStrategy is the morning-scan BUY/HOLD/SELL classifier. Unlike the
// margin scoring of MarginStrategy, confidence moves in fixed steps: 50 base,
// 75 on a bullish match (+10 more on a volume spike), 70 on a bearish match.
// The thresholds are policy constants reproduced exactly, not tunables.
type FixedStepStrategy struct{}

const (
	scanBaseConfidence    = 50
	scanBullishConfidence = 75
	scanBearishConfidence = 70
	scanVolumeBonus       = 10
	scanMomentumPct       = 2.0
)

// Evaluate applies the fixed-step rule set over the 20/30-day averages,
// 5-day momentum, and single-day volume spike.
func (FixedStepStrategy) Evaluate(snap Snapshot) models.SignalResult {
	price := snap.CurrentPrice
	reasons := make([]string, 0, 3)

	signal := models.SignalHold
	confidence := scanBaseConfidence

	switch {
	case price > snap.DMA20 && snap.DMA20 > snap.DMA30 && snap.MomentumPct > scanMomentumPct:
		signal = models.SignalBuy
		confidence = scanBullishConfidence
		reasons = append(reasons, "Uptrend: price above rising averages", "Positive 5-day momentum")
		if snap.VolumeSpike {
			confidence += scanVolumeBonus
			reasons = append(reasons, "Volume spike")
		}
	case price < snap.DMA20 && snap.DMA20 < snap.DMA30 && snap.MomentumPct < -scanMomentumPct:
		signal = models.SignalSell
		confidence = scanBearishConfidence
		reasons = append(reasons, "Downtrend: price below falling averages", "Negative 5-day momentum")
	default:
		reasons = append(reasons, "No clear trend")
		if snap.VolumeSpike {
			confidence += scanVolumeBonus
			reasons = append(reasons, "Volume spike")
		}
	}

	result := models.SignalResult{
		Signal:     signal,
		Confidence: confidence,
		Reasons:    reasons,
	}
	applyScanLevels(&result, price)
	return result
}

// applyScanLevels derives the tighter intraday levels used by scan rows.
func applyScanLevels(result *models.SignalResult, currentPrice float64) {
	result.EntryPrice = Round2(currentPrice)
	result.Target = Round2(currentPrice * 1.05)
	result.StopLoss = Round2(currentPrice * 0.97)
	result.RiskReward = riskRewardString(result.EntryPrice, result.StopLoss, result.Target)
}
