package models

import "time"

// Signal classifies a trade recommendation.
type Signal string

const (
	SignalBuy   Signal = "BUY"
	SignalSell  Signal = "SELL"
	SignalHold  Signal = "HOLD"
	SignalAvoid Signal = "AVOID"
)

// IndicatorSet holds the technical indicators derived from a bar series.
// Recomputed on each fresh analysis; the stored copy is a cache, not a
// source of truth.
type IndicatorSet struct {
	Symbol      string    `json:"symbol"`
	RSI14       float64   `json:"rsi_14"`
	DMA50       float64   `json:"dma_50"`
	DMA200      float64   `json:"dma_200"`
	MACD        MACD      `json:"macd"`
	ATR14       float64   `json:"atr_14"`
	VolumeRatio float64   `json:"volume_ratio"`
	ComputedAt  time.Time `json:"computed_at"`
}

// MACD is the line/signal/histogram triple.
type MACD struct {
	Line      float64 `json:"line"`
	Signal    float64 `json:"signal"`
	Histogram float64 `json:"histogram"`
}

// SignalResult is the output of a signal strategy for one symbol.
type SignalResult struct {
	Signal     Signal   `json:"signal"`
	Confidence int      `json:"confidence"`
	Reasons    []string `json:"reasons"`
	EntryPrice float64  `json:"entry_price"`
	StopLoss   float64  `json:"stop_loss"`
	Target     float64  `json:"target"`
	RiskReward string   `json:"risk_reward"` // "1:<ratio>"
}

// SupportResistance holds placeholder-grade band levels around the current
// price: support descending away from price, resistance ascending.
type SupportResistance struct {
	Support    []float64 `json:"support"`    // 2 levels, descending
	Resistance []float64 `json:"resistance"` // 2 levels, ascending
}

// Technicals is the display projection of an IndicatorSet.
type Technicals struct {
	Price       float64 `json:"price"`
	DMA         float64 `json:"dma"`
	RSI14       float64 `json:"rsi_14"`
	MACDSignal  string  `json:"macd_signal"`   // "Bullish" or "Bearish"
	VolumeVsAvg string  `json:"volume_vs_avg"` // e.g. "1.5x"
	ATR14       float64 `json:"atr_14"`
}

// PositionSizing recommends a share count under the 2%-risk rule.
type PositionSizing struct {
	PortfolioValue    float64 `json:"portfolio_value"`
	RecommendedShares int     `json:"recommended_shares"`
	Exposure          float64 `json:"exposure"`
	MaxRisk           float64 `json:"max_risk"`
}

// AnalysisRecord aggregates the full analysis for a symbol. Created on
// demand, served from cache while ExpiresAt is in the future, superseded by
// a fresh record once the window lapses.
type AnalysisRecord struct {
	Symbol            string            `json:"symbol"`
	CompanyName       string            `json:"company_name"`
	Signal            Signal            `json:"signal"`
	Confidence        int               `json:"confidence"`
	Reasons           []string          `json:"reasons"`
	CurrentPrice      float64           `json:"current_price"`
	EntryPrice        float64           `json:"entry_price"`
	StopLoss          float64           `json:"stop_loss"`
	Target            float64           `json:"target"`
	RiskReward        string            `json:"risk_reward"`
	Technicals        Technicals        `json:"technicals"`
	PositionSizing    PositionSizing    `json:"position_sizing"`
	ChartData         []PriceBar        `json:"chart_data"` // most recent bars, ascending, capped at 90
	SupportResistance SupportResistance `json:"support_resistance"`
	GeneratedAt       time.Time         `json:"generated_at"`
	ExpiresAt         time.Time         `json:"expires_at"`
}
