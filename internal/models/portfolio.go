package models

import "time"

// Position status values.
const (
	PositionHold = "hold"
	PositionSold = "sold"
)

// Position is one buy/sell entry in the portfolio ledger.
type Position struct {
	ID           string     `json:"id"`
	UserID       string     `json:"user_id"`
	Symbol       string     `json:"symbol"`
	Quantity     int        `json:"quantity"`
	BuyingPrice  float64    `json:"buying_price"`
	SellingPrice float64    `json:"selling_price,omitempty"`
	Status       string     `json:"status"` // hold | sold
	BuyDate      time.Time  `json:"buy_date"`
	SellDate     *time.Time `json:"sell_date,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// Invested returns the capital committed to the position.
func (p *Position) Invested() float64 {
	return float64(p.Quantity) * p.BuyingPrice
}

// PositionValuation pairs a position with its current market value.
type PositionValuation struct {
	Position     Position `json:"position"`
	CurrentPrice float64  `json:"current_price"`
	MarketValue  float64  `json:"market_value"`
	GainLoss     float64  `json:"gain_loss"`
	GainLossPct  float64  `json:"gain_loss_pct"`
}

// PortfolioSummary aggregates valuations for a user's ledger.
type PortfolioSummary struct {
	Positions     []PositionValuation `json:"positions"`
	TotalInvested float64             `json:"total_invested"`
	TotalValue    float64             `json:"total_value"`
	TotalGainLoss float64             `json:"total_gain_loss"`
	AsOf          time.Time           `json:"as_of"`
}
