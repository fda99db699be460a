package models

import "time"

// ScanRecommendation is one row of the morning scan output.
type ScanRecommendation struct {
	Symbol       string   `json:"symbol"`
	CompanyName  string   `json:"company_name"`
	Signal       Signal   `json:"signal"`
	BuyingPrice  float64  `json:"buying_price"`
	SellingPrice float64  `json:"selling_price"`
	StopLoss     float64  `json:"stop_loss"`
	Confidence   int      `json:"confidence"`
	Reasons      []string `json:"reasons"`
	DMA20        float64  `json:"dma_20"`
	DMA30        float64  `json:"dma_30"`
	Volume       int64    `json:"volume"`
}

// ScanResponse is the morning scan result: recommendations sorted descending
// by confidence, capped at 10 entries.
type ScanResponse struct {
	Success         bool                 `json:"success"`
	Recommendations []ScanRecommendation `json:"recommendations"`
	GeneratedAt     time.Time            `json:"generated_at"`
	TotalAnalyzed   int                  `json:"total_analyzed"`
}
