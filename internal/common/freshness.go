// Package common provides shared utilities for StockPilot
package common

import "time"

// Freshness TTLs for cached data components
const (
	FreshnessAnalysis = 4 * time.Hour // on-demand analysis records
	FreshnessTodayBar = 1 * time.Hour // intraday bar upserts
	FreshnessScan     = 1 * time.Hour // morning scan results
)

// IsFresh returns true if the given timestamp is within the TTL
func IsFresh(updated time.Time, ttl time.Duration) bool {
	if updated.IsZero() {
		return false
	}
	return time.Since(updated) < ttl
}
