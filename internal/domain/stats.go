package domain

import "time"

// MarketStats are the totals over one token listing fetch.
// Unknown token fields count as zero, matching the dashboard reduction.
type MarketStats struct {
	TotalTokens    int
	TotalMarketCap float64
	TotalLiquidity float64
	TotalVolume24h float64
	NetPriceChange float64 // sum of 24h price changes, can be negative
	TotalHolders   int64
}

// StatsSnapshot is a MarketStats observation taken at a point in time.
// Corresponds to market_stats_snapshots table in ClickHouse.
type StatsSnapshot struct {
	TakenAt time.Time
	Stats   MarketStats
}

// ProgressBucket is one slice of the bonding-progress distribution.
type ProgressBucket struct {
	Label string  // e.g. "0-25%"
	Min   float64 // inclusive
	Max   float64 // exclusive, except the last bucket which includes 100
	Count int
}
