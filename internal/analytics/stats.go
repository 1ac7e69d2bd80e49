// Package analytics computes dashboard aggregates over token listings:
// market totals, progress distribution, engagement rankings, sorting and
// pagination.
package analytics

import (
	"liquidchecker/internal/domain"
)

// ComputeMarketStats totals the listing into one MarketStats. Unknown
// values contribute nothing to their total, so a token with an unknown
// market cap still counts toward TotalTokens and its other known fields.
func ComputeMarketStats(tokens []domain.Token) domain.MarketStats {
	stats := domain.MarketStats{TotalTokens: len(tokens)}
	for _, t := range tokens {
		if !domain.IsUnknown(t.MarketCapUSD) {
			stats.TotalMarketCap += t.MarketCapUSD
		}
		if !domain.IsUnknown(t.LiquidityUSD) {
			stats.TotalLiquidity += t.LiquidityUSD
		}
		if !domain.IsUnknown(t.Volume24hUSD) {
			stats.TotalVolume24h += t.Volume24hUSD
		}
		if !domain.IsUnknown(t.PriceChange24h) {
			stats.NetPriceChange += t.PriceChange24h
		}
		if !domain.IsUnknown(t.HolderCount) {
			stats.TotalHolders += int64(t.HolderCount)
		}
	}
	return stats
}
