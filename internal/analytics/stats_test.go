package analytics

import (
	"testing"

	"liquidchecker/internal/domain"
)

func TestComputeMarketStats(t *testing.T) {
	tokens := []domain.Token{
		{
			Address:        "0xaaa",
			MarketCapUSD:   100_000,
			LiquidityUSD:   20_000,
			Volume24hUSD:   5_000,
			PriceChange24h: 10,
			HolderCount:    300,
		},
		{
			Address:        "0xbbb",
			MarketCapUSD:   50_000,
			LiquidityUSD:   domain.Unknown(),
			Volume24hUSD:   1_000,
			PriceChange24h: -4.5,
			HolderCount:    domain.Unknown(),
		},
	}

	stats := ComputeMarketStats(tokens)

	if stats.TotalTokens != 2 {
		t.Errorf("TotalTokens: expected 2, got %d", stats.TotalTokens)
	}
	if stats.TotalMarketCap != 150_000 {
		t.Errorf("TotalMarketCap: expected 150000, got %v", stats.TotalMarketCap)
	}
	if stats.TotalLiquidity != 20_000 {
		t.Errorf("unknown liquidity must contribute nothing, got %v", stats.TotalLiquidity)
	}
	if stats.TotalVolume24h != 6_000 {
		t.Errorf("TotalVolume24h: expected 6000, got %v", stats.TotalVolume24h)
	}
	if stats.NetPriceChange != 5.5 {
		t.Errorf("NetPriceChange: expected 5.5, got %v", stats.NetPriceChange)
	}
	if stats.TotalHolders != 300 {
		t.Errorf("TotalHolders: expected 300, got %d", stats.TotalHolders)
	}
}

func TestComputeMarketStats_Empty(t *testing.T) {
	stats := ComputeMarketStats(nil)
	if stats != (domain.MarketStats{}) {
		t.Errorf("expected zero stats, got %+v", stats)
	}
}

func TestComputeMarketStats_AllUnknown(t *testing.T) {
	stats := ComputeMarketStats([]domain.Token{
		{
			Address:        "0xaaa",
			MarketCapUSD:   domain.Unknown(),
			LiquidityUSD:   domain.Unknown(),
			Volume24hUSD:   domain.Unknown(),
			PriceChange24h: domain.Unknown(),
			HolderCount:    domain.Unknown(),
		},
	})
	if stats.TotalTokens != 1 {
		t.Errorf("unknown-valued token still counts, got %d", stats.TotalTokens)
	}
	if stats.TotalMarketCap != 0 || stats.NetPriceChange != 0 {
		t.Errorf("unknown values must total to zero, got %+v", stats)
	}
}
