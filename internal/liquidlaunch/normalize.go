package liquidlaunch

import (
	"liquidchecker/internal/domain"
)

// normalize maps a raw API token into the internal record. Absent nested
// fields become the Unknown sentinel (numbers) or zero values (strings),
// so downstream code never repeats the nil-guards.
func (c *Client) normalize(raw rawToken) domain.Token {
	t := domain.Token{
		Address:  raw.Address,
		Symbol:   raw.Symbol,
		Name:     raw.Name,
		Twitter:  raw.Metadata.Twitter,
		Website:  raw.Metadata.Website,
		Telegram: raw.Metadata.Telegram,
		Discord:  raw.Metadata.Discord,

		CreatedAt: raw.CreationTimestamp.Unix(),

		MarketCapUSD:   domain.Unknown(),
		LiquidityUSD:   domain.Unknown(),
		Volume24hUSD:   domain.Unknown(),
		PriceChange24h: domain.Unknown(),
		HolderCount:    flexValue(raw.HolderCount),
		Progress:       domain.Unknown(),
	}

	if raw.Address != "" {
		t.ImageURI = c.baseURL + "/api/tokens/" + raw.Address + "/image"
	}
	if raw.MarketCap != nil {
		t.MarketCapUSD = raw.MarketCap.USD.Value()
	}
	if raw.Liquidity != nil {
		t.LiquidityUSD = raw.Liquidity.USD.Value()
	}
	if tf, ok := raw.Timeframes["24h"]; ok {
		t.Volume24hUSD = flexValue(tf.Volume)
		t.PriceChange24h = flexValue(tf.PriceChange)
	}
	if raw.Progress != nil {
		t.Progress = *raw.Progress
	}

	return t
}

// flexValue unwraps an optional wire number; absent fields are Unknown.
func flexValue(n *flexNumber) float64 {
	if n == nil {
		return domain.Unknown()
	}
	return n.Value()
}
