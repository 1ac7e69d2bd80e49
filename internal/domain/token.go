package domain

import "math"

// Unknown is the sentinel for numeric fields the token API did not provide.
// Normalization fills it in exactly once so downstream formatting never
// re-checks raw payload shapes.
func Unknown() float64 { return math.NaN() }

// IsUnknown reports whether v is the missing-value sentinel.
func IsUnknown(v float64) bool { return math.IsNaN(v) }

// Token is the normalized view of a token listed on the launch platform.
// Built from the raw API payload at the ingestion boundary; read-only after.
type Token struct {
	Address  string // on-chain address, unique key
	Symbol   string
	Name     string
	ImageURI string

	// Social links, empty string when absent.
	Twitter  string
	Website  string
	Telegram string
	Discord  string

	CreatedAt int64 // creation time, unix seconds, 0 when unknown

	MarketCapUSD   float64 // Unknown when missing
	LiquidityUSD   float64 // Unknown when missing
	Volume24hUSD   float64 // 24h trading volume, Unknown when missing
	PriceChange24h float64 // 24h price change in percent, Unknown when missing
	HolderCount    float64 // Unknown when missing
	Progress       float64 // bonding progress toward graduation, raw (unclamped)
}

// TokenPage is one page of a token listing response.
type TokenPage struct {
	Tokens     []Token
	TotalCount int // total matching tokens across all pages
}
