package server

import (
	"time"

	"liquidchecker/internal/domain"
	"liquidchecker/internal/format"
)

// tokenView is a listing row with display-ready strings. Unknown numeric
// values render as "N/A" through the formatters.
type tokenView struct {
	Address        string  `json:"address"`
	Symbol         string  `json:"symbol"`
	Name           string  `json:"name"`
	ImageURI       string  `json:"imageUri,omitempty"`
	Twitter        string  `json:"twitter,omitempty"`
	Website        string  `json:"website,omitempty"`
	Telegram       string  `json:"telegram,omitempty"`
	Discord        string  `json:"discord,omitempty"`
	Age            string  `json:"age,omitempty"`
	MarketCap      string  `json:"marketCap"`
	Liquidity      string  `json:"liquidity"`
	Volume24h      string  `json:"volume24h"`
	PriceChange24h string  `json:"priceChange24h"`
	Holders        string  `json:"holders"`
	Progress       float64 `json:"progress"`
	CommentCount   int     `json:"commentCount"`
	VoteCount      int     `json:"voteCount"`
	UserHasVoted   bool    `json:"userHasVoted"`
}

func newTokenView(t domain.Token, agg domain.Aggregate) tokenView {
	v := tokenView{
		Address:        t.Address,
		Symbol:         t.Symbol,
		Name:           t.Name,
		ImageURI:       t.ImageURI,
		Twitter:        t.Twitter,
		Website:        t.Website,
		Telegram:       t.Telegram,
		Discord:        t.Discord,
		MarketCap:      format.Currency(t.MarketCapUSD),
		Liquidity:      format.Currency(t.LiquidityUSD),
		Volume24h:      format.Currency(t.Volume24hUSD),
		PriceChange24h: format.PercentChange(t.PriceChange24h),
		Holders:        format.Count(t.HolderCount),
		Progress:       format.Progress(t.Progress),
		CommentCount:   agg.CommentCount,
		VoteCount:      agg.VoteCount,
		UserHasVoted:   agg.UserHasVoted,
	}
	if t.CreatedAt > 0 {
		v.Age = format.TimeAgo(time.Unix(t.CreatedAt, 0))
	}
	return v
}

func shortOrEmpty(addr string) string {
	if addr == "" {
		return ""
	}
	return format.ShortAddress(addr)
}

// statsView is the market totals header.
type statsView struct {
	TotalTokens    int    `json:"totalTokens"`
	TotalMarketCap string `json:"totalMarketCap"`
	TotalLiquidity string `json:"totalLiquidity"`
	TotalVolume24h string `json:"totalVolume24h"`
	NetPriceChange string `json:"netPriceChange"`
	TotalHolders   string `json:"totalHolders"`
}

func newStatsView(s domain.MarketStats) statsView {
	return statsView{
		TotalTokens:    s.TotalTokens,
		TotalMarketCap: format.Currency(s.TotalMarketCap),
		TotalLiquidity: format.Currency(s.TotalLiquidity),
		TotalVolume24h: format.Currency(s.TotalVolume24h),
		NetPriceChange: format.PercentChange(s.NetPriceChange),
		TotalHolders:   format.Count(float64(s.TotalHolders)),
	}
}

// commentView is one comment row.
type commentView struct {
	ID          string `json:"id"`
	Wallet      string `json:"wallet"`
	WalletShort string `json:"walletShort"`
	Body        string `json:"body"`
	CreatedAt   string `json:"createdAt"`
	TimeAgo     string `json:"timeAgo"`
}

func newCommentView(c *domain.Comment) commentView {
	return commentView{
		ID:          c.ID,
		Wallet:      c.WalletAddress,
		WalletShort: format.ShortAddress(c.WalletAddress),
		Body:        c.Body,
		CreatedAt:   c.CreatedAt.UTC().Format(time.RFC3339),
		TimeAgo:     format.TimeAgo(c.CreatedAt),
	}
}

// snapshotView is one history point.
type snapshotView struct {
	TakenAt        string  `json:"takenAt"`
	TotalTokens    int     `json:"totalTokens"`
	TotalMarketCap float64 `json:"totalMarketCap"`
	TotalLiquidity float64 `json:"totalLiquidity"`
	TotalVolume24h float64 `json:"totalVolume24h"`
	NetPriceChange float64 `json:"netPriceChange"`
	TotalHolders   int64   `json:"totalHolders"`
}

func newSnapshotView(s *domain.StatsSnapshot) snapshotView {
	return snapshotView{
		TakenAt:        s.TakenAt.UTC().Format(time.RFC3339),
		TotalTokens:    s.Stats.TotalTokens,
		TotalMarketCap: s.Stats.TotalMarketCap,
		TotalLiquidity: s.Stats.TotalLiquidity,
		TotalVolume24h: s.Stats.TotalVolume24h,
		NetPriceChange: s.Stats.NetPriceChange,
		TotalHolders:   s.Stats.TotalHolders,
	}
}
