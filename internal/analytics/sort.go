package analytics

import (
	"sort"

	"liquidchecker/internal/domain"
)

// Sort keys accepted by SortTokens.
const (
	SortByVolume    = "volume"
	SortByMarketCap = "marketCap"
	SortByAge       = "age"
	SortByHolders   = "holders"
)

// SortTokens orders the slice in place by the given key. Descending when
// desc is true. Tokens with an unknown value for the key always sort last,
// regardless of direction. Unrecognized keys leave the order untouched.
func SortTokens(tokens []domain.Token, key string, desc bool) {
	var value func(domain.Token) float64
	switch key {
	case SortByVolume:
		value = func(t domain.Token) float64 { return t.Volume24hUSD }
	case SortByMarketCap:
		value = func(t domain.Token) float64 { return t.MarketCapUSD }
	case SortByHolders:
		value = func(t domain.Token) float64 { return t.HolderCount }
	case SortByAge:
		value = func(t domain.Token) float64 {
			if t.CreatedAt == 0 {
				return domain.Unknown()
			}
			return float64(t.CreatedAt)
		}
	default:
		return
	}

	sort.SliceStable(tokens, func(i, j int) bool {
		vi, vj := value(tokens[i]), value(tokens[j])
		ui, uj := domain.IsUnknown(vi), domain.IsUnknown(vj)
		if ui || uj {
			return !ui && uj
		}
		if desc {
			return vi > vj
		}
		return vi < vj
	})
}
