package analytics

import (
	"sort"

	"liquidchecker/internal/domain"
)

// RankedToken is a token joined with its engagement aggregate.
type RankedToken struct {
	Token        domain.Token
	CommentCount int
	VoteCount    int
}

// RankByComments orders tokens by comment count descending, votes then
// address breaking ties for a stable order. At most limit entries are
// returned; limit <= 0 means no limit.
func RankByComments(tokens []domain.Token, aggs map[string]domain.Aggregate, limit int) []RankedToken {
	ranked := join(tokens, aggs)
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].CommentCount != ranked[j].CommentCount {
			return ranked[i].CommentCount > ranked[j].CommentCount
		}
		if ranked[i].VoteCount != ranked[j].VoteCount {
			return ranked[i].VoteCount > ranked[j].VoteCount
		}
		return ranked[i].Token.Address < ranked[j].Token.Address
	})
	return truncate(ranked, limit)
}

// RankByVotes orders tokens by vote count descending, comments then
// address breaking ties. At most limit entries are returned; limit <= 0
// means no limit.
func RankByVotes(tokens []domain.Token, aggs map[string]domain.Aggregate, limit int) []RankedToken {
	ranked := join(tokens, aggs)
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].VoteCount != ranked[j].VoteCount {
			return ranked[i].VoteCount > ranked[j].VoteCount
		}
		if ranked[i].CommentCount != ranked[j].CommentCount {
			return ranked[i].CommentCount > ranked[j].CommentCount
		}
		return ranked[i].Token.Address < ranked[j].Token.Address
	})
	return truncate(ranked, limit)
}

func join(tokens []domain.Token, aggs map[string]domain.Aggregate) []RankedToken {
	ranked := make([]RankedToken, 0, len(tokens))
	for _, t := range tokens {
		agg := aggs[t.Address]
		ranked = append(ranked, RankedToken{
			Token:        t,
			CommentCount: agg.CommentCount,
			VoteCount:    agg.VoteCount,
		})
	}
	return ranked
}

func truncate(ranked []RankedToken, limit int) []RankedToken {
	if limit > 0 && len(ranked) > limit {
		return ranked[:limit]
	}
	return ranked
}
