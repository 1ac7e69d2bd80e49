package analytics

import (
	"testing"

	"liquidchecker/internal/domain"
)

func rankingFixture() ([]domain.Token, map[string]domain.Aggregate) {
	tokens := []domain.Token{
		{Address: "0xaaa"},
		{Address: "0xbbb"},
		{Address: "0xccc"},
		{Address: "0xddd"},
	}
	aggs := map[string]domain.Aggregate{
		"0xaaa": {CommentCount: 5, VoteCount: 2},
		"0xbbb": {CommentCount: 5, VoteCount: 9},
		"0xccc": {CommentCount: 1, VoteCount: 9},
		// 0xddd has no aggregate; counts as zero activity.
	}
	return tokens, aggs
}

func TestRankByComments(t *testing.T) {
	tokens, aggs := rankingFixture()

	ranked := RankByComments(tokens, aggs, 0)
	want := []string{"0xbbb", "0xaaa", "0xccc", "0xddd"}
	for i, addr := range want {
		if ranked[i].Token.Address != addr {
			t.Errorf("position %d: expected %s, got %s", i, addr, ranked[i].Token.Address)
		}
	}
}

func TestRankByVotes(t *testing.T) {
	tokens, aggs := rankingFixture()

	ranked := RankByVotes(tokens, aggs, 0)
	want := []string{"0xbbb", "0xccc", "0xaaa", "0xddd"}
	for i, addr := range want {
		if ranked[i].Token.Address != addr {
			t.Errorf("position %d: expected %s, got %s", i, addr, ranked[i].Token.Address)
		}
	}
}

func TestRank_Limit(t *testing.T) {
	tokens, aggs := rankingFixture()

	ranked := RankByVotes(tokens, aggs, 2)
	if len(ranked) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(ranked))
	}
	if ranked[0].Token.Address != "0xbbb" {
		t.Errorf("expected 0xbbb first, got %s", ranked[0].Token.Address)
	}
}

func TestRank_MissingAggregatesRankLast(t *testing.T) {
	tokens := []domain.Token{{Address: "0xeee"}, {Address: "0xfff"}}

	ranked := RankByComments(tokens, nil, 0)
	if len(ranked) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(ranked))
	}
	// Address tie-break keeps the order deterministic.
	if ranked[0].Token.Address != "0xeee" || ranked[1].Token.Address != "0xfff" {
		t.Errorf("unexpected order: %s, %s", ranked[0].Token.Address, ranked[1].Token.Address)
	}
}
