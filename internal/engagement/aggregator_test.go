package engagement

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"liquidchecker/internal/domain"
	"liquidchecker/internal/storage"
	"liquidchecker/internal/storage/memory"
)

// countingComments wraps a CommentStore and counts CountByTokens calls.
type countingComments struct {
	storage.CommentStore
	calls atomic.Int32
}

func (s *countingComments) CountByTokens(ctx context.Context, addrs []string) (map[string]int, error) {
	s.calls.Add(1)
	return s.CommentStore.CountByTokens(ctx, addrs)
}

// failingVotes wraps a VoteStore and fails selected operations.
type failingVotes struct {
	storage.VoteStore
	failCount  bool
	failInsert bool
	failDelete bool
}

var errStore = errors.New("store unavailable")

func (s *failingVotes) CountByTokens(ctx context.Context, addrs []string) (map[string]int, error) {
	if s.failCount {
		return nil, errStore
	}
	return s.VoteStore.CountByTokens(ctx, addrs)
}

func (s *failingVotes) Insert(ctx context.Context, v *domain.Vote) error {
	if s.failInsert {
		return errStore
	}
	return s.VoteStore.Insert(ctx, v)
}

func (s *failingVotes) Delete(ctx context.Context, token, wallet string) error {
	if s.failDelete {
		return errStore
	}
	return s.VoteStore.Delete(ctx, token, wallet)
}

func seedActivity(t *testing.T, comments storage.CommentStore, votes storage.VoteStore) {
	t.Helper()
	ctx := context.Background()

	for _, c := range []domain.Comment{
		{TokenAddress: "0xaaa", WalletAddress: "0xw1", Body: "gm"},
		{TokenAddress: "0xaaa", WalletAddress: "0xw2", Body: "nice chart"},
		{TokenAddress: "0xbbb", WalletAddress: "0xw1", Body: "rug?"},
	} {
		c := c
		if err := comments.Insert(ctx, &c); err != nil {
			t.Fatalf("seed comment: %v", err)
		}
	}
	for _, v := range []domain.Vote{
		{TokenAddress: "0xaaa", WalletAddress: "0xw1"},
		{TokenAddress: "0xaaa", WalletAddress: "0xw2"},
		{TokenAddress: "0xbbb", WalletAddress: "0xw2"},
	} {
		v := v
		if err := votes.Insert(ctx, &v); err != nil {
			t.Fatalf("seed vote: %v", err)
		}
	}
}

func TestAggregator_MergesAllThreeQueries(t *testing.T) {
	comments := memory.NewCommentStore()
	votes := memory.NewVoteStore()
	seedActivity(t, comments, votes)

	agg := NewAggregator(comments, votes)
	result, err := agg.Aggregate(context.Background(), []string{"0xaaa", "0xbbb", "0xccc"}, "0xw1")
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}

	want := map[string]domain.Aggregate{
		"0xaaa": {CommentCount: 2, VoteCount: 2, UserHasVoted: true},
		"0xbbb": {CommentCount: 1, VoteCount: 1, UserHasVoted: false},
		"0xccc": {},
	}
	if len(result) != len(want) {
		t.Fatalf("expected %d entries, got %d", len(want), len(result))
	}
	for addr, w := range want {
		if result[addr] != w {
			t.Errorf("%s: expected %+v, got %+v", addr, w, result[addr])
		}
	}
}

func TestAggregator_NoViewerSkipsVoteLookup(t *testing.T) {
	comments := memory.NewCommentStore()
	votes := memory.NewVoteStore()
	seedActivity(t, comments, votes)

	agg := NewAggregator(comments, votes)
	result, err := agg.Aggregate(context.Background(), []string{"0xaaa"}, "")
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	if result["0xaaa"].UserHasVoted {
		t.Error("UserHasVoted must be false without a viewer")
	}
	if result["0xaaa"].VoteCount != 2 {
		t.Errorf("vote count should still be aggregated, got %d", result["0xaaa"].VoteCount)
	}
}

func TestAggregator_EmptyInputSkipsStores(t *testing.T) {
	comments := &countingComments{CommentStore: memory.NewCommentStore()}
	agg := NewAggregator(comments, memory.NewVoteStore())

	result, err := agg.Aggregate(context.Background(), nil, "0xw1")
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	if len(result) != 0 {
		t.Errorf("expected empty result, got %v", result)
	}
	if comments.calls.Load() != 0 {
		t.Errorf("stores must not be queried for an empty batch, got %d calls", comments.calls.Load())
	}
}

func TestAggregator_AllOrNothing(t *testing.T) {
	comments := memory.NewCommentStore()
	votes := &failingVotes{VoteStore: memory.NewVoteStore(), failCount: true}
	seedActivity(t, comments, votes.VoteStore)

	agg := NewAggregator(comments, votes)
	result, err := agg.Aggregate(context.Background(), []string{"0xaaa"}, "0xw1")
	if !errors.Is(err, errStore) {
		t.Fatalf("expected store error, got %v", err)
	}
	if result != nil {
		t.Errorf("no partial result on failure, got %v", result)
	}
}
