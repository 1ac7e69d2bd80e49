// Package engagement aggregates comment and vote activity per token and
// serves it through an actor-scoped cache with optimistic vote updates.
package engagement

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"liquidchecker/internal/domain"
	"liquidchecker/internal/observability"
	"liquidchecker/internal/storage"
)

// Aggregator computes engagement aggregates for batches of token addresses.
type Aggregator struct {
	comments storage.CommentStore
	votes    storage.VoteStore
}

// NewAggregator creates an aggregator over the given stores.
func NewAggregator(comments storage.CommentStore, votes storage.VoteStore) *Aggregator {
	return &Aggregator{comments: comments, votes: votes}
}

// Aggregate runs the three count queries concurrently and merges them into
// one aggregate per input address. Every input address appears in the
// result, zero-valued when it has no activity. The batch is all-or-nothing:
// if any query fails, no partial result is returned. An empty input returns
// an empty map without touching the stores. When viewer is empty the
// per-viewer vote lookup is skipped and UserHasVoted is false throughout.
func (a *Aggregator) Aggregate(ctx context.Context, addresses []string, viewer string) (map[string]domain.Aggregate, error) {
	if len(addresses) == 0 {
		return map[string]domain.Aggregate{}, nil
	}

	start := time.Now()

	var (
		commentCounts map[string]int
		voteCounts    map[string]int
		votedTokens   []string
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		commentCounts, err = a.comments.CountByTokens(gctx, addresses)
		if err != nil {
			return fmt.Errorf("count comments: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		voteCounts, err = a.votes.CountByTokens(gctx, addresses)
		if err != nil {
			return fmt.Errorf("count votes: %w", err)
		}
		return nil
	})
	if viewer != "" {
		g.Go(func() error {
			var err error
			votedTokens, err = a.votes.TokensVotedBy(gctx, addresses, viewer)
			if err != nil {
				return fmt.Errorf("lookup viewer votes: %w", err)
			}
			return nil
		})
	}

	err := g.Wait()
	observability.RecordAggregateBatch(len(addresses), time.Since(start).Seconds(), err)
	if err != nil {
		return nil, err
	}

	voted := make(map[string]bool, len(votedTokens))
	for _, addr := range votedTokens {
		voted[addr] = true
	}

	result := make(map[string]domain.Aggregate, len(addresses))
	for _, addr := range addresses {
		result[addr] = domain.Aggregate{
			CommentCount: commentCounts[addr],
			VoteCount:    voteCounts[addr],
			UserHasVoted: voted[addr],
		}
	}
	return result, nil
}
