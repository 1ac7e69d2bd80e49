package storage

import (
	"context"
	"time"

	"liquidchecker/internal/domain"
)

// CommentStore provides access to engagement_comments storage.
type CommentStore interface {
	// Insert adds a new comment and fills in its ID and CreatedAt.
	// Returns ErrInvalidInput on empty token address, wallet or body.
	Insert(ctx context.Context, c *domain.Comment) error

	// ListByToken retrieves all comments for a token, newest first.
	ListByToken(ctx context.Context, tokenAddress string) ([]*domain.Comment, error)

	// CountByTokens returns the comment count per address for the given set.
	// Addresses with no comments are absent from the result map.
	CountByTokens(ctx context.Context, tokenAddresses []string) (map[string]int, error)
}

// VoteStore provides access to engagement_votes storage.
type VoteStore interface {
	// Insert adds a new vote and fills in its ID and CreatedAt. Returns
	// ErrDuplicateKey if the (token_address, wallet_address) pair already
	// holds an active vote.
	Insert(ctx context.Context, v *domain.Vote) error

	// Delete removes the vote for (tokenAddress, walletAddress).
	// Returns ErrNotFound if no such vote exists.
	Delete(ctx context.Context, tokenAddress, walletAddress string) error

	// CountByTokens returns the vote count per address for the given set.
	// Addresses with no votes are absent from the result map.
	CountByTokens(ctx context.Context, tokenAddresses []string) (map[string]int, error)

	// TokensVotedBy returns the subset of tokenAddresses that walletAddress
	// holds an active vote on.
	TokensVotedBy(ctx context.Context, tokenAddresses []string, walletAddress string) ([]string, error)
}

// SnapshotStore provides access to market_stats_snapshots storage.
type SnapshotStore interface {
	// Insert adds a new snapshot.
	Insert(ctx context.Context, s *domain.StatsSnapshot) error

	// GetByTimeRange retrieves snapshots taken within [start, end]
	// (inclusive), ordered by TakenAt ASC.
	GetByTimeRange(ctx context.Context, start, end time.Time) ([]*domain.StatsSnapshot, error)

	// Latest retrieves the most recent snapshot. Returns ErrNotFound if
	// no snapshot has been taken yet.
	Latest(ctx context.Context) (*domain.StatsSnapshot, error)
}
