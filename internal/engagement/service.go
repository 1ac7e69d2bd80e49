package engagement

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"liquidchecker/internal/domain"
	"liquidchecker/internal/observability"
	"liquidchecker/internal/storage"
)

// ErrNoWallet is returned by mutations that require a connected wallet.
var ErrNoWallet = errors.New("no wallet connected")

// Service is the engagement facade: cached reads, comment posting and
// optimistic vote toggling, all scoped to the currently connected wallet.
type Service struct {
	aggregator *Aggregator
	cache      *Cache
	comments   storage.CommentStore
	votes      storage.VoteStore
	log        zerolog.Logger

	mu     sync.RWMutex
	wallet string
}

// NewService creates the engagement service over the given stores.
func NewService(comments storage.CommentStore, votes storage.VoteStore, log zerolog.Logger) *Service {
	return &Service{
		aggregator: NewAggregator(comments, votes),
		cache:      NewCache(),
		comments:   comments,
		votes:      votes,
		log:        log.With().Str("component", "engagement").Logger(),
	}
}

// SetWallet switches the active wallet. Passing the empty string
// disconnects. Changing wallets rescopes the cache, discarding all cached
// aggregates.
func (s *Service) SetWallet(address string) {
	s.mu.Lock()
	changed := s.wallet != address
	s.wallet = address
	s.mu.Unlock()

	if changed {
		s.cache.SetActor(address)
		s.log.Debug().Str("wallet", address).Msg("wallet changed, cache rescoped")
	}
}

// Wallet returns the currently connected wallet address, empty when
// disconnected.
func (s *Service) Wallet() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.wallet
}

// Engagement returns one aggregate per requested address, serving cached
// entries and fetching the rest in a single batch. The fetch is
// all-or-nothing: if it fails, no partial map is returned.
func (s *Service) Engagement(ctx context.Context, addresses []string) (map[string]domain.Aggregate, error) {
	result := make(map[string]domain.Aggregate, len(addresses))
	var misses []string
	for _, addr := range addresses {
		if agg, ok := s.cache.Get(addr); ok {
			observability.RecordCacheHit()
			result[addr] = agg
		} else {
			observability.RecordCacheMiss()
			misses = append(misses, addr)
		}
	}
	if len(misses) == 0 {
		return result, nil
	}

	ticket := s.cache.Begin(misses)
	fetched, err := s.aggregator.Aggregate(ctx, misses, s.Wallet())
	if err != nil {
		return nil, fmt.Errorf("refresh engagement: %w", err)
	}
	s.cache.Commit(ticket, fetched)

	// Prefer the post-commit cache state: a mutation that landed while the
	// fetch was in flight beats the fetched value.
	for _, addr := range misses {
		if agg, ok := s.cache.Get(addr); ok {
			result[addr] = agg
		} else {
			result[addr] = fetched[addr]
		}
	}
	return result, nil
}

// Comments lists the comments for a token, newest first.
func (s *Service) Comments(ctx context.Context, tokenAddress string) ([]*domain.Comment, error) {
	return s.comments.ListByToken(ctx, tokenAddress)
}

// AddComment posts a comment on a token as the connected wallet and
// invalidates that token's cached aggregate so the next read recounts.
func (s *Service) AddComment(ctx context.Context, tokenAddress, body string) (*domain.Comment, error) {
	wallet := s.Wallet()
	if wallet == "" {
		return nil, ErrNoWallet
	}

	comment := &domain.Comment{
		TokenAddress:  tokenAddress,
		WalletAddress: wallet,
		Body:          strings.TrimSpace(body),
	}
	if err := s.comments.Insert(ctx, comment); err != nil {
		return nil, fmt.Errorf("insert comment: %w", err)
	}

	s.cache.Invalidate(tokenAddress)
	observability.RecordCacheInvalidation()
	observability.RecordCommentPosted()
	return comment, nil
}

// ToggleVote flips the connected wallet's vote on a token. The cache is
// updated optimistically before the store write; if the write fails the
// optimistic update is rolled back and the error returned. A duplicate-key
// error on add and a not-found error on remove mean the store already holds
// the desired state, so both count as success.
func (s *Service) ToggleVote(ctx context.Context, tokenAddress string) (domain.Aggregate, error) {
	wallet := s.Wallet()
	if wallet == "" {
		return domain.Aggregate{}, ErrNoWallet
	}

	current, ok := s.cache.Get(tokenAddress)
	if !ok {
		fetched, err := s.Engagement(ctx, []string{tokenAddress})
		if err != nil {
			return domain.Aggregate{}, err
		}
		current = fetched[tokenAddress]
	}

	var next domain.Aggregate
	if current.UserHasVoted {
		next = domain.Aggregate{
			CommentCount: current.CommentCount,
			VoteCount:    max(0, current.VoteCount-1),
			UserHasVoted: false,
		}
	} else {
		next = domain.Aggregate{
			CommentCount: current.CommentCount,
			VoteCount:    current.VoteCount + 1,
			UserHasVoted: true,
		}
	}
	s.cache.Put(tokenAddress, next)

	var err error
	var direction string
	if current.UserHasVoted {
		direction = "down"
		err = s.votes.Delete(ctx, tokenAddress, wallet)
		if errors.Is(err, storage.ErrNotFound) {
			err = nil
		}
	} else {
		direction = "up"
		err = s.votes.Insert(ctx, &domain.Vote{TokenAddress: tokenAddress, WalletAddress: wallet})
		if errors.Is(err, storage.ErrDuplicateKey) {
			err = nil
		}
	}

	if err != nil {
		s.cache.Put(tokenAddress, current)
		observability.RecordVoteRollback()
		s.log.Warn().Err(err).Str("token", tokenAddress).Msg("vote toggle failed, rolled back")
		return current, fmt.Errorf("toggle vote: %w", err)
	}

	observability.RecordVoteToggle(direction)
	return next, nil
}
