package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"liquidchecker/internal/domain"
	"liquidchecker/internal/storage"
)

// VoteStore is an in-memory implementation of storage.VoteStore.
// At most one vote per (token_address, wallet_address) pair.
type VoteStore struct {
	mu     sync.RWMutex
	byPair map[voteKey]*domain.Vote
	nextID int
}

type voteKey struct {
	token  string
	wallet string
}

// NewVoteStore creates a new in-memory vote store.
func NewVoteStore() *VoteStore {
	return &VoteStore{
		byPair: make(map[voteKey]*domain.Vote),
	}
}

// Insert adds a new vote. Returns ErrDuplicateKey if the pair already voted.
func (s *VoteStore) Insert(_ context.Context, v *domain.Vote) error {
	if v == nil || v.TokenAddress == "" || v.WalletAddress == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := voteKey{token: v.TokenAddress, wallet: v.WalletAddress}
	if _, exists := s.byPair[key]; exists {
		return storage.ErrDuplicateKey
	}

	s.nextID++
	v.ID = fmt.Sprintf("vote-%d", s.nextID)
	if v.CreatedAt.IsZero() {
		v.CreatedAt = time.Now().UTC()
	}

	voteCopy := *v
	s.byPair[key] = &voteCopy
	return nil
}

// Delete removes the vote for (tokenAddress, walletAddress).
func (s *VoteStore) Delete(_ context.Context, tokenAddress, walletAddress string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := voteKey{token: tokenAddress, wallet: walletAddress}
	if _, exists := s.byPair[key]; !exists {
		return storage.ErrNotFound
	}
	delete(s.byPair, key)
	return nil
}

// CountByTokens returns the vote count per address for the given set.
func (s *VoteStore) CountByTokens(_ context.Context, tokenAddresses []string) (map[string]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	wanted := make(map[string]bool, len(tokenAddresses))
	for _, addr := range tokenAddresses {
		wanted[addr] = true
	}

	counts := make(map[string]int)
	for key := range s.byPair {
		if wanted[key.token] {
			counts[key.token]++
		}
	}
	return counts, nil
}

// TokensVotedBy returns the subset of tokenAddresses voted on by walletAddress.
func (s *VoteStore) TokensVotedBy(_ context.Context, tokenAddresses []string, walletAddress string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var voted []string
	for _, addr := range tokenAddresses {
		if _, exists := s.byPair[voteKey{token: addr, wallet: walletAddress}]; exists {
			voted = append(voted, addr)
		}
	}
	return voted, nil
}

var _ storage.VoteStore = (*VoteStore)(nil)
