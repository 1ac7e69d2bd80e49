package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"liquidchecker/internal/domain"
	"liquidchecker/internal/storage"
)

// CommentStore is an in-memory implementation of storage.CommentStore.
type CommentStore struct {
	mu      sync.RWMutex
	byToken map[string][]*domain.Comment // keyed by token_address
	nextID  int
}

// NewCommentStore creates a new in-memory comment store.
func NewCommentStore() *CommentStore {
	return &CommentStore{
		byToken: make(map[string][]*domain.Comment),
	}
}

// Insert adds a new comment and fills in its ID and CreatedAt.
func (s *CommentStore) Insert(_ context.Context, c *domain.Comment) error {
	if c == nil || c.TokenAddress == "" || c.WalletAddress == "" || c.Body == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	c.ID = fmt.Sprintf("comment-%d", s.nextID)
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}

	commentCopy := *c
	s.byToken[c.TokenAddress] = append(s.byToken[c.TokenAddress], &commentCopy)
	return nil
}

// ListByToken retrieves all comments for a token, newest first.
func (s *CommentStore) ListByToken(_ context.Context, tokenAddress string) ([]*domain.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	comments := s.byToken[tokenAddress]
	result := make([]*domain.Comment, 0, len(comments))
	for _, c := range comments {
		commentCopy := *c
		result = append(result, &commentCopy)
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

// CountByTokens returns the comment count per address for the given set.
func (s *CommentStore) CountByTokens(_ context.Context, tokenAddresses []string) (map[string]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[string]int)
	for _, addr := range tokenAddresses {
		if n := len(s.byToken[addr]); n > 0 {
			counts[addr] = n
		}
	}
	return counts, nil
}

var _ storage.CommentStore = (*CommentStore)(nil)
