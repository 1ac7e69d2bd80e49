package postgres

import (
	"context"
	"fmt"

	"liquidchecker/internal/domain"
	"liquidchecker/internal/storage"
)

// CommentStore implements storage.CommentStore using PostgreSQL.
type CommentStore struct {
	pool *Pool
}

// NewCommentStore creates a new CommentStore.
func NewCommentStore(pool *Pool) *CommentStore {
	return &CommentStore{pool: pool}
}

// Compile-time interface check.
var _ storage.CommentStore = (*CommentStore)(nil)

// Insert adds a new comment and fills in its ID and CreatedAt.
func (s *CommentStore) Insert(ctx context.Context, c *domain.Comment) error {
	if c == nil || c.TokenAddress == "" || c.WalletAddress == "" || c.Body == "" {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO engagement_comments (token_address, comment, wallet_address)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`

	row := s.pool.QueryRow(ctx, query, c.TokenAddress, c.Body, c.WalletAddress)
	if err := row.Scan(&c.ID, &c.CreatedAt); err != nil {
		return fmt.Errorf("insert comment: %w", err)
	}
	return nil
}

// ListByToken retrieves all comments for a token, newest first.
func (s *CommentStore) ListByToken(ctx context.Context, tokenAddress string) ([]*domain.Comment, error) {
	query := `
		SELECT id, token_address, comment, wallet_address, created_at
		FROM engagement_comments
		WHERE token_address = $1
		ORDER BY created_at DESC
	`

	rows, err := s.pool.Query(ctx, query, tokenAddress)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	defer rows.Close()

	var comments []*domain.Comment
	for rows.Next() {
		var c domain.Comment
		if err := rows.Scan(&c.ID, &c.TokenAddress, &c.Body, &c.WalletAddress, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		comments = append(comments, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate comments: %w", err)
	}
	return comments, nil
}

// CountByTokens returns the comment count per address for the given set.
func (s *CommentStore) CountByTokens(ctx context.Context, tokenAddresses []string) (map[string]int, error) {
	counts := make(map[string]int)
	if len(tokenAddresses) == 0 {
		return counts, nil
	}

	query := `
		SELECT token_address, COUNT(*)
		FROM engagement_comments
		WHERE token_address = ANY($1)
		GROUP BY token_address
	`

	rows, err := s.pool.Query(ctx, query, tokenAddresses)
	if err != nil {
		return nil, fmt.Errorf("count comments: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var addr string
		var count int
		if err := rows.Scan(&addr, &count); err != nil {
			return nil, fmt.Errorf("scan comment count: %w", err)
		}
		counts[addr] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate comment counts: %w", err)
	}
	return counts, nil
}
