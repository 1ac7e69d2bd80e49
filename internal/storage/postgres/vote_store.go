package postgres

import (
	"context"
	"fmt"

	"liquidchecker/internal/domain"
	"liquidchecker/internal/storage"
)

// VoteStore implements storage.VoteStore using PostgreSQL.
// Vote uniqueness per (token_address, wallet_address) is enforced by a
// unique index, so a duplicate insert surfaces as ErrDuplicateKey.
type VoteStore struct {
	pool *Pool
}

// NewVoteStore creates a new VoteStore.
func NewVoteStore(pool *Pool) *VoteStore {
	return &VoteStore{pool: pool}
}

// Compile-time interface check.
var _ storage.VoteStore = (*VoteStore)(nil)

// Insert adds a new vote and fills in its ID and CreatedAt.
func (s *VoteStore) Insert(ctx context.Context, v *domain.Vote) error {
	if v == nil || v.TokenAddress == "" || v.WalletAddress == "" {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO engagement_votes (token_address, wallet_address)
		VALUES ($1, $2)
		RETURNING id, created_at
	`

	row := s.pool.QueryRow(ctx, query, v.TokenAddress, v.WalletAddress)
	if err := row.Scan(&v.ID, &v.CreatedAt); err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert vote: %w", err)
	}
	return nil
}

// Delete removes the vote for (tokenAddress, walletAddress).
func (s *VoteStore) Delete(ctx context.Context, tokenAddress, walletAddress string) error {
	query := `
		DELETE FROM engagement_votes
		WHERE token_address = $1 AND wallet_address = $2
	`

	tag, err := s.pool.Exec(ctx, query, tokenAddress, walletAddress)
	if err != nil {
		return fmt.Errorf("delete vote: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// CountByTokens returns the vote count per address for the given set.
func (s *VoteStore) CountByTokens(ctx context.Context, tokenAddresses []string) (map[string]int, error) {
	counts := make(map[string]int)
	if len(tokenAddresses) == 0 {
		return counts, nil
	}

	query := `
		SELECT token_address, COUNT(*)
		FROM engagement_votes
		WHERE token_address = ANY($1)
		GROUP BY token_address
	`

	rows, err := s.pool.Query(ctx, query, tokenAddresses)
	if err != nil {
		return nil, fmt.Errorf("count votes: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var addr string
		var count int
		if err := rows.Scan(&addr, &count); err != nil {
			return nil, fmt.Errorf("scan vote count: %w", err)
		}
		counts[addr] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate vote counts: %w", err)
	}
	return counts, nil
}

// TokensVotedBy returns the subset of tokenAddresses voted on by walletAddress.
func (s *VoteStore) TokensVotedBy(ctx context.Context, tokenAddresses []string, walletAddress string) ([]string, error) {
	if len(tokenAddresses) == 0 {
		return nil, nil
	}

	query := `
		SELECT token_address
		FROM engagement_votes
		WHERE token_address = ANY($1) AND wallet_address = $2
	`

	rows, err := s.pool.Query(ctx, query, tokenAddresses, walletAddress)
	if err != nil {
		return nil, fmt.Errorf("list voted tokens: %w", err)
	}
	defer rows.Close()

	var voted []string
	for rows.Next() {
		var addr string
		if err := rows.Scan(&addr); err != nil {
			return nil, fmt.Errorf("scan voted token: %w", err)
		}
		voted = append(voted, addr)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate voted tokens: %w", err)
	}
	return voted, nil
}
