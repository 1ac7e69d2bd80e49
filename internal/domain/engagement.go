package domain

import "time"

// Comment is a free-text comment on a token.
// Corresponds to engagement_comments table in PostgreSQL.
type Comment struct {
	ID            string    // opaque id, assigned by the store
	TokenAddress  string    // token the comment belongs to
	Body          string    // free-text comment
	WalletAddress string    // authoring actor
	CreatedAt     time.Time // assigned by the store
}

// Vote is one actor's vote on a token. A wallet holds at most one active
// vote per token; the store enforces (token_address, wallet_address) uniqueness.
// Corresponds to engagement_votes table in PostgreSQL.
type Vote struct {
	ID            string
	TokenAddress  string
	WalletAddress string
	CreatedAt     time.Time
}

// Aggregate is the derived engagement view of one token from one actor's
// perspective. Not persisted; recomputed from comment/vote rows.
type Aggregate struct {
	CommentCount int
	VoteCount    int
	UserHasVoted bool
}
