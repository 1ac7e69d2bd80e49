package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"liquidchecker/internal/domain"
	"liquidchecker/internal/storage"
)

func TestCommentStore_InsertAndList(t *testing.T) {
	store := NewCommentStore()
	ctx := context.Background()

	c := &domain.Comment{
		TokenAddress:  "0xtoken1",
		Body:          "to the moon",
		WalletAddress: "0xwallet1",
	}

	if err := store.Insert(ctx, c); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if c.ID == "" {
		t.Error("Insert should assign an ID")
	}
	if c.CreatedAt.IsZero() {
		t.Error("Insert should assign CreatedAt")
	}

	comments, err := store.ListByToken(ctx, "0xtoken1")
	if err != nil {
		t.Fatalf("ListByToken failed: %v", err)
	}
	if len(comments) != 1 {
		t.Fatalf("expected 1 comment, got %d", len(comments))
	}
	if comments[0].Body != "to the moon" {
		t.Errorf("Body mismatch: got %s", comments[0].Body)
	}
}

func TestCommentStore_ListNewestFirst(t *testing.T) {
	store := NewCommentStore()
	ctx := context.Background()

	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	for i, body := range []string{"first", "second", "third"} {
		c := &domain.Comment{
			TokenAddress:  "0xtoken1",
			Body:          body,
			WalletAddress: "0xwallet1",
			CreatedAt:     base.Add(time.Duration(i) * time.Minute),
		}
		if err := store.Insert(ctx, c); err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
	}

	comments, err := store.ListByToken(ctx, "0xtoken1")
	if err != nil {
		t.Fatalf("ListByToken failed: %v", err)
	}
	if len(comments) != 3 {
		t.Fatalf("expected 3 comments, got %d", len(comments))
	}
	if comments[0].Body != "third" {
		t.Errorf("expected newest comment first, got %s", comments[0].Body)
	}
	if comments[2].Body != "first" {
		t.Errorf("expected oldest comment last, got %s", comments[2].Body)
	}
}

func TestCommentStore_InvalidInput(t *testing.T) {
	store := NewCommentStore()
	ctx := context.Background()

	cases := []*domain.Comment{
		nil,
		{TokenAddress: "", Body: "x", WalletAddress: "0xw"},
		{TokenAddress: "0xt", Body: "", WalletAddress: "0xw"},
		{TokenAddress: "0xt", Body: "x", WalletAddress: ""},
	}

	for _, c := range cases {
		if err := store.Insert(ctx, c); !errors.Is(err, storage.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	}
}

func TestCommentStore_CountByTokens(t *testing.T) {
	store := NewCommentStore()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		c := &domain.Comment{TokenAddress: "0xtoken1", Body: "gm", WalletAddress: "0xw"}
		if err := store.Insert(ctx, c); err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
	}
	c := &domain.Comment{TokenAddress: "0xtoken2", Body: "gm", WalletAddress: "0xw"}
	if err := store.Insert(ctx, c); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	counts, err := store.CountByTokens(ctx, []string{"0xtoken1", "0xtoken2", "0xtoken3"})
	if err != nil {
		t.Fatalf("CountByTokens failed: %v", err)
	}
	if counts["0xtoken1"] != 3 {
		t.Errorf("expected 3 comments for token1, got %d", counts["0xtoken1"])
	}
	if counts["0xtoken2"] != 1 {
		t.Errorf("expected 1 comment for token2, got %d", counts["0xtoken2"])
	}
	if _, ok := counts["0xtoken3"]; ok {
		t.Error("token3 has no comments, should be absent from the map")
	}
}
