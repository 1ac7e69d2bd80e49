package engagement

import (
	"testing"

	"liquidchecker/internal/domain"
)

func TestCache_PutGet(t *testing.T) {
	c := NewCache()
	agg := domain.Aggregate{CommentCount: 3, VoteCount: 1, UserHasVoted: true}
	c.Put("0xaaa", agg)

	got, ok := c.Get("0xaaa")
	if !ok || got != agg {
		t.Errorf("expected %+v, got %+v (ok=%v)", agg, got, ok)
	}
	if _, ok := c.Get("0xbbb"); ok {
		t.Error("unexpected hit for unknown address")
	}
}

func TestCache_ActorChangeClearsEverything(t *testing.T) {
	c := NewCache()
	c.SetActor("0xw1")
	c.Put("0xaaa", domain.Aggregate{VoteCount: 5})
	c.Put("0xbbb", domain.Aggregate{VoteCount: 7})

	c.SetActor("0xw2")
	if c.Len() != 0 {
		t.Errorf("expected empty cache after actor change, got %d entries", c.Len())
	}
	if c.Actor() != "0xw2" {
		t.Errorf("actor mismatch: %s", c.Actor())
	}
}

func TestCache_SameActorKeepsEntries(t *testing.T) {
	c := NewCache()
	c.SetActor("0xw1")
	c.Put("0xaaa", domain.Aggregate{VoteCount: 5})

	c.SetActor("0xw1")
	if c.Len() != 1 {
		t.Errorf("re-setting the same actor must not clear, got %d entries", c.Len())
	}
}

func TestCache_CommitAppliesUnchangedSequences(t *testing.T) {
	c := NewCache()

	ticket := c.Begin([]string{"0xaaa", "0xbbb"})
	applied := c.Commit(ticket, map[string]domain.Aggregate{
		"0xaaa": {VoteCount: 1},
		"0xbbb": {VoteCount: 2},
	})
	if applied != 2 {
		t.Fatalf("expected 2 applied, got %d", applied)
	}
	if got, _ := c.Get("0xbbb"); got.VoteCount != 2 {
		t.Errorf("commit did not land: %+v", got)
	}
}

func TestCache_MutationBeatsInFlightRefresh(t *testing.T) {
	c := NewCache()

	ticket := c.Begin([]string{"0xaaa", "0xbbb"})

	// A vote toggle lands while the refresh is in flight.
	c.Put("0xaaa", domain.Aggregate{VoteCount: 10, UserHasVoted: true})

	applied := c.Commit(ticket, map[string]domain.Aggregate{
		"0xaaa": {VoteCount: 9},
		"0xbbb": {VoteCount: 2},
	})
	if applied != 1 {
		t.Fatalf("expected only the untouched address to apply, got %d", applied)
	}

	got, _ := c.Get("0xaaa")
	if got.VoteCount != 10 || !got.UserHasVoted {
		t.Errorf("stale refresh overwrote newer mutation: %+v", got)
	}
	if got, _ := c.Get("0xbbb"); got.VoteCount != 2 {
		t.Errorf("untouched address should take the refresh value: %+v", got)
	}
}

func TestCache_CommitFromPreviousActorDropped(t *testing.T) {
	c := NewCache()
	c.SetActor("0xw1")

	ticket := c.Begin([]string{"0xaaa"})
	c.SetActor("0xw2")

	applied := c.Commit(ticket, map[string]domain.Aggregate{"0xaaa": {UserHasVoted: true}})
	if applied != 0 {
		t.Fatalf("refresh begun under previous actor must not commit, applied %d", applied)
	}
	if _, ok := c.Get("0xaaa"); ok {
		t.Error("entry leaked across actor change")
	}
}

func TestCache_CommitDroppedAfterActorRoundTrip(t *testing.T) {
	c := NewCache()
	c.SetActor("0xw1")

	ticket := c.Begin([]string{"0xaaa"})
	c.SetActor("0xw2")
	c.SetActor("0xw1")

	if applied := c.Commit(ticket, map[string]domain.Aggregate{"0xaaa": {VoteCount: 1}}); applied != 0 {
		t.Fatalf("refresh spanning an actor round-trip must not commit, applied %d", applied)
	}
}

func TestCache_InvalidateDropsEntryAndBlocksRefresh(t *testing.T) {
	c := NewCache()
	c.Put("0xaaa", domain.Aggregate{CommentCount: 4})

	ticket := c.Begin([]string{"0xaaa"})
	c.Invalidate("0xaaa")

	if _, ok := c.Get("0xaaa"); ok {
		t.Error("entry should be gone after invalidation")
	}
	if applied := c.Commit(ticket, map[string]domain.Aggregate{"0xaaa": {CommentCount: 4}}); applied != 0 {
		t.Errorf("refresh begun before invalidation must not commit, applied %d", applied)
	}
}
