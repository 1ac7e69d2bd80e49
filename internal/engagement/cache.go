package engagement

import (
	"sync"

	"liquidchecker/internal/domain"
)

// Cache holds engagement aggregates for a single viewer. UserHasVoted makes
// the values viewer-specific, so switching viewers discards the whole cache.
//
// Refreshes run against live stores while mutations land optimistically, so
// every address carries a sequence number: a refresh records the sequences
// it started from (Begin) and its results only apply where the sequence is
// still current (Commit). Mutations and invalidations bump the sequence,
// which makes slow refresh responses land as no-ops instead of overwriting
// newer state.
type Cache struct {
	mu      sync.Mutex
	actor   string
	epoch   uint64
	entries map[string]domain.Aggregate
	seqs    map[string]uint64
}

// Ticket marks the point in time a refresh started.
type Ticket struct {
	epoch uint64
	seqs  map[string]uint64
}

// NewCache creates an empty cache with no actor.
func NewCache() *Cache {
	return &Cache{
		entries: make(map[string]domain.Aggregate),
		seqs:    make(map[string]uint64),
	}
}

// Actor returns the wallet address the cache is scoped to.
func (c *Cache) Actor() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.actor
}

// SetActor switches the cache to a new viewer. A changed actor discards all
// entries and advances the epoch so refreshes begun under the previous
// actor cannot commit.
func (c *Cache) SetActor(wallet string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if wallet == c.actor {
		return
	}
	c.actor = wallet
	c.epoch++
	c.entries = make(map[string]domain.Aggregate)
	c.seqs = make(map[string]uint64)
}

// Get returns the cached aggregate for an address.
func (c *Cache) Get(address string) (domain.Aggregate, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	agg, ok := c.entries[address]
	return agg, ok
}

// Begin records the current epoch and per-address sequences for a refresh
// of the given addresses.
func (c *Cache) Begin(addresses []string) Ticket {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := Ticket{epoch: c.epoch, seqs: make(map[string]uint64, len(addresses))}
	for _, addr := range addresses {
		t.seqs[addr] = c.seqs[addr]
	}
	return t
}

// Commit applies refresh results for every address whose sequence is
// unchanged since Begin. Results from a previous epoch are dropped
// entirely. Returns the number of entries applied.
func (c *Cache) Commit(t Ticket, results map[string]domain.Aggregate) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if t.epoch != c.epoch {
		return 0
	}
	applied := 0
	for addr, agg := range results {
		if c.seqs[addr] != t.seqs[addr] {
			continue
		}
		c.entries[addr] = agg
		applied++
	}
	return applied
}

// Put stores an authoritative value and bumps the address sequence so any
// refresh begun earlier is discarded for this address.
func (c *Cache) Put(address string, agg domain.Aggregate) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seqs[address]++
	c.entries[address] = agg
}

// Invalidate drops a single address and bumps its sequence.
func (c *Cache) Invalidate(address string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seqs[address]++
	delete(c.entries, address)
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
