package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"liquidchecker/internal/domain"
	"liquidchecker/internal/storage"
)

// SnapshotStore is an in-memory implementation of storage.SnapshotStore.
type SnapshotStore struct {
	mu        sync.RWMutex
	snapshots []*domain.StatsSnapshot
}

// NewSnapshotStore creates a new in-memory snapshot store.
func NewSnapshotStore() *SnapshotStore {
	return &SnapshotStore{}
}

// Insert adds a new snapshot.
func (s *SnapshotStore) Insert(_ context.Context, snap *domain.StatsSnapshot) error {
	if snap == nil || snap.TakenAt.IsZero() {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snapCopy := *snap
	s.snapshots = append(s.snapshots, &snapCopy)
	return nil
}

// GetByTimeRange retrieves snapshots within [start, end], ordered by TakenAt ASC.
func (s *SnapshotStore) GetByTimeRange(_ context.Context, start, end time.Time) ([]*domain.StatsSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.StatsSnapshot
	for _, snap := range s.snapshots {
		if !snap.TakenAt.Before(start) && !snap.TakenAt.After(end) {
			snapCopy := *snap
			result = append(result, &snapCopy)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].TakenAt.Before(result[j].TakenAt)
	})
	return result, nil
}

// Latest retrieves the most recent snapshot.
func (s *SnapshotStore) Latest(_ context.Context) (*domain.StatsSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.snapshots) == 0 {
		return nil, storage.ErrNotFound
	}

	latest := s.snapshots[0]
	for _, snap := range s.snapshots[1:] {
		if snap.TakenAt.After(latest.TakenAt) {
			latest = snap
		}
	}

	snapCopy := *latest
	return &snapCopy, nil
}

var _ storage.SnapshotStore = (*SnapshotStore)(nil)
