package clickhouse

import (
	"context"
	"fmt"
	"time"

	"liquidchecker/internal/domain"
	"liquidchecker/internal/storage"
)

// SnapshotStore implements storage.SnapshotStore using ClickHouse.
type SnapshotStore struct {
	conn *Conn
}

// NewSnapshotStore creates a new SnapshotStore.
func NewSnapshotStore(conn *Conn) *SnapshotStore {
	return &SnapshotStore{conn: conn}
}

// Compile-time interface check.
var _ storage.SnapshotStore = (*SnapshotStore)(nil)

// Insert adds a new snapshot.
func (s *SnapshotStore) Insert(ctx context.Context, snap *domain.StatsSnapshot) error {
	if snap == nil || snap.TakenAt.IsZero() {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO market_stats_snapshots (
			taken_at, total_tokens, total_market_cap, total_liquidity,
			total_volume_24h, net_price_change, total_holders
		) VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	err := s.conn.Exec(ctx, query,
		snap.TakenAt,
		uint32(snap.Stats.TotalTokens),
		snap.Stats.TotalMarketCap,
		snap.Stats.TotalLiquidity,
		snap.Stats.TotalVolume24h,
		snap.Stats.NetPriceChange,
		uint64(snap.Stats.TotalHolders),
	)
	if err != nil {
		return fmt.Errorf("insert stats snapshot: %w", err)
	}
	return nil
}

// GetByTimeRange retrieves snapshots within [start, end], ordered by TakenAt ASC.
func (s *SnapshotStore) GetByTimeRange(ctx context.Context, start, end time.Time) ([]*domain.StatsSnapshot, error) {
	query := `
		SELECT taken_at, total_tokens, total_market_cap, total_liquidity,
		       total_volume_24h, net_price_change, total_holders
		FROM market_stats_snapshots
		WHERE taken_at >= ? AND taken_at <= ?
		ORDER BY taken_at ASC
	`

	rows, err := s.conn.Query(ctx, query, start, end)
	if err != nil {
		return nil, fmt.Errorf("query stats snapshots: %w", err)
	}
	defer rows.Close()

	var snapshots []*domain.StatsSnapshot
	for rows.Next() {
		snap, err := scanSnapshot(rows)
		if err != nil {
			return nil, fmt.Errorf("scan stats snapshot: %w", err)
		}
		snapshots = append(snapshots, snap)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate stats snapshots: %w", err)
	}
	return snapshots, nil
}

// Latest retrieves the most recent snapshot.
func (s *SnapshotStore) Latest(ctx context.Context) (*domain.StatsSnapshot, error) {
	query := `
		SELECT taken_at, total_tokens, total_market_cap, total_liquidity,
		       total_volume_24h, net_price_change, total_holders
		FROM market_stats_snapshots
		ORDER BY taken_at DESC
		LIMIT 1
	`

	rows, err := s.conn.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query latest snapshot: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("iterate latest snapshot: %w", err)
		}
		return nil, storage.ErrNotFound
	}

	snap, err := scanSnapshot(rows)
	if err != nil {
		return nil, fmt.Errorf("scan latest snapshot: %w", err)
	}
	return snap, nil
}

// rowScanner matches the Scan method shared by driver rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanSnapshot scans a single row into a StatsSnapshot.
func scanSnapshot(row rowScanner) (*domain.StatsSnapshot, error) {
	var (
		snap         domain.StatsSnapshot
		totalTokens  uint32
		totalHolders uint64
	)

	err := row.Scan(
		&snap.TakenAt,
		&totalTokens,
		&snap.Stats.TotalMarketCap,
		&snap.Stats.TotalLiquidity,
		&snap.Stats.TotalVolume24h,
		&snap.Stats.NetPriceChange,
		&totalHolders,
	)
	if err != nil {
		return nil, err
	}

	snap.Stats.TotalTokens = int(totalTokens)
	snap.Stats.TotalHolders = int64(totalHolders)
	return &snap, nil
}
