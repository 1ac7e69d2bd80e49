// Package snapshot periodically records market-wide stats so the dashboard
// can chart them over time.
package snapshot

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"liquidchecker/internal/analytics"
	"liquidchecker/internal/domain"
	"liquidchecker/internal/liquidlaunch"
	"liquidchecker/internal/observability"
	"liquidchecker/internal/storage"
)

// Lister fetches token pages from the upstream API.
type Lister interface {
	ListTokens(ctx context.Context, q liquidlaunch.Query) (*domain.TokenPage, error)
}

// Snapshotter runs ComputeMarketStats over the full listing on a schedule
// and persists the result.
type Snapshotter struct {
	lister   Lister
	store    storage.SnapshotStore
	schedule string
	timeout  time.Duration
	log      zerolog.Logger
	cron     *cron.Cron
}

// New creates a snapshotter. Schedule uses cron syntax, e.g. "@every 5m".
func New(lister Lister, store storage.SnapshotStore, schedule string, log zerolog.Logger) *Snapshotter {
	return &Snapshotter{
		lister:   lister,
		store:    store,
		schedule: schedule,
		timeout:  2 * time.Minute,
		log:      log.With().Str("component", "snapshot").Logger(),
		cron:     cron.New(),
	}
}

// Start schedules periodic runs. Each run is bounded by the snapshotter
// timeout.
func (s *Snapshotter) Start() error {
	_, err := s.cron.AddFunc(s.schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()
		if err := s.Run(ctx); err != nil {
			s.log.Error().Err(err).Msg("snapshot run failed")
		}
	})
	if err != nil {
		return fmt.Errorf("schedule %q: %w", s.schedule, err)
	}
	s.cron.Start()
	s.log.Info().Str("schedule", s.schedule).Msg("snapshotter started")
	return nil
}

// Stop halts the schedule and waits for a running job to finish.
func (s *Snapshotter) Stop() {
	<-s.cron.Stop().Done()
}

// Run takes one snapshot: fetch the listing, total it, store it.
func (s *Snapshotter) Run(ctx context.Context) error {
	start := time.Now()

	page, err := s.lister.ListTokens(ctx, liquidlaunch.DefaultQuery())
	if err != nil {
		observability.RecordSnapshotRun("error", time.Since(start).Seconds())
		return fmt.Errorf("list tokens: %w", err)
	}

	snap := &domain.StatsSnapshot{
		TakenAt: time.Now().UTC(),
		Stats:   analytics.ComputeMarketStats(page.Tokens),
	}
	if err := s.store.Insert(ctx, snap); err != nil {
		observability.RecordSnapshotRun("error", time.Since(start).Seconds())
		return fmt.Errorf("store snapshot: %w", err)
	}

	observability.RecordSnapshotRun("success", time.Since(start).Seconds())
	s.log.Debug().
		Int("tokens", snap.Stats.TotalTokens).
		Float64("total_market_cap", snap.Stats.TotalMarketCap).
		Msg("snapshot stored")
	return nil
}
