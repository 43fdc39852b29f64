package app

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/riskibarqy/f1-fantasy/internal/platform/logging"
	"github.com/riskibarqy/f1-fantasy/internal/usecase"
)

type seasonSyncer interface {
	Sync(ctx context.Context, year int) (usecase.SeasonSyncResult, error)
}

// SeasonSyncScheduler re-syncs the configured season on a fixed interval.
// Runs never overlap; a tick that arrives mid-run is skipped.
type SeasonSyncScheduler struct {
	syncer   seasonSyncer
	year     int
	interval time.Duration
	clock    clockwork.Clock
	logger   *logging.Logger

	mu      sync.Mutex
	running bool
}

func NewSeasonSyncScheduler(syncer seasonSyncer, year int, interval time.Duration, clock clockwork.Clock, logger *logging.Logger) *SeasonSyncScheduler {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &SeasonSyncScheduler{
		syncer:   syncer,
		year:     year,
		interval: interval,
		clock:    clock,
		logger:   logger.Component("season_sync_scheduler"),
	}
}

// Run blocks until ctx is done.
func (s *SeasonSyncScheduler) Run(ctx context.Context) {
	if s.interval <= 0 {
		return
	}

	ticker := s.clock.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.InfoContext(ctx, "season sync scheduler started", "interval", s.interval.String(), "year", s.year)
	for {
		select {
		case <-ctx.Done():
			s.logger.InfoContext(ctx, "season sync scheduler stopped")
			return
		case <-ticker.Chan():
			s.tick(ctx)
		}
	}
}

func (s *SeasonSyncScheduler) tick(ctx context.Context) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		s.logger.WarnContext(ctx, "season sync still running, skipping tick")
		return
	}
	s.running = true
	s.mu.Unlock()

	go func() {
		defer func() {
			s.mu.Lock()
			s.running = false
			s.mu.Unlock()
		}()

		started := s.clock.Now()
		result, err := s.syncer.Sync(ctx, s.year)
		if err != nil {
			s.logger.ErrorContext(ctx, "scheduled season sync failed", "year", s.year, "error", err)
			return
		}
		s.logger.InfoContext(ctx, "scheduled season sync completed",
			"year", result.Year,
			"races", result.Races,
			"results", result.Results,
			"duration_ms", s.clock.Since(started).Milliseconds(),
		)
	}()
}
