package app

import (
	"context"
	"net/http"

	"github.com/riskibarqy/f1-fantasy/external/ergast"
	"github.com/riskibarqy/f1-fantasy/internal/config"
	"github.com/riskibarqy/f1-fantasy/internal/platform/logging"
	"github.com/riskibarqy/f1-fantasy/internal/platform/resilience"
	"github.com/riskibarqy/f1-fantasy/internal/usecase"
)

func newSeasonSyncService(cfg config.Config, repos repositories, logger *logging.Logger) *usecase.SeasonSyncService {
	feed := ergast.NewClient(ergast.ClientConfig{
		HTTPClient: &http.Client{Timeout: cfg.ErgastTimeout},
		BaseURL:    cfg.ErgastBaseURL,
		Timeout:    cfg.ErgastTimeout,
		MaxRetries: cfg.ErgastMaxRetries,
		PageSize:   cfg.ErgastPageSize,
		Logger:     logger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.ErgastCircuitEnabled,
			FailureThreshold: cfg.ErgastCircuitFailureCount,
			OpenTimeout:      cfg.ErgastCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.ErgastCircuitHalfOpenMaxReq,
		},
	})

	return usecase.NewSeasonSyncService(
		feed,
		repos.drivers,
		repos.constructors,
		repos.races,
		usecase.SeasonSyncConfig{DefaultYear: cfg.SeasonYear, Workers: cfg.SeasonSyncWorkers},
		logger,
	)
}

// SyncSeason runs one season sync against the configured storage and exits.
// A zero year falls back to SEASON_YEAR, then the current year.
func SyncSeason(ctx context.Context, cfg config.Config, logger *logging.Logger, year int) (usecase.SeasonSyncResult, error) {
	if logger == nil {
		logger = logging.Default()
	}

	repos, err := openRepositories(ctx, cfg, logger)
	if err != nil {
		return usecase.SeasonSyncResult{}, err
	}
	defer func() {
		if err := repos.close(); err != nil {
			logger.WarnContext(ctx, "close storage failed", "error", err)
		}
	}()

	return newSeasonSyncService(cfg, repos, logger).Sync(ctx, year)
}
