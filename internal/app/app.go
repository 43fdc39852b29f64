package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/riskibarqy/f1-fantasy/internal/config"
	"github.com/riskibarqy/f1-fantasy/internal/domain/draft"
	"github.com/riskibarqy/f1-fantasy/internal/infrastructure/account/anubis"
	"github.com/riskibarqy/f1-fantasy/internal/infrastructure/messaging"
	"github.com/riskibarqy/f1-fantasy/internal/infrastructure/messaging/hub"
	"github.com/riskibarqy/f1-fantasy/internal/infrastructure/messaging/natsjs"
	"github.com/riskibarqy/f1-fantasy/internal/interfaces/httpapi"
	"github.com/riskibarqy/f1-fantasy/internal/observability"
	idgen "github.com/riskibarqy/f1-fantasy/internal/platform/id"
	"github.com/riskibarqy/f1-fantasy/internal/platform/logging"
	"github.com/riskibarqy/f1-fantasy/internal/platform/resilience"
	"github.com/riskibarqy/f1-fantasy/internal/usecase"
)

const shutdownTimeout = 10 * time.Second

// App owns the HTTP server and every background component it depends on.
type App struct {
	cfg       config.Config
	logger    *logging.Logger
	server    *http.Server
	hub       *hub.Hub
	nats      *natsjs.Publisher
	scheduler *SeasonSyncScheduler
	repos     repositories
}

func New(ctx context.Context, cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.HTTPAddr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	repos, err := openRepositories(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	a := &App{cfg: cfg, logger: logger, repos: repos}
	if err := a.build(ctx); err != nil {
		a.closeResources(ctx)
		return nil, err
	}
	return a, nil
}

func (a *App) build(ctx context.Context) error {
	cfg, logger, repos := a.cfg, a.logger, a.repos

	var (
		registry *prometheusRegistry
		metrics  usecase.DraftMetrics
	)
	if cfg.MetricsEnabled {
		registry = newPrometheusRegistry(repos)
		metrics = registry.draft
	}

	a.hub = hub.New(0, logger)
	sinks := []draft.EventPublisher{a.hub}
	if cfg.NATSEnabled {
		natsCfg := natsjs.DefaultConfig()
		natsCfg.URL = cfg.NATSURL
		natsCfg.Stream = cfg.NATSStream
		natsCfg.SubjectPrefix = cfg.NATSSubjectPrefix
		publisher, err := natsjs.Connect(ctx, natsCfg, logger)
		if err != nil {
			return fmt.Errorf("connect nats: %w", err)
		}
		a.nats = publisher
		sinks = append(sinks, publisher)
	}
	publisher := messaging.NewFanout(logger, sinks...)

	draftSvc := usecase.NewDraftService(
		repos.drafts,
		repos.drafts,
		repos.teams,
		repos.drivers,
		repos.constructors,
		repos.races,
		publisher,
		metrics,
		usecase.DraftConfig{
			Rules: draft.Rules{
				DriverCap:      cfg.DraftDriverCap,
				ConstructorCap: cfg.DraftConstructorCap,
			},
			DefaultRounds:   cfg.DraftDefaultRounds,
			UpcomingWindow:  cfg.DraftUpcomingWindow,
			AutoAdvanceBots: cfg.DraftAutoAdvanceBots,
		},
		logger,
	)
	teamSvc := usecase.NewTeamService(repos.teams, idgen.NewUUIDGenerator(), logger)
	standingsSvc := usecase.NewStandingsService(repos.drafts, repos.drafts, repos.teams, repos.races, logger)
	seasonSvc := usecase.NewSeasonService(repos.drafts, repos.drafts, repos.races)
	championshipSvc := usecase.NewChampionshipService(repos.races, repos.drivers, repos.constructors)

	seasonSyncSvc := newSeasonSyncService(cfg, repos, logger)
	if cfg.SeasonSyncInterval > 0 {
		a.scheduler = NewSeasonSyncScheduler(seasonSyncSvc, cfg.SeasonYear, cfg.SeasonSyncInterval, clockwork.NewRealClock(), logger)
	}

	verifier := anubis.NewClient(anubis.ClientConfig{
		HTTPClient:     &http.Client{Timeout: cfg.AnubisTimeout},
		BaseURL:        cfg.AnubisBaseURL,
		IntrospectPath: cfg.AnubisIntrospectPath,
		AdminKey:       cfg.AnubisAdminKey,
		Timeout:        cfg.AnubisTimeout,
		CacheTTL:       cfg.AnubisCacheTTL,
		Logger:         logger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.AnubisCircuitEnabled,
			FailureThreshold: cfg.AnubisCircuitFailureCount,
			OpenTimeout:      cfg.AnubisCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.AnubisCircuitHalfOpenMaxReq,
		},
	})

	handler := httpapi.NewHandler(httpapi.HandlerDeps{
		DraftService:        draftSvc,
		TeamService:         teamSvc,
		StandingsService:    standingsSvc,
		SeasonService:       seasonSvc,
		ChampionshipService: championshipSvc,
		SeasonSyncService:   seasonSyncSvc,
		Hub:                 a.hub,
		StreamOrigins:       cfg.CORSAllowedOrigins,
		Logger:              logger,
	})
	routerCfg := httpapi.RouterConfig{
		Verifier:           verifier,
		Admins:             usecase.NewAdminSet(cfg.AdminUserIDs),
		Logger:             logger,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		InternalJobToken:   cfg.InternalJobToken,
	}
	if registry != nil {
		routerCfg.Metrics = observability.MetricsHandler(registry.registry)
	}

	a.server = &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      httpapi.NewRouter(handler, routerCfg),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	return nil
}

// Run serves HTTP until ctx is cancelled, then shuts everything down.
func (a *App) Run(ctx context.Context) error {
	var background sync.WaitGroup
	schedulerCtx, stopScheduler := context.WithCancel(ctx)
	defer stopScheduler()
	if a.scheduler != nil {
		background.Add(1)
		go func() {
			defer background.Done()
			a.scheduler.Run(schedulerCtx)
		}()
	}

	serveErr := make(chan error, 1)
	go func() {
		a.logger.Info("http server starting", "addr", a.cfg.HTTPAddr, "storage", a.cfg.StorageDriver)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	var runErr error
	select {
	case <-ctx.Done():
	case err := <-serveErr:
		if err != nil {
			runErr = fmt.Errorf("http server failed: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()

	stopScheduler()
	// Closing the hub ends open draft streams, which the server does not track.
	a.hub.Close()
	if err := a.server.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("graceful shutdown failed", "error", err)
		runErr = errors.Join(runErr, err)
	}
	background.Wait()
	a.closeResources(shutdownCtx)

	a.logger.Info("http server stopped")
	return runErr
}

func (a *App) closeResources(ctx context.Context) {
	if a.hub != nil {
		a.hub.Close()
	}
	if a.nats != nil {
		a.nats.Close()
		a.nats = nil
	}
	if a.repos.close != nil {
		if err := a.repos.close(); err != nil {
			a.logger.WarnContext(ctx, "close storage failed", "error", err)
		}
		a.repos.close = nil
	}
}
