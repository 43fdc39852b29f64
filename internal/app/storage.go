package app

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/riskibarqy/f1-fantasy/internal/config"
	"github.com/riskibarqy/f1-fantasy/internal/domain/constructor"
	"github.com/riskibarqy/f1-fantasy/internal/domain/draft"
	"github.com/riskibarqy/f1-fantasy/internal/domain/driver"
	"github.com/riskibarqy/f1-fantasy/internal/domain/era"
	"github.com/riskibarqy/f1-fantasy/internal/domain/race"
	"github.com/riskibarqy/f1-fantasy/internal/domain/team"
	cacherepo "github.com/riskibarqy/f1-fantasy/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/f1-fantasy/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/f1-fantasy/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/f1-fantasy/internal/platform/cache"
	"github.com/riskibarqy/f1-fantasy/internal/platform/logging"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
	"go.opentelemetry.io/otel/attribute"
)

type draftStore interface {
	draft.Repository
	era.Repository
}

type repositories struct {
	drafts       draftStore
	teams        team.Repository
	drivers      driver.Repository
	constructors constructor.Repository
	races        race.Repository
	cache        *cache.Store
	close        func() error
}

// openRepositories builds the storage layer for the configured driver. Catalog
// and team reads go through the shared cache.
func openRepositories(ctx context.Context, cfg config.Config, logger *logging.Logger) (repositories, error) {
	var repos repositories
	switch cfg.StorageDriver {
	case config.StoragePostgres:
		db, err := openPostgres(ctx, cfg)
		if err != nil {
			return repositories{}, err
		}
		if err := postgres.BootstrapSeed(ctx, db); err != nil {
			_ = db.Close()
			return repositories{}, fmt.Errorf("bootstrap seed: %w", err)
		}
		repos = repositories{
			drafts:       postgres.NewDraftRepository(db),
			teams:        postgres.NewTeamRepository(db),
			drivers:      postgres.NewDriverRepository(db),
			constructors: postgres.NewConstructorRepository(db),
			races:        postgres.NewRaceRepository(db),
			close:        db.Close,
		}
		logger.InfoContext(ctx, "storage ready", "driver", cfg.StorageDriver, "db_name", dbNameFromURL(cfg.DBURL))
	default:
		drafts := memory.NewDraftRepository(memory.SeedEras(), memory.SeedBoard())
		repos = repositories{
			drafts:       drafts,
			teams:        memory.NewTeamRepository(memory.SeedTeams()),
			drivers:      memory.NewDriverRepository(memory.SeedDrivers()),
			constructors: memory.NewConstructorRepository(memory.SeedConstructors()),
			races:        memory.NewRaceRepository(memory.SeedRaces(), memory.SeedResults()),
			close:        func() error { return nil },
		}
		logger.WarnContext(ctx, "storage ready", "driver", config.StorageMemory, "persistent", false)
	}

	if cfg.CacheTTL > 0 {
		repos.cache = cache.NewStore(cfg.CacheTTL)
		repos.teams = cacherepo.NewTeamRepository(repos.teams, repos.cache)
		repos.drivers = cacherepo.NewDriverRepository(repos.drivers, repos.cache)
		repos.constructors = cacherepo.NewConstructorRepository(repos.constructors, repos.cache)
	}

	return repos, nil
}

func openPostgres(ctx context.Context, cfg config.Config) (*sqlx.DB, error) {
	dsn := normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary)
	db, err := otelsqlx.Open("postgres", dsn,
		otelsql.WithAttributes(attribute.String("db.system", "postgresql")),
		otelsql.WithDBName(dbNameFromURL(dsn)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	db.SetMaxOpenConns(cfg.DBMaxOpenConns)
	db.SetMaxIdleConns(cfg.DBMaxOpenConns / 2)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}
