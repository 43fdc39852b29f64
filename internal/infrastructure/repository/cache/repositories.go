package cache

import (
	"context"

	"github.com/riskibarqy/f1-fantasy/internal/domain/constructor"
	"github.com/riskibarqy/f1-fantasy/internal/domain/driver"
	"github.com/riskibarqy/f1-fantasy/internal/domain/team"
	basecache "github.com/riskibarqy/f1-fantasy/internal/platform/cache"
)

const (
	driverPrefix      = "driver:"
	constructorPrefix = "constructor:"
	teamPrefix        = "team:"
)

type DriverRepository struct {
	next  driver.Repository
	cache *basecache.Store
}

func NewDriverRepository(next driver.Repository, cache *basecache.Store) *DriverRepository {
	return &DriverRepository{next: next, cache: cache}
}

func (r *DriverRepository) List(ctx context.Context) ([]driver.Driver, error) {
	v, err := r.cache.GetOrLoad(ctx, driverPrefix+"list", func(ctx context.Context) (any, error) {
		items, err := r.next.List(ctx)
		if err != nil {
			return nil, err
		}
		return append([]driver.Driver(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]driver.Driver)
	return append([]driver.Driver(nil), items...), nil
}

func (r *DriverRepository) GetByID(ctx context.Context, id string) (driver.Driver, bool, error) {
	v, err := r.cache.GetOrLoad(ctx, driverPrefix+"id:"+id, func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		return cachedLookup[driver.Driver]{value: item, exists: exists}, nil
	})
	if err != nil {
		return driver.Driver{}, false, err
	}

	cached, _ := v.(cachedLookup[driver.Driver])
	return cached.value, cached.exists, nil
}

func (r *DriverRepository) Upsert(ctx context.Context, items []driver.Driver) error {
	defer r.cache.DeletePrefix(ctx, driverPrefix)
	return r.next.Upsert(ctx, items)
}

type ConstructorRepository struct {
	next  constructor.Repository
	cache *basecache.Store
}

func NewConstructorRepository(next constructor.Repository, cache *basecache.Store) *ConstructorRepository {
	return &ConstructorRepository{next: next, cache: cache}
}

func (r *ConstructorRepository) List(ctx context.Context) ([]constructor.Constructor, error) {
	v, err := r.cache.GetOrLoad(ctx, constructorPrefix+"list", func(ctx context.Context) (any, error) {
		items, err := r.next.List(ctx)
		if err != nil {
			return nil, err
		}
		return append([]constructor.Constructor(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]constructor.Constructor)
	return append([]constructor.Constructor(nil), items...), nil
}

func (r *ConstructorRepository) GetByID(ctx context.Context, id string) (constructor.Constructor, bool, error) {
	v, err := r.cache.GetOrLoad(ctx, constructorPrefix+"id:"+id, func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		return cachedLookup[constructor.Constructor]{value: item, exists: exists}, nil
	})
	if err != nil {
		return constructor.Constructor{}, false, err
	}

	cached, _ := v.(cachedLookup[constructor.Constructor])
	return cached.value, cached.exists, nil
}

func (r *ConstructorRepository) Upsert(ctx context.Context, items []constructor.Constructor) error {
	defer r.cache.DeletePrefix(ctx, constructorPrefix)
	return r.next.Upsert(ctx, items)
}

// TeamRepository caches reads and drops every team entry on write.
type TeamRepository struct {
	next  team.Repository
	cache *basecache.Store
}

func NewTeamRepository(next team.Repository, cache *basecache.Store) *TeamRepository {
	return &TeamRepository{next: next, cache: cache}
}

func (r *TeamRepository) List(ctx context.Context) ([]team.Team, error) {
	v, err := r.cache.GetOrLoad(ctx, teamPrefix+"list", func(ctx context.Context) (any, error) {
		items, err := r.next.List(ctx)
		if err != nil {
			return nil, err
		}
		return append([]team.Team(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]team.Team)
	return append([]team.Team(nil), items...), nil
}

func (r *TeamRepository) GetByID(ctx context.Context, teamID string) (team.Team, bool, error) {
	v, err := r.cache.GetOrLoad(ctx, teamPrefix+"id:"+teamID, func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetByID(ctx, teamID)
		if err != nil {
			return nil, err
		}
		return cachedLookup[team.Team]{value: item, exists: exists}, nil
	})
	if err != nil {
		return team.Team{}, false, err
	}

	cached, _ := v.(cachedLookup[team.Team])
	return cached.value, cached.exists, nil
}

func (r *TeamRepository) GetByOwner(ctx context.Context, ownerID string) (team.Team, bool, error) {
	v, err := r.cache.GetOrLoad(ctx, teamPrefix+"owner:"+ownerID, func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetByOwner(ctx, ownerID)
		if err != nil {
			return nil, err
		}
		return cachedLookup[team.Team]{value: item, exists: exists}, nil
	})
	if err != nil {
		return team.Team{}, false, err
	}

	cached, _ := v.(cachedLookup[team.Team])
	return cached.value, cached.exists, nil
}

func (r *TeamRepository) Create(ctx context.Context, item team.Team) error {
	defer r.cache.DeletePrefix(ctx, teamPrefix)
	return r.next.Create(ctx, item)
}

func (r *TeamRepository) UpdateName(ctx context.Context, teamID, name string) (team.Team, error) {
	defer r.cache.DeletePrefix(ctx, teamPrefix)
	return r.next.UpdateName(ctx, teamID, name)
}

type cachedLookup[T any] struct {
	value  T
	exists bool
}
