package cache

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/singleflight"
)

// Stats counts lookups since the store was created.
type Stats struct {
	Hits   uint64
	Misses uint64
	Loads  uint64
}

type item struct {
	value   any
	expires time.Time
}

func (i item) expired(now time.Time) bool {
	return !i.expires.IsZero() && !now.Before(i.expires)
}

// Store is an in-process TTL map shared by the catalog, team and principal
// caches. Concurrent loads of one key run once. A zero TTL never expires.
type Store struct {
	ttl    time.Duration
	clock  clockwork.Clock
	flight singleflight.Group

	mu    sync.RWMutex
	items map[string]item

	hits   atomic.Uint64
	misses atomic.Uint64
	loads  atomic.Uint64
}

func NewStore(ttl time.Duration) *Store {
	return &Store{
		ttl:   ttl,
		clock: clockwork.NewRealClock(),
		items: make(map[string]item),
	}
}

// WithClock swaps the time source. Tests pass a fake clock.
func (s *Store) WithClock(clock clockwork.Clock) *Store {
	if clock != nil {
		s.clock = clock
	}
	return s
}

func (s *Store) Stats() Stats {
	return Stats{Hits: s.hits.Load(), Misses: s.misses.Load(), Loads: s.loads.Load()}
}

func (s *Store) Get(_ context.Context, key string) (any, bool) {
	if key == "" {
		return nil, false
	}

	s.mu.RLock()
	it, ok := s.items[key]
	s.mu.RUnlock()

	if ok && it.expired(s.clock.Now()) {
		s.mu.Lock()
		// a concurrent Set may have refreshed the key meanwhile
		if cur, still := s.items[key]; still && cur.expired(s.clock.Now()) {
			delete(s.items, key)
		}
		s.mu.Unlock()
		ok = false
	}
	if !ok {
		s.misses.Add(1)
		return nil, false
	}
	s.hits.Add(1)
	return it.value, true
}

func (s *Store) Set(_ context.Context, key string, value any) {
	if key == "" {
		return
	}
	it := item{value: value}
	if s.ttl > 0 {
		it.expires = s.clock.Now().Add(s.ttl)
	}

	s.mu.Lock()
	s.items[key] = it
	s.mu.Unlock()
}

func (s *Store) Delete(_ context.Context, keys ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, key := range keys {
		delete(s.items, key)
	}
}

func (s *Store) DeletePrefix(_ context.Context, prefix string) {
	if prefix == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for key := range s.items {
		if strings.HasPrefix(key, prefix) {
			delete(s.items, key)
		}
	}
}

// GetOrLoad returns the cached value of key, loading it at most once across
// concurrent callers. Load errors are returned to every waiter and not cached.
func (s *Store) GetOrLoad(ctx context.Context, key string, loader func(context.Context) (any, error)) (any, error) {
	if loader == nil {
		return nil, fmt.Errorf("loader is required")
	}
	if key == "" {
		return loader(ctx)
	}
	if value, ok := s.Get(ctx, key); ok {
		return value, nil
	}

	value, err, _ := s.flight.Do(key, func() (any, error) {
		if cached, ok := s.Get(ctx, key); ok {
			return cached, nil
		}
		s.loads.Add(1)
		loaded, err := loader(ctx)
		if err != nil {
			return nil, err
		}
		s.Set(ctx, key, loaded)
		return loaded, nil
	})
	return value, err
}
