package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/riskibarqy/f1-fantasy/internal/domain/driver"
)

type DriverRepository struct {
	mu   sync.RWMutex
	byID map[string]driver.Driver
}

func NewDriverRepository(drivers []driver.Driver) *DriverRepository {
	byID := make(map[string]driver.Driver, len(drivers))
	for _, item := range drivers {
		byID[item.ID] = item
	}

	return &DriverRepository{byID: byID}
}

func (r *DriverRepository) List(_ context.Context) ([]driver.Driver, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]driver.Driver, 0, len(r.byID))
	for _, item := range r.byID {
		out = append(out, item)
	}
	driver.SortCatalog(out)

	return out, nil
}

func (r *DriverRepository) GetByID(_ context.Context, id string) (driver.Driver, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.byID[id]
	return item, ok, nil
}

// Upsert keys drivers by id. Code and names are plain attributes.
func (r *DriverRepository) Upsert(_ context.Context, items []driver.Driver) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, item := range items {
		id := strings.TrimSpace(item.ID)
		if id == "" {
			continue
		}
		item.ID = id
		item.Code = strings.ToUpper(strings.TrimSpace(item.Code))
		r.byID[id] = item
	}

	return nil
}
