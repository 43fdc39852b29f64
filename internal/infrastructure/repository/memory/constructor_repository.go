package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/riskibarqy/f1-fantasy/internal/domain/constructor"
)

type ConstructorRepository struct {
	mu   sync.RWMutex
	byID map[string]constructor.Constructor
}

func NewConstructorRepository(constructors []constructor.Constructor) *ConstructorRepository {
	byID := make(map[string]constructor.Constructor, len(constructors))
	for _, item := range constructors {
		byID[item.ID] = item
	}

	return &ConstructorRepository{byID: byID}
}

func (r *ConstructorRepository) List(_ context.Context) ([]constructor.Constructor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]constructor.Constructor, 0, len(r.byID))
	for _, item := range r.byID {
		out = append(out, item)
	}
	constructor.SortCatalog(out)

	return out, nil
}

func (r *ConstructorRepository) GetByID(_ context.Context, id string) (constructor.Constructor, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.byID[id]
	return item, ok, nil
}

// Upsert keys constructors by id. A renamed team overwrites its own row.
func (r *ConstructorRepository) Upsert(_ context.Context, items []constructor.Constructor) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, item := range items {
		id := strings.TrimSpace(item.ID)
		if id == "" {
			continue
		}
		item.ID = id
		item.Name = strings.TrimSpace(item.Name)
		r.byID[id] = item
	}

	return nil
}
