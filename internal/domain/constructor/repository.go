package constructor

import "context"

type Repository interface {
	List(ctx context.Context) ([]Constructor, error)
	GetByID(ctx context.Context, id string) (Constructor, bool, error)
	// Upsert inserts or updates constructors keyed by id.
	Upsert(ctx context.Context, items []Constructor) error
}
