package driver

import "context"

// Repository describes driver persistence needs from use cases.
type Repository interface {
	// List returns the catalog in catalog order.
	List(ctx context.Context) ([]Driver, error)
	GetByID(ctx context.Context, id string) (Driver, bool, error)
	// Upsert inserts or updates drivers keyed by id.
	Upsert(ctx context.Context, items []Driver) error
}
