package era

import "context"

// Repository describes era persistence needs from use cases.
type Repository interface {
	GetActive(ctx context.Context) (Era, bool, error)
	GetByID(ctx context.Context, id int64) (Era, bool, error)
	// List returns every era, newest first.
	List(ctx context.Context) ([]Era, error)
}
