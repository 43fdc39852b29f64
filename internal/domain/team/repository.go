package team

import "context"

// Repository describes team persistence needs from use cases.
type Repository interface {
	// List returns all teams ordered by name.
	List(ctx context.Context) ([]Team, error)
	GetByID(ctx context.Context, teamID string) (Team, bool, error)
	GetByOwner(ctx context.Context, ownerID string) (Team, bool, error)
	// Create fails with ErrOwnerTaken when the owner already has a team.
	Create(ctx context.Context, item Team) error
	UpdateName(ctx context.Context, teamID, name string) (Team, error)
}
