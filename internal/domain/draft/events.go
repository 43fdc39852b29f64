package draft

import (
	"context"
	"time"
)

const (
	EventPickCommitted = "pick_committed"
	EventRoundStarted  = "round_started"
)

// PickCommitted is emitted once a pick has been resolved.
type PickCommitted struct {
	EraID      int64     `json:"era_id"`
	Generation int64     `json:"generation"`
	PickNumber int       `json:"pick_number"`
	TeamID     string    `json:"team_id"`
	AssetType  AssetType `json:"asset_type"`
	AssetID    string    `json:"asset_id"`
	PickedAt   time.Time `json:"picked_at"`
	Auto       bool      `json:"auto"`
}

// RoundStarted is emitted once a board has been regenerated.
type RoundStarted struct {
	EraID      int64 `json:"era_id"`
	Generation int64 `json:"generation"`
	TotalPicks int   `json:"total_picks"`
	Archived   int   `json:"archived"`
}

// EventPublisher delivers draft events to subscribers. Delivery is best effort.
type EventPublisher interface {
	PublishPickCommitted(ctx context.Context, event PickCommitted) error
	PublishRoundStarted(ctx context.Context, event RoundStarted) error
}

type NopPublisher struct{}

func (NopPublisher) PublishPickCommitted(context.Context, PickCommitted) error { return nil }

func (NopPublisher) PublishRoundStarted(context.Context, RoundStarted) error { return nil }
