package draft

import (
	"fmt"
	"strings"
	"time"
)

// AssetType is the category of asset a pick resolves to.
type AssetType string

const (
	AssetDriver      AssetType = "driver"
	AssetConstructor AssetType = "constructor"
)

func ParseAssetType(raw string) (AssetType, error) {
	switch AssetType(strings.ToLower(strings.TrimSpace(raw))) {
	case AssetDriver:
		return AssetDriver, nil
	case AssetConstructor:
		return AssetConstructor, nil
	default:
		return "", fmt.Errorf("unknown asset type %q", raw)
	}
}

// Pick is one slot of the draft sequence of an era.
// An unresolved pick has both DriverID and ConstructorID empty.
type Pick struct {
	EraID         int64
	Number        int
	TeamID        string
	DriverID      string
	ConstructorID string
	PickedAt      *time.Time
}

func (p Pick) Resolved() bool {
	return p.DriverID != "" || p.ConstructorID != ""
}

// Asset returns the drafted asset of a resolved pick.
func (p Pick) Asset() (AssetType, string, bool) {
	switch {
	case p.DriverID != "":
		return AssetDriver, p.DriverID, true
	case p.ConstructorID != "":
		return AssetConstructor, p.ConstructorID, true
	default:
		return "", "", false
	}
}

// Commit is a request to resolve a pick with one asset.
type Commit struct {
	PickNumber int
	TeamID     string
	AssetType  AssetType
	AssetID    string
	// Generation fences the request to one board. Zero skips the check.
	Generation int64
}

func (c Commit) Validate() error {
	if c.PickNumber < 1 {
		return fmt.Errorf("pick number must be >= 1")
	}
	if strings.TrimSpace(c.TeamID) == "" {
		return fmt.Errorf("team id is required")
	}
	if c.AssetType != AssetDriver && c.AssetType != AssetConstructor {
		return fmt.Errorf("unknown asset type %q", c.AssetType)
	}
	if strings.TrimSpace(c.AssetID) == "" {
		return fmt.Errorf("asset id is required")
	}
	return nil
}

// Resolve returns a copy of pick resolved with the commit's asset.
func (c Commit) Resolve(pick Pick, at time.Time) Pick {
	pickedAt := at
	pick.PickedAt = &pickedAt
	switch c.AssetType {
	case AssetDriver:
		pick.DriverID = c.AssetID
	case AssetConstructor:
		pick.ConstructorID = c.AssetID
	}
	return pick
}

// ArchivedPick is a resolved pick preserved after its era closed.
type ArchivedPick struct {
	EraID         int64
	PickNumber    int
	TeamID        string
	DriverID      string
	ConstructorID string
	ArchivedAt    time.Time
}

// Rules caps how many assets of each category a team may hold per era.
type Rules struct {
	DriverCap      int
	ConstructorCap int
}

func DefaultRules() Rules {
	return Rules{
		DriverCap:      3,
		ConstructorCap: 1,
	}
}

func (r Rules) Cap(assetType AssetType) int {
	switch assetType {
	case AssetDriver:
		return r.DriverCap
	case AssetConstructor:
		return r.ConstructorCap
	default:
		return 0
	}
}

func (r Rules) RosterSize() int {
	return r.DriverCap + r.ConstructorCap
}
