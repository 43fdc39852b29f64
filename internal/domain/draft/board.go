package draft

import (
	"fmt"
	"sort"
)

// Board is the ordered pick sequence of one era.
type Board struct {
	EraID      int64
	Generation int64
	Picks      []Pick
}

func NewBoard(eraID, generation int64, picks []Pick) Board {
	ordered := append([]Pick(nil), picks...)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Number < ordered[j].Number
	})
	return Board{
		EraID:      eraID,
		Generation: generation,
		Picks:      ordered,
	}
}

// Current returns the lowest-numbered unresolved pick.
func (b Board) Current() (Pick, bool) {
	for _, pick := range b.Picks {
		if !pick.Resolved() {
			return pick, true
		}
	}
	return Pick{}, false
}

func (b Board) Pick(number int) (Pick, bool) {
	idx := sort.Search(len(b.Picks), func(i int) bool {
		return b.Picks[i].Number >= number
	})
	if idx < len(b.Picks) && b.Picks[idx].Number == number {
		return b.Picks[idx], true
	}
	return Pick{}, false
}

// Upcoming returns up to limit unresolved picks after the current one.
func (b Board) Upcoming(limit int) []Pick {
	current, ok := b.Current()
	if !ok || limit <= 0 {
		return nil
	}

	out := make([]Pick, 0, limit)
	for _, pick := range b.Picks {
		if pick.Number <= current.Number || pick.Resolved() {
			continue
		}
		out = append(out, pick)
		if len(out) == limit {
			break
		}
	}
	return out
}

func (b Board) Complete() bool {
	_, ok := b.Current()
	return !ok
}

func (b Board) ResolvedCount() int {
	count := 0
	for _, pick := range b.Picks {
		if pick.Resolved() {
			count++
		}
	}
	return count
}

// TeamCount is the number of distinct teams holding picks on the board.
func (b Board) TeamCount() int {
	seen := make(map[string]struct{})
	for _, pick := range b.Picks {
		seen[pick.TeamID] = struct{}{}
	}
	return len(seen)
}

// Taken reports whether the asset is already drafted on this board.
func (b Board) Taken(assetType AssetType, assetID string) (Pick, bool) {
	for _, pick := range b.Picks {
		t, id, ok := pick.Asset()
		if ok && t == assetType && id == assetID {
			return pick, true
		}
	}
	return Pick{}, false
}

// TakenIDs returns the drafted asset ids of one category.
func (b Board) TakenIDs(assetType AssetType) map[string]struct{} {
	out := make(map[string]struct{})
	for _, pick := range b.Picks {
		t, id, ok := pick.Asset()
		if ok && t == assetType {
			out[id] = struct{}{}
		}
	}
	return out
}

// Roster is what one team has drafted so far, in pick order.
type Roster struct {
	TeamID        string
	DriverIDs     []string
	ConstructorID string
}

func (r Roster) Count(assetType AssetType) int {
	switch assetType {
	case AssetDriver:
		return len(r.DriverIDs)
	case AssetConstructor:
		if r.ConstructorID != "" {
			return 1
		}
	}
	return 0
}

func (b Board) Roster(teamID string) Roster {
	roster := Roster{TeamID: teamID}
	for _, pick := range b.Picks {
		if pick.TeamID != teamID {
			continue
		}
		if pick.DriverID != "" {
			roster.DriverIDs = append(roster.DriverIDs, pick.DriverID)
		}
		if pick.ConstructorID != "" {
			roster.ConstructorID = pick.ConstructorID
		}
	}
	return roster
}

// Rosters groups resolved picks by owning team.
func (b Board) Rosters() map[string]Roster {
	out := make(map[string]Roster)
	for _, pick := range b.Picks {
		if _, ok := out[pick.TeamID]; ok {
			continue
		}
		out[pick.TeamID] = b.Roster(pick.TeamID)
	}
	return out
}

// ValidateCommit checks a commit against the board. The checks run in a fixed
// order and the first failure is returned.
func (b Board) ValidateCommit(c Commit, rules Rules) error {
	if c.Generation != 0 && c.Generation != b.Generation {
		return fmt.Errorf("%w: board generation is %d, request was for %d", ErrStaleTurn, b.Generation, c.Generation)
	}

	pick, ok := b.Pick(c.PickNumber)
	if !ok {
		return fmt.Errorf("%w: pick %d does not exist", ErrStaleTurn, c.PickNumber)
	}
	if pick.Resolved() {
		return fmt.Errorf("%w: pick %d is already resolved", ErrStaleTurn, c.PickNumber)
	}
	current, _ := b.Current()
	if current.Number != pick.Number {
		return fmt.Errorf("%w: current pick is %d", ErrStaleTurn, current.Number)
	}

	if pick.TeamID != c.TeamID {
		return fmt.Errorf("%w: pick %d belongs to team %s", ErrNotYourTurn, pick.Number, pick.TeamID)
	}

	if taken, ok := b.Taken(c.AssetType, c.AssetID); ok {
		return fmt.Errorf("%w: %s %s was drafted at pick %d", ErrAssetAlreadyTaken, c.AssetType, c.AssetID, taken.Number)
	}

	roster := b.Roster(c.TeamID)
	if roster.Count(c.AssetType) >= rules.Cap(c.AssetType) {
		return fmt.Errorf("%w: team %s already holds %d %s pick(s)", ErrRosterCapExceeded, c.TeamID, roster.Count(c.AssetType), c.AssetType)
	}

	return nil
}

// SelectAuto picks the first available asset the team still needs: drivers
// first, then the constructor, each in the given catalog order.
func (b Board) SelectAuto(teamID string, rules Rules, driverIDs, constructorIDs []string) (AssetType, string, error) {
	roster := b.Roster(teamID)

	if roster.Count(AssetDriver) < rules.DriverCap {
		taken := b.TakenIDs(AssetDriver)
		for _, id := range driverIDs {
			if _, ok := taken[id]; !ok {
				return AssetDriver, id, nil
			}
		}
	}
	if roster.Count(AssetConstructor) < rules.ConstructorCap {
		taken := b.TakenIDs(AssetConstructor)
		for _, id := range constructorIDs {
			if _, ok := taken[id]; !ok {
				return AssetConstructor, id, nil
			}
		}
	}

	return "", "", fmt.Errorf("%w: team %s has %d driver(s) and %d constructor(s), no eligible asset left",
		ErrNoLegalMoves, teamID, roster.Count(AssetDriver), roster.Count(AssetConstructor))
}
