package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/riskibarqy/f1-fantasy/internal/domain/team"
)

type TeamRepository struct {
	mu    sync.RWMutex
	teams map[string]team.Team
	now   func() time.Time
}

func NewTeamRepository(teams []team.Team) *TeamRepository {
	items := make(map[string]team.Team, len(teams))
	for _, item := range teams {
		items[item.ID] = item
	}

	return &TeamRepository{teams: items, now: time.Now}
}

func (r *TeamRepository) List(_ context.Context) ([]team.Team, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]team.Team, 0, len(r.teams))
	for _, item := range r.teams {
		out = append(out, item)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})

	return out, nil
}

func (r *TeamRepository) GetByID(_ context.Context, teamID string) (team.Team, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.teams[teamID]
	return item, ok, nil
}

func (r *TeamRepository) GetByOwner(_ context.Context, ownerID string) (team.Team, bool, error) {
	ownerID = strings.TrimSpace(ownerID)
	if ownerID == "" {
		return team.Team{}, false, nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, item := range r.teams {
		if item.OwnerID == ownerID {
			return item, true, nil
		}
	}
	return team.Team{}, false, nil
}

func (r *TeamRepository) Create(_ context.Context, item team.Team) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.teams[item.ID]; exists {
		return fmt.Errorf("team %s already exists", item.ID)
	}
	if item.OwnerID != "" {
		for _, existing := range r.teams {
			if existing.OwnerID == item.OwnerID {
				return fmt.Errorf("%w: owner=%s", team.ErrOwnerTaken, item.OwnerID)
			}
		}
	}
	r.teams[item.ID] = item

	return nil
}

func (r *TeamRepository) UpdateName(_ context.Context, teamID, name string) (team.Team, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.teams[teamID]
	if !ok {
		return team.Team{}, fmt.Errorf("team %s not found", teamID)
	}
	item.Name = name
	item.UpdatedAt = r.now().UTC()
	r.teams[teamID] = item

	return item, nil
}
