package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/riskibarqy/f1-fantasy/internal/domain/draft"
	"github.com/riskibarqy/f1-fantasy/internal/domain/era"
)

// DraftRepository keeps eras, picks and the roster archive behind one lock so
// commits and resets serialize. It serves both draft.Repository and
// era.Repository.
type DraftRepository struct {
	mu        sync.RWMutex
	eras      []era.Era
	picks     map[int64][]draft.Pick
	archive   []draft.ArchivedPick
	nextEraID int64
}

func NewDraftRepository(eras []era.Era, picks []draft.Pick) *DraftRepository {
	r := &DraftRepository{
		picks:     make(map[int64][]draft.Pick),
		nextEraID: 1,
	}
	for _, item := range eras {
		if item.ID >= r.nextEraID {
			r.nextEraID = item.ID + 1
		}
		r.eras = append(r.eras, cloneEra(item))
	}
	for _, pick := range picks {
		r.picks[pick.EraID] = append(r.picks[pick.EraID], clonePick(pick))
	}
	return r
}

func (r *DraftRepository) ActiveBoard(_ context.Context) (draft.Board, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	idx := r.activeIndex()
	if idx < 0 {
		return draft.Board{}, false, nil
	}
	return r.boardLocked(idx), true, nil
}

func (r *DraftRepository) Commit(_ context.Context, c draft.Commit, rules draft.Rules, at time.Time) (draft.CommitResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.activeIndex()
	if idx < 0 {
		return draft.CommitResult{}, fmt.Errorf("%w: no active era", draft.ErrStaleTurn)
	}
	board := r.boardLocked(idx)
	if err := board.ValidateCommit(c, rules); err != nil {
		return draft.CommitResult{}, err
	}

	eraID := r.eras[idx].ID
	rows := r.picks[eraID]
	for i := range rows {
		if rows[i].Number != c.PickNumber {
			continue
		}
		rows[i] = c.Resolve(rows[i], at)
		return draft.CommitResult{
			Pick:       clonePick(rows[i]),
			Generation: r.eras[idx].Generation,
		}, nil
	}

	return draft.CommitResult{}, fmt.Errorf("%w: pick %d does not exist", draft.ErrStaleTurn, c.PickNumber)
}

func (r *DraftRepository) Reset(_ context.Context, plan draft.ResetPlan) (draft.ResetResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	result := draft.ResetResult{}
	eras := make([]era.Era, 0, len(r.eras)+1)
	for _, item := range r.eras {
		eras = append(eras, cloneEra(item))
	}
	archive := append([]draft.ArchivedPick(nil), r.archive...)
	nextEraID := r.nextEraID

	idx := r.activeIndex()
	oldEraID := int64(0)
	switch {
	case idx < 0:
		first := era.First(plan.Today)
		first.ID = nextEraID
		nextEraID++
		eras = append(eras, first)
		idx = len(eras) - 1
	case plan.Archive:
		current := eras[idx]
		oldEraID = current.ID
		for _, pick := range r.picks[current.ID] {
			if !pick.Resolved() {
				continue
			}
			archive = append(archive, draft.ArchivedPick{
				EraID:         current.ID,
				PickNumber:    pick.Number,
				TeamID:        pick.TeamID,
				DriverID:      pick.DriverID,
				ConstructorID: pick.ConstructorID,
				ArchivedAt:    plan.At,
			})
			result.Archived++
		}

		closed, next := era.Rollover(current, len(eras), plan.CloseOn)
		closedCopy := cloneEra(closed)
		result.ClosedEra = &closedCopy
		eras[idx] = closed
		next.ID = nextEraID
		nextEraID++
		eras = append(eras, next)
		idx = len(eras) - 1
	}

	target := eras[idx]
	target.Generation++
	eras[idx] = target

	picks := make([]draft.Pick, 0, len(plan.Picks))
	for _, pick := range plan.Picks {
		if pick.Number != len(picks)+1 {
			return draft.ResetResult{}, fmt.Errorf("pick numbers must be dense, got %d at position %d", pick.Number, len(picks)+1)
		}
		picks = append(picks, draft.Pick{
			EraID:  target.ID,
			Number: pick.Number,
			TeamID: pick.TeamID,
		})
	}

	r.eras = eras
	r.archive = archive
	r.nextEraID = nextEraID
	if oldEraID != 0 {
		delete(r.picks, oldEraID)
	}
	r.picks[target.ID] = picks

	result.Era = cloneEra(target)
	result.TotalPicks = len(picks)
	return result, nil
}

func (r *DraftRepository) ListArchive(_ context.Context, eraID int64) ([]draft.ArchivedPick, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]draft.ArchivedPick, 0)
	for _, item := range r.archive {
		if item.EraID == eraID {
			out = append(out, item)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].PickNumber < out[j].PickNumber
	})
	return out, nil
}

func (r *DraftRepository) GetActive(_ context.Context) (era.Era, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	idx := r.activeIndex()
	if idx < 0 {
		return era.Era{}, false, nil
	}
	return cloneEra(r.eras[idx]), true, nil
}

func (r *DraftRepository) GetByID(_ context.Context, id int64) (era.Era, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, item := range r.eras {
		if item.ID == id {
			return cloneEra(item), true, nil
		}
	}
	return era.Era{}, false, nil
}

func (r *DraftRepository) List(_ context.Context) ([]era.Era, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]era.Era, 0, len(r.eras))
	for _, item := range r.eras {
		out = append(out, cloneEra(item))
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].StartDate.Equal(out[j].StartDate) {
			return out[i].StartDate.After(out[j].StartDate)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (r *DraftRepository) activeIndex() int {
	for i, item := range r.eras {
		if item.Active() {
			return i
		}
	}
	return -1
}

func (r *DraftRepository) boardLocked(idx int) draft.Board {
	item := r.eras[idx]
	rows := r.picks[item.ID]
	picks := make([]draft.Pick, 0, len(rows))
	for _, pick := range rows {
		picks = append(picks, clonePick(pick))
	}
	return draft.NewBoard(item.ID, item.Generation, picks)
}

func clonePick(p draft.Pick) draft.Pick {
	copied := p
	if p.PickedAt != nil {
		at := *p.PickedAt
		copied.PickedAt = &at
	}
	return copied
}

func cloneEra(e era.Era) era.Era {
	copied := e
	if e.EndDate != nil {
		end := *e.EndDate
		copied.EndDate = &end
	}
	return copied
}
