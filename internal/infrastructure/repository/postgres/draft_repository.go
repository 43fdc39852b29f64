package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/f1-fantasy/internal/domain/draft"
	"github.com/riskibarqy/f1-fantasy/internal/domain/era"
	qb "github.com/riskibarqy/f1-fantasy/internal/platform/querybuilder"
)

const (
	driverUniqueIndex      = "draft_picks_era_driver_uidx"
	constructorUniqueIndex = "draft_picks_era_constructor_uidx"
)

var (
	eraColumns  = []string{"id", "label", "year", "start_date", "end_date", "generation"}
	pickColumns = []string{"era_id", "pick_number", "team_id", "driver_id", "constructor_id", "picked_at"}
)

// DraftRepository stores eras, draft picks and the roster archive. Commit and
// Reset both lock the active era row, so they never interleave.
type DraftRepository struct {
	db *sqlx.DB
}

func NewDraftRepository(db *sqlx.DB) *DraftRepository {
	return &DraftRepository{db: db}
}

func (r *DraftRepository) ActiveBoard(ctx context.Context) (draft.Board, bool, error) {
	tx, err := r.db.BeginTxx(ctx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true})
	if err != nil {
		return draft.Board{}, false, fmt.Errorf("begin tx for active board: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	active, ok, err := selectActiveEra(ctx, tx, false)
	if err != nil || !ok {
		return draft.Board{}, false, err
	}
	picks, err := selectPicks(ctx, tx, active.ID)
	if err != nil {
		return draft.Board{}, false, err
	}
	if err := tx.Commit(); err != nil {
		return draft.Board{}, false, fmt.Errorf("commit active board tx: %w", err)
	}

	return draft.NewBoard(active.ID, active.Generation, picks), true, nil
}

func (r *DraftRepository) Commit(ctx context.Context, c draft.Commit, rules draft.Rules, at time.Time) (draft.CommitResult, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return draft.CommitResult{}, fmt.Errorf("begin tx for commit pick: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	active, ok, err := selectActiveEra(ctx, tx, true)
	if err != nil {
		return draft.CommitResult{}, err
	}
	if !ok {
		return draft.CommitResult{}, fmt.Errorf("%w: no active era", draft.ErrStaleTurn)
	}

	picks, err := selectPicks(ctx, tx, active.ID)
	if err != nil {
		return draft.CommitResult{}, err
	}
	board := draft.NewBoard(active.ID, active.Generation, picks)
	if err := board.ValidateCommit(c, rules); err != nil {
		return draft.CommitResult{}, err
	}

	pick, _ := board.Pick(c.PickNumber)
	resolved := c.Resolve(pick, at.UTC())

	query, args, err := qb.Update("draft_picks").
		Set("driver_id", nullString(resolved.DriverID)).
		Set("constructor_id", nullString(resolved.ConstructorID)).
		Set("picked_at", nullTime(resolved.PickedAt)).
		Where(
			qb.Eq("era_id", active.ID),
			qb.Eq("pick_number", c.PickNumber),
			qb.IsNull("driver_id"),
			qb.IsNull("constructor_id"),
		).
		ToSQL()
	if err != nil {
		return draft.CommitResult{}, fmt.Errorf("build commit pick query: %w", err)
	}

	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		if uniqueViolationOn(err, driverUniqueIndex, constructorUniqueIndex) {
			return draft.CommitResult{}, fmt.Errorf("%w: %s %s", draft.ErrAssetAlreadyTaken, c.AssetType, c.AssetID)
		}
		return draft.CommitResult{}, fmt.Errorf("commit pick: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return draft.CommitResult{}, fmt.Errorf("commit pick rows affected: %w", err)
	}
	if affected == 0 {
		return draft.CommitResult{}, fmt.Errorf("%w: pick %d was resolved concurrently", draft.ErrStaleTurn, c.PickNumber)
	}

	if err := tx.Commit(); err != nil {
		return draft.CommitResult{}, fmt.Errorf("commit pick tx: %w", err)
	}

	return draft.CommitResult{Pick: resolved, Generation: active.Generation}, nil
}

func (r *DraftRepository) Reset(ctx context.Context, plan draft.ResetPlan) (draft.ResetResult, error) {
	for i, pick := range plan.Picks {
		if pick.Number != i+1 {
			return draft.ResetResult{}, fmt.Errorf("pick numbers must be dense, got %d at position %d", pick.Number, i+1)
		}
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return draft.ResetResult{}, fmt.Errorf("begin tx for draft reset: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	result := draft.ResetResult{}
	active, ok, err := selectActiveEra(ctx, tx, true)
	if err != nil {
		return draft.ResetResult{}, err
	}

	var target era.Era
	switch {
	case !ok:
		target, err = insertEra(ctx, tx, era.First(plan.Today))
		if err != nil {
			return draft.ResetResult{}, err
		}
	case plan.Archive:
		archived, err := archivePicks(ctx, tx, active.ID, plan.At)
		if err != nil {
			return draft.ResetResult{}, err
		}
		result.Archived = archived

		var count int
		if err := tx.GetContext(ctx, &count, `SELECT COUNT(1) FROM eras`); err != nil {
			return draft.ResetResult{}, fmt.Errorf("count eras: %w", err)
		}

		closed, next := era.Rollover(active, count, plan.CloseOn)
		query, args, err := qb.Update("eras").
			Set("end_date", *closed.EndDate).
			Where(qb.Eq("id", closed.ID)).
			ToSQL()
		if err != nil {
			return draft.ResetResult{}, fmt.Errorf("build close era query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return draft.ResetResult{}, fmt.Errorf("close era %d: %w", closed.ID, err)
		}
		if err := deletePicks(ctx, tx, closed.ID); err != nil {
			return draft.ResetResult{}, err
		}
		result.ClosedEra = &closed

		target, err = insertEra(ctx, tx, next)
		if err != nil {
			return draft.ResetResult{}, err
		}
	default:
		target = active
	}

	if err := deletePicks(ctx, tx, target.ID); err != nil {
		return draft.ResetResult{}, err
	}

	query, args, err := qb.Update("eras").
		SetExpr("generation", "generation + 1").
		Where(qb.Eq("id", target.ID)).
		Suffix("RETURNING generation").
		ToSQL()
	if err != nil {
		return draft.ResetResult{}, fmt.Errorf("build bump generation query: %w", err)
	}
	if err := tx.GetContext(ctx, &target.Generation, query, args...); err != nil {
		return draft.ResetResult{}, fmt.Errorf("bump era generation: %w", err)
	}

	if len(plan.Picks) > 0 {
		insert := qb.InsertInto("draft_picks").Columns("era_id", "pick_number", "team_id")
		for _, pick := range plan.Picks {
			insert.Values(target.ID, pick.Number, pick.TeamID)
		}
		query, args, err := insert.ToSQL()
		if err != nil {
			return draft.ResetResult{}, fmt.Errorf("build insert picks query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return draft.ResetResult{}, fmt.Errorf("insert draft picks: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return draft.ResetResult{}, fmt.Errorf("commit draft reset tx: %w", err)
	}

	result.Era = target
	result.TotalPicks = len(plan.Picks)
	return result, nil
}

func (r *DraftRepository) ListArchive(ctx context.Context, eraID int64) ([]draft.ArchivedPick, error) {
	query, args, err := qb.Select("era_id", "pick_number", "team_id", "driver_id", "constructor_id", "archived_at").
		From("roster_archive").
		Where(qb.Eq("era_id", eraID)).
		OrderBy("pick_number").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select roster archive query: %w", err)
	}

	var rows []rosterArchiveTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select roster archive: %w", err)
	}

	out := make([]draft.ArchivedPick, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *DraftRepository) GetActive(ctx context.Context) (era.Era, bool, error) {
	return selectActiveEra(ctx, r.db, false)
}

func (r *DraftRepository) GetByID(ctx context.Context, id int64) (era.Era, bool, error) {
	query, args, err := qb.Select(eraColumns...).From("eras").Where(qb.Eq("id", id)).ToSQL()
	if err != nil {
		return era.Era{}, false, fmt.Errorf("build select era query: %w", err)
	}

	var row eraTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return era.Era{}, false, nil
		}
		return era.Era{}, false, fmt.Errorf("get era %d: %w", id, err)
	}
	return row.toDomain(), true, nil
}

func (r *DraftRepository) List(ctx context.Context) ([]era.Era, error) {
	query, args, err := qb.Select(eraColumns...).From("eras").OrderBy("start_date DESC", "id DESC").ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select eras query: %w", err)
	}

	var rows []eraTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select eras: %w", err)
	}

	out := make([]era.Era, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func selectActiveEra(ctx context.Context, q sqlx.QueryerContext, lock bool) (era.Era, bool, error) {
	builder := qb.Select(eraColumns...).From("eras").Where(qb.IsNull("end_date"))
	if lock {
		builder.ForUpdate()
	}
	query, args, err := builder.ToSQL()
	if err != nil {
		return era.Era{}, false, fmt.Errorf("build select active era query: %w", err)
	}

	var row eraTableModel
	if err := sqlx.GetContext(ctx, q, &row, query, args...); err != nil {
		if isNotFound(err) {
			return era.Era{}, false, nil
		}
		return era.Era{}, false, fmt.Errorf("select active era: %w", err)
	}
	return row.toDomain(), true, nil
}

func selectPicks(ctx context.Context, q sqlx.QueryerContext, eraID int64) ([]draft.Pick, error) {
	query, args, err := qb.Select(pickColumns...).
		From("draft_picks").
		Where(qb.Eq("era_id", eraID)).
		OrderBy("pick_number").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select draft picks query: %w", err)
	}

	var rows []draftPickTableModel
	if err := sqlx.SelectContext(ctx, q, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select draft picks: %w", err)
	}

	out := make([]draft.Pick, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func insertEra(ctx context.Context, tx *sqlx.Tx, item era.Era) (era.Era, error) {
	query, args, err := qb.InsertInto("eras").
		Columns("label", "year", "start_date", "generation").
		Values(item.Label, item.Year, item.StartDate, item.Generation).
		Suffix("RETURNING id").
		ToSQL()
	if err != nil {
		return era.Era{}, fmt.Errorf("build insert era query: %w", err)
	}
	if err := tx.GetContext(ctx, &item.ID, query, args...); err != nil {
		return era.Era{}, fmt.Errorf("insert era %q: %w", item.Label, err)
	}
	return item, nil
}

func archivePicks(ctx context.Context, tx *sqlx.Tx, eraID int64, at time.Time) (int, error) {
	const query = `
INSERT INTO roster_archive (era_id, team_id, pick_number, driver_id, constructor_id, archived_at)
SELECT era_id, team_id, pick_number, driver_id, constructor_id, $2
FROM draft_picks
WHERE era_id = $1
  AND (driver_id IS NOT NULL OR constructor_id IS NOT NULL)
ORDER BY pick_number`

	res, err := tx.ExecContext(ctx, query, eraID, at.UTC())
	if err != nil {
		return 0, fmt.Errorf("archive picks of era %d: %w", eraID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("archive picks rows affected: %w", err)
	}
	return int(affected), nil
}

func deletePicks(ctx context.Context, tx *sqlx.Tx, eraID int64) error {
	query, args, err := qb.DeleteFrom("draft_picks").Where(qb.Eq("era_id", eraID)).ToSQL()
	if err != nil {
		return fmt.Errorf("build delete draft picks query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete draft picks of era %d: %w", eraID, err)
	}
	return nil
}
