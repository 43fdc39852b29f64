package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/f1-fantasy/internal/domain/race"
	qb "github.com/riskibarqy/f1-fantasy/internal/platform/querybuilder"
)

var raceColumns = []string{"id", "year", "round", "name", "circuit", "race_date", "completed"}

type RaceRepository struct {
	db *sqlx.DB
}

func NewRaceRepository(db *sqlx.DB) *RaceRepository {
	return &RaceRepository{db: db}
}

// UpsertRaces never clears the completed flag of a stored race.
func (r *RaceRepository) UpsertRaces(ctx context.Context, items []race.Race) ([]race.Race, error) {
	if len(items) == 0 {
		return nil, nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx for race upsert: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	out := make([]race.Race, 0, len(items))
	for _, item := range items {
		query, args, err := qb.InsertInto("races").
			Columns("year", "round", "name", "circuit", "race_date", "completed").
			Values(item.Year, item.Round, item.Name, item.Circuit, dateOnly(item.Date), item.Completed).
			Suffix(`ON CONFLICT (year, round)
DO UPDATE SET
    name = EXCLUDED.name,
    circuit = EXCLUDED.circuit,
    race_date = EXCLUDED.race_date,
    completed = races.completed OR EXCLUDED.completed,
    updated_at = NOW()
RETURNING id, year, round, name, circuit, race_date, completed`).
			ToSQL()
		if err != nil {
			return nil, fmt.Errorf("build upsert race query: %w", err)
		}

		var row raceTableModel
		if err := tx.GetContext(ctx, &row, query, args...); err != nil {
			return nil, fmt.Errorf("upsert race year=%d round=%d: %w", item.Year, item.Round, err)
		}
		out = append(out, row.toDomain())
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit race upsert tx: %w", err)
	}
	return out, nil
}

func (r *RaceRepository) ListByYear(ctx context.Context, year int) ([]race.Race, error) {
	query, args, err := qb.Select(raceColumns...).From("races").Where(qb.Eq("year", year)).OrderBy("round").ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select races query: %w", err)
	}

	var rows []raceTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select races by year: %w", err)
	}

	out := make([]race.Race, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *RaceRepository) GetByID(ctx context.Context, id int64) (race.Race, bool, error) {
	query, args, err := qb.Select(raceColumns...).From("races").Where(qb.Eq("id", id)).ToSQL()
	if err != nil {
		return race.Race{}, false, fmt.Errorf("build select race query: %w", err)
	}

	var row raceTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return race.Race{}, false, nil
		}
		return race.Race{}, false, fmt.Errorf("get race: %w", err)
	}
	return row.toDomain(), true, nil
}

func (r *RaceRepository) ListUpcoming(ctx context.Context, day time.Time, limit int) ([]race.Race, error) {
	query, args, err := qb.Select(raceColumns...).
		From("races").
		Where(qb.Expr("race_date >= ?", dateOnly(day.UTC()))).
		OrderBy("race_date", "id").
		Limit(limit).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select upcoming races query: %w", err)
	}

	var rows []raceTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select upcoming races: %w", err)
	}

	out := make([]race.Race, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *RaceRepository) LastCompletedOnOrBefore(ctx context.Context, day time.Time) (race.Race, bool, error) {
	query, args, err := qb.Select(raceColumns...).
		From("races").
		Where(qb.Eq("completed", true), qb.Expr("race_date <= ?", dateOnly(day.UTC()))).
		OrderBy("race_date DESC", "id DESC").
		Limit(1).
		ToSQL()
	if err != nil {
		return race.Race{}, false, fmt.Errorf("build select last completed race query: %w", err)
	}

	var row raceTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return race.Race{}, false, nil
		}
		return race.Race{}, false, fmt.Errorf("select last completed race: %w", err)
	}
	return row.toDomain(), true, nil
}

func (r *RaceRepository) UpsertResults(ctx context.Context, items []race.Result) error {
	if len(items) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx for result upsert: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, item := range items {
		query, args, err := qb.InsertInto("race_results").
			Columns("race_id", "driver_id", "constructor_id", "session", "position", "points", "status").
			Values(item.RaceID, item.DriverID, nullString(item.ConstructorID), string(item.Session), item.Position, item.Points, item.Status).
			Suffix(`ON CONFLICT (race_id, driver_id, session)
DO UPDATE SET
    constructor_id = EXCLUDED.constructor_id,
    position = EXCLUDED.position,
    points = EXCLUDED.points,
    status = EXCLUDED.status`).
			ToSQL()
		if err != nil {
			return fmt.Errorf("build upsert result query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("upsert result race=%d driver=%s session=%s: %w", item.RaceID, item.DriverID, item.Session, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit result upsert tx: %w", err)
	}
	return nil
}

func (r *RaceRepository) ListResultsBetween(ctx context.Context, from, to time.Time) ([]race.Result, error) {
	const query = `
SELECT rr.race_id, r.year, r.round, r.race_date, rr.driver_id, rr.constructor_id,
       rr.session, rr.position, rr.points, rr.status
FROM race_results rr
JOIN races r ON r.id = rr.race_id
WHERE r.race_date BETWEEN $1 AND $2
ORDER BY r.race_date, rr.session, rr.position`

	var rows []raceResultRow
	if err := r.db.SelectContext(ctx, &rows, query, dateOnly(from.UTC()), dateOnly(to.UTC())); err != nil {
		return nil, fmt.Errorf("select results between dates: %w", err)
	}

	out := make([]race.Result, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *RaceRepository) ListResultsByRace(ctx context.Context, raceID int64) ([]race.Result, error) {
	const query = `
SELECT rr.race_id, r.year, r.round, r.race_date, rr.driver_id, rr.constructor_id,
       rr.session, rr.position, rr.points, rr.status
FROM race_results rr
JOIN races r ON r.id = rr.race_id
WHERE rr.race_id = $1`

	var rows []raceResultRow
	if err := r.db.SelectContext(ctx, &rows, query, raceID); err != nil {
		return nil, fmt.Errorf("select results of race %d: %w", raceID, err)
	}

	out := make([]race.Result, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	// session order is not alphabetical
	race.SortClassification(out)
	return out, nil
}
