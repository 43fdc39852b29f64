package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/f1-fantasy/internal/infrastructure/repository/memory"
)

// BootstrapSeed loads the development grid, teams and first era into an empty
// database. It is a no-op once any team exists.
func BootstrapSeed(ctx context.Context, db *sqlx.DB) error {
	var count int
	if err := db.GetContext(ctx, &count, `SELECT COUNT(1) FROM teams`); err != nil {
		return fmt.Errorf("count teams for bootstrap seed: %w", err)
	}
	if count > 0 {
		return nil
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	exec := func(label, query string, arg map[string]any) error {
		sqlQuery, args, err := sqlx.Named(query, arg)
		if err != nil {
			return fmt.Errorf("bind seed %s query: %w", label, err)
		}
		sqlQuery = tx.Rebind(sqlQuery)
		if _, err := tx.ExecContext(ctx, sqlQuery, args...); err != nil {
			return fmt.Errorf("seed %s: %w", label, err)
		}
		return nil
	}

	for _, c := range memory.SeedConstructors() {
		if err := exec("constructor "+c.ID, `
INSERT INTO constructors (id, name, nationality)
VALUES (:id, :name, :nationality)
ON CONFLICT DO NOTHING`, map[string]any{
			"id":          c.ID,
			"name":        c.Name,
			"nationality": c.Nationality,
		}); err != nil {
			return err
		}
	}

	for _, d := range memory.SeedDrivers() {
		if err := exec("driver "+d.ID, `
INSERT INTO drivers (id, code, given_name, family_name, nationality, constructor_id, permanent_number)
VALUES (:id, :code, :given_name, :family_name, :nationality, :constructor_id, :permanent_number)
ON CONFLICT DO NOTHING`, map[string]any{
			"id":               d.ID,
			"code":             d.Code,
			"given_name":       d.GivenName,
			"family_name":      d.FamilyName,
			"nationality":      d.Nationality,
			"constructor_id":   nullString(d.ConstructorID),
			"permanent_number": d.PermanentNumber,
		}); err != nil {
			return err
		}
	}

	for _, t := range memory.SeedTeams() {
		if err := exec("team "+t.ID, `
INSERT INTO teams (id, name, owner_id, is_bot, created_at, updated_at)
VALUES (:id, :name, :owner_id, :is_bot, :created_at, :updated_at)
ON CONFLICT DO NOTHING`, map[string]any{
			"id":         t.ID,
			"name":       t.Name,
			"owner_id":   nullString(t.OwnerID),
			"is_bot":     t.IsBot,
			"created_at": t.CreatedAt.UTC(),
			"updated_at": t.UpdatedAt.UTC(),
		}); err != nil {
			return err
		}
	}

	for _, r := range memory.SeedRaces() {
		if err := exec(fmt.Sprintf("race %d", r.ID), `
INSERT INTO races (id, year, round, name, circuit, race_date, completed)
VALUES (:id, :year, :round, :name, :circuit, :race_date, :completed)
ON CONFLICT DO NOTHING`, map[string]any{
			"id":        r.ID,
			"year":      r.Year,
			"round":     r.Round,
			"name":      r.Name,
			"circuit":   r.Circuit,
			"race_date": dateOnly(r.Date),
			"completed": r.Completed,
		}); err != nil {
			return err
		}
	}

	for _, res := range memory.SeedResults() {
		if err := exec("result "+res.DriverID, `
INSERT INTO race_results (race_id, driver_id, constructor_id, session, position, points, status)
VALUES (:race_id, :driver_id, :constructor_id, :session, :position, :points, :status)
ON CONFLICT DO NOTHING`, map[string]any{
			"race_id":        res.RaceID,
			"driver_id":      res.DriverID,
			"constructor_id": nullString(res.ConstructorID),
			"session":        string(res.Session),
			"position":       res.Position,
			"points":         res.Points,
			"status":         res.Status,
		}); err != nil {
			return err
		}
	}

	for _, e := range memory.SeedEras() {
		if err := exec(e.Label, `
INSERT INTO eras (id, label, year, start_date, generation)
VALUES (:id, :label, :year, :start_date, :generation)
ON CONFLICT DO NOTHING`, map[string]any{
			"id":         e.ID,
			"label":      e.Label,
			"year":       e.Year,
			"start_date": dateOnly(e.StartDate),
			"generation": e.Generation,
		}); err != nil {
			return err
		}
	}

	for _, p := range memory.SeedBoard() {
		if err := exec(fmt.Sprintf("pick %d", p.Number), `
INSERT INTO draft_picks (era_id, pick_number, team_id)
VALUES (:era_id, :pick_number, :team_id)
ON CONFLICT DO NOTHING`, map[string]any{
			"era_id":      p.EraID,
			"pick_number": p.Number,
			"team_id":     p.TeamID,
		}); err != nil {
			return err
		}
	}

	// explicit ids leave the sequences behind
	for _, table := range []string{"races", "eras"} {
		query := fmt.Sprintf(`SELECT setval(pg_get_serial_sequence('%s', 'id'), COALESCE((SELECT MAX(id) FROM %s), 1))`, table, table)
		if _, err := tx.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("advance %s id sequence: %w", table, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit seed tx: %w", err)
	}

	return nil
}
