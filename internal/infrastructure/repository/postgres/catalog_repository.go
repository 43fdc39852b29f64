package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/f1-fantasy/internal/domain/constructor"
	"github.com/riskibarqy/f1-fantasy/internal/domain/driver"
	qb "github.com/riskibarqy/f1-fantasy/internal/platform/querybuilder"
)

var (
	driverColumns      = []string{"id", "code", "given_name", "family_name", "nationality", "constructor_id", "permanent_number"}
	constructorColumns = []string{"id", "name", "nationality"}
)

type DriverRepository struct {
	db *sqlx.DB
}

func NewDriverRepository(db *sqlx.DB) *DriverRepository {
	return &DriverRepository{db: db}
}

func (r *DriverRepository) List(ctx context.Context) ([]driver.Driver, error) {
	query, args, err := qb.Select(driverColumns...).
		From("drivers").
		OrderBy("family_name", "given_name", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select drivers query: %w", err)
	}

	var rows []driverTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select drivers: %w", err)
	}

	out := make([]driver.Driver, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	// collation may differ from byte order
	driver.SortCatalog(out)
	return out, nil
}

func (r *DriverRepository) GetByID(ctx context.Context, id string) (driver.Driver, bool, error) {
	query, args, err := qb.Select(driverColumns...).From("drivers").Where(qb.Eq("id", id)).ToSQL()
	if err != nil {
		return driver.Driver{}, false, fmt.Errorf("build select driver query: %w", err)
	}

	var row driverTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return driver.Driver{}, false, nil
		}
		return driver.Driver{}, false, fmt.Errorf("get driver: %w", err)
	}
	return row.toDomain(), true, nil
}

// Upsert keys drivers by id. Code and names are refreshed on every write.
func (r *DriverRepository) Upsert(ctx context.Context, items []driver.Driver) error {
	if len(items) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx for driver upsert: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, item := range items {
		id := strings.TrimSpace(item.ID)
		if id == "" {
			continue
		}
		model := driverTableModel{
			ID:              id,
			Code:            strings.ToUpper(strings.TrimSpace(item.Code)),
			GivenName:       item.GivenName,
			FamilyName:      item.FamilyName,
			Nationality:     item.Nationality,
			ConstructorID:   nullString(item.ConstructorID),
			PermanentNumber: item.PermanentNumber,
		}
		query, args, err := qb.InsertModel("drivers", model, `ON CONFLICT (id)
DO UPDATE SET
    code = EXCLUDED.code,
    given_name = EXCLUDED.given_name,
    family_name = EXCLUDED.family_name,
    nationality = EXCLUDED.nationality,
    constructor_id = EXCLUDED.constructor_id,
    permanent_number = EXCLUDED.permanent_number,
    updated_at = NOW()`)
		if err != nil {
			return fmt.Errorf("build upsert driver query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("upsert driver id=%s: %w", id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit driver upsert tx: %w", err)
	}
	return nil
}

type ConstructorRepository struct {
	db *sqlx.DB
}

func NewConstructorRepository(db *sqlx.DB) *ConstructorRepository {
	return &ConstructorRepository{db: db}
}

func (r *ConstructorRepository) List(ctx context.Context) ([]constructor.Constructor, error) {
	query, args, err := qb.Select(constructorColumns...).From("constructors").OrderBy("name", "id").ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select constructors query: %w", err)
	}

	var rows []constructorTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select constructors: %w", err)
	}

	out := make([]constructor.Constructor, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	constructor.SortCatalog(out)
	return out, nil
}

func (r *ConstructorRepository) GetByID(ctx context.Context, id string) (constructor.Constructor, bool, error) {
	query, args, err := qb.Select(constructorColumns...).From("constructors").Where(qb.Eq("id", id)).ToSQL()
	if err != nil {
		return constructor.Constructor{}, false, fmt.Errorf("build select constructor query: %w", err)
	}

	var row constructorTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return constructor.Constructor{}, false, nil
		}
		return constructor.Constructor{}, false, fmt.Errorf("get constructor: %w", err)
	}
	return row.toDomain(), true, nil
}

// Upsert keys constructors by id. A renamed team overwrites its own row.
func (r *ConstructorRepository) Upsert(ctx context.Context, items []constructor.Constructor) error {
	if len(items) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx for constructor upsert: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, item := range items {
		id := strings.TrimSpace(item.ID)
		if id == "" {
			continue
		}
		model := constructorTableModel{ID: id, Name: strings.TrimSpace(item.Name), Nationality: item.Nationality}
		query, args, err := qb.InsertModel("constructors", model, `ON CONFLICT (id)
DO UPDATE SET
    name = EXCLUDED.name,
    nationality = EXCLUDED.nationality,
    updated_at = NOW()`)
		if err != nil {
			return fmt.Errorf("build upsert constructor query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("upsert constructor id=%s: %w", id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit constructor upsert tx: %w", err)
	}
	return nil
}
