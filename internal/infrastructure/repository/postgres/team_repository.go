package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/f1-fantasy/internal/domain/team"
	qb "github.com/riskibarqy/f1-fantasy/internal/platform/querybuilder"
)

var teamColumns = []string{"id", "name", "owner_id", "is_bot", "created_at", "updated_at"}

type TeamRepository struct {
	db *sqlx.DB
}

func NewTeamRepository(db *sqlx.DB) *TeamRepository {
	return &TeamRepository{db: db}
}

func (r *TeamRepository) List(ctx context.Context) ([]team.Team, error) {
	query, args, err := qb.Select(teamColumns...).From("teams").OrderBy("name", "id").ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select teams query: %w", err)
	}

	var rows []teamTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select teams: %w", err)
	}

	out := make([]team.Team, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *TeamRepository) GetByID(ctx context.Context, teamID string) (team.Team, bool, error) {
	return r.getBy(ctx, "id", teamID)
}

func (r *TeamRepository) GetByOwner(ctx context.Context, ownerID string) (team.Team, bool, error) {
	ownerID = strings.TrimSpace(ownerID)
	if ownerID == "" {
		return team.Team{}, false, nil
	}
	return r.getBy(ctx, "owner_id", ownerID)
}

func (r *TeamRepository) getBy(ctx context.Context, column, value string) (team.Team, bool, error) {
	query, args, err := qb.Select(teamColumns...).From("teams").Where(qb.Eq(column, value)).ToSQL()
	if err != nil {
		return team.Team{}, false, fmt.Errorf("build select team query: %w", err)
	}

	var row teamTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return team.Team{}, false, nil
		}
		return team.Team{}, false, fmt.Errorf("get team by %s: %w", column, err)
	}
	return row.toDomain(), true, nil
}

func (r *TeamRepository) Create(ctx context.Context, item team.Team) error {
	model := teamTableModel{
		ID:        item.ID,
		Name:      item.Name,
		OwnerID:   nullString(item.OwnerID),
		IsBot:     item.IsBot,
		CreatedAt: item.CreatedAt.UTC(),
		UpdatedAt: item.UpdatedAt.UTC(),
	}
	query, args, err := qb.InsertModel("teams", model, "")
	if err != nil {
		return fmt.Errorf("build insert team query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		if uniqueViolationOn(err, "teams_owner_uidx") {
			return fmt.Errorf("%w: owner=%s", team.ErrOwnerTaken, item.OwnerID)
		}
		return fmt.Errorf("insert team: %w", err)
	}
	return nil
}

func (r *TeamRepository) UpdateName(ctx context.Context, teamID, name string) (team.Team, error) {
	query, args, err := qb.Update("teams").
		Set("name", name).
		SetExpr("updated_at", "NOW()").
		Where(qb.Eq("id", teamID)).
		Suffix("RETURNING " + strings.Join(teamColumns, ", ")).
		ToSQL()
	if err != nil {
		return team.Team{}, fmt.Errorf("build update team name query: %w", err)
	}

	var row teamTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return team.Team{}, fmt.Errorf("team %s not found", teamID)
		}
		return team.Team{}, fmt.Errorf("update team name: %w", err)
	}
	return row.toDomain(), nil
}
