package postgres

import (
	"database/sql"
	"time"

	"github.com/riskibarqy/f1-fantasy/internal/domain/constructor"
	"github.com/riskibarqy/f1-fantasy/internal/domain/draft"
	"github.com/riskibarqy/f1-fantasy/internal/domain/driver"
	"github.com/riskibarqy/f1-fantasy/internal/domain/era"
	"github.com/riskibarqy/f1-fantasy/internal/domain/race"
	"github.com/riskibarqy/f1-fantasy/internal/domain/team"
)

type teamTableModel struct {
	ID        string         `db:"id"`
	Name      string         `db:"name"`
	OwnerID   sql.NullString `db:"owner_id"`
	IsBot     bool           `db:"is_bot"`
	CreatedAt time.Time      `db:"created_at"`
	UpdatedAt time.Time      `db:"updated_at"`
}

func (m teamTableModel) toDomain() team.Team {
	return team.Team{
		ID:        m.ID,
		Name:      m.Name,
		OwnerID:   m.OwnerID.String,
		IsBot:     m.IsBot,
		CreatedAt: m.CreatedAt.UTC(),
		UpdatedAt: m.UpdatedAt.UTC(),
	}
}

type driverTableModel struct {
	ID              string         `db:"id"`
	Code            string         `db:"code"`
	GivenName       string         `db:"given_name"`
	FamilyName      string         `db:"family_name"`
	Nationality     string         `db:"nationality"`
	ConstructorID   sql.NullString `db:"constructor_id"`
	PermanentNumber int            `db:"permanent_number"`
}

func (m driverTableModel) toDomain() driver.Driver {
	return driver.Driver{
		ID:              m.ID,
		Code:            m.Code,
		GivenName:       m.GivenName,
		FamilyName:      m.FamilyName,
		Nationality:     m.Nationality,
		ConstructorID:   m.ConstructorID.String,
		PermanentNumber: m.PermanentNumber,
	}
}

type constructorTableModel struct {
	ID          string `db:"id"`
	Name        string `db:"name"`
	Nationality string `db:"nationality"`
}

func (m constructorTableModel) toDomain() constructor.Constructor {
	return constructor.Constructor{ID: m.ID, Name: m.Name, Nationality: m.Nationality}
}

type raceTableModel struct {
	ID        int64     `db:"id"`
	Year      int       `db:"year"`
	Round     int       `db:"round"`
	Name      string    `db:"name"`
	Circuit   string    `db:"circuit"`
	RaceDate  time.Time `db:"race_date"`
	Completed bool      `db:"completed"`
}

func (m raceTableModel) toDomain() race.Race {
	return race.Race{
		ID:        m.ID,
		Year:      m.Year,
		Round:     m.Round,
		Name:      m.Name,
		Circuit:   m.Circuit,
		Date:      dateOnly(m.RaceDate),
		Completed: m.Completed,
	}
}

type raceResultRow struct {
	RaceID        int64          `db:"race_id"`
	Year          int            `db:"year"`
	Round         int            `db:"round"`
	RaceDate      time.Time      `db:"race_date"`
	DriverID      string         `db:"driver_id"`
	ConstructorID sql.NullString `db:"constructor_id"`
	Session       string         `db:"session"`
	Position      int            `db:"position"`
	Points        float64        `db:"points"`
	Status        string         `db:"status"`
}

func (m raceResultRow) toDomain() race.Result {
	return race.Result{
		RaceID:        m.RaceID,
		Year:          m.Year,
		Round:         m.Round,
		DriverID:      m.DriverID,
		ConstructorID: m.ConstructorID.String,
		Session:       race.Session(m.Session),
		Position:      m.Position,
		Points:        m.Points,
		Status:        m.Status,
		RaceDate:      dateOnly(m.RaceDate),
	}
}

type eraTableModel struct {
	ID         int64        `db:"id"`
	Label      string       `db:"label"`
	Year       int          `db:"year"`
	StartDate  time.Time    `db:"start_date"`
	EndDate    sql.NullTime `db:"end_date"`
	Generation int64        `db:"generation"`
}

func (m eraTableModel) toDomain() era.Era {
	out := era.Era{
		ID:         m.ID,
		Label:      m.Label,
		Year:       m.Year,
		StartDate:  dateOnly(m.StartDate),
		Generation: m.Generation,
	}
	if m.EndDate.Valid {
		end := dateOnly(m.EndDate.Time)
		out.EndDate = &end
	}
	return out
}

type draftPickTableModel struct {
	EraID         int64          `db:"era_id"`
	PickNumber    int            `db:"pick_number"`
	TeamID        string         `db:"team_id"`
	DriverID      sql.NullString `db:"driver_id"`
	ConstructorID sql.NullString `db:"constructor_id"`
	PickedAt      sql.NullTime   `db:"picked_at"`
}

func (m draftPickTableModel) toDomain() draft.Pick {
	return draft.Pick{
		EraID:         m.EraID,
		Number:        m.PickNumber,
		TeamID:        m.TeamID,
		DriverID:      m.DriverID.String,
		ConstructorID: m.ConstructorID.String,
		PickedAt:      timePtr(m.PickedAt),
	}
}

type rosterArchiveTableModel struct {
	EraID         int64          `db:"era_id"`
	PickNumber    int            `db:"pick_number"`
	TeamID        string         `db:"team_id"`
	DriverID      sql.NullString `db:"driver_id"`
	ConstructorID sql.NullString `db:"constructor_id"`
	ArchivedAt    time.Time      `db:"archived_at"`
}

func (m rosterArchiveTableModel) toDomain() draft.ArchivedPick {
	return draft.ArchivedPick{
		EraID:         m.EraID,
		PickNumber:    m.PickNumber,
		TeamID:        m.TeamID,
		DriverID:      m.DriverID.String,
		ConstructorID: m.ConstructorID.String,
		ArchivedAt:    m.ArchivedAt.UTC(),
	}
}
