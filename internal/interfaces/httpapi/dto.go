package httpapi

import (
	"time"

	"github.com/riskibarqy/f1-fantasy/internal/domain/constructor"
	"github.com/riskibarqy/f1-fantasy/internal/domain/draft"
	"github.com/riskibarqy/f1-fantasy/internal/domain/driver"
	"github.com/riskibarqy/f1-fantasy/internal/domain/era"
	"github.com/riskibarqy/f1-fantasy/internal/domain/race"
	"github.com/riskibarqy/f1-fantasy/internal/domain/team"
	"github.com/riskibarqy/f1-fantasy/internal/usecase"
)

const dateLayout = "2006-01-02"

type commitPickRequest struct {
	PickNumber int    `json:"pick_number" validate:"required,min=1"`
	TeamID     string `json:"team_id" validate:"omitempty,max=64"`
	AssetType  string `json:"asset_type" validate:"required,oneof=driver constructor"`
	AssetID    string `json:"asset_id" validate:"required,max=64"`
	Generation int64  `json:"generation" validate:"min=0"`
}

type startRoundRequest struct {
	TeamIDs []string `json:"team_ids" validate:"required,min=1,dive,required"`
	Rounds  int      `json:"rounds" validate:"min=0,max=20"`
	// Archive defaults to true when omitted.
	Archive *bool `json:"archive"`
}

type teamNameRequest struct {
	Name string `json:"name" validate:"required,max=40"`
}

type seasonSyncRequest struct {
	Year int `json:"year" validate:"omitempty,min=1950"`
}

type eraDTO struct {
	ID         int64   `json:"id"`
	Label      string  `json:"label"`
	Year       int     `json:"year"`
	StartDate  string  `json:"startDate"`
	EndDate    *string `json:"endDate,omitempty"`
	Generation int64   `json:"generation"`
	Active     bool    `json:"active"`
}

type pickDTO struct {
	Number        int        `json:"number"`
	Round         int        `json:"round,omitempty"`
	TeamID        string     `json:"teamId"`
	DriverID      string     `json:"driverId,omitempty"`
	ConstructorID string     `json:"constructorId,omitempty"`
	PickedAt      *time.Time `json:"pickedAt,omitempty"`
}

type driverDTO struct {
	ID              string `json:"id"`
	Code            string `json:"code"`
	Name            string `json:"name"`
	Nationality     string `json:"nationality,omitempty"`
	ConstructorID   string `json:"constructorId,omitempty"`
	PermanentNumber int    `json:"permanentNumber,omitempty"`
}

type constructorDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Nationality string `json:"nationality,omitempty"`
}

type teamDTO struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	OwnerID string `json:"ownerId,omitempty"`
	IsBot   bool   `json:"isBot"`
}

type rosterDTO struct {
	Team        teamDTO         `json:"team"`
	Drivers     []driverDTO     `json:"drivers"`
	Constructor *constructorDTO `json:"constructor,omitempty"`
}

type draftStateDTO struct {
	Era                   *eraDTO          `json:"era,omitempty"`
	Generation            int64            `json:"generation"`
	CurrentPick           *pickDTO         `json:"currentPick,omitempty"`
	UpcomingPicks         []pickDTO        `json:"upcomingPicks"`
	Rosters               []rosterDTO      `json:"rosters"`
	AvailableDrivers      []driverDTO      `json:"availableDrivers"`
	AvailableConstructors []constructorDTO `json:"availableConstructors"`
	TotalPicks            int              `json:"totalPicks"`
	ResolvedPicks         int              `json:"resolvedPicks"`
	Complete              bool             `json:"complete"`
}

type commitPickDTO struct {
	Pick     pickDTO   `json:"pick"`
	BotPicks []pickDTO `json:"botPicks"`
}

type roundStartedDTO struct {
	Era        eraDTO  `json:"era"`
	ClosedEra  *eraDTO `json:"closedEra,omitempty"`
	TotalPicks int     `json:"totalPicks"`
	Archived   int     `json:"archived"`
}

type standingRowDTO struct {
	Rank              int      `json:"rank"`
	Team              teamDTO  `json:"team"`
	DriverIDs         []string `json:"driverIds"`
	ConstructorID     string   `json:"constructorId,omitempty"`
	DriverPoints      float64  `json:"driverPoints"`
	ConstructorPoints float64  `json:"constructorPoints"`
	Points            float64  `json:"points"`
}

type standingsDTO struct {
	Era  *eraDTO          `json:"era,omitempty"`
	From string           `json:"from,omitempty"`
	To   string           `json:"to,omitempty"`
	Rows []standingRowDTO `json:"rows"`
}

type archivedPickDTO struct {
	PickNumber    int       `json:"pickNumber"`
	TeamID        string    `json:"teamId"`
	DriverID      string    `json:"driverId,omitempty"`
	ConstructorID string    `json:"constructorId,omitempty"`
	ArchivedAt    time.Time `json:"archivedAt"`
}

type eraArchiveDTO struct {
	Era   eraDTO            `json:"era"`
	Picks []archivedPickDTO `json:"picks"`
}

type raceDTO struct {
	ID        int64  `json:"id"`
	Year      int    `json:"year"`
	Round     int    `json:"round"`
	Name      string `json:"name"`
	Circuit   string `json:"circuit,omitempty"`
	Date      string `json:"date"`
	Completed bool   `json:"completed"`
}

type driverStandingDTO struct {
	Rank            int     `json:"rank"`
	DriverID        string  `json:"driverId"`
	Code            string  `json:"code,omitempty"`
	Name            string  `json:"name"`
	ConstructorID   string  `json:"constructorId,omitempty"`
	ConstructorName string  `json:"constructorName,omitempty"`
	Points          float64 `json:"points"`
}

type constructorStandingDTO struct {
	Rank          int     `json:"rank"`
	ConstructorID string  `json:"constructorId"`
	Name          string  `json:"name"`
	Points        float64 `json:"points"`
}

type raceResultDTO struct {
	Session         string  `json:"session"`
	Position        int     `json:"position"`
	DriverID        string  `json:"driverId"`
	DriverCode      string  `json:"driverCode,omitempty"`
	DriverName      string  `json:"driverName"`
	ConstructorID   string  `json:"constructorId,omitempty"`
	ConstructorName string  `json:"constructorName,omitempty"`
	Points          float64 `json:"points"`
	Status          string  `json:"status,omitempty"`
}

type raceClassificationDTO struct {
	Race    raceDTO         `json:"race"`
	Results []raceResultDTO `json:"results"`
}

type raceWeekendDTO struct {
	Next     raceDTO   `json:"next"`
	Upcoming []raceDTO `json:"upcoming"`
}

func eraToDTO(item era.Era) eraDTO {
	out := eraDTO{
		ID:         item.ID,
		Label:      item.Label,
		Year:       item.Year,
		StartDate:  item.StartDate.Format(dateLayout),
		Generation: item.Generation,
		Active:     item.Active(),
	}
	if item.EndDate != nil {
		end := item.EndDate.Format(dateLayout)
		out.EndDate = &end
	}
	return out
}

func eraPtrToDTO(item *era.Era) *eraDTO {
	if item == nil {
		return nil
	}
	out := eraToDTO(*item)
	return &out
}

func pickToDTO(p draft.Pick, teams int) pickDTO {
	return pickDTO{
		Number:        p.Number,
		Round:         draft.RoundOf(p.Number, teams),
		TeamID:        p.TeamID,
		DriverID:      p.DriverID,
		ConstructorID: p.ConstructorID,
		PickedAt:      p.PickedAt,
	}
}

func picksToDTO(items []draft.Pick, teams int) []pickDTO {
	out := make([]pickDTO, 0, len(items))
	for _, item := range items {
		out = append(out, pickToDTO(item, teams))
	}
	return out
}

func driverToDTO(d driver.Driver) driverDTO {
	return driverDTO{
		ID:              d.ID,
		Code:            d.Code,
		Name:            d.Name(),
		Nationality:     d.Nationality,
		ConstructorID:   d.ConstructorID,
		PermanentNumber: d.PermanentNumber,
	}
}

func driversToDTO(items []driver.Driver) []driverDTO {
	out := make([]driverDTO, 0, len(items))
	for _, item := range items {
		out = append(out, driverToDTO(item))
	}
	return out
}

func constructorToDTO(c constructor.Constructor) constructorDTO {
	return constructorDTO{ID: c.ID, Name: c.Name, Nationality: c.Nationality}
}

func constructorsToDTO(items []constructor.Constructor) []constructorDTO {
	out := make([]constructorDTO, 0, len(items))
	for _, item := range items {
		out = append(out, constructorToDTO(item))
	}
	return out
}

func teamToDTO(t team.Team) teamDTO {
	return teamDTO{ID: t.ID, Name: t.Name, OwnerID: t.OwnerID, IsBot: t.IsBot}
}

func teamsToDTO(items []team.Team) []teamDTO {
	out := make([]teamDTO, 0, len(items))
	for _, item := range items {
		out = append(out, teamToDTO(item))
	}
	return out
}

func draftStateToDTO(state usecase.DraftState) draftStateDTO {
	teams := len(state.Rosters)
	out := draftStateDTO{
		Era:                   eraPtrToDTO(state.Era),
		Generation:            state.Generation,
		UpcomingPicks:         picksToDTO(state.UpcomingPicks, teams),
		Rosters:               make([]rosterDTO, 0, len(state.Rosters)),
		AvailableDrivers:      driversToDTO(state.AvailableDrivers),
		AvailableConstructors: constructorsToDTO(state.AvailableConstructors),
		TotalPicks:            state.TotalPicks,
		ResolvedPicks:         state.ResolvedPicks,
		Complete:              state.Complete,
	}
	if state.CurrentPick != nil {
		current := pickToDTO(*state.CurrentPick, teams)
		out.CurrentPick = &current
	}
	for _, roster := range state.Rosters {
		item := rosterDTO{
			Team:    teamToDTO(roster.Team),
			Drivers: driversToDTO(roster.Drivers),
		}
		if roster.Constructor != nil {
			c := constructorToDTO(*roster.Constructor)
			item.Constructor = &c
		}
		out.Rosters = append(out.Rosters, item)
	}
	return out
}

func resetResultToDTO(result draft.ResetResult) roundStartedDTO {
	return roundStartedDTO{
		Era:        eraToDTO(result.Era),
		ClosedEra:  eraPtrToDTO(result.ClosedEra),
		TotalPicks: result.TotalPicks,
		Archived:   result.Archived,
	}
}

func standingsToDTO(s usecase.Standings) standingsDTO {
	out := standingsDTO{
		Era:  eraPtrToDTO(s.Era),
		Rows: make([]standingRowDTO, 0, len(s.Rows)),
	}
	if !s.From.IsZero() {
		out.From = s.From.Format(dateLayout)
	}
	if !s.To.IsZero() {
		out.To = s.To.Format(dateLayout)
	}
	for _, row := range s.Rows {
		driverIDs := row.DriverIDs
		if driverIDs == nil {
			driverIDs = []string{}
		}
		out.Rows = append(out.Rows, standingRowDTO{
			Rank:              row.Rank,
			Team:              teamToDTO(row.Team),
			DriverIDs:         driverIDs,
			ConstructorID:     row.ConstructorID,
			DriverPoints:      row.DriverPoints,
			ConstructorPoints: row.ConstructorPoints,
			Points:            row.Points,
		})
	}
	return out
}

func eraArchiveToDTO(archive usecase.EraArchive) eraArchiveDTO {
	out := eraArchiveDTO{
		Era:   eraToDTO(archive.Era),
		Picks: make([]archivedPickDTO, 0, len(archive.Picks)),
	}
	for _, p := range archive.Picks {
		out.Picks = append(out.Picks, archivedPickDTO{
			PickNumber:    p.PickNumber,
			TeamID:        p.TeamID,
			DriverID:      p.DriverID,
			ConstructorID: p.ConstructorID,
			ArchivedAt:    p.ArchivedAt,
		})
	}
	return out
}

func raceToDTO(item race.Race) raceDTO {
	return raceDTO{
		ID:        item.ID,
		Year:      item.Year,
		Round:     item.Round,
		Name:      item.Name,
		Circuit:   item.Circuit,
		Date:      item.Date.Format(dateLayout),
		Completed: item.Completed,
	}
}

func racesToDTO(items []race.Race) []raceDTO {
	out := make([]raceDTO, 0, len(items))
	for _, item := range items {
		out = append(out, raceToDTO(item))
	}
	return out
}

func driverStandingsToDTO(rows []usecase.DriverStanding) []driverStandingDTO {
	out := make([]driverStandingDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, driverStandingDTO{
			Rank:            row.Rank,
			DriverID:        row.Driver.ID,
			Code:            row.Driver.Code,
			Name:            row.Driver.Name(),
			ConstructorID:   row.Driver.ConstructorID,
			ConstructorName: row.ConstructorName,
			Points:          row.Points,
		})
	}
	return out
}

func constructorStandingsToDTO(rows []usecase.ConstructorStanding) []constructorStandingDTO {
	out := make([]constructorStandingDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, constructorStandingDTO{
			Rank:          row.Rank,
			ConstructorID: row.Constructor.ID,
			Name:          row.Constructor.Name,
			Points:        row.Points,
		})
	}
	return out
}

func raceClassificationToDTO(c usecase.RaceClassification) raceClassificationDTO {
	out := raceClassificationDTO{
		Race:    raceToDTO(c.Race),
		Results: make([]raceResultDTO, 0, len(c.Results)),
	}
	for _, item := range c.Results {
		out.Results = append(out.Results, raceResultDTO{
			Session:         string(item.Result.Session),
			Position:        item.Result.Position,
			DriverID:        item.Result.DriverID,
			DriverCode:      item.Driver.Code,
			DriverName:      item.Driver.Name(),
			ConstructorID:   item.Result.ConstructorID,
			ConstructorName: item.ConstructorName,
			Points:          item.Result.Points,
			Status:          item.Result.Status,
		})
	}
	return out
}

func raceWeekendToDTO(w usecase.RaceWeekend) raceWeekendDTO {
	return raceWeekendDTO{
		Next:     raceToDTO(w.Next),
		Upcoming: racesToDTO(w.Upcoming),
	}
}
