package ergast

import (
	"fmt"
	"time"

	"github.com/riskibarqy/f1-fantasy/internal/domain/race"
)

// Ergast encodes every number as a string.
type responseEnvelope struct {
	MRData struct {
		Limit     string `json:"limit"`
		Offset    string `json:"offset"`
		Total     string `json:"total"`
		RaceTable struct {
			Season string    `json:"season"`
			Races  []raceDTO `json:"Races"`
		} `json:"RaceTable"`
	} `json:"MRData"`
}

type raceDTO struct {
	Season   string `json:"season"`
	Round    string `json:"round"`
	RaceName string `json:"raceName"`
	Date     string `json:"date"`
	Circuit  struct {
		CircuitID   string `json:"circuitId"`
		CircuitName string `json:"circuitName"`
	} `json:"Circuit"`
	Results           []resultDTO `json:"Results"`
	SprintResults     []resultDTO `json:"SprintResults"`
	QualifyingResults []resultDTO `json:"QualifyingResults"`
}

type resultDTO struct {
	Position string `json:"position"`
	Points   string `json:"points"`
	Status   string `json:"status"`
	Driver   struct {
		DriverID        string `json:"driverId"`
		PermanentNumber string `json:"permanentNumber"`
		Code            string `json:"code"`
		GivenName       string `json:"givenName"`
		FamilyName      string `json:"familyName"`
		Nationality     string `json:"nationality"`
	} `json:"Driver"`
	Constructor struct {
		ConstructorID string `json:"constructorId"`
		Name          string `json:"name"`
		Nationality   string `json:"nationality"`
	} `json:"Constructor"`
}

func (r raceDTO) toFeedRace(session race.Session) (race.FeedRace, error) {
	date, err := time.Parse(time.DateOnly, r.Date)
	if err != nil {
		return race.FeedRace{}, fmt.Errorf("parse race date %q season=%s round=%s: %w", r.Date, r.Season, r.Round, err)
	}

	var rows []resultDTO
	switch session {
	case race.SessionRace:
		rows = r.Results
	case race.SessionSprint:
		rows = r.SprintResults
	case race.SessionQualifying:
		rows = r.QualifyingResults
	}

	out := race.FeedRace{
		Year:    parseInt(r.Season),
		Round:   parseInt(r.Round),
		Name:    r.RaceName,
		Circuit: r.Circuit.CircuitName,
		Date:    date.UTC(),
		Entries: make([]race.FeedEntry, 0, len(rows)),
	}
	for _, row := range rows {
		out.Entries = append(out.Entries, race.FeedEntry{
			DriverRef:       row.Driver.DriverID,
			DriverCode:      row.Driver.Code,
			GivenName:       row.Driver.GivenName,
			FamilyName:      row.Driver.FamilyName,
			Nationality:     row.Driver.Nationality,
			PermanentNumber: parseInt(row.Driver.PermanentNumber),
			ConstructorRef:  row.Constructor.ConstructorID,
			ConstructorName: row.Constructor.Name,
			ConstructorNat:  row.Constructor.Nationality,
			Position:        parseInt(row.Position),
			Points:          parseFloat(row.Points),
			Status:          row.Status,
		})
	}
	return out, nil
}
