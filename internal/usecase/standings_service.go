package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/riskibarqy/f1-fantasy/internal/domain/draft"
	"github.com/riskibarqy/f1-fantasy/internal/domain/era"
	"github.com/riskibarqy/f1-fantasy/internal/domain/race"
	"github.com/riskibarqy/f1-fantasy/internal/domain/team"
	"github.com/riskibarqy/f1-fantasy/internal/platform/logging"
	"github.com/sourcegraph/conc/pool"
)

type StandingRow struct {
	Rank              int
	Team              team.Team
	DriverIDs         []string
	ConstructorID     string
	DriverPoints      float64
	ConstructorPoints float64
	Points            float64
}

type Standings struct {
	Era  *era.Era
	From time.Time
	To   time.Time
	Rows []StandingRow
}

type StandingsService struct {
	draftRepo draft.Repository
	eraRepo   era.Repository
	teamRepo  team.Repository
	raceRepo  race.Repository
	logger    *logging.Logger
	now       func() time.Time
}

func NewStandingsService(
	draftRepo draft.Repository,
	eraRepo era.Repository,
	teamRepo team.Repository,
	raceRepo race.Repository,
	logger *logging.Logger,
) *StandingsService {
	if logger == nil {
		logger = logging.Default()
	}

	return &StandingsService{
		draftRepo: draftRepo,
		eraRepo:   eraRepo,
		teamRepo:  teamRepo,
		raceRepo:  raceRepo,
		logger:    logger,
		now:       time.Now,
	}
}

// Standings scores every roster of the active board with the results of races
// held inside the window of the board's own era.
func (s *StandingsService) Standings(ctx context.Context) (Standings, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StandingsService.Standings")
	defer span.End()

	board, ok, err := s.draftRepo.ActiveBoard(ctx)
	if err != nil {
		return Standings{}, fmt.Errorf("get active board: %w", err)
	}
	if !ok {
		return Standings{Rows: []StandingRow{}}, nil
	}

	// the window always belongs to the board's era, even across a rollover
	current, ok, err := s.eraRepo.GetByID(ctx, board.EraID)
	if err != nil {
		return Standings{}, fmt.Errorf("get era %d: %w", board.EraID, err)
	}
	if !ok {
		return Standings{}, fmt.Errorf("%w: era %d of the active board is missing", ErrConflict, board.EraID)
	}

	from := era.Day(current.StartDate)
	to := era.Day(s.now())
	if current.EndDate != nil {
		to = era.Day(*current.EndDate)
	}

	var (
		teams   []team.Team
		results []race.Result
	)
	p := pool.New().WithContext(ctx).WithCancelOnError()
	p.Go(func(ctx context.Context) error {
		var err error
		teams, err = s.teamRepo.List(ctx)
		if err != nil {
			return fmt.Errorf("list teams: %w", err)
		}
		return nil
	})
	p.Go(func(ctx context.Context) error {
		var err error
		results, err = s.raceRepo.ListResultsBetween(ctx, from, to)
		if err != nil {
			return fmt.Errorf("list results: %w", err)
		}
		return nil
	})
	if err := p.Wait(); err != nil {
		return Standings{}, err
	}

	return Standings{
		Era:  &current,
		From: from,
		To:   to,
		Rows: ScoreRosters(board, teams, results),
	}, nil
}

// ScoreRosters ranks teams by the points their drafted drivers and constructor
// earned across all sessions, then by team name.
func ScoreRosters(board draft.Board, teams []team.Team, results []race.Result) []StandingRow {
	driverPoints := make(map[string]float64)
	constructorPoints := make(map[string]float64)
	for _, item := range results {
		driverPoints[item.DriverID] += item.Points
		if item.ConstructorID != "" {
			constructorPoints[item.ConstructorID] += item.Points
		}
	}

	rosters := board.Rosters()
	rows := make([]StandingRow, 0, len(teams))
	for _, item := range teams {
		roster := rosters[item.ID]
		row := StandingRow{
			Team:          item,
			DriverIDs:     append([]string{}, roster.DriverIDs...),
			ConstructorID: roster.ConstructorID,
		}
		for _, id := range roster.DriverIDs {
			row.DriverPoints += driverPoints[id]
		}
		if roster.ConstructorID != "" {
			row.ConstructorPoints = constructorPoints[roster.ConstructorID]
		}
		row.Points = row.DriverPoints + row.ConstructorPoints
		rows = append(rows, row)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Points != rows[j].Points {
			return rows[i].Points > rows[j].Points
		}
		return rows[i].Team.Name < rows[j].Team.Name
	})
	for i := range rows {
		rows[i].Rank = i + 1
	}
	return rows
}
