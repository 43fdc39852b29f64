package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/riskibarqy/f1-fantasy/internal/domain/draft"
	"github.com/riskibarqy/f1-fantasy/internal/domain/era"
	"github.com/riskibarqy/f1-fantasy/internal/domain/race"
	"go.opentelemetry.io/otel/attribute"
)

type EraArchive struct {
	Era   era.Era
	Picks []draft.ArchivedPick
}

// SeasonService serves era history and the race calendar.
type SeasonService struct {
	eraRepo   era.Repository
	draftRepo draft.Repository
	raceRepo  race.Repository
	now       func() time.Time
}

func NewSeasonService(eraRepo era.Repository, draftRepo draft.Repository, raceRepo race.Repository) *SeasonService {
	return &SeasonService{
		eraRepo:   eraRepo,
		draftRepo: draftRepo,
		raceRepo:  raceRepo,
		now:       time.Now,
	}
}

func (s *SeasonService) ListEras(ctx context.Context) ([]era.Era, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SeasonService.ListEras")
	defer span.End()

	items, err := s.eraRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list eras: %w", err)
	}
	return items, nil
}

func (s *SeasonService) GetEraArchive(ctx context.Context, eraID int64) (EraArchive, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SeasonService.GetEraArchive", attribute.Int64("era.id", eraID))
	defer span.End()

	if eraID <= 0 {
		return EraArchive{}, fmt.Errorf("%w: era id must be > 0", ErrInvalidInput)
	}

	item, exists, err := s.eraRepo.GetByID(ctx, eraID)
	if err != nil {
		return EraArchive{}, fmt.Errorf("get era: %w", err)
	}
	if !exists {
		return EraArchive{}, notFound("era", eraID)
	}

	picks, err := s.draftRepo.ListArchive(ctx, eraID)
	if err != nil {
		return EraArchive{}, fmt.Errorf("list era archive: %w", err)
	}

	return EraArchive{Era: item, Picks: picks}, nil
}

// ListRaces returns the calendar of year, or of the current year when year is 0.
func (s *SeasonService) ListRaces(ctx context.Context, year int) ([]race.Race, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SeasonService.ListRaces")
	defer span.End()

	if year == 0 {
		year = s.now().UTC().Year()
	}
	if year < 1950 {
		return nil, fmt.Errorf("%w: year must be >= 1950", ErrInvalidInput)
	}

	items, err := s.raceRepo.ListByYear(ctx, year)
	if err != nil {
		return nil, fmt.Errorf("list races: %w", err)
	}
	return items, nil
}
