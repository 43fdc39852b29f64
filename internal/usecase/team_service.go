package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/f1-fantasy/internal/domain/team"
	idgen "github.com/riskibarqy/f1-fantasy/internal/platform/id"
	"github.com/riskibarqy/f1-fantasy/internal/platform/logging"
)

type TeamService struct {
	teamRepo team.Repository
	idGen    idgen.Generator
	logger   *logging.Logger
	now      func() time.Time
}

func NewTeamService(teamRepo team.Repository, idGen idgen.Generator, logger *logging.Logger) *TeamService {
	if logger == nil {
		logger = logging.Default()
	}
	if idGen == nil {
		idGen = idgen.NewUUIDGenerator()
	}

	return &TeamService{
		teamRepo: teamRepo,
		idGen:    idGen,
		logger:   logger,
		now:      time.Now,
	}
}

func (s *TeamService) ListTeams(ctx context.Context) ([]team.Team, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.ListTeams")
	defer span.End()

	items, err := s.teamRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}
	return items, nil
}

func (s *TeamService) GetByOwner(ctx context.Context, ownerID string) (team.Team, error) {
	ownerID = strings.TrimSpace(ownerID)
	if ownerID == "" {
		return team.Team{}, fmt.Errorf("%w: owner id is required", ErrInvalidInput)
	}

	item, exists, err := s.teamRepo.GetByOwner(ctx, ownerID)
	if err != nil {
		return team.Team{}, fmt.Errorf("get team by owner: %w", err)
	}
	if !exists {
		return team.Team{}, fmt.Errorf("%w: user %s has no team", ErrNotFound, ownerID)
	}
	return item, nil
}

func (s *TeamService) RegisterTeam(ctx context.Context, ownerID, name string) (team.Team, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.RegisterTeam")
	defer span.End()

	ownerID = strings.TrimSpace(ownerID)
	if ownerID == "" {
		return team.Team{}, fmt.Errorf("%w: owner id is required", ErrInvalidInput)
	}
	return s.create(ctx, ownerID, name, false)
}

func (s *TeamService) CreateBotTeam(ctx context.Context, name string) (team.Team, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.CreateBotTeam")
	defer span.End()

	return s.create(ctx, "", name, true)
}

func (s *TeamService) RenameTeam(ctx context.Context, ownerID, name string) (team.Team, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.RenameTeam")
	defer span.End()

	normalized, err := team.NormalizeName(name)
	if err != nil {
		return team.Team{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	current, err := s.GetByOwner(ctx, ownerID)
	if err != nil {
		return team.Team{}, err
	}

	updated, err := s.teamRepo.UpdateName(ctx, current.ID, normalized)
	if err != nil {
		return team.Team{}, fmt.Errorf("update team name: %w", err)
	}

	s.logger.InfoContext(ctx, "team renamed",
		"team_id", updated.ID,
		"owner_id", updated.OwnerID,
		"old_name", current.Name,
		"new_name", updated.Name,
	)
	return updated, nil
}

func (s *TeamService) create(ctx context.Context, ownerID, name string, bot bool) (team.Team, error) {
	normalized, err := team.NormalizeName(name)
	if err != nil {
		return team.Team{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	id, err := s.idGen.NewID()
	if err != nil {
		return team.Team{}, fmt.Errorf("generate team id: %w", err)
	}

	now := s.now().UTC()
	item := team.Team{
		ID:        id,
		Name:      normalized,
		OwnerID:   ownerID,
		IsBot:     bot,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := item.Validate(); err != nil {
		return team.Team{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := s.teamRepo.Create(ctx, item); err != nil {
		if errors.Is(err, team.ErrOwnerTaken) {
			return team.Team{}, fmt.Errorf("%w: user %s already has a team", ErrConflict, ownerID)
		}
		return team.Team{}, fmt.Errorf("create team: %w", err)
	}

	s.logger.InfoContext(ctx, "team created", "team_id", item.ID, "owner_id", ownerID, "is_bot", bot)
	return item, nil
}
