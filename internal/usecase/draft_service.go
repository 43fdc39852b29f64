package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/riskibarqy/f1-fantasy/internal/domain/constructor"
	"github.com/riskibarqy/f1-fantasy/internal/domain/draft"
	"github.com/riskibarqy/f1-fantasy/internal/domain/driver"
	"github.com/riskibarqy/f1-fantasy/internal/domain/era"
	"github.com/riskibarqy/f1-fantasy/internal/domain/race"
	"github.com/riskibarqy/f1-fantasy/internal/domain/team"
	"github.com/riskibarqy/f1-fantasy/internal/platform/logging"
	"github.com/sourcegraph/conc/pool"
)

// DraftMetrics records draft outcomes.
type DraftMetrics interface {
	PickCommitted(assetType draft.AssetType, auto bool)
	PickRejected(reason string)
	RoundStarted(totalPicks int)
}

type nopDraftMetrics struct{}

func (nopDraftMetrics) PickCommitted(draft.AssetType, bool) {}
func (nopDraftMetrics) PickRejected(string)                 {}
func (nopDraftMetrics) RoundStarted(int)                    {}

type DraftConfig struct {
	Rules           draft.Rules
	DefaultRounds   int
	UpcomingWindow  int
	AutoAdvanceBots bool
}

type DraftState struct {
	Era                   *era.Era
	Generation            int64
	CurrentPick           *draft.Pick
	UpcomingPicks         []draft.Pick
	Rosters               []TeamRoster
	AvailableDrivers      []driver.Driver
	AvailableConstructors []constructor.Constructor
	TotalPicks            int
	ResolvedPicks         int
	Complete              bool
}

type TeamRoster struct {
	Team        team.Team
	Drivers     []driver.Driver
	Constructor *constructor.Constructor
}

type CommitPickInput struct {
	Actor      Actor
	PickNumber int
	// TeamID defaults to the actor's own team.
	TeamID     string
	AssetType  string
	AssetID    string
	Generation int64
}

type CommitPickResult struct {
	Pick draft.Pick
	// BotPicks are the picks bots made right after this one.
	BotPicks []draft.Pick
}

type StartRoundInput struct {
	TeamIDs []string
	Rounds  int
	Archive bool
}

type AutoPickInput struct {
	Actor      Actor
	PickNumber int
}

type DraftService struct {
	draftRepo       draft.Repository
	eraRepo         era.Repository
	teamRepo        team.Repository
	driverRepo      driver.Repository
	constructorRepo constructor.Repository
	raceRepo        race.Repository
	publisher       draft.EventPublisher
	metrics         DraftMetrics
	cfg             DraftConfig
	logger          *logging.Logger
	now             func() time.Time
}

func NewDraftService(
	draftRepo draft.Repository,
	eraRepo era.Repository,
	teamRepo team.Repository,
	driverRepo driver.Repository,
	constructorRepo constructor.Repository,
	raceRepo race.Repository,
	publisher draft.EventPublisher,
	metrics DraftMetrics,
	cfg DraftConfig,
	logger *logging.Logger,
) *DraftService {
	if publisher == nil {
		publisher = draft.NopPublisher{}
	}
	if metrics == nil {
		metrics = nopDraftMetrics{}
	}
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.Rules.DriverCap <= 0 || cfg.Rules.ConstructorCap <= 0 {
		cfg.Rules = draft.DefaultRules()
	}
	if cfg.DefaultRounds <= 0 {
		cfg.DefaultRounds = cfg.Rules.RosterSize()
	}
	if cfg.UpcomingWindow <= 0 {
		cfg.UpcomingWindow = 6
	}

	return &DraftService{
		draftRepo:       draftRepo,
		eraRepo:         eraRepo,
		teamRepo:        teamRepo,
		driverRepo:      driverRepo,
		constructorRepo: constructorRepo,
		raceRepo:        raceRepo,
		publisher:       publisher,
		metrics:         metrics,
		cfg:             cfg,
		logger:          logger,
		now:             time.Now,
	}
}

func (s *DraftService) GetDraftState(ctx context.Context) (DraftState, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.DraftService.GetDraftState")
	defer span.End()

	var (
		board        draft.Board
		hasBoard     bool
		activeEra    era.Era
		teams        []team.Team
		drivers      []driver.Driver
		constructors []constructor.Constructor
	)

	p := pool.New().WithContext(ctx).WithCancelOnError()
	p.Go(func(ctx context.Context) error {
		var err error
		board, hasBoard, err = s.draftRepo.ActiveBoard(ctx)
		if err != nil {
			return fmt.Errorf("get active board: %w", err)
		}
		if !hasBoard {
			return nil
		}
		item, exists, err := s.eraRepo.GetByID(ctx, board.EraID)
		if err != nil {
			return fmt.Errorf("get era: %w", err)
		}
		if exists {
			activeEra = item
		}
		return nil
	})
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
		drivers, err = s.driverRepo.List(ctx)
		if err != nil {
			return fmt.Errorf("list drivers: %w", err)
		}
		return nil
	})
	p.Go(func(ctx context.Context) error {
		var err error
		constructors, err = s.constructorRepo.List(ctx)
		if err != nil {
			return fmt.Errorf("list constructors: %w", err)
		}
		return nil
	})
	if err := p.Wait(); err != nil {
		return DraftState{}, err
	}

	state := DraftState{
		AvailableDrivers:      availableDrivers(drivers, board),
		AvailableConstructors: availableConstructors(constructors, board),
		Rosters:               []TeamRoster{},
		UpcomingPicks:         []draft.Pick{},
	}
	if !hasBoard {
		return state, nil
	}

	if activeEra.ID != 0 {
		state.Era = &activeEra
	}
	state.Generation = board.Generation
	state.TotalPicks = len(board.Picks)
	state.ResolvedPicks = board.ResolvedCount()
	state.Complete = board.Complete() && len(board.Picks) > 0
	if current, ok := board.Current(); ok {
		state.CurrentPick = &current
	}
	if upcoming := board.Upcoming(s.cfg.UpcomingWindow); len(upcoming) > 0 {
		state.UpcomingPicks = upcoming
	}
	state.Rosters = buildRosters(board, teams, drivers, constructors)

	return state, nil
}

func (s *DraftService) CommitPick(ctx context.Context, input CommitPickInput) (CommitPickResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.DraftService.CommitPick")
	defer span.End()

	if input.PickNumber < 1 {
		return CommitPickResult{}, fmt.Errorf("%w: pick number must be >= 1", ErrInvalidInput)
	}
	assetType, err := draft.ParseAssetType(input.AssetType)
	if err != nil {
		return CommitPickResult{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	assetID := strings.TrimSpace(input.AssetID)
	if assetID == "" {
		return CommitPickResult{}, fmt.Errorf("%w: asset id is required", ErrInvalidInput)
	}

	teamItem, err := s.resolveCommitTeam(ctx, input.Actor, input.TeamID)
	if err != nil {
		return CommitPickResult{}, err
	}
	if err := s.ensureAssetExists(ctx, assetType, assetID); err != nil {
		return CommitPickResult{}, err
	}

	committed, err := s.commit(ctx, draft.Commit{
		PickNumber: input.PickNumber,
		TeamID:     teamItem.ID,
		AssetType:  assetType,
		AssetID:    assetID,
		Generation: input.Generation,
	}, false)
	if err != nil {
		return CommitPickResult{}, err
	}

	result := CommitPickResult{Pick: committed}
	if s.cfg.AutoAdvanceBots {
		botPicks, err := s.AdvanceBots(ctx)
		if err != nil {
			s.logger.WarnContext(ctx, "advance bots after commit failed",
				"pick_number", committed.Number,
				"error", err,
			)
		}
		result.BotPicks = botPicks
	}

	return result, nil
}

func (s *DraftService) StartNewDraftRound(ctx context.Context, input StartRoundInput) (draft.ResetResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.DraftService.StartNewDraftRound")
	defer span.End()

	rounds := input.Rounds
	if rounds == 0 {
		rounds = s.cfg.DefaultRounds
	}
	if rounds < 1 {
		return draft.ResetResult{}, fmt.Errorf("%w: rounds must be >= 1", ErrInvalidInput)
	}

	teamIDs, err := s.validateDraftOrder(ctx, input.TeamIDs)
	if err != nil {
		return draft.ResetResult{}, err
	}

	picks, err := draft.GenerateSnakeOrder(teamIDs, rounds)
	if err != nil {
		return draft.ResetResult{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	now := s.now().UTC()
	today := era.Day(now)
	closeOn := today
	if input.Archive {
		last, ok, err := s.raceRepo.LastCompletedOnOrBefore(ctx, today)
		if err != nil {
			return draft.ResetResult{}, fmt.Errorf("get last completed race: %w", err)
		}
		if ok {
			closeOn = era.Day(last.Date)
		}
	}

	result, err := s.draftRepo.Reset(ctx, draft.ResetPlan{
		Picks:   picks,
		Archive: input.Archive,
		CloseOn: closeOn,
		Today:   today,
		At:      now,
	})
	if err != nil {
		return draft.ResetResult{}, fmt.Errorf("reset draft board: %w", err)
	}

	s.metrics.RoundStarted(result.TotalPicks)
	s.logger.InfoContext(ctx, "draft round started",
		"era_id", result.Era.ID,
		"era_label", result.Era.Label,
		"generation", result.Era.Generation,
		"teams", len(teamIDs),
		"rounds", rounds,
		"total_picks", result.TotalPicks,
		"archived", result.Archived,
	)
	if err := s.publisher.PublishRoundStarted(ctx, draft.RoundStarted{
		EraID:      result.Era.ID,
		Generation: result.Era.Generation,
		TotalPicks: result.TotalPicks,
		Archived:   result.Archived,
	}); err != nil {
		s.logger.WarnContext(ctx, "publish round started failed", "era_id", result.Era.ID, "error", err)
	}

	return result, nil
}

func (s *DraftService) AutoPick(ctx context.Context, input AutoPickInput) (draft.Pick, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.DraftService.AutoPick")
	defer span.End()

	if input.PickNumber < 1 {
		return draft.Pick{}, fmt.Errorf("%w: pick number must be >= 1", ErrInvalidInput)
	}

	board, ok, err := s.draftRepo.ActiveBoard(ctx)
	if err != nil {
		return draft.Pick{}, fmt.Errorf("get active board: %w", err)
	}
	current, hasCurrent := board.Current()
	if !ok || !hasCurrent || current.Number != input.PickNumber {
		err := fmt.Errorf("%w: pick %d is not the current pick", draft.ErrStaleTurn, input.PickNumber)
		s.recordRejection(ctx, input.PickNumber, "", err)
		return draft.Pick{}, err
	}

	owner, exists, err := s.teamRepo.GetByID(ctx, current.TeamID)
	if err != nil {
		return draft.Pick{}, fmt.Errorf("get team by id: %w", err)
	}
	if !exists {
		return draft.Pick{}, notFound("team", current.TeamID)
	}
	if !owner.IsBot && !input.Actor.Admin {
		return draft.Pick{}, fmt.Errorf("%w: auto-pick is reserved for bots and admins", ErrForbidden)
	}

	return s.autoPick(ctx, board, current)
}

// AdvanceBots auto-picks for as long as the current pick belongs to a bot.
func (s *DraftService) AdvanceBots(ctx context.Context) ([]draft.Pick, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.DraftService.AdvanceBots")
	defer span.End()

	teams, err := s.teamRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}
	bots := make(map[string]struct{}, len(teams))
	for _, item := range teams {
		if item.IsBot {
			bots[item.ID] = struct{}{}
		}
	}

	picks := make([]draft.Pick, 0)
	limit := -1
	for {
		board, ok, err := s.draftRepo.ActiveBoard(ctx)
		if err != nil {
			return picks, fmt.Errorf("get active board: %w", err)
		}
		if !ok {
			return picks, nil
		}
		if limit < 0 {
			limit = len(board.Picks)
		}
		current, hasCurrent := board.Current()
		if !hasCurrent || limit == 0 {
			return picks, nil
		}
		if _, isBot := bots[current.TeamID]; !isBot {
			return picks, nil
		}
		limit--

		pick, err := s.autoPick(ctx, board, current)
		if err != nil {
			return picks, err
		}
		picks = append(picks, pick)
	}
}

func (s *DraftService) autoPick(ctx context.Context, board draft.Board, current draft.Pick) (draft.Pick, error) {
	drivers, err := s.driverRepo.List(ctx)
	if err != nil {
		return draft.Pick{}, fmt.Errorf("list drivers: %w", err)
	}
	constructors, err := s.constructorRepo.List(ctx)
	if err != nil {
		return draft.Pick{}, fmt.Errorf("list constructors: %w", err)
	}

	assetType, assetID, err := board.SelectAuto(current.TeamID, s.cfg.Rules, driver.IDs(drivers), constructor.IDs(constructors))
	if err != nil {
		s.metrics.PickRejected(draft.RejectionReason(err))
		s.logger.WarnContext(ctx, "auto-pick found no legal move",
			"era_id", board.EraID,
			"pick_number", current.Number,
			"team_id", current.TeamID,
			"error", err,
		)
		return draft.Pick{}, err
	}

	return s.commit(ctx, draft.Commit{
		PickNumber: current.Number,
		TeamID:     current.TeamID,
		AssetType:  assetType,
		AssetID:    assetID,
		Generation: board.Generation,
	}, true)
}

func (s *DraftService) commit(ctx context.Context, c draft.Commit, auto bool) (draft.Pick, error) {
	result, err := s.draftRepo.Commit(ctx, c, s.cfg.Rules, s.now().UTC())
	if err != nil {
		if draft.RejectionReason(err) != "" {
			s.recordRejection(ctx, c.PickNumber, c.TeamID, err)
			return draft.Pick{}, err
		}
		return draft.Pick{}, fmt.Errorf("commit pick: %w", err)
	}

	pick := result.Pick
	s.metrics.PickCommitted(c.AssetType, auto)
	s.logger.InfoContext(ctx, "draft pick committed",
		"era_id", pick.EraID,
		"pick_number", pick.Number,
		"team_id", pick.TeamID,
		"asset_type", c.AssetType,
		"asset_id", c.AssetID,
		"auto", auto,
	)

	pickedAt := s.now().UTC()
	if pick.PickedAt != nil {
		pickedAt = *pick.PickedAt
	}
	if err := s.publisher.PublishPickCommitted(ctx, draft.PickCommitted{
		EraID:      pick.EraID,
		Generation: result.Generation,
		PickNumber: pick.Number,
		TeamID:     pick.TeamID,
		AssetType:  c.AssetType,
		AssetID:    c.AssetID,
		PickedAt:   pickedAt,
		Auto:       auto,
	}); err != nil {
		s.logger.WarnContext(ctx, "publish pick committed failed", "pick_number", pick.Number, "error", err)
	}

	return pick, nil
}

func (s *DraftService) recordRejection(ctx context.Context, pickNumber int, teamID string, err error) {
	reason := draft.RejectionReason(err)
	s.metrics.PickRejected(reason)
	s.logger.WarnContext(ctx, "draft pick rejected",
		"pick_number", pickNumber,
		"team_id", teamID,
		"reason", reason,
		"error", err,
	)
}

func (s *DraftService) resolveCommitTeam(ctx context.Context, actor Actor, teamID string) (team.Team, error) {
	teamID = strings.TrimSpace(teamID)
	if teamID == "" {
		if strings.TrimSpace(actor.UserID) == "" {
			return team.Team{}, fmt.Errorf("%w: team id is required", ErrInvalidInput)
		}
		item, exists, err := s.teamRepo.GetByOwner(ctx, actor.UserID)
		if err != nil {
			return team.Team{}, fmt.Errorf("get team by owner: %w", err)
		}
		if !exists {
			return team.Team{}, fmt.Errorf("%w: user %s has no team", ErrNotFound, actor.UserID)
		}
		return item, nil
	}

	item, exists, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		return team.Team{}, fmt.Errorf("get team by id: %w", err)
	}
	if !exists {
		return team.Team{}, fmt.Errorf("%w: unknown team %s", ErrInvalidInput, teamID)
	}
	if !actor.Admin && item.OwnerID != actor.UserID {
		return team.Team{}, fmt.Errorf("%w: team %s is not owned by caller", ErrForbidden, teamID)
	}
	return item, nil
}

func (s *DraftService) ensureAssetExists(ctx context.Context, assetType draft.AssetType, assetID string) error {
	var (
		exists bool
		err    error
	)
	switch assetType {
	case draft.AssetDriver:
		_, exists, err = s.driverRepo.GetByID(ctx, assetID)
	case draft.AssetConstructor:
		_, exists, err = s.constructorRepo.GetByID(ctx, assetID)
	}
	if err != nil {
		return fmt.Errorf("get %s by id: %w", assetType, err)
	}
	if !exists {
		return fmt.Errorf("%w: unknown %s %s", ErrInvalidInput, assetType, assetID)
	}
	return nil
}

func (s *DraftService) validateDraftOrder(ctx context.Context, teamIDs []string) ([]string, error) {
	if len(teamIDs) == 0 {
		return nil, fmt.Errorf("%w: team order is required", ErrInvalidInput)
	}

	teams, err := s.teamRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}
	known := make(map[string]struct{}, len(teams))
	for _, item := range teams {
		known[item.ID] = struct{}{}
	}

	out := make([]string, 0, len(teamIDs))
	seen := make(map[string]struct{}, len(teamIDs))
	for _, raw := range teamIDs {
		id := strings.TrimSpace(raw)
		if id == "" {
			return nil, fmt.Errorf("%w: team id must not be empty", ErrInvalidInput)
		}
		if _, ok := seen[id]; ok {
			return nil, fmt.Errorf("%w: duplicate team id %s", ErrInvalidInput, id)
		}
		if _, ok := known[id]; !ok {
			return nil, fmt.Errorf("%w: unknown team %s", ErrInvalidInput, id)
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out, nil
}

func availableDrivers(items []driver.Driver, board draft.Board) []driver.Driver {
	taken := board.TakenIDs(draft.AssetDriver)
	out := make([]driver.Driver, 0, len(items))
	for _, item := range items {
		if _, ok := taken[item.ID]; !ok {
			out = append(out, item)
		}
	}
	return out
}

func availableConstructors(items []constructor.Constructor, board draft.Board) []constructor.Constructor {
	taken := board.TakenIDs(draft.AssetConstructor)
	out := make([]constructor.Constructor, 0, len(items))
	for _, item := range items {
		if _, ok := taken[item.ID]; !ok {
			out = append(out, item)
		}
	}
	return out
}

func buildRosters(board draft.Board, teams []team.Team, drivers []driver.Driver, constructors []constructor.Constructor) []TeamRoster {
	teamByID := make(map[string]team.Team, len(teams))
	for _, item := range teams {
		teamByID[item.ID] = item
	}
	driverByID := make(map[string]driver.Driver, len(drivers))
	for _, item := range drivers {
		driverByID[item.ID] = item
	}
	constructorByID := make(map[string]constructor.Constructor, len(constructors))
	for _, item := range constructors {
		constructorByID[item.ID] = item
	}

	rosters := board.Rosters()
	out := make([]TeamRoster, 0, len(rosters))
	for teamID, roster := range rosters {
		teamItem, ok := teamByID[teamID]
		if !ok {
			teamItem = team.Team{ID: teamID, Name: teamID}
		}
		row := TeamRoster{
			Team:    teamItem,
			Drivers: make([]driver.Driver, 0, len(roster.DriverIDs)),
		}
		for _, id := range roster.DriverIDs {
			item, ok := driverByID[id]
			if !ok {
				item = driver.Driver{ID: id}
			}
			row.Drivers = append(row.Drivers, item)
		}
		if roster.ConstructorID != "" {
			item, ok := constructorByID[roster.ConstructorID]
			if !ok {
				item = constructor.Constructor{ID: roster.ConstructorID}
			}
			row.Constructor = &item
		}
		out = append(out, row)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Team.Name != out[j].Team.Name {
			return out[i].Team.Name < out[j].Team.Name
		}
		return out[i].Team.ID < out[j].Team.ID
	})
	return out
}
