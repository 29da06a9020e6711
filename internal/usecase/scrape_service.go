package usecase

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/riskibarqy/dart-league-stats/internal/domain/scoringconfig"
	"github.com/riskibarqy/dart-league-stats/internal/domain/scrapelog"
	"github.com/riskibarqy/dart-league-stats/internal/domain/season"
	"github.com/riskibarqy/dart-league-stats/internal/domain/team"
	"github.com/riskibarqy/dart-league-stats/internal/platform/id"
	"github.com/riskibarqy/dart-league-stats/internal/platform/logging"
	"github.com/riskibarqy/dart-league-stats/internal/platform/resilience"
	"github.com/sourcegraph/conc/panics"
)

const (
	ScrapeModeActive    = "active"
	ScrapeModeSeason    = "season"
	ScrapeModeUnscraped = "unscraped"
	ScrapeModeForceAll  = "force_all"

	seasonStatusSuccess = "success"
	seasonStatusError   = "error"

	defaultScrapeMaxWorkers = 6
)

// ScrapeInput selects the seasons of a run. SeasonID picks one season; All
// picks every active season plus every season not yet scraped, or every
// season when Force is set. With neither, only active seasons run.
type ScrapeInput struct {
	RunID    string
	SeasonID int64
	All      bool
	Force    bool
	Trigger  scrapelog.Trigger
}

func (in ScrapeInput) Mode() string {
	switch {
	case in.SeasonID > 0:
		return ScrapeModeSeason
	case in.All && in.Force:
		return ScrapeModeForceAll
	case in.All:
		return ScrapeModeUnscraped
	default:
		return ScrapeModeActive
	}
}

type PhaseOutcome struct {
	Phase         season.Phase `json:"phase"`
	Players       int          `json:"players"`
	Matches       int          `json:"matches"`
	RecapFailures int          `json:"recap_failures"`
}

type SeasonOutcome struct {
	SeasonID int64          `json:"season_id"`
	Name     string         `json:"name"`
	Status   string         `json:"status"`
	Error    string         `json:"error,omitempty"`
	Players  int            `json:"players"`
	Matches  int            `json:"matches"`
	Phases   []PhaseOutcome `json:"phases,omitempty"`
}

type ScrapeResult struct {
	RunID          string           `json:"run_id"`
	Mode           string           `json:"mode"`
	Status         scrapelog.Status `json:"status"`
	SeasonsUpdated int              `json:"seasons_updated"`
	PlayersUpdated int              `json:"players_updated"`
	MatchesUpdated int              `json:"matches_updated"`
	Seasons        []SeasonOutcome  `json:"seasons"`
	Diagnostics    map[string]any   `json:"diagnostics"`
}

type ScrapeConfig struct {
	// MaxWorkers bounds concurrent fetches inside one batch.
	MaxWorkers int
	// SeasonWorkers bounds seasons processed at once.
	SeasonWorkers int
}

type ScrapeDependencies struct {
	Provider  DartProvider
	Reconcile *ReconcileService
	Seasons   season.Repository
	Scoring   scoringconfig.Repository
	Logs      scrapelog.Repository
	IDs       id.Generator
	Logger    *logging.Logger
	Now       func() time.Time
}

// ScrapeService runs the scrape-and-aggregate pipeline.
type ScrapeService struct {
	provider  DartProvider
	reconcile *ReconcileService
	seasons   season.Repository
	scoring   scoringconfig.Repository
	logs      scrapelog.Repository
	ids       id.Generator
	cfg       ScrapeConfig
	logger    *logging.Logger
	now       func() time.Time
}

func NewScrapeService(deps ScrapeDependencies, cfg ScrapeConfig) *ScrapeService {
	logger := deps.Logger
	if logger == nil {
		logger = logging.Default()
	}
	ids := deps.IDs
	if ids == nil {
		ids = id.NewUUIDGenerator()
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	if cfg.MaxWorkers <= 0 {
		cfg.MaxWorkers = defaultScrapeMaxWorkers
	}
	if cfg.SeasonWorkers <= 0 {
		cfg.SeasonWorkers = 1
	}
	return &ScrapeService{
		provider:  deps.Provider,
		reconcile: deps.Reconcile,
		seasons:   deps.Seasons,
		scoring:   deps.Scoring,
		logs:      deps.Logs,
		ids:       ids,
		cfg:       cfg,
		logger:    logger.Named("scrape"),
		now:       now,
	}
}

// Run executes a scrape synchronously.
func (s *ScrapeService) Run(ctx context.Context, input ScrapeInput) (ScrapeResult, error) {
	entry, err := s.Begin(ctx, input)
	if err != nil {
		return ScrapeResult{}, err
	}
	input.RunID = entry.RunID
	return s.Execute(ctx, entry, input)
}

// Begin validates input and records the run as running.
func (s *ScrapeService) Begin(ctx context.Context, input ScrapeInput) (scrapelog.Entry, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScrapeService.Begin")
	defer span.End()

	if s.provider == nil || s.reconcile == nil || s.logs == nil {
		return scrapelog.Entry{}, fmt.Errorf("%w: scrape pipeline is not fully configured", ErrDependencyUnavailable)
	}
	if input.SeasonID < 0 {
		return scrapelog.Entry{}, fmt.Errorf("%w: season id must be positive", ErrInvalidInput)
	}

	runID := strings.TrimSpace(input.RunID)
	if runID == "" {
		var err error
		runID, err = s.ids.NewID()
		if err != nil {
			return scrapelog.Entry{}, fmt.Errorf("generate run id: %w", err)
		}
	}
	trigger := input.Trigger
	if trigger == "" {
		trigger = scrapelog.TriggerManual
	}

	entry := scrapelog.Entry{
		RunID:     runID,
		Trigger:   trigger,
		Mode:      input.Mode(),
		Status:    scrapelog.StatusRunning,
		StartedAt: s.now().UTC(),
	}
	if err := s.logs.Record(ctx, entry); err != nil {
		return scrapelog.Entry{}, fmt.Errorf("record scrape run start: %w", err)
	}
	return entry, nil
}

// Execute performs the run recorded by Begin and records its outcome.
func (s *ScrapeService) Execute(ctx context.Context, entry scrapelog.Entry, input ScrapeInput) (ScrapeResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScrapeService.Execute")
	defer span.End()

	logger := s.logger.With("run_id", entry.RunID, "mode", entry.Mode, "trigger", string(entry.Trigger))
	diag := NewDiagnostics()
	result := ScrapeResult{RunID: entry.RunID, Mode: entry.Mode}

	logger.InfoContext(ctx, "scrape run started")
	seasonList, targets, err := s.prepare(ctx, input)
	if err != nil {
		logger.ErrorContext(ctx, "scrape run aborted", "error", err)
		result.Status = scrapelog.StatusError
		result.Diagnostics = diag.Map()
		s.finish(ctx, entry, result, err)
		return result, err
	}

	venues := sync.OnceValue(func() map[string]team.Venue {
		return s.provider.FetchVenues(ctx)
	})

	outcomes := make([]SeasonOutcome, len(targets))
	pool, err := ants.NewPool(minInt(s.cfg.SeasonWorkers, maxInt(len(targets), 1)))
	if err != nil {
		err = fmt.Errorf("create season worker pool: %w", err)
		result.Status = scrapelog.StatusError
		s.finish(ctx, entry, result, err)
		return result, err
	}
	defer pool.Release()

	var workers sync.WaitGroup
	for idx, target := range targets {
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()
			outcomes[idx] = s.runSeasonSafely(ctx, logger, seasonList.LeagueID, target, diag, venues)
		}); err != nil {
			workers.Done()
			outcomes[idx] = SeasonOutcome{
				SeasonID: target.ID,
				Name:     target.Name,
				Status:   seasonStatusError,
				Error:    fmt.Sprintf("submit season to worker pool: %v", err),
			}
		}
	}
	workers.Wait()

	failed := make([]string, 0)
	for _, outcome := range outcomes {
		result.Seasons = append(result.Seasons, outcome)
		if outcome.Status != seasonStatusSuccess {
			failed = append(failed, fmt.Sprintf("season %d: %s", outcome.SeasonID, outcome.Error))
			continue
		}
		result.SeasonsUpdated++
		result.PlayersUpdated += outcome.Players
		result.MatchesUpdated += outcome.Matches
	}

	switch {
	case len(targets) > 0 && len(failed) == len(targets):
		result.Status = scrapelog.StatusError
	case len(failed) > 0:
		result.Status = scrapelog.StatusPartial
	default:
		result.Status = scrapelog.StatusSuccess
	}
	result.Diagnostics = diag.Map()

	var runErr error
	if len(failed) > 0 {
		runErr = fmt.Errorf("%s", strings.Join(failed, "; "))
	}
	s.finish(ctx, entry, result, runErr)

	logger.InfoContext(ctx, "scrape run finished",
		"status", string(result.Status),
		"seasons_updated", result.SeasonsUpdated,
		"players_updated", result.PlayersUpdated,
		"matches_updated", result.MatchesUpdated,
		"unit_failures", diag.FailureCount(),
	)
	return result, nil
}

// prepare loads the season list, stores its metadata and picks the targets.
// Any error here is fatal to the run.
func (s *ScrapeService) prepare(ctx context.Context, input ScrapeInput) (ExternalSeasonList, []ExternalSeason, error) {
	list, err := s.provider.FetchSeasons(ctx)
	if err != nil {
		return list, nil, fmt.Errorf("fetch season list: %w", err)
	}
	if len(list.Seasons) == 0 {
		return list, nil, ErrNoSeasons
	}
	if err := s.reconcile.UpsertSeasons(ctx, list.Seasons); err != nil {
		return list, nil, err
	}
	targets, err := s.selectTargets(ctx, input, list.Seasons)
	if err != nil {
		return list, nil, err
	}
	return list, targets, nil
}

func (s *ScrapeService) selectTargets(ctx context.Context, input ScrapeInput, seasons []ExternalSeason) ([]ExternalSeason, error) {
	out := make([]ExternalSeason, 0, len(seasons))
	switch input.Mode() {
	case ScrapeModeSeason:
		for _, item := range seasons {
			if item.ID == input.SeasonID {
				return append(out, item), nil
			}
		}
		return nil, fmt.Errorf("%w: season %d is not listed by the platform", ErrNotFound, input.SeasonID)
	case ScrapeModeForceAll:
		out = append(out, seasons...)
	case ScrapeModeUnscraped:
		for _, item := range seasons {
			stored, ok, err := s.seasons.GetByID(ctx, item.ID)
			if err != nil {
				return nil, fmt.Errorf("load season id=%d: %w", item.ID, err)
			}
			if item.Active || !ok || !stored.Scraped() {
				out = append(out, item)
			}
		}
	default:
		for _, item := range seasons {
			if item.Active {
				out = append(out, item)
			}
		}
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *ScrapeService) runSeasonSafely(
	ctx context.Context,
	logger *logging.Logger,
	leagueID string,
	target ExternalSeason,
	diag *Diagnostics,
	venues func() map[string]team.Venue,
) SeasonOutcome {
	outcome := SeasonOutcome{SeasonID: target.ID, Name: target.Name}
	seasonLogger := logger.With("season_id", target.ID)

	var catcher panics.Catcher
	var err error
	catcher.Try(func() {
		err = s.runSeason(ctx, seasonLogger, leagueID, target, diag, venues, &outcome)
	})
	if recovered := catcher.Recovered(); recovered != nil {
		err = recovered.AsError()
	}

	if err != nil {
		seasonLogger.ErrorContext(ctx, "season scrape failed", "error", err)
		outcome.Status = seasonStatusError
		outcome.Error = err.Error()
		return outcome
	}
	outcome.Status = seasonStatusSuccess
	seasonLogger.InfoContext(ctx, "season scrape finished", "players", outcome.Players, "matches", outcome.Matches)
	return outcome
}

// seasonRun is the shared state of one season's passes.
type seasonRun struct {
	leagueID  string
	season    ExternalSeason
	session   ExternalSession
	teams     *SeasonTeams
	schedule  []ExternalScheduledMatch
	histories []teamHistory
	policy    scoringconfig.Policy
	diag      *Diagnostics
	logger    *logging.Logger
}

type teamHistory struct {
	team    team.Team
	entries []ExternalHistoryEntry
}

func (s *ScrapeService) runSeason(
	ctx context.Context,
	logger *logging.Logger,
	leagueID string,
	target ExternalSeason,
	diag *Diagnostics,
	venues func() map[string]team.Venue,
	outcome *SeasonOutcome,
) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScrapeService.runSeason")
	defer span.End()

	session, err := s.provider.AcquireSession(ctx)
	if err != nil {
		return err
	}
	standings, err := s.provider.FetchStandings(ctx, target.ID)
	if err != nil {
		return err
	}
	schedule, err := s.provider.FetchSchedule(ctx, session, target.ID)
	if err != nil {
		diag.Fail(target.ID, "schedule", strconv.FormatInt(target.ID, 10), err)
		logger.WarnContext(ctx, "schedule fetch failed, continuing with history only", "error", err)
		schedule = nil
	}

	var venueMap map[string]team.Venue
	if target.Active {
		venueMap = venues()
	}
	teams, err := s.reconcile.SyncTeams(ctx, target.ID, standings, schedule, venueMap)
	if err != nil {
		return err
	}
	scheduled, err := s.reconcile.UpsertSchedule(ctx, target.ID, schedule, teams)
	if err != nil {
		return err
	}
	outcome.Matches += scheduled

	run := &seasonRun{
		leagueID: leagueID,
		season:   target,
		session:  session,
		teams:    teams,
		schedule: schedule,
		policy:   s.loadPolicy(ctx, target.ID, diag),
		diag:     diag,
		logger:   logger,
	}
	run.histories = s.fetchHistories(ctx, run)

	for _, phase := range run.phases() {
		phaseOutcome, err := s.runPhase(ctx, run, phase)
		if err != nil {
			return fmt.Errorf("%s pass: %w", strings.ToLower(string(phase)), err)
		}
		outcome.Phases = append(outcome.Phases, phaseOutcome)
		outcome.Matches += phaseOutcome.Matches
		outcome.Players = maxInt(outcome.Players, phaseOutcome.Players)
	}

	return s.reconcile.MarkSeasonScraped(ctx, target.ID, s.now().UTC())
}

func (s *ScrapeService) loadPolicy(ctx context.Context, seasonID int64, diag *Diagnostics) scoringconfig.Policy {
	if s.scoring == nil {
		return scoringconfig.DefaultPolicy()
	}
	scope := scoringconfig.SeasonScope(seasonID)
	entries, err := s.scoring.ListByScopes(ctx, scoringconfig.Scopes(seasonID))
	if err != nil {
		diag.Fail(seasonID, "scoring_config", scope, err)
		s.logger.WarnContext(ctx, "scoring config unavailable, using defaults", "season_id", seasonID, "error", err)
		return scoringconfig.DefaultPolicy()
	}
	return scoringconfig.NewPolicy(scope, entries)
}

func (s *ScrapeService) fetchHistories(ctx context.Context, run *seasonRun) []teamHistory {
	teams := run.teams.List()
	settled := resilience.Settle(ctx, s.cfg.MaxWorkers, teams,
		func(item team.Team) string { return "team:" + strconv.FormatInt(item.ExternalID, 10) },
		func(ctx context.Context, item team.Team) (teamHistory, error) {
			entries, err := s.provider.FetchTeamHistory(ctx, run.session, run.season.ID, item.ExternalID)
			if err != nil {
				return teamHistory{}, err
			}
			return teamHistory{team: item, entries: entries}, nil
		},
	)
	RecordBatch(run.diag, run.season.ID, "team_history", settled)

	out := make([]teamHistory, 0, len(teams))
	for _, item := range settled.Succeeded() {
		out = append(out, item.Value)
	}
	return out
}

// phases is the regular pass plus the post pass when postseason data exists.
func (r *seasonRun) phases() []season.Phase {
	for _, item := range r.schedule {
		if item.Phase == season.PhasePost {
			return []season.Phase{season.PhaseRegular, season.PhasePost}
		}
	}
	for _, history := range r.histories {
		for _, entry := range history.entries {
			if entry.Phase == season.PhasePost {
				return []season.Phase{season.PhaseRegular, season.PhasePost}
			}
		}
	}
	return []season.Phase{season.PhaseRegular}
}

func minInt(left, right int) int {
	if left < right {
		return left
	}
	return right
}

func maxInt(left, right int) int {
	if left > right {
		return left
	}
	return right
}

func (s *ScrapeService) finish(ctx context.Context, entry scrapelog.Entry, result ScrapeResult, runErr error) {
	finishedAt := s.now().UTC()
	entry.Status = result.Status
	entry.SeasonsUpdated = result.SeasonsUpdated
	entry.PlayersUpdated = result.PlayersUpdated
	entry.MatchesUpdated = result.MatchesUpdated
	entry.Diagnostics = result.Diagnostics
	if entry.Diagnostics == nil {
		entry.Diagnostics = map[string]any{}
	}
	entry.Diagnostics["seasons"] = result.Seasons
	entry.FinishedAt = &finishedAt
	if runErr != nil {
		entry.ErrorText = runErr.Error()
	}

	if err := s.logs.Record(context.WithoutCancel(ctx), entry); err != nil {
		s.logger.ErrorContext(ctx, "record scrape run outcome failed", "run_id", entry.RunID, "error", err)
	}
}
