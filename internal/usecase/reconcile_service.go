package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/riskibarqy/dart-league-stats/internal/domain/accumulation"
	"github.com/riskibarqy/dart-league-stats/internal/domain/division"
	"github.com/riskibarqy/dart-league-stats/internal/domain/match"
	"github.com/riskibarqy/dart-league-stats/internal/domain/player"
	"github.com/riskibarqy/dart-league-stats/internal/domain/playerstats"
	"github.com/riskibarqy/dart-league-stats/internal/domain/recap"
	"github.com/riskibarqy/dart-league-stats/internal/domain/season"
	"github.com/riskibarqy/dart-league-stats/internal/domain/team"
	"github.com/riskibarqy/dart-league-stats/internal/platform/logging"
)

type ReconcileRepositories struct {
	Seasons   season.Repository
	Divisions division.Repository
	Teams     team.Repository
	Players   player.Repository
	Matches   match.Repository
	Stats     playerstats.Repository
}

// ReconcileService projects fetched and accumulated data onto stored rows.
// Every write is an idempotent upsert, so a run can be repeated safely.
type ReconcileService struct {
	repos  ReconcileRepositories
	logger *logging.Logger
}

func NewReconcileService(repos ReconcileRepositories, logger *logging.Logger) *ReconcileService {
	if logger == nil {
		logger = logging.Default()
	}
	return &ReconcileService{repos: repos, logger: logger.Named("reconcile")}
}

func (s *ReconcileService) UpsertSeasons(ctx context.Context, items []ExternalSeason) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.ReconcileService.UpsertSeasons")
	defer span.End()

	for _, item := range items {
		if err := s.repos.Seasons.Upsert(ctx, season.Season{
			ID:        item.ID,
			Name:      item.Name,
			StartDate: item.StartDate,
			Active:    item.Active,
		}); err != nil {
			return fmt.Errorf("upsert season id=%d: %w", item.ID, err)
		}
	}
	return nil
}

func (s *ReconcileService) MarkSeasonScraped(ctx context.Context, seasonID int64, at time.Time) error {
	return s.repos.Seasons.MarkScraped(ctx, seasonID, at)
}

// SeasonTeams is the reconciled team and division view of one season.
type SeasonTeams struct {
	seasonID   int64
	byExternal map[int64]team.Team
	byName     map[string]team.Team
	divisions  map[string]division.Division
	divisionOf map[int64]string
}

func newSeasonTeams(seasonID int64) *SeasonTeams {
	return &SeasonTeams{
		seasonID:   seasonID,
		byExternal: make(map[int64]team.Team, 32),
		byName:     make(map[string]team.Team, 32),
		divisions:  make(map[string]division.Division, 8),
		divisionOf: make(map[int64]string, 8),
	}
}

func (t *SeasonTeams) add(item team.Team) {
	t.byExternal[item.ExternalID] = item
	t.byName[team.NameKey(item.Name)] = item
}

func (t *SeasonTeams) ByExternalID(id int64) (team.Team, bool) {
	item, ok := t.byExternal[id]
	return item, ok
}

func (t *SeasonTeams) ByName(name string) (team.Team, bool) {
	item, ok := t.byName[team.NameKey(name)]
	return item, ok
}

// List returns teams in external id order.
func (t *SeasonTeams) List() []team.Team {
	out := make([]team.Team, 0, len(t.byExternal))
	for _, item := range t.byExternal {
		out = append(out, item)
	}
	sortTeams(out)
	return out
}

// DivisionName is the display name of the team's division, or "".
func (t *SeasonTeams) DivisionName(item team.Team) string {
	if item.DivisionID == nil {
		return ""
	}
	return t.divisionOf[*item.DivisionID]
}

func (t *SeasonTeams) DivisionID(name string) *int64 {
	d, ok := t.divisions[divisionKey(name)]
	if !ok {
		return nil
	}
	id := d.ID
	return &id
}

func divisionKey(name string) string {
	return strings.ToUpper(strings.TrimSpace(name))
}

// SyncTeams upserts divisions and teams seen in the standings and schedule
// feeds. Standings win over schedule rows; venues attach by team name.
func (s *ReconcileService) SyncTeams(
	ctx context.Context,
	seasonID int64,
	standings []ExternalTeam,
	schedule []ExternalScheduledMatch,
	venues map[string]team.Venue,
) (*SeasonTeams, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ReconcileService.SyncTeams")
	defer span.End()

	view := newSeasonTeams(seasonID)
	candidates := make(map[int64]ExternalTeam, len(standings)+8)
	order := make([]int64, 0, len(standings)+8)
	offer := func(item ExternalTeam) {
		if item.ExternalID <= 0 || strings.TrimSpace(item.Name) == "" {
			return
		}
		if _, ok := candidates[item.ExternalID]; !ok {
			order = append(order, item.ExternalID)
			candidates[item.ExternalID] = item
		}
	}
	for _, item := range standings {
		offer(item)
	}
	for _, item := range schedule {
		offer(ExternalTeam{ExternalID: item.HomeTeamID, Name: item.HomeTeamName, Division: item.Division})
		offer(ExternalTeam{ExternalID: item.AwayTeamID, Name: item.AwayTeamName, Division: item.Division})
	}

	for _, id := range order {
		item := candidates[id]
		row := team.Team{
			ExternalID: item.ExternalID,
			SeasonID:   seasonID,
			Name:       strings.TrimSpace(item.Name),
			Captain:    strings.TrimSpace(item.Captain),
		}
		if name := strings.TrimSpace(item.Division); name != "" {
			d, err := s.ensureDivision(ctx, view, name)
			if err != nil {
				return nil, err
			}
			row.DivisionID = &d.ID
		}
		if item.HasStanding {
			row.Standing = &team.Standing{Wins: item.Wins, Losses: item.Losses, Points: item.Points}
		}
		if venue, ok := venues[team.NameKey(row.Name)]; ok && !venue.Empty() {
			v := venue
			row.Venue = &v
		}

		stored, err := s.repos.Teams.Upsert(ctx, row)
		if err != nil {
			return nil, fmt.Errorf("upsert team season_id=%d external_id=%d: %w", seasonID, item.ExternalID, err)
		}
		view.add(stored)
	}
	return view, nil
}

func (s *ReconcileService) ensureDivision(ctx context.Context, view *SeasonTeams, name string) (division.Division, error) {
	key := divisionKey(name)
	if d, ok := view.divisions[key]; ok {
		return d, nil
	}
	d, err := s.repos.Divisions.Ensure(ctx, view.seasonID, strings.TrimSpace(name))
	if err != nil {
		return division.Division{}, fmt.Errorf("ensure division season_id=%d name=%s: %w", view.seasonID, name, err)
	}
	view.divisions[key] = d
	view.divisionOf[d.ID] = d.Name
	return d, nil
}

// UpsertSchedule writes schedule-sourced matches keyed by their external id.
func (s *ReconcileService) UpsertSchedule(ctx context.Context, seasonID int64, items []ExternalScheduledMatch, teams *SeasonTeams) (int, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ReconcileService.UpsertSchedule")
	defer span.End()

	count := 0
	for _, item := range items {
		row := match.Match{
			ID:           item.ExternalID,
			SeasonID:     seasonID,
			Round:        item.Round,
			HomeTeamName: item.HomeTeamName,
			AwayTeamName: item.AwayTeamName,
			ScheduledAt:  item.Date,
			MatchTime:    item.MatchTime,
			DateText:     item.DateText,
			Status:       item.Status,
			HomeScore:    item.HomeScore,
			AwayScore:    item.AwayScore,
			RecapGUID:    strings.TrimSpace(item.RecapGUID),
			Phase:        item.Phase,
		}
		if name := strings.TrimSpace(item.Division); name != "" {
			d, err := s.ensureDivision(ctx, teams, name)
			if err != nil {
				return count, err
			}
			row.DivisionID = &d.ID
		}
		if home, ok := teams.ByExternalID(item.HomeTeamID); ok {
			row.HomeTeamID = &home.ID
		}
		if away, ok := teams.ByExternalID(item.AwayTeamID); ok {
			row.AwayTeamID = &away.ID
		}
		if err := s.repos.Matches.UpsertScheduled(ctx, row); err != nil {
			return count, fmt.Errorf("upsert scheduled match id=%d: %w", item.ExternalID, err)
		}
		count++
	}
	return count, nil
}

// DiscoveredMatch is a played match known from a team's history and its recap.
type DiscoveredMatch struct {
	RecapGUID string
	Date      *time.Time
	DateText  string
	Round     *int
	Division  string
	HomeTeam  string
	AwayTeam  string
	Phase     season.Phase
}

// UpsertDiscovered writes history-sourced matches under a synthetic id keyed
// by recap GUID. Matches the schedule already knows are skipped. A missing
// round is inferred from schedule anchors.
func (s *ReconcileService) UpsertDiscovered(ctx context.Context, seasonID int64, items []DiscoveredMatch, teams *SeasonTeams) (int, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ReconcileService.UpsertDiscovered")
	defer span.End()

	if len(items) == 0 {
		return 0, nil
	}
	existing, err := s.repos.Matches.ListBySeason(ctx, seasonID)
	if err != nil {
		return 0, fmt.Errorf("list matches season_id=%d: %w", seasonID, err)
	}
	scheduled := make(map[string]struct{}, len(existing))
	for _, item := range existing {
		if !item.Synthetic() && item.RecapGUID != "" {
			scheduled[strings.ToLower(item.RecapGUID)] = struct{}{}
		}
	}
	anchors := RoundAnchors(existing)

	count := 0
	for _, item := range items {
		guid := strings.TrimSpace(item.RecapGUID)
		if guid == "" {
			continue
		}
		if _, ok := scheduled[strings.ToLower(guid)]; ok {
			continue
		}

		row := match.Match{
			ID:           match.SyntheticID(guid),
			SeasonID:     seasonID,
			Round:        item.Round,
			HomeTeamName: item.HomeTeam,
			AwayTeamName: item.AwayTeam,
			ScheduledAt:  item.Date,
			DateText:     item.DateText,
			Status:       match.StatusCompleted,
			RecapGUID:    guid,
			Phase:        item.Phase,
		}
		if row.Round == nil && item.Date != nil {
			row.Round = InferRound(*item.Date, anchors)
			if row.Round == nil {
				s.logger.DebugContext(ctx, "no round anchor for discovered match", "season_id", seasonID, "recap_guid", guid)
			}
		}
		row.DivisionID = teams.DivisionID(item.Division)
		if home, ok := teams.ByName(item.HomeTeam); ok {
			row.HomeTeamID = &home.ID
		}
		if away, ok := teams.ByName(item.AwayTeam); ok {
			row.AwayTeamID = &away.ID
		}
		if err := s.repos.Matches.UpsertDiscovered(ctx, row); err != nil {
			return count, fmt.Errorf("upsert discovered match guid=%s: %w", guid, err)
		}
		count++
	}
	return count, nil
}

// ScoreUpdate carries both score sources for one match.
type ScoreUpdate struct {
	RecapGUID     string
	Authoritative *recap.Score
	LocalHome     int
	LocalAway     int
	HasLocal      bool
}

// ResolveScore prefers the platform's score, which counts forfeits, over the
// locally summed set wins.
func ResolveScore(u ScoreUpdate) (home, away int, ok bool) {
	if u.Authoritative != nil {
		return u.Authoritative.Home, u.Authoritative.Away, true
	}
	if u.HasLocal {
		return u.LocalHome, u.LocalAway, true
	}
	return 0, 0, false
}

// LocalScore counts decided sets per side.
func LocalScore(sets []recap.Set) (home, away int, ok bool) {
	for _, set := range sets {
		switch accumulation.SetWinner(set) {
		case recap.SideHome:
			home++
			ok = true
		case recap.SideAway:
			away++
			ok = true
		}
	}
	return home, away, ok
}

func (s *ReconcileService) ApplyScores(ctx context.Context, items []ScoreUpdate) (int, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ReconcileService.ApplyScores")
	defer span.End()

	count := 0
	for _, item := range items {
		home, away, ok := ResolveScore(item)
		if !ok || strings.TrimSpace(item.RecapGUID) == "" {
			continue
		}
		if err := s.repos.Matches.UpdateScore(ctx, item.RecapGUID, home, away); err != nil {
			return count, fmt.Errorf("update score guid=%s: %w", item.RecapGUID, err)
		}
		count++
	}
	return count, nil
}

// RosterMember is one player's membership row as fetched from a team roster.
type RosterMember struct {
	Name     string
	GUID     string
	Team     team.Team
	Division string
}

// PersistMembership upserts players by name and their season team. It runs
// before stats are derived so membership survives a failed accumulation.
func (s *ReconcileService) PersistMembership(ctx context.Context, seasonID int64, members []RosterMember) (map[string]player.Player, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ReconcileService.PersistMembership")
	defer span.End()

	out := make(map[string]player.Player, len(members))
	for _, member := range members {
		name := strings.TrimSpace(member.Name)
		if name == "" {
			continue
		}
		stored, err := s.repos.Players.UpsertByName(ctx, name, member.GUID)
		if err != nil {
			return out, fmt.Errorf("upsert player name=%q: %w", name, err)
		}
		out[name] = stored

		if member.Team.ID <= 0 {
			continue
		}
		if err := s.repos.Players.UpsertSeasonTeam(ctx, player.SeasonTeam{
			PlayerID:   stored.ID,
			SeasonID:   seasonID,
			TeamID:     member.Team.ID,
			DivisionID: member.Team.DivisionID,
		}); err != nil {
			return out, fmt.Errorf("upsert season team player=%q: %w", name, err)
		}
	}
	return out, nil
}

// PersistStats replaces the season and week rows of every player in result,
// one player at a time.
func (s *ReconcileService) PersistStats(
	ctx context.Context,
	seasonID int64,
	phase season.Phase,
	result accumulation.Result,
	players map[string]player.Player,
	teams *SeasonTeams,
) (int, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ReconcileService.PersistStats")
	defer span.End()

	weeksByName := make(map[string][]accumulation.PlayerWeek, len(result.Seasons))
	for _, w := range result.Weeks {
		weeksByName[w.Name] = append(weeksByName[w.Name], w)
	}

	count := 0
	for _, row := range result.Seasons {
		stored, ok := players[row.Name]
		if !ok {
			var err error
			stored, err = s.repos.Players.UpsertByName(ctx, row.Name, "")
			if err != nil {
				return count, fmt.Errorf("upsert player name=%q: %w", row.Name, err)
			}
		}

		stat := playerstats.SeasonStat{
			SeasonID:   seasonID,
			PlayerID:   stored.ID,
			PlayerName: stored.Name,
			Phase:      phase,
			Line:       row.Line,
		}
		if t, ok := teams.ByName(row.Team); ok {
			stat.TeamID = &t.ID
			stat.DivisionID = t.DivisionID
		}
		if stat.DivisionID == nil {
			stat.DivisionID = teams.DivisionID(row.Division)
		}
		if err := s.repos.Stats.UpsertSeasonStats(ctx, []playerstats.SeasonStat{stat}); err != nil {
			return count, fmt.Errorf("upsert season stats player=%q: %w", row.Name, err)
		}

		weeks := weeksByName[row.Name]
		if len(weeks) > 0 {
			items := make([]playerstats.WeekStat, 0, len(weeks))
			for _, w := range weeks {
				items = append(items, playerstats.WeekStat{
					SeasonID:     seasonID,
					PlayerID:     stored.ID,
					PlayerName:   stored.Name,
					WeekKey:      w.WeekKey,
					Phase:        phase,
					OpponentTeam: w.OpponentTeam,
					Line:         w.Line,
				})
			}
			if err := s.repos.Stats.UpsertWeekStats(ctx, items); err != nil {
				return count, fmt.Errorf("upsert week stats player=%q: %w", row.Name, err)
			}
		}
		count++
	}
	return count, nil
}

func sortTeams(items []team.Team) {
	sort.Slice(items, func(i, j int) bool { return items[i].ExternalID < items[j].ExternalID })
}
