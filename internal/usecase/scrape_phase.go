package usecase

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/dart-league-stats/internal/domain/accumulation"
	"github.com/riskibarqy/dart-league-stats/internal/domain/match"
	"github.com/riskibarqy/dart-league-stats/internal/domain/notation"
	"github.com/riskibarqy/dart-league-stats/internal/domain/recap"
	"github.com/riskibarqy/dart-league-stats/internal/domain/season"
	"github.com/riskibarqy/dart-league-stats/internal/domain/team"
	"github.com/riskibarqy/dart-league-stats/internal/platform/resilience"
)

const weekKeyLayout = "2006-01-02"

// matchMeta is what the schedule and team histories say about one recap.
type matchMeta struct {
	guid      string
	date      *time.Time
	dateText  string
	division  string
	homeTeam  string
	awayTeam  string
	scheduled bool
}

type teamRoster struct {
	team team.Team
	rows []ExternalRosterRow
}

// runPhase fetches rosters and recaps for one phase, folds them and persists
// the result. Unit fetch failures are recorded and skipped; store errors
// end the season.
func (s *ScrapeService) runPhase(ctx context.Context, run *seasonRun, phase season.Phase) (PhaseOutcome, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScrapeService.runPhase")
	defer span.End()

	outcome := PhaseOutcome{Phase: phase}
	logger := run.logger.With("phase", string(phase))

	rosters := s.fetchRosters(ctx, run, phase)
	roster, members := buildRoster(rosters, run.teams)
	players, err := s.reconcile.PersistMembership(ctx, run.season.ID, members)
	if err != nil {
		return outcome, err
	}

	metas := collectMatches(run, phase)
	recaps := s.fetchRecaps(ctx, run, metas)
	outcome.RecapFailures = len(metas) - len(recaps)

	inputs := make([]accumulation.MatchInput, 0, len(recaps))
	discovered := make([]DiscoveredMatch, 0, len(metas))
	scores := make([]ScoreUpdate, 0, len(recaps))
	for _, meta := range metas {
		item, ok := recaps[meta.guid]
		date := meta.date
		var round *int
		if ok && item.Score != nil {
			round = item.Score.Round
			if date == nil {
				date = parseRecapDate(item.Score.Date)
			}
		}

		if !meta.scheduled {
			discovered = append(discovered, DiscoveredMatch{
				RecapGUID: meta.guid,
				Date:      date,
				DateText:  meta.dateText,
				Round:     round,
				Division:  meta.division,
				HomeTeam:  meta.homeTeam,
				AwayTeam:  meta.awayTeam,
				Phase:     phase,
			})
		}
		if !ok {
			continue
		}

		update := ScoreUpdate{RecapGUID: meta.guid, Authoritative: item.Score}
		update.LocalHome, update.LocalAway, update.HasLocal = LocalScore(item.Sets)
		scores = append(scores, update)

		input := accumulation.MatchInput{
			RecapGUID: meta.guid,
			WeekKey:   weekKey(date, meta.guid),
			Division:  meta.division,
			HomeTeam:  meta.homeTeam,
			AwayTeam:  meta.awayTeam,
			Sets:      item.Sets,
			Players:   item.Players,
		}
		if date != nil {
			input.Date = *date
		}
		inputs = append(inputs, input)
	}

	result := accumulation.Accumulate(accumulation.Input{
		Roster:      roster,
		Matches:     inputs,
		Leaderboard: s.fetchLeaderboard(ctx, run, phase),
		Policy:      run.policy,
	})

	count, err := s.reconcile.UpsertDiscovered(ctx, run.season.ID, discovered, run.teams)
	if err != nil {
		return outcome, err
	}
	outcome.Matches = count
	if _, err := s.reconcile.ApplyScores(ctx, scores); err != nil {
		return outcome, err
	}
	outcome.Players, err = s.reconcile.PersistStats(ctx, run.season.ID, phase, result, players, run.teams)
	if err != nil {
		return outcome, err
	}

	logger.InfoContext(ctx, "phase pass finished",
		"rostered", len(roster),
		"recaps", len(recaps),
		"recap_failures", outcome.RecapFailures,
		"discovered", count,
		"players", outcome.Players,
	)
	return outcome, nil
}

func (s *ScrapeService) fetchRosters(ctx context.Context, run *seasonRun, phase season.Phase) []teamRoster {
	settled := resilience.Settle(ctx, s.cfg.MaxWorkers, run.teams.List(),
		func(item team.Team) string {
			return "team:" + strconv.FormatInt(item.ExternalID, 10) + ":" + strings.ToLower(string(phase))
		},
		func(ctx context.Context, item team.Team) (teamRoster, error) {
			rows, err := s.provider.FetchRoster(ctx, run.session, run.season.ID, item.ExternalID, phase)
			if err != nil {
				return teamRoster{}, err
			}
			return teamRoster{team: item, rows: rows}, nil
		},
	)
	RecordBatch(run.diag, run.season.ID, "roster", settled)

	out := make([]teamRoster, 0, len(settled.Outcomes))
	for _, item := range settled.Succeeded() {
		out = append(out, item.Value)
	}
	return out
}

// buildRoster flattens team rosters. A name seen on two teams stays with the
// first team in external id order.
func buildRoster(rosters []teamRoster, teams *SeasonTeams) ([]accumulation.RosterEntry, []RosterMember) {
	seen := make(map[string]struct{}, len(rosters)*8)
	roster := make([]accumulation.RosterEntry, 0, len(rosters)*8)
	members := make([]RosterMember, 0, len(rosters)*8)
	for _, item := range rosters {
		division := teams.DivisionName(item.team)
		for idx, row := range item.rows {
			name := strings.TrimSpace(row.Name)
			if name == "" {
				continue
			}
			if _, dup := seen[name]; dup {
				continue
			}
			seen[name] = struct{}{}
			roster = append(roster, accumulation.RosterEntry{
				Name:     name,
				Team:     item.team.Name,
				Division: division,
				Position: idx + 1,
				PPR:      row.PPR,
				MPR:      row.MPR,
			})
			members = append(members, RosterMember{
				Name:     name,
				GUID:     row.GUID,
				Team:     item.team,
				Division: division,
			})
		}
	}
	return roster, members
}

// collectMatches merges completed schedule matches with history entries for
// the phase. Schedule fields take precedence.
func collectMatches(run *seasonRun, phase season.Phase) []matchMeta {
	byGUID := make(map[string]*matchMeta, 64)
	order := make([]string, 0, 64)
	get := func(guid string) *matchMeta {
		key := strings.ToLower(guid)
		meta, ok := byGUID[key]
		if !ok {
			meta = &matchMeta{guid: guid}
			byGUID[key] = meta
			order = append(order, key)
		}
		return meta
	}

	for _, item := range run.schedule {
		guid := strings.TrimSpace(item.RecapGUID)
		if guid == "" || item.Phase != phase || item.Status != match.StatusCompleted {
			continue
		}
		meta := get(guid)
		meta.scheduled = true
		meta.date = item.Date
		meta.dateText = item.DateText
		meta.division = item.Division
		meta.homeTeam = item.HomeTeamName
		meta.awayTeam = item.AwayTeamName
	}

	for _, history := range run.histories {
		division := run.teams.DivisionName(history.team)
		for _, entry := range history.entries {
			guid := strings.TrimSpace(entry.RecapGUID)
			if guid == "" || entry.Phase != phase {
				continue
			}
			meta := get(guid)
			if meta.date == nil {
				meta.date = entry.Date
			}
			if meta.dateText == "" {
				meta.dateText = entry.DateText
			}
			if meta.division == "" {
				meta.division = division
			}
			switch entry.Side {
			case recap.SideHome:
				meta.homeTeam = firstNonBlank(meta.homeTeam, history.team.Name)
				meta.awayTeam = firstNonBlank(meta.awayTeam, entry.Opponent)
			case recap.SideAway:
				meta.homeTeam = firstNonBlank(meta.homeTeam, entry.Opponent)
				meta.awayTeam = firstNonBlank(meta.awayTeam, history.team.Name)
			}
		}
	}

	sort.Strings(order)
	out := make([]matchMeta, 0, len(order))
	for _, key := range order {
		out = append(out, *byGUID[key])
	}
	return out
}

// fetchRecaps loads every recap concurrently. Segments are required; the
// score and per-player pages are optional and fail on their own.
func (s *ScrapeService) fetchRecaps(ctx context.Context, run *seasonRun, metas []matchMeta) map[string]recap.Match {
	settled := resilience.Settle(ctx, s.cfg.MaxWorkers, metas,
		func(meta matchMeta) string { return meta.guid },
		func(ctx context.Context, meta matchMeta) (recap.Match, error) {
			sets, err := s.provider.FetchSegments(ctx, meta.guid)
			if err != nil {
				return recap.Match{}, err
			}
			out := recap.Match{RecapGUID: meta.guid, Sets: sets}

			if score, err := s.provider.FetchMatchScore(ctx, meta.guid); err != nil {
				run.diag.Fail(run.season.ID, "match_score", meta.guid, err)
			} else {
				out.Score = &score
			}
			if players, err := s.provider.FetchMatchPlayers(ctx, meta.guid); err != nil {
				run.diag.Fail(run.season.ID, "match_players", meta.guid, err)
			} else {
				out.Players = players
			}
			return out, nil
		},
	)
	RecordBatch(run.diag, run.season.ID, "recap", settled)

	out := make(map[string]recap.Match, len(metas))
	for _, item := range settled.Succeeded() {
		out[item.Value.RecapGUID] = item.Value
	}
	return out
}

// fetchLeaderboard is the season-wide cricket aggregate. It only describes
// the regular season.
func (s *ScrapeService) fetchLeaderboard(ctx context.Context, run *seasonRun, phase season.Phase) map[string]accumulation.LeaderboardLine {
	if phase != season.PhaseRegular {
		return nil
	}
	rows, err := s.provider.FetchLeaderboard(ctx, run.leagueID, run.season.ID, string(notation.GameCricket))
	if err != nil {
		run.diag.Fail(run.season.ID, "leaderboard", strconv.FormatInt(run.season.ID, 10), err)
		return nil
	}
	out := make(map[string]accumulation.LeaderboardLine, len(rows))
	for _, row := range rows {
		out[strings.TrimSpace(row.Name)] = accumulation.LeaderboardLine{Marks: row.Marks, Darts: row.Darts}
	}
	return out
}

func weekKey(date *time.Time, guid string) string {
	if date == nil || date.IsZero() {
		return guid
	}
	return date.UTC().Format(weekKeyLayout)
}

var recapDateLayouts = []string{weekKeyLayout, time.RFC3339, "01/02/2006", "Jan 2, 2006", "January 2, 2006"}

func parseRecapDate(raw string) *time.Time {
	raw = strings.TrimSpace(raw)
	for _, layout := range recapDateLayouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			day := calendarDay(parsed)
			return &day
		}
	}
	return nil
}

func firstNonBlank(values ...string) string {
	for _, item := range values {
		if strings.TrimSpace(item) != "" {
			return strings.TrimSpace(item)
		}
	}
	return ""
}
