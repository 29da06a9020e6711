package dartconnect

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/riskibarqy/dart-league-stats/internal/domain/match"
	"github.com/riskibarqy/dart-league-stats/internal/domain/recap"
	"github.com/riskibarqy/dart-league-stats/internal/domain/season"
	"github.com/riskibarqy/dart-league-stats/internal/usecase"
)

const leaderboardFormat = "season"

func (c *Client) FetchSeasons(ctx context.Context) (usecase.ExternalSeasonList, error) {
	props, err := c.fetchProps(ctx, c.leaguePath("/seasons"))
	if err != nil {
		return usecase.ExternalSeasonList{}, fmt.Errorf("fetch seasons: %w", err)
	}
	return normalizeSeasons(props), nil
}

func normalizeSeasons(props map[string]any) usecase.ExternalSeasonList {
	out := usecase.ExternalSeasonList{
		LeagueID: firstNonEmpty(getString(getMap(props, "league"), "id"), getString(props, "league_id")),
	}

	active := getSlice(props, "activeSeasons")
	archived := getSlice(props, "archivedSeasons")
	if grouped := getMap(props, "seasons"); grouped != nil {
		active = append(active, getSlice(grouped, "active")...)
		archived = append(archived, getSlice(grouped, "archived")...)
	}

	seen := make(map[int64]int, len(active)+len(archived))
	add := func(items []any, isActive bool) {
		for _, item := range objects(items) {
			id := getInt64(item, "id", "season_id")
			if id <= 0 {
				continue
			}
			if idx, dup := seen[id]; dup {
				out.Seasons[idx].Active = out.Seasons[idx].Active || isActive
				continue
			}
			seen[id] = len(out.Seasons)
			out.Seasons = append(out.Seasons, usecase.ExternalSeason{
				ID:        id,
				Name:      getString(item, "name", "season_name"),
				StartDate: parseDate(getString(item, "start_date", "season_start")),
				Active:    isActive,
			})
		}
	}
	add(active, true)
	add(archived, false)
	return out
}

func (c *Client) FetchStandings(ctx context.Context, seasonID int64) ([]usecase.ExternalTeam, error) {
	if seasonID <= 0 {
		return nil, fmt.Errorf("%w: season id must be greater than zero", usecase.ErrInvalidInput)
	}
	props, err := c.fetchProps(ctx, c.leaguePath("/standings/%d", seasonID))
	if err != nil {
		return nil, fmt.Errorf("fetch standings season_id=%d: %w", seasonID, err)
	}
	return normalizeStandings(props["standings"]), nil
}

// normalizeStandings accepts a list of division groups, a flat team list, or
// an object keyed by division name.
func normalizeStandings(raw any) []usecase.ExternalTeam {
	out := make([]usecase.ExternalTeam, 0, 32)
	addTeam := func(item map[string]any, division string) {
		id := getInt64(item, "id", "team_id")
		name := getString(item, "name", "team_name")
		if id <= 0 || name == "" {
			return
		}
		out = append(out, usecase.ExternalTeam{
			ExternalID:  id,
			Name:        name,
			Captain:     getString(item, "captain", "captain_name"),
			Division:    firstNonEmpty(getString(item, "division", "division_name"), division),
			HasStanding: hasAny(item, "wins", "losses", "points"),
			Wins:        getInt(item, "wins"),
			Losses:      getInt(item, "losses"),
			Points:      getFloat(item, "points"),
		})
	}

	switch typed := raw.(type) {
	case []any:
		for _, item := range objects(typed) {
			if teams := getSlice(item, "teams"); teams != nil {
				division := getString(item, "division", "name", "division_name")
				for _, teamItem := range objects(teams) {
					addTeam(teamItem, division)
				}
				continue
			}
			addTeam(item, "")
		}
	case map[string]any:
		divisions := make([]string, 0, len(typed))
		for key := range typed {
			divisions = append(divisions, key)
		}
		sort.Strings(divisions)
		for _, division := range divisions {
			switch group := typed[division].(type) {
			case []any:
				for _, teamItem := range objects(group) {
					addTeam(teamItem, division)
				}
			case map[string]any:
				for _, teamItem := range objects(getSlice(group, "teams")) {
					addTeam(teamItem, firstNonEmpty(getString(group, "division", "name"), division))
				}
			}
		}
	}
	return out
}

func (c *Client) FetchSchedule(ctx context.Context, session usecase.ExternalSession, seasonID int64) ([]usecase.ExternalScheduledMatch, error) {
	var payload any
	body := map[string]any{"season_id": seasonID}
	if err := c.postJSON(ctx, c.apiPath("schedule"), &session, body, &payload); err != nil {
		return nil, fmt.Errorf("fetch schedule season_id=%d: %w", seasonID, err)
	}
	return normalizeSchedule(payload), nil
}

func normalizeSchedule(payload any) []usecase.ExternalScheduledMatch {
	rows := decodeRows(payload, "matches")
	out := make([]usecase.ExternalScheduledMatch, 0, len(rows))
	for _, item := range rows {
		id := getInt64(item, "id", "match_id")
		if id <= 0 {
			continue
		}
		dateText := getString(item, "match_date", "date")
		row := usecase.ExternalScheduledMatch{
			ExternalID:   id,
			Round:        optionalInt(item, "round_seq", "round", "week"),
			Division:     getString(item, "division", "division_name"),
			HomeTeamID:   getInt64(item, "home_team_id"),
			AwayTeamID:   getInt64(item, "away_team_id"),
			HomeTeamName: getString(item, "home_team_name", "home_team"),
			AwayTeamName: getString(item, "away_team_name", "away_team"),
			Date:         parseDate(dateText),
			DateText:     dateText,
			MatchTime:    getString(item, "match_time", "time"),
			HomeScore:    optionalInt(item, "home_score"),
			AwayScore:    optionalInt(item, "away_score"),
			RecapGUID:    getString(item, "match_guid", "recap_id", "guid"),
			Phase:        parsePhase(item),
		}
		row.Status = normalizeStatus(getString(item, "status"), row.HomeScore != nil && row.AwayScore != nil)
		out = append(out, row)
	}
	return out
}

func (c *Client) FetchRoster(ctx context.Context, session usecase.ExternalSession, seasonID, teamID int64, phase season.Phase) ([]usecase.ExternalRosterRow, error) {
	var payload any
	body := map[string]any{"season_id": seasonID, "team_id": teamID, "phase": strings.ToLower(string(phase))}
	if err := c.postJSON(ctx, c.apiPath("roster"), &session, body, &payload); err != nil {
		return nil, fmt.Errorf("fetch roster season_id=%d team_id=%d: %w", seasonID, teamID, err)
	}
	return normalizeRoster(payload), nil
}

func normalizeRoster(payload any) []usecase.ExternalRosterRow {
	rows := decodeRows(payload, "rows", "players")
	out := make([]usecase.ExternalRosterRow, 0, len(rows))
	for _, item := range rows {
		name := getString(item, "player_name", "name")
		if name == "" {
			continue
		}
		out = append(out, usecase.ExternalRosterRow{
			Name:        name,
			GUID:        getString(item, "player_id", "guid"),
			SetsWon:     getInt(item, "sets_won"),
			SetsPlayed:  getInt(item, "sets_played"),
			HundredPlus: getInt(item, "ton_total", "hundred_plus"),
			OneEighties: getInt(item, "ton_80", "one_eighty"),
			HighOut:     getInt(item, "high_out"),
			PPR:         getFloat(item, "ppr"),
			MPR:         getFloat(item, "mpr"),
		})
	}
	return out
}

func (c *Client) FetchTeamHistory(ctx context.Context, session usecase.ExternalSession, seasonID, teamID int64) ([]usecase.ExternalHistoryEntry, error) {
	var payload any
	body := map[string]any{"season_id": seasonID, "team_id": teamID}
	if err := c.postJSON(ctx, c.apiPath("team-history"), &session, body, &payload); err != nil {
		return nil, fmt.Errorf("fetch team history season_id=%d team_id=%d: %w", seasonID, teamID, err)
	}
	return normalizeHistory(payload), nil
}

func normalizeHistory(payload any) []usecase.ExternalHistoryEntry {
	rows := decodeRows(payload, "rows", "matches", "history")
	out := make([]usecase.ExternalHistoryEntry, 0, len(rows))
	for _, item := range rows {
		guid := getString(item, "match_id", "recap_id", "guid")
		if guid == "" {
			continue
		}
		dateText := getString(item, "date", "match_date")
		out = append(out, usecase.ExternalHistoryEntry{
			RecapGUID: guid,
			DateText:  dateText,
			Date:      parseDate(dateText),
			Opponent:  getString(item, "opponent", "opponent_name"),
			Side:      parseSide(getString(item, "side", "home_away")),
			Outcome:   getString(item, "outcome", "result"),
			Phase:     parsePhase(item),
		})
	}
	return out
}

func (c *Client) FetchLeaderboard(ctx context.Context, leagueID string, seasonID int64, gameType string) ([]usecase.ExternalLeaderboardRow, error) {
	var payload any
	body := map[string]any{
		"league_id": firstNonEmpty(leagueID, c.leagueID),
		"season_id": seasonID,
		"game_type": gameType,
		"format":    leaderboardFormat,
	}
	if err := c.postJSON(ctx, c.leaderboardURL, nil, body, &payload); err != nil {
		return nil, fmt.Errorf("fetch leaderboard season_id=%d game_type=%s: %w", seasonID, gameType, err)
	}

	rows := decodeRows(payload, "rows")
	out := make([]usecase.ExternalLeaderboardRow, 0, len(rows))
	for _, item := range rows {
		name := getString(item, "player_name", "name")
		if name == "" {
			continue
		}
		out = append(out, usecase.ExternalLeaderboardRow{
			Name:  name,
			Marks: getInt(item, "marks"),
			Darts: getInt(item, "darts"),
		})
	}
	return out, nil
}

// decodeRows accepts a bare JSON array or an object holding the rows under
// one of keys, optionally nested in "data".
func decodeRows(payload any, keys ...string) []map[string]any {
	switch typed := payload.(type) {
	case []any:
		return objects(typed)
	case map[string]any:
		return rowsOf(typed, keys...)
	default:
		return nil
	}
}

func parsePhase(item map[string]any) season.Phase {
	if getBool(item, "is_playoff", "playoff") {
		return season.PhasePost
	}
	switch strings.ToLower(getString(item, "phase")) {
	case "post", "postseason", "playoff", "playoffs":
		return season.PhasePost
	default:
		return season.PhaseRegular
	}
}

func parseSide(raw string) recap.Side {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "home", "h":
		return recap.SideHome
	case "away", "a", "visitor":
		return recap.SideAway
	default:
		return ""
	}
}

func normalizeStatus(raw string, hasScore bool) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "completed", "complete", "final", "finished", "played":
		return match.StatusCompleted
	case "":
		if hasScore {
			return match.StatusCompleted
		}
	}
	return match.StatusScheduled
}
