package dartconnect

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/riskibarqy/dart-league-stats/internal/domain/notation"
	"github.com/riskibarqy/dart-league-stats/internal/domain/recap"
	"github.com/riskibarqy/dart-league-stats/internal/usecase"
)

func (c *Client) recapURL(format, guid string) string {
	return c.baseURL + fmt.Sprintf(format, url.PathEscape(strings.TrimSpace(guid)))
}

func (c *Client) FetchSegments(ctx context.Context, recapGUID string) ([]recap.Set, error) {
	props, err := c.fetchProps(ctx, c.recapURL("/history/match/recap/%s", recapGUID))
	if err != nil {
		return nil, fmt.Errorf("fetch segments guid=%s: %w", recapGUID, err)
	}
	raw, ok := props["segments"]
	if !ok {
		return nil, fmt.Errorf("fetch segments guid=%s: %w: no segments", recapGUID, usecase.ErrRemoteShapeChanged)
	}
	return normalizeSegments(raw), nil
}

// normalizeSegments turns either a flat array of sets or an object keyed by
// game type into one ordered list of sets.
func normalizeSegments(raw any) []recap.Set {
	switch typed := raw.(type) {
	case []any:
		out := make([]recap.Set, 0, len(typed))
		for _, item := range objects(typed) {
			out = append(out, parseSet(item, ""))
		}
		return out
	case map[string]any:
		keys := make([]string, 0, len(typed))
		for key := range typed {
			keys = append(keys, key)
		}
		sort.Strings(keys)

		out := make([]recap.Set, 0, len(keys))
		for _, gameName := range keys {
			switch group := typed[gameName].(type) {
			case map[string]any:
				out = append(out, parseSet(group, gameName))
			case []any:
				items := objects(group)
				if len(items) > 0 && hasAny(items[0], "legs") {
					for _, item := range items {
						out = append(out, parseSet(item, gameName))
					}
					continue
				}
				out = append(out, recap.Set{
					GameName: gameName,
					GameType: notation.ClassifyGame(gameName),
					Legs:     parseLegs(items),
				})
			}
		}
		return out
	default:
		return nil
	}
}

func parseSet(item map[string]any, fallbackName string) recap.Set {
	name := firstNonEmpty(getString(item, "game_name", "name", "game"), fallbackName)
	gameType := notation.ClassifyGame(name)
	for _, hint := range []string{getString(item, "game_type"), fallbackName} {
		if gameType != notation.GameOther {
			break
		}
		gameType = notation.ClassifyGame(hint)
	}
	return recap.Set{
		GameName: name,
		GameType: gameType,
		Legs:     parseLegs(objects(getSlice(item, "legs"))),
	}
}

func parseLegs(items []map[string]any) []recap.Leg {
	legs := make([]recap.Leg, 0, len(items))
	for i, item := range items {
		home := getMap(item, "home")
		away := getMap(item, "away")
		leg := recap.Leg{
			Index:  getInt(item, "leg", "index", "leg_number"),
			Winner: parseWinner(item["winner"]),
			Home:   parseLegSummary(home),
			Away:   parseLegSummary(away),
		}
		if leg.Index <= 0 {
			leg.Index = i + 1
		}
		homePlayer := getString(home, "player", "player_name")
		awayPlayer := getString(away, "player", "player_name")
		for _, turnItem := range objects(getSlice(item, "turns")) {
			leg.Turns = append(leg.Turns, recap.Turn{
				Home: parseTurnSide(getMap(turnItem, "home"), homePlayer),
				Away: parseTurnSide(getMap(turnItem, "away"), awayPlayer),
			})
		}
		legs = append(legs, leg)
	}
	return legs
}

func parseWinner(raw any) recap.Side {
	switch typed := raw.(type) {
	case string:
		switch strings.ToLower(strings.TrimSpace(typed)) {
		case "1":
			return recap.SideHome
		case "2":
			return recap.SideAway
		}
		return parseSide(typed)
	case float64:
		switch typed {
		case 1:
			return recap.SideHome
		case 2:
			return recap.SideAway
		}
	}
	return ""
}

func parseLegSummary(item map[string]any) recap.LegSummary {
	if item == nil {
		return recap.LegSummary{}
	}
	return recap.LegSummary{
		PPR:          getString(item, "ppr", "mpr"),
		Darts:        getInt(item, "darts"),
		EndingPoints: getInt(item, "ending_points"),
	}
}

func parseTurnSide(item map[string]any, fallbackPlayer string) *recap.TurnSide {
	if item == nil {
		return nil
	}
	side := &recap.TurnSide{
		Player:    firstNonEmpty(getString(item, "player", "player_name"), fallbackPlayer),
		Score:     getString(item, "score", "notation"),
		Remaining: optionalInt(item, "remaining"),
	}
	if side.Player == "" && side.Score == "" {
		return nil
	}
	return side
}

func (c *Client) FetchMatchScore(ctx context.Context, recapGUID string) (recap.Score, error) {
	props, err := c.fetchProps(ctx, c.recapURL("/history/match/%s", recapGUID))
	if err != nil {
		return recap.Score{}, fmt.Errorf("fetch match score guid=%s: %w", recapGUID, err)
	}
	score, ok := normalizeScore(props)
	if !ok {
		return recap.Score{}, fmt.Errorf("fetch match score guid=%s: %w: no score", recapGUID, usecase.ErrRemoteShapeChanged)
	}
	return score, nil
}

// normalizeScore probes the known score, round and date locations in order.
func normalizeScore(props map[string]any) (recap.Score, bool) {
	matchNode := getMap(props, "match")
	scoreNode := getMap(props, "score")

	var out recap.Score
	found := false
	switch {
	case hasAny(matchNode, "home_score") && hasAny(matchNode, "away_score"):
		out.Home = getInt(matchNode, "home_score")
		out.Away = getInt(matchNode, "away_score")
		found = true
	case hasAny(scoreNode, "home") && hasAny(scoreNode, "away"):
		out.Home = getInt(scoreNode, "home")
		out.Away = getInt(scoreNode, "away")
		found = true
	case hasAny(props, "home_score") && hasAny(props, "away_score"):
		out.Home = getInt(props, "home_score")
		out.Away = getInt(props, "away_score")
		found = true
	}

	out.Round = optionalInt(matchNode, "round_seq", "round")
	if out.Round == nil {
		out.Round = optionalInt(props, "round_seq", "round")
	}
	out.Date = firstNonEmpty(getString(matchNode, "match_date", "date"), getString(props, "date", "match_date"))
	return out, found
}

func (c *Client) FetchMatchPlayers(ctx context.Context, recapGUID string) ([]recap.PlayerLine, error) {
	props, err := c.fetchProps(ctx, c.recapURL("/history/match/%s/players", recapGUID))
	if err != nil {
		return nil, fmt.Errorf("fetch match players guid=%s: %w", recapGUID, err)
	}
	return normalizePlayers(props), nil
}

func normalizePlayers(props map[string]any) []recap.PlayerLine {
	var rows []map[string]any
	if list := getSlice(props, "players"); list != nil {
		rows = objects(list)
	} else {
		// Some pages group players by side.
		grouped := getMap(props, "players")
		for _, key := range []string{"home", "away"} {
			for _, item := range objects(getSlice(grouped, key)) {
				if _, ok := item["side"]; !ok {
					item["side"] = key
				}
				rows = append(rows, item)
			}
		}
	}

	out := make([]recap.PlayerLine, 0, len(rows))
	for _, item := range rows {
		name := getString(item, "name", "player_name")
		if name == "" {
			continue
		}
		out = append(out, recap.PlayerLine{
			Name:         name,
			Side:         parseSide(getString(item, "side")),
			CricketMarks: getInt(item, "cricket_marks"),
			CricketDarts: getInt(item, "cricket_darts"),
			X01Points:    getInt(item, "x01_points"),
			X01Darts:     getInt(item, "x01_darts"),
			MPR:          getFloat(item, "mpr"),
			PPR:          getFloat(item, "ppr"),
		})
	}
	return out
}
