package dartconnect

import (
	"errors"
	"html"
	"testing"

	"github.com/riskibarqy/dart-league-stats/internal/domain/notation"
	"github.com/riskibarqy/dart-league-stats/internal/domain/recap"
	"github.com/riskibarqy/dart-league-stats/internal/domain/season"
	"github.com/riskibarqy/dart-league-stats/internal/domain/team"
	"github.com/riskibarqy/dart-league-stats/internal/usecase"
)

func dataPageHTML(pageJSON string) []byte {
	return []byte(`<!doctype html><html><body><div id="app" data-page="` + html.EscapeString(pageJSON) + `"></div></body></html>`)
}

func TestExtractProps_DecodesEscapedAttribute(t *testing.T) {
	t.Parallel()

	props, err := extractProps(dataPageHTML(`{"component":"Seasons","props":{"league_id":"abc","note":"Tom & Jerry's <b>"}}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := getString(props, "note"); got != "Tom & Jerry's <b>" {
		t.Fatalf("expected entity-decoded note, got=%q", got)
	}
}

func TestExtractProps_MissingAttributeIsShapeChange(t *testing.T) {
	t.Parallel()

	_, err := extractProps([]byte(`<html><body><div id="app"></div></body></html>`))
	if !errors.Is(err, usecase.ErrRemoteShapeChanged) {
		t.Fatalf("expected ErrRemoteShapeChanged, got=%v", err)
	}

	_, err = extractProps(dataPageHTML(`{not json`))
	if !errors.Is(err, usecase.ErrRemoteShapeChanged) {
		t.Fatalf("expected ErrRemoteShapeChanged for bad json, got=%v", err)
	}
}

func TestNormalizeSeasons_GroupedAndFlatShapes(t *testing.T) {
	t.Parallel()

	grouped := map[string]any{
		"league": map[string]any{"id": float64(77)},
		"seasons": map[string]any{
			"active":   []any{map[string]any{"id": float64(12), "name": "Spring 2026", "start_date": "2026-02-01"}},
			"archived": []any{map[string]any{"id": float64(11), "name": "Fall 2025", "season_start": "2025-09-01"}},
		},
	}
	list := normalizeSeasons(grouped)
	if list.LeagueID != "77" {
		t.Fatalf("expected league id 77, got=%q", list.LeagueID)
	}
	if len(list.Seasons) != 2 || !list.Seasons[0].Active || list.Seasons[1].Active {
		t.Fatalf("unexpected seasons: %+v", list.Seasons)
	}
	if list.Seasons[1].StartDate == nil || list.Seasons[1].StartDate.Format("2006-01-02") != "2025-09-01" {
		t.Fatalf("expected season_start fallback, got=%v", list.Seasons[1].StartDate)
	}

	flat := map[string]any{
		"league_id":       "XYZ",
		"activeSeasons":   []any{map[string]any{"id": "12", "name": "Spring"}},
		"archivedSeasons": []any{map[string]any{"id": float64(12), "name": "Spring"}, map[string]any{"name": "no id"}},
	}
	list = normalizeSeasons(flat)
	if list.LeagueID != "XYZ" || len(list.Seasons) != 1 || !list.Seasons[0].Active {
		t.Fatalf("unexpected flat normalization: %+v", list)
	}
}

func TestNormalizeStandings_GroupedFlatAndKeyed(t *testing.T) {
	t.Parallel()

	grouped := []any{
		map[string]any{"division": "A", "teams": []any{
			map[string]any{"id": float64(1), "name": "Bullseyes", "captain": "Ann", "wins": float64(5), "losses": float64(2), "points": float64(31.5)},
		}},
	}
	out := normalizeStandings(grouped)
	if len(out) != 1 || out[0].Division != "A" || !out[0].HasStanding || out[0].Points != 31.5 {
		t.Fatalf("unexpected grouped standings: %+v", out)
	}

	flat := []any{map[string]any{"id": float64(2), "name": "Triple Threat", "division": "B"}}
	out = normalizeStandings(flat)
	if len(out) != 1 || out[0].Division != "B" || out[0].HasStanding {
		t.Fatalf("unexpected flat standings: %+v", out)
	}

	keyed := map[string]any{"C": []any{map[string]any{"id": float64(3), "name": "Shanghai"}}}
	out = normalizeStandings(keyed)
	if len(out) != 1 || out[0].Division != "C" {
		t.Fatalf("unexpected keyed standings: %+v", out)
	}
}

func TestNormalizeSchedule_FieldFallbacks(t *testing.T) {
	t.Parallel()

	payload := map[string]any{"data": map[string]any{"matches": []any{
		map[string]any{
			"id": float64(900), "week": float64(3), "division": "A",
			"home_team_id": float64(1), "home_team_name": "Bullseyes",
			"away_team_id": float64(2), "away_team_name": "Triple Threat",
			"match_date": "2026-03-05", "match_time": "7:30 PM",
			"home_score": float64(9), "away_score": float64(4), "recap_id": "abc-123",
		},
		map[string]any{"id": float64(901), "status": "scheduled", "is_playoff": true},
		map[string]any{"name": "no id"},
	}}}

	out := normalizeSchedule(payload)
	if len(out) != 2 {
		t.Fatalf("expected 2 matches, got=%d", len(out))
	}
	first := out[0]
	if first.Round == nil || *first.Round != 3 {
		t.Fatalf("expected round from week, got=%v", first.Round)
	}
	if first.Status != "completed" || first.RecapGUID != "abc-123" || first.Phase != season.PhaseRegular {
		t.Fatalf("unexpected first match: %+v", first)
	}
	if first.Date == nil || first.Date.Day() != 5 {
		t.Fatalf("expected parsed date, got=%v", first.Date)
	}
	if out[1].Phase != season.PhasePost || out[1].Status != "scheduled" || out[1].Round != nil {
		t.Fatalf("unexpected playoff match: %+v", out[1])
	}
}

func TestNormalizeRosterAndHistory(t *testing.T) {
	t.Parallel()

	roster := normalizeRoster([]any{
		map[string]any{"player_name": "Ann", "player_id": "g-1", "ton_total": float64(12), "ton_80": float64(1), "ppr": "24.5", "mpr": float64(2.1)},
		map[string]any{"name": ""},
	})
	if len(roster) != 1 || roster[0].HundredPlus != 12 || roster[0].OneEighties != 1 || roster[0].PPR != 24.5 {
		t.Fatalf("unexpected roster: %+v", roster)
	}

	history := normalizeHistory(map[string]any{"rows": []any{
		map[string]any{"guid": "r-1", "date": "Mar 5, 2026", "opponent": "Triple Threat", "home_away": "A", "result": "W"},
	}})
	if len(history) != 1 || history[0].Side != recap.SideAway || history[0].Outcome != "W" || history[0].Date == nil {
		t.Fatalf("unexpected history: %+v", history)
	}
}

func TestNormalizeSegments_ArrayAndKeyedShapesAgree(t *testing.T) {
	t.Parallel()

	leg := map[string]any{
		"winner": "home",
		"home":   map[string]any{"ppr": "25.0", "darts": float64(18), "ending_points": float64(0), "player": "Ann"},
		"away":   map[string]any{"ppr": "20.0", "darts": float64(18), "ending_points": float64(40)},
		"turns": []any{
			map[string]any{
				"home": map[string]any{"score": float64(140), "remaining": float64(361)},
				"away": map[string]any{"notation": "60", "remaining": "441", "player": "Bob"},
			},
		},
	}

	array := normalizeSegments([]any{map[string]any{"game_name": "501 Singles", "legs": []any{leg}}})
	keyed := normalizeSegments(map[string]any{"501": []any{leg}})

	for name, sets := range map[string][]recap.Set{"array": array, "keyed": keyed} {
		if len(sets) != 1 {
			t.Fatalf("%s: expected one set, got=%d", name, len(sets))
		}
		set := sets[0]
		if set.GameType != notation.Game501 {
			t.Fatalf("%s: expected 501, got=%s", name, set.GameType)
		}
		if len(set.Legs) != 1 || set.Legs[0].Index != 1 || set.Legs[0].Winner != recap.SideHome {
			t.Fatalf("%s: unexpected legs: %+v", name, set.Legs)
		}
		turn := set.Legs[0].Turns[0]
		if turn.Home.Player != "Ann" || turn.Home.Score != "140" || *turn.Home.Remaining != 361 {
			t.Fatalf("%s: unexpected home turn: %+v", name, turn.Home)
		}
		if turn.Away.Player != "Bob" || turn.Away.Score != "60" || *turn.Away.Remaining != 441 {
			t.Fatalf("%s: unexpected away turn: %+v", name, turn.Away)
		}
		if set.Legs[0].Home.Darts != 18 {
			t.Fatalf("%s: expected leg summary darts", name)
		}
	}
}

func TestNormalizeSegments_KeyedSetObjectsUseKeyAsGameHint(t *testing.T) {
	t.Parallel()

	sets := normalizeSegments(map[string]any{
		"cricket": map[string]any{"game_name": "Singles", "legs": []any{map[string]any{"winner": float64(2)}}},
	})
	if len(sets) != 1 || sets[0].GameType != notation.GameCricket || sets[0].Legs[0].Winner != recap.SideAway {
		t.Fatalf("unexpected sets: %+v", sets)
	}
}

func TestNormalizeScore_CandidateLocations(t *testing.T) {
	t.Parallel()

	score, ok := normalizeScore(map[string]any{
		"match": map[string]any{"home_score": float64(3), "away_score": float64(1), "round_seq": float64(6), "match_date": "2026-03-05"},
	})
	if !ok || score.Home != 3 || score.Away != 1 || score.Round == nil || *score.Round != 6 || score.Date != "2026-03-05" {
		t.Fatalf("unexpected match-node score: %+v", score)
	}

	score, ok = normalizeScore(map[string]any{
		"score":     map[string]any{"home": "2", "away": "2"},
		"round_seq": float64(4),
		"date":      "Mar 5, 2026",
	})
	if !ok || score.Home != 2 || score.Away != 2 || *score.Round != 4 || score.Date != "Mar 5, 2026" {
		t.Fatalf("unexpected score-node score: %+v", score)
	}

	if _, ok := normalizeScore(map[string]any{"match": map[string]any{"home_score": float64(1)}}); ok {
		t.Fatalf("expected missing score to be reported")
	}
}

func TestNormalizePlayers_FlatAndSideGrouped(t *testing.T) {
	t.Parallel()

	flat := normalizePlayers(map[string]any{"players": []any{
		map[string]any{"name": "Ann", "side": "home", "x01_points": float64(900), "x01_darts": float64(108)},
	}})
	if len(flat) != 1 || flat[0].X01Points != 900 || flat[0].Side != recap.SideHome {
		t.Fatalf("unexpected flat players: %+v", flat)
	}

	grouped := normalizePlayers(map[string]any{"players": map[string]any{
		"away": []any{map[string]any{"player_name": "Bob", "cricket_marks": float64(40), "cricket_darts": float64(60)}},
	}})
	if len(grouped) != 1 || grouped[0].Side != recap.SideAway || grouped[0].CricketMarks != 40 {
		t.Fatalf("unexpected grouped players: %+v", grouped)
	}
}

func TestParseVenues_BlockAndInlineLayouts(t *testing.T) {
	t.Parallel()

	page := []byte(`<html><body>
<div class="venue"><h3>Bullseyes</h3><p>Location: The Rusty Nail<br>Address: 12 Main St<br>Phone: (555) 123-4567</p></div>
<div class="venue"><p>Triple Threat Location: Dart Barn Address: 9 Oak Ave Phone: 555.987.6543</p></div>
<script>var Location = "ignored";</script>
</body></html>`)

	venues, err := parseVenues(page)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	first, ok := venues[team.NameKey("Bullseyes")]
	if !ok || first.Name != "The Rusty Nail" || first.Address != "12 Main St" || first.Phone != "(555) 123-4567" {
		t.Fatalf("unexpected block venue: %+v (all=%+v)", first, venues)
	}
	second, ok := venues[team.NameKey("triple  threat")]
	if !ok || second.Name != "Dart Barn" || second.Address != "9 Oak Ave" || second.Phone != "555.987.6543" {
		t.Fatalf("unexpected inline venue: %+v (all=%+v)", second, venues)
	}
}

func TestParseDate_KnownLayouts(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{"2026-03-05", "03/05/2026", "Mar 5, 2026", "Thursday, March 5, 2026", "2026-03-05T19:30:00Z"} {
		parsed := parseDate(raw)
		if parsed == nil || parsed.Year() != 2026 || parsed.Month() != 3 || parsed.Day() != 5 {
			t.Fatalf("parseDate(%q)=%v", raw, parsed)
		}
	}
	if parseDate("next thursday") != nil {
		t.Fatalf("expected unknown layout to yield nil")
	}
}
