package accumulation

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/riskibarqy/dart-league-stats/internal/domain/notation"
	"github.com/riskibarqy/dart-league-stats/internal/domain/playerstats"
	"github.com/riskibarqy/dart-league-stats/internal/domain/scoringconfig"
)

var countedGames = []notation.GameType{notation.GameCricket, notation.Game601, notation.Game501}

func (e *engine) build(in Input) Result {
	winPct := make(map[string]float64, len(e.season))
	for name, t := range e.season {
		winPct[name] = pct(t.wins, t.played())
	}

	roster := dedupeRoster(in.Roster)
	out := Result{
		Seasons: make([]PlayerSeason, 0, len(roster)),
		Weeks:   make([]PlayerWeek, 0, len(roster)*8),
	}

	for _, entry := range roster {
		t, ok := e.season[entry.Name]
		if !ok {
			t = newTally()
		}

		line := e.line(t, entry.Division, winPct)
		line.Position = entry.Position
		line.PPR = rate(t.x01Points, t.x01Darts, entry.PPR)
		line.MPR = rate(t.marks, t.cricketDarts, entry.MPR)
		if lb, ok := in.Leaderboard[entry.Name]; ok && lb.Darts > 0 {
			line.MPR = rate(lb.Marks, lb.Darts, line.MPR)
		}

		weeks := e.weeks[entry.Name]
		weekKeys := make([]string, 0, len(weeks))
		for key := range weeks {
			weekKeys = append(weekKeys, key)
		}
		sort.Strings(weekKeys)

		for _, key := range weekKeys {
			w := weeks[key]
			weekLine := e.line(w, entry.Division, winPct)
			weekLine.Position = entry.Position
			weekLine.PPR = rate(w.x01Points, w.x01Darts, w.linePPR)
			weekLine.MPR = rate(w.marks, w.cricketDarts, w.lineMPR)
			out.Weeks = append(out.Weeks, PlayerWeek{
				Name:         entry.Name,
				Division:     entry.Division,
				WeekKey:      key,
				OpponentTeam: w.opponentTeam,
				Line:         weekLine,
			})
		}

		out.Seasons = append(out.Seasons, PlayerSeason{
			Name:     entry.Name,
			Team:     entry.Team,
			Division: entry.Division,
			Line:     line,
		})
	}

	ApplyHotHands(&out, in.Policy)
	rank(out.Seasons)
	return out
}

func (e *engine) line(t *tally, division string, winPct map[string]float64) playerstats.Line {
	line := playerstats.Line{
		Wins:          t.wins,
		Losses:        t.losses,
		OverallRecord: formatRecord(t.record),
		CricketRecord: formatRecord(t.gameRecord(notation.GameCricket)),
		X601Record:    formatRecord(t.gameRecord(notation.Game601)),
		X501Record:    formatRecord(t.gameRecord(notation.Game501)),
		SOS:           strengthOfSchedule(t.opponents, winPct),
		HundredPlus:   t.hundredPlus,
		OneEighties:   t.oneEighties,
		HighOut:       t.highOut,
		NineMarks:     t.nineMarks,
		CricketRounds: t.rounds,
		WinPct:        round(pct(t.wins, t.played()), 3),
	}
	if t.lowDart > 0 {
		v := t.lowDart
		line.LowDartGame = &v
	}

	earned, available := 0.0, 0.0
	for _, g := range countedGames {
		r := t.gameRecord(g)
		value := e.policy.PointValue(division, g)
		earned += float64(r.wins) * value
		available += float64(r.played()) * value
	}
	line.Points = round(earned, 2)
	if available > 0 {
		line.Avg = round(earned/available, 3)
	}
	return line
}

func (t *tally) gameRecord(g notation.GameType) record {
	if r, ok := t.byGame[g]; ok {
		return *r
	}
	return record{}
}

// strengthOfSchedule is the mean season win percentage over every opponent
// faced, counting repeats.
func strengthOfSchedule(opponents []string, winPct map[string]float64) float64 {
	if len(opponents) == 0 {
		return 0
	}
	total := 0.0
	for _, name := range opponents {
		total += winPct[name]
	}
	return round(total/float64(len(opponents)), 3)
}

// ApplyHotHands sets the hot-hand values of every season line from its weeks.
func ApplyHotHands(result *Result, policy scoringconfig.Policy) {
	hundreds := make(map[string][]int, len(result.Seasons))
	rounds := make(map[string][]int, len(result.Seasons))
	for _, w := range result.Weeks {
		hundreds[w.Name] = append(hundreds[w.Name], w.Line.HundredPlus)
		rounds[w.Name] = append(rounds[w.Name], w.Line.CricketRounds)
	}
	for i := range result.Seasons {
		s := &result.Seasons[i]
		s.Line.HotHand01 = HotHand(hundreds[s.Name], policy.HotHandThreshold(scoringconfig.HotHand01, s.Division))
		s.Line.HotHandCricket = HotHand(rounds[s.Name], policy.HotHandThreshold(scoringconfig.HotHandCricket, s.Division))
	}
}

// HotHand is the best weekly total when it reaches threshold, otherwise 0.
func HotHand(weekly []int, threshold int) int {
	best := 0
	for _, v := range weekly {
		if v > best {
			best = v
		}
	}
	if threshold <= 0 || best < threshold {
		return 0
	}
	return best
}

func rank(items []PlayerSeason) {
	order := make([]int, len(items))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		left, right := items[order[a]], items[order[b]]
		if left.Line.Avg != right.Line.Avg {
			return left.Line.Avg > right.Line.Avg
		}
		if left.Line.Points != right.Line.Points {
			return left.Line.Points > right.Line.Points
		}
		return left.Name < right.Name
	})
	for pos, idx := range order {
		items[idx].Line.Rank = pos + 1
	}
}

func dedupeRoster(roster []RosterEntry) []RosterEntry {
	seen := make(map[string]struct{}, len(roster))
	out := make([]RosterEntry, 0, len(roster))
	for _, entry := range roster {
		entry.Name = strings.TrimSpace(entry.Name)
		if entry.Name == "" {
			continue
		}
		if _, ok := seen[entry.Name]; ok {
			continue
		}
		seen[entry.Name] = struct{}{}
		out = append(out, entry)
	}
	return out
}

// rate is total*3/darts, or fallback when no darts were thrown.
func rate(total, darts int, fallback float64) float64 {
	if darts <= 0 {
		return round(fallback, 2)
	}
	return round(float64(total)*3/float64(darts), 2)
}

func pct(wins, played int) float64 {
	if played == 0 {
		return 0
	}
	return float64(wins) / float64(played)
}

func formatRecord(r record) string {
	return fmt.Sprintf("%d-%d", r.wins, r.losses)
}

func round(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}
