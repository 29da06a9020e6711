package accumulation

import (
	"sort"
	"strings"

	"github.com/riskibarqy/dart-league-stats/internal/domain/notation"
	"github.com/riskibarqy/dart-league-stats/internal/domain/recap"
	"github.com/riskibarqy/dart-league-stats/internal/domain/scoringconfig"
)

const tiebreakerLeg = 3

type record struct {
	wins   int
	losses int
}

func (r record) played() int {
	return r.wins + r.losses
}

type tally struct {
	record
	byGame    map[notation.GameType]*record
	opponents []string

	hundredPlus int
	oneEighties int
	highOut     int
	nineMarks   int
	rounds      int
	lowDart     int

	x01Points    int
	x01Darts     int
	marks        int
	cricketDarts int
	linePPR      float64
	lineMPR      float64

	opponentTeam string
}

func newTally() *tally {
	return &tally{byGame: make(map[notation.GameType]*record, 3)}
}

func (t *tally) game(g notation.GameType) *record {
	r, ok := t.byGame[g]
	if !ok {
		r = &record{}
		t.byGame[g] = r
	}
	return r
}

func (t *tally) offerLowDart(darts int) {
	if darts <= 0 {
		return
	}
	if t.lowDart == 0 || darts < t.lowDart {
		t.lowDart = darts
	}
}

type engine struct {
	policy scoringconfig.Policy
	season map[string]*tally
	weeks  map[string]map[string]*tally
}

// Accumulate runs the full fold. Matches are processed in (date, recap GUID)
// order and a recap GUID is counted once.
func Accumulate(in Input) Result {
	e := &engine{
		policy: in.Policy,
		season: make(map[string]*tally, len(in.Roster)*2),
		weeks:  make(map[string]map[string]*tally, len(in.Roster)*2),
	}

	matches := append([]MatchInput(nil), in.Matches...)
	sort.SliceStable(matches, func(i, j int) bool {
		if !matches[i].Date.Equal(matches[j].Date) {
			return matches[i].Date.Before(matches[j].Date)
		}
		return matches[i].RecapGUID < matches[j].RecapGUID
	})

	seen := make(map[string]struct{}, len(matches))
	for _, m := range matches {
		if key := strings.TrimSpace(m.RecapGUID); key != "" {
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
		}
		e.foldMatch(m)
	}

	return e.build(in)
}

func (e *engine) tallies(name, week string) (*tally, *tally) {
	s, ok := e.season[name]
	if !ok {
		s = newTally()
		e.season[name] = s
	}
	byWeek, ok := e.weeks[name]
	if !ok {
		byWeek = make(map[string]*tally, 16)
		e.weeks[name] = byWeek
	}
	w, ok := byWeek[week]
	if !ok {
		w = newTally()
		byWeek[week] = w
	}
	return s, w
}

func (e *engine) each(names []string, week string, fn func(t *tally)) {
	for _, name := range names {
		s, w := e.tallies(name, week)
		fn(s)
		fn(w)
	}
}

func (e *engine) foldMatch(m MatchInput) {
	flags := e.policy.Tiebreaker(m.Division)
	teams := map[recap.Side]string{recap.SideHome: m.HomeTeam, recap.SideAway: m.AwayTeam}

	for _, set := range m.Sets {
		e.foldSet(m, set, flags, teams)
	}
	e.mergePlayerLines(m, teams)
}

func (e *engine) foldSet(m MatchInput, set recap.Set, flags scoringconfig.TiebreakerFlags, teams map[recap.Side]string) {
	game := set.GameType
	if game == "" {
		game = notation.ClassifyGame(set.GameName)
	}

	names := map[recap.Side][]string{
		recap.SideHome: SideNames(set.Legs, recap.SideHome),
		recap.SideAway: SideNames(set.Legs, recap.SideAway),
	}
	for side, list := range names {
		opponentTeam := teams[side.Opposite()]
		for _, name := range list {
			_, w := e.tallies(name, m.WeekKey)
			if w.opponentTeam == "" {
				w.opponentTeam = opponentTeam
			}
		}
	}

	if winner := SetWinner(set); winner != "" {
		loser := winner.Opposite()
		e.each(names[winner], m.WeekKey, func(t *tally) {
			t.wins++
			if game.Counted() {
				t.game(game).wins++
			}
			t.opponents = append(t.opponents, names[loser]...)
		})
		e.each(names[loser], m.WeekKey, func(t *tally) {
			t.losses++
			if game.Counted() {
				t.game(game).losses++
			}
			t.opponents = append(t.opponents, names[winner]...)
		})
	}

	if !game.Counted() {
		return
	}
	for pos, leg := range set.Legs {
		index := leg.Index
		if index <= 0 {
			index = pos + 1
		}
		tiebreaker := game.HasTiebreaker() && index == tiebreakerLeg
		e.foldLeg(m.WeekKey, game, leg, tiebreaker, flags)
	}
}

func (e *engine) foldLeg(week string, game notation.GameType, leg recap.Leg, tiebreaker bool, flags scoringconfig.TiebreakerFlags) {
	for _, turn := range leg.Turns {
		for _, side := range []recap.Side{recap.SideHome, recap.SideAway} {
			ts := turn.Side(side)
			if ts == nil {
				continue
			}
			name := strings.TrimSpace(ts.Player)
			if name == "" {
				continue
			}
			names := []string{name}

			switch {
			case game.X01():
				score, ok := notation.X01Score(ts.Score)
				if !ok {
					continue
				}
				if score >= 100 && (!tiebreaker || flags.HundredPlus || (score == 180 && flags.Perfect180)) {
					e.each(names, week, func(t *tally) { t.hundredPlus += score })
				}
				if score == 180 && (!tiebreaker || flags.OneEighty) {
					e.each(names, week, func(t *tally) { t.oneEighties++ })
				}
				if ts.Remaining != nil && *ts.Remaining == 0 && score > 100 && (!tiebreaker || flags.HighOut) {
					e.each(names, week, func(t *tally) {
						if score > t.highOut {
							t.highOut = score
						}
					})
				}
			case game == notation.GameCricket:
				marks := notation.CricketMarks(ts.Score)
				if marks >= 6 && (!tiebreaker || flags.Rounds || (marks == 9 && flags.PerfectNine)) {
					e.each(names, week, func(t *tally) { t.rounds += marks })
				}
				if marks == 9 && (!tiebreaker || flags.NineMark) {
					e.each(names, week, func(t *tally) { t.nineMarks++ })
				}
			}
		}
	}

	if game == notation.Game501 && leg.Winner != "" {
		darts := leg.Summary(leg.Winner).Darts
		if darts > 0 {
			e.each(SideNames([]recap.Leg{leg}, leg.Winner), week, func(t *tally) { t.offerLowDart(darts) })
		}
	}
}

func (e *engine) mergePlayerLines(m MatchInput, teams map[recap.Side]string) {
	for _, line := range m.Players {
		name := strings.TrimSpace(line.Name)
		if name == "" {
			continue
		}
		s, w := e.tallies(name, m.WeekKey)
		for _, t := range []*tally{s, w} {
			t.x01Points += line.X01Points
			t.x01Darts += line.X01Darts
			t.marks += line.CricketMarks
			t.cricketDarts += line.CricketDarts
		}
		if line.PPR > 0 {
			w.linePPR = line.PPR
		}
		if line.MPR > 0 {
			w.lineMPR = line.MPR
		}
		if w.opponentTeam == "" && line.Side != "" {
			w.opponentTeam = teams[line.Side.Opposite()]
		}
	}
}

// SetWinner is the side that won the majority of decided legs; a tie is "".
func SetWinner(set recap.Set) recap.Side {
	home, away := 0, 0
	for _, leg := range set.Legs {
		switch leg.Winner {
		case recap.SideHome:
			home++
		case recap.SideAway:
			away++
		}
	}
	switch {
	case home > away:
		return recap.SideHome
	case away > home:
		return recap.SideAway
	default:
		return ""
	}
}

// SideNames lists, in first-seen order, every player who threw for side.
func SideNames(legs []recap.Leg, side recap.Side) []string {
	seen := make(map[string]struct{}, 4)
	out := make([]string, 0, 2)
	for _, leg := range legs {
		for _, turn := range leg.Turns {
			ts := turn.Side(side)
			if ts == nil {
				continue
			}
			name := strings.TrimSpace(ts.Player)
			if name == "" {
				continue
			}
			if _, ok := seen[name]; ok {
				continue
			}
			seen[name] = struct{}{}
			out = append(out, name)
		}
	}
	return out
}
