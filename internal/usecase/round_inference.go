package usecase

import (
	"sort"
	"time"

	"github.com/riskibarqy/dart-league-stats/internal/domain/match"
)

// RoundAnchor is a schedule-sourced match night whose round number is known.
type RoundAnchor struct {
	Date  time.Time
	Round int
}

// RoundAnchors collects one anchor per date from matches carrying both a date
// and a round, latest date first.
func RoundAnchors(items []match.Match) []RoundAnchor {
	byDay := make(map[time.Time]int, len(items))
	for _, item := range items {
		if item.Synthetic() || item.ScheduledAt == nil || item.Round == nil || *item.Round <= 0 {
			continue
		}
		day := calendarDay(*item.ScheduledAt)
		if _, ok := byDay[day]; !ok {
			byDay[day] = *item.Round
		}
	}

	out := make([]RoundAnchor, 0, len(byDay))
	for day, round := range byDay {
		out = append(out, RoundAnchor{Date: day, Round: round})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out
}

// InferRound counts whole weeks between date and an anchor. Only offsets that
// are exact multiples of 7 days produce a round; the first anchor yielding a
// positive round wins.
func InferRound(date time.Time, anchors []RoundAnchor) *int {
	if date.IsZero() {
		return nil
	}
	day := calendarDay(date)
	for _, anchor := range anchors {
		days := int(anchor.Date.Sub(day).Hours() / 24)
		if days%7 != 0 {
			continue
		}
		round := anchor.Round - days/7
		if round < 1 {
			continue
		}
		return &round
	}
	return nil
}

// calendarDay reads the day in UTC; match dates are stored as UTC midnight and
// may come back from the store in the session's zone.
func calendarDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
