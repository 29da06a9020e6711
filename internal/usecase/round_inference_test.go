package usecase

import (
	"testing"
	"time"

	"github.com/riskibarqy/dart-league-stats/internal/domain/match"
)

func TestInferRound(t *testing.T) {
	t.Parallel()

	anchors := RoundAnchors([]match.Match{
		{ID: 100, Round: intPtr(6), ScheduledAt: day("2026-10-01")},
		{ID: 101, Round: intPtr(6), ScheduledAt: day("2026-10-01")},
		{ID: match.SyntheticID("x"), Round: intPtr(9), ScheduledAt: day("2026-10-08")},
		{ID: 102, ScheduledAt: day("2026-10-15")},
	})
	if len(anchors) != 1 {
		t.Fatalf("expected one anchor, got %+v", anchors)
	}

	tests := []struct {
		name string
		date string
		want *int
	}{
		{name: "two weeks earlier", date: "2026-09-17", want: intPtr(4)},
		{name: "one week later", date: "2026-10-08", want: intPtr(7)},
		{name: "same night", date: "2026-10-01", want: intPtr(6)},
		{name: "off the weekly grid", date: "2026-09-21", want: nil},
		{name: "before round one", date: "2026-08-20", want: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := InferRound(*day(tt.date), anchors)
			switch {
			case tt.want == nil && got != nil:
				t.Fatalf("expected no round, got %d", *got)
			case tt.want != nil && got == nil:
				t.Fatalf("expected round %d, got none", *tt.want)
			case tt.want != nil && *got != *tt.want:
				t.Fatalf("expected round %d, got %d", *tt.want, *got)
			}
		})
	}
}

func TestInferRound_LatestAnchorWins(t *testing.T) {
	t.Parallel()

	anchors := RoundAnchors([]match.Match{
		{ID: 1, Round: intPtr(2), ScheduledAt: day("2026-09-10")},
		{ID: 2, Round: intPtr(5), ScheduledAt: day("2026-10-08")},
	})
	if !anchors[0].Date.Equal(*day("2026-10-08")) {
		t.Fatalf("expected latest anchor first, got %+v", anchors)
	}

	got := InferRound(time.Date(2026, 9, 24, 19, 30, 0, 0, time.UTC), anchors)
	if got == nil || *got != 3 {
		t.Fatalf("expected round 3 from the latest anchor, got %v", got)
	}
	if InferRound(time.Time{}, anchors) != nil {
		t.Fatalf("expected no round for a zero date")
	}
}

func TestInferRound_AnchorInSessionZone(t *testing.T) {
	t.Parallel()

	eastern := time.FixedZone("EDT", -4*60*60)
	stored := day("2026-10-01").In(eastern)
	anchors := RoundAnchors([]match.Match{{ID: 100, Round: intPtr(6), ScheduledAt: &stored}})
	if !anchors[0].Date.Equal(*day("2026-10-01")) {
		t.Fatalf("expected anchor on 2026-10-01, got %v", anchors[0].Date)
	}

	got := InferRound(*day("2026-09-17"), anchors)
	if got == nil || *got != 4 {
		t.Fatalf("expected round 4, got %v", got)
	}
}
