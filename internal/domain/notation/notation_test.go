package notation

import "testing"

func TestCricketMarks(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		in   string
		want int
	}{
		{name: "mixed turn", in: "T20, S18x2, DB, 0", want: 7},
		{name: "triple repeated", in: "T20x3", want: 9},
		{name: "bulls", in: "SB, DB", want: 3},
		{name: "lowercase", in: "t19, d18", want: 5},
		{name: "no separators spacing", in: "T20,T19,T18", want: 9},
		{name: "empty", in: "", want: 0},
		{name: "zero only", in: "0", want: 0},
		{name: "garbage skipped", in: "Q20, T, S18xx, T20", want: 3},
		{name: "bad repeat suffix", in: "T20x, T20x12", want: 0},
		{name: "whitespace", in: "   ", want: 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := CricketMarks(tc.in); got != tc.want {
				t.Fatalf("CricketMarks(%q)=%d, want %d", tc.in, got, tc.want)
			}
		})
	}
}

func TestCricketMarks_GrammarCombinations(t *testing.T) {
	t.Parallel()

	prefixes := map[string]int{"T": 3, "D": 2, "S": 1}
	for prefix, value := range prefixes {
		for _, number := range []string{"15", "16", "17", "18", "19", "20"} {
			for repeat := 1; repeat <= 3; repeat++ {
				token := prefix + number
				if repeat > 1 {
					token += "x" + string(rune('0'+repeat))
				}
				if got := CricketMarks(token); got != value*repeat {
					t.Fatalf("CricketMarks(%q)=%d, want %d", token, got, value*repeat)
				}
			}
		}
	}
}

func TestClassifyGame(t *testing.T) {
	t.Parallel()

	cases := map[string]GameType{
		"601 Double In/Double Out": Game601,
		"501 Double Out":           Game501,
		"Cricket":                  GameCricket,
		"CRICKET cut throat":       GameCricket,
		"Baseball":                 GameOther,
		"":                         GameOther,
	}
	for in, want := range cases {
		if got := ClassifyGame(in); got != want {
			t.Fatalf("ClassifyGame(%q)=%s, want %s", in, got, want)
		}
	}
}

func TestGameTypeTraits(t *testing.T) {
	t.Parallel()

	if Game601.HasTiebreaker() {
		t.Fatalf("601 has no tiebreaker leg")
	}
	if !Game501.HasTiebreaker() || !GameCricket.HasTiebreaker() {
		t.Fatalf("501 and cricket have tiebreaker legs")
	}
	if GameOther.Counted() {
		t.Fatalf("other games are not counted")
	}
	if !Game601.X01() || GameCricket.X01() {
		t.Fatalf("unexpected X01 classification")
	}
}

func TestX01Score(t *testing.T) {
	t.Parallel()

	if v, ok := X01Score(" 140 "); !ok || v != 140 {
		t.Fatalf("expected 140, got %d ok=%v", v, ok)
	}
	for _, bad := range []string{"", "BUST", "181", "-5"} {
		if _, ok := X01Score(bad); ok {
			t.Fatalf("expected %q to be rejected", bad)
		}
	}
}
