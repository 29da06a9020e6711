// Package notation turns raw turn encodings from recap pages into numbers.
package notation

import (
	"strconv"
	"strings"
)

type GameType string

const (
	Game601     GameType = "601"
	Game501     GameType = "501"
	GameCricket GameType = "cricket"
	GameOther   GameType = "other"
)

// Counted reports whether sets of this type take part in per-game accumulation.
func (g GameType) Counted() bool {
	return g == Game601 || g == Game501 || g == GameCricket
}

// X01 reports whether the game is scored by subtracting points (601/501).
func (g GameType) X01() bool {
	return g == Game601 || g == Game501
}

// HasTiebreaker reports whether leg 3 of a set of this type is a tiebreaker.
func (g GameType) HasTiebreaker() bool {
	return g == Game501 || g == GameCricket
}

// ClassifyGame maps a free-text game name onto a GameType.
func ClassifyGame(name string) GameType {
	lower := strings.ToLower(name)
	switch {
	case strings.Contains(lower, "601"):
		return Game601
	case strings.Contains(lower, "501"):
		return Game501
	case strings.Contains(lower, "cricket"):
		return GameCricket
	default:
		return GameOther
	}
}

// CricketMarks sums the marks of a turn written like "T20, S18x2, DB, 0".
// Unrecognised tokens contribute nothing.
func CricketMarks(raw string) int {
	total := 0
	for _, token := range strings.FieldsFunc(raw, isTokenSeparator) {
		total += tokenMarks(token)
	}
	return total
}

func isTokenSeparator(r rune) bool {
	return r == ',' || r == ' ' || r == '\t' || r == ';' || r == '\n'
}

func tokenMarks(token string) int {
	token = strings.ToUpper(strings.TrimSpace(token))
	if token == "" {
		return 0
	}

	repeat := 1
	if idx := strings.LastIndexByte(token, 'X'); idx > 0 {
		suffix := token[idx+1:]
		if len(suffix) != 1 || suffix[0] < '0' || suffix[0] > '9' {
			return 0
		}
		repeat = int(suffix[0] - '0')
		token = token[:idx]
	}

	var marks int
	switch {
	case token == "DB":
		marks = 2
	case token == "SB":
		marks = 1
	case len(token) >= 2 && isDigits(token[1:]):
		switch token[0] {
		case 'T':
			marks = 3
		case 'D':
			marks = 2
		case 'S':
			marks = 1
		default:
			return 0
		}
	default:
		return 0
	}

	return marks * repeat
}

func isDigits(v string) bool {
	if v == "" {
		return false
	}
	for i := 0; i < len(v); i++ {
		if v[i] < '0' || v[i] > '9' {
			return false
		}
	}
	return true
}

// X01Score parses a 3-dart 01 score. Busts and non-numeric cells report false.
func X01Score(raw string) (int, bool) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return 0, false
	}
	score, err := strconv.Atoi(value)
	if err != nil || score < 0 || score > 180 {
		return 0, false
	}
	return score, true
}
