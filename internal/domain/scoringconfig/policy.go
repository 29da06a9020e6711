package scoringconfig

import (
	"strconv"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/riskibarqy/dart-league-stats/internal/domain/notation"
)

type HotHandKind string

const (
	HotHand01      HotHandKind = "01"
	HotHandCricket HotHandKind = "cricket"
)

// TiebreakerFlags decide what a tiebreaker leg may contribute.
type TiebreakerFlags struct {
	HundredPlus bool
	Perfect180  bool
	OneEighty   bool
	HighOut     bool
	Rounds      bool
	PerfectNine bool
	NineMark    bool
}

var defaultValues = map[string]string{
	KeyPointsCricket:         "1",
	KeyPoints601:             "1",
	KeyPoints501:             "1",
	KeyTiebreakerHundredPlus: "false",
	KeyTiebreakerPerfect180:  "false",
	KeyTiebreakerOneEighty:   "true",
	KeyTiebreakerHighOut:     "true",
	KeyTiebreakerRounds:      "false",
	KeyTiebreakerPerfectNine: "false",
	KeyTiebreakerNineMark:    "true",
}

var defaultHotHand = map[HotHandKind]map[string]int{
	HotHand01:      {"A": 600, "B": 500, "C": 400, "D": 300},
	HotHandCricket: {"A": 45, "B": 40, "C": 35, "D": 30},
}

var defaultHotHandFallback = map[HotHandKind]int{
	HotHand01:      400,
	HotHandCricket: 35,
}

// Policy resolves scoring keys for one season. Lookup order is
// (season, division), (season, all), (global, division), (global, all),
// then the built-in default.
type Policy struct {
	seasonScope string
	values      map[string]string
}

// NewPolicy indexes entries for seasonScope. Entries for other scopes are ignored.
func NewPolicy(seasonScope string, entries []Entry) Policy {
	p := Policy{
		seasonScope: strings.TrimSpace(seasonScope),
		values:      make(map[string]string, len(entries)),
	}
	for _, e := range entries {
		scope := strings.TrimSpace(e.Scope)
		if scope != ScopeGlobal && scope != p.seasonScope {
			continue
		}
		p.values[indexKey(scope, e.Division, e.Key)] = strings.TrimSpace(e.Value)
	}
	return p
}

// DefaultPolicy carries only built-in defaults.
func DefaultPolicy() Policy {
	return NewPolicy("", nil)
}

// Scopes lists the scopes a season policy reads from.
func Scopes(seasonID int64) []string {
	return []string{SeasonScope(seasonID), ScopeGlobal}
}

func indexKey(scope string, division *string, key string) string {
	div := ""
	if division != nil {
		div = strings.ToUpper(strings.TrimSpace(*division))
	}
	return scope + "\x00" + div + "\x00" + strings.TrimSpace(key)
}

// Lookup returns the stored value for key, or false when no row applies.
func (p Policy) Lookup(division, key string) (string, bool) {
	div := strings.TrimSpace(division)
	scopes := []string{ScopeGlobal}
	if p.seasonScope != "" && p.seasonScope != ScopeGlobal {
		scopes = []string{p.seasonScope, ScopeGlobal}
	}
	for _, scope := range scopes {
		if div != "" {
			if v, ok := p.values[indexKey(scope, &div, key)]; ok {
				return v, true
			}
		}
		if v, ok := p.values[indexKey(scope, nil, key)]; ok {
			return v, true
		}
	}
	return "", false
}

// String resolves key, falling back to the built-in default.
func (p Policy) String(division, key string) string {
	if v, ok := p.Lookup(division, key); ok {
		return v
	}
	return defaultValues[key]
}

func (p Policy) Bool(division, key string) bool {
	if v, ok := p.Lookup(division, key); ok {
		if parsed, err := strconv.ParseBool(v); err == nil {
			return parsed
		}
	}
	parsed, _ := strconv.ParseBool(defaultValues[key])
	return parsed
}

func (p Policy) Float(division, key string) float64 {
	if v, ok := p.Lookup(division, key); ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			return parsed
		}
	}
	parsed, _ := strconv.ParseFloat(defaultValues[key], 64)
	return parsed
}

// PointValue is the points awarded per set win of the given game type.
func (p Policy) PointValue(division string, game notation.GameType) float64 {
	switch game {
	case notation.GameCricket:
		return p.Float(division, KeyPointsCricket)
	case notation.Game601:
		return p.Float(division, KeyPoints601)
	case notation.Game501:
		return p.Float(division, KeyPoints501)
	default:
		return 0
	}
}

func (p Policy) Tiebreaker(division string) TiebreakerFlags {
	return TiebreakerFlags{
		HundredPlus: p.Bool(division, KeyTiebreakerHundredPlus),
		Perfect180:  p.Bool(division, KeyTiebreakerPerfect180),
		OneEighty:   p.Bool(division, KeyTiebreakerOneEighty),
		HighOut:     p.Bool(division, KeyTiebreakerHighOut),
		Rounds:      p.Bool(division, KeyTiebreakerRounds),
		PerfectNine: p.Bool(division, KeyTiebreakerPerfectNine),
		NineMark:    p.Bool(division, KeyTiebreakerNineMark),
	}
}

// HotHandThreshold resolves the weekly bar for a hot-hand flag. A direct key
// wins over the JSON table; a malformed table is ignored.
func (p Policy) HotHandThreshold(kind HotHandKind, division string) int {
	key := KeyHotHand01Threshold
	if kind == HotHandCricket {
		key = KeyHotHandCricketThreshold
	}
	if v, ok := p.Lookup(division, key); ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			return parsed
		}
	}

	div := strings.ToUpper(strings.TrimSpace(division))
	if raw, ok := p.Lookup(division, KeyHotHandThresholds); ok {
		var table map[string]map[string]int
		if err := sonic.UnmarshalString(raw, &table); err == nil {
			if byDivision, ok := table[string(kind)]; ok {
				if v, ok := byDivision[div]; ok && v > 0 {
					return v
				}
				if v, ok := byDivision["*"]; ok && v > 0 {
					return v
				}
			}
		}
	}

	if v, ok := defaultHotHand[kind][div]; ok {
		return v
	}
	return defaultHotHandFallback[kind]
}

// Snapshot lists every resolved value for a division; the read API renders it.
func (p Policy) Snapshot(division string) map[string]any {
	out := make(map[string]any, len(defaultValues)+2)
	for key := range defaultValues {
		out[key] = p.String(division, key)
	}
	out[KeyHotHand01Threshold] = p.HotHandThreshold(HotHand01, division)
	out[KeyHotHandCricketThreshold] = p.HotHandThreshold(HotHandCricket, division)
	return out
}
