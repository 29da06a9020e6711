package scoringconfig

import "strconv"

const ScopeGlobal = "global"

const (
	KeyPointsCricket           = "points_cricket"
	KeyPoints601               = "points_601"
	KeyPoints501               = "points_501"
	KeyHotHand01Threshold      = "hot_hand_01_threshold"
	KeyHotHandCricketThreshold = "hot_hand_cricket_threshold"
	KeyHotHandThresholds       = "hot_hand_thresholds"
	KeyTiebreakerHundredPlus   = "tiebreaker_include_100plus"
	KeyTiebreakerPerfect180    = "tiebreaker_include_perfect_180"
	KeyTiebreakerOneEighty     = "tiebreaker_include_180"
	KeyTiebreakerHighOut       = "tiebreaker_include_high_out"
	KeyTiebreakerRounds        = "tiebreaker_include_rounds"
	KeyTiebreakerPerfectNine   = "tiebreaker_include_perfect_9"
	KeyTiebreakerNineMark      = "tiebreaker_include_9_mark"
)

// Entry is one stored (scope, division, key) -> value row. A nil Division
// applies to every division in the scope.
type Entry struct {
	Scope    string
	Division *string
	Key      string
	Value    string
}

// SeasonScope is the scope string used for season-specific overrides.
func SeasonScope(seasonID int64) string {
	return strconv.FormatInt(seasonID, 10)
}
