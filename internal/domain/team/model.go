package team

import "strings"

type Venue struct {
	Name    string
	Address string
	Phone   string
}

func (v Venue) Empty() bool {
	return v.Name == "" && v.Address == "" && v.Phone == ""
}

// Standing holds the platform's own win/loss/points for a team.
type Standing struct {
	Wins   int
	Losses int
	Points float64
}

// Team is one row per (season, external team id).
type Team struct {
	ID         int64
	ExternalID int64
	SeasonID   int64
	DivisionID *int64
	Name       string
	Captain    string
	Venue      *Venue
	Standing   *Standing
}

// NameKey folds a team name for case and spacing insensitive lookups.
func NameKey(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}
