package player

// Player identity is the exact display name.
type Player struct {
	ID   int64
	Name string
	GUID string
}

// SeasonTeam is the authoritative (player, season) membership.
type SeasonTeam struct {
	PlayerID   int64
	SeasonID   int64
	TeamID     int64
	DivisionID *int64
}
