package httpapi

import (
	"time"

	"github.com/riskibarqy/dart-league-stats/internal/domain/playerstats"
	"github.com/riskibarqy/dart-league-stats/internal/domain/scrapelog"
)

type scrapeRunDTO struct {
	RunID          string         `json:"run_id"`
	Trigger        string         `json:"trigger"`
	Mode           string         `json:"mode"`
	Status         string         `json:"status"`
	Finished       bool           `json:"finished"`
	SeasonsUpdated int            `json:"seasons_updated"`
	PlayersUpdated int            `json:"players_updated"`
	MatchesUpdated int            `json:"matches_updated"`
	Error          string         `json:"error,omitempty"`
	Diagnostics    map[string]any `json:"diagnostics,omitempty"`
	StartedAt      string         `json:"started_at"`
	FinishedAt     string         `json:"finished_at,omitempty"`
}

type seasonStatDTO struct {
	PlayerID       int64   `json:"player_id"`
	PlayerName     string  `json:"player_name"`
	TeamID         *int64  `json:"team_id,omitempty"`
	DivisionID     *int64  `json:"division_id,omitempty"`
	Phase          string  `json:"phase"`
	Rank           int     `json:"rank"`
	Position       int     `json:"position"`
	Wins           int     `json:"wins"`
	Losses         int     `json:"losses"`
	OverallRecord  string  `json:"overall_record"`
	CricketRecord  string  `json:"cricket_record"`
	X601Record     string  `json:"x601_record"`
	X501Record     string  `json:"x501_record"`
	SOS            float64 `json:"sos"`
	HundredPlus    int     `json:"hundred_plus"`
	OneEighties    int     `json:"one_eighties"`
	HighOut        int     `json:"high_out"`
	NineMarks      int     `json:"nine_marks"`
	CricketRounds  int     `json:"cricket_rounds"`
	LowDartGame    *int    `json:"low_dart_game,omitempty"`
	MPR            float64 `json:"mpr"`
	PPR            float64 `json:"ppr"`
	WinPct         float64 `json:"win_pct"`
	Points         float64 `json:"points"`
	Avg            float64 `json:"avg"`
	HotHand01      int     `json:"hot_hand_01"`
	HotHandCricket int     `json:"hot_hand_cricket"`
}

type scoringPolicyDTO struct {
	SeasonID int64          `json:"season_id"`
	Division string         `json:"division,omitempty"`
	Values   map[string]any `json:"values"`
}

func scrapeRunToDTO(entry scrapelog.Entry) scrapeRunDTO {
	out := scrapeRunDTO{
		RunID:          entry.RunID,
		Trigger:        string(entry.Trigger),
		Mode:           entry.Mode,
		Status:         string(entry.Status),
		Finished:       entry.Status.Finished(),
		SeasonsUpdated: entry.SeasonsUpdated,
		PlayersUpdated: entry.PlayersUpdated,
		MatchesUpdated: entry.MatchesUpdated,
		Error:          entry.ErrorText,
		Diagnostics:    entry.Diagnostics,
		StartedAt:      entry.StartedAt.UTC().Format(time.RFC3339),
	}
	if entry.FinishedAt != nil {
		out.FinishedAt = entry.FinishedAt.UTC().Format(time.RFC3339)
	}
	return out
}

func seasonStatToDTO(item playerstats.SeasonStat) seasonStatDTO {
	return seasonStatDTO{
		PlayerID:       item.PlayerID,
		PlayerName:     item.PlayerName,
		TeamID:         item.TeamID,
		DivisionID:     item.DivisionID,
		Phase:          string(item.Phase),
		Rank:           item.Rank,
		Position:       item.Position,
		Wins:           item.Wins,
		Losses:         item.Losses,
		OverallRecord:  item.OverallRecord,
		CricketRecord:  item.CricketRecord,
		X601Record:     item.X601Record,
		X501Record:     item.X501Record,
		SOS:            item.SOS,
		HundredPlus:    item.HundredPlus,
		OneEighties:    item.OneEighties,
		HighOut:        item.HighOut,
		NineMarks:      item.NineMarks,
		CricketRounds:  item.CricketRounds,
		LowDartGame:    item.LowDartGame,
		MPR:            item.MPR,
		PPR:            item.PPR,
		WinPct:         item.WinPct,
		Points:         item.Points,
		Avg:            item.Avg,
		HotHand01:      item.HotHand01,
		HotHandCricket: item.HotHandCricket,
	}
}
