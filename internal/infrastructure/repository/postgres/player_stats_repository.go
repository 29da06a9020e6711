package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/dart-league-stats/internal/domain/playerstats"
	"github.com/riskibarqy/dart-league-stats/internal/domain/season"
	qb "github.com/riskibarqy/dart-league-stats/internal/platform/querybuilder"
)

const statLineColumns = "rank, position, wins, losses, overall_record, cricket_record, x601_record, x501_record, sos, hundred_plus, one_eighties, high_out, nine_marks, cricket_rounds, low_dart_game, mpr, ppr, win_pct, points, avg, hot_hand_01, hot_hand_cricket"

type PlayerStatsRepository struct {
	db *sqlx.DB
}

func NewPlayerStatsRepository(db *sqlx.DB) *PlayerStatsRepository {
	return &PlayerStatsRepository{db: db}
}

type seasonStatUpsertModel struct {
	SeasonID   int64  `db:"season_id"`
	PlayerID   int64  `db:"player_id"`
	PlayerName string `db:"player_name"`
	TeamID     *int64 `db:"team_id"`
	DivisionID *int64 `db:"division_id"`
	Phase      string `db:"phase"`
	statLineModel
}

type weekStatUpsertModel struct {
	SeasonID     int64  `db:"season_id"`
	PlayerID     int64  `db:"player_id"`
	PlayerName   string `db:"player_name"`
	WeekKey      string `db:"week_key"`
	Phase        string `db:"phase"`
	OpponentTeam string `db:"opponent_team"`
	statLineModel
}

func (r *PlayerStatsRepository) UpsertSeasonStats(ctx context.Context, items []playerstats.SeasonStat) error {
	if len(items) == 0 {
		return nil
	}
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		for _, item := range items {
			query, args, err := qb.UpsertModel("player_season_stats", seasonStatUpsertModel{
				SeasonID:      item.SeasonID,
				PlayerID:      item.PlayerID,
				PlayerName:    item.PlayerName,
				TeamID:        item.TeamID,
				DivisionID:    item.DivisionID,
				Phase:         string(item.Phase),
				statLineModel: lineModelFrom(item.Line),
			}, []string{"season_id", "player_id", "phase"})
			if err != nil {
				return fmt.Errorf("build upsert season stat query: %w", err)
			}
			if _, err := tx.ExecContext(ctx, query, args...); err != nil {
				return fmt.Errorf("upsert season stat season=%d player=%d: %w", item.SeasonID, item.PlayerID, err)
			}
		}
		return nil
	})
}

func (r *PlayerStatsRepository) UpsertWeekStats(ctx context.Context, items []playerstats.WeekStat) error {
	if len(items) == 0 {
		return nil
	}
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		for _, item := range items {
			query, args, err := qb.UpsertModel("player_week_stats", weekStatUpsertModel{
				SeasonID:      item.SeasonID,
				PlayerID:      item.PlayerID,
				PlayerName:    item.PlayerName,
				WeekKey:       item.WeekKey,
				Phase:         string(item.Phase),
				OpponentTeam:  item.OpponentTeam,
				statLineModel: lineModelFrom(item.Line),
			}, []string{"season_id", "player_id", "week_key", "phase"})
			if err != nil {
				return fmt.Errorf("build upsert week stat query: %w", err)
			}
			if _, err := tx.ExecContext(ctx, query, args...); err != nil {
				return fmt.Errorf("upsert week stat season=%d player=%d week=%s: %w", item.SeasonID, item.PlayerID, item.WeekKey, err)
			}
		}
		return nil
	})
}

func (r *PlayerStatsRepository) ListSeasonStats(ctx context.Context, seasonID int64, phase season.Phase) ([]playerstats.SeasonStat, error) {
	query, args, err := qb.Select("season_id", "player_id", "player_name", "team_id", "division_id", "phase", statLineColumns).From("player_season_stats").
		Where(
			qb.Eq("season_id", seasonID),
			qb.Eq("phase", string(phase)),
		).
		OrderBy("player_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select season stats query: %w", err)
	}

	var rows []seasonStatTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select season stats season=%d: %w", seasonID, err)
	}

	out := make([]playerstats.SeasonStat, 0, len(rows))
	for _, row := range rows {
		out = append(out, playerstats.SeasonStat{
			SeasonID:   row.SeasonID,
			PlayerID:   row.PlayerID,
			PlayerName: row.PlayerName,
			TeamID:     int64Ptr(row.TeamID),
			DivisionID: int64Ptr(row.DivisionID),
			Phase:      season.Phase(row.Phase),
			Line:       lineFromModel(row.statLineModel),
		})
	}
	return out, nil
}

func (r *PlayerStatsRepository) ListWeekStats(ctx context.Context, seasonID int64, phase season.Phase) ([]playerstats.WeekStat, error) {
	query, args, err := qb.Select("season_id", "player_id", "player_name", "week_key", "phase", "opponent_team", statLineColumns).From("player_week_stats").
		Where(
			qb.Eq("season_id", seasonID),
			qb.Eq("phase", string(phase)),
		).
		OrderBy("week_key", "player_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select week stats query: %w", err)
	}

	var rows []weekStatTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select week stats season=%d: %w", seasonID, err)
	}

	out := make([]playerstats.WeekStat, 0, len(rows))
	for _, row := range rows {
		out = append(out, playerstats.WeekStat{
			SeasonID:     row.SeasonID,
			PlayerID:     row.PlayerID,
			PlayerName:   row.PlayerName,
			WeekKey:      row.WeekKey,
			Phase:        season.Phase(row.Phase),
			OpponentTeam: row.OpponentTeam,
			Line:         lineFromModel(row.statLineModel),
		})
	}
	return out, nil
}

func lineModelFrom(line playerstats.Line) statLineModel {
	model := statLineModel{
		Rank:           line.Rank,
		Position:       line.Position,
		Wins:           line.Wins,
		Losses:         line.Losses,
		OverallRecord:  line.OverallRecord,
		CricketRecord:  line.CricketRecord,
		X601Record:     line.X601Record,
		X501Record:     line.X501Record,
		SOS:            line.SOS,
		HundredPlus:    line.HundredPlus,
		OneEighties:    line.OneEighties,
		HighOut:        line.HighOut,
		NineMarks:      line.NineMarks,
		CricketRounds:  line.CricketRounds,
		MPR:            line.MPR,
		PPR:            line.PPR,
		WinPct:         line.WinPct,
		Points:         line.Points,
		Avg:            line.Avg,
		HotHand01:      line.HotHand01,
		HotHandCricket: line.HotHandCricket,
	}
	if line.LowDartGame != nil {
		model.LowDartGame = sql.NullInt32{Int32: int32(*line.LowDartGame), Valid: true}
	}
	return model
}

func lineFromModel(model statLineModel) playerstats.Line {
	return playerstats.Line{
		Rank:           model.Rank,
		Position:       model.Position,
		Wins:           model.Wins,
		Losses:         model.Losses,
		OverallRecord:  model.OverallRecord,
		CricketRecord:  model.CricketRecord,
		X601Record:     model.X601Record,
		X501Record:     model.X501Record,
		SOS:            model.SOS,
		HundredPlus:    model.HundredPlus,
		OneEighties:    model.OneEighties,
		HighOut:        model.HighOut,
		NineMarks:      model.NineMarks,
		CricketRounds:  model.CricketRounds,
		LowDartGame:    intPtr(model.LowDartGame),
		MPR:            model.MPR,
		PPR:            model.PPR,
		WinPct:         model.WinPct,
		Points:         model.Points,
		Avg:            model.Avg,
		HotHand01:      model.HotHand01,
		HotHandCricket: model.HotHandCricket,
	}
}
