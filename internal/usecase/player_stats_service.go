package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/riskibarqy/dart-league-stats/internal/domain/accumulation"
	"github.com/riskibarqy/dart-league-stats/internal/domain/division"
	"github.com/riskibarqy/dart-league-stats/internal/domain/playerstats"
	"github.com/riskibarqy/dart-league-stats/internal/domain/scoringconfig"
	"github.com/riskibarqy/dart-league-stats/internal/domain/season"
)

// HotHandLine is a player's hot-hand values under the current scoring config.
type HotHandLine struct {
	PlayerName     string `json:"player_name"`
	Division       string `json:"division"`
	HotHand01      int    `json:"hot_hand_01"`
	HotHandCricket int    `json:"hot_hand_cricket"`
}

type PlayerStatsService struct {
	statsRepo    playerstats.Repository
	divisionRepo division.Repository
	scoringRepo  scoringconfig.Repository
}

func NewPlayerStatsService(statsRepo playerstats.Repository, divisionRepo division.Repository, scoringRepo scoringconfig.Repository) *PlayerStatsService {
	return &PlayerStatsService{statsRepo: statsRepo, divisionRepo: divisionRepo, scoringRepo: scoringRepo}
}

func (s *PlayerStatsService) ListSeasonStats(ctx context.Context, seasonID int64, phase season.Phase) ([]playerstats.SeasonStat, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerStatsService.ListSeasonStats")
	defer span.End()

	phase, err := validateStatsQuery(seasonID, phase)
	if err != nil {
		return nil, err
	}
	items, err := s.statsRepo.ListSeasonStats(ctx, seasonID, phase)
	if err != nil {
		return nil, fmt.Errorf("list season stats: %w", err)
	}
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Rank != items[j].Rank {
			return items[i].Rank < items[j].Rank
		}
		return items[i].PlayerName < items[j].PlayerName
	})
	return items, nil
}

// HotHands recomputes hot-hand values from stored week rows, so a threshold
// change applies without a new scrape.
func (s *PlayerStatsService) HotHands(ctx context.Context, seasonID int64, phase season.Phase) ([]HotHandLine, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerStatsService.HotHands")
	defer span.End()

	phase, err := validateStatsQuery(seasonID, phase)
	if err != nil {
		return nil, err
	}
	seasons, err := s.statsRepo.ListSeasonStats(ctx, seasonID, phase)
	if err != nil {
		return nil, fmt.Errorf("list season stats: %w", err)
	}
	weeks, err := s.statsRepo.ListWeekStats(ctx, seasonID, phase)
	if err != nil {
		return nil, fmt.Errorf("list week stats: %w", err)
	}
	divisions, err := s.divisionNames(ctx, seasonID)
	if err != nil {
		return nil, err
	}
	policy, err := s.policy(ctx, seasonID)
	if err != nil {
		return nil, err
	}

	result := accumulation.Result{
		Seasons: make([]accumulation.PlayerSeason, 0, len(seasons)),
		Weeks:   make([]accumulation.PlayerWeek, 0, len(weeks)),
	}
	for _, item := range seasons {
		name := ""
		if item.DivisionID != nil {
			name = divisions[*item.DivisionID]
		}
		result.Seasons = append(result.Seasons, accumulation.PlayerSeason{Name: item.PlayerName, Division: name})
	}
	for _, item := range weeks {
		result.Weeks = append(result.Weeks, accumulation.PlayerWeek{Name: item.PlayerName, WeekKey: item.WeekKey, Line: item.Line})
	}
	accumulation.ApplyHotHands(&result, policy)

	out := make([]HotHandLine, 0, len(result.Seasons))
	for _, item := range result.Seasons {
		out = append(out, HotHandLine{
			PlayerName:     item.Name,
			Division:       item.Division,
			HotHand01:      item.Line.HotHand01,
			HotHandCricket: item.Line.HotHandCricket,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PlayerName < out[j].PlayerName })
	return out, nil
}

// ScoringPolicy renders every resolved scoring value for one division.
func (s *PlayerStatsService) ScoringPolicy(ctx context.Context, seasonID int64, divisionName string) (map[string]any, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerStatsService.ScoringPolicy")
	defer span.End()

	if seasonID <= 0 {
		return nil, fmt.Errorf("%w: season id must be positive", ErrInvalidInput)
	}
	policy, err := s.policy(ctx, seasonID)
	if err != nil {
		return nil, err
	}
	return policy.Snapshot(strings.ToUpper(strings.TrimSpace(divisionName))), nil
}

func (s *PlayerStatsService) policy(ctx context.Context, seasonID int64) (scoringconfig.Policy, error) {
	if s.scoringRepo == nil {
		return scoringconfig.DefaultPolicy(), nil
	}
	entries, err := s.scoringRepo.ListByScopes(ctx, scoringconfig.Scopes(seasonID))
	if err != nil {
		return scoringconfig.Policy{}, fmt.Errorf("list scoring config: %w", err)
	}
	return scoringconfig.NewPolicy(scoringconfig.SeasonScope(seasonID), entries), nil
}

func (s *PlayerStatsService) divisionNames(ctx context.Context, seasonID int64) (map[int64]string, error) {
	items, err := s.divisionRepo.ListBySeason(ctx, seasonID)
	if err != nil {
		return nil, fmt.Errorf("list divisions: %w", err)
	}
	out := make(map[int64]string, len(items))
	for _, item := range items {
		out[item.ID] = item.Name
	}
	return out, nil
}

func validateStatsQuery(seasonID int64, phase season.Phase) (season.Phase, error) {
	if seasonID <= 0 {
		return "", fmt.Errorf("%w: season id must be positive", ErrInvalidInput)
	}
	phase = season.Phase(strings.ToUpper(strings.TrimSpace(string(phase))))
	if phase == "" {
		return season.PhaseRegular, nil
	}
	if !phase.Valid() {
		return "", fmt.Errorf("%w: phase must be REGULAR or POST", ErrInvalidInput)
	}
	return phase, nil
}
