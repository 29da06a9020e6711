package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/riskibarqy/dart-league-stats/internal/domain/season"
	"github.com/riskibarqy/dart-league-stats/internal/usecase"
)

func (h *Handler) ListSeasonStats(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListSeasonStats")
	defer span.End()

	seasonID, err := seasonIDFromPath(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	items, err := h.stats.ListSeasonStats(ctx, seasonID, phaseFromQuery(r))
	if err != nil {
		h.logger.WarnContext(ctx, "list season stats failed", "season_id", seasonID, "error", err)
		writeError(ctx, w, err)
		return
	}

	out := make([]seasonStatDTO, 0, len(items))
	for _, item := range items {
		out = append(out, seasonStatToDTO(item))
	}
	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) ListHotHands(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListHotHands")
	defer span.End()

	seasonID, err := seasonIDFromPath(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	items, err := h.stats.HotHands(ctx, seasonID, phaseFromQuery(r))
	if err != nil {
		h.logger.WarnContext(ctx, "list hot hands failed", "season_id", seasonID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetScoringPolicy(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetScoringPolicy")
	defer span.End()

	seasonID, err := seasonIDFromPath(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	division := strings.TrimSpace(r.URL.Query().Get("division"))

	policy, err := h.stats.ScoringPolicy(ctx, seasonID, division)
	if err != nil {
		h.logger.WarnContext(ctx, "get scoring policy failed", "season_id", seasonID, "division", division, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, scoringPolicyDTO{
		SeasonID: seasonID,
		Division: strings.ToUpper(division),
		Values:   policy,
	})
}

func seasonIDFromPath(r *http.Request) (int64, error) {
	raw := strings.TrimSpace(r.PathValue("seasonID"))
	seasonID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || seasonID <= 0 {
		return 0, fmt.Errorf("%w: invalid season id %q", usecase.ErrInvalidInput, raw)
	}
	return seasonID, nil
}

func phaseFromQuery(r *http.Request) season.Phase {
	return season.Phase(strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("phase"))))
}
