package httpapi

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/dart-league-stats/internal/domain/scrapelog"
	"github.com/riskibarqy/dart-league-stats/internal/usecase"
)

const maxTriggerBodyBytes = 1 << 14

type triggerScrapeRequest struct {
	SeasonID int64 `json:"season_id" validate:"omitempty,min=1,excluded_with=All"`
	All      bool  `json:"all"`
	Force    bool  `json:"force"`
}

// TriggerScrape starts a run in the background and answers with its id so
// callers can poll the run endpoints.
func (h *Handler) TriggerScrape(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.TriggerScrape")
	defer span.End()

	if h.runs == nil {
		writeError(ctx, w, fmt.Errorf("%w: scrape runner is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	var req triggerScrapeRequest
	body, err := io.ReadAll(io.LimitReader(r.Body, maxTriggerBodyBytes))
	if err != nil {
		writeError(ctx, w, fmt.Errorf("%w: read request body: %v", usecase.ErrInvalidInput, err))
		return
	}
	if len(body) > 0 {
		if err := sonic.Unmarshal(body, &req); err != nil {
			writeError(ctx, w, fmt.Errorf("%w: invalid JSON body", usecase.ErrInvalidInput))
			return
		}
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	entry, err := h.runs.Start(ctx, usecase.ScrapeInput{
		SeasonID: req.SeasonID,
		All:      req.All,
		Force:    req.Force,
		Trigger:  scrapelog.TriggerManual,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "trigger scrape failed", "season_id", req.SeasonID, "all", req.All, "force", req.Force, "error", err)
		writeError(ctx, w, err)
		return
	}

	h.logger.InfoContext(ctx, "scrape run accepted", "run_id", entry.RunID, "mode", entry.Mode)
	writeSuccess(ctx, w, http.StatusAccepted, scrapeRunToDTO(entry))
}

func (h *Handler) GetScrapeRun(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetScrapeRun")
	defer span.End()

	entry, err := h.runs.Get(ctx, r.PathValue("runID"))
	if err != nil {
		if !errors.Is(err, usecase.ErrNotFound) {
			h.logger.ErrorContext(ctx, "get scrape run failed", "run_id", r.PathValue("runID"), "error", err)
		}
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, scrapeRunToDTO(entry))
}

func (h *Handler) GetLatestScrapeRun(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetLatestScrapeRun")
	defer span.End()

	entry, err := h.runs.Latest(ctx)
	if err != nil {
		if !errors.Is(err, usecase.ErrNotFound) {
			h.logger.ErrorContext(ctx, "get latest scrape run failed", "error", err)
		}
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, scrapeRunToDTO(entry))
}
