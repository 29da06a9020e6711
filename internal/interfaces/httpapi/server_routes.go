package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerStatsRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/seasons/{seasonID}/stats", handler.ListSeasonStats)
	mux.HandleFunc("GET /v1/seasons/{seasonID}/hot-hands", handler.ListHotHands)
	mux.HandleFunc("GET /v1/seasons/{seasonID}/scoring-policy", handler.GetScoringPolicy)
}

func registerInternalJobRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.Handle("POST /v1/internal/scrape", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.TriggerScrape)))
	mux.Handle("GET /v1/internal/scrape/runs/latest", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.GetLatestScrapeRun)))
	mux.Handle("GET /v1/internal/scrape/runs/{runID}", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.GetScrapeRun)))
}
