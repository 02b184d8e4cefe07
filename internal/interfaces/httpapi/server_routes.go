package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerPublicSportsRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/leagues", handler.ListLeagues)
	mux.HandleFunc("GET /v1/leagues/{leagueID}", handler.GetLeague)
	mux.HandleFunc("GET /v1/teams", handler.ListTeams)
	mux.HandleFunc("GET /v1/teams/{teamID}", handler.GetTeam)
	mux.HandleFunc("GET /v1/fixtures", handler.ListFixtures)
	mux.HandleFunc("GET /v1/fixtures/live", handler.ListLiveFixtures)
	mux.HandleFunc("GET /v1/fixtures/by-date", handler.ListFixturesByDate)
	mux.HandleFunc("GET /v1/fixtures/{fixtureID}", handler.GetFixture)
}

func registerInternalJobRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	requireToken := RequireInternalJobToken(internalJobToken)
	guard := func(fn http.HandlerFunc) http.Handler {
		return requireToken(fn)
	}

	mux.Handle("POST /v1/internal/jobs/ingest-leagues", guard(handler.RunIngestLeaguesJob))
	mux.Handle("POST /v1/internal/jobs/ingest-daily-fixtures", guard(handler.RunIngestDailyFixturesJob))
	mux.Handle("POST /v1/internal/jobs/ingest-live-fixtures", guard(handler.RunIngestLiveFixturesJob))
	mux.Handle("POST /v1/internal/jobs/ingest-teams", guard(handler.RunIngestTeamsJob))
	mux.Handle("POST /v1/internal/jobs/ingest-season-fixtures", guard(handler.RunIngestSeasonFixturesJob))
	mux.Handle("GET /v1/internal/jobs/runs/{runID}", guard(handler.GetJobRun))
}
