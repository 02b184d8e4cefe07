package httpapi

import (
	"net/http"
	"strings"

	"github.com/riskibarqy/sports-data-service/internal/domain/fixture"
	"github.com/riskibarqy/sports-data-service/internal/usecase"
)

func (h *Handler) ListLeagues(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r.Context(), "ListLeagues")
	defer span.End()

	leagues, err := h.query.ListLeagues(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list leagues failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]leagueDTO, 0, len(leagues))
	for _, l := range leagues {
		items = append(items, leagueToDTO(l))
	}
	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetLeague(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r.Context(), "GetLeague")
	defer span.End()

	id, err := pathID(r, "leagueID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := h.query.GetLeague(ctx, id)
	if err != nil {
		h.logger.WarnContext(ctx, "get league failed", "league_id", id, "error", err)
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, leagueToDTO(item))
}

func (h *Handler) ListTeams(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r.Context(), "ListTeams")
	defer span.End()

	teams, err := h.query.ListTeams(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list teams failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]teamDTO, 0, len(teams))
	for _, t := range teams {
		items = append(items, teamToDTO(t))
	}
	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetTeam(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r.Context(), "GetTeam")
	defer span.End()

	id, err := pathID(r, "teamID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := h.query.GetTeam(ctx, id)
	if err != nil {
		h.logger.WarnContext(ctx, "get team failed", "team_id", id, "error", err)
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, teamToDTO(item))
}

func (h *Handler) ListFixtures(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r.Context(), "ListFixtures")
	defer span.End()

	leagueID, err := queryInt(r, "league_id")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	season, err := queryInt(r, "season")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	views, err := h.query.ListFixtures(ctx, fixture.Filter{LeagueID: leagueID, Season: int(season)})
	if err != nil {
		h.logger.WarnContext(ctx, "list fixtures failed", "league_id", leagueID, "season", season, "error", err)
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, fixturesToDTO(views))
}

func (h *Handler) GetFixture(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r.Context(), "GetFixture")
	defer span.End()

	id, err := pathID(r, "fixtureID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	view, err := h.query.GetFixture(ctx, id)
	if err != nil {
		h.logger.WarnContext(ctx, "get fixture failed", "fixture_id", id, "error", err)
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, fixtureToDTO(view))
}

func (h *Handler) ListLiveFixtures(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r.Context(), "ListLiveFixtures")
	defer span.End()

	views, err := h.query.ListLiveFixtures(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list live fixtures failed", "error", err)
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, fixturesToDTO(views))
}

func (h *Handler) ListFixturesByDate(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r.Context(), "ListFixturesByDate")
	defer span.End()

	date := strings.TrimSpace(r.URL.Query().Get("date"))
	if err := h.validateRequest(ctx, fixturesByDateRequest{Date: date}); err != nil {
		writeError(ctx, w, err)
		return
	}

	views, err := h.query.ListFixturesByDate(ctx, date)
	if err != nil {
		h.logger.WarnContext(ctx, "list fixtures by date failed", "date", date, "error", err)
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, fixturesToDTO(views))
}

type fixturesByDateRequest struct {
	Date string `validate:"required,datetime=2006-01-02"`
}

func fixturesToDTO(views []usecase.FixtureView) []fixtureDTO {
	items := make([]fixtureDTO, 0, len(views))
	for _, v := range views {
		items = append(items, fixtureToDTO(v))
	}
	return items
}
