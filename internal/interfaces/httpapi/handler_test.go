package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/sports-data-service/internal/domain/fixture"
	"github.com/riskibarqy/sports-data-service/internal/domain/ingestionrun"
	"github.com/riskibarqy/sports-data-service/internal/domain/league"
	"github.com/riskibarqy/sports-data-service/internal/domain/team"
	"github.com/riskibarqy/sports-data-service/internal/platform/logging"
	"github.com/riskibarqy/sports-data-service/internal/usecase"
)

const testJobToken = "job-token"

type fakeQuery struct {
	lastFilter fixture.Filter
	lastDate   string
}

func intPtr(v int) *int { return &v }

func sampleView() usecase.FixtureView {
	return usecase.FixtureView{
		Fixture: fixture.Fixture{
			ID:          7,
			APIID:       1035544,
			LeagueID:    1,
			Season:      2024,
			HomeTeamID:  10,
			AwayTeamID:  11,
			Date:        time.Date(2024, 8, 16, 19, 0, 0, 0, time.UTC),
			Status:      fixture.StatusFirstHalf,
			StatusShort: "1H",
			Elapsed:     intPtr(37),
			GoalsHome:   intPtr(1),
			GoalsAway:   intPtr(0),
		},
		League:   league.League{ID: 1, APIID: 39, Name: "Premier League", LogoURL: "https://media.example.com/leagues/39.png"},
		HomeTeam: team.Team{ID: 10, APIID: 33, Name: "Manchester United"},
		AwayTeam: team.Team{ID: 11, APIID: 36, Name: "Fulham"},
	}
}

func (f *fakeQuery) ListLeagues(context.Context) ([]league.League, error) {
	return []league.League{{ID: 1, APIID: 39, Name: "Premier League"}}, nil
}

func (f *fakeQuery) GetLeague(_ context.Context, id int64) (league.League, error) {
	if id != 1 {
		return league.League{}, fmt.Errorf("%w: league id=%d", usecase.ErrNotFound, id)
	}
	return league.League{ID: 1, APIID: 39, Name: "Premier League"}, nil
}

func (f *fakeQuery) ListTeams(context.Context) ([]team.Team, error) {
	return []team.Team{{ID: 10, APIID: 33, Name: "Manchester United"}}, nil
}

func (f *fakeQuery) GetTeam(_ context.Context, id int64) (team.Team, error) {
	return team.Team{ID: id, APIID: 33, Name: "Manchester United"}, nil
}

func (f *fakeQuery) ListFixtures(_ context.Context, filter fixture.Filter) ([]usecase.FixtureView, error) {
	f.lastFilter = filter
	return []usecase.FixtureView{sampleView()}, nil
}

func (f *fakeQuery) GetFixture(context.Context, int64) (usecase.FixtureView, error) {
	return sampleView(), nil
}

func (f *fakeQuery) ListLiveFixtures(context.Context) ([]usecase.FixtureView, error) {
	return []usecase.FixtureView{sampleView()}, nil
}

func (f *fakeQuery) ListFixturesByDate(_ context.Context, date string) ([]usecase.FixtureView, error) {
	f.lastDate = date
	return nil, nil
}

type fakeRunner struct {
	submitted []usecase.TriggerRequest
	err       error
}

func (f *fakeRunner) Submit(_ context.Context, req usecase.TriggerRequest) (ingestionrun.Run, error) {
	if f.err != nil {
		return ingestionrun.Run{}, f.err
	}
	f.submitted = append(f.submitted, req)
	return ingestionrun.Run{ID: "run-1", JobName: req.Job, Status: ingestionrun.StatusStarted}, nil
}

func (f *fakeRunner) GetRun(_ context.Context, runID string) (ingestionrun.Run, error) {
	if runID != "run-1" {
		return ingestionrun.Run{}, fmt.Errorf("%w: run id=%s", usecase.ErrNotFound, runID)
	}
	finished := time.Date(2024, 8, 17, 2, 3, 0, 0, time.UTC)
	return ingestionrun.Run{
		ID:         "run-1",
		JobName:    usecase.JobIngestDailyFixtures,
		Source:     ingestionrun.SourceSchedule,
		Status:     ingestionrun.StatusCompletedWithErrors,
		Attempted:  12,
		Succeeded:  11,
		Failed:     1,
		StartedAt:  time.Date(2024, 8, 17, 2, 0, 0, 0, time.UTC),
		FinishedAt: &finished,
	}, nil
}

func newTestRouter(query *fakeQuery, runner *fakeRunner) http.Handler {
	handler := NewHandler(query, runner, logging.NewNop())
	return NewRouter(handler, logging.NewNop(), nil, testJobToken)
}

func doRequest(t *testing.T, router http.Handler, method, target, body string, withToken bool) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	if withToken {
		req.Header.Set("X-Internal-Job-Token", testJobToken)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var decoded map[string]any
	if err := sonic.Unmarshal(rec.Body.Bytes(), &decoded); err != nil {
		t.Fatalf("unmarshal response body %q: %v", rec.Body.String(), err)
	}
	return rec, decoded
}

func TestHandler_GetFixtureEmbedsNames(t *testing.T) {
	rec, body := doRequest(t, newTestRouter(&fakeQuery{}, &fakeRunner{}), http.MethodGet, "/v1/fixtures/7", "", false)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	data, _ := body["data"].(map[string]any)
	if data["leagueName"] != "Premier League" || data["homeTeamName"] != "Manchester United" || data["awayTeamName"] != "Fulham" {
		t.Fatalf("unexpected fixture payload: %+v", data)
	}
	if data["date"] != "2024-08-16T19:00:00Z" || data["elapsed"] != float64(37) {
		t.Fatalf("unexpected fixture payload: %+v", data)
	}
	if _, ok := data["homePenaltyGoals"]; !ok {
		t.Fatalf("null score fields must still be present: %+v", data)
	}
}

func TestHandler_ListFixturesParsesFilter(t *testing.T) {
	query := &fakeQuery{}
	rec, _ := doRequest(t, newTestRouter(query, &fakeRunner{}), http.MethodGet, "/v1/fixtures?league_id=1&season=2024", "", false)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if query.lastFilter.LeagueID != 1 || query.lastFilter.Season != 2024 {
		t.Fatalf("unexpected filter: %+v", query.lastFilter)
	}

	rec, _ = doRequest(t, newTestRouter(query, &fakeRunner{}), http.MethodGet, "/v1/fixtures?season=abc", "", false)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestHandler_LiveRouteIsNotAnID(t *testing.T) {
	rec, body := doRequest(t, newTestRouter(&fakeQuery{}, &fakeRunner{}), http.MethodGet, "/v1/fixtures/live", "", false)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if items, _ := body["data"].([]any); len(items) != 1 {
		t.Fatalf("unexpected live payload: %+v", body)
	}
}

func TestHandler_FixturesByDateValidatesDate(t *testing.T) {
	query := &fakeQuery{}
	router := newTestRouter(query, &fakeRunner{})

	rec, body := doRequest(t, router, http.MethodGet, "/v1/fixtures/by-date?date=2024-08-16", "", false)
	if rec.Code != http.StatusOK || query.lastDate != "2024-08-16" {
		t.Fatalf("unexpected response %d date=%q", rec.Code, query.lastDate)
	}
	if items, ok := body["data"].([]any); !ok || len(items) != 0 {
		t.Fatalf("expected empty array, got %+v", body["data"])
	}

	for _, target := range []string{"/v1/fixtures/by-date", "/v1/fixtures/by-date?date=16-08-2024"} {
		rec, _ = doRequest(t, router, http.MethodGet, target, "", false)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", target, rec.Code)
		}
	}
}

func TestHandler_GetLeagueMapsErrors(t *testing.T) {
	router := newTestRouter(&fakeQuery{}, &fakeRunner{})

	rec, _ := doRequest(t, router, http.MethodGet, "/v1/leagues/99", "", false)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	rec, _ = doRequest(t, router, http.MethodGet, "/v1/leagues/abc", "", false)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestHandler_TriggerAccepted(t *testing.T) {
	runner := &fakeRunner{}
	router := newTestRouter(&fakeQuery{}, runner)

	rec, body := doRequest(t, router, http.MethodPost, "/v1/internal/jobs/ingest-daily-fixtures", `{"league_id":39,"season":2024,"date":"2024-08-17"}`, true)
	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", rec.Code, rec.Body.String())
	}
	data, _ := body["data"].(map[string]any)
	if data["run_id"] != "run-1" || data["job"] != usecase.JobIngestDailyFixtures || data["status"] != "started" {
		t.Fatalf("unexpected accepted payload: %+v", data)
	}

	req := runner.submitted[0]
	if req.LeagueAPIID != 39 || req.Season != 2024 || req.Date != "2024-08-17" || req.Source != ingestionrun.SourceManual {
		t.Fatalf("unexpected trigger request: %+v", req)
	}
}

func TestHandler_TriggerWithEmptyBody(t *testing.T) {
	runner := &fakeRunner{}
	router := newTestRouter(&fakeQuery{}, runner)

	for _, path := range []string{"/v1/internal/jobs/ingest-daily-fixtures", "/v1/internal/jobs/ingest-leagues", "/v1/internal/jobs/ingest-live-fixtures"} {
		rec, _ := doRequest(t, router, http.MethodPost, path, "", true)
		if rec.Code != http.StatusAccepted {
			t.Fatalf("%s: expected 202, got %d: %s", path, rec.Code, rec.Body.String())
		}
	}
	if len(runner.submitted) != 3 {
		t.Fatalf("expected 3 submissions, got %d", len(runner.submitted))
	}
}

func TestHandler_SeasonTriggersRequireBody(t *testing.T) {
	runner := &fakeRunner{}
	router := newTestRouter(&fakeQuery{}, runner)

	cases := []string{"", `{"league_id":39}`, `{"league_id":39,"season":2024,"force":true}`, `{"league_id":"x"}`}
	for _, body := range cases {
		rec, _ := doRequest(t, router, http.MethodPost, "/v1/internal/jobs/ingest-teams", body, true)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("body %q: expected 400, got %d", body, rec.Code)
		}
	}

	rec, _ := doRequest(t, router, http.MethodPost, "/v1/internal/jobs/ingest-season-fixtures", `{"league_id":39,"season":2023}`, true)
	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", rec.Code)
	}
	if runner.submitted[0].Job != usecase.JobIngestSeasonFixtures {
		t.Fatalf("unexpected job: %+v", runner.submitted[0])
	}
}

func TestHandler_TriggerRequiresToken(t *testing.T) {
	runner := &fakeRunner{}
	rec, body := doRequest(t, newTestRouter(&fakeQuery{}, runner), http.MethodPost, "/v1/internal/jobs/ingest-leagues", "", false)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	errorObj, _ := body["error"].(map[string]any)
	if errorObj["status"] != "UNAUTHENTICATED" {
		t.Fatalf("unexpected error body: %+v", body)
	}
	if len(runner.submitted) != 0 {
		t.Fatalf("trigger must not run without a token")
	}
}

func TestHandler_TriggerUnavailableWhenPoolFull(t *testing.T) {
	runner := &fakeRunner{err: fmt.Errorf("%w: trigger pool rejected", usecase.ErrDependencyUnavailable)}
	rec, _ := doRequest(t, newTestRouter(&fakeQuery{}, runner), http.MethodPost, "/v1/internal/jobs/ingest-live-fixtures", "", true)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
}

func TestHandler_GetJobRun(t *testing.T) {
	router := newTestRouter(&fakeQuery{}, &fakeRunner{})

	rec, body := doRequest(t, router, http.MethodGet, "/v1/internal/jobs/runs/run-1", "", true)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	data, _ := body["data"].(map[string]any)
	if data["status"] != "completed_with_errors" || data["failed"] != float64(1) || data["finished_at"] != "2024-08-17T02:03:00Z" {
		t.Fatalf("unexpected run payload: %+v", data)
	}

	rec, _ = doRequest(t, router, http.MethodGet, "/v1/internal/jobs/runs/unknown", "", true)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestRequireInternalJobToken_NotConfigured(t *testing.T) {
	handler := RequireInternalJobToken("  ")(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodPost, "/v1/internal/jobs/ingest-leagues", nil)
	req.Header.Set("X-Internal-Job-Token", "anything")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 when no token is configured, got %d", rec.Code)
	}
}
