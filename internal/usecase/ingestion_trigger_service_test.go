package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/riskibarqy/sports-data-service/internal/domain/ingestionrun"
	"github.com/riskibarqy/sports-data-service/internal/domain/league"
	leaguemock "github.com/riskibarqy/sports-data-service/internal/mocks/domain/league"
	"github.com/riskibarqy/sports-data-service/internal/platform/pacing"
	"github.com/stretchr/testify/mock"
)

type recordingIngester struct {
	mu      sync.Mutex
	calls   []IngestionQuery
	kinds   []ResourceKind
	failFor map[string]error
}

func (r *recordingIngester) Ingest(_ context.Context, kind ResourceKind, query IngestionQuery) (IngestionResult, error) {
	r.mu.Lock()
	r.calls = append(r.calls, query)
	r.kinds = append(r.kinds, kind)
	err := r.failFor[query.Date]
	r.mu.Unlock()

	if err != nil {
		return IngestionResult{Kind: kind, Query: query, State: StateFetchFailed}, err
	}
	return IngestionResult{Kind: kind, Query: query, State: StateDone, Attempted: 2, Succeeded: 2}, nil
}

func fixedNow() time.Time {
	return time.Date(2024, 8, 17, 9, 30, 0, 0, time.UTC)
}

func newTriggerService(ingester Ingester, leagues league.Repository) *IngestionTriggerService {
	svc := NewIngestionTriggerService(ingester, leagues, IngestionTriggerConfig{}, nil)
	svc.now = fixedNow
	return svc
}

func TestIngestDailyFixtures_SweepsThreeDaysPerLeague(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	leagueRepo := leaguemock.NewRepository(t)
	leagueRepo.On("List", mock.Anything).
		Return([]league.League{{ID: 1, APIID: 39}, {ID: 2, APIID: 140}}, nil).
		Once()

	ingester := &recordingIngester{}
	sweep, err := newTriggerService(ingester, leagueRepo).IngestDailyFixtures(ctx, DailyFixturesInput{})
	if err != nil {
		t.Fatalf("daily sweep: %v", err)
	}

	if len(sweep.Passes) != 6 {
		t.Fatalf("expected 6 passes, got %d", len(sweep.Passes))
	}
	wantDates := []string{"2024-08-16", "2024-08-17", "2024-08-18"}
	for i, pass := range sweep.Passes {
		if pass.Query.Date != wantDates[i%3] {
			t.Fatalf("pass %d: date=%s want %s", i, pass.Query.Date, wantDates[i%3])
		}
		if pass.Query.Season != 2024 {
			t.Fatalf("pass %d: season=%d want 2024", i, pass.Query.Season)
		}
	}
	if sweep.Passes[0].Query.LeagueAPIID != 39 || sweep.Passes[3].Query.LeagueAPIID != 140 {
		t.Fatalf("leagues swept out of order: %+v", sweep.Passes)
	}
	if sweep.Attempted != 12 || sweep.Succeeded != 12 {
		t.Fatalf("unexpected totals: %+v", sweep)
	}
	if status := sweep.RunStatus(err); status != ingestionrun.StatusCompleted {
		t.Fatalf("unexpected run status %s", status)
	}
}

func TestIngestDailyFixtures_FailedPassDoesNotStopSweep(t *testing.T) {
	t.Parallel()

	ingester := &recordingIngester{failFor: map[string]error{
		"2024-08-16": errors.Join(ErrFetchFailed, errors.New("status=500")),
	}}
	svc := newTriggerService(ingester, nil)

	sweep, err := svc.IngestDailyFixtures(context.Background(), DailyFixturesInput{LeagueAPIID: 39, Season: 2023, Date: "2024-08-17"})
	if !errors.Is(err, ErrFetchFailed) {
		t.Fatalf("expected ErrFetchFailed, got %v", err)
	}
	if len(sweep.Passes) != 3 || len(sweep.Errors) != 1 {
		t.Fatalf("expected 3 passes and 1 error, got passes=%d errors=%d", len(sweep.Passes), len(sweep.Errors))
	}
	if sweep.Passes[0].Query.Season != 2023 {
		t.Fatalf("explicit season ignored: %d", sweep.Passes[0].Query.Season)
	}
	if status := sweep.RunStatus(err); status != ingestionrun.StatusCompletedWithErrors {
		t.Fatalf("unexpected run status %s", status)
	}
}

func TestIngestDailyFixtures_StopsBetweenLeaguesWhenCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	leagueRepo := leaguemock.NewRepository(t)
	leagueRepo.On("List", mock.Anything).
		Return([]league.League{{APIID: 39}, {APIID: 140}, {APIID: 78}}, nil).
		Once()

	ingester := &cancellingIngester{cancel: cancel}
	sweep, err := newTriggerService(ingester, leagueRepo).IngestDailyFixtures(ctx, DailyFixturesInput{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if len(sweep.Passes) != 3 {
		t.Fatalf("only the first league should be swept, got %d passes", len(sweep.Passes))
	}
}

func TestIngestDailyFixtures_PausesBetweenEveryPairOfLeagues(t *testing.T) {
	t.Parallel()

	leagues := []league.League{{APIID: 39}, {APIID: 140}, {APIID: 78}}
	leagueRepo := leaguemock.NewRepository(t)
	leagueRepo.On("List", mock.Anything).Return(leagues, nil).Once()

	ingester := &recordingIngester{}
	var pauses []time.Duration
	var callsAtPause []int
	svc := newTriggerService(ingester, leagueRepo)
	svc.gate = pacing.NewGate(time.Second, pacing.WithSleep(func(d time.Duration) {
		ingester.mu.Lock()
		callsAtPause = append(callsAtPause, len(ingester.calls))
		ingester.mu.Unlock()
		pauses = append(pauses, d)
	}))

	if _, err := svc.IngestDailyFixtures(context.Background(), DailyFixturesInput{}); err != nil {
		t.Fatalf("daily sweep: %v", err)
	}

	if len(pauses) != len(leagues)-1 {
		t.Fatalf("expected %d pauses, got %d", len(leagues)-1, len(pauses))
	}
	for i, d := range pauses {
		if d <= 0 {
			t.Fatalf("pause %d was empty", i)
		}
	}
	// Each pause lands after a league's three passes and before the next.
	if callsAtPause[0] != 3 || callsAtPause[1] != 6 {
		t.Fatalf("pauses not between leagues: %v", callsAtPause)
	}
}

type cancellingIngester struct {
	cancel context.CancelFunc
}

func (c *cancellingIngester) Ingest(_ context.Context, kind ResourceKind, query IngestionQuery) (IngestionResult, error) {
	c.cancel()
	return IngestionResult{Kind: kind, Query: query, State: StateDone}, nil
}

func TestIngestDailyFixtures_RejectsBadDate(t *testing.T) {
	t.Parallel()

	_, err := newTriggerService(&recordingIngester{}, nil).IngestDailyFixtures(context.Background(), DailyFixturesInput{LeagueAPIID: 39, Date: "yesterday"})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestIngestionTriggerService_SinglePassTriggers(t *testing.T) {
	t.Parallel()

	ingester := &recordingIngester{}
	svc := newTriggerService(ingester, nil)
	ctx := context.Background()

	if _, err := svc.IngestLeaguesDaily(ctx); err != nil {
		t.Fatalf("leagues: %v", err)
	}
	if _, err := svc.IngestLiveFixtures(ctx); err != nil {
		t.Fatalf("live: %v", err)
	}
	if _, err := svc.IngestTeams(ctx, SeasonInput{LeagueAPIID: 39}); err != nil {
		t.Fatalf("teams: %v", err)
	}
	if _, err := svc.IngestSeasonFixtures(ctx, SeasonInput{LeagueAPIID: 39, Season: 2022}); err != nil {
		t.Fatalf("season fixtures: %v", err)
	}

	wantKinds := []ResourceKind{ResourceLeagues, ResourceLiveFixtures, ResourceTeams, ResourceFixtures}
	for i, kind := range wantKinds {
		if ingester.kinds[i] != kind {
			t.Fatalf("call %d: kind=%s want %s", i, ingester.kinds[i], kind)
		}
	}
	if ingester.calls[2].Season != 2024 {
		t.Fatalf("teams should default to the current season, got %d", ingester.calls[2].Season)
	}
	if ingester.calls[3].Season != 2022 || ingester.calls[3].Date != "" {
		t.Fatalf("season fixtures query wrong: %+v", ingester.calls[3])
	}
}

func TestDefaultSeason(t *testing.T) {
	t.Parallel()

	cases := []struct {
		now  time.Time
		want int
	}{
		{now: time.Date(2024, 8, 1, 0, 0, 0, 0, time.UTC), want: 2024},
		{now: time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC), want: 2024},
		{now: time.Date(2025, 6, 30, 23, 0, 0, 0, time.UTC), want: 2024},
		{now: time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC), want: 2024},
	}
	for _, tc := range cases {
		if got := DefaultSeason(tc.now); got != tc.want {
			t.Fatalf("DefaultSeason(%s)=%d want %d", tc.now.Format(time.DateOnly), got, tc.want)
		}
	}
}

func TestResolveSeason_PrefersConfiguredDefault(t *testing.T) {
	t.Parallel()

	svc := NewIngestionTriggerService(&recordingIngester{}, nil, IngestionTriggerConfig{DefaultSeason: 2021}, nil)
	svc.now = fixedNow
	if got := svc.resolveSeason(0); got != 2021 {
		t.Fatalf("expected configured season, got %d", got)
	}
	if got := svc.resolveSeason(2019); got != 2019 {
		t.Fatalf("explicit season must win, got %d", got)
	}
}
