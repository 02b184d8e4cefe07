package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/riskibarqy/sports-data-service/internal/domain/ingestionrun"
	ingestionrunmock "github.com/riskibarqy/sports-data-service/internal/mocks/domain/ingestionrun"
	"github.com/stretchr/testify/mock"
)

type sequenceIDs struct {
	mu   sync.Mutex
	next int
}

func (s *sequenceIDs) NewID() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next++
	return "run-" + string(rune('0'+s.next)), nil
}

type memoryRuns struct {
	mu    sync.Mutex
	items map[string]ingestionrun.Run
}

func newMemoryRuns() *memoryRuns {
	return &memoryRuns{items: map[string]ingestionrun.Run{}}
}

func (m *memoryRuns) Upsert(_ context.Context, run ingestionrun.Run) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[run.ID] = run
	return nil
}

func (m *memoryRuns) GetByID(_ context.Context, id string) (ingestionrun.Run, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	run, ok := m.items[id]
	return run, ok, nil
}

type blockingIngester struct {
	release chan struct{}
	started chan struct{}
}

func (b *blockingIngester) Ingest(ctx context.Context, kind ResourceKind, query IngestionQuery) (IngestionResult, error) {
	close(b.started)
	select {
	case <-b.release:
	case <-ctx.Done():
		return IngestionResult{Kind: kind, Query: query, State: StateCancelled}, ctx.Err()
	}
	return IngestionResult{Kind: kind, Query: query, State: StateDone, Attempted: 1, Succeeded: 1}, nil
}

func newTestRunner(t *testing.T, ingester Ingester, runs ingestionrun.Repository, cfg TriggerRunnerConfig) *TriggerRunner {
	t.Helper()

	triggers := newTriggerService(ingester, nil)
	runner, err := NewTriggerRunner(triggers, runs, &sequenceIDs{}, cfg, nil)
	if err != nil {
		t.Fatalf("new trigger runner: %v", err)
	}
	runner.now = fixedNow
	t.Cleanup(func() { _ = runner.Close(time.Second) })
	return runner
}

func TestTriggerRunner_RunRecordsCompletedRun(t *testing.T) {
	t.Parallel()

	runs := newMemoryRuns()
	runner := newTestRunner(t, &recordingIngester{}, runs, TriggerRunnerConfig{Workers: 1})

	run, sweep, err := runner.Run(context.Background(), TriggerRequest{
		Job:         JobIngestTeams,
		Source:      ingestionrun.SourceCLI,
		LeagueAPIID: 39,
		Season:      2024,
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if sweep.Succeeded != 2 {
		t.Fatalf("unexpected sweep: %+v", sweep)
	}

	stored, err := runner.GetRun(context.Background(), run.ID)
	if err != nil {
		t.Fatalf("get run: %v", err)
	}
	if stored.Status != ingestionrun.StatusCompleted || stored.Source != ingestionrun.SourceCLI {
		t.Fatalf("unexpected stored run: %+v", stored)
	}
	if !stored.Finished() || stored.Passes != 1 || stored.Attempted != 2 {
		t.Fatalf("unexpected counts: %+v", stored)
	}
	if stored.Params["league_id"] != int64(39) || stored.Params["season"] != 2024 {
		t.Fatalf("unexpected params: %+v", stored.Params)
	}
}

func TestTriggerRunner_SubmitReturnsBeforeTriggerFinishes(t *testing.T) {
	t.Parallel()

	runs := newMemoryRuns()
	ingester := &blockingIngester{release: make(chan struct{}), started: make(chan struct{})}
	runner := newTestRunner(t, ingester, runs, TriggerRunnerConfig{Workers: 1})

	ctx, cancel := context.WithCancel(context.Background())
	run, err := runner.Submit(ctx, TriggerRequest{Job: JobIngestLeagues})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	cancel()

	<-ingester.started
	stored, _, _ := runs.GetByID(context.Background(), run.ID)
	if stored.Status != ingestionrun.StatusStarted || stored.Source != ingestionrun.SourceManual {
		t.Fatalf("expected started manual run, got %+v", stored)
	}

	close(ingester.release)
	deadline := time.After(2 * time.Second)
	for {
		stored, _, _ = runs.GetByID(context.Background(), run.ID)
		if stored.Finished() {
			break
		}
		select {
		case <-deadline:
			t.Fatalf("run never finished")
		case <-time.After(5 * time.Millisecond):
		}
	}
	if stored.Status != ingestionrun.StatusCompleted {
		t.Fatalf("cancelling the request context must not cancel the run, got %+v", stored)
	}
}

func TestTriggerRunner_SubmitRejectsWhenSaturated(t *testing.T) {
	t.Parallel()

	ingester := &blockingIngester{release: make(chan struct{}), started: make(chan struct{})}
	runner := newTestRunner(t, ingester, newMemoryRuns(), TriggerRunnerConfig{Workers: 1})
	defer close(ingester.release)

	if _, err := runner.Submit(context.Background(), TriggerRequest{Job: JobIngestLiveFixtures}); err != nil {
		t.Fatalf("first submit: %v", err)
	}
	<-ingester.started

	_, err := runner.Submit(context.Background(), TriggerRequest{Job: JobIngestLiveFixtures})
	if !errors.Is(err, ErrDependencyUnavailable) {
		t.Fatalf("expected ErrDependencyUnavailable, got %v", err)
	}
}

func TestTriggerRunner_RunTimeoutMarksRunFailed(t *testing.T) {
	t.Parallel()

	ingester := &blockingIngester{release: make(chan struct{}), started: make(chan struct{})}
	runs := newMemoryRuns()
	runner := newTestRunner(t, ingester, runs, TriggerRunnerConfig{Workers: 1, RunTimeout: 20 * time.Millisecond})

	run, _, err := runner.Run(context.Background(), TriggerRequest{Job: JobIngestLiveFixtures, Source: ingestionrun.SourceSchedule})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
	if run.Status != ingestionrun.StatusFailed || run.ErrorMessage == "" {
		t.Fatalf("unexpected run: %+v", run)
	}
}

func TestTriggerRunner_UnknownJob(t *testing.T) {
	t.Parallel()

	runner := newTestRunner(t, &recordingIngester{}, newMemoryRuns(), TriggerRunnerConfig{})
	if _, err := runner.Submit(context.Background(), TriggerRequest{Job: "sync-players"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestTriggerRunner_GetRunNotFound(t *testing.T) {
	t.Parallel()

	runs := ingestionrunmock.NewRepository(t)
	runs.On("GetByID", mock.Anything, "missing").Return(ingestionrun.Run{}, false, nil).Once()

	runner := newTestRunner(t, &recordingIngester{}, runs, TriggerRunnerConfig{})
	if _, err := runner.GetRun(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestTriggerRunner_RunStoreFailureDoesNotFailTrigger(t *testing.T) {
	t.Parallel()

	runs := ingestionrunmock.NewRepository(t)
	runs.On("Upsert", mock.Anything, mock.AnythingOfType("ingestionrun.Run")).Return(errors.New("db down")).Twice()

	runner := newTestRunner(t, &recordingIngester{}, runs, TriggerRunnerConfig{})
	if _, _, err := runner.Run(context.Background(), TriggerRequest{Job: JobIngestLeagues}); err != nil {
		t.Fatalf("run store failures must be logged only, got %v", err)
	}
}
