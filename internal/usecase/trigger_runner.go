package usecase

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"strings"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/riskibarqy/sports-data-service/internal/domain/ingestionrun"
	"github.com/riskibarqy/sports-data-service/internal/platform/id"
	"github.com/riskibarqy/sports-data-service/internal/platform/logging"
)

const (
	JobIngestLeagues        = "ingest-leagues"
	JobIngestDailyFixtures  = "ingest-daily-fixtures"
	JobIngestLiveFixtures   = "ingest-live-fixtures"
	JobIngestTeams          = "ingest-teams"
	JobIngestSeasonFixtures = "ingest-season-fixtures"
)

const runRecordWriteTimeout = 5 * time.Second

// Jobs lists every trigger name the runner accepts.
func Jobs() []string {
	return []string{
		JobIngestLeagues,
		JobIngestDailyFixtures,
		JobIngestLiveFixtures,
		JobIngestTeams,
		JobIngestSeasonFixtures,
	}
}

type TriggerRequest struct {
	Job         string
	Source      ingestionrun.Source
	LeagueAPIID int64
	Season      int
	Date        string
}

func (r TriggerRequest) params() map[string]any {
	out := map[string]any{}
	if r.LeagueAPIID > 0 {
		out["league_id"] = r.LeagueAPIID
	}
	if r.Season > 0 {
		out["season"] = r.Season
	}
	if r.Date != "" {
		out["date"] = r.Date
	}
	return out
}

type TriggerRunnerConfig struct {
	Workers    int
	RunTimeout time.Duration
}

// TriggerRunner executes triggers on a bounded worker pool and keeps a run
// record for each of them.
type TriggerRunner struct {
	triggers *IngestionTriggerService
	runs     ingestionrun.Repository
	ids      id.Generator
	pool     *ants.Pool
	cfg      TriggerRunnerConfig
	logger   *logging.Logger
	now      func() time.Time
}

func NewTriggerRunner(
	triggers *IngestionTriggerService,
	runs ingestionrun.Repository,
	ids id.Generator,
	cfg TriggerRunnerConfig,
	logger *logging.Logger,
) (*TriggerRunner, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if ids == nil {
		ids = id.NewUUIDGenerator()
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}
	if cfg.RunTimeout <= 0 {
		cfg.RunTimeout = 30 * time.Minute
	}

	pool, err := ants.NewPool(cfg.Workers,
		ants.WithNonblocking(true),
		ants.WithPanicHandler(func(v any) {
			logger.Error("trigger panicked", "panic", v, "stack", string(debug.Stack()))
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("create trigger pool: %w", err)
	}

	return &TriggerRunner{
		triggers: triggers,
		runs:     runs,
		ids:      ids,
		pool:     pool,
		cfg:      cfg,
		logger:   logger,
		now:      time.Now,
	}, nil
}

// Submit records a started run and hands the trigger to the pool. It returns
// as soon as the run is queued; the trigger outlives ctx.
func (r *TriggerRunner) Submit(ctx context.Context, req TriggerRequest) (ingestionrun.Run, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TriggerRunner.Submit")
	defer span.End()

	run, err := r.begin(ctx, req)
	if err != nil {
		return ingestionrun.Run{}, err
	}

	base := context.WithoutCancel(ctx)
	if err := r.pool.Submit(func() {
		defer func() {
			if p := recover(); p != nil {
				r.finish(base, run, SweepResult{Job: req.Job}, fmt.Errorf("trigger panicked: %v", p))
				panic(p)
			}
		}()
		_, _, _ = r.execute(base, run, req)
	}); err != nil {
		cause := fmt.Errorf("%w: trigger pool rejected %s: %w", ErrDependencyUnavailable, req.Job, err)
		if errors.Is(err, ants.ErrPoolClosed) {
			cause = fmt.Errorf("%w: trigger pool is closed", ErrDependencyUnavailable)
		}
		r.finish(base, run, SweepResult{}, cause)
		return ingestionrun.Run{}, cause
	}

	return run, nil
}

// Run executes the trigger on the calling goroutine.
func (r *TriggerRunner) Run(ctx context.Context, req TriggerRequest) (ingestionrun.Run, SweepResult, error) {
	run, err := r.begin(ctx, req)
	if err != nil {
		return ingestionrun.Run{}, SweepResult{}, err
	}
	return r.execute(ctx, run, req)
}

func (r *TriggerRunner) GetRun(ctx context.Context, runID string) (ingestionrun.Run, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TriggerRunner.GetRun")
	defer span.End()

	runID = strings.TrimSpace(runID)
	if runID == "" {
		return ingestionrun.Run{}, fmt.Errorf("%w: run id is required", ErrInvalidInput)
	}
	if r.runs == nil {
		return ingestionrun.Run{}, fmt.Errorf("%w: run store is not configured", ErrDependencyUnavailable)
	}

	run, found, err := r.runs.GetByID(ctx, runID)
	if err != nil {
		return ingestionrun.Run{}, fmt.Errorf("get run id=%s: %w", runID, err)
	}
	if !found {
		return ingestionrun.Run{}, fmt.Errorf("%w: run id=%s", ErrNotFound, runID)
	}
	return run, nil
}

// Running reports the number of triggers currently executing.
func (r *TriggerRunner) Running() int {
	return r.pool.Running()
}

// Close stops accepting triggers and waits up to timeout for running ones.
func (r *TriggerRunner) Close(timeout time.Duration) error {
	if err := r.pool.ReleaseTimeout(timeout); err != nil {
		return fmt.Errorf("release trigger pool: %w", err)
	}
	return nil
}

func (r *TriggerRunner) begin(ctx context.Context, req TriggerRequest) (ingestionrun.Run, error) {
	if !isKnownJob(req.Job) {
		return ingestionrun.Run{}, fmt.Errorf("%w: unknown job %q", ErrInvalidInput, req.Job)
	}
	if r.triggers == nil {
		return ingestionrun.Run{}, fmt.Errorf("%w: ingestion triggers are not configured", ErrDependencyUnavailable)
	}
	if req.Source == "" {
		req.Source = ingestionrun.SourceManual
	}

	runID, err := r.ids.NewID()
	if err != nil {
		return ingestionrun.Run{}, fmt.Errorf("generate run id: %w", err)
	}

	run := ingestionrun.Run{
		ID:        runID,
		JobName:   req.Job,
		Source:    req.Source,
		Status:    ingestionrun.StatusStarted,
		Params:    req.params(),
		StartedAt: r.now().UTC(),
	}
	r.saveRun(ctx, run)
	return run, nil
}

func (r *TriggerRunner) execute(ctx context.Context, run ingestionrun.Run, req TriggerRequest) (ingestionrun.Run, SweepResult, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.RunTimeout)
	defer cancel()

	ctx, span := startRootSpan(ctx, "usecase.TriggerRunner."+req.Job)
	defer span.End()
	if spanCtx := span.SpanContext(); spanCtx.IsValid() {
		run.TraceID = spanCtx.TraceID().String()
	}

	r.logger.InfoContext(ctx, "trigger started", "run_id", run.ID, "job", run.JobName, "source", run.Source)

	sweep, err := r.dispatch(ctx, req)
	run = r.finish(ctx, run, sweep, err)
	return run, sweep, err
}

func (r *TriggerRunner) dispatch(ctx context.Context, req TriggerRequest) (SweepResult, error) {
	switch req.Job {
	case JobIngestLeagues:
		return r.triggers.IngestLeaguesDaily(ctx)
	case JobIngestDailyFixtures:
		return r.triggers.IngestDailyFixtures(ctx, DailyFixturesInput{
			LeagueAPIID: req.LeagueAPIID,
			Season:      req.Season,
			Date:        req.Date,
		})
	case JobIngestLiveFixtures:
		return r.triggers.IngestLiveFixtures(ctx)
	case JobIngestTeams:
		return r.triggers.IngestTeams(ctx, SeasonInput{LeagueAPIID: req.LeagueAPIID, Season: req.Season})
	case JobIngestSeasonFixtures:
		return r.triggers.IngestSeasonFixtures(ctx, SeasonInput{LeagueAPIID: req.LeagueAPIID, Season: req.Season})
	default:
		return SweepResult{Job: req.Job}, fmt.Errorf("%w: unknown job %q", ErrInvalidInput, req.Job)
	}
}

func (r *TriggerRunner) finish(ctx context.Context, run ingestionrun.Run, sweep SweepResult, err error) ingestionrun.Run {
	finishedAt := r.now().UTC()
	run.Status = sweep.RunStatus(err)
	run.Passes = len(sweep.Passes)
	run.Attempted = sweep.Attempted
	run.Succeeded = sweep.Succeeded
	run.Failed = sweep.Failed
	run.FinishedAt = &finishedAt
	if err != nil {
		run.ErrorMessage = err.Error()
	} else if len(sweep.Errors) > 0 {
		run.ErrorMessage = strings.Join(sweep.Errors, "; ")
	}

	r.saveRun(ctx, run)

	fields := []any{
		"run_id", run.ID,
		"job", run.JobName,
		"status", run.Status,
		"attempted", run.Attempted,
		"succeeded", run.Succeeded,
		"failed", run.Failed,
		"duration_ms", finishedAt.Sub(run.StartedAt).Milliseconds(),
	}
	if run.Status == ingestionrun.StatusCompleted {
		r.logger.InfoContext(ctx, "trigger finished", fields...)
	} else {
		r.logger.WarnContext(ctx, "trigger finished", append(fields, "error", run.ErrorMessage)...)
	}
	return run
}

// saveRun never fails the trigger; the run record is best effort.
func (r *TriggerRunner) saveRun(ctx context.Context, run ingestionrun.Run) {
	if r.runs == nil {
		return
	}
	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), runRecordWriteTimeout)
	defer cancel()

	if err := r.runs.Upsert(writeCtx, run); err != nil {
		r.logger.WarnContext(ctx, "save run record failed", "run_id", run.ID, "status", run.Status, "error", err)
	}
}

func isKnownJob(job string) bool {
	for _, name := range Jobs() {
		if name == job {
			return true
		}
	}
	return false
}
