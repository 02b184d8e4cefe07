package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/riskibarqy/sports-data-service/internal/domain/ingestionrun"
	"github.com/riskibarqy/sports-data-service/internal/domain/league"
	"github.com/riskibarqy/sports-data-service/internal/platform/logging"
	"github.com/riskibarqy/sports-data-service/internal/platform/pacing"
	"github.com/sourcegraph/conc/pool"
)

// Ingester is the single-pass entry point the triggers drive.
type Ingester interface {
	Ingest(ctx context.Context, kind ResourceKind, query IngestionQuery) (IngestionResult, error)
}

type IngestionTriggerConfig struct {
	// DefaultSeason is used when a trigger gets no season. Zero derives the
	// season from the clock.
	DefaultSeason int
	// PacingDelay separates successive leagues in the daily sweep.
	PacingDelay time.Duration
}

type DailyFixturesInput struct {
	LeagueAPIID int64  `json:"league_id,omitempty"`
	Season      int    `json:"season,omitempty"`
	Date        string `json:"date,omitempty"`
}

type SeasonInput struct {
	LeagueAPIID int64 `json:"league_id"`
	Season      int   `json:"season"`
}

// SweepResult aggregates every pass issued by one trigger.
type SweepResult struct {
	Job        string            `json:"job"`
	Passes     []IngestionResult `json:"passes"`
	Errors     []string          `json:"errors,omitempty"`
	Attempted  int               `json:"attempted"`
	Succeeded  int               `json:"succeeded"`
	Failed     int               `json:"failed"`
	StartedAt  time.Time         `json:"started_at"`
	FinishedAt time.Time         `json:"finished_at"`
}

func (r *SweepResult) add(res IngestionResult, err error) {
	r.Passes = append(r.Passes, res)
	r.Attempted += res.Attempted
	r.Succeeded += res.Succeeded
	r.Failed += len(res.Failed)
	if err != nil {
		r.Errors = append(r.Errors, err.Error())
	}
}

func (r SweepResult) completedPasses() int {
	count := 0
	for _, pass := range r.Passes {
		if pass.State == StateDone {
			count++
		}
	}
	return count
}

// RunStatus maps the sweep outcome onto a run record status.
func (r SweepResult) RunStatus(err error) ingestionrun.Status {
	switch {
	case err != nil && r.completedPasses() == 0:
		return ingestionrun.StatusFailed
	case err != nil || r.Failed > 0 || len(r.Errors) > 0:
		return ingestionrun.StatusCompletedWithErrors
	default:
		return ingestionrun.StatusCompleted
	}
}

// IngestionTriggerService maps named triggers onto ingestion passes.
type IngestionTriggerService struct {
	ingester Ingester
	leagues  league.Repository
	gate     *pacing.Gate
	cfg      IngestionTriggerConfig
	logger   *logging.Logger
	now      func() time.Time
}

func NewIngestionTriggerService(
	ingester Ingester,
	leagues league.Repository,
	cfg IngestionTriggerConfig,
	logger *logging.Logger,
) *IngestionTriggerService {
	if logger == nil {
		logger = logging.Default()
	}

	return &IngestionTriggerService{
		ingester: ingester,
		leagues:  leagues,
		gate:     pacing.NewGate(cfg.PacingDelay),
		cfg:      cfg,
		logger:   logger,
		now:      time.Now,
	}
}

func (s *IngestionTriggerService) IngestLeaguesDaily(ctx context.Context) (SweepResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.IngestionTriggerService.IngestLeaguesDaily")
	defer span.End()

	return s.single(ctx, JobIngestLeagues, ResourceLeagues, IngestionQuery{})
}

func (s *IngestionTriggerService) IngestLiveFixtures(ctx context.Context) (SweepResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.IngestionTriggerService.IngestLiveFixtures")
	defer span.End()

	return s.single(ctx, JobIngestLiveFixtures, ResourceLiveFixtures, IngestionQuery{})
}

func (s *IngestionTriggerService) IngestTeams(ctx context.Context, input SeasonInput) (SweepResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.IngestionTriggerService.IngestTeams")
	defer span.End()

	return s.single(ctx, JobIngestTeams, ResourceTeams, IngestionQuery{
		LeagueAPIID: input.LeagueAPIID,
		Season:      s.resolveSeason(input.Season),
	})
}

func (s *IngestionTriggerService) IngestSeasonFixtures(ctx context.Context, input SeasonInput) (SweepResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.IngestionTriggerService.IngestSeasonFixtures")
	defer span.End()

	return s.single(ctx, JobIngestSeasonFixtures, ResourceFixtures, IngestionQuery{
		LeagueAPIID: input.LeagueAPIID,
		Season:      s.resolveSeason(input.Season),
	})
}

// IngestDailyFixtures sweeps yesterday, today and tomorrow for every known
// league. The three dates of one league are fetched concurrently; every
// league after the first waits out the full pacing delay. A failing league/date pass is recorded and the
// sweep moves on.
func (s *IngestionTriggerService) IngestDailyFixtures(ctx context.Context, input DailyFixturesInput) (SweepResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.IngestionTriggerService.IngestDailyFixtures")
	defer span.End()

	sweep := SweepResult{Job: JobIngestDailyFixtures, StartedAt: s.now().UTC()}

	anchor, err := s.anchorDate(input.Date)
	if err != nil {
		return sweep, err
	}
	season := s.resolveSeason(input.Season)
	if err := validateSeason(season); err != nil {
		return sweep, err
	}

	leagueIDs, err := s.targetLeagues(ctx, input.LeagueAPIID)
	if err != nil {
		return sweep, err
	}
	dates := []string{
		anchor.AddDate(0, 0, -1).Format(dateLayout),
		anchor.Format(dateLayout),
		anchor.AddDate(0, 0, 1).Format(dateLayout),
	}

	fetchFailures := 0
	for i, leagueAPIID := range leagueIDs {
		if err := ctx.Err(); err != nil {
			sweep.Errors = append(sweep.Errors, fmt.Sprintf("sweep interrupted before league %d: %v", leagueAPIID, err))
			break
		}
		if i > 0 {
			s.gate.Wait()
		}

		outcomes := s.ingestDates(ctx, leagueAPIID, season, dates)
		for _, outcome := range outcomes {
			sweep.add(outcome.result, outcome.err)
			if outcome.err != nil {
				fetchFailures++
			}
		}
	}

	sweep.FinishedAt = s.now().UTC()
	s.logSweep(ctx, sweep, "leagues", len(leagueIDs), "season", season, "anchor_date", anchor.Format(dateLayout))

	if fetchFailures > 0 {
		return sweep, fmt.Errorf("%w: %d of %d fixture passes failed", ErrFetchFailed, fetchFailures, len(sweep.Passes))
	}
	if err := ctx.Err(); err != nil {
		return sweep, err
	}
	return sweep, nil
}

type passOutcome struct {
	result IngestionResult
	err    error
}

func (s *IngestionTriggerService) ingestDates(ctx context.Context, leagueAPIID int64, season int, dates []string) []passOutcome {
	p := pool.NewWithResults[passOutcome]().WithMaxGoroutines(len(dates))
	for _, date := range dates {
		p.Go(func() passOutcome {
			res, err := s.ingester.Ingest(ctx, ResourceFixtures, IngestionQuery{
				LeagueAPIID: leagueAPIID,
				Season:      season,
				Date:        date,
			})
			return passOutcome{result: res, err: err}
		})
	}

	outcomes := p.Wait()
	sort.Slice(outcomes, func(i, j int) bool {
		return outcomes[i].result.Query.Date < outcomes[j].result.Query.Date
	})
	return outcomes
}

func (s *IngestionTriggerService) single(ctx context.Context, job string, kind ResourceKind, query IngestionQuery) (SweepResult, error) {
	sweep := SweepResult{Job: job, StartedAt: s.now().UTC()}
	res, err := s.ingester.Ingest(ctx, kind, query)
	sweep.add(res, err)
	sweep.FinishedAt = s.now().UTC()

	s.logSweep(ctx, sweep, "league_api_id", query.LeagueAPIID, "season", query.Season)
	return sweep, err
}

func (s *IngestionTriggerService) targetLeagues(ctx context.Context, override int64) ([]int64, error) {
	if override > 0 {
		return []int64{override}, nil
	}
	if s.leagues == nil {
		return nil, fmt.Errorf("%w: league repository is not configured", ErrDependencyUnavailable)
	}

	items, err := s.leagues.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list leagues for sweep: %w", err)
	}
	out := make([]int64, 0, len(items))
	for _, item := range items {
		if item.APIID > 0 {
			out = append(out, item.APIID)
		}
	}
	return out, nil
}

func (s *IngestionTriggerService) anchorDate(raw string) (time.Time, error) {
	if raw == "" {
		now := s.now().UTC()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	parsed, err := time.Parse(dateLayout, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date must be YYYY-MM-DD, got %q", ErrInvalidInput, raw)
	}
	return parsed, nil
}

func (s *IngestionTriggerService) resolveSeason(season int) int {
	if season > 0 {
		return season
	}
	if s.cfg.DefaultSeason > 0 {
		return s.cfg.DefaultSeason
	}
	return DefaultSeason(s.now())
}

func (s *IngestionTriggerService) logSweep(ctx context.Context, sweep SweepResult, args ...any) {
	fields := append([]any{
		"job", sweep.Job,
		"passes", len(sweep.Passes),
		"attempted", sweep.Attempted,
		"succeeded", sweep.Succeeded,
		"failed", sweep.Failed,
		"batch_errors", len(sweep.Errors),
		"duration_ms", sweep.FinishedAt.Sub(sweep.StartedAt).Milliseconds(),
	}, args...)

	if len(sweep.Errors) > 0 || sweep.Failed > 0 {
		s.logger.WarnContext(ctx, "ingestion trigger finished with failures", fields...)
		return
	}
	s.logger.InfoContext(ctx, "ingestion trigger finished", fields...)
}

// DefaultSeason follows the European calendar: a season is named after the
// year it starts in, and starts in July.
func DefaultSeason(now time.Time) int {
	if now.Month() >= time.July {
		return now.Year()
	}
	return now.Year() - 1
}
