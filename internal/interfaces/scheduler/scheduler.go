package scheduler

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/sports-data-service/internal/domain/ingestionrun"
	"github.com/riskibarqy/sports-data-service/internal/platform/logging"
	"github.com/riskibarqy/sports-data-service/internal/usecase"
	"github.com/sourcegraph/conc"
)

// Submitter queues a trigger run. *usecase.TriggerRunner satisfies it.
type Submitter interface {
	Submit(ctx context.Context, req usecase.TriggerRequest) (ingestionrun.Run, error)
}

// Leaser grants a tick to exactly one replica.
type Leaser interface {
	Acquire(ctx context.Context, job string, tick time.Time, ttl time.Duration) (bool, error)
}

type Config struct {
	// LeaguesAt and FixturesAt are HH:MM in UTC.
	LeaguesAt    string
	FixturesAt   string
	LiveInterval time.Duration
	LockTTL      time.Duration
}

type clockTime struct {
	hour   int
	minute int
}

func (c clockTime) String() string {
	return fmt.Sprintf("%02d:%02d", c.hour, c.minute)
}

// Scheduler fires the recurring ingestion triggers. Each trigger has its own
// loop so a slow sweep never delays the live poll.
type Scheduler struct {
	runner       Submitter
	leaser       Leaser
	leaguesAt    clockTime
	fixturesAt   clockTime
	liveInterval time.Duration
	lockTTL      time.Duration
	logger       *logging.Logger
	now          func() time.Time
	after        func(time.Duration) <-chan time.Time
}

// New validates cfg. leaser may be nil for a single replica.
func New(runner Submitter, leaser Leaser, cfg Config, logger *logging.Logger) (*Scheduler, error) {
	if runner == nil {
		return nil, fmt.Errorf("scheduler runner is required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	if strings.TrimSpace(cfg.LeaguesAt) == "" {
		cfg.LeaguesAt = "01:00"
	}
	if strings.TrimSpace(cfg.FixturesAt) == "" {
		cfg.FixturesAt = "02:00"
	}
	if cfg.LiveInterval <= 0 {
		cfg.LiveInterval = 5 * time.Minute
	}
	if cfg.LockTTL <= 0 {
		cfg.LockTTL = 10 * time.Minute
	}

	leaguesAt, err := parseClock(cfg.LeaguesAt)
	if err != nil {
		return nil, fmt.Errorf("parse leagues schedule: %w", err)
	}
	fixturesAt, err := parseClock(cfg.FixturesAt)
	if err != nil {
		return nil, fmt.Errorf("parse fixtures schedule: %w", err)
	}

	return &Scheduler{
		runner:       runner,
		leaser:       leaser,
		leaguesAt:    leaguesAt,
		fixturesAt:   fixturesAt,
		liveInterval: cfg.LiveInterval,
		lockTTL:      cfg.LockTTL,
		logger:       logger,
		now:          time.Now,
		after:        time.After,
	}, nil
}

// Run blocks until ctx is cancelled and every loop has returned.
func (s *Scheduler) Run(ctx context.Context) {
	s.logger.Info("scheduler started",
		"leagues_at", s.leaguesAt.String(),
		"fixtures_at", s.fixturesAt.String(),
		"live_interval", s.liveInterval.String(),
		"lease", s.leaser != nil,
	)

	var wg conc.WaitGroup
	wg.Go(func() { s.daily(ctx, usecase.JobIngestLeagues, s.leaguesAt) })
	wg.Go(func() { s.daily(ctx, usecase.JobIngestDailyFixtures, s.fixturesAt) })
	wg.Go(func() { s.every(ctx, usecase.JobIngestLiveFixtures, s.liveInterval) })
	wg.Wait()

	s.logger.Info("scheduler stopped")
}

func (s *Scheduler) daily(ctx context.Context, job string, at clockTime) {
	for {
		next := nextDailyRun(s.now(), at)
		s.logger.Debug("next scheduled run", "job", job, "at", next.Format(time.RFC3339))
		if !s.sleepUntil(ctx, next) {
			return
		}
		s.fire(ctx, job, next)
	}
}

func (s *Scheduler) every(ctx context.Context, job string, interval time.Duration) {
	for {
		next := nextIntervalRun(s.now(), interval)
		if !s.sleepUntil(ctx, next) {
			return
		}
		s.fire(ctx, job, next)
	}
}

func (s *Scheduler) sleepUntil(ctx context.Context, at time.Time) bool {
	wait := at.Sub(s.now())
	if wait < 0 {
		wait = 0
	}
	select {
	case <-ctx.Done():
		return false
	case <-s.after(wait):
		return ctx.Err() == nil
	}
}

func (s *Scheduler) fire(ctx context.Context, job string, tick time.Time) {
	if s.leaser != nil {
		ok, err := s.leaser.Acquire(ctx, job, tick, s.lockTTL)
		switch {
		case err != nil:
			// Ingestion is idempotent; a duplicate run is cheaper than a missed one.
			s.logger.WarnContext(ctx, "scheduler lease unavailable, firing anyway", "job", job, "error", err)
		case !ok:
			s.logger.DebugContext(ctx, "tick taken by another replica", "job", job, "tick", tick.Format(time.RFC3339))
			return
		}
	}

	run, err := s.runner.Submit(ctx, usecase.TriggerRequest{Job: job, Source: ingestionrun.SourceSchedule})
	if err != nil {
		s.logger.WarnContext(ctx, "scheduled trigger not started", "job", job, "error", err)
		return
	}
	s.logger.InfoContext(ctx, "scheduled trigger submitted", "job", job, "run_id", run.ID)
}

// nextDailyRun returns the first instant strictly after now at the given UTC
// wall clock time.
func nextDailyRun(now time.Time, at clockTime) time.Time {
	now = now.UTC()
	next := time.Date(now.Year(), now.Month(), now.Day(), at.hour, at.minute, 0, 0, time.UTC)
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

// nextIntervalRun aligns ticks to interval boundaries so every replica
// computes the same tick.
func nextIntervalRun(now time.Time, interval time.Duration) time.Time {
	return now.UTC().Truncate(interval).Add(interval)
}

func parseClock(value string) (clockTime, error) {
	hh, mm, ok := strings.Cut(strings.TrimSpace(value), ":")
	if !ok {
		return clockTime{}, fmt.Errorf("clock time %q must be HH:MM", value)
	}
	hour, err := strconv.Atoi(hh)
	if err != nil || hour < 0 || hour > 23 {
		return clockTime{}, fmt.Errorf("clock time %q has an invalid hour", value)
	}
	minute, err := strconv.Atoi(mm)
	if err != nil || minute < 0 || minute > 59 {
		return clockTime{}, fmt.Errorf("clock time %q has an invalid minute", value)
	}
	return clockTime{hour: hour, minute: minute}, nil
}
