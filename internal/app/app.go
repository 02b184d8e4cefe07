package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/riskibarqy/sports-data-service/external/apifootball"
	"github.com/riskibarqy/sports-data-service/internal/config"
	"github.com/riskibarqy/sports-data-service/internal/infrastructure/lock"
	"github.com/riskibarqy/sports-data-service/internal/interfaces/httpapi"
	"github.com/riskibarqy/sports-data-service/internal/interfaces/scheduler"
	"github.com/riskibarqy/sports-data-service/internal/platform/id"
	"github.com/riskibarqy/sports-data-service/internal/platform/logging"
	"github.com/riskibarqy/sports-data-service/internal/usecase"
)

// App holds the wired components of one process. cmd/api serves it over HTTP
// and cmd/ingest drives its runner directly.
type App struct {
	cfg    config.Config
	logger *logging.Logger

	Triggers *usecase.IngestionTriggerService
	Runner   *usecase.TriggerRunner
	Query    *usecase.SportsQueryService

	store   store
	closers []func() error
}

func New(ctx context.Context, cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}

	st, err := openStore(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	client := apifootball.NewClient(apifootball.ClientConfig{
		BaseURL:        cfg.APIFootballBaseURL,
		Host:           cfg.APIFootballHost,
		APIKey:         cfg.APIFootballKey,
		Timeout:        cfg.APIFootballTimeout,
		MaxRetries:     cfg.APIFootballMaxRetries,
		RetryStep:      cfg.APIFootballRetryStep,
		RatePerMinute:  cfg.APIFootballRatePerMinute,
		Logger:         logger,
		CircuitBreaker: cfg.APIFootballCircuit,
	})
	if cfg.APIFootballKey == "" {
		logger.Warn("API_FOOTBALL_KEY is empty, upstream calls will be rejected")
	}

	reconciler := usecase.NewReconciler(st.uow, logger)
	ingestion := usecase.NewIngestionService(client, apifootball.NewNormalizer(), reconciler, logger)
	triggers := usecase.NewIngestionTriggerService(ingestion, st.leagues, usecase.IngestionTriggerConfig{
		DefaultSeason: cfg.IngestDefaultSeason,
		PacingDelay:   cfg.IngestPacingDelay,
	}, logger)

	runner, err := usecase.NewTriggerRunner(triggers, st.runs, id.NewUUIDGenerator(), usecase.TriggerRunnerConfig{
		Workers:    cfg.IngestWorkers,
		RunTimeout: cfg.IngestRunTimeout,
	}, logger)
	if err != nil {
		_ = st.close()
		return nil, err
	}

	return &App{
		cfg:      cfg,
		logger:   logger,
		Triggers: triggers,
		Runner:   runner,
		Query:    usecase.NewSportsQueryService(st.leagues, st.teams, st.fixtures),
		store:    st,
	}, nil
}

func (a *App) NewHTTPServer() (*http.Server, error) {
	if a.cfg.HTTPAddr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}
	if a.cfg.InternalJobToken == "" {
		a.logger.Warn("INTERNAL_JOB_TOKEN is empty, internal job routes will reject every request")
	}

	handler := httpapi.NewHandler(a.Query, a.Runner, a.logger)
	router := httpapi.NewRouter(handler, a.logger, a.cfg.CORSAllowedOrigins, a.cfg.InternalJobToken)

	return httpapi.NewServer(a.cfg.HTTPAddr, router, a.cfg.ReadTimeout, a.cfg.WriteTimeout), nil
}

// NewScheduler returns nil when SCHEDULER_ENABLED=false. With a lock redis
// url the ticks are leased so that only one replica fires each of them.
func (a *App) NewScheduler(ctx context.Context) (*scheduler.Scheduler, error) {
	if !a.cfg.SchedulerEnabled {
		a.logger.Info("scheduler disabled", "reason", "SCHEDULER_ENABLED=false")
		return nil, nil
	}

	var leaser scheduler.Leaser
	if a.cfg.SchedulerLockRedisURL != "" {
		redisLeaser, closeRedis, err := lock.NewRedisLeaser(ctx, a.cfg.SchedulerLockRedisURL, instanceName())
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, closeRedis)
		leaser = redisLeaser
	}

	return scheduler.New(a.Runner, leaser, scheduler.Config{
		LeaguesAt:    a.cfg.ScheduleLeaguesAt,
		FixturesAt:   a.cfg.ScheduleFixturesAt,
		LiveInterval: a.cfg.ScheduleLiveInterval,
		LockTTL:      a.cfg.SchedulerLockTTL,
	}, a.logger)
}

// Close drains the runner and then releases the store and lock clients.
func (a *App) Close(timeout time.Duration) error {
	var errs []error
	if err := a.Runner.Close(timeout); err != nil {
		errs = append(errs, fmt.Errorf("close trigger runner: %w", err))
	}
	for _, closeFn := range a.closers {
		if err := closeFn(); err != nil {
			errs = append(errs, err)
		}
	}
	if err := a.store.close(); err != nil {
		errs = append(errs, fmt.Errorf("close store: %w", err))
	}
	return errors.Join(errs...)
}

func instanceName() string {
	host, err := os.Hostname()
	if err != nil || host == "" {
		return fmt.Sprintf("pid-%d", os.Getpid())
	}
	return fmt.Sprintf("%s-%d", host, os.Getpid())
}
