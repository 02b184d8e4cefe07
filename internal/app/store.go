package app

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/riskibarqy/sports-data-service/internal/config"
	"github.com/riskibarqy/sports-data-service/internal/domain/fixture"
	"github.com/riskibarqy/sports-data-service/internal/domain/ingestionrun"
	"github.com/riskibarqy/sports-data-service/internal/domain/league"
	"github.com/riskibarqy/sports-data-service/internal/domain/team"
	"github.com/riskibarqy/sports-data-service/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/sports-data-service/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/sports-data-service/internal/platform/logging"
	"github.com/riskibarqy/sports-data-service/internal/usecase"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
	"go.opentelemetry.io/otel/attribute"
)

// store is the repository set shared by every component of one process.
type store struct {
	uow      usecase.UnitOfWork
	leagues  league.Repository
	teams    team.Repository
	fixtures fixture.Repository
	runs     ingestionrun.Repository
	close    func() error
}

func openStore(ctx context.Context, cfg config.Config, logger *logging.Logger) (store, error) {
	switch cfg.StoreDriver {
	case config.StoreDriverMemory:
		mem := memory.NewSeededStore(memory.SeedLeagues())
		logger.Info("store ready", "driver", cfg.StoreDriver)
		return store{
			uow:      memory.NewUnitOfWork(mem),
			leagues:  memory.NewLeagueRepository(mem),
			teams:    memory.NewTeamRepository(mem),
			fixtures: memory.NewFixtureRepository(mem),
			runs:     memory.NewIngestionRunRepository(),
			close:    func() error { return nil },
		}, nil
	case config.StoreDriverPostgres:
		target := resolveConnTarget(cfg.DBURL, cfg.DBDisablePreparedBinary)
		db, err := openDatabase(ctx, cfg, target)
		if err != nil {
			return store{}, err
		}
		if err := postgres.BootstrapSeed(ctx, db, memory.SeedLeagues()); err != nil {
			_ = db.Close()
			return store{}, err
		}
		logger.Info("store ready",
			"driver", cfg.StoreDriver,
			"db_name", target.dbName,
			"max_open_conns", cfg.DBMaxOpenConns,
		)
		return store{
			uow:      postgres.NewUnitOfWork(db),
			leagues:  postgres.NewLeagueRepository(db),
			teams:    postgres.NewTeamRepository(db),
			fixtures: postgres.NewFixtureRepository(db),
			runs:     postgres.NewIngestionRunRepository(db),
			close:    db.Close,
		}, nil
	default:
		return store{}, fmt.Errorf("unsupported store driver %q", cfg.StoreDriver)
	}
}

func openDatabase(ctx context.Context, cfg config.Config, target connTarget) (*sqlx.DB, error) {
	opts := []otelsql.Option{
		otelsql.WithAttributes(attribute.String("db.system", "postgresql")),
		otelsql.WithQueryFormatter(spanQuery),
	}
	if target.dbName != "" {
		opts = append(opts, otelsql.WithDBName(target.dbName))
	}

	db, err := otelsqlx.Open("postgres", target.dsn, opts...)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(cfg.DBMaxOpenConns)
	db.SetMaxIdleConns(cfg.DBMaxIdleConns)
	db.SetConnMaxIdleTime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return db, nil
}
