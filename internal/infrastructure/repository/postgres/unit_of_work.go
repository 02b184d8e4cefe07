package postgres

import (
	"context"

	crerr "github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/sports-data-service/internal/usecase"
)

// UnitOfWork runs each unit in its own transaction. Repositories handed to
// fn are bound to that transaction.
type UnitOfWork struct {
	db *sqlx.DB
}

func NewUnitOfWork(db *sqlx.DB) *UnitOfWork {
	return &UnitOfWork{db: db}
}

func (u *UnitOfWork) Do(ctx context.Context, fn func(ctx context.Context, repos usecase.Repositories) error) error {
	tx, err := u.db.BeginTxx(ctx, nil)
	if err != nil {
		return crerr.Wrap(err, "begin unit of work")
	}
	defer func() {
		_ = tx.Rollback()
	}()

	repos := usecase.Repositories{
		Leagues:  NewLeagueRepository(tx),
		Teams:    NewTeamRepository(tx),
		Fixtures: NewFixtureRepository(tx),
	}
	if err := fn(ctx, repos); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return crerr.Wrap(err, "commit unit of work")
	}
	return nil
}
