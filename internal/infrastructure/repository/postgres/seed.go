package postgres

import (
	"context"

	crerr "github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/sports-data-service/internal/domain/league"
	"github.com/riskibarqy/sports-data-service/internal/usecase"
)

// BootstrapSeed inserts the given leagues when the table is empty so the
// first daily sweep has something to walk before the league sync runs.
func BootstrapSeed(ctx context.Context, db *sqlx.DB, leagues []league.League) error {
	var count int
	if err := db.GetContext(ctx, &count, `SELECT COUNT(1) FROM leagues`); err != nil {
		return crerr.Wrap(err, "count leagues for bootstrap seed")
	}
	if count > 0 {
		return nil
	}

	return NewUnitOfWork(db).Do(ctx, func(ctx context.Context, repos usecase.Repositories) error {
		for _, item := range leagues {
			if _, err := repos.Leagues.CreateIfAbsent(ctx, item); err != nil {
				return crerr.Wrapf(err, "seed league api_id=%d", item.APIID)
			}
		}
		return nil
	})
}
