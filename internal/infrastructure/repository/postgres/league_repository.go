package postgres

import (
	"context"

	crerr "github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/sports-data-service/internal/domain/league"
	qb "github.com/riskibarqy/sports-data-service/internal/platform/querybuilder"
)

var leagueUpsertSuffix = qb.OnConflictUpdate("api_id", []string{"name", "type", "country", "logo_url"}, "updated_at = NOW()")

type LeagueRepository struct {
	db sqlx.ExtContext
}

// NewLeagueRepository accepts either the pool or a transaction.
func NewLeagueRepository(db sqlx.ExtContext) *LeagueRepository {
	return &LeagueRepository{db: db}
}

func (r *LeagueRepository) List(ctx context.Context) ([]league.League, error) {
	query, args, err := qb.Select("*").From("leagues").
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, crerr.Wrap(err, "build select leagues query")
	}

	var rows []leagueTableModel
	if err := sqlx.SelectContext(ctx, r.db, &rows, query, args...); err != nil {
		return nil, crerr.Wrap(err, "select leagues")
	}

	out := make([]league.League, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *LeagueRepository) GetByID(ctx context.Context, id int64) (league.League, bool, error) {
	return r.getBy(ctx, "id", id)
}

func (r *LeagueRepository) GetByAPIID(ctx context.Context, apiID int64) (league.League, bool, error) {
	return r.getBy(ctx, "api_id", apiID)
}

func (r *LeagueRepository) getBy(ctx context.Context, column string, value int64) (league.League, bool, error) {
	query, args, err := qb.Select("*").From("leagues").
		Where(qb.Eq(column, value)).
		ToSQL()
	if err != nil {
		return league.League{}, false, crerr.Wrapf(err, "build get league by %s query", column)
	}

	var row leagueTableModel
	if err := sqlx.GetContext(ctx, r.db, &row, query, args...); err != nil {
		if isNotFound(err) {
			return league.League{}, false, nil
		}
		return league.League{}, false, crerr.Wrapf(err, "get league by %s=%d", column, value)
	}
	return row.toDomain(), true, nil
}

func (r *LeagueRepository) Save(ctx context.Context, item league.League) (league.League, error) {
	if err := item.Validate(); err != nil {
		return league.League{}, err
	}

	query, args, err := qb.InsertModel("leagues", newLeagueInsertModel(item), leagueUpsertSuffix)
	if err != nil {
		return league.League{}, crerr.Wrap(err, "build upsert league query")
	}

	var row leagueTableModel
	if err := sqlx.GetContext(ctx, r.db, &row, query, args...); err != nil {
		return league.League{}, crerr.Wrapf(classify(err), "upsert league api_id=%d", item.APIID)
	}
	return row.toDomain(), nil
}

func (r *LeagueRepository) CreateIfAbsent(ctx context.Context, item league.League) (league.League, error) {
	if err := item.Validate(); err != nil {
		return league.League{}, err
	}

	query, args, err := qb.InsertModel("leagues", newLeagueInsertModel(item), qb.OnConflictIgnore("api_id"))
	if err != nil {
		return league.League{}, crerr.Wrap(err, "build insert league query")
	}

	var row leagueTableModel
	err = sqlx.GetContext(ctx, r.db, &row, query, args...)
	if err == nil {
		return row.toDomain(), nil
	}
	if !isNotFound(err) {
		return league.League{}, crerr.Wrapf(classify(err), "insert league api_id=%d", item.APIID)
	}

	// Another writer got there first.
	existing, found, err := r.GetByAPIID(ctx, item.APIID)
	if err != nil {
		return league.League{}, err
	}
	if !found {
		return league.League{}, crerr.Newf("league api_id=%d vanished after conflict", item.APIID)
	}
	return existing, nil
}
