package postgres

import (
	"context"

	crerr "github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/sports-data-service/internal/domain/team"
	qb "github.com/riskibarqy/sports-data-service/internal/platform/querybuilder"
)

var teamUpsertSuffix = qb.OnConflictUpdate("api_id", []string{"name", "code", "country", "founded", "national", "logo_url"}, "updated_at = NOW()")

type TeamRepository struct {
	db sqlx.ExtContext
}

// NewTeamRepository accepts either the pool or a transaction.
func NewTeamRepository(db sqlx.ExtContext) *TeamRepository {
	return &TeamRepository{db: db}
}

func (r *TeamRepository) List(ctx context.Context) ([]team.Team, error) {
	query, args, err := qb.Select("*").From("teams").
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, crerr.Wrap(err, "build select teams query")
	}

	var rows []teamTableModel
	if err := sqlx.SelectContext(ctx, r.db, &rows, query, args...); err != nil {
		return nil, crerr.Wrap(err, "select teams")
	}

	out := make([]team.Team, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *TeamRepository) GetByID(ctx context.Context, id int64) (team.Team, bool, error) {
	return r.getBy(ctx, "id", id)
}

func (r *TeamRepository) GetByAPIID(ctx context.Context, apiID int64) (team.Team, bool, error) {
	return r.getBy(ctx, "api_id", apiID)
}

func (r *TeamRepository) getBy(ctx context.Context, column string, value int64) (team.Team, bool, error) {
	query, args, err := qb.Select("*").From("teams").
		Where(qb.Eq(column, value)).
		ToSQL()
	if err != nil {
		return team.Team{}, false, crerr.Wrapf(err, "build get team by %s query", column)
	}

	var row teamTableModel
	if err := sqlx.GetContext(ctx, r.db, &row, query, args...); err != nil {
		if isNotFound(err) {
			return team.Team{}, false, nil
		}
		return team.Team{}, false, crerr.Wrapf(err, "get team by %s=%d", column, value)
	}
	return row.toDomain(), true, nil
}

func (r *TeamRepository) Save(ctx context.Context, item team.Team) (team.Team, error) {
	if err := item.Validate(); err != nil {
		return team.Team{}, err
	}

	query, args, err := qb.InsertModel("teams", newTeamInsertModel(item), teamUpsertSuffix)
	if err != nil {
		return team.Team{}, crerr.Wrap(err, "build upsert team query")
	}

	var row teamTableModel
	if err := sqlx.GetContext(ctx, r.db, &row, query, args...); err != nil {
		return team.Team{}, crerr.Wrapf(classify(err), "upsert team api_id=%d", item.APIID)
	}
	return row.toDomain(), nil
}

func (r *TeamRepository) CreateIfAbsent(ctx context.Context, item team.Team) (team.Team, error) {
	if err := item.Validate(); err != nil {
		return team.Team{}, err
	}

	query, args, err := qb.InsertModel("teams", newTeamInsertModel(item), qb.OnConflictIgnore("api_id"))
	if err != nil {
		return team.Team{}, crerr.Wrap(err, "build insert team query")
	}

	var row teamTableModel
	err = sqlx.GetContext(ctx, r.db, &row, query, args...)
	if err == nil {
		return row.toDomain(), nil
	}
	if !isNotFound(err) {
		return team.Team{}, crerr.Wrapf(classify(err), "insert team api_id=%d", item.APIID)
	}

	// Another writer got there first.
	existing, found, err := r.GetByAPIID(ctx, item.APIID)
	if err != nil {
		return team.Team{}, err
	}
	if !found {
		return team.Team{}, crerr.Newf("team api_id=%d vanished after conflict", item.APIID)
	}
	return existing, nil
}
