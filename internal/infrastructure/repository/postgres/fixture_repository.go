package postgres

import (
	"context"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/sports-data-service/internal/domain/fixture"
	qb "github.com/riskibarqy/sports-data-service/internal/platform/querybuilder"
)

// fixtureMutableColumns are refreshed on every sighting. api_id, league_id,
// home_team_id and away_team_id are left alone on conflict.
var fixtureMutableColumns = []string{
	"season",
	"kickoff_at",
	"timezone",
	"kickoff_timestamp",
	"status",
	"status_short",
	"elapsed",
	"goals_home",
	"goals_away",
	"score_halftime_home",
	"score_halftime_away",
	"score_fulltime_home",
	"score_fulltime_away",
	"score_extratime_home",
	"score_extratime_away",
	"score_penalty_home",
	"score_penalty_away",
	"venue_api_id",
	"venue_name",
	"venue_city",
	"referee",
}

var fixtureUpsertSuffix = qb.OnConflictUpdate("api_id", fixtureMutableColumns, "updated_at = NOW()")

type FixtureRepository struct {
	db sqlx.ExtContext
}

func NewFixtureRepository(db sqlx.ExtContext) *FixtureRepository {
	return &FixtureRepository{db: db}
}

func (r *FixtureRepository) List(ctx context.Context, filter fixture.Filter) ([]fixture.Fixture, error) {
	var conditions []qb.Condition
	if filter.LeagueID > 0 {
		conditions = append(conditions, qb.Eq("league_id", filter.LeagueID))
	}
	if filter.Season > 0 {
		conditions = append(conditions, qb.Eq("season", filter.Season))
	}

	query, args, err := qb.Select("*").From("fixtures").
		Where(conditions...).
		OrderBy("kickoff_at", "id").
		ToSQL()
	if err != nil {
		return nil, crerr.Wrap(err, "build list fixtures query")
	}
	return r.selectFixtures(ctx, query, args, "list fixtures")
}

func (r *FixtureRepository) GetByID(ctx context.Context, id int64) (fixture.Fixture, bool, error) {
	return r.getBy(ctx, "id", id)
}

func (r *FixtureRepository) GetByAPIID(ctx context.Context, apiID int64) (fixture.Fixture, bool, error) {
	return r.getBy(ctx, "api_id", apiID)
}

func (r *FixtureRepository) ListByStatus(ctx context.Context, statuses []string) ([]fixture.Fixture, error) {
	values := make([]any, 0, len(statuses))
	for _, status := range statuses {
		values = append(values, status)
	}

	query, args, err := qb.Select("*").From("fixtures").
		Where(qb.In("status", values)).
		OrderBy("kickoff_at", "id").
		ToSQL()
	if err != nil {
		return nil, crerr.Wrap(err, "build list fixtures by status query")
	}
	return r.selectFixtures(ctx, query, args, "list fixtures by status")
}

func (r *FixtureRepository) ListBetween(ctx context.Context, from, to time.Time) ([]fixture.Fixture, error) {
	query, args, err := qb.Select("*").From("fixtures").
		Where(
			qb.Gte("kickoff_at", from.UTC()),
			qb.Lt("kickoff_at", to.UTC()),
		).
		OrderBy("kickoff_at", "id").
		ToSQL()
	if err != nil {
		return nil, crerr.Wrap(err, "build list fixtures between query")
	}
	return r.selectFixtures(ctx, query, args, "list fixtures between")
}

func (r *FixtureRepository) Save(ctx context.Context, item fixture.Fixture) (fixture.Fixture, error) {
	if err := item.Validate(); err != nil {
		return fixture.Fixture{}, err
	}

	query, args, err := qb.InsertModel("fixtures", newFixtureInsertModel(item), fixtureUpsertSuffix)
	if err != nil {
		return fixture.Fixture{}, crerr.Wrap(err, "build upsert fixture query")
	}

	var row fixtureTableModel
	if err := sqlx.GetContext(ctx, r.db, &row, query, args...); err != nil {
		return fixture.Fixture{}, crerr.Wrapf(classify(err), "upsert fixture api_id=%d", item.APIID)
	}
	return row.toDomain(), nil
}

func (r *FixtureRepository) getBy(ctx context.Context, column string, value int64) (fixture.Fixture, bool, error) {
	query, args, err := qb.Select("*").From("fixtures").
		Where(qb.Eq(column, value)).
		ToSQL()
	if err != nil {
		return fixture.Fixture{}, false, crerr.Wrapf(err, "build get fixture by %s query", column)
	}

	var row fixtureTableModel
	if err := sqlx.GetContext(ctx, r.db, &row, query, args...); err != nil {
		if isNotFound(err) {
			return fixture.Fixture{}, false, nil
		}
		return fixture.Fixture{}, false, crerr.Wrapf(err, "get fixture by %s=%d", column, value)
	}
	return row.toDomain(), true, nil
}

func (r *FixtureRepository) selectFixtures(ctx context.Context, query string, args []any, op string) ([]fixture.Fixture, error) {
	var rows []fixtureTableModel
	if err := sqlx.SelectContext(ctx, r.db, &rows, query, args...); err != nil {
		return nil, crerr.Wrap(err, op)
	}

	out := make([]fixture.Fixture, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}
