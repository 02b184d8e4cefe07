package postgres

import (
	"context"

	"github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/sports-data-service/internal/domain/ingestionrun"
	qb "github.com/riskibarqy/sports-data-service/internal/platform/querybuilder"
)

// A finished run is never moved back to started by a late write.
const ingestionRunUpsertSuffix = `ON CONFLICT (id) DO UPDATE SET
    status = CASE
        WHEN ingestion_runs.finished_at IS NOT NULL AND EXCLUDED.finished_at IS NULL THEN ingestion_runs.status
        ELSE EXCLUDED.status
    END,
    params = EXCLUDED.params,
    passes = EXCLUDED.passes,
    attempted = EXCLUDED.attempted,
    succeeded = EXCLUDED.succeeded,
    failed = EXCLUDED.failed,
    error_message = EXCLUDED.error_message,
    trace_id = COALESCE(EXCLUDED.trace_id, ingestion_runs.trace_id),
    finished_at = COALESCE(EXCLUDED.finished_at, ingestion_runs.finished_at)`

type IngestionRunRepository struct {
	db sqlx.ExtContext
}

func NewIngestionRunRepository(db sqlx.ExtContext) *IngestionRunRepository {
	return &IngestionRunRepository{db: db}
}

func (r *IngestionRunRepository) Upsert(ctx context.Context, run ingestionrun.Run) error {
	params, err := marshalParams(run.Params)
	if err != nil {
		return crerr.Wrapf(err, "marshal ingestion run params run_id=%s", run.ID)
	}

	model := ingestionRunTableModel{
		ID:           run.ID,
		JobName:      run.JobName,
		Source:       string(run.Source),
		Status:       string(run.Status),
		Params:       params,
		Passes:       run.Passes,
		Attempted:    run.Attempted,
		Succeeded:    run.Succeeded,
		Failed:       run.Failed,
		ErrorMessage: optionalString(run.ErrorMessage),
		TraceID:      optionalString(run.TraceID),
		StartedAt:    run.StartedAt.UTC(),
		FinishedAt:   run.FinishedAt,
	}

	query, args, err := qb.InsertModel("ingestion_runs", model, ingestionRunUpsertSuffix)
	if err != nil {
		return crerr.Wrap(err, "build upsert ingestion run query")
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return crerr.Wrapf(classify(err), "upsert ingestion run run_id=%s status=%s", run.ID, run.Status)
	}
	return nil
}

func (r *IngestionRunRepository) GetByID(ctx context.Context, id string) (ingestionrun.Run, bool, error) {
	query, args, err := qb.Select("*").From("ingestion_runs").
		Where(qb.Eq("id", id)).
		ToSQL()
	if err != nil {
		return ingestionrun.Run{}, false, crerr.Wrap(err, "build get ingestion run query")
	}

	var row ingestionRunTableModel
	if err := sqlx.GetContext(ctx, r.db, &row, query, args...); err != nil {
		if isNotFound(err) {
			return ingestionrun.Run{}, false, nil
		}
		return ingestionrun.Run{}, false, crerr.Wrapf(err, "get ingestion run run_id=%s", id)
	}

	var params map[string]any
	if row.Params != "" {
		if err := sonic.UnmarshalString(row.Params, &params); err != nil {
			return ingestionrun.Run{}, false, crerr.Wrapf(err, "decode ingestion run params run_id=%s", id)
		}
	}

	return ingestionrun.Run{
		ID:           row.ID,
		JobName:      row.JobName,
		Source:       ingestionrun.Source(row.Source),
		Status:       ingestionrun.Status(row.Status),
		Params:       params,
		Passes:       row.Passes,
		Attempted:    row.Attempted,
		Succeeded:    row.Succeeded,
		Failed:       row.Failed,
		ErrorMessage: stringValue(row.ErrorMessage),
		TraceID:      stringValue(row.TraceID),
		StartedAt:    row.StartedAt,
		FinishedAt:   row.FinishedAt,
	}, true, nil
}

func marshalParams(params map[string]any) (string, error) {
	if len(params) == 0 {
		return "{}", nil
	}
	return sonic.MarshalString(params)
}
