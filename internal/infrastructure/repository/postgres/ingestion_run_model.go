package postgres

import "time"

type ingestionRunTableModel struct {
	ID           string     `db:"id"`
	JobName      string     `db:"job_name"`
	Source       string     `db:"source"`
	Status       string     `db:"status"`
	Params       string     `db:"params"`
	Passes       int        `db:"passes"`
	Attempted    int        `db:"attempted"`
	Succeeded    int        `db:"succeeded"`
	Failed       int        `db:"failed"`
	ErrorMessage *string    `db:"error_message"`
	TraceID      *string    `db:"trace_id"`
	StartedAt    time.Time  `db:"started_at"`
	FinishedAt   *time.Time `db:"finished_at"`
}
