package ingestionrun

import "time"

type Status string

const (
	StatusStarted             Status = "started"
	StatusCompleted           Status = "completed"
	StatusCompletedWithErrors Status = "completed_with_errors"
	StatusFailed              Status = "failed"
)

type Source string

const (
	SourceSchedule Source = "schedule"
	SourceManual   Source = "manual"
	SourceCLI      Source = "cli"
)

// Run records one trigger execution. Counts are summed over every
// ingestion pass the trigger performed.
type Run struct {
	ID           string
	JobName      string
	Source       Source
	Status       Status
	Params       map[string]any
	Passes       int
	Attempted    int
	Succeeded    int
	Failed       int
	ErrorMessage string
	TraceID      string
	StartedAt    time.Time
	FinishedAt   *time.Time
}

func (r Run) Finished() bool {
	return r.FinishedAt != nil
}
