package ingestionrun

import "context"

type Repository interface {
	// Upsert stores the run, replacing any earlier state with the same ID.
	Upsert(ctx context.Context, run Run) error
	GetByID(ctx context.Context, id string) (Run, bool, error)
}
