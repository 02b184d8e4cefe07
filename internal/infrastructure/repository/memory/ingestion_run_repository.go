package memory

import (
	"context"
	"maps"
	"sync"

	"github.com/riskibarqy/sports-data-service/internal/domain/ingestionrun"
)

type IngestionRunRepository struct {
	mu    sync.RWMutex
	items map[string]ingestionrun.Run
}

func NewIngestionRunRepository() *IngestionRunRepository {
	return &IngestionRunRepository{items: make(map[string]ingestionrun.Run)}
}

func (r *IngestionRunRepository) Upsert(_ context.Context, run ingestionrun.Run) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[run.ID] = cloneRun(run)
	return nil
}

func (r *IngestionRunRepository) GetByID(_ context.Context, id string) (ingestionrun.Run, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	run, ok := r.items[id]
	if !ok {
		return ingestionrun.Run{}, false, nil
	}
	return cloneRun(run), true, nil
}

func cloneRun(run ingestionrun.Run) ingestionrun.Run {
	run.Params = maps.Clone(run.Params)
	if run.FinishedAt != nil {
		finished := *run.FinishedAt
		run.FinishedAt = &finished
	}
	return run
}
