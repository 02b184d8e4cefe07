package memory

import (
	"context"
	"time"

	"github.com/riskibarqy/sports-data-service/internal/domain/team"
)

type TeamRepository struct {
	store *Store
}

func NewTeamRepository(store *Store) *TeamRepository {
	return &TeamRepository{store: store}
}

func (r *TeamRepository) List(_ context.Context) ([]team.Team, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	return r.store.teams.list(), nil
}

func (r *TeamRepository) GetByID(_ context.Context, id int64) (team.Team, bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	item, ok := r.store.teams.get(id)
	return item, ok, nil
}

func (r *TeamRepository) GetByAPIID(_ context.Context, apiID int64) (team.Team, bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	item, ok := r.store.teams.getByAPI(apiID)
	return item, ok, nil
}

func (r *TeamRepository) Save(_ context.Context, item team.Team) (team.Team, error) {
	if err := item.Validate(); err != nil {
		return team.Team{}, err
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	now := r.store.timestamp()
	if existing, ok := r.store.teams.getByAPI(item.APIID); ok {
		item.ID = existing.ID
		item.CreatedAt = existing.CreatedAt
		item.UpdatedAt = now
		r.store.teams.rows[existing.ID] = item
		return item, nil
	}
	return r.insertLocked(item, now), nil
}

func (r *TeamRepository) CreateIfAbsent(_ context.Context, item team.Team) (team.Team, error) {
	if err := item.Validate(); err != nil {
		return team.Team{}, err
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if existing, ok := r.store.teams.getByAPI(item.APIID); ok {
		return existing, nil
	}
	return r.insertLocked(item, r.store.timestamp()), nil
}

func (r *TeamRepository) insertLocked(item team.Team, now time.Time) team.Team {
	return r.store.teams.insert(item.APIID, func(id int64) team.Team {
		item.ID = id
		item.CreatedAt = now
		item.UpdatedAt = now
		return item
	})
}
