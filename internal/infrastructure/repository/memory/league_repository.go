package memory

import (
	"context"

	"github.com/riskibarqy/sports-data-service/internal/domain/league"
)

type LeagueRepository struct {
	store *Store
}

func NewLeagueRepository(store *Store) *LeagueRepository {
	return &LeagueRepository{store: store}
}

func (r *LeagueRepository) List(_ context.Context) ([]league.League, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	return r.store.leagues.list(), nil
}

func (r *LeagueRepository) GetByID(_ context.Context, id int64) (league.League, bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	item, ok := r.store.leagues.get(id)
	return item, ok, nil
}

func (r *LeagueRepository) GetByAPIID(_ context.Context, apiID int64) (league.League, bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	item, ok := r.store.leagues.getByAPI(apiID)
	return item, ok, nil
}

func (r *LeagueRepository) Save(_ context.Context, item league.League) (league.League, error) {
	if err := item.Validate(); err != nil {
		return league.League{}, err
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	return r.saveLocked(item), nil
}

func (r *LeagueRepository) CreateIfAbsent(_ context.Context, item league.League) (league.League, error) {
	if err := item.Validate(); err != nil {
		return league.League{}, err
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if existing, ok := r.store.leagues.getByAPI(item.APIID); ok {
		return existing, nil
	}
	return r.saveLocked(item), nil
}

func (r *LeagueRepository) saveLocked(item league.League) league.League {
	now := r.store.timestamp()
	if existing, ok := r.store.leagues.getByAPI(item.APIID); ok {
		item.ID = existing.ID
		item.CreatedAt = existing.CreatedAt
		item.UpdatedAt = now
		r.store.leagues.rows[existing.ID] = item
		return item
	}

	return r.store.leagues.insert(item.APIID, func(id int64) league.League {
		item.ID = id
		item.CreatedAt = now
		item.UpdatedAt = now
		return item
	})
}
