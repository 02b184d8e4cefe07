package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/riskibarqy/sports-data-service/internal/domain/fixture"
)

type FixtureRepository struct {
	store *Store
}

func NewFixtureRepository(store *Store) *FixtureRepository {
	return &FixtureRepository{store: store}
}

func (r *FixtureRepository) List(_ context.Context, filter fixture.Filter) ([]fixture.Fixture, error) {
	return r.collect(func(item fixture.Fixture) bool {
		if filter.LeagueID > 0 && item.LeagueID != filter.LeagueID {
			return false
		}
		if filter.Season > 0 && item.Season != filter.Season {
			return false
		}
		return true
	}), nil
}

func (r *FixtureRepository) GetByID(_ context.Context, id int64) (fixture.Fixture, bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	item, ok := r.store.fixtures.get(id)
	return item, ok, nil
}

func (r *FixtureRepository) GetByAPIID(_ context.Context, apiID int64) (fixture.Fixture, bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	item, ok := r.store.fixtures.getByAPI(apiID)
	return item, ok, nil
}

func (r *FixtureRepository) ListByStatus(_ context.Context, statuses []string) ([]fixture.Fixture, error) {
	wanted := make(map[string]struct{}, len(statuses))
	for _, status := range statuses {
		wanted[status] = struct{}{}
	}
	return r.collect(func(item fixture.Fixture) bool {
		_, ok := wanted[item.Status]
		return ok
	}), nil
}

func (r *FixtureRepository) ListBetween(_ context.Context, from, to time.Time) ([]fixture.Fixture, error) {
	return r.collect(func(item fixture.Fixture) bool {
		return !item.Date.Before(from) && item.Date.Before(to)
	}), nil
}

// Save enforces the same constraints as the relational schema: parents must
// exist and identity columns of an existing row are kept.
func (r *FixtureRepository) Save(_ context.Context, item fixture.Fixture) (fixture.Fixture, error) {
	if err := item.Validate(); err != nil {
		return fixture.Fixture{}, err
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	now := r.store.timestamp()
	if existing, ok := r.store.fixtures.getByAPI(item.APIID); ok {
		item.ID = existing.ID
		item.LeagueID = existing.LeagueID
		item.HomeTeamID = existing.HomeTeamID
		item.AwayTeamID = existing.AwayTeamID
		item.CreatedAt = existing.CreatedAt
		item.UpdatedAt = now
		r.store.fixtures.rows[existing.ID] = item
		return item, nil
	}

	if _, ok := r.store.leagues.get(item.LeagueID); !ok {
		return fixture.Fixture{}, fmt.Errorf("fixture api_id=%d references missing league id=%d", item.APIID, item.LeagueID)
	}
	for _, teamID := range []int64{item.HomeTeamID, item.AwayTeamID} {
		if _, ok := r.store.teams.get(teamID); !ok {
			return fixture.Fixture{}, fmt.Errorf("fixture api_id=%d references missing team id=%d", item.APIID, teamID)
		}
	}

	return r.store.fixtures.insert(item.APIID, func(id int64) fixture.Fixture {
		item.ID = id
		item.CreatedAt = now
		item.UpdatedAt = now
		return item
	}), nil
}

func (r *FixtureRepository) collect(keep func(fixture.Fixture) bool) []fixture.Fixture {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]fixture.Fixture, 0)
	for _, item := range r.store.fixtures.list() {
		if keep(item) {
			out = append(out, item)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date)
	})
	return out
}
