package memory

import (
	"maps"
	"sync"
	"time"

	"github.com/riskibarqy/sports-data-service/internal/domain/fixture"
	"github.com/riskibarqy/sports-data-service/internal/domain/league"
	"github.com/riskibarqy/sports-data-service/internal/domain/team"
)

// Store is the shared state behind the in-memory repositories. Surrogate IDs
// are assigned from per-table sequences starting at 1.
type Store struct {
	txMu sync.Mutex
	mu   sync.RWMutex

	leagues  table[league.League]
	teams    table[team.Team]
	fixtures table[fixture.Fixture]

	now func() time.Time
}

type table[T any] struct {
	rows  map[int64]T
	byAPI map[int64]int64
	order []int64
	seq   int64
}

func newTable[T any]() table[T] {
	return table[T]{
		rows:  make(map[int64]T),
		byAPI: make(map[int64]int64),
	}
}

func (t *table[T]) get(id int64) (T, bool) {
	item, ok := t.rows[id]
	return item, ok
}

func (t *table[T]) getByAPI(apiID int64) (T, bool) {
	id, ok := t.byAPI[apiID]
	if !ok {
		var zero T
		return zero, false
	}
	return t.get(id)
}

func (t *table[T]) insert(apiID int64, build func(id int64) T) T {
	t.seq++
	item := build(t.seq)
	t.rows[t.seq] = item
	t.byAPI[apiID] = t.seq
	t.order = append(t.order, t.seq)
	return item
}

func (t *table[T]) list() []T {
	out := make([]T, 0, len(t.order))
	for _, id := range t.order {
		out = append(out, t.rows[id])
	}
	return out
}

func (t table[T]) clone() table[T] {
	return table[T]{
		rows:  maps.Clone(t.rows),
		byAPI: maps.Clone(t.byAPI),
		order: append([]int64(nil), t.order...),
		seq:   t.seq,
	}
}

func NewStore() *Store {
	return &Store{
		leagues:  newTable[league.League](),
		teams:    newTable[team.Team](),
		fixtures: newTable[fixture.Fixture](),
		now:      time.Now,
	}
}

// NewSeededStore returns a store preloaded with leagues so a fresh process
// has something to sweep.
func NewSeededStore(leagues []league.League) *Store {
	s := NewStore()
	repo := NewLeagueRepository(s)
	for _, item := range leagues {
		s.mu.Lock()
		repo.saveLocked(item)
		s.mu.Unlock()
	}
	return s
}

func (s *Store) timestamp() time.Time {
	return s.now().UTC()
}

type snapshot struct {
	leagues  table[league.League]
	teams    table[team.Team]
	fixtures table[fixture.Fixture]
}

func (s *Store) snapshot() snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return snapshot{
		leagues:  s.leagues.clone(),
		teams:    s.teams.clone(),
		fixtures: s.fixtures.clone(),
	}
}

func (s *Store) restore(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.leagues = snap.leagues
	s.teams = snap.teams
	s.fixtures = snap.fixtures
}
