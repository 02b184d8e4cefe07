package memory

import (
	"context"

	"github.com/riskibarqy/sports-data-service/internal/usecase"
)

// UnitOfWork serializes units against the store and restores the previous
// state when fn fails. Readers outside a unit may observe its writes early.
type UnitOfWork struct {
	store *Store
	repos usecase.Repositories
}

func NewUnitOfWork(store *Store) *UnitOfWork {
	return &UnitOfWork{
		store: store,
		repos: usecase.Repositories{
			Leagues:  NewLeagueRepository(store),
			Teams:    NewTeamRepository(store),
			Fixtures: NewFixtureRepository(store),
		},
	}
}

func (u *UnitOfWork) Do(ctx context.Context, fn func(ctx context.Context, repos usecase.Repositories) error) error {
	u.store.txMu.Lock()
	defer u.store.txMu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	snap := u.store.snapshot()
	if err := fn(ctx, u.repos); err != nil {
		u.store.restore(snap)
		return err
	}
	return nil
}
