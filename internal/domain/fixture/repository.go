package fixture

import (
	"context"
	"time"
)

// Filter narrows fixture listings. Zero values are ignored.
type Filter struct {
	LeagueID int64
	Season   int
}

// Repository exposes fixture persistence operations.
type Repository interface {
	List(ctx context.Context, filter Filter) ([]Fixture, error)
	GetByID(ctx context.Context, id int64) (Fixture, bool, error)
	GetByAPIID(ctx context.Context, apiID int64) (Fixture, bool, error)
	ListByStatus(ctx context.Context, statuses []string) ([]Fixture, error)
	// ListBetween returns fixtures with from <= date < to.
	ListBetween(ctx context.Context, from, to time.Time) ([]Fixture, error)
	// Save inserts the fixture or refreshes the mutable columns of the row
	// with the same APIID. Identity columns are never rewritten.
	Save(ctx context.Context, item Fixture) (Fixture, error)
}
