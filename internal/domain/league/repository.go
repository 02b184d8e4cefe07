package league

import "context"

// Repository describes league persistence needs from use cases.
type Repository interface {
	List(ctx context.Context) ([]League, error)
	GetByID(ctx context.Context, id int64) (League, bool, error)
	GetByAPIID(ctx context.Context, apiID int64) (League, bool, error)
	// Save inserts the league or overwrites the row with the same APIID.
	Save(ctx context.Context, item League) (League, error)
	// CreateIfAbsent inserts the league unless a row with the same APIID
	// exists, in which case the stored row is returned untouched.
	CreateIfAbsent(ctx context.Context, item League) (League, error)
}
