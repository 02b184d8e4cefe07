package team

import "context"

// Repository describes team persistence needs from use cases.
type Repository interface {
	List(ctx context.Context) ([]Team, error)
	GetByID(ctx context.Context, id int64) (Team, bool, error)
	GetByAPIID(ctx context.Context, apiID int64) (Team, bool, error)
	Save(ctx context.Context, item Team) (Team, error)
	CreateIfAbsent(ctx context.Context, item Team) (Team, error)
}
