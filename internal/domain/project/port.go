package project

import "context"

// Repository port for projects. Get returns (nil, nil) when missing.
type Repository interface {
	Create(ctx context.Context, p *Project) error
	Get(ctx context.Context, id ID) (*Project, error)
	ListByUser(ctx context.Context, userID int64) ([]*Project, error)
	Update(ctx context.Context, id ID, patch Patch) (*Project, error)
}
