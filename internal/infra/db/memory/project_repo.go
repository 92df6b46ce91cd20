package memory

import (
	"context"
	"sync"
	"time"

	domain "github.com/bryanwahyu/content-insight/internal/domain/project"
)

type ProjectRepository struct {
	mu    sync.RWMutex
	items []domain.Project
	now   func() time.Time
}

func NewProjectRepository() *ProjectRepository {
	return &ProjectRepository{now: func() time.Time { return time.Now().UTC() }}
}

func (r *ProjectRepository) Create(ctx context.Context, p *domain.Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p.ID = domain.ID(len(r.items) + 1)
	r.items = append(r.items, copyProject(*p))
	return nil
}

func (r *ProjectRepository) Get(ctx context.Context, id domain.ID) (*domain.Project, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if id < 1 || int(id) > len(r.items) {
		return nil, nil
	}
	p := copyProject(r.items[id-1])
	return &p, nil
}

func (r *ProjectRepository) ListByUser(ctx context.Context, userID int64) ([]*domain.Project, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domain.Project, 0)
	for _, p := range r.items {
		if p.UserID == userID {
			c := copyProject(p)
			out = append(out, &c)
		}
	}
	return out, nil
}

func (r *ProjectRepository) Update(ctx context.Context, id domain.ID, patch domain.Patch) (*domain.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if id < 1 || int(id) > len(r.items) {
		return nil, nil
	}
	p := copyProject(r.items[id-1])
	p.Apply(patch, r.now())
	r.items[id-1] = p
	out := copyProject(p)
	return &out, nil
}

func copyProject(p domain.Project) domain.Project {
	if p.Description != nil {
		d := *p.Description
		p.Description = &d
	}
	return p
}
