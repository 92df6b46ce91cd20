package memory

import (
	"context"
	"sync"
	"time"

	domain "github.com/bryanwahyu/content-insight/internal/domain/analysis"
)

// AnalysisRepository keeps analyses in insertion order; index i holds ID i+1.
type AnalysisRepository struct {
	mu    sync.RWMutex
	items []*domain.Analysis
	now   func() time.Time
}

func NewAnalysisRepository() *AnalysisRepository {
	return &AnalysisRepository{now: func() time.Time { return time.Now().UTC() }}
}

func (r *AnalysisRepository) Create(ctx context.Context, a *domain.Analysis) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a.ID = domain.ID(len(r.items) + 1)
	r.items = append(r.items, a.Clone())
	return nil
}

func (r *AnalysisRepository) lookup(id domain.ID) *domain.Analysis {
	if id < 1 || int(id) > len(r.items) {
		return nil
	}
	return r.items[id-1]
}

func (r *AnalysisRepository) Get(ctx context.Context, id domain.ID) (*domain.Analysis, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.lookup(id).Clone(), nil
}

func (r *AnalysisRepository) ListByUser(ctx context.Context, userID int64) ([]*domain.Analysis, error) {
	return r.filter(func(a *domain.Analysis) bool { return a.UserID == userID }), nil
}

func (r *AnalysisRepository) ListByProject(ctx context.Context, projectID int64) ([]*domain.Analysis, error) {
	return r.filter(func(a *domain.Analysis) bool { return a.ProjectID != nil && *a.ProjectID == projectID }), nil
}

func (r *AnalysisRepository) filter(keep func(*domain.Analysis) bool) []*domain.Analysis {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domain.Analysis, 0)
	for _, a := range r.items {
		if keep(a) {
			out = append(out, a.Clone())
		}
	}
	return out
}

func (r *AnalysisRepository) UpdateStatus(ctx context.Context, id domain.ID, status domain.Status) (*domain.Analysis, error) {
	return r.update(id, func(a *domain.Analysis) { a.Status = status })
}

func (r *AnalysisRepository) UpdateResult(ctx context.Context, id domain.ID, status domain.Status, results *domain.Results) (*domain.Analysis, error) {
	return r.update(id, func(a *domain.Analysis) {
		a.Status = status
		a.Results = results
	})
}

func (r *AnalysisRepository) update(id domain.ID, mutate func(*domain.Analysis)) (*domain.Analysis, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur := r.lookup(id)
	if cur == nil {
		return nil, nil
	}
	next := cur.Clone()
	mutate(next)
	next = next.Clone()
	if next.Status == domain.StatusCompleted && next.CompletedAt == nil {
		t := r.now()
		next.CompletedAt = &t
	}
	r.items[id-1] = next
	return next.Clone(), nil
}
