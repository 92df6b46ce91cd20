package memory

import (
	"context"
	"sync"

	domain "github.com/bryanwahyu/content-insight/internal/domain/files"
)

type FileRepository struct {
	mu    sync.RWMutex
	items []domain.FileUpload
}

func NewFileRepository() *FileRepository { return &FileRepository{} }

func (r *FileRepository) Create(ctx context.Context, f *domain.FileUpload) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	f.ID = domain.ID(len(r.items) + 1)
	r.items = append(r.items, *f)
	return nil
}

func (r *FileRepository) Get(ctx context.Context, id domain.ID) (*domain.FileUpload, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if id < 1 || int(id) > len(r.items) {
		return nil, nil
	}
	f := r.items[id-1]
	return &f, nil
}

func (r *FileRepository) ListByUser(ctx context.Context, userID int64) ([]*domain.FileUpload, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domain.FileUpload, 0)
	for i := range r.items {
		if r.items[i].UserID == userID {
			f := r.items[i]
			out = append(out, &f)
		}
	}
	return out, nil
}
