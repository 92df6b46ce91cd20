package memory

import (
	"context"
	"sync"

	domain "github.com/bryanwahyu/content-insight/internal/domain/users"
)

type UserRepository struct {
	mu    sync.RWMutex
	items []domain.User
}

func NewUserRepository() *UserRepository { return &UserRepository{} }

func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u.ID = int64(len(r.items) + 1)
	r.items = append(r.items, *u)
	return nil
}

func (r *UserRepository) Get(ctx context.Context, id int64) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if id < 1 || int(id) > len(r.items) {
		return nil, nil
	}
	u := r.items[id-1]
	return &u, nil
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.items {
		if u.Username == username {
			out := u
			return &out, nil
		}
	}
	return nil, nil
}
