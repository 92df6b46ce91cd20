package users

import (
	"context"
	"fmt"

	"github.com/bryanwahyu/content-insight/internal/application"
	domain "github.com/bryanwahyu/content-insight/internal/domain/users"
)

// Demo account seeded at startup.
const (
	DemoUsername = "demo"
	DemoName     = "Sarah Wilson"
	DemoPlan     = "Pro"
)

type Service struct {
	Repo  domain.Repository
	Clock application.Clock
}

// EnsureDemo returns the demo user, creating it on first start.
func (s *Service) EnsureDemo(ctx context.Context) (*domain.User, error) {
	u, err := s.Repo.GetByUsername(ctx, DemoUsername)
	if err != nil {
		return nil, fmt.Errorf("lookup demo user: %w", err)
	}
	if u != nil {
		return u, nil
	}
	u = &domain.User{
		Username:  DemoUsername,
		Name:      DemoName,
		Plan:      DemoPlan,
		CreatedAt: s.Clock.Now(),
	}
	if err := s.Repo.Create(ctx, u); err != nil {
		return nil, fmt.Errorf("seed demo user: %w", err)
	}
	return u, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*domain.User, error) {
	u, err := s.Repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, application.ErrNotFound
	}
	return u, nil
}
