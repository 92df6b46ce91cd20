package projects

import (
	"context"
	"fmt"
	"strings"

	"github.com/bryanwahyu/content-insight/internal/application"
	domain "github.com/bryanwahyu/content-insight/internal/domain/project"
)

// Service implements use-cases untuk Project
type Service struct {
	Repo  domain.Repository
	Clock application.Clock
}

type CreateCommand struct {
	UserID      int64
	Name        string
	Description *string
	Status      domain.Status
}

func (s *Service) Create(ctx context.Context, cmd CreateCommand) (*domain.Project, error) {
	if strings.TrimSpace(cmd.Name) == "" {
		return nil, application.Invalid("name is required")
	}
	status := cmd.Status
	if status == "" {
		status = domain.StatusActive
	}
	if !status.Valid() {
		return nil, application.Invalid(fmt.Sprintf("invalid project status: %s", status))
	}
	now := s.Clock.Now()
	p := &domain.Project{
		Name:        cmd.Name,
		Description: cmd.Description,
		Status:      status,
		UserID:      cmd.UserID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.Repo.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}
	return p, nil
}

// Update replaces the fields present in patch.
func (s *Service) Update(ctx context.Context, id domain.ID, patch domain.Patch) (*domain.Project, error) {
	if patch.Status != nil && !patch.Status.Valid() {
		return nil, application.Invalid(fmt.Sprintf("invalid project status: %s", *patch.Status))
	}
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return nil, application.Invalid("name cannot be empty")
	}
	p, err := s.Repo.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, application.ErrNotFound
	}
	return p, nil
}

func (s *Service) Get(ctx context.Context, id domain.ID) (*domain.Project, error) {
	p, err := s.Repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, application.ErrNotFound
	}
	return p, nil
}

func (s *Service) List(ctx context.Context, userID int64) ([]*domain.Project, error) {
	return s.Repo.ListByUser(ctx, userID)
}
