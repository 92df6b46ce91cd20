package analyses

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/bryanwahyu/content-insight/internal/application"
	domai "github.com/bryanwahyu/content-insight/internal/domain/ai"
	domain "github.com/bryanwahyu/content-insight/internal/domain/analysis"
)

// Runner is the orchestration capability the service needs.
type Runner interface {
	Run(ctx context.Context, content string, types []domain.Type) (domain.Results, error)
}

// Service implements use-cases untuk Analysis
type Service struct {
	Repo   domain.Repository
	Runner Runner
	Queue  domain.JobQueue
	Clock  application.Clock
	Log    *zap.Logger
}

// CreateCommand untuk submit analysis baru
type CreateCommand struct {
	UserID        int64
	ProjectID     *int64
	Content       string
	ContentType   domain.ContentType
	AnalysisTypes []domain.Type
}

func (s *Service) logger() *zap.Logger {
	if s.Log == nil {
		return zap.NewNop()
	}
	return s.Log
}

// Create stores a pending analysis and enqueues it. The pending record is
// returned as soon as the job is accepted by the queue.
func (s *Service) Create(ctx context.Context, cmd CreateCommand) (*domain.Analysis, error) {
	if strings.TrimSpace(cmd.Content) == "" {
		return nil, application.Invalid("content is required")
	}
	if !cmd.ContentType.Valid() {
		return nil, application.Invalid(fmt.Sprintf("invalid content type: %s", cmd.ContentType))
	}
	if cmd.AnalysisTypes == nil {
		return nil, application.Invalid("analysisTypes is required")
	}

	a := &domain.Analysis{
		ProjectID:     cmd.ProjectID,
		Content:       cmd.Content,
		ContentType:   cmd.ContentType,
		AnalysisTypes: cmd.AnalysisTypes,
		Status:        domain.StatusPending,
		UserID:        cmd.UserID,
		CreatedAt:     s.Clock.Now(),
	}
	if err := s.Repo.Create(ctx, a); err != nil {
		return nil, fmt.Errorf("create analysis: %w", err)
	}
	s.logger().Info("analysis created", zap.Int64("id", int64(a.ID)), zap.Any("types", a.AnalysisTypes))

	if err := s.Queue.Enqueue(ctx, domain.Job{AnalysisID: a.ID}); err != nil {
		// record the failure so the analysis does not stay pending forever
		if _, uerr := s.Repo.UpdateResult(context.WithoutCancel(ctx), a.ID, domain.StatusFailed, domain.FailedResults(err)); uerr != nil {
			s.logger().Error("mark analysis failed after enqueue error",
				zap.Int64("id", int64(a.ID)), zap.Error(uerr))
		}
		return nil, fmt.Errorf("enqueue analysis %d: %w", a.ID, err)
	}
	return a, nil
}

// Process is the background half of Create: pending → processing → completed|failed.
// The orchestration error, if any, is recorded on the analysis and also returned.
func (s *Service) Process(ctx context.Context, id domain.ID) error {
	log := s.logger().With(zap.Int64("analysis_id", int64(id)))

	a, err := s.Repo.UpdateStatus(ctx, id, domain.StatusProcessing)
	if err != nil {
		return fmt.Errorf("mark analysis %d processing: %w", id, err)
	}
	if a == nil {
		return fmt.Errorf("analysis %d: %w", id, application.ErrNotFound)
	}
	log.Info("starting analysis", zap.Any("types", a.AnalysisTypes))

	results, runErr := s.Runner.Run(ctx, a.Content, a.AnalysisTypes)
	if runErr != nil {
		if errors.Is(runErr, domai.ErrQuotaExceeded) {
			log.Warn("ai quota exceeded", zap.Error(runErr))
		} else {
			log.Error("analysis failed", zap.Error(runErr))
		}
		if _, err := s.Repo.UpdateResult(ctx, id, domain.StatusFailed, domain.FailedResults(runErr)); err != nil {
			return fmt.Errorf("mark analysis %d failed: %w", id, err)
		}
		return runErr
	}

	if _, err := s.Repo.UpdateResult(ctx, id, domain.StatusCompleted, &results); err != nil {
		return fmt.Errorf("save analysis %d results: %w", id, err)
	}
	log.Info("analysis saved", zap.Strings("keys", results.Keys()))
	return nil
}

// Get ambil 1 analysis by id
func (s *Service) Get(ctx context.Context, id domain.ID) (*domain.Analysis, error) {
	a, err := s.Repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, application.ErrNotFound
	}
	return a, nil
}

// List returns every analysis owned by userID.
func (s *Service) List(ctx context.Context, userID int64) ([]*domain.Analysis, error) {
	return s.Repo.ListByUser(ctx, userID)
}

// ListByProject returns every analysis attached to a project.
func (s *Service) ListByProject(ctx context.Context, projectID int64) ([]*domain.Analysis, error) {
	return s.Repo.ListByProject(ctx, projectID)
}
