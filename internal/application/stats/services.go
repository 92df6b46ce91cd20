package stats

import (
	"context"

	domai "github.com/bryanwahyu/content-insight/internal/domain/ai"
	"github.com/bryanwahyu/content-insight/internal/domain/analysis"
	"github.com/bryanwahyu/content-insight/internal/domain/project"
)

// Stats is the dashboard summary for one user.
type Stats struct {
	TotalAnalyses  int     `json:"totalAnalyses"`
	APIUsage       int64   `json:"apiUsage"`
	SuccessRate    float64 `json:"successRate"`
	ActiveProjects int     `json:"activeProjects"`
	APIRequests    int64   `json:"apiRequests"`
	APISuccessRate float64 `json:"apiSuccessRate"`
}

type Service struct {
	Analyses analysis.Repository
	Projects project.Repository
	Usage    domai.UsageReporter
}

// Summary rekap analysis + usage untuk dashboard
func (s *Service) Summary(ctx context.Context, userID int64) (Stats, error) {
	list, err := s.Analyses.ListByUser(ctx, userID)
	if err != nil {
		return Stats{}, err
	}
	projects, err := s.Projects.ListByUser(ctx, userID)
	if err != nil {
		return Stats{}, err
	}

	completed := 0
	for _, a := range list {
		if a.Status == analysis.StatusCompleted {
			completed++
		}
	}
	active := 0
	for _, p := range projects {
		if p.Status == project.StatusActive {
			active++
		}
	}

	usage := s.Usage.Snapshot()
	return Stats{
		TotalAnalyses:  len(list),
		APIUsage:       usage.TotalTokens,
		SuccessRate:    float64(completed) / float64(max(len(list), 1)) * 100,
		ActiveProjects: active,
		APIRequests:    usage.TotalRequests,
		APISuccessRate: usage.SuccessRate(),
	}, nil
}
