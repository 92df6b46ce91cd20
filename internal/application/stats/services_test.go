package stats

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domai "github.com/bryanwahyu/content-insight/internal/domain/ai"
	"github.com/bryanwahyu/content-insight/internal/domain/analysis"
	"github.com/bryanwahyu/content-insight/internal/domain/project"
	"github.com/bryanwahyu/content-insight/internal/infra/db/memory"
)

type fixedUsage domai.UsageStats

func (u fixedUsage) Snapshot() domai.UsageStats { return domai.UsageStats(u) }

func TestSummary(t *testing.T) {
	ctx := context.Background()
	ar := memory.NewAnalysisRepository()
	pr := memory.NewProjectRepository()

	for _, st := range []analysis.Status{analysis.StatusCompleted, analysis.StatusFailed, analysis.StatusCompleted, analysis.StatusPending} {
		a := &analysis.Analysis{UserID: 1, Status: st}
		require.NoError(t, ar.Create(ctx, a))
	}
	require.NoError(t, ar.Create(ctx, &analysis.Analysis{UserID: 2, Status: analysis.StatusCompleted}))
	require.NoError(t, pr.Create(ctx, &project.Project{UserID: 1, Status: project.StatusActive}))
	require.NoError(t, pr.Create(ctx, &project.Project{UserID: 1, Status: project.StatusArchived}))

	svc := &Service{Analyses: ar, Projects: pr, Usage: fixedUsage{TotalRequests: 8, SuccessfulRequests: 6, TotalTokens: 1234}}
	got, err := svc.Summary(ctx, 1)
	require.NoError(t, err)

	assert.Equal(t, Stats{
		TotalAnalyses:  4,
		APIUsage:       1234,
		SuccessRate:    50,
		ActiveProjects: 1,
		APIRequests:    8,
		APISuccessRate: 75,
	}, got)
}

func TestSummaryEmpty(t *testing.T) {
	svc := &Service{Analyses: memory.NewAnalysisRepository(), Projects: memory.NewProjectRepository(), Usage: fixedUsage{}}
	got, err := svc.Summary(context.Background(), 1)
	require.NoError(t, err)
	assert.Zero(t, got.SuccessRate)
	assert.Zero(t, got.APISuccessRate)
}
