package mysql

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bryanwahyu/content-insight/internal/domain/ai"
	"github.com/bryanwahyu/content-insight/internal/domain/analysis"
	"github.com/bryanwahyu/content-insight/internal/domain/files"
	"github.com/bryanwahyu/content-insight/internal/domain/project"
	"github.com/bryanwahyu/content-insight/internal/domain/users"
)

func openTestDB(t *testing.T) *AnalysisRepository {
	t.Helper()
	dsn := os.Getenv("TEST_MYSQL_DSN")
	if dsn == "" {
		t.Skip("TEST_MYSQL_DSN not set")
	}
	ctx := context.Background()
	db, err := Connect(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, Migrate(ctx, db))
	return NewAnalysisRepository(db)
}

func TestAnalysisRepositoryRoundTrip(t *testing.T) {
	repo := openTestDB(t)
	ctx := context.Background()
	pid := int64(900001)

	a := &analysis.Analysis{
		ProjectID:     &pid,
		Content:       "mysql content",
		ContentType:   analysis.ContentText,
		AnalysisTypes: []analysis.Type{analysis.TypeSentiment, analysis.TypeKeywords},
		Status:        analysis.StatusPending,
		UserID:        900001,
		CreatedAt:     time.Now().UTC().Truncate(time.Microsecond),
	}
	require.NoError(t, repo.Create(ctx, a))
	require.NotZero(t, a.ID)

	got, err := repo.UpdateStatus(ctx, a.ID, analysis.StatusProcessing)
	require.NoError(t, err)
	assert.Equal(t, analysis.StatusProcessing, got.Status)
	assert.Nil(t, got.Results)
	assert.Nil(t, got.CompletedAt)

	res := &analysis.Results{
		Sentiment: &ai.SentimentResult{Overall: "Positive", Score: 0.5, Positive: 70, Neutral: 20, Negative: 10, Confidence: 0.8},
		Keywords:  []ai.Keyword{},
	}
	got, err = repo.UpdateResult(ctx, a.ID, analysis.StatusCompleted, res)
	require.NoError(t, err)
	require.NotNil(t, got.CompletedAt)
	assert.Equal(t, []string{"keywords", "sentiment"}, got.Results.Keys())
	assert.Equal(t, "Positive", got.Results.Sentiment.Overall)
	assert.Equal(t, a.AnalysisTypes, got.AnalysisTypes)

	byProject, err := repo.ListByProject(ctx, pid)
	require.NoError(t, err)
	assert.NotEmpty(t, byProject)

	missing, err := repo.Get(ctx, -1)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestProjectFileUserRepositories(t *testing.T) {
	db := openTestDB(t).db
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Microsecond)

	projects := NewProjectRepository(db)
	p := &project.Project{Name: "mysql project", Status: project.StatusActive, UserID: 900002, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, projects.Create(ctx, p))
	desc := "described"
	status := project.StatusCompleted
	updated, err := projects.Update(ctx, p.ID, project.Patch{Description: &desc, Status: &status})
	require.NoError(t, err)
	assert.Equal(t, "described", *updated.Description)
	assert.Equal(t, project.StatusCompleted, updated.Status)
	none, err := projects.Update(ctx, -1, project.Patch{})
	require.NoError(t, err)
	assert.Nil(t, none)

	fileRepo := NewFileRepository(db)
	content := "hello"
	f := &files.FileUpload{Filename: "1-a.txt", OriginalName: "a.txt", MimeType: "text/plain", Size: 5, Content: &content, UserID: 900002, UploadedAt: now}
	require.NoError(t, fileRepo.Create(ctx, f))
	gotFile, err := fileRepo.Get(ctx, f.ID)
	require.NoError(t, err)
	assert.Equal(t, "hello", *gotFile.Content)

	userRepo := NewUserRepository(db)
	name := "mysql-user-" + now.Format("150405.000000")
	u := &users.User{Username: name, Name: "Test", Plan: "Pro", CreatedAt: now}
	require.NoError(t, userRepo.Create(ctx, u))
	byName, err := userRepo.GetByUsername(ctx, name)
	require.NoError(t, err)
	assert.Equal(t, u.ID, byName.ID)
}
