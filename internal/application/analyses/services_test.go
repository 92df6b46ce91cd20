package analyses

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/bryanwahyu/content-insight/internal/application"
	domai "github.com/bryanwahyu/content-insight/internal/domain/ai"
	domain "github.com/bryanwahyu/content-insight/internal/domain/analysis"
	"github.com/bryanwahyu/content-insight/internal/infra/db/memory"
)

type stubRunner struct {
	results domain.Results
	err     error
}

func (r stubRunner) Run(ctx context.Context, content string, types []domain.Type) (domain.Results, error) {
	return r.results, r.err
}

type recordingQueue struct {
	jobs []domain.Job
	err  error
}

func (q *recordingQueue) Enqueue(ctx context.Context, job domain.Job) error {
	if q.err != nil {
		return q.err
	}
	q.jobs = append(q.jobs, job)
	return nil
}

var fixedNow = time.Date(2024, 5, 13, 10, 0, 0, 0, time.UTC)

func newService(runner Runner, q *recordingQueue) *Service {
	return &Service{
		Repo:   memory.NewAnalysisRepository(),
		Runner: runner,
		Queue:  q,
		Clock:  application.FixedClock{T: fixedNow},
	}
}

func validCommand() CreateCommand {
	return CreateCommand{
		UserID:        1,
		Content:       "I love this product",
		ContentType:   domain.ContentText,
		AnalysisTypes: []domain.Type{domain.TypeSentiment, domain.TypeTopics},
	}
}

func TestCreateReturnsPendingAndEnqueues(t *testing.T) {
	q := &recordingQueue{}
	svc := newService(stubRunner{}, q)

	a, err := svc.Create(context.Background(), validCommand())
	require.NoError(t, err)

	assert.Equal(t, domain.StatusPending, a.Status)
	assert.Nil(t, a.Results)
	assert.Nil(t, a.CompletedAt)
	assert.Equal(t, fixedNow, a.CreatedAt)
	assert.Equal(t, []domain.Job{{AnalysisID: a.ID}}, q.jobs)
}

func TestCreateValidation(t *testing.T) {
	svc := newService(stubRunner{}, &recordingQueue{})
	var verr *application.ValidationError

	cmd := validCommand()
	cmd.Content = "   "
	_, err := svc.Create(context.Background(), cmd)
	assert.ErrorAs(t, err, &verr)

	cmd = validCommand()
	cmd.ContentType = "pdf"
	_, err = svc.Create(context.Background(), cmd)
	assert.ErrorAs(t, err, &verr)

	cmd = validCommand()
	cmd.AnalysisTypes = nil
	_, err = svc.Create(context.Background(), cmd)
	assert.ErrorAs(t, err, &verr)
}

func TestCreateMarksFailedWhenQueueRejects(t *testing.T) {
	svc := newService(stubRunner{}, &recordingQueue{err: errors.New("queue closed")})

	_, err := svc.Create(context.Background(), validCommand())
	require.Error(t, err)

	stored, err := svc.Repo.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusFailed, stored.Status)
	assert.Equal(t, "queue closed", stored.Results.Error)
}

type failingUpdateRepo struct {
	domain.Repository
}

func (failingUpdateRepo) UpdateResult(ctx context.Context, id domain.ID, status domain.Status, results *domain.Results) (*domain.Analysis, error) {
	return nil, errors.New("db down")
}

func TestCreateLogsWhenFailedMarkCannotBeStored(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	svc := newService(stubRunner{}, &recordingQueue{err: errors.New("queue closed")})
	svc.Repo = failingUpdateRepo{Repository: svc.Repo}
	svc.Log = zap.New(core)

	_, err := svc.Create(context.Background(), validCommand())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "queue closed")

	entries := logs.FilterMessage("mark analysis failed after enqueue error").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, int64(1), fields["id"])
	assert.Equal(t, "db down", fields["error"])
}

func TestProcessSuccess(t *testing.T) {
	ctx := context.Background()
	results := domain.Results{
		Sentiment: &domai.SentimentResult{Overall: "Positive", Score: 0.8, Positive: 90, Confidence: 0.9},
		Topics:    []string{"shopping"},
	}
	svc := newService(stubRunner{results: results}, &recordingQueue{})
	a, err := svc.Create(ctx, validCommand())
	require.NoError(t, err)

	require.NoError(t, svc.Process(ctx, a.ID))

	got, err := svc.Get(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, got.Status)
	require.NotNil(t, got.CompletedAt)
	assert.Equal(t, []string{"sentiment", "topics"}, got.Results.Keys())
}

func TestProcessFailureStoresOnlyError(t *testing.T) {
	ctx := context.Background()
	runErr := &domai.InferenceError{Op: "analyze sentiment", Err: errors.New("upstream down")}
	svc := newService(stubRunner{err: runErr}, &recordingQueue{})
	a, err := svc.Create(ctx, validCommand())
	require.NoError(t, err)

	err = svc.Process(ctx, a.ID)
	assert.ErrorIs(t, err, runErr)

	got, err := svc.Get(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusFailed, got.Status)
	assert.Nil(t, got.CompletedAt)
	assert.Equal(t, []string{"error"}, got.Results.Keys())
	assert.Equal(t, "failed to analyze sentiment: upstream down", got.Results.Error)
}

func TestProcessMissingAnalysis(t *testing.T) {
	svc := newService(stubRunner{}, &recordingQueue{})
	err := svc.Process(context.Background(), 7)
	assert.ErrorIs(t, err, application.ErrNotFound)
}

func TestGetMissingIsNotFound(t *testing.T) {
	svc := newService(stubRunner{}, &recordingQueue{})
	_, err := svc.Get(context.Background(), 3)
	assert.ErrorIs(t, err, application.ErrNotFound)
}

func TestExportCSVAlwaysTwoRecords(t *testing.T) {
	summary := "line one\nline \"two\", with comma"
	a := &domain.Analysis{
		ID:        12,
		Content:   strings.Repeat("long \"quoted\" content,\n", 200),
		Status:    domain.StatusCompleted,
		CreatedAt: fixedNow,
		Results:   &domain.Results{Summary: &summary},
	}

	body, err := ToCSV(a)
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(body)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, []string{"ID", "Content", "Status", "Created At", "Results"}, records[0])
	assert.Equal(t, "12", records[1][0])
	assert.Equal(t, a.Content, records[1][1])
	assert.Equal(t, "2024-05-13T10:00:00Z", records[1][3])

	var res map[string]string
	require.NoError(t, json.Unmarshal([]byte(records[1][4]), &res))
	assert.Equal(t, summary, res["summary"])
}

func TestExportFormats(t *testing.T) {
	ctx := context.Background()
	svc := newService(stubRunner{}, &recordingQueue{})
	a, err := svc.Create(ctx, validCommand())
	require.NoError(t, err)

	f, err := svc.Export(ctx, a.ID, "csv")
	require.NoError(t, err)
	assert.Equal(t, "text/csv", f.ContentType)
	assert.Equal(t, "analysis-1.csv", f.Filename)

	f, err = svc.Export(ctx, a.ID, "xml")
	require.NoError(t, err)
	assert.Equal(t, "application/json", f.ContentType)
	assert.Equal(t, "analysis-1.json", f.Filename)

	var back domain.Analysis
	require.NoError(t, json.Unmarshal(f.Body, &back))
	assert.Equal(t, a.ID, back.ID)
	assert.Nil(t, back.Results)

	_, err = svc.Export(ctx, 99, "json")
	assert.ErrorIs(t, err, application.ErrNotFound)
}
