package ai

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domai "github.com/bryanwahyu/content-insight/internal/domain/ai"
	"github.com/bryanwahyu/content-insight/internal/domain/analysis"
)

type fakeClient struct {
	calls []string
	fail  map[string]error
}

func (f *fakeClient) record(op string) error {
	f.calls = append(f.calls, op)
	return f.fail[op]
}

func (f *fakeClient) Sentiment(ctx context.Context, text string) (domai.SentimentResult, error) {
	if err := f.record("sentiment"); err != nil {
		return domai.SentimentResult{}, err
	}
	return domai.SentimentResult{Overall: "Positive", Score: 0.5}, nil
}

func (f *fakeClient) Keywords(ctx context.Context, text string) ([]domai.Keyword, error) {
	if err := f.record("keywords"); err != nil {
		return nil, err
	}
	return nil, nil
}

func (f *fakeClient) Summary(ctx context.Context, text string) (string, error) {
	if err := f.record("summary"); err != nil {
		return "", err
	}
	return "short", nil
}

func (f *fakeClient) Topics(ctx context.Context, text string) ([]string, error) {
	if err := f.record("topics"); err != nil {
		return nil, err
	}
	return []string{"go"}, nil
}

func TestRunMergesOneKeyPerRecognizedType(t *testing.T) {
	client := &fakeClient{}
	o := NewOrchestrator(client, nil)

	res, err := o.Run(context.Background(), "hello", []analysis.Type{
		analysis.TypeTopics, "translation", analysis.TypeSentiment, analysis.TypeKeywords, analysis.TypeSummary,
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"topics", "sentiment", "keywords", "summary"}, client.calls)
	assert.Equal(t, []string{"keywords", "sentiment", "summary", "topics"}, res.Keys())
	assert.NotNil(t, res.Keywords, "empty keyword list is still reported")
	assert.Equal(t, "short", *res.Summary)
}

func TestRunAbortsOnFirstFailure(t *testing.T) {
	boom := &domai.InferenceError{Op: "extract keywords", Err: errors.New("503")}
	client := &fakeClient{fail: map[string]error{"keywords": boom}}
	o := NewOrchestrator(client, nil)

	res, err := o.Run(context.Background(), "hello", []analysis.Type{
		analysis.TypeSentiment, analysis.TypeKeywords, analysis.TypeTopics,
	})
	require.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"sentiment", "keywords"}, client.calls)
	assert.Empty(t, res.Keys())
}

func TestRunWithOnlyUnknownTypes(t *testing.T) {
	client := &fakeClient{}
	res, err := NewOrchestrator(client, nil).Run(context.Background(), "x", []analysis.Type{"nope"})
	require.NoError(t, err)
	assert.Empty(t, client.calls)
	assert.Empty(t, res.Keys())
}
