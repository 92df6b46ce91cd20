package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domai "github.com/bryanwahyu/content-insight/internal/domain/ai"
	"github.com/bryanwahyu/content-insight/internal/infra/ai/usage"
)

type chatRequest struct {
	Model          string `json:"model"`
	ResponseFormat *struct {
		Type string `json:"type"`
	} `json:"response_format"`
}

func fakeServer(t *testing.T, status int, content string, seen *[]chatRequest) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		var req chatRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if seen != nil {
			*seen = append(*seen, req)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if status != http.StatusOK {
			_, _ = w.Write([]byte(`{"error":{"message":"slow down","type":"rate_limit"}}`))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":      "chatcmpl-1",
			"object":  "chat.completion",
			"model":   req.Model,
			"choices": []map[string]any{{"index": 0, "message": map[string]string{"role": "assistant", "content": content}}},
			"usage":   map[string]int{"prompt_tokens": 10, "completion_tokens": 5, "total_tokens": 15},
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestClient(srv *httptest.Server) (*Client, *usage.Counter) {
	counter := usage.NewCounter()
	return NewClient(Options{APIKey: "test", BaseURL: srv.URL + "/v1"}, counter), counter
}

func TestSentimentClampsAndUsesSentimentModel(t *testing.T) {
	var seen []chatRequest
	srv := fakeServer(t, http.StatusOK, `{"overall":"Positive","score":3,"positive":120,"neutral":-4,"negative":2,"confidence":0.9}`, &seen)
	c, counter := newTestClient(srv)

	got, err := c.Sentiment(context.Background(), "I love it")
	require.NoError(t, err)
	assert.Equal(t, "Positive", got.Overall)
	assert.Equal(t, 1.0, got.Score)
	assert.Equal(t, 100.0, got.Positive)
	assert.Equal(t, 0.0, got.Neutral)
	assert.Equal(t, 0.9, got.Confidence)

	require.Len(t, seen, 1)
	assert.Equal(t, "gpt-4.1", seen[0].Model)
	require.NotNil(t, seen[0].ResponseFormat)
	assert.Equal(t, "json_object", seen[0].ResponseFormat.Type)

	snap := counter.Snapshot()
	assert.Equal(t, int64(1), snap.TotalRequests)
	assert.Equal(t, int64(1), snap.SuccessfulRequests)
	assert.Equal(t, int64(15), snap.TotalTokens)
}

func TestSentimentEmptyContentDefaultsNeutral(t *testing.T) {
	srv := fakeServer(t, http.StatusOK, "", nil)
	c, _ := newTestClient(srv)

	got, err := c.Sentiment(context.Background(), "meh")
	require.NoError(t, err)
	assert.Equal(t, "Neutral", got.Overall)
}

func TestKeywordsAndTopics(t *testing.T) {
	srv := fakeServer(t, http.StatusOK, `{"keywords":[{"text":"go","confidence":1.7,"category":"tech"}],"topics":["programming"]}`, nil)
	c, _ := newTestClient(srv)

	kws, err := c.Keywords(context.Background(), "go is fun")
	require.NoError(t, err)
	require.Len(t, kws, 1)
	assert.Equal(t, domai.Keyword{Text: "go", Confidence: 1, Category: "tech"}, kws[0])

	topics, err := c.Topics(context.Background(), "go is fun")
	require.NoError(t, err)
	assert.Equal(t, []string{"programming"}, topics)
}

func TestTopicsMissingFieldIsEmpty(t *testing.T) {
	srv := fakeServer(t, http.StatusOK, `{}`, nil)
	c, _ := newTestClient(srv)

	topics, err := c.Topics(context.Background(), "x")
	require.NoError(t, err)
	assert.NotNil(t, topics)
	assert.Empty(t, topics)
}

func TestSummaryIsPlainText(t *testing.T) {
	var seen []chatRequest
	srv := fakeServer(t, http.StatusOK, "A short summary.", &seen)
	c, _ := newTestClient(srv)

	got, err := c.Summary(context.Background(), "long text")
	require.NoError(t, err)
	assert.Equal(t, "A short summary.", got)
	require.Len(t, seen, 1)
	assert.Equal(t, "gpt-4o", seen[0].Model)
	assert.Nil(t, seen[0].ResponseFormat)
}

func TestRateLimitMapsToQuotaExceeded(t *testing.T) {
	srv := fakeServer(t, http.StatusTooManyRequests, "", nil)
	c, counter := newTestClient(srv)

	_, err := c.Keywords(context.Background(), "x")
	require.Error(t, err)
	assert.ErrorIs(t, err, domai.ErrQuotaExceeded)

	var inf *domai.InferenceError
	require.ErrorAs(t, err, &inf)
	assert.Equal(t, "extract keywords", inf.Op)

	snap := counter.Snapshot()
	assert.Equal(t, int64(1), snap.FailedRequests)
	assert.Equal(t, int64(0), snap.TotalTokens)
}

func TestMalformedJSONIsInferenceError(t *testing.T) {
	srv := fakeServer(t, http.StatusOK, `not json`, nil)
	c, counter := newTestClient(srv)

	_, err := c.Topics(context.Background(), "x")
	var inf *domai.InferenceError
	require.ErrorAs(t, err, &inf)
	assert.Equal(t, "extract topics", inf.Op)

	snap := counter.Snapshot()
	assert.Equal(t, int64(1), snap.TotalRequests)
	assert.Equal(t, int64(1), snap.FailedRequests)
	assert.Equal(t, int64(0), snap.SuccessfulRequests)
	assert.Equal(t, int64(0), snap.TotalTokens)
}

func TestSentimentAcceptsNumericStrings(t *testing.T) {
	srv := fakeServer(t, http.StatusOK, `{"overall":"Positive","score":"0.8","positive":"80","neutral":15,"negative":"5","confidence":null}`, nil)
	c, counter := newTestClient(srv)

	got, err := c.Sentiment(context.Background(), "great")
	require.NoError(t, err)
	assert.Equal(t, 0.8, got.Score)
	assert.Equal(t, 80.0, got.Positive)
	assert.Equal(t, 15.0, got.Neutral)
	assert.Equal(t, 5.0, got.Negative)
	assert.Equal(t, int64(1), counter.Snapshot().SuccessfulRequests)
}

func TestKeywordsRejectTextConfidence(t *testing.T) {
	srv := fakeServer(t, http.StatusOK, `{"keywords":[{"text":"go","confidence":"high"}]}`, nil)
	c, counter := newTestClient(srv)

	_, err := c.Keywords(context.Background(), "go")
	var inf *domai.InferenceError
	require.ErrorAs(t, err, &inf)
	assert.Equal(t, int64(1), counter.Snapshot().FailedRequests)
}

func TestIsReasoningModel(t *testing.T) {
	assert.True(t, isReasoningModel("o3-mini"))
	assert.True(t, isReasoningModel("gpt-5"))
	assert.False(t, isReasoningModel("gpt-4o"))
}
