package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/sashabaranov/go-openai"

	domai "github.com/bryanwahyu/content-insight/internal/domain/ai"
	"github.com/bryanwahyu/content-insight/internal/infra/ai/prompt"
	"github.com/bryanwahyu/content-insight/internal/infra/ai/usage"
)

const (
	maxTokens             = 2048
	defaultModel          = "gpt-4o"
	defaultSentimentModel = "gpt-4.1"
)

// Options configures the client. Empty fields fall back to defaults.
type Options struct {
	APIKey         string
	BaseURL        string
	Model          string
	SentimentModel string
}

// Client calls the chat completions API once per analysis operation and
// records every call on its usage counter.
type Client struct {
	*openai.Client
	Model          string
	SentimentModel string
	usage          *usage.Counter
}

func NewClient(opts Options, counter *usage.Counter) *Client {
	cfg := openai.DefaultConfig(opts.APIKey)
	if opts.BaseURL != "" {
		cfg.BaseURL = opts.BaseURL
	}
	if counter == nil {
		counter = usage.NewCounter()
	}
	c := &Client{
		Client:         openai.NewClientWithConfig(cfg),
		Model:          opts.Model,
		SentimentModel: opts.SentimentModel,
		usage:          counter,
	}
	if c.Model == "" {
		c.Model = defaultModel
	}
	if c.SentimentModel == "" {
		c.SentimentModel = defaultSentimentModel
	}
	return c
}

// Snapshot implements ai.UsageReporter.
func (c *Client) Snapshot() domai.UsageStats { return c.usage.Snapshot() }

func (c *Client) Sentiment(ctx context.Context, text string) (domai.SentimentResult, error) {
	const op = "analyze sentiment"
	raw, tokens, err := c.complete(ctx, op, c.SentimentModel, prompt.SentimentSystemPrompt(), text, true)
	if err != nil {
		return domai.SentimentResult{}, err
	}
	var out prompt.SentimentResponse
	if err := c.decode(op, raw, tokens, &out); err != nil {
		return domai.SentimentResult{}, err
	}
	return domai.SentimentResult{
		Overall:    out.Overall,
		Score:      float64(out.Score),
		Positive:   float64(out.Positive),
		Neutral:    float64(out.Neutral),
		Negative:   float64(out.Negative),
		Confidence: float64(out.Confidence),
	}.Normalize(), nil
}

func (c *Client) Keywords(ctx context.Context, text string) ([]domai.Keyword, error) {
	const op = "extract keywords"
	raw, tokens, err := c.complete(ctx, op, c.Model, prompt.KeywordsSystemPrompt(), text, true)
	if err != nil {
		return nil, err
	}
	var out prompt.KeywordsResponse
	if err := c.decode(op, raw, tokens, &out); err != nil {
		return nil, err
	}
	keywords := make([]domai.Keyword, 0, len(out.Keywords))
	for _, k := range out.Keywords {
		keywords = append(keywords, domai.Keyword{
			Text:       k.Text,
			Confidence: float64(k.Confidence),
			Category:   k.Category,
		}.Normalize())
	}
	return keywords, nil
}

func (c *Client) Summary(ctx context.Context, text string) (string, error) {
	raw, tokens, err := c.complete(ctx, "generate summary", c.Model, prompt.SummarySystemPrompt(), prompt.SummaryUserPrompt(text), false)
	if err != nil {
		return "", err
	}
	c.usage.Record(tokens, true)
	return raw, nil
}

func (c *Client) Topics(ctx context.Context, text string) ([]string, error) {
	const op = "extract topics"
	raw, tokens, err := c.complete(ctx, op, c.Model, prompt.TopicsSystemPrompt(), text, true)
	if err != nil {
		return nil, err
	}
	var out prompt.TopicsResponse
	if err := c.decode(op, raw, tokens, &out); err != nil {
		return nil, err
	}
	if out.Topics == nil {
		out.Topics = []string{}
	}
	return out.Topics, nil
}

// complete sends one system+user exchange and returns the first choice's
// content with the tokens it used. Transport failures are recorded here;
// the caller records the outcome of a successful exchange.
func (c *Client) complete(ctx context.Context, op, model, system, user string, jsonMode bool) (string, int, error) {
	req := openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
	}
	if jsonMode {
		req.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}
	// For reasoning models (o1/o3/o4/gpt-5*) use MaxCompletionTokens instead of MaxTokens
	if isReasoningModel(model) {
		req.MaxCompletionTokens = maxTokens
	} else {
		req.MaxTokens = maxTokens
	}

	resp, err := c.CreateChatCompletion(ctx, req)
	if err != nil {
		c.usage.Record(0, false)
		if isQuotaError(err) {
			err = fmt.Errorf("%w: %w", domai.ErrQuotaExceeded, err)
		}
		return "", 0, &domai.InferenceError{Op: op, Err: err}
	}

	if len(resp.Choices) == 0 {
		return "", resp.Usage.TotalTokens, nil
	}
	return resp.Choices[0].Message.Content, resp.Usage.TotalTokens, nil
}

// decode parses a JSON answer and records the call as a success only when it parses.
// An empty answer is treated as an empty object.
func (c *Client) decode(op, raw string, tokens int, v any) error {
	if strings.TrimSpace(raw) == "" {
		raw = "{}"
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		c.usage.Record(0, false)
		return &domai.InferenceError{Op: op, Err: fmt.Errorf("parse model json: %w", err)}
	}
	c.usage.Record(tokens, true)
	return nil
}

func isReasoningModel(model string) bool {
	for _, p := range []string{"o1", "o3", "o4", "gpt-5"} {
		if strings.HasPrefix(model, p) {
			return true
		}
	}
	return false
}

func isQuotaError(err error) bool {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode == http.StatusTooManyRequests
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode == http.StatusTooManyRequests
	}
	return false
}
