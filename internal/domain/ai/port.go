package ai

import "context"

// Client is the inference port, one method per analysis capability.
type Client interface {
	Sentiment(ctx context.Context, text string) (SentimentResult, error)
	Keywords(ctx context.Context, text string) ([]Keyword, error)
	Summary(ctx context.Context, text string) (string, error)
	Topics(ctx context.Context, text string) ([]string, error)
}

// UsageReporter exposes the provider usage counters.
type UsageReporter interface {
	Snapshot() UsageStats
}
