package ai

import (
	"context"

	"go.uber.org/zap"

	domai "github.com/bryanwahyu/content-insight/internal/domain/ai"
	"github.com/bryanwahyu/content-insight/internal/domain/analysis"
)

// Step runs one analysis type and merges its outcome into the result.
type Step interface {
	Type() analysis.Type
	Apply(ctx context.Context, content string, into *analysis.Results) error
}

type sentimentStep struct{ client domai.Client }

func (sentimentStep) Type() analysis.Type { return analysis.TypeSentiment }

func (s sentimentStep) Apply(ctx context.Context, content string, into *analysis.Results) error {
	res, err := s.client.Sentiment(ctx, content)
	if err != nil {
		return err
	}
	into.Sentiment = &res
	return nil
}

type keywordsStep struct{ client domai.Client }

func (keywordsStep) Type() analysis.Type { return analysis.TypeKeywords }

func (s keywordsStep) Apply(ctx context.Context, content string, into *analysis.Results) error {
	kw, err := s.client.Keywords(ctx, content)
	if err != nil {
		return err
	}
	if kw == nil {
		kw = []domai.Keyword{}
	}
	into.Keywords = kw
	return nil
}

type summaryStep struct{ client domai.Client }

func (summaryStep) Type() analysis.Type { return analysis.TypeSummary }

func (s summaryStep) Apply(ctx context.Context, content string, into *analysis.Results) error {
	sum, err := s.client.Summary(ctx, content)
	if err != nil {
		return err
	}
	into.Summary = &sum
	return nil
}

type topicsStep struct{ client domai.Client }

func (topicsStep) Type() analysis.Type { return analysis.TypeTopics }

func (s topicsStep) Apply(ctx context.Context, content string, into *analysis.Results) error {
	topics, err := s.client.Topics(ctx, content)
	if err != nil {
		return err
	}
	if topics == nil {
		topics = []string{}
	}
	into.Topics = topics
	return nil
}

// Orchestrator runs the requested analysis types one after another.
type Orchestrator struct {
	steps map[analysis.Type]Step
	log   *zap.Logger
}

// NewOrchestrator registers the four built-in steps backed by client.
func NewOrchestrator(client domai.Client, log *zap.Logger) *Orchestrator {
	if log == nil {
		log = zap.NewNop()
	}
	o := &Orchestrator{steps: make(map[analysis.Type]Step), log: log}
	for _, s := range []Step{
		sentimentStep{client},
		keywordsStep{client},
		summaryStep{client},
		topicsStep{client},
	} {
		o.steps[s.Type()] = s
	}
	return o
}

// Run executes types in order. Unknown types are skipped; the first failing
// step aborts the run and its error is returned without partial results.
func (o *Orchestrator) Run(ctx context.Context, content string, types []analysis.Type) (analysis.Results, error) {
	var out analysis.Results
	for _, t := range types {
		step, ok := o.steps[t]
		if !ok {
			o.log.Warn("unknown analysis type", zap.String("type", string(t)))
			continue
		}
		o.log.Debug("processing analysis type", zap.String("type", string(t)))
		if err := step.Apply(ctx, content, &out); err != nil {
			o.log.Error("analysis step failed", zap.String("type", string(t)), zap.Error(err))
			return analysis.Results{}, err
		}
	}
	o.log.Info("analysis completed", zap.Strings("keys", out.Keys()))
	return out, nil
}
