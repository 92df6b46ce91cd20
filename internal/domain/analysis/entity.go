package analysis

import (
	"encoding/json"
	"sort"
	"time"

	"github.com/bryanwahyu/content-insight/internal/domain/ai"
)

// ID tipe untuk Analysis
type ID int64

// Status enum
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// ContentType enum
type ContentType string

const (
	ContentText ContentType = "text"
	ContentFile ContentType = "file"
	ContentURL  ContentType = "url"
)

func (c ContentType) Valid() bool {
	switch c {
	case ContentText, ContentFile, ContentURL:
		return true
	}
	return false
}

// Type is an analysis tag requested by the client.
type Type string

const (
	TypeSentiment Type = "sentiment"
	TypeKeywords  Type = "keywords"
	TypeSummary   Type = "summary"
	TypeTopics    Type = "topics"
)

// Known reports whether t maps to an inference operation.
func (t Type) Known() bool {
	switch t {
	case TypeSentiment, TypeKeywords, TypeSummary, TypeTopics:
		return true
	}
	return false
}

// Results holds one entry per completed analysis type, or Error after a failure.
// A nil field means the type was not run; an empty slice is still reported.
type Results struct {
	Sentiment *ai.SentimentResult `json:"sentiment,omitempty"`
	Keywords  []ai.Keyword        `json:"keywords,omitempty"`
	Summary   *string             `json:"summary,omitempty"`
	Topics    []string            `json:"topics,omitempty"`
	Error     string              `json:"error,omitempty"`
}

// FailedResults builds the payload stored on a failed analysis.
func FailedResults(err error) *Results {
	return &Results{Error: err.Error()}
}

func (r Results) fields() map[string]any {
	out := make(map[string]any, 4)
	if r.Sentiment != nil {
		out[string(TypeSentiment)] = r.Sentiment
	}
	if r.Keywords != nil {
		out[string(TypeKeywords)] = r.Keywords
	}
	if r.Summary != nil {
		out[string(TypeSummary)] = *r.Summary
	}
	if r.Topics != nil {
		out[string(TypeTopics)] = r.Topics
	}
	if r.Error != "" {
		out["error"] = r.Error
	}
	return out
}

// Keys returns the populated result keys in sorted order.
func (r Results) Keys() []string {
	f := r.fields()
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (r Results) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.fields())
}

// Aggregate Root: Analysis
type Analysis struct {
	ID            ID          `json:"id"`
	ProjectID     *int64      `json:"projectId"`
	Content       string      `json:"content"`
	ContentType   ContentType `json:"contentType"`
	AnalysisTypes []Type      `json:"analysisTypes"`
	Results       *Results    `json:"results"`
	Status        Status      `json:"status"`
	UserID        int64       `json:"userId"`
	CreatedAt     time.Time   `json:"createdAt"`
	CompletedAt   *time.Time  `json:"completedAt"`
}

// Clone returns a deep copy so callers never share mutable state with a store.
func (a *Analysis) Clone() *Analysis {
	if a == nil {
		return nil
	}
	c := *a
	if a.ProjectID != nil {
		p := *a.ProjectID
		c.ProjectID = &p
	}
	c.AnalysisTypes = append([]Type(nil), a.AnalysisTypes...)
	if a.Results != nil {
		r := *a.Results
		if r.Sentiment != nil {
			s := *r.Sentiment
			r.Sentiment = &s
		}
		if r.Summary != nil {
			s := *r.Summary
			r.Summary = &s
		}
		if r.Keywords != nil {
			r.Keywords = append([]ai.Keyword{}, r.Keywords...)
		}
		if r.Topics != nil {
			r.Topics = append([]string{}, r.Topics...)
		}
		c.Results = &r
	}
	if a.CompletedAt != nil {
		t := *a.CompletedAt
		c.CompletedAt = &t
	}
	return &c
}
