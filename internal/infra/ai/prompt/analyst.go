package prompt

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// SentimentSystemPrompt asks for a single JSON object with the sentiment breakdown.
func SentimentSystemPrompt() string {
	return `You are a sentiment analysis expert. Analyze the sentiment of the text and provide a detailed breakdown.
You must produce one valid JSON object only (no markdown, no commentary, no code fences).

Requirements:
- overall is one of: Positive, Negative, Neutral.
- score is a number between -1 and 1.
- positive, neutral and negative are percentages between 0 and 100.
- confidence is a number between 0 and 1.

Schema:
{"overall": "<Positive|Negative|Neutral>", "score": 0, "positive": 0, "neutral": 0, "negative": 0, "confidence": 0}`
}

// KeywordsSystemPrompt asks for the most important keywords and phrases.
func KeywordsSystemPrompt() string {
	return `You are a keyword extraction expert. Extract the most important keywords and phrases from the text.
You must produce one valid JSON object only (no markdown, no commentary, no code fences).

Schema:
{"keywords": [{"text": "<keyword>", "confidence": 0, "category": "<optional category>"}]}

confidence is a number between 0 and 1.`
}

// SummarySystemPrompt is a plain text instruction; the answer is not JSON.
func SummarySystemPrompt() string {
	return "You are a content summarization expert. Create a concise, professional summary that captures the key points and main themes of the content."
}

// SummaryUserPrompt wraps the content to summarize.
func SummaryUserPrompt(text string) string {
	return fmt.Sprintf("Please summarize the following text concisely while maintaining key points:\n\n%s", text)
}

// TopicsSystemPrompt asks for the main topics as a flat string list.
func TopicsSystemPrompt() string {
	return `You are a topic modeling expert. Identify the main topics and themes discussed in the text.
You must produce one valid JSON object only (no markdown, no commentary, no code fences).

Schema:
{"topics": ["<topic1>", "<topic2>", "<topic3>"]}`
}

// Number accepts a JSON number or a numeric string; null decodes as 0.
type Number float64

func (n *Number) UnmarshalJSON(b []byte) error {
	raw := strings.TrimSpace(string(b))
	if raw == "null" {
		*n = 0
		return nil
	}
	if unq, err := strconv.Unquote(raw); err == nil {
		raw = strings.TrimSpace(unq)
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return fmt.Errorf("not a number: %s", b)
	}
	*n = Number(f)
	return nil
}

// SentimentResponse matches the schema of SentimentSystemPrompt.
type SentimentResponse struct {
	Overall    string `json:"overall"`
	Score      Number `json:"score"`
	Positive   Number `json:"positive"`
	Neutral    Number `json:"neutral"`
	Negative   Number `json:"negative"`
	Confidence Number `json:"confidence"`
}

// KeywordsResponse matches the schema of KeywordsSystemPrompt.
type KeywordsResponse struct {
	Keywords []struct {
		Text       string `json:"text"`
		Confidence Number `json:"confidence"`
		Category   string `json:"category"`
	} `json:"keywords"`
}

// TopicsResponse matches the schema of TopicsSystemPrompt.
type TopicsResponse struct {
	Topics []string `json:"topics"`
}
