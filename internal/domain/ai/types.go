package ai

import "strings"

// SentimentResult value object
type SentimentResult struct {
	Overall    string  `json:"overall"`
	Score      float64 `json:"score"`
	Positive   float64 `json:"positive"`
	Neutral    float64 `json:"neutral"`
	Negative   float64 `json:"negative"`
	Confidence float64 `json:"confidence"`
}

// Keyword value object
type Keyword struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
	Category   string  `json:"category,omitempty"`
}

// UsageStats is a point-in-time copy of the provider counters.
type UsageStats struct {
	TotalRequests      int64 `json:"totalRequests"`
	TotalTokens        int64 `json:"totalTokens"`
	SuccessfulRequests int64 `json:"successfulRequests"`
	FailedRequests     int64 `json:"failedRequests"`
}

// SuccessRate returns successful/total as a percentage, 0 when nothing was sent.
func (u UsageStats) SuccessRate() float64 {
	if u.TotalRequests == 0 {
		return 0
	}
	return float64(u.SuccessfulRequests) / float64(u.TotalRequests) * 100
}

// Clamp bounds v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Normalize clamps every numeric field into its valid range and defaults Overall.
func (s SentimentResult) Normalize() SentimentResult {
	if strings.TrimSpace(s.Overall) == "" {
		s.Overall = "Neutral"
	}
	s.Score = Clamp(s.Score, -1, 1)
	s.Positive = Clamp(s.Positive, 0, 100)
	s.Neutral = Clamp(s.Neutral, 0, 100)
	s.Negative = Clamp(s.Negative, 0, 100)
	s.Confidence = Clamp(s.Confidence, 0, 1)
	return s
}

// Normalize clamps the confidence into [0,1].
func (k Keyword) Normalize() Keyword {
	k.Confidence = Clamp(k.Confidence, 0, 1)
	return k
}
