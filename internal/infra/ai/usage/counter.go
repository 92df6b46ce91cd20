package usage

import (
	"sync/atomic"

	domai "github.com/bryanwahyu/content-insight/internal/domain/ai"
)

// Counter tracks provider calls for the lifetime of the process.
// It is safe for concurrent use; counters only ever grow.
type Counter struct {
	totalRequests      atomic.Int64
	totalTokens        atomic.Int64
	successfulRequests atomic.Int64
	failedRequests     atomic.Int64
}

func NewCounter() *Counter { return &Counter{} }

// Record counts one request. Negative token values are ignored.
func (c *Counter) Record(tokens int, success bool) {
	// outcome first so a concurrent Snapshot never sees successful > total
	if success {
		c.successfulRequests.Add(1)
	} else {
		c.failedRequests.Add(1)
	}
	if tokens > 0 {
		c.totalTokens.Add(int64(tokens))
	}
	c.totalRequests.Add(1)
}

// Snapshot reads total last so it is never smaller than the outcome counts read before it.
func (c *Counter) Snapshot() domai.UsageStats {
	s := domai.UsageStats{
		SuccessfulRequests: c.successfulRequests.Load(),
		FailedRequests:     c.failedRequests.Load(),
		TotalTokens:        c.totalTokens.Load(),
	}
	s.TotalRequests = c.totalRequests.Load()
	if s.TotalRequests < s.SuccessfulRequests+s.FailedRequests {
		s.TotalRequests = s.SuccessfulRequests + s.FailedRequests
	}
	return s
}
