package usage

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCounterRecord(t *testing.T) {
	c := NewCounter()
	c.Record(120, true)
	c.Record(0, false)
	c.Record(-5, true)

	s := c.Snapshot()
	assert.Equal(t, int64(3), s.TotalRequests)
	assert.Equal(t, int64(2), s.SuccessfulRequests)
	assert.Equal(t, int64(1), s.FailedRequests)
	assert.Equal(t, int64(120), s.TotalTokens)
}

func TestCounterMonotonicUnderConcurrency(t *testing.T) {
	c := NewCounter()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 500; j++ {
				c.Record(j%7, (i+j)%3 != 0)
			}
		}(i)
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	prev := c.Snapshot()
	for {
		cur := c.Snapshot()
		assert.LessOrEqual(t, cur.SuccessfulRequests, cur.TotalRequests)
		assert.GreaterOrEqual(t, cur.TotalRequests, prev.TotalRequests)
		assert.GreaterOrEqual(t, cur.TotalTokens, prev.TotalTokens)
		prev = cur
		select {
		case <-done:
			final := c.Snapshot()
			assert.Equal(t, int64(4000), final.TotalRequests)
			assert.Equal(t, final.TotalRequests, final.SuccessfulRequests+final.FailedRequests)
			return
		default:
		}
	}
}
