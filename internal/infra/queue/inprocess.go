package queue

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/bryanwahyu/content-insight/internal/domain/analysis"
)

// InProcess runs jobs on a fixed pool of goroutines fed by a buffered channel.
type InProcess struct {
	jobs    chan analysis.Job
	done    chan struct{}
	handler Handler
	log     *zap.Logger

	mu     sync.RWMutex
	closed bool
	once   sync.Once
	wg     sync.WaitGroup
}

func NewInProcess(workers, buffer int, h Handler, log *zap.Logger) *InProcess {
	if workers <= 0 {
		workers = 1
	}
	if buffer < 0 {
		buffer = 0
	}
	if log == nil {
		log = zap.NewNop()
	}
	q := &InProcess{
		jobs:    make(chan analysis.Job, buffer),
		done:    make(chan struct{}),
		handler: h,
		log:     log,
	}
	for i := 0; i < workers; i++ {
		q.wg.Add(1)
		go q.work(i)
	}
	return q
}

// Enqueue implements analysis.JobQueue.
func (q *InProcess) Enqueue(ctx context.Context, job analysis.Job) error {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		return ErrClosed
	}
	select {
	case q.jobs <- job:
		return nil
	case <-q.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (q *InProcess) work(n int) {
	defer q.wg.Done()
	log := q.log.With(zap.Int("worker", n))
	for job := range q.jobs {
		if err := q.handler(context.Background(), job); err != nil {
			log.Warn("analysis job failed", zap.Int64("analysis_id", int64(job.AnalysisID)), zap.Error(err))
		}
	}
}

// Close stops accepting jobs, lets workers drain the buffer and waits for them.
func (q *InProcess) Close() error {
	q.once.Do(func() {
		close(q.done)
		q.mu.Lock()
		q.closed = true
		close(q.jobs)
		q.mu.Unlock()
	})
	q.wg.Wait()
	return nil
}
