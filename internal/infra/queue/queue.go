package queue

import (
	"context"
	"errors"

	"github.com/bryanwahyu/content-insight/internal/domain/analysis"
)

// ErrClosed is returned by Enqueue after the queue has been shut down.
var ErrClosed = errors.New("queue closed")

// Handler processes one analysis job.
type Handler func(ctx context.Context, job analysis.Job) error
