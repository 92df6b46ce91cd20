package analysis

import "context"

// Repository port (interface untuk persistence)
// Create assigns the ID. Get returns (nil, nil) when the record does not exist.
type Repository interface {
	Create(ctx context.Context, a *Analysis) error
	Get(ctx context.Context, id ID) (*Analysis, error)
	ListByUser(ctx context.Context, userID int64) ([]*Analysis, error)
	ListByProject(ctx context.Context, projectID int64) ([]*Analysis, error)

	UpdateStatus(ctx context.Context, id ID, status Status) (*Analysis, error)
	// UpdateResult stores the outcome; CompletedAt is stamped the first time status becomes completed.
	UpdateResult(ctx context.Context, id ID, status Status, results *Results) (*Analysis, error)
}

// Job is the unit placed on the queue for background processing.
type Job struct {
	AnalysisID ID `json:"analysisId"`
}

// JobQueue port (interface untuk antrian background)
type JobQueue interface {
	Enqueue(ctx context.Context, job Job) error
}
