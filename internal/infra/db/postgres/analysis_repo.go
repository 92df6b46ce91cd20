package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	domain "github.com/bryanwahyu/content-insight/internal/domain/analysis"
)

type AnalysisRepository struct{ db *sql.DB }

func NewAnalysisRepository(db *sql.DB) *AnalysisRepository { return &AnalysisRepository{db: db} }

const analysisColumns = `id, project_id, content, content_type, analysis_types, results, status, user_id, created_at, completed_at`

func (r *AnalysisRepository) Create(ctx context.Context, a *domain.Analysis) error {
	const q = `
INSERT INTO analyses
  (project_id, content, content_type, analysis_types, results, status, user_id, created_at, completed_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
RETURNING id;`
	types, err := encodeTypes(a.AnalysisTypes)
	if err != nil {
		return err
	}
	results, err := encodeResults(a.Results)
	if err != nil {
		return err
	}
	createdAt := a.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	var completed sql.NullTime
	if a.CompletedAt != nil {
		completed = sql.NullTime{Time: *a.CompletedAt, Valid: true}
	}

	var id int64
	err = r.db.QueryRowContext(ctx, q,
		nullInt(a.ProjectID), a.Content, string(a.ContentType), string(types), nullJSON(results),
		string(a.Status), a.UserID, createdAt, completed,
	).Scan(&id)
	if err != nil {
		return fmt.Errorf("insert analysis: %w", err)
	}
	a.ID = domain.ID(id)
	return nil
}

func (r *AnalysisRepository) Get(ctx context.Context, id domain.ID) (*domain.Analysis, error) {
	q := `SELECT ` + analysisColumns + ` FROM analyses WHERE id=$1;`
	a, err := scanAnalysis(r.db.QueryRowContext(ctx, q, int64(id)))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return a, err
}

func (r *AnalysisRepository) ListByUser(ctx context.Context, userID int64) ([]*domain.Analysis, error) {
	return r.list(ctx, `SELECT `+analysisColumns+` FROM analyses WHERE user_id=$1 ORDER BY id ASC;`, userID)
}

func (r *AnalysisRepository) ListByProject(ctx context.Context, projectID int64) ([]*domain.Analysis, error) {
	return r.list(ctx, `SELECT `+analysisColumns+` FROM analyses WHERE project_id=$1 ORDER BY id ASC;`, projectID)
}

func (r *AnalysisRepository) list(ctx context.Context, q string, arg int64) ([]*domain.Analysis, error) {
	rows, err := r.db.QueryContext(ctx, q, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*domain.Analysis, 0)
	for rows.Next() {
		a, err := scanAnalysis(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *AnalysisRepository) UpdateStatus(ctx context.Context, id domain.ID, status domain.Status) (*domain.Analysis, error) {
	q := `
UPDATE analyses SET
  status = $1,
  completed_at = CASE WHEN $1 = 'completed' AND completed_at IS NULL THEN $2::timestamptz ELSE completed_at END
WHERE id = $3
RETURNING ` + analysisColumns + `;`
	a, err := scanAnalysis(r.db.QueryRowContext(ctx, q, string(status), time.Now().UTC(), int64(id)))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("update analysis status: %w", err)
	}
	return a, nil
}

func (r *AnalysisRepository) UpdateResult(ctx context.Context, id domain.ID, status domain.Status, results *domain.Results) (*domain.Analysis, error) {
	q := `
UPDATE analyses SET
  status = $1,
  results = $2,
  completed_at = CASE WHEN $1 = 'completed' AND completed_at IS NULL THEN $3::timestamptz ELSE completed_at END
WHERE id = $4
RETURNING ` + analysisColumns + `;`
	payload, err := encodeResults(results)
	if err != nil {
		return nil, err
	}
	a, err := scanAnalysis(r.db.QueryRowContext(ctx, q, string(status), nullJSON(payload), time.Now().UTC(), int64(id)))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("update analysis results: %w", err)
	}
	return a, nil
}

// nullJSON keeps a missing payload as SQL NULL; pq sends strings as text for jsonb.
func nullJSON(b []byte) sql.NullString {
	if b == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: string(b), Valid: true}
}

func scanAnalysis(row rowScanner) (*domain.Analysis, error) {
	var (
		a              domain.Analysis
		id             int64
		projectID      sql.NullInt64
		contentType    string
		status         string
		types, results []byte
		completed      sql.NullTime
	)
	if err := row.Scan(&id, &projectID, &a.Content, &contentType, &types, &results,
		&status, &a.UserID, &a.CreatedAt, &completed); err != nil {
		return nil, err
	}
	a.ID = domain.ID(id)
	a.ProjectID = intPtr(projectID)
	a.ContentType = domain.ContentType(contentType)
	a.Status = domain.Status(status)
	a.CreatedAt = a.CreatedAt.UTC()
	a.CompletedAt = timePtr(completed)
	if err := decodeAnalysisJSON(&a, types, results); err != nil {
		return nil, err
	}
	return &a, nil
}
