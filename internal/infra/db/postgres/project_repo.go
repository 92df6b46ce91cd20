package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	domain "github.com/bryanwahyu/content-insight/internal/domain/project"
)

type ProjectRepository struct{ db *sql.DB }

func NewProjectRepository(db *sql.DB) *ProjectRepository { return &ProjectRepository{db: db} }

const projectColumns = `id, name, description, status, user_id, created_at, updated_at`

func (r *ProjectRepository) Create(ctx context.Context, p *domain.Project) error {
	const q = `
INSERT INTO projects (name, description, status, user_id, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6)
RETURNING id;`
	var id int64
	err := r.db.QueryRowContext(ctx, q, p.Name, nullString(p.Description), string(p.Status), p.UserID, p.CreatedAt, p.UpdatedAt).Scan(&id)
	if err != nil {
		return fmt.Errorf("insert project: %w", err)
	}
	p.ID = domain.ID(id)
	return nil
}

func (r *ProjectRepository) Get(ctx context.Context, id domain.ID) (*domain.Project, error) {
	p, err := scanProject(r.db.QueryRowContext(ctx, `SELECT `+projectColumns+` FROM projects WHERE id=$1;`, int64(id)))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return p, err
}

func (r *ProjectRepository) ListByUser(ctx context.Context, userID int64) ([]*domain.Project, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+projectColumns+` FROM projects WHERE user_id=$1 ORDER BY id ASC;`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*domain.Project, 0)
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *ProjectRepository) Update(ctx context.Context, id domain.ID, patch domain.Patch) (*domain.Project, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	p, err := scanProject(tx.QueryRowContext(ctx, `SELECT `+projectColumns+` FROM projects WHERE id=$1 FOR UPDATE;`, int64(id)))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	p.Apply(patch, time.Now().UTC())

	const upd = `UPDATE projects SET name=$1, description=$2, status=$3, updated_at=$4 WHERE id=$5;`
	if _, err := tx.ExecContext(ctx, upd, p.Name, nullString(p.Description), string(p.Status), p.UpdatedAt, int64(id)); err != nil {
		return nil, fmt.Errorf("update project: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return p, nil
}

func scanProject(row rowScanner) (*domain.Project, error) {
	var (
		p      domain.Project
		id     int64
		desc   sql.NullString
		status string
	)
	if err := row.Scan(&id, &p.Name, &desc, &status, &p.UserID, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	p.ID = domain.ID(id)
	p.Description = stringPtr(desc)
	p.Status = domain.Status(status)
	p.CreatedAt = p.CreatedAt.UTC()
	p.UpdatedAt = p.UpdatedAt.UTC()
	return &p, nil
}
