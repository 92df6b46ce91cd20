package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	domain "github.com/bryanwahyu/content-insight/internal/domain/files"
)

type FileRepository struct {
	db *sql.DB
}

func NewFileRepository(db *sql.DB) *FileRepository {
	return &FileRepository{db: db}
}

const fileColumns = `id, filename, original_name, mime_type, size, content, user_id, uploaded_at`

func (r *FileRepository) Create(ctx context.Context, f *domain.FileUpload) error {
	const q = `
INSERT INTO file_uploads (filename, original_name, mime_type, size, content, user_id, uploaded_at)
VALUES (?,?,?,?,?,?,?);
`
	res, err := r.db.ExecContext(ctx, q, f.Filename, f.OriginalName, f.MimeType, f.Size, nullString(f.Content), f.UserID, f.UploadedAt)
	if err != nil {
		return fmt.Errorf("insert file upload: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	f.ID = domain.ID(id)
	return nil
}

func (r *FileRepository) Get(ctx context.Context, id domain.ID) (*domain.FileUpload, error) {
	q := `SELECT ` + fileColumns + ` FROM file_uploads WHERE id=? LIMIT 1;`
	f, err := scanFile(r.db.QueryRowContext(ctx, q, int64(id)))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return f, err
}

func (r *FileRepository) ListByUser(ctx context.Context, userID int64) ([]*domain.FileUpload, error) {
	q := `SELECT ` + fileColumns + ` FROM file_uploads WHERE user_id=? ORDER BY id ASC;`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*domain.FileUpload, 0)
	for rows.Next() {
		f, err := scanFile(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

func scanFile(row rowScanner) (*domain.FileUpload, error) {
	var (
		f       domain.FileUpload
		id      int64
		content sql.NullString
	)
	if err := row.Scan(&id, &f.Filename, &f.OriginalName, &f.MimeType, &f.Size, &content, &f.UserID, &f.UploadedAt); err != nil {
		return nil, err
	}
	f.ID = domain.ID(id)
	f.Content = stringPtr(content)
	f.UploadedAt = f.UploadedAt.UTC()
	return &f, nil
}
