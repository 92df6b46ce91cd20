package files

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/bryanwahyu/content-insight/internal/application"
	domain "github.com/bryanwahyu/content-insight/internal/domain/files"
)

// MaxUploadSize is the upload cap (10MB).
const MaxUploadSize = 10 << 20

// Service implements use-cases untuk file upload
type Service struct {
	Repo  domain.Repository
	Blobs domain.BlobStore // optional
	Clock application.Clock
	Log   *zap.Logger
}

type UploadCommand struct {
	UserID       int64
	OriginalName string
	MimeType     string
	Data         []byte
}

// Upload persists the file record with its content decoded as UTF-8. When a
// blob store is configured the raw bytes are stored there as well.
func (s *Service) Upload(ctx context.Context, cmd UploadCommand) (*domain.FileUpload, error) {
	name := filepath.Base(strings.TrimSpace(cmd.OriginalName))
	if name == "" || name == "." || name == "/" {
		return nil, application.Invalid("file name is required")
	}
	if len(cmd.Data) > MaxUploadSize {
		return nil, application.Invalid("file exceeds 10MB limit")
	}
	mime := cmd.MimeType
	if mime == "" {
		mime = "application/octet-stream"
	}

	now := s.Clock.Now()
	content := strings.ToValidUTF8(string(cmd.Data), "\uFFFD")
	f := &domain.FileUpload{
		Filename:     fmt.Sprintf("%d-%s", now.UnixMilli(), name),
		OriginalName: name,
		MimeType:     mime,
		Size:         int64(len(cmd.Data)),
		Content:      &content,
		UserID:       cmd.UserID,
		UploadedAt:   now,
	}

	if s.Blobs != nil {
		key := fmt.Sprintf("uploads/%d/%s", cmd.UserID, f.Filename)
		url, err := s.Blobs.Put(ctx, key, cmd.Data, mime)
		if err != nil {
			return nil, fmt.Errorf("store upload blob: %w", err)
		}
		if s.Log != nil {
			s.Log.Debug("upload stored", zap.String("url", url))
		}
	}

	if err := s.Repo.Create(ctx, f); err != nil {
		return nil, fmt.Errorf("create file upload: %w", err)
	}
	return f, nil
}

func (s *Service) Get(ctx context.Context, id domain.ID) (*domain.FileUpload, error) {
	f, err := s.Repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if f == nil {
		return nil, application.ErrNotFound
	}
	return f, nil
}

func (s *Service) List(ctx context.Context, userID int64) ([]*domain.FileUpload, error) {
	return s.Repo.ListByUser(ctx, userID)
}
