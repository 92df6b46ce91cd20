package files

import "context"

// Repository port for uploads. Get returns (nil, nil) when missing.
type Repository interface {
	Create(ctx context.Context, f *FileUpload) error
	Get(ctx context.Context, id ID) (*FileUpload, error)
	ListByUser(ctx context.Context, userID int64) ([]*FileUpload, error)
}

// BlobStore port (penyimpanan isi file mentah)
type BlobStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
}
