package files

import "time"

// ID identifier type
type ID int64

// FileUpload is an uploaded document; it is never mutated after creation.
type FileUpload struct {
	ID           ID        `json:"id"`
	Filename     string    `json:"filename"`
	OriginalName string    `json:"originalName"`
	MimeType     string    `json:"mimeType"`
	Size         int64     `json:"size"`
	Content      *string   `json:"content"`
	UserID       int64     `json:"userId"`
	UploadedAt   time.Time `json:"uploadedAt"`
}
