package httpserver

import (
	"errors"
	"io"
	"net/http"

	"github.com/bryanwahyu/content-insight/internal/application"
	appfiles "github.com/bryanwahyu/content-insight/internal/application/files"
	domain "github.com/bryanwahyu/content-insight/internal/domain/files"
	"github.com/bryanwahyu/content-insight/internal/middleware"
)

// multipart framing allowance on top of the file cap
const multipartOverhead = 1 << 20

// GET /api/files
func (r *Router) handleListFiles(w http.ResponseWriter, req *http.Request) error {
	list, err := r.Files.List(req.Context(), r.userID(req))
	if err != nil {
		return err
	}
	return writeJSON(w, list)
}

// POST /api/files (multipart, field "file")
func (r *Router) handleUploadFile(w http.ResponseWriter, req *http.Request) error {
	req.Body = http.MaxBytesReader(w, req.Body, appfiles.MaxUploadSize+multipartOverhead)
	if err := req.ParseMultipartForm(appfiles.MaxUploadSize); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			return application.Invalid("file exceeds 10MB limit")
		}
		return application.Invalid("No file uploaded")
	}
	defer req.MultipartForm.RemoveAll()

	f, header, err := req.FormFile("file")
	if err != nil {
		return application.Invalid("No file uploaded")
	}
	defer f.Close()

	name, err := middleware.SanitizeFilename(header.Filename)
	if err != nil {
		return application.Invalid(err.Error())
	}
	data, err := io.ReadAll(io.LimitReader(f, appfiles.MaxUploadSize+1))
	if err != nil {
		return err
	}

	up, err := r.Files.Upload(req.Context(), appfiles.UploadCommand{
		UserID:       r.userID(req),
		OriginalName: name,
		MimeType:     header.Header.Get("Content-Type"),
		Data:         data,
	})
	if err != nil {
		return err
	}
	return writeJSON(w, up)
}

// GET /api/files/{id}
func (r *Router) handleGetFile(w http.ResponseWriter, req *http.Request) error {
	id, err := pathID(req)
	if err != nil {
		return err
	}
	f, err := r.Files.Get(req.Context(), domain.ID(id))
	if err != nil {
		return err
	}
	if f.UserID != r.userID(req) {
		return application.ErrNotFound
	}
	return writeJSON(w, f)
}
