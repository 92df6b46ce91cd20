package httpserver

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/bryanwahyu/content-insight/internal/application"
	appanalyses "github.com/bryanwahyu/content-insight/internal/application/analyses"
	domain "github.com/bryanwahyu/content-insight/internal/domain/analysis"
	"github.com/bryanwahyu/content-insight/internal/domain/project"
	"github.com/bryanwahyu/content-insight/internal/middleware"
)

// GET /api/analyses
func (r *Router) handleListAnalyses(w http.ResponseWriter, req *http.Request) error {
	list, err := r.Analyses.List(req.Context(), r.userID(req))
	if err != nil {
		return err
	}
	return writeJSON(w, list)
}

// POST /api/analyses
// Body: {"content": "...", "contentType": "text", "analysisTypes": ["sentiment"], "projectId": 1}
// Returns the pending record right away; processing happens on the job queue.
func (r *Router) handleCreateAnalysis(w http.ResponseWriter, req *http.Request) error {
	var body struct {
		Content       string             `json:"content"`
		ContentType   domain.ContentType `json:"contentType"`
		AnalysisTypes []domain.Type      `json:"analysisTypes"`
		ProjectID     *int64             `json:"projectId"`
	}
	if err := decodeJSON(req, &body); err != nil {
		return err
	}
	uid := r.userID(req)

	// text is kept as submitted; only NUL bytes are dropped since the SQL stores reject them
	content := strings.ReplaceAll(body.Content, "\x00", "")
	if body.ContentType == domain.ContentURL {
		content = middleware.SanitizeString(content)
		if err := middleware.ValidateURL(content); err != nil {
			return application.Invalid(err.Error())
		}
	}
	if body.ProjectID != nil {
		p, err := r.Projects.Get(req.Context(), project.ID(*body.ProjectID))
		if errors.Is(err, application.ErrNotFound) || (err == nil && p.UserID != uid) {
			return application.Invalid(fmt.Sprintf("unknown project %d", *body.ProjectID))
		}
		if err != nil {
			return err
		}
	}

	a, err := r.Analyses.Create(req.Context(), appanalyses.CreateCommand{
		UserID:        uid,
		ProjectID:     body.ProjectID,
		Content:       content,
		ContentType:   body.ContentType,
		AnalysisTypes: body.AnalysisTypes,
	})
	if err != nil {
		return err
	}
	return writeJSON(w, a)
}

// GET /api/analyses/{id}
func (r *Router) handleGetAnalysis(w http.ResponseWriter, req *http.Request) error {
	a, err := r.ownedAnalysis(req)
	if err != nil {
		return err
	}
	return writeJSON(w, a)
}

// GET /api/analyses/{id}/export?format=json|csv
func (r *Router) handleExportAnalysis(w http.ResponseWriter, req *http.Request) error {
	a, err := r.ownedAnalysis(req)
	if err != nil {
		return err
	}
	f, err := r.Analyses.Export(req.Context(), a.ID, req.URL.Query().Get("format"))
	if err != nil {
		return err
	}
	w.Header().Set("Content-Type", f.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", f.Filename))
	_, err = w.Write(f.Body)
	return err
}

func (r *Router) ownedAnalysis(req *http.Request) (*domain.Analysis, error) {
	id, err := pathID(req)
	if err != nil {
		return nil, err
	}
	a, err := r.Analyses.Get(req.Context(), domain.ID(id))
	if err != nil {
		return nil, err
	}
	if a.UserID != r.userID(req) {
		return nil, application.ErrNotFound
	}
	return a, nil
}
