package httpserver

import (
	"net/http"

	"github.com/bryanwahyu/content-insight/internal/application"
	appprojects "github.com/bryanwahyu/content-insight/internal/application/projects"
	domain "github.com/bryanwahyu/content-insight/internal/domain/project"
)

// GET /api/projects
func (r *Router) handleListProjects(w http.ResponseWriter, req *http.Request) error {
	list, err := r.Projects.List(req.Context(), r.userID(req))
	if err != nil {
		return err
	}
	return writeJSON(w, list)
}

// POST /api/projects
func (r *Router) handleCreateProject(w http.ResponseWriter, req *http.Request) error {
	var body struct {
		Name        string        `json:"name"`
		Description *string       `json:"description"`
		Status      domain.Status `json:"status"`
	}
	if err := decodeJSON(req, &body); err != nil {
		return err
	}
	p, err := r.Projects.Create(req.Context(), appprojects.CreateCommand{
		UserID:      r.userID(req),
		Name:        body.Name,
		Description: body.Description,
		Status:      body.Status,
	})
	if err != nil {
		return err
	}
	return writeJSON(w, p)
}

// GET /api/projects/{id}
func (r *Router) handleGetProject(w http.ResponseWriter, req *http.Request) error {
	p, err := r.ownedProject(req)
	if err != nil {
		return err
	}
	return writeJSON(w, p)
}

// PATCH /api/projects/{id}
// Body: any of {"name", "description", "status"}
func (r *Router) handleUpdateProject(w http.ResponseWriter, req *http.Request) error {
	p, err := r.ownedProject(req)
	if err != nil {
		return err
	}
	var patch domain.Patch
	if err := decodeJSON(req, &patch); err != nil {
		return err
	}
	updated, err := r.Projects.Update(req.Context(), p.ID, patch)
	if err != nil {
		return err
	}
	return writeJSON(w, updated)
}

// GET /api/projects/{id}/analyses
func (r *Router) handleProjectAnalyses(w http.ResponseWriter, req *http.Request) error {
	p, err := r.ownedProject(req)
	if err != nil {
		return err
	}
	list, err := r.Analyses.ListByProject(req.Context(), int64(p.ID))
	if err != nil {
		return err
	}
	return writeJSON(w, list)
}

func (r *Router) ownedProject(req *http.Request) (*domain.Project, error) {
	id, err := pathID(req)
	if err != nil {
		return nil, err
	}
	p, err := r.Projects.Get(req.Context(), domain.ID(id))
	if err != nil {
		return nil, err
	}
	if p.UserID != r.userID(req) {
		return nil, application.ErrNotFound
	}
	return p, nil
}
