package httpserver

import "net/http"

// GET /api/stats
func (r *Router) handleStats(w http.ResponseWriter, req *http.Request) error {
	stats, err := r.Stats.Summary(req.Context(), r.userID(req))
	if err != nil {
		return err
	}
	return writeJSON(w, stats)
}

// GET /api/user
func (r *Router) handleUser(w http.ResponseWriter, req *http.Request) error {
	u, err := r.Users.Get(req.Context(), r.userID(req))
	if err != nil {
		return err
	}
	return writeJSON(w, u)
}
