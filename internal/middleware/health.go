package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"time"
)

const (
	healthTimeout = 5 * time.Second
	pingTimeout   = 2 * time.Second
)

// HealthChecker is one dependency reported by /health.
type HealthChecker interface {
	Check(ctx context.Context) error
}

// CheckFunc adapts a function to HealthChecker.
type CheckFunc func(ctx context.Context) error

func (f CheckFunc) Check(ctx context.Context) error { return f(ctx) }

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// DatabaseHealthChecker pings the analysis store.
type DatabaseHealthChecker struct {
	DB Pinger
}

func (d *DatabaseHealthChecker) Check(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	return d.DB.PingContext(ctx)
}

const (
	statusHealthy   = "healthy"
	statusUnhealthy = "unhealthy"
)

// HealthStatus is the /health body.
type HealthStatus struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Checks    map[string]CheckStatus `json:"checks"`
}

type CheckStatus struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// Healthy reports whether every check passed.
func (h HealthStatus) Healthy() bool { return h.Status == statusHealthy }

// runChecks runs the checkers one after another under a shared deadline.
func runChecks(ctx context.Context, checkers map[string]HealthChecker) HealthStatus {
	out := HealthStatus{
		Status:    statusHealthy,
		Timestamp: time.Now(),
		Checks:    make(map[string]CheckStatus, len(checkers)),
	}
	for name, c := range checkers {
		err := c.Check(ctx)
		if err == nil {
			out.Checks[name] = CheckStatus{Status: statusHealthy}
			continue
		}
		out.Status = statusUnhealthy
		out.Checks[name] = CheckStatus{Status: statusUnhealthy, Message: err.Error()}
	}
	return out
}

// HealthHandler answers 200 with every check listed, or 503 as soon as one of them fails.
func HealthHandler(checkers map[string]HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
		defer cancel()

		status := runChecks(ctx, checkers)
		code := http.StatusOK
		if !status.Healthy() {
			code = http.StatusServiceUnavailable
		}
		writeHealth(w, code, status)
	}
}

// ReadinessHandler answers once the router is mounted; dependencies are covered by /health.
func ReadinessHandler(w http.ResponseWriter, r *http.Request) {
	writeHealth(w, http.StatusOK, map[string]any{
		"status":    "ready",
		"timestamp": time.Now(),
	})
}

// LivenessHandler answers a plain "ok" while the process is up.
func LivenessHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func writeHealth(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}
