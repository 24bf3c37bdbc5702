package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/ignite/newsletter/internal/pkg/httputil"
)

// HealthStatus represents the overall health of the system.
type HealthStatus struct {
	Status  string                    `json:"status"` // "healthy", "degraded", "unhealthy"
	Version string                    `json:"version"`
	Uptime  string                    `json:"uptime"`
	Checks  map[string]ComponentCheck `json:"checks"`
}

// ComponentCheck represents the health of a single component.
type ComponentCheck struct {
	Status  string `json:"status"` // "up", "down", "degraded"
	Latency string `json:"latency,omitempty"`
	Message string `json:"message,omitempty"`
}

// HealthChecker reports liveness and database readiness.
type HealthChecker struct {
	db        Pinger
	version   string
	startTime time.Time
	rs        *httputil.Responder
}

// NewHealthChecker creates a new HealthChecker. db may be nil; readiness then
// reports the database as not configured.
func NewHealthChecker(db Pinger, version string, rs *httputil.Responder) *HealthChecker {
	return &HealthChecker{
		db:        db,
		version:   version,
		startTime: time.Now(),
		rs:        rs,
	}
}

// HandleHealthCheck is the liveness probe: 200 with an empty body while the
// process is serving.
//
//	GET /health_check
func (hc *HealthChecker) HandleHealthCheck(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// HandleHealth returns component status. Always 200; the body conveys health.
// Use /health/ready for probes that need HTTP 503 on failure.
//
//	GET /health
func (hc *HealthChecker) HandleHealth(w http.ResponseWriter, r *http.Request) {
	checks := map[string]ComponentCheck{"database": hc.checkDatabase(r.Context())}
	hc.rs.OK(w, HealthStatus{
		Status:  determineOverallStatus(checks),
		Version: hc.version,
		Uptime:  time.Since(hc.startTime).Round(time.Second).String(),
		Checks:  checks,
	})
}

// HandleReadiness returns 200 only when the database answers a ping.
//
//	GET /health/ready
func (hc *HealthChecker) HandleReadiness(w http.ResponseWriter, r *http.Request) {
	checks := map[string]ComponentCheck{"database": hc.checkDatabase(r.Context())}
	overall := determineOverallStatus(checks)

	body := map[string]any{
		"ready":  overall != "unhealthy",
		"status": overall,
		"checks": checks,
	}
	if overall == "unhealthy" {
		hc.rs.ServiceUnavailable(w, body)
		return
	}
	hc.rs.OK(w, body)
}

// checkDatabase pings PostgreSQL with a 3-second timeout. The ping error is
// not included in the response.
func (hc *HealthChecker) checkDatabase(ctx context.Context) ComponentCheck {
	if hc.db == nil {
		return ComponentCheck{Status: "down", Message: "not configured"}
	}

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	start := time.Now()
	err := hc.db.Ping(pingCtx)
	latency := time.Since(start)

	if err != nil {
		return ComponentCheck{
			Status:  "down",
			Latency: latency.String(),
			Message: "ping failed",
		}
	}

	if latency > time.Second {
		return ComponentCheck{
			Status:  "degraded",
			Latency: latency.String(),
			Message: fmt.Sprintf("slow response (%s)", latency),
		}
	}
	return ComponentCheck{Status: "up", Latency: latency.String(), Message: "connected"}
}

// determineOverallStatus derives the aggregate status from individual checks.
//
// Rules:
//   - "unhealthy" if the database is configured and down
//   - "degraded"  if any check is degraded
//   - "healthy"   otherwise
func determineOverallStatus(checks map[string]ComponentCheck) string {
	if db, ok := checks["database"]; ok && db.Status == "down" && db.Message != "not configured" {
		return "unhealthy"
	}
	for _, c := range checks {
		if c.Status == "degraded" {
			return "degraded"
		}
	}
	return "healthy"
}
