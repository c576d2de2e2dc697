package middleware

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"os"
	"time"
)

// HealthChecker defines health check interface
type HealthChecker interface {
	Check(ctx context.Context) error
	Name() string
}

// DatabaseHealthChecker pings the backing database.
type DatabaseHealthChecker struct {
	db *sql.DB
}

func NewDatabaseHealthChecker(db *sql.DB) *DatabaseHealthChecker {
	return &DatabaseHealthChecker{db: db}
}

func (h *DatabaseHealthChecker) Check(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return h.db.PingContext(ctx)
}

func (h *DatabaseHealthChecker) Name() string {
	return "database"
}

// TemplateHealthChecker verifies the workbook template is still on disk.
// Analyses cannot run without it, so its absence makes the service unhealthy.
type TemplateHealthChecker struct {
	path string
}

func NewTemplateHealthChecker(path string) *TemplateHealthChecker {
	return &TemplateHealthChecker{path: path}
}

func (h *TemplateHealthChecker) Check(ctx context.Context) error {
	_, err := os.Stat(h.path)
	return err
}

func (h *TemplateHealthChecker) Name() string {
	return "template"
}

// HealthResponse is the health check response
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
	Time   time.Time         `json:"time"`
}

// HealthHandler runs every checker and reports aggregate status.
func HealthHandler(checkers ...HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := HealthResponse{
			Status: "ok",
			Checks: make(map[string]string),
			Time:   time.Now(),
		}

		status := http.StatusOK
		for _, checker := range checkers {
			if err := checker.Check(r.Context()); err != nil {
				resp.Status = "degraded"
				resp.Checks[checker.Name()] = err.Error()
				status = http.StatusServiceUnavailable
			} else {
				resp.Checks[checker.Name()] = "ok"
			}
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(resp)
	}
}
