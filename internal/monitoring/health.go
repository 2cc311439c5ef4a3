package monitoring

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"
)

var startTime = time.Now()

// HealthChecker tracks sweep progress for the health endpoint.
type HealthChecker struct {
	mu        sync.RWMutex
	total     int
	completed int
	errors    []string
}

type HealthStatus struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Total     int       `json:"total_runs"`
	Completed int       `json:"completed_runs"`
	Uptime    string    `json:"uptime"`
	Errors    []string  `json:"errors,omitempty"`
}

func NewHealthChecker(total int) *HealthChecker {
	return &HealthChecker{
		total:  total,
		errors: make([]string, 0),
	}
}

// MarkCompleted records one finished run, with its error if it failed.
func (h *HealthChecker) MarkCompleted(err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.completed++
	if err != nil {
		h.errors = append(h.errors, err.Error())
	}
}

func (h *HealthChecker) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	status := "healthy"
	if len(h.errors) > 0 {
		status = "degraded"
		w.WriteHeader(http.StatusInternalServerError)
	}

	health := HealthStatus{
		Status:    status,
		Timestamp: time.Now(),
		Total:     h.total,
		Completed: h.completed,
		Uptime:    time.Since(startTime).String(),
		Errors:    h.errors,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(health)
}
