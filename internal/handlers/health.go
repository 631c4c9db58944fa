package handlers

import (
	"net/http"
	"runtime"
	"time"

	"composition-converter/internal/startup"
)

const (
	statusHealthy  = "healthy"
	statusDegraded = "degraded"
)

// HealthResponse contains the health check response
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Uptime  string `json:"uptime"`

	HistoryEnabled bool   `json:"historyEnabled"`
	HistoryError   string `json:"historyError,omitempty"`
	Succeeded      int    `json:"succeeded,omitempty"`
	Failed         int    `json:"failed,omitempty"`

	MemoryPaused bool    `json:"memoryPaused"`
	MemoryUsage  float64 `json:"memoryUsage"`

	GoVersion    string `json:"goVersion"`
	NumCPU       int    `json:"numCpu"`
	NumGoroutine int    `json:"numGoroutine"`
}

// HealthCheck reports service status. A history journal that cannot be
// queried or a memory pause degrades the status but the service keeps
// answering 200, since neither makes it unhealthy.
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	response := HealthResponse{
		Status:         statusHealthy,
		Version:        startup.Version,
		Uptime:         time.Since(h.startTime).Round(time.Second).String(),
		HistoryEnabled: h.journal != nil,
		MemoryPaused:   h.guard.Paused(),
		MemoryUsage:    h.guard.Usage(),
		GoVersion:      runtime.Version(),
		NumCPU:         runtime.NumCPU(),
		NumGoroutine:   runtime.NumGoroutine(),
	}

	if response.MemoryPaused {
		response.Status = statusDegraded
	}
	if h.journal != nil {
		succeeded, failed, err := h.journal.Counts(r.Context())
		if err != nil {
			response.Status = statusDegraded
			response.HistoryError = err.Error()
		} else {
			response.Succeeded = succeeded
			response.Failed = failed
		}
	}

	w.Header().Set("Cache-Control", "no-cache")
	writeJSONStatus(w, response, http.StatusOK)
}

// LivenessCheck is a simple liveness probe (always returns 200 if server is running)
func (h *Handlers) LivenessCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	if r.Method != http.MethodHead {
		writeJSON(w, map[string]string{"status": "alive"})
	}
}
