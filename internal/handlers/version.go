package handlers

import (
	"net/http"

	"composition-converter/internal/startup"
)

// GetVersion returns the application version and build information
func (h *Handlers) GetVersion(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Cache-Control", "no-cache")
	writeJSONStatus(w, startup.GetBuildInfo(), http.StatusOK)
}
