package handlers

import (
	"net/http"
	"strconv"

	"composition-converter/internal/history"
	"composition-converter/internal/logging"
)

// maxHistoryLimit caps the limit query parameter.
const maxHistoryLimit = 1000

// History lists recent journal entries, newest first. With the journal
// disabled it returns an empty list.
func (h *Handlers) History(w http.ResponseWriter, r *http.Request) {
	limit := history.DefaultListLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeJSONError(w, "limit must be a positive integer", http.StatusBadRequest)
			return
		}
		limit = min(n, maxHistoryLimit)
	}

	entries := []history.Entry{}
	if h.journal != nil {
		listed, err := h.journal.List(r.Context(), limit)
		if err != nil {
			logging.Error("Failed to list history: %v", err)
			writeJSONError(w, "failed to read history", http.StatusInternalServerError)
			return
		}
		if listed != nil {
			entries = listed
		}
	}

	writeJSONStatus(w, entries, http.StatusOK)
}
