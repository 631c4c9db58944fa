package handlers

import (
	"encoding/json"
	"errors"
	"io/fs"
	"net/http"
	"time"

	"composition-converter/internal/composition"
	"composition-converter/internal/logging"
	"composition-converter/internal/middleware"
)

const (
	// maxRequestBody bounds the size of a conversion request.
	maxRequestBody = 1 << 20

	// retryAfterSeconds is suggested to clients turned away under memory pressure.
	retryAfterSeconds = "5"
)

// ConvertResponse is returned by a successful conversion.
type ConvertResponse struct {
	*composition.Summary
	Elapsed string `json:"elapsed"`
}

// Convert runs one conversion described by a JSON Options body. Paths are
// resolved on the server.
func (h *Handlers) Convert(w http.ResponseWriter, r *http.Request) {
	if h.guard.Paused() {
		w.Header().Set("Retry-After", retryAfterSeconds)
		writeJSONError(w, "server is low on memory, retry later", http.StatusServiceUnavailable)
		return
	}

	var opts composition.Options
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&opts); err != nil {
		writeJSONError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	if err := opts.Validate(); err != nil {
		writeJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if composition.SamePath(opts.InputPath, opts.OutputPath) {
		writeJSONError(w, "output path must differ from input path", http.StatusBadRequest)
		return
	}

	start := time.Now()
	summary, err := composition.Convert(opts)
	elapsed := time.Since(start)
	h.journal.RecordConversion(r.Context(), opts, summary, err, elapsed)
	w.Header().Set(middleware.ConversionStatusHeader, composition.Status(err))

	if err != nil {
		code := statusForError(err)
		if code == http.StatusInternalServerError {
			logging.Error("Conversion of %s failed: %v", opts.InputPath, err)
		}
		writeJSONError(w, err.Error(), code)
		return
	}

	writeJSONStatus(w, ConvertResponse{Summary: summary, Elapsed: elapsed.String()}, http.StatusOK)
}

// statusForError maps conversion errors to HTTP status codes.
func statusForError(err error) int {
	switch {
	case errors.Is(err, composition.ErrInvalidOptions):
		return http.StatusBadRequest
	case errors.Is(err, composition.ErrRead) && errors.Is(err, fs.ErrNotExist):
		return http.StatusNotFound
	case errors.Is(err, composition.ErrRead):
		return http.StatusBadRequest
	case errors.Is(err, composition.ErrParse):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
