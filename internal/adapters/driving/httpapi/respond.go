package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/ampdesk/ampdesk/internal/core/domain"
	"github.com/ampdesk/ampdesk/internal/logger"
)

// errorResponse is the uniform error body.
type errorResponse struct {
	Detail string `json:"detail"`
}

// decodeJSON parses a request body, mapping malformed JSON to
// ErrInvalidInput.
func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("%w: invalid JSON body: %v", domain.ErrInvalidInput, err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error("encoding response: %v", err)
	}
}

// writeError maps domain errors to HTTP status codes.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrOutputRejected):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrIngestInProgress):
		status = http.StatusConflict
	case errors.Is(err, domain.ErrTextTooLarge):
		status = http.StatusRequestEntityTooLarge
	case errors.Is(err, domain.ErrUpstream), errors.Is(err, domain.ErrEmbeddingFailed):
		status = http.StatusBadGateway
	}

	if status == http.StatusInternalServerError {
		logger.Error("%s %s failed: %v", r.Method, r.URL.Path, err)
	} else {
		logger.Debug("%s %s rejected (%d): %v", r.Method, r.URL.Path, status, err)
	}
	writeJSON(w, status, errorResponse{Detail: err.Error()})
}
