// Package translatorapi exposes the guarded translation service over
// HTTP. It is a separate listener from the bot API so the two can be
// deployed and scaled independently.
package translatorapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/ampdesk/ampdesk/internal/core/domain"
	"github.com/ampdesk/ampdesk/internal/core/ports/driving"
	"github.com/ampdesk/ampdesk/internal/logger"
)

// Server is the translator HTTP API.
type Server struct {
	translate driving.TranslateService
	version   string
	started   time.Time
}

// NewServer creates a new translator API server.
func NewServer(translate driving.TranslateService, version string) *Server {
	return &Server{
		translate: translate,
		version:   version,
		started:   time.Now(),
	}
}

// Handler builds the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealthz)
	mux.HandleFunc("GET /version", s.handleVersion)
	mux.HandleFunc("POST /translate", s.handleTranslate)
	return mux
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"service":  "ampdesk-translator",
		"version":  s.version,
		"uptime_s": time.Since(s.started).Round(10 * time.Millisecond).Seconds(),
	})
}

func (s *Server) handleVersion(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"version": s.version})
}

type translateBody struct {
	Text       string `json:"text"`
	TargetLang string `json:"target_lang"`
	SourceLang string `json:"source_lang,omitempty"`
}

type translateResponse struct {
	TranslatedText string `json:"translated_text"`
}

func (s *Server) handleTranslate(w http.ResponseWriter, r *http.Request) {
	var body translateBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, r, fmt.Errorf("%w: invalid JSON body: %v", domain.ErrInvalidInput, err))
		return
	}

	translated, err := s.translate.Translate(r.Context(), driving.TranslateRequest{
		Text:       body.Text,
		TargetLang: body.TargetLang,
		SourceLang: body.SourceLang,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, translateResponse{TranslatedText: translated})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error("encoding response: %v", err)
	}
}

// writeError maps guardrail errors to HTTP status codes: bad targets
// and rejected output are the caller's problem (400), oversized text
// is 413, model failures are 502.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrOutputRejected):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrTextTooLarge):
		status = http.StatusRequestEntityTooLarge
	case errors.Is(err, domain.ErrUpstream):
		status = http.StatusBadGateway
	}

	if status == http.StatusInternalServerError {
		logger.Error("%s %s failed: %v", r.Method, r.URL.Path, err)
	}
	writeJSON(w, status, map[string]string{"detail": err.Error()})
}
