// Package httpapi exposes the support bot over HTTP: knowledge-base
// ingestion and lifecycle plus the chat endpoints.
package httpapi

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/ampdesk/ampdesk/internal/core/domain"
	"github.com/ampdesk/ampdesk/internal/core/ports/driving"
)

// maxUploadBytes caps one multipart ingestion request.
const maxUploadBytes = 256 << 20

// Server is the support-bot HTTP API.
type Server struct {
	ingest     driving.IngestService
	kb         driving.KnowledgeBaseService
	chat       driving.ChatService
	uploadsDir string
	version    string
	started    time.Time
}

// NewServer creates a new bot API server.
func NewServer(
	ingest driving.IngestService,
	kb driving.KnowledgeBaseService,
	chat driving.ChatService,
	uploadsDir string,
	version string,
) *Server {
	return &Server{
		ingest:     ingest,
		kb:         kb,
		chat:       chat,
		uploadsDir: uploadsDir,
		version:    version,
		started:    time.Now(),
	}
}

// Handler builds the route table with the standard middleware chain.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", s.handleHealthz)
	mux.HandleFunc("GET /version", s.handleVersion)

	mux.HandleFunc("POST /knowledge-base/document/add", s.handleKBAdd)
	mux.HandleFunc("GET /knowledge-base/list", s.handleKBList)
	mux.HandleFunc("GET /knowledge-base/list-by-id/{kb_id}", s.handleKBDetail)
	mux.HandleFunc("POST /knowledge-base/delete/{kb_id}", s.handleKBDelete)

	mux.HandleFunc("POST /chat/start", s.handleChatStart)
	mux.HandleFunc("POST /chat/reply", s.handleChatReply)
	mux.HandleFunc("GET /chat/{chat_id}", s.handleChatHistory)

	return withRequestID(withCORS(withLogging(mux)))
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"uptime_s": time.Since(s.started).Round(10 * time.Millisecond).Seconds(),
	})
}

func (s *Server) handleVersion(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"version": s.version})
}

// handleKBAdd accepts a multipart form with a folder_name field and
// one or more files, materializes the files under the uploads dir, and
// runs ingestion over them.
func (s *Server) handleKBAdd(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, r, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err))
		return
	}
	defer r.MultipartForm.RemoveAll()

	folder := r.FormValue("folder_name")
	if folder == "" {
		writeError(w, r, fmt.Errorf("%w: folder_name is required", domain.ErrInvalidInput))
		return
	}
	uploads := r.MultipartForm.File["files"]
	if len(uploads) == 0 {
		writeError(w, r, fmt.Errorf("%w: no files uploaded", domain.ErrInvalidInput))
		return
	}

	saved, err := s.saveUploads(folder, uploads)
	if err != nil {
		writeError(w, r, err)
		return
	}

	results, fileErrs, err := s.ingest.IngestFiles(r.Context(), saved)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Files uploaded and ingested successfully",
		"results": results,
		"errors":  errorStrings(fileErrs),
	})
}

// saveUploads writes the uploaded files under uploadsDir/folder using
// each upload's base filename.
func (s *Server) saveUploads(folder string, uploads []*multipart.FileHeader) ([]string, error) {
	dir := filepath.Join(s.uploadsDir, filepath.Base(folder))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	saved := make([]string, 0, len(uploads))
	for _, upload := range uploads {
		src, err := upload.Open()
		if err != nil {
			return nil, err
		}

		path := filepath.Join(dir, filepath.Base(upload.Filename))
		dst, err := os.Create(path)
		if err != nil {
			src.Close()
			return nil, err
		}
		if _, err := io.Copy(dst, src); err != nil {
			dst.Close()
			src.Close()
			return nil, err
		}
		dst.Close()
		src.Close()
		saved = append(saved, path)
	}
	return saved, nil
}

func (s *Server) handleKBList(w http.ResponseWriter, r *http.Request) {
	summaries, err := s.kb.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	if summaries == nil {
		summaries = []domain.KBSummary{}
	}
	writeJSON(w, http.StatusOK, summaries)
}

func (s *Server) handleKBDetail(w http.ResponseWriter, r *http.Request) {
	detail, err := s.kb.Detail(r.Context(), r.PathValue("kb_id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

func (s *Server) handleKBDelete(w http.ResponseWriter, r *http.Request) {
	kbID := r.PathValue("kb_id")
	changed, err := s.kb.SoftDelete(r.Context(), kbID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"kb_id":   kbID,
		"deleted": true,
		"mode":    "soft",
		"changed": changed,
	})
}

type chatStartBody struct {
	Message string `json:"message"`
}

func (s *Server) handleChatStart(w http.ResponseWriter, r *http.Request) {
	var body chatStartBody
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, r, err)
		return
	}
	if body.Message == "" {
		writeError(w, r, fmt.Errorf("%w: message is required", domain.ErrInvalidInput))
		return
	}

	reply, err := s.chat.Start(r.Context(), body.Message)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, reply)
}

type chatReplyBody struct {
	ChatID  string `json:"chat_id"`
	Message string `json:"message"`
}

func (s *Server) handleChatReply(w http.ResponseWriter, r *http.Request) {
	var body chatReplyBody
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, r, err)
		return
	}
	if body.ChatID == "" || body.Message == "" {
		writeError(w, r, fmt.Errorf("%w: chat_id and message are required", domain.ErrInvalidInput))
		return
	}

	reply, err := s.chat.Reply(r.Context(), body.ChatID, body.Message)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, reply)
}

func (s *Server) handleChatHistory(w http.ResponseWriter, r *http.Request) {
	chatID := r.PathValue("chat_id")
	messages, err := s.chat.History(r.Context(), chatID, 50)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if messages == nil {
		messages = []domain.ChatMessage{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"chat_id":  chatID,
		"messages": messages,
	})
}

// errorStrings flattens the per-file error slice for the response
// body, keeping nils as empty strings so indexes still line up with
// the uploaded files.
func errorStrings(errs []error) []string {
	out := make([]string, len(errs))
	for i, err := range errs {
		if err != nil {
			out[i] = err.Error()
		}
	}
	return out
}

// Run serves the API until the context is cancelled, then shuts down
// gracefully.
func Run(ctx context.Context, addr string, handler http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
