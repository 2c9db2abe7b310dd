package http

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// maxUploadBytes caps a single photo upload at 10 MiB.
const maxUploadBytes = 10 << 20

type UploadHandler struct {
	dir       string
	now       func() time.Time
	responder responder
	logger    *slog.Logger
}

func NewUploadHandler(dir string, now func() time.Time, logger *slog.Logger) *UploadHandler {
	if now == nil {
		now = time.Now
	}
	base := defaultLogger(logger)
	return &UploadHandler{dir: dir, now: now, responder: newResponder(base), logger: base}
}

func (h *UploadHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "UploadHandler", operation, attrs...)
}

// Upload stores the "photo" part of a multipart form under the upload
// directory and returns the public URL the file is served from. The stored
// name is derived from the upload instant, never from the client name.
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if h == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	logger := h.log(r.Context(), "Upload", "principal_id", principal.UserID)

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	file, header, err := r.FormFile("photo")
	if err != nil {
		logger.ErrorContext(r.Context(), "missing photo in upload", "error", err, "error_kind", "bad_request")
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errMissingPhoto)
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	name := fmt.Sprintf("%d%s", h.now().UnixMilli(), ext)
	destination := filepath.Join(h.dir, name)

	out, err := os.Create(destination)
	if err != nil {
		logger.ErrorContext(r.Context(), "failed to create upload file", "error", err, "path", destination)
		h.responder.writeError(r.Context(), w, http.StatusInternalServerError, errUploadRejected)
		return
	}
	defer out.Close()

	if _, err := io.Copy(out, file); err != nil {
		logger.ErrorContext(r.Context(), "failed to write upload file", "error", err, "path", destination)
		_ = os.Remove(destination)
		h.responder.writeError(r.Context(), w, http.StatusInternalServerError, errUploadRejected)
		return
	}

	url := fmt.Sprintf("%s://%s/uploads/%s", requestScheme(r), r.Host, name)
	logger.With("file", name, "size", header.Size).InfoContext(r.Context(), "photo uploaded")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, uploadResponse{URL: url})
}

type uploadResponse struct {
	URL string `json:"url"`
}

func requestScheme(r *http.Request) string {
	if r.TLS != nil {
		return "https"
	}
	if forwarded := r.Header.Get("X-Forwarded-Proto"); forwarded != "" {
		return forwarded
	}
	return "http"
}
