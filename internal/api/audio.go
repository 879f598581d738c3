package api

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
)

const (
	audioDir       = "Audio"
	maxUploadBytes = 200 << 20 // voice memos can run long
)

// allowed audio extensions, matching what the recorder produces.
var audioExts = map[string]struct{}{
	".m4a":  {},
	".mp3":  {},
	".wav":  {},
	".aac":  {},
	".flac": {},
	".ogg":  {},
}

// AudioHandler serves and accepts entry audio recordings. Uploaded
// filenames are referenced from entry frontmatter via audio_attachments.
type AudioHandler struct {
	vaultRoot string
}

// NewAudioHandler creates a handler rooted at the vault directory.
func NewAudioHandler(vaultRoot string) *AudioHandler {
	return &AudioHandler{vaultRoot: vaultRoot}
}

func (h *AudioHandler) audioPath() string {
	return filepath.Join(h.vaultRoot, audioDir)
}

// safeName validates that the filename is a plain audio file name (no path
// separators, no traversal) and returns the absolute path under Audio/.
func (h *AudioHandler) safeName(name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("filename is required")
	}
	cleaned := filepath.Clean(name)
	if cleaned != filepath.Base(cleaned) || strings.Contains(cleaned, "..") {
		return "", fmt.Errorf("invalid filename: %s", name)
	}
	if _, ok := audioExts[strings.ToLower(filepath.Ext(cleaned))]; !ok {
		return "", fmt.Errorf("unsupported audio format: %s", filepath.Ext(cleaned))
	}
	abs := filepath.Join(h.audioPath(), cleaned)
	if !strings.HasPrefix(abs, h.audioPath()+string(os.PathSeparator)) && abs != h.audioPath() {
		return "", fmt.Errorf("path escapes audio directory")
	}
	return abs, nil
}

// ServeFile handles GET /audio/{filename}.
func (h *AudioHandler) ServeFile(w http.ResponseWriter, r *http.Request) {
	filename := chi.URLParam(r, "filename")
	abs, err := h.safeName(filename)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if _, statErr := os.Stat(abs); os.IsNotExist(statErr) {
		http.NotFound(w, r)
		return
	}
	http.ServeFile(w, r, abs)
}

// Upload handles POST /api/audio (multipart/form-data, field "file").
func (h *AudioHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("file too large or invalid multipart"))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("missing 'file' field in multipart form"))
		return
	}
	defer file.Close()

	abs, err := h.safeName(header.Filename)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}

	if err := os.MkdirAll(h.audioPath(), 0o755); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorBody("failed to create audio dir"))
		return
	}

	dst, err := os.Create(abs)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorBody("failed to create file"))
		return
	}
	defer dst.Close()

	written, err := io.Copy(dst, file)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorBody("failed to write file"))
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"filename": header.Filename,
		"size":     written,
		"url":      "/audio/" + header.Filename,
	})
}
