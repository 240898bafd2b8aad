package httpapi

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mpfc/securebanking/internal/server/models"
	"github.com/mpfc/securebanking/internal/server/services"
)

// maxUploadBytes caps a single multipart upload.
const maxUploadBytes = 32 << 20

type FilesHandler struct {
	files *services.FileService
}

func NewFilesHandler(files *services.FileService) *FilesHandler {
	return &FilesHandler{files: files}
}

type fileMetadata struct {
	ID          string    `json:"id"`
	FileName    string    `json:"file_name"`
	ContentType string    `json:"content_type"`
	SizeBytes   int64     `json:"size_bytes"`
	Uploader    string    `json:"uploader"`
	UploadedAt  time.Time `json:"uploaded_at"`
	Algorithm   string    `json:"algorithm"`
	Checksum    string    `json:"checksum"`
}

func toMetadata(f *models.FileRecord) fileMetadata {
	return fileMetadata{
		ID:          f.ID,
		FileName:    f.FileName,
		ContentType: f.ContentType,
		SizeBytes:   f.SizeBytes,
		Uploader:    f.Uploader,
		UploadedAt:  f.UploadedAt,
		Algorithm:   f.Algorithm,
		Checksum:    f.Checksum,
	}
}

// Upload ingests a multipart "file" part through the encryption pipeline and
// returns the stored record's metadata.
func (h *FilesHandler) Upload(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "multipart field \"file\" is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		http.Error(w, "error reading upload", http.StatusBadRequest)
		return
	}

	saved, err := h.files.Upload(r.Context(), claims.Username, services.UploadCandidate{
		FileName:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(toMetadata(saved))
}

// List returns metadata for every stored file.
func (h *FilesHandler) List(w http.ResponseWriter, r *http.Request) {
	records, err := h.files.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]fileMetadata, 0, len(records))
	for _, f := range records {
		out = append(out, toMetadata(f))
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(out)
}

// Download decrypts one stored file and streams the plaintext back with its
// original name and declared content type.
func (h *FilesHandler) Download(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	id := chi.URLParam(r, "id")
	record, plaintext, err := h.files.Download(r.Context(), claims.Username, id)
	if err != nil {
		writeError(w, err)
		return
	}

	contentType := record.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", record.FileName))
	_, _ = w.Write(plaintext)
}
