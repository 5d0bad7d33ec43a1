package v1

import (
	"encoding/json"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Attachments (CVs, scans) bypass the JSON API layer: multipart bodies are
// handled with plain chi handlers, gated by the same middleware chain.

const maxUploadSize = 20 << 20 // 20 MiB

var allowedUploadExts = map[string]bool{
	".pdf":  true,
	".doc":  true,
	".docx": true,
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

// UploadHandler accepts one multipart file under the "file" field and stores
// it in dir under a generated name, keeping only the original extension.
func UploadHandler(dir string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)

		file, header, err := r.FormFile("file")
		if err != nil {
			writeUploadError(w, http.StatusBadRequest, "missing file field")
			return
		}
		defer file.Close()

		ext := strings.ToLower(filepath.Ext(header.Filename))
		if !allowedUploadExts[ext] {
			writeUploadError(w, http.StatusUnprocessableEntity, "file type not allowed")
			return
		}

		name := uuid.NewString() + ext
		dst, err := os.Create(filepath.Join(dir, name))
		if err != nil {
			log.Error().Err(err).Msg("uploads: create file")
			writeUploadError(w, http.StatusInternalServerError, "failed to store file")
			return
		}
		defer dst.Close()

		if _, err := io.Copy(dst, file); err != nil {
			log.Error().Err(err).Msg("uploads: write file")
			writeUploadError(w, http.StatusInternalServerError, "failed to store file")
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"filename": name,
			"url":      "/uploads/" + name,
		})
	}
}

// ServeUploadHandler streams a previously stored file. The generated names
// contain no separators, so a simple base-name check keeps requests inside
// the upload directory.
func ServeUploadHandler(dir string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := filepath.Base(strings.TrimPrefix(r.URL.Path, "/uploads/"))
		if name == "." || name == "/" {
			writeUploadError(w, http.StatusNotFound, "not found")
			return
		}
		http.ServeFile(w, r, filepath.Join(dir, name))
	}
}

func writeUploadError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"title":  http.StatusText(status),
		"status": status,
		"detail": msg,
	})
}
