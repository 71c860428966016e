package controllers

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// UploadController stores product images under a fixed directory and hands
// back a relative URL.
type UploadController struct {
	Dir string
	Log *logrus.Logger
}

// NewUploadController creates an UploadController, ensuring the upload
// directory exists.
func NewUploadController(dir string, log *logrus.Logger) (*UploadController, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &UploadController{Dir: dir, Log: log}, nil
}

// Upload accepts a single multipart image file. Non-image content types are
// rejected. Filenames are millisecond timestamps plus the original
// extension; two uploads in the same millisecond is an accepted risk.
func (uc *UploadController) Upload(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile("image")
	if err != nil {
		respondError(w, http.StatusBadRequest, "No file uploaded")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		respondError(w, http.StatusBadRequest, "Only images are allowed")
		return
	}

	filename := fmt.Sprintf("%d%s", time.Now().UnixMilli(), filepath.Ext(header.Filename))
	dst, err := os.Create(filepath.Join(uc.Dir, filename))
	if err != nil {
		uc.Log.WithError(err).Error("upload: create failed")
		respondError(w, http.StatusInternalServerError, "Failed to save file")
		return
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		uc.Log.WithError(err).Error("upload: write failed")
		respondError(w, http.StatusInternalServerError, "Failed to save file")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"message":  "File uploaded successfully",
		"filename": filename,
		"url":      "/uploads/" + filename,
	})
}

// ServeUploads returns a handler serving stored images with a one-year
// cache directive and a no-sniff header.
func (uc *UploadController) ServeUploads() http.Handler {
	fs := http.StripPrefix("/uploads/", http.FileServer(http.Dir(uc.Dir)))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "public, max-age=31536000")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		fs.ServeHTTP(w, r)
	})
}
