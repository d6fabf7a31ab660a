package controller

import (
	"io"
	"net/http"

	"go.uber.org/zap"
)

const maxMultipartMemory = 32 << 20

// ImageIngester turns one uploaded file into an inline data URI
type ImageIngester interface {
	Ingest(r io.Reader) (string, error)
}

// ImageController handles device photo uploads
type ImageController struct {
	images ImageIngester
	logger *zap.Logger
}

// NewImageController creates a new ImageController
func NewImageController(images ImageIngester, logger *zap.Logger) *ImageController {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ImageController{images: images, logger: logger}
}

type imageUploadError struct {
	Filename string `json:"filename"`
	Error    string `json:"error"`
}

// Upload handles POST /admin/images (multipart form, field "files")
// Example response:
//
//	{
//	  "images": ["data:image/jpeg;base64,..."],
//	  "failed": 1,
//	  "errors": [{"filename": "notes.txt", "error": "failed to decode image: ..."}]
//	}
func (c *ImageController) Upload(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		http.Error(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		http.Error(w, "no files uploaded", http.StatusBadRequest)
		return
	}

	images := make([]string, 0, len(files))
	failures := []imageUploadError{}
	for _, fh := range files {
		f, err := fh.Open()
		if err != nil {
			failures = append(failures, imageUploadError{Filename: fh.Filename, Error: err.Error()})
			continue
		}
		uri, err := c.images.Ingest(f)
		f.Close()
		if err != nil {
			c.logger.Warn("UploadImages: skipped file", zap.String("filename", fh.Filename), zap.Error(err))
			failures = append(failures, imageUploadError{Filename: fh.Filename, Error: err.Error()})
			continue
		}
		images = append(images, uri)
	}

	c.logger.Info("UploadImages: completed", zap.Int("uploaded", len(images)), zap.Int("failed", len(failures)))
	writeJSON(w, c.logger, http.StatusOK, map[string]any{
		"images": images,
		"failed": len(failures),
		"errors": failures,
	})
}
