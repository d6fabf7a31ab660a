package service

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"github.com/disintegration/imaging"
	"go.uber.org/zap"
)

const (
	// Quality setting
	qualityPhoto = 80
	// Size settings (max dimension)
	maxSizePhoto = 1200
	// Uploads larger than this are rejected
	maxUploadBytes = 15 << 20
)

// ErrImageTooLarge is returned when an upload exceeds the size limit
var ErrImageTooLarge = errors.New("image exceeds the upload limit")

// ImageService normalizes uploaded device photos into inline data URIs
type ImageService struct {
	maxDim  int
	quality int
	logger  *zap.Logger
}

// NewImageService creates an image service with the default size and quality
func NewImageService(logger *zap.Logger) *ImageService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ImageService{maxDim: maxSizePhoto, quality: qualityPhoto, logger: logger}
}

// Ingest decodes one uploaded file (PNG, JPEG, GIF, ...), applies EXIF
// orientation, shrinks it to fit the max dimension and returns a JPEG data URI
func (s *ImageService) Ingest(r io.Reader) (string, error) {
	raw, err := io.ReadAll(io.LimitReader(r, maxUploadBytes+1))
	if err != nil {
		return "", fmt.Errorf("failed to read image: %w", err)
	}
	if len(raw) > maxUploadBytes {
		return "", ErrImageTooLarge
	}

	img, err := imaging.Decode(bytes.NewReader(raw), imaging.AutoOrientation(true))
	if err != nil {
		return "", fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width > s.maxDim || height > s.maxDim {
		s.logger.Debug("IngestImage: resizing",
			zap.Int("width", width), zap.Int("height", height), zap.Int("maxDim", s.maxDim))
		img = imaging.Fit(img, s.maxDim, s.maxDim, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(s.quality)); err != nil {
		return "", fmt.Errorf("failed to encode to JPEG: %w", err)
	}

	s.logger.Debug("IngestImage: optimized", zap.Int("inputBytes", len(raw)), zap.Int("outputBytes", buf.Len()))
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
