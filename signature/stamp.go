package signature

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image/png"
	"strings"
	"time"

	"repair-shop-quotes/models"
)

const (
	pngDataURIPrefix = "data:image/png;base64,"
	// MaxStampBytes bounds the decoded PNG size of a finalized signature
	MaxStampBytes = 2 << 20
)

var (
	ErrInvalidStamp = errors.New("invalid signature image")
	ErrEmptyName    = errors.New("typed signature name is empty")
)

// DecodeStamp validates a finalize submission and returns the stamp to persist.
// The image must be a base64 PNG data URI that decodes to a non-empty bitmap.
func DecodeStamp(req models.FinalizeSignatureRequest, now time.Time) (*models.SignatureStamp, error) {
	mode := req.Mode
	if mode == "" {
		mode = models.SignatureDrawn
	}
	if mode != models.SignatureDrawn && mode != models.SignatureTyped {
		return nil, fmt.Errorf("%w: unknown mode %q", ErrInvalidStamp, mode)
	}
	if mode == models.SignatureTyped && strings.TrimSpace(req.SignedName) == "" {
		return nil, ErrEmptyName
	}

	if !strings.HasPrefix(req.ImageData, pngDataURIPrefix) {
		return nil, fmt.Errorf("%w: expected a PNG data URI", ErrInvalidStamp)
	}
	encoded := strings.TrimPrefix(req.ImageData, pngDataURIPrefix)
	if base64.StdEncoding.DecodedLen(len(encoded)) > MaxStampBytes {
		return nil, fmt.Errorf("%w: image too large", ErrInvalidStamp)
	}
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidStamp, err)
	}
	cfg, err := png.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidStamp, err)
	}
	if cfg.Width == 0 || cfg.Height == 0 {
		return nil, fmt.Errorf("%w: empty bitmap", ErrInvalidStamp)
	}

	signedAt := now.UTC()
	if req.SignedAt != "" {
		parsed, err := parseSignedAt(req.SignedAt)
		if err != nil {
			return nil, fmt.Errorf("%w: signedAt: %v", ErrInvalidStamp, err)
		}
		signedAt = parsed
	}

	return &models.SignatureStamp{
		Mode:       mode,
		SignedName: strings.TrimSpace(req.SignedName),
		ImageData:  req.ImageData,
		Width:      cfg.Width,
		Height:     cfg.Height,
		SignedAt:   signedAt.Format(time.RFC3339),
	}, nil
}

// parseSignedAt accepts the RFC3339 timestamp or the plain date written into the date box
func parseSignedAt(v string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t.UTC(), nil
	}
	return time.Parse(time.DateOnly, v)
}
