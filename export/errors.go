// Package export produces the quote PDF on the native path (headless Chrome)
// and the self-contained interactive document on the browser path.
package export

import (
	"context"
	"errors"
)

// Error codes for export failures
const (
	ErrCodeRenderFailed       = "RENDER_FAILED"
	ErrCodeRenderTimeout      = "RENDER_TIMEOUT"
	ErrCodeCanceled           = "CANCELED"
	ErrCodeSaveFailed         = "SAVE_FAILED"
	ErrCodeLibraryUnavailable = "LIBRARY_UNAVAILABLE"
)

// ExportError represents a failure of one export step
type ExportError struct {
	Code    string
	Message string
	Cause   error
}

func (e *ExportError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *ExportError) Unwrap() error {
	return e.Cause
}

// NewExportError creates a new ExportError
func NewExportError(code, message string, cause error) *ExportError {
	return &ExportError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// Code returns the export error code of err, or "" when err is not an ExportError
func Code(err error) string {
	var exportErr *ExportError
	if errors.As(err, &exportErr) {
		return exportErr.Code
	}
	return ""
}

// IsCanceled reports whether err is a user or caller cancellation
func IsCanceled(err error) bool {
	return Code(err) == ErrCodeCanceled || errors.Is(err, context.Canceled)
}
