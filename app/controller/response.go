package controller

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"repair-shop-quotes/models"
	"repair-shop-quotes/repository"
	"repair-shop-quotes/service"
	"repair-shop-quotes/signature"
)

// StatusDismissAfterMs is how long the UI shows a status banner
const StatusDismissAfterMs = 4000

const maxBodyBytes = 32 << 20

// validationResponse is the 422 payload that keeps the UI's action disabled
type validationResponse struct {
	models.StatusMessage
	Fields []service.FieldError `json:"fields"`
}

func writeJSON(w http.ResponseWriter, logger *zap.Logger, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("Response: failed to encode", zap.Error(err))
	}
}

func writeHTML(w http.ResponseWriter, status int, html string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(html))
}

// writeStatus writes the auto-dismissing banner payload
func writeStatus(w http.ResponseWriter, logger *zap.Logger, status int, message string) {
	state := "ok"
	if status >= http.StatusBadRequest {
		state = "error"
	}
	writeJSON(w, logger, status, models.StatusMessage{Status: state, Message: message, DismissAfterMs: StatusDismissAfterMs})
}

// writeError maps a service error to its status code and banner
func writeError(w http.ResponseWriter, logger *zap.Logger, op string, err error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		logger.Info(op+": validation failed", zap.Int("fields", len(verr.Fields)))
		writeJSON(w, logger, http.StatusUnprocessableEntity, validationResponse{
			StatusMessage: models.StatusMessage{Status: "error", Message: "Please fix the highlighted fields.", DismissAfterMs: StatusDismissAfterMs},
			Fields:        verr.Fields,
		})
	case errors.Is(err, repository.ErrNotFound):
		writeStatus(w, logger, http.StatusNotFound, "Quote not found.")
	case errors.Is(err, signature.ErrInvalidStamp), errors.Is(err, signature.ErrEmptyName):
		writeStatus(w, logger, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, service.ErrMailerDisabled):
		writeStatus(w, logger, http.StatusServiceUnavailable, "Email is not configured.")
	case errors.Is(err, service.ErrDraftKeyRequired):
		writeStatus(w, logger, http.StatusBadRequest, err.Error())
	default:
		logger.Error(op+": failed", zap.Error(err))
		writeStatus(w, logger, http.StatusInternalServerError, fmt.Sprintf("%s failed: %v", op, err))
	}
}

// decodeJSON reads a bounded JSON request body
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

func allowMethod(w http.ResponseWriter, r *http.Request, methods ...string) bool {
	for _, m := range methods {
		if r.Method == m {
			return true
		}
	}
	http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	return false
}
