package controller

import (
	"net/http"

	"go.uber.org/zap"

	"repair-shop-quotes/models"
	"repair-shop-quotes/service"
)

// ExportController handles HTTP requests for quote exports
type ExportController struct {
	service service.QuoteServiceInterface
	logger  *zap.Logger
}

// NewExportController creates a new ExportController
func NewExportController(svc service.QuoteServiceInterface, logger *zap.Logger) *ExportController {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportController{service: svc, logger: logger}
}

// Export handles POST /admin/quotes/export
// Example request:
// POST /admin/quotes/export
//
//	{
//	  "quoteId": "b9f1...",
//	  "filenameBase": ""
//	}
//
// Example response (native):
//
//	{
//	  "mode": "native",
//	  "ok": true,
//	  "filePath": "/var/quotes/Quote_Dana_Ruiz_2026-01-04.pdf"
//	}
func (c *ExportController) Export(w http.ResponseWriter, r *http.Request) {
	c.logger.Debug("Export: received request", zap.String("method", r.Method), zap.String("path", r.URL.Path))
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	var req models.ExportRequest
	if err := decodeJSON(w, r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	res, err := c.service.Export(r.Context(), req)
	if err != nil {
		writeError(w, c.logger, "Export", err)
		return
	}

	switch {
	case res.Canceled:
		c.logger.Info("Export: cancelled by user")
	case res.OK:
		c.logger.Info("Export: completed", zap.String("mode", res.Mode), zap.String("filePath", res.FilePath))
	default:
		c.logger.Warn("Export: fell back to preview", zap.String("message", res.Message))
	}
	writeJSON(w, c.logger, http.StatusOK, res)
}

// List handles GET /admin/exports[?quoteId=...]
func (c *ExportController) List(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}
	records, err := c.service.Exports(r.Context(), r.URL.Query().Get("quoteId"))
	if err != nil {
		writeError(w, c.logger, "ListExports", err)
		return
	}
	if records == nil {
		records = []models.ExportRecord{}
	}
	writeJSON(w, c.logger, http.StatusOK, map[string]any{"exports": records})
}
