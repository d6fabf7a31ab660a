package controller

import (
	"net/http"

	"go.uber.org/zap"

	"repair-shop-quotes/models"
	"repair-shop-quotes/service"
)

// QuoteController handles HTTP requests for quotes
type QuoteController struct {
	service service.QuoteServiceInterface
	logger  *zap.Logger
}

// NewQuoteController creates a new QuoteController
func NewQuoteController(svc service.QuoteServiceInterface, logger *zap.Logger) *QuoteController {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &QuoteController{service: svc, logger: logger}
}

// Quotes handles GET|POST /admin/quotes
// POST body: {"id": "", "cart": {...}}; an id updates that quote in place.
func (c *QuoteController) Quotes(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		quotes, err := c.service.List(r.Context())
		if err != nil {
			writeError(w, c.logger, "ListQuotes", err)
			return
		}
		if quotes == nil {
			quotes = []models.Quote{}
		}
		writeJSON(w, c.logger, http.StatusOK, models.QuoteListResponse{Quotes: quotes})
	case http.MethodPost:
		var req models.SaveQuoteRequest
		if err := decodeJSON(w, r, &req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		q, err := c.service.Save(r.Context(), req)
		if err != nil {
			writeError(w, c.logger, "SaveQuote", err)
			return
		}
		status := http.StatusOK
		if req.ID == "" {
			status = http.StatusCreated
		}
		writeJSON(w, c.logger, status, q)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// GetQuote handles GET /admin/quotes/{id}
func (c *QuoteController) GetQuote(w http.ResponseWriter, r *http.Request, id string) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}
	q, err := c.service.Get(r.Context(), id)
	if err != nil {
		writeError(w, c.logger, "GetQuote", err)
		return
	}
	writeJSON(w, c.logger, http.StatusOK, q)
}

// Draft handles POST|DELETE /admin/quotes/draft?key=...
// Each POST restarts the autosave timer of the draft; DELETE cancels it when the editor closes.
func (c *QuoteController) Draft(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("key")
	switch r.Method {
	case http.MethodPost:
		var cart models.Cart
		if err := decodeJSON(w, r, &cart); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		pending, err := c.service.Draft(key, cart)
		if err != nil {
			writeError(w, c.logger, "Draft", err)
			return
		}
		writeJSON(w, c.logger, http.StatusAccepted, map[string]any{"key": key, "pending": pending})
	case http.MethodDelete:
		cancelled, err := c.service.DiscardDraft(key)
		if err != nil {
			writeError(w, c.logger, "DiscardDraft", err)
			return
		}
		writeJSON(w, c.logger, http.StatusOK, map[string]any{"key": key, "cancelled": cancelled})
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// Pricing handles POST /admin/quotes/pricing
func (c *QuoteController) Pricing(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}
	var cart models.Cart
	if err := decodeJSON(w, r, &cart); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, c.logger, http.StatusOK, c.service.Pricing(cart))
}

// ValidateItem handles POST /admin/quotes/validate-item
// 200 with {"valid": true} when the item may be added, 422 with the failing fields otherwise.
func (c *QuoteController) ValidateItem(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}
	var item models.SaleItem
	if err := decodeJSON(w, r, &item); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if fields := service.ValidateItem(item); len(fields) > 0 {
		writeError(w, c.logger, "ValidateItem", &service.ValidationError{Fields: fields})
		return
	}
	writeJSON(w, c.logger, http.StatusOK, map[string]bool{"valid": true})
}

// Print handles POST /admin/quotes/print[?autoprint=1] and returns the print document
func (c *QuoteController) Print(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}
	var req models.ExportRequest
	if err := decodeJSON(w, r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	autoPrint := r.URL.Query().Get("autoprint") != ""
	html, err := c.service.PrintHTML(r.Context(), req, autoPrint)
	if err != nil {
		writeError(w, c.logger, "PrintQuote", err)
		return
	}
	writeHTML(w, http.StatusOK, html)
}

// Preview handles POST /admin/quotes/preview
// Example response: {"token": "3c9e...", "url": "/admin/quotes/preview/3c9e..."}
func (c *QuoteController) Preview(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}
	var req models.ExportRequest
	if err := decodeJSON(w, r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	token, err := c.service.Preview(r.Context(), req)
	if err != nil {
		writeError(w, c.logger, "PreviewQuote", err)
		return
	}
	writeJSON(w, c.logger, http.StatusCreated, map[string]string{"token": token, "url": service.PreviewPath + token})
}

// PreviewDocument handles GET|DELETE /admin/quotes/preview/{token}
// DELETE revokes the document when the preview is closed.
func (c *QuoteController) PreviewDocument(w http.ResponseWriter, r *http.Request, token string) {
	switch r.Method {
	case http.MethodGet:
		html, ok := c.service.PreviewHTML(token)
		if !ok {
			http.Error(w, "preview not found or expired", http.StatusNotFound)
			return
		}
		writeHTML(w, http.StatusOK, html)
	case http.MethodDelete:
		if !c.service.RevokePreview(token) {
			http.Error(w, "preview not found or expired", http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// Email handles POST /admin/quotes/email
// Example request: {"to": "dana@example.com", "subject": "", "bodyText": "", "cart": {...}}
func (c *QuoteController) Email(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}
	var req models.EmailQuoteRequest
	if err := decodeJSON(w, r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	res, err := c.service.Email(r.Context(), req)
	if err != nil {
		writeError(w, c.logger, "EmailQuote", err)
		return
	}
	c.logger.Info("EmailQuote: sent", zap.String("to", req.To))
	writeJSON(w, c.logger, http.StatusOK, res)
}

// Signature handles POST /admin/quotes/{id}/signature, posted by the document's Finalize action
func (c *QuoteController) Signature(w http.ResponseWriter, r *http.Request, id string) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}
	var req models.FinalizeSignatureRequest
	if err := decodeJSON(w, r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	q, err := c.service.FinalizeSignature(r.Context(), id, req)
	if err != nil {
		writeError(w, c.logger, "FinalizeSignature", err)
		return
	}
	writeJSON(w, c.logger, http.StatusOK, q)
}
