package controller

import (
	"net/http"

	"go.uber.org/zap"

	"repair-shop-quotes/models"
	"repair-shop-quotes/service"
)

// SaleController handles HTTP requests for sales
type SaleController struct {
	service service.QuoteServiceInterface
	logger  *zap.Logger
}

// NewSaleController creates a new SaleController
func NewSaleController(svc service.QuoteServiceInterface, logger *zap.Logger) *SaleController {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SaleController{service: svc, logger: logger}
}

// Checkout handles POST /admin/quotes/{id}/checkout
// The body is the checkout dialog result, or null when the dialog was cancelled.
// Example request:
// POST /admin/quotes/b9f1.../checkout
//
//	{
//	  "amountPaid": 100,
//	  "paymentType": "card",
//	  "markClosed": true,
//	  "printReceipt": false
//	}
//
// Example response:
//
//	{
//	  "id": "5a2c...",
//	  "quoteId": "b9f1...",
//	  "amountDue": "232.3",
//	  "amountPaid": "100",
//	  "balance": "132.3",
//	  "status": "partial"
//	}
func (c *SaleController) Checkout(w http.ResponseWriter, r *http.Request, quoteID string) {
	c.logger.Debug("Checkout: received request", zap.String("method", r.Method), zap.String("quoteId", quoteID))
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	var result *models.CheckoutResult
	if err := decodeJSON(w, r, &result); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	sale, err := c.service.Checkout(r.Context(), quoteID, service.SubmittedCheckout{Result: result})
	if err != nil {
		writeError(w, c.logger, "Checkout", err)
		return
	}
	if sale == nil {
		writeStatus(w, c.logger, http.StatusOK, "Checkout cancelled.")
		return
	}

	c.logger.Info("Checkout: sale recorded",
		zap.String("saleId", sale.ID), zap.String("quoteId", quoteID), zap.String("status", sale.Status))
	writeJSON(w, c.logger, http.StatusCreated, sale)
}

// List handles GET /admin/sales[?quoteId=...]
func (c *SaleController) List(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}
	sales, err := c.service.Sales(r.Context(), r.URL.Query().Get("quoteId"))
	if err != nil {
		writeError(w, c.logger, "ListSales", err)
		return
	}
	if sales == nil {
		sales = []models.Sale{}
	}
	writeJSON(w, c.logger, http.StatusOK, models.SaleListResponse{Sales: sales})
}
