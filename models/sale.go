package models

import "github.com/shopspring/decimal"

// CheckoutRequest is handed to the checkout collaborator
type CheckoutRequest struct {
	QuoteID   string          `json:"quoteId"`
	AmountDue decimal.Decimal `json:"amountDue"`
}

// CheckoutResult is what the checkout collaborator returns when the operator completes payment.
// A cancelled checkout is represented by a nil result.
// Example: {"amountPaid": "230.00", "paymentType": "card", "markClosed": true, "printReceipt": false, "closeParent": true}
type CheckoutResult struct {
	AmountPaid   decimal.Decimal `json:"amountPaid"`
	PaymentType  string          `json:"paymentType" validate:"required"`
	MarkClosed   bool            `json:"markClosed"`
	PrintReceipt bool            `json:"printReceipt"`
	CloseParent  bool            `json:"closeParent"`
}

// Sale represents a recorded checkout for a quote
// Example response:
//
//	{
//	  "id": "b1d2...",
//	  "quoteId": "6f0c...",
//	  "soldAt": "2026-01-04T10:30:00Z",
//	  "customerName": "Dana Ruiz",
//	  "amountDue": "230",
//	  "amountPaid": "230",
//	  "paymentType": "card",
//	  "status": "paid"
//	}
type Sale struct {
	ID           string          `json:"id"`
	QuoteID      string          `json:"quoteId"`
	SoldAt       string          `json:"soldAt"`
	CustomerName string          `json:"customerName,omitempty"`
	AmountDue    decimal.Decimal `json:"amountDue"`
	AmountPaid   decimal.Decimal `json:"amountPaid"`
	Balance      decimal.Decimal `json:"balance"`
	PaymentType  string          `json:"paymentType"`
	Status       string          `json:"status"` // paid, partial
	Closed       bool            `json:"closed"`
	PrintReceipt bool            `json:"printReceipt"`
	CreatedAt    string          `json:"createdAt"`
}

// Sale status values
const (
	SaleStatusPaid    = "paid"
	SaleStatusPartial = "partial"
)

// SaleListResponse represents the response for listing sales
type SaleListResponse struct {
	Sales []Sale `json:"sales"`
}
