package models

// Quote represents a persisted quote record
// Example:
//
//	{
//	  "id": "6f0c...",
//	  "type": "sales",
//	  "createdAt": "2026-01-04T10:30:00Z",
//	  "customerName": "Dana Ruiz",
//	  "customerPhone": "555-0100",
//	  "items": [...],
//	  "totals": {...},
//	  "notes": "Pickup Friday"
//	}
type Quote struct {
	ID            string          `json:"id,omitempty"`
	Type          QuoteType       `json:"type"`
	CreatedAt     string          `json:"createdAt"`
	UpdatedAt     string          `json:"updatedAt,omitempty"`
	CustomerName  string          `json:"customerName"`
	CustomerPhone string          `json:"customerPhone"`
	CustomerEmail string          `json:"customerEmail,omitempty"`
	Items         []SaleItem      `json:"items,omitempty"`
	Lines         []RepairLine    `json:"lines,omitempty"`
	Totals        *Totals         `json:"totals,omitempty"`
	Notes         string          `json:"notes,omitempty"`
	Signature     *SignatureStamp `json:"signature,omitempty"`
}

// Cart rebuilds the editable cart from a stored quote
func (q Quote) Cart() Cart {
	return Cart{
		Type:          q.Type,
		CustomerName:  q.CustomerName,
		CustomerPhone: q.CustomerPhone,
		CustomerEmail: q.CustomerEmail,
		Items:         q.Items,
		Lines:         q.Lines,
		Notes:         q.Notes,
	}.Clone()
}

// SaveQuoteRequest represents the request body for saving a quote.
// An ID updates the stored record in place.
type SaveQuoteRequest struct {
	ID   string `json:"id,omitempty"`
	Cart Cart   `json:"cart"`
}

// QuoteListResponse represents the response for listing quotes
type QuoteListResponse struct {
	Quotes []Quote `json:"quotes"`
}
