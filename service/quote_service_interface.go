package service

import (
	"context"

	"repair-shop-quotes/models"
)

// QuoteServiceInterface defines the contract for quote operations
type QuoteServiceInterface interface {
	Pricing(cart models.Cart) models.Totals
	Save(ctx context.Context, req models.SaveQuoteRequest) (*models.Quote, error)
	Get(ctx context.Context, id string) (*models.Quote, error)
	List(ctx context.Context) ([]models.Quote, error)
	Draft(key string, cart models.Cart) (bool, error)
	DiscardDraft(key string) (bool, error)
	PrintHTML(ctx context.Context, req models.ExportRequest, autoPrint bool) (string, error)
	Preview(ctx context.Context, req models.ExportRequest) (string, error)
	PreviewHTML(token string) (string, bool)
	RevokePreview(token string) bool
	Export(ctx context.Context, req models.ExportRequest) (models.ExportResponse, error)
	Email(ctx context.Context, req models.EmailQuoteRequest) (EmailResult, error)
	FinalizeSignature(ctx context.Context, id string, req models.FinalizeSignatureRequest) (*models.Quote, error)
	Checkout(ctx context.Context, id string, checkout Checkout) (*models.Sale, error)
	Exports(ctx context.Context, quoteID string) ([]models.ExportRecord, error)
	Sales(ctx context.Context, quoteID string) ([]models.Sale, error)
	Close()
}
