package repository

import (
	"context"

	"repair-shop-quotes/models"
)

// QuoteRepositoryInterface defines the contract for quote persistence
type QuoteRepositoryInterface interface {
	Save(ctx context.Context, quote *models.Quote) (*models.Quote, error)
	GetByID(ctx context.Context, id string) (*models.Quote, error)
	List(ctx context.Context) ([]models.Quote, error)
}

// SaleRepositoryInterface defines the contract for recorded checkouts
type SaleRepositoryInterface interface {
	Create(ctx context.Context, sale *models.Sale) (*models.Sale, error)
	List(ctx context.Context) ([]models.Sale, error)
	ListByQuote(ctx context.Context, quoteID string) ([]models.Sale, error)
}

// ExportRepositoryInterface defines the contract for export reference records
type ExportRepositoryInterface interface {
	RecordExport(ctx context.Context, rec models.ExportRecord) (models.ExportRecord, error)
	List(ctx context.Context) ([]models.ExportRecord, error)
	ListByQuote(ctx context.Context, quoteID string) ([]models.ExportRecord, error)
}
