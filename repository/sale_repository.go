package repository

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"repair-shop-quotes/models"
)

// SaleRepository records checkout results in the sales collection
type SaleRepository struct {
	store  Store
	logger *zap.Logger
}

// NewSaleRepository creates a new SaleRepository
func NewSaleRepository(store Store, logger *zap.Logger) *SaleRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SaleRepository{store: store, logger: logger}
}

// Ensure SaleRepository implements SaleRepositoryInterface
var _ SaleRepositoryInterface = (*SaleRepository)(nil)

// Create stores the sale and returns it with its assigned ID
func (r *SaleRepository) Create(ctx context.Context, sale *models.Sale) (*models.Sale, error) {
	s := *sale
	s.ID = ""
	id, err := r.store.Add(ctx, CollectionSales, s)
	if err != nil {
		r.logger.Error("CreateSale: insert failed", zap.String("quoteId", s.QuoteID), zap.Error(err))
		return nil, fmt.Errorf("failed to record sale: %w", err)
	}
	s.ID = id
	r.logger.Info("CreateSale: recorded",
		zap.String("id", id),
		zap.String("quoteId", s.QuoteID),
		zap.String("amountPaid", s.AmountPaid.StringFixed(2)),
		zap.String("status", s.Status))
	return &s, nil
}

// List returns every recorded sale
func (r *SaleRepository) List(ctx context.Context) ([]models.Sale, error) {
	recs, err := r.store.Get(ctx, CollectionSales)
	if err != nil {
		return nil, fmt.Errorf("failed to list sales: %w", err)
	}
	return decodeAll(recs, setSaleID)
}

// ListByQuote returns the sales recorded against one quote
func (r *SaleRepository) ListByQuote(ctx context.Context, quoteID string) ([]models.Sale, error) {
	all, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.Sale, 0, len(all))
	for _, s := range all {
		if s.QuoteID == quoteID {
			out = append(out, s)
		}
	}
	return out, nil
}

func setSaleID(s *models.Sale, id string) { s.ID = id }
