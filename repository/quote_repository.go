package repository

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"repair-shop-quotes/models"
)

// QuoteRepository persists quotes in the quotes collection
type QuoteRepository struct {
	store  Store
	logger *zap.Logger
}

// NewQuoteRepository creates a new QuoteRepository
func NewQuoteRepository(store Store, logger *zap.Logger) *QuoteRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &QuoteRepository{store: store, logger: logger}
}

// Ensure QuoteRepository implements QuoteRepositoryInterface
var _ QuoteRepositoryInterface = (*QuoteRepository)(nil)

// Save adds a quote without an ID and updates an existing one in place
func (r *QuoteRepository) Save(ctx context.Context, quote *models.Quote) (*models.Quote, error) {
	q := *quote
	if q.ID == "" {
		id, err := r.store.Add(ctx, CollectionQuotes, q)
		if err != nil {
			r.logger.Error("SaveQuote: insert failed", zap.Error(err))
			return nil, fmt.Errorf("failed to save quote: %w", err)
		}
		q.ID = id
		r.logger.Info("SaveQuote: created", zap.String("id", id), zap.String("type", string(q.Type)))
		return &q, nil
	}

	if err := r.store.Update(ctx, CollectionQuotes, q.ID, q); err != nil {
		if errors.Is(err, ErrNotFound) {
			r.logger.Warn("SaveQuote: quote not found", zap.String("id", q.ID))
			return nil, fmt.Errorf("quote %s: %w", q.ID, ErrNotFound)
		}
		r.logger.Error("SaveQuote: update failed", zap.String("id", q.ID), zap.Error(err))
		return nil, fmt.Errorf("failed to update quote: %w", err)
	}
	r.logger.Info("SaveQuote: updated", zap.String("id", q.ID))
	return &q, nil
}

// GetByID returns the stored quote or ErrNotFound
func (r *QuoteRepository) GetByID(ctx context.Context, id string) (*models.Quote, error) {
	rec, err := r.store.GetByID(ctx, CollectionQuotes, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("quote %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to fetch quote: %w", err)
	}
	return decode(rec, setQuoteID)
}

// List returns every stored quote, oldest first
func (r *QuoteRepository) List(ctx context.Context) ([]models.Quote, error) {
	recs, err := r.store.Get(ctx, CollectionQuotes)
	if err != nil {
		return nil, fmt.Errorf("failed to list quotes: %w", err)
	}
	return decodeAll(recs, setQuoteID)
}

func setQuoteID(q *models.Quote, id string) { q.ID = id }
