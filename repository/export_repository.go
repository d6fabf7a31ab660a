package repository

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"repair-shop-quotes/models"
)

// ExportRepository keeps the reference records of native exports
type ExportRepository struct {
	store  Store
	logger *zap.Logger
}

// NewExportRepository creates a new ExportRepository
func NewExportRepository(store Store, logger *zap.Logger) *ExportRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportRepository{store: store, logger: logger}
}

var _ ExportRepositoryInterface = (*ExportRepository)(nil)

// RecordExport stores the reference. The returned record carries the stored ID.
func (r *ExportRepository) RecordExport(ctx context.Context, rec models.ExportRecord) (models.ExportRecord, error) {
	rec.ID = ""
	id, err := r.store.Add(ctx, CollectionExports, rec)
	if err != nil {
		r.logger.Error("RecordExport: insert failed", zap.String("path", rec.FilePath), zap.Error(err))
		return models.ExportRecord{}, fmt.Errorf("failed to record export: %w", err)
	}
	rec.ID = id
	return rec, nil
}

// List returns every export reference
func (r *ExportRepository) List(ctx context.Context) ([]models.ExportRecord, error) {
	recs, err := r.store.Get(ctx, CollectionExports)
	if err != nil {
		return nil, fmt.Errorf("failed to list exports: %w", err)
	}
	return decodeAll(recs, setExportID)
}

// ListByQuote returns the exports of one quote
func (r *ExportRepository) ListByQuote(ctx context.Context, quoteID string) ([]models.ExportRecord, error) {
	all, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.ExportRecord, 0, len(all))
	for _, e := range all {
		if e.QuoteID == quoteID {
			out = append(out, e)
		}
	}
	return out, nil
}

func setExportID(e *models.ExportRecord, id string) { e.ID = id }
