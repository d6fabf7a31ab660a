package repository

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"repair-shop-quotes/models"
)

func TestQuoteRepository_SaveCreatesThenUpdatesInPlace(t *testing.T) {
	ctx := context.Background()
	repo := NewQuoteRepository(NewMemoryStore(), nil)

	saved, err := repo.Save(ctx, &models.Quote{
		Type:         models.QuoteTypeSales,
		CreatedAt:    "2026-01-04T10:30:00Z",
		CustomerName: "Dana Ruiz",
		Items:        []models.SaleItem{{DeviceType: "Phone", Price: models.MoneyFromFloat(200)}},
	})
	require.NoError(t, err)
	require.NotEmpty(t, saved.ID)

	saved.Notes = "Pickup Friday"
	updated, err := repo.Save(ctx, saved)
	require.NoError(t, err)
	assert.Equal(t, saved.ID, updated.ID)

	quotes, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, quotes, 1, "update does not add a record")
	assert.Equal(t, "Pickup Friday", quotes[0].Notes)
	assert.Equal(t, saved.ID, quotes[0].ID)
	assert.Equal(t, "200", quotes[0].Items[0].Price.Amount().String())

	got, err := repo.GetByID(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dana Ruiz", got.CustomerName)
}

func TestQuoteRepository_NotFound(t *testing.T) {
	ctx := context.Background()
	repo := NewQuoteRepository(NewMemoryStore(), nil)

	_, err := repo.GetByID(ctx, "nope")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = repo.Save(ctx, &models.Quote{ID: "nope"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSaleRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewSaleRepository(NewMemoryStore(), nil)

	for _, q := range []string{"q1", "q2", "q1"} {
		_, err := repo.Create(ctx, &models.Sale{QuoteID: q, AmountPaid: decimal.NewFromInt(10), Status: models.SaleStatusPaid})
		require.NoError(t, err)
	}

	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	byQuote, err := repo.ListByQuote(ctx, "q1")
	require.NoError(t, err)
	assert.Len(t, byQuote, 2)
	assert.NotEqual(t, byQuote[0].ID, byQuote[1].ID)
	assert.True(t, byQuote[0].AmountPaid.Equal(decimal.NewFromInt(10)))
}

func TestExportRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewExportRepository(NewMemoryStore(), nil)

	rec, err := repo.RecordExport(ctx, models.ExportRecord{ID: "pipeline-id", QuoteID: "q1", Kind: models.ExportKindPDF, FilePath: "/tmp/Quote.pdf"})
	require.NoError(t, err)
	assert.NotEqual(t, "pipeline-id", rec.ID)

	_, err = repo.RecordExport(ctx, models.ExportRecord{QuoteID: "q2", Kind: models.ExportKindPDF})
	require.NoError(t, err)

	list, err := repo.ListByQuote(ctx, "q1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, rec.ID, list[0].ID)
	assert.Equal(t, "/tmp/Quote.pdf", list[0].FilePath)
}
