package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"image"
	"image/png"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"repair-shop-quotes/models"
	"repair-shop-quotes/render"
	"repair-shop-quotes/repository"
	"repair-shop-quotes/signature"
)

type fakeMailer struct {
	sent []EmailRequest
}

func (f *fakeMailer) SendQuoteHTML(_ context.Context, req EmailRequest) (EmailResult, error) {
	f.sent = append(f.sent, req)
	return EmailResult{OK: true, MessageID: "<1@test>"}, nil
}

var fixedNow = time.Date(2026, 1, 4, 10, 30, 0, 0, time.UTC)

func newTestService(t *testing.T, mailer Mailer) *QuoteService {
	t.Helper()
	renderer, err := render.NewRenderer(render.WithShop(render.Shop{Name: "Fix-It Corner"}))
	require.NoError(t, err)

	store := repository.NewMemoryStore()
	s := NewQuoteService(Dependencies{
		Quotes:        repository.NewQuoteRepository(store, nil),
		Sales:         repository.NewSaleRepository(store, nil),
		Exports:       repository.NewExportRepository(store, nil),
		Renderer:      renderer,
		Mailer:        mailer,
		AutosaveDelay: testDelay,
	})
	s.now = func() time.Time { return fixedNow }
	t.Cleanup(s.Close)
	return s
}

func TestQuoteService_SaveCreatesAndUpdates(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t, nil)

	q, err := s.Save(ctx, models.SaveQuoteRequest{Cart: phoneCart("Dana Ruiz")})
	require.NoError(t, err)
	require.NotEmpty(t, q.ID)
	assert.Equal(t, models.QuoteTypeSales, q.Type)
	assert.Equal(t, "2026-01-04T10:30:00Z", q.CreatedAt)
	require.NotNil(t, q.Totals)
	assert.Equal(t, "230.00", q.Totals.AmountDue.StringFixed(2))

	s.now = func() time.Time { return fixedNow.Add(time.Hour) }
	cart := phoneCart("Dana Ruiz")
	cart.Notes = "Pickup Friday"
	updated, err := s.Save(ctx, models.SaveQuoteRequest{ID: q.ID, Cart: cart})
	require.NoError(t, err)
	assert.Equal(t, q.ID, updated.ID)
	assert.Equal(t, "2026-01-04T10:30:00Z", updated.CreatedAt)
	assert.Equal(t, "2026-01-04T11:30:00Z", updated.UpdatedAt)

	all, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Pickup Friday", all[0].Notes)
}

func TestQuoteService_SaveRejectsInvalidCart(t *testing.T) {
	s := newTestService(t, nil)

	_, err := s.Save(context.Background(), models.SaveQuoteRequest{Cart: models.Cart{Items: []models.SaleItem{{DeviceType: "Phone", Price: models.MoneyFromFloat(-5)}}}})
	assert.True(t, IsValidationError(err))

	_, err = s.Save(context.Background(), models.SaveQuoteRequest{ID: "missing", Cart: phoneCart("Dana")})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestQuoteService_PartialCartRendersAndSaves(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t, nil)
	cart := models.Cart{CustomerName: "Dana Ruiz", Items: []models.SaleItem{{DeviceType: "Phone", Brand: "Apple", Model: "iPhone 13"}}}

	html, err := s.PrintHTML(ctx, models.ExportRequest{Cart: cart}, false)
	require.NoError(t, err)
	assert.Contains(t, html, "Apple iPhone 13")

	token, err := s.Preview(ctx, models.ExportRequest{Cart: models.Cart{Items: []models.SaleItem{{Brand: "Samsung"}}}})
	require.NoError(t, err)
	_, ok := s.PreviewHTML(token)
	assert.True(t, ok)

	q, err := s.Save(ctx, models.SaveQuoteRequest{Cart: cart})
	require.NoError(t, err)
	require.NotNil(t, q.Totals)
	assert.True(t, q.Totals.AmountDue.IsZero())

	pending, err := s.Draft("tab-partial", cart)
	require.NoError(t, err)
	require.True(t, pending)
	require.Eventually(t, func() bool {
		_, ok := s.DraftQuoteID("tab-partial")
		return ok
	}, time.Second, 5*time.Millisecond)
}

func TestQuoteService_DiscardDraft(t *testing.T) {
	s := newTestService(t, nil)

	_, err := s.DiscardDraft(" ")
	assert.ErrorIs(t, err, ErrDraftKeyRequired)

	_, err = s.Draft("tab-1", phoneCart("Dana"))
	require.NoError(t, err)
	cancelled, err := s.DiscardDraft("tab-1")
	require.NoError(t, err)
	assert.True(t, cancelled)

	time.Sleep(4 * testDelay)
	all, err := s.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)

	cancelled, err = s.DiscardDraft("tab-1")
	require.NoError(t, err)
	assert.False(t, cancelled)
}

func TestQuoteService_DraftAutosavesOnce(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t, nil)

	_, err := s.Draft("", phoneCart("Dana"))
	assert.ErrorIs(t, err, ErrDraftKeyRequired)

	pending, err := s.Draft("tab-1", phoneCart("Dana"))
	require.NoError(t, err)
	assert.True(t, pending)

	require.Eventually(t, func() bool {
		_, ok := s.DraftQuoteID("tab-1")
		return ok
	}, time.Second, 5*time.Millisecond)
	firstID, _ := s.DraftQuoteID("tab-1")

	_, err = s.Draft("tab-1", phoneCart("Dana Ruiz"))
	require.NoError(t, err)
	require.Eventually(t, func() bool {
		q, err := s.Get(ctx, firstID)
		return err == nil && q.CustomerName == "Dana Ruiz"
	}, time.Second, 5*time.Millisecond)

	all, err := s.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1, "later drafts update the same quote")
}

func TestQuoteService_PrintAndPreview(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t, nil)

	html, err := s.PrintHTML(ctx, models.ExportRequest{Cart: phoneCart("Dana Ruiz")}, true)
	require.NoError(t, err)
	assert.Contains(t, html, "$230.00")
	assert.Contains(t, html, `data-autoprint="true"`)

	token, err := s.Preview(ctx, models.ExportRequest{Cart: phoneCart("Dana Ruiz")})
	require.NoError(t, err)
	preview, ok := s.PreviewHTML(token)
	require.True(t, ok)
	assert.Contains(t, preview, `id="signature-pad"`)
	assert.Contains(t, preview, "Quote - Dana Ruiz - 2026-01-04")

	assert.True(t, s.RevokePreview(token))
	_, ok = s.PreviewHTML(token)
	assert.False(t, ok)
}

func TestQuoteService_ExportWithoutChromeOpensPreview(t *testing.T) {
	s := newTestService(t, nil)

	resp, err := s.Export(context.Background(), models.ExportRequest{Cart: phoneCart("Dana Ruiz"), FilenameBase: "Estimate.pdf"})
	require.NoError(t, err)

	assert.Equal(t, "browser", resp.Mode)
	assert.True(t, resp.OK)
	require.True(t, strings.HasPrefix(resp.PreviewURL, PreviewPath))
	html, ok := s.PreviewHTML(strings.TrimPrefix(resp.PreviewURL, PreviewPath))
	require.True(t, ok)
	assert.Contains(t, html, `"filenameBase":"Estimate"`)
}

func TestQuoteService_StoredQuoteRendersWithSignatureEndpoint(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t, nil)
	q, err := s.Save(ctx, models.SaveQuoteRequest{Cart: phoneCart("Dana Ruiz")})
	require.NoError(t, err)

	token, err := s.Preview(ctx, models.ExportRequest{QuoteID: q.ID})
	require.NoError(t, err)
	html, _ := s.PreviewHTML(token)
	assert.Contains(t, html, "/admin/quotes/"+q.ID+"/signature")
	assert.Contains(t, html, "Dana Ruiz")
}

func TestQuoteService_Email(t *testing.T) {
	mailer := &fakeMailer{}
	s := newTestService(t, mailer)

	res, err := s.Email(context.Background(), models.EmailQuoteRequest{To: "dana@example.com", Cart: phoneCart("Dana Ruiz")})
	require.NoError(t, err)
	assert.True(t, res.OK)

	require.Len(t, mailer.sent, 1)
	sent := mailer.sent[0]
	assert.Equal(t, "Your quote from Fix-It Corner for Dana Ruiz", sent.Subject)
	assert.Equal(t, "Quote - Dana Ruiz - 2026-01-04.html", sent.Filename)
	assert.Contains(t, sent.BodyText, "Amount due: $230.00")
	assert.Contains(t, sent.HTML, "$230.00")

	_, err = s.Email(context.Background(), models.EmailQuoteRequest{To: "nope", Cart: phoneCart("Dana")})
	assert.True(t, IsValidationError(err))
}

func TestQuoteService_EmailWithoutMailer(t *testing.T) {
	s := newTestService(t, nil)
	_, err := s.Email(context.Background(), models.EmailQuoteRequest{To: "dana@example.com"})
	assert.ErrorIs(t, err, ErrMailerDisabled)
}

func signaturePNG(t *testing.T) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewNRGBA(image.Rect(0, 0, 300, 96))))
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}

func TestQuoteService_FinalizeSignature(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t, nil)
	q, err := s.Save(ctx, models.SaveQuoteRequest{Cart: phoneCart("Dana Ruiz")})
	require.NoError(t, err)

	signed, err := s.FinalizeSignature(ctx, q.ID, models.FinalizeSignatureRequest{
		Mode:       models.SignatureTyped,
		SignedName: "Dana Ruiz",
		ImageData:  signaturePNG(t),
	})
	require.NoError(t, err)
	require.NotNil(t, signed.Signature)
	assert.Equal(t, 300, signed.Signature.Width)

	stored, err := s.Get(ctx, q.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.Signature)
	assert.Equal(t, "Dana Ruiz", stored.Signature.SignedName)

	html, err := s.PrintHTML(ctx, models.ExportRequest{QuoteID: q.ID}, false)
	require.NoError(t, err)
	assert.Contains(t, html, `class="signature-image"`)

	_, err = s.FinalizeSignature(ctx, q.ID, models.FinalizeSignatureRequest{Mode: models.SignatureDrawn, ImageData: "data:text/plain,hi"})
	assert.ErrorIs(t, err, signature.ErrInvalidStamp)
}

func TestQuoteService_Checkout(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t, nil)
	q, err := s.Save(ctx, models.SaveQuoteRequest{Cart: phoneCart("Dana Ruiz")})
	require.NoError(t, err)

	sale, err := s.Checkout(ctx, q.ID, SubmittedCheckout{})
	require.NoError(t, err)
	assert.Nil(t, sale, "cancelled checkout records nothing")

	sale, err = s.Checkout(ctx, q.ID, SubmittedCheckout{Result: &models.CheckoutResult{
		AmountPaid:  decimal.NewFromInt(230),
		PaymentType: "card",
		MarkClosed:  true,
	}})
	require.NoError(t, err)
	require.NotNil(t, sale)
	assert.Equal(t, models.SaleStatusPaid, sale.Status)
	assert.Equal(t, "230.00", sale.AmountDue.StringFixed(2))

	sales, err := s.Sales(ctx, q.ID)
	require.NoError(t, err)
	assert.Len(t, sales, 1)

	_, err = s.Checkout(ctx, q.ID, SubmittedCheckout{Result: &models.CheckoutResult{AmountPaid: decimal.NewFromInt(1)}})
	assert.True(t, IsValidationError(err), "payment type is required")
}
