package controller

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"repair-shop-quotes/models"
	"repair-shop-quotes/render"
	"repair-shop-quotes/repository"
	"repair-shop-quotes/service"
)

func newTestService(t *testing.T) *service.QuoteService {
	t.Helper()
	return newTestServiceWithDelay(t, 20*time.Millisecond)
}

func newTestServiceWithDelay(t *testing.T, autosaveDelay time.Duration) *service.QuoteService {
	t.Helper()
	renderer, err := render.NewRenderer(render.WithShop(render.Shop{Name: "Fix-It Corner"}))
	require.NoError(t, err)

	store := repository.NewMemoryStore()
	svc := service.NewQuoteService(service.Dependencies{
		Quotes:        repository.NewQuoteRepository(store, nil),
		Sales:         repository.NewSaleRepository(store, nil),
		Exports:       repository.NewExportRepository(store, nil),
		Renderer:      renderer,
		AutosaveDelay: autosaveDelay,
	})
	t.Cleanup(svc.Close)
	return svc
}

func phoneCart(name string) models.Cart {
	return models.Cart{CustomerName: name, Items: []models.SaleItem{{DeviceType: "Phone", Price: models.MoneyFromFloat(200)}}}
}

func jsonRequest(t *testing.T, method, target string, body any) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(rec.Body).Decode(v))
}

func saveQuote(t *testing.T, c *QuoteController, cart models.Cart) models.Quote {
	t.Helper()
	rec := httptest.NewRecorder()
	c.Quotes(rec, jsonRequest(t, http.MethodPost, "/admin/quotes", models.SaveQuoteRequest{Cart: cart}))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var q models.Quote
	decodeBody(t, rec, &q)
	return q
}
