package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"repair-shop-quotes/app/controller"
	"repair-shop-quotes/render"
	"repair-shop-quotes/repository"
	"repair-shop-quotes/service"
)

func newTestMux(t *testing.T) *http.ServeMux {
	t.Helper()
	renderer, err := render.NewRenderer()
	require.NoError(t, err)
	store := repository.NewMemoryStore()
	svc := service.NewQuoteService(service.Dependencies{
		Quotes:   repository.NewQuoteRepository(store, nil),
		Sales:    repository.NewSaleRepository(store, nil),
		Exports:  repository.NewExportRepository(store, nil),
		Renderer: renderer,
	})
	t.Cleanup(svc.Close)

	return NewMux(&Controllers{
		Quote:  controller.NewQuoteController(svc, nil),
		Export: controller.NewExportController(svc, nil),
		Sale:   controller.NewSaleController(svc, nil),
		Image:  controller.NewImageController(service.NewImageService(nil), nil),
	})
}

func TestPing(t *testing.T) {
	mux := newTestMux(t)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/ping", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestRoutes(t *testing.T) {
	mux := newTestMux(t)

	tests := []struct {
		name       string
		method     string
		path       string
		wantStatus int
	}{
		{name: "list quotes", method: http.MethodGet, path: "/admin/quotes", wantStatus: http.StatusOK},
		{name: "unknown quote", method: http.MethodGet, path: "/admin/quotes/missing", wantStatus: http.StatusNotFound},
		{name: "missing quote id", method: http.MethodGet, path: "/admin/quotes/", wantStatus: http.StatusBadRequest},
		{name: "unknown action", method: http.MethodPost, path: "/admin/quotes/q-1/refund", wantStatus: http.StatusNotFound},
		{name: "signature wrong method", method: http.MethodGet, path: "/admin/quotes/q-1/signature", wantStatus: http.StatusMethodNotAllowed},
		{name: "checkout wrong method", method: http.MethodGet, path: "/admin/quotes/q-1/checkout", wantStatus: http.StatusMethodNotAllowed},
		{name: "expired preview", method: http.MethodGet, path: "/admin/quotes/preview/nope", wantStatus: http.StatusNotFound},
		{name: "preview without token", method: http.MethodGet, path: "/admin/quotes/preview/", wantStatus: http.StatusNotFound},
		{name: "pricing wrong method", method: http.MethodGet, path: "/admin/quotes/pricing", wantStatus: http.StatusMethodNotAllowed},
		{name: "list exports", method: http.MethodGet, path: "/admin/exports", wantStatus: http.StatusOK},
		{name: "list sales", method: http.MethodGet, path: "/admin/sales", wantStatus: http.StatusOK},
		{name: "images wrong method", method: http.MethodGet, path: "/admin/images", wantStatus: http.StatusMethodNotAllowed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))
			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
		})
	}
}

func TestQuoteSubpath(t *testing.T) {
	tests := []struct {
		path, id, action string
	}{
		{"/admin/quotes/abc", "abc", ""},
		{"/admin/quotes/abc/", "abc", ""},
		{"/admin/quotes/abc/checkout", "abc", "checkout"},
		{"/admin/quotes/", "", ""},
	}
	for _, tt := range tests {
		id, action := quoteSubpath(tt.path)
		assert.Equal(t, tt.id, id, tt.path)
		assert.Equal(t, tt.action, action, tt.path)
	}
}
