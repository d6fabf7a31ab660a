package controller

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"repair-shop-quotes/models"
)

func TestExportController_BrowserPath(t *testing.T) {
	svc := newTestService(t)
	c := NewExportController(svc, nil)

	rec := httptest.NewRecorder()
	c.Export(rec, jsonRequest(t, http.MethodPost, "/admin/quotes/export", models.ExportRequest{Cart: phoneCart("Dana Ruiz")}))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var res models.ExportResponse
	decodeBody(t, rec, &res)
	assert.Equal(t, "browser", res.Mode)
	assert.True(t, res.OK)
	assert.Empty(t, res.FilePath)
	require.True(t, strings.HasPrefix(res.PreviewURL, "/admin/quotes/preview/"))

	html, ok := svc.PreviewHTML(strings.TrimPrefix(res.PreviewURL, "/admin/quotes/preview/"))
	require.True(t, ok)
	assert.Contains(t, html, "Dana Ruiz")
}

func TestExportController_Errors(t *testing.T) {
	c := NewExportController(newTestService(t), nil)

	rec := httptest.NewRecorder()
	c.Export(rec, httptest.NewRequest(http.MethodGet, "/admin/quotes/export", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	rec = httptest.NewRecorder()
	c.Export(rec, jsonRequest(t, http.MethodPost, "/admin/quotes/export", models.ExportRequest{QuoteID: "missing"}))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestExportController_ListEmpty(t *testing.T) {
	c := NewExportController(newTestService(t), nil)

	rec := httptest.NewRecorder()
	c.List(rec, httptest.NewRequest(http.MethodGet, "/admin/exports?quoteId=q-1", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"exports":[]}`, rec.Body.String())
}
