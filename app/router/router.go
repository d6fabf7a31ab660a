package router

import (
	"net/http"
	"strings"

	"repair-shop-quotes/app/controller"
	"repair-shop-quotes/service"
)

type Controllers struct {
	Quote  *controller.QuoteController
	Export *controller.ExportController
	Sale   *controller.SaleController
	Image  *controller.ImageController
}

// pingHandler handles GET /ping
func pingHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

// SetupRoutes registers every route on the default mux
func SetupRoutes(controllers *Controllers) {
	Register(http.DefaultServeMux, controllers)
}

// NewMux returns a mux with every route registered
func NewMux(controllers *Controllers) *http.ServeMux {
	mux := http.NewServeMux()
	Register(mux, controllers)
	return mux
}

// Register adds the routes to mux
func Register(mux *http.ServeMux, controllers *Controllers) {
	// Ping endpoint
	mux.HandleFunc("/ping", pingHandler)

	// Quotes routes
	// List and save quotes
	mux.HandleFunc("/admin/quotes", controllers.Quote.Quotes)

	// Autosave mutation feed
	mux.HandleFunc("/admin/quotes/draft", controllers.Quote.Draft)

	// Live totals and per-item validation
	mux.HandleFunc("/admin/quotes/pricing", controllers.Quote.Pricing)
	mux.HandleFunc("/admin/quotes/validate-item", controllers.Quote.ValidateItem)

	// Document outputs
	mux.HandleFunc("/admin/quotes/print", controllers.Quote.Print)
	mux.HandleFunc("/admin/quotes/preview", controllers.Quote.Preview)
	mux.HandleFunc("/admin/quotes/email", controllers.Quote.Email)
	mux.HandleFunc("/admin/quotes/export", controllers.Export.Export)

	// Preview documents by token - GET (view) and DELETE (revoke)
	mux.HandleFunc(service.PreviewPath, func(w http.ResponseWriter, r *http.Request) {
		token := strings.Trim(strings.TrimPrefix(r.URL.Path, service.PreviewPath), "/")
		if token == "" {
			http.Error(w, "Not found", http.StatusNotFound)
			return
		}
		controllers.Quote.PreviewDocument(w, r, token)
	})

	// Quote by id - /admin/quotes/{id}, /admin/quotes/{id}/signature, /admin/quotes/{id}/checkout
	mux.HandleFunc("/admin/quotes/", func(w http.ResponseWriter, r *http.Request) {
		id, action := quoteSubpath(r.URL.Path)
		if id == "" {
			http.Error(w, "quote id parameter is required", http.StatusBadRequest)
			return
		}
		switch action {
		case "":
			controllers.Quote.GetQuote(w, r, id)
		case "signature":
			controllers.Quote.Signature(w, r, id)
		case "checkout":
			controllers.Sale.Checkout(w, r, id)
		default:
			http.Error(w, "Not found", http.StatusNotFound)
		}
	})

	// Exports and sales listings
	mux.HandleFunc("/admin/exports", controllers.Export.List)
	mux.HandleFunc("/admin/sales", controllers.Sale.List)

	// Device photo uploads
	mux.HandleFunc("/admin/images", controllers.Image.Upload)
}

// quoteSubpath splits "/admin/quotes/{id}/{action}" into id and action
func quoteSubpath(path string) (id, action string) {
	rest := strings.Trim(strings.TrimPrefix(path, "/admin/quotes/"), "/")
	id, action, _ = strings.Cut(rest, "/")
	return id, action
}
