// Package render turns composed quote pages into the print document and the
// self-contained interactive document.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"
	"time"

	"go.uber.org/zap"

	"repair-shop-quotes/compositor"
	"repair-shop-quotes/models"
	"repair-shop-quotes/pricing"
	"repair-shop-quotes/signature"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed assets/quote.css
var quoteCSS string

//go:embed assets/fit.js
var fitScript string

//go:embed assets/signature.js
var signatureScript string

//go:embed assets/export.js
var exportScript string

// Library names used for mirror lists and inlined sources
const (
	LibHTML2Canvas = "html2canvas"
	LibJSPDF       = "jspdf"
)

// DefaultMirrors are the ordered CDN mirrors of the browser export libraries
func DefaultMirrors() Mirrors {
	return Mirrors{
		HTML2Canvas: []string{
			"https://cdn.jsdelivr.net/npm/html2canvas@1.4.1/dist/html2canvas.min.js",
			"https://unpkg.com/html2canvas@1.4.1/dist/html2canvas.min.js",
			"https://cdnjs.cloudflare.com/ajax/libs/html2canvas/1.4.1/html2canvas.min.js",
		},
		JSPDF: []string{
			"https://cdn.jsdelivr.net/npm/jspdf@2.5.1/dist/jspdf.umd.min.js",
			"https://unpkg.com/jspdf@2.5.1/dist/jspdf.umd.min.js",
			"https://cdnjs.cloudflare.com/ajax/libs/jspdf/2.5.1/jspdf.umd.min.js",
		},
	}
}

// Mirrors lists library URLs in the order they are tried
type Mirrors struct {
	HTML2Canvas []string `json:"html2canvas"`
	JSPDF       []string `json:"jspdf"`
}

// ByName returns the mirror list of a library
func (m Mirrors) ByName(name string) []string {
	switch name {
	case LibHTML2Canvas:
		return m.HTML2Canvas
	case LibJSPDF:
		return m.JSPDF
	default:
		return nil
	}
}

// Shop is the branding printed in the header and approval terms
type Shop struct {
	Name    string   `mapstructure:"name"`
	Phone   string   `mapstructure:"phone"`
	Address string   `mapstructure:"address"`
	Email   string   `mapstructure:"email"`
	Terms   []string `mapstructure:"terms"`
}

// DefaultTerms are the fixed legal terms of the approval page
var DefaultTerms = []string{
	"Prices are valid for 14 days from the quote date and are subject to parts availability.",
	"Sales tax is applied where shown. Custom build labor is not taxed.",
	"Custom builds require approval and a deposit before parts are ordered.",
	"Used and refurbished devices carry the warranty stated at checkout.",
	"The shop is not responsible for data loss; back up your data before service.",
}

// Document is one quote snapshot ready to render
type Document struct {
	QuoteID   string
	Date      time.Time
	Cart      models.Cart
	Totals    models.Totals
	Pages     []models.PageDescriptor
	Signature *models.SignatureStamp
}

// NewDocument prices and composes a cart snapshot
func NewDocument(cart models.Cart, quoteID string, date time.Time) Document {
	cart = cart.Clone()
	totals := pricing.ComputePricing(cart)
	return Document{
		QuoteID: quoteID,
		Date:    date,
		Cart:    cart,
		Totals:  totals,
		Pages:   compositor.Compose(cart, totals),
	}
}

// FromQuote builds the document of a stored quote, including its signature stamp
func FromQuote(q models.Quote, fallbackDate time.Time) Document {
	date := fallbackDate
	if t, err := time.Parse(time.RFC3339, q.CreatedAt); err == nil {
		date = t
	}
	doc := NewDocument(q.Cart(), q.ID, date)
	doc.Signature = q.Signature
	return doc
}

// PrintOptions controls the print target
type PrintOptions struct {
	AutoPrint bool // open the print dialog once images settle and pages are fitted
}

// InteractiveOptions controls the interactive target
type InteractiveOptions struct {
	FilenameBase      string
	Mirrors           Mirrors
	Libraries         map[string]string // library name -> inlined source
	SignatureEndpoint string
	EmailSubject      string
	EmailBody         string
}

// Renderer renders quote documents from the embedded templates
type Renderer struct {
	tmpl   *template.Template
	shop   Shop
	logger *zap.Logger
}

// Option configures the renderer
type Option func(*Renderer)

// WithShop sets the branding
func WithShop(shop Shop) Option {
	return func(r *Renderer) {
		r.shop = shop
	}
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(r *Renderer) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewRenderer parses the embedded templates
func NewRenderer(opts ...Option) (*Renderer, error) {
	r := &Renderer{
		shop:   Shop{Name: "Repair Shop"},
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if len(r.shop.Terms) == 0 {
		r.shop.Terms = DefaultTerms
	}

	tmpl, err := template.New("quote").Funcs(funcMap()).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	r.tmpl = tmpl
	return r, nil
}

// Shop returns the configured branding
func (r *Renderer) Shop() Shop {
	return r.shop
}

// RenderPrint renders the static print document
func (r *Renderer) RenderPrint(doc Document, opts PrintOptions) (string, error) {
	v := r.newView(doc)
	v.AutoPrint = opts.AutoPrint
	return r.execute(v)
}

// RenderInteractive renders the signable document with its export tooling
func (r *Renderer) RenderInteractive(doc Document, opts InteractiveOptions) (string, error) {
	v := r.newView(doc)
	v.Interactive = true
	v.SignatureScript = template.JS(signatureScript)
	v.ExportScript = template.JS(exportScript)

	mirrors := opts.Mirrors
	if len(mirrors.HTML2Canvas) == 0 && len(mirrors.JSPDF) == 0 {
		mirrors = DefaultMirrors()
	}
	for _, name := range []string{LibHTML2Canvas, LibJSPDF} {
		if src := opts.Libraries[name]; src != "" {
			v.Libraries = append(v.Libraries, inlineScript(src))
		}
	}

	v.Data = interactiveData{
		Title:             v.Title,
		QuoteID:           doc.QuoteID,
		FilenameBase:      opts.FilenameBase,
		CustomerEmail:     doc.Cart.CustomerEmail,
		EmailSubject:      opts.EmailSubject,
		EmailBody:         opts.EmailBody,
		Mirrors:           mirrors,
		SignatureEndpoint: opts.SignatureEndpoint,
		RasterScale:       2,
		DismissAfterMs:    4000,
		Signature: signatureConfig{
			DefaultHeight: signature.DefaultCSSHeight,
			DefaultWidth:  signature.DefaultCSSWidth,
			FontRatio:     signature.TypedFontRatio,
			MinFontPx:     signature.MinTypedFontPx,
		},
	}
	return r.execute(v)
}

func (r *Renderer) execute(v *view) (string, error) {
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, "quote", v); err != nil {
		r.logger.Error("RenderDocument: failed to execute template", zap.Error(err))
		return "", fmt.Errorf("failed to execute template: %w", err)
	}
	return buf.String(), nil
}

type view struct {
	Title         string
	Heading       string
	Shop          Shop
	QuoteID       string
	DateText      string
	CustomerName  string
	CustomerPhone string
	CustomerEmail string
	Placeholder   string
	Totals        models.Totals
	Pages         []pageView
	PageCount     int
	Stamp         *models.SignatureStamp

	Interactive     bool
	AutoPrint       bool
	CSS             template.CSS
	FitScript       template.JS
	SignatureScript template.JS
	ExportScript    template.JS
	Libraries       []template.JS
	Data            interactiveData
}

type pageView struct {
	models.PageDescriptor
	Doc *view
}

type interactiveData struct {
	Title             string          `json:"title"`
	QuoteID           string          `json:"quoteId,omitempty"`
	FilenameBase      string          `json:"filenameBase"`
	CustomerEmail     string          `json:"customerEmail,omitempty"`
	EmailSubject      string          `json:"emailSubject,omitempty"`
	EmailBody         string          `json:"emailBody,omitempty"`
	Mirrors           Mirrors         `json:"mirrors"`
	SignatureEndpoint string          `json:"signatureEndpoint,omitempty"`
	RasterScale       int             `json:"rasterScale"`
	DismissAfterMs    int             `json:"dismissAfterMs"`
	Signature         signatureConfig `json:"signature"`
}

type signatureConfig struct {
	DefaultHeight float64 `json:"defaultHeight"`
	DefaultWidth  float64 `json:"defaultWidth"`
	FontRatio     float64 `json:"fontRatio"`
	MinFontPx     float64 `json:"minFontPx"`
}

func (r *Renderer) newView(doc Document) *view {
	heading := "Sales Quote"
	switch {
	case doc.Cart.Kind() == models.QuoteTypeRepairs:
		heading = "Repair Quote"
	case doc.Totals.Build != nil:
		heading = "Custom Build Quote"
	}

	date := doc.Date
	if date.IsZero() {
		date = time.Now()
	}

	title := heading
	if name := strings.TrimSpace(doc.Cart.CustomerName); name != "" {
		title = heading + " - " + name
	}

	v := &view{
		Title:         title,
		Heading:       heading,
		Shop:          r.shop,
		QuoteID:       doc.QuoteID,
		DateText:      date.Format("January 2, 2006"),
		CustomerName:  doc.Cart.CustomerName,
		CustomerPhone: doc.Cart.CustomerPhone,
		CustomerEmail: doc.Cart.CustomerEmail,
		Placeholder:   compositor.NoItemsPlaceholder,
		Totals:        doc.Totals,
		PageCount:     len(doc.Pages),
		Stamp:         doc.Signature,
		CSS:           template.CSS(quoteCSS),
		FitScript:     template.JS(fitScript),
	}
	v.Pages = make([]pageView, 0, len(doc.Pages))
	for _, p := range doc.Pages {
		v.Pages = append(v.Pages, pageView{PageDescriptor: p, Doc: v})
	}
	return v
}

// inlineScript keeps a fetched library from closing its own script element
func inlineScript(src string) template.JS {
	return template.JS(strings.ReplaceAll(src, "</script", `<\/script`))
}
