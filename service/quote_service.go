package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"repair-shop-quotes/export"
	"repair-shop-quotes/models"
	"repair-shop-quotes/pricing"
	"repair-shop-quotes/render"
	"repair-shop-quotes/repository"
	"repair-shop-quotes/signature"
	"repair-shop-quotes/utils"
)

// PreviewPath is the URL prefix interactive previews are served under
const PreviewPath = "/admin/quotes/preview/"

// ErrDraftKeyRequired is returned when a draft mutation carries no key
var ErrDraftKeyRequired = errors.New("draft key is required")

// Dependencies are the collaborators of the quote service
type Dependencies struct {
	Quotes        repository.QuoteRepositoryInterface
	Sales         repository.SaleRepositoryInterface
	Exports       repository.ExportRepositoryInterface
	Renderer      *render.Renderer
	Pipeline      *export.Pipeline
	Previews      *PreviewStore
	Mailer        Mailer
	AutosaveDelay time.Duration
	Logger        *zap.Logger
}

// QuoteService orchestrates pricing, persistence, rendering, export and checkout
type QuoteService struct {
	quotes   repository.QuoteRepositoryInterface
	sales    repository.SaleRepositoryInterface
	exports  repository.ExportRepositoryInterface
	renderer *render.Renderer
	pipeline *export.Pipeline
	previews *PreviewStore
	mailer   Mailer
	logger   *zap.Logger
	now      func() time.Time

	autosaver *Autosaver
	draftsMu  sync.Mutex
	drafts    map[string]string // draft key -> quote ID
}

// NewQuoteService creates a new QuoteService
func NewQuoteService(deps Dependencies) *QuoteService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	previews := deps.Previews
	if previews == nil {
		previews = NewPreviewStore(DefaultPreviewTTL)
	}
	pipeline := deps.Pipeline
	if pipeline == nil {
		pipeline = export.NewPipeline(deps.Renderer, export.WithPipelineLogger(logger))
	}

	s := &QuoteService{
		quotes:   deps.Quotes,
		sales:    deps.Sales,
		exports:  deps.Exports,
		renderer: deps.Renderer,
		pipeline: pipeline,
		previews: previews,
		mailer:   deps.Mailer,
		logger:   logger,
		now:      time.Now,
		drafts:   make(map[string]string),
	}
	s.autosaver = NewAutosaver(deps.AutosaveDelay, s.saveDraft, logger)
	return s
}

// Ensure QuoteService implements QuoteServiceInterface
var _ QuoteServiceInterface = (*QuoteService)(nil)

// Pricing returns the totals of a cart
func (s *QuoteService) Pricing(cart models.Cart) models.Totals {
	return pricing.ComputePricing(cart)
}

// Save validates the cart and stores it. A request ID updates that quote in
// place, keeping its creation time and signature.
func (s *QuoteService) Save(ctx context.Context, req models.SaveQuoteRequest) (*models.Quote, error) {
	if err := ValidateCart(req.Cart); err != nil {
		return nil, err
	}

	stamp := s.now().UTC().Format(time.RFC3339)
	q := models.Quote{CreatedAt: stamp}
	if req.ID != "" {
		existing, err := s.quotes.GetByID(ctx, req.ID)
		if err != nil {
			return nil, err
		}
		q = *existing
		q.UpdatedAt = stamp
	}
	applyCart(&q, req.Cart)

	saved, err := s.quotes.Save(ctx, &q)
	if err != nil {
		return nil, err
	}
	s.logger.Info("SaveQuote: saved", zap.String("id", saved.ID), zap.String("amountDue", saved.Totals.AmountDue.StringFixed(2)))
	return saved, nil
}

// Get returns one stored quote
func (s *QuoteService) Get(ctx context.Context, id string) (*models.Quote, error) {
	return s.quotes.GetByID(ctx, id)
}

// List returns every stored quote
func (s *QuoteService) List(ctx context.Context) ([]models.Quote, error) {
	return s.quotes.List(ctx)
}

// Draft feeds a cart mutation to the autosaver. It reports whether a save is pending.
func (s *QuoteService) Draft(key string, cart models.Cart) (bool, error) {
	if strings.TrimSpace(key) == "" {
		return false, ErrDraftKeyRequired
	}
	return s.autosaver.Touch(key, cart), nil
}

// DiscardDraft cancels the pending save of a draft whose editor closed.
// It reports whether a save was pending.
func (s *QuoteService) DiscardDraft(key string) (bool, error) {
	if strings.TrimSpace(key) == "" {
		return false, ErrDraftKeyRequired
	}
	pending := s.autosaver.Pending(key)
	s.autosaver.Forget(key)

	s.draftsMu.Lock()
	delete(s.drafts, key)
	s.draftsMu.Unlock()

	s.logger.Debug("DiscardDraft: released", zap.String("key", key), zap.Bool("pending", pending))
	return pending, nil
}

func (s *QuoteService) saveDraft(ctx context.Context, key string, cart models.Cart) error {
	s.draftsMu.Lock()
	id := s.drafts[key]
	s.draftsMu.Unlock()

	q, err := s.Save(ctx, models.SaveQuoteRequest{ID: id, Cart: cart})
	if err != nil {
		return fmt.Errorf("autosave %s: %w", key, err)
	}

	s.draftsMu.Lock()
	s.drafts[key] = q.ID
	s.draftsMu.Unlock()
	return nil
}

// DraftQuoteID returns the quote a draft key was saved to
func (s *QuoteService) DraftQuoteID(key string) (string, bool) {
	s.draftsMu.Lock()
	defer s.draftsMu.Unlock()
	id, ok := s.drafts[key]
	return id, ok
}

// PrintHTML renders the static print document
func (s *QuoteService) PrintHTML(ctx context.Context, req models.ExportRequest, autoPrint bool) (string, error) {
	doc, err := s.document(ctx, req)
	if err != nil {
		return "", err
	}
	return s.renderer.RenderPrint(doc, render.PrintOptions{AutoPrint: autoPrint})
}

// Preview renders the interactive document and returns its preview token
func (s *QuoteService) Preview(ctx context.Context, req models.ExportRequest) (string, error) {
	doc, err := s.document(ctx, req)
	if err != nil {
		return "", err
	}
	html, err := s.pipeline.Interactive(ctx, doc, s.interactiveOptions(doc, s.filenameBase(req, doc)))
	if err != nil {
		return "", err
	}
	token := s.previews.Put(html)
	s.logger.Debug("Preview: stored", zap.Int("live", s.previews.Len()))
	return token, nil
}

// PreviewHTML returns a live preview document
func (s *QuoteService) PreviewHTML(token string) (string, bool) {
	return s.previews.Get(token)
}

// RevokePreview releases a preview document
func (s *QuoteService) RevokePreview(token string) bool {
	return s.previews.Revoke(token)
}

// Export runs the export pipeline. An interactive outcome is published as a preview.
func (s *QuoteService) Export(ctx context.Context, req models.ExportRequest) (models.ExportResponse, error) {
	doc, err := s.document(ctx, req)
	if err != nil {
		return models.ExportResponse{}, err
	}
	base := s.filenameBase(req, doc)

	res, err := s.pipeline.Export(ctx, export.Request{
		Document:     doc,
		FilenameBase: base,
		Interactive:  s.interactiveOptions(doc, base),
	})
	if err != nil {
		return models.ExportResponse{}, err
	}

	resp := models.ExportResponse{
		Mode:     string(res.Mode),
		OK:       res.OK,
		FilePath: res.FilePath,
		Canceled: res.Canceled,
		Message:  res.Message,
	}
	if res.HTML != "" {
		resp.PreviewURL = PreviewPath + s.previews.Put(res.HTML)
	}
	return resp, nil
}

// Email mails the interactive document as an HTML attachment
func (s *QuoteService) Email(ctx context.Context, req models.EmailQuoteRequest) (EmailResult, error) {
	if s.mailer == nil {
		return EmailResult{Error: ErrMailerDisabled.Error()}, ErrMailerDisabled
	}
	if err := validate.Struct(req); err != nil {
		return EmailResult{}, &ValidationError{Fields: structErrors(req, "")}
	}

	doc, err := s.document(ctx, models.ExportRequest{Cart: req.Cart})
	if err != nil {
		return EmailResult{}, err
	}
	base := utils.QuoteFilenameBase("Quote", doc.Cart.CustomerName, doc.Date)
	html, err := s.pipeline.Interactive(ctx, doc, s.interactiveOptions(doc, base))
	if err != nil {
		return EmailResult{}, err
	}

	subject := req.Subject
	if subject == "" {
		subject = s.emailSubject(doc)
	}
	body := req.BodyText
	if body == "" {
		body = s.emailBody(doc)
	}
	return s.mailer.SendQuoteHTML(ctx, EmailRequest{
		To:       req.To,
		Subject:  subject,
		BodyText: body,
		Filename: base + ".html",
		HTML:     html,
	})
}

// FinalizeSignature decodes a finalized signature and stores it on the quote
func (s *QuoteService) FinalizeSignature(ctx context.Context, id string, req models.FinalizeSignatureRequest) (*models.Quote, error) {
	q, err := s.quotes.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	stamp, err := signature.DecodeStamp(req, s.now())
	if err != nil {
		return nil, err
	}

	q.Signature = stamp
	q.UpdatedAt = s.now().UTC().Format(time.RFC3339)
	saved, err := s.quotes.Save(ctx, q)
	if err != nil {
		return nil, err
	}
	s.logger.Info("FinalizeSignature: stored", zap.String("id", id), zap.String("mode", string(stamp.Mode)))
	return saved, nil
}

// Checkout opens the checkout collaborator for the quote's amount due and
// records the result as a sale. A cancelled checkout returns a nil sale.
func (s *QuoteService) Checkout(ctx context.Context, id string, checkout Checkout) (*models.Sale, error) {
	q, err := s.quotes.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	due := pricing.ComputePricing(q.Cart()).AmountDue

	res, err := checkout.Open(ctx, models.CheckoutRequest{QuoteID: q.ID, AmountDue: due})
	if err != nil {
		return nil, fmt.Errorf("checkout failed: %w", err)
	}
	if res == nil {
		s.logger.Info("Checkout: cancelled", zap.String("quoteId", id))
		return nil, nil
	}
	if err := validate.Struct(res); err != nil {
		return nil, &ValidationError{Fields: structErrors(res, "")}
	}
	if res.AmountPaid.IsNegative() {
		return nil, &ValidationError{Fields: []FieldError{{Field: "amountPaid", Message: "Must be greater than or equal to 0"}}}
	}

	sale := NewSale(*q, due, *res, s.now())
	return s.sales.Create(ctx, &sale)
}

// Exports returns export references, all of them or those of one quote
func (s *QuoteService) Exports(ctx context.Context, quoteID string) ([]models.ExportRecord, error) {
	if quoteID == "" {
		return s.exports.List(ctx)
	}
	return s.exports.ListByQuote(ctx, quoteID)
}

// Sales returns recorded sales, all of them or those of one quote
func (s *QuoteService) Sales(ctx context.Context, quoteID string) ([]models.Sale, error) {
	if quoteID == "" {
		return s.sales.List(ctx)
	}
	return s.sales.ListByQuote(ctx, quoteID)
}

// Close stops the autosaver; no draft is saved afterwards
func (s *QuoteService) Close() {
	s.autosaver.Stop()
}

// document resolves what to render. A quote ID with an empty cart renders the
// stored quote; a cart renders as given, keeping the stored quote's date and signature.
func (s *QuoteService) document(ctx context.Context, req models.ExportRequest) (render.Document, error) {
	if req.QuoteID == "" {
		if err := ValidateCart(req.Cart); err != nil {
			return render.Document{}, err
		}
		return render.NewDocument(req.Cart, "", s.now()), nil
	}

	q, err := s.quotes.GetByID(ctx, req.QuoteID)
	if err != nil {
		return render.Document{}, err
	}
	if !req.Cart.IsEmpty() {
		if err := ValidateCart(req.Cart); err != nil {
			return render.Document{}, err
		}
		applyCart(q, req.Cart)
	}
	return render.FromQuote(*q, s.now()), nil
}

func (s *QuoteService) filenameBase(req models.ExportRequest, doc render.Document) string {
	if base := utils.SanitizeFilename(utils.StripExtension(req.FilenameBase)); base != "" {
		return base
	}
	return utils.QuoteFilenameBase("Quote", doc.Cart.CustomerName, doc.Date)
}

func (s *QuoteService) interactiveOptions(doc render.Document, base string) render.InteractiveOptions {
	opts := render.InteractiveOptions{
		FilenameBase: base,
		EmailSubject: s.emailSubject(doc),
		EmailBody:    s.emailBody(doc),
	}
	if doc.QuoteID != "" {
		opts.SignatureEndpoint = "/admin/quotes/" + doc.QuoteID + "/signature"
	}
	return opts
}

func (s *QuoteService) emailSubject(doc render.Document) string {
	subject := "Your quote from " + s.renderer.Shop().Name
	if name := strings.TrimSpace(doc.Cart.CustomerName); name != "" {
		subject += " for " + name
	}
	return subject
}

func (s *QuoteService) emailBody(doc render.Document) string {
	return fmt.Sprintf("Hello %s,\n\nYour quote dated %s is attached. Amount due: %s.\n\n%s",
		firstNonBlank(doc.Cart.CustomerName, "there"),
		doc.Date.Format("January 2, 2006"),
		utils.FormatUSD(doc.Totals.AmountDue),
		s.renderer.Shop().Name)
}

// applyCart copies the editable cart and its fresh totals onto the quote
func applyCart(q *models.Quote, cart models.Cart) {
	cart = cart.Clone()
	totals := pricing.ComputePricing(cart)
	q.Type = cart.Kind()
	q.CustomerName = cart.CustomerName
	q.CustomerPhone = cart.CustomerPhone
	q.CustomerEmail = cart.CustomerEmail
	q.Items = cart.Items
	q.Lines = cart.Lines
	q.Notes = cart.Notes
	q.Totals = &totals
}

func firstNonBlank(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
