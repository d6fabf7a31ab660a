package export

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"repair-shop-quotes/models"
	"repair-shop-quotes/render"
)

// Recorder persists the reference entry of a successful native export
type Recorder interface {
	RecordExport(ctx context.Context, rec models.ExportRecord) (models.ExportRecord, error)
}

// Request is one export of a rendered document
type Request struct {
	Document     render.Document
	FilenameBase string
	Interactive  render.InteractiveOptions
}

// Result tells the caller which path the export took.
// HTML is set whenever the interactive document is the outcome.
type Result struct {
	Mode     Mode
	OK       bool
	FilePath string
	Canceled bool
	Cached   bool
	HTML     string
	Record   *models.ExportRecord
	Message  string
}

// Pipeline runs the native PDF path when a PDF exporter is wired, otherwise
// the browser path. A native failure escalates to the interactive document.
type Pipeline struct {
	renderer *render.Renderer
	pdf      PDFExporter
	saver    FileSaver
	recorder Recorder
	cache    PDFCache
	archive  Archive
	loader   *LibraryLoader
	mirrors  render.Mirrors
	logger   *zap.Logger
	now      func() time.Time
}

// PipelineOption configures the pipeline
type PipelineOption func(*Pipeline)

// WithPDFExporter enables the native path
func WithPDFExporter(pdf PDFExporter) PipelineOption {
	return func(p *Pipeline) { p.pdf = pdf }
}

// WithFileSaver sets the file-save collaborator of the native path
func WithFileSaver(saver FileSaver) PipelineOption {
	return func(p *Pipeline) { p.saver = saver }
}

// WithRecorder sets where export references are recorded
func WithRecorder(recorder Recorder) PipelineOption {
	return func(p *Pipeline) { p.recorder = recorder }
}

// WithCache enables PDF caching
func WithCache(cache PDFCache) PipelineOption {
	return func(p *Pipeline) { p.cache = cache }
}

// WithArchive enables off-machine copies of native exports
func WithArchive(archive Archive) PipelineOption {
	return func(p *Pipeline) { p.archive = archive }
}

// WithLibraryLoader inlines the browser export libraries into interactive documents
func WithLibraryLoader(loader *LibraryLoader, mirrors render.Mirrors) PipelineOption {
	return func(p *Pipeline) {
		p.loader = loader
		p.mirrors = mirrors
	}
}

// WithPipelineLogger sets the logger
func WithPipelineLogger(logger *zap.Logger) PipelineOption {
	return func(p *Pipeline) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// NewPipeline creates an export pipeline
func NewPipeline(renderer *render.Renderer, opts ...PipelineOption) *Pipeline {
	p := &Pipeline{
		renderer: renderer,
		mirrors:  render.DefaultMirrors(),
		logger:   zap.NewNop(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Mode returns the path Export takes first
func (p *Pipeline) Mode() Mode {
	if p.pdf != nil && p.saver != nil {
		return ModeNative
	}
	return ModeBrowser
}

// Export runs the pipeline. A cancellation is a result, not an error.
func (p *Pipeline) Export(ctx context.Context, req Request) (Result, error) {
	if p.Mode() == ModeBrowser {
		return p.browser(ctx, req, "")
	}

	res, err := p.native(ctx, req)
	if err == nil {
		return res, nil
	}
	if IsCanceled(err) {
		p.logger.Info("ExportQuote: cancelled", zap.String("filename", req.FilenameBase))
		return Result{Mode: ModeNative, Canceled: true}, nil
	}

	p.logger.Error("ExportQuote: native export failed, opening interactive document",
		zap.String("code", Code(err)), zap.Error(err))
	return p.browser(ctx, req, fmt.Sprintf("PDF export failed (%s). The interactive document was opened instead.", err.Error()))
}

// Interactive renders the interactive document with libraries inlined when a loader is wired
func (p *Pipeline) Interactive(ctx context.Context, doc render.Document, opts render.InteractiveOptions) (string, error) {
	if len(opts.Mirrors.HTML2Canvas) == 0 && len(opts.Mirrors.JSPDF) == 0 {
		opts.Mirrors = p.mirrors
	}
	if p.loader != nil && opts.Libraries == nil {
		opts.Libraries = p.loader.LoadAll(ctx, opts.Mirrors)
	}
	html, err := p.renderer.RenderInteractive(doc, opts)
	if err != nil {
		return "", NewExportError(ErrCodeRenderFailed, "failed to render interactive document", err)
	}
	return html, nil
}

func (p *Pipeline) browser(ctx context.Context, req Request, message string) (Result, error) {
	opts := req.Interactive
	if opts.FilenameBase == "" {
		opts.FilenameBase = req.FilenameBase
	}
	html, err := p.Interactive(ctx, req.Document, opts)
	if err != nil {
		return Result{Mode: ModeBrowser}, err
	}
	return Result{Mode: ModeBrowser, OK: true, HTML: html, Message: message}, nil
}

func (p *Pipeline) native(ctx context.Context, req Request) (Result, error) {
	html, err := p.renderer.RenderPrint(req.Document, render.PrintOptions{})
	if err != nil {
		return Result{}, NewExportError(ErrCodeRenderFailed, "failed to render print document", err)
	}

	key := CacheKey(html)
	pdf, cached := p.cached(ctx, key)
	if !cached {
		pdf, err = p.pdf.ExportPDF(ctx, html)
		if err != nil {
			return Result{}, err
		}
		if p.cache != nil {
			if err := p.cache.Set(ctx, key, pdf); err != nil {
				p.logger.Warn("ExportQuote: failed to cache PDF", zap.Error(err))
			}
		}
	}

	saved, err := p.saver.ExportPDF(ctx, pdf, req.FilenameBase)
	if err != nil {
		return Result{}, err
	}
	if saved.Canceled {
		return Result{}, NewExportError(ErrCodeCanceled, "save was cancelled", nil)
	}

	rec := models.ExportRecord{
		ID:           uuid.New().String(),
		QuoteID:      req.Document.QuoteID,
		Kind:         models.ExportKindPDF,
		FilenameBase: req.FilenameBase,
		FilePath:     saved.FilePath,
		Bytes:        len(pdf),
		CreatedAt:    p.now().UTC().Format(time.RFC3339),
	}
	if p.archive != nil {
		url, err := p.archive.Upload(ctx, req.FilenameBase+".pdf", pdf, "application/pdf")
		if err != nil {
			p.logger.Warn("ExportQuote: archive upload failed", zap.Error(err))
		} else {
			rec.ArchiveURL = url
		}
	}

	res := Result{Mode: ModeNative, OK: true, FilePath: saved.FilePath, Cached: cached, Record: &rec}
	if p.recorder != nil {
		stored, err := p.recorder.RecordExport(ctx, rec)
		if err != nil {
			// the file is on disk; only the reference is missing
			p.logger.Error("ExportQuote: failed to record export", zap.Error(err))
			res.Message = "The PDF was saved but could not be recorded."
		} else {
			res.Record = &stored
		}
	}

	p.logger.Info("ExportQuote: native export saved",
		zap.String("path", saved.FilePath), zap.Bool("cached", cached), zap.Int("bytes", len(pdf)))
	return res, nil
}

func (p *Pipeline) cached(ctx context.Context, key string) ([]byte, bool) {
	if p.cache == nil {
		return nil, false
	}
	pdf, ok, err := p.cache.Get(ctx, key)
	if err != nil {
		p.logger.Warn("ExportQuote: cache read failed", zap.Error(err))
		return nil, false
	}
	return pdf, ok && len(pdf) > 0
}
