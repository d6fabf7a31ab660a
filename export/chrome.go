package export

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"repair-shop-quotes/render"
)

const (
	defaultChromeTimeout = 30 * time.Second
	imageBarrierTimeout  = 2500 * time.Millisecond
)

// PDFExporter converts a print document into PDF bytes
type PDFExporter interface {
	ExportPDF(ctx context.Context, html string) ([]byte, error)
	Close() error
}

// ChromeConfig contains configuration for the chromedp exporter
type ChromeConfig struct {
	Location ChromeLocation
	Timeout  time.Duration
	// NoSandbox runs Chrome without sandbox (required for Docker/root)
	NoSandbox bool
	Logger    *zap.Logger
}

// ChromeExporter prints quote documents to A4 PDF through the DevTools protocol
type ChromeExporter struct {
	config      ChromeConfig
	logger      *zap.Logger
	allocCtx    context.Context
	allocCancel context.CancelFunc
}

// NewChromeExporter creates the exporter and its browser allocator
func NewChromeExporter(cfg ChromeConfig) (*ChromeExporter, error) {
	if !cfg.Location.Found() {
		return nil, NewExportError(ErrCodeRenderFailed, "no Chrome/Chromium available", nil)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultChromeTimeout
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	e := &ChromeExporter{config: cfg, logger: logger}
	if cfg.Location.RemoteURL != "" {
		e.allocCtx, e.allocCancel = chromedp.NewRemoteAllocator(context.Background(), cfg.Location.RemoteURL)
		return e, nil
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.ExecPath(cfg.Location.ExecPath),
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("font-render-hinting", "none"),
	)
	if cfg.NoSandbox {
		opts = append(opts, chromedp.NoSandbox)
	}
	e.allocCtx, e.allocCancel = chromedp.NewExecAllocator(context.Background(), opts...)
	return e, nil
}

// imageBarrierJS resolves once every image settled or the timeout elapsed
var imageBarrierJS = fmt.Sprintf(`new Promise(function (resolve) {
	var imgs = Array.prototype.slice.call(document.querySelectorAll('img')).filter(function (img) { return !img.complete; });
	var remaining = imgs.length;
	if (remaining === 0) { resolve(true); return; }
	var timer = setTimeout(function () { resolve(false); }, %d);
	imgs.forEach(function (img) {
		var done = function () { remaining -= 1; if (remaining <= 0) { clearTimeout(timer); resolve(true); } };
		img.addEventListener('load', done, { once: true });
		img.addEventListener('error', done, { once: true });
	});
})`, imageBarrierTimeout.Milliseconds())

const measurePagesJS = `Array.prototype.slice.call(document.querySelectorAll('.page')).map(function (page) {
	var content = page.querySelector('.page-content');
	if (content) { content.style.transform = ''; }
	return {
		pageW: page.clientWidth,
		pageH: page.clientHeight,
		contentW: content ? content.scrollWidth : 0,
		contentH: content ? content.scrollHeight : 0
	};
})`

func applyScalesJS(scales []float64) string {
	parts := make([]string, len(scales))
	for i, s := range scales {
		parts[i] = fmt.Sprintf("%.6f", s)
	}
	return fmt.Sprintf(`(function (scales) {
	Array.prototype.slice.call(document.querySelectorAll('.page')).forEach(function (page, i) {
		var content = page.querySelector('.page-content');
		if (!content || scales[i] === undefined) { return; }
		content.style.transform = scales[i] < 1 ? 'scale(' + scales[i] + ')' : '';
	});
	return scales.length;
})([%s])`, strings.Join(parts, ","))
}

func awaitPromise(p *runtime.EvaluateParams) *runtime.EvaluateParams {
	return p.WithAwaitPromise(true)
}

// ExportPDF loads html into a fresh tab, waits for images, fits every page and prints A4
func (e *ChromeExporter) ExportPDF(ctx context.Context, html string) ([]byte, error) {
	if strings.TrimSpace(html) == "" {
		return nil, NewExportError(ErrCodeRenderFailed, "HTML content is empty", nil)
	}
	start := time.Now()

	ctx, cancel := context.WithTimeout(ctx, e.config.Timeout)
	defer cancel()

	browserCtx, browserCancel := chromedp.NewContext(e.allocCtx,
		chromedp.WithLogf(func(format string, args ...interface{}) {
			e.logger.Debug(fmt.Sprintf(format, args...))
		}),
	)
	defer browserCancel()

	// tie the tab to the caller's deadline and cancellation
	stop := context.AfterFunc(ctx, browserCancel)
	defer stop()

	var (
		pdfData  []byte
		settled  bool
		metrics  []render.PageMetrics
		appliedN int
	)
	err := chromedp.Run(browserCtx,
		chromedp.EmulateViewport(int64(render.PageWidthPx+0.5), int64(render.PageHeightPx+0.5)),
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frameTree.Frame.ID, html).Do(ctx)
		}),
		chromedp.WaitReady("body"),
		chromedp.Evaluate(`document.fonts ? document.fonts.ready.then(function () { return true; }) : true`, nil, awaitPromise),
		chromedp.Evaluate(imageBarrierJS, &settled, awaitPromise),
		chromedp.Evaluate(measurePagesJS, &metrics),
		chromedp.ActionFunc(func(ctx context.Context) error {
			return chromedp.Evaluate(applyScalesJS(render.FitScales(metrics)), &appliedN).Do(ctx)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			data, _, err := page.PrintToPDF().
				WithPrintBackground(true).
				WithPreferCSSPageSize(true).
				WithPaperWidth(render.MMToInches(render.PageWidthMM)).
				WithPaperHeight(render.MMToInches(render.PageHeightMM)).
				WithMarginTop(0).
				WithMarginBottom(0).
				WithMarginLeft(0).
				WithMarginRight(0).
				Do(ctx)
			if err != nil {
				return err
			}
			pdfData = data
			return nil
		}),
	)
	if err != nil {
		switch {
		case errors.Is(ctx.Err(), context.DeadlineExceeded):
			return nil, NewExportError(ErrCodeRenderTimeout,
				fmt.Sprintf("PDF rendering timed out after %v", e.config.Timeout), err)
		case errors.Is(ctx.Err(), context.Canceled):
			return nil, NewExportError(ErrCodeCanceled, "PDF rendering was cancelled", err)
		}
		e.logger.Error("ExportPDF: chromedp rendering failed", zap.Error(err))
		return nil, NewExportError(ErrCodeRenderFailed, "chromedp execution failed", err)
	}
	if len(pdfData) == 0 {
		return nil, NewExportError(ErrCodeRenderFailed, "generated PDF is empty", nil)
	}
	if !settled {
		e.logger.Warn("ExportPDF: some images did not settle before printing")
	}

	e.logger.Info("ExportPDF: PDF rendered",
		zap.Int("bytes", len(pdfData)),
		zap.Int("pages", len(metrics)),
		zap.Int("fitted", appliedN),
		zap.Duration("duration", time.Since(start)))
	return pdfData, nil
}

// Close releases the browser allocator
func (e *ChromeExporter) Close() error {
	if e.allocCancel != nil {
		e.allocCancel()
	}
	return nil
}

// Ensure ChromeExporter implements PDFExporter
var _ PDFExporter = (*ChromeExporter)(nil)
