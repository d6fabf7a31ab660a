package export

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"repair-shop-quotes/render"
)

const maxLibraryBytes = 4 << 20

// LibraryLoader fetches the browser export libraries so they can be inlined
// into the interactive document. Mirrors are tried in order; the first success wins.
type LibraryLoader struct {
	client *http.Client
	logger *zap.Logger
}

// NewLibraryLoader creates a loader. A nil client gets a 10 second timeout client.
func NewLibraryLoader(client *http.Client, logger *zap.Logger) *LibraryLoader {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LibraryLoader{client: client, logger: logger}
}

// Load returns the source of the first mirror that answers with a non-empty body.
// When every mirror fails, all failures are joined into a LIBRARY_UNAVAILABLE error.
func (l *LibraryLoader) Load(ctx context.Context, name string, mirrors []string) (string, error) {
	if len(mirrors) == 0 {
		return "", NewExportError(ErrCodeLibraryUnavailable, name+": no mirrors configured", nil)
	}

	var errs []error
	for _, url := range mirrors {
		if err := ctx.Err(); err != nil {
			return "", NewExportError(ErrCodeCanceled, "library loading was cancelled", err)
		}
		src, err := l.fetch(ctx, url)
		if err == nil {
			l.logger.Debug("LoadLibrary: loaded", zap.String("library", name), zap.String("url", url))
			return src, nil
		}
		l.logger.Warn("LoadLibrary: mirror failed", zap.String("library", name), zap.String("url", url), zap.Error(err))
		errs = append(errs, fmt.Errorf("%s: %w", url, err))
	}
	return "", NewExportError(ErrCodeLibraryUnavailable, name+" unavailable from every mirror", errors.Join(errs...))
}

// LoadAll loads every library it can. Failures are logged and leave that
// library to the document's runtime mirror loading.
func (l *LibraryLoader) LoadAll(ctx context.Context, mirrors render.Mirrors) map[string]string {
	out := make(map[string]string, 2)
	for _, name := range []string{render.LibHTML2Canvas, render.LibJSPDF} {
		src, err := l.Load(ctx, name, mirrors.ByName(name))
		if err != nil {
			l.logger.Warn("LoadLibrary: falling back to runtime loading", zap.String("library", name), zap.Error(err))
			continue
		}
		out[name] = src
	}
	return out
}

func (l *LibraryLoader) fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("mirror returned status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxLibraryBytes+1))
	if err != nil {
		return "", fmt.Errorf("failed to read library: %w", err)
	}
	if len(body) > maxLibraryBytes {
		return "", fmt.Errorf("library exceeds %d bytes", maxLibraryBytes)
	}
	if strings.TrimSpace(string(body)) == "" {
		return "", errors.New("empty library body")
	}
	return string(body), nil
}
