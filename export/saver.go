package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"repair-shop-quotes/utils"
)

// SaveResult is the outcome of a file-save collaborator call
type SaveResult struct {
	OK       bool   `json:"ok"`
	FilePath string `json:"filePath,omitempty"`
	Canceled bool   `json:"canceled,omitempty"`
}

// FileSaver writes exported artifacts where the operator expects to find them
type FileSaver interface {
	ExportHTML(ctx context.Context, html, filenameBase string) (SaveResult, error)
	ExportPDF(ctx context.Context, pdf []byte, filenameBase string) (SaveResult, error)
}

// DirSaver saves exports into one directory. Existing files are never overwritten;
// a numbered suffix is added instead.
type DirSaver struct {
	dir    string
	logger *zap.Logger
}

// DefaultExportDir returns the export directory outside the project
func DefaultExportDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, "Documents", "Quotes"), nil
}

// NewDirSaver creates a saver rooted at dir, or at DefaultExportDir when dir is empty
func NewDirSaver(dir string, logger *zap.Logger) (*DirSaver, error) {
	if dir == "" {
		d, err := DefaultExportDir()
		if err != nil {
			return nil, err
		}
		dir = d
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DirSaver{dir: dir, logger: logger}, nil
}

// Dir returns the export directory
func (s *DirSaver) Dir() string {
	return s.dir
}

// ExportHTML saves the interactive document
func (s *DirSaver) ExportHTML(ctx context.Context, html, filenameBase string) (SaveResult, error) {
	return s.save(ctx, []byte(html), filenameBase, ".html")
}

// ExportPDF saves the rendered PDF
func (s *DirSaver) ExportPDF(ctx context.Context, pdf []byte, filenameBase string) (SaveResult, error) {
	return s.save(ctx, pdf, filenameBase, ".pdf")
}

func (s *DirSaver) save(ctx context.Context, data []byte, filenameBase, ext string) (SaveResult, error) {
	if err := ctx.Err(); err != nil {
		return SaveResult{Canceled: true}, nil
	}
	if len(data) == 0 {
		return SaveResult{}, NewExportError(ErrCodeSaveFailed, "nothing to save", nil)
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return SaveResult{}, NewExportError(ErrCodeSaveFailed, "failed to create export directory", err)
	}

	base := utils.SanitizeFilename(utils.StripExtension(filenameBase))
	if base == "" {
		base = "Quote"
	}

	// O_EXCL claims the name atomically; on collision try the next suffix
	for n := 1; n < 1000; n++ {
		name := base + ext
		if n > 1 {
			name = fmt.Sprintf("%s (%d)%s", base, n, ext)
		}
		path := filepath.Join(s.dir, name)

		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if os.IsExist(err) {
			continue
		}
		if err != nil {
			return SaveResult{}, NewExportError(ErrCodeSaveFailed, "failed to create export file", err)
		}
		if _, err := f.Write(data); err != nil {
			f.Close()
			os.Remove(path)
			return SaveResult{}, NewExportError(ErrCodeSaveFailed, "failed to write export file", err)
		}
		if err := f.Close(); err != nil {
			return SaveResult{}, NewExportError(ErrCodeSaveFailed, "failed to close export file", err)
		}

		s.logger.Info("ExportFile: saved", zap.String("path", path), zap.Int("bytes", len(data)))
		return SaveResult{OK: true, FilePath: path}, nil
	}
	return SaveResult{}, NewExportError(ErrCodeSaveFailed, "too many files named "+base, nil)
}

// Ensure DirSaver implements FileSaver
var _ FileSaver = (*DirSaver)(nil)
