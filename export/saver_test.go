package export

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirSaver_ExportPDF(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "Quotes")
	s, err := NewDirSaver(dir, nil)
	require.NoError(t, err)

	res, err := s.ExportPDF(context.Background(), []byte("%PDF-1.7"), "Quote - Dana Ruiz - 2026-01-04")
	require.NoError(t, err)

	assert.True(t, res.OK)
	assert.Equal(t, filepath.Join(dir, "Quote - Dana Ruiz - 2026-01-04.pdf"), res.FilePath)
	data, err := os.ReadFile(res.FilePath)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.7", string(data))
}

func TestDirSaver_NeverOverwrites(t *testing.T) {
	s, err := NewDirSaver(t.TempDir(), nil)
	require.NoError(t, err)
	ctx := context.Background()

	first, err := s.ExportHTML(ctx, "<html>1</html>", "Quote")
	require.NoError(t, err)
	second, err := s.ExportHTML(ctx, "<html>2</html>", "Quote.html")
	require.NoError(t, err)

	assert.Equal(t, "Quote.html", filepath.Base(first.FilePath))
	assert.Equal(t, "Quote (2).html", filepath.Base(second.FilePath))
	data, err := os.ReadFile(first.FilePath)
	require.NoError(t, err)
	assert.Equal(t, "<html>1</html>", string(data))
}

func TestDirSaver_SanitizesName(t *testing.T) {
	s, err := NewDirSaver(t.TempDir(), nil)
	require.NoError(t, err)

	res, err := s.ExportPDF(context.Background(), []byte("x"), "../../etc/passwd")
	require.NoError(t, err)
	assert.Equal(t, s.Dir(), filepath.Dir(res.FilePath))
}

func TestDirSaver_CanceledAndEmpty(t *testing.T) {
	s, err := NewDirSaver(t.TempDir(), nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res, err := s.ExportPDF(ctx, []byte("x"), "Quote")
	require.NoError(t, err)
	assert.True(t, res.Canceled)
	assert.False(t, res.OK)

	_, err = s.ExportPDF(context.Background(), nil, "Quote")
	assert.Equal(t, ErrCodeSaveFailed, Code(err))
}
