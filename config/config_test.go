package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdirTemp runs the test in an empty directory so no config.yaml is picked up
func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return dir
}

func TestLoad_Defaults(t *testing.T) {
	chdirTemp(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "repair-shop-quotes", cfg.App.Name)
	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "8080", cfg.App.Port)
	assert.False(t, cfg.Database.Enabled())
	assert.Equal(t, 24*time.Hour, cfg.Redis.TTL)
	assert.Equal(t, 60*time.Second, cfg.Export.Timeout)
	assert.Equal(t, ArchiveNone, cfg.Archive.Driver)
	assert.Equal(t, 2000*time.Millisecond, cfg.Autosave.Delay)
	assert.Equal(t, 30*time.Minute, cfg.Preview.TTL)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, "Repair Shop", cfg.Shop.Name)
	assert.Empty(t, cfg.Shop.Terms)
}

func TestLoad_Environment(t *testing.T) {
	chdirTemp(t)
	t.Setenv("QUOTES_APP_PORT", ":9000")
	t.Setenv("QUOTES_DATABASE_HOST", "db.local")
	t.Setenv("QUOTES_DATABASE_USER", "shop")
	t.Setenv("QUOTES_DATABASE_DBNAME", "quotes")
	t.Setenv("QUOTES_REDIS_ADDR", "localhost:6379")
	t.Setenv("QUOTES_EXPORT_TIMEOUT", "45s")
	t.Setenv("QUOTES_EXPORT_JSPDF_MIRRORS", "https://a.example/jspdf.js,https://b.example/jspdf.js")
	t.Setenv("QUOTES_AUTOSAVE_DELAY", "500ms")
	t.Setenv("QUOTES_SHOP_NAME", "Fix-It Corner")
	t.Setenv("QUOTES_SHOP_TERMS", "Valid for 14 days.|No refunds on custom builds.")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.App.Port)
	assert.True(t, cfg.Database.Enabled())
	assert.Equal(t, "host=db.local port=5432 user=shop password= dbname=quotes sslmode=disable", cfg.Database.DSN())
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, 45*time.Second, cfg.Export.Timeout)
	assert.Equal(t, []string{"https://a.example/jspdf.js", "https://b.example/jspdf.js"}, cfg.Export.JSPDFMirrors)
	assert.Equal(t, 500*time.Millisecond, cfg.Autosave.Delay)
	assert.Equal(t, "Fix-It Corner", cfg.Shop.Name)
	assert.Equal(t, []string{"Valid for 14 days.", "No refunds on custom builds."}, cfg.Shop.Terms)
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := chdirTemp(t)
	yaml := `
shop:
  name: Byte Repair
  terms:
    - First term.
    - Second term.
archive:
  driver: s3
  s3_bucket: quotes-archive
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "Byte Repair", cfg.Shop.Name)
	assert.Equal(t, []string{"First term.", "Second term."}, cfg.Shop.Terms)
	assert.Equal(t, ArchiveS3, cfg.Archive.Driver)
	assert.Equal(t, "quotes-archive", cfg.Archive.S3Bucket)
}

func TestLoad_Validation(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"unknown archive", map[string]string{"QUOTES_ARCHIVE_DRIVER": "ftp"}, "archive.driver"},
		{"drive without folder", map[string]string{"QUOTES_ARCHIVE_DRIVER": "drive"}, "archive.drive_folder_id"},
		{"s3 without bucket", map[string]string{"QUOTES_ARCHIVE_DRIVER": "s3"}, "archive.s3_bucket"},
		{"bad log format", map[string]string{"QUOTES_LOG_FORMAT": "xml"}, "log.format"},
		{"production database without password", map[string]string{"QUOTES_APP_ENV": "production", "QUOTES_DATABASE_HOST": "db"}, "database.password"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chdirTemp(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := chdirTemp(t)
	t.Setenv("QUOTES_SHOP_PHONE", "from-process")

	require.NoError(t, LoadDotEnv(filepath.Join(dir, "missing.env")))

	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("QUOTES_SHOP_PHONE=555-0100\n"), 0o644))
	require.NoError(t, LoadDotEnv(path))
	assert.Equal(t, "555-0100", os.Getenv("QUOTES_SHOP_PHONE"), ".env overrides the process environment")
}
