package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Export   ExportConfig
	Archive  ArchiveConfig
	SMTP     SMTPConfig
	Autosave AutosaveConfig
	Preview  PreviewConfig
	Log      LogConfig
	Shop     ShopConfig
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name    string
	Env     string
	Port    string
	BaseURL string
}

// DatabaseConfig holds database connection settings. With neither URL nor
// Host set, quotes are kept in memory.
type DatabaseConfig struct {
	URL          string
	Host         string
	Port         int
	User         string
	Password     string
	DBName       string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

// RedisConfig holds the PDF cache connection. An empty Addr disables Redis.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// ExportConfig holds document export settings
type ExportConfig struct {
	Dir                string
	ChromePath         string
	RemoteURL          string // e.g. ws://chrome:9222
	Timeout            time.Duration
	NoSandbox          bool
	HTML2CanvasMirrors []string
	JSPDFMirrors       []string
	InlineLibraries    bool
}

// ArchiveConfig selects where exported PDFs are copied. Driver is none, drive or s3.
type ArchiveConfig struct {
	Driver           string
	DriveFolderID    string
	DriveCredentials string
	S3Bucket         string
	S3Region         string
	S3Endpoint       string
	S3AccessKey      string
	S3SecretKey      string
	S3Prefix         string
	S3UsePathStyle   bool
}

// SMTPConfig holds outbound mail settings. An empty Host disables email.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// AutosaveConfig holds the draft autosave debounce
type AutosaveConfig struct {
	Delay time.Duration
}

// PreviewConfig holds the interactive preview lifetime
type PreviewConfig struct {
	TTL time.Duration
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// ShopConfig holds the branding printed on every quote
type ShopConfig struct {
	Name    string
	Phone   string
	Address string
	Email   string
	Terms   []string
}

// Archive drivers
const (
	ArchiveNone  = "none"
	ArchiveDrive = "drive"
	ArchiveS3    = "s3"
)

// LoadDotEnv loads a .env file outside production. Values in the file
// override the process environment. A missing file is not an error.
func LoadDotEnv(path string) error {
	if os.Getenv("QUOTES_APP_ENV") == "production" || os.Getenv("ENV") == "production" {
		return nil
	}
	if err := godotenv.Overload(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			log.Printf("Warning: %s not found, using system environment variables", path)
			return nil
		}
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	log.Printf("Loaded environment variables from %s", path)
	return nil
}

// Load loads configuration from YAML file and environment variables
// Priority (highest to lowest):
// 1. Environment variables with QUOTES_ prefix (e.g., QUOTES_DATABASE_PASSWORD)
// 2. config.yaml
// 3. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("/etc/quotes")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix("QUOTES")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		App: AppConfig{
			Name:    v.GetString("app.name"),
			Env:     v.GetString("app.env"),
			Port:    v.GetString("app.port"),
			BaseURL: v.GetString("app.base_url"),
		},
		Database: DatabaseConfig{
			URL:          v.GetString("database.url"),
			Host:         v.GetString("database.host"),
			Port:         v.GetInt("database.port"),
			User:         v.GetString("database.user"),
			Password:     v.GetString("database.password"),
			DBName:       v.GetString("database.dbname"),
			SSLMode:      v.GetString("database.sslmode"),
			MaxOpenConns: v.GetInt("database.max_open_conns"),
			MaxIdleConns: v.GetInt("database.max_idle_conns"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("redis.addr"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
			TTL:      v.GetDuration("redis.ttl"),
		},
		Export: ExportConfig{
			Dir:                v.GetString("export.dir"),
			ChromePath:         v.GetString("export.chrome_path"),
			RemoteURL:          v.GetString("export.remote_url"),
			Timeout:            v.GetDuration("export.timeout"),
			NoSandbox:          v.GetBool("export.no_sandbox"),
			HTML2CanvasMirrors: splitList(v.GetStringSlice("export.html2canvas_mirrors")),
			JSPDFMirrors:       splitList(v.GetStringSlice("export.jspdf_mirrors")),
			InlineLibraries:    v.GetBool("export.inline_libraries"),
		},
		Archive: ArchiveConfig{
			Driver:           strings.ToLower(v.GetString("archive.driver")),
			DriveFolderID:    v.GetString("archive.drive_folder_id"),
			DriveCredentials: v.GetString("archive.drive_credentials"),
			S3Bucket:         v.GetString("archive.s3_bucket"),
			S3Region:         v.GetString("archive.s3_region"),
			S3Endpoint:       v.GetString("archive.s3_endpoint"),
			S3AccessKey:      v.GetString("archive.s3_access_key"),
			S3SecretKey:      v.GetString("archive.s3_secret_key"),
			S3Prefix:         v.GetString("archive.s3_prefix"),
			S3UsePathStyle:   v.GetBool("archive.s3_use_path_style"),
		},
		SMTP: SMTPConfig{
			Host:     v.GetString("smtp.host"),
			Port:     v.GetInt("smtp.port"),
			Username: v.GetString("smtp.username"),
			Password: v.GetString("smtp.password"),
			From:     v.GetString("smtp.from"),
		},
		Autosave: AutosaveConfig{
			Delay: v.GetDuration("autosave.delay"),
		},
		Preview: PreviewConfig{
			TTL: v.GetDuration("preview.ttl"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		Shop: ShopConfig{
			Name:    v.GetString("shop.name"),
			Phone:   v.GetString("shop.phone"),
			Address: v.GetString("shop.address"),
			Email:   v.GetString("shop.email"),
			Terms:   splitTerms(v.Get("shop.terms")),
		},
	}

	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyDefaults sets default values for any empty config fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "repair-shop-quotes"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	cfg.App.Port = strings.TrimPrefix(cfg.App.Port, ":")
	if cfg.App.Port == "" {
		cfg.App.Port = "8080"
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 10
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = 2
	}
	if cfg.Redis.TTL == 0 {
		cfg.Redis.TTL = 24 * time.Hour
	}
	if cfg.Export.Timeout == 0 {
		cfg.Export.Timeout = 60 * time.Second
	}
	if cfg.Archive.Driver == "" {
		cfg.Archive.Driver = ArchiveNone
	}
	if cfg.SMTP.Port == 0 {
		cfg.SMTP.Port = 587
	}
	if cfg.Autosave.Delay == 0 {
		cfg.Autosave.Delay = 2000 * time.Millisecond
	}
	if cfg.Preview.TTL == 0 {
		cfg.Preview.TTL = 30 * time.Minute
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stdout"
	}
	if cfg.Shop.Name == "" {
		cfg.Shop.Name = "Repair Shop"
	}
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	switch c.Archive.Driver {
	case ArchiveNone:
	case ArchiveDrive:
		if c.Archive.DriveFolderID == "" || c.Archive.DriveCredentials == "" {
			return fmt.Errorf("archive.drive_folder_id and archive.drive_credentials are required for the drive archive")
		}
	case ArchiveS3:
		if c.Archive.S3Bucket == "" {
			return fmt.Errorf("archive.s3_bucket is required for the s3 archive")
		}
	default:
		return fmt.Errorf("archive.driver must be one of none, drive, s3, got %q", c.Archive.Driver)
	}

	if c.Log.Format != "console" && c.Log.Format != "json" {
		return fmt.Errorf("log.format must be console or json, got %q", c.Log.Format)
	}
	if c.Export.Timeout < 0 {
		return fmt.Errorf("export.timeout cannot be negative")
	}
	if c.Database.MaxIdleConns > c.Database.MaxOpenConns {
		return fmt.Errorf("database.max_idle_conns (%d) cannot exceed database.max_open_conns (%d)",
			c.Database.MaxIdleConns, c.Database.MaxOpenConns)
	}

	if c.IsProduction() && c.Database.Enabled() && c.Database.URL == "" && c.Database.Password == "" {
		return fmt.Errorf("database.password is required in production")
	}
	return nil
}

// Enabled reports whether a database is configured
func (d DatabaseConfig) Enabled() bool {
	return d.URL != "" || d.Host != ""
}

// DSN returns the connection string, preferring the URL when set
func (d DatabaseConfig) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

// IsProduction reports whether the app runs in production
func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}

// splitList accepts both YAML lists and comma separated env values
func splitList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// splitTerms accepts YAML lists and "|" separated env values
func splitTerms(raw any) []string {
	var values []string
	switch t := raw.(type) {
	case string:
		values = strings.Split(t, "|")
	case []string:
		values = t
	case []any:
		for _, v := range t {
			values = append(values, fmt.Sprint(v))
		}
	}
	var out []string
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
