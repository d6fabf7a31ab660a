package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"repair-shop-quotes/app/controller"
	"repair-shop-quotes/app/router"
	"repair-shop-quotes/config"
	"repair-shop-quotes/db"
	"repair-shop-quotes/export"
	"repair-shop-quotes/render"
	"repair-shop-quotes/repository"
	"repair-shop-quotes/service"
)

// App is the initialized application
type App struct {
	Handler http.Handler
	Service *service.QuoteService

	closers []func() error
	logger  *zap.Logger
}

// Initialize initializes the application
func Initialize(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	a := &App{logger: logger}

	// Storage: PostgreSQL when configured, memory otherwise
	store, err := a.openStore(ctx, cfg)
	if err != nil {
		a.Close()
		return nil, err
	}
	quoteRepo := repository.NewQuoteRepository(store, logger)
	saleRepo := repository.NewSaleRepository(store, logger)
	exportRepo := repository.NewExportRepository(store, logger)

	renderer, err := render.NewRenderer(
		render.WithShop(render.Shop{
			Name:    cfg.Shop.Name,
			Phone:   cfg.Shop.Phone,
			Address: cfg.Shop.Address,
			Email:   cfg.Shop.Email,
			Terms:   cfg.Shop.Terms,
		}),
		render.WithLogger(logger),
	)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to initialize renderer: %w", err)
	}

	pipeline, err := a.newPipeline(ctx, cfg, renderer, exportRepo)
	if err != nil {
		a.Close()
		return nil, err
	}

	var mailer service.Mailer
	if cfg.SMTP.Host != "" {
		mailer = service.NewSMTPMailer(service.SMTPConfig{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.Username,
			Password: cfg.SMTP.Password,
			From:     cfg.SMTP.From,
		}, logger)
	} else {
		logger.Info("Initialize: SMTP host not set, email disabled")
	}

	svc := service.NewQuoteService(service.Dependencies{
		Quotes:        quoteRepo,
		Sales:         saleRepo,
		Exports:       exportRepo,
		Renderer:      renderer,
		Pipeline:      pipeline,
		Previews:      service.NewPreviewStore(cfg.Preview.TTL),
		Mailer:        mailer,
		AutosaveDelay: cfg.Autosave.Delay,
		Logger:        logger,
	})
	a.Service = svc

	// Create controllers
	controllers := &router.Controllers{
		Quote:  controller.NewQuoteController(svc, logger),
		Export: controller.NewExportController(svc, logger),
		Sale:   controller.NewSaleController(svc, logger),
		Image:  controller.NewImageController(service.NewImageService(logger), logger),
	}
	a.Handler = router.NewMux(controllers)

	logger.Info("Initialize: application ready", zap.String("exportMode", string(pipeline.Mode())))
	return a, nil
}

func (a *App) openStore(ctx context.Context, cfg *config.Config) (repository.Store, error) {
	if !cfg.Database.Enabled() {
		a.logger.Warn("Initialize: no database configured, quotes are kept in memory")
		return repository.NewMemoryStore(), nil
	}
	conn, err := db.Open(ctx, cfg.Database, a.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	a.closers = append(a.closers, db.CloseDB)

	pg := repository.NewPGStore(conn, a.logger)
	schemaCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := pg.EnsureSchema(schemaCtx); err != nil {
		return nil, err
	}
	return pg, nil
}

func (a *App) newPipeline(ctx context.Context, cfg *config.Config, renderer *render.Renderer, recorder export.Recorder) (*export.Pipeline, error) {
	mirrors := render.DefaultMirrors()
	if len(cfg.Export.HTML2CanvasMirrors) > 0 {
		mirrors.HTML2Canvas = cfg.Export.HTML2CanvasMirrors
	}
	if len(cfg.Export.JSPDFMirrors) > 0 {
		mirrors.JSPDF = cfg.Export.JSPDFMirrors
	}

	opts := []export.PipelineOption{
		export.WithRecorder(recorder),
		export.WithPipelineLogger(a.logger),
	}
	if cfg.Export.InlineLibraries {
		loader := export.NewLibraryLoader(&http.Client{Timeout: 15 * time.Second}, a.logger)
		opts = append(opts, export.WithLibraryLoader(loader, mirrors))
	}

	loc := export.DetectChrome(cfg.Export.ChromePath, cfg.Export.RemoteURL)
	if export.DetectMode(loc) != export.ModeNative {
		a.logger.Info("Initialize: no Chrome found, exports use the browser path")
		return export.NewPipeline(renderer, opts...), nil
	}

	chrome, err := export.NewChromeExporter(export.ChromeConfig{
		Location:  loc,
		Timeout:   cfg.Export.Timeout,
		NoSandbox: cfg.Export.NoSandbox,
		Logger:    a.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize PDF exporter: %w", err)
	}
	a.closers = append(a.closers, chrome.Close)

	saver, err := export.NewDirSaver(cfg.Export.Dir, a.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize export directory: %w", err)
	}
	opts = append(opts, export.WithPDFExporter(chrome), export.WithFileSaver(saver))

	if cfg.Redis.Addr != "" {
		cache, err := export.NewRedisCache(export.RedisConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			TTL:      cfg.Redis.TTL,
		})
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, cache.Close)
		opts = append(opts, export.WithCache(cache))
	} else {
		opts = append(opts, export.WithCache(export.NewMemoryCache(cfg.Redis.TTL)))
	}

	switch cfg.Archive.Driver {
	case config.ArchiveDrive:
		archive, err := export.NewDriveArchive(ctx, cfg.Archive.DriveCredentials, cfg.Archive.DriveFolderID, a.logger)
		if err != nil {
			return nil, err
		}
		opts = append(opts, export.WithArchive(archive))
	case config.ArchiveS3:
		archive, err := export.NewS3Archive(ctx, export.S3Config{
			Bucket:       cfg.Archive.S3Bucket,
			Region:       cfg.Archive.S3Region,
			Endpoint:     cfg.Archive.S3Endpoint,
			AccessKey:    cfg.Archive.S3AccessKey,
			SecretKey:    cfg.Archive.S3SecretKey,
			Prefix:       cfg.Archive.S3Prefix,
			UsePathStyle: cfg.Archive.S3UsePathStyle,
		}, export.WithS3Logger(a.logger))
		if err != nil {
			return nil, err
		}
		opts = append(opts, export.WithArchive(archive))
	}

	return export.NewPipeline(renderer, opts...), nil
}

// Close stops the service and releases connections in reverse order
func (a *App) Close() {
	if a.Service != nil {
		a.Service.Close()
	}
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.logger.Warn("Close: failed to release resource", zap.Error(err))
		}
	}
	a.closers = nil
}
