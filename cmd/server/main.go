package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/okimsz/CDI-Sakata-Inx-Corp-sub000/internal/config"
	"github.com/okimsz/CDI-Sakata-Inx-Corp-sub000/internal/database"
	"github.com/okimsz/CDI-Sakata-Inx-Corp-sub000/internal/handler"
	"github.com/okimsz/CDI-Sakata-Inx-Corp-sub000/internal/queue"
	"github.com/okimsz/CDI-Sakata-Inx-Corp-sub000/internal/repository"
	"github.com/okimsz/CDI-Sakata-Inx-Corp-sub000/internal/router"
	"github.com/okimsz/CDI-Sakata-Inx-Corp-sub000/internal/service"
	"github.com/okimsz/CDI-Sakata-Inx-Corp-sub000/internal/storage"
)

func main() {
	if err := run(); err != nil {
		slog.Error("application error", "err", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := newLogger(cfg)
	slog.SetDefault(logger)

	db, err := database.Open(database.Options{
		User:     cfg.DBUser,
		Password: cfg.DBPassword,
		Host:     cfg.DBHost,
		Port:     cfg.DBPort,
		Name:     cfg.DBName,
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("close database", "err", err)
		}
	}()
	if cfg.DBAutoMigrate {
		logger.Info("running database migrations")
		if err := database.Migrate(db); err != nil {
			return err
		}
	}

	rdb := config.NewRedisClient(cfg.Redis)
	if rdb != nil {
		defer func() { _ = rdb.Close() }()
		logger.Info("redis connected", "addr", cfg.Redis.Address())
	} else {
		logger.Warn("redis unavailable: response cache off, rate limiter in memory")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var events service.EventPublisher = service.NopPublisher{}
	if cfg.Queue.Enabled {
		events = &service.AMQPPublisher{URL: cfg.Queue.URL, Log: logger}
		logger.Info("content events enabled", "queue", queue.ContentQueue)
	}
	if cfg.Queue.ConsumeAudit {
		consumer := &queue.AuditConsumer{URL: cfg.Queue.URL, LogPath: cfg.Queue.AuditLogPath, Log: logger}
		go func() {
			if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("audit consumer stopped", "err", err)
			}
		}()
	}

	admins := repository.NewAdminRepo(db)
	auth := service.NewAuthService(admins, cfg.JWTSecret, cfg.JWTExpiry, cfg.BcryptCost, logger)
	content := handler.NewContentHandler(
		repository.NewNewsRepo(db),
		repository.NewCareerRepo(db),
		repository.NewProductRepo(db),
		repository.NewCertificateRepo(db),
		repository.NewGalleryRepo(db),
		events,
		logger,
	)
	uploader := storage.NewUploader(cfg.UploadDir, cfg.UploadMaxBytes, cfg.UploadThumbnailWidth, logger)

	e := router.New(router.Deps{
		Config:  cfg,
		DB:      db,
		Redis:   rdb,
		Tokens:  auth,
		Auth:    handler.NewAuthHandler(auth),
		Content: content,
		Upload:  handler.NewUploadHandler(uploader, logger),
		Log:     logger,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           e,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       5 * time.Minute, // large uploads
		WriteTimeout:      5 * time.Minute,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	logger.Info("server stopped")
	return nil
}

func newLogger(cfg config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	if cfg.IsDevelopment() {
		return slog.New(slog.NewTextHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, opts))
}
