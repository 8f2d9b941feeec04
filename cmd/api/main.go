package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"editor-note/internal/auth"
	"editor-note/internal/config"
	"editor-note/internal/contextutil"
	"editor-note/internal/drafts"
	"editor-note/internal/editor"
	"editor-note/internal/http"
	"editor-note/internal/importer"
	"editor-note/internal/service"
	"editor-note/internal/storage"
)

func main() {
	// Load configuration first (needed for log level)
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Configure structured logging with configurable level and format
	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}
	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)
	slog.Debug("Logging configured", "level", cfg.LogLevel.String(), "format", cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = contextutil.WithLogger(ctx, logger)

	// Initialize database
	db, err := storage.New(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer func() {
		_ = db.Close()
	}()

	if err := storage.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	slog.Info("Database initialized", "path", cfg.DBPath)

	// Create repository instances
	documentRepo := storage.NewDocumentRepo(db)
	userRepo := storage.NewUserRepo(db)

	registry, err := editor.NewDefaultRegistry()
	if err != nil {
		log.Fatalf("Failed to register block types: %v", err)
	}

	tokens := auth.NewTokenManager(auth.TokenConfig{
		SecretKey: cfg.AuthSecret,
		Expiry:    cfg.TokenTTL,
	})

	sources := make([]drafts.Source, 0, len(cfg.DraftSources))
	for _, s := range cfg.DraftSources {
		sources = append(sources, drafts.Source{Name: s.Name, Root: s.Path})
	}
	draftManager, err := drafts.NewManager(sources...)
	if err != nil {
		log.Fatalf("Failed to initialize draft sources: %v", err)
	}
	slog.Info("Draft sources initialized", "count", len(sources))

	pipeline := importer.NewPipeline(draftManager, documentRepo, userRepo, registry)

	deps := &http.Deps{
		Reports:   service.NewReportService(documentRepo),
		Documents: documentRepo,
		Registry:  registry,
		Tokens:    tokens,
		Users:     userRepo,
		DB:        db,
		Display: service.DisplayLayout{
			DateFormat: cfg.DateFormat,
			TimeFormat: cfg.TimeFormat,
			Location:   cfg.Location,
		},
	}
	router := http.NewRouter(deps)

	// Import drafts in background after router is ready
	if cfg.ImportOnStart && len(sources) > 0 {
		go func() {
			slog.Info("Starting background import of drafts")
			if _, err := pipeline.ImportAll(ctx); err != nil {
				slog.Error("Import completed with errors", "error", err)
			} else {
				slog.Info("Import completed successfully")
			}
		}()
	}
	if cfg.DraftsWatch && len(sources) > 0 {
		go func() {
			if err := pipeline.Watch(ctx); err != nil {
				slog.Error("Draft watcher stopped", "error", err)
			}
		}()
	}

	// Start API server
	addr := ":" + cfg.APIPort
	server := &nethttp.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("API server shutdown failed", "error", err)
		}
	}()

	slog.Info("Starting API server", "addr", addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
		log.Fatalf("API server failed to start: %v", err)
	}
	slog.Info("API server stopped")
}
