// Package internal provides the main application initialization and runtime logic.
package internal

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

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/abhijeet/cadence/internal/assistant"
	"github.com/abhijeet/cadence/internal/dailyservice"
	"github.com/abhijeet/cadence/internal/mcpserver"
	"github.com/abhijeet/cadence/internal/notifier"
	"github.com/abhijeet/cadence/internal/planner"
	"github.com/abhijeet/cadence/internal/store"
	"github.com/abhijeet/cadence/internal/web"
)

// Run starts the application with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app := &application{}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	cfg := app.config

	// Initialize structured JSON logger.
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("store_driver", cfg.Store.Driver),
		slog.String("log_level", cfg.App.LogLevel.Level().String()))

	// Initialize the record store.
	st := app.store
	if st == nil {
		var err error
		st, err = openStore(ctx, cfg)
		if err != nil {
			return fmt.Errorf("init store: %w", err)
		}
	}
	defer st.Close()

	// Assistant client bound to the configured thread.
	clientOpts := []assistant.Option{
		assistant.WithPolling(time.Duration(cfg.Assistant.PollInterval), time.Duration(cfg.Assistant.PollTimeout)),
	}
	if cfg.Assistant.BaseURL != "" {
		clientOpts = append(clientOpts, assistant.WithBaseURL(cfg.Assistant.BaseURL))
	}
	runner := assistant.NewClient(cfg.Assistant.APIKey, cfg.Assistant.AssistantID, cfg.Assistant.ThreadID, clientOpts...)

	// Prompt templates, with optional overrides on disk.
	templates := planner.NewTemplates()
	if dir := cfg.Assistant.TemplatesDir; dir != "" {
		if err := templates.Reload(dir); err != nil {
			return fmt.Errorf("load templates: %w", err)
		}
	}
	gen := planner.New(runner, templates)

	mailer := notifier.NewMailer(cfg.Mail.Host, cfg.Mail.Port, cfg.Mail.Sender, cfg.Mail.Password, cfg.Mail.Recipient)

	svc := dailyservice.New(st, gen, mailer, dailyservice.Options{
		OncePerDay:             cfg.Cycle.OncePerDay,
		SuppressFailedPlanMail: cfg.Mail.SuppressFailedPlan,
	})

	// MCP mode: serve tools over stdio and return when stdin closes.
	if app.mcpMode {
		logger.Info("Starting MCP server on stdio")
		return mcpserver.New(svc).ServeStdio()
	}

	// Build chi router.
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check endpoints.
	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/health/ready", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Application routes live at the root.
	r.Mount("/", web.NewRouter(svc))

	httpServer := &http.Server{
		Addr:    cfg.App.HTTP.Address(),
		Handler: r,
	}

	logger.Info("Server starting...", slog.String("http_address", cfg.App.HTTP.Address()))

	g, gCtx := errgroup.WithContext(ctx)

	// Watch template overrides when a directory is configured.
	if dir := cfg.Assistant.TemplatesDir; dir != "" {
		g.Go(func() error {
			return planner.Watch(gCtx, templates, dir, logger)
		})
	}

	// Start HTTP server.
	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}

		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}

// openStore builds the record store named by the config.
func openStore(ctx context.Context, cfg *Config) (store.Store, error) {
	switch cfg.Store.Driver {
	case StoreDriverFirestore:
		return store.OpenFirestore(ctx, cfg.Store.FirestoreProject)
	default:
		return store.OpenSQLite(cfg.Store.SQLitePath)
	}
}
