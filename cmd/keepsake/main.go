// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/olegiv/keepsake-go/internal/config"
	"github.com/olegiv/keepsake-go/internal/handler"
	"github.com/olegiv/keepsake-go/internal/middleware"
	"github.com/olegiv/keepsake-go/internal/render"
	"github.com/olegiv/keepsake-go/internal/service"
	"github.com/olegiv/keepsake-go/internal/session"
	"github.com/olegiv/keepsake-go/internal/store"
	"github.com/olegiv/keepsake-go/web"
)

// Version information - injected at build time via ldflags
var (
	appVersion   = "dev"
	appGitCommit = "unknown"
	appBuildTime = "unknown"
)

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	showHelp := flag.Bool("help", false, "Show help information")
	flag.BoolVar(showHelp, "h", false, "Show help information (shorthand)")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "Keepsake - family inventory and claims\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  KEEPSAKE_SESSION_SECRET    Session encryption key (required, min 32 bytes)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  KEEPSAKE_DB_PATH           SQLite database path (default: ./data/keepsake.db)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  KEEPSAKE_SERVER_PORT       Server port (default: 8080)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  KEEPSAKE_SESSION_LIFETIME  Session expiry (default: 24h)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  KEEPSAKE_ENV               Environment: development|production (default: development)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  KEEPSAKE_UPLOADS_DIR       Item photo directory (default: ./uploads)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  KEEPSAKE_DO_SEED           Seed starter users and items (default: false)\n")
	}

	flag.Parse()

	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}
	if *showVersion {
		_, _ = fmt.Printf("keepsake %s (commit: %s, built: %s)\n", appVersion, appGitCommit, appBuildTime)
		os.Exit(0)
	}

	if err := run(); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// Load .env file if present (development)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Setup logger
	logLevel := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// Ensure data directory exists
	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	slog.Info("initializing database", "path", cfg.DBPath)
	db, err := store.NewDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	defer func(db *sql.DB) {
		if err := db.Close(); err != nil {
			slog.Error("error closing database connection", "error", err)
		}
	}(db)

	slog.Info("running database migrations")
	if err := store.Migrate(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	slog.Info("database ready")

	if err := store.Seed(context.Background(), db, cfg.DoSeed); err != nil {
		return fmt.Errorf("seeding database: %w", err)
	}

	sessionManager := session.New(db, cfg.SessionLifetime, cfg.IsDevelopment())
	slog.Info("session manager initialized")

	templatesFS, err := fs.Sub(web.Templates, "templates")
	if err != nil {
		return fmt.Errorf("getting templates fs: %w", err)
	}
	renderer, err := render.New(render.Config{
		TemplatesFS:    templatesFS,
		SessionManager: sessionManager,
	})
	if err != nil {
		return fmt.Errorf("initializing renderer: %w", err)
	}
	slog.Info("template renderer initialized")

	imageService := service.NewImageService(cfg.UploadsDir)

	// Create router
	r := chi.NewRouter()

	// Middleware stack
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.StripTrailingSlash)

	securityConfig := middleware.DefaultSecurityHeadersConfig(cfg.IsDevelopment())
	r.Use(middleware.SecurityHeaders(securityConfig))

	r.Use(sessionManager.LoadAndSave)

	csrfConfig := middleware.DefaultCSRFConfig([]byte(cfg.SessionSecret), cfg.IsDevelopment())
	csrfMiddleware := middleware.CSRF(csrfConfig)
	slog.Info("CSRF protection initialized")

	loginProtection := middleware.NewLoginProtection(0.5, 5)
	slog.Info("login protection initialized", "ip_rate_limit", "0.5 req/s", "burst", 5)

	// Initialize handlers
	homeHandler := handler.NewHomeHandler(renderer)
	authHandler := handler.NewAuthHandler(db, renderer, sessionManager)
	marketHandler := handler.NewMarketHandler(db, renderer)
	accountHandler := handler.NewAccountHandler(db, renderer)
	userHandler := handler.NewUserHandler(db, renderer)
	itemHandler := handler.NewItemHandler(db, renderer, imageService)

	// Public routes
	r.Group(func(r chi.Router) {
		r.Use(csrfMiddleware)
		r.Use(middleware.LoadUser(sessionManager, db))

		r.Get(handler.RouteRoot, homeHandler.Home)

		r.Get(handler.RouteLogin, authHandler.LoginForm)
		r.With(loginProtection.Middleware()).Post(handler.RouteLogin, authHandler.Login)
		r.Get(handler.RouteRegister, authHandler.RegisterForm)
		r.With(loginProtection.Middleware()).Post(handler.RouteRegister, authHandler.Register)
		r.Post(handler.RouteLogout, authHandler.Logout)
		r.Get(handler.RouteLogout, authHandler.Logout)
	})

	// Authenticated routes
	r.Group(func(r chi.Router) {
		r.Use(csrfMiddleware)
		r.Use(middleware.Auth(sessionManager))
		r.Use(middleware.LoadUser(sessionManager, db))

		r.Get(handler.RouteMarket, marketHandler.Market)
		r.Post(handler.RouteClaim, marketHandler.Claim)
		r.Post(handler.RouteUnclaim, marketHandler.Unclaim)
		r.Get(handler.RouteAccount, accountHandler.Account)

		// Manager routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireManager())

			r.Post(handler.RouteUserUpdate, userHandler.Update)
			r.Get(handler.RouteItemAdd, itemHandler.AddForm)
			r.Post(handler.RouteItemAdd, itemHandler.Add)
			r.Get(handler.RouteItemEdit, itemHandler.EditForm)
			r.Post(handler.RouteItemEdit, itemHandler.Edit)
			r.Post(handler.RouteItemDelete, itemHandler.Delete)
		})
	})

	// Static assets and uploaded item photos
	staticFS, err := fs.Sub(web.Static, "static")
	if err != nil {
		return fmt.Errorf("getting static fs: %w", err)
	}
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))
	r.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.UploadsDir))))

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           r,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second, // Allow for photo uploads on slow connections
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		slog.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}
