// Package main is the entry point for the MillCMS back office server.
// It loads configuration, connects to services, sets up routing, and starts
// the HTTP server with graceful shutdown support.
package main

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"millcms/internal/cache"
	"millcms/internal/config"
	"millcms/internal/database"
	"millcms/internal/gateway"
	"millcms/internal/handlers"
	"millcms/internal/middleware"
	"millcms/internal/realtime"
	"millcms/internal/router"
	"millcms/internal/seed"
	"millcms/internal/session"
	"millcms/internal/storage"
	"millcms/internal/store"
)

func main() {
	// Load configuration from environment variables.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Structured logger: text in development, JSON everywhere else.
	var handler slog.Handler
	if cfg.IsDev() {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	} else {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
		"brand", cfg.SiteBrand,
	)

	// Connect to PostgreSQL.
	db, err := database.Connect(cfg.DSN())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Run pending migrations.
	if err := database.Migrate(db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Connect to Valkey (sessions, preview cache, change notifications).
	valkeyClient, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword, cfg.ValkeyDB)
	if err != nil {
		slog.Error("failed to connect to valkey", "error", err)
		os.Exit(1)
	}
	defer valkeyClient.Close()

	// In non-development environments, mark cookies as Secure (HTTPS-only).
	secureCookies := !cfg.IsDev()
	sessionStore := session.NewStore(valkeyClient, secureCookies)
	previewCache := cache.NewPreviewCache(valkeyClient, cache.DefaultPreviewTTL)
	// Previews rendered by a previous build may use an older page layout.
	previewCache.InvalidateAll(context.Background())
	changes := realtime.NewRedisChannel(valkeyClient, logger)

	// Initialize data stores.
	userStore := store.NewUserStore(db)
	postStore := store.NewPostStore(db)
	inquiryStore := store.NewInquiryStore(db)
	mediaStore := store.NewMediaStore(db)

	// Seed development data (no-op if data already exists).
	if cfg.IsDev() {
		err := seed.Load(context.Background(), seed.Stores{
			Users:     userStore,
			Posts:     postStore,
			Inquiries: inquiryStore,
			Media:     mediaStore,
		}, logger)
		if err != nil {
			slog.Error("failed to seed database", "error", err)
			os.Exit(1)
		}
	}

	// Connect to S3-compatible object storage (optional; without it media
	// paths are served as stored).
	storageClient, err := storage.New(
		cfg.S3Endpoint, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey,
		cfg.S3BucketPublic, cfg.S3PublicURL,
	)
	if err != nil {
		slog.Error("failed to initialize S3 storage", "error", err)
		os.Exit(1)
	}
	if storageClient != nil {
		slog.Info("s3 storage connected", "endpoint", cfg.S3Endpoint, "bucket", storageClient.Bucket())
	} else {
		slog.Warn("s3 storage not configured, media paths are served unresolved")
	}

	gwDeps := gateway.Deps{
		Posts:     postStore,
		Publisher: changes,
		Previews:  previewCache,
		Logger:    logger,
	}
	adminDeps := handlers.AdminDeps{
		Inquiries:     inquiryStore,
		Media:         mediaStore,
		Channel:       changes,
		Publisher:     changes,
		Brand:         cfg.SiteBrand,
		SiteURL:       cfg.SiteURL,
		PreviewSecret: cfg.PreviewSecret,
		Logger:        logger,
	}
	if storageClient != nil {
		gwDeps.Media = storageClient
		adminDeps.MediaURLs = storageClient
	}
	posts := gateway.New(gwDeps)
	adminDeps.Posts = posts

	// Create handler groups with their dependencies.
	adminHandlers := handlers.NewAdmin(adminDeps)
	authHandlers := handlers.NewAuth(sessionStore, userStore, logger)
	publicHandlers := handlers.NewPublic(posts, previewCache, cfg.PreviewSecret, cfg.SiteBrand, logger)

	// Set up the Chi router with all middleware and routes.
	r := router.New(router.Deps{
		Sessions:      sessionStore,
		AuthTimeout:   cfg.AuthCheckTimeout,
		SecureCookies: secureCookies,
		LoginLimiter:  middleware.NewRateLimiter(valkeyClient, "login", 10, time.Minute),
		TrustProxy:    cfg.TrustProxy,
		Admin:         adminHandlers,
		Auth:          authHandlers,
		Public:        publicHandlers,
		Health: map[string]router.HealthCheck{
			"postgres": db.PingContext,
			"valkey":   func(ctx context.Context) error { return valkeyClient.Ping(ctx).Err() },
		},
	})

	// WriteTimeout stays zero: the dashboard stream is a long-lived
	// response. ReadHeaderTimeout still guards against slow clients.
	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	// Request contexts derive from baseCtx so open dashboard streams end
	// as soon as shutdown begins instead of holding it for the full timeout.
	baseCtx, stopStreams := context.WithCancel(context.Background())
	srv.BaseContext = func(net.Listener) context.Context { return baseCtx }
	srv.RegisterOnShutdown(stopStreams)

	// Start the server in a goroutine so we can listen for shutdown signals.
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig)

	shutdown(srv)
}

// shutdown gives active requests up to 30 seconds to complete.
func shutdown(srv *http.Server) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		srv.Close()
	}
	slog.Info("server stopped gracefully")
}
