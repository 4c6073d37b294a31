package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/are-dev/blog/app/api"
	"github.com/are-dev/blog/app/cache"
	"github.com/are-dev/blog/app/cfg"
	"github.com/are-dev/blog/app/content"
	"github.com/are-dev/blog/app/database"
	"github.com/are-dev/blog/app/feed"
	"github.com/are-dev/blog/app/tasks"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	appCfg, err := cfg.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	if appCfg == nil {
		return
	}

	setupLogging(appCfg.Debug)

	loader := content.NewLoader(content.PostsCollection, appCfg.ContentDir)
	builder := feed.NewBuilder(appCfg.SiteTitle, appCfg.SiteDescription)
	generator := feed.NewGenerator(appCfg.Version, appCfg.FeedPath)

	if appCfg.Out != "" {
		if err := writeFeed(appCfg, loader, builder, generator); err != nil {
			slog.Error("Failed to write feed", "out", appCfg.Out, "error", err)
			os.Exit(1)
		}
		return
	}

	if err := serve(appCfg, loader, builder, generator); err != nil {
		slog.Error("Server error", "error", err)
		os.Exit(1)
	}
}

func setupLogging(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})))
}

// writeFeed renders the feed once to a file, like a static site build.
func writeFeed(appCfg *cfg.Cfg, loader *content.Loader, builder *feed.Builder, generator *feed.Generator) error {
	posts, err := loader.GetCollection(context.Background(), content.PostsCollection)
	if err != nil {
		return err
	}

	doc := builder.Run(posts, appCfg.SiteURL)

	rss, err := generator.Run(doc)
	if err != nil {
		return fmt.Errorf("failed to generate feed: %w", err)
	}

	if _, err := feed.NewVerifier().Run([]byte(rss), len(doc.Items)); err != nil {
		return fmt.Errorf("generated feed failed verification: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(appCfg.Out), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if err := os.WriteFile(appCfg.Out, []byte(rss), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", appCfg.Out, err)
	}

	slog.Info("Feed written", "out", appCfg.Out, "items", len(doc.Items), "posts", len(posts))
	return nil
}

func serve(appCfg *cfg.Cfg, loader *content.Loader, builder *feed.Builder, generator *feed.Generator) error {
	slog.Info("Starting are.dev blog feed", "version", appCfg.Version, "site", appCfg.SiteURL)

	db, err := database.NewConnection(appCfg.DBPath)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	version, dirty, err := database.RunMigrations(db)
	if err != nil {
		return err
	}
	slog.Debug("Database ready", "path", db.Path(), "migration_version", version, "dirty", dirty)

	postRepo := database.NewPostRepo(db)

	scheduler := tasks.NewScheduler(loader, postRepo, time.Duration(appCfg.SyncInterval)*time.Second, appCfg.WorkerCount)
	if err := scheduler.SyncNow(context.Background()); err != nil {
		return fmt.Errorf("initial content sync failed: %w", err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	metrics := api.NewMetrics()
	if err := metrics.Register(collectors.NewDBStatsCollector(db.DB, "blog")); err != nil {
		return fmt.Errorf("failed to register database metrics: %w", err)
	}

	if !appCfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	handler := api.NewHandler(postRepo, builder, generator, scheduler, metrics, appCfg.SiteURL, appCfg.Version)

	if appCfg.RedisURL != "" {
		feedCache, err := cache.NewRedisCache(appCfg.RedisURL, time.Duration(appCfg.CacheTTL)*time.Second)
		if err != nil {
			return err
		}
		defer feedCache.Close()

		handler.UseCache(feedCache, appCfg.FeedPath)
		slog.Info("Feed cache enabled", "ttl", time.Duration(appCfg.CacheTTL)*time.Second)
	}
	server := api.NewServer(handler, appCfg.APIAccessKey, appCfg.FeedPath)

	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "port", appCfg.Port, "feed", appCfg.FeedPath, "api_enabled", appCfg.APIAccessKey != "")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	var serveErr error
	select {
	case sig := <-sigChan:
		slog.Info("Received signal", "signal", sig.String())
	case serveErr = <-serverErrChan:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	slog.Info("Shutdown complete")
	return serveErr
}
