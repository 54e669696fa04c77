package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lysyi3m/k-rank/app/api"
	"github.com/lysyi3m/k-rank/app/cache"
	"github.com/lysyi3m/k-rank/app/cfg"
	"github.com/lysyi3m/k-rank/app/database"
	"github.com/lysyi3m/k-rank/app/ranking"
	"github.com/lysyi3m/k-rank/app/tasks"
)

func main() {
	appCfg, err := cfg.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(1)
	}
	if appCfg == nil {
		// Help was shown
		return
	}

	setupLogger(appCfg.Debug)
	if !appCfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	slog.Info("Starting K-Rank server", "version", appCfg.Version)

	dsn := appCfg.DBURL
	if appCfg.DBDriver == database.DriverSQLite {
		dsn = appCfg.DBPath
	}

	db, err := database.NewConnection(appCfg.DBDriver, dsn, appCfg.DBConnectRetries)
	if err != nil {
		slog.Error("Failed to connect to database", "driver", appCfg.DBDriver, "error", err)
		os.Exit(1)
	}
	defer db.Close()
	slog.Info("Connected to database", "driver", appCfg.DBDriver)

	version, dirty, err := database.RunMigrations(db)
	if err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("Database schema ready", "version", version, "dirty", dirty)

	catalog := ranking.NewCatalog(appCfg.DomainsDir, appCfg.CacheDuration)
	if err := catalog.Load(); err != nil {
		slog.Error("Failed to load domain configurations", "dir", appCfg.DomainsDir, "error", err)
		os.Exit(1)
	}
	slog.Info("Domain configurations loaded", "loaded", catalog.Count(), "enabled", len(catalog.Enabled()))

	snapshotCache, err := newCache(appCfg.RedisAddr)
	if err != nil {
		slog.Error("Failed to connect to cache", "addr", appCfg.RedisAddr, "error", err)
		os.Exit(1)
	}
	defer snapshotCache.Close()

	store := database.NewSnapshotStore(db)
	service := ranking.NewService(store, snapshotCache, catalog, appCfg.GetQueryTimeout())

	scheduler := tasks.NewScheduler(catalog, service, appCfg.WorkerCount,
		time.Duration(appCfg.SchedulerInterval)*time.Second)
	scheduler.Start()
	slog.Info("Cache warm-up scheduler started", "workers", appCfg.WorkerCount, "interval", appCfg.SchedulerInterval)

	handler := api.NewHandler(service, snapshotCache, scheduler)
	server := api.NewServer(handler, appCfg.APIAccessKey)

	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "port", appCfg.Port, "api_enabled", appCfg.APIAccessKey != "")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		slog.Info("Received signal", "signal", sig.String())
	case err := <-serverErrChan:
		slog.Error("Server error", "error", err)
	}

	slog.Info("Shutting down server gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	} else {
		slog.Info("HTTP server stopped")
	}

	scheduler.Stop()
	slog.Info("Cache warm-up scheduler stopped")

	slog.Info("K-Rank server shutdown complete")
}

func setupLogger(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})))
}

// newCache picks the shared redis cache when an address is configured and the
// process-local cache otherwise.
func newCache(redisAddr string) (cache.Cache, error) {
	if redisAddr == "" {
		slog.Info("Using in-memory snapshot cache")
		return cache.NewMemoryCache(), nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	redisCache, err := cache.NewRedisCache(ctx, redisAddr)
	if err != nil {
		return nil, err
	}
	slog.Info("Using redis snapshot cache", "addr", redisAddr)
	return redisCache, nil
}
