package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lysyi3m/thinkers-table/app/api"
	"github.com/lysyi3m/thinkers-table/app/cfg"
	"github.com/lysyi3m/thinkers-table/app/database"
	"github.com/lysyi3m/thinkers-table/app/feed"
	"github.com/lysyi3m/thinkers-table/app/homepage"
	"github.com/lysyi3m/thinkers-table/app/logger"
	"github.com/lysyi3m/thinkers-table/app/render"
	"github.com/lysyi3m/thinkers-table/app/signup"
	"github.com/lysyi3m/thinkers-table/app/tasks"
	"golang.org/x/time/rate"
)

func main() {
	appCfg, err := cfg.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if appCfg == nil {
		// Help was shown
		return
	}

	logger.Setup(os.Stderr, appCfg.Debug)

	slog.Info("Starting Thinkers Table", "version", appCfg.Version, "feed_source", appCfg.FeedSource)

	db, err := database.NewConnection(appCfg.DBPath)
	if err != nil {
		slog.Error("Failed to open database", "path", appCfg.DBPath, "error", err)
		os.Exit(1)
	}
	defer db.Close()

	version, dirty, err := database.RunMigrations(db)
	if err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("Database ready", "path", appCfg.DBPath, "schema_version", version, "dirty", dirty)

	loadRepo := database.NewPageLoadRepository(db)

	httpClient := &http.Client{Timeout: 30 * time.Second}

	fetcher := feed.NewFetcher(newSource(appCfg, httpClient), newLimiter(appCfg.FetchRate), appCfg.FetchTimeout)

	signupState := &signup.State{}
	prober := signup.NewProber(httpClient, appCfg.SignupURL, appCfg.UserAgent)

	page := homepage.NewHomepage(fetcher, render.NewRenderer(), signupState, appCfg.SignupURL, loadRepo)

	slog.Info("Starting background scheduler", "workers", appCfg.WorkerCount, "interval", time.Duration(appCfg.SchedulerInterval)*time.Second)
	scheduler := tasks.NewScheduler(prober, signupState, loadRepo, tasks.Options{
		Interval:      time.Duration(appCfg.SchedulerInterval) * time.Second,
		WorkerCount:   appCfg.WorkerCount,
		ProbeInterval: appCfg.SignupProbeInterval,
		LoadRetention: appCfg.LoadRetention,
	})
	scheduler.Start()

	handler := api.NewHandler(page, loadRepo, signupState, scheduler)
	server := api.NewServer(handler, appCfg.APIAccessKey)

	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "port", appCfg.Port, "base_url", appCfg.BaseUrl)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
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

	slog.Info("Shutting down gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	scheduler.Stop()

	slog.Info("Shutdown complete")
}

func newSource(appCfg *cfg.Cfg, httpClient *http.Client) feed.Source {
	if appCfg.FeedSource == cfg.FeedSourceDirect {
		return feed.NewDirectSource(httpClient, appCfg.FeedURL, appCfg.UserAgent)
	}
	return feed.NewProxySource(httpClient, appCfg.ProxyURL, appCfg.FeedURL, appCfg.ProxyAPIKey, appCfg.UserAgent)
}

// newLimiter returns nil when perSecond is zero, which disables throttling.
func newLimiter(perSecond float64) *rate.Limiter {
	if perSecond <= 0 {
		return nil
	}
	return rate.NewLimiter(rate.Limit(perSecond), int(math.Max(1, math.Ceil(perSecond))))
}
