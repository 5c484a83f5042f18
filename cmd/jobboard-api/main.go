package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/remotedeck/jobboard-api/internal/auth"
	"github.com/remotedeck/jobboard-api/internal/config"
	"github.com/remotedeck/jobboard-api/internal/feed/remotive"
	"github.com/remotedeck/jobboard-api/internal/listing"
	"github.com/remotedeck/jobboard-api/internal/platform/sqlite"
	listingrepo "github.com/remotedeck/jobboard-api/internal/repository/listing"
	userrepo "github.com/remotedeck/jobboard-api/internal/repository/user"
	"github.com/remotedeck/jobboard-api/internal/scheduler"
	"github.com/remotedeck/jobboard-api/internal/server"
	"github.com/remotedeck/jobboard-api/internal/user"
)

func main() {
	cfg := config.Load()

	// Root context: cancelled on SIGINT/SIGTERM so in-flight refresh cycles
	// stop promptly during graceful shutdown.
	rootCtx, rootCancel := context.WithCancel(context.Background())
	defer rootCancel()

	// Open database
	db, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer func() { _ = db.Close() }()

	// Repositories
	listingRepo := listingrepo.NewRepository(db.DB)
	userRepo := userrepo.NewRepository(db.DB)

	// Feed client
	remotiveFeed := remotive.New(
		remotive.WithBaseURL(cfg.FeedURL),
		remotive.WithTimeout(cfg.FetchTimeout),
	)

	// Services
	listingSvc := listing.NewService(listingRepo, remotiveFeed,
		listing.WithRefreshInterval(cfg.RefreshInterval),
		listing.WithCacheTTL(cfg.CacheTTL),
	)
	userSvc := user.NewService(userRepo)
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL)
	authSvc := auth.NewService(userRepo, tokens)

	// Periodic refresh: fires every interval and once at startup.
	sched := scheduler.New(listingSvc, cfg.RefreshInterval, cfg.DisableUpdates)
	if err := sched.Start(rootCtx); err != nil {
		slog.Error("failed to start scheduler", "error", err)
		os.Exit(1)
	}

	// HTTP server. rootCtx is used as BaseContext so every request context
	// inherits from it and is cancelled on shutdown.
	srv := server.New(rootCtx, cfg.Port, listingSvc, userSvc, authSvc, tokens)

	// Graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	slog.Info("server started", "port", cfg.Port)
	<-done

	// Cancel root context first so in-flight requests and refresh cycles
	// begin winding down immediately.
	rootCancel()
	sched.Stop()

	// Then drain connections with a deadline.
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
	}
	slog.Info("server stopped")
}
