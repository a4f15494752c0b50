// Package main our entry point.
package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/johndosdos/board/internal"
	"github.com/johndosdos/board/internal/config"
	"github.com/johndosdos/board/internal/handler"
	ratelimiter "github.com/johndosdos/board/internal/rate_limiter"
	"github.com/johndosdos/board/internal/store"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.SetOutput(os.Stdout)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	level, _ := cfg.SlogLevel()
	slog.SetDefault(slog.New(internal.NewContextHandler(
		slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}),
	)))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Init store
	slog.Info("initializing message store", "driver", cfg.StoreDriver)

	connectCtx, cancelConnect := context.WithTimeout(ctx, 10*time.Second)
	messageStore, err := store.Open(connectCtx, cfg.StoreDriver, cfg.DBURL)
	cancelConnect()
	if err != nil {
		log.Fatalf("could not open %s store: %v", cfg.StoreDriver, err)
	}

	routerCfg := handler.RouterConfig{MaxBodyBytes: cfg.MaxBodyBytes}
	if cfg.RateLimitRequests > 0 {
		limiter := ratelimiter.NewIPRateLimiter(cfg.RateLimitRequests, cfg.RateLimitWindow, ratelimiter.CleanupOpts{
			TTL:      10 * time.Minute,
			Interval: time.Minute,
		})
		defer limiter.Cancel()
		limiter.TrustForwardedFor = cfg.RateLimitTrustProxy
		routerCfg.WriteLimiter = limiter.Middleware
	}

	server := &http.Server{
		Addr:              "0.0.0.0:" + cfg.Port,
		Handler:           internal.Middleware(handler.NewRouter(messageStore, routerCfg)),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       30 * time.Second,
	}

	go func() {
		slog.Info("server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-ctx.Done()
	slog.Info("shutdown signal received; shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown failed", "error", err)
	}

	if err := messageStore.Close(); err != nil {
		slog.Error("failed to close message store", "error", err)
	}

	slog.Info("server stopped")
}
