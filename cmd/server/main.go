package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/capture-moments/backend/internal/auth"
	"github.com/capture-moments/backend/internal/config"
	"github.com/capture-moments/backend/internal/health"
	"github.com/capture-moments/backend/internal/photographer"
	"github.com/capture-moments/backend/internal/server"
	"github.com/capture-moments/backend/internal/store"
	"github.com/capture-moments/backend/pkg/logger"
)

// imageStore is an image backend that can also report readiness.
type imageStore interface {
	photographer.ImageStore
	health.Pinger
}

func main() {
	ctx := context.Background()

	cfg, err := config.Load(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: cfg.IsDevelopment()})

	// ── Persistence backend ──────────────────────────────────
	backend, err := store.Select(ctx, cfg.UseDocumentStore, store.DefaultConnectors(cfg), log)
	if err != nil {
		log.Fatal().Err(err).Msg("no persistence backend available")
	}
	defer func() {
		if err := backend.Close(context.Background()); err != nil {
			log.Warn().Err(err).Msg("backend close")
		}
	}()

	// ── Redis sessions ───────────────────────────────────────
	rdb, err := store.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		log.Fatal().Err(err).Msg("redis connect")
	}
	defer rdb.Close()
	sessions := auth.NewSessionStore(rdb, cfg.Session.TTL)

	// ── Profile images ───────────────────────────────────────
	images, err := openImages(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Str("backend", cfg.Images.Backend).Msg("image store")
	}

	handler := server.NewRouter(server.Deps{
		Config:   cfg,
		Backend:  backend,
		Sessions: sessions,
		Images:   images,
		Health: map[string]health.Pinger{
			backend.Name: backend,
			"redis": health.PingFunc(func(ctx context.Context) error {
				return rdb.Ping(ctx).Err()
			}),
			"images": images,
		},
		Log: log,
	})

	// ── Server ───────────────────────────────────────────────
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       time.Minute,
		WriteTimeout:      time.Minute,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Str("backend", backend.Name).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")
	shutCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}

func openImages(ctx context.Context, cfg *config.Config, log zerolog.Logger) (imageStore, error) {
	img := cfg.Images
	if img.Backend == "minio" {
		return store.NewMinioStore(ctx, img.MinioEndpoint, img.MinioAccessKey, img.MinioSecretKey, img.MinioBucket, img.MinioUseSSL, log)
	}
	return store.NewLocalImageStore(img.LocalDir, log)
}
