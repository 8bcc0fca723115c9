package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kalidindinikhila/adobe-round2-challenge1b/internal/api"
	"github.com/kalidindinikhila/adobe-round2-challenge1b/internal/app"
	"github.com/kalidindinikhila/adobe-round2-challenge1b/internal/config"
	"github.com/kalidindinikhila/adobe-round2-challenge1b/internal/pipeline"
)

func main() {
	if err := config.LoadDotenv(".env"); err != nil {
		slog.Error("load .env", "error", err)
		os.Exit(1)
	}

	cfg := config.Load()
	log := app.NewLogger(os.Stdout, cfg)
	if err := cfg.ValidateServer(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	components, err := app.Build(ctx, cfg, log)
	if err != nil {
		log.Error("startup failed", "error", err)
		os.Exit(1)
	}

	orch := pipeline.NewOrchestrator(cfg, components.Analyzer, log)
	orch.Start(ctx)

	srv := api.NewServer(orch, components.Outlines, components.Stats, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		orch.Stop()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)

		components.Close()
	}()

	log.Info("starting docrank", "port", cfg.Port, "embeddings", cfg.EmbeddingsProvider)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
