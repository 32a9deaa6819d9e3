package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/tanaytejush/Carbon-Purse/internal/app"
	"github.com/tanaytejush/Carbon-Purse/internal/backend"
	"github.com/tanaytejush/Carbon-Purse/internal/config"
	apphttp "github.com/tanaytejush/Carbon-Purse/internal/http"
	"github.com/tanaytejush/Carbon-Purse/internal/log"
)

func main() {
	// Missing .env is fine; real env vars win either way.
	_ = godotenv.Load()

	logger := log.New(log.DefaultConfig())
	log.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", log.FieldError, err)
		os.Exit(1)
	}

	be, err := backend.Build(cfg, logger)
	if err != nil {
		logger.Error("building backend", log.FieldError, err)
		os.Exit(1)
	}
	defer func() {
		if err := be.Cleanup(); err != nil {
			logger.Error("backend cleanup", log.FieldError, err)
		}
	}()

	opts := []app.Option{app.WithDefaultLocale(cfg.DefaultLocale)}
	if be.Local != nil {
		opts = append(opts, app.WithMigrationSource(be.Local))
	}
	if be.Degraded {
		opts = append(opts, app.WithDegraded())
	}
	application := app.New(be.Data, be.State, logger, opts...)

	// Local and memory backends have a single anonymous profile; load it
	// now. The remote backend loads per user at sign-in.
	if !be.RequiresAuth {
		if err := application.Load(context.Background(), ""); err != nil {
			logger.Error("loading working set", log.FieldError, err)
			os.Exit(1)
		}
	}

	srv, err := apphttp.NewServer(cfg, be, application, logger)
	if err != nil {
		logger.Error("building server", log.FieldError, err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("server shutdown", log.FieldError, err)
		}
		cancel()
	}()

	logger.Info("starting carbon-purse",
		log.FieldPort, cfg.Port,
		log.FieldBackend, cfg.DataBackend)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server error", log.FieldError, err)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("server stopped")
}
