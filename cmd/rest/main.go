package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/yourname/upload_lite/internal/app/resthttp"
	"github.com/yourname/upload_lite/internal/config"
	"github.com/yourname/upload_lite/pkg/logger"
	"golang.org/x/sync/errgroup"
)

// main инициализирует REST HTTP-сервис загрузок и обеспечивает корректное завершение по сигналу.
func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	if err = logger.Init(logger.Options{Level: cfg.Log.Level, Format: cfg.Log.Format}); err != nil {
		log.Fatal(err)
	}

	handler, srv, err := resthttp.NewServer(cfg)
	if err != nil {
		log.Fatal(err)
	}

	stopSweeper := srv.FilesService.StartSweeper(time.Duration(cfg.GCIntervalMin) * time.Minute)
	defer stopSweeper()

	server := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		logger.Info("REST listening",
			"addr", cfg.ListenAddr,
			"storage_root", cfg.StorageRoot,
			"static_prefix", cfg.StaticPrefix,
			"retention_days", cfg.RetentionDays,
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	// Сценарий graceful shutdown при получении SIGTERM/SIGINT или падении сервера.
	eg.Go(func() error {
		<-egCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	if err = eg.Wait(); err != nil {
		logger.Error("REST stopped with error", "error", err)
		stopSweeper()
		os.Exit(1)
	}
	logger.Info("REST stopped")
}
