package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dazzlo/video-downloader/internal/config"
	"github.com/dazzlo/video-downloader/internal/download"
	"github.com/dazzlo/video-downloader/internal/janitor"
	"github.com/dazzlo/video-downloader/internal/logger"
	"github.com/dazzlo/video-downloader/internal/server"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", config.DefaultConfigPath, "path to TOML config file")
	addr := flag.String("addr", "", "HTTP listen address (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}

	logger.Init(cfg.Log.Level, cfg.Log.Format)
	log := logger.L

	downloadDir, err := config.EnsureDownloadDir(cfg.Download.Directory)
	if err != nil {
		return fmt.Errorf("prepare download dir: %w", err)
	}
	if downloadDir != cfg.Download.Directory {
		log.Warn("using fallback download dir", "dir", downloadDir)
	}

	svc := download.NewService(cfg, downloadDir, log)

	jan := janitor.New(log, downloadDir, cfg.Janitor.Retention())
	if err := jan.Start(cfg.Janitor.Schedule); err != nil {
		return fmt.Errorf("start janitor: %w", err)
	}
	defer jan.Stop()

	srv := server.NewServer(log, cfg.Server.Addr, server.NewDownloadHandler(svc, log))

	errCh := make(chan error, 1)
	go func() {
		log.Info("server starting", "addr", cfg.Server.Addr, "download_dir", downloadDir)
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server: %w", err)
	case sig := <-stop:
		log.Info("shutting down", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Stop(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
