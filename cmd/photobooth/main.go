package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/georgehyde-dot/BantamWestEssenSpielPhotoBooth/internal/camera"
	"github.com/georgehyde-dot/BantamWestEssenSpielPhotoBooth/internal/config"
	"github.com/georgehyde-dot/BantamWestEssenSpielPhotoBooth/internal/overlay"
	"github.com/georgehyde-dot/BantamWestEssenSpielPhotoBooth/internal/printer"
	"github.com/georgehyde-dot/BantamWestEssenSpielPhotoBooth/internal/server"
	"github.com/georgehyde-dot/BantamWestEssenSpielPhotoBooth/internal/session"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("photobooth %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			fmt.Println("photobooth - western wanted-poster photo booth server")
			fmt.Println()
			fmt.Println("Usage: photobooth [options]")
			fmt.Println()
			fmt.Println("Options:")
			fmt.Println("  --version, -v    Print version information")
			fmt.Println("  --help, -h       Print this help message")
			fmt.Println()
			fmt.Println("Configuration is read from the environment (and a .env")
			fmt.Println("file when present): HOST, PORT, CAMERA_KIND, VIDEO_DEVICE,")
			fmt.Println("STORAGE_PATH, PRINTER_NAME, USE_MOCK_PRINTER, DATABASE_PATH.")
			return
		}
	}

	if err := run(); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run() error {
	log := slog.New(slog.NewJSONHandler(os.Stderr, nil))
	slog.SetDefault(log)
	log.Info("photobooth starting", "version", Version, "commit", GitCommit)

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log.Info("configuration loaded",
		"addr", cfg.Server.Addr(),
		"camera", cfg.Camera.Kind,
		"storage", cfg.Storage.BasePath,
	)

	if err := os.MkdirAll(cfg.Storage.BasePath, 0o755); err != nil {
		return fmt.Errorf("create storage dir: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := session.NewStore(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("open session store: %w", err)
	}
	defer store.Close()
	log.Info("session store ready", "path", cfg.Database.Path)

	cam, err := camera.New(cfg.Camera)
	if err != nil {
		return fmt.Errorf("create camera: %w", err)
	}
	defer cam.Close()
	if err := cam.Initialize(ctx); err != nil {
		return fmt.Errorf("initialize camera: %w", err)
	}
	log.Info("camera ready", "kind", cfg.Camera.Kind, "device", cfg.Camera.Device)

	prn := printer.New(ctx, cfg.Printer)
	log.Info("printer ready", "printer", prn.Name(), "online", prn.Ready(ctx))

	engine := overlay.New(overlay.DefaultConfig(), log)

	srv := server.New(cfg, store, cam, prn, engine, log)
	if err := srv.ListenAndServe(ctx); err != nil {
		return fmt.Errorf("serve: %w", err)
	}
	log.Info("photobooth stopped")
	return nil
}
