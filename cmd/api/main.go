package main

import (
	"net/http"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"

	"github.com/example/yasconvert/internal/blob"
	"github.com/example/yasconvert/internal/config"
	"github.com/example/yasconvert/internal/httpapi"
	"github.com/example/yasconvert/internal/jobs"
)

func main() {
	loadDotEnv()
	cfg := config.Load()

	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "yasconvert",
	})
	if level, err := log.ParseLevel(cfg.LogLevel); err == nil {
		logger.SetLevel(level)
	}

	blobs := blob.NewStore()
	registry := jobs.NewRegistry()
	coordinator := jobs.NewCoordinator(blobs, registry, logger)

	server := httpapi.Server{
		Blobs:          blobs,
		Coordinator:    coordinator,
		Status:         registry,
		MaxUploadBytes: cfg.MaxUploadBytes,
		Logger:         logger,
	}

	logger.Info("API listening", "addr", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, server.Router()); err != nil {
		logger.Fatal("listen", "err", err)
	}
}

func loadDotEnv() {
	dir, err := os.Getwd()
	if err != nil {
		return
	}
	for i := 0; i < 5; i++ {
		envPath := filepath.Join(dir, ".env")
		if _, err := os.Stat(envPath); err == nil {
			_ = godotenv.Load(envPath)
			return
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return
		}
		dir = parent
	}
}
