package config

import (
	"os"
	"strconv"
)

type Config struct {
	Addr           string
	MaxUploadBytes int64
	LogLevel       string
}

func Load() Config {
	return Config{
		Addr:           getenv("YAS_API_ADDR", ":8080"),
		MaxUploadBytes: getenvInt64("YAS_MAX_UPLOAD_BYTES", 50<<20),
		LogLevel:       getenv("YAS_LOG_LEVEL", "info"),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt64(key string, fallback int64) int64 {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || value <= 0 {
		return fallback
	}
	return value
}
