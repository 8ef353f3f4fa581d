package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("YAS_API_ADDR", "")
	t.Setenv("YAS_MAX_UPLOAD_BYTES", "")
	t.Setenv("YAS_LOG_LEVEL", "")

	cfg := Load()
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, int64(50<<20), cfg.MaxUploadBytes)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("YAS_API_ADDR", ":9999")
	t.Setenv("YAS_MAX_UPLOAD_BYTES", "1024")
	t.Setenv("YAS_LOG_LEVEL", "debug")

	cfg := Load()
	assert.Equal(t, ":9999", cfg.Addr)
	assert.Equal(t, int64(1024), cfg.MaxUploadBytes)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadRejectsBadUploadLimit(t *testing.T) {
	for _, raw := range []string{"zero", "-5", "0"} {
		t.Setenv("YAS_MAX_UPLOAD_BYTES", raw)
		assert.Equal(t, int64(50<<20), Load().MaxUploadBytes, "raw %q", raw)
	}
}
