package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadFromEnv_Defaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("S3_BUCKET", "")

	cfg := LoadFromEnv()

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, int64(10*1024*1024), cfg.MaxUploadSize)
	assert.Empty(t, cfg.ChartPath)
	assert.Empty(t, cfg.S3Bucket)
	assert.Equal(t, "eu-west-2", cfg.S3Region)
}

func TestLoadFromEnv_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("SHUTDOWN_TIMEOUT", "5s")
	t.Setenv("MAX_UPLOAD_SIZE", "1048576")
	t.Setenv("CHART_PATH", "/etc/ratiolens/chart.yaml")
	t.Setenv("S3_BUCKET", "ratiolens-uploads")
	t.Setenv("AWS_ENDPOINT", "http://localhost:4566")

	cfg := LoadFromEnv()

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, 5*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, int64(1048576), cfg.MaxUploadSize)
	assert.Equal(t, "/etc/ratiolens/chart.yaml", cfg.ChartPath)
	assert.Equal(t, "ratiolens-uploads", cfg.S3Bucket)
	assert.Equal(t, "http://localhost:4566", cfg.AWSEndpoint)
}

func TestLoadFromEnv_MalformedValuesFallBack(t *testing.T) {
	t.Setenv("PORT", "not-a-port")
	t.Setenv("SHUTDOWN_TIMEOUT", "soon")
	t.Setenv("MAX_UPLOAD_SIZE", "huge")

	cfg := LoadFromEnv()

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, int64(10*1024*1024), cfg.MaxUploadSize)
}
