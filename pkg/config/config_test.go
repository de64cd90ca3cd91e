package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir mirrors testing.T.Chdir (Go 1.24+): it changes the working
// directory for the duration of the test and restores it on cleanup.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatalf("restore working directory: %v", err)
		}
	})
}

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.True(t, cfg.Debug())
	assert.Equal(t, StorageDriverLocal, cfg.Uploads.Driver)
	assert.Equal(t, int64(10*1024*1024), cfg.Uploads.MaxFileSize)
	assert.Equal(t, 15*time.Minute, cfg.JWT.ResetExpiration)
	assert.Equal(t, 3, cfg.Cleanup.Retries)
}

func TestLoadFromEnvironment(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("ENV", EnvProduction)
	t.Setenv("JWT_SECRET", "prod-jwt")
	t.Setenv("UPLOADS_SIGNED_URL_SECRET", "prod-uploads")
	t.Setenv("UPLOADS_DRIVER", "GCS")
	t.Setenv("GCS_BUCKET", "admissions-docs")
	t.Setenv("STATS_CACHE_TTL", "not-a-duration")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, ,https://b.example")

	cfg, err := Load()
	require.NoError(t, err)
	assert.False(t, cfg.Debug())
	assert.Equal(t, StorageDriverGCS, cfg.Uploads.Driver)
	assert.Equal(t, 5*time.Minute, cfg.Stats.CacheTTL)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.AllowedOrigins)
}

func TestLoadRejectsUnsafeSettings(t *testing.T) {
	t.Run("production keeps development secrets", func(t *testing.T) {
		chdir(t, t.TempDir())
		t.Setenv("ENV", EnvProduction)

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "JWT_SECRET")
	})

	t.Run("gcs without bucket", func(t *testing.T) {
		chdir(t, t.TempDir())
		t.Setenv("UPLOADS_DRIVER", "gcs")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "GCS_BUCKET")
	})
}
