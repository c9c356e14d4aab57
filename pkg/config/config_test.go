package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestDefaults(t *testing.T) {
	v := viper.New()
	setDefaults(v)

	cfg := fromViper(v)
	assert.Equal(t, StorageCSV, cfg.Storage.Driver)
	assert.Equal(t, 5, cfg.Login.MaxAttempts)
	assert.Equal(t, 15*time.Minute, cfg.Login.Window)
	assert.True(t, cfg.Ideas.ShowPrivateToAuthenticated)
	assert.False(t, cfg.Ideas.AutoAccept)
	assert.Equal(t, 30, cfg.Ideas.WindowMinDays)
	assert.Equal(t, 180, cfg.Ideas.WindowMaxDays)
	assert.Equal(t, filepath.Join("./data", "ideas.csv"), cfg.Storage.Path(cfg.Storage.IdeasFile))
}

func TestOverridesAndSanitising(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	v.Set("STORAGE_DRIVER", "Postgres")
	v.Set("LOGIN_WINDOW", "not-a-duration")
	v.Set("IDEAS_WINDOW_MIN_DAYS", 60)
	v.Set("IDEAS_WINDOW_MAX_DAYS", 10)
	v.Set("ALLOWED_ORIGINS", " http://a.test , ,http://b.test")

	cfg := fromViper(v)
	assert.Equal(t, StoragePostgres, cfg.Storage.Driver)
	assert.Equal(t, 15*time.Minute, cfg.Login.Window)
	assert.Equal(t, 60, cfg.Ideas.WindowMaxDays)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORS.AllowedOrigins)
}

func TestStoragePathKeepsAbsolute(t *testing.T) {
	s := StorageConfig{DataDir: "./data"}
	abs := filepath.Join(t.TempDir(), "ideas.csv")
	assert.Equal(t, abs, s.Path(abs))
}
