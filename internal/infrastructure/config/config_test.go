package config

import (
	"os"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir is t.Chdir from Go 1.24+, reimplemented for older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "openbooks-ledger", cfg.App.Name)
	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 15*time.Second, cfg.HTTP.ReadTimeout)
	assert.True(t, cfg.Billing.AllowOverpayment)
	assert.Equal(t, time.Hour, cfg.Billing.OverdueSweepInterval)
}

func TestLoadEnvOverride(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("LEDGER_DATABASE_DRIVER", "sqlite")
	t.Setenv("LEDGER_DATABASE_PATH", ":memory:")
	t.Setenv("LEDGER_LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, ":memory:", cfg.Database.Path)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.False(t, cfg.Database.IsPostgres())
}

func TestValidate(t *testing.T) {
	t.Run("rejects unknown driver", func(t *testing.T) {
		cfg := &Config{}
		applyDefaults(cfg, viper.New())
		cfg.Database.Driver = "oracle"
		assert.Error(t, cfg.validate())
	})

	t.Run("rejects unknown log level", func(t *testing.T) {
		cfg := &Config{}
		applyDefaults(cfg, viper.New())
		cfg.Log.Level = "loud"
		assert.Error(t, cfg.validate())
	})

	t.Run("production postgres requires a password", func(t *testing.T) {
		cfg := &Config{}
		applyDefaults(cfg, viper.New())
		cfg.App.Env = "production"
		assert.Error(t, cfg.validate())

		cfg.Database.Password = "secret"
		assert.NoError(t, cfg.validate())
	})
}

func TestDSN(t *testing.T) {
	cfg := DatabaseConfig{
		Host:     "db.internal",
		Port:     5433,
		User:     "ledger",
		Password: "secret",
		DBName:   "ledger",
		SSLMode:  "require",
	}
	dsn := cfg.DSN()
	assert.Contains(t, dsn, "host=db.internal")
	assert.Contains(t, dsn, "port=5433")
	assert.Contains(t, dsn, "sslmode=require")
}
