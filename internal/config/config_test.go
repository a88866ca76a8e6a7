package config_test

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"avotrade/internal/config"
)

func TestDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, "log", cfg.NotifyMailer)
	assert.Equal(t, 12*time.Hour, cfg.TokenTTL)
	assert.Len(t, cfg.JWTSecret, 64, "secret generated when unset")
}

func TestEnvironmentOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("PORT", "9090")
	t.Setenv("DB_DRIVER", "Postgres")
	t.Setenv("DB_DSN", "postgres://u:p@localhost/avo")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("API_URL", "http://api.local/")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, "postgres://u:p@localhost/avo", cfg.DBDSN)
	assert.Equal(t, "s3cret", cfg.JWTSecret)
	assert.Equal(t, "http://api.local", cfg.APIURL)
}

func TestRejectsUnknownDriver(t *testing.T) {
	v := withoutFile(config.New())
	v.Set("db_driver", "mssql")
	_, err := config.FromViper(v)
	require.ErrorContains(t, err, `unsupported db_driver "mssql"`)
}

func TestRejectsBadTTL(t *testing.T) {
	v := withoutFile(config.New())
	v.Set("token_ttl", "soon")
	_, err := config.FromViper(v)
	require.Error(t, err)
}

// withoutFile points viper at a config name that never exists.
func withoutFile(v *viper.Viper) *viper.Viper {
	v.SetConfigName("avotrade-test-absent")
	return v
}
