package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DB_DSN", "postgres://farm@localhost/farm")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, DriverPostgres, cfg.Database.Driver)
	assert.True(t, cfg.Database.AutoMigrate)
	assert.Equal(t, ProviderOpenAI, cfg.AI.Provider)
	assert.Equal(t, "https://api.openai.com/v1", cfg.AI.BaseURL)
	assert.Equal(t, "gpt-4", cfg.AI.Model)
	assert.Equal(t, 60*time.Second, cfg.AI.Timeout)
	assert.Equal(t, StoreSQL, cfg.Analysis.Store)
	assert.Equal(t, "0 20 * * 5", cfg.Reporting.CronSchedule)
	assert.False(t, cfg.SheetsEnabled())
	assert.False(t, cfg.WhatsAppEnabled())
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("DB_DRIVER", "SQLite")
	t.Setenv("DB_DSN", "file:farm.db")
	t.Setenv("AI_PROVIDER", "anthropic")
	t.Setenv("AI_TIMEOUT", "5s")
	t.Setenv("AUTH_JWT_SECRET", "s3cret")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, ProviderAnthropic, cfg.AI.Provider)
	assert.Equal(t, "https://api.anthropic.com/v1", cfg.AI.BaseURL)
	assert.Equal(t, "claude-3-haiku-20240307", cfg.AI.Model)
	assert.Equal(t, 5*time.Second, cfg.AI.Timeout)
	assert.Equal(t, "s3cret", cfg.Auth.JWTSecret)
}

func TestLoadEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("DB_DSN=file:from-env-file.db\nDB_DRIVER=sqlite\n"), 0o600))
	t.Cleanup(func() {
		_ = os.Unsetenv("DB_DSN")
		_ = os.Unsetenv("DB_DRIVER")
	})

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "file:from-env-file.db", cfg.Database.DSN)
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			Server:   ServerConfig{Port: "8080"},
			Database: DatabaseConfig{Driver: DriverSQLite, DSN: "x.db"},
			AI:       AIConfig{Provider: ProviderOpenAI, Model: "gpt-4", Timeout: time.Second},
			Analysis: AnalysisConfig{Store: StoreSQL},
		}
	}

	require.NoError(t, base().Validate())

	t.Run("missing dsn", func(t *testing.T) {
		cfg := base()
		cfg.Database.DSN = ""
		assert.ErrorContains(t, cfg.Validate(), "DB_DSN")
	})

	t.Run("unknown provider", func(t *testing.T) {
		cfg := base()
		cfg.AI.Provider = "markov"
		assert.ErrorContains(t, cfg.Validate(), "AI_PROVIDER")
	})

	t.Run("mongo store needs uri", func(t *testing.T) {
		cfg := base()
		cfg.Analysis.Store = StoreMongoDB
		assert.ErrorContains(t, cfg.Validate(), "MONGODB_URI")
	})

	t.Run("sheets half configured", func(t *testing.T) {
		cfg := base()
		cfg.Sheets.SpreadsheetID = "sheet"
		assert.ErrorContains(t, cfg.Validate(), "GOOGLE_SHEETS_CREDENTIALS_PATH")
	})

	t.Run("nil config", func(t *testing.T) {
		var cfg *Config
		assert.Error(t, cfg.Validate())
	})
}
