package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config represents the full application configuration surface.
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	AI        AIConfig
	Analysis  AnalysisConfig
	MongoDB   MongoDBConfig
	Sheets    SheetsConfig
	WhatsApp  WhatsAppConfig
	Reporting ReportingConfig
	Auth      AuthConfig
}

// ServerConfig holds HTTP server related options.
type ServerConfig struct {
	Port           string
	LogLevel       string
	MetricsEnabled bool
}

// DatabaseConfig selects the relational store.
type DatabaseConfig struct {
	Driver      string
	DSN         string
	AutoMigrate bool
}

// AIConfig holds settings for the completion provider.
type AIConfig struct {
	Provider string
	APIKey   string
	BaseURL  string
	Model    string
	Timeout  time.Duration
}

// AnalysisConfig selects where analysis audit rows are written.
type AnalysisConfig struct {
	Store string
}

// MongoDBConfig holds settings for MongoDB.
type MongoDBConfig struct {
	URI    string
	DBName string
}

// SheetsConfig contains configuration required to mirror daily logs into Google Sheets.
type SheetsConfig struct {
	CredentialsPath string
	SpreadsheetID   string
	DailyLogRange   string
}

// WhatsAppConfig contains credentials for the Meta WhatsApp Cloud API used by the digest notifier.
type WhatsAppConfig struct {
	AccessToken     string
	PhoneNumberID   string
	BaseURL         string
	APIVersion      string
	DigestRecipient string
}

// ReportingConfig holds scheduler-related settings.
type ReportingConfig struct {
	DigestEnabled      bool
	CronSchedule       string
	Timezone           string
	DigestAnalysisType string
}

// AuthConfig configures the JWT permission gate. An empty secret disables it.
type AuthConfig struct {
	JWTSecret string
}

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	StoreSQL     = "sql"
	StoreMongoDB = "mongodb"

	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderGemini    = "gemini"
)

var defaults = map[string]any{
	"APP_PORT":               "8080",
	"LOG_LEVEL":              "info",
	"METRICS_ENABLED":        true,
	"DB_DRIVER":              DriverPostgres,
	"DB_AUTO_MIGRATE":        true,
	"AI_PROVIDER":            ProviderOpenAI,
	"AI_TIMEOUT":             60 * time.Second,
	"ANALYSIS_STORE":         StoreSQL,
	"MONGODB_DB_NAME":        "layerfarm",
	"SHEETS_DAILY_LOG_RANGE": "DataHarian!A:L",
	"WHATSAPP_BASE_URL":      "https://graph.facebook.com",
	"WHATSAPP_API_VERSION":   "v20.0",
	"DIGEST_ENABLED":         false,
	"DIGEST_CRON":            "0 20 * * 5",
	"DIGEST_ANALYSIS_TYPE":   "PERFORMANCE_ANALYSIS",
	"TIMEZONE":               "Asia/Jakarta",
}

var providerBaseURLs = map[string]string{
	ProviderOpenAI:    "https://api.openai.com/v1",
	ProviderAnthropic: "https://api.anthropic.com/v1",
}

var providerModels = map[string]string{
	ProviderOpenAI:    "gpt-4",
	ProviderAnthropic: "claude-3-haiku-20240307",
	ProviderGemini:    "gemini-2.0-flash",
}

// Load reads environment variables (optionally from the provided file) and
// materializes a Config instance. CONFIG_FILE may point at a yaml/json/toml
// file whose keys mirror the environment variable names.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed loading env file %s: %w", envFile, err)
			}
		}
	} else {
		// A missing .env is fine when configuration comes from the environment directly.
		_ = godotenv.Load()
	}

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", path, err)
		}
	}

	provider := strings.ToLower(v.GetString("AI_PROVIDER"))
	baseURL := v.GetString("AI_BASE_URL")
	if baseURL == "" {
		baseURL = providerBaseURLs[provider]
	}
	model := v.GetString("AI_MODEL")
	if model == "" {
		model = providerModels[provider]
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:           v.GetString("APP_PORT"),
			LogLevel:       v.GetString("LOG_LEVEL"),
			MetricsEnabled: v.GetBool("METRICS_ENABLED"),
		},
		Database: DatabaseConfig{
			Driver:      strings.ToLower(v.GetString("DB_DRIVER")),
			DSN:         v.GetString("DB_DSN"),
			AutoMigrate: v.GetBool("DB_AUTO_MIGRATE"),
		},
		AI: AIConfig{
			Provider: provider,
			APIKey:   v.GetString("AI_API_KEY"),
			BaseURL:  baseURL,
			Model:    model,
			Timeout:  v.GetDuration("AI_TIMEOUT"),
		},
		Analysis: AnalysisConfig{
			Store: strings.ToLower(v.GetString("ANALYSIS_STORE")),
		},
		MongoDB: MongoDBConfig{
			URI:    v.GetString("MONGODB_URI"),
			DBName: v.GetString("MONGODB_DB_NAME"),
		},
		Sheets: SheetsConfig{
			CredentialsPath: v.GetString("GOOGLE_SHEETS_CREDENTIALS_PATH"),
			SpreadsheetID:   v.GetString("GOOGLE_SHEET_DATABASE_ID"),
			DailyLogRange:   v.GetString("SHEETS_DAILY_LOG_RANGE"),
		},
		WhatsApp: WhatsAppConfig{
			AccessToken:     v.GetString("WHATSAPP_TOKEN"),
			PhoneNumberID:   v.GetString("WHATSAPP_PHONE_NUMBER_ID"),
			BaseURL:         v.GetString("WHATSAPP_BASE_URL"),
			APIVersion:      v.GetString("WHATSAPP_API_VERSION"),
			DigestRecipient: v.GetString("WHATSAPP_DIGEST_RECIPIENT"),
		},
		Reporting: ReportingConfig{
			DigestEnabled:      v.GetBool("DIGEST_ENABLED"),
			CronSchedule:       v.GetString("DIGEST_CRON"),
			Timezone:           v.GetString("TIMEZONE"),
			DigestAnalysisType: v.GetString("DIGEST_ANALYSIS_TYPE"),
		},
		Auth: AuthConfig{
			JWTSecret: v.GetString("AUTH_JWT_SECRET"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures that required configuration fields are populated.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}

	if c.Server.Port == "" {
		return errors.New("APP_PORT must be provided")
	}

	switch c.Database.Driver {
	case DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("DB_DRIVER %q is not supported", c.Database.Driver)
	}
	if c.Database.DSN == "" {
		return errors.New("DB_DSN must be provided")
	}

	switch c.AI.Provider {
	case ProviderOpenAI, ProviderAnthropic, ProviderGemini:
	default:
		return fmt.Errorf("AI_PROVIDER %q is not supported", c.AI.Provider)
	}
	if c.AI.Model == "" {
		return errors.New("AI_MODEL must not be empty")
	}
	if c.AI.Timeout <= 0 {
		return errors.New("AI_TIMEOUT must be positive")
	}

	switch c.Analysis.Store {
	case StoreSQL:
	case StoreMongoDB:
		if c.MongoDB.URI == "" {
			return errors.New("MONGODB_URI must be provided when ANALYSIS_STORE=mongodb")
		}
		if c.MongoDB.DBName == "" {
			return errors.New("MONGODB_DB_NAME must not be empty")
		}
	default:
		return fmt.Errorf("ANALYSIS_STORE %q is not supported", c.Analysis.Store)
	}

	if (c.Sheets.CredentialsPath == "") != (c.Sheets.SpreadsheetID == "") {
		return errors.New("GOOGLE_SHEETS_CREDENTIALS_PATH and GOOGLE_SHEET_DATABASE_ID must be provided together")
	}

	if c.Reporting.DigestEnabled {
		if c.Reporting.CronSchedule == "" {
			return errors.New("DIGEST_CRON must be provided")
		}
		if c.Reporting.Timezone == "" {
			return errors.New("TIMEZONE must be provided")
		}
	}

	return nil
}

// SheetsEnabled reports whether the Google Sheets mirror is configured.
func (c *Config) SheetsEnabled() bool {
	return c.Sheets.CredentialsPath != "" && c.Sheets.SpreadsheetID != ""
}

// WhatsAppEnabled reports whether digest messages can be delivered over WhatsApp.
func (c *Config) WhatsAppEnabled() bool {
	return c.WhatsApp.AccessToken != "" && c.WhatsApp.PhoneNumberID != "" && c.WhatsApp.DigestRecipient != ""
}
