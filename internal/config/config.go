package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Data source kinds accepted by DATA_SOURCE.
const (
	SourceSheets     = "sheets"
	SourceAppsScript = "appscript"
	SourceMock       = "mock"
)

// Config represents the full application configuration surface.
type Config struct {
	Server     ServerConfig
	Source     SourceConfig
	Sheets     SheetsConfig
	AppsScript AppsScriptConfig
	Cache      CacheConfig
	MongoDB    MongoDBConfig
	Reporting  ReportingConfig
	WhatsApp   WhatsAppConfig
}

// ServerConfig holds HTTP server related options.
type ServerConfig struct {
	Port     string
	GinMode  string
	LogLevel string
}

// SourceConfig selects where inventory, sales and expense records are read from.
type SourceConfig struct {
	Kind         string
	MockDataFile string
}

// SheetsConfig contains configuration required to interact with Google Sheets.
type SheetsConfig struct {
	CredentialsPath string
	SpreadsheetID   string
}

// AppsScriptConfig points at a deployed Apps Script web app serving the collections.
type AppsScriptConfig struct {
	URL     string
	Timeout time.Duration
}

// CacheConfig enables the Redis row cache when Addr is set.
type CacheConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// Enabled reports whether a Redis address was configured.
func (c CacheConfig) Enabled() bool { return c.Addr != "" }

// MongoDBConfig holds settings for MongoDB.
type MongoDBConfig struct {
	URI    string
	DBName string
}

// Enabled reports whether dashboard snapshots should be persisted.
func (c MongoDBConfig) Enabled() bool { return c.URI != "" }

// ReportingConfig holds report presentation and scheduler settings.
type ReportingConfig struct {
	CronSchedule   string
	Timezone       string
	CurrencySymbol string
	StockMatch     string
}

// WhatsAppConfig contains credentials and options for the Meta WhatsApp Cloud API.
type WhatsAppConfig struct {
	AccessToken   string
	PhoneNumberID string
	BaseURL       string
	APIVersion    string
	RecipientID   string
}

// Enabled reports whether scheduled summaries should be sent over WhatsApp.
func (c WhatsAppConfig) Enabled() bool {
	return c.AccessToken != "" && c.PhoneNumberID != "" && c.RecipientID != ""
}

// Load reads environment variables (optionally from the provided file) and
// materializes a Config instance.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed loading env file %s: %w", envFile, err)
			}
		}
	} else {
		// Missing .env files are fine when configuration comes from the environment.
		_ = godotenv.Load()
	}

	appsScriptTimeout, err := getDurationWithDefault("APPS_SCRIPT_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}
	cacheTTL, err := getDurationWithDefault("CACHE_TTL", 5*time.Minute)
	if err != nil {
		return nil, err
	}
	redisDB, err := getIntWithDefault("REDIS_DB", 0)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:     getenvWithDefault("APP_PORT", "8080"),
			GinMode:  getenvWithDefault("GIN_MODE", "release"),
			LogLevel: getenvWithDefault("LOG_LEVEL", "info"),
		},
		Source: SourceConfig{
			Kind:         strings.ToLower(getenvWithDefault("DATA_SOURCE", SourceSheets)),
			MockDataFile: getenvWithDefault("MOCK_DATA_FILE", "data/mock.json"),
		},
		Sheets: SheetsConfig{
			CredentialsPath: os.Getenv("GOOGLE_SHEETS_CREDENTIALS_PATH"),
			SpreadsheetID:   os.Getenv("GOOGLE_SHEET_DATABASE_ID"),
		},
		AppsScript: AppsScriptConfig{
			URL:     os.Getenv("APPS_SCRIPT_URL"),
			Timeout: appsScriptTimeout,
		},
		Cache: CacheConfig{
			Addr:     os.Getenv("REDIS_ADDR"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
			TTL:      cacheTTL,
		},
		MongoDB: MongoDBConfig{
			URI:    os.Getenv("MONGODB_URI"),
			DBName: getenvWithDefault("MONGODB_DB_NAME", "ims"),
		},
		Reporting: ReportingConfig{
			CronSchedule:   getenvWithDefault("REPORT_CRON_SCHEDULE", "0 20 * * *"),
			Timezone:       getenvWithDefault("TIMEZONE", "Asia/Karachi"),
			CurrencySymbol: getenvWithDefault("CURRENCY_SYMBOL", "Rs."),
			StockMatch:     getenvWithDefault("STOCK_MATCH", "loose"),
		},
		WhatsApp: WhatsAppConfig{
			AccessToken:   os.Getenv("WHATSAPP_TOKEN"),
			PhoneNumberID: os.Getenv("WHATSAPP_PHONE_NUMBER_ID"),
			BaseURL:       getenvWithDefault("WHATSAPP_BASE_URL", "https://graph.facebook.com"),
			APIVersion:    getenvWithDefault("WHATSAPP_API_VERSION", "v20.0"),
			RecipientID:   os.Getenv("WHATSAPP_REPORT_RECIPIENT"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures that required configuration fields are populated for the selected
// data source. Every problem found is reported.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}

	var errs []error
	if c.Server.Port == "" {
		errs = append(errs, errors.New("APP_PORT must be provided"))
	}

	switch c.Source.Kind {
	case SourceSheets:
		if c.Sheets.CredentialsPath == "" {
			errs = append(errs, errors.New("GOOGLE_SHEETS_CREDENTIALS_PATH must be provided"))
		}
		if c.Sheets.SpreadsheetID == "" {
			errs = append(errs, errors.New("GOOGLE_SHEET_DATABASE_ID must be provided"))
		}
	case SourceAppsScript:
		if c.AppsScript.URL == "" {
			errs = append(errs, errors.New("APPS_SCRIPT_URL must be provided"))
		}
	case SourceMock:
		if c.Source.MockDataFile == "" {
			errs = append(errs, errors.New("MOCK_DATA_FILE must not be empty"))
		}
	default:
		errs = append(errs, fmt.Errorf("DATA_SOURCE %q must be one of sheets, appscript, mock", c.Source.Kind))
	}

	if c.Cache.Enabled() && c.Cache.TTL <= 0 {
		errs = append(errs, errors.New("CACHE_TTL must be positive"))
	}

	if c.MongoDB.Enabled() && c.MongoDB.DBName == "" {
		errs = append(errs, errors.New("MONGODB_DB_NAME must not be empty"))
	}

	if c.Reporting.CronSchedule == "" {
		errs = append(errs, errors.New("REPORT_CRON_SCHEDULE must be provided"))
	}
	if c.Reporting.Timezone == "" {
		errs = append(errs, errors.New("TIMEZONE must be provided"))
	} else if _, err := time.LoadLocation(c.Reporting.Timezone); err != nil {
		errs = append(errs, fmt.Errorf("TIMEZONE %q is invalid: %w", c.Reporting.Timezone, err))
	}

	if c.WhatsApp.AccessToken != "" {
		if c.WhatsApp.PhoneNumberID == "" {
			errs = append(errs, errors.New("WHATSAPP_PHONE_NUMBER_ID must be provided"))
		}
		if c.WhatsApp.BaseURL == "" {
			errs = append(errs, errors.New("WHATSAPP_BASE_URL must not be empty"))
		}
		if c.WhatsApp.APIVersion == "" {
			errs = append(errs, errors.New("WHATSAPP_API_VERSION must not be empty"))
		}
	}

	return errors.Join(errs...)
}

// Location resolves the configured reporting timezone.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Reporting.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getDurationWithDefault(key string, fallback time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s %q is not a duration: %w", key, value, err)
	}
	return d, nil
}

func getIntWithDefault(key string, fallback int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s %q is not a number: %w", key, raw, err)
	}
	return value, nil
}
