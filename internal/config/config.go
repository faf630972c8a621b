package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
)

const (
	// DebugModeEnv is the environment variable for debug mode.
	DebugModeEnv = "DEBUG_MODE"

	// StorePathEnv is the environment variable for the products.json path.
	StorePathEnv = "STORE_PATH"

	// ImagesDirEnv is the environment variable for the product images root.
	ImagesDirEnv = "IMAGES_DIR"

	// SiteDataPathEnv is the environment variable for the site script holding the catalog data block.
	SiteDataPathEnv = "SITE_DATA_PATH"

	// SiteAssetsPrefixEnv is the environment variable for the image path prefix used by the site.
	SiteAssetsPrefixEnv = "SITE_ASSETS_PREFIX"

	// SiteDefaultLinkEnv is the environment variable for the link used by products without one.
	SiteDefaultLinkEnv = "SITE_DEFAULT_LINK"

	// SheetsSpreadsheetIDEnv is the environment variable for the Google spreadsheet ID.
	SheetsSpreadsheetIDEnv = "SHEETS_SPREADSHEET_ID"

	// SheetsAPIKeyEnv is the environment variable for the Google API key (read only).
	SheetsAPIKeyEnv = "SHEETS_API_KEY"

	// SheetsAccessTokenEnv is the environment variable for the OAuth bearer token.
	SheetsAccessTokenEnv = "SHEETS_ACCESS_TOKEN"

	// SheetsRangeEnv is the environment variable for the A1 range holding the products.
	SheetsRangeEnv = "SHEETS_RANGE"

	// SheetsBaseURLEnv is the environment variable for the Sheets API endpoint.
	SheetsBaseURLEnv = "SHEETS_BASE_URL"

	// SheetsTimeoutEnv is the environment variable for the remote fetch timeout.
	SheetsTimeoutEnv = "SHEETS_TIMEOUT"

	// SheetsXLSXPathEnv is the environment variable for a local workbook used instead of Google Sheets.
	SheetsXLSXPathEnv = "SHEETS_XLSX_PATH"

	// SyncCronEnv is the environment variable for the auto sync schedule.
	SyncCronEnv = "SYNC_CRON"

	// HTTPServerPortEnv is the environment variable for HTTP server port.
	HTTPServerPortEnv = "HTTP_SERVER_PORT"

	// MetricsServerPortEnv is the environment variable for metrics server port.
	MetricsServerPortEnv = "METRICS_SERVER_PORT"

	// EnvFilePath is the environment variable for .env file path (only for local/test environment).
	EnvFilePath = "ENV_PATH"

	// DefaultEnvFilePath is the default path to the .env file.
	DefaultEnvFilePath = ".env"

	// AWSRegionEnv is the environment variable for AWS region.
	AWSRegionEnv = "AWS_REGION"

	// AWSEndpointEnv is the environment variable for AWS endpoint.
	AWSEndpointEnv = "AWS_ENDPOINT"

	// SQSQueueURLEnv is the environment variable for SQS queue URL.
	SQSQueueURLEnv = "SQS_QUEUE_URL"
)

const (
	defaultStorePath     = "products.json"
	defaultImagesDir     = "img"
	defaultSiteDataPath  = "app.min.js"
	defaultHTTPPort      = "8080"
	defaultMetricsPort   = "9090"
	defaultSheetsTimeout = 30 * time.Second
)

var (
	// ErrMissingConfig is returned when required configuration values are missing.
	ErrMissingConfig = errors.New("missing config data")
)

// Config represents the application configuration.
type Config struct {
	DebugMode     bool
	Store         StoreConfig
	Site          SiteConfig
	Sheets        SheetsConfig
	SyncCron      string
	HTTPServer    Server
	MetricsServer Server
	AWS           AWSConfig
}

// StoreConfig represents local file locations.
type StoreConfig struct {
	Path      string
	ImagesDir string
}

// SiteConfig represents the storefront export settings.
type SiteConfig struct {
	DataPath     string
	AssetsPrefix string
	DefaultLink  string
}

// SheetsConfig represents the remote spreadsheet settings.
type SheetsConfig struct {
	SpreadsheetID string
	APIKey        string
	AccessToken   string
	Range         string
	BaseURL       string
	Timeout       time.Duration
	XLSXPath      string
}

// Enabled reports whether any remote sheet backend is configured.
func (s SheetsConfig) Enabled() bool {
	return s.SpreadsheetID != "" || s.XLSXPath != ""
}

// AWSConfig represents AWS-specific configuration settings.
type AWSConfig struct {
	Region      string
	Endpoint    string
	SQSQueueURL string
}

// Server represents server configuration settings.
type Server struct {
	Port string
}

func allNonEmpty(keyValues map[string]string) error {
	for key, value := range keyValues {
		if value == "" {
			slog.Error("configuration validation failed", slog.String("key", key), slog.String("error", "value is empty"))
			return fmt.Errorf("%w for key: %s", ErrMissingConfig, key)
		}
	}
	return nil
}

func allNumbers(keyValues map[string]string) error {
	for key, value := range keyValues {
		_, err := strconv.Atoi(value)
		if err != nil {
			slog.Error("configuration validation failed", slog.String("key", key), slog.String("value", value), slog.String("error", err.Error()))
			return fmt.Errorf("invalid number for key %s: %w", key, err)
		}
	}
	return nil
}

func (c *Config) validate() error {
	if err := allNonEmpty(map[string]string{
		StorePathEnv:    c.Store.Path,
		ImagesDirEnv:    c.Store.ImagesDir,
		SiteDataPathEnv: c.Site.DataPath,
	}); err != nil {
		return fmt.Errorf("file locations incomplete: %w", err)
	}

	if err := allNumbers(map[string]string{
		HTTPServerPortEnv:    c.HTTPServer.Port,
		MetricsServerPortEnv: c.MetricsServer.Port,
	}); err != nil {
		return fmt.Errorf("invalid port number: %w", err)
	}

	if c.SyncCron != "" {
		if !c.Sheets.Enabled() {
			return fmt.Errorf("%s requires a sheet: %w for key: %s", SyncCronEnv, ErrMissingConfig, SheetsSpreadsheetIDEnv)
		}
		if _, err := cron.ParseStandard(c.SyncCron); err != nil {
			return fmt.Errorf("invalid schedule for key %s: %w", SyncCronEnv, err)
		}
	}
	return nil
}

func getEnv(name, defaultValue string) string {
	if val := os.Getenv(name); val != "" {
		return val
	}
	return defaultValue
}

func getEnvAsBool(name string, defaultValue bool) bool {
	if val, err := strconv.ParseBool(os.Getenv(name)); err == nil {
		return val
	}
	return defaultValue
}

func getEnvAsDuration(name string, defaultValue time.Duration) (time.Duration, error) {
	raw := os.Getenv(name)
	if raw == "" {
		return defaultValue, nil
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d, nil
	}
	// plain numbers are seconds
	seconds, err := strconv.Atoi(raw)
	if err != nil || seconds <= 0 {
		return 0, fmt.Errorf("invalid duration for key %s: %q", name, raw)
	}
	return time.Duration(seconds) * time.Second, nil
}

// ApplyEnvFile loads environment variables from the specified .env files.
func ApplyEnvFile(files ...string) error {
	err := godotenv.Load(files...)
	if err != nil {
		return fmt.Errorf("failed to load env file: %w", err)
	}
	return nil
}

// LoadFromEnv loads configuration from environment variables and validates it.
func LoadFromEnv() (*Config, error) {
	envPath := os.Getenv(EnvFilePath)
	if envPath == "" {
		envPath = DefaultEnvFilePath
	}
	err := ApplyEnvFile(envPath)
	if err != nil {
		// just log the error, maybe all envs are set in another way
		slog.Debug("failed to load from .env", slog.Any("err", err))
	}

	timeout, err := getEnvAsDuration(SheetsTimeoutEnv, defaultSheetsTimeout)
	if err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	conf := &Config{
		DebugMode: getEnvAsBool(DebugModeEnv, false),
		Store: StoreConfig{
			Path:      getEnv(StorePathEnv, defaultStorePath),
			ImagesDir: getEnv(ImagesDirEnv, defaultImagesDir),
		},
		Site: SiteConfig{
			DataPath:     getEnv(SiteDataPathEnv, defaultSiteDataPath),
			AssetsPrefix: os.Getenv(SiteAssetsPrefixEnv),
			DefaultLink:  os.Getenv(SiteDefaultLinkEnv),
		},
		Sheets: SheetsConfig{
			SpreadsheetID: os.Getenv(SheetsSpreadsheetIDEnv),
			APIKey:        os.Getenv(SheetsAPIKeyEnv),
			AccessToken:   os.Getenv(SheetsAccessTokenEnv),
			Range:         os.Getenv(SheetsRangeEnv),
			BaseURL:       os.Getenv(SheetsBaseURLEnv),
			Timeout:       timeout,
			XLSXPath:      os.Getenv(SheetsXLSXPathEnv),
		},
		SyncCron: os.Getenv(SyncCronEnv),
		HTTPServer: Server{
			Port: getEnv(HTTPServerPortEnv, defaultHTTPPort),
		},
		MetricsServer: Server{
			Port: getEnv(MetricsServerPortEnv, defaultMetricsPort),
		},
		AWS: AWSConfig{
			Region:      os.Getenv(AWSRegionEnv),
			Endpoint:    os.Getenv(AWSEndpointEnv),
			SQSQueueURL: os.Getenv(SQSQueueURLEnv),
		},
	}

	if err := conf.validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return conf, nil
}
