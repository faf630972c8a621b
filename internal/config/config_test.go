package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/iyhunko/platforma-manager/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromEnv(t *testing.T) {
	t.Setenv(config.EnvFilePath, filepath.Join(t.TempDir(), "missing.env"))
	t.Setenv(config.DebugModeEnv, "true")
	t.Setenv(config.StorePathEnv, "data/products.json")
	t.Setenv(config.SheetsSpreadsheetIDEnv, "sheet-id")
	t.Setenv(config.SheetsAPIKeyEnv, "key")
	t.Setenv(config.SheetsTimeoutEnv, "5s")
	t.Setenv(config.SyncCronEnv, "*/15 * * * *")
	t.Setenv(config.HTTPServerPortEnv, "8081")
	t.Setenv(config.MetricsServerPortEnv, "9091")
	t.Setenv(config.SQSQueueURLEnv, "http://localhost:4566/000000000000/catalog-events")

	conf, err := config.LoadFromEnv()
	require.NoError(t, err, "loading config should not return error")

	assert.True(t, conf.DebugMode, "DebugMode should be true")
	assert.Equal(t, "data/products.json", conf.Store.Path)
	assert.Equal(t, "img", conf.Store.ImagesDir, "images dir should fall back to default")
	assert.Equal(t, "app.min.js", conf.Site.DataPath)
	assert.Equal(t, "sheet-id", conf.Sheets.SpreadsheetID)
	assert.Equal(t, 5*time.Second, conf.Sheets.Timeout)
	assert.True(t, conf.Sheets.Enabled())
	assert.Equal(t, "*/15 * * * *", conf.SyncCron)
	assert.Equal(t, "8081", conf.HTTPServer.Port)
	assert.Equal(t, "9091", conf.MetricsServer.Port)
	assert.Equal(t, "http://localhost:4566/000000000000/catalog-events", conf.AWS.SQSQueueURL)
}

func TestLoadFromEnv_Defaults(t *testing.T) {
	t.Setenv(config.EnvFilePath, filepath.Join(t.TempDir(), "missing.env"))
	for _, key := range []string{
		config.StorePathEnv, config.SheetsSpreadsheetIDEnv, config.SheetsXLSXPathEnv, config.SheetsTimeoutEnv,
		config.SyncCronEnv, config.HTTPServerPortEnv, config.MetricsServerPortEnv,
	} {
		t.Setenv(key, "")
	}

	conf, err := config.LoadFromEnv()

	require.NoError(t, err)
	assert.Equal(t, "products.json", conf.Store.Path)
	assert.Equal(t, 30*time.Second, conf.Sheets.Timeout)
	assert.False(t, conf.Sheets.Enabled())
	assert.Equal(t, "8080", conf.HTTPServer.Port)
	assert.Equal(t, "9090", conf.MetricsServer.Port)
}

func TestLoadFromEnv_ReadsEnvFile(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(envFile, []byte("SHEETS_XLSX_PATH=offline.xlsx\n"), 0o644))
	t.Setenv(config.EnvFilePath, envFile)
	t.Setenv(config.SheetsXLSXPathEnv, "")
	require.NoError(t, os.Unsetenv(config.SheetsXLSXPathEnv))

	conf, err := config.LoadFromEnv()

	require.NoError(t, err)
	assert.Equal(t, "offline.xlsx", conf.Sheets.XLSXPath)
	assert.True(t, conf.Sheets.Enabled())
}

func TestLoadFromEnv_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr error
	}{
		{"SyncWithoutSheet", map[string]string{config.SyncCronEnv: "@hourly", config.SheetsSpreadsheetIDEnv: "", config.SheetsXLSXPathEnv: ""}, config.ErrMissingConfig},
		{"BadCron", map[string]string{config.SyncCronEnv: "every minute", config.SheetsSpreadsheetIDEnv: "id"}, nil},
		{"BadPort", map[string]string{config.HTTPServerPortEnv: "http"}, nil},
		{"BadTimeout", map[string]string{config.SheetsTimeoutEnv: "soon"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(config.EnvFilePath, filepath.Join(t.TempDir(), "missing.env"))
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := config.LoadFromEnv()

			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestGetEnvAsDuration(t *testing.T) {
	t.Setenv("TEST_DURATION", "45")
	d, err := config.GetEnvAsDuration("TEST_DURATION", time.Second)
	require.NoError(t, err)
	assert.Equal(t, 45*time.Second, d)

	t.Setenv("TEST_DURATION", "1m30s")
	d, err = config.GetEnvAsDuration("TEST_DURATION", time.Second)
	require.NoError(t, err)
	assert.Equal(t, 90*time.Second, d)

	t.Setenv("TEST_DURATION", "")
	d, err = config.GetEnvAsDuration("TEST_DURATION", time.Second)
	require.NoError(t, err)
	assert.Equal(t, time.Second, d)
}

func TestGetEnvAsBool(t *testing.T) {
	tests := []struct {
		name         string
		envValue     string
		defaultValue bool
		want         bool
	}{
		{"GetEnvAsBool_True", "true", false, true},
		{"GetEnvAsBool_False", "false", true, false},
		{"GetEnvAsBool_Invalid", "invalid", true, true},
		{"GetEnvAsBool_Empty", "", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TEST_ENV", tt.envValue)
			got := config.GetEnvAsBool("TEST_ENV", tt.defaultValue)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAllNumbers(t *testing.T) {
	tests := []struct {
		name    string
		input   map[string]string
		wantErr bool
	}{
		{"AllNumbers_Valid", map[string]string{"key1": "123", "key2": "456", "key3": "789"}, false},
		{"AllNumbers_Invalid", map[string]string{"key1": "123", "key2": "abc", "key3": "789"}, true},
		{"AllNumbers_EmptyString", map[string]string{"key1": "123", "key2": "", "key3": "789"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := config.AllNumbers(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestAllNonEmpty(t *testing.T) {
	tests := []struct {
		name    string
		input   map[string]string
		wantErr bool
	}{
		{"AllNonEmpty_Valid", map[string]string{"key1": "host", "key2": "user", "key3": "pass"}, false},
		{"AllNonEmpty_EmptyString", map[string]string{"key1": "host", "key2": "", "key3": "pass"}, true},
		{"AllNonEmpty_AllEmpty", map[string]string{"key1": "", "key2": "", "key3": ""}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := config.AllNonEmpty(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
