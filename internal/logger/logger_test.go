package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewJSONLogger(t *testing.T) {
	// given
	var buf bytes.Buffer
	log := NewJSONLogger(&buf, false)

	// when
	log.Debug("hidden")
	log.Info("product saved", slog.String("id", "7"), slog.Int("count", 42))

	// then
	var logEntry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &logEntry), "output: %s", buf.String())
	assert.Equal(t, "product saved", logEntry["msg"])
	assert.Equal(t, "7", logEntry["id"])
	assert.Equal(t, float64(42), logEntry["count"])
	assert.Equal(t, "INFO", logEntry["level"])
	assert.Contains(t, logEntry, "time")
}

func TestNewJSONLogger_DebugLevel(t *testing.T) {
	var buf bytes.Buffer
	log := NewJSONLogger(&buf, true)

	log.Debug("row skipped", slog.Int("row", 3))

	var logEntry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &logEntry))
	assert.Equal(t, "DEBUG", logEntry["level"])
	assert.Equal(t, float64(3), logEntry["row"])
}

// TestInitJSONLogger_OutputFormat verifies that InitJSONLogger installs a JSON
// default logger on stderr.
func TestInitJSONLogger_OutputFormat(t *testing.T) {
	oldStderr := os.Stderr
	oldDefault := slog.Default()
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stderr = w
	t.Cleanup(func() {
		os.Stderr = oldStderr
		slog.SetDefault(oldDefault)
	})

	InitJSONLogger(false)
	slog.Info("test initialization", slog.String("service", "platforma-manager"), slog.Int("port", 8080))
	require.NoError(t, w.Close())
	os.Stderr = oldStderr

	var buf bytes.Buffer
	_, err = buf.ReadFrom(r)
	require.NoError(t, err)

	var logEntry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &logEntry), "output: %s", buf.String())
	assert.Equal(t, "test initialization", logEntry["msg"])
	assert.Equal(t, "platforma-manager", logEntry["service"])
	assert.Equal(t, float64(8080), logEntry["port"])
	assert.Equal(t, "INFO", logEntry["level"])
}
