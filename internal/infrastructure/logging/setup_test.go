package logging_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/factorysim/internal/infrastructure/config"
	"github.com/andrescamacho/factorysim/internal/infrastructure/logging"
)

func TestNew_JSONRespectsLevel(t *testing.T) {
	// Arrange
	var buf bytes.Buffer
	logger := logging.New(&buf, config.LoggingConfig{Level: "warn", Format: "json"})

	// Act
	logger.Info("hidden")
	logger.Warn("shown", "operation", "Paint Product")

	// Assert
	var record map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "shown", record["msg"])
	assert.Equal(t, "Paint Product", record["operation"])
}

func TestNew_TextFormat(t *testing.T) {
	// Arrange
	var buf bytes.Buffer
	logger := logging.New(&buf, config.LoggingConfig{Level: "debug", Format: "text"})

	// Act
	logger.Debug("tick finished", "tick", 3)

	// Assert
	assert.Contains(t, buf.String(), "msg=\"tick finished\"")
	assert.Contains(t, buf.String(), "tick=3")
}

func TestSetup_FileOutput(t *testing.T) {
	// Arrange
	path := filepath.Join(t.TempDir(), "sim.log")
	previous := slog.Default()
	t.Cleanup(func() { slog.SetDefault(previous) })

	// Act
	logger, closer, err := logging.Setup(config.LoggingConfig{Level: "info", Format: "text", Output: "file", FilePath: path})
	require.NoError(t, err)
	logger.Info("simulation started")
	require.NoError(t, closer.Close())

	// Assert
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "simulation started")
}

func TestSetup_UnknownOutput(t *testing.T) {
	// Act
	_, _, err := logging.Setup(config.LoggingConfig{Output: "syslog"})

	// Assert
	assert.Error(t, err)
}
