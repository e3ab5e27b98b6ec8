package logger_test

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	"rhai/internal/logger"
)

func TestInit_FiltersBelowLevel(t *testing.T) {
	defer func() {
		logger.Init("info")
		logger.SetOutput(os.Stdout)
	}()

	var buf bytes.Buffer
	logger.SetOutput(&buf)
	logger.Init("warn")

	logger.Infof("hidden %d", 1)
	logger.Warnf("shown %d", 2)
	logger.Errorf("shown %d", 3)

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "[WARN] shown 2")
	assert.Contains(t, out, "[ERROR] shown 3")
	assert.Equal(t, "warn", logger.LevelString())
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, logger.LevelDebug, logger.ParseLevel("DEBUG"))
	assert.Equal(t, logger.LevelWarn, logger.ParseLevel("warning"))
	assert.Equal(t, logger.LevelError, logger.ParseLevel(" error "))
	assert.Equal(t, logger.LevelInfo, logger.ParseLevel("verbose"))
}
