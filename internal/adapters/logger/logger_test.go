package logger_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/prajithkb/metro/internal/adapters/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger_InfoWritesToConfiguredOutput(t *testing.T) {
	var buf bytes.Buffer
	l := logger.New()
	l.SetJSON(false)
	l.SetOutput(&buf)

	l.Info("graph built")

	assert.Contains(t, buf.String(), "graph built")
}

func TestLogger_WarnIncludesIcon(t *testing.T) {
	var buf bytes.Buffer
	l := logger.New()
	l.SetJSON(false)
	l.SetOutput(&buf)

	l.Warn("platform not configured")

	out := buf.String()
	assert.Contains(t, out, "!")
	assert.Contains(t, out, "platform not configured")
}

func TestLogger_JSONMode(t *testing.T) {
	var buf bytes.Buffer
	l := logger.New()
	l.SetOutput(&buf)
	l.SetJSON(true)

	l.Info("dev server listening")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "dev server listening", record["msg"])
	assert.Equal(t, "INFO", record["level"])
}

func TestLogger_ErrorNil(t *testing.T) {
	var buf bytes.Buffer
	l := logger.New()
	l.SetJSON(false)
	l.SetOutput(&buf)

	l.Error(nil)

	assert.Empty(t, buf.String())
}
