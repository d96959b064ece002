package logger_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/prajithkb/metro/internal/adapters/logger"
	"github.com/stretchr/testify/assert"
	"go.trai.ch/zerr"
)

func TestLogger_ErrorFormatsZerrChain(t *testing.T) {
	var buf bytes.Buffer
	l := logger.New()
	l.SetJSON(false)
	l.SetOutput(&buf)

	root := errors.New("connection refused")
	mid := zerr.Wrap(root, "failed to read module source")
	top := zerr.Wrap(mid, "dependency traversal failed")

	l.Error(top)

	out := buf.String()
	assert.Contains(t, out, "Error: dependency traversal failed")
	assert.Contains(t, out, "Caused by:")
	assert.Contains(t, out, "failed to read module source")
	assert.Contains(t, out, "connection refused")
}

func TestLogger_ErrorPlainError(t *testing.T) {
	var buf bytes.Buffer
	l := logger.New()
	l.SetJSON(false)
	l.SetOutput(&buf)

	l.Error(errors.New("boom"))

	out := buf.String()
	assert.Contains(t, out, "Error: boom")
	assert.NotContains(t, out, "Caused by:")
}

func TestLogger_ErrorJSONModeKeepsChainIntact(t *testing.T) {
	var buf bytes.Buffer
	l := logger.New()
	l.SetOutput(&buf)
	l.SetJSON(true)

	l.Error(zerr.Wrap(errors.New("boom"), "build failed"))

	out := buf.String()
	assert.Contains(t, out, "build failed")
	assert.Contains(t, out, "boom")
}
