package transformer_test

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/prajithkb/metro/internal/adapters/transformer"
	"github.com/prajithkb/metro/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (nopLogger) Info(string)         {}
func (nopLogger) Warn(string)         {}
func (nopLogger) Error(error)         {}
func (nopLogger) SetOutput(io.Writer) {}
func (nopLogger) SetJSON(bool)        {}

// recordingLogger captures warnings for assertions.
type recordingLogger struct {
	nopLogger
	warnings []string
}

func (l *recordingLogger) Warn(msg string) {
	l.warnings = append(l.warnings, msg)
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestTransformFile_ExtractsDependenciesInSourceOrder(t *testing.T) {
	root := t.TempDir()
	entry := filepath.Join(root, "entry.js")
	writeFile(t, entry, `
import b from './b';
const a = require('./a');
import './b';
`)
	writeFile(t, filepath.Join(root, "a.js"), "module.exports = 1;\n")
	writeFile(t, filepath.Join(root, "b.js"), "export default 2;\n")

	tr := transformer.New(root, nopLogger{})
	res, err := tr.TransformFile(context.Background(), entry, domain.TransformOptions{Dev: true})
	require.NoError(t, err)

	// Source order, duplicate specifiers collapsed to the first occurrence.
	require.Len(t, res.Dependencies, 2)
	assert.Equal(t, "./b", res.Dependencies[0].Specifier)
	assert.Equal(t, filepath.Join(root, "b.js"), res.Dependencies[0].Path)
	assert.Equal(t, "./a", res.Dependencies[1].Specifier)
	assert.Equal(t, filepath.Join(root, "a.js"), res.Dependencies[1].Path)

	assert.Equal(t, "js/module", res.Output.Type)
	assert.Contains(t, res.Output.Code, "require('./a')")
	assert.Equal(t, "file://"+entry, res.Output.SourceURL)
}

func TestTransformFile_ResolvesBareSpecifierFromNodeModules(t *testing.T) {
	root := t.TempDir()
	entry := filepath.Join(root, "entry.js")
	writeFile(t, entry, "const lib = require('somelib');\n")
	libIndex := filepath.Join(root, "node_modules", "somelib", "index.js")
	writeFile(t, libIndex, "module.exports = {};\n")

	tr := transformer.New(root, nopLogger{})
	res, err := tr.TransformFile(context.Background(), entry, domain.TransformOptions{})
	require.NoError(t, err)

	require.Len(t, res.Dependencies, 1)
	assert.Equal(t, libIndex, res.Dependencies[0].Path)
}

func TestTransformFile_UnresolvableDependency(t *testing.T) {
	root := t.TempDir()
	entry := filepath.Join(root, "entry.js")
	writeFile(t, entry, "require('./missing');\n")

	log := &recordingLogger{}
	tr := transformer.New(root, log)
	_, err := tr.TransformFile(context.Background(), entry, domain.TransformOptions{})
	require.Error(t, err)

	var transformErr *domain.TransformError
	require.True(t, errors.As(err, &transformErr))
	assert.Equal(t, "ResolutionError", transformErr.Type)
	assert.Contains(t, transformErr.Message, "./missing")
	assert.Equal(t, entry, transformErr.Filename)

	// The failure is also surfaced on the dev server console.
	require.Len(t, log.warnings, 1)
	assert.Contains(t, log.warnings[0], "./missing")
}

func TestTransformFile_MissingModule(t *testing.T) {
	root := t.TempDir()
	tr := transformer.New(root, nopLogger{})

	_, err := tr.TransformFile(context.Background(), filepath.Join(root, "gone.js"), domain.TransformOptions{})
	require.Error(t, err)

	var transformErr *domain.TransformError
	require.True(t, errors.As(err, &transformErr))
	assert.Equal(t, "TransformError", transformErr.Type)
}

func TestTransformFile_SourceMapAnnotation(t *testing.T) {
	root := t.TempDir()
	entry := filepath.Join(root, "entry.js")
	writeFile(t, entry, "const x = 1;\n")
	writeFile(t, entry+".map", "{}")

	tr := transformer.New(root, nopLogger{})
	res, err := tr.TransformFile(context.Background(), entry, domain.TransformOptions{})
	require.NoError(t, err)

	assert.Equal(t, "file://"+entry+".map", res.Output.SourceMappingURL)
}
