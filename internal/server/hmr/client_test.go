package hmr

import (
	"context"
	"io"
	"testing"

	"github.com/prajithkb/metro/internal/adapters/telemetry"
	"github.com/prajithkb/metro/internal/core/domain"
	"github.com/prajithkb/metro/internal/core/ports"
	"github.com/prajithkb/metro/internal/engine/delta"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (nopLogger) Info(string)         {}
func (nopLogger) Warn(string)         {}
func (nopLogger) Error(error)         {}
func (nopLogger) SetOutput(io.Writer) {}
func (nopLogger) SetJSON(bool)        {}

// tableTransformer resolves modules from an in-memory table.
type tableTransformer struct {
	deps map[string][]domain.Dependency
	code map[string]string
	fail map[string]error
}

func (f *tableTransformer) TransformFile(_ context.Context, path string, _ domain.TransformOptions) (*domain.TransformResult, error) {
	if err, failed := f.fail[path]; failed {
		return nil, err
	}
	code, known := f.code[path]
	if !known {
		code = "code of " + path
	}
	return &domain.TransformResult{
		Dependencies: f.deps[path],
		Output:       domain.Output{Code: code, Type: "js/module"},
	}, nil
}

// passthroughSource returns the base options unchanged.
type passthroughSource struct{}

func (passthroughSource) TransformOptionsFor(_ context.Context, _ string, base domain.TransformOptions) (domain.TransformOptions, error) {
	return base, nil
}

// recordingConn captures every message written to the connection.
type recordingConn struct {
	messages []message
}

func (c *recordingConn) WriteJSON(v any) error {
	c.messages = append(c.messages, v.(message))
	return nil
}

func idFor(path string) string { return path + "-id" }

func newTestClient(t *testing.T, transformer ports.Transformer) (*client, *recordingConn) {
	t.Helper()
	calc := delta.NewCalculator(
		domain.BuildOptions{EntryFile: "/project/EntryPoint.js", Dev: true, Hot: true},
		transformer,
		passthroughSource{},
		telemetry.NewNoOpTracer(),
		nopLogger{},
	)
	conn := &recordingConn{}
	return newClient(conn, calc, idFor, nopLogger{}), conn
}

func messageTypes(messages []message) []string {
	out := make([]string, 0, len(messages))
	for _, m := range messages {
		out = append(out, m.Type)
	}
	return out
}

func TestClient_BaselineSendsNoMessages(t *testing.T) {
	ft := &tableTransformer{}
	c, conn := newTestClient(t, ft)

	require.NoError(t, c.baseline(context.Background()))
	assert.Empty(t, conn.messages)
}

func TestClient_UpdateEnvelopeOrder(t *testing.T) {
	ft := &tableTransformer{
		deps: map[string][]domain.Dependency{
			"/project/EntryPoint.js": {{Specifier: "/hi", Path: "/hi"}},
		},
		code: map[string]string{"/hi": "console.log('hi');"},
	}
	c, conn := newTestClient(t, ft)
	require.NoError(t, c.baseline(context.Background()))

	c.calc.OnFileChange(ports.WatchEvent{Path: "/hi", Operation: ports.OpWrite})
	require.NoError(t, c.pushUpdate(context.Background()))

	require.Equal(t, []string{"update-start", "update", "update-done"}, messageTypes(conn.messages))

	body, ok := conn.messages[1].Body.(updateBody)
	require.True(t, ok)
	require.Len(t, body.Modules, 1)
	assert.Equal(t, "/hi-id", body.Modules[0].ID)
	assert.Contains(t, body.Modules[0].Code, "console.log('hi');")
	assert.Contains(t, body.Modules[0].Code, `__accept("/hi-id"`)
	assert.NotNil(t, body.SourceURLs)
	assert.NotNil(t, body.SourceMappingURLs)
}

func TestClient_ErrorKeepsEnvelope(t *testing.T) {
	ft := &tableTransformer{fail: map[string]error{}}
	c, conn := newTestClient(t, ft)
	require.NoError(t, c.baseline(context.Background()))

	ft.fail["/project/EntryPoint.js"] = &domain.TransformError{
		Type:       "TransformError",
		Message:    "SyntaxError: unexpected token",
		Filename:   "EntryPoint.js",
		LineNumber: 123,
	}
	c.calc.OnFileChange(ports.WatchEvent{Path: "/project/EntryPoint.js", Operation: ports.OpWrite})
	require.NoError(t, c.pushUpdate(context.Background()))

	require.Equal(t, []string{"update-start", "error", "update-done"}, messageTypes(conn.messages))

	body, ok := conn.messages[1].Body.(errorBody)
	require.True(t, ok)
	assert.Equal(t, "TransformError", body.Type)
	assert.Equal(t, "SyntaxError: unexpected token", body.Message)
	require.Len(t, body.Errors, 1)
	assert.Equal(t, "EntryPoint.js", body.Errors[0].Filename)
	assert.Equal(t, 123, body.Errors[0].LineNumber)
}

func TestClient_EmptyDeltaStillSendsEnvelope(t *testing.T) {
	ft := &tableTransformer{}
	c, conn := newTestClient(t, ft)
	require.NoError(t, c.baseline(context.Background()))

	require.NoError(t, c.pushUpdate(context.Background()))

	require.Equal(t, []string{"update-start", "update", "update-done"}, messageTypes(conn.messages))
	body, ok := conn.messages[1].Body.(updateBody)
	require.True(t, ok)
	assert.Empty(t, body.Modules)
}

func TestClient_NotifyCoalesces(t *testing.T) {
	ft := &tableTransformer{}
	c, _ := newTestClient(t, ft)

	c.notifyChange()
	c.notifyChange()
	c.notifyChange()

	// Only one signal is buffered.
	<-c.notify
	select {
	case <-c.notify:
		t.Fatal("expected a single buffered notification")
	default:
	}
}
