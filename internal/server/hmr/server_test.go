package hmr_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prajithkb/metro/internal/adapters/telemetry"
	"github.com/prajithkb/metro/internal/core/domain"
	"github.com/prajithkb/metro/internal/core/ports"
	"github.com/prajithkb/metro/internal/engine/delta"
	"github.com/prajithkb/metro/internal/server/hmr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (nopLogger) Info(string)         {}
func (nopLogger) Warn(string)         {}
func (nopLogger) Error(error)         {}
func (nopLogger) SetOutput(io.Writer) {}
func (nopLogger) SetJSON(bool)        {}

type staticTransformer struct {
	code string
}

func (f *staticTransformer) TransformFile(_ context.Context, path string, _ domain.TransformOptions) (*domain.TransformResult, error) {
	return &domain.TransformResult{
		Output: domain.Output{Code: f.code + " " + path, Type: "js/module"},
	}, nil
}

type passthroughSource struct{}

func (passthroughSource) TransformOptionsFor(_ context.Context, _ string, base domain.TransformOptions) (domain.TransformOptions, error) {
	return base, nil
}

type wireMessage struct {
	Type string          `json:"type"`
	Body json.RawMessage `json:"body"`
}

func newTestServer(t *testing.T) (*httptest.Server, *delta.Bundler) {
	t.Helper()

	cfg := &domain.Config{Root: "/project", Platforms: []string{"ios"}}
	bundler := delta.NewBundler(&staticTransformer{code: "code of"}, passthroughSource{}, telemetry.NewNoOpTracer(), nopLogger{})
	t.Cleanup(bundler.End)

	server := hmr.NewServer(bundler, cfg, nopLogger{}, hmr.WithModuleIDFactory(testID))

	mux := http.NewServeMux()
	mux.Handle("/hot", server.Handler())
	mux.Handle("/status", server.StatusHandler())

	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return ts, bundler
}

func wsURL(ts *httptest.Server, query string) string {
	return "ws" + strings.TrimPrefix(ts.URL, "http") + "/hot?" + query
}

func TestServer_MissingBundleEntry(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/hot")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "missing bundleEntry parameter")
}

func TestServer_UnknownPlatform(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/hot?bundleEntry=EntryPoint.js&platform=windows")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestServer_Status(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/status")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var status map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&status))
	assert.Equal(t, "ok", status["status"])
}

func TestServer_PushesUpdateEnvelopeOverWebsocket(t *testing.T) {
	ts, bundler := newTestServer(t)

	conn, resp, err := websocket.DefaultDialer.Dial(wsURL(ts, "bundleEntry=EntryPoint.js&platform=ios"), nil)
	require.NoError(t, err)
	if resp != nil {
		defer resp.Body.Close()
	}
	defer conn.Close()

	// The subscription is registered asynchronously after the baseline
	// build; keep nudging until the first envelope lands.
	done := make(chan struct{})
	defer close(done)
	go func() {
		ticker := time.NewTicker(20 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				bundler.OnFileChange(ports.WatchEvent{Path: "/project/EntryPoint.js", Operation: ports.OpWrite})
			}
		}
	}()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))

	var start, middle, finish wireMessage
	require.NoError(t, conn.ReadJSON(&start))
	require.NoError(t, conn.ReadJSON(&middle))
	require.NoError(t, conn.ReadJSON(&finish))

	assert.Equal(t, "update-start", start.Type)
	assert.Equal(t, "update", middle.Type)
	assert.Equal(t, "update-done", finish.Type)

	var body struct {
		Modules []struct {
			ID   string `json:"id"`
			Code string `json:"code"`
		} `json:"modules"`
		SourceURLs        map[string]string `json:"sourceURLs"`
		SourceMappingURLs map[string]string `json:"sourceMappingURLs"`
	}
	require.NoError(t, json.Unmarshal(middle.Body, &body))
	require.Len(t, body.Modules, 1)
	assert.Equal(t, "/project/EntryPoint.js-id", body.Modules[0].ID)
	assert.Contains(t, body.Modules[0].Code, "__accept(")
	assert.NotNil(t, body.SourceURLs)
}
