package hmr

import (
	"context"
	"encoding/json"
	"net/http"
	"path/filepath"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/prajithkb/metro/internal/core/domain"
	"github.com/prajithkb/metro/internal/core/ports"
	"github.com/prajithkb/metro/internal/engine/delta"
	"go.trai.ch/zerr"
)

// Server upgrades live-update connections and binds each one to the shared
// delta calculator for its requested bundle.
type Server struct {
	bundler   *delta.Bundler
	config    *domain.Config
	logger    ports.Logger
	idFactory ports.ModuleIDFactory
	upgrader  websocket.Upgrader

	mu      sync.Mutex
	clients int
}

// Option customizes a Server.
type Option func(*Server)

// WithModuleIDFactory overrides the module id assignment for new
// connections.
func WithModuleIDFactory(factory ports.ModuleIDFactory) Option {
	return func(s *Server) {
		s.idFactory = factory
	}
}

// NewServer creates a live-update server for the given bundler and
// configuration.
func NewServer(bundler *delta.Bundler, config *domain.Config, logger ports.Logger, opts ...Option) *Server {
	s := &Server{
		bundler:   bundler,
		config:    config,
		logger:    logger,
		idFactory: DefaultModuleID,
		upgrader: websocket.Upgrader{
			// The dev server serves local tooling; cross-origin pages are
			// expected (the app itself is served from elsewhere).
			CheckOrigin: func(_ *http.Request) bool { return true },
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the websocket endpoint handler.
func (s *Server) Handler() http.Handler {
	return http.HandlerFunc(s.handleConnection)
}

// StatusHandler returns a handler reporting server health and the number of
// connected clients.
func (s *Server) StatusHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		s.mu.Lock()
		clients := s.clients
		s.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status":  "ok",
			"clients": clients,
		})
	})
}

func (s *Server) handleConnection(w http.ResponseWriter, r *http.Request) {
	options, err := s.parseOptions(r)
	if err != nil {
		s.logger.Error(err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error(zerr.Wrap(err, "websocket upgrade failed"))
		return
	}
	defer conn.Close()

	s.track(1)
	defer s.track(-1)
	s.logger.Info("live-update client connected")

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	// The client never sends application messages; the read loop exists to
	// notice disconnects.
	go func() {
		defer cancel()
		for {
			if _, _, readErr := conn.NextReader(); readErr != nil {
				return
			}
		}
	}()

	calc := s.bundler.Calculator(options)
	c := newClient(conn, calc, s.idFactory, s.logger)

	if err := c.baseline(ctx); err != nil {
		// Pending changes were restored; the next notification retries. The
		// connection stays open either way.
		s.logger.Error(zerr.Wrap(err, "initial build failed"))
	}

	c.run(ctx)
	s.logger.Info("live-update client disconnected")
}

// parseOptions derives the bundle options from the connection parameters.
// bundleEntry is required and resolves against the project root; platform
// must be one the config allows. Builds on this path are always dev,
// unminified and hot.
func (s *Server) parseOptions(r *http.Request) (domain.BuildOptions, error) {
	query := r.URL.Query()

	entry := query.Get("bundleEntry")
	if entry == "" {
		return domain.BuildOptions{}, domain.ErrMissingEntryParameter
	}
	if !filepath.IsAbs(entry) {
		entry = filepath.Join(s.config.Root, entry)
	}

	platform := query.Get("platform")
	if platform != "" && !s.config.AllowsPlatform(platform) {
		return domain.BuildOptions{}, zerr.With(domain.ErrUnknownPlatform, "platform", platform)
	}

	return domain.BuildOptions{
		EntryFile: entry,
		Platform:  platform,
		Dev:       true,
		Minify:    false,
		Hot:       true,
	}, nil
}

func (s *Server) track(n int) {
	s.mu.Lock()
	s.clients += n
	s.mu.Unlock()
}
