// Package app implements the application layer for metro.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prajithkb/metro/internal/adapters/config"
	"github.com/prajithkb/metro/internal/adapters/telemetry"
	"github.com/prajithkb/metro/internal/adapters/transformer"
	"github.com/prajithkb/metro/internal/adapters/watcher"
	"github.com/prajithkb/metro/internal/core/ports"
	"github.com/prajithkb/metro/internal/engine/delta"
	"github.com/prajithkb/metro/internal/server/hmr"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 5 * time.Second

// App represents the main application logic.
type App struct {
	configLoader ports.ConfigLoader
	watcher      ports.Watcher
	tracer       ports.Tracer
	logger       ports.Logger
}

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	w ports.Watcher,
	tracer ports.Tracer,
	log ports.Logger,
) *App {
	return &App{
		configLoader: loader,
		watcher:      w,
		tracer:       tracer,
		logger:       log,
	}
}

// ServeOptions configuration for the Serve method.
type ServeOptions struct {
	// Addr is the listen address of the dev server.
	Addr string
	// Root is the directory the config discovery starts from.
	Root string
	// JSONLogs switches the logger to machine-readable output.
	JSONLogs bool
}

// Serve runs the dev server until the context is canceled: it loads the
// configuration, watches the project root and pushes live updates to
// connected clients.
func (a *App) Serve(ctx context.Context, opts ServeOptions) error {
	if opts.JSONLogs {
		a.logger.SetJSON(true)
	}

	root := opts.Root
	if root == "" {
		root = "."
	}

	cfg, err := a.configLoader.Load(root)
	if err != nil {
		return zerr.Wrap(err, "failed to load configuration")
	}

	setupOTel(telemetry.NewBridge(a.logger))

	trans := transformer.New(cfg.Root, a.logger)
	bundler := delta.NewBundler(trans, config.NewSource(cfg), a.tracer, a.logger)
	defer bundler.End()

	server := hmr.NewServer(bundler, cfg, a.logger)
	mux := http.NewServeMux()
	mux.Handle("/hot", server.Handler())
	mux.Handle("/status", server.StatusHandler())

	httpServer := &http.Server{
		Addr:              opts.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	debouncer := watcher.NewDebouncer(watcher.DefaultDebounceWindow, func(events []ports.WatchEvent) {
		bundler.OnFileChange(events...)
	})

	if err := a.watcher.Start(ctx, cfg.Root); err != nil {
		return zerr.Wrap(err, "failed to start file watcher")
	}
	defer func() { _ = a.watcher.Stop() }()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		for ev := range a.watcher.Events() {
			debouncer.Add(ev)
		}
		return nil
	})

	g.Go(func() error {
		a.logger.Info(fmt.Sprintf("dev server listening on %s", opts.Addr))
		if serveErr := httpServer.ListenAndServe(); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			return zerr.Wrap(serveErr, "dev server failed")
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		debouncer.Flush()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// setupOTel configures the OpenTelemetry SDK with the logger bridge.
func setupOTel(bridge *telemetry.Bridge) {
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSpanProcessor(bridge),
	)
	otel.SetTracerProvider(tp)
}
