// Package serverrun hosts the shared server entrypoint used by the CLI.
package serverrun

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	cfgpkg "github.com/cezarfuhr/primoia-log-watcher/internal/config"
	"github.com/cezarfuhr/primoia-log-watcher/internal/runtime"
	httpserver "github.com/cezarfuhr/primoia-log-watcher/internal/server/http"
	logpkg "github.com/cezarfuhr/primoia-log-watcher/pkg/log"
)

// Options control a server run.
type Options struct {
	Config cfgpkg.Config
}

// Run starts the HTTP server and blocks until ctx is cancelled or the
// server fails.
func Run(ctx context.Context, opts Options) error {
	// Layer a local signal context over the provided one so callers
	// without signal handling still shut down cleanly.
	sctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	procLogger, err := logpkg.ApplyConfig(&logpkg.Config{
		Level:  opts.Config.LogLevel,
		Format: opts.Config.LogFormat,
	})
	if err != nil {
		procLogger = logpkg.NewLogger(
			logpkg.WithLevel(logpkg.InfoLevel),
			logpkg.WithFormatter(&logpkg.TextFormatter{}),
		)
	}

	rt, err := runtime.Open(runtime.Options{Config: opts.Config, Logger: procLogger})
	if err != nil {
		return err
	}
	defer rt.Close()

	procLogger.Info("starting log-watcher server",
		logpkg.Str("addr", opts.Config.ListenAddr()),
		logpkg.Str("level", opts.Config.LogLevel),
		logpkg.Str("format", opts.Config.LogFormat),
		logpkg.Int("bootstrap_services", len(opts.Config.BootstrapServices)))

	hsrv := httpserver.New(rt)
	defer hsrv.Close()
	return hsrv.ListenAndServe(sctx, opts.Config.ListenAddr())
}
