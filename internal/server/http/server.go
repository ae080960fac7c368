// Package httpserver exposes the ingestion, stats, and admin surface
// over HTTP.
package httpserver

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/cezarfuhr/primoia-log-watcher/internal/runtime"
	"github.com/cezarfuhr/primoia-log-watcher/internal/server/http/controllers"
)

type Server struct {
	rt  *runtime.Runtime
	srv *http.Server
	lis net.Listener
}

func New(rt *runtime.Runtime) *Server {
	mux := http.NewServeMux()
	s := &Server{rt: rt, srv: &http.Server{Handler: cors(decompress(mux))}}

	controllers.NewGeneralController(rt).RegisterRoutes(mux)
	controllers.NewIngestionController(rt).RegisterRoutes(mux)
	controllers.NewStatsController(rt).RegisterRoutes(mux)
	controllers.NewAdminController(rt).RegisterRoutes(mux)
	return s
}

// Handler returns the full middleware-wrapped handler. Exposed for
// in-process test servers.
func (s *Server) Handler() http.Handler { return s.srv.Handler }

func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	l, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	s.lis = l
	errCh := make(chan error, 1)
	go func() { errCh <- s.srv.Serve(l) }()
	select {
	case <-ctx.Done():
		cctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.srv.Shutdown(cctx)
		return nil
	case err := <-errCh:
		return err
	}
}

func (s *Server) Close() {
	if s.lis != nil {
		_ = s.lis.Close()
	}
}
