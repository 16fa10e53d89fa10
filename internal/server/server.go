// Package server exposes the inspector, the host bridge, metrics and the
// embedded frontend on one HTTP listener.
package server

import (
	"context"
	"errors"
	"io/fs"
	"net"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// Routes are the handlers mounted by the server. Nil handlers are not
// mounted.
type Routes struct {
	Inspector http.Handler // /ws
	Bridge    http.Handler // /bridge
	Metrics   http.Handler // /metrics
	Frontend  fs.FS        // everything else
}

type Server struct {
	addr       string
	handler    http.Handler
	log        zerolog.Logger
	httpServer *http.Server
}

func New(addr string, routes Routes, log zerolog.Logger) (*Server, error) {
	mux := http.NewServeMux()
	if routes.Inspector != nil {
		mux.Handle("/ws", routes.Inspector)
	}
	if routes.Bridge != nil {
		mux.Handle("/bridge", routes.Bridge)
	}
	if routes.Metrics != nil {
		mux.Handle("/metrics", routes.Metrics)
	}
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	if routes.Frontend != nil {
		st, err := newStatic(routes.Frontend)
		if err != nil {
			return nil, err
		}
		mux.Handle("/", st)
	}

	return &Server{
		addr:    addr,
		handler: mux,
		log:     log,
		httpServer: &http.Server{
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		},
	}, nil
}

func (s *Server) Handler() http.Handler { return s.handler }

// ListenAndServe blocks until Shutdown. It returns nil after a clean
// shutdown.
func (s *Server) ListenAndServe() error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	return s.Serve(ln)
}

func (s *Server) Serve(ln net.Listener) error {
	s.log.Info().Str("addr", ln.Addr().String()).Msg("http server listening")
	if err := s.httpServer.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("shutting down http server")
	return s.httpServer.Shutdown(ctx)
}
