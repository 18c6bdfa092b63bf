package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/getmockd/mockgate/pkg/mock"
)

// ErrServerClosed is returned by Start when its context is already done.
var ErrServerClosed = errors.New("server closed")

// Server serves a Registry over HTTP on an ephemeral local address.
type Server struct {
	registry *Registry
	listener net.Listener
	http     *http.Server
	log      *slog.Logger

	done     chan struct{}
	serveErr error

	shutdownOnce sync.Once
	shutdownErr  error
}

// Start binds the listen address and begins serving in the background.
// Cancelling ctx shuts the server down gracefully, the same as Shutdown.
func Start(ctx context.Context, opts ...Option) (*Server, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrServerClosed, err)
	}

	o := newOptions(opts)
	reg := o.registry
	if reg == nil {
		reg = NewRegistry(WithRegistryLogger(o.log), WithRegistryMetrics(o.metrics))
	}

	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", o.addr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", o.addr, err)
	}

	s := &Server{
		registry: reg,
		listener: ln,
		log:      o.log,
		done:     make(chan struct{}),
	}
	s.http = &http.Server{
		Handler:           NewHandler(reg, opts...),
		ReadHeaderTimeout: 30 * time.Second,
	}

	go s.serve()
	go func() {
		select {
		case <-ctx.Done():
			_ = s.Shutdown(context.Background())
		case <-s.done:
		}
	}()

	s.log.Info("mock server listening", "addr", s.Addr())
	return s, nil
}

func (s *Server) serve() {
	defer close(s.done)
	if err := s.http.Serve(s.listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		s.log.Error("mock server stopped", "error", err)
		s.serveErr = err
	}
}

// Addr returns the bound address, e.g. "127.0.0.1:53412".
func (s *Server) Addr() string {
	return s.listener.Addr().String()
}

// URL returns an absolute URL for path on this server.
func (s *Server) URL(path string) string {
	return "http://" + s.Addr() + "/" + strings.TrimPrefix(path, "/")
}

// Registry returns the registry this server dispatches to.
func (s *Server) Registry() *Registry {
	return s.registry
}

// Register appends h to the handler chain and returns its ID.
func (s *Server) Register(h mock.Handler) string {
	return s.registry.Register(h)
}

// Remove drops the handler with the given ID.
func (s *Server) Remove(id string) bool {
	return s.registry.Remove(id)
}

// Shutdown stops accepting connections and waits for in-flight requests to
// finish or for ctx to expire. Only the first call does anything; later
// calls return the first call's result.
func (s *Server) Shutdown(ctx context.Context) error {
	s.shutdownOnce.Do(func() {
		select {
		case <-s.done:
			return
		default:
		}
		s.log.Info("mock server shutting down", "addr", s.Addr())
		s.shutdownErr = s.http.Shutdown(ctx)
		if s.shutdownErr == nil {
			<-s.done
		}
	})
	return s.shutdownErr
}

// Done is closed once the server has stopped serving.
func (s *Server) Done() <-chan struct{} {
	return s.done
}

// Wait blocks until the server stops and returns the serve error, if any.
// A graceful shutdown returns nil.
func (s *Server) Wait() error {
	<-s.done
	return s.serveErr
}
