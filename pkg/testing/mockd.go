package testing

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/getmockd/mockgate/pkg/engine"
	"github.com/getmockd/mockgate/pkg/mock"
	"github.com/getmockd/mockgate/pkg/model"
	"github.com/getmockd/mockgate/pkg/proxy"
	"github.com/getmockd/mockgate/pkg/recording"
)

// stopTimeout bounds how long Stop waits for in-flight requests.
const stopTimeout = 30 * time.Second

// MockServer is a test helper for running a mock server in tests.
// It starts immediately and stops when the test completes.
type MockServer struct {
	t      testing.TB
	server *engine.Server

	mu       sync.Mutex
	gateways []*proxy.Gateway
	requests []model.Request
	stopped  bool
}

// New starts a mock server on an ephemeral loopback port. The server is
// stopped, and its gateways closed, when the test completes.
func New(t testing.TB, opts ...engine.Option) *MockServer {
	t.Helper()

	srv, err := engine.Start(context.Background(), opts...)
	if err != nil {
		t.Fatalf("failed to start mock server: %v", err)
	}
	m := &MockServer{t: t, server: srv}

	// The recorder sees every request and never answers, so the rest of the
	// chain behaves as if it were not there.
	srv.Register(mock.Func(func(_ context.Context, req model.Request) (model.Body, bool) {
		m.mu.Lock()
		m.requests = append(m.requests, req)
		m.mu.Unlock()
		return model.Body{}, false
	}))

	t.Cleanup(m.Stop)
	return m
}

// URL returns an absolute URL for path on the mock server.
func (m *MockServer) URL(path string) string {
	return m.server.URL(path)
}

// Register appends any handler to the chain and returns its ID.
func (m *MockServer) Register(h mock.Handler) string {
	return m.server.Register(h)
}

// Handle registers fn as a closure handler.
func (m *MockServer) Handle(fn mock.Func) string {
	return m.server.Register(mock.NewClosure(fn))
}

// Route answers method and path with body.
func (m *MockServer) Route(method model.Method, path string, body model.Body) string {
	return m.server.Register(mock.Route(method, path, body))
}

// Replay registers a replay handler loaded from path. A missing or
// malformed file fails the test immediately.
func (m *MockServer) Replay(path string) string {
	m.t.Helper()

	r, err := recording.LoadReplayer(path)
	if err != nil {
		m.t.Fatalf("failed to load replays: %v", err)
	}
	return m.server.Register(r)
}

// ReplayEntries registers a replay handler over the given entries.
func (m *MockServer) ReplayEntries(replays ...model.Replay) string {
	return m.server.Register(recording.NewReplayer(replays))
}

// Gateway registers a capturing gateway that forwards requests under prefix
// to upstream. Captures are written to output when the server stops; an
// empty output disables persistence.
func (m *MockServer) Gateway(prefix, upstream, output string) *proxy.Gateway {
	m.t.Helper()

	gw, err := proxy.New(proxy.Options{Prefix: prefix, Upstream: upstream, Output: output})
	if err != nil {
		m.t.Fatalf("failed to create gateway: %v", err)
	}

	m.mu.Lock()
	m.gateways = append(m.gateways, gw)
	m.mu.Unlock()

	m.server.Register(gw)
	return gw
}

// Remove drops a handler registered earlier.
func (m *MockServer) Remove(id string) bool {
	return m.server.Remove(id)
}

// Stop drains in-flight requests, then closes every gateway so captures are
// written. It is called automatically at test cleanup and is safe to call
// more than once.
func (m *MockServer) Stop() {
	m.t.Helper()

	m.mu.Lock()
	if m.stopped {
		m.mu.Unlock()
		return
	}
	m.stopped = true
	gateways := m.gateways
	m.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), stopTimeout)
	defer cancel()

	var errs []error
	if err := m.server.Shutdown(ctx); err != nil {
		errs = append(errs, err)
	}
	for _, gw := range gateways {
		if err := gw.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		m.t.Errorf("failed to stop mock server: %v", err)
	}
}

// Requests returns every request the server received, oldest first.
func (m *MockServer) Requests() []model.Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.Request(nil), m.requests...)
}

// Client returns an http.Client for talking to the mock server.
func (m *MockServer) Client() *http.Client {
	return http.DefaultClient
}

// Server returns the underlying engine.Server for advanced use cases.
// Most tests should not need this.
func (m *MockServer) Server() *engine.Server {
	return m.server
}
