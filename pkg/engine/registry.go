package engine

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/getmockd/mockgate/pkg/logging"
	"github.com/getmockd/mockgate/pkg/metrics"
	"github.com/getmockd/mockgate/pkg/mock"
	"github.com/getmockd/mockgate/pkg/model"
)

// Entry is a registered handler and the ID Register assigned to it.
type Entry struct {
	ID      string
	Handler mock.Handler
}

// Match describes the handler that answered a dispatch.
type Match struct {
	Body      model.Body
	HandlerID string
	Kind      string
}

// Registry is an ordered collection of handlers. Order is match priority:
// first registered, first tried.
//
// The entry slice is never modified in place; every mutation installs a new
// slice, so a snapshot stays valid without holding the lock.
type Registry struct {
	mu      sync.RWMutex
	entries []Entry

	log     *slog.Logger
	metrics *metrics.Metrics
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithRegistryLogger sets the logger used for dispatch misses.
func WithRegistryLogger(log *slog.Logger) RegistryOption {
	return func(r *Registry) {
		if log != nil {
			r.log = log
		}
	}
}

// WithRegistryMetrics records dispatch outcomes on m.
func WithRegistryMetrics(m *metrics.Metrics) RegistryOption {
	return func(r *Registry) {
		r.metrics = m
	}
}

// NewRegistry creates an empty registry.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{log: logging.Nop()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register appends h to the end of the priority order and returns its ID.
// It is safe to call while requests are being served.
func (r *Registry) Register(h mock.Handler) string {
	id := uuid.NewString()

	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(slices.Clip(r.entries), Entry{ID: id, Handler: h})
	return id
}

// Remove drops the handler with the given ID. The survivors keep their
// relative order. It reports whether a handler was removed.
func (r *Registry) Remove(id string) bool {
	removed := false
	r.Retain(func(e Entry) bool {
		if e.ID == id {
			removed = true
			return false
		}
		return true
	})
	return removed
}

// Retain keeps only the entries for which keep returns true, in order.
// keep runs under the registry lock and must not call back into the registry.
func (r *Registry) Retain(keep func(Entry) bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := make([]Entry, 0, len(r.entries))
	for _, e := range r.entries {
		if keep(e) {
			kept = append(kept, e)
		}
	}
	r.entries = kept
}

// Len returns the number of registered handlers.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Snapshot returns the current entries in priority order. The returned slice
// must not be modified.
func (r *Registry) Snapshot() []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.entries
}

// Dispatch tries each handler of the current snapshot in order, waiting for
// each before trying the next, and returns the first answer. It reports
// false when every handler declines or ctx ends before one answers; only
// the former counts as a miss. No lock is held while handlers run.
func (r *Registry) Dispatch(ctx context.Context, req model.Request) (Match, bool) {
	start := time.Now()

	for _, e := range r.Snapshot() {
		if ctx.Err() != nil {
			break
		}
		body, ok := e.Handler.Attempt(ctx, req.Clone())
		if !ok {
			continue
		}
		kind := mock.KindOf(e.Handler)
		r.metrics.ObserveDispatch(metrics.OutcomeMatched, kind, time.Since(start))
		return Match{Body: body, HandlerID: e.ID, Kind: kind}, true
	}

	if err := ctx.Err(); err != nil {
		r.metrics.ObserveDispatch(metrics.OutcomeCancelled, "none", time.Since(start))
		r.log.Debug("dispatch abandoned",
			"method", req.Method,
			"path", req.Path,
			"error", err,
		)
		return Match{}, false
	}

	r.metrics.ObserveDispatch(metrics.OutcomeNotFound, "none", time.Since(start))
	r.log.Warn("no handler matched",
		"method", req.Method,
		"path", req.Path,
		"query", queryOf(req),
		"body", bodyKindOf(req),
	)
	return Match{}, false
}

func queryOf(req model.Request) string {
	q, _ := req.Query()
	return q
}

func bodyKindOf(req model.Request) string {
	if req.Body == nil {
		return "none"
	}
	return string(req.Body.Kind())
}
