package engine

import (
	"log/slog"

	"github.com/getmockd/mockgate/pkg/logging"
	"github.com/getmockd/mockgate/pkg/metrics"
)

// DefaultAddr binds an ephemeral port on the loopback interface.
const DefaultAddr = "127.0.0.1:0"

type options struct {
	addr       string
	log        *slog.Logger
	metrics    *metrics.Metrics
	textBodies bool
	registry   *Registry
}

// Option is a functional option for configuring a Server.
type Option func(*options)

// WithAddr sets the listen address. Defaults to DefaultAddr.
func WithAddr(addr string) Option {
	return func(o *options) {
		if addr != "" {
			o.addr = addr
		}
	}
}

// WithLogger sets the operational logger.
func WithLogger(log *slog.Logger) Option {
	return func(o *options) {
		if log != nil {
			o.log = log
		}
	}
}

// WithMetrics records dispatch outcomes on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(o *options) {
		o.metrics = m
	}
}

// WithTextBodies decodes request bodies that are valid UTF-8 and not JSON
// as Text instead of Bytes.
func WithTextBodies(enabled bool) Option {
	return func(o *options) {
		o.textBodies = enabled
	}
}

// WithRegistry serves an existing registry instead of a new one.
func WithRegistry(reg *Registry) Option {
	return func(o *options) {
		o.registry = reg
	}
}

func newOptions(opts []Option) options {
	o := options{
		addr: DefaultAddr,
		log:  logging.Nop(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
