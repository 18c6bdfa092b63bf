// Package proxy provides the capturing gateway: a handler that forwards
// requests under a path prefix to a real upstream, records each successful
// exchange, and writes the captures to a replay file when closed.
package proxy

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/getmockd/mockgate/pkg/logging"
	"github.com/getmockd/mockgate/pkg/metrics"
	"github.com/getmockd/mockgate/pkg/model"
	"github.com/getmockd/mockgate/pkg/recording"
)

const (
	// DefaultMaxBodySize is the default maximum upstream body size to read (10MB).
	DefaultMaxBodySize = 10 * 1024 * 1024

	// DefaultTimeout bounds a single upstream round trip.
	DefaultTimeout = 5 * time.Minute
)

var (
	// ErrInvalidUpstream is returned by New for an unusable upstream URL.
	ErrInvalidUpstream = errors.New("invalid upstream")

	// ErrUpstreamStatus marks a non-2xx upstream response.
	ErrUpstreamStatus = errors.New("upstream returned non-2xx status")

	// ErrUpstreamTooLarge marks an upstream body over DefaultMaxBodySize.
	ErrUpstreamTooLarge = errors.New("upstream body too large")
)

// Options configures a Gateway. Options are fixed at construction.
type Options struct {
	// Prefix is the path prefix this gateway intercepts. It is stripped
	// before forwarding. Empty intercepts everything.
	Prefix string
	// Upstream is the base URL requests are forwarded to, e.g.
	// "https://jsonplaceholder.typicode.com".
	Upstream string
	// Output is the replay file written on Close. Empty disables persistence.
	Output string
	// Client sends upstream requests. Defaults to a new http.Client.
	Client *http.Client
	// Timeout bounds each upstream round trip. Defaults to DefaultTimeout.
	Timeout time.Duration
	// Filter selects which exchanges are captured (nil = all).
	Filter *FilterConfig
	// Logger for gateway activity (nil = no logging).
	Logger *slog.Logger
	// Metrics records upstream calls and captures (nil = none).
	Metrics *metrics.Metrics
}

// Gateway is a capturing proxy handler.
type Gateway struct {
	prefix   string
	upstream string
	output   string
	client   *http.Client
	timeout  time.Duration
	filter   *FilterConfig
	log      *slog.Logger
	metrics  *metrics.Metrics
	store    *recording.Store

	closeMu sync.Mutex
	closed  bool
}

// New creates a Gateway with the given options.
func New(opts Options) (*Gateway, error) {
	u, err := url.Parse(opts.Upstream)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidUpstream, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: %q must be an absolute http(s) URL", ErrInvalidUpstream, opts.Upstream)
	}

	filter := opts.Filter
	if filter == nil {
		filter = NewFilterConfig()
	}
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	client := opts.Client
	if client == nil {
		client = &http.Client{}
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	log := opts.Logger
	if log == nil {
		log = logging.Nop()
	}

	return &Gateway{
		prefix:   opts.Prefix,
		upstream: opts.Upstream,
		output:   opts.Output,
		client:   client,
		timeout:  timeout,
		filter:   filter,
		log:      log.With("gateway", opts.Upstream),
		metrics:  opts.Metrics,
		store:    recording.NewStore(),
	}, nil
}

// Store returns the gateway's capture store.
func (g *Gateway) Store() *recording.Store {
	return g.store
}

// Kind implements mock.Kinder.
func (g *Gateway) Kind() string { return "gateway" }

// Attempt implements mock.Handler. Requests outside the prefix, requests
// with methods the gateway does not forward, and every upstream failure
// decline, letting later handlers answer.
func (g *Gateway) Attempt(ctx context.Context, req model.Request) (model.Body, bool) {
	rest, ok := strings.CutPrefix(req.Path, g.prefix)
	if !ok {
		return model.Body{}, false
	}

	method, ok := outboundMethod(req.Method)
	if !ok {
		g.metrics.ObserveUpstream(metrics.UpstreamRefused, 0)
		g.log.Debug("method not forwarded", "method", req.Method, "path", req.Path)
		return model.Body{}, false
	}

	target := g.upstream + rest
	if q, ok := req.Query(); ok && q != "" {
		target += "?" + q
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	start := time.Now()
	body, result, err := g.forward(ctx, method, target, req.Body)
	duration := time.Since(start)
	g.metrics.ObserveUpstream(result, duration)
	if err != nil {
		g.log.Warn("upstream call failed", "method", method, "target", target, "error", err, "duration", duration)
		return model.Body{}, false
	}

	if g.filter.ShouldRecord(req.Path) {
		g.store.Append(model.Replay{When: req.Clone(), Then: body})
		g.metrics.IncCaptures()
		g.log.Debug("captured", "request", req.String(), "body", body.String(), "duration", duration)
	}
	return body, true
}

// forward sends one upstream request and classifies the response body.
func (g *Gateway) forward(ctx context.Context, method, target string, body *model.Body) (model.Body, string, error) {
	var payload io.Reader
	contentType := ""
	if body != nil {
		ct, data, err := body.Encode()
		if err != nil {
			return model.Body{}, metrics.UpstreamError, err
		}
		payload = bytes.NewReader(data)
		contentType = ct
	}

	outReq, err := http.NewRequestWithContext(ctx, method, target, payload)
	if err != nil {
		return model.Body{}, metrics.UpstreamError, err
	}
	if contentType != "" {
		outReq.Header.Set("Content-Type", contentType)
	}

	resp, err := g.client.Do(outReq)
	if err != nil {
		return model.Body{}, metrics.UpstreamError, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, DefaultMaxBodySize))
		return model.Body{}, metrics.UpstreamStatus, fmt.Errorf("%w: %s", ErrUpstreamStatus, resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, DefaultMaxBodySize+1))
	if err != nil {
		return model.Body{}, metrics.UpstreamError, fmt.Errorf("read upstream body: %w", err)
	}
	if len(data) > DefaultMaxBodySize {
		return model.Body{}, metrics.UpstreamTooLarge, fmt.Errorf("%w: more than %d bytes", ErrUpstreamTooLarge, DefaultMaxBodySize)
	}
	return model.Sniff(data), metrics.UpstreamOK, nil
}

// Close writes the captured exchanges to the output file, replacing its
// contents. Nothing is written when no output is configured or nothing was
// captured. Close is idempotent. It must not be called while other requests
// may still be passing through the gateway.
func (g *Gateway) Close() error {
	g.closeMu.Lock()
	defer g.closeMu.Unlock()

	if g.closed {
		return nil
	}
	g.closed = true

	if g.output == "" {
		return nil
	}
	count := g.store.Len()
	if count == 0 {
		return nil
	}
	if err := g.store.Save(g.output); err != nil {
		return fmt.Errorf("flush captures to %s: %w", g.output, err)
	}
	g.log.Info("captures written", "file", g.output, "count", count)
	return nil
}

// outboundMethod maps the methods a gateway forwards. Trace, Connect,
// Options and unrecognized methods are refused.
func outboundMethod(m model.Method) (string, bool) {
	switch m {
	case model.MethodGet, model.MethodPut, model.MethodPost,
		model.MethodDelete, model.MethodPatch, model.MethodHead:
		return m.WireString(), true
	default:
		return "", false
	}
}
