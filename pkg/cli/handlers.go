package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/getmockd/mockgate/pkg/config"
	"github.com/getmockd/mockgate/pkg/metrics"
	"github.com/getmockd/mockgate/pkg/mock"
	"github.com/getmockd/mockgate/pkg/proxy"
	"github.com/getmockd/mockgate/pkg/recording"
)

// chain is the handler list built from a configuration, in priority order.
// Gateways are also kept separately so they can be closed on exit.
type chain struct {
	handlers []mock.Handler
	gateways []*proxy.Gateway
}

// buildChain constructs the handlers named by cfg. Replay files are loaded
// eagerly; a missing or malformed file fails the whole chain.
func buildChain(cfg *config.Config, log *slog.Logger, m *metrics.Metrics) (*chain, error) {
	c := &chain{}
	for i, h := range cfg.Handlers {
		switch {
		case h.Replay != nil:
			r, err := buildReplayer(cfg, h.Replay, log)
			if err != nil {
				return nil, fmt.Errorf("handlers[%d]: %w", i, err)
			}
			c.handlers = append(c.handlers, r)
		case h.Gateway != nil:
			gw, err := proxy.New(proxy.Options{
				Prefix:   h.Gateway.Prefix,
				Upstream: h.Gateway.Upstream,
				Output:   cfg.ResolvePath(h.Gateway.Output),
				Timeout:  time.Duration(h.Gateway.Timeout),
				Filter:   h.Gateway.Filter(),
				Logger:   log,
				Metrics:  m,
			})
			if err != nil {
				return nil, fmt.Errorf("handlers[%d]: %w", i, err)
			}
			c.handlers = append(c.handlers, gw)
			c.gateways = append(c.gateways, gw)
		default:
			return nil, fmt.Errorf("handlers[%d]: %w", i, config.ErrInvalidConfig)
		}
	}
	return c, nil
}

func buildReplayer(cfg *config.Config, rc *config.ReplayConfig, log *slog.Logger) (*recording.Replayer, error) {
	opt := recording.WithReplayLogger(log)
	if rc.File != "" {
		return recording.LoadReplayer(cfg.ResolvePath(rc.File), opt)
	}
	return recording.NewReplayer(rc.Entries, opt), nil
}

// close flushes every gateway and returns all write errors.
func (c *chain) close() error {
	var errs []error
	for _, gw := range c.gateways {
		if err := gw.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
