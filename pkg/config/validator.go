package config

import (
	"errors"
	"fmt"
	"net/url"

	"github.com/getmockd/mockgate/pkg/logging"
	"github.com/getmockd/mockgate/pkg/proxy"
)

// ErrInvalidConfig is wrapped by every validation error.
var ErrInvalidConfig = errors.New("invalid configuration")

// ValidationError describes a single invalid field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Unwrap lets errors.Is match ErrInvalidConfig.
func (e *ValidationError) Unwrap() error {
	return ErrInvalidConfig
}

// Validate checks the configuration and returns the first problem found.
func (c *Config) Validate() error {
	if c.Listen == "" {
		return &ValidationError{Field: "listen", Message: "listen address is required"}
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return &ValidationError{Field: "log.level", Message: fmt.Sprintf("unknown level %q", c.Log.Level)}
	}
	if _, err := logging.ParseFormat(c.Log.Format); err != nil {
		return &ValidationError{Field: "log.format", Message: fmt.Sprintf("unknown format %q", c.Log.Format)}
	}

	for i, h := range c.Handlers {
		field := fmt.Sprintf("handlers[%d]", i)
		if h.Replay != nil && h.Gateway != nil {
			return &ValidationError{Field: field, Message: "entry names more than one handler kind"}
		}
		switch {
		case h.Replay != nil:
			if err := h.Replay.validate(field + ".replay"); err != nil {
				return err
			}
		case h.Gateway != nil:
			if err := h.Gateway.validate(field + ".gateway"); err != nil {
				return err
			}
		default:
			return &ValidationError{Field: field, Message: "entry names no handler kind"}
		}
	}
	return nil
}

func (r *ReplayConfig) validate(field string) error {
	hasFile := r.File != ""
	hasEntries := len(r.Entries) > 0
	if hasFile == hasEntries {
		return &ValidationError{Field: field, Message: "exactly one of file or entries is required"}
	}
	return nil
}

func (g *GatewayConfig) validate(field string) error {
	if g.Upstream == "" {
		return &ValidationError{Field: field + ".upstream", Message: "upstream is required"}
	}
	u, err := url.Parse(g.Upstream)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return &ValidationError{Field: field + ".upstream", Message: fmt.Sprintf("%q is not an absolute http(s) URL", g.Upstream)}
	}
	if g.Timeout < 0 {
		return &ValidationError{Field: field + ".timeout", Message: "timeout must not be negative"}
	}
	if err := g.Filter().Validate(); err != nil {
		return &ValidationError{Field: field, Message: err.Error()}
	}
	return nil
}

// Filter returns the capture filter described by Include and Exclude.
func (g *GatewayConfig) Filter() *proxy.FilterConfig {
	return &proxy.FilterConfig{
		IncludePaths: g.Include,
		ExcludePaths: g.Exclude,
	}
}
