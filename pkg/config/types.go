package config

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	"github.com/getmockd/mockgate/pkg/model"
)

// DefaultListen binds an ephemeral loopback port.
const DefaultListen = "127.0.0.1:0"

// Config is the top-level configuration.
type Config struct {
	Listen      string          `json:"listen,omitempty"`
	TextBodies  bool            `json:"textBodies,omitempty"`
	MetricsAddr string          `json:"metricsAddr,omitempty"`
	Log         LogConfig       `json:"log"`
	Handlers    []HandlerConfig `json:"handlers"`

	// BaseDir is the directory relative paths resolve against. LoadFromFile
	// sets it to the configuration file's directory.
	BaseDir string `json:"-"`
}

// LogConfig selects the log level and format.
type LogConfig struct {
	Level  string `json:"level,omitempty"`
	Format string `json:"format,omitempty"`
}

// HandlerConfig is one entry of the handler chain. Exactly one field is set.
type HandlerConfig struct {
	Replay  *ReplayConfig  `json:"replay,omitempty"`
	Gateway *GatewayConfig `json:"gateway,omitempty"`
}

// Kind returns "replay", "gateway", or "" when no kind is set.
func (h HandlerConfig) Kind() string {
	switch {
	case h.Replay != nil:
		return "replay"
	case h.Gateway != nil:
		return "gateway"
	default:
		return ""
	}
}

// ReplayConfig serves replays from a file or from inline entries.
type ReplayConfig struct {
	File    string         `json:"file,omitempty"`
	Entries []model.Replay `json:"entries,omitempty"`
}

// GatewayConfig forwards a path prefix to an upstream and captures the
// exchanges.
type GatewayConfig struct {
	Prefix   string   `json:"prefix,omitempty"`
	Upstream string   `json:"upstream"`
	Output   string   `json:"output,omitempty"`
	Timeout  Duration `json:"timeout,omitempty"`
	Include  []string `json:"include,omitempty"`
	Exclude  []string `json:"exclude,omitempty"`
}

// Duration is a time.Duration written as a Go duration string ("90s", "2m").
type Duration time.Duration

// MarshalJSON implements json.Marshaler.
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// UnmarshalJSON accepts a duration string or a number of seconds.
func (d *Duration) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch value := v.(type) {
	case nil:
		*d = 0
	case float64:
		*d = Duration(value * float64(time.Second))
	case string:
		parsed, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", value, err)
		}
		*d = Duration(parsed)
	default:
		return fmt.Errorf("invalid duration %s", data)
	}
	return nil
}

// Default returns a configuration with no handlers.
func Default() *Config {
	return &Config{
		Listen: DefaultListen,
		Log:    LogConfig{Level: "info", Format: "text"},
	}
}

// ResolvePath resolves a relative path against BaseDir.
func (c *Config) ResolvePath(path string) string {
	if path == "" || filepath.IsAbs(path) || c.BaseDir == "" {
		return path
	}
	return filepath.Join(c.BaseDir, path)
}
