package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/getmockd/mockgate/pkg/config"
	"github.com/getmockd/mockgate/pkg/engine"
	"github.com/getmockd/mockgate/pkg/metrics"
)

const shutdownTimeout = 30 * time.Second

var (
	serveConfigFile  string
	serveListen      string
	serveReplayFiles []string
	serveUpstream    string
	servePrefix      string
	serveOutput      string
	serveTimeout     time.Duration
	serveTextBodies  bool
	serveMetricsAddr string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the mock server",
	Long: `Run the mock server until interrupted.

Handlers come from the configuration file first, then from flags: each
--replay file in the order given, then the gateway described by --upstream.
On exit the server drains in-flight requests and gateways write their
captures.`,
	Example: `  # Record traffic to a real API
  mockgate serve --upstream https://jsonplaceholder.typicode.com --prefix /api --output todos.json

  # Replay it, falling back to the real API for anything not recorded
  mockgate serve --replay todos.json --upstream https://jsonplaceholder.typicode.com --prefix /api

  # Use a configuration file
  mockgate serve --config mockgate.yaml`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return runServe(ctx, cmd)
	},
}

func init() {
	f := serveCmd.Flags()
	f.StringVarP(&serveConfigFile, "config", "c", "", "Configuration file (YAML or JSON)")
	f.StringVarP(&serveListen, "listen", "l", "", "Listen address (default 127.0.0.1:0)")
	f.StringArrayVar(&serveReplayFiles, "replay", nil, "Replay file to serve (repeatable)")
	f.StringVar(&serveUpstream, "upstream", "", "Forward unmatched requests to this base URL and capture them")
	f.StringVar(&servePrefix, "prefix", "", "Path prefix the gateway intercepts")
	f.StringVarP(&serveOutput, "output", "o", "", "File the gateway writes its captures to on exit")
	f.DurationVar(&serveTimeout, "timeout", 0, "Upstream timeout (default 5m)")
	f.BoolVar(&serveTextBodies, "text-bodies", false, "Decode UTF-8 request bodies as text instead of bytes")
	f.StringVar(&serveMetricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address")
	rootCmd.AddCommand(serveCmd)
}

// serveConfig merges the configuration file, environment and flags.
func serveConfig() (*config.Config, error) {
	cfg := config.Default()
	if serveConfigFile != "" {
		loaded, err := config.LoadFromFile(serveConfigFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	cfg.ApplyEnv(os.Getenv)

	if serveListen != "" {
		cfg.Listen = serveListen
	}
	if serveTextBodies {
		cfg.TextBodies = true
	}
	if serveMetricsAddr != "" {
		cfg.MetricsAddr = serveMetricsAddr
	}
	for _, file := range serveReplayFiles {
		cfg.Handlers = append(cfg.Handlers, config.HandlerConfig{
			Replay: &config.ReplayConfig{File: absFromCwd(cfg, file)},
		})
	}
	if serveUpstream != "" {
		cfg.Handlers = append(cfg.Handlers, config.HandlerConfig{
			Gateway: &config.GatewayConfig{
				Prefix:   servePrefix,
				Upstream: serveUpstream,
				Output:   absFromCwd(cfg, serveOutput),
				Timeout:  config.Duration(serveTimeout),
			},
		})
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// absFromCwd keeps flag paths relative to the working directory even when
// the configuration file lives elsewhere.
func absFromCwd(cfg *config.Config, path string) string {
	if path == "" || cfg.BaseDir == "" {
		return path
	}
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}

func runServe(ctx context.Context, cmd *cobra.Command) error {
	cfg, err := serveConfig()
	if err != nil {
		return err
	}
	log, err := newLogger(cmd.ErrOrStderr(), cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}

	var m *metrics.Metrics
	if cfg.MetricsAddr != "" {
		m = metrics.New()
	}

	handlers, err := buildChain(cfg, log, m)
	if err != nil {
		return err
	}

	srv, err := engine.Start(ctx,
		engine.WithAddr(cfg.Listen),
		engine.WithLogger(log),
		engine.WithMetrics(m),
		engine.WithTextBodies(cfg.TextBodies),
	)
	if err != nil {
		return err
	}
	for _, h := range handlers.handlers {
		srv.Register(h)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "mockgate listening on http://%s (%d handlers)\n", srv.Addr(), len(handlers.handlers))

	var metricsSrv *http.Server
	if m != nil {
		metricsSrv, err = startMetrics(cfg.MetricsAddr, m)
		if err != nil {
			_ = srv.Shutdown(context.Background())
			return err
		}
		log.Info("metrics listening", "addr", cfg.MetricsAddr)
	}

	select {
	case <-ctx.Done():
	case <-srv.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	var errs []error
	if err := srv.Shutdown(shutdownCtx); err != nil {
		errs = append(errs, fmt.Errorf("shutdown: %w", err))
	}
	if err := srv.Wait(); err != nil {
		errs = append(errs, err)
	}
	// Gateways are flushed only once no request can reach them.
	if err := handlers.close(); err != nil {
		errs = append(errs, err)
	}
	if metricsSrv != nil {
		if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
			errs = append(errs, fmt.Errorf("metrics shutdown: %w", err))
		}
	}
	return errors.Join(errs...)
}

func startMetrics(addr string, m *metrics.Metrics) (*http.Server, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 10 * time.Second}
	go func() { _ = srv.Serve(ln) }()
	return srv, nil
}
