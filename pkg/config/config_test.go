package config

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/getmockd/mockgate/pkg/model"
)

func TestValidate(t *testing.T) {
	replay := &ReplayConfig{File: "r.json"}
	gateway := &GatewayConfig{Upstream: "https://example.com"}

	tests := []struct {
		name  string
		cfg   Config
		field string
	}{
		{"defaults", *Default(), ""},
		{"missing listen", Config{}, "listen"},
		{"bad level", Config{Listen: ":0", Log: LogConfig{Level: "loud"}}, "log.level"},
		{"bad format", Config{Listen: ":0", Log: LogConfig{Format: "xml"}}, "log.format"},
		{"level is case-insensitive", Config{Listen: ":0", Log: LogConfig{Level: "DEBUG", Format: "JSON"}}, ""},
		{"empty entry", Config{Listen: ":0", Handlers: []HandlerConfig{{}}}, "handlers[0]"},
		{"two kinds", Config{Listen: ":0", Handlers: []HandlerConfig{{Replay: replay, Gateway: gateway}}}, "handlers[0]"},
		{"replay ok", Config{Listen: ":0", Handlers: []HandlerConfig{{Replay: replay}}}, ""},
		{"replay without source", Config{Listen: ":0", Handlers: []HandlerConfig{{Replay: &ReplayConfig{}}}}, "handlers[0].replay"},
		{
			"replay with both sources",
			Config{Listen: ":0", Handlers: []HandlerConfig{{Replay: &ReplayConfig{
				File:    "r.json",
				Entries: []model.Replay{{When: model.NewRequest(model.MethodGet, "/"), Then: model.Text("x")}},
			}}}},
			"handlers[0].replay",
		},
		{"gateway ok", Config{Listen: ":0", Handlers: []HandlerConfig{{Replay: replay}, {Gateway: gateway}}}, ""},
		{"gateway without upstream", Config{Listen: ":0", Handlers: []HandlerConfig{{Gateway: &GatewayConfig{}}}}, "handlers[0].gateway.upstream"},
		{"gateway relative upstream", Config{Listen: ":0", Handlers: []HandlerConfig{{Gateway: &GatewayConfig{Upstream: "/api"}}}}, "handlers[0].gateway.upstream"},
		{"gateway negative timeout", Config{Listen: ":0", Handlers: []HandlerConfig{{Gateway: &GatewayConfig{Upstream: "http://x", Timeout: -1}}}}, "handlers[0].gateway.timeout"},
		{"gateway bad glob", Config{Listen: ":0", Handlers: []HandlerConfig{{Gateway: &GatewayConfig{Upstream: "http://x", Include: []string{"[a"}}}}}, "handlers[0].gateway"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidConfig)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestDuration(t *testing.T) {
	var d Duration
	require.NoError(t, json.Unmarshal([]byte(`"1m30s"`), &d))
	assert.Equal(t, 90*time.Second, time.Duration(d))

	require.NoError(t, json.Unmarshal([]byte(`2.5`), &d))
	assert.Equal(t, 2500*time.Millisecond, time.Duration(d))

	assert.Error(t, json.Unmarshal([]byte(`"fast"`), &d))
	assert.Error(t, json.Unmarshal([]byte(`true`), &d))

	data, err := json.Marshal(Duration(2 * time.Minute))
	require.NoError(t, err)
	assert.Equal(t, `"2m0s"`, string(data))
}

func TestResolvePath(t *testing.T) {
	cfg := &Config{BaseDir: "/etc/mockgate"}
	assert.Equal(t, "/etc/mockgate/r.json", cfg.ResolvePath("r.json"))
	assert.Equal(t, "/tmp/r.json", cfg.ResolvePath("/tmp/r.json"))
	assert.Equal(t, "", cfg.ResolvePath(""))
	assert.Equal(t, "r.json", (&Config{}).ResolvePath("r.json"))
}
