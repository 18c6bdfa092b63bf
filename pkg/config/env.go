package config

// Environment variables that override file settings.
const (
	EnvListen    = "MOCKGATE_LISTEN"
	EnvLogLevel  = "MOCKGATE_LOG_LEVEL"
	EnvLogFormat = "MOCKGATE_LOG_FORMAT"
)

// ApplyEnv overrides settings from the environment. getenv is usually
// os.Getenv; empty values are ignored.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if v := getenv(EnvListen); v != "" {
		c.Listen = v
	}
	if v := getenv(EnvLogLevel); v != "" {
		c.Log.Level = v
	}
	if v := getenv(EnvLogFormat); v != "" {
		c.Log.Format = v
	}
}
