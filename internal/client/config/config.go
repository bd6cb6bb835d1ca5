package config

import (
	"fmt"
	"os"
	"time"
)

// EnvPrefix prefixes every environment variable read by the CLI.
const EnvPrefix = "FEEDBACKHUB_"

// Config holds runtime settings for the FeedbackHub CLI.
//
// RequestTimeout of zero means API calls are bounded only by their context.
// UseServerClock shifts the edit countdown by the offset between the
// server's Date header and the local clock.
type Config struct {
	ServerURL      string        `env:"SERVER_URL"`
	DataDir        string        `env:"DATA_DIR"`
	SessionDBName  string        `env:"SESSION_DB"`
	LogLevel       string        `env:"LOG_LEVEL"`
	LogFormat      string        `env:"LOG_FORMAT"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
	TickInterval   time.Duration `env:"TICK_INTERVAL"`
	UseServerClock bool          `env:"USE_SERVER_CLOCK"`
}

// LoadDefaults populates c with sensible defaults. An empty DataDir resolves
// to the user config directory later, in filex.EnsureDataDir.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://localhost:5000/api"
	c.DataDir = ""
	c.SessionDBName = "session.db"
	c.LogLevel = "info"
	c.LogFormat = "text"
	c.RequestTimeout = 0
	c.TickInterval = time.Second
	c.UseServerClock = true
}

// Load builds a Config from defaults, then the JSON file, the environment
// and finally the flags found in args (usually os.Args[1:]).
func Load(args []string, environ map[string]string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseJSON(cfg, args); err != nil {
		return nil, err
	}
	if err := parseEnv(cfg, environ); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadConfig is Load over the process arguments and environment.
func LoadConfig() (*Config, error) {
	return Load(os.Args[1:], nil)
}

// Validate rejects values no component can work with.
func (c *Config) Validate() error {
	if c.ServerURL == "" {
		return fmt.Errorf("config: server url is empty")
	}
	if c.SessionDBName == "" {
		return fmt.Errorf("config: session db name is empty")
	}
	if c.RequestTimeout < 0 {
		return fmt.Errorf("config: negative request timeout %s", c.RequestTimeout)
	}
	if c.TickInterval <= 0 {
		return fmt.Errorf("config: tick interval must be positive, got %s", c.TickInterval)
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("config: unknown log format %q", c.LogFormat)
	}
	return nil
}
