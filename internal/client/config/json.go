package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/feedbackhub/internal/flagx"
	"github.com/dmitrijs2005/feedbackhub/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Pointer
// fields distinguish "absent" from a zero value, so a partial file only
// overrides what it names.
type JsonConfig struct {
	ServerURL      *string         `json:"server_url"`
	DataDir        *string         `json:"data_dir"`
	SessionDBName  *string         `json:"session_db"`
	LogLevel       *string         `json:"log_level"`
	LogFormat      *string         `json:"log_format"`
	RequestTimeout *timex.Duration `json:"request_timeout"`
	TickInterval   *timex.Duration `json:"tick_interval"`
	UseServerClock *bool           `json:"use_server_clock"`
}

// parseJSON overlays cfg with the file named by -c/-config in args, if any.
func parseJSON(cfg *Config, args []string) error {
	path := flagx.ConfigFileFlag(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	setIf(&cfg.ServerURL, jc.ServerURL)
	setIf(&cfg.DataDir, jc.DataDir)
	setIf(&cfg.SessionDBName, jc.SessionDBName)
	setIf(&cfg.LogLevel, jc.LogLevel)
	setIf(&cfg.LogFormat, jc.LogFormat)
	setIf(&cfg.UseServerClock, jc.UseServerClock)
	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.TickInterval != nil {
		cfg.TickInterval = jc.TickInterval.Duration
	}
	return nil
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}
