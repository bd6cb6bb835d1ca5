// Package config loads runtime configuration for the FeedbackHub CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected with -c or -config.
//  3. Environment variables prefixed with FEEDBACKHUB_.
//  4. Command-line flags, which override everything else.
//
// Supported flags
//
//	-a string   base URL of the FeedbackHub API
//	-d string   directory holding the local session database
//	-l string   log level (debug, info, warn, error)
//
// # JSON schema
//
// Durations use timex.Duration, so they may be strings like "30s" or integer
// nanoseconds:
//
//	{
//	  "server_url": "https://feedback.example.org/api",
//	  "data_dir": "~/.config/feedbackhub",
//	  "session_db": "session.db",
//	  "log_level": "info",
//	  "log_format": "text",
//	  "request_timeout": "30s",
//	  "tick_interval": "1s",
//	  "use_server_clock": true
//	}
//
// # Environment
//
//	FEEDBACKHUB_SERVER_URL, FEEDBACKHUB_DATA_DIR, FEEDBACKHUB_SESSION_DB,
//	FEEDBACKHUB_LOG_LEVEL, FEEDBACKHUB_LOG_FORMAT,
//	FEEDBACKHUB_REQUEST_TIMEOUT, FEEDBACKHUB_TICK_INTERVAL,
//	FEEDBACKHUB_USE_SERVER_CLOCK
package config
