package config

import (
	"flag"
	"fmt"
	"io"

	"github.com/dmitrijs2005/feedbackhub/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
//	-a string   base URL of the API
//	-d string   data directory
//	-l string   log level
//
// Only these flags are picked out of args with flagx.FilterArgs, so the
// config file flag does not interfere.
func parseFlags(cfg *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-a", "-d", "-l"})

	fs := flag.NewFlagSet("feedbackhub", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.ServerURL, "a", cfg.ServerURL, "base URL of the FeedbackHub API")
	fs.StringVar(&cfg.DataDir, "d", cfg.DataDir, "directory for the local session database")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level: debug, info, warn, error")

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}
	return nil
}
