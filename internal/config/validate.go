package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strings"
)

var validLogLevels = map[string]bool{
	"debug":   true,
	"info":    true,
	"warn":    true,
	"warning": true,
	"error":   true,
}

// Validate checks the config for invalid values and returns all errors
// found. Validation errors are logged as warnings but do not prevent a scan;
// the tool always prefers a best-effort run.
func (c *Config) Validate() []error {
	var errs []error

	if c.SubmitURL != "" {
		u, err := url.Parse(c.SubmitURL)
		if err != nil {
			errs = append(errs, fmt.Errorf("submit_url %q is not a valid URL: %w", c.SubmitURL, err))
		} else if u.Scheme != "http" && u.Scheme != "https" {
			errs = append(errs, fmt.Errorf("submit_url scheme must be http or https, got %q", u.Scheme))
		}
	}

	if c.LogLevel != "" && !validLogLevels[strings.ToLower(c.LogLevel)] {
		errs = append(errs, fmt.Errorf("log_level %q is not valid (use debug, info, warn, error)", c.LogLevel))
	}

	if c.LogFormat != "" && c.LogFormat != "text" && c.LogFormat != "json" {
		errs = append(errs, fmt.Errorf("log_format %q is not valid (use text or json)", c.LogFormat))
	}

	if c.KeywordsFile != "" {
		if _, err := os.Stat(c.KeywordsFile); err != nil {
			errs = append(errs, fmt.Errorf("keywords_file %q is not readable: %w", c.KeywordsFile, err))
		}
	}

	for _, err := range errs {
		slog.Warn("config validation", "error", err)
	}

	return errs
}
