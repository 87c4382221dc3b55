// internal/config/validate.go
package config

import (
	"fmt"
	"net/url"
	"slices"
	"strings"

	"github.com/Jaxiii/ore-cli/internal/sender"
)

// ValidLogLevels are the allowed log level values.
var ValidLogLevels = []string{"debug", "info", "warn", "error"}

// ValidLogFormats are the allowed log format values.
var ValidLogFormats = []string{"text", "json"}

// Validate validates the configuration and returns an error if invalid.
func Validate(cfg *Config) error {
	var errs []string

	if !slices.Contains(ValidLogLevels, cfg.Log.Level) {
		errs = append(errs, fmt.Sprintf("invalid log.level %q (must be one of: %s)",
			cfg.Log.Level, strings.Join(ValidLogLevels, ", ")))
	}
	if !slices.Contains(ValidLogFormats, cfg.Log.Format) {
		errs = append(errs, fmt.Sprintf("invalid log.format %q (must be one of: %s)",
			cfg.Log.Format, strings.Join(ValidLogFormats, ", ")))
	}
	if cfg.Log.File != "" && cfg.Log.MaxSizeMB < 1 {
		errs = append(errs, "log.max_size_mb must be at least 1")
	}
	if cfg.Log.MaxBackups < 0 {
		errs = append(errs, "log.max_backups must be non-negative")
	}

	// Endpoints
	if err := validateURL(cfg.RPC.URL); err != nil {
		errs = append(errs, fmt.Sprintf("rpc.url: %v", err))
	}
	if cfg.RPC.Timeout < 0 {
		errs = append(errs, "rpc.timeout must be non-negative")
	}
	if cfg.RPC.RequestsPerSecond < 0 {
		errs = append(errs, "rpc.requests_per_second must be non-negative")
	}
	if cfg.RPC.Burst < 0 {
		errs = append(errs, "rpc.burst must be non-negative")
	}
	if cfg.Relay.Enabled {
		if err := validateURL(cfg.Relay.URL); err != nil {
			errs = append(errs, fmt.Sprintf("relay.url: %v", err))
		}
	}
	if cfg.Relay.Timeout < 0 {
		errs = append(errs, "relay.timeout must be non-negative")
	}

	// Fees
	if cfg.Fees.ComputeUnitLimit > sender.MaxComputeUnits {
		errs = append(errs, fmt.Sprintf("fees.compute_unit_limit must not exceed %d", sender.MaxComputeUnits))
	}

	// Send
	if cfg.Send.MaxAttempts < 1 {
		errs = append(errs, "send.max_attempts must be at least 1")
	}
	if cfg.Send.SubmitRetries < 0 {
		errs = append(errs, "send.submit_retries must be non-negative")
	}
	if cfg.Send.SimulationRetries < 1 {
		errs = append(errs, "send.simulation_retries must be at least 1")
	}
	if cfg.Send.PollRetries < 1 {
		errs = append(errs, "send.poll_retries must be at least 1")
	}
	if cfg.Send.PollInterval < 0 {
		errs = append(errs, "send.poll_interval must be non-negative")
	}
	if cfg.Send.AttemptDelay < 0 {
		errs = append(errs, "send.attempt_delay must be non-negative")
	}
	if cfg.Send.SimulationDelay < 0 {
		errs = append(errs, "send.simulation_delay must be non-negative")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return nil
}

func validateURL(raw string) error {
	if strings.TrimSpace(raw) == "" {
		return fmt.Errorf("must not be empty")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid URL %q: %v", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("unsupported scheme %q in %q", u.Scheme, raw)
	}
	if u.Host == "" {
		return fmt.Errorf("missing host in %q", raw)
	}
	return nil
}
