// internal/config/file.go
package config

import (
	"fmt"
	"time"
)

// FileConfig represents the raw ore.toml file contents.
// All fields are pointers to distinguish "not set" from "set to zero/false".
type FileConfig struct {
	Keypair     *string `toml:"keypair,omitempty"`
	WalletsFile *string `toml:"wallets_file,omitempty"`
	ProofFile   *string `toml:"proof_file,omitempty"`

	RPC     FileRPCConfig     `toml:"rpc"`
	Relay   FileRelayConfig   `toml:"relay"`
	Fees    FileFeeConfig     `toml:"fees"`
	Send    FileSendConfig    `toml:"send"`
	Log     FileLogConfig     `toml:"log"`
	Metrics FileMetricsConfig `toml:"metrics"`
}

// FileRPCConfig is the TOML representation of RPCConfig.
// Uses strings for duration values since TOML cannot decode directly to time.Duration.
type FileRPCConfig struct {
	URL               *string  `toml:"url,omitempty"`
	Timeout           *string  `toml:"timeout,omitempty"`
	RequestsPerSecond *float64 `toml:"requests_per_second,omitempty"`
	Burst             *int     `toml:"burst,omitempty"`
}

// FileRelayConfig is the TOML representation of RelayConfig.
type FileRelayConfig struct {
	URL         *string `toml:"url,omitempty"`
	Enabled     *bool   `toml:"enabled,omitempty"`
	TipLamports *uint64 `toml:"tip_lamports,omitempty"`
	Timeout     *string `toml:"timeout,omitempty"`
}

// FileFeeConfig is the TOML representation of FeeConfig.
type FileFeeConfig struct {
	PriorityFee      *uint64 `toml:"priority_fee,omitempty"`
	ComputeUnitLimit *uint32 `toml:"compute_unit_limit,omitempty"`
	DynamicBudget    *bool   `toml:"dynamic_budget,omitempty"`
}

// FileSendConfig is the TOML representation of SendConfig.
type FileSendConfig struct {
	MaxAttempts       *int    `toml:"max_attempts,omitempty"`
	SubmitRetries     *int    `toml:"submit_retries,omitempty"`
	SimulationRetries *int    `toml:"simulation_retries,omitempty"`
	PollRetries       *int    `toml:"poll_retries,omitempty"`
	PollInterval      *string `toml:"poll_interval,omitempty"`
	AttemptDelay      *string `toml:"attempt_delay,omitempty"`
	SimulationDelay   *string `toml:"simulation_delay,omitempty"`
	ComputeUnitMargin *uint32 `toml:"compute_unit_margin,omitempty"`
	ClaimedErrorCode  *uint32 `toml:"claimed_error_code,omitempty"`
	SkipPreflight     *bool   `toml:"skip_preflight,omitempty"`
}

// FileLogConfig is the TOML representation of LogConfig.
type FileLogConfig struct {
	Level      *string `toml:"level,omitempty"`
	Format     *string `toml:"format,omitempty"`
	File       *string `toml:"file,omitempty"`
	MaxSizeMB  *int    `toml:"max_size_mb,omitempty"`
	MaxBackups *int    `toml:"max_backups,omitempty"`
}

// FileMetricsConfig is the TOML representation of MetricsConfig.
type FileMetricsConfig struct {
	Listen *string `toml:"listen,omitempty"`
}

// IsEmpty returns true if no configuration values are set.
func (f *FileConfig) IsEmpty() bool {
	return *f == FileConfig{}
}

// mergeFileConfig merges non-nil FileConfig values into Config.
func mergeFileConfig(cfg *Config, file *FileConfig) error {
	setString(&cfg.Keypair, file.Keypair)
	setString(&cfg.WalletsFile, file.WalletsFile)
	setString(&cfg.ProofFile, file.ProofFile)

	// RPC
	setString(&cfg.RPC.URL, file.RPC.URL)
	if file.RPC.RequestsPerSecond != nil {
		cfg.RPC.RequestsPerSecond = *file.RPC.RequestsPerSecond
	}
	if file.RPC.Burst != nil {
		cfg.RPC.Burst = *file.RPC.Burst
	}

	// Relay
	setString(&cfg.Relay.URL, file.Relay.URL)
	if file.Relay.Enabled != nil {
		cfg.Relay.Enabled = *file.Relay.Enabled
	}
	if file.Relay.TipLamports != nil {
		cfg.Relay.TipLamports = *file.Relay.TipLamports
	}

	// Fees
	if file.Fees.PriorityFee != nil {
		cfg.Fees.PriorityFee = *file.Fees.PriorityFee
	}
	if file.Fees.ComputeUnitLimit != nil {
		cfg.Fees.ComputeUnitLimit = *file.Fees.ComputeUnitLimit
	}
	if file.Fees.DynamicBudget != nil {
		cfg.Fees.DynamicBudget = *file.Fees.DynamicBudget
	}

	// Send
	setInt(&cfg.Send.MaxAttempts, file.Send.MaxAttempts)
	setInt(&cfg.Send.SubmitRetries, file.Send.SubmitRetries)
	setInt(&cfg.Send.SimulationRetries, file.Send.SimulationRetries)
	setInt(&cfg.Send.PollRetries, file.Send.PollRetries)
	if file.Send.ComputeUnitMargin != nil {
		cfg.Send.ComputeUnitMargin = *file.Send.ComputeUnitMargin
	}
	if file.Send.ClaimedErrorCode != nil {
		cfg.Send.ClaimedErrorCode = *file.Send.ClaimedErrorCode
	}
	if file.Send.SkipPreflight != nil {
		cfg.Send.SkipPreflight = *file.Send.SkipPreflight
	}

	// Log
	setString(&cfg.Log.Level, file.Log.Level)
	setString(&cfg.Log.Format, file.Log.Format)
	setString(&cfg.Log.File, file.Log.File)
	setInt(&cfg.Log.MaxSizeMB, file.Log.MaxSizeMB)
	setInt(&cfg.Log.MaxBackups, file.Log.MaxBackups)

	// Metrics
	setString(&cfg.Metrics.Listen, file.Metrics.Listen)

	// Durations (parse duration strings)
	durations := []struct {
		key string
		raw *string
		dst *time.Duration
	}{
		{"rpc.timeout", file.RPC.Timeout, &cfg.RPC.Timeout},
		{"relay.timeout", file.Relay.Timeout, &cfg.Relay.Timeout},
		{"send.poll_interval", file.Send.PollInterval, &cfg.Send.PollInterval},
		{"send.attempt_delay", file.Send.AttemptDelay, &cfg.Send.AttemptDelay},
		{"send.simulation_delay", file.Send.SimulationDelay, &cfg.Send.SimulationDelay},
	}
	for _, d := range durations {
		if d.raw == nil {
			continue
		}
		parsed, err := time.ParseDuration(*d.raw)
		if err != nil {
			return fmt.Errorf("invalid duration for %s: %q", d.key, *d.raw)
		}
		*d.dst = parsed
	}

	return nil
}

// ToFile renders cfg as a fully populated FileConfig.
func ToFile(cfg *Config) *FileConfig {
	duration := func(d time.Duration) *string {
		s := d.String()
		return &s
	}

	return &FileConfig{
		Keypair:     ptr(cfg.Keypair),
		WalletsFile: ptr(cfg.WalletsFile),
		ProofFile:   ptr(cfg.ProofFile),
		RPC: FileRPCConfig{
			URL:               ptr(cfg.RPC.URL),
			Timeout:           duration(cfg.RPC.Timeout),
			RequestsPerSecond: ptr(cfg.RPC.RequestsPerSecond),
			Burst:             ptr(cfg.RPC.Burst),
		},
		Relay: FileRelayConfig{
			URL:         ptr(cfg.Relay.URL),
			Enabled:     ptr(cfg.Relay.Enabled),
			TipLamports: ptr(cfg.Relay.TipLamports),
			Timeout:     duration(cfg.Relay.Timeout),
		},
		Fees: FileFeeConfig{
			PriorityFee:      ptr(cfg.Fees.PriorityFee),
			ComputeUnitLimit: ptr(cfg.Fees.ComputeUnitLimit),
			DynamicBudget:    ptr(cfg.Fees.DynamicBudget),
		},
		Send: FileSendConfig{
			MaxAttempts:       ptr(cfg.Send.MaxAttempts),
			SubmitRetries:     ptr(cfg.Send.SubmitRetries),
			SimulationRetries: ptr(cfg.Send.SimulationRetries),
			PollRetries:       ptr(cfg.Send.PollRetries),
			PollInterval:      duration(cfg.Send.PollInterval),
			AttemptDelay:      duration(cfg.Send.AttemptDelay),
			SimulationDelay:   duration(cfg.Send.SimulationDelay),
			ComputeUnitMargin: ptr(cfg.Send.ComputeUnitMargin),
			ClaimedErrorCode:  ptr(cfg.Send.ClaimedErrorCode),
			SkipPreflight:     ptr(cfg.Send.SkipPreflight),
		},
		Log: FileLogConfig{
			Level:      ptr(cfg.Log.Level),
			Format:     ptr(cfg.Log.Format),
			File:       ptr(cfg.Log.File),
			MaxSizeMB:  ptr(cfg.Log.MaxSizeMB),
			MaxBackups: ptr(cfg.Log.MaxBackups),
		},
		Metrics: FileMetricsConfig{
			Listen: ptr(cfg.Metrics.Listen),
		},
	}
}

func ptr[T any](v T) *T { return &v }

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}
