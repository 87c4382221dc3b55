// internal/config/config.go
package config

import (
	"time"

	"github.com/Jaxiii/ore-cli/internal/infrastructure/rpc"
	"github.com/Jaxiii/ore-cli/internal/proof"
	"github.com/Jaxiii/ore-cli/internal/sender"
)

// Config is the single source of truth for ore configuration.
// Priority: defaults < config file < environment variables < CLI flags.
// Environment variables carry the ORE_ prefix, e.g. ORE_RPC_URL or ORE_JITO_FEE.
type Config struct {
	Keypair     string `env:"KEYPAIR"`
	WalletsFile string `env:"WALLETS_FILE"`
	ProofFile   string `env:"PROOF_FILE"`

	RPC     RPCConfig     `envPrefix:"RPC_"`
	Relay   RelayConfig   `envPrefix:"JITO_"`
	Fees    FeeConfig
	Send    SendConfig    `envPrefix:"SEND_"`
	Log     LogConfig     `envPrefix:"LOG_"`
	Metrics MetricsConfig `envPrefix:"METRICS_"`
}

// RPCConfig holds primary endpoint settings.
type RPCConfig struct {
	URL               string        `env:"URL"`
	Timeout           time.Duration `env:"TIMEOUT"`
	RequestsPerSecond float64       `env:"REQUESTS_PER_SECOND"`
	Burst             int           `env:"BURST"`
}

// RelayConfig holds block-engine relay settings.
type RelayConfig struct {
	URL         string        `env:"URL"`
	Enabled     bool          `env:"ENABLE"`
	TipLamports uint64        `env:"FEE"`
	Timeout     time.Duration `env:"TIMEOUT"`
}

// FeeConfig holds compute budget settings.
type FeeConfig struct {
	PriorityFee      uint64 `env:"PRIORITY_FEE"`
	ComputeUnitLimit uint32 `env:"COMPUTE_UNIT_LIMIT"`
	DynamicBudget    bool   `env:"DYNAMIC_BUDGET"`
}

// SendConfig holds submission engine bounds and pacing.
type SendConfig struct {
	MaxAttempts       int           `env:"MAX_ATTEMPTS"`
	SubmitRetries     int           `env:"SUBMIT_RETRIES"`
	SimulationRetries int           `env:"SIMULATION_RETRIES"`
	PollRetries       int           `env:"POLL_RETRIES"`
	PollInterval      time.Duration `env:"POLL_INTERVAL"`
	AttemptDelay      time.Duration `env:"ATTEMPT_DELAY"`
	SimulationDelay   time.Duration `env:"SIMULATION_DELAY"`
	ComputeUnitMargin uint32        `env:"COMPUTE_UNIT_MARGIN"`
	ClaimedErrorCode  uint32        `env:"CLAIMED_ERROR_CODE"`
	SkipPreflight     bool          `env:"SKIP_PREFLIGHT"`
}

// LogConfig holds logging settings. An empty File logs to stderr.
type LogConfig struct {
	Level      string `env:"LEVEL"`
	Format     string `env:"FORMAT"`
	File       string `env:"FILE"`
	MaxSizeMB  int    `env:"MAX_SIZE_MB"`
	MaxBackups int    `env:"MAX_BACKUPS"`
}

// MetricsConfig holds the Prometheus listener. Empty disables it.
type MetricsConfig struct {
	Listen string `env:"LISTEN"`
}

// DefaultRPCURL is the public mainnet endpoint.
const DefaultRPCURL = "https://api.mainnet-beta.solana.com"

// DefaultWalletsFile lists keypair paths, one per line.
const DefaultWalletsFile = "wallets.txt"

// DefaultConfig returns configuration with sensible defaults.
func DefaultConfig() *Config {
	engine := sender.DefaultConfig()
	return &Config{
		WalletsFile: DefaultWalletsFile,
		ProofFile:   proof.DefaultFile,
		RPC: RPCConfig{
			URL:               DefaultRPCURL,
			Timeout:           rpc.DefaultTimeout,
			RequestsPerSecond: rpc.DefaultRequestsPerSecond,
			Burst:             rpc.DefaultBurst,
		},
		Relay: RelayConfig{
			URL:         rpc.DefaultRelayURL,
			Enabled:     false,
			TipLamports: 10_000,
			Timeout:     engine.RelayTimeout,
		},
		Send: SendConfig{
			MaxAttempts:       engine.MaxAttempts,
			SubmitRetries:     engine.SubmitRetries,
			SimulationRetries: engine.SimulationRetries,
			PollRetries:       engine.PollRetries,
			PollInterval:      engine.PollInterval,
			AttemptDelay:      engine.AttemptDelay,
			SimulationDelay:   engine.SimulationDelay,
			ComputeUnitMargin: engine.ComputeUnitMargin,
			ClaimedErrorCode:  engine.ClaimedErrorCode,
		},
		Log: LogConfig{
			Level:      "info",
			Format:     "text",
			MaxSizeMB:  50,
			MaxBackups: 3,
		},
	}
}

// Engine maps the send settings onto a sender.Config. Logger and Metrics are
// left for the caller.
func (c *Config) Engine() sender.Config {
	engine := sender.DefaultConfig()
	engine.MaxAttempts = c.Send.MaxAttempts
	engine.SubmitRetries = c.Send.SubmitRetries
	engine.SimulationRetries = c.Send.SimulationRetries
	engine.PollRetries = c.Send.PollRetries
	engine.PollInterval = c.Send.PollInterval
	engine.AttemptDelay = c.Send.AttemptDelay
	engine.SimulationDelay = c.Send.SimulationDelay
	engine.ComputeUnitMargin = c.Send.ComputeUnitMargin
	engine.ClaimedErrorCode = c.Send.ClaimedErrorCode
	engine.SkipPreflight = c.Send.SkipPreflight
	engine.SendTimeout = c.RPC.Timeout
	engine.RelayTimeout = c.Relay.Timeout
	return engine
}
