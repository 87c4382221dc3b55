// cmd/ore/root.go
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/Jaxiii/ore-cli/internal/config"
	"github.com/Jaxiii/ore-cli/internal/infrastructure/rpc"
	"github.com/Jaxiii/ore-cli/internal/logging"
	"github.com/Jaxiii/ore-cli/internal/output"
	"github.com/Jaxiii/ore-cli/internal/sender"
	"github.com/Jaxiii/ore-cli/internal/version"
	"github.com/Jaxiii/ore-cli/internal/wallet"
	"github.com/Jaxiii/ore-cli/pkg/ledger"
	"github.com/Jaxiii/ore-cli/pkg/ore"
)

// globalFlags are CLI overrides, applied over the loaded config only when set.
type globalFlags struct {
	configPath    string
	rpcURL        string
	relayURL      string
	relayEnabled  bool
	relayTip      uint64
	priorityFee   uint64
	keypair       string
	logLevel      string
	metricsListen string
	noColor       bool
	verbose       bool
}

// app carries the state shared by every subcommand of one invocation.
type app struct {
	flags   globalFlags
	environ map[string]string // nil reads the process environment

	stdout    io.Writer
	stderr    io.Writer
	printer   *output.Printer
	confirmer output.Confirmer

	cfg        *config.Config
	configPath string
	logger     *slog.Logger
	logCloser  io.Closer

	registry      *prometheus.Registry
	metrics       *sender.Metrics
	metricsServer *http.Server
	metricsAddr   string
}

func newApp(stdout, stderr io.Writer) *app {
	return &app{
		stdout:    stdout,
		stderr:    stderr,
		printer:   output.NewPrinterTo(stdout, stderr),
		confirmer: output.NewTerminalConfirmer(),
		logger:    slog.New(slog.DiscardHandler),
	}
}

// commands that run without loading configuration
var skipSetup = map[string]bool{
	"version": true,
	"help":    true,
}

func newRootCmd(a *app) *cobra.Command {
	defaults := config.DefaultConfig()

	rootCmd := &cobra.Command{
		Use:   "ore",
		Short: "ORE miner command line",
		Long: `ore submits transactions to the Solana ledger and waits for them to land.

Transactions go to the primary RPC node and, when enabled, in parallel to a
Jito block-engine relay. Only the primary node's answers decide the outcome.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if skipSetup[cmd.Name()] {
				return nil
			}
			return a.setup(cmd)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.flags.configPath, "config", "", fmt.Sprintf("Config file path (default: ./%s if present)", config.ConfigFileName))
	flags.StringVar(&a.flags.rpcURL, "rpc", "", fmt.Sprintf("Primary RPC endpoint (default: %s)", defaults.RPC.URL))
	flags.StringVar(&a.flags.relayURL, "jito-client", "", fmt.Sprintf("Jito block-engine endpoint (default: %s)", defaults.Relay.URL))
	flags.BoolVar(&a.flags.relayEnabled, "jito-enable", false, "Also submit through the Jito relay")
	flags.Uint64Var(&a.flags.relayTip, "jito-fee", 0, fmt.Sprintf("Jito tip in lamports (default: %d)", defaults.Relay.TipLamports))
	flags.Uint64Var(&a.flags.priorityFee, "priority-fee", 0, "Priority fee in micro-lamports per compute unit")
	flags.StringVar(&a.flags.keypair, "keypair", "", fmt.Sprintf("Keypair file or base58 secret (default: first entry of %s)", defaults.WalletsFile))
	flags.StringVar(&a.flags.logLevel, "log-level", "", fmt.Sprintf("Log level: debug, info, warn, error (default: %s)", defaults.Log.Level))
	flags.StringVar(&a.flags.metricsListen, "metrics-listen", "", "Serve Prometheus metrics on this address, e.g. 127.0.0.1:9464")
	flags.BoolVar(&a.flags.noColor, "no-color", false, "Disable colored output")
	flags.BoolVarP(&a.flags.verbose, "verbose", "v", false, "Print debug output")

	rootCmd.AddCommand(
		newTransferCmd(a),
		newBalanceCmd(a),
		newAddressCmd(a),
		newProofCmd(a),
		newConfigCmd(a),
		version.NewCmd("ore", ore.ProgramID.String()),
	)

	return rootCmd
}

// setup loads configuration (defaults < file < env < flags) and builds the
// logger and metrics registry.
func (a *app) setup(cmd *cobra.Command) error {
	loader := config.NewLoader(a.flags.configPath).WithEnvironment(a.environ)
	cfg, err := loader.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	a.applyFlagOverrides(cmd, cfg)

	if err := config.Validate(cfg); err != nil {
		return err
	}
	a.cfg = cfg
	a.configPath = loader.Path()

	if a.flags.noColor {
		a.printer.SetNoColor(true)
	}
	a.printer.SetVerbose(a.flags.verbose)

	if cfg.Log.File == "" {
		a.logger = logging.NewWithWriter(a.stderr, cfg.Log)
	} else {
		a.logger, a.logCloser = logging.New(cfg.Log)
	}

	a.registry = prometheus.NewRegistry()
	a.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	a.metrics = sender.NewMetrics(a.registry)

	if cfg.Metrics.Listen != "" {
		if err := a.startMetrics(cfg.Metrics.Listen); err != nil {
			return err
		}
	}

	a.logger.Debug("configuration loaded", "path", a.configPath, "rpc", cfg.RPC.URL, "relay", cfg.Relay.Enabled)
	return nil
}

// applyFlagOverrides applies CLI flags to config (highest priority).
func (a *app) applyFlagOverrides(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("rpc") {
		cfg.RPC.URL = a.flags.rpcURL
	}
	if flags.Changed("jito-client") {
		cfg.Relay.URL = a.flags.relayURL
	}
	if flags.Changed("jito-enable") {
		cfg.Relay.Enabled = a.flags.relayEnabled
	}
	if flags.Changed("jito-fee") {
		cfg.Relay.TipLamports = a.flags.relayTip
	}
	if flags.Changed("priority-fee") {
		cfg.Fees.PriorityFee = a.flags.priorityFee
	}
	if flags.Changed("keypair") {
		cfg.Keypair = a.flags.keypair
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = a.flags.logLevel
	}
	if flags.Changed("metrics-listen") {
		cfg.Metrics.Listen = a.flags.metricsListen
	}
}

// startMetrics serves the registry on addr until close.
func (a *app) startMetrics(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen for metrics on %s: %w", addr, err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(a.registry, promhttp.HandlerOpts{}))

	a.metricsAddr = ln.Addr().String()
	a.metricsServer = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := a.metricsServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error("metrics server stopped", "error", err)
		}
	}()
	a.logger.Info("serving metrics", "addr", a.metricsAddr)
	return nil
}

// close releases everything setup acquired. Safe to call more than once.
func (a *app) close() {
	if a.metricsServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		_ = a.metricsServer.Shutdown(ctx)
		cancel()
		a.metricsServer = nil
	}
	if a.logCloser != nil {
		_ = a.logCloser.Close()
		a.logCloser = nil
	}
}

// node returns a client for the configured primary endpoint.
func (a *app) node() *rpc.NodeClient {
	return rpc.NewNodeClient(a.cfg.RPC.URL, rpc.NodeOptions{
		Timeout:           a.cfg.RPC.Timeout,
		RequestsPerSecond: a.cfg.RPC.RequestsPerSecond,
		Burst:             a.cfg.RPC.Burst,
		Logger:            a.logger,
	})
}

// newSender wires the engine to the primary node and, when enabled, the relay.
// The returned func releases the relay connection.
func (a *app) newSender(ctx context.Context, node ledger.Node) (*sender.Sender, func(), error) {
	engine := a.cfg.Engine()
	engine.Logger = a.logger
	engine.Metrics = a.metrics

	if !a.cfg.Relay.Enabled {
		return sender.New(node, nil, engine), func() {}, nil
	}

	relay, err := rpc.NewRelayClient(ctx, a.cfg.Relay.URL, a.cfg.Relay.Timeout, a.logger)
	if err != nil {
		return nil, nil, err
	}
	return sender.New(node, relay, engine), relay.Close, nil
}

// signer resolves the configured keypair.
func (a *app) signer() (sender.Signer, error) {
	key, err := wallet.Resolve(a.cfg.Keypair, a.cfg.WalletsFile)
	if err != nil {
		return nil, err
	}
	return key, nil
}
