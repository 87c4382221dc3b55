// cmd/ore/transfer.go
package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/system"
	"github.com/spf13/cobra"

	"github.com/Jaxiii/ore-cli/internal/config"
	"github.com/Jaxiii/ore-cli/internal/infrastructure/rpc"
	"github.com/Jaxiii/ore-cli/internal/proof"
	"github.com/Jaxiii/ore-cli/internal/sender"
	"github.com/Jaxiii/ore-cli/pkg/ledger"
)

type transferOptions struct {
	dynamicBudget bool
	skipConfirm   bool
	yes           bool
	staleCheck    bool
	unitLimit     uint32
}

func newTransferCmd(a *app) *cobra.Command {
	var opts transferOptions

	cmd := &cobra.Command{
		Use:   "transfer <to> <lamports>",
		Short: "Send lamports and wait for the transfer to land",
		Long: `Builds a system transfer signed by the configured keypair and hands it to
the submission engine. With --stale-check the transfer is abandoned as soon as
the recorded proof fingerprint changes.`,
		Example: `  ore transfer 9xQeWvG816bUx9EPjHmaT23yvVM2ZWbrrpZb9PusVFin 1000000 --yes
  ore transfer <to> 5000 --dynamic-budget --priority-fee 10000 --jito-enable`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runTransfer(cmd.Context(), args[0], args[1], opts)
		},
	}

	cmd.Flags().BoolVar(&opts.dynamicBudget, "dynamic-budget", false, "Size the compute limit from a simulation")
	cmd.Flags().BoolVar(&opts.skipConfirm, "skip-confirm", false, "Return once the node accepts, without waiting for confirmation")
	cmd.Flags().BoolVarP(&opts.yes, "yes", "y", false, "Do not ask for confirmation")
	cmd.Flags().BoolVar(&opts.staleCheck, "stale-check", false, "Abort when the recorded proof fingerprint changes")
	cmd.Flags().Uint32Var(&opts.unitLimit, "compute-unit-limit", 0, "Static compute unit limit (ignored with --dynamic-budget)")

	return cmd
}

func (a *app) runTransfer(ctx context.Context, toArg, amountArg string, opts transferOptions) error {
	to, err := solana.PublicKeyFromBase58(toArg)
	if err != nil {
		return fmt.Errorf("invalid recipient %q: %w", toArg, err)
	}
	lamports, err := strconv.ParseUint(amountArg, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid amount %q: %w", amountArg, err)
	}
	if lamports == 0 {
		return fmt.Errorf("amount must be greater than zero")
	}

	signer, err := a.signer()
	if err != nil {
		return err
	}
	payer := signer.PublicKey()

	node := a.node()
	balance, err := node.Balance(ctx, payer)
	if err != nil {
		return fmt.Errorf("failed to read balance of %s: %w", payer, err)
	}

	ixs := []solana.Instruction{
		system.NewTransferInstruction(lamports, payer, to).Build(),
	}
	ixs = appendTip(ixs, a.cfg.Relay, payer, rpc.RandomTipAccount)

	req := sender.Request{
		Instructions:     ixs,
		Signer:           signer,
		UnitPrice:        a.cfg.Fees.PriorityFee,
		UnitLimit:        a.cfg.Fees.ComputeUnitLimit,
		DynamicBudget:    opts.dynamicBudget || a.cfg.Fees.DynamicBudget,
		SkipConfirmation: opts.skipConfirm,
	}
	if opts.unitLimit > 0 {
		req.UnitLimit = opts.unitLimit
	}

	if opts.staleCheck {
		store := proof.NewFileStore(a.cfg.ProofFile)
		expected, err := store.Current(ctx)
		if err != nil {
			return err
		}
		req.Staleness = &sender.Staleness{Expected: expected, Source: store}
	}

	a.printTransferSummary(payer, to, lamports, balance, &req)

	if !opts.yes {
		if err := a.confirmer.Confirm("Send transaction"); err != nil {
			return err
		}
	}

	s, release, err := a.newSender(ctx, node)
	if err != nil {
		return err
	}
	defer release()

	sig, err := s.Send(ctx, req)
	a.drainRelay(ctx, s)
	if err != nil {
		return err
	}

	if opts.skipConfirm {
		a.printer.Success("Transaction accepted by %s", node.Endpoint())
	} else {
		a.printer.Success("Transaction landed")
	}
	a.printer.Result(sig.String())
	return nil
}

// drainRelay gives relay sends still in flight up to the relay timeout before
// the process exits. With --skip-confirm the last one is usually still open.
func (a *app) drainRelay(ctx context.Context, s *sender.Sender) {
	if !a.cfg.Relay.Enabled {
		return
	}
	if a.cfg.Relay.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.cfg.Relay.Timeout)
		defer cancel()
	}
	if err := s.Drain(ctx); err != nil {
		a.logger.Debug("relay send still pending at exit", "error", err)
	}
}

func (a *app) printTransferSummary(from, to solana.PublicKey, lamports, balance uint64, req *sender.Request) {
	tip := uint64(0)
	if a.cfg.Relay.Enabled {
		tip = a.cfg.Relay.TipLamports
	}

	a.printer.Heading("Transfer")
	a.printer.Field("From", from)
	a.printer.Field("To", to)
	a.printer.Field("Amount", ledger.FormatSOL(lamports)+" SOL")
	if tip > 0 {
		a.printer.Field("Jito tip", ledger.FormatSOL(tip)+" SOL")
	}
	switch {
	case req.DynamicBudget:
		a.printer.Field("Compute", fmt.Sprintf("simulated, %d µlamports/CU", req.UnitPrice))
	case req.UnitLimit > 0:
		fee := ledger.PriorityFee(req.UnitLimit, req.UnitPrice)
		a.printer.Field("Compute", fmt.Sprintf("%d CU at %d µlamports/CU (max %s SOL)",
			req.UnitLimit, req.UnitPrice, ledger.FormatSOL(fee.Uint64())))
	case req.UnitPrice > 0:
		a.printer.Field("Compute", fmt.Sprintf("default limit, %d µlamports/CU", req.UnitPrice))
	}
	a.printer.Field("Balance", ledger.FormatSOL(balance)+" SOL")
	if req.Staleness != nil {
		a.printer.Field("Proof", displayToken(req.Staleness.Expected))
	}

	if balance < lamports+tip {
		a.printer.Warn("balance %s SOL does not cover %s SOL", ledger.FormatSOL(balance), ledger.FormatSOL(lamports+tip))
	}
}

// appendTip adds a transfer to a relay tip account when the relay is enabled
// with a non-zero tip.
func appendTip(ixs []solana.Instruction, relay config.RelayConfig, payer solana.PublicKey, pick func() solana.PublicKey) []solana.Instruction {
	if !relay.Enabled || relay.TipLamports == 0 {
		return ixs
	}
	return append(ixs, system.NewTransferInstruction(relay.TipLamports, payer, pick()).Build())
}

func displayToken(token string) string {
	if token == "" {
		return "(none)"
	}
	return token
}
