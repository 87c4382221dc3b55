// cmd/ore/balance.go
package main

import (
	"fmt"
	"strconv"

	"github.com/gagliardetto/solana-go"
	"github.com/spf13/cobra"

	"github.com/Jaxiii/ore-cli/pkg/ledger"
)

func newBalanceCmd(a *app) *cobra.Command {
	var raw bool

	cmd := &cobra.Command{
		Use:   "balance [address]",
		Short: "Show the SOL balance of an account",
		Long:  "Show the SOL balance of address, or of the configured keypair when omitted.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			owner, err := a.addressArg(args)
			if err != nil {
				return err
			}

			lamports, err := a.node().Balance(cmd.Context(), owner)
			if err != nil {
				return fmt.Errorf("failed to read balance of %s: %w", owner, err)
			}

			if raw {
				a.printer.Result(strconv.FormatUint(lamports, 10))
				return nil
			}
			a.printer.Result(ledger.FormatSOL(lamports) + " SOL")
			return nil
		},
	}

	cmd.Flags().BoolVar(&raw, "lamports", false, "Print the balance in lamports")

	return cmd
}

// addressArg parses the optional address argument, defaulting to the signer.
func (a *app) addressArg(args []string) (solana.PublicKey, error) {
	if len(args) > 0 {
		pk, err := solana.PublicKeyFromBase58(args[0])
		if err != nil {
			return solana.PublicKey{}, fmt.Errorf("invalid address %q: %w", args[0], err)
		}
		return pk, nil
	}
	signer, err := a.signer()
	if err != nil {
		return solana.PublicKey{}, err
	}
	return signer.PublicKey(), nil
}
