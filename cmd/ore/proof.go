// cmd/ore/proof.go
package main

import (
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/spf13/cobra"

	"github.com/Jaxiii/ore-cli/internal/infrastructure/rpc"
	"github.com/Jaxiii/ore-cli/internal/proof"
	"github.com/Jaxiii/ore-cli/pkg/ore"
)

func newProofCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "proof",
		Short: "Manage the recorded proof fingerprint",
		Long: `The proof fingerprint is the last known hash of the miner's proof account.
transfer --stale-check abandons a submission once it changes.`,
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Print the recorded fingerprint",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				token, err := proof.NewFileStore(a.cfg.ProofFile).Current(cmd.Context())
				if err != nil {
					return err
				}
				a.printer.Result(displayToken(token))
				return nil
			},
		},
		&cobra.Command{
			Use:   "record <hash>",
			Short: "Record a fingerprint",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				hash, err := solana.HashFromBase58(args[0])
				if err != nil {
					return fmt.Errorf("invalid proof hash %q: %w", args[0], err)
				}
				store := proof.NewFileStore(a.cfg.ProofFile)
				if err := store.Write(hash.String()); err != nil {
					return err
				}
				a.printer.Success("Recorded %s in %s", hash, store.Path())
				return nil
			},
		},
		&cobra.Command{
			Use:   "sync [authority]",
			Short: "Fetch the on-chain proof and record its fingerprint",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				authority, err := a.addressArg(args)
				if err != nil {
					return err
				}
				addrs, err := ore.NewAddresses(cmd.Context())
				if err != nil {
					return err
				}
				defer addrs.Close()

				proofAddr, err := addrs.Proof(authority)
				if err != nil {
					return err
				}
				data, err := a.node().AccountData(cmd.Context(), proofAddr)
				if errors.Is(err, rpc.ErrAccountNotFound) {
					return fmt.Errorf("no proof account for %s at %s", authority, proofAddr)
				}
				if err != nil {
					return err
				}
				p, err := ore.DecodeProof(data)
				if err != nil {
					return err
				}

				store := proof.NewFileStore(a.cfg.ProofFile)
				if err := store.Write(p.Fingerprint()); err != nil {
					return err
				}

				a.printer.Heading("Proof")
				a.printer.Field("Account", proofAddr)
				a.printer.Field("Authority", p.Authority)
				a.printer.Field("Hash", p.Hash)
				a.printer.Field("Total hashes", p.TotalHashes)
				a.printer.Field("Claimable", p.ClaimableRewards)
				a.printer.Success("Recorded fingerprint in %s", store.Path())
				return nil
			},
		},
	)

	return cmd
}
