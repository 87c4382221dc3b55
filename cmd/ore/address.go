// cmd/ore/address.go
package main

import (
	"github.com/spf13/cobra"

	"github.com/Jaxiii/ore-cli/pkg/ore"
)

func newAddressCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "address",
		Short: "Derive program addresses",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "proof [authority]",
			Short: "Print the proof account of authority (default: the configured keypair)",
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
				a.printer.Result(proofAddr.String())
				return nil
			},
		},
		&cobra.Command{
			Use:   "treasury",
			Short: "Print the treasury and its token account",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				addrs, err := ore.NewAddresses(cmd.Context())
				if err != nil {
					return err
				}
				defer addrs.Close()

				treasury, err := addrs.Treasury()
				if err != nil {
					return err
				}
				tokens, err := addrs.TreasuryTokens()
				if err != nil {
					return err
				}
				a.printer.Field("Treasury", treasury)
				a.printer.Field("Tokens", tokens)
				a.printer.Field("Mint", ore.MintAddress)
				return nil
			},
		},
	)

	return cmd
}
