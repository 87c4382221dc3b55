// cmd/ore/config.go
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Jaxiii/ore-cli/internal/config"
)

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect configuration",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show effective configuration",
		Long:  `Displays the effective configuration after merging defaults, file, environment variables and flags, as TOML.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			source := a.configPath
			if source == "" {
				source = "defaults and environment"
			}
			fmt.Fprintf(a.stdout, "# source: %s\n", source)
			return config.Encode(a.stdout, a.cfg)
		},
	})

	return cmd
}
