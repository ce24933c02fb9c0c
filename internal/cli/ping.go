package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	jsonregister "github.com/telicent-oss/go-json-register"
)

// NewPingCommand checks connectivity against the configured store.
func NewPingCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Check connectivity to the configured store",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := LoadConfig(opts.ConfigPath)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			reg, err := jsonregister.New(ctx, cfg, jsonregister.WithLogger(opts.Logger()))
			if err != nil {
				return err
			}
			defer reg.Close()

			if err := reg.Ping(ctx); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "ok")
			return nil
		},
	}
}
