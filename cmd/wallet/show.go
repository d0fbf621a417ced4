package wallet

import (
	"context"

	"github.com/spf13/cobra"
	"github/chapool/hd-wallet/internal/api"
	"github/chapool/hd-wallet/internal/config"
	"github/chapool/hd-wallet/internal/util/command"
)

func newShow() *cobra.Command {
	return &cobra.Command{
		Use:   "show <address>",
		Short: "Shows a stored wallet and its balance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return command.WithServer(cmd.Context(), config.DefaultServiceConfigFromEnv(), func(ctx context.Context, s *api.Server) error {
				w, err := s.Wallet.GetWithBalance(ctx, args[0])
				if err != nil {
					return err
				}

				return printJSON(cmd, toOutputWithBalance(w))
			})
		},
	}
}
