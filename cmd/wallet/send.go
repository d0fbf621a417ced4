package wallet

import (
	"context"

	"github.com/spf13/cobra"
	"github/chapool/hd-wallet/internal/api"
	"github/chapool/hd-wallet/internal/config"
	"github/chapool/hd-wallet/internal/util/command"
	"github/chapool/hd-wallet/internal/wallet"
	"github/chapool/hd-wallet/internal/wallet/balance"
)

func newSend() *cobra.Command {
	return &cobra.Command{
		Use:   "send <from> <to> <amount>",
		Short: "Sends ether from a stored wallet",
		Long:  `Signs and submits a native transfer of <amount> ether. The transaction hash is printed as returned by the node.`,
		Args:  cobra.ExactArgs(3), //nolint:mnd // from, to, amount
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := balance.Parse(args[2])
			if err != nil {
				return err
			}

			return command.WithServer(cmd.Context(), config.DefaultServiceConfigFromEnv(), func(ctx context.Context, s *api.Server) error {
				result, err := s.Wallet.Send(ctx, args[0], wallet.SendRequest{To: args[1], Amount: amount})
				if err != nil {
					return err
				}

				return printJSON(cmd, map[string]string{
					"transaction_id": result.TransactionID,
					"explorer_url":   result.ExplorerURL,
				})
			})
		},
	}
}
