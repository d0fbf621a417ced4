package wallet

import (
	"context"

	"github.com/spf13/cobra"
	"github/chapool/hd-wallet/internal/api"
	"github/chapool/hd-wallet/internal/config"
	"github/chapool/hd-wallet/internal/util/command"
)

const (
	limitFlag  = "limit"
	offsetFlag = "offset"
)

func newList() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Lists stored wallets in creation order",
		RunE: func(cmd *cobra.Command, _ []string) error {
			limit, err := cmd.Flags().GetInt(limitFlag)
			if err != nil {
				return err
			}

			offset, err := cmd.Flags().GetInt(offsetFlag)
			if err != nil {
				return err
			}

			return command.WithServer(cmd.Context(), config.DefaultServiceConfigFromEnv(), func(ctx context.Context, s *api.Server) error {
				wallets, err := s.Wallet.List(ctx, limit, offset)
				if err != nil {
					return err
				}

				out := make([]*walletOutput, 0, len(wallets))
				for _, w := range wallets {
					out = append(out, toOutput(w))
				}

				return printJSON(cmd, out)
			})
		},
	}

	cmd.Flags().Int(limitFlag, 0, "Maximum number of wallets (default from WALLET_LIST_DEFAULT_LIMIT)")
	cmd.Flags().Int(offsetFlag, 0, "Number of wallets to skip")

	return cmd
}
