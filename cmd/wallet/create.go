package wallet

import (
	"context"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github/chapool/hd-wallet/internal/api"
	"github/chapool/hd-wallet/internal/config"
	"github/chapool/hd-wallet/internal/util/command"
	"github/chapool/hd-wallet/internal/wallet"
)

const (
	mnemonicFlag = "mnemonic"
	promptFlag   = "prompt"
)

func newCreate() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Creates the next wallet of a mnemonic",
		Long: `Derives and stores the next wallet of a mnemonic. Without --mnemonic or --prompt
a new 12-word mnemonic is generated.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			mnemonic, err := mnemonicFromFlags(cmd)
			if err != nil {
				return err
			}

			return command.WithServer(cmd.Context(), config.DefaultServiceConfigFromEnv(), func(ctx context.Context, s *api.Server) error {
				w, err := s.Wallet.Create(ctx, mnemonic)
				if err != nil {
					return err
				}

				return printJSON(cmd, toOutput(w))
			})
		},
	}

	cmd.Flags().String(mnemonicFlag, "", "Recovery phrase to derive from (visible in shell history, prefer --prompt)")
	cmd.Flags().Bool(promptFlag, false, "Read the recovery phrase from the terminal without echo")
	cmd.MarkFlagsMutuallyExclusive(mnemonicFlag, promptFlag)

	return cmd
}

func mnemonicFromFlags(cmd *cobra.Command) (*string, error) {
	prompt, err := cmd.Flags().GetBool(promptFlag)
	if err != nil {
		return nil, err
	}

	if prompt {
		phrase, err := wallet.PromptMnemonic("Enter mnemonic: ")
		if err != nil {
			return nil, errors.Wrap(err, "failed to read mnemonic")
		}

		return &phrase, nil
	}

	phrase, err := cmd.Flags().GetString(mnemonicFlag)
	if err != nil {
		return nil, err
	}

	if phrase == "" {
		return nil, nil
	}

	return &phrase, nil
}
