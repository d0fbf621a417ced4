package wallet

import (
	"github.com/spf13/cobra"
	"github/chapool/hd-wallet/internal/config"
	"github/chapool/hd-wallet/internal/wallet/address"
	"github/chapool/hd-wallet/internal/wallet/seed"
)

const (
	leafFlag = "leaf"
	pathFlag = "path"
)

type deriveOutput struct {
	Address    string `json:"address"`
	PrivateKey string `json:"private_key"`
	Path       string `json:"path"`
}

func newDerive() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "derive",
		Short: "Derives a key offline without storing it",
		RunE: func(cmd *cobra.Command, _ []string) error {
			mnemonic, err := mnemonicFromFlags(cmd)
			if err != nil {
				return err
			}
			if mnemonic == nil {
				return cmd.Help()
			}

			leaf, err := cmd.Flags().GetUint32(leafFlag)
			if err != nil {
				return err
			}

			path, err := cmd.Flags().GetString(pathFlag)
			if err != nil {
				return err
			}

			cfg := config.DefaultServiceConfigFromEnv()
			svc := address.NewService(seed.ValidationMode(cfg.Wallet.MnemonicValidation))

			root, err := svc.DeriveRoot(seed.NormalizeMnemonic(*mnemonic))
			if err != nil {
				return err
			}

			var key *address.LeafKey
			if path != "" {
				key, err = svc.DerivePath(root, path)
			} else {
				key, err = svc.DeriveLeaf(root, address.DefaultAccount, leaf)
			}
			if err != nil {
				return err
			}

			return printJSON(cmd, &deriveOutput{Address: key.Address, PrivateKey: key.PrivateKey, Path: key.Path})
		},
	}

	cmd.Flags().String(mnemonicFlag, "", "Recovery phrase to derive from")
	cmd.Flags().Bool(promptFlag, false, "Read the recovery phrase from the terminal without echo")
	cmd.Flags().Uint32(leafFlag, 0, "Leaf index of m/44'/60'/0'/0/<leaf>")
	cmd.Flags().String(pathFlag, "", "Full derivation path, overrides --leaf")
	cmd.MarkFlagsMutuallyExclusive(mnemonicFlag, promptFlag)

	return cmd
}
