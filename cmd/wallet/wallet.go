package wallet

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"github/chapool/hd-wallet/internal/util/command"
)

func New() *cobra.Command {
	return command.NewSubcommandGroup("wallet",
		newCreate(),
		newShow(),
		newList(),
		newSend(),
		newDerive(),
	)
}

// printJSON writes v as indented JSON to the command's output.
func printJSON(cmd *cobra.Command, v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))

	return err
}
