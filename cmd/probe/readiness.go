package probe

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github/chapool/hd-wallet/internal/api"
	"github/chapool/hd-wallet/internal/config"
	"github/chapool/hd-wallet/internal/util/command"
)

func newReadiness() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "readiness",
		Short: "Runs readiness probes",
		Long:  `Checks that all server components can be initialized. Exits 1 when they cannot.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			verbose, err := cmd.Flags().GetBool(verboseFlag)
			if err != nil {
				return err
			}

			return readinessCmdFunc(cmd.Context(), verbose)
		},
	}

	cmd.Flags().BoolP(verboseFlag, "v", false, "Show verbose output.")

	return cmd
}

//nolint:forbidigo // probe output goes to stdout
func readinessCmdFunc(ctx context.Context, verbose bool) error {
	err := command.WithServer(ctx, config.DefaultServiceConfigFromEnv(), func(_ context.Context, s *api.Server) error {
		if !s.Ready() {
			return fmt.Errorf("server components are not initialized")
		}

		return nil
	})

	if err != nil {
		if verbose {
			fmt.Printf("Not ready: %v\n", err)
		}
		os.Exit(1)
	}

	if verbose {
		fmt.Println("Ready.")
	}

	return nil
}
