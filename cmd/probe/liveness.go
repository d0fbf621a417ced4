package probe

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github/chapool/hd-wallet/internal/api"
	"github/chapool/hd-wallet/internal/api/handlers/common"
	"github/chapool/hd-wallet/internal/config"
	"github/chapool/hd-wallet/internal/util/command"
)

func newLiveness() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "liveness",
		Short: "Runs liveness probes",
		Long:  `Pings the wallet store and asks the node for its chain id. Exits 1 when a check fails.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			verbose, err := cmd.Flags().GetBool(verboseFlag)
			if err != nil {
				return err
			}

			return livenessCmdFunc(cmd.Context(), verbose)
		},
	}

	cmd.Flags().BoolP(verboseFlag, "v", false, "Show verbose output.")

	return cmd
}

//nolint:forbidigo // probe output goes to stdout
func livenessCmdFunc(ctx context.Context, verbose bool) error {
	cfg := config.DefaultServiceConfigFromEnv()

	healthy := false
	err := command.WithServer(ctx, cfg, func(ctx context.Context, s *api.Server) error {
		probeCtx, cancel := context.WithTimeout(ctx, cfg.Management.ProbeTimeout)
		defer cancel()

		str, errs := common.ProbeLiveness(probeCtx, s)
		if verbose {
			fmt.Println(str)
		}

		healthy = len(errs) == 0

		return nil
	})

	if err != nil || !healthy {
		os.Exit(1)
	}

	return nil
}
