package wallet

import (
	"context"
	"math/big"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// VerifyChainID compares the node's chain id with the configured one. A mismatch is only
// logged: transactions are always signed for the configured chain.
func VerifyChainID(ctx context.Context, node Node, configured *big.Int) (bool, error) {
	log := log.With().Str("component", "chain_verification").Logger()

	reported, err := node.ChainID(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("Could not query node chain id")
		return false, errors.Wrap(err, "failed to query node chain id")
	}

	if reported.Cmp(configured) != 0 {
		log.Warn().
			Str("configured", configured.String()).
			Str("node", reported.String()).
			Msg("Node chain id differs from configured chain id, transactions are signed for the configured chain")
		return false, nil
	}

	log.Info().Str("chain_id", configured.String()).Msg("Node chain id verified")
	return true, nil
}
