//go:build wireinject

package api

import (
	"context"

	"github.com/google/wire"
	"github.com/prometheus/client_golang/prometheus"
	"github/chapool/hd-wallet/internal/config"
	"github/chapool/hd-wallet/internal/metrics"
	"github/chapool/hd-wallet/internal/wallet"
	"github/chapool/hd-wallet/internal/wallet/node"
	"github/chapool/hd-wallet/internal/wallet/store"
)

// INJECTORS - https://github.com/google/wire/blob/main/docs/guide.md#injectors

// componentSet groups the providers shared by every server, independent of where
// the store and node come from.
var componentSet = wire.NewSet(
	newServerWithComponents,
	NewRegistry,
	wire.Bind(new(prometheus.Registerer), new(*prometheus.Registry)),
	metrics.NewWallet,
	NewWalletConfig,
	NewWalletService,
)

var nodeSet = wire.NewSet(
	NewNode,
	wire.Bind(new(wallet.Node), new(*node.RPCClient)),
)

// InitNewServer returns a new Server instance with the store and node opened as configured.
func InitNewServer(
	ctx context.Context,
	cfg config.Server,
) (*Server, error) {
	wire.Build(componentSet, nodeSet, NewStore)
	return new(Server), nil
}

// InitNewServerWithComponents returns a new Server instance around the given store and node.
// All the other components are initialized via go wire according to the configuration.
func InitNewServerWithComponents(
	cfg config.Server,
	st store.Store,
	n wallet.Node,
) (*Server, error) {
	wire.Build(componentSet)
	return new(Server), nil
}
