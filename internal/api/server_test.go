package api_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github/chapool/hd-wallet/internal/api"
	"github/chapool/hd-wallet/internal/config"
	"github/chapool/hd-wallet/internal/wallet/node"
)

func memoryConfig() config.Server {
	cfg := config.DefaultServiceConfigFromEnv()
	cfg.Wallet.StoreDriver = config.StoreDriverMemory
	cfg.Wallet.NodeURLs = []string{"http://127.0.0.1:1"}

	return cfg
}

func TestInitNewServer(t *testing.T) {
	s, err := api.InitNewServer(t.Context(), memoryConfig())
	require.NoError(t, err)

	defer func() {
		assert.Empty(t, s.Shutdown(t.Context()))
	}()

	// Echo and Router are skipped until router.Init
	assert.True(t, s.Ready())
	assert.IsType(t, &node.RPCClient{}, s.Node)
	require.NoError(t, s.Store.Ping(t.Context()))

	_, err = s.Registry.Gather()
	require.NoError(t, err)
}

func TestInitNewServerRequiresNodeURL(t *testing.T) {
	cfg := memoryConfig()
	cfg.Wallet.NodeURLs = nil

	_, err := api.InitNewServer(t.Context(), cfg)
	require.Error(t, err)
}

func TestNewServerIsNotReady(t *testing.T) {
	assert.False(t, api.NewServer(memoryConfig()).Ready())
}
