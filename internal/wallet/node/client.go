// Package node talks to EVM JSON-RPC nodes.
package node

import (
	"context"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// DefaultTimeout applies to every call when no timeout is configured.
const DefaultTimeout = 10 * time.Second

// HealthCheckInterval is how long a successful health check or call keeps an endpoint
// trusted without another eth_chainId round trip.
const HealthCheckInterval = 15 * time.Second

var ErrAllNodesUnavailable = errors.New("all RPC nodes are unavailable")

type endpoint struct {
	url       string
	rpc       *rpc.Client
	eth       *ethclient.Client
	checkedAt time.Time
}

// RPCClient wraps one or more JSON-RPC endpoints. An endpoint is health checked with
// eth_chainId when it was not confirmed within HealthCheckInterval; on failure the next
// endpoint is tried. A transport error marks the endpoint for a new check. A call that
// reached a node is never re-issued on another one.
type RPCClient struct {
	endpoints []*endpoint
	timeout   time.Duration
	mu        sync.RWMutex
	current   int
}

// NewRPCClient creates a client for urls. Endpoints that cannot be dialed now are dialed
// again on use.
func NewRPCClient(ctx context.Context, urls []string, timeout time.Duration) (*RPCClient, error) {
	if len(urls) == 0 {
		return nil, errors.New("at least one RPC URL is required")
	}

	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	endpoints := make([]*endpoint, 0, len(urls))
	connected := 0

	for _, url := range urls {
		ep := &endpoint{url: url}
		if err := ep.dial(ctx); err != nil {
			log.Warn().Str("url", url).Err(err).Msg("Failed to connect to RPC node, will retry on use")
		} else {
			connected++
		}
		endpoints = append(endpoints, ep)
	}

	if connected == 0 {
		return nil, errors.New("failed to connect to any RPC node")
	}

	return &RPCClient{
		endpoints: endpoints,
		timeout:   timeout,
	}, nil
}

func (e *endpoint) dial(ctx context.Context) error {
	client, err := rpc.DialContext(ctx, e.url)
	if err != nil {
		return errors.Wrapf(err, "failed to dial %s", e.url)
	}

	e.rpc = client
	e.eth = ethclient.NewClient(client)

	return nil
}

// Close closes all endpoint connections.
func (c *RPCClient) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, ep := range c.endpoints {
		if ep.rpc != nil {
			ep.rpc.Close()
		}
	}
}

// ChainID returns the chain id reported by the node.
func (c *RPCClient) ChainID(ctx context.Context) (*big.Int, error) {
	var chainID *big.Int

	err := c.call(ctx, "failed to get chain ID", func(ctx context.Context, ep *endpoint) (err error) {
		chainID, err = ep.eth.ChainID(ctx)
		return err
	})

	return chainID, err
}

// BalanceAt returns the balance of address at the latest block.
func (c *RPCClient) BalanceAt(ctx context.Context, address common.Address) (*big.Int, error) {
	var balance *big.Int

	err := c.call(ctx, "failed to get balance", func(ctx context.Context, ep *endpoint) (err error) {
		balance, err = ep.eth.BalanceAt(ctx, address, nil)
		return err
	})

	return balance, err
}

// SuggestGasPrice returns the node's legacy gas price suggestion in wei.
func (c *RPCClient) SuggestGasPrice(ctx context.Context) (*big.Int, error) {
	var price *big.Int

	err := c.call(ctx, "failed to suggest gas price", func(ctx context.Context, ep *endpoint) (err error) {
		price, err = ep.eth.SuggestGasPrice(ctx)
		return err
	})

	return price, err
}

// EstimateGas estimates the gas limit of msg.
func (c *RPCClient) EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error) {
	var gas uint64

	err := c.call(ctx, "failed to estimate gas", func(ctx context.Context, ep *endpoint) (err error) {
		gas, err = ep.eth.EstimateGas(ctx, msg)
		return err
	})

	return gas, err
}

// PendingNonceAt returns the pending nonce for address.
func (c *RPCClient) PendingNonceAt(ctx context.Context, address common.Address) (uint64, error) {
	var nonce uint64

	err := c.call(ctx, "failed to get pending nonce", func(ctx context.Context, ep *endpoint) (err error) {
		nonce, err = ep.eth.PendingNonceAt(ctx, address)
		return err
	})

	return nonce, err
}

// SendRawTransaction submits a signed transaction and returns the hash reported by the node.
func (c *RPCClient) SendRawTransaction(ctx context.Context, raw []byte) (string, error) {
	var hash common.Hash

	err := c.call(ctx, "failed to send raw transaction", func(ctx context.Context, ep *endpoint) error {
		return ep.rpc.CallContext(ctx, &hash, "eth_sendRawTransaction", hexutil.Encode(raw))
	})
	if err != nil {
		return "", err
	}

	return hash.Hex(), nil
}

// call selects an endpoint and runs fn on it with its own timeout.
func (c *RPCClient) call(ctx context.Context, msg string, fn func(ctx context.Context, ep *endpoint) error) error {
	ep, err := c.endpoint(ctx)
	if err != nil {
		return err
	}

	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if err := fn(callCtx, ep); err != nil {
		// JSON-RPC errors come from a node that answered.
		var rpcErr rpc.Error
		if !errors.As(err, &rpcErr) {
			c.setChecked(ep, time.Time{})
		}

		return errors.Wrap(err, msg)
	}

	c.setChecked(ep, time.Now())

	return nil
}

// endpoint returns the first healthy endpoint starting at the current one. All health
// checks of one selection share a single timeout.
func (c *RPCClient) endpoint(ctx context.Context) (*endpoint, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	c.mu.RLock()
	start := c.current
	c.mu.RUnlock()

	for i := range c.endpoints {
		idx := (start + i) % len(c.endpoints)

		ep, err := c.healthy(ctx, idx)
		if err != nil {
			log.Warn().Str("url", c.endpoints[idx].url).Err(err).Msg("RPC node health check failed")
			continue
		}

		if idx != start {
			c.mu.Lock()
			c.current = idx
			c.mu.Unlock()
		}

		return ep, nil
	}

	return nil, ErrAllNodesUnavailable
}

func (c *RPCClient) healthy(ctx context.Context, idx int) (*endpoint, error) {
	c.mu.Lock()
	ep := c.endpoints[idx]
	if ep.rpc == nil {
		if err := ep.dial(ctx); err != nil {
			c.mu.Unlock()
			return nil, err
		}
	}
	fresh := !ep.checkedAt.IsZero() && time.Since(ep.checkedAt) < HealthCheckInterval
	c.mu.Unlock()

	if fresh {
		return ep, nil
	}

	if _, err := ep.eth.ChainID(ctx); err != nil {
		c.setChecked(ep, time.Time{})
		return nil, errors.Wrap(err, "health check failed")
	}

	c.setChecked(ep, time.Now())

	return ep, nil
}

func (c *RPCClient) setChecked(ep *endpoint, at time.Time) {
	c.mu.Lock()
	ep.checkedAt = at
	c.mu.Unlock()
}
