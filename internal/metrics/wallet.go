// Package metrics holds the prometheus collectors of the wallet engine.
package metrics

import (
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "wallet"

// Transfer results reported by TransferResult.
const (
	TransferSubmitted         = "submitted"
	TransferInsufficientFunds = "insufficient_funds"
	TransferFailed            = "failed"
)

// Wallet counts wallet lifecycle events. A nil *Wallet is a no-op.
type Wallet struct {
	created    prometheus.Counter
	transfers  *prometheus.CounterVec
	nodeErrors *prometheus.CounterVec
}

// NewWallet creates the collectors and registers them with reg.
func NewWallet(reg prometheus.Registerer) (*Wallet, error) {
	m := &Wallet{
		created: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "created_total",
			Help:      "Number of wallets created.",
		}),
		transfers: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transfers_total",
			Help:      "Number of transfer attempts that reached the fee check, by result.",
		}, []string{"result"}),
		nodeErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "node_errors_total",
			Help:      "Number of failed node calls, by operation.",
		}, []string{"op"}),
	}

	for _, c := range []prometheus.Collector{m.created, m.transfers, m.nodeErrors} {
		if err := reg.Register(c); err != nil {
			return nil, errors.Wrap(err, "failed to register wallet metrics")
		}
	}

	return m, nil
}

func (m *Wallet) WalletCreated() {
	if m == nil {
		return
	}

	m.created.Inc()
}

func (m *Wallet) TransferResult(result string) {
	if m == nil {
		return
	}

	m.transfers.WithLabelValues(result).Inc()
}

func (m *Wallet) NodeError(op string) {
	if m == nil {
		return
	}

	m.nodeErrors.WithLabelValues(op).Inc()
}
