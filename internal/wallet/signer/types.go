package signer

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// LegacyTransfer describes a native value transfer signed as a legacy (type 0) transaction.
type LegacyTransfer struct {
	ChainID  *big.Int
	Nonce    uint64
	GasLimit uint64
	GasPrice *big.Int // wei
	To       common.Address
	Value    *big.Int // wei
}

// Signed is an RLP encoded signed transaction ready for eth_sendRawTransaction.
type Signed struct {
	RawTransaction []byte
	TxHash         string // locally computed, 0x prefixed
	From           common.Address
}
