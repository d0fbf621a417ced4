// Package signer signs native value transfers with EIP-155 replay protection.
package signer

import (
	"encoding/hex"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
)

// SignLegacyTransfer signs transfer with the hex encoded private key. from must be the
// address of that key.
func SignLegacyTransfer(transfer *LegacyTransfer, privateKeyHex string, from common.Address) (*Signed, error) {
	if transfer == nil || transfer.ChainID == nil || transfer.GasPrice == nil || transfer.Value == nil {
		return nil, errors.New("incomplete transfer")
	}

	privateKey, err := hex.DecodeString(strings.TrimPrefix(privateKeyHex, "0x"))
	if err != nil {
		return nil, errors.Wrap(err, "failed to decode private key")
	}

	defer func() {
		for i := range privateKey {
			privateKey[i] = 0
		}
	}()

	ecdsaPrivateKey, err := crypto.ToECDSA(privateKey)
	if err != nil {
		return nil, errors.Wrap(err, "failed to convert private key to ECDSA")
	}

	if derived := crypto.PubkeyToAddress(ecdsaPrivateKey.PublicKey); derived != from {
		return nil, errors.New("from address does not match private key")
	}

	to := transfer.To

	//nolint:varnamelen // tx is a common abbreviation for transaction
	tx := types.NewTx(&types.LegacyTx{
		Nonce:    transfer.Nonce,
		GasPrice: transfer.GasPrice,
		Gas:      transfer.GasLimit,
		To:       &to,
		Value:    transfer.Value,
		Data:     nil,
	})

	signedTx, err := types.SignTx(tx, types.NewEIP155Signer(transfer.ChainID), ecdsaPrivateKey)
	if err != nil {
		return nil, errors.Wrap(err, "failed to sign transaction")
	}

	txBytes, err := signedTx.MarshalBinary()
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal transaction")
	}

	return &Signed{
		RawTransaction: txBytes,
		TxHash:         signedTx.Hash().Hex(),
		From:           from,
	}, nil
}
