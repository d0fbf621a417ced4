package address

import (
	"encoding/hex"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
	"github.com/tyler-smith/go-bip32"
	"github/chapool/hd-wallet/internal/wallet/seed"
)

const privateKeyLength = 32

// RootKey is the BIP-32 master key of a mnemonic.
type RootKey struct {
	key *bip32.Key
}

type service struct {
	validation seed.ValidationMode
	passphrase string
}

// NewService creates a derivation service. Phrases are checked according to validation;
// the BIP-39 passphrase is always empty.
//
//nolint:ireturn // Returning interface is intentional for dependency injection
func NewService(validation seed.ValidationMode) Service {
	return &service{
		validation: validation,
		passphrase: "",
	}
}

// DeriveRoot returns the master key of mnemonic. Malformed phrases fail with seed.ErrInvalidMnemonic.
func (s *service) DeriveRoot(mnemonic string) (*RootKey, error) {
	if err := seed.ValidateMnemonic(mnemonic, s.validation); err != nil {
		return nil, err
	}

	seedBytes := seed.FromMnemonic(mnemonic, s.passphrase)
	defer seed.Clear(seedBytes)

	masterKey, err := bip32.NewMasterKey(seedBytes)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create master key")
	}

	return &RootKey{key: masterKey}, nil
}

// DeriveLeaf derives the wallet key at m/44'/60'/account'/0/leaf.
func (s *service) DeriveLeaf(root *RootKey, account uint32, leaf uint32) (*LeafKey, error) {
	if account >= bip32.FirstHardenedChild || leaf >= bip32.FirstHardenedChild {
		return nil, errors.Errorf("account %d / leaf %d out of range", account, leaf)
	}

	return s.deriveIndices(root, BIP44Path(account, leaf),
		PurposeBIP44,
		CoinTypeEther,
		bip32.FirstHardenedChild+account,
		ChangeExternal,
		leaf,
	)
}

// Derive derives the leaf of DefaultAccount directly from a mnemonic.
func (s *service) Derive(mnemonic string, leaf uint32) (*LeafKey, error) {
	root, err := s.DeriveRoot(mnemonic)
	if err != nil {
		return nil, err
	}

	return s.DeriveLeaf(root, DefaultAccount, leaf)
}

// DerivePath derives the key at an arbitrary path.
func (s *service) DerivePath(root *RootKey, path string) (*LeafKey, error) {
	indices, err := ParsePath(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse BIP44 path")
	}

	return s.deriveIndices(root, path, indices...)
}

func (s *service) deriveIndices(root *RootKey, path string, indices ...uint32) (*LeafKey, error) {
	if root == nil || root.key == nil {
		return nil, errors.New("root key is nil")
	}

	key := root.key
	for _, index := range indices {
		child, err := key.NewChildKey(index)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to derive child key at index %d", index)
		}
		key = child
	}

	privateKey := privateKeyBytes(key)
	defer func() {
		for i := range privateKey {
			privateKey[i] = 0
		}
	}()

	ecdsaPrivateKey, err := crypto.ToECDSA(privateKey)
	if err != nil {
		return nil, errors.Wrap(err, "failed to convert to ECDSA private key")
	}

	return &LeafKey{
		Address:    crypto.PubkeyToAddress(ecdsaPrivateKey.PublicKey).Hex(),
		PrivateKey: hex.EncodeToString(crypto.FromECDSA(ecdsaPrivateKey)),
		Path:       path,
	}, nil
}

// privateKeyBytes returns a 32-byte copy of the key's secret. bip32 may hand out the
// 33-byte serialised form or a value shorter than 32 bytes.
func privateKeyBytes(key *bip32.Key) []byte {
	raw := key.Key
	if len(raw) == privateKeyLength+1 && raw[0] == 0 {
		raw = raw[1:]
	}

	return common.LeftPadBytes(raw, privateKeyLength)
}
