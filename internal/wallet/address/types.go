package address

// Service derives EVM key material from recovery phrases.
type Service interface {
	// DeriveRoot validates the mnemonic and returns its BIP-32 master key.
	DeriveRoot(mnemonic string) (*RootKey, error)

	// DeriveLeaf walks m/44'/60'/account'/0/leaf from the root key.
	DeriveLeaf(root *RootKey, account uint32, leaf uint32) (*LeafKey, error)

	// Derive is DeriveRoot followed by DeriveLeaf for DefaultAccount.
	Derive(mnemonic string, leaf uint32) (*LeafKey, error)

	// DerivePath derives the key at an arbitrary BIP-32 path such as "m/44'/60'/0'/0/7".
	DerivePath(root *RootKey, path string) (*LeafKey, error)
}

// LeafKey is the key material of one wallet. It is never persisted beyond the wallet record.
type LeafKey struct {
	Address    string // EIP-55 checksummed
	PrivateKey string // hex, no 0x prefix
	Path       string
}
