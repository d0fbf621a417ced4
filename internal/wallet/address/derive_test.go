package address_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github/chapool/hd-wallet/internal/wallet/address"
	"github/chapool/hd-wallet/internal/wallet/seed"
)

const (
	hardhatMnemonic = "test test test test test test test test test test test junk"
	legacyMnemonic  = "alter phrase erupt aun glory media want aun noble tooth fine aun"
	abandonMnemonic = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"
)

func TestDeriveKnownVectors(t *testing.T) {
	tests := []struct {
		name       string
		mnemonic   string
		mode       seed.ValidationMode
		leaf       uint32
		address    string
		privateKey string
	}{
		{
			name:       "hardhat leaf 0",
			mnemonic:   hardhatMnemonic,
			mode:       seed.ValidationStrict,
			leaf:       0,
			address:    "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266",
			privateKey: "ac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80",
		},
		{
			name:       "hardhat leaf 1",
			mnemonic:   hardhatMnemonic,
			mode:       seed.ValidationStrict,
			leaf:       1,
			address:    "0x70997970C51812dc3A010C7d01b50e0d17dc79C8",
			privateKey: "59c6995e998f97a5a0044966f0945389dc9e86dae88c7a8412f4603b6b78690d",
		},
		{
			name:       "abandon leaf 0",
			mnemonic:   abandonMnemonic,
			mode:       seed.ValidationStrict,
			leaf:       0,
			address:    "0x9858EfFD232B4033E47d90003D41EC34EcaEda94",
			privateKey: "1ab42cc412b618bdea3a599e3c9bae199ebf030895b039e9db1e30dafb12b727",
		},
		{
			name:       "legacy leaf 0",
			mnemonic:   legacyMnemonic,
			mode:       seed.ValidationWords,
			leaf:       0,
			address:    "0x7e13F900472204F062c270B5E9Cb3CF127B08F18",
			privateKey: "42ba349b3c2120f30e4210c9086515b8e231a2047af84767b584ec35f7e25494",
		},
		{
			name:       "legacy leaf 1",
			mnemonic:   legacyMnemonic,
			mode:       seed.ValidationWords,
			leaf:       1,
			address:    "0x824627930c62aF8e8622cAd17Def8cB122290643",
			privateKey: "b7f2e9c115d51d8481b79d8854e5308dc83f41ebf6e6e50f45bda3efdf0fd0a5",
		},
		{
			name:       "legacy leaf 2",
			mnemonic:   legacyMnemonic,
			mode:       seed.ValidationWords,
			leaf:       2,
			address:    "0xfd267dd115C1e486369D3A5ddF26B8c12f16FdDA",
			privateKey: "65dcc260223748646ffc09247feeb98ea0a96f6b9d11b712987e2465ef424dca",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := address.NewService(tt.mode)

			key, err := svc.Derive(tt.mnemonic, tt.leaf)
			require.NoError(t, err)

			assert.Equal(t, tt.address, key.Address)
			assert.Equal(t, tt.privateKey, key.PrivateKey)
			assert.Equal(t, address.BIP44Path(0, tt.leaf), key.Path)
		})
	}
}

func TestDeriveIsDeterministic(t *testing.T) {
	svc := address.NewService(seed.ValidationStrict)

	first, err := svc.Derive(hardhatMnemonic, 7)
	require.NoError(t, err)

	second, err := svc.Derive(hardhatMnemonic, 7)
	require.NoError(t, err)

	assert.Equal(t, first, second)

	other, err := svc.Derive(hardhatMnemonic, 8)
	require.NoError(t, err)
	assert.NotEqual(t, first.Address, other.Address)
	assert.NotEqual(t, first.PrivateKey, other.PrivateKey)
}

func TestDeriveRootRejectsInvalidMnemonic(t *testing.T) {
	strict := address.NewService(seed.ValidationStrict)

	_, err := strict.DeriveRoot(legacyMnemonic)
	require.ErrorIs(t, err, seed.ErrInvalidMnemonic)

	_, err = strict.DeriveRoot("too short")
	require.ErrorIs(t, err, seed.ErrInvalidMnemonic)

	words := address.NewService(seed.ValidationWords)
	_, err = words.DeriveRoot("too short")
	require.ErrorIs(t, err, seed.ErrInvalidMnemonic)
}

func TestDerivePathMatchesDeriveLeaf(t *testing.T) {
	svc := address.NewService(seed.ValidationStrict)

	root, err := svc.DeriveRoot(hardhatMnemonic)
	require.NoError(t, err)

	viaPath, err := svc.DerivePath(root, "m/44'/60'/0'/0/1")
	require.NoError(t, err)

	viaLeaf, err := svc.DeriveLeaf(root, 0, 1)
	require.NoError(t, err)

	assert.Equal(t, viaLeaf, viaPath)

	_, err = svc.DerivePath(root, "44'/60'")
	require.Error(t, err)

	_, err = svc.DeriveLeaf(nil, 0, 0)
	require.Error(t, err)
}

func TestParsePath(t *testing.T) {
	indices, err := address.ParsePath("m/44'/60'/0'/0/5")
	require.NoError(t, err)
	assert.Equal(t, []uint32{0x8000002c, 0x8000003c, 0x80000000, 0, 5}, indices)

	indices, err = address.ParsePath("m/44h/60h")
	require.NoError(t, err)
	assert.Equal(t, []uint32{0x8000002c, 0x8000003c}, indices)

	for _, bad := range []string{"", "x/1", "m/abc", "m/-1", "m/2147483648"} {
		_, err := address.ParsePath(bad)
		assert.Error(t, err, bad)
	}
}

func TestIsValid(t *testing.T) {
	tests := []struct {
		in    string
		valid bool
	}{
		{"0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266", true},
		{"0xf39fd6e51aad88f6f4ce6ab8827279cfffb92266", true},
		{"0xF39FD6E51AAD88F6F4CE6AB8827279CFFFB92266", true},
		{"0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92267", false},
		{"0xF39fd6e51aad88F6F4ce6aB8827279cffFb92266", false},
		{"f39fd6e51aad88f6f4ce6ab8827279cfffb92266", false},
		{"0xf39fd6e51aad88f6f4ce6ab8827279cfffb9226", false},
		{"0xg39fd6e51aad88f6f4ce6ab8827279cfffb92266", false},
		{"", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.valid, address.IsValid(tt.in), tt.in)
	}
}

func TestChecksum(t *testing.T) {
	assert.Equal(t,
		"0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266",
		address.Checksum("0xf39fd6e51aad88f6f4ce6ab8827279cfffb92266"))
}
