// Package seed generates, normalises and validates BIP-39 recovery phrases and turns
// them into BIP-32 seeds.
package seed

import (
	"crypto/sha512"
	"strings"

	"github.com/pkg/errors"
	"github.com/tyler-smith/go-bip39"
	"golang.org/x/crypto/pbkdf2"
)

// MnemonicEntropyBits is the entropy size for generated 12-word phrases.
const MnemonicEntropyBits = 128

// ValidationMode selects how strictly a supplied phrase is checked.
type ValidationMode string

const (
	// ValidationStrict requires wordlist membership and a valid BIP-39 checksum.
	ValidationStrict ValidationMode = "strict"
	// ValidationWords only requires a standard word count. Phrases imported from the
	// legacy store are not always wordlist valid.
	ValidationWords ValidationMode = "words"
)

var (
	ErrInvalidMnemonic = errors.New("invalid mnemonic")

	validWordCounts = map[int]struct{}{12: {}, 15: {}, 18: {}, 21: {}, 24: {}}
)

// GenerateMnemonic creates a new 12-word English phrase from crypto/rand entropy.
func GenerateMnemonic() (string, error) {
	entropy, err := bip39.NewEntropy(MnemonicEntropyBits)
	if err != nil {
		return "", errors.Wrap(err, "failed to generate entropy")
	}

	mnemonic, err := bip39.NewMnemonic(entropy)
	if err != nil {
		return "", errors.Wrap(err, "failed to generate mnemonic")
	}

	return mnemonic, nil
}

// NormalizeMnemonic trims the phrase and collapses all whitespace runs to one space.
// Case is kept: the seed is derived from the exact phrase.
func NormalizeMnemonic(mnemonic string) string {
	return strings.Join(strings.Fields(mnemonic), " ")
}

// ValidateMnemonic checks an already normalised phrase according to mode.
// Unknown modes are treated as strict.
func ValidateMnemonic(mnemonic string, mode ValidationMode) error {
	words := strings.Fields(mnemonic)
	if _, ok := validWordCounts[len(words)]; !ok {
		return errors.Wrapf(ErrInvalidMnemonic, "unexpected word count %d", len(words))
	}

	if mode == ValidationWords {
		return nil
	}

	if !bip39.IsMnemonicValid(mnemonic) {
		return errors.Wrap(ErrInvalidMnemonic, "wordlist or checksum mismatch")
	}

	return nil
}

// FromMnemonic converts a mnemonic to its 64-byte seed.
// BIP39: seed = PBKDF2(mnemonic, "mnemonic" + passphrase, 2048, 64, SHA512)
func FromMnemonic(mnemonic string, passphrase string) []byte {
	const (
		pbkdf2Iterations = 2048
		pbkdf2KeyLength  = 64
	)

	return pbkdf2.Key(
		[]byte(mnemonic),
		[]byte("mnemonic"+passphrase),
		pbkdf2Iterations,
		pbkdf2KeyLength,
		sha512.New,
	)
}

// Clear zeroes a seed in place.
func Clear(seed []byte) {
	for i := range seed {
		seed[i] = 0
	}
}
