package wallet

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"golang.org/x/term"
)

// PromptMnemonic reads a recovery phrase from the terminal without echoing it.
//
//nolint:forbidigo // Secret input requires direct terminal I/O
func PromptMnemonic(prompt string) (string, error) {
	fd := int(os.Stdin.Fd()) //nolint:gosec // file descriptors fit into int
	if !term.IsTerminal(fd) {
		return "", errors.New("stdin is not a terminal")
	}

	fmt.Fprint(os.Stderr, prompt)

	phrase, err := term.ReadPassword(fd)
	if err != nil {
		return "", errors.Wrap(err, "failed to read mnemonic from terminal")
	}

	fmt.Fprintln(os.Stderr)

	return string(phrase), nil
}
